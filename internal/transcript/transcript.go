// Package transcript persists refinement runs as compressed JSON so a
// session can be audited or replayed after the fact.
package transcript

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/klauspost/compress/gzip"

	"github.com/redlinehq/redline/internal/refinement"
)

// sanitize replaces characters that are unsafe in filenames.
var unsafeChars = regexp.MustCompile(`[^a-zA-Z0-9_-]`)

func sanitizeName(name string) string {
	s := strings.ToLower(strings.TrimSpace(name))
	s = strings.ReplaceAll(s, " ", "-")
	s = unsafeChars.ReplaceAllString(s, "")
	if s == "" {
		s = "unnamed"
	}
	return s
}

// Filename returns the transcript filename for a run.
func Filename(runID string, ts time.Time) string {
	return fmt.Sprintf("%s-%s.json.gz", sanitizeName(runID), ts.Format("20060102-150405"))
}

// Write serializes a refinement run to dir as gzipped JSON and returns
// the path written.
func Write(dir string, run *refinement.Run) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create transcript dir: %w", err)
	}

	name := Filename(run.ID, run.StartedAt)
	path := filepath.Join(dir, name)

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create transcript: %w", err)
	}
	defer f.Close() //nolint:errcheck

	zw := gzip.NewWriter(f)
	enc := json.NewEncoder(zw)
	enc.SetIndent("", "  ")
	if err := enc.Encode(run); err != nil {
		return "", fmt.Errorf("marshal transcript: %w", err)
	}
	if err := zw.Close(); err != nil {
		return "", fmt.Errorf("finish transcript: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("write transcript: %w", err)
	}

	return path, nil
}

// Read loads a transcript written by Write.
func Read(path string) (*refinement.Run, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open transcript: %w", err)
	}
	defer f.Close() //nolint:errcheck

	zr, err := gzip.NewReader(f)
	if err != nil {
		return nil, fmt.Errorf("read transcript: %w", err)
	}
	defer zr.Close() //nolint:errcheck

	var run refinement.Run
	if err := json.NewDecoder(zr).Decode(&run); err != nil {
		return nil, fmt.Errorf("decode transcript: %w", err)
	}
	return &run, nil
}
