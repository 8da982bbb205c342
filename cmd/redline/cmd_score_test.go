package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/redlinehq/redline/internal/models"
)

func runCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func writeNarrative(t *testing.T, text string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "narrative.txt")
	require.NoError(t, os.WriteFile(path, []byte(text), 0o644))
	return path
}

const strongNarrative = "We formed a hypothesis that the cache eviction policy caused tail latency spikes. " +
	"We tested three alternative policies in a controlled experiment and measured latency from 120 ms " +
	"to 45 ms at the 99th percentile. The first prototype did not work because the benchmark showed " +
	"memory pressure; therefore we concluded the segmented design was required after a failed trial run."

func TestScoreCommandQualifying(t *testing.T) {
	path := writeNarrative(t, strongNarrative)

	out, err := runCommand(t, "score", path)
	require.NoError(t, err)
	require.Contains(t, out, "QUALIFYING")
	require.Contains(t, out, "Risk score")
}

func TestScoreCommandNonQualifyingExit(t *testing.T) {
	path := writeNarrative(t, "We did routine maintenance for revenue.")

	out, err := runCommand(t, "score", path)
	require.Error(t, err)

	var nonQualifying *NonQualifyingError
	require.True(t, errors.As(err, &nonQualifying), "non-qualifying narratives must map to exit code 1")
	require.Contains(t, out, "NON_QUALIFYING")
}

func TestScoreCommandJSON(t *testing.T) {
	path := writeNarrative(t, strongNarrative)

	out, err := runCommand(t, "score", "--format", "json", path)
	require.NoError(t, err)

	var result models.EvaluationResult
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	require.Equal(t, models.Qualifying, result.Classification)
	require.Contains(t, result.ComponentScores, models.TotalPenaltyKey)
}

func TestScoreCommandUnknownFormat(t *testing.T) {
	path := writeNarrative(t, strongNarrative)

	_, err := runCommand(t, "score", "--format", "xml", path)
	require.ErrorContains(t, err, "unknown format")
}

func TestRulesShowCommand(t *testing.T) {
	out, err := runCommand(t, "rules", "show")
	require.NoError(t, err)
	require.Contains(t, out, "experimentation_evidence")
	require.Contains(t, out, "qualifying threshold")
}

func TestValidateCommand(t *testing.T) {
	csvPath := filepath.Join(t.TempDir(), "samples.csv")
	content := "id,text,expected\n" +
		"s-1,\"" + strongNarrative + "\",QUALIFYING\n" +
		"s-2,\"We did routine maintenance for revenue.\",NON_QUALIFYING\n"
	require.NoError(t, os.WriteFile(csvPath, []byte(content), 0o644))

	out, err := runCommand(t, "validate", csvPath)
	require.NoError(t, err)
	require.Contains(t, out, "Accuracy:  100.0%")
	require.Contains(t, out, "Kappa")
}

func TestNonQualifyingErrorMessage(t *testing.T) {
	err := &NonQualifyingError{Message: "narrative classified NON_QUALIFYING with risk score 77"}
	require.Equal(t, "narrative classified NON_QUALIFYING with risk score 77", err.Error())
}
