package dataset

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/redlinehq/redline/internal/models"
)

func writeCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "samples.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadSamples(t *testing.T) {
	path := writeCSV(t, `id,text,expected
n-1,"We tested a hypothesis about cache latency.",QUALIFYING
n-2,"Routine maintenance work.",NON_QUALIFYING
`)

	batch, err := LoadSamples(path)
	require.NoError(t, err)
	require.Len(t, batch, 2)

	require.Equal(t, "n-1", batch[0].ID)
	require.Equal(t, models.Qualifying, batch[0].Expected)
	require.Equal(t, "Routine maintenance work.", batch[1].Text)
	require.Equal(t, models.NonQualifying, batch[1].Expected)
}

func TestLoadSamplesAlternateColumns(t *testing.T) {
	// narrative/label column aliases, no id column.
	path := writeCSV(t, `narrative,label
"Some narrative text.",pass
"Another narrative.",fail
`)

	batch, err := LoadSamples(path)
	require.NoError(t, err)
	require.Len(t, batch, 2)
	require.Equal(t, "row-1", batch[0].ID)
	require.Equal(t, models.Qualifying, batch[0].Expected)
	require.Equal(t, models.NonQualifying, batch[1].Expected)
}

func TestLoadSamplesRejectsBadLabel(t *testing.T) {
	path := writeCSV(t, `text,expected
"Some text.",MAYBE
`)
	_, err := LoadSamples(path)
	require.ErrorContains(t, err, "invalid expected label")
}

func TestLoadSamplesRejectsMissingText(t *testing.T) {
	path := writeCSV(t, `text,expected
"",QUALIFYING
`)
	_, err := LoadSamples(path)
	require.ErrorContains(t, err, "no text")
}

func TestLoadCSVRejectsRaggedRows(t *testing.T) {
	path := writeCSV(t, "a,b,c\n1,2\n")
	_, err := LoadCSV(path)
	require.Error(t, err)
}

func TestLoadSamplesMissingFile(t *testing.T) {
	_, err := LoadSamples(filepath.Join(t.TempDir(), "missing.csv"))
	require.Error(t, err)
}
