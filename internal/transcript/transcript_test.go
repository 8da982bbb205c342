package transcript

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/redlinehq/redline/internal/models"
	"github.com/redlinehq/redline/internal/refinement"
)

func sampleRun() *refinement.Run {
	start := time.Date(2026, 8, 12, 9, 30, 0, 0, time.UTC)
	return &refinement.Run{
		ID:          "run-abc123",
		Recipient:   "drafter",
		StartedAt:   start,
		CompletedAt: start.Add(42 * time.Second),
		Termination: refinement.TerminationTargetReached,
		Iterations: []refinement.Iteration{
			{
				Number:    1,
				Narrative: models.Narrative{ID: "n-1", Text: "first draft", CreatedAt: start},
				Result: &models.EvaluationResult{
					NarrativeID:     "n-1",
					RiskScore:       55,
					Classification:  models.NonQualifying,
					RiskCategory:    models.RiskHigh,
					ComponentScores: map[string]int{"vagueness": 20, models.TotalPenaltyKey: 55},
					RulesVersion:    "2026.08",
				},
				Critique: &refinement.Critique{RiskScore: 55, Summary: "too vague"},
			},
			{
				Number:    2,
				Narrative: models.Narrative{ID: "n-2", Text: "second draft", CreatedAt: start.Add(20 * time.Second)},
				Result: &models.EvaluationResult{
					NarrativeID:     "n-2",
					RiskScore:       10,
					Classification:  models.Qualifying,
					RiskCategory:    models.RiskLow,
					ComponentScores: map[string]int{models.TotalPenaltyKey: 10},
					RulesVersion:    "2026.08",
				},
			},
		},
	}
}

func TestFilename(t *testing.T) {
	ts := time.Date(2026, 8, 12, 9, 30, 15, 0, time.UTC)
	name := Filename("Run ABC/123", ts)
	require.Equal(t, "run-abc123-20260812-093015.json.gz", name)
}

func TestFilenameEmptyID(t *testing.T) {
	ts := time.Date(2026, 8, 12, 9, 30, 15, 0, time.UTC)
	require.True(t, strings.HasPrefix(Filename("///", ts), "unnamed-"))
}

func TestWriteReadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	run := sampleRun()

	path, err := Write(dir, run)
	require.NoError(t, err)
	require.True(t, strings.HasSuffix(path, ".json.gz"))

	loaded, err := Read(path)
	require.NoError(t, err)

	require.Equal(t, run.ID, loaded.ID)
	require.Equal(t, run.Termination, loaded.Termination)
	require.Len(t, loaded.Iterations, 2)
	require.Equal(t, run.Iterations[0].Result.RiskScore, loaded.Iterations[0].Result.RiskScore)
	require.Equal(t, "too vague", loaded.Iterations[0].Critique.Summary)
	require.Nil(t, loaded.Iterations[1].Critique)
	require.True(t, run.StartedAt.Equal(loaded.StartedAt))
}

func TestReadRejectsGarbage(t *testing.T) {
	dir := t.TempDir()
	run := sampleRun()
	path, err := Write(dir, run)
	require.NoError(t, err)

	// A plain-text file is not a gzip stream.
	_, err = Read(path + ".missing")
	require.Error(t, err)
}
