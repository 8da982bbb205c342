package models

import (
	"time"

	"github.com/google/uuid"
)

// Narrative is the unit of evaluation: an immutable text blob with an
// identifier. Revisions within a refinement run supersede earlier
// narratives rather than editing them.
type Narrative struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
}

// NewNarrative wraps raw text in a Narrative with a fresh identifier.
func NewNarrative(text string) Narrative {
	return Narrative{
		ID:        uuid.NewString(),
		Text:      text,
		CreatedAt: time.Now().UTC(),
	}
}
