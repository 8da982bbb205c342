package models

// LabeledSample pairs a narrative with its known-correct classification.
// Samples are read-only reference data consumed by benchmark validation;
// the engine never produces them.
type LabeledSample struct {
	ID       string         `json:"id"`
	Text     string         `json:"text"`
	Expected Classification `json:"expected"`
}

// ValidationBatch is an ordered set of labeled samples.
type ValidationBatch []LabeledSample
