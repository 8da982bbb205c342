package statistics

import (
	"errors"
	"math"
	"testing"

	"github.com/redlinehq/redline/internal/models"
)

func pair(pred, exp models.Classification) LabelPair {
	return LabelPair{Predicted: pred, Expected: exp}
}

func TestCohenKappa_PerfectAgreement(t *testing.T) {
	pairs := []LabelPair{
		pair(models.Qualifying, models.Qualifying),
		pair(models.NonQualifying, models.NonQualifying),
		pair(models.Qualifying, models.Qualifying),
		pair(models.NonQualifying, models.NonQualifying),
	}
	res, err := CohenKappa(pairs)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !res.Defined {
		t.Fatal("kappa should be defined with mixed labels")
	}
	if math.Abs(res.Kappa-1.0) > 1e-9 {
		t.Errorf("expected kappa 1.0 for perfect agreement, got %f", res.Kappa)
	}
	if res.Observed != 1.0 {
		t.Errorf("expected observed agreement 1.0, got %f", res.Observed)
	}
}

func TestCohenKappa_ChanceLevelAgreement(t *testing.T) {
	// Predictions unrelated to labels: each 2x2 cell appears once, so
	// observed agreement equals chance agreement and kappa is 0.
	pairs := []LabelPair{
		pair(models.Qualifying, models.Qualifying),
		pair(models.Qualifying, models.NonQualifying),
		pair(models.NonQualifying, models.Qualifying),
		pair(models.NonQualifying, models.NonQualifying),
	}
	res, err := CohenKappa(pairs)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !res.Defined {
		t.Fatal("kappa should be defined with mixed labels")
	}
	if math.Abs(res.Kappa) > 1e-9 {
		t.Errorf("expected kappa ~0 for chance-level agreement, got %f", res.Kappa)
	}
}

func TestCohenKappa_UndefinedOnZeroVariance(t *testing.T) {
	// Both raters say QUALIFYING for everything. Chance agreement is 1 and
	// kappa has no value, which must not be reported as 0 or NaN.
	pairs := []LabelPair{
		pair(models.Qualifying, models.Qualifying),
		pair(models.Qualifying, models.Qualifying),
		pair(models.Qualifying, models.Qualifying),
	}
	res, err := CohenKappa(pairs)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Defined {
		t.Error("kappa should be undefined when both raters use one category")
	}
	if res.Observed != 1.0 {
		t.Errorf("observed agreement should still be reported, got %f", res.Observed)
	}
	if res.Chance != 1.0 {
		t.Errorf("chance agreement should be 1.0, got %f", res.Chance)
	}
}

func TestCohenKappa_Disagreement(t *testing.T) {
	pairs := []LabelPair{
		pair(models.Qualifying, models.NonQualifying),
		pair(models.NonQualifying, models.Qualifying),
		pair(models.Qualifying, models.NonQualifying),
		pair(models.NonQualifying, models.Qualifying),
	}
	res, err := CohenKappa(pairs)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Kappa >= 0 {
		t.Errorf("systematic disagreement should give negative kappa, got %f", res.Kappa)
	}
}

func TestCohenKappa_Empty(t *testing.T) {
	_, err := CohenKappa(nil)
	if !errors.Is(err, ErrInsufficientData) {
		t.Errorf("expected ErrInsufficientData, got %v", err)
	}
}
