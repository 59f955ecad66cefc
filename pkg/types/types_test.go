package types

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"testing"
	"time"
)

func sampleResult() *AnalysisResult {
	return &AnalysisResult{
		ID:       "7c2f9a1e-0000-0000-0000-000000000000",
		Name:     "Leafy Green Salad",
		Calories: 120,
		Nutrients: Nutrients{
			Protein: 4,
			Carbs:   14,
			Fat:     6,
			Fiber:   5,
		},
		Allergens:   []string{"nuts"},
		HealthScore: 92,
		ColorDistribution: ColorDistribution{
			BucketGreen:   61.5,
			BucketNeutral: 20.2,
			BucketBrown:   10.0,
		},
		Confidence: 0.615,
		Timestamp:  time.Date(2025, 3, 14, 12, 30, 0, 0, time.UTC),
	}
}

func TestExportJSONRoundTrip(t *testing.T) {
	original := sampleResult()

	doc, err := original.ExportJSON()
	if err != nil {
		t.Fatal(err)
	}

	parsed, err := ParseAnalysisResult(doc)
	if err != nil {
		t.Fatal(err)
	}

	if parsed.ID != original.ID {
		t.Errorf("ID mismatch: %s vs %s", parsed.ID, original.ID)
	}
	if parsed.Name != original.Name {
		t.Errorf("Name mismatch: %s vs %s", parsed.Name, original.Name)
	}
	if parsed.Calories != original.Calories {
		t.Errorf("Calories mismatch: %d vs %d", parsed.Calories, original.Calories)
	}
	if parsed.Nutrients != original.Nutrients {
		t.Errorf("Nutrients mismatch: %+v vs %+v", parsed.Nutrients, original.Nutrients)
	}
	if !reflect.DeepEqual(parsed.Allergens, original.Allergens) {
		t.Errorf("Allergens mismatch: %v vs %v", parsed.Allergens, original.Allergens)
	}
	if parsed.HealthScore != original.HealthScore {
		t.Errorf("HealthScore mismatch: %d vs %d", parsed.HealthScore, original.HealthScore)
	}
	if !reflect.DeepEqual(parsed.ColorDistribution, original.ColorDistribution) {
		t.Errorf("ColorDistribution mismatch: %v vs %v", parsed.ColorDistribution, original.ColorDistribution)
	}
	if parsed.Confidence != original.Confidence {
		t.Errorf("Confidence mismatch: %f vs %f", parsed.Confidence, original.Confidence)
	}
	if !parsed.Timestamp.Equal(original.Timestamp) {
		t.Errorf("Timestamp mismatch: %v vs %v", parsed.Timestamp, original.Timestamp)
	}
}

func TestExportJSONFormat(t *testing.T) {
	doc, err := sampleResult().ExportJSON()
	if err != nil {
		t.Fatal(err)
	}

	text := string(doc)
	if !strings.Contains(text, "\n  \"name\"") {
		t.Error("output should be pretty-printed with 2-space indent")
	}
	for _, key := range []string{"name", "calories", "nutrients", "allergens", "healthScore", "color_distribution", "timestamp"} {
		if !strings.Contains(text, fmt.Sprintf("%q", key)) {
			t.Errorf("output missing key %q", key)
		}
	}
}

func TestRecordClone(t *testing.T) {
	rec := FoodCategoryRecord{
		Name:      "Mixed Plate",
		Allergens: []string{"gluten", "dairy"},
	}

	clone := rec.Clone()
	clone.Allergens[0] = "mutated"

	if rec.Allergens[0] != "gluten" {
		t.Error("Clone should duplicate the allergen slice")
	}
}

func TestDistributionClone(t *testing.T) {
	dist := ColorDistribution{BucketRed: 50.0}

	clone := dist.Clone()
	clone[BucketRed] = 1.0

	if dist[BucketRed] != 50.0 {
		t.Error("Clone should produce an independent map")
	}
}

func TestNewErrorResult(t *testing.T) {
	cases := []struct {
		err  error
		want string
	}{
		{fmt.Errorf("%w: too bright", ErrNoFood), CategoryNoFood},
		{fmt.Errorf("%w: boom", ErrRemoteService), CategoryRemoteService},
		{ErrMissingCredential, CategoryRemoteService},
		{fmt.Errorf("%w: bad bytes", ErrDecode), CategoryProcessingFailed},
		{errors.New("anything else"), CategoryProcessingFailed},
	}

	for _, tc := range cases {
		got := NewErrorResult(tc.err)
		if got.Error != tc.want {
			t.Errorf("NewErrorResult(%v).Error = %s, want %s", tc.err, got.Error, tc.want)
		}
		if got.Detail == "" {
			t.Errorf("NewErrorResult(%v) should carry detail text", tc.err)
		}
	}
}

func TestErrorResultJSON(t *testing.T) {
	doc, err := json.Marshal(NewErrorResult(ErrNoFood))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(doc), `"error":"no_food_detected"`) {
		t.Errorf("unexpected document: %s", doc)
	}
}
