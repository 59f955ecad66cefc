package types

import (
	"encoding/json"
	"time"
)

// Bucket names produced by the color profiler. Every pixel is assigned to
// exactly one bucket by ordered first-match rules.
const (
	BucketDark    = "dark"
	BucketLight   = "light"
	BucketRed     = "red"
	BucketGreen   = "green"
	BucketBlue    = "blue"
	BucketBrown   = "brown"
	BucketYellow  = "yellow"
	BucketNeutral = "neutral"
)

// Buckets lists all color buckets in lexicographic order.
var Buckets = []string{
	BucketBlue,
	BucketBrown,
	BucketDark,
	BucketGreen,
	BucketLight,
	BucketNeutral,
	BucketRed,
	BucketYellow,
}

// ColorDistribution maps a bucket name to the percentage of pixels assigned
// to it, rounded to one decimal. Values are in [0,100]; they need not sum to
// exactly 100 after rounding.
type ColorDistribution map[string]float64

// Clone returns an independent copy of the distribution.
func (d ColorDistribution) Clone() ColorDistribution {
	out := make(ColorDistribution, len(d))
	for k, v := range d {
		out[k] = v
	}
	return out
}

// Nutrients holds macronutrient quantities in grams.
type Nutrients struct {
	Protein float64 `json:"protein"`
	Carbs   float64 `json:"carbs"`
	Fat     float64 `json:"fat"`
	Fiber   float64 `json:"fiber"`
}

// FoodCategoryRecord is a static catalog entry. Records are seeded at process
// start and never mutated; lookups hand out copies.
type FoodCategoryRecord struct {
	Name        string    `json:"name"`
	Calories    int       `json:"calories"`
	Nutrients   Nutrients `json:"nutrients"`
	Allergens   []string  `json:"allergens"`
	HealthScore int       `json:"healthScore"`
}

// Clone returns a copy of the record with its allergen slice duplicated, so
// callers can never alias catalog storage.
func (r FoodCategoryRecord) Clone() FoodCategoryRecord {
	out := r
	out.Allergens = make([]string, len(r.Allergens))
	copy(out.Allergens, r.Allergens)
	return out
}

// AnalysisResult is the merged output of the catalog pipeline: the selected
// category record, the color distribution that produced it, a confidence
// score and a timestamp. It is created per analysis call and owned by the
// caller.
type AnalysisResult struct {
	ID                string            `json:"id"`
	Name              string            `json:"name"`
	Calories          int               `json:"calories"`
	Nutrients         Nutrients         `json:"nutrients"`
	Allergens         []string          `json:"allergens"`
	HealthScore       int               `json:"healthScore"`
	ColorDistribution ColorDistribution `json:"color_distribution"`
	Confidence        float64           `json:"confidence"`
	Timestamp         time.Time         `json:"timestamp"`
}

// ExportJSON renders the result as a pretty-printed UTF-8 JSON document with
// two-space indentation.
func (r *AnalysisResult) ExportJSON() ([]byte, error) {
	return json.MarshalIndent(r, "", "  ")
}

// ParseAnalysisResult parses a JSON document previously produced by
// ExportJSON.
func ParseAnalysisResult(data []byte) (*AnalysisResult, error) {
	var r AnalysisResult
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, err
	}
	return &r, nil
}
