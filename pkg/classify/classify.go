package classify

import (
	"sort"

	"github.com/foodent/foodscan/pkg/types"
)

// MixedKey is the fallback category when no single bucket clearly dominates.
const MixedKey = "mixed"

// Classifier maps a color distribution to a catalog category key via
// dominant-bucket selection.
type Classifier struct {
	config Config
}

// Config holds classifier configuration.
type Config struct {
	// DominanceThreshold is the minimum percentage the top bucket must
	// reach for its own category; below it the result is "mixed". A value
	// exactly at the threshold counts as dominant.
	DominanceThreshold float64
}

// DefaultConfig returns the classifier defaults.
func DefaultConfig() Config {
	return Config{DominanceThreshold: 20.0}
}

// New creates a Classifier with the default dominance threshold.
func New() *Classifier {
	return &Classifier{config: DefaultConfig()}
}

// NewWithConfig creates a Classifier with a custom threshold.
func NewWithConfig(config Config) *Classifier {
	return &Classifier{config: config}
}

// Decision is the outcome of a classification.
type Decision struct {
	// CategoryKey is the catalog lookup key: "{bucket}_dominant" or "mixed".
	CategoryKey string
	// Bucket is the winning bucket, empty for a mixed result.
	Bucket string
	// TopPercentage is the winning bucket's share of pixels.
	TopPercentage float64
	// Confidence is TopPercentage scaled to [0,1].
	Confidence float64
}

// Classify selects the bucket with the maximum percentage. Exact ties are
// broken by lexicographic bucket name so the selection is stable.
func (c *Classifier) Classify(dist types.ColorDistribution) Decision {
	names := make([]string, 0, len(dist))
	for name := range dist {
		names = append(names, name)
	}
	sort.Strings(names)

	var topBucket string
	topPct := -1.0
	for _, name := range names {
		if dist[name] > topPct {
			topBucket = name
			topPct = dist[name]
		}
	}
	if topPct < 0 {
		topPct = 0
	}

	decision := Decision{
		TopPercentage: topPct,
		Confidence:    topPct / 100,
	}
	if topBucket == "" || topPct < c.config.DominanceThreshold {
		decision.CategoryKey = MixedKey
		return decision
	}
	decision.Bucket = topBucket
	decision.CategoryKey = topBucket + "_dominant"
	return decision
}

// CategoryKeys enumerates every key the classifier can produce. The catalog
// must cover all of them; validate at startup.
func CategoryKeys() []string {
	keys := make([]string, 0, len(types.Buckets)+1)
	for _, bucket := range types.Buckets {
		keys = append(keys, bucket+"_dominant")
	}
	keys = append(keys, MixedKey)
	return keys
}
