package profile

import (
	"image"
	"math"

	"github.com/foodent/foodscan/pkg/types"
)

// Profiler computes a categorical color distribution over an image. Each
// pixel is assigned to exactly one bucket by ordered threshold rules
// evaluated top to bottom; the first match wins.
type Profiler struct {
	config Config
}

// Config holds the bucket thresholds on an 8-bit channel scale.
type Config struct {
	// DarkMax is the upper bound for all channels of a "dark" pixel.
	DarkMax uint8
	// LightMin is the lower bound for all channels of a "light" pixel.
	LightMin uint8
	// DominanceMargin is how far a channel must exceed both others for a
	// red/green/blue classification.
	DominanceMargin int
	// BrownGap is the minimum red-blue gap for a "brown" pixel.
	BrownGap int
	// BrownRedMax caps the red channel for "brown"; brighter reds fall
	// through to the red rule.
	BrownRedMax uint8
	// YellowMin is the minimum red and green channel value for "yellow".
	YellowMin uint8
}

// DefaultConfig returns the profiler defaults.
func DefaultConfig() Config {
	return Config{
		DarkMax:         50,
		LightMin:        205,
		DominanceMargin: 40,
		BrownGap:        50,
		BrownRedMax:     180,
		YellowMin:       150,
	}
}

// New creates a Profiler with default thresholds.
func New() *Profiler {
	return &Profiler{config: DefaultConfig()}
}

// NewWithConfig creates a Profiler with custom thresholds.
func NewWithConfig(config Config) *Profiler {
	return &Profiler{config: config}
}

// Profile classifies every pixel and returns the bucket percentages rounded
// to one decimal. Same image in, same distribution out; there is no
// randomness anywhere in the rules.
func (p *Profiler) Profile(img image.Image) types.ColorDistribution {
	bounds := img.Bounds()
	total := bounds.Dx() * bounds.Dy()

	counts := make(map[string]int, len(types.Buckets))
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r16, g16, b16, _ := img.At(x, y).RGBA()
			counts[p.classifyPixel(uint8(r16>>8), uint8(g16>>8), uint8(b16>>8))]++
		}
	}

	dist := make(types.ColorDistribution, len(types.Buckets))
	for _, bucket := range types.Buckets {
		if total == 0 {
			dist[bucket] = 0
			continue
		}
		pct := float64(counts[bucket]) / float64(total) * 100
		dist[bucket] = math.Round(pct*10) / 10
	}
	return dist
}

// classifyPixel applies the ordered rules. Rule order matters: brown must be
// tested before red so muted warm tones do not count as red-dominant.
func (p *Profiler) classifyPixel(r, g, b uint8) string {
	c := p.config
	switch {
	case r < c.DarkMax && g < c.DarkMax && b < c.DarkMax:
		return types.BucketDark
	case r > c.LightMin && g > c.LightMin && b > c.LightMin:
		return types.BucketLight
	case r > g && g > b && int(r)-int(b) >= c.BrownGap && r < c.BrownRedMax:
		return types.BucketBrown
	case r >= c.YellowMin && g >= c.YellowMin &&
		int(r)-int(b) >= c.DominanceMargin && int(g)-int(b) >= c.DominanceMargin:
		return types.BucketYellow
	case int(r)-int(g) >= c.DominanceMargin && int(r)-int(b) >= c.DominanceMargin:
		return types.BucketRed
	case int(g)-int(r) >= c.DominanceMargin && int(g)-int(b) >= c.DominanceMargin:
		return types.BucketGreen
	case int(b)-int(r) >= c.DominanceMargin && int(b)-int(g) >= c.DominanceMargin:
		return types.BucketBlue
	default:
		return types.BucketNeutral
	}
}
