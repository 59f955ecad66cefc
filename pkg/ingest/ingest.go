package ingest

import (
	"bytes"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"math"

	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp"

	"github.com/foodent/foodscan/pkg/types"
)

// Ingestor validates and normalizes uploaded image bytes: decode, color-mode
// coercion and a bounding resize so the longer edge never exceeds MaxEdge.
type Ingestor struct {
	config Config
}

// Config holds configuration for image ingestion.
type Config struct {
	// MaxEdge bounds the longer image edge in pixels. Images are never
	// upscaled.
	MaxEdge int
	// MinStdDev is the minimum pixel intensity standard deviation for the
	// food-likeliness screen.
	MinStdDev float64
	// MinMean and MaxMean bound the acceptable mean pixel intensity.
	MinMean float64
	MaxMean float64
}

// DefaultConfig returns the ingest defaults.
func DefaultConfig() Config {
	return Config{
		MaxEdge:   800,
		MinStdDev: 20,
		MinMean:   30,
		MaxMean:   225,
	}
}

// New creates an Ingestor with default configuration.
func New() *Ingestor {
	return &Ingestor{config: DefaultConfig()}
}

// NewWithConfig creates an Ingestor with custom configuration.
func NewWithConfig(config Config) *Ingestor {
	return &Ingestor{config: config}
}

// Decode decodes raw JPEG, PNG or WebP bytes. The input is never mutated.
func (in *Ingestor) Decode(data []byte) (image.Image, error) {
	if img, _, err := image.Decode(bytes.NewReader(data)); err == nil {
		return img, nil
	}

	// Fallback: explicit WebP decode for encoders the registry misses.
	if img, err := webp.Decode(bytes.NewReader(data)); err == nil {
		return img, nil
	}

	return nil, fmt.Errorf("%w: unknown or unsupported format", types.ErrDecode)
}

// Normalize coerces an image to a canonical 3-channel representation and
// applies the bounding resize. The source image is left untouched.
func (in *Ingestor) Normalize(img image.Image) *image.NRGBA {
	return imaging.Clone(in.bound(img))
}

// NormalizeGray coerces an image to a single intensity channel for
// grayscale-only analyses, applying the same bounding resize.
func (in *Ingestor) NormalizeGray(img image.Image) *image.Gray {
	src := in.bound(img)
	bounds := src.Bounds()
	gray := image.NewGray(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			gray.Set(x-bounds.Min.X, y-bounds.Min.Y, src.At(x, y))
		}
	}
	return gray
}

func (in *Ingestor) bound(img image.Image) image.Image {
	if in.config.MaxEdge <= 0 {
		return img
	}
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w <= in.config.MaxEdge && h <= in.config.MaxEdge {
		return img
	}
	if w >= h {
		return imaging.Resize(img, in.config.MaxEdge, 0, imaging.Lanczos)
	}
	return imaging.Resize(img, 0, in.config.MaxEdge, imaging.Lanczos)
}

// Stats holds intensity statistics over an image.
type Stats struct {
	Mean   float64
	StdDev float64
}

// ComputeStats calculates the mean and standard deviation of per-pixel
// intensity on a 0-255 scale.
func (in *Ingestor) ComputeStats(img image.Image) Stats {
	bounds := img.Bounds()
	total := bounds.Dx() * bounds.Dy()
	if total == 0 {
		return Stats{}
	}

	var sum, sumSq float64
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r, g, b, _ := img.At(x, y).RGBA()
			intensity := (float64(r>>8) + float64(g>>8) + float64(b>>8)) / 3.0
			sum += intensity
			sumSq += intensity * intensity
		}
	}

	mean := sum / float64(total)
	variance := sumSq/float64(total) - mean*mean
	if variance < 0 {
		variance = 0
	}
	return Stats{Mean: mean, StdDev: math.Sqrt(variance)}
}

// Screen applies the food-likeliness heuristic: images with near-uniform
// pixels or extreme mean brightness are rejected as non-food.
func (in *Ingestor) Screen(img image.Image) error {
	stats := in.ComputeStats(img)
	if stats.StdDev <= in.config.MinStdDev {
		return fmt.Errorf("%w: pixel variation too low (stddev %.1f)", types.ErrNoFood, stats.StdDev)
	}
	if stats.Mean < in.config.MinMean || stats.Mean > in.config.MaxMean {
		return fmt.Errorf("%w: mean intensity %.1f outside [%.0f, %.0f]", types.ErrNoFood,
			stats.Mean, in.config.MinMean, in.config.MaxMean)
	}
	return nil
}

// Ingest decodes, screens and normalizes uploaded bytes in one step.
func (in *Ingestor) Ingest(data []byte) (*image.NRGBA, error) {
	img, err := in.Decode(data)
	if err != nil {
		return nil, err
	}
	normalized := in.Normalize(img)
	if err := in.Screen(normalized); err != nil {
		return nil, err
	}
	return normalized, nil
}
