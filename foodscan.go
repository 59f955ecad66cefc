// Package foodscan provides a food-image analysis pipeline.
//
// The pipeline validates and normalizes an uploaded image, computes a
// categorical color distribution over its pixels, classifies the dominant
// color bucket into a food category and merges the matching nutrition
// catalog record into a single analysis result.
//
// Basic usage:
//
//	package main
//
//	import (
//		"fmt"
//		"log"
//		"os"
//
//		"github.com/foodent/foodscan"
//	)
//
//	func main() {
//		data, err := os.ReadFile("lunch.jpg")
//		if err != nil {
//			log.Fatal(err)
//		}
//
//		pipeline := foodscan.New()
//		result, err := pipeline.Analyze(data)
//		if err != nil {
//			log.Fatal(err)
//		}
//
//		doc, _ := result.ExportJSON()
//		fmt.Println(string(doc))
//	}
//
// An alternate path submits the image plus a free-text question to a hosted
// vision model (pkg/remote with a pkg/gemini or pkg/ollama backend) and
// returns opaque text. The two paths are mutually exclusive: the remote path
// never produces a structured AnalysisResult and is never merged with the
// catalog pipeline.
package foodscan

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"time"

	"github.com/google/uuid"

	"github.com/foodent/foodscan/pkg/catalog"
	"github.com/foodent/foodscan/pkg/classify"
	"github.com/foodent/foodscan/pkg/ingest"
	"github.com/foodent/foodscan/pkg/profile"
	"github.com/foodent/foodscan/pkg/types"
)

// Version of the foodscan library
const Version = "1.0.0"

// Pipeline ties the analysis stages together: ingest, color profiling,
// classification and catalog lookup. It is stateless per call and safe for
// concurrent use.
type Pipeline struct {
	ingestor   *ingest.Ingestor
	profiler   *profile.Profiler
	classifier *classify.Classifier
	catalog    *catalog.Catalog
}

// New creates a Pipeline with default configuration and the built-in
// catalog.
func New() *Pipeline {
	return &Pipeline{
		ingestor:   ingest.New(),
		profiler:   profile.New(),
		classifier: classify.New(),
		catalog:    catalog.New(),
	}
}

// NewWithConfig creates a Pipeline with custom stage configuration. The
// catalog is checked for completeness against every key the classifier can
// produce, so lookups cannot fail mid-request.
func NewWithConfig(ingestConfig ingest.Config, profileConfig profile.Config, classifyConfig classify.Config, cat *catalog.Catalog) (*Pipeline, error) {
	if cat == nil {
		cat = catalog.New()
	}
	if err := cat.Validate(classify.CategoryKeys()); err != nil {
		return nil, err
	}
	return &Pipeline{
		ingestor:   ingest.NewWithConfig(ingestConfig),
		profiler:   profile.NewWithConfig(profileConfig),
		classifier: classify.NewWithConfig(classifyConfig),
		catalog:    cat,
	}, nil
}

// Analyze runs the full pipeline on raw encoded image bytes.
func (p *Pipeline) Analyze(data []byte) (*types.AnalysisResult, error) {
	img, err := p.ingestor.Ingest(data)
	if err != nil {
		return nil, err
	}
	return p.assemble(img)
}

// AnalyzeImage runs the pipeline on an already decoded image. The image is
// normalized and screened the same way as uploaded bytes.
func (p *Pipeline) AnalyzeImage(img image.Image) (*types.AnalysisResult, error) {
	normalized := p.ingestor.Normalize(img)
	if err := p.ingestor.Screen(normalized); err != nil {
		return nil, err
	}
	return p.assemble(normalized)
}

// assemble merges the classifier decision, the catalog record copy and the
// distribution into one result owned by the caller.
func (p *Pipeline) assemble(img image.Image) (*types.AnalysisResult, error) {
	dist := p.profiler.Profile(img)
	decision := p.classifier.Classify(dist)

	record, err := p.catalog.Get(decision.CategoryKey)
	if err != nil {
		return nil, fmt.Errorf("classifier produced uncovered key: %w", err)
	}

	return &types.AnalysisResult{
		ID:                uuid.New().String(),
		Name:              record.Name,
		Calories:          record.Calories,
		Nutrients:         record.Nutrients,
		Allergens:         record.Allergens,
		HealthScore:       record.HealthScore,
		ColorDistribution: dist,
		Confidence:        decision.Confidence,
		Timestamp:         time.Now().UTC(),
	}, nil
}

// PrepareForRemote decodes and normalizes uploaded bytes, then re-encodes
// them as JPEG for submission to a remote vision model. No food screen is
// applied; the remote model judges content itself.
func (p *Pipeline) PrepareForRemote(data []byte) ([]byte, error) {
	img, err := p.ingestor.Decode(data)
	if err != nil {
		return nil, err
	}
	normalized := p.ingestor.Normalize(img)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, normalized, &jpeg.Options{Quality: 85}); err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}
	return buf.Bytes(), nil
}

// Catalog exposes the pipeline's catalog for inspection.
func (p *Pipeline) Catalog() *catalog.Catalog {
	return p.catalog
}

// GetVersion returns the library version.
func GetVersion() string {
	return Version
}
