package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/foodent/foodscan"
	"github.com/foodent/foodscan/internal/config"
	"github.com/foodent/foodscan/internal/utils"
	"github.com/foodent/foodscan/pkg/classify"
	"github.com/foodent/foodscan/pkg/client"
	"github.com/foodent/foodscan/pkg/gemini"
	"github.com/foodent/foodscan/pkg/ingest"
	"github.com/foodent/foodscan/pkg/ollama"
	"github.com/foodent/foodscan/pkg/profile"
	"github.com/foodent/foodscan/pkg/remote"
	"github.com/foodent/foodscan/pkg/types"
)

func main() {
	var in, mode, query, backend, url, model, configPath, out string
	var maxEdge int
	var threshold float64

	flag.StringVar(&in, "in", "", "input image path (jpg/png/webp)")
	flag.StringVar(&mode, "mode", "catalog", "analysis mode: catalog or remote")
	flag.StringVar(&query, "query", "What can you tell me about this food?", "free-text query for remote mode")
	flag.StringVar(&backend, "backend", "", "remote backend: gemini or ollama (default from config)")
	flag.StringVar(&url, "url", "", "ollama server URL (default http://localhost:11434)")
	flag.StringVar(&model, "model", "", "vision model name (default from config)")
	flag.StringVar(&configPath, "config", "", "path to JSON config file")
	flag.StringVar(&out, "out", "", "write the JSON result to this file instead of stdout")
	flag.IntVar(&maxEdge, "max-edge", 0, "override max long edge in px (0 = config value)")
	flag.Float64Var(&threshold, "threshold", 0, "override dominance threshold percent (0 = config value)")

	flag.Parse()
	if in == "" {
		log.Fatalf("usage: %s -in food.jpg [-mode catalog|remote] [-query ...] [-backend gemini|ollama]", filepath.Base(os.Args[0]))
	}
	if !utils.IsImageFile(in) {
		log.Fatalf("unsupported input file type: .%s", utils.GetFileExtension(in))
	}
	if !utils.FileExists(in) {
		log.Fatalf("input file not found: %s", in)
	}

	cfg := config.Default()
	if configPath != "" {
		loaded, err := config.LoadFromFile(configPath)
		if err != nil {
			log.Fatal(err)
		}
		cfg = loaded
	}
	if maxEdge > 0 {
		cfg.Ingest.MaxEdge = maxEdge
	}
	if threshold > 0 {
		cfg.Classify.DominanceThreshold = threshold
	}
	if backend != "" {
		cfg.Remote.Backend = backend
	}
	if url != "" {
		cfg.Remote.URL = url
	}
	if cfg.Remote.URL == "" {
		cfg.Remote.URL = "http://localhost:11434"
	}
	if model != "" {
		cfg.Remote.Model = model
	}
	if err := cfg.Validate(); err != nil {
		log.Fatal(err)
	}

	data, err := os.ReadFile(in)
	if err != nil {
		log.Fatal(err)
	}
	log.Printf("read %s (%s)", in, utils.FormatFileSize(int64(len(data))))

	pipeline, err := buildPipeline(cfg)
	if err != nil {
		log.Fatal(err)
	}

	switch mode {
	case "catalog":
		runCatalog(pipeline, data, out)
	case "remote":
		runRemote(pipeline, cfg, data, query)
	default:
		log.Fatalf("unknown mode: %s (use 'catalog' or 'remote')", mode)
	}
}

func buildPipeline(cfg *config.Config) (*foodscan.Pipeline, error) {
	return foodscan.NewWithConfig(
		ingest.Config{
			MaxEdge:   cfg.Ingest.MaxEdge,
			MinStdDev: cfg.Ingest.MinStdDev,
			MinMean:   cfg.Ingest.MinMean,
			MaxMean:   cfg.Ingest.MaxMean,
		},
		profile.Config{
			DarkMax:         uint8(cfg.Profile.DarkMax),
			LightMin:        uint8(cfg.Profile.LightMin),
			DominanceMargin: cfg.Profile.DominanceMargin,
			BrownGap:        cfg.Profile.BrownGap,
			BrownRedMax:     uint8(cfg.Profile.BrownRedMax),
			YellowMin:       uint8(cfg.Profile.YellowMin),
		},
		classify.Config{DominanceThreshold: cfg.Classify.DominanceThreshold},
		nil,
	)
}

func runCatalog(pipeline *foodscan.Pipeline, data []byte, out string) {
	result, err := pipeline.Analyze(data)
	if err != nil {
		// Expected failures become an ErrorResult document, not a crash.
		errDoc, jsonErr := json.MarshalIndent(types.NewErrorResult(err), "", "  ")
		if jsonErr != nil {
			log.Fatal(err)
		}
		fmt.Println(string(errDoc))
		os.Exit(1)
	}

	doc, err := result.ExportJSON()
	if err != nil {
		log.Fatal(err)
	}

	if out != "" {
		if err := utils.EnsureDir(filepath.Dir(out)); err != nil {
			log.Fatal(err)
		}
		if err := os.WriteFile(out, doc, 0o644); err != nil {
			log.Fatal(err)
		}
		log.Printf("wrote %s", out)
		return
	}
	fmt.Println(string(doc))
}

func runRemote(pipeline *foodscan.Pipeline, cfg *config.Config, data []byte, query string) {
	imageData, err := pipeline.PrepareForRemote(data)
	if err != nil {
		log.Fatal(err)
	}

	var visionClient client.VisionClient
	switch cfg.Remote.Backend {
	case "gemini":
		apiKey, err := config.LoadCredential()
		if err != nil {
			log.Fatal(err)
		}
		visionClient, err = gemini.NewClient(gemini.Config{
			ProjectID: cfg.Remote.ProjectID,
			Location:  cfg.Remote.Location,
			APIKey:    apiKey,
		})
		if err != nil {
			log.Fatal(err)
		}
	case "ollama":
		visionClient, err = ollama.NewClient(cfg.Remote.URL)
		if err != nil {
			log.Fatal(err)
		}
	default:
		log.Fatalf("unknown backend: %s (use 'gemini' or 'ollama')", cfg.Remote.Backend)
	}

	querier, err := remote.New(visionClient, remote.Config{
		Model:   cfg.Remote.Model,
		Timeout: time.Duration(cfg.Remote.TimeoutSeconds) * time.Second,
		Retry:   true,
	}, nil)
	if err != nil {
		log.Fatal(err)
	}

	text, err := querier.Query(context.Background(), imageData, query)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(text)
}
