package main

import (
	"context"

	"github.com/civicdata/crimemap/internal/aggregate"
	"github.com/civicdata/crimemap/internal/boundary"
	"github.com/civicdata/crimemap/internal/classify"
	"github.com/civicdata/crimemap/internal/ingest"
	"github.com/civicdata/crimemap/internal/source"
)

// batchEnv holds everything produced by the cold-start batch phase.
type batchEnv struct {
	Tables   *aggregate.Tables
	Provider boundary.Provider
	Stats    ingest.Stats
}

// newClassifier builds the classifier, honoring a keyword override file.
func newClassifier() (*classify.Classifier, error) {
	if cfg.Classify.KeywordsPath != "" {
		return classify.LoadKeywords(cfg.Classify.KeywordsPath)
	}
	return classify.New(), nil
}

// runBatch executes the full load-clean-aggregate phase. Every command
// that needs aggregates goes through here; nothing is recomputed after.
func runBatch(ctx context.Context) (*batchEnv, error) {
	cls, err := newClassifier()
	if err != nil {
		return nil, err
	}

	src, err := source.Open(cfg.Source)
	if err != nil {
		return nil, err
	}
	defer func() { _ = src.Close() }()

	res, err := ingest.Load(ctx, src, cfg, cls)
	if err != nil {
		return nil, err
	}

	tables := aggregate.Build(res.Records, res.Resolver, cfg.Dataset.Years())

	return &batchEnv{
		Tables:   tables,
		Provider: res.Provider,
		Stats:    res.Stats,
	}, nil
}
