package main

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"statsweep/internal/cleanup"
	"statsweep/internal/config"
	"statsweep/internal/dataset"
	"statsweep/internal/decision"
	"statsweep/internal/detect"
	"statsweep/internal/doubleheader"
	"statsweep/internal/recommend"
)

// pipelineResult bundles one full load-detect-recommend pass over the
// archive.
type pipelineResult struct {
	Corpus          *dataset.Corpus
	Analysis        *detect.Analysis
	Recommendations []recommend.Recommendation
	HighConfidence  []recommend.Recommendation
	Policy          recommend.Policy
}

func runPipeline(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*pipelineResult, error) {
	loader := dataset.NewLoader(cfg.Paths.DataDir, cfg.Dataset.Periods, cfg.Dataset.LoadWorkers, logger)
	corpus, err := loader.Load(ctx)
	if err != nil {
		return nil, err
	}

	detector := detect.New(doubleheader.DefaultCriteria(), logger)
	analysis := detector.Analyze(corpus, cfg.Paths.DataDir)

	policy := recommend.PolicyFromConfig(cfg)
	generator := recommend.NewGenerator(policy)
	recs := generator.Generate(analysis)

	return &pipelineResult{
		Corpus:          corpus,
		Analysis:        analysis,
		Recommendations: recs,
		HighConfidence:  generator.HighConfidence(recs),
		Policy:          policy,
	}, nil
}

// decide evaluates the high-confidence set against the configured
// tiers. Callers short-circuit before this when the set is empty.
func decide(cfg *config.Config, res *pipelineResult) decision.Result {
	snapshot := decision.BuildSnapshot(res.HighConfidence, res.Policy, res.Corpus.TotalEntries)
	return decision.NewEngine(cfg.Thresholds).Decide(snapshot)
}

// newVerifyFunc gives the executor a fresh end-to-end pass for
// post-mutation verification.
func newVerifyFunc(cfg *config.Config, logger *slog.Logger) cleanup.VerifyFunc {
	return func(ctx context.Context) (*detect.Analysis, []recommend.Recommendation, error) {
		res, err := runPipeline(ctx, cfg, logger)
		if err != nil {
			return nil, nil, err
		}
		return res.Analysis, res.HighConfidence, nil
	}
}

func newRunID() string {
	return uuid.NewString()
}
