package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/ppiankov/propfacts/internal/cache"
	"github.com/ppiankov/propfacts/internal/history"
	"github.com/ppiankov/propfacts/internal/logger"
	"github.com/ppiankov/propfacts/internal/model"
	"github.com/ppiankov/propfacts/internal/pipeline"
	"github.com/ppiankov/propfacts/internal/provider"
	"github.com/spf13/pflag"
)

// lookupFlags are the flags shared by commands that run lookups
type lookupFlags struct {
	provider    string
	fixture     string
	num         int
	mode        string
	details     bool
	noCache     bool
	llmEnabled  bool
	llmProvider string
	llmModel    string
}

func (f *lookupFlags) register(fs *pflag.FlagSet) {
	fs.StringVar(&f.provider, "provider", "", "search provider (mock, serpapi, searxng, scrape)")
	fs.StringVar(&f.fixture, "fixture", "", "fixture for the mock provider (luxury, prestige)")
	fs.IntVar(&f.num, "num", 0, "number of results to request")
	fs.StringVar(&f.mode, "mode", "", "extraction mode (regex, keyword)")
	fs.BoolVar(&f.details, "details", false, "include per-fact provenance in JSON output")
	fs.BoolVar(&f.noCache, "no-cache", false, "disable result cache (force fresh fetch)")

	// LLM flags
	fs.BoolVar(&f.llmEnabled, "llm", false, "enable LLM summary generation")
	fs.StringVar(&f.llmProvider, "llm-provider", "openai", "LLM provider (openai, ollama)")
	fs.StringVar(&f.llmModel, "llm-model", "gpt-4o-mini", "LLM model name")
}

// apply overrides cfg with the flags that were set on the command line
func (f *lookupFlags) apply(cfg *model.Config, fs *pflag.FlagSet) error {
	if fs.Changed("provider") {
		cfg.Provider.Name = f.provider
	}
	if fs.Changed("fixture") {
		cfg.Provider.Fixture = f.fixture
	}
	if fs.Changed("num") {
		cfg.Provider.Num = f.num
	}
	if fs.Changed("mode") {
		cfg.Extract.Mode = f.mode
	}
	if f.details {
		cfg.Extract.Details = true
	}
	if f.noCache {
		cfg.Cache.Enabled = false
	}

	if f.llmEnabled {
		cfg.LLM.Provider = f.llmProvider
		cfg.LLM.Model = f.llmModel
		cfg.LLM.StrictEvidence = true // Always enforce

		if f.llmProvider == "openai" && cfg.LLM.APIKey == "" {
			return fmt.Errorf("OPENAI_API_KEY environment variable not set")
		}
	}

	return nil
}

// buildProvider creates the configured provider, wrapped in the result
// cache when caching is enabled
func buildProvider(cfg *model.Config) (provider.Provider, error) {
	p, err := provider.NewProvider(cfg)
	if err != nil {
		return nil, err
	}

	if !cfg.Cache.Enabled || p.Name() == "mock" {
		return p, nil
	}

	c := cache.NewLayeredCache(cfg.Cache.MemoryTTL, cfg.Cache.Dir, cfg.Cache.DiskTTL)
	logger.Debug("result cache enabled", "dir", cfg.Cache.Dir, "memory_ttl", cfg.Cache.MemoryTTL, "disk_ttl", cfg.Cache.DiskTTL)
	return provider.NewCached(p, c, cfg.Cache.DiskTTL), nil
}

// buildPipeline wires provider, extractor, summarizer and history.
// The returned closer releases the history store and must always be called.
func buildPipeline(ctx context.Context, cfg *model.Config) (*pipeline.Pipeline, io.Closer, error) {
	p, err := buildProvider(cfg)
	if err != nil {
		return nil, nopCloser{}, err
	}

	pl, err := pipeline.NewPipeline(cfg, p)
	if err != nil {
		return nil, nopCloser{}, err
	}

	if !cfg.History.Enabled {
		return pl, nopCloser{}, nil
	}

	store, err := history.Open(ctx, cfg.History.Path)
	if err != nil {
		logger.Warn("history disabled", "path", cfg.History.Path, "error", err)
		return pl, nopCloser{}, nil
	}
	pl.SetHistory(store)

	return pl, store, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
