package main

import (
	"context"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/datextract/internal/classifier"
	"github.com/sells-group/datextract/internal/extract"
	"github.com/sells-group/datextract/internal/locale"
	"github.com/sells-group/datextract/internal/source"
	"github.com/sells-group/datextract/internal/store"
)

// addParamFlags registers the per-call pipeline flags shared by extract and
// explain. Unset flags fall back to the config file.
func addParamFlags(cmd *cobra.Command) {
	cmd.Flags().Bool("strict", false, "keep only candidates with a full set of date components")
	cmd.Flags().String("locale", "", "BCP 47 locale, e.g. en-GB (default from config)")
	cmd.Flags().Float64("threshold", 0, "minimum classifier score (default from config)")
	cmd.Flags().String("base-date", "", "YYYY-MM-DD used to fill missing date fields (default Jan 1 this year)")
}

// resolveParams merges config defaults with any flags the user set.
func resolveParams(cmd *cobra.Command) (extract.Params, error) {
	p := extract.Params{
		Strict:    cfg.Extract.Strict,
		Threshold: cfg.Extract.Threshold,
	}

	tag := cfg.Extract.Locale
	if f := cmd.Flags().Lookup("locale"); f != nil && f.Changed {
		tag = f.Value.String()
	}
	loc, err := locale.Resolve(tag)
	if err != nil {
		return p, err
	}
	p.Locale = loc

	base, err := cfg.BaseDate()
	if err != nil {
		return p, err
	}
	p.BaseDate = base

	if cmd.Flags().Changed("strict") {
		p.Strict, _ = cmd.Flags().GetBool("strict")
	}
	if cmd.Flags().Changed("threshold") {
		p.Threshold, _ = cmd.Flags().GetFloat64("threshold")
		if p.Threshold < 0 || p.Threshold > 1 {
			return p, eris.Errorf("--threshold %v must be between 0 and 1", p.Threshold)
		}
	}
	if cmd.Flags().Changed("base-date") {
		s, _ := cmd.Flags().GetString("base-date")
		t, err := time.Parse("2006-01-02", s)
		if err != nil {
			return p, eris.Wrapf(err, "--base-date %q", s)
		}
		p.BaseDate = t
	}
	return p, nil
}

// buildExtractor wires the classifier from config into a new Extractor.
func buildExtractor() (*extract.Extractor, error) {
	scorer := classifier.DefaultScorer()
	if cfg.Classifier.ModelPath != "" {
		m, err := classifier.LoadModel(cfg.Classifier.ModelPath)
		if err != nil {
			return nil, err
		}
		if scorer, err = classifier.NewScorer(m); err != nil {
			return nil, err
		}
		zap.L().Info("loaded classifier model",
			zap.String("path", cfg.Classifier.ModelPath),
			zap.String("name", m.Name),
		)
	}
	return extract.New(scorer, extract.WithLogger(zap.L())), nil
}

func newLoader() *source.Loader {
	return source.New(source.Options{
		UserAgent:  cfg.Fetch.UserAgent,
		Timeout:    time.Duration(cfg.Fetch.TimeoutSecs) * time.Second,
		MaxRetries: cfg.Fetch.MaxRetries,
		MaxBytes:   cfg.Fetch.MaxBytes,
		RateLimit:  cfg.Fetch.RateLimit,
	})
}

func initStore(ctx context.Context) (store.Store, error) {
	return store.Open(ctx, cfg.Store.Driver, cfg.Store.DatabaseURL)
}
