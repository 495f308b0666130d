package main

import (
	"context"
	"errors"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/imoveis-cli/internal/config"
	"github.com/sells-group/imoveis-cli/internal/export"
	"github.com/sells-group/imoveis-cli/internal/facts"
	"github.com/sells-group/imoveis-cli/internal/feed"
	"github.com/sells-group/imoveis-cli/internal/fetcher"
)

// initPipeline builds the feed pipeline from the loaded configuration.
func initPipeline(c *config.Config) (*feed.Pipeline, error) {
	vocab, err := facts.LoadVocabulary(c.Facts.VocabularyPath)
	if err != nil {
		return nil, err
	}

	f := fetcher.NewHTTPFetcher(fetcher.HTTPOptions{
		UserAgent:    c.Feed.UserAgent,
		Timeout:      c.Feed.Timeout(),
		RateLimiters: fetcher.DefaultRateLimiters(),
	})

	return feed.New(f, feed.Options{
		BaseURL:         c.Feed.BaseURL,
		Charset:         c.Feed.Charset,
		DefaultModality: c.Feed.DefaultModality,
		Classifier:      facts.NewClassifier(vocab),
		MaxBytes:        int64(c.Feed.MaxMB) << 20,
	}), nil
}

// loadResult runs the pipeline for region, or over a local copy of the feed
// when file is set.
func loadResult(ctx context.Context, p *feed.Pipeline, region, file string) (*feed.Result, error) {
	if file == "" {
		if region == "" {
			return nil, eris.New("--region or --file is required")
		}
		return p.Load(ctx, region)
	}

	raw, err := os.ReadFile(file)
	if err != nil {
		return nil, eris.Wrapf(err, "read feed file %s", file)
	}
	zap.L().Debug("parsing local feed", zap.String("file", file), zap.Int("bytes", len(raw)))
	return p.Parse(region, raw)
}

// reportFailure prints the actionable hint of a pipeline failure.
func reportFailure(cmd *cobra.Command, err error) error {
	var pe *feed.PipelineError
	if errors.As(err, &pe) {
		cmd.PrintErrln("Error:", pe.Error())
		cmd.PrintErrln("Hint:", pe.Hint())
	}
	return err
}

func linksFromConfig(c *config.Config) export.Links {
	return export.Links{
		DetailBase: c.Feed.DetailBaseURL,
		MapBase:    c.Feed.MapBaseURL,
	}
}
