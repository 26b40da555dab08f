package main

import (
	"fmt"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/hospitality-cli/internal/dataset"
	"github.com/sells-group/hospitality-cli/internal/fetcher"
	"github.com/sells-group/hospitality-cli/internal/pipeline"
	anthropicpkg "github.com/sells-group/hospitality-cli/pkg/anthropic"
	"github.com/sells-group/hospitality-cli/pkg/perplexity"
	"github.com/sells-group/hospitality-cli/pkg/serper"
)

var (
	enrichInput   string
	enrichOutput  string
	enrichLimit   int
	enrichOffline bool
)

var enrichCmd = &cobra.Command{
	Use:   "enrich",
	Short: "Annotate a restaurant dataset with hospitality group ownership",
	Long: `Runs the enrichment batch over a CSV or XLSX dataset.

Each restaurant is researched once; rows already annotated are skipped, so an
interrupted run resumes where it left off. The table is written back after
every processed row.

Examples:
  # Enrich a local CSV (writes restaurants_enriched.csv)
  hospitality-cli enrich --input restaurants.csv

  # Remote dataset, at most 10 unprocessed rows
  hospitality-cli enrich --input https://exports.example.com/restaurants.csv --limit 10

  # Offline run with stub clients (no API keys needed)
  hospitality-cli enrich --input restaurants.csv --offline`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		input := enrichInput
		if input == "" {
			input = cfg.Dataset.Input
		}
		if input == "" {
			return eris.New("enrich: no input dataset (set --input or dataset.input)")
		}

		// Validate API keys in real mode.
		if !enrichOffline {
			if err := validateAPIKeys(); err != nil {
				return err
			}
		}

		if fetcher.IsRemote(input) {
			local, err := fetcher.Retrieve(ctx, input, cfg.Dataset.WorkDir)
			if err != nil {
				return eris.Wrap(err, "enrich: fetch dataset")
			}
			input = local
		}

		output := enrichOutput
		if output == "" {
			output = cfg.Dataset.Output
		}
		if output == "" {
			output = defaultOutputPath(input)
		}

		table, err := dataset.Load(input, output, datasetColumns(), cfg.Dataset.Charset)
		if err != nil {
			return eris.Wrap(err, "enrich: load dataset")
		}

		research, search, err := buildClients(enrichOffline)
		if err != nil {
			return err
		}

		keywords, err := loadKeywords()
		if err != nil {
			return err
		}

		resolver := pipeline.NewResolver(research, time.Duration(cfg.Resolver.TimeoutSecs)*time.Second)

		var verifier *pipeline.Verifier
		if search != nil {
			verifier, err = pipeline.NewVerifier(search, research, keywords,
				time.Duration(cfg.Delays.InterVerificationSecs)*time.Second)
			if err != nil {
				return eris.Wrap(err, "enrich: build verifier")
			}
		}

		runner := pipeline.NewRunner(table, resolver, verifier,
			time.Duration(cfg.Delays.InterRowSecs)*time.Second, enrichLimit)

		summary, err := runner.Run(ctx)
		if err != nil {
			return err
		}

		fmt.Print(summary.Format())
		return nil
	},
}

func init() {
	enrichCmd.Flags().StringVar(&enrichInput, "input", "", "dataset path or URL (falls back to dataset.input)")
	enrichCmd.Flags().StringVar(&enrichOutput, "output", "", "annotated output path (default: <input>_enriched.<ext>)")
	enrichCmd.Flags().IntVar(&enrichLimit, "limit", 0, "max rows to process this run (0 = all)")
	enrichCmd.Flags().BoolVar(&enrichOffline, "offline", false, "use stub clients (no API keys needed)")
	rootCmd.AddCommand(enrichCmd)
}

// buildClients assembles the research backend and the optional search client.
// The search client is nil when no serper key is configured, which disables
// the verification pass.
func buildClients(offline bool) (pipeline.ResearchClient, serper.Client, error) {
	if offline {
		return &pipeline.StubResearchClient{}, &pipeline.StubSearchClient{}, nil
	}

	var research pipeline.ResearchClient
	switch cfg.Resolver.Backend {
	case "perplexity":
		research = &pipeline.PerplexityBackend{
			Client: perplexity.NewClient(cfg.Perplexity.Key, perplexity.WithBaseURL(cfg.Perplexity.BaseURL)),
			Model:  cfg.Perplexity.Model,
		}
	case "anthropic":
		research = &pipeline.AnthropicBackend{
			Client: anthropicpkg.NewClient(cfg.Anthropic.Key),
			Model:  cfg.Anthropic.Model,
		}
	default:
		return nil, nil, eris.Errorf("unknown research backend %q (want perplexity or anthropic)", cfg.Resolver.Backend)
	}

	var search serper.Client
	if cfg.Serper.Key != "" {
		search = serper.NewClient(cfg.Serper.Key, serper.WithBaseURL(cfg.Serper.BaseURL))
	}

	return research, search, nil
}

// validateAPIKeys checks that the selected research backend has a key and
// warns about optional missing keys.
func validateAPIKeys() error {
	var missing []string

	if cfg.Resolver.Backend == "anthropic" {
		if cfg.Anthropic.Key == "" {
			missing = append(missing, "HOSPITALITY_ANTHROPIC_KEY (required: research backend)")
		}
	} else if cfg.Perplexity.Key == "" {
		missing = append(missing, "HOSPITALITY_PERPLEXITY_KEY (required: research backend)")
	}

	if len(missing) > 0 {
		return eris.Errorf("missing required API keys:\n  %s\n\nSet these env vars or use --offline for stub mode", strings.Join(missing, "\n  "))
	}

	// Optional keys only warn.
	if cfg.Serper.Key == "" {
		zap.L().Warn("HOSPITALITY_SERPER_KEY not set, independent results will not be verified")
	}

	return nil
}

// loadKeywords returns the verifier vocabulary, from file when configured.
func loadKeywords() (pipeline.Keywords, error) {
	if cfg.Verifier.KeywordsFile == "" {
		return pipeline.DefaultKeywords(), nil
	}
	return pipeline.LoadKeywords(cfg.Verifier.KeywordsFile)
}

// defaultOutputPath derives restaurants_enriched.csv from restaurants.csv.
func defaultOutputPath(input string) string {
	ext := filepath.Ext(input)
	return strings.TrimSuffix(input, ext) + "_enriched" + ext
}

func datasetColumns() dataset.Columns {
	return dataset.Columns{
		Name:   cfg.Dataset.NameColumn,
		Market: cfg.Dataset.MarketColumn,
		Domain: cfg.Dataset.DomainColumn,
	}
}
