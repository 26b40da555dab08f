package main

import (
	"encoding/json"
	"io"
	"os"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/hospitality-cli/internal/model"
	"github.com/sells-group/hospitality-cli/internal/pipeline"
)

var (
	lookupName    string
	lookupMarket  string
	lookupDomain  string
	lookupOffline bool
)

var lookupCmd = &cobra.Command{
	Use:   "lookup",
	Short: "Resolve hospitality group ownership for a single restaurant",
	Long: `Runs the research pass (and verification when a serper key is configured)
for one restaurant and prints the annotated record as JSON. No files are
touched.

Example:
  hospitality-cli lookup --name "Torrisi Bar & Grill" --market NYC`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		if !lookupOffline {
			if err := validateAPIKeys(); err != nil {
				return err
			}
		}

		research, search, err := buildClients(lookupOffline)
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
				return eris.Wrap(err, "lookup: build verifier")
			}
		}

		rec := model.Record{
			Name:   lookupName,
			Market: lookupMarket,
			Domain: lookupDomain,
		}
		rec.HospitalityGroup, rec.TotalLocations, rec.Verified = pipeline.EnrichRecord(ctx, resolver, verifier, rec)

		zap.L().Info("lookup complete",
			zap.String("restaurant", rec.Name),
			zap.String("group", rec.HospitalityGroup),
			zap.String("locations", rec.TotalLocations),
		)

		return writeLookupResult(os.Stdout, rec)
	},
}

// writeLookupResult prints the annotated record as indented JSON.
func writeLookupResult(w io.Writer, rec model.Record) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(rec)
}

func init() {
	lookupCmd.Flags().StringVar(&lookupName, "name", "", "restaurant name (required)")
	lookupCmd.Flags().StringVar(&lookupMarket, "market", "", "market label, e.g. NYC")
	lookupCmd.Flags().StringVar(&lookupDomain, "domain", "", "restaurant website domain")
	lookupCmd.Flags().BoolVar(&lookupOffline, "offline", false, "use stub clients (no API keys needed)")
	_ = lookupCmd.MarkFlagRequired("name")
	rootCmd.AddCommand(lookupCmd)
}
