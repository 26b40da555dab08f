package main

import (
	"encoding/json"
	"io"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/hospitality-cli/internal/dataset"
	"github.com/sells-group/hospitality-cli/internal/model"
)

var (
	inspectInput string
	inspectLimit int
)

var inspectCmd = &cobra.Command{
	Use:   "inspect",
	Short: "Parse a dataset and print its records as JSON",
	Long: `Reads the dataset through the same column mapping the enrichment uses and
prints the typed records without making any network calls. Useful for
checking column configuration before a run.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		table, err := dataset.Load(inspectInput, "", datasetColumns(), cfg.Dataset.Charset)
		if err != nil {
			return eris.Wrap(err, "inspect: load dataset")
		}

		records := table.Records()
		zap.L().Info("parsed dataset",
			zap.String("path", inspectInput),
			zap.Int("restaurants", len(records)),
		)

		if inspectLimit > 0 && inspectLimit < len(records) {
			records = records[:inspectLimit]
		}

		return printRecordsJSON(os.Stdout, records)
	},
}

func init() {
	inspectCmd.Flags().StringVar(&inspectInput, "input", "", "dataset path (required)")
	inspectCmd.Flags().IntVar(&inspectLimit, "limit", 0, "max records to print (0 = all)")
	_ = inspectCmd.MarkFlagRequired("input")
	rootCmd.AddCommand(inspectCmd)
}

// printRecordsJSON prints records as indented JSON.
func printRecordsJSON(w io.Writer, records []model.Record) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(records)
}
