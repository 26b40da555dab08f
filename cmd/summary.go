package main

import (
	"fmt"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/hospitality-cli/internal/dataset"
	"github.com/sells-group/hospitality-cli/internal/pipeline"
)

var summaryInput string

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Print aggregate statistics for an annotated dataset",
	RunE: func(cmd *cobra.Command, _ []string) error {
		table, err := dataset.Load(summaryInput, "", datasetColumns(), cfg.Dataset.Charset)
		if err != nil {
			return eris.Wrap(err, "summary: load dataset")
		}

		fmt.Print(pipeline.Summarize(table.Records()).Format())
		return nil
	},
}

func init() {
	summaryCmd.Flags().StringVar(&summaryInput, "input", "", "annotated dataset path (required)")
	_ = summaryCmd.MarkFlagRequired("input")
	rootCmd.AddCommand(summaryCmd)
}
