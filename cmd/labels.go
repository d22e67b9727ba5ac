package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

var labelsCmd = &cobra.Command{
	Use:   "labels",
	Short: "List the housing and income selector labels",
	RunE: func(cmd *cobra.Command, _ []string) error {
		p, err := loadPredictor(cfg)
		if err != nil {
			return err
		}
		formatLabels(os.Stdout, p.Intercept(), p.HousingLabels(), p.IncomeLabels())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(labelsCmd)
}

func formatLabels(w io.Writer, intercept float64, housing, income []string) {
	fmt.Fprintf(w, "Baseline burden: %.4f%%\n", intercept)
	fmt.Fprintln(w, "Housing:")
	for _, h := range housing {
		fmt.Fprintf(w, "  %s\n", h)
	}
	fmt.Fprintln(w, "Income:")
	for _, in := range income {
		fmt.Fprintf(w, "  %s\n", in)
	}
}
