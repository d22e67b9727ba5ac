package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/burden-map/internal/choropleth"
)

var predictCmd = &cobra.Command{
	Use:   "predict",
	Short: "Predict energy burden for a housing type and income bracket",
	RunE: func(cmd *cobra.Command, _ []string) error {
		housing, _ := cmd.Flags().GetString("housing")
		income, _ := cmd.Flags().GetString("income")
		strict, _ := cmd.Flags().GetBool("strict")

		p, err := loadPredictor(cfg)
		if err != nil {
			return err
		}

		if err := p.Validate(housing, income); err != nil {
			if strict {
				return err
			}
			zap.L().Warn("unknown label contributes zero to the prediction", zap.Error(err))
		}

		formatPrediction(os.Stdout, p.Predict(housing, income))
		return nil
	},
}

func init() {
	predictCmd.Flags().String("housing", "", "housing type label (see `labels`)")
	predictCmd.Flags().String("income", "", "income bracket label (see `labels`)")
	predictCmd.Flags().Bool("strict", false, "reject labels the model does not know")
	_ = predictCmd.MarkFlagRequired("housing")
	_ = predictCmd.MarkFlagRequired("income")
	rootCmd.AddCommand(predictCmd)
}

func formatPrediction(w io.Writer, v float64) {
	b := choropleth.ColorFor(v)
	fmt.Fprintf(w, "Predicted energy burden: %.1f%% (%s, %s)\n", v, b.Label, b.Color)
}
