package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/burden-map/internal/choropleth"
	"github.com/sells-group/burden-map/internal/session"
)

var locateCmd = &cobra.Command{
	Use:   "locate",
	Short: "Find the census tract and observed burden for an address or point",
	Long: `Resolves an address (via the configured geocoders) or a --lat/--lon point
to its census tract and prints the tract's observed energy burden and band.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		address, _ := cmd.Flags().GetString("address")
		lat, _ := cmd.Flags().GetFloat64("lat")
		lon, _ := cmd.Flags().GetFloat64("lon")
		hasPoint := cmd.Flags().Changed("lat") && cmd.Flags().Changed("lon")

		if address == "" && !hasPoint {
			return eris.New("locate: pass --address or both --lat and --lon")
		}

		a, err := loadApp(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		defer a.Close()

		ctrl := a.controller(session.NewRecordingSurface(a.initialView()), false)
		st := session.New()

		var out session.Outcome
		if address != "" {
			ctx, cancel := context.WithTimeout(cmd.Context(), a.geocodeTimeout())
			defer cancel()
			if _, out, err = ctrl.Search(ctx, st, address); err != nil {
				return eris.Wrap(err, session.Message(err))
			}
		} else {
			_, out = ctrl.Pick(st, lon, lat)
			ctx, cancel := context.WithTimeout(cmd.Context(), a.geocodeTimeout())
			defer cancel()
			if rev, err := a.geocoder.Reverse(ctx, lat, lon); err == nil && rev != nil && rev.Matched {
				out.DisplayName = rev.DisplayName
			} else if err != nil {
				zap.L().Debug("reverse geocode failed", zap.Error(err))
			}
		}

		formatOutcome(os.Stdout, out)
		return nil
	},
}

func init() {
	locateCmd.Flags().String("address", "", "street address to geocode")
	locateCmd.Flags().Float64("lat", 0, "latitude (WGS84)")
	locateCmd.Flags().Float64("lon", 0, "longitude (WGS84)")
	rootCmd.AddCommand(locateCmd)
}

// formatOutcome writes a located point and its tract.
func formatOutcome(w io.Writer, out session.Outcome) {
	fmt.Fprintf(w, "%-9s %.5f, %.5f\n", "Point:", out.Point.Lat, out.Point.Lon)
	if out.DisplayName != "" {
		fmt.Fprintf(w, "%-9s %s\n", "Address:", out.DisplayName)
	}
	if !out.Found() {
		fmt.Fprintln(w, session.NoTractMessage)
		return
	}
	fmt.Fprintf(w, "%-9s %s\n", "Tract:", out.TractID())
	if !out.HasObserved {
		fmt.Fprintf(w, "%-9s no data (%s)\n", "Burden:", choropleth.NoData.Color)
		return
	}
	fmt.Fprintf(w, "%-9s %.1f%% (%s, %s)\n", "Burden:", out.Observed, out.Band.Label, out.Band.Color)
}
