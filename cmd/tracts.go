package main

import (
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/burden-map/internal/tiger"
	"github.com/sells-group/burden-map/internal/tract"
)

var tractsCmd = &cobra.Command{
	Use:   "tracts",
	Short: "Manage tract boundary data",
}

var tractsFetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Download TIGER/Line census tracts and write them as GeoJSON",
	Long: `Downloads the Census TIGER/Line tract shapefile for a state, optionally
keeps a single county, and writes the tracts as GeoJSON for use as
data.tracts.path. Philadelphia is --state PA --county 101.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		state, _ := cmd.Flags().GetString("state")
		county, _ := cmd.Flags().GetString("county")
		year, _ := cmd.Flags().GetInt("year")
		outPath, _ := cmd.Flags().GetString("out")

		if year == 0 {
			year = cfg.Tiger.Year
		}

		log := zap.L().With(zap.String("command", "tracts fetch"))
		log.Info("fetching TIGER tracts",
			zap.String("state", strings.ToUpper(state)),
			zap.String("county", county),
			zap.Int("year", year),
		)

		tracts, err := tiger.FetchTracts(ctx, tiger.FetchOptions{
			Year:    year,
			State:   state,
			County:  county,
			TempDir: cfg.Tiger.TempDir,
			Client:  &http.Client{Timeout: 5 * time.Minute},
		})
		if err != nil {
			return err
		}

		f, err := os.Create(outPath)
		if err != nil {
			return eris.Wrapf(err, "tracts fetch: create %s", outPath)
		}
		err = tract.WriteGeoJSON(f, tracts, "GEOID")
		if cerr := f.Close(); err == nil && cerr != nil {
			err = eris.Wrapf(cerr, "tracts fetch: close %s", outPath)
		}
		if err != nil {
			return err
		}

		fmt.Printf("Wrote %d tracts to %s\n", len(tracts), outPath)
		return nil
	},
}

func init() {
	tractsFetchCmd.Flags().String("state", "PA", "state abbreviation or FIPS code")
	tractsFetchCmd.Flags().String("county", "101", "county FIPS code (empty keeps the whole state)")
	tractsFetchCmd.Flags().Int("year", 0, "TIGER/Line year (default: from config or 2024)")
	tractsFetchCmd.Flags().String("out", "data/tracts.geojson", "output GeoJSON path")
	tractsCmd.AddCommand(tractsFetchCmd)
	rootCmd.AddCommand(tractsCmd)
}
