package main

import (
	"fmt"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/burden-map/internal/choropleth"
	"github.com/sells-group/burden-map/internal/tract"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the styled choropleth as GeoJSON",
	Long: `Writes every tract as a GeoJSON feature carrying its observed burden,
band, fill color and tooltip, ready for any web map. With --plain the
features carry only the tract geometry and GEOID.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		outPath, _ := cmd.Flags().GetString("out")
		plain, _ := cmd.Flags().GetBool("plain")

		a, err := loadApp(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		defer a.Close()

		f, err := os.Create(outPath)
		if err != nil {
			return eris.Wrapf(err, "export: create %s", outPath)
		}

		if plain {
			err = tract.WriteGeoJSON(f, a.tracts, cfg.Data.Tracts.IDField)
		} else {
			err = choropleth.Export(f, a.tracts, choropleth.NewStyler(a.values))
		}
		if cerr := f.Close(); err == nil && cerr != nil {
			err = eris.Wrapf(cerr, "export: close %s", outPath)
		}
		if err != nil {
			return err
		}

		zap.L().Info("export complete",
			zap.String("out", outPath),
			zap.Int("tracts", len(a.tracts)),
			zap.Bool("plain", plain),
		)
		fmt.Printf("Wrote %d tracts to %s\n", len(a.tracts), outPath)
		return nil
	},
}

func init() {
	exportCmd.Flags().String("out", "tracts_styled.geojson", "output GeoJSON path")
	exportCmd.Flags().Bool("plain", false, "write geometry and GEOID only, without styling")
	rootCmd.AddCommand(exportCmd)
}
