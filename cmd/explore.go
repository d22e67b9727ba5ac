package main

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/burden-map/internal/config"
	"github.com/sells-group/burden-map/internal/session"
	"github.com/sells-group/burden-map/internal/tui"
)

var exploreCmd = &cobra.Command{
	Use:   "explore",
	Short: "Start the interactive terminal session",
	RunE: func(cmd *cobra.Command, _ []string) error {
		a, err := loadApp(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		defer a.Close()

		// The session owns the alternate screen; stderr logs would draw over it.
		if err := config.InitFileLogger(cfg.Log, cfg.Log.TUIFile); err != nil {
			return eris.Wrap(err, "explore: redirect logs")
		}

		m := tui.New(tui.Config{
			Controller:   a.controller(session.NewRecordingSurface(a.initialView()), false),
			Geocoder:     a.geocoder,
			Housing:      a.predictor.HousingLabels(),
			Income:       a.predictor.IncomeLabels(),
			Debounce:     time.Duration(cfg.TUI.DebounceMillis) * time.Millisecond,
			SuggestLimit: cfg.TUI.SuggestLimit,
			Timeout:      a.geocodeTimeout(),
		})

		p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(cmd.Context()))
		m.SetSender(p.Send)
		if _, err := p.Run(); err != nil {
			return eris.Wrap(err, "explore: run")
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(exploreCmd)
}
