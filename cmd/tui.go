package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/marcus/wayfind/internal/gate"
	"github.com/marcus/wayfind/internal/output"
	"github.com/marcus/wayfind/pkg/tui"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var tuiCmd = &cobra.Command{
	Use:     "tui [path]",
	Aliases: []string{"ui"},
	Short:   "Launch the interactive app",
	Long: `Launch the full-screen app. An optional path picks the first screen,
for example "/swipe" or "/map?poiId=p1". The route gate still applies.

Key bindings:
  1/2/3/4        Home, swipe, map, places
  p              Edit interests
  h/l or ←/→     Drag the card, space to release
  v / x          Like / pass the top card
  [ ]            Previous / next place in the map detail
  enter          Select
  r              Refresh
  ?              Toggle help
  q              Quit`,
	GroupID: "discover",
	Args:    cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if !term.IsTerminal(int(os.Stdout.Fd())) {
			err := errors.New("tui needs an interactive terminal")
			output.Error("%v", err)
			return err
		}

		a, err := openApp(true)
		if err != nil {
			output.Error("%v", err)
			return err
		}
		defer a.Close()

		start := gate.PathHome
		if len(args) == 1 {
			start = args[0]
		}

		ctx, cancel := context.WithCancel(cmd.Context())
		defer cancel()

		model := tui.New(tui.Options{
			Context:       ctx,
			Session:       a.session,
			Backend:       a.client,
			Cache:         a.db,
			Keys:          a.settings.Keys,
			DeckLimit:     a.settings.DeckLimit,
			RetryDelays:   a.settings.RetryDelays,
			StartPath:     start,
			Logger:        a.logger,
			StatusTimeout: tui.DefaultStatusTimeout,
		})

		p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseCellMotion(), tea.WithContext(ctx))
		final, err := p.Run()
		if m, ok := final.(tui.Model); ok {
			m.Close()
		}
		if err != nil && !errors.Is(err, tea.ErrProgramKilled) {
			return fmt.Errorf("error running tui: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}
