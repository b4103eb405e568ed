package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/JonMunkholm/shiftboard/internal/board"
	"github.com/JonMunkholm/shiftboard/internal/core"
	"github.com/JonMunkholm/shiftboard/internal/fixtures"
	"github.com/JonMunkholm/shiftboard/internal/grid"
	"github.com/JonMunkholm/shiftboard/internal/logging"
)

// sampleRows maps page keys to their fixture rows.
var sampleRows = map[string]func() []core.Row{
	"shifts": fixtures.ThreeShifts,
	"users":  fixtures.ThreeUsers,
	"rides":  fixtures.ThreeRides,
}

func newRenderCmd() *cobra.Command {
	var timeStyle string

	cmd := &cobra.Command{
		Use:   "render <page>",
		Short: "Print a page's table for sample rows",
		Long: `Render a page's table as HTML using built-in sample rows.

No backend is contacted; action buttons are rendered but inert.

Available Pages:
  ` + strings.Join(pageKeys(), ", "),
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logging.SetupWriter(os.Stderr, "warn", "text")
			style, err := grid.ParseTimeStyle(timeStyle)
			if err != nil {
				return err
			}
			return renderPage(cmd.Context(), cmd.OutOrStdout(), args[0], style)
		},
	}
	cmd.Flags().StringVar(&timeStyle, "time-style", string(grid.TimeCompact), "Clock format: compact or padded")
	return cmd
}

func renderPage(ctx context.Context, w io.Writer, key string, style grid.TimeStyle) error {
	def, ok := board.Get(key)
	if !ok {
		return fmt.Errorf("%w: %s", board.ErrUnknownPage, key)
	}
	rows, ok := sampleRows[key]
	if !ok {
		return fmt.Errorf("no sample rows for page %s", key)
	}

	descriptors, err := def.Columns(board.Deps{
		Client:    offline{},
		Cache:     offline{},
		TimeStyle: style,
	})
	if err != nil {
		return fmt.Errorf("build %s columns: %w", key, err)
	}

	g := grid.Render(rows(), descriptors, def.TestID)
	if err := g.Component("").Render(ctx, w); err != nil {
		return fmt.Errorf("render %s: %w", key, err)
	}
	_, err = fmt.Fprintln(w)
	return err
}

func pageKeys() []string {
	defs := board.All()
	keys := make([]string, 0, len(defs))
	for _, def := range defs {
		keys = append(keys, def.Key)
	}
	return keys
}

// offline stands in for the backend when rendering without one.
type offline struct{}

func (offline) Do(ctx context.Context, req core.Request) ([]byte, error) {
	slog.Warn("backend unavailable while rendering", "request", req.String())
	return nil, fmt.Errorf("render: backend unavailable for %s", req.String())
}

func (offline) Invalidate(keys ...core.CacheKey) {}
