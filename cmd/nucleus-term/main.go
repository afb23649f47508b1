package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"

	"github.com/gdamore/tcell/v2"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"nucleus-scroll/cmd/internal/cli"
	"nucleus-scroll/internal/term"
	"nucleus-scroll/nucleus"
	"nucleus-scroll/timeline"
)

var logFile string

func main() {
	v := viper.New()
	cmd := &cobra.Command{
		Use:   "nucleus-term",
		Short: "Scroll-driven 3D nucleus animation in the terminal",
		Long: `nucleus-term - scroll-driven 3D nucleus animation in the terminal

Controls:
  Wheel              - Scroll
  PgUp/PgDn, j/k     - Scroll by page / quarter page
  Home/End, g/G      - Jump to start / end
  Esc, Backspace, q  - Back (quit)`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, err := cli.Load(v)
			if err != nil {
				return err
			}
			// The screen owns stdout/stderr; logs go to a file or nowhere.
			var w io.Writer = io.Discard
			if logFile != "" {
				f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
				if err != nil {
					return fmt.Errorf("open log file: %w", err)
				}
				defer f.Close()
				w = f
			}
			logger, err := cli.NewLogger(settings.LogLevel, w)
			if err != nil {
				return err
			}
			return run(cmd.Context(), settings, logger)
		},
	}
	// The GLFW executable follows vsync, so only the terminal one takes a rate.
	cmd.Flags().Int("fps", term.MaxFPS, fmt.Sprintf("frames per second, at most %d", term.MaxFPS))
	if err := cli.BindFlags(cmd, v); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	cmd.Flags().StringVar(&logFile, "log-file", "", "append logs to this file")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := cmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func run(ctx context.Context, settings cli.Settings, logger *slog.Logger) error {
	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("%w: %w", nucleus.ErrNoRenderContext, err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("%w: %w", nucleus.ErrNoRenderContext, err)
	}
	defer screen.Fini()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	host := term.NewHost(screen, logger)
	view, err := nucleus.Activate(host, settings.Config(logger), cancel)
	if err != nil {
		return err
	}
	defer func() {
		if err := view.Deactivate(); err != nil {
			logger.Warn("deactivate", "err", err)
		}
	}()

	host.SetOverlaySource(func() (int, timeline.OverlayState) {
		i := view.ActiveOverlay()
		return i, view.Overlay(i)
	})

	pages := settings.Pages
	if pages <= 1 {
		pages = nucleus.DefaultConfig().ScrollPages
	}
	page := 1 / (pages - 1)
	host.SetKeyHandler(func(ev *tcell.EventKey) bool {
		var err error
		switch ev.Key() {
		case tcell.KeyEscape, tcell.KeyBackspace, tcell.KeyBackspace2:
			err = view.Back()
		case tcell.KeyPgDn:
			err = view.ScrollBy(page)
		case tcell.KeyPgUp:
			err = view.ScrollBy(-page)
		case tcell.KeyDown:
			err = view.ScrollBy(page / 4)
		case tcell.KeyUp:
			err = view.ScrollBy(-page / 4)
		case tcell.KeyHome:
			err = view.ScrollTo(0, false)
		case tcell.KeyEnd:
			err = view.ScrollTo(1, false)
		case tcell.KeyRune:
			switch ev.Rune() {
			case 'q':
				err = view.Back()
			case ' ':
				err = view.ScrollBy(page)
			case 'j':
				err = view.ScrollBy(page / 4)
			case 'k':
				err = view.ScrollBy(-page / 4)
			case 'g':
				err = view.ScrollTo(0, false)
			case 'G':
				err = view.ScrollTo(1, false)
			}
		}
		if err != nil && !errors.Is(err, nucleus.ErrDeactivated) {
			logger.Warn("key", "err", err)
		}
		return !view.Closed()
	})

	err = host.Run(ctx, settings.FPS)
	logger.Info("exit", "frames", view.Frames())
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
