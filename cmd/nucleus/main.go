package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"nucleus-scroll/cmd/internal/cli"
	"nucleus-scroll/nucleus"
	"nucleus-scroll/scene"
	"nucleus-scroll/timeline"
	"nucleus-scroll/window"
)

var (
	snapshotPath string
	snapshotAt   float64
	fullscreen   bool
)

func main() {
	v := viper.New()
	cmd := &cobra.Command{
		Use:   "nucleus",
		Short: "Scroll-driven 3D nucleus animation",
		Long: `nucleus - scroll-driven 3D nucleus animation

Scroll to move through the five phases.

Controls:
  Wheel              - Scroll
  PgUp/PgDn, arrows  - Scroll by page / quarter page
  Home/End           - Jump to start / end
  Esc, Backspace     - Back (quit)`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, err := cli.Load(v)
			if err != nil {
				return err
			}
			logger, err := cli.NewLogger(settings.LogLevel, os.Stderr)
			if err != nil {
				return err
			}
			return run(settings, logger)
		},
	}
	if err := cli.BindFlags(cmd, v); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	cmd.Flags().StringVar(&snapshotPath, "snapshot", "", "write a .glb of the scene at --snapshot-at and exit")
	cmd.Flags().Float64Var(&snapshotAt, "snapshot-at", 0.5, "scroll progress for --snapshot")
	cmd.Flags().BoolVar(&fullscreen, "fullscreen", false, "open fullscreen")

	inspectCmd := &cobra.Command{
		Use:   "inspect <snapshot.glb>",
		Short: "Print the meshes of a snapshot",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return inspect(cmd.OutOrStdout(), args[0])
		},
	}
	cmd.AddCommand(inspectCmd)

	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(settings cli.Settings, logger *slog.Logger) error {
	cfg := window.DefaultWindowConfig()
	cfg.Title = "Nucleus"
	cfg.Fullscreen = fullscreen
	win, err := window.NewWindow(cfg)
	if err != nil {
		return fmt.Errorf("%w: %w", nucleus.ErrNoRenderContext, err)
	}
	defer win.Destroy()

	host := newGLFWHost(win)
	view, err := nucleus.Activate(host, settings.Config(logger), func() {
		win.SetShouldClose(true)
	})
	if err != nil {
		return err
	}
	defer func() {
		if err := view.Deactivate(); err != nil {
			logger.Warn("deactivate", "err", err)
		}
	}()
	logger.Info("renderer ready", "gl", host.engine.Version())

	if snapshotPath != "" {
		return snapshot(host, view, logger)
	}

	pages := settings.Pages
	if pages <= 1 {
		pages = nucleus.DefaultConfig().ScrollPages
	}
	page := 1 / (pages - 1)
	win.SetKeyCallback(func(key int) {
		var err error
		switch glfw.Key(key) {
		case glfw.KeyEscape, glfw.KeyBackspace:
			err = view.Back()
		case glfw.KeyPageDown, glfw.KeySpace:
			err = view.ScrollBy(page)
		case glfw.KeyPageUp:
			err = view.ScrollBy(-page)
		case glfw.KeyDown:
			err = view.ScrollBy(page / 4)
		case glfw.KeyUp:
			err = view.ScrollBy(-page / 4)
		case glfw.KeyHome:
			err = view.ScrollTo(0, false)
		case glfw.KeyEnd:
			err = view.ScrollTo(1, false)
		}
		if err != nil && !errors.Is(err, nucleus.ErrDeactivated) {
			logger.Warn("key", "key", key, "err", err)
		}
	})

	lastTitle := time.Duration(0)
	for !win.ShouldClose() {
		win.PollEvents()
		now := time.Duration(win.Time() * float64(time.Second))
		if host.queue.Run(now) == 0 && view.Closed() {
			break
		}
		if now-lastTitle >= 250*time.Millisecond && !view.Closed() {
			st := view.State()
			win.SetTitle(fmt.Sprintf("Nucleus | %s | %3.0f%%",
				timeline.Phases[st.Phase].Name, view.Progress()*100))
			lastTitle = now
		}
	}
	logger.Info("exit", "frames", view.Frames())
	return nil
}

// snapshot seeks to the requested progress, lets the scrub settle over
// simulated frames, and writes the scene as binary glTF.
func snapshot(host *glfwHost, view *nucleus.View, logger *slog.Logger) error {
	if err := view.ScrollTo(snapshotAt, true); err != nil {
		return err
	}
	const frames = 180
	for i := 0; i < frames; i++ {
		host.queue.Run(time.Duration(i) * time.Second / 60)
	}
	if err := scene.ExportGLB(view.Graph().Scene, snapshotPath); err != nil {
		return err
	}
	st := view.State()
	logger.Info("snapshot written",
		"path", snapshotPath,
		"progress", view.Progress(),
		"phase", timeline.Phases[st.Phase].Name)
	return nil
}

var drawModeNames = map[scene.DrawMode]string{
	scene.DrawTriangles: "triangles",
	scene.DrawLines:     "lines",
	scene.DrawPoints:    "points",
}

func inspect(w io.Writer, path string) error {
	nodes, err := scene.LoadGLB(path)
	if err != nil {
		return err
	}
	total := 0
	for _, n := range nodes {
		m := n.Mesh
		matName := "-"
		if m.Material != nil {
			matName = m.Material.Name
		}
		fmt.Fprintf(w, "%-12s %-9s verts=%-6d tris=%-6d material=%s\n",
			n.Name, drawModeNames[m.DrawMode], len(m.Vertices), m.TriangleCount(), matName)
		total += len(m.Vertices)
	}
	fmt.Fprintf(w, "%d nodes, %d vertices\n", len(nodes), total)
	return nil
}
