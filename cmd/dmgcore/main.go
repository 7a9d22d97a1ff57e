// Command dmgcore runs the emulator headlessly: it loads a ROM, executes a
// fixed number of frames, and optionally dumps periodic text snapshots of
// the framebuffer. There is no graphical front end; see SPEC_FULL.md for
// why.
package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/urfave/cli"

	"github.com/example/dmgcore"
)

func main() {
	app := cli.NewApp()
	app.Name = "dmgcore"
	app.Usage = "dmgcore [options] <ROM file>"
	app.Description = "A headless Game Boy (DMG) core"
	app.Version = "1.0.0"
	app.Flags = []cli.Flag{
		cli.StringFlag{
			Name:  "rom",
			Usage: "Path to the ROM file",
		},
		cli.IntFlag{
			Name:  "frames",
			Usage: "Number of frames to run",
			Value: 60,
		},
		cli.IntFlag{
			Name:  "snapshot-interval",
			Usage: "Save a text snapshot of the framebuffer every N frames (0 = disabled)",
			Value: 0,
		},
		cli.StringFlag{
			Name:  "snapshot-dir",
			Usage: "Directory to save snapshots in",
			Value: "snapshots",
		},
		cli.BoolFlag{
			Name:  "debug",
			Usage: "Enable debug-level logging",
		},
	}
	app.Action = run

	if err := app.Run(os.Args); err != nil {
		slog.Error("dmgcore exited with an error", "error", err)
		os.Exit(1)
	}
}

func run(c *cli.Context) error {
	if c.Bool("debug") {
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
	}

	romPath := c.String("rom")
	if romPath == "" {
		if c.NArg() > 0 {
			romPath = c.Args().Get(0)
		} else {
			cli.ShowAppHelp(c)
			return errors.New("no ROM path provided")
		}
	}

	emu, err := dmgcore.NewWithROM(romPath)
	if err != nil {
		return fmt.Errorf("loading ROM: %w", err)
	}

	frames := c.Int("frames")
	if frames <= 0 {
		return errors.New("--frames must be positive")
	}

	snapshotInterval := c.Int("snapshot-interval")
	snapshotDir := c.String("snapshot-dir")
	romName := strings.TrimSuffix(filepath.Base(romPath), filepath.Ext(romPath))

	if snapshotInterval > 0 {
		if err := os.MkdirAll(snapshotDir, 0o755); err != nil {
			return fmt.Errorf("creating snapshot directory: %w", err)
		}
	}

	for i := 0; i < frames; i++ {
		emu.RunFrame()

		if snapshotInterval > 0 && (i+1)%snapshotInterval == 0 {
			path := filepath.Join(snapshotDir, fmt.Sprintf("%s_frame_%d.txt", romName, i+1))
			if err := saveSnapshot(emu, path); err != nil {
				slog.Error("failed to save snapshot", "frame", i+1, "error", err)
			} else {
				slog.Info("saved snapshot", "frame", i+1, "path", path)
			}
		}
	}

	slog.Info("run completed", "frames", frames)
	return nil
}

// saveSnapshot renders the current frame as half-block text art: each text
// row packs two pixel rows using ▀/▄/█/space, where a pixel counts as filled
// when its shade index is 2 or 3 (0 lightest .. 3 darkest).
func saveSnapshot(emu *dmgcore.Emulator, path string) error {
	fb := emu.Framebuffer()

	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	fmt.Fprintf(file, "# frame %d\n", emu.FrameCount())

	shade := func(x, y int) bool { return fb.At(x, y) >= 2 }

	for y := 0; y < 144; y += 2 {
		var line strings.Builder
		for x := 0; x < 160; x++ {
			top := shade(x, y)
			bottom := shade(x, y+1)
			switch {
			case top && bottom:
				line.WriteRune('█')
			case top:
				line.WriteRune('▀')
			case bottom:
				line.WriteRune('▄')
			default:
				line.WriteRune(' ')
			}
		}
		fmt.Fprintln(file, line.String())
	}

	return nil
}
