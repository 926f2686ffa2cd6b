// Command goboy is a thin consumer of the goboycore library: it owns
// everything the core deliberately doesn't — ROM file I/O, CLI argument
// parsing, and a terminal or SDL2-audio frontend.
package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/tamberwick/goboycore"
	"github.com/tamberwick/goboycore/internal/frontend/sdl2audio"
	"github.com/tamberwick/goboycore/internal/frontend/terminal"
	"github.com/urfave/cli"
)

func main() {
	app := cli.NewApp()
	app.Name = "goboy"
	app.Usage = "goboy [options] <ROM file>"
	app.Description = "A Game Boy (DMG/CGB) core runner"
	app.Version = "1.0.0"
	app.Flags = []cli.Flag{
		cli.StringFlag{
			Name:  "rom",
			Usage: "path to the ROM file",
		},
		cli.BoolFlag{
			Name:  "headless",
			Usage: "run without a terminal display",
		},
		cli.IntFlag{
			Name:  "frames",
			Usage: "number of frames to run in headless mode",
			Value: 0,
		},
		cli.StringFlag{
			Name:  "boot-rom",
			Usage: "optional boot ROM path to overlay before the post-boot state",
		},
		cli.BoolFlag{
			Name:  "sdl2-audio",
			Usage: "play audio through SDL2 in headless mode (requires building with -tags sdl2)",
		},
	}
	app.Action = run

	if err := app.Run(os.Args); err != nil {
		slog.Error("goboy: fatal", "error", err)
		os.Exit(1)
	}
}

func run(c *cli.Context) error {
	romPath := c.String("rom")
	if romPath == "" {
		if c.NArg() > 0 {
			romPath = c.Args().Get(0)
		} else {
			cli.ShowAppHelp(c)
			return errors.New("no ROM path provided")
		}
	}

	rom, err := os.ReadFile(romPath)
	if err != nil {
		return fmt.Errorf("goboy: reading ROM: %w", err)
	}

	gb, err := goboycore.New(rom)
	if err != nil {
		return err
	}

	if bootPath := c.String("boot-rom"); bootPath != "" {
		boot, err := os.ReadFile(bootPath)
		if err != nil {
			return fmt.Errorf("goboy: reading boot ROM: %w", err)
		}
		gb.SetBootROM(boot)
	}

	var sink sdl2audio.Sink
	if c.Bool("sdl2-audio") {
		sink, err = sdl2audio.NewSink()
		if err != nil {
			slog.Warn("goboy: sdl2 audio unavailable, continuing without sound", "error", err)
		} else {
			defer sink.Close()
		}
	}

	if c.Bool("headless") {
		frames := c.Int("frames")
		if frames <= 0 {
			return errors.New("headless mode requires --frames with a positive value")
		}
		return runHeadless(gb, frames, sink)
	}

	renderer, err := terminal.New(gb)
	if err != nil {
		return err
	}
	return renderer.Run()
}

func runHeadless(gb *goboycore.GameBoy, frames int, sink sdl2audio.Sink) error {
	for i := 0; i < frames; i++ {
		gb.RunFrame()
		if sink != nil {
			if err := sink.Queue(gb.TakeAudio()); err != nil {
				slog.Warn("goboy: audio queue failed", "error", err)
			}
		}
		if (i+1)%60 == 0 {
			slog.Info("goboy: frame progress", "completed", i+1, "total", frames)
		}
	}
	slog.Info("goboy: headless run complete", "frames", frames)
	return nil
}
