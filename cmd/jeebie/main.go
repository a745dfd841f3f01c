package main

import (
	"errors"
	"log/slog"
	"os"
	"strings"

	"github.com/urfave/cli"
	"github.com/valerio/dmgcore/jeebie"
	"github.com/valerio/dmgcore/jeebie/hostterm"
)

// config holds the run parameters derived from CLI flags.
type config struct {
	romPath  string
	headless bool
	frames   int
	scale    int
	logLevel slog.Level
}

func main() {
	app := cli.NewApp()
	app.Name = "jeebie"
	app.Description = "A Game Boy (DMG) emulator core with a terminal front-end"
	app.Usage = "jeebie [options] <ROM file>"
	app.Version = "1.0.0"
	app.Flags = []cli.Flag{
		cli.StringFlag{
			Name:  "rom",
			Usage: "Path to the ROM file",
		},
		cli.BoolFlag{
			Name:  "headless",
			Usage: "Run the emulator without a terminal front-end",
		},
		cli.IntFlag{
			Name:  "frames",
			Usage: "Number of frames to run in headless mode (required for headless)",
			Value: 0,
		},
		cli.IntFlag{
			Name:  "scale",
			Usage: "Terminal presenter scale factor (cells per Game Boy pixel)",
			Value: 1,
		},
		cli.StringFlag{
			Name:  "log-level",
			Usage: "Log level: debug, info, warn, error",
			Value: "info",
		},
	}
	app.Action = runEmulator

	if err := app.Run(os.Args); err != nil {
		slog.Error("jeebie exited with an error", "error", err)
		os.Exit(1)
	}
}

func configFromContext(c *cli.Context) (config, error) {
	romPath := c.String("rom")
	if romPath == "" {
		if c.NArg() > 0 {
			romPath = c.Args().Get(0)
		} else {
			cli.ShowAppHelp(c)
			return config{}, errors.New("no ROM path provided")
		}
	}

	scale := c.Int("scale")
	if scale < 1 {
		scale = 1
	}

	return config{
		romPath:  romPath,
		headless: c.Bool("headless"),
		frames:   c.Int("frames"),
		scale:    scale,
		logLevel: parseLogLevel(c.String("log-level")),
	}, nil
}

func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func runEmulator(c *cli.Context) error {
	cfg, err := configFromContext(c)
	if err != nil {
		return err
	}

	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.logLevel})
	slog.SetDefault(slog.New(handler))

	emu, err := jeebie.NewWithFile(cfg.romPath)
	if err != nil {
		return err
	}

	if cfg.headless {
		return runHeadless(emu, cfg.frames)
	}

	presenter, err := hostterm.New(emu, cfg.scale)
	if err != nil {
		return err
	}
	return presenter.Run()
}

func runHeadless(emu *jeebie.Emulator, frames int) error {
	if frames <= 0 {
		return errors.New("headless mode requires --frames option with a positive value")
	}

	slog.Info("running headless", "frames", frames)

	for i := 0; i < frames; i++ {
		emu.RunFrame()
		if (i+1)%60 == 0 {
			slog.Info("frame progress", "completed", i+1, "total", frames)
		}
	}

	slog.Info("headless run complete", "frames", emu.FrameCount())
	return nil
}
