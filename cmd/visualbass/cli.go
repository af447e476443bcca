package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/gordonklaus/portaudio"
	"github.com/rotisserie/eris"
	"github.com/urfave/cli/v3"

	"github.com/visualbass/visualbass-sync/internal/config"
	"github.com/visualbass/visualbass-sync/internal/lifx"
)

// runFlags are declared on the root command and inherited by subcommands.
func runFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "YAML configuration file",
		},
		&cli.BoolFlag{
			Name:  "debug",
			Usage: "enable debug logging",
		},
		&cli.BoolFlag{
			Name:  "visualize",
			Usage: "render the terminal visualizer (logs go to stderr)",
		},
		&cli.StringFlag{
			Name:  "light",
			Usage: "LIFX light address (ip[:port], default port 56700); discovered when empty",
		},
		&cli.StringFlag{
			Name:  "mac",
			Usage: "MAC address of the light given with --light",
		},
		&cli.BoolFlag{
			Name:  "no-light",
			Usage: "run without a light",
		},
		&cli.IntFlag{
			Name:  "device",
			Usage: "audio input device index (-1 to choose interactively)",
			Value: -1,
		},
		&cli.FloatFlag{
			Name:  "sample-rate",
			Usage: "capture sample rate in Hz",
		},
		&cli.IntFlag{
			Name:  "block-size",
			Usage: "samples per channel in each captured block",
		},
		&cli.IntFlag{
			Name:  "channels",
			Usage: "number of input channels to capture (<= device max)",
		},
		&cli.DurationFlag{
			Name:  "latency",
			Usage: "override input latency (0 = device default)",
		},
		&cli.StringFlag{
			Name:  "input-file",
			Usage: "replay a WAV or MP3 file instead of capturing from a device",
		},
		&cli.BoolFlag{
			Name:  "loop",
			Usage: "restart --input-file when it ends",
		},
		&cli.StringFlag{
			Name:  "mode",
			Usage: "start mode: polygon, both, db_meters, gravity, waveform, radial",
		},
		&cli.FloatFlag{
			Name:  "sensitivity",
			Usage: "glow sensitivity multiplier (0.1-10)",
		},
		&cli.FloatFlag{
			Name:  "floor",
			Usage: "brightness floor fraction (0-1)",
		},
		&cli.FloatFlag{
			Name:  "hue",
			Usage: "pin the hue (0-1); 0 keeps auto-cycling",
		},
		&cli.StringFlag{
			Name:  "stream",
			Usage: "serve snapshots over websocket on this address (host:port)",
		},
	}
}

func runCommand() *cli.Command {
	return &cli.Command{
		Name:   "run",
		Usage:  "Capture audio and drive the light (default)",
		Action: runAction,
	}
}

func runAction(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	return runVisualizer(ctx, cfg, cmd.Bool("debug"))
}

// loadConfig reads --config and applies the flags that were explicitly set.
func loadConfig(cmd *cli.Command) (config.Config, error) {
	cfg, err := config.Load(cmd.String("config"))
	if err != nil {
		return cfg, err
	}

	if cmd.IsSet("visualize") {
		cfg.Display.Visualize = cmd.Bool("visualize")
	}
	if cmd.IsSet("light") {
		cfg.Light.Address = cmd.String("light")
	}
	if cmd.IsSet("mac") {
		cfg.Light.MAC = cmd.String("mac")
	}
	if cmd.Bool("no-light") {
		cfg.Light.Enabled = false
	}
	if cmd.IsSet("device") {
		cfg.Audio.Device = int(cmd.Int("device"))
	}
	if cmd.IsSet("sample-rate") {
		cfg.Audio.SampleRate = cmd.Float("sample-rate")
	}
	if cmd.IsSet("block-size") {
		cfg.Audio.BlockSize = int(cmd.Int("block-size"))
	}
	if cmd.IsSet("channels") {
		cfg.Audio.Channels = int(cmd.Int("channels"))
	}
	if cmd.IsSet("latency") {
		cfg.Audio.Latency = cmd.Duration("latency")
	}
	if cmd.IsSet("input-file") {
		cfg.Audio.InputFile = cmd.String("input-file")
	}
	if cmd.IsSet("loop") {
		cfg.Audio.InputLoop = cmd.Bool("loop")
	}
	if cmd.IsSet("mode") {
		cfg.Params.Mode = cmd.String("mode")
	}
	if cmd.IsSet("sensitivity") {
		cfg.Params.Sensitivity = cmd.Float("sensitivity")
	}
	if cmd.IsSet("floor") {
		cfg.Params.BrightnessFloor = cmd.Float("floor")
	}
	if cmd.IsSet("hue") {
		cfg.Params.Hue = cmd.Float("hue")
	}
	if cmd.IsSet("stream") {
		cfg.Display.StreamAddr = cmd.String("stream")
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func devicesCommand() *cli.Command {
	return &cli.Command{
		Name:  "devices",
		Usage: "List audio input devices",
		Action: func(_ context.Context, cmd *cli.Command) error {
			if err := portaudio.Initialize(); err != nil {
				return eris.Wrap(err, "initialize PortAudio")
			}
			defer portaudio.Terminate()

			devices, err := portaudio.Devices()
			if err != nil {
				return eris.Wrap(err, "enumerate audio devices")
			}

			defaultIndex := -1
			if def, err := portaudio.DefaultInputDevice(); err == nil {
				defaultIndex = def.Index
			}

			out := cmd.Root().Writer
			for i, dev := range devices {
				if dev.MaxInputChannels < 1 {
					continue
				}
				marker := " "
				if dev.Index == defaultIndex {
					marker = "*"
				}
				fmt.Fprintf(out, "%s %s\n", marker, describeDevice(i, dev))
			}
			return nil
		},
	}
}

func discoverCommand() *cli.Command {
	return &cli.Command{
		Name:  "discover",
		Usage: "Find LIFX lights on the local network",
		Flags: []cli.Flag{
			&cli.DurationFlag{
				Name:  "timeout",
				Usage: "how long to wait for replies",
				Value: 2 * time.Second,
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			logger := setupLogger(cmd.Bool("debug"), false)

			bulbs, err := lifx.Discover(ctx, cmd.Duration("timeout"))
			if err != nil {
				return err
			}

			out := cmd.Root().Writer
			if len(bulbs) == 0 {
				fmt.Fprintln(out, "no lights found")
				return nil
			}

			for _, bulb := range bulbs {
				if err := bulb.Connect(ctx); err != nil {
					return err
				}
				if _, err := bulb.RefreshLabel(ctx); err != nil {
					logger.Warn("failed to read light label",
						slog.String("light", bulb.String()),
						slog.Any("error", err))
				}
				if _, err := bulb.RefreshPower(ctx); err != nil {
					logger.Debug("failed to read light power", slog.Any("error", err))
				}
				if err := bulb.Disconnect(); err != nil {
					logger.Debug("failed to disconnect light", slog.Any("error", err))
				}
				fmt.Fprintln(out, describeLight(bulb))
			}
			return nil
		},
	}
}
