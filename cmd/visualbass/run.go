package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/gordonklaus/portaudio"
	"github.com/rotisserie/eris"
	"golang.org/x/sync/errgroup"

	"github.com/visualbass/visualbass-sync/internal/audio"
	"github.com/visualbass/visualbass-sync/internal/config"
	"github.com/visualbass/visualbass-sync/internal/controller"
	"github.com/visualbass/visualbass-sync/internal/dsp"
	"github.com/visualbass/visualbass-sync/internal/lifx"
	"github.com/visualbass/visualbass-sync/internal/light"
	"github.com/visualbass/visualbass-sync/internal/state"
	"github.com/visualbass/visualbass-sync/internal/stream"
	"github.com/visualbass/visualbass-sync/internal/ui"
)

const (
	powerTransition = 250 * time.Millisecond
	powerOffDelay   = 500 * time.Millisecond
)

// captureFunc feeds blocks into the link until ctx is cancelled or the
// source is exhausted.
type captureFunc func(ctx context.Context, link *audio.Link) error

func runVisualizer(ctx context.Context, cfg config.Config, debug bool) error {
	logger := setupLogger(debug, cfg.Display.Visualize)

	lights, err := resolveLights(ctx, logger, cfg.Light)
	if err != nil {
		return err
	}

	var capture captureFunc
	if cfg.Audio.InputFile != "" {
		capture, err = fileCapture(logger, &cfg)
		if err != nil {
			return err
		}
		sel, err := selectLightAndDevice(lights, nil, -1, -1, cfg.Light.Address != "")
		if err != nil {
			return eris.Wrap(err, "select light")
		}
		return run(ctx, logger, cfg, sel.Light, capture)
	}

	if err := portaudio.Initialize(); err != nil {
		return eris.Wrap(err, "initialize PortAudio")
	}
	defer portaudio.Terminate()

	devices, err := inputDevices()
	if err != nil {
		return err
	}
	if len(devices) == 0 {
		return eris.New("no input devices available")
	}

	defaultDevice, err := portaudio.DefaultInputDevice()
	if err != nil {
		logger.Warn("no default audio input device", slog.Any("error", err))
	}

	sel, err := selectLightAndDevice(
		lights,
		devices,
		cfg.Audio.Device,
		defaultDevicePosition(devices, defaultDevice),
		cfg.Light.Address != "",
	)
	if err != nil {
		return eris.Wrap(err, "select light/device")
	}

	channels := sanitizeChannelCount(cfg.Audio.Channels, sel.Device.MaxInputChannels)
	if channels != cfg.Audio.Channels {
		logger.Warn("requested channels exceed device capabilities",
			slog.Int("requested", cfg.Audio.Channels),
			slog.Int("max", sel.Device.MaxInputChannels),
			slog.Int("using", channels),
		)
		cfg.Audio.Channels = channels
	}

	return run(ctx, logger, cfg, sel.Light, deviceCapture(logger, sel.Device, cfg.Audio))
}

func setupLogger(debug, visualize bool) *slog.Logger {
	logOutput := os.Stdout
	logLevel := slog.LevelInfo
	if debug {
		logLevel = slog.LevelDebug
	}
	if visualize && !debug {
		logLevel = slog.LevelWarn
	}
	if visualize {
		logOutput = os.Stderr
	}

	logger := slog.New(slog.NewTextHandler(logOutput, &slog.HandlerOptions{Level: logLevel}))
	slog.SetDefault(logger)

	return logger
}

func resolveLights(ctx context.Context, logger *slog.Logger, cfg config.Light) ([]*lifx.Bulb, error) {
	if !cfg.Enabled {
		logger.Info("light output disabled")
		return nil, nil
	}

	if cfg.Address != "" {
		bulb, err := lifx.NewBulbFromAddress(cfg.Address, cfg.MAC)
		if err != nil {
			return nil, eris.Wrap(err, "parse light address")
		}
		return []*lifx.Bulb{bulb}, nil
	}

	bulbs, err := lifx.Discover(ctx, cfg.DiscoverTimeout)
	if err != nil {
		return nil, err
	}
	if len(bulbs) == 0 {
		logger.Warn("no LIFX lights found; running without a light")
		return nil, nil
	}

	// labels make the selection screen readable
	for _, bulb := range bulbs {
		if err := bulb.Connect(ctx); err != nil {
			continue
		}
		if _, err := bulb.RefreshLabel(ctx); err != nil {
			logger.Debug("failed to read light label", slog.String("light", bulb.String()), slog.Any("error", err))
		}
		_ = bulb.Disconnect()
	}

	return bulbs, nil
}

func inputDevices() ([]*portaudio.DeviceInfo, error) {
	all, err := portaudio.Devices()
	if err != nil {
		return nil, eris.Wrap(err, "enumerate audio devices")
	}

	devices := make([]*portaudio.DeviceInfo, 0, len(all))
	for _, dev := range all {
		if dev.MaxInputChannels > 0 {
			devices = append(devices, dev)
		}
	}
	return devices, nil
}

func run(ctx context.Context, logger *slog.Logger, cfg config.Config, bulb *lifx.Bulb, capture captureFunc) error {
	var target light.Light
	lightName := ""
	if bulb != nil {
		bulb.AckRequired = cfg.Light.Ack
		bulb.AckTimeout = cfg.Light.AckTimeout

		if err := bulb.Connect(ctx); err != nil {
			return err
		}
		defer shutdownLight(context.WithoutCancel(ctx), logger, bulb)

		if _, err := bulb.RefreshLabel(ctx); err != nil {
			logger.Warn("failed to read light label", slog.Any("error", err))
		}
		if err := bulb.SetPower(ctx, true, powerTransition); err != nil {
			logger.Warn("failed to turn on light", slog.Any("error", err))
		} else {
			logger.Info("light turned on")
		}

		logger.Info("using LIFX light",
			slog.String("label", bulb.Label()),
			slog.String("mac", bulb.MAC()),
			slog.String("addr", bulb.Addr().String()),
		)

		target = light.NewLIFX(bulb)
		lightName = bulb.String()
	}

	loopCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	queue := audio.NewFrameQueue(cfg.Audio.QueueCapacity)
	link := audio.NewLink(queue, cfg.Audio.Channels, logger)

	store := state.NewStore(state.Options{
		Mode:       cfg.Mode(),
		Parameters: cfg.Parameters(),
		ManualHue:  cfg.Params.Hue,
		InitialHue: state.InitialHue,
	}, logger)

	dispatcher := light.NewDispatcher(target, cfg.DispatchOptions(), logger)
	loop := controller.NewLoop(
		queue,
		dsp.NewAnalyzer(cfg.AnalyzerOptions(), logger),
		dsp.NewDecayMeter(cfg.DecayOptions()),
		store,
		dispatcher,
		controller.Options{
			UpdateInterval:  cfg.Display.UpdateInterval,
			DisplayGlowRate: cfg.Smoothing.DisplayGlowRate,
			Kelvin:          cfg.Light.Kelvin,
			LightName:       lightName,
		},
		logger,
	)

	if cfg.Display.Visualize {
		viz := ui.NewVisualizer(loop.Submit, cancel)
		defer viz.Close()
		loop.AddRenderer(viz)
	}

	g, gctx := errgroup.WithContext(loopCtx)

	if cfg.Display.StreamAddr != "" {
		hub := stream.NewHub(loop.Submit, stream.DefaultThrottle, logger)
		loop.AddRenderer(hub)
		g.Go(func() error {
			return hub.ListenAndServe(gctx, cfg.Display.StreamAddr)
		})
	}

	g.Go(func() error {
		err := capture(gctx, link)
		if err == nil {
			logger.Info("audio input finished")
			cancel()
		}
		return err
	})

	g.Go(func() error {
		return dispatcher.Run(gctx)
	})

	g.Go(func() error {
		return loop.Run(gctx)
	})

	if err := g.Wait(); err != nil && !eris.Is(err, context.Canceled) {
		logger.Error("audio reactive loop failed", slog.Any("error", err))
		return err
	}

	stats := dispatcher.Stats()
	logger.Info("stopped",
		slog.Uint64("light_updates", stats.Sent),
		slog.Uint64("light_failures", stats.Failed),
		slog.Uint64("frames_dropped", queue.Dropped()),
	)

	return nil
}

func shutdownLight(ctx context.Context, logger *slog.Logger, bulb *lifx.Bulb) {
	if err := bulb.SetPower(ctx, false, powerTransition); err != nil {
		logger.Warn("failed to turn off light", slog.Any("error", err))
	} else {
		logger.Info("light turned off")
	}
	time.Sleep(powerOffDelay)
	if err := bulb.Disconnect(); err != nil {
		logger.Warn("failed to disconnect from light", slog.Any("error", err))
	} else {
		logger.Info("light disconnected")
	}
}

func deviceCapture(logger *slog.Logger, device *portaudio.DeviceInfo, cfg config.Audio) captureFunc {
	return func(ctx context.Context, link *audio.Link) error {
		logger.Info("using audio input device",
			slog.String("name", device.Name),
			slog.Float64("sample_rate", cfg.SampleRate),
			slog.Int("channels", cfg.Channels),
			slog.Int("block_size", cfg.BlockSize))

		params := portaudio.StreamParameters{
			Input: portaudio.StreamDeviceParameters{
				Device:   device,
				Channels: cfg.Channels,
				Latency:  device.DefaultLowInputLatency,
			},
			SampleRate:      cfg.SampleRate,
			FramesPerBuffer: cfg.BlockSize,
		}
		if cfg.Latency > 0 {
			params.Input.Latency = cfg.Latency
		}

		input, err := portaudio.OpenStream(params, func(in []float32, _ portaudio.StreamCallbackTimeInfo, flags portaudio.StreamCallbackFlags) {
			if flags&portaudio.InputOverflow != 0 {
				link.Status("input overflow")
			}
			if flags&portaudio.InputUnderflow != 0 {
				link.Status("input underflow")
			}
			link.Capture(in)
		})
		if err != nil {
			return eris.Wrap(err, "open audio stream")
		}
		defer input.Close()

		if err := input.Start(); err != nil {
			return eris.Wrap(err, "start audio stream")
		}
		defer input.Stop()

		<-ctx.Done()
		return ctx.Err()
	}
}

// fileCapture decodes the configured input file and adopts its sample rate.
func fileCapture(logger *slog.Logger, cfg *config.Config) (captureFunc, error) {
	pcm, err := audio.DecodeFile(cfg.Audio.InputFile)
	if err != nil {
		return nil, err
	}

	src := audio.NewFileSource(pcm, cfg.Audio.BlockSize, cfg.Audio.Channels, cfg.Audio.InputLoop)
	cfg.Audio.SampleRate = float64(src.SampleRate())

	logger.Info("replaying audio file",
		slog.String("path", cfg.Audio.InputFile),
		slog.Int("sample_rate", src.SampleRate()),
		slog.Int("channels", cfg.Audio.Channels),
		slog.Duration("block", src.BlockDuration()),
		slog.Bool("loop", cfg.Audio.InputLoop))

	return func(ctx context.Context, link *audio.Link) error {
		return src.Run(ctx, link.Capture)
	}, nil
}
