package main

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/time/rate"

	"sifi-bridge-go/internal/infra/config"
	"sifi-bridge-go/internal/infra/logger"
	"sifi-bridge-go/internal/infra/tracer"
	"sifi-bridge-go/internal/recorder"
	"sifi-bridge-go/pkg/sifibridge"
)

// app bundles what every command needs: loaded config, the logger, and the
// tracer shutdown hook.
type app struct {
	cfg *config.Config
	log *slog.Logger

	logClose       func() error
	tracerShutdown func(context.Context) error
}

// newApp loads configuration and brings up logging and tracing.
func newApp(ctx context.Context) (*app, error) {
	cfg, err := config.Load(configPath())
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	log, logClose, err := logger.New(cfg.Logger)
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}

	tracerShutdown, err := tracer.Setup(ctx, cfg.Tracer)
	if err != nil {
		logClose()
		return nil, fmt.Errorf("tracer: %w", err)
	}

	return &app{
		cfg:            cfg,
		log:            log,
		logClose:       logClose,
		tracerShutdown: tracerShutdown,
	}, nil
}

// close flushes the tracer and releases the log output.
func (a *app) close(ctx context.Context) {
	if err := a.tracerShutdown(ctx); err != nil {
		a.log.Error("tracer shutdown", "error", err)
	}
	a.logClose()
}

// bridge spawns a sifi_bridge process per the config.
func (a *app) bridge() (*sifibridge.Bridge, error) {
	opts := []sifibridge.Option{
		sifibridge.WithExecutable(a.cfg.Bridge.Executable),
		sifibridge.WithLogger(a.log),
	}
	if a.cfg.Bridge.DataTransport != "" {
		opts = append(opts, sifibridge.WithDataTransport(a.cfg.Bridge.DataTransport))
	}
	return sifibridge.New(opts...)
}

// connect creates and selects the configured device handle, then retries
// connecting at the configured pace until the device accepts, the attempt
// budget runs out, or ctx is canceled. BLE connects fail routinely when the
// device is waking up, so one attempt is rarely enough.
func (a *app) connect(ctx context.Context, b *sifibridge.Bridge) error {
	device := a.cfg.Stream.Device
	if device != "" && device != sifibridge.DefaultDevice {
		if _, err := b.CreateDevice(device, true); err != nil {
			return err
		}
	}

	handle := a.cfg.Stream.Handle
	if handle == "" {
		handle = sifibridge.BioPointV1_3.String()
	}

	limiter := rate.NewLimiter(rate.Every(a.cfg.Bridge.RetryInterval()), 1)
	for attempt := 1; ; attempt++ {
		if err := limiter.Wait(ctx); err != nil {
			return err
		}
		connected, err := b.Connect(handle)
		if err != nil {
			return err
		}
		if connected {
			a.log.Info("device connected", "handle", handle, "attempt", attempt)
			return nil
		}
		if budget := a.cfg.Bridge.ConnectAttempts; budget > 0 && attempt >= budget {
			return fmt.Errorf("device %q did not connect after %d attempts", handle, attempt)
		}
	}
}

// applyConfig pushes channel selection, filters, sampling rates, and radio
// settings to the connected device.
func (a *app) applyConfig(b *sifibridge.Bridge) error {
	cfg := a.cfg
	ch := cfg.Stream.Channels

	if err := b.SetChannels(channelsFrom(ch)); err != nil {
		return err
	}
	if err := b.SetFilters(cfg.Stream.Filtering); err != nil {
		return err
	}

	if cfg.Stream.Filtering {
		if ch.EMG {
			f := cfg.Filters.EMG
			if err := b.ConfigureEMG(f.BandLow, f.BandHigh, f.Notch); err != nil {
				return err
			}
		}
		if ch.ECG {
			f := cfg.Filters.ECG
			if err := b.ConfigureECG(f.BandLow, f.BandHigh); err != nil {
				return err
			}
		}
		if ch.EDA {
			f := cfg.Filters.EDA
			if err := b.ConfigureEDA(f.BandLow, f.BandHigh, f.SignalHz); err != nil {
				return err
			}
		}
	}
	if ch.PPG {
		p := cfg.Filters.PPG
		err := b.ConfigurePPG(p.IR, p.Red, p.Green, p.Blue, sifibridge.PpgSensitivity(p.Sensitivity))
		if err != nil {
			return err
		}
	}

	s := cfg.Sampling
	if err := b.SetSamplingRates(s.ECG, s.EMG, s.EDA, s.IMU, s.PPG); err != nil {
		return err
	}

	if cfg.Stream.BlePower != "" {
		if err := b.SetBlePower(sifibridge.BlePower(cfg.Stream.BlePower)); err != nil {
			return err
		}
	}
	if cfg.Stream.MemoryMode != "" {
		if err := b.SetMemoryMode(sifibridge.MemoryMode(cfg.Stream.MemoryMode)); err != nil {
			return err
		}
	}
	if cfg.Stream.LowLatency {
		if err := b.SetStreamingMode(true); err != nil {
			return err
		}
	}
	return nil
}

// openSink opens the recording sink from the --out flag, falling back to the
// configured record.out URI.
func (a *app) openSink(out string) (recorder.Sink, string, error) {
	uri := a.cfg.Record.Out
	if out != "" {
		uri = out
	}
	sessionID := recorder.NewSessionID()
	sink, err := recorder.Open(uri, sessionID, a.log)
	if err != nil {
		return nil, "", err
	}
	a.log.Info("recording session", "session_id", sessionID, "out", uri)
	return sink, sessionID, nil
}

// channelsFrom converts the config channel selection to the bridge type.
func channelsFrom(ch config.ChannelsConfig) sifibridge.Channels {
	return sifibridge.Channels{ECG: ch.ECG, EMG: ch.EMG, EDA: ch.EDA, IMU: ch.IMU, PPG: ch.PPG}
}
