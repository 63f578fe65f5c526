package main

import (
	"context"
	"fmt"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"sifi-bridge-go/internal/infra/tracer"
)

// streamFlags holds optional flags for the stream command. Each one
// overrides its config counterpart.
type streamFlags struct {
	Duration string
	Device   string
	Handle   string
	Out      string
}

func parseStreamFlags(args []string) streamFlags {
	var flags streamFlags
	for i := 0; i < len(args); i++ {
		switch {
		case args[i] == "--duration" && i+1 < len(args):
			flags.Duration = args[i+1]
			i++
		case strings.HasPrefix(args[i], "--duration="):
			flags.Duration = strings.TrimPrefix(args[i], "--duration=")
		case args[i] == "--device" && i+1 < len(args):
			flags.Device = args[i+1]
			i++
		case strings.HasPrefix(args[i], "--device="):
			flags.Device = strings.TrimPrefix(args[i], "--device=")
		case args[i] == "--handle" && i+1 < len(args):
			flags.Handle = args[i+1]
			i++
		case strings.HasPrefix(args[i], "--handle="):
			flags.Handle = strings.TrimPrefix(args[i], "--handle=")
		case args[i] == "--out" && i+1 < len(args):
			flags.Out = args[i+1]
			i++
		case strings.HasPrefix(args[i], "--out="):
			flags.Out = strings.TrimPrefix(args[i], "--out=")
		}
	}
	return flags
}

// runStream connects to the configured device, starts an acquisition, and
// records packets until the duration elapses or the user interrupts.
func runStream(args []string) error {
	flags := parseStreamFlags(args)

	ctx := context.Background()
	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.close(ctx)

	if flags.Duration != "" {
		if _, err := time.ParseDuration(flags.Duration); err != nil {
			return fmt.Errorf("invalid --duration %q: %w", flags.Duration, err)
		}
		a.cfg.Stream.Duration = flags.Duration
	}
	if flags.Device != "" {
		a.cfg.Stream.Device = flags.Device
	}
	if flags.Handle != "" {
		a.cfg.Stream.Handle = flags.Handle
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return streamPackets(ctx, a, flags.Out)
}

// streamPackets is the acquisition body: connect, configure, start, record
// until the deadline, stop.
func streamPackets(ctx context.Context, a *app, out string) error {
	ctx, span := tracer.StartSpan(ctx, "sifictl.stream")
	defer span.End()

	b, err := a.bridge()
	if err != nil {
		tracer.RecordError(span, err)
		return err
	}
	defer b.Close()

	if err := a.connect(ctx, b); err != nil {
		tracer.RecordError(span, err)
		return err
	}
	if err := a.applyConfig(b); err != nil {
		tracer.RecordError(span, err)
		return err
	}

	sink, sessionID, err := a.openSink(out)
	if err != nil {
		tracer.RecordError(span, err)
		return err
	}
	defer sink.Close()

	if _, err := b.Start(); err != nil {
		tracer.RecordError(span, err)
		return err
	}

	duration := a.cfg.Stream.AcquireDuration()
	deadline := time.Now().Add(duration)
	fmt.Printf("streaming for %s (session %s, Ctrl-C to stop early)\n", duration, sessionID)

	var packets, malformed int
	for time.Now().Before(deadline) && ctx.Err() == nil {
		pkt, err := b.ReadPacket()
		if err != nil {
			if ctx.Err() != nil {
				break
			}
			tracer.RecordError(span, err)
			return err
		}
		if len(pkt) == 0 {
			malformed++
			continue
		}
		if err := sink.Write(pkt); err != nil {
			tracer.RecordError(span, err)
			return err
		}
		packets++
	}

	// A stop error after an interrupt usually means the bridge went down
	// with us, which is not worth failing over.
	if err := b.Stop(); err != nil && ctx.Err() == nil {
		tracer.RecordError(span, err)
		return err
	}
	// Stop needs about a second to reach the device over BLE before the
	// process goes away.
	time.Sleep(time.Second)

	span.SetAttributes(
		tracer.IntAttr("stream.packets", packets),
		tracer.IntAttr("stream.malformed", malformed),
	)
	tracer.SetOK(span)

	a.log.Info("stream finished", "session_id", sessionID, "packets", packets, "malformed", malformed)
	fmt.Printf("recorded %d packets (session %s)\n", packets, sessionID)
	return nil
}
