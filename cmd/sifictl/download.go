package main

import (
	"context"
	"fmt"
	"os/signal"
	"strings"
	"syscall"

	"sifi-bridge-go/internal/infra/tracer"
)

// downloadFlags holds optional flags for the download command.
type downloadFlags struct {
	Handle   string
	Out      string
	Progress bool
}

func parseDownloadFlags(args []string) downloadFlags {
	var flags downloadFlags
	for i := 0; i < len(args); i++ {
		switch {
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
		case args[i] == "--progress":
			flags.Progress = true
		}
	}
	return flags
}

// runDownload connects to the configured device and drains its onboard
// memory into a recording sink.
func runDownload(args []string) error {
	flags := parseDownloadFlags(args)

	ctx := context.Background()
	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.close(ctx)

	if flags.Handle != "" {
		a.cfg.Stream.Handle = flags.Handle
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return downloadMemory(ctx, a, flags)
}

// downloadMemory is the download body: connect, kick off the transfer, and
// persist packets until the device reports completion.
func downloadMemory(ctx context.Context, a *app, flags downloadFlags) error {
	ctx, span := tracer.StartSpan(ctx, "sifictl.download")
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

	sink, sessionID, err := a.openSink(flags.Out)
	if err != nil {
		tracer.RecordError(span, err)
		return err
	}
	defer sink.Close()

	kb, err := b.StartMemoryDownload(flags.Progress)
	if err != nil {
		tracer.RecordError(span, err)
		return err
	}
	if kb >= 0 {
		fmt.Printf("downloading %d kB of onboard memory (session %s)\n", kb, sessionID)
	} else {
		fmt.Printf("downloading onboard memory (session %s)\n", sessionID)
	}

	var packets int
	for ctx.Err() == nil {
		pkt, err := b.ReadPacket()
		if err != nil {
			if ctx.Err() != nil {
				break
			}
			tracer.RecordError(span, err)
			return err
		}
		if len(pkt) == 0 {
			continue
		}
		if pkt.StringAt("status") == "MemoryDownloadCompleted" {
			break
		}
		if err := sink.Write(pkt); err != nil {
			tracer.RecordError(span, err)
			return err
		}
		packets++
	}

	span.SetAttributes(
		tracer.IntAttr("download.packets", packets),
		tracer.IntAttr("download.memory_kb", kb),
	)
	tracer.SetOK(span)

	a.log.Info("memory download finished", "session_id", sessionID, "packets", packets)
	fmt.Printf("downloaded %d packets (session %s)\n", packets, sessionID)
	return nil
}
