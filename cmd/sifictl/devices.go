package main

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"sifi-bridge-go/pkg/sifibridge"
)

// devicesFlags holds optional flags for the devices command.
type devicesFlags struct {
	Source string
}

func parseDevicesFlags(args []string) devicesFlags {
	flags := devicesFlags{Source: string(sifibridge.SourceBLE)}
	for i := 0; i < len(args); i++ {
		switch {
		case args[i] == "--source" && i+1 < len(args):
			flags.Source = args[i+1]
			i++
		case strings.HasPrefix(args[i], "--source="):
			flags.Source = strings.TrimPrefix(args[i], "--source=")
		}
	}
	return flags
}

// runDevices lists devices from the requested source.
func runDevices(args []string) error {
	flags := parseDevicesFlags(args)

	src := sifibridge.ListSource(flags.Source)
	switch src {
	case sifibridge.SourceBLE, sifibridge.SourceSerial, sifibridge.SourceContainers, sifibridge.SourceDevices:
	default:
		return fmt.Errorf("unknown source %q, want ble, serial, containers, or devices", flags.Source)
	}

	ctx := context.Background()
	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.close(ctx)

	b, err := a.bridge()
	if err != nil {
		return err
	}
	defer b.Close()

	found, err := b.ListDevices(src)
	if err != nil {
		return err
	}

	if len(found) == 0 {
		fmt.Printf("no devices found (source: %s)\n", flags.Source)
		return nil
	}
	for _, name := range found {
		fmt.Println(name)
	}
	return nil
}

// runInfo prints the active device's state report as indented JSON.
func runInfo() error {
	ctx := context.Background()
	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.close(ctx)

	b, err := a.bridge()
	if err != nil {
		return err
	}
	defer b.Close()

	pkt, err := b.Show()
	if err != nil {
		return err
	}

	out, err := json.MarshalIndent(pkt, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}
