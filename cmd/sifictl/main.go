package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"sifi-bridge-go/pkg/sifibridge"
)

func main() {
	if len(os.Args) < 2 {
		showUsage()
		return
	}

	switch os.Args[1] {
	case "devices":
		if err := runDevices(os.Args[2:]); err != nil {
			fmt.Fprintf(os.Stderr, "devices: %v\n", err)
			os.Exit(1)
		}
	case "info":
		if err := runInfo(); err != nil {
			fmt.Fprintf(os.Stderr, "info: %v\n", err)
			os.Exit(1)
		}
	case "stream":
		if err := runStream(os.Args[2:]); err != nil {
			fmt.Fprintf(os.Stderr, "stream: %v\n", err)
			os.Exit(1)
		}
	case "download":
		if err := runDownload(os.Args[2:]); err != nil {
			fmt.Fprintf(os.Stderr, "download: %v\n", err)
			os.Exit(1)
		}
	case "doctor":
		if err := runDoctor(); err != nil {
			fmt.Fprintf(os.Stderr, "doctor: %v\n", err)
			os.Exit(1)
		}
	case "version":
		fmt.Printf("sifictl %s\n", sifibridge.Version)
	case "help", "-h", "--help":
		showUsage()
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n\nRun 'sifictl help' for usage information.\n", os.Args[1])
		os.Exit(1)
	}
}

func showUsage() {
	fmt.Println(`sifictl - Command line client for SiFi Labs biosensors

USAGE:
    sifictl COMMAND [FLAGS]

COMMANDS:
    devices     List devices the bridge can see
    info        Show the state of the active device
    stream      Acquire live data and record it
    download    Download the device's onboard memory
    doctor      Run health checks on your setup
    version     Print the client version

FLAGS:
    -h, --help           Show this help message
    --config PATH        Config file path (default: ~/.sifictl.yaml)
    --source SOURCE      devices: ble, serial, containers, or devices (default: ble)
    --duration DURATION  stream: acquisition length, e.g. 45s
    --device NAME        stream: device handle to create and select
    --handle NAME        stream, download: BLE name or MAC to connect to
    --out URI            stream, download: recording sink
                         (csv://DIR, jsonl://FILE, sqlite://FILE)
    --progress           download: report the memory fill level first

CONFIGURATION:
    Config file: ~/.sifictl.yaml
    Environment: SIFICTL_* variables override config

EXAMPLES:
    sifictl devices --source ble
    sifictl stream --duration 30s --out csv://./session1
    sifictl download --progress --out sqlite://memory.db
    sifictl doctor`)
}

// configPath resolves the config file location: --config flag, then the
// SIFICTL_CONFIG environment variable, then ~/.sifictl.yaml.
func configPath() string {
	for i, arg := range os.Args {
		if arg == "--config" && i+1 < len(os.Args) {
			return os.Args[i+1]
		}
		if strings.HasPrefix(arg, "--config=") {
			return strings.TrimPrefix(arg, "--config=")
		}
	}
	if p := os.Getenv("SIFICTL_CONFIG"); p != "" {
		return p
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, ".sifictl.yaml")
	}
	return ".sifictl.yaml"
}
