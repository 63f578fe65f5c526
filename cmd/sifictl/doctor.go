package main

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"sifi-bridge-go/internal/infra/config"
	"sifi-bridge-go/pkg/sifibridge"
)

// CheckStatus represents the result of a health check.
type CheckStatus string

const (
	StatusPass CheckStatus = "PASS"
	StatusWarn CheckStatus = "WARN"
	StatusFail CheckStatus = "FAIL"
)

// CheckResult holds the outcome of a single health check.
type CheckResult struct {
	Name    string
	Status  CheckStatus
	Message string
	Fix     string // optional fix suggestion
}

// Check is a named health check function.
type Check struct {
	Name string
	Fn   func(cfg *config.Config) CheckResult
}

// runDoctor executes all health checks and reports results.
func runDoctor() error {
	cfgPath := configPath()

	// Most checks work from defaults even when loading fails.
	cfg, cfgErr := config.Load(cfgPath)

	checks := []Check{
		{Name: "Config file", Fn: checkConfigFile(cfgPath, cfgErr)},
		{Name: "Bridge executable", Fn: checkBridgeExecutable},
		{Name: "Bridge version", Fn: checkBridgeVersion},
		{Name: "Channels", Fn: checkChannels},
		{Name: "Recording sink", Fn: checkRecordingSink},
	}

	fmt.Println("sifictl doctor")
	fmt.Println(strings.Repeat("=", 50))
	fmt.Println()

	var pass, warn, fail int
	for _, check := range checks {
		result := check.Fn(cfg)
		result.Name = check.Name

		fmt.Printf("  %s %s: %s\n", statusIcon(result.Status), result.Name, result.Message)
		if result.Fix != "" {
			fmt.Printf("      Fix: %s\n", result.Fix)
		}

		switch result.Status {
		case StatusPass:
			pass++
		case StatusWarn:
			warn++
		case StatusFail:
			fail++
		}
	}

	fmt.Println()
	fmt.Println(strings.Repeat("-", 50))
	fmt.Printf("Results: %d passed, %d warnings, %d failed\n", pass, warn, fail)

	if fail > 0 {
		fmt.Println("\nFix the FAIL issues above before acquiring data.")
		return fmt.Errorf("%d check(s) failed", fail)
	}
	if warn > 0 {
		fmt.Println("\nsifictl should work, but consider addressing the warnings.")
	} else {
		fmt.Println("\nAll checks passed! sifictl is ready to run.")
	}
	return nil
}

func statusIcon(s CheckStatus) string {
	switch s {
	case StatusPass:
		return "[PASS]"
	case StatusWarn:
		return "[WARN]"
	case StatusFail:
		return "[FAIL]"
	default:
		return "[????]"
	}
}

// checkConfigFile returns a check that verifies the config file parses. A
// missing file is only a warning since the defaults are usable.
func checkConfigFile(cfgPath string, cfgErr error) func(*config.Config) CheckResult {
	return func(_ *config.Config) CheckResult {
		if _, err := os.Stat(cfgPath); os.IsNotExist(err) {
			return CheckResult{
				Status:  StatusWarn,
				Message: fmt.Sprintf("no config file at %s, using defaults", cfgPath),
				Fix:     "Create the file to pin your device and recording settings",
			}
		}
		if cfgErr != nil {
			return CheckResult{
				Status:  StatusFail,
				Message: fmt.Sprintf("config file error: %v", cfgErr),
				Fix:     "Check the YAML syntax and field values",
			}
		}
		return CheckResult{
			Status:  StatusPass,
			Message: fmt.Sprintf("config loaded from %s", cfgPath),
		}
	}
}

// bridgeExecutable resolves the configured bridge executable name.
func bridgeExecutable(cfg *config.Config) string {
	if cfg != nil && cfg.Bridge.Executable != "" {
		return cfg.Bridge.Executable
	}
	return sifibridge.DefaultExecutable
}

// checkBridgeExecutable verifies the sifi_bridge executable is on PATH.
func checkBridgeExecutable(cfg *config.Config) CheckResult {
	exe := bridgeExecutable(cfg)
	path, err := exec.LookPath(exe)
	if err != nil {
		return CheckResult{
			Status:  StatusFail,
			Message: fmt.Sprintf("%s not found", exe),
			Fix:     "Download sifi_bridge and put it on PATH, or set bridge.executable to its location",
		}
	}
	return CheckResult{
		Status:  StatusPass,
		Message: fmt.Sprintf("found %s at %s", exe, path),
	}
}

// checkBridgeVersion queries the executable's version and compares it against
// the client's protocol line.
func checkBridgeVersion(cfg *config.Config) CheckResult {
	exe := bridgeExecutable(cfg)
	if _, err := exec.LookPath(exe); err != nil {
		return CheckResult{
			Status:  StatusWarn,
			Message: "skipped (bridge executable not found)",
		}
	}

	v, err := sifibridge.BridgeVersion(exe)
	if err != nil {
		return CheckResult{
			Status:  StatusFail,
			Message: fmt.Sprintf("could not query version: %v", err),
		}
	}
	if !sifibridge.CompatibleVersion(v) {
		return CheckResult{
			Status:  StatusFail,
			Message: fmt.Sprintf("sifi_bridge %s does not match client %s (major.minor must agree)", v, sifibridge.Version),
			Fix:     fmt.Sprintf("Install a sifi_bridge release matching %s", sifibridge.Version),
		}
	}
	return CheckResult{
		Status:  StatusPass,
		Message: fmt.Sprintf("sifi_bridge %s matches client %s", v, sifibridge.Version),
	}
}

// checkChannels verifies at least one biochannel is enabled.
func checkChannels(cfg *config.Config) CheckResult {
	if cfg == nil {
		return CheckResult{
			Status:  StatusWarn,
			Message: "skipped (config not loaded)",
		}
	}

	ch := cfg.Stream.Channels
	var names []string
	if ch.ECG {
		names = append(names, "ecg")
	}
	if ch.EMG {
		names = append(names, "emg")
	}
	if ch.EDA {
		names = append(names, "eda")
	}
	if ch.IMU {
		names = append(names, "imu")
	}
	if ch.PPG {
		names = append(names, "ppg")
	}

	if len(names) == 0 {
		return CheckResult{
			Status:  StatusWarn,
			Message: "no channels enabled, acquisitions will carry no data",
			Fix:     "Enable at least one channel under stream.channels",
		}
	}
	return CheckResult{
		Status:  StatusPass,
		Message: fmt.Sprintf("%d channel(s) enabled: %s", len(names), strings.Join(names, ", ")),
	}
}

// checkRecordingSink verifies the record.out URI parses and its directory is
// writable.
func checkRecordingSink(cfg *config.Config) CheckResult {
	if cfg == nil {
		return CheckResult{
			Status:  StatusWarn,
			Message: "skipped (config not loaded)",
		}
	}

	uri := cfg.Record.Out
	scheme, path, ok := strings.Cut(uri, "://")
	if !ok {
		return CheckResult{
			Status:  StatusFail,
			Message: fmt.Sprintf("record.out %q has no scheme", uri),
			Fix:     "Use csv://DIR, jsonl://FILE, or sqlite://FILE",
		}
	}

	var dir string
	switch scheme {
	case "csv":
		dir = path
		if dir == "" {
			dir = "."
		}
	case "jsonl", "sqlite":
		dir = filepath.Dir(path)
	default:
		return CheckResult{
			Status:  StatusFail,
			Message: fmt.Sprintf("unsupported record scheme %q", scheme),
			Fix:     "Use csv://, jsonl://, or sqlite://",
		}
	}

	if err := os.MkdirAll(dir, 0750); err != nil {
		return CheckResult{
			Status:  StatusFail,
			Message: fmt.Sprintf("cannot create %s: %v", dir, err),
			Fix:     fmt.Sprintf("Fix permissions on %s or change record.out", dir),
		}
	}
	probe := filepath.Join(dir, ".doctor-check")
	if err := os.WriteFile(probe, []byte("ok"), 0600); err != nil {
		return CheckResult{
			Status:  StatusFail,
			Message: fmt.Sprintf("%s is not writable: %v", dir, err),
			Fix:     fmt.Sprintf("Fix permissions on %s or change record.out", dir),
		}
	}
	os.Remove(probe)

	return CheckResult{
		Status:  StatusPass,
		Message: fmt.Sprintf("%s sink writable under %s", scheme, dir),
	}
}
