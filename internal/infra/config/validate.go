package config

import (
	"fmt"
	"strings"
	"time"
)

// ValidationError accumulates config validation errors.
type ValidationError struct {
	Errors []string
}

func (v *ValidationError) Error() string {
	return "config validation failed:\n  - " + strings.Join(v.Errors, "\n  - ")
}

// HasErrors reports whether any validation errors have been recorded.
func (v *ValidationError) HasErrors() bool {
	return len(v.Errors) > 0
}

// Add records a formatted validation error.
func (v *ValidationError) Add(format string, args ...interface{}) {
	v.Errors = append(v.Errors, fmt.Sprintf(format, args...))
}

// Validate checks cfg for structural correctness. It returns a *ValidationError
// when one or more problems are found, allowing callers to inspect all issues.
func Validate(cfg *Config) error {
	ve := &ValidationError{}
	validateBridge(cfg, ve)
	validateStream(cfg, ve)
	validateFilters(cfg, ve)
	validateSampling(cfg, ve)
	validateRecord(cfg, ve)
	validateLogger(cfg, ve)
	validateTracer(cfg, ve)
	if ve.HasErrors() {
		return ve
	}
	return nil
}

func validateBridge(cfg *Config, ve *ValidationError) {
	if cfg.Bridge.Executable == "" {
		ve.Add("bridge.executable must not be empty")
	}
	if cfg.Bridge.DataTransport != "" && !strings.Contains(cfg.Bridge.DataTransport, "://") {
		ve.Add("bridge.data_transport %q must be a scheme://path URI", cfg.Bridge.DataTransport)
	}
	if d, err := time.ParseDuration(cfg.Bridge.ConnectRetryInterval); err != nil || d <= 0 {
		ve.Add("bridge.connect_retry_interval %q is not a positive duration", cfg.Bridge.ConnectRetryInterval)
	}
	if cfg.Bridge.ConnectAttempts < 0 {
		ve.Add("bridge.connect_attempts must be >= 0")
	}
}

var validBlePowers = map[string]bool{
	"":       true,
	"low":    true,
	"medium": true,
	"high":   true,
}

var validMemoryModes = map[string]bool{
	"":       true,
	"host":   true,
	"device": true,
	"both":   true,
}

func validateStream(cfg *Config, ve *ValidationError) {
	if cfg.Stream.Device == "" {
		ve.Add("stream.device must not be empty")
	} else if strings.Contains(cfg.Stream.Device, " ") {
		ve.Add("stream.device %q must not contain spaces", cfg.Stream.Device)
	}
	if d, err := time.ParseDuration(cfg.Stream.Duration); err != nil || d <= 0 {
		ve.Add("stream.duration %q is not a positive duration", cfg.Stream.Duration)
	}
	ch := cfg.Stream.Channels
	if !ch.ECG && !ch.EMG && !ch.EDA && !ch.IMU && !ch.PPG {
		ve.Add("stream.channels must enable at least one biochannel")
	}
	if !validBlePowers[cfg.Stream.BlePower] {
		ve.Add("stream.ble_power %q is invalid (want: low, medium, high)", cfg.Stream.BlePower)
	}
	if !validMemoryModes[cfg.Stream.MemoryMode] {
		ve.Add("stream.memory_mode %q is invalid (want: host, device, both)", cfg.Stream.MemoryMode)
	}
}

var validPpgSensitivities = map[string]bool{
	"low":    true,
	"medium": true,
	"high":   true,
	"max":    true,
}

func validateFilters(cfg *Config, ve *ValidationError) {
	if cfg.Filters.EMG.BandLow < 0 {
		ve.Add("filters.emg.band_low must be >= 0")
	}
	if cfg.Filters.EMG.BandHigh <= cfg.Filters.EMG.BandLow {
		ve.Add("filters.emg.band_high must be > band_low")
	}
	if cfg.Filters.EMG.Notch < 0 {
		ve.Add("filters.emg.notch must be >= 0")
	}

	if cfg.Filters.ECG.BandLow < 0 {
		ve.Add("filters.ecg.band_low must be >= 0")
	}
	if cfg.Filters.ECG.BandHigh <= cfg.Filters.ECG.BandLow {
		ve.Add("filters.ecg.band_high must be > band_low")
	}

	if cfg.Filters.EDA.BandLow < 0 {
		ve.Add("filters.eda.band_low must be >= 0")
	}
	if cfg.Filters.EDA.BandHigh <= cfg.Filters.EDA.BandLow {
		ve.Add("filters.eda.band_high must be > band_low")
	}
	if cfg.Filters.EDA.SignalHz < 0 {
		ve.Add("filters.eda.signal_hz must be >= 0")
	}

	for _, led := range []struct {
		name string
		mA   int
	}{
		{"ir", cfg.Filters.PPG.IR},
		{"red", cfg.Filters.PPG.Red},
		{"green", cfg.Filters.PPG.Green},
		{"blue", cfg.Filters.PPG.Blue},
	} {
		if led.mA < 1 || led.mA > 50 {
			ve.Add("filters.ppg.%s must be between 1 and 50 mA (got %d)", led.name, led.mA)
		}
	}
	if !validPpgSensitivities[cfg.Filters.PPG.Sensitivity] {
		ve.Add("filters.ppg.sensitivity %q is invalid (want: low, medium, high, max)", cfg.Filters.PPG.Sensitivity)
	}
}

func validateSampling(cfg *Config, ve *ValidationError) {
	for _, rate := range []struct {
		name string
		hz   int
	}{
		{"ecg", cfg.Sampling.ECG},
		{"emg", cfg.Sampling.EMG},
		{"eda", cfg.Sampling.EDA},
		{"imu", cfg.Sampling.IMU},
		{"ppg", cfg.Sampling.PPG},
	} {
		if rate.hz <= 0 {
			ve.Add("sampling.%s must be > 0", rate.name)
		}
	}
}

var validRecordSchemes = map[string]bool{
	"csv":    true,
	"jsonl":  true,
	"sqlite": true,
}

func validateRecord(cfg *Config, ve *ValidationError) {
	if cfg.Record.Out == "" {
		ve.Add("record.out must not be empty")
		return
	}
	scheme, path, ok := strings.Cut(cfg.Record.Out, "://")
	if !ok {
		ve.Add("record.out %q must be a scheme://path URI", cfg.Record.Out)
		return
	}
	if !validRecordSchemes[scheme] {
		ve.Add("record.out scheme %q is invalid (want: csv, jsonl, sqlite)", scheme)
	}
	if path == "" && scheme != "csv" {
		ve.Add("record.out %q must name a file", cfg.Record.Out)
	}
}

var validLogLevels = map[string]bool{
	"debug":   true,
	"info":    true,
	"warn":    true,
	"warning": true,
	"error":   true,
}

var validLogFormats = map[string]bool{
	"text": true,
	"json": true,
}

func validateLogger(cfg *Config, ve *ValidationError) {
	if !validLogLevels[strings.ToLower(cfg.Logger.Level)] {
		ve.Add("logger.level %q is invalid (want: debug, info, warn, error)", cfg.Logger.Level)
	}
	if !validLogFormats[strings.ToLower(cfg.Logger.Format)] {
		ve.Add("logger.format %q is invalid (want: text, json)", cfg.Logger.Format)
	}
}

var validTracerExporters = map[string]bool{
	"":       true,
	"noop":   true,
	"stdout": true,
}

func validateTracer(cfg *Config, ve *ValidationError) {
	if !validTracerExporters[cfg.Tracer.Exporter] {
		ve.Add("tracer.exporter %q is invalid (want: noop, stdout)", cfg.Tracer.Exporter)
	}
}
