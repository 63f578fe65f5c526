package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"sifi-bridge-go/pkg/sifibridge"
)

// Config is the top-level sifictl configuration.
type Config struct {
	Bridge   BridgeConfig   `yaml:"bridge"`
	Stream   StreamConfig   `yaml:"stream"`
	Filters  FiltersConfig  `yaml:"filters"`
	Sampling SamplingConfig `yaml:"sampling"`
	Record   RecordConfig   `yaml:"record"`
	Logger   LoggerConfig   `yaml:"logger"`
	Tracer   TracerConfig   `yaml:"tracer"`
}

// BridgeConfig holds settings for the sifi_bridge child process.
type BridgeConfig struct {
	Executable           string `yaml:"executable"`
	DataTransport        string `yaml:"data_transport,omitempty"`   // e.g. "csv://./data", forwarded to the bridge
	ConnectRetryInterval string `yaml:"connect_retry_interval"`     // duration string, e.g. "500ms"
	ConnectAttempts      int    `yaml:"connect_attempts"`           // 0 = retry until connected
}

// RetryInterval returns the parsed connect retry interval.
func (b BridgeConfig) RetryInterval() time.Duration {
	d, err := time.ParseDuration(b.ConnectRetryInterval)
	if err != nil || d <= 0 {
		return 500 * time.Millisecond
	}
	return d
}

// StreamConfig holds acquisition settings shared by the stream and download
// commands.
type StreamConfig struct {
	Device     string         `yaml:"device"`           // managed device name
	Handle     string         `yaml:"handle,omitempty"` // BLE name or MAC to connect, empty = device name
	Duration   string         `yaml:"duration"`         // duration string, e.g. "30s"
	Channels   ChannelsConfig `yaml:"channels"`
	Filtering  bool           `yaml:"filtering"`
	BlePower   string         `yaml:"ble_power,omitempty"`   // low, medium, high; empty = leave as is
	MemoryMode string         `yaml:"memory_mode,omitempty"` // host, device, both; empty = leave as is
	LowLatency bool           `yaml:"low_latency"`
}

// AcquireDuration returns the parsed acquisition duration.
func (s StreamConfig) AcquireDuration() time.Duration {
	d, err := time.ParseDuration(s.Duration)
	if err != nil || d <= 0 {
		return 10 * time.Second
	}
	return d
}

// ChannelsConfig selects the biochannels to acquire.
type ChannelsConfig struct {
	ECG bool `yaml:"ecg"`
	EMG bool `yaml:"emg"`
	EDA bool `yaml:"eda"`
	IMU bool `yaml:"imu"`
	PPG bool `yaml:"ppg"`
}

// FiltersConfig holds per-biochannel filter settings.
type FiltersConfig struct {
	EMG EMGFilterConfig `yaml:"emg"`
	ECG ECGFilterConfig `yaml:"ecg"`
	EDA EDAFilterConfig `yaml:"eda"`
	PPG PPGConfig       `yaml:"ppg"`
}

// EMGFilterConfig holds EMG bandpass cutoffs and mains notch frequency in Hz.
type EMGFilterConfig struct {
	BandLow  int `yaml:"band_low"`
	BandHigh int `yaml:"band_high"`
	Notch    int `yaml:"notch"`
}

// ECGFilterConfig holds ECG bandpass cutoffs in Hz.
type ECGFilterConfig struct {
	BandLow  int `yaml:"band_low"`
	BandHigh int `yaml:"band_high"`
}

// EDAFilterConfig holds EDA bandpass cutoffs and excitation frequency in Hz.
type EDAFilterConfig struct {
	BandLow  int `yaml:"band_low"`
	BandHigh int `yaml:"band_high"`
	SignalHz int `yaml:"signal_hz"` // 0 = DC excitation
}

// PPGConfig holds PPG LED currents in mA and the light sensor sensitivity.
type PPGConfig struct {
	IR          int    `yaml:"ir"`
	Red         int    `yaml:"red"`
	Green       int    `yaml:"green"`
	Blue        int    `yaml:"blue"`
	Sensitivity string `yaml:"sensitivity"` // low, medium, high, max
}

// SamplingConfig holds per-biochannel sampling rates in Hz.
type SamplingConfig struct {
	ECG int `yaml:"ecg"`
	EMG int `yaml:"emg"`
	EDA int `yaml:"eda"`
	IMU int `yaml:"imu"`
	PPG int `yaml:"ppg"`
}

// RecordConfig holds packet recording settings.
type RecordConfig struct {
	Out string `yaml:"out"` // sink URI: csv://DIR, jsonl://FILE, sqlite://FILE
}

// LoggerConfig holds logging settings.
type LoggerConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Output string `yaml:"output"`
}

// TracerConfig holds tracing settings.
type TracerConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Exporter string `yaml:"exporter"`
}

// defaultRecordDir returns the recording directory under $HOME/.sifictl.
// Falls back to "./recordings" if $HOME cannot be determined.
func defaultRecordDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "./recordings"
	}
	return filepath.Join(home, ".sifictl", "recordings")
}

// Defaults returns a Config with sensible defaults.
func Defaults() *Config {
	return &Config{
		Bridge: BridgeConfig{
			Executable:           sifibridge.DefaultExecutable,
			ConnectRetryInterval: "500ms",
			ConnectAttempts:      0,
		},
		Stream: StreamConfig{
			Device:    sifibridge.DefaultDevice,
			Duration:  "10s",
			Channels:  ChannelsConfig{ECG: true, EMG: true},
			Filtering: true,
		},
		Filters: FiltersConfig{
			EMG: EMGFilterConfig{
				BandLow:  sifibridge.DefaultEMGBandLow,
				BandHigh: sifibridge.DefaultEMGBandHigh,
				Notch:    sifibridge.DefaultEMGNotch,
			},
			ECG: ECGFilterConfig{
				BandLow:  sifibridge.DefaultECGBandLow,
				BandHigh: sifibridge.DefaultECGBandHigh,
			},
			EDA: EDAFilterConfig{
				BandLow:  sifibridge.DefaultEDABandLow,
				BandHigh: sifibridge.DefaultEDABandHigh,
				SignalHz: sifibridge.DefaultEDASignal,
			},
			PPG: PPGConfig{
				IR:          sifibridge.DefaultPPGCurrent,
				Red:         sifibridge.DefaultPPGCurrent,
				Green:       sifibridge.DefaultPPGCurrent,
				Blue:        sifibridge.DefaultPPGCurrent,
				Sensitivity: string(sifibridge.PpgSensitivityMedium),
			},
		},
		Sampling: SamplingConfig{
			ECG: sifibridge.DefaultSamplingECG,
			EMG: sifibridge.DefaultSamplingEMG,
			EDA: sifibridge.DefaultSamplingEDA,
			IMU: sifibridge.DefaultSamplingIMU,
			PPG: sifibridge.DefaultSamplingPPG,
		},
		Record: RecordConfig{
			Out: "csv://" + defaultRecordDir(),
		},
		Logger: LoggerConfig{
			Level:  "info",
			Format: "text",
			Output: "stderr",
		},
		Tracer: TracerConfig{
			Enabled:  false,
			Exporter: "noop",
		},
	}
}

// Load reads a YAML config file and applies env var overrides. A missing
// file is not an error; defaults plus env overrides are returned.
func Load(path string) (*Config, error) {
	cfg := Defaults()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			ApplyEnvOverrides(cfg)
			if err := Validate(cfg); err != nil {
				return nil, err
			}
			return cfg, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	ApplyEnvOverrides(cfg)

	if err := Validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// ApplyEnvOverrides maps SIFICTL_* env vars to config fields.
func ApplyEnvOverrides(cfg *Config) {
	if v := os.Getenv("SIFICTL_BRIDGE_EXECUTABLE"); v != "" {
		cfg.Bridge.Executable = v
	}
	if v := os.Getenv("SIFICTL_BRIDGE_DATA_TRANSPORT"); v != "" {
		cfg.Bridge.DataTransport = v
	}
	if v := os.Getenv("SIFICTL_BRIDGE_CONNECT_RETRY_INTERVAL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			cfg.Bridge.ConnectRetryInterval = v
		}
	}
	if v := os.Getenv("SIFICTL_BRIDGE_CONNECT_ATTEMPTS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			cfg.Bridge.ConnectAttempts = n
		}
	}

	if v := os.Getenv("SIFICTL_STREAM_DEVICE"); v != "" {
		cfg.Stream.Device = v
	}
	if v := os.Getenv("SIFICTL_STREAM_HANDLE"); v != "" {
		cfg.Stream.Handle = v
	}
	if v := os.Getenv("SIFICTL_STREAM_DURATION"); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			cfg.Stream.Duration = v
		}
	}
	if v := os.Getenv("SIFICTL_STREAM_CHANNELS"); v != "" {
		cfg.Stream.Channels = channelsFromList(splitAndTrim(v, ","))
	}
	if v := os.Getenv("SIFICTL_STREAM_FILTERING"); v == "false" {
		cfg.Stream.Filtering = false
	}
	if v := os.Getenv("SIFICTL_STREAM_BLE_POWER"); v != "" {
		cfg.Stream.BlePower = v
	}
	if v := os.Getenv("SIFICTL_STREAM_MEMORY_MODE"); v != "" {
		cfg.Stream.MemoryMode = v
	}
	if v := os.Getenv("SIFICTL_STREAM_LOW_LATENCY"); v == "true" {
		cfg.Stream.LowLatency = true
	}

	if v := os.Getenv("SIFICTL_RECORD_OUT"); v != "" {
		cfg.Record.Out = v
	}

	if v := os.Getenv("SIFICTL_LOGGER_LEVEL"); v != "" {
		cfg.Logger.Level = v
	}
	if v := os.Getenv("SIFICTL_LOGGER_FORMAT"); v != "" {
		cfg.Logger.Format = v
	}
	if v := os.Getenv("SIFICTL_LOGGER_OUTPUT"); v != "" {
		cfg.Logger.Output = v
	}

	if v := os.Getenv("SIFICTL_TRACER_ENABLED"); v == "true" {
		cfg.Tracer.Enabled = true
	}
	if v := os.Getenv("SIFICTL_TRACER_EXPORTER"); v != "" {
		cfg.Tracer.Exporter = v
	}
}

// channelsFromList builds a channel selection from names like "ecg,emg".
func channelsFromList(names []string) ChannelsConfig {
	var ch ChannelsConfig
	for _, name := range names {
		switch strings.ToLower(name) {
		case "ecg":
			ch.ECG = true
		case "emg":
			ch.EMG = true
		case "eda":
			ch.EDA = true
		case "imu":
			ch.IMU = true
		case "ppg":
			ch.PPG = true
		}
	}
	return ch
}

// splitAndTrim splits s by sep and trims whitespace from each element.
func splitAndTrim(s, sep string) []string {
	parts := strings.Split(s, sep)
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}
