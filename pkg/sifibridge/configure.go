package sifibridge

import "fmt"

// BlePower is the device's BLE transmission power. Higher power raises
// consumption but may stabilize a weak connection.
type BlePower string

const (
	BlePowerLow    BlePower = "low"
	BlePowerMedium BlePower = "medium"
	BlePowerHigh   BlePower = "high"
)

// MemoryMode sets where acquired data goes: streamed to the host, saved to
// on-board flash, or both. BioArmband has no on-board memory.
type MemoryMode string

const (
	MemoryModeHost   MemoryMode = "host"
	MemoryModeDevice MemoryMode = "device"
	MemoryModeBoth   MemoryMode = "both"
)

// PpgSensitivity is the PPG light sensor sensitivity. Higher settings help
// with weak signals but can add noise or saturate the sensor.
type PpgSensitivity string

const (
	PpgSensitivityLow    PpgSensitivity = "low"
	PpgSensitivityMedium PpgSensitivity = "medium"
	PpgSensitivityHigh   PpgSensitivity = "high"
	PpgSensitivityMax    PpgSensitivity = "max"
)

// Channels selects which biochannels the device acquires.
type Channels struct {
	ECG bool
	EMG bool
	EDA bool
	IMU bool
	PPG bool
}

// Biochannel filter and sampling defaults, matching the device's expected
// operating ranges.
const (
	DefaultEMGBandLow  = 20
	DefaultEMGBandHigh = 450
	DefaultEMGNotch    = 50

	DefaultECGBandLow  = 0
	DefaultECGBandHigh = 30

	DefaultEDABandLow  = 0
	DefaultEDABandHigh = 5
	DefaultEDASignal   = 0 // DC excitation

	DefaultPPGCurrent = 9 // mA, per LED

	DefaultSamplingECG = 500
	DefaultSamplingEMG = 2000
	DefaultSamplingEDA = 40
	DefaultSamplingIMU = 50
	DefaultSamplingPPG = 50
)

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}

// configure sends one configure line and waits for the bridge's ack packet.
func (b *Bridge) configure(op, args string) error {
	if err := b.writeCommand("configure " + args); err != nil {
		return WrapOp(op, err)
	}
	if _, err := b.ReadUntil("configure"); err != nil {
		return WrapOp(op, err)
	}
	return nil
}

// SetFilters toggles on-board filtering for all biochannels.
func (b *Bridge) SetFilters(enable bool) error {
	return b.configure("Bridge.SetFilters", "filtering "+onOff(enable))
}

// SetChannels selects the biochannels to acquire.
func (b *Bridge) SetChannels(ch Channels) error {
	args := fmt.Sprintf("channels %s %s %s %s %s",
		onOff(ch.ECG), onOff(ch.EMG), onOff(ch.EDA), onOff(ch.IMU), onOff(ch.PPG))
	return b.configure("Bridge.SetChannels", args)
}

// SetBlePower sets the BLE transmission power.
func (b *Bridge) SetBlePower(power BlePower) error {
	return b.configure("Bridge.SetBlePower", "ble-power "+string(power))
}

// SetMemoryMode configures how the device stores acquired data.
func (b *Bridge) SetMemoryMode(mode MemoryMode) error {
	return b.configure("Bridge.SetMemoryMode", "memory "+string(mode))
}

// ConfigureEMG sets the EMG bandpass cutoffs and mains notch frequency.
// A notch outside {50, 60} disables the notch filter. Filtering is enabled
// as a side effect.
func (b *Bridge) ConfigureEMG(bandLow, bandHigh, notch int) error {
	const op = "Bridge.ConfigureEMG"
	if err := b.SetFilters(true); err != nil {
		return WrapOp(op, err)
	}
	return b.configure(op, fmt.Sprintf("emg %d %d %d", bandLow, bandHigh, notch))
}

// ConfigureECG sets the ECG bandpass cutoffs. Filtering is enabled as a side
// effect.
func (b *Bridge) ConfigureECG(bandLow, bandHigh int) error {
	const op = "Bridge.ConfigureECG"
	if err := b.SetFilters(true); err != nil {
		return WrapOp(op, err)
	}
	return b.configure(op, fmt.Sprintf("ecg %d %d", bandLow, bandHigh))
}

// ConfigureEDA sets the EDA bandpass cutoffs and excitation signal frequency
// (0 for DC). Filtering is enabled as a side effect.
func (b *Bridge) ConfigureEDA(bandLow, bandHigh, signalHz int) error {
	const op = "Bridge.ConfigureEDA"
	if err := b.SetFilters(true); err != nil {
		return WrapOp(op, err)
	}
	return b.configure(op, fmt.Sprintf("eda %d %d %d", bandLow, bandHigh, signalHz))
}

// ConfigurePPG sets the PPG LED currents in mA (1-50 per LED) and the light
// sensor sensitivity.
func (b *Bridge) ConfigurePPG(ir, red, green, blue int, sens PpgSensitivity) error {
	args := fmt.Sprintf("ppg %d %d %d %d %s", ir, red, green, blue, string(sens))
	return b.configure("Bridge.ConfigurePPG", args)
}

// SetSamplingRates configures the per-biochannel sampling frequencies in Hz.
func (b *Bridge) SetSamplingRates(ecg, emg, eda, imu, ppg int) error {
	args := fmt.Sprintf("sampling-rates %d %d %d %d %d", ecg, emg, eda, imu, ppg)
	return b.configure("Bridge.SetSamplingRates", args)
}

// SetStreamingMode toggles low latency delivery, where packets arrive faster
// and carry data from all biosignals at once instead of one biosignal batch
// per packet. Only select BioPoint versions support it.
func (b *Bridge) SetStreamingMode(on bool) error {
	return b.configure("Bridge.SetStreamingMode", "streaming-mode "+onOff(on))
}
