package sifibridge

import "slices"

// Start begins an acquisition with whatever configuration was previously
// sent and blocks until the active device reports its start-time packet
// (the one carrying data.year). Start-time packets from other handles are
// discarded.
func (b *Bridge) Start() (Packet, error) {
	const op = "Bridge.Start"
	if err := b.SendCommand(CmdStartAcquisition); err != nil {
		return Packet{}, WrapOp(op, err)
	}
	for {
		pkt, err := b.ReadUntil("data", "year")
		if err != nil {
			return Packet{}, WrapOp(op, err)
		}
		if pkt.StringAt("id") != b.activeDevice {
			continue
		}
		b.log.Info("started acquisition", "device", b.activeDevice, "start_time", pkt["data"])
		return pkt, nil
	}
}

// Stop ends the current acquisition. It does not wait for confirmation;
// allow about a second for the command to reach the device before closing
// the bridge.
func (b *Bridge) Stop() error {
	return WrapOp("Bridge.Stop", b.SendCommand(CmdStopAcquisition))
}

// StartMemoryDownload begins downloading the data stored in the device's
// onboard memory. The caller then reads packets and decides how to persist
// them, watching for the MemoryDownloadCompleted status.
//
// With showProgress, the device's status updates are enabled first and the
// call blocks until a status packet reports memory_used_kb for the active
// device; that kilobyte count is returned. Without it the return is -1.
// Calling while the active device is disconnected returns ErrNotConnected.
func (b *Bridge) StartMemoryDownload(showProgress bool) (int, error) {
	const op = "Bridge.StartMemoryDownload"
	if !b.IsConnected() {
		b.log.Warn("device does not seem to be connected", "device", b.activeDevice)
		return 0, NewBridgeError(op, ErrNotConnected, b.activeDevice)
	}

	kb := -1
	if showProgress {
		if err := b.SendCommand(CmdStartStatusUpdate); err != nil {
			return 0, WrapOp(op, err)
		}
		for {
			pkt, err := b.ReadUntil("data", "memory_used_kb")
			if err != nil {
				return 0, WrapOp(op, err)
			}
			if pkt.StringAt("id") != b.activeDevice {
				continue
			}
			n, ok := pkt.IntAt("data", "memory_used_kb")
			if !ok {
				continue
			}
			kb = n
			break
		}
		b.log.Info("memory to download", "kb", kb)
	}

	if err := b.SendCommand(CmdDownloadMemory); err != nil {
		return 0, WrapOp(op, err)
	}
	return kb, nil
}

// GetECG blocks until the next ECG data packet.
func (b *Bridge) GetECG() (Packet, error) {
	return b.nextDataPacket("Bridge.GetECG", "ecg")
}

// GetEMG blocks until the next EMG data packet. BioPoint reports type "emg",
// BioArmband "emgArmband"; both match.
func (b *Bridge) GetEMG() (Packet, error) {
	return b.nextDataPacket("Bridge.GetEMG", "emg", "emgArmband")
}

// GetEDA blocks until the next EDA data packet.
func (b *Bridge) GetEDA() (Packet, error) {
	return b.nextDataPacket("Bridge.GetEDA", "eda")
}

// GetIMU blocks until the next IMU data packet.
func (b *Bridge) GetIMU() (Packet, error) {
	return b.nextDataPacket("Bridge.GetIMU", "imu")
}

// GetPPG blocks until the next PPG data packet.
func (b *Bridge) GetPPG() (Packet, error) {
	return b.nextDataPacket("Bridge.GetPPG", "ppg")
}

// nextDataPacket discards packets until one arrives whose packet_type is in
// types.
func (b *Bridge) nextDataPacket(op string, types ...string) (Packet, error) {
	for {
		pkt, err := b.ReadUntil("packet_type")
		if err != nil {
			return Packet{}, WrapOp(op, err)
		}
		if slices.Contains(types, pkt.StringAt("packet_type")) {
			return pkt, nil
		}
	}
}
