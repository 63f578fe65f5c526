package sifibridge

// DeviceCommand is one verb of the fixed command set the device understands.
// All other values are reserved.
type DeviceCommand string

const (
	CmdStartAcquisition     DeviceCommand = "start-acquisition"
	CmdStopAcquisition      DeviceCommand = "stop-acquisition"
	CmdSetBlePower          DeviceCommand = "set-ble-power"
	CmdSetFiltering         DeviceCommand = "set-filtering"
	CmdEraseMemory          DeviceCommand = "erase-memory"
	CmdDownloadMemory       DeviceCommand = "download-memory"
	CmdStartStatusUpdate    DeviceCommand = "start-status-update"
	CmdOpenLED1             DeviceCommand = "open-led-1"
	CmdOpenLED2             DeviceCommand = "open-led-2"
	CmdCloseLED1            DeviceCommand = "close-led-1"
	CmdCloseLED2            DeviceCommand = "close-led-2"
	CmdStartMotor           DeviceCommand = "start-motor"
	CmdStopMotor            DeviceCommand = "stop-motor"
	CmdPowerOff             DeviceCommand = "power-off"
	CmdDeepSleep            DeviceCommand = "deep-sleep"
	CmdSetPPGCurrents       DeviceCommand = "set-ppg-currents"
	CmdSetPPGSensitivity    DeviceCommand = "set-ppg-sensitivity"
	CmdSetEMGMainsNotch     DeviceCommand = "set-emg-mains-notch"
	CmdSetEDAFrequency      DeviceCommand = "set-eda-freq"
	CmdSetEDAGain           DeviceCommand = "set-eda-gain"
	CmdDownloadMemorySerial DeviceCommand = "download-memory-serial"
	CmdStopStatusUpdate     DeviceCommand = "stop-status-update"
)

func (c DeviceCommand) String() string { return string(c) }

// SendCommand sends a command verb to the active device without waiting for
// a response. Operations that have a well-known reply packet wrap this with
// the appropriate wait (see Start and StartMemoryDownload).
func (b *Bridge) SendCommand(cmd DeviceCommand) error {
	return WrapOp("Bridge.SendCommand", b.writeCommand("command "+string(cmd)))
}
