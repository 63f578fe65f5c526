package sifibridge

import (
	"fmt"
	"slices"
	"strings"
)

// DeviceType names the BLE advertising names of SiFi devices, usable as
// Connect handles.
type DeviceType string

const (
	BioPointV1_1 DeviceType = "BioPoint_v1_1"
	BioPointV1_2 DeviceType = "BioPoint_v1_2"
	BioPointV1_3 DeviceType = "BioPoint_v1_3"
	BioPointV1_4 DeviceType = "BioPoint_v1_4"
	BioArmband   DeviceType = "BioArmband"
)

func (d DeviceType) String() string { return string(d) }

// ListSource selects what a list command enumerates.
type ListSource string

const (
	SourceBLE        ListSource = "ble"        // BLE devices in radio range
	SourceSerial     ListSource = "serial"     // serial ports with a device attached
	SourceContainers ListSource = "containers" // logical sessions inside the bridge
	SourceDevices    ListSource = "devices"    // device handles the bridge manages
)

// Show queries the state of the active device and returns the report packet
// (it carries ble_power among connection and configuration fields).
func (b *Bridge) Show() (Packet, error) {
	const op = "Bridge.Show"
	if err := b.writeCommand("show"); err != nil {
		return Packet{}, WrapOp(op, err)
	}
	pkt, err := b.ReadUntil("ble_power")
	return pkt, WrapOp(op, err)
}

// CreateDevice creates a device handle named name and optionally selects it.
// Names cannot contain spaces; the command line is space-delimited. The bool
// reports whether the handle exists on the bridge after the call.
func (b *Bridge) CreateDevice(name string, selectAfter bool) (bool, error) {
	const op = "Bridge.CreateDevice"
	if strings.Contains(name, " ") {
		return false, NewBridgeError(op, ErrInvalidDeviceName, fmt.Sprintf("%q contains spaces", name))
	}

	if err := b.writeCommand("new " + name); err != nil {
		return false, WrapOp(op, err)
	}

	known, err := b.ListDevices(SourceDevices)
	if err != nil {
		return false, WrapOp(op, err)
	}
	created := slices.Contains(known, name)
	if created {
		b.devices[name] = &deviceState{uid: name, name: "device-1"}
	}

	if selectAfter {
		if _, err := b.SelectDevice(name); err != nil {
			return created, WrapOp(op, err)
		}
	}
	return created, nil
}

// SelectDevice scopes subsequent commands to the handle uid. It returns false
// without selecting when the bridge does not know the handle.
func (b *Bridge) SelectDevice(uid string) (bool, error) {
	const op = "Bridge.SelectDevice"
	known, err := b.ListDevices(SourceDevices)
	if err != nil {
		return false, WrapOp(op, err)
	}
	if !slices.Contains(known, uid) {
		return false, nil
	}
	if err := b.writeCommand("select " + uid); err != nil {
		return false, WrapOp(op, err)
	}
	b.activeDevice = uid
	return true, nil
}

// DeleteDevice removes the device handle named name from the bridge.
func (b *Bridge) DeleteDevice(name string) error {
	const op = "Bridge.DeleteDevice"
	if err := b.writeCommand("delete " + name); err != nil {
		return WrapOp(op, err)
	}
	delete(b.devices, name)
	return nil
}

// ListDevices enumerates devices from the given source. BLE and serial
// sources report discoverable hardware; containers and devices report the
// bridge's own handles.
func (b *Bridge) ListDevices(src ListSource) ([]string, error) {
	const op = "Bridge.ListDevices"
	if err := b.writeCommand("list " + string(src)); err != nil {
		return nil, WrapOp(op, err)
	}
	pkt, err := b.ReadUntil("found_devices")
	if err != nil {
		return nil, WrapOp(op, err)
	}

	raw, _ := pkt.At("found_devices")
	entries, _ := raw.([]any)
	found := make([]string, 0, len(entries))
	for _, e := range entries {
		if s, ok := e.(string); ok {
			found = append(found, s)
		} else {
			found = append(found, fmt.Sprintf("%v", e))
		}
	}
	return found, nil
}

// Connect attempts to connect the active device to handle, which is either a
// DeviceType name or a MAC address. It blocks until the bridge reports the
// attempt's outcome and returns whether the device is now connected.
func (b *Bridge) Connect(handle string) (bool, error) {
	const op = "Bridge.Connect"
	if err := b.writeCommand("connect " + handle); err != nil {
		return false, WrapOp(op, err)
	}
	pkt, err := b.ReadUntil("connected")
	if err != nil {
		return false, WrapOp(op, err)
	}

	connected := pkt.BoolAt("connected")
	st := b.active()
	st.connected = connected
	if connected {
		st.name = handle
		return true, nil
	}
	b.log.Info("could not connect", "handle", handle)
	return false, nil
}

// Disconnect disconnects the active device and returns the connection state
// the bridge reports afterwards.
func (b *Bridge) Disconnect() (bool, error) {
	const op = "Bridge.Disconnect"
	if err := b.writeCommand("disconnect"); err != nil {
		return false, WrapOp(op, err)
	}
	pkt, err := b.ReadUntil("connected")
	if err != nil {
		return false, WrapOp(op, err)
	}
	connected := pkt.BoolAt("connected")
	b.active().connected = connected
	return connected, nil
}
