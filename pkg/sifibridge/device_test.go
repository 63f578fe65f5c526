package sifibridge

import (
	"errors"
	"reflect"
	"testing"
)

func TestConnectUpdatesState(t *testing.T) {
	b, in := testBridge(t, `{"connected": true}`+"\n")

	ok, err := b.Connect("BioPoint_v1_3")
	if err != nil {
		t.Fatalf("Connect: %v", err)
	}
	if !ok {
		t.Fatal("Connect = false, want true")
	}
	if !b.IsConnected() {
		t.Error("IsConnected = false after successful connect")
	}
	if got := b.devices[b.activeDevice].name; got != "BioPoint_v1_3" {
		t.Errorf("device name = %q, want %q", got, "BioPoint_v1_3")
	}
	if got := sentLines(in); !reflect.DeepEqual(got, []string{"connect BioPoint_v1_3"}) {
		t.Errorf("sent %v", got)
	}
}

func TestConnectFailureKeepsDisconnected(t *testing.T) {
	// The bridge interleaves an unrelated status packet before the report.
	b, _ := testBridge(t, `{"status": "scanning"}
{"connected": false}
`)

	ok, err := b.Connect(BioArmband.String())
	if err != nil {
		t.Fatalf("Connect: %v", err)
	}
	if ok {
		t.Fatal("Connect = true, want false")
	}
	if b.IsConnected() {
		t.Error("IsConnected = true after failed connect")
	}
}

func TestDisconnect(t *testing.T) {
	b, in := testBridge(t, `{"connected": true}
{"connected": false}
`)

	if _, err := b.Connect("BioPoint_v1_1"); err != nil {
		t.Fatalf("Connect: %v", err)
	}
	still, err := b.Disconnect()
	if err != nil {
		t.Fatalf("Disconnect: %v", err)
	}
	if still {
		t.Error("Disconnect reports still connected")
	}
	if b.IsConnected() {
		t.Error("IsConnected = true after disconnect")
	}
	want := []string{"connect BioPoint_v1_1", "disconnect"}
	if got := sentLines(in); !reflect.DeepEqual(got, want) {
		t.Errorf("sent %v, want %v", got, want)
	}
}

func TestShowWaitsForDeviceReport(t *testing.T) {
	b, in := testBridge(t, `{"packet_type": "ecg", "data": {"ecg": [1]}}
{"ble_power": "medium", "connected": false}
`)

	pkt, err := b.Show()
	if err != nil {
		t.Fatalf("Show: %v", err)
	}
	if got := pkt.StringAt("ble_power"); got != "medium" {
		t.Errorf("ble_power = %q, want %q", got, "medium")
	}
	if got := sentLines(in); !reflect.DeepEqual(got, []string{"show"}) {
		t.Errorf("sent %v", got)
	}
}

func TestListDevices(t *testing.T) {
	b, in := testBridge(t, `{"found_devices": ["default", "left-arm"]}`+"\n")

	devs, err := b.ListDevices(SourceDevices)
	if err != nil {
		t.Fatalf("ListDevices: %v", err)
	}
	if want := []string{"default", "left-arm"}; !reflect.DeepEqual(devs, want) {
		t.Errorf("devices = %v, want %v", devs, want)
	}
	if got := sentLines(in); !reflect.DeepEqual(got, []string{"list devices"}) {
		t.Errorf("sent %v", got)
	}
}

func TestListDevicesEmpty(t *testing.T) {
	b, _ := testBridge(t, `{"found_devices": []}`+"\n")

	devs, err := b.ListDevices(SourceBLE)
	if err != nil {
		t.Fatalf("ListDevices: %v", err)
	}
	if len(devs) != 0 {
		t.Errorf("devices = %v, want empty", devs)
	}
}

func TestCreateDeviceRejectsSpaces(t *testing.T) {
	b, in := testBridge(t, "")

	_, err := b.CreateDevice("left arm", false)
	if !errors.Is(err, ErrInvalidDeviceName) {
		t.Fatalf("err = %v, want ErrInvalidDeviceName", err)
	}
	if got := sentLines(in); got != nil {
		t.Errorf("sent %v, want nothing", got)
	}
}

func TestCreateDeviceAndSelect(t *testing.T) {
	// One found_devices reply for the create verification, one for the
	// select verification.
	b, in := testBridge(t, `{"found_devices": ["default", "left-arm"]}
{"found_devices": ["default", "left-arm"]}
`)

	created, err := b.CreateDevice("left-arm", true)
	if err != nil {
		t.Fatalf("CreateDevice: %v", err)
	}
	if !created {
		t.Fatal("created = false, want true")
	}
	if got := b.ActiveDevice(); got != "left-arm" {
		t.Errorf("active device = %q, want %q", got, "left-arm")
	}
	want := []string{"new left-arm", "list devices", "list devices", "select left-arm"}
	if got := sentLines(in); !reflect.DeepEqual(got, want) {
		t.Errorf("sent %v, want %v", got, want)
	}
}

func TestCreateDeviceNotListed(t *testing.T) {
	b, _ := testBridge(t, `{"found_devices": ["default"]}`+"\n")

	created, err := b.CreateDevice("ghost", false)
	if err != nil {
		t.Fatalf("CreateDevice: %v", err)
	}
	if created {
		t.Error("created = true for a handle the bridge does not list")
	}
	if _, tracked := b.devices["ghost"]; tracked {
		t.Error("untracked handle was added to local state")
	}
}

func TestSelectDeviceUnknownHandle(t *testing.T) {
	b, in := testBridge(t, `{"found_devices": ["default"]}`+"\n")

	ok, err := b.SelectDevice("missing")
	if err != nil {
		t.Fatalf("SelectDevice: %v", err)
	}
	if ok {
		t.Error("SelectDevice = true for an unknown handle")
	}
	if got := b.ActiveDevice(); got != DefaultDevice {
		t.Errorf("active device = %q, want %q", got, DefaultDevice)
	}
	// Only the list probe goes out; no select command.
	if got := sentLines(in); !reflect.DeepEqual(got, []string{"list devices"}) {
		t.Errorf("sent %v", got)
	}
}

func TestDeleteDevice(t *testing.T) {
	b, in := testBridge(t, `{"found_devices": ["default", "tmp"]}`+"\n")

	if _, err := b.CreateDevice("tmp", false); err != nil {
		t.Fatalf("CreateDevice: %v", err)
	}
	if err := b.DeleteDevice("tmp"); err != nil {
		t.Fatalf("DeleteDevice: %v", err)
	}
	if _, tracked := b.devices["tmp"]; tracked {
		t.Error("deleted handle still tracked")
	}
	want := []string{"new tmp", "list devices", "delete tmp"}
	if got := sentLines(in); !reflect.DeepEqual(got, want) {
		t.Errorf("sent %v, want %v", got, want)
	}
}
