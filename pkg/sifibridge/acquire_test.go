package sifibridge

import (
	"errors"
	"reflect"
	"testing"
)

func TestSendCommandDoesNotWait(t *testing.T) {
	// No packets available; a read would fail with ErrStreamClosed.
	b, in := testBridge(t, "")

	if err := b.SendCommand(CmdOpenLED1); err != nil {
		t.Fatalf("SendCommand: %v", err)
	}
	if got := sentLines(in); !reflect.DeepEqual(got, []string{"command open-led-1"}) {
		t.Errorf("sent %v", got)
	}
}

func TestDeviceCommandVerbs(t *testing.T) {
	verbs := map[DeviceCommand]string{
		CmdStartAcquisition:     "start-acquisition",
		CmdStopAcquisition:      "stop-acquisition",
		CmdSetBlePower:          "set-ble-power",
		CmdSetFiltering:         "set-filtering",
		CmdEraseMemory:          "erase-memory",
		CmdDownloadMemory:       "download-memory",
		CmdStartStatusUpdate:    "start-status-update",
		CmdOpenLED1:             "open-led-1",
		CmdOpenLED2:             "open-led-2",
		CmdCloseLED1:            "close-led-1",
		CmdCloseLED2:            "close-led-2",
		CmdStartMotor:           "start-motor",
		CmdStopMotor:            "stop-motor",
		CmdPowerOff:             "power-off",
		CmdDeepSleep:            "deep-sleep",
		CmdSetPPGCurrents:       "set-ppg-currents",
		CmdSetPPGSensitivity:    "set-ppg-sensitivity",
		CmdSetEMGMainsNotch:     "set-emg-mains-notch",
		CmdSetEDAFrequency:      "set-eda-freq",
		CmdSetEDAGain:           "set-eda-gain",
		CmdDownloadMemorySerial: "download-memory-serial",
		CmdStopStatusUpdate:     "stop-status-update",
	}
	for cmd, want := range verbs {
		if cmd.String() != want {
			t.Errorf("verb = %q, want %q", cmd.String(), want)
		}
	}
}

func TestStartReturnsActiveDeviceStartTime(t *testing.T) {
	// Another handle's start-time packet arrives first and must be skipped.
	b, in := testBridge(t, `{"id": "other", "data": {"year": 2024, "month": 6}}
{"id": "default", "data": {"year": 2025, "month": 1}}
`)

	pkt, err := b.Start()
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	if year, _ := pkt.IntAt("data", "year"); year != 2025 {
		t.Errorf("data.year = %d, want 2025", year)
	}
	if got := pkt.StringAt("id"); got != "default" {
		t.Errorf("id = %q, want %q", got, "default")
	}
	if got := sentLines(in); !reflect.DeepEqual(got, []string{"command start-acquisition"}) {
		t.Errorf("sent %v", got)
	}
}

func TestStopDoesNotWait(t *testing.T) {
	b, in := testBridge(t, "")

	if err := b.Stop(); err != nil {
		t.Fatalf("Stop: %v", err)
	}
	if got := sentLines(in); !reflect.DeepEqual(got, []string{"command stop-acquisition"}) {
		t.Errorf("sent %v", got)
	}
}

func TestStartMemoryDownloadRequiresConnection(t *testing.T) {
	b, in := testBridge(t, "")

	_, err := b.StartMemoryDownload(true)
	if !errors.Is(err, ErrNotConnected) {
		t.Fatalf("err = %v, want ErrNotConnected", err)
	}
	if got := sentLines(in); got != nil {
		t.Errorf("sent %v, want nothing", got)
	}
}

func TestStartMemoryDownloadWithProgress(t *testing.T) {
	b, in := testBridge(t, `{"connected": true}
{"id": "other", "data": {"memory_used_kb": 999}}
{"id": "default", "data": {"memory_used_kb": 123}}
`)

	if _, err := b.Connect("BioPoint_v1_2"); err != nil {
		t.Fatalf("Connect: %v", err)
	}
	kb, err := b.StartMemoryDownload(true)
	if err != nil {
		t.Fatalf("StartMemoryDownload: %v", err)
	}
	if kb != 123 {
		t.Errorf("kb = %d, want 123", kb)
	}
	want := []string{
		"connect BioPoint_v1_2",
		"command start-status-update",
		"command download-memory",
	}
	if got := sentLines(in); !reflect.DeepEqual(got, want) {
		t.Errorf("sent %v, want %v", got, want)
	}
}

func TestStartMemoryDownloadWithoutProgress(t *testing.T) {
	b, in := testBridge(t, `{"connected": true}`+"\n")

	if _, err := b.Connect("BioPoint_v1_2"); err != nil {
		t.Fatalf("Connect: %v", err)
	}
	kb, err := b.StartMemoryDownload(false)
	if err != nil {
		t.Fatalf("StartMemoryDownload: %v", err)
	}
	if kb != -1 {
		t.Errorf("kb = %d, want -1", kb)
	}
	want := []string{"connect BioPoint_v1_2", "command download-memory"}
	if got := sentLines(in); !reflect.DeepEqual(got, want) {
		t.Errorf("sent %v, want %v", got, want)
	}
}

func TestGetECGFiltersPacketType(t *testing.T) {
	b, _ := testBridge(t, `{"packet_type": "imu", "data": {"ax": [0.1]}}
{"packet_type": "ecg", "data": {"ecg": [0.5, 0.6]}}
`)

	pkt, err := b.GetECG()
	if err != nil {
		t.Fatalf("GetECG: %v", err)
	}
	if got := pkt.StringAt("packet_type"); got != "ecg" {
		t.Errorf("packet_type = %q, want %q", got, "ecg")
	}
}

func TestGetEMGAcceptsArmbandPackets(t *testing.T) {
	b, _ := testBridge(t, `{"packet_type": "eda", "data": {"eda": [0.2]}}
{"packet_type": "emgArmband", "data": {"emg0": [1.0], "emg1": [2.0]}}
`)

	pkt, err := b.GetEMG()
	if err != nil {
		t.Fatalf("GetEMG: %v", err)
	}
	if got := pkt.StringAt("packet_type"); got != "emgArmband" {
		t.Errorf("packet_type = %q, want %q", got, "emgArmband")
	}
}

func TestGetPPGStreamEnds(t *testing.T) {
	b, _ := testBridge(t, `{"packet_type": "ecg", "data": {"ecg": [1]}}`+"\n")

	_, err := b.GetPPG()
	if !errors.Is(err, ErrStreamClosed) {
		t.Fatalf("err = %v, want ErrStreamClosed", err)
	}
}
