package sifibridge

import (
	"encoding/json"
	"testing"
)

func mustPacket(t *testing.T, line string) Packet {
	t.Helper()
	var pkt Packet
	if err := json.Unmarshal([]byte(line), &pkt); err != nil {
		t.Fatalf("unmarshal %q: %v", line, err)
	}
	return pkt
}

func TestHasPath(t *testing.T) {
	tests := []struct {
		name   string
		packet string
		path   []string
		want   bool
	}{
		{"top level present", `{"connected": false}`, []string{"connected"}, true},
		{"top level absent", `{"connected": false}`, []string{"status"}, false},
		{"nested present", `{"data": {"year": 2024}}`, []string{"data", "year"}, true},
		{"nested absent", `{"data": {"month": 6}}`, []string{"data", "year"}, false},
		{"intermediate not an object", `{"data": [1, 2]}`, []string{"data", "year"}, false},
		{"intermediate scalar", `{"data": 7}`, []string{"data", "year"}, false},
		{"null value counts as present", `{"status": null}`, []string{"status"}, true},
		{"empty packet", `{}`, []string{"connected"}, false},
		{"empty path", `{"a": 1}`, nil, true},
		{"three levels", `{"a": {"b": {"c": 1}}}`, []string{"a", "b", "c"}, true},
		{"three levels broken chain", `{"a": {"b": 2}}`, []string{"a", "b", "c"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pkt := mustPacket(t, tt.packet)
			if got := pkt.HasPath(tt.path...); got != tt.want {
				t.Errorf("HasPath(%v) = %v, want %v", tt.path, got, tt.want)
			}
		})
	}
}

func TestAtReturnsNestedValue(t *testing.T) {
	pkt := mustPacket(t, `{"data": {"memory_used_kb": 123, "device": "BioPoint_v1_3"}}`)

	v, ok := pkt.At("data", "memory_used_kb")
	if !ok {
		t.Fatal("At(data, memory_used_kb) not found")
	}
	if f, _ := v.(float64); f != 123 {
		t.Errorf("value = %v, want 123", v)
	}

	if _, ok := pkt.At("data", "missing"); ok {
		t.Error("At(data, missing) found, want not found")
	}
}

func TestTypedAccessors(t *testing.T) {
	pkt := mustPacket(t, `{"id": "default", "connected": true, "data": {"memory_used_kb": 57.0}}`)

	if got := pkt.StringAt("id"); got != "default" {
		t.Errorf("StringAt(id) = %q, want %q", got, "default")
	}
	if got := pkt.StringAt("connected"); got != "" {
		t.Errorf("StringAt on a bool = %q, want empty", got)
	}
	if !pkt.BoolAt("connected") {
		t.Error("BoolAt(connected) = false, want true")
	}
	if pkt.BoolAt("id") {
		t.Error("BoolAt on a string = true, want false")
	}

	kb, ok := pkt.IntAt("data", "memory_used_kb")
	if !ok || kb != 57 {
		t.Errorf("IntAt(data, memory_used_kb) = %d (ok=%v), want 57", kb, ok)
	}
	if _, ok := pkt.IntAt("id"); ok {
		t.Error("IntAt on a string reports ok")
	}
}
