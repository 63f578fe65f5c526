package sifibridge

// Packet is one JSON object received from the bridge process, one per output
// line. Packets are structurally heterogeneous: a connection report carries
// {"connected": bool}, a data packet {"packet_type": "ecg", "data": {...}},
// a status packet {"status": "..."}. The only universal contract is one JSON
// object per line, so Packet stays a generic map.
type Packet map[string]any

// At walks a nested key path and returns the value at its end. Each key but
// the last must address a JSON object. The second return is false when any
// key along the path is absent or a non-object value is reached early.
func (p Packet) At(keys ...string) (any, bool) {
	var cur any = map[string]any(p)
	for _, k := range keys {
		obj, ok := cur.(map[string]any)
		if !ok {
			return nil, false
		}
		cur, ok = obj[k]
		if !ok {
			return nil, false
		}
	}
	return cur, true
}

// HasPath reports whether the full key path exists in the packet. An empty
// path trivially matches. A single key checks a top-level field; multiple
// keys must be satisfied as a strict nesting.
func (p Packet) HasPath(keys ...string) bool {
	_, ok := p.At(keys...)
	return ok
}

// StringAt returns the string value at the key path, or "" when the path is
// absent or holds a non-string.
func (p Packet) StringAt(keys ...string) string {
	v, ok := p.At(keys...)
	if !ok {
		return ""
	}
	s, _ := v.(string)
	return s
}

// BoolAt returns the bool value at the key path, or false when the path is
// absent or holds a non-bool.
func (p Packet) BoolAt(keys ...string) bool {
	v, ok := p.At(keys...)
	if !ok {
		return false
	}
	b, _ := v.(bool)
	return b
}

// IntAt returns the numeric value at the key path truncated to int. JSON
// numbers decode as float64, so both 123 and 123.0 are accepted. The second
// return is false when the path is absent or holds a non-number.
func (p Packet) IntAt(keys ...string) (int, bool) {
	v, ok := p.At(keys...)
	if !ok {
		return 0, false
	}
	f, ok := v.(float64)
	if !ok {
		return 0, false
	}
	return int(f), true
}
