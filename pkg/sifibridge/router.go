package sifibridge

import "encoding/json"

// ReadPacket blocks until one line arrives from the bridge and decodes it as
// JSON. A malformed line is logged and yields an empty packet with a nil
// error; decode failures never propagate past this boundary. The returned
// error is non-nil only when the output stream has closed (bridge exited or
// pipe broken), wrapping ErrStreamClosed.
func (b *Bridge) ReadPacket() (Packet, error) {
	if !b.out.Scan() {
		detail := "eof"
		if err := b.out.Err(); err != nil {
			detail = err.Error()
		}
		return Packet{}, NewBridgeError("Bridge.ReadPacket", ErrStreamClosed, detail)
	}

	var pkt Packet
	if err := json.Unmarshal(b.out.Bytes(), &pkt); err != nil {
		b.log.Error("malformed bridge packet", "err", err, "line", string(b.out.Bytes()))
		return Packet{}, nil
	}
	return pkt, nil
}

// ReadUntil blocks until the bridge emits a packet containing the full key
// path, discarding every packet that does not match, including packets
// unrelated to the current request. A single key must be a top-level field;
// multiple keys must be satisfied as a strict nesting. With no keys it
// behaves like ReadPacket.
//
// There is no timeout: if the bridge never emits a matching packet the call
// blocks until the stream closes. The protocol has no request IDs, so when
// two logical waits overlap the first matching packet wins regardless of
// which request it was meant to answer; callers serialize operations.
func (b *Bridge) ReadUntil(keys ...string) (Packet, error) {
	for {
		pkt, err := b.ReadPacket()
		if err != nil {
			return pkt, err
		}
		if pkt.HasPath(keys...) {
			return pkt, nil
		}
	}
}
