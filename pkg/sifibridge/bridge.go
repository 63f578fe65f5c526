package sifibridge

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
)

// maxPacketBytes bounds one output line. Armband data packets carry eight
// channel arrays per line and overrun the default bufio.Scanner limit.
const maxPacketBytes = 1 << 20

// DefaultDevice is the handle the bridge scopes commands to before any
// device is created or selected.
const DefaultDevice = "default"

// deviceState tracks what the client knows about one bridge device handle.
type deviceState struct {
	uid       string // user-chosen handle
	name      string // BLE name reported or targeted on connect
	connected bool
}

// Bridge drives a sifi_bridge process over its stdin/stdout pipes. All
// methods are synchronous and blocking; run the client on a dedicated
// goroutine when responsiveness matters. A Bridge is not safe for concurrent
// use: interleaved writes would corrupt the command stream and interleaved
// waits would steal each other's matching packets.
type Bridge struct {
	log *slog.Logger

	proc  *process
	stdin io.Writer
	out   *bufio.Scanner

	activeDevice string
	devices      map[string]*deviceState
}

// New starts a bridge process and returns a client bound to it.
//
// Before spawning, New queries the executable's version (`-V`) and requires
// its major.minor to match Version; a mismatch aborts construction. The
// process lives until Close.
func New(opts ...Option) (*Bridge, error) {
	const op = "Bridge.New"

	s := defaultSettings()
	for _, o := range opts {
		o(&s)
	}

	cliVersion, err := BridgeVersion(s.execPath)
	if err != nil {
		return nil, WrapOp(op, err)
	}
	if !sameMajorMinor(cliVersion, Version) {
		detail := fmt.Sprintf("library %s, %s %s", Version, s.execPath, cliVersion)
		return nil, NewBridgeError(op, ErrVersionMismatch, detail)
	}

	var args []string
	if s.dataTransport != "" {
		args = append(args, "-d", s.dataTransport)
	}
	proc, err := spawn(s.execPath, args)
	if err != nil {
		return nil, WrapOp(op, err)
	}

	b := newBridge(proc.stdin, proc.out, s.log)
	b.proc = proc
	return b, nil
}

// newBridge wires a client over raw in/out streams. Tests use it to drive
// the protocol without a child process.
func newBridge(in io.Writer, out io.Reader, log *slog.Logger) *Bridge {
	sc := bufio.NewScanner(out)
	sc.Buffer(make([]byte, 0, 64*1024), maxPacketBytes)
	return &Bridge{
		log:          log,
		stdin:        in,
		out:          sc,
		activeDevice: DefaultDevice,
		devices: map[string]*deviceState{
			DefaultDevice: {uid: DefaultDevice, name: "device-1"},
		},
	}
}

// Close shuts down the bridge process. Stop commands sent just before Close
// need roughly a second to reach the device over BLE; callers that care
// should pause before tearing down.
func (b *Bridge) Close() error {
	if b.proc == nil {
		return nil
	}
	return WrapOp("Bridge.Close", b.proc.close())
}

// ActiveDevice returns the handle commands are currently scoped to.
func (b *Bridge) ActiveDevice() string { return b.activeDevice }

// IsConnected reports whether the active device completed a connect.
func (b *Bridge) IsConnected() bool {
	return b.active().connected
}

// active returns the state entry for the current handle, creating it when a
// select targeted a handle the client has not tracked yet.
func (b *Bridge) active() *deviceState {
	st, ok := b.devices[b.activeDevice]
	if !ok {
		st = &deviceState{uid: b.activeDevice}
		b.devices[b.activeDevice] = st
	}
	return st
}

// writeCommand sends one newline-terminated command line to the bridge.
func (b *Bridge) writeCommand(cmd string) error {
	b.log.Info("bridge command", "cmd", cmd)
	if _, err := io.WriteString(b.stdin, cmd+"\n"); err != nil {
		return fmt.Errorf("write %q: %w", cmd, err)
	}
	return nil
}
