package transport

import (
	"encoding/binary"
	"fmt"
	"io"
	"time"

	"github.com/fxamacker/cbor/v2"
	"go.bug.st/serial"
)

// #region command-kinds
// Ops command kinds understood by the firmware.
const (
	KindLoadPreset    = "LOAD_PRESET"
	KindStageNext     = "STAGE_NEXT"
	KindCommitPattern = "COMMIT_PATTERN"
	KindPing          = "PING"
)

// #endregion command-kinds

// #region constants
const (
	// maxFrameBytes bounds an inbound frame; larger lengths are discarded.
	maxFrameBytes = 1_000_000
	// nonceWrap resets the nonce counter back to 1 once exceeded.
	nonceWrap = 2_000_000_000
	// DefaultAttemptTimeout is the per-attempt ACK wait window.
	DefaultAttemptTimeout = 600 * time.Millisecond
	// serialReadTimeout keeps individual serial reads short so the ACK
	// poll loop can check the attempt deadline.
	serialReadTimeout = 250 * time.Millisecond
)

// #endregion constants

// #region ops-lane
// OpsLane is the reliable command channel: length-prefixed CBOR frames
// with a nonce/ACK contract and bounded retries. Each outbound frame is
// [u32 big-endian length][cbor map {kind, nonce, payload}]; the firmware
// replies with a frame of the same shape containing {ack, ok}.
//
// Transport failures never surface as errors; Send absorbs timeouts and
// mismatches into its boolean result.
type OpsLane struct {
	rw             io.ReadWriter
	attemptTimeout time.Duration
	nonce          int64
}

// NewOpsLane wraps a framed transport with the default attempt timeout.
func NewOpsLane(rw io.ReadWriter) *OpsLane {
	return NewOpsLaneWithTimeout(rw, DefaultAttemptTimeout)
}

// NewOpsLaneWithTimeout wraps a framed transport with an explicit
// per-attempt ACK timeout.
func NewOpsLaneWithTimeout(rw io.ReadWriter, attemptTimeout time.Duration) *OpsLane {
	return &OpsLane{rw: rw, attemptTimeout: attemptTimeout}
}

// OpenSerialOps opens the named serial device and wraps it as an ops lane.
func OpenSerialOps(device string, baud int) (*OpsLane, error) {
	port, err := serial.Open(device, &serial.Mode{BaudRate: baud})
	if err != nil {
		return nil, fmt.Errorf("open serial %s: %w", device, err)
	}
	if err := port.SetReadTimeout(serialReadTimeout); err != nil {
		_ = port.Close()
		return nil, fmt.Errorf("set read timeout: %w", err)
	}
	return NewOpsLane(port), nil
}

// #endregion ops-lane

// #region send

// Send transmits a command and waits for a matching ACK, retransmitting on
// timeout or mismatch for up to retries attempts (minimum one). It returns
// whether the firmware acknowledged with ok=true.
func (l *OpsLane) Send(kind string, payload map[string]any, retries int) bool {
	if retries < 1 {
		retries = 1
	}
	nonce := l.nextNonce()

	raw, err := cbor.Marshal(map[string]any{
		"kind":    kind,
		"nonce":   nonce,
		"payload": payload,
	})
	if err != nil {
		return false
	}
	frame := make([]byte, 4+len(raw))
	binary.BigEndian.PutUint32(frame, uint32(len(raw)))
	copy(frame[4:], raw)

	for attempt := 0; attempt < retries; attempt++ {
		if _, err := l.rw.Write(frame); err != nil {
			continue
		}
		deadline := time.Now().Add(l.attemptTimeout)
		for time.Now().Before(deadline) {
			resp := l.readFrame(deadline)
			if resp == nil {
				continue
			}
			if ackMatches(resp["ack"], nonce) {
				ok, _ := resp["ok"].(bool)
				return ok
			}
		}
	}
	return false
}

// nextNonce returns the current nonce and advances the wrapping counter.
func (l *OpsLane) nextNonce() int64 {
	if l.nonce < 1 {
		l.nonce = 1
	}
	n := l.nonce
	l.nonce++
	if l.nonce > nonceWrap {
		l.nonce = 1
	}
	return n
}

// #endregion send

// #region read

// readFrame reads one framed CBOR map, returning nil for short reads,
// invalid lengths, or undecodable payloads.
func (l *OpsLane) readFrame(deadline time.Time) map[string]any {
	hdr, ok := l.readFull(4, deadline)
	if !ok {
		return nil
	}
	n := binary.BigEndian.Uint32(hdr)
	if n == 0 || n > maxFrameBytes {
		return nil
	}
	body, ok := l.readFull(int(n), deadline)
	if !ok {
		return nil
	}
	var obj map[string]any
	if err := cbor.Unmarshal(body, &obj); err != nil {
		return nil
	}
	return obj
}

// readFull reads exactly n bytes, tolerating the zero-byte reads a serial
// port produces on its own read timeout, until the deadline passes.
func (l *OpsLane) readFull(n int, deadline time.Time) ([]byte, bool) {
	buf := make([]byte, n)
	got := 0
	for got < n {
		if !time.Now().Before(deadline) {
			return nil, false
		}
		k, err := l.rw.Read(buf[got:])
		got += k
		if err != nil {
			return nil, false
		}
	}
	return buf, true
}

// ackMatches compares a decoded ack value against the sent nonce across
// the integer types the CBOR decoder may produce.
func ackMatches(ack any, nonce int64) bool {
	switch v := ack.(type) {
	case uint64:
		return v == uint64(nonce)
	case int64:
		return v == nonce
	case int:
		return int64(v) == nonce
	}
	return false
}

// #endregion read
