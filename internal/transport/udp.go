package transport

import (
	"fmt"
	"net"
	"sort"
)

// #region udp-lane
// UDPLane is the best-effort realtime channel. Each directive is one
// newline-terminated ASCII datagram:
//
//	/macro <preset_id> <name> <value>
//	/meta <key> <value>
//
// No acknowledgement, no retry; a dropped datagram just delays convergence
// until the next cycle. The firmware parses these without an OSC library;
// keep the address strings stable if the encoder ever changes.
type UDPLane struct {
	conn net.Conn
}

// NewUDPLane connects a datagram socket to the hardware endpoint.
func NewUDPLane(addr string) (*UDPLane, error) {
	conn, err := net.Dial("udp", addr)
	if err != nil {
		return nil, fmt.Errorf("dial udp %s: %w", addr, err)
	}
	return &UDPLane{conn: conn}, nil
}

// Close releases the socket.
func (l *UDPLane) Close() error {
	return l.conn.Close()
}

// #endregion udp-lane

// #region send

// SendMacro emits one macro directive with the value clamped to [0, 1].
func (l *UDPLane) SendMacro(presetID, name string, value float64) {
	_, _ = fmt.Fprintf(l.conn, "/macro %s %s %.6f\n", presetID, name, clamp01(value))
}

// SendMacros emits one directive per macro, in sorted name order so the
// wire sequence is deterministic.
func (l *UDPLane) SendMacros(presetID string, values map[string]float64) {
	names := make([]string, 0, len(values))
	for name := range values {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		l.SendMacro(presetID, name, values[name])
	}
}

// SendMeta emits one feel-adjustment directive (bpm, swing, ...).
func (l *UDPLane) SendMeta(key string, value float64) {
	_, _ = fmt.Fprintf(l.conn, "/meta %s %.6f\n", key, value)
}

func clamp01(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}

// #endregion send
