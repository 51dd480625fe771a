// Package capture provides the capture sources the receiver pulls frames
// from: live pcap, AF_PACKET rings and offline savefiles.
package capture

import (
	"fmt"
	"strings"
	"time"
)

// SourceType selects the capture implementation.
type SourceType string

const (
	TypePCAP     SourceType = "pcap"
	TypeAFPacket SourceType = "afpacket"
	TypeFile     SourceType = "file"
)

// ParseSourceType converts a string to a SourceType, case-insensitively.
func ParseSourceType(s string) (SourceType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "pcap":
		return TypePCAP, nil
	case "afpacket", "af_packet", "af-packet":
		return TypeAFPacket, nil
	case "file", "savefile", "offline":
		return TypeFile, nil
	default:
		return "", fmt.Errorf("unknown capture type: %q", s)
	}
}

// UnmarshalText implements encoding.TextUnmarshaler for config decoding.
func (t *SourceType) UnmarshalText(text []byte) error {
	parsed, err := ParseSourceType(string(text))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// Options configures a capture source.
type Options struct {
	Type      SourceType `mapstructure:"type"`
	Interface string     `mapstructure:"interface"` // live types
	File      string     `mapstructure:"file"`      // type=file

	SnapLen     int  `mapstructure:"snaplen"`
	BufferSize  int  `mapstructure:"buffer_size"` // AF_PACKET ring bytes
	Promiscuous bool `mapstructure:"promiscuous"`

	// PollTimeout is the source-level read timeout; it bounds how often
	// the wait loop can observe deadlines and cancellation.
	PollTimeout time.Duration `mapstructure:"poll_timeout"`

	// Filter is a BPF expression applied at the capture layer.
	Filter string `mapstructure:"filter"`
}
