package rx

import (
	"encoding/binary"
	"fmt"

	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"

	"github.com/dxgrid/airlink/internal/log"
)

// FrameMetadata carries the radio-layer diagnostics decoded from the
// capture metadata header. It is recorded per data frame for statistics
// and debug logging only; a zero value means the field was absent or the
// header was malformed.
type FrameMetadata struct {
	HeaderLen uint16 `yaml:"header_len"`
	Flags     uint8  `yaml:"flags"`
	RxFlags   uint16 `yaml:"rx_flags"`

	ChannelFrequency uint16 `yaml:"channel_frequency"`
	ChannelFlags     uint16 `yaml:"channel_flags"`

	// TSFT is the 64-bit timestamp counter sampled by the radio.
	TSFT    uint64 `yaml:"tsft"`
	Antenna uint8  `yaml:"antenna"`

	// AntennaSignal is the signal level in dBm. The radio encodes it as a
	// single byte offset from 255.
	AntennaSignal int `yaml:"antenna_signal"`

	MCSKnown uint8 `yaml:"mcs_known"`
	MCSFlags uint8 `yaml:"mcs_flags"`
	MCSIndex uint8 `yaml:"mcs_index"`
}

// decodeMetadata walks the tagged fields of the capture metadata header.
// A malformed header yields a zero-valued record and a warning; the frame
// itself is still processed best-effort.
func decodeMetadata(data []byte) FrameMetadata {
	var md FrameMetadata

	rt, err := decodeRadioTap(data)
	if err != nil {
		log.GetLogger().WithError(err).Warn("malformed capture metadata header")
		return md
	}

	md.HeaderLen = rt.Length
	if rt.Present.Flags() {
		md.Flags = uint8(rt.Flags)
	}
	if rt.Present.RxFlags() {
		md.RxFlags = uint16(rt.RxFlags)
	}
	if rt.Present.Channel() {
		md.ChannelFrequency = uint16(rt.ChannelFrequency)
		md.ChannelFlags = uint16(rt.ChannelFlags)
	}
	if rt.Present.TSFT() {
		md.TSFT = rt.TSFT
	}
	if rt.Present.Antenna() {
		md.Antenna = rt.Antenna
	}
	if rt.Present.DBMAntennaSignal() {
		md.AntennaSignal = int(byte(rt.DBMAntennaSignal)) - 255
	}
	if rt.Present.MCS() {
		md.MCSKnown = uint8(rt.MCS.Known)
		md.MCSFlags = uint8(rt.MCS.Flags)
		md.MCSIndex = rt.MCS.MCS
	}
	return md
}

// decodeRadioTap runs the gopacket radiotap decoder over untrusted capture
// bytes. The decoder indexes by present-bitmap field offsets without bounds
// checks and panics when the bitmap claims more fields than the header
// holds, so the declared length is validated up front, the decoder only
// sees the declared header, and any panic is converted to an error.
func decodeRadioTap(data []byte) (rt layers.RadioTap, err error) {
	if len(data) < rtapMinLen {
		return rt, ErrFrameTooShort
	}
	declared := int(binary.LittleEndian.Uint16(data[rtapLenOffset:]))
	if declared < rtapMinLen || declared > len(data) {
		return rt, fmt.Errorf("declared metadata length %d outside capture of %d bytes", declared, len(data))
	}

	defer func() {
		if r := recover(); r != nil {
			rt = layers.RadioTap{}
			err = fmt.Errorf("metadata field walk overran header: %v", r)
		}
	}()
	err = rt.DecodeFromBytes(data[:declared], gopacket.NilDecodeFeedback)
	return rt, err
}
