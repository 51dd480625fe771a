// Package rx implements the receive-side engine of the radio-link file
// transfer scheme: frame parsing, sender verification, control frame
// classification, block reordering and session statistics.
package rx

import (
	"encoding/binary"
	"hash/crc32"
)

const (
	// Radiotap header geometry. Only the self-declared total length is read
	// here; the tagged fields are decoded in metadata.go.
	rtapLenOffset = 2
	rtapMinLen    = 8

	// Fixed-layout data header: frame control (2), duration (2), three
	// 6-byte address fields, sequence control (2).
	dataHeaderLen = 24
	addrLen       = 6
	addr1Offset   = 4

	// Trailing CRC-32 over header+payload.
	trailerLen = 4
)

// frameRegions delimits the validated regions of one captured frame. All
// slices alias the capture buffer and are only valid for the duration of
// the dispatch callback.
type frameRegions struct {
	header  []byte // data header, dataHeaderLen bytes
	payload []byte
	trailer []byte // trailerLen-byte checksum
}

// parseFrame validates the capture length against every region boundary
// before slicing. The metadata header length is self-describing (LE16 at
// rtapLenOffset); nothing else from the metadata header is trusted here.
func parseFrame(data []byte, caplen int) (frameRegions, error) {
	if caplen > len(data) {
		caplen = len(data)
	}
	if caplen < rtapMinLen {
		return frameRegions{}, ErrFrameTooShort
	}

	rtapLen := int(binary.LittleEndian.Uint16(data[rtapLenOffset:]))
	if rtapLen < rtapMinLen || caplen < rtapLen+dataHeaderLen+trailerLen {
		return frameRegions{}, ErrFrameTooShort
	}

	return frameRegions{
		header:  data[rtapLen : rtapLen+dataHeaderLen],
		payload: data[rtapLen+dataHeaderLen : caplen-trailerLen],
		trailer: data[caplen-trailerLen : caplen],
	}, nil
}

// address returns the i-th (0..2) address field of the data header.
func (f frameRegions) address(i int) []byte {
	off := addr1Offset + i*addrLen
	return f.header[off : off+addrLen]
}

// sequence extracts the block sequence number the transmitter packs
// big-endian into the last four bytes of the first address field.
func (f frameRegions) sequence() uint32 {
	return binary.BigEndian.Uint32(f.header[addr1Offset+2:])
}

// checksumValid computes CRC-32 (IEEE) over the data header and payload
// and compares it to the little-endian trailer value. The result only
// feeds statistics; invalid blocks are still admitted.
func (f frameRegions) checksumValid() bool {
	crc := crc32.Update(0, crc32.IEEETable, f.header)
	crc = crc32.Update(crc, crc32.IEEETable, f.payload)
	return crc == binary.LittleEndian.Uint32(f.trailer)
}
