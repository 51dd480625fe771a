package rx

import (
	"encoding/binary"
	"hash/crc32"
)

// Wire geometry used across the engine tests. Small sizes keep fixtures
// readable; the engine never assumes production values.
const (
	testBlockSize = 32
	testCtrlSize  = 16
	testRtapLen   = 8
)

var testSender = Address{0x05, 0x07, 0x2A, 0x9E, 0x10, 0x60}

// buildFrame assembles a complete captured frame: a minimal metadata
// header, a data header with all three address fields set to sender and
// seq packed into the first one, the payload, and a valid CRC trailer.
func buildFrame(sender Address, seq uint32, payload []byte) []byte {
	rtap := make([]byte, testRtapLen)
	binary.LittleEndian.PutUint16(rtap[rtapLenOffset:], testRtapLen)

	hdr := make([]byte, dataHeaderLen)
	for i := 0; i < 3; i++ {
		copy(hdr[addr1Offset+i*addrLen:], sender[:])
	}
	binary.BigEndian.PutUint32(hdr[addr1Offset+2:], seq)

	crc := crc32.Update(0, crc32.IEEETable, hdr)
	crc = crc32.Update(crc, crc32.IEEETable, payload)
	trailer := make([]byte, trailerLen)
	binary.LittleEndian.PutUint32(trailer, crc)

	frame := make([]byte, 0, len(rtap)+len(hdr)+len(payload)+len(trailer))
	frame = append(frame, rtap...)
	frame = append(frame, hdr...)
	frame = append(frame, payload...)
	frame = append(frame, trailer...)
	return frame
}

// buildDataFrame builds a data frame whose payload is seq repeated.
func buildDataFrame(seq uint32) []byte {
	payload := make([]byte, testBlockSize)
	for i := range payload {
		payload[i] = byte(seq)
	}
	return buildFrame(testSender, seq, payload)
}

// buildControlFrame builds a control frame of pure marker bytes.
func buildControlFrame(marker byte) []byte {
	payload := make([]byte, testCtrlSize)
	for i := range payload {
		payload[i] = marker
	}
	return buildFrame(testSender, 0, payload)
}

func mustParse(frame []byte) frameRegions {
	regions, err := parseFrame(frame, len(frame))
	if err != nil {
		panic(err)
	}
	return regions
}
