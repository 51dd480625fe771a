package rx

import (
	"encoding/binary"
	"math/bits"
)

// Address is the 6-byte link-layer address the transmitter stuffs into the
// data header address fields.
type Address [addrLen]byte

// segmentDistance sums the hamming distance over the 4-byte and 2-byte
// segments of two address fields.
func segmentDistance(a, b []byte) int {
	hi := binary.LittleEndian.Uint32(a) ^ binary.LittleEndian.Uint32(b)
	lo := binary.LittleEndian.Uint16(a[4:]) ^ binary.LittleEndian.Uint16(b[4:])
	return bits.OnesCount32(hi) + bits.OnesCount16(lo)
}

// verifySender accepts a frame when any of its three address fields is
// within the hamming distance threshold (strictly below) of the expected
// sender address. Address fields are noisy at the physical layer, so exact
// matching would reject legitimate frames with bit errors.
func verifySender(f frameRegions, expected Address, threshold uint32) bool {
	for i := 0; i < 3; i++ {
		if segmentDistance(f.address(i), expected[:]) < int(threshold) {
			return true
		}
	}
	return false
}
