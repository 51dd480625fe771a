package rx

import (
	"bytes"
	"testing"
)

func TestParseFrameRegions(t *testing.T) {
	payload := make([]byte, testBlockSize)
	for i := range payload {
		payload[i] = byte(i)
	}
	frame := buildFrame(testSender, 7, payload)

	regions, err := parseFrame(frame, len(frame))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(regions.header) != dataHeaderLen {
		t.Fatalf("header length %d, want %d", len(regions.header), dataHeaderLen)
	}
	if !bytes.Equal(regions.payload, payload) {
		t.Fatal("payload region mismatch")
	}
	if len(regions.trailer) != trailerLen {
		t.Fatalf("trailer length %d, want %d", len(regions.trailer), trailerLen)
	}
	if got := regions.sequence(); got != 7 {
		t.Fatalf("sequence %d, want 7", got)
	}
}

func TestParseFrameTooShort(t *testing.T) {
	frame := buildDataFrame(0)

	cases := []struct {
		name   string
		data   []byte
		caplen int
	}{
		{"empty", nil, 0},
		{"below metadata minimum", frame, rtapMinLen - 1},
		{"header truncated", frame, testRtapLen + dataHeaderLen - 1},
		{"trailer truncated", frame, testRtapLen + dataHeaderLen + trailerLen - 1},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := parseFrame(tc.data, tc.caplen); err != ErrFrameTooShort {
				t.Fatalf("got %v, want ErrFrameTooShort", err)
			}
		})
	}
}

func TestParseFrameLyingMetadataLength(t *testing.T) {
	// A metadata header claiming to be longer than the capture must not
	// cause any out-of-range slicing.
	frame := buildDataFrame(0)
	frame[rtapLenOffset] = 0xFF
	frame[rtapLenOffset+1] = 0xFF

	if _, err := parseFrame(frame, len(frame)); err != ErrFrameTooShort {
		t.Fatalf("got %v, want ErrFrameTooShort", err)
	}
}

func TestParseFrameCaplenBeyondBuffer(t *testing.T) {
	frame := buildDataFrame(3)
	// Capture length larger than the buffer is clamped, not trusted.
	regions, err := parseFrame(frame, len(frame)+100)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := regions.sequence(); got != 3 {
		t.Fatalf("sequence %d, want 3", got)
	}
}

func TestChecksumValid(t *testing.T) {
	frame := buildDataFrame(1)
	if !mustParse(frame).checksumValid() {
		t.Fatal("freshly built frame should have a valid checksum")
	}

	// Flip one payload bit.
	frame[testRtapLen+dataHeaderLen] ^= 0x01
	if mustParse(frame).checksumValid() {
		t.Fatal("corrupted payload should fail the checksum")
	}
}

func TestChecksumCoversHeader(t *testing.T) {
	frame := buildDataFrame(1)
	// The CRC covers the data header as well as the payload.
	frame[testRtapLen] ^= 0x01
	if mustParse(frame).checksumValid() {
		t.Fatal("corrupted header should fail the checksum")
	}
}
