package rx

import (
	"bytes"
	"testing"
)

func ctrlPayload(marker byte, count int) []byte {
	p := make([]byte, testCtrlSize)
	for i := 0; i < count; i++ {
		p[i] = marker
	}
	return p
}

func TestClassifyDataFrame(t *testing.T) {
	payload := bytes.Repeat([]byte{0x42}, testBlockSize)
	if got := classifyFrame(payload, testBlockSize, testCtrlSize, 0.66); got != ControlNone {
		t.Fatalf("got %s, want data", got)
	}
}

func TestClassifyWrongSize(t *testing.T) {
	for _, size := range []int{0, 1, testCtrlSize - 1, testCtrlSize + 1, testBlockSize + 1} {
		payload := bytes.Repeat([]byte{markerEOT}, size)
		if got := classifyFrame(payload, testBlockSize, testCtrlSize, 0.66); got != ControlUnknown {
			t.Fatalf("size %d: got %s, want unknown", size, got)
		}
	}
}

func TestClassifyControlFrames(t *testing.T) {
	cases := []struct {
		name    string
		payload []byte
		want    ControlKind
	}{
		{"pure preamble", ctrlPayload(markerPreamble, testCtrlSize), ControlPreamble},
		{"pure eot", ctrlPayload(markerEOT, testCtrlSize), ControlEOT},
		{"majority preamble", ctrlPayload(markerPreamble, 12), ControlPreamble},
		{"majority eot", ctrlPayload(markerEOT, 12), ControlEOT},
		{"no markers", make([]byte, testCtrlSize), ControlUnknown},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := classifyFrame(tc.payload, testBlockSize, testCtrlSize, 0.66); got != tc.want {
				t.Fatalf("got %s, want %s", got, tc.want)
			}
		})
	}
}

func TestClassifyThresholdIsExclusive(t *testing.T) {
	// 8 of 16 marker bytes is exactly the 0.5 fraction; the threshold must
	// be exceeded, not met.
	at := ctrlPayload(markerEOT, testCtrlSize/2)
	if got := classifyFrame(at, testBlockSize, testCtrlSize, 0.5); got != ControlUnknown {
		t.Fatalf("exactly at threshold: got %s, want unknown", got)
	}

	above := ctrlPayload(markerEOT, testCtrlSize/2+1)
	if got := classifyFrame(above, testBlockSize, testCtrlSize, 0.5); got != ControlEOT {
		t.Fatalf("above threshold: got %s, want eot", got)
	}
}

func TestClassifyEOTPrecedence(t *testing.T) {
	// Corrupt EOT frame with a few bytes reading as preamble markers:
	// EOT wins because it is checked first.
	p := ctrlPayload(markerEOT, 12)
	for i := 12; i < testCtrlSize; i++ {
		p[i] = markerPreamble
	}
	if got := classifyFrame(p, testBlockSize, testCtrlSize, 0.66); got != ControlEOT {
		t.Fatalf("got %s, want eot", got)
	}
}
