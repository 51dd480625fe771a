package capture

import (
	"os"
	"testing"
)

func TestParseSourceType(t *testing.T) {
	cases := []struct {
		in   string
		want SourceType
		ok   bool
	}{
		{"pcap", TypePCAP, true},
		{"PCAP", TypePCAP, true},
		{" pcap ", TypePCAP, true},
		{"afpacket", TypeAFPacket, true},
		{"af_packet", TypeAFPacket, true},
		{"af-packet", TypeAFPacket, true},
		{"file", TypeFile, true},
		{"savefile", TypeFile, true},
		{"offline", TypeFile, true},
		{"", "", false},
		{"netmap", "", false},
	}
	for _, tc := range cases {
		got, err := ParseSourceType(tc.in)
		if tc.ok {
			if err != nil {
				t.Errorf("ParseSourceType(%q): %v", tc.in, err)
			} else if got != tc.want {
				t.Errorf("ParseSourceType(%q) = %q, want %q", tc.in, got, tc.want)
			}
		} else if err == nil {
			t.Errorf("ParseSourceType(%q) accepted, want error", tc.in)
		}
	}
}

func TestSourceTypeUnmarshalText(t *testing.T) {
	var st SourceType
	if err := st.UnmarshalText([]byte("AFPACKET")); err != nil {
		t.Fatalf("UnmarshalText: %v", err)
	}
	if st != TypeAFPacket {
		t.Fatalf("got %q, want %q", st, TypeAFPacket)
	}
	if err := st.UnmarshalText([]byte("bogus")); err == nil {
		t.Fatal("bogus type accepted")
	}
}

func TestComputeRingGeometry(t *testing.T) {
	pageSize := os.Getpagesize()

	t.Run("snaplen below page size", func(t *testing.T) {
		opts := &Options{SnapLen: pageSize / 2, BufferSize: 1 << 22}
		frameSize, blockSize, numBlocks, err := computeRingGeometry(opts)
		if err != nil {
			t.Fatalf("computeRingGeometry: %v", err)
		}
		if pageSize%frameSize != 0 {
			t.Fatalf("frame size %d does not divide page size %d", frameSize, pageSize)
		}
		if frameSize < opts.SnapLen {
			t.Fatalf("frame size %d below snaplen %d", frameSize, opts.SnapLen)
		}
		if blockSize != frameSize*128 {
			t.Fatalf("block size %d, want %d", blockSize, frameSize*128)
		}
		if got := opts.BufferSize / blockSize; numBlocks != got {
			t.Fatalf("numBlocks %d, want %d", numBlocks, got)
		}
	})

	t.Run("snaplen above page size", func(t *testing.T) {
		opts := &Options{SnapLen: pageSize + 1, BufferSize: 1 << 26}
		frameSize, _, _, err := computeRingGeometry(opts)
		if err != nil {
			t.Fatalf("computeRingGeometry: %v", err)
		}
		if frameSize%pageSize != 0 {
			t.Fatalf("frame size %d not page aligned", frameSize)
		}
		if frameSize < opts.SnapLen {
			t.Fatalf("frame size %d below snaplen %d", frameSize, opts.SnapLen)
		}
	})

	t.Run("buffer too small", func(t *testing.T) {
		opts := &Options{SnapLen: pageSize, BufferSize: pageSize}
		if _, _, _, err := computeRingGeometry(opts); err == nil {
			t.Fatal("undersized buffer accepted")
		}
	})
}

func TestNewSourceUnknownType(t *testing.T) {
	if _, err := NewSource(&Options{Type: "bogus"}); err == nil {
		t.Fatal("unknown source type accepted")
	}
}
