package capture

import (
	"fmt"

	"github.com/google/gopacket/layers"
	"github.com/google/gopacket/pcap"
	"golang.org/x/net/bpf"
)

// compileFilter compiles a tcpdump-style filter expression into raw BPF
// instructions for the AF_PACKET path. The pcap compiler targets the
// radio-monitoring datalink so offsets line up with captured frames.
func compileFilter(filter string, snaplen int) ([]bpf.RawInstruction, error) {
	prog, err := pcap.CompileBPFFilter(layers.LinkTypeIEEE80211Radio, snaplen, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to compile filter %q: %w", filter, err)
	}

	raw := make([]bpf.RawInstruction, len(prog))
	for i, ins := range prog {
		raw[i] = bpf.RawInstruction{
			Op: ins.Code,
			Jt: ins.Jt,
			Jf: ins.Jf,
			K:  ins.K,
		}
	}
	return raw, nil
}

// ValidateFilter reports whether a filter expression compiles.
func ValidateFilter(filter string, snaplen int) error {
	_, err := compileFilter(filter, snaplen)
	return err
}
