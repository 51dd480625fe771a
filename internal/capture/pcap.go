package capture

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"
	"github.com/google/gopacket/pcap"

	"github.com/dxgrid/airlink/internal/rx"
)

// pcapSource captures frames through libpcap, either live on a monitoring
// interface or from a savefile.
type pcapSource struct {
	handle  *pcap.Handle
	offline bool

	// pending holds one frame read ahead by WaitReady for the next
	// Dispatch to deliver.
	pending     []byte
	pendingInfo gopacket.CaptureInfo
	hasPending  bool
}

func newPcapSource(opts *Options) (*pcapSource, error) {
	s := &pcapSource{}

	var err error
	if opts.File != "" {
		s.handle, err = pcap.OpenOffline(opts.File)
		if err != nil {
			return nil, fmt.Errorf("failed to open savefile %s: %w", opts.File, err)
		}
		s.offline = true
	} else {
		s.handle, err = pcap.OpenLive(opts.Interface, int32(opts.SnapLen), opts.Promiscuous, opts.PollTimeout)
		if err != nil {
			return nil, fmt.Errorf("failed to open %s: %w", opts.Interface, err)
		}
		if err := s.handle.SetLinkType(layers.LinkTypeIEEE80211Radio); err != nil {
			s.handle.Close()
			return nil, fmt.Errorf("failed to set datalink: %w", err)
		}
	}

	if opts.Filter != "" {
		if err := s.handle.SetBPFFilter(opts.Filter); err != nil {
			s.handle.Close()
			return nil, fmt.Errorf("failed to set filter %q: %w", opts.Filter, err)
		}
	}

	return s, nil
}

func (s *pcapSource) WaitReady(ctx context.Context, timeout time.Duration) error {
	if s.hasPending {
		return nil
	}
	deadline := time.Now().Add(timeout)

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		data, ci, err := s.handle.ReadPacketData()
		switch err {
		case nil:
			s.pending, s.pendingInfo, s.hasPending = data, ci, true
			return nil
		case pcap.NextErrorTimeoutExpired:
			if !time.Now().Before(deadline) {
				return rx.ErrWaitTimeout
			}
		case io.EOF:
			// Savefile drained; Dispatch reports the exhaustion.
			return nil
		default:
			return fmt.Errorf("airlink: capture wait: %w", err)
		}
	}
}

func (s *pcapSource) Dispatch(max int, fn rx.FrameFunc) (int, error) {
	n := 0
	if s.hasPending {
		fn(s.pending, s.pendingInfo)
		s.pending, s.hasPending = nil, false
		n++
	}

	for n < max {
		data, ci, err := s.handle.ReadPacketData()
		if err == pcap.NextErrorTimeoutExpired {
			break
		}
		if err == io.EOF {
			if n == 0 {
				return 0, rx.ErrSourceExhausted
			}
			break
		}
		if err != nil {
			return n, err
		}
		fn(data, ci)
		n++
	}
	return n, nil
}

func (s *pcapSource) Stats() (rx.SourceStats, error) {
	if s.offline {
		// libpcap cannot report statistics for savefiles.
		return rx.SourceStats{}, nil
	}
	ps, err := s.handle.Stats()
	if err != nil {
		return rx.SourceStats{}, err
	}
	return rx.SourceStats{
		Received:  ps.PacketsReceived,
		Dropped:   ps.PacketsDropped,
		IfDropped: ps.PacketsIfDropped,
	}, nil
}

func (s *pcapSource) Close() error {
	s.handle.Close()
	return nil
}
