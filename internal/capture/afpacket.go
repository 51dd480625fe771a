package capture

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/google/gopacket"
	"github.com/google/gopacket/afpacket"

	"github.com/dxgrid/airlink/internal/rx"
)

// afpacketSource captures frames through an AF_PACKET TPacket v3 ring.
type afpacketSource struct {
	tpacket *afpacket.TPacket

	pending     []byte
	pendingInfo gopacket.CaptureInfo
	hasPending  bool
}

func newAFPacketSource(opts *Options) (*afpacketSource, error) {
	frameSize, blockSize, numBlocks, err := computeRingGeometry(opts)
	if err != nil {
		return nil, err
	}

	tpacket, err := afpacket.NewTPacket(
		afpacket.OptInterface(opts.Interface),
		afpacket.OptFrameSize(frameSize),
		afpacket.OptBlockSize(blockSize),
		afpacket.OptNumBlocks(numBlocks),
		afpacket.OptPollTimeout(opts.PollTimeout),
		afpacket.SocketRaw,
		afpacket.TPacketVersion3,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create TPacket: %w", err)
	}

	if opts.Filter != "" {
		raw, err := compileFilter(opts.Filter, opts.SnapLen)
		if err != nil {
			tpacket.Close()
			return nil, err
		}
		if err := tpacket.SetBPF(raw); err != nil {
			tpacket.Close()
			return nil, fmt.Errorf("failed to set filter: %w", err)
		}
	}

	return &afpacketSource{tpacket: tpacket}, nil
}

// computeRingGeometry derives frame/block sizes for the ring from the
// snapshot length and page size.
func computeRingGeometry(opts *Options) (frameSize, blockSize, numBlocks int, err error) {
	pageSize := os.Getpagesize()
	if opts.SnapLen < pageSize {
		frameSize = pageSize / (pageSize / opts.SnapLen)
	} else {
		frameSize = (opts.SnapLen/pageSize + 1) * pageSize
	}
	blockSize = frameSize * 128
	numBlocks = opts.BufferSize / blockSize
	if numBlocks < 1 {
		return 0, 0, 0, fmt.Errorf("buffer size %d too small for frame size %d", opts.BufferSize, frameSize)
	}
	return frameSize, blockSize, numBlocks, nil
}

func (s *afpacketSource) WaitReady(ctx context.Context, timeout time.Duration) error {
	if s.hasPending {
		return nil
	}
	deadline := time.Now().Add(timeout)

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		data, ci, err := s.tpacket.ReadPacketData()
		switch err {
		case nil:
			s.pending, s.pendingInfo, s.hasPending = data, ci, true
			return nil
		case afpacket.ErrTimeout:
			if !time.Now().Before(deadline) {
				return rx.ErrWaitTimeout
			}
		default:
			return fmt.Errorf("airlink: capture wait: %w", err)
		}
	}
}

func (s *afpacketSource) Dispatch(max int, fn rx.FrameFunc) (int, error) {
	n := 0
	if s.hasPending {
		fn(s.pending, s.pendingInfo)
		s.pending, s.hasPending = nil, false
		n++
	}

	for n < max {
		data, ci, err := s.tpacket.ReadPacketData()
		if err == afpacket.ErrTimeout {
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

func (s *afpacketSource) Stats() (rx.SourceStats, error) {
	_, v3, err := s.tpacket.SocketStats()
	if err != nil {
		return rx.SourceStats{}, err
	}
	return rx.SourceStats{
		Received: int(v3.Packets()),
		Dropped:  int(v3.Drops()),
	}, nil
}

func (s *afpacketSource) Close() error {
	s.tpacket.Close()
	return nil
}
