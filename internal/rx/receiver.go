package rx

import (
	"context"
	"errors"
	"io"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/gopacket"

	"github.com/dxgrid/airlink/internal/log"
	"github.com/dxgrid/airlink/internal/metrics"
)

// FrameFunc is invoked once per captured frame. data and ci are owned by
// the source and must not be retained past the call; only copied payload
// bytes survive it.
type FrameFunc func(data []byte, ci gopacket.CaptureInfo)

// Source is the capture collaborator the receiver pulls frames from.
// Implementations live in internal/capture.
type Source interface {
	// WaitReady blocks until at least one frame is available, the timeout
	// elapses (ErrWaitTimeout), or ctx is cancelled.
	WaitReady(ctx context.Context, timeout time.Duration) error

	// Dispatch delivers up to max frames to fn and returns the number
	// delivered. ErrSourceExhausted means an offline source has no more
	// frames; other errors are transient delivery failures.
	Dispatch(max int, fn FrameFunc) (int, error)

	// Stats snapshots capture-layer statistics.
	Stats() (SourceStats, error)

	Close() error
}

// Config holds the receiver engine options. Wire geometry must match the
// transmitter's.
type Config struct {
	// BlockSize is the payload size of a data frame.
	BlockSize int
	// ControlFrameSize is the payload size of a control frame.
	ControlFrameSize int
	// BufferSize is the rolling reorder buffer capacity in bytes.
	BufferSize int

	// Ordered trusts wire-carried sequence numbers and enables gap
	// detection; otherwise arrival order is trusted.
	Ordered bool
	// FillGaps substitutes FillValue-filled blocks for lost ones.
	FillGaps  bool
	FillValue byte

	// SenderAddress and AuthThreshold drive approximate sender matching.
	SenderAddress Address
	AuthThreshold uint32

	// ClassifyThreshold is the marker-majority fraction for control frame
	// detection. Must be exceeded, not met.
	ClassifyThreshold float64

	// BatchSize is the number of frames requested per dispatch.
	BatchSize int
	// WaitTimeout bounds each wait on the source; it also bounds how long
	// a stop request can go unnoticed.
	WaitTimeout time.Duration

	Events Events
}

// Receiver drives at most one capture session at a time.
type Receiver struct {
	cfg Config
	src Source

	active atomic.Bool

	mu     sync.Mutex
	cancel context.CancelFunc
}

// New creates a receiver over the given source. The source stays under the
// caller's ownership and is not closed by the receiver.
func New(cfg Config, src Source) *Receiver {
	return &Receiver{cfg: cfg, src: src}
}

// Activate runs one capture session and blocks until it ends, returning
// the session statistics by value. The reorder buffer is flushed
// unconditionally on every exit path, so the sink never ends up in a
// partially-written state.
func (r *Receiver) Activate(ctx context.Context, sink io.Writer) (Stats, error) {
	if !r.active.CompareAndSwap(false, true) {
		return Stats{}, ErrSessionActive
	}
	defer r.active.Store(false)

	ctx, cancel := context.WithCancel(ctx)
	r.mu.Lock()
	r.cancel = cancel
	r.mu.Unlock()
	defer cancel()

	st := Stats{State: StateNormal}

	// Allocation failure here is fatal; there is no degraded mode.
	rb, err := newReorderBuffer(r.cfg, sink, &st)
	if err != nil {
		return Stats{}, err
	}
	sess := &session{events: r.cfg.Events}

	logger := log.GetLogger()
	r.logConfiguration()
	logger.Info("starting capture")
	metrics.SessionActive.Set(1)
	defer metrics.SessionActive.Set(0)

	for r.active.Load() && !sess.terminate {
		err := r.src.WaitReady(ctx, r.cfg.WaitTimeout)
		switch {
		case err == nil:
			n, derr := r.src.Dispatch(r.cfg.BatchSize, func(data []byte, ci gopacket.CaptureInfo) {
				r.processFrame(data, ci, sess, rb, &st)
			})
			if errors.Is(derr, ErrSourceExhausted) {
				// Offline source drained; session-local end of input.
				st.State = StateDeactivated
				r.active.Store(false)
			} else if derr != nil {
				logger.WithError(derr).Warnf("capture failure after %d frames", n)
			}

		case errors.Is(err, ErrWaitTimeout):
			logger.Info("receiver timeout occurred")
			st.State = StateTimedOut
			r.active.Store(false)

		case errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) || !r.active.Load():
			// Stop request or caller cancellation, not an error.
			st.State = StateDeactivated
			r.active.Store(false)

		default:
			logger.WithError(err).Error("wait on capture source failed")
			st.State = StateErrored
			r.active.Store(false)
		}
	}
	logger.Info("capture ended")

	// Drain whatever is left in the reorder buffer.
	rb.flush()

	if ss, serr := r.src.Stats(); serr != nil {
		logger.WithError(serr).Warn("failed to gather capture source statistics")
	} else {
		st.Source = ss
	}

	return st, nil
}

// Stop requests the active session to end. Safe to call from another
// goroutine or a signal handler; it takes effect at the next wait/dispatch
// boundary, within one WaitTimeout interval.
func (r *Receiver) Stop() {
	r.active.Store(false)
	r.mu.Lock()
	if r.cancel != nil {
		r.cancel()
	}
	r.mu.Unlock()
}

// processFrame runs one captured frame through the pipeline: region
// parsing, sender verification, classification, then either the control
// state machine or the reorder buffer.
func (r *Receiver) processFrame(data []byte, ci gopacket.CaptureInfo, sess *session, rb *reorderBuffer, st *Stats) {
	logger := log.GetLogger()

	regions, err := parseFrame(data, ci.CaptureLength)
	if err != nil {
		logger.Warnf("discarding malformed frame, caplen: %d, len: %d", ci.CaptureLength, ci.Length)
		return
	}

	if !verifySender(regions, r.cfg.SenderAddress, r.cfg.AuthThreshold) {
		st.FramesDropped++
		metrics.FramesDropped.Inc()
		return
	}

	kind := classifyFrame(regions.payload, r.cfg.BlockSize, r.cfg.ControlFrameSize, r.cfg.ClassifyThreshold)
	switch kind {
	case ControlUnknown:
		// Payload size or pattern is wrong; log the frame but do not
		// process it.
		logger.Warnf("unknown frame encountered, caplen: %d, len: %d", ci.CaptureLength, ci.Length)
		return
	case ControlPreamble, ControlEOT:
		sess.handleControl(kind, st.BlocksProcessed)
		return
	}

	md := decodeMetadata(data[:min(ci.CaptureLength, len(data))])

	seq := int64(st.BlocksProcessed)
	if r.cfg.Ordered {
		seq = int64(regions.sequence())
	}
	crcValid := regions.checksumValid()

	rb.admit(seq, regions.payload, crcValid)

	if !crcValid {
		st.ChecksumInvalid++
		metrics.ChecksumErrors.Inc()
	}
	st.BlocksProcessed++
	st.TotalCaptureLen += uint64(ci.CaptureLength)
	st.TotalPayload += uint64(len(regions.payload))
	st.LastMetadata = md
	st.LastTimestamp = ci.Timestamp
	metrics.BlocksProcessed.Inc()

	if logger.IsDebugEnabled() {
		logger.Debugf("%d - (%s) caplen: %d, antenna signal: %d dBm",
			seq, ci.Timestamp.UTC().Format("2006-01-02 15:04:05"), ci.CaptureLength, md.AntennaSignal)
	}
}

func (r *Receiver) logConfiguration() {
	log.GetLogger().Infof(
		"airlink receiver settings:\n"+
			"\tBlock Size:           %d\n"+
			"\tControl Frame Size:   %d\n"+
			"\tReorder Buffer Size:  %d\n"+
			"\tOrdered:              %t\n"+
			"\tFill Gaps:            %t\n"+
			"\tAuth Threshold:       %d\n"+
			"\tClassify Threshold:   %.2f\n"+
			"\tBatch Size:           %d\n"+
			"\tWait Timeout:         %s",
		r.cfg.BlockSize,
		r.cfg.ControlFrameSize,
		r.cfg.BufferSize,
		r.cfg.Ordered,
		r.cfg.FillGaps,
		r.cfg.AuthThreshold,
		r.cfg.ClassifyThreshold,
		r.cfg.BatchSize,
		r.cfg.WaitTimeout,
	)
}
