package rx

import (
	"bytes"
	"container/heap"
	"io"

	"github.com/dxgrid/airlink/internal/log"
	"github.com/dxgrid/airlink/internal/metrics"
)

// blockRef points at one admitted block inside the rolling buffer. A ref
// is only valid until flush resets the write cursor; the heap is always
// fully drained before any buffer slot is reused.
type blockRef struct {
	seq      int64
	off      int
	crcValid bool
}

// blockHeap is a min-heap ordered by ascending sequence number. Sequence
// numbers are unique per session (wire-extracted or locally assigned), so
// ties cannot occur.
type blockHeap []blockRef

func (h blockHeap) Len() int            { return len(h) }
func (h blockHeap) Less(i, j int) bool  { return h[i].seq < h[j].seq }
func (h blockHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *blockHeap) Push(x interface{}) { *h = append(*h, x.(blockRef)) }

func (h *blockHeap) Pop() interface{} {
	old := *h
	n := len(old)
	ref := old[n-1]
	*h = old[:n-1]
	return ref
}

// reorderBuffer receives arbitrarily-ordered blocks and emits them to the
// sink in sequence order. It owns a rolling byte buffer of the configured
// capacity and a heap bounded at capacity/blockSize+1 entries; the driver
// flushes before either bound is reached.
type reorderBuffer struct {
	buf       []byte
	idx       int // next free write position
	blockSize int

	ordered   bool
	fillGaps  bool
	fillValue byte

	heap blockHeap
	sink io.Writer

	stats *Stats
}

func newReorderBuffer(cfg Config, sink io.Writer, stats *Stats) (*reorderBuffer, error) {
	if cfg.BufferSize < cfg.BlockSize {
		return nil, ErrBufferTooSmall
	}
	heapCap := cfg.BufferSize/cfg.BlockSize + 1
	return &reorderBuffer{
		buf:       make([]byte, cfg.BufferSize),
		blockSize: cfg.BlockSize,
		ordered:   cfg.Ordered,
		fillGaps:  cfg.FillGaps,
		fillValue: cfg.FillValue,
		heap:      make(blockHeap, 0, heapCap),
		sink:      sink,
		stats:     stats,
	}, nil
}

// admit copies one block into the next free slot and queues it under seq.
// When the buffer lacks room for another block it is flushed first, so the
// heap bound can never overflow.
func (rb *reorderBuffer) admit(seq int64, block []byte, crcValid bool) {
	if rb.idx+rb.blockSize > len(rb.buf) {
		rb.flush()
	}
	off := rb.idx
	copy(rb.buf[off:off+rb.blockSize], block)
	heap.Push(&rb.heap, blockRef{seq: seq, off: off, crcValid: crcValid})
	rb.idx += rb.blockSize
}

// flush drains the heap in ascending sequence order, writing each block to
// the sink. In ordered mode a jump in sequence numbers is accounted as
// lost blocks and optionally replaced with filler. Flushing an empty heap
// is a no-op. Afterwards the write cursor is reset; stale bytes need no
// clearing since every live block has been written out.
func (rb *reorderBuffer) flush() {
	if rb.heap.Len() == 0 {
		return
	}

	var filler []byte
	expected := rb.heap[0].seq

	for rb.heap.Len() > 0 {
		ref := heap.Pop(&rb.heap).(blockRef)

		if rb.ordered && ref.seq != expected {
			gap := ref.seq - expected
			if rb.fillGaps {
				if filler == nil {
					filler = bytes.Repeat([]byte{rb.fillValue}, rb.blockSize)
				}
				for i := int64(0); i < gap; i++ {
					n := rb.write(filler)
					rb.stats.FillerBytes += uint64(n)
					rb.stats.BytesWritten += uint64(n)
					metrics.FillerBytes.Add(float64(n))
					metrics.BytesWritten.Add(float64(n))
				}
			}
			rb.stats.BlocksLost += uint64(gap)
			metrics.BlocksLost.Add(float64(gap))
		}

		n := rb.write(rb.buf[ref.off : ref.off+rb.blockSize])
		rb.stats.BytesWritten += uint64(n)
		metrics.BytesWritten.Add(float64(n))
		expected = ref.seq + 1
	}

	rb.idx = 0
}

// write pushes one block to the sink. Partial writes and errors are logged
// but not retried; accounting uses the byte count actually written.
func (rb *reorderBuffer) write(p []byte) int {
	n, err := rb.sink.Write(p)
	if err != nil {
		log.GetLogger().WithError(err).Warnf("sink write failed after %d bytes", n)
	} else if n != len(p) {
		log.GetLogger().Warnf("partial sink write: %d / %d bytes", n, len(p))
	}
	return n
}
