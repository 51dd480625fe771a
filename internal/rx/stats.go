package rx

import "time"

// CaptureState is the terminal state of a capture session.
type CaptureState int

const (
	// StateNormal means the session ended through the protocol itself.
	StateNormal CaptureState = iota
	// StateTimedOut means no frame arrived within the wait interval.
	StateTimedOut
	// StateErrored means the wait on the capture source failed.
	StateErrored
	// StateDeactivated means an external stop request or source exhaustion
	// ended the session.
	StateDeactivated
)

func (s CaptureState) String() string {
	switch s {
	case StateNormal:
		return "normal"
	case StateTimedOut:
		return "timed-out"
	case StateErrored:
		return "errored"
	case StateDeactivated:
		return "deactivated"
	default:
		return "invalid"
	}
}

// MarshalYAML renders the state as its string form in stats dumps.
func (s CaptureState) MarshalYAML() (interface{}, error) {
	return s.String(), nil
}

// SourceStats is the capture-layer view of the session, snapshotted from
// the source at session end.
type SourceStats struct {
	Received  int `yaml:"received"`
	Dropped   int `yaml:"dropped"`
	IfDropped int `yaml:"if_dropped"`
}

// Stats accumulates one capture session's accounting. Counters only grow;
// the record is zeroed at session start and returned by value at the end.
type Stats struct {
	// FramesDropped counts frames that failed sender verification.
	FramesDropped uint64 `yaml:"frames_dropped"`
	// BlocksProcessed counts data blocks admitted to the reorder buffer.
	BlocksProcessed uint64 `yaml:"blocks_processed"`
	// BlocksLost counts sequence gaps detected at flush time.
	BlocksLost uint64 `yaml:"blocks_lost"`
	// FillerBytes counts bytes substituted for lost blocks.
	FillerBytes uint64 `yaml:"filler_bytes"`
	// ChecksumInvalid counts blocks whose trailer checksum did not match
	// the CRC computed over header+payload. Such blocks are still written.
	ChecksumInvalid uint64 `yaml:"checksum_invalid"`
	// BytesWritten counts all bytes emitted to the sink, filler included.
	BytesWritten uint64 `yaml:"bytes_written"`

	// TotalCaptureLen sums the capture length of every processed frame.
	TotalCaptureLen uint64 `yaml:"total_capture_len"`
	// TotalPayload sums the payload bytes of every processed frame.
	TotalPayload uint64 `yaml:"total_payload"`

	// LastMetadata is the metadata of the most recent data frame.
	LastMetadata FrameMetadata `yaml:"last_metadata"`
	// LastTimestamp is the wall-clock capture time of that frame.
	LastTimestamp time.Time `yaml:"last_timestamp"`

	// State records how the session ended.
	State CaptureState `yaml:"state"`
	// Source is the capture-layer statistics snapshot.
	Source SourceStats `yaml:"source"`
}
