package rx

// ControlKind is the classification of a captured frame.
type ControlKind int

const (
	// ControlNone marks an ordinary data frame.
	ControlNone ControlKind = iota
	// ControlPreamble marks a transmission-start control frame.
	ControlPreamble
	// ControlEOT marks an end-of-transmission control frame.
	ControlEOT
	// ControlUnknown marks a frame of unexpected size or pattern.
	ControlUnknown
)

func (k ControlKind) String() string {
	switch k {
	case ControlNone:
		return "data"
	case ControlPreamble:
		return "preamble"
	case ControlEOT:
		return "eot"
	default:
		return "unknown"
	}
}

// Control frames consist of a single repeated marker byte.
const (
	markerPreamble = 0xFF
	markerEOT      = 0xAA
)

// classifyFrame determines what kind of frame a payload is. A payload of
// control size is a control frame when more than threshold of its bytes
// (strictly greater) match one marker, EOT taking precedence. A payload of
// block size is a data frame. Any other size is never processed.
func classifyFrame(payload []byte, blockSize, ctrlSize int, threshold float64) ControlKind {
	switch len(payload) {
	case ctrlSize:
		var preamble, eot int
		for _, b := range payload {
			switch b {
			case markerPreamble:
				preamble++
			case markerEOT:
				eot++
			}
		}
		size := float64(len(payload))
		if float64(eot)/size > threshold {
			return ControlEOT
		}
		if float64(preamble)/size > threshold {
			return ControlPreamble
		}
		return ControlUnknown
	case blockSize:
		return ControlNone
	default:
		return ControlUnknown
	}
}
