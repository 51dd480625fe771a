package rx

import "github.com/dxgrid/airlink/internal/log"

// Events receives session-level notifications. Callbacks are invoked
// synchronously from the capture loop and fire at most once per session.
type Events struct {
	UplinkEstablished func()
	EndOfTransmission func()
}

// session tracks intra-capture control state. One instance exists per
// active capture and is owned by the receiver loop.
type session struct {
	preambleSeen bool
	eotSeen      bool
	terminate    bool
	events       Events
}

// handleControl advances the control state machine.
func (s *session) handleControl(kind ControlKind, blocksProcessed uint64) {
	logger := log.GetLogger()

	switch kind {
	case ControlPreamble:
		if blocksProcessed > 0 {
			// The next file's preamble arrived before this capture ended.
			// Signal the driver to flush and stop; any of the following
			// file's blocks already absorbed are merged into this session.
			s.terminate = true
		} else if !s.preambleSeen {
			logger.Info("uplink established")
			if s.events.UplinkEstablished != nil {
				s.events.UplinkEstablished()
			}
		}
		s.preambleSeen = true

	case ControlEOT:
		if !s.eotSeen {
			logger.Info("end-of-transmission signalled")
			if s.events.EndOfTransmission != nil {
				s.events.EndOfTransmission()
			}
		}
		// EOT alone does not end the capture. Termination comes from the
		// preamble boundary above or from the driver's timeout/stop paths.
		s.eotSeen = true

	default:
		logger.Info("unknown control frame received")
	}
}
