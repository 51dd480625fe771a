package rx

import "testing"

func sessionWithCounters(uplink, eot *int) *session {
	return &session{events: Events{
		UplinkEstablished: func() { *uplink++ },
		EndOfTransmission: func() { *eot++ },
	}}
}

func TestSessionPreamble(t *testing.T) {
	var uplink, eot int
	s := sessionWithCounters(&uplink, &eot)

	s.handleControl(ControlPreamble, 0)
	if !s.preambleSeen || s.terminate {
		t.Fatalf("preambleSeen=%t terminate=%t, want true/false", s.preambleSeen, s.terminate)
	}
	if uplink != 1 {
		t.Fatalf("uplink notifications: %d, want 1", uplink)
	}

	// Repeated preambles with no blocks processed notify only once.
	s.handleControl(ControlPreamble, 0)
	if uplink != 1 {
		t.Fatalf("uplink notifications after repeat: %d, want 1", uplink)
	}
	if s.terminate {
		t.Fatal("repeat preamble with zero blocks must not terminate")
	}
}

func TestSessionPreambleAfterBlocksTerminates(t *testing.T) {
	var uplink, eot int
	s := sessionWithCounters(&uplink, &eot)

	// A preamble arriving after data blocks marks the next file's start.
	s.handleControl(ControlPreamble, 42)
	if !s.terminate {
		t.Fatal("preamble after processed blocks must request termination")
	}
	if uplink != 0 {
		t.Fatalf("uplink notifications: %d, want 0", uplink)
	}
}

func TestSessionEOTDoesNotTerminate(t *testing.T) {
	var uplink, eot int
	s := sessionWithCounters(&uplink, &eot)

	s.handleControl(ControlEOT, 10)
	if !s.eotSeen {
		t.Fatal("eotSeen not set")
	}
	// EOT is recorded but never ends the session by itself.
	if s.terminate {
		t.Fatal("EOT must not terminate the session")
	}
	if eot != 1 {
		t.Fatalf("EOT notifications: %d, want 1", eot)
	}

	s.handleControl(ControlEOT, 10)
	if eot != 1 {
		t.Fatalf("EOT notifications after repeat: %d, want 1", eot)
	}
}

func TestSessionUnknownControlNoChange(t *testing.T) {
	var uplink, eot int
	s := sessionWithCounters(&uplink, &eot)

	s.handleControl(ControlUnknown, 5)
	if s.preambleSeen || s.eotSeen || s.terminate || uplink != 0 || eot != 0 {
		t.Fatal("unknown control frame must not mutate session state")
	}
}
