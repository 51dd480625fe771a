package rx

import "errors"

// Sentinel errors shared between the receiver and its capture sources.
var (
	// ErrFrameTooShort means a captured frame could not hold the metadata
	// header, data header and trailer its capture length implies.
	ErrFrameTooShort = errors.New("airlink: frame too short")

	// ErrWaitTimeout is returned by Source.WaitReady when no frame became
	// available within the wait interval.
	ErrWaitTimeout = errors.New("airlink: wait timed out")

	// ErrSourceExhausted is returned by Source.Dispatch when an offline
	// source has delivered its last frame.
	ErrSourceExhausted = errors.New("airlink: capture source exhausted")

	// ErrSessionActive is returned by Activate while a session is running.
	ErrSessionActive = errors.New("airlink: session already active")

	// ErrBufferTooSmall means the reorder buffer cannot hold one block.
	ErrBufferTooSmall = errors.New("airlink: reorder buffer smaller than one block")
)
