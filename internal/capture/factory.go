package capture

import (
	"fmt"

	"github.com/dxgrid/airlink/internal/rx"
)

// NewSource opens a capture source for the given options. The caller owns
// the returned source and must close it.
func NewSource(opts *Options) (rx.Source, error) {
	switch opts.Type {
	case TypePCAP:
		return newPcapSource(opts)
	case TypeFile:
		if opts.File == "" {
			return nil, fmt.Errorf("capture type %q requires a file path", opts.Type)
		}
		return newPcapSource(opts)
	case TypeAFPacket:
		return newAFPacketSource(opts)
	default:
		return nil, fmt.Errorf("unsupported capture type: %q", opts.Type)
	}
}
