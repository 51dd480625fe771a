// Package config handles configuration loading using viper.
package config

import (
	"fmt"
	"time"

	"github.com/dxgrid/airlink/internal/capture"
	"github.com/dxgrid/airlink/internal/log"
	"github.com/dxgrid/airlink/internal/rx"
)

// Config is the top-level configuration, mapping to the YAML document root.
type Config struct {
	Capture  capture.Options `mapstructure:"capture"`
	Receiver ReceiverConfig  `mapstructure:"receiver"`
	Output   OutputConfig    `mapstructure:"output"`
	Log      log.Config      `mapstructure:"log"`
	Metrics  MetricsConfig   `mapstructure:"metrics"`
}

// ReceiverConfig holds the protocol engine settings. The wire geometry
// must match the transmitter's.
type ReceiverConfig struct {
	BlockSize        int `mapstructure:"block_size"`
	ControlFrameSize int `mapstructure:"control_frame_size"`
	BufferSize       int `mapstructure:"buffer_size"`

	Ordered   bool  `mapstructure:"ordered"`
	FillGaps  bool  `mapstructure:"fill_gaps"`
	FillValue uint8 `mapstructure:"fill_value"`

	SenderAddress rx.Address `mapstructure:"sender_address"`
	AuthThreshold uint32     `mapstructure:"auth_threshold"`

	ClassifyThreshold float64 `mapstructure:"classify_threshold"`

	BatchSize   int           `mapstructure:"batch_size"`
	WaitTimeout time.Duration `mapstructure:"wait_timeout"`
}

// OutputConfig selects the sink the reconstructed stream is written to.
type OutputConfig struct {
	// Path of the output file; "-" means stdout.
	Path string `mapstructure:"path"`
}

// MetricsConfig controls the optional Prometheus endpoint.
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Listen  string `mapstructure:"listen"`
}

// Validate rejects configurations the engine cannot run with.
func (c *Config) Validate() error {
	r := &c.Receiver

	if r.BlockSize <= 0 {
		return fmt.Errorf("receiver.block_size must be positive, got %d", r.BlockSize)
	}
	if r.ControlFrameSize <= 0 {
		return fmt.Errorf("receiver.control_frame_size must be positive, got %d", r.ControlFrameSize)
	}
	if r.ControlFrameSize == r.BlockSize {
		return fmt.Errorf("receiver.control_frame_size must differ from block_size (%d)", r.BlockSize)
	}
	if r.BufferSize < r.BlockSize {
		return fmt.Errorf("receiver.buffer_size %d cannot hold one block of %d", r.BufferSize, r.BlockSize)
	}
	if r.ClassifyThreshold <= 0 || r.ClassifyThreshold >= 1 {
		return fmt.Errorf("receiver.classify_threshold must be in (0, 1), got %g", r.ClassifyThreshold)
	}
	if r.BatchSize <= 0 {
		return fmt.Errorf("receiver.batch_size must be positive, got %d", r.BatchSize)
	}
	if r.WaitTimeout <= 0 {
		return fmt.Errorf("receiver.wait_timeout must be positive, got %s", r.WaitTimeout)
	}
	if r.AuthThreshold > 0 && r.SenderAddress == (rx.Address{}) {
		return fmt.Errorf("receiver.sender_address is required when auth_threshold > 0")
	}

	switch c.Capture.Type {
	case capture.TypePCAP, capture.TypeAFPacket:
		if c.Capture.Interface == "" {
			return fmt.Errorf("capture.interface is required for type %q", c.Capture.Type)
		}
	case capture.TypeFile:
		if c.Capture.File == "" {
			return fmt.Errorf("capture.file is required for type %q", c.Capture.Type)
		}
	default:
		return fmt.Errorf("unknown capture.type: %q", c.Capture.Type)
	}

	if c.Metrics.Enabled && c.Metrics.Listen == "" {
		return fmt.Errorf("metrics.listen is required when metrics are enabled")
	}

	return nil
}

// EngineConfig converts the receiver section into the engine's Config.
func (c *Config) EngineConfig() rx.Config {
	r := c.Receiver
	return rx.Config{
		BlockSize:         r.BlockSize,
		ControlFrameSize:  r.ControlFrameSize,
		BufferSize:        r.BufferSize,
		Ordered:           r.Ordered,
		FillGaps:          r.FillGaps,
		FillValue:         r.FillValue,
		SenderAddress:     r.SenderAddress,
		AuthThreshold:     r.AuthThreshold,
		ClassifyThreshold: r.ClassifyThreshold,
		BatchSize:         r.BatchSize,
		WaitTimeout:       r.WaitTimeout,
	}
}
