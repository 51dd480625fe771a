package cmd

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/dxgrid/airlink/internal/capture"
	"github.com/dxgrid/airlink/internal/config"
	"github.com/dxgrid/airlink/internal/log"
	"github.com/dxgrid/airlink/internal/metrics"
	"github.com/dxgrid/airlink/internal/rx"
)

var (
	outputPath string
	statsOut   string
)

var captureCmd = &cobra.Command{
	Use:   "capture",
	Short: "Run one capture session and write the reconstructed stream",
	RunE:  runCapture,
}

func init() {
	captureCmd.Flags().StringVarP(&outputPath, "output", "o", "",
		"output path, overrides output.path (\"-\" = stdout)")
	captureCmd.Flags().StringVar(&statsOut, "stats-out", "",
		"write session statistics to this file as YAML")
}

func runCapture(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configFile)
	if err != nil {
		return err
	}
	if err := log.Init(cfg.Log); err != nil {
		return err
	}
	logger := log.GetLogger()

	if outputPath != "" {
		cfg.Output.Path = outputPath
	}
	sink, closeSink, err := openSink(cfg.Output.Path)
	if err != nil {
		return err
	}
	defer closeSink()

	src, err := capture.NewSource(&cfg.Capture)
	if err != nil {
		return err
	}
	defer src.Close()

	if cfg.Metrics.Enabled {
		metrics.Serve(cfg.Metrics.Listen)
	}

	receiver := rx.New(cfg.EngineConfig(), src)

	// The stop signal is the only concurrent interaction with a running
	// session; the loop observes it within one wait interval.
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		sig, ok := <-sigCh
		if !ok {
			return
		}
		logger.Infof("received %s, stopping capture", sig)
		receiver.Stop()
	}()

	stats, err := receiver.Activate(cmd.Context(), sink)
	if err != nil {
		return err
	}

	logger.Infof("capture finished (%s): %d blocks processed, %d lost, %d checksum errors, %d bytes written",
		stats.State, stats.BlocksProcessed, stats.BlocksLost, stats.ChecksumInvalid, stats.BytesWritten)

	if statsOut != "" {
		if err := writeStats(statsOut, stats); err != nil {
			return err
		}
	}
	return nil
}

func openSink(path string) (io.Writer, func(), error) {
	if path == "" || path == "-" {
		return os.Stdout, func() {}, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open output %s: %w", path, err)
	}
	return f, func() { f.Close() }, nil
}

// writeStats dumps the session statistics as YAML.
func writeStats(path string, stats rx.Stats) error {
	data, err := yaml.Marshal(stats)
	if err != nil {
		return fmt.Errorf("failed to encode stats: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write stats to %s: %w", path, err)
	}
	return nil
}
