package cmd

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/dxgrid/airlink/internal/rx"
)

func TestWriteStats(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stats.yaml")
	stats := rx.Stats{
		BlocksProcessed: 128,
		BlocksLost:      3,
		ChecksumInvalid: 1,
		BytesWritten:    128 * 1024,
		LastTimestamp:   time.Date(2026, 8, 24, 12, 0, 0, 0, time.UTC),
		State:           rx.StateDeactivated,
	}

	require.NoError(t, writeStats(path, stats))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, yaml.Unmarshal(data, &decoded))
	assert.Equal(t, 128, decoded["blocks_processed"])
	assert.Equal(t, 3, decoded["blocks_lost"])
	assert.Equal(t, "deactivated", decoded["state"])
}

func TestOpenSink(t *testing.T) {
	sink, closeSink, err := openSink("-")
	require.NoError(t, err)
	defer closeSink()
	assert.Equal(t, os.Stdout, sink)

	path := filepath.Join(t.TempDir(), "out.bin")
	sink, closeSink, err = openSink(path)
	require.NoError(t, err)
	_, err = sink.Write([]byte("payload"))
	require.NoError(t, err)
	closeSink()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "payload", string(data))

	_, _, err = openSink(filepath.Join(path, "impossible"))
	assert.Error(t, err)
}
