package main

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jdginn/go-auralizer/room"
)

func TestReadPeaksFromDump(t *testing.T) {
	filename := filepath.Join(t.TempDir(), "rs.txt.gz")
	ir := make(room.ImpulseResponse, 100)
	ir[20] = 1
	ir[60] = 0.1
	ir[90] = 1e-6
	require.NoError(t, room.SaveResponse(filename, ir))

	peaks, err := readPeaks(filename, 1000)
	require.NoError(t, err)
	require.Len(t, peaks, 2)
	assert.InDelta(t, 0, peaks[0].TimeMs, 1e-9)
	assert.InDelta(t, 40, peaks[1].TimeMs, 1e-9)
	assert.InDelta(t, -10, peaks[1].GainDb, 1e-6)
}

func TestReadPeaksMissingFile(t *testing.T) {
	_, err := readPeaks(filepath.Join(t.TempDir(), "nope.json"), 1000)
	assert.Error(t, err)
}
