package room

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteResponse(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteResponse(&buf, ImpulseResponse{1, 0.5, 0, 1.0 / 3}))
	assert.Equal(t, "1,0.5,0,0.3333333,\n1.833333", buf.String())
}

func TestReadResponse(t *testing.T) {
	assert := assert.New(t)
	ir, total, err := ReadResponse(strings.NewReader("1,0.5,0,\n1.5"))
	require.NoError(t, err)
	assert.Equal(ImpulseResponse{1, 0.5, 0}, ir)
	assert.Equal(1.5, total)

	for _, bad := range []string{"", "1,2,3,", "1,x,3,\n4", "1,\nnope"} {
		_, _, err := ReadResponse(strings.NewReader(bad))
		assert.ErrorIs(err, ErrMalformedDump, bad)
	}
}

func TestSaveLoadResponse(t *testing.T) {
	ir := ImpulseResponse{0, 0.25, 0.125, 0, 2}
	for _, name := range []string{"rs.txt", "rs.txt.gz"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), name)
			require.NoError(t, SaveResponse(path, ir))
			loaded, total, err := LoadResponse(path)
			require.NoError(t, err)
			assert.Equal(t, ir, loaded)
			assert.InDelta(t, ir.Sum(), total, 1e-6)
		})
	}
}

func TestSavePathsJSON(t *testing.T) {
	assert := assert.New(t)
	path := filepath.Join(t.TempDir(), "paths.json")
	paths := []AcousticPath{
		{Distance: SPEED_OF_SOUND / 100, Energy: 1},
		{Distance: SPEED_OF_SOUND / 10, Energy: 0.25, Bounces: 2},
	}
	listener := Listener{Position: V(1, 2, 3), Radius: 0.5}
	require.NoError(t, SavePathsJSON(path, paths, listener, Source{Position: V(4, 5, 6)}, 1, SPEED_OF_SOUND))

	doc, err := LoadPathsJSON(path)
	require.NoError(t, err)
	require.Len(t, doc.AcousticPaths, 2)
	assert.InDelta(10, doc.AcousticPaths[0].DelayMS, 1e-9)
	assert.InDelta(0, doc.AcousticPaths[0].Gain, 1e-9)
	assert.InDelta(-6.0206, doc.AcousticPaths[1].Gain, 1e-4)
	assert.Equal(2, doc.AcousticPaths[1].Bounces)
	require.Len(t, doc.Zones, 1)
	assert.Equal(0.5, doc.Zones[0].Radius)
	require.Len(t, doc.Points, 1)
	assert.Equal("source", doc.Points[0].Name)
}
