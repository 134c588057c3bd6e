//go:build !headless

package device

import (
	"fmt"
	"sync"
	"time"

	"github.com/ebitengine/oto/v3"

	"github.com/jdginn/go-auralizer/audio"
)

// Player plays a stream on the default output device. Input comes from an Input since
// the device is output only.
type Player struct {
	ctx    *oto.Context
	player *oto.Player
	reader *frameReader

	started bool
	mutex   sync.Mutex // Only for setup/control operations
}

// NewPlayer opens the output device. Only one Player may exist per process.
func NewPlayer(stream *audio.Stream, input Input, bufferSize time.Duration) (*Player, error) {
	config := stream.Config()
	if config.Channels > 2 {
		return nil, fmt.Errorf("%w: %d channels", audio.ErrInvalidStreamConfig, config.Channels)
	}
	ctx, ready, err := oto.NewContext(&oto.NewContextOptions{
		SampleRate:   config.SampleRate,
		ChannelCount: config.Channels,
		Format:       oto.FormatFloat32LE,
		BufferSize:   bufferSize,
	})
	if err != nil {
		return nil, err
	}
	<-ready

	// The player never asks for more than its buffer, so the reader scratch is
	// allocated here and never on the device goroutine
	frames := bufferFrames(config, bufferSize)
	p := &Player{
		ctx:    ctx,
		reader: newFrameReader(stream, input, frames),
	}
	p.player = ctx.NewPlayer(p.reader)
	p.player.SetBufferSize(frames * config.Channels * 4)
	return p, nil
}

func (p *Player) Start() {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	if !p.started && p.player != nil {
		p.player.Play()
		p.started = true
	}
}

func (p *Player) Close() error {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	p.started = false
	if p.player == nil {
		return nil
	}
	err := p.player.Close()
	p.player = nil
	return err
}

func (p *Player) IsStarted() bool {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	return p.started
}
