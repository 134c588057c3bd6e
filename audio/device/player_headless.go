//go:build headless

package device

import (
	"time"

	"github.com/jdginn/go-auralizer/audio"
)

// Player is unavailable without an audio backend
type Player struct{}

func NewPlayer(stream *audio.Stream, input Input, bufferSize time.Duration) (*Player, error) {
	return nil, ErrNoAudioDevice
}

func (p *Player) Start() {}

func (p *Player) Close() error {
	return nil
}

func (p *Player) IsStarted() bool {
	return false
}
