package audio

import (
	"bytes"
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/ebitengine/oto/v3"
)

const pollInterval = 20 * time.Millisecond

var (
	sharedOnce    sync.Once
	sharedContext *oto.Context
	sharedErr     error
)

// sharedOtoContext returns the process-wide output context. oto allows one
// context per process, so its format is fixed at first use.
func sharedOtoContext(sampleRate, channels int) (*oto.Context, error) {
	sharedOnce.Do(func() {
		otoCtx, ready, err := oto.NewContext(&oto.NewContextOptions{
			SampleRate:   sampleRate,
			ChannelCount: channels,
			Format:       oto.FormatSignedInt16LE,
		})
		if err != nil {
			sharedErr = fmt.Errorf("failed to create audio context: %w", err)
			return
		}
		<-ready
		sharedContext = otoCtx
	})
	return sharedContext, sharedErr
}

// Player plays speech on the local audio device.
type Player struct {
	mu sync.Mutex
}

func NewPlayer() *Player {
	return &Player{}
}

// Play blocks until pcm has been played or ctx is done. Plays are serialized.
func (p *Player) Play(ctx context.Context, pcm PCM) error {
	if pcm.SampleRate != SpeechSampleRate || pcm.Channels != SpeechChannels {
		return fmt.Errorf("unsupported pcm format %d Hz x %d", pcm.SampleRate, pcm.Channels)
	}
	otoCtx, err := sharedOtoContext(SpeechSampleRate, SpeechChannels)
	if err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	player := otoCtx.NewPlayer(bytes.NewReader(pcm.Bytes()))
	defer player.Close()
	player.Play()

	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()
	for player.IsPlaying() {
		select {
		case <-ctx.Done():
			player.Pause()
			return ctx.Err()
		case <-ticker.C:
		}
	}
	return nil
}
