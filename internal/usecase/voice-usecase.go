package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"
	"github.com/iamvkosarev/zenith-ai/internal/audio"
	"github.com/iamvkosarev/zenith-ai/internal/model"
)

var ErrEmptySpeech = errors.New("empty speech")

type Synthesizer interface {
	Synthesize(ctx context.Context, text string) (model.Speech, error)
}

// Output plays decoded speech and returns once playback is over.
type Output interface {
	Play(ctx context.Context, pcm audio.PCM) error
}

type VoiceUsecaseDeps struct {
	Synthesizer Synthesizer
	Output      Output
}

type VoiceUsecase struct {
	VoiceUsecaseDeps

	mu         sync.Mutex
	processing map[uuid.UUID]struct{}
}

func NewVoiceUsecase(deps VoiceUsecaseDeps) *VoiceUsecase {
	return &VoiceUsecase{
		VoiceUsecaseDeps: deps,
		processing:       make(map[uuid.UUID]struct{}),
	}
}

func (v *VoiceUsecase) IsProcessing(messageID uuid.UUID) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	_, ok := v.processing[messageID]
	return ok
}

// Speak synthesizes and plays message. It is a no-op while the same message
// is already being spoken.
func (v *VoiceUsecase) Speak(ctx context.Context, message model.Message) error {
	v.mu.Lock()
	if _, ok := v.processing[message.ID]; ok {
		v.mu.Unlock()
		return nil
	}
	v.processing[message.ID] = struct{}{}
	v.mu.Unlock()

	defer func() {
		v.mu.Lock()
		delete(v.processing, message.ID)
		v.mu.Unlock()
	}()

	if err := v.speak(ctx, message.Content); err != nil {
		slog.Error("failed to speak message", "message_id", message.ID, "error", err)
		return err
	}
	return nil
}

func (v *VoiceUsecase) speak(ctx context.Context, text string) error {
	speech, err := v.Synthesizer.Synthesize(ctx, text)
	if err != nil {
		return fmt.Errorf("failed to synthesize: %w", err)
	}
	if len(speech.Data) == 0 {
		return ErrEmptySpeech
	}
	pcm, err := audio.DecodePCM16(speech.Data, audio.SpeechSampleRate, audio.SpeechChannels)
	if err != nil {
		return fmt.Errorf("failed to decode speech: %w", err)
	}
	if err = v.Output.Play(ctx, pcm); err != nil {
		return fmt.Errorf("failed to play speech: %w", err)
	}
	return nil
}
