package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/iamvkosarev/zenith-ai/internal/audio"
	"github.com/iamvkosarev/zenith-ai/internal/model"
	"github.com/stretchr/testify/require"
)

type fakeSynthesizer struct {
	mu      sync.Mutex
	texts   []string
	speech  model.Speech
	err     error
	started chan struct{}
	release chan struct{}
}

func (f *fakeSynthesizer) Synthesize(_ context.Context, text string) (model.Speech, error) {
	f.mu.Lock()
	f.texts = append(f.texts, text)
	f.mu.Unlock()
	if f.started != nil {
		close(f.started)
	}
	if f.release != nil {
		<-f.release
	}
	return f.speech, f.err
}

func (f *fakeSynthesizer) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.texts)
}

type fakeOutput struct {
	mu     sync.Mutex
	played []audio.PCM
}

func (f *fakeOutput) Play(_ context.Context, pcm audio.PCM) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.played = append(f.played, pcm)
	return nil
}

func assistantMessage(text string) model.Message {
	return model.Message{ID: uuid.Must(uuid.NewV7()), Role: model.MessageRoleAssistant, Content: text}
}

func TestSpeak_DecodesAndPlays(t *testing.T) {
	synthesizer := &fakeSynthesizer{speech: model.Speech{MIMEType: "audio/pcm", Data: []byte{0x01, 0x00, 0xff, 0x7f}}}
	output := &fakeOutput{}
	voice := NewVoiceUsecase(VoiceUsecaseDeps{Synthesizer: synthesizer, Output: output})

	message := assistantMessage("hello there")
	require.NoError(t, voice.Speak(context.Background(), message))

	require.Equal(t, []string{"hello there"}, synthesizer.texts)
	require.Len(t, output.played, 1)
	require.Equal(t, audio.PCM{SampleRate: 24000, Channels: 1, Samples: []int16{1, 32767}}, output.played[0])
	require.False(t, voice.IsProcessing(message.ID))
}

func TestSpeak_SameMessageTwiceIsNoOp(t *testing.T) {
	synthesizer := &fakeSynthesizer{
		speech:  model.Speech{Data: []byte{0, 0}},
		started: make(chan struct{}),
		release: make(chan struct{}),
	}
	output := &fakeOutput{}
	voice := NewVoiceUsecase(VoiceUsecaseDeps{Synthesizer: synthesizer, Output: output})
	message := assistantMessage("once")

	done := make(chan error)
	go func() {
		done <- voice.Speak(context.Background(), message)
	}()
	<-synthesizer.started
	require.True(t, voice.IsProcessing(message.ID))

	require.NoError(t, voice.Speak(context.Background(), message))
	require.Equal(t, 1, synthesizer.calls())

	close(synthesizer.release)
	require.NoError(t, <-done)
	require.False(t, voice.IsProcessing(message.ID))
	require.Len(t, output.played, 1)
}

func TestSpeak_FailureClearsMarker(t *testing.T) {
	testCases := []struct {
		name        string
		synthesizer *fakeSynthesizer
	}{
		{name: "backend error", synthesizer: &fakeSynthesizer{err: errors.New("unavailable")}},
		{name: "empty speech", synthesizer: &fakeSynthesizer{}},
		{name: "odd pcm", synthesizer: &fakeSynthesizer{speech: model.Speech{Data: []byte{1, 2, 3}}}},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			output := &fakeOutput{}
			voice := NewVoiceUsecase(VoiceUsecaseDeps{Synthesizer: tc.synthesizer, Output: output})
			message := assistantMessage("x")

			require.Error(t, voice.Speak(context.Background(), message))
			require.False(t, voice.IsProcessing(message.ID))
			require.Empty(t, output.played)
		})
	}
}
