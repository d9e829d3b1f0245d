package media

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/iamvkosarev/zenith-ai/internal/model"
)

var (
	ErrAlreadyRecording = errors.New("already recording")
	ErrNotRecording     = errors.New("not recording")
	ErrStreamEnded      = errors.New("microphone stream ended")
)

const readChunkSize = 32 * 1024

type AudioSource interface {
	OpenAudio(ctx context.Context) (AudioStream, error)
}

// AudioStream yields encoded audio until Stop is requested, then drains to
// io.EOF. Close releases it after the last Read.
type AudioStream interface {
	io.ReadCloser
	MIMEType() string
	Stop() error
}

// Forward receives a finished recording.
type Forward func(ctx context.Context, audio model.Audio)

type RecorderDeps struct {
	Source  AudioSource
	Forward Forward
	// OnTick, when set, is called with the elapsed whole seconds.
	OnTick func(seconds int)
}

// Recorder captures one voice message at a time.
type Recorder struct {
	RecorderDeps

	mu        sync.Mutex
	recording *recording

	// interrupted is why the last recording ended before Finish or Cancel.
	interrupted error
}

type recording struct {
	ctx     context.Context
	cancel  context.CancelFunc
	stream  AudioStream
	done    chan struct{}
	forward atomic.Bool
	seconds atomic.Int64

	mu  sync.Mutex
	buf bytes.Buffer
}

func NewRecorder(deps RecorderDeps) *Recorder {
	return &Recorder{RecorderDeps: deps}
}

// Start opens the microphone and begins buffering. Acquisition failures are
// reported as model.ErrPermissionDenied. Cancelling ctx discards the
// recording.
func (r *Recorder) Start(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.recording != nil {
		return ErrAlreadyRecording
	}
	stream, err := r.Source.OpenAudio(ctx)
	if err != nil {
		return fmt.Errorf("%w: %v", model.ErrPermissionDenied, err)
	}
	recCtx, cancel := context.WithCancel(ctx)
	rec := &recording{
		ctx:    recCtx,
		cancel: cancel,
		stream: stream,
		done:   make(chan struct{}),
	}
	r.recording = rec
	r.interrupted = nil
	go r.run(rec)
	return nil
}

func (r *Recorder) Recording() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.recording != nil
}

// Elapsed is the number of whole seconds recorded so far.
func (r *Recorder) Elapsed() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.recording == nil {
		return 0
	}
	return int(r.recording.seconds.Load())
}

// Finish stops capture and forwards the buffered audio. It returns after
// Forward has returned.
func (r *Recorder) Finish() error {
	return r.stop(true)
}

// Cancel stops capture and discards the buffered audio.
func (r *Recorder) Cancel() error {
	return r.stop(false)
}

func (r *Recorder) stop(forward bool) error {
	r.mu.Lock()
	rec := r.recording
	interrupted := r.interrupted
	r.interrupted = nil
	r.mu.Unlock()
	if rec == nil {
		if interrupted != nil {
			return fmt.Errorf("%w: %w", ErrNotRecording, interrupted)
		}
		return ErrNotRecording
	}
	// the decision is fixed before the asynchronous stop starts
	rec.forward.Store(forward)
	rec.cancel()
	<-rec.done
	return nil
}

func (r *Recorder) run(rec *recording) {
	defer close(rec.done)

	readDone := make(chan struct{})
	var readErr error
	go func() {
		defer close(readDone)
		chunk := make([]byte, readChunkSize)
		for {
			n, err := rec.stream.Read(chunk)
			if n > 0 {
				rec.mu.Lock()
				rec.buf.Write(chunk[:n])
				rec.mu.Unlock()
			}
			if err != nil {
				if !errors.Is(err, io.EOF) {
					readErr = err
				}
				return
			}
		}
	}()

	ticker := time.NewTicker(time.Second)
	stopped, ended := false, false
	for !stopped {
		select {
		case <-rec.ctx.Done():
			stopped = true
		case <-readDone:
			stopped = true
			ended = rec.ctx.Err() == nil
		case <-ticker.C:
			seconds := rec.seconds.Add(1)
			if r.OnTick != nil {
				r.OnTick(int(seconds))
			}
		}
	}
	ticker.Stop()

	if err := rec.stream.Stop(); err != nil {
		slog.Warn("failed to stop microphone", "error", err)
	}
	<-readDone
	closeErr := rec.stream.Close()
	if closeErr != nil {
		slog.Warn("failed to close microphone", "error", closeErr)
	}
	rec.cancel()

	var interrupted error
	if ended {
		interrupted = streamEndedError(readErr, closeErr)
		slog.Warn("microphone stopped before recording finished", "error", interrupted)
	}

	r.mu.Lock()
	if r.recording == rec {
		r.recording = nil
		if !rec.forward.Load() {
			r.interrupted = interrupted
		}
	}
	r.mu.Unlock()

	if !rec.forward.Load() {
		return
	}
	rec.mu.Lock()
	data := bytes.Clone(rec.buf.Bytes())
	rec.mu.Unlock()
	if len(data) == 0 {
		slog.Warn("recording is empty, nothing to forward")
		return
	}
	r.Forward(context.WithoutCancel(rec.ctx), model.Audio{MIMEType: rec.stream.MIMEType(), Data: data})
}

func streamEndedError(readErr, closeErr error) error {
	if readErr != nil {
		return fmt.Errorf("%w: %v", ErrStreamEnded, readErr)
	}
	if closeErr != nil {
		return fmt.Errorf("%w: %v", ErrStreamEnded, closeErr)
	}
	return ErrStreamEnded
}
