package media

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/png"
	"io"
	"os/exec"
	"strings"
	"sync"
	"time"

	"github.com/iamvkosarev/zenith-ai/config"
)

const stopTimeout = 3 * time.Second

// FFmpegCamera grabs single frames from a capture device through ffmpeg.
type FFmpegCamera struct {
	ffmpeg string
	format string
	device string
}

func NewFFmpegCamera(cfg config.Media) *FFmpegCamera {
	return &FFmpegCamera{
		ffmpeg: cfg.FFmpegPath,
		format: cfg.CameraFormat,
		device: cfg.CameraDevice,
	}
}

// OpenVideo grabs one frame up front so access problems surface on open.
func (f *FFmpegCamera) OpenVideo(ctx context.Context) (VideoStream, error) {
	stream := &ffmpegVideoStream{camera: f}
	if _, err := stream.Frame(ctx); err != nil {
		return nil, err
	}
	return stream, nil
}

type ffmpegVideoStream struct {
	camera *FFmpegCamera
}

func (s *ffmpegVideoStream) Frame(ctx context.Context) (image.Image, error) {
	cmd := exec.CommandContext(
		ctx, s.camera.ffmpeg,
		"-hide_banner", "-loglevel", "error",
		"-f", s.camera.format, "-i", s.camera.device,
		"-frames:v", "1", "-f", "image2pipe", "-vcodec", "png", "-",
	)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("failed to grab frame from %s: %w: %s", s.camera.device, err, strings.TrimSpace(stderr.String()))
	}
	frame, err := png.Decode(&stdout)
	if err != nil {
		return nil, fmt.Errorf("failed to decode frame: %w", err)
	}
	return frame, nil
}

func (s *ffmpegVideoStream) Close() error {
	return nil
}

// FFmpegMicrophone records OGG/Opus from an input device through ffmpeg.
type FFmpegMicrophone struct {
	ffmpeg string
	format string
	device string
}

func NewFFmpegMicrophone(cfg config.Media) *FFmpegMicrophone {
	return &FFmpegMicrophone{
		ffmpeg: cfg.FFmpegPath,
		format: cfg.MicrophoneFormat,
		device: cfg.MicrophoneDevice,
	}
}

func (f *FFmpegMicrophone) OpenAudio(ctx context.Context) (AudioStream, error) {
	cmd := exec.CommandContext(
		ctx, f.ffmpeg,
		"-hide_banner", "-loglevel", "error",
		"-f", f.format, "-i", f.device,
		"-ac", "1", "-c:a", "libopus", "-f", "ogg", "-",
	)
	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("failed to open ffmpeg stdin: %w", err)
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("failed to open ffmpeg stdout: %w", err)
	}
	stderr := &bytes.Buffer{}
	cmd.Stderr = stderr
	if err = cmd.Start(); err != nil {
		return nil, fmt.Errorf("failed to start ffmpeg: %w", err)
	}
	return &ffmpegAudioStream{
		cmd:    cmd,
		stdin:  stdin,
		stdout: stdout,
		stderr: stderr,
		exited: make(chan struct{}),
	}, nil
}

type ffmpegAudioStream struct {
	cmd    *exec.Cmd
	stdin  io.WriteCloser
	stdout io.ReadCloser
	stderr *bytes.Buffer

	stopOnce sync.Once
	exited   chan struct{}
}

func (s *ffmpegAudioStream) Read(p []byte) (int, error) {
	return s.stdout.Read(p)
}

func (s *ffmpegAudioStream) MIMEType() string {
	return "audio/ogg"
}

// Stop asks ffmpeg to finish the file; it exits once the trailer is written.
func (s *ffmpegAudioStream) Stop() error {
	var err error
	s.stopOnce.Do(func() {
		if _, err = io.WriteString(s.stdin, "q"); err == nil {
			err = s.stdin.Close()
		}
		if err == nil {
			time.AfterFunc(stopTimeout, func() {
				select {
				case <-s.exited:
				default:
					_ = s.cmd.Process.Kill()
				}
			})
		}
	})
	if err != nil && !errors.Is(err, io.ErrClosedPipe) {
		_ = s.cmd.Process.Kill()
		return fmt.Errorf("failed to stop ffmpeg: %w", err)
	}
	return nil
}

func (s *ffmpegAudioStream) Close() error {
	defer close(s.exited)
	if err := s.cmd.Wait(); err != nil {
		return fmt.Errorf("ffmpeg exited: %w: %s", err, strings.TrimSpace(s.stderr.String()))
	}
	return nil
}
