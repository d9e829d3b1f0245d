package media

import (
	"context"
	"errors"
	"fmt"
	"image"
	"sync"

	"github.com/iamvkosarev/zenith-ai/internal/model"
)

var ErrNotOpen = errors.New("camera is not open")

type VideoSource interface {
	OpenVideo(ctx context.Context) (VideoStream, error)
}

type VideoStream interface {
	Frame(ctx context.Context) (image.Image, error)
	Close() error
}

// Camera holds at most one open video stream.
type Camera struct {
	source VideoSource

	mu     sync.Mutex
	stream VideoStream
}

func NewCamera(source VideoSource) *Camera {
	return &Camera{source: source}
}

// Open acquires the stream. Any acquisition failure is reported as
// model.ErrPermissionDenied.
func (c *Camera) Open(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.stream != nil {
		return nil
	}
	stream, err := c.source.OpenVideo(ctx)
	if err != nil {
		return fmt.Errorf("%w: %v", model.ErrPermissionDenied, err)
	}
	c.stream = stream
	return nil
}

func (c *Camera) IsOpen() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stream != nil
}

// Frame returns the current live frame.
func (c *Camera) Frame(ctx context.Context) (image.Image, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.stream == nil {
		return nil, ErrNotOpen
	}
	return c.stream.Frame(ctx)
}

// Capture rasterizes the current frame into a JPEG data URI and closes the
// stream, also when capturing fails.
func (c *Camera) Capture(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.stream == nil {
		return "", ErrNotOpen
	}
	defer c.closeLocked()

	frame, err := c.stream.Frame(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to grab frame: %w", err)
	}
	return EncodeJPEGDataURI(frame)
}

func (c *Camera) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closeLocked()
}

func (c *Camera) closeLocked() error {
	if c.stream == nil {
		return nil
	}
	err := c.stream.Close()
	c.stream = nil
	return err
}
