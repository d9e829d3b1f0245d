package model

import (
	"encoding/base64"
	"fmt"
	"strings"
)

type ContentRole string

const (
	ContentRoleUser  = ContentRole("user")
	ContentRoleModel = ContentRole("model")
)

// Part is one piece of generation content. The set of implementations is
// closed: TextPart and InlineDataPart.
type Part interface {
	isPart()
}

type TextPart struct {
	Text string
}

type InlineDataPart struct {
	MIMEType string
	Data     []byte
}

func (TextPart) isPart()       {}
func (InlineDataPart) isPart() {}

type Content struct {
	Role  ContentRole
	Parts []Part
}

type GenerationRequest struct {
	Model             string
	Contents          []Content
	SystemInstruction string
	Temperature       float32
	// Image is set when the request was routed to the image-capable path.
	Image bool
}

type GenerationResponse struct {
	Parts []Part
}

// Speech is raw synthesized audio as returned by a text-to-speech backend.
type Speech struct {
	MIMEType string
	Data     []byte
}

// Audio is a recorded voice attachment.
type Audio struct {
	MIMEType string
	Data     []byte
}

// DataURI encodes data as a base64 data URI.
func DataURI(mimeType string, data []byte) string {
	return fmt.Sprintf("data:%s;base64,%s", mimeType, base64.StdEncoding.EncodeToString(data))
}

// ParseDataURI splits a base64 data URI into its MIME type and decoded payload.
func ParseDataURI(uri string) (string, []byte, error) {
	rest, ok := strings.CutPrefix(uri, "data:")
	if !ok {
		return "", nil, fmt.Errorf("not a data uri")
	}
	header, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return "", nil, fmt.Errorf("data uri without payload")
	}
	mimeType, isBase64 := strings.CutSuffix(header, ";base64")
	if !isBase64 {
		return "", nil, fmt.Errorf("data uri is not base64 encoded")
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", nil, fmt.Errorf("failed to decode data uri: %w", err)
	}
	return mimeType, data, nil
}
