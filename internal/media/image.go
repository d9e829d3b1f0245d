package media

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png"

	"github.com/iamvkosarev/zenith-ai/internal/model"
)

const jpegQuality = 90

// EncodeJPEGDataURI rasterizes img into a JPEG data URI.
func EncodeJPEGDataURI(img image.Image) (string, error) {
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return "", fmt.Errorf("failed to encode jpeg: %w", err)
	}
	return model.DataURI("image/jpeg", buf.Bytes()), nil
}

// ImageDataURI decodes a JPEG or PNG file and re-encodes it with
// EncodeJPEGDataURI.
func ImageDataURI(data []byte) (string, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("failed to decode image: %w", err)
	}
	return EncodeJPEGDataURI(img)
}
