package cli

import (
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/iamvkosarev/zenith-ai/internal/model"
	"github.com/iamvkosarev/zenith-ai/pkg/local"
	"github.com/iamvkosarev/zenith-ai/pkg/markup"
)

var (
	assistantStyle = lipgloss.NewStyle().Bold(true)
	mutedStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#71717a"))
	alertStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#ef4444")).Bold(true)
	codeStyle      = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#3f3f46")).
			Padding(0, 1)
)

const previewWidth = 48

// renderer turns chat messages into terminal text in the current accent color.
type renderer struct {
	markdown *glamour.TermRenderer
	imageDir string
}

func newRenderer(imageDir string) *renderer {
	markdown, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(100),
	)
	if err != nil {
		markdown = nil
	}
	return &renderer{markdown: markdown, imageDir: imageDir}
}

func accentStyle(settings model.AppSettings) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(settings.AccentColor)).Bold(true)
}

func (r *renderer) Message(message model.Message, nickname string, settings model.AppSettings) string {
	var b strings.Builder
	if message.Role == model.MessageRoleUser {
		b.WriteString(accentStyle(settings).Render(nickname))
	} else {
		b.WriteString(assistantStyle.Render("Zenith"))
	}
	b.WriteString(" ")
	b.WriteString(mutedStyle.Render(message.Timestamp.Format("15:04")))
	b.WriteString("\n")

	switch message.Type {
	case model.MessageTypeGeneration:
		b.WriteString(message.Content)
		b.WriteString("\n")
		path, err := r.saveImage(message)
		if err != nil {
			b.WriteString(alertStyle.Render(err.Error()))
		} else {
			b.WriteString(mutedStyle.Render(path))
		}
		b.WriteString("\n")
	case model.MessageTypeCode:
		b.WriteString(r.code(message.Content, settings.Language))
	default:
		if message.Type == model.MessageTypeImage {
			b.WriteString(mutedStyle.Render("[" + local.T(settings.Language, local.KeyAddPhoto) + "]"))
			b.WriteString("\n")
		}
		b.WriteString(r.prose(message.Content))
	}
	return b.String()
}

func (r *renderer) code(content string, language local.Language) string {
	var b strings.Builder
	for _, segment := range markup.Split(content) {
		if !segment.Code {
			b.WriteString(r.prose(segment.Text))
			continue
		}
		label := segment.Language
		if label == "" {
			label = markup.DetectLanguage(segment.Text)
		}
		header := mutedStyle.Render(fmt.Sprintf("%s · %s", label, local.T(language, local.KeyCopyCode)))
		b.WriteString(codeStyle.Render(header + "\n" + markup.Highlight(segment.Text, segment.Language)))
		b.WriteString("\n")
	}
	return b.String()
}

func (r *renderer) prose(text string) string {
	if r.markdown == nil {
		return text + "\n"
	}
	rendered, err := r.markdown.Render(text)
	if err != nil {
		return text + "\n"
	}
	return rendered
}

// saveImage writes a generated image next to the session data so it can be
// opened with any viewer.
func (r *renderer) saveImage(message model.Message) (string, error) {
	mimeType, data, err := model.ParseDataURI(message.ImageURL)
	if err != nil {
		return "", fmt.Errorf("failed to parse image: %w", err)
	}
	extension := ".png"
	if mimeType == "image/jpeg" {
		extension = ".jpg"
	}
	if err = os.MkdirAll(r.imageDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create image directory: %w", err)
	}
	path := filepath.Join(r.imageDir, "zenith-"+message.ID.String()+extension)
	if err = os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to save image: %w", err)
	}
	return path, nil
}

// preview draws frame with half-block cells, two pixel rows per line.
func preview(frame image.Image) string {
	bounds := frame.Bounds()
	if bounds.Empty() {
		return ""
	}
	width := min(previewWidth, bounds.Dx())
	height := max(2, bounds.Dy()*width/bounds.Dx())

	var b strings.Builder
	for y := 0; y < height; y += 2 {
		for x := 0; x < width; x++ {
			top := sampleColor(frame, x, y, width, height)
			bottom := sampleColor(frame, x, min(y+1, height-1), width, height)
			b.WriteString(lipgloss.NewStyle().Foreground(top).Background(bottom).Render("▀"))
		}
		b.WriteString("\n")
	}
	return b.String()
}

func sampleColor(frame image.Image, x, y, width, height int) lipgloss.Color {
	bounds := frame.Bounds()
	r, g, b, _ := frame.At(
		bounds.Min.X+x*bounds.Dx()/width,
		bounds.Min.Y+y*bounds.Dy()/height,
	).RGBA()
	return lipgloss.Color(fmt.Sprintf("#%02x%02x%02x", r>>8, g>>8, b>>8))
}
