package model

import (
	"regexp"

	"github.com/iamvkosarev/zenith-ai/pkg/local"
)

const DefaultAccentColor = "#6366f1"

var accentColorPattern = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

// ValidAccentColor reports whether color is a #rrggbb hex color.
func ValidAccentColor(color string) bool {
	return accentColorPattern.MatchString(color)
}

// AppSettings is process-wide configuration. Only Language and AccentColor are
// persisted and read; the remaining fields are reserved.
type AppSettings struct {
	Language    local.Language
	AccentColor string

	DarkMode        bool
	BackgroundType  string
	CoreInstruction string
	VoiceID         string
	VoiceSpeed      float64
	VoicePitch      float64
}

func DefaultSettings() AppSettings {
	return AppSettings{
		Language:    local.Eng,
		AccentColor: DefaultAccentColor,
		DarkMode:    true,
		VoiceSpeed:  1,
		VoicePitch:  1,
	}
}
