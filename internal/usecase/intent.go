package usecase

import "strings"

// imageTriggers route a message to the image model when found anywhere in it,
// case-insensitively.
var imageTriggers = []string{"create", "draw", "нарисуй"}

func wantsImage(content string) bool {
	content = strings.ToLower(content)
	for _, trigger := range imageTriggers {
		if strings.Contains(content, trigger) {
			return true
		}
	}
	return false
}
