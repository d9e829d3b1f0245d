package model

import (
	"testing"

	"github.com/google/uuid"
	"github.com/iamvkosarev/zenith-ai/pkg/local"
	"github.com/stretchr/testify/require"
)

func TestParseDataURI(t *testing.T) {
	uri := DataURI("image/png", []byte{0x89, 'P', 'N', 'G'})
	require.Equal(t, "data:image/png;base64,iVBORw==", uri)

	mimeType, data, err := ParseDataURI(uri)
	require.NoError(t, err)
	require.Equal(t, "image/png", mimeType)
	require.Equal(t, []byte{0x89, 'P', 'N', 'G'}, data)
}

func TestParseDataURI_Rejects(t *testing.T) {
	for _, uri := range []string{
		"https://example.com/cat.png",
		"data:image/png;base64",
		"data:text/plain,hello",
		"data:image/png;base64,!!!",
	} {
		_, _, err := ParseDataURI(uri)
		require.Error(t, err, uri)
	}
}

func TestPresets(t *testing.T) {
	require.Equal(t, "general", DefaultPreset().ID)

	preset, ok := PresetByID("coding")
	require.True(t, ok)
	require.Equal(t, "Архитектор кода", preset.Name.Text(local.Rus))

	_, ok = PresetByID("pirate")
	require.False(t, ok)

	for _, preset := range Presets {
		require.NotEmpty(t, preset.SystemPrompt, preset.ID)
		for _, language := range local.Languages {
			require.NotEmpty(t, preset.Name.Text(language), "%s/%s", preset.ID, language)
		}
	}
}

func TestNewUser(t *testing.T) {
	user := NewUser()
	require.Equal(t, DefaultNickname, user.Nickname)
	require.Contains(t, user.Avatar, "dicebear")
	require.False(t, user.OnboardingSeen)
	require.Zero(t, user.Stats.TotalRequests)
	require.Equal(t, DefaultFavMode, user.Stats.FavMode)
}

func TestChat_CloneIsIndependent(t *testing.T) {
	chat := Chat{ID: uuid.New(), Messages: []Message{{Content: "a"}}}
	clone := chat.Clone()
	clone.Messages[0].Content = "b"
	clone.Messages = append(clone.Messages, Message{Content: "c"})

	require.Equal(t, "a", chat.Messages[0].Content)
	require.Len(t, chat.Messages, 1)
}

func TestValidAccentColor(t *testing.T) {
	require.True(t, ValidAccentColor("#10B981"))
	require.True(t, ValidAccentColor(DefaultAccentColor))
	require.False(t, ValidAccentColor("10b981"))
	require.False(t, ValidAccentColor("#fff"))
	require.False(t, ValidAccentColor("#10b98z"))
}
