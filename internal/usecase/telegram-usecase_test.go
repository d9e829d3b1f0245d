package usecase

import (
	"strings"
	"testing"
	"unicode/utf8"

	api "github.com/OvyFlash/telegram-bot-api"
	"github.com/google/uuid"
	"github.com/iamvkosarev/zenith-ai/internal/model"
	"github.com/iamvkosarev/zenith-ai/pkg/local"
	"github.com/stretchr/testify/require"
)

func TestSplitText_PrefersLineBreaks(t *testing.T) {
	text := strings.Repeat("a", 6) + "\n" + strings.Repeat("b", 6)
	require.Equal(t, []string{"aaaaaa", "bbbbbb"}, splitText(text, 10))
}

func TestSplitText_KeepsRunesWhole(t *testing.T) {
	text := strings.Repeat("ж", 10)
	chunks := splitText(text, 7)
	require.Equal(t, text, strings.Join(chunks, ""))
	for _, chunk := range chunks {
		require.LessOrEqual(t, len(chunk), 7)
		require.True(t, utf8.ValidString(chunk))
	}
}

func TestSplitText_Short(t *testing.T) {
	require.Equal(t, []string{"hi"}, splitText("hi", 10))
	require.Empty(t, splitText("", 10))
}

func TestSplitButtonRows(t *testing.T) {
	buttons := make([]api.InlineKeyboardButton, 7)
	rows := splitButtonRows(buttons)
	require.Len(t, rows, 3)
	require.Len(t, rows[0], maxButtonsInRow)
	require.Len(t, rows[2], 1)
}

func TestParseCallbackID(t *testing.T) {
	id := uuid.New()
	parsed, ok := parseCallbackID(callbackListen+id.String(), callbackListen)
	require.True(t, ok)
	require.Equal(t, id, parsed)

	_, ok = parseCallbackID(callbackListen+"nope", callbackListen)
	require.False(t, ok)
}

func TestPrepareProfile(t *testing.T) {
	user := model.NewUser()
	user.Stats.TotalRequests = 3
	user.Stats.FavMode = "Coding Architect"

	profile := prepareProfile(user, local.Eng)
	require.Contains(t, profile, model.DefaultNickname)
	require.Contains(t, profile, "3")
	require.Contains(t, profile, "Coding Architect")
}
