package usecase

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	api "github.com/OvyFlash/telegram-bot-api"
	"github.com/elliotchance/pie/v2"
	"github.com/google/uuid"
	"github.com/iamvkosarev/zenith-ai/config"
	"github.com/iamvkosarev/zenith-ai/internal/audio"
	"github.com/iamvkosarev/zenith-ai/internal/media"
	"github.com/iamvkosarev/zenith-ai/internal/model"
	"github.com/iamvkosarev/zenith-ai/pkg/local"
	"github.com/iamvkosarev/zenith-ai/pkg/markup"
	"github.com/sourcegraph/conc"
	"github.com/sourcegraph/conc/panics"
)

const (
	CommandStart    = "start"
	CommandHelp     = "help"
	CommandNew      = "new"
	CommandChats    = "chats"
	CommandPresets  = "presets"
	CommandDraw     = "draw"
	CommandLanguage = "lang"
	CommandColor    = "color"
	CommandProfile  = "profile"
	CommandNickname = "nick"
	CommandStop     = "stop"
	CommandLogout   = "logout"

	callbackSelectChat = "sel:"
	callbackDeleteChat = "del:"
	callbackPreset     = "preset:"
	callbackLanguage   = "lang:"
	callbackListen     = "tts:"
	callbackOnboard    = "onboard"

	maxMessageLength = 4096
	maxDownloadSize  = 20 << 20
	maxButtonsInRow  = 3
)

var ErrDownloadTooLarge = errors.New("telegram file is too large")

type TelegramUsecaseDeps struct {
	Bot        *api.BotAPI
	Workspaces *WorkspaceUsecase
	// HTTPClient downloads photos and voice notes; defaults to
	// http.DefaultClient.
	HTTPClient *http.Client
}

type TelegramUsecase struct {
	TelegramUsecaseDeps
	cfg          config.Telegram
	allowedUsers map[int64]struct{}
}

func NewTelegramUsecase(cfg config.Telegram, deps TelegramUsecaseDeps) (*TelegramUsecase, error) {
	if deps.HTTPClient == nil {
		deps.HTTPClient = http.DefaultClient
	}
	allowedUsers := make(map[int64]struct{}, len(cfg.AllowedTelegramID))
	for _, userID := range cfg.AllowedTelegramID {
		allowedUsers[userID] = struct{}{}
	}

	_, err := deps.Bot.Request(
		api.NewSetMyCommands(
			[]api.BotCommand{
				{Command: CommandHelp, Description: "Get help"},
				{Command: CommandNew, Description: "Start a new chat"},
				{Command: CommandChats, Description: "Show chats"},
				{Command: CommandPresets, Description: "Choose a persona"},
				{Command: CommandDraw, Description: "Toggle image generation"},
				{Command: CommandLanguage, Description: "Change language"},
				{Command: CommandProfile, Description: "Show statistics"},
				{Command: CommandStop, Description: "Stop generation"},
			}...,
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to set bot commands: %w", err)
	}

	return &TelegramUsecase{
		TelegramUsecaseDeps: deps,
		cfg:                 cfg,
		allowedUsers:        allowedUsers,
	}, nil
}

// NewTelegramSpeechOutput returns an Output factory that delivers synthesized
// speech to a Telegram chat as a WAV document.
func NewTelegramSpeechOutput(bot *api.BotAPI) func(chatID int64) Output {
	return func(chatID int64) Output {
		return telegramSpeechOutput{bot: bot, chatID: chatID}
	}
}

type telegramSpeechOutput struct {
	bot    *api.BotAPI
	chatID int64
}

func (o telegramSpeechOutput) Play(_ context.Context, pcm audio.PCM) error {
	document := api.NewDocument(o.chatID, api.FileBytes{Name: "speech.wav", Bytes: pcm.WAV()})
	if _, err := o.bot.Send(document); err != nil {
		return fmt.Errorf("failed to send speech: %w", err)
	}
	return nil
}

// Run polls updates until ctx is done. Every update is handled in its own
// goroutine, so /stop reaches a user whose request is still in flight.
func (t *TelegramUsecase) Run(ctx context.Context) error {
	u := api.NewUpdate(0)
	u.Timeout = 60

	updates := t.Bot.GetUpdatesChan(u)
	go func() {
		<-ctx.Done()
		t.Bot.StopReceivingUpdates()
	}()

	wg := conc.NewWaitGroup()
	for update := range updates {
		wg.Go(
			func() {
				t.handleUpdate(ctx, update)
			},
		)
	}
	wg.Wait()
	return nil
}

func (t *TelegramUsecase) handleUpdate(ctx context.Context, update api.Update) {
	var catcher panics.Catcher
	catcher.Try(
		func() {
			if update.Message != nil {
				if err := t.handleMessage(ctx, update.Message); err != nil {
					slog.Error("failed to handle message", "chat_id", update.Message.Chat.ID, "error", err)
				}
			}
			if update.CallbackQuery != nil {
				if err := t.handleCallbackQuery(ctx, update.CallbackQuery); err != nil {
					slog.Error("failed to handle callback query", "data", update.CallbackQuery.Data, "error", err)
				}
			}
		},
	)
	if recovered := catcher.Recovered(); recovered != nil {
		slog.Error("update handler panicked", "update_id", update.UpdateID, "error", recovered.AsError())
	}
}

func (t *TelegramUsecase) isAllowed(chatID int64) bool {
	if !t.cfg.IsNotPublic {
		return true
	}
	_, ok := t.allowedUsers[chatID]
	return ok
}

func (t *TelegramUsecase) handleMessage(ctx context.Context, message *api.Message) error {
	chatID := message.Chat.ID
	if !t.isAllowed(chatID) {
		t.sendMessageAndHandleErr(chatID, local.T(local.Eng, local.KeyAccessDenied))
		return nil
	}

	workspace, err := t.Workspaces.Get(ctx, chatID)
	if err != nil {
		return err
	}
	language := workspace.Session.Language()

	if message.IsCommand() {
		return t.handleCommand(workspace, chatID, message.Command(), strings.TrimSpace(message.CommandArguments()))
	}
	if !workspace.Session.Authenticated() {
		t.sendMessageAndHandleErr(chatID, local.T(language, local.KeyNotAuthenticated))
		return nil
	}

	var voice *model.Audio
	content := message.Text
	switch {
	case len(message.Photo) > 0:
		largest := message.Photo[len(message.Photo)-1]
		data, err := t.downloadFile(ctx, largest.FileID)
		if err != nil {
			return err
		}
		dataURI, err := media.ImageDataURI(data)
		if err != nil {
			return fmt.Errorf("failed to prepare photo: %w", err)
		}
		workspace.Generation.AttachImage(dataURI)
		content = message.Caption
		if strings.TrimSpace(content) == "" {
			t.sendMessageAndHandleErr(chatID, local.T(language, local.KeyImageAttached))
			return nil
		}
	case message.Voice != nil:
		data, err := t.downloadFile(ctx, message.Voice.FileID)
		if err != nil {
			return err
		}
		mimeType := message.Voice.MimeType
		if mimeType == "" {
			mimeType = "audio/ogg"
		}
		voice = &model.Audio{MIMEType: mimeType, Data: data}
		content = ""
	}

	return t.send(ctx, workspace, chatID, content, voice)
}

func (t *TelegramUsecase) send(ctx context.Context, workspace *Workspace, chatID int64, content string, voice *model.Audio) error {
	if _, err := t.Bot.Request(api.NewChatAction(chatID, api.ChatTyping)); err != nil {
		slog.Warn("failed to send chat action", "chat_id", chatID, "error", err)
	}

	status, replies := workspace.Send(ctx, content, voice)
	language := workspace.Session.Language()
	switch status {
	case SendChatCreated:
		chat, _ := workspace.Session.ActiveChat()
		t.sendMessageAndHandleErr(chatID, local.Tf(language, local.KeyChatCreated, chat.Title))
	case SendCompleted:
		for _, reply := range replies {
			if err := t.sendReply(chatID, language, reply); err != nil {
				return err
			}
		}
	default:
		slog.Debug("message not answered", "chat_id", chatID, "status", status)
	}
	return nil
}

func (t *TelegramUsecase) handleCommand(
	workspace *Workspace,
	chatID int64,
	command string,
	args string,
) error {
	session := workspace.Session
	if command == CommandStart {
		session.Login()
		if !session.User().OnboardingSeen {
			return t.sendOnboarding(chatID, session.Language())
		}
		t.sendMessageAndHandleErr(chatID, local.T(session.Language(), local.KeyHelp))
		return nil
	}

	language := session.Language()
	if !session.Authenticated() {
		t.sendMessageAndHandleErr(chatID, local.T(language, local.KeyNotAuthenticated))
		return nil
	}

	var answerText string
	switch command {
	case CommandHelp:
		answerText = local.T(language, local.KeyHelp)
	case CommandNew:
		preset := session.ActivePreset()
		if args != "" {
			var ok bool
			if preset, ok = model.PresetByID(strings.ToLower(args)); !ok {
				answerText = local.T(language, local.KeyPresetUnknown)
				break
			}
		}
		chat := session.CreateChat(preset)
		answerText = local.Tf(language, local.KeyChatSelected, chat.Title)
	case CommandChats:
		return t.sendChatsKeyboard(chatID, session)
	case CommandPresets:
		return t.sendPresetsKeyboard(chatID, language)
	case CommandDraw:
		answerText = local.T(language, local.KeyGenModeOff)
		if workspace.Generation.ToggleGenerationMode() {
			answerText = local.T(language, local.KeyGenModeOn)
		}
	case CommandLanguage:
		if args == "" {
			return t.sendLanguagesKeyboard(chatID, language)
		}
		answerText = t.setLanguage(session, args)
	case CommandColor:
		if !model.ValidAccentColor(args) {
			answerText = local.T(language, local.KeyUnknownCommand)
			break
		}
		session.SetAccentColor(strings.ToLower(args))
		answerText = local.Tf(language, local.KeyAccentSelected, strings.ToLower(args))
	case CommandProfile:
		answerText = prepareProfile(session.User(), language)
	case CommandNickname:
		if !session.SetNickname(args) {
			answerText = local.T(language, local.KeyUnknownCommand)
			break
		}
		answerText = local.Tf(language, local.KeyNicknameSaved, session.User().Nickname)
	case CommandStop:
		workspace.Generation.Stop()
		return nil
	case CommandLogout:
		workspace.Generation.Stop()
		session.Logout()
		answerText = local.T(language, local.KeyLoggedOut)
	default:
		answerText = local.T(language, local.KeyUnknownCommand)
	}
	t.sendMessageAndHandleErr(chatID, answerText)
	return nil
}

func (t *TelegramUsecase) handleCallbackQuery(ctx context.Context, query *api.CallbackQuery) error {
	if _, err := t.Bot.Request(api.NewCallback(query.ID, "")); err != nil {
		return fmt.Errorf("failed to request callback: %w", err)
	}
	// Keyboards are only sent to private chats, where the chat id is the user id.
	chatID := query.From.ID
	if !t.isAllowed(chatID) {
		return nil
	}

	workspace, err := t.Workspaces.Get(ctx, chatID)
	if err != nil {
		return err
	}
	session := workspace.Session
	language := session.Language()
	if !session.Authenticated() {
		t.sendMessageAndHandleErr(chatID, local.T(language, local.KeyNotAuthenticated))
		return nil
	}

	data := query.Data
	switch {
	case data == callbackOnboard:
		session.CompleteOnboarding()
		t.sendMessageAndHandleErr(chatID, local.T(language, local.KeyHelp))
	case strings.HasPrefix(data, callbackSelectChat):
		chatUUID, ok := parseCallbackID(data, callbackSelectChat)
		if !ok {
			t.sendMessageAndHandleErr(chatID, local.T(language, local.KeyChatNotFound))
			return nil
		}
		chat, ok := workspace.SelectChat(chatUUID)
		if !ok {
			t.sendMessageAndHandleErr(chatID, local.T(language, local.KeyChatNotFound))
			return nil
		}
		t.sendMessageAndHandleErr(chatID, local.Tf(language, local.KeyChatSelected, chat.Title))
	case strings.HasPrefix(data, callbackDeleteChat):
		chatUUID, ok := parseCallbackID(data, callbackDeleteChat)
		if !ok || !session.DeleteChat(chatUUID) {
			t.sendMessageAndHandleErr(chatID, local.T(language, local.KeyChatNotFound))
			return nil
		}
		t.sendMessageAndHandleErr(chatID, local.T(language, local.KeyChatDeleted))
	case strings.HasPrefix(data, callbackPreset):
		preset, ok := model.PresetByID(strings.TrimPrefix(data, callbackPreset))
		if !ok {
			t.sendMessageAndHandleErr(chatID, local.T(language, local.KeyPresetUnknown))
			return nil
		}
		chat := session.CreateChat(preset)
		t.sendMessageAndHandleErr(chatID, local.Tf(language, local.KeyChatSelected, chat.Title))
	case strings.HasPrefix(data, callbackLanguage):
		t.sendMessageAndHandleErr(chatID, t.setLanguage(session, strings.TrimPrefix(data, callbackLanguage)))
	case strings.HasPrefix(data, callbackListen):
		messageID, ok := parseCallbackID(data, callbackListen)
		if !ok {
			return nil
		}
		message, ok := workspace.FindMessage(messageID)
		if !ok {
			return nil
		}
		if workspace.Voice.IsProcessing(messageID) {
			slog.Debug("message is already being spoken", "chat_id", chatID, "message_id", messageID)
			return nil
		}
		if _, err = t.Bot.Request(api.NewChatAction(chatID, api.ChatUploadDocument)); err != nil {
			slog.Warn("failed to send chat action", "chat_id", chatID, "error", err)
		}
		return workspace.Voice.Speak(ctx, message)
	default:
		t.sendMessageAndHandleErr(chatID, local.T(language, local.KeyUnknownCommand))
	}
	return nil
}

func (t *TelegramUsecase) setLanguage(session *SessionUsecase, code string) string {
	language, ok := local.ParseLanguage(code)
	if !ok {
		return local.T(session.Language(), local.KeyLanguageUnknown)
	}
	session.SetLanguage(language)
	return local.Tf(language, local.KeyLanguageSelected, language)
}

func (t *TelegramUsecase) sendOnboarding(chatID int64, language local.Language) error {
	text := local.T(language, local.KeyOnboardTitle) + "\n\n" + local.T(language, local.KeyOnboardText)
	msg := api.NewMessage(chatID, text)
	msg.ReplyMarkup = api.NewInlineKeyboardMarkup(
		api.NewInlineKeyboardRow(
			api.NewInlineKeyboardButtonData(local.T(language, local.KeyOnboardStart), callbackOnboard),
		),
	)
	if _, err := t.Bot.Send(msg); err != nil {
		return fmt.Errorf("failed to send onboarding: %w", err)
	}
	return nil
}

func (t *TelegramUsecase) sendChatsKeyboard(chatID int64, session *SessionUsecase) error {
	language := session.Language()
	chats := session.Chats()
	if len(chats) == 0 {
		t.sendMessageAndHandleErr(chatID, local.T(language, local.KeyNoChats))
		return nil
	}

	activeChatID := session.ActiveChatID()
	rows := pie.Map(
		chats, func(chat model.Chat) []api.InlineKeyboardButton {
			title := chat.Title
			if chat.ID == activeChatID {
				title = "• " + title
			}
			return api.NewInlineKeyboardRow(
				api.NewInlineKeyboardButtonData(title, callbackSelectChat+chat.ID.String()),
				api.NewInlineKeyboardButtonData("✕", callbackDeleteChat+chat.ID.String()),
			)
		},
	)
	msg := api.NewMessage(chatID, local.T(language, local.KeyHistory))
	msg.ReplyMarkup = api.NewInlineKeyboardMarkup(rows...)
	if _, err := t.Bot.Send(msg); err != nil {
		return fmt.Errorf("failed to send chats keyboard: %w", err)
	}
	return nil
}

func (t *TelegramUsecase) sendPresetsKeyboard(chatID int64, language local.Language) error {
	buttons := pie.Map(
		model.Presets, func(preset model.Preset) api.InlineKeyboardButton {
			return api.NewInlineKeyboardButtonData(preset.Name.Text(language), callbackPreset+preset.ID)
		},
	)
	msg := api.NewMessage(chatID, local.T(language, local.KeyNewChat))
	msg.ReplyMarkup = api.NewInlineKeyboardMarkup(splitButtonRows(buttons)...)
	if _, err := t.Bot.Send(msg); err != nil {
		return fmt.Errorf("failed to send presets keyboard: %w", err)
	}
	return nil
}

func (t *TelegramUsecase) sendLanguagesKeyboard(chatID int64, language local.Language) error {
	buttons := pie.Map(
		local.Languages, func(l local.Language) api.InlineKeyboardButton {
			return api.NewInlineKeyboardButtonData(strings.ToUpper(string(l)), callbackLanguage+string(l))
		},
	)
	msg := api.NewMessage(chatID, local.T(language, local.KeySelectLang))
	msg.ReplyMarkup = api.NewInlineKeyboardMarkup(splitButtonRows(buttons)...)
	if _, err := t.Bot.Send(msg); err != nil {
		return fmt.Errorf("failed to send languages keyboard: %w", err)
	}
	return nil
}

func (t *TelegramUsecase) sendReply(chatID int64, language local.Language, reply model.Message) error {
	if reply.Type == model.MessageTypeGeneration {
		_, data, err := model.ParseDataURI(reply.ImageURL)
		if err != nil {
			return fmt.Errorf("failed to parse generated image: %w", err)
		}
		photo := api.NewPhoto(chatID, api.FileBytes{Name: "generation.png", Bytes: data})
		photo.Caption = reply.Content
		if _, err = t.Bot.Send(photo); err != nil {
			return fmt.Errorf("failed to send generated image: %w", err)
		}
		return nil
	}

	listen := api.NewInlineKeyboardMarkup(
		api.NewInlineKeyboardRow(
			api.NewInlineKeyboardButtonData("🔊 "+local.T(language, local.KeyListen), callbackListen+reply.ID.String()),
		),
	)
	html := markup.TelegramHTML(reply.Content)
	if len(html) <= maxMessageLength {
		msg := api.NewMessage(chatID, html)
		msg.ParseMode = api.ModeHTML
		msg.ReplyMarkup = listen
		if _, err := t.Bot.Send(msg); err != nil {
			return fmt.Errorf("failed to send reply: %w", err)
		}
		return nil
	}

	chunks := splitText(reply.Content, maxMessageLength)
	for i, chunk := range chunks {
		msg := api.NewMessage(chatID, chunk)
		if i == len(chunks)-1 {
			msg.ReplyMarkup = listen
		}
		if _, err := t.Bot.Send(msg); err != nil {
			return fmt.Errorf("failed to send reply chunk %d: %w", i, err)
		}
	}
	return nil
}

func (t *TelegramUsecase) downloadFile(ctx context.Context, fileID string) ([]byte, error) {
	fileURL, err := t.Bot.GetFileDirectURL(fileID)
	if err != nil {
		return nil, fmt.Errorf("failed to get file url: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fileURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create download request: %w", err)
	}
	resp, err := t.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to download file: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to download file: status %s", resp.Status)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxDownloadSize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	if len(data) > maxDownloadSize {
		return nil, ErrDownloadTooLarge
	}
	return data, nil
}

func prepareProfile(user model.User, language local.Language) string {
	return fmt.Sprintf(
		"%s\n%s\n\n%s: %d\n%s: %s",
		local.T(language, local.KeyProfileTitle),
		user.Nickname,
		local.T(language, local.KeyRequests), user.Stats.TotalRequests,
		local.T(language, local.KeyFavMode), user.Stats.FavMode,
	)
}

func parseCallbackID(data, prefix string) (uuid.UUID, bool) {
	id, err := uuid.Parse(strings.TrimPrefix(data, prefix))
	return id, err == nil
}

func splitButtonRows(buttons []api.InlineKeyboardButton) [][]api.InlineKeyboardButton {
	rows := make([][]api.InlineKeyboardButton, 0, len(buttons)/maxButtonsInRow+1)
	for start := 0; start < len(buttons); start += maxButtonsInRow {
		end := min(start+maxButtonsInRow, len(buttons))
		rows = append(rows, buttons[start:end])
	}
	return rows
}

// splitText cuts text into chunks of at most limit bytes without breaking
// runes, preferring line boundaries.
func splitText(text string, limit int) []string {
	chunks := make([]string, 0, len(text)/limit+1)
	for len(text) > limit {
		cut := strings.LastIndexByte(text[:limit], '\n')
		if cut <= 0 {
			cut = limit
			for cut > 0 && !isRuneStart(text[cut]) {
				cut--
			}
		}
		chunks = append(chunks, text[:cut])
		text = strings.TrimPrefix(text[cut:], "\n")
	}
	if text != "" {
		chunks = append(chunks, text)
	}
	return chunks
}

func isRuneStart(b byte) bool {
	return b&0xC0 != 0x80
}

func (t *TelegramUsecase) sendMessageAndHandleErr(chatID int64, message string) {
	if _, err := t.Bot.Send(api.NewMessage(chatID, message)); err != nil {
		slog.Error("failed to send message", "chat_id", chatID, "error", err)
	}
}
