package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"strings"

	"github.com/iamvkosarev/zenith-ai/internal/media"
	"github.com/iamvkosarev/zenith-ai/internal/model"
	"github.com/iamvkosarev/zenith-ai/internal/usecase"
	"github.com/iamvkosarev/zenith-ai/pkg/local"
	"github.com/peterh/liner"
)

const (
	commandCancel = "/cancel"
	commandClose  = "/close"
)

var ErrQuit = errors.New("quit")

// LineReader is the subset of *liner.State the terminal needs.
type LineReader interface {
	Prompt(prompt string) (string, error)
	PasswordPrompt(prompt string) (string, error)
	AppendHistory(item string)
}

type TerminalDeps struct {
	Workspace  *usecase.Workspace
	Camera     *media.Camera
	Microphone media.AudioSource
	Reader     LineReader
	Out        io.Writer
	// ImageDir receives generated images.
	ImageDir string
}

// Terminal is the interactive front end: a line-oriented REPL over one
// workspace.
type Terminal struct {
	TerminalDeps
	recorder *media.Recorder
	render   *renderer
}

func NewTerminal(deps TerminalDeps) *Terminal {
	if deps.Out == nil {
		deps.Out = os.Stdout
	}
	if deps.ImageDir == "" {
		deps.ImageDir = os.TempDir()
	}
	t := &Terminal{
		TerminalDeps: deps,
		render:       newRenderer(deps.ImageDir),
	}
	t.recorder = media.NewRecorder(
		media.RecorderDeps{
			Source: deps.Microphone,
			Forward: func(ctx context.Context, audio model.Audio) {
				t.send(ctx, "", &audio)
			},
		},
	)
	return t
}

// NewLiner returns a line editor with history loaded from historyFile.
func NewLiner(historyFile string) *liner.State {
	line := liner.NewLiner()
	line.SetCtrlCAborts(true)
	if f, err := os.Open(historyFile); err == nil {
		_, _ = line.ReadHistory(f)
		_ = f.Close()
	}
	return line
}

// CloseLiner saves history and restores the terminal.
func CloseLiner(line *liner.State, historyFile string) {
	if f, err := os.OpenFile(historyFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600); err == nil {
		_, _ = line.WriteHistory(f)
		_ = f.Close()
	}
	_ = line.Close()
}

// Run authenticates, shows onboarding once and then reads commands until
// the input ends, ctx is done or /quit is entered.
func (t *Terminal) Run(ctx context.Context) error {
	for ctx.Err() == nil {
		if !t.Workspace.Session.Authenticated() {
			if err := t.login(); err != nil {
				return ignoreAbort(err)
			}
		}
		if !t.Workspace.Session.User().OnboardingSeen {
			if err := t.onboarding(); err != nil {
				return ignoreAbort(err)
			}
		}

		input, err := t.Reader.Prompt(t.prompt())
		if err != nil {
			return ignoreAbort(err)
		}
		input = strings.TrimSpace(input)
		if input == "" {
			// Enter on an empty line sends the kept draft.
			if t.Workspace.Generation.Draft().Text != "" {
				t.send(ctx, "", nil)
			}
			continue
		}
		t.Reader.AppendHistory(input)

		if err = t.Handle(ctx, input); err != nil {
			if errors.Is(err, ErrQuit) {
				return nil
			}
			return ignoreAbort(err)
		}
	}
	return nil
}

func ignoreAbort(err error) error {
	if errors.Is(err, liner.ErrPromptAborted) || errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

func (t *Terminal) prompt() string {
	settings := t.Workspace.Session.Settings()
	label := "zenith"
	if t.Workspace.Generation.Draft().GenerationMode {
		label += " " + local.T(settings.Language, local.KeyGenImage)
	}
	draft := t.Workspace.Generation.Draft()
	if draft.Text != "" {
		label += " +draft"
	}
	if draft.Image != "" {
		label += " +img"
	}
	prompt := accentStyle(settings).Render(label+">") + " "
	if t.recorder.Recording() {
		prompt = alertStyle.Render("●") + " " + prompt
	}
	return prompt
}

func (t *Terminal) login() error {
	language := t.Workspace.Session.Language()
	t.println(accentStyle(t.Workspace.Session.Settings()).Render(local.T(language, local.KeyAuth)))
	for {
		username, err := t.Reader.Prompt(local.T(language, local.KeyUsername) + ": ")
		if err != nil {
			return err
		}
		if _, err = t.Reader.PasswordPrompt(local.T(language, local.KeyPassword) + ": "); err != nil {
			return err
		}
		if strings.TrimSpace(username) != "" {
			break
		}
	}
	t.Workspace.Session.Login()
	return nil
}

func (t *Terminal) onboarding() error {
	language := t.Workspace.Session.Language()
	t.println(accentStyle(t.Workspace.Session.Settings()).Render(local.T(language, local.KeyOnboardTitle)))
	t.println(local.T(language, local.KeyOnboardText))
	if _, err := t.Reader.Prompt(mutedStyle.Render("["+local.T(language, local.KeyOnboardStart)+"]") + " "); err != nil {
		return err
	}
	t.Workspace.Session.CompleteOnboarding()
	t.println(local.T(language, local.KeyHelp))
	return nil
}

// Handle executes one line of input: a slash command or a message.
func (t *Terminal) Handle(ctx context.Context, input string) error {
	if !strings.HasPrefix(input, "/") {
		t.Workspace.Generation.SetDraft(input)
		t.send(ctx, "", nil)
		return nil
	}

	command, args, _ := strings.Cut(strings.TrimPrefix(input, "/"), " ")
	args = strings.TrimSpace(args)
	session := t.Workspace.Session
	generation := t.Workspace.Generation
	language := session.Language()

	switch command {
	case "help":
		t.println(local.T(language, local.KeyHelp))
	case "quit", "exit":
		return ErrQuit
	case "new":
		preset := session.ActivePreset()
		if args != "" {
			var ok bool
			if preset, ok = model.PresetByID(strings.ToLower(args)); !ok {
				t.println(local.T(language, local.KeyPresetUnknown))
				return nil
			}
		}
		chat := session.CreateChat(preset)
		t.println(local.Tf(language, local.KeyChatSelected, chat.Title))
	case "chats":
		t.printChats()
	case "select":
		chat, ok := t.chatByIndex(args)
		if ok {
			chat, ok = t.Workspace.SelectChat(chat.ID)
		}
		if !ok {
			t.println(local.T(language, local.KeyChatNotFound))
			return nil
		}
		t.println(local.Tf(language, local.KeyChatSelected, chat.Title))
		t.printActiveChat()
	case "delete":
		chat, ok := t.chatByIndex(args)
		if !ok || !session.DeleteChat(chat.ID) {
			t.println(local.T(language, local.KeyChatNotFound))
			return nil
		}
		t.println(local.T(language, local.KeyChatDeleted))
	case "presets":
		t.printPresets()
	case "draw":
		if generation.ToggleGenerationMode() {
			t.println(local.T(language, local.KeyGenModeOn))
		} else {
			t.println(local.T(language, local.KeyGenModeOff))
		}
	case "lang":
		next, ok := local.ParseLanguage(args)
		if !ok {
			t.println(local.T(language, local.KeyLanguageUnknown))
			return nil
		}
		session.SetLanguage(next)
		t.println(local.Tf(next, local.KeyLanguageSelected, next))
	case "color":
		if !model.ValidAccentColor(args) {
			t.println(local.T(language, local.KeyUnknownCommand))
			return nil
		}
		session.SetAccentColor(strings.ToLower(args))
		t.println(accentStyle(session.Settings()).Render(local.Tf(language, local.KeyAccentSelected, strings.ToLower(args))))
	case "profile":
		t.printProfile()
	case "nick":
		if !session.SetNickname(args) {
			t.println(local.T(language, local.KeyUnknownCommand))
			return nil
		}
		t.println(local.Tf(language, local.KeyNicknameSaved, session.User().Nickname))
	case "attach":
		t.attach(args)
	case "detach":
		generation.DetachImage()
		t.println(local.T(language, local.KeyImageDetached))
	case "photo":
		return t.photo(ctx)
	case "rec":
		return t.record(ctx)
	case "say":
		t.say(ctx, args)
	case "stop":
		generation.Stop()
	case "logout":
		generation.Stop()
		session.Logout()
		t.println(local.T(language, local.KeyLoggedOut))
	default:
		t.println(local.T(language, local.KeyUnknownCommand))
	}
	return nil
}

// send runs one request. Ctrl+C while it is in flight stops generation.
func (t *Terminal) send(ctx context.Context, content string, audio *model.Audio) {
	interrupts := make(chan os.Signal, 1)
	signal.Notify(interrupts, os.Interrupt)
	done := make(chan struct{})
	defer func() {
		signal.Stop(interrupts)
		close(done)
	}()
	go func() {
		select {
		case <-interrupts:
			t.Workspace.Generation.Stop()
		case <-done:
		}
	}()

	session := t.Workspace.Session
	language := session.Language()
	if content != "" || audio != nil || t.Workspace.Generation.Draft().Text != "" {
		t.println(mutedStyle.Render(local.T(language, local.KeyTyping)))
	}

	status, replies := t.Workspace.Send(ctx, content, audio)
	switch status {
	case usecase.SendChatCreated:
		chat, _ := session.ActiveChat()
		t.println(local.Tf(language, local.KeyChatCreated, chat.Title))
	case usecase.SendCompleted:
		user := session.User()
		settings := session.Settings()
		for _, reply := range replies {
			t.print(t.render.Message(reply, user.Nickname, settings))
		}
	default:
		slog.Debug("message not answered", "status", status)
	}
}

func (t *Terminal) attach(path string) {
	language := t.Workspace.Session.Language()
	data, err := os.ReadFile(path)
	if err != nil {
		t.println(alertStyle.Render(err.Error()))
		return
	}
	dataURI, err := media.ImageDataURI(data)
	if err != nil {
		t.println(alertStyle.Render(err.Error()))
		return
	}
	t.Workspace.Generation.AttachImage(dataURI)
	t.println(local.T(language, local.KeyImageAttached))
}

// photo opens the camera and shows the current frame until Enter captures it
// or /close closes the camera. Any other input refreshes the frame.
// Acquisition failures are shown as an alert.
func (t *Terminal) photo(ctx context.Context) error {
	language := t.Workspace.Session.Language()
	if err := t.Camera.Open(ctx); err != nil {
		slog.Error("failed to open camera", "error", err)
		t.println(alertStyle.Render(local.T(language, local.KeyCameraDenied)))
		return nil
	}
	t.println(local.T(language, local.KeyCameraOpened))

	for {
		frame, err := t.Camera.Frame(ctx)
		if err != nil {
			slog.Error("failed to grab camera frame", "error", err)
			_ = t.Camera.Close()
			return nil
		}
		t.print(preview(frame))

		input, err := t.Reader.Prompt(mutedStyle.Render("camera>") + " ")
		if err != nil || strings.TrimSpace(input) == commandClose {
			_ = t.Camera.Close()
			return ignoreAbort(err)
		}
		if strings.TrimSpace(input) == "" {
			break
		}
	}
	dataURI, err := t.Camera.Capture(ctx)
	if err != nil {
		slog.Error("failed to capture photo", "error", err)
		return nil
	}
	t.Workspace.Generation.AttachImage(dataURI)
	t.println(local.T(language, local.KeyImageAttached))
	return nil
}

// record captures a voice message until Enter sends it or /cancel discards
// it. Acquisition failures are only logged.
func (t *Terminal) record(ctx context.Context) error {
	language := t.Workspace.Session.Language()
	if err := t.recorder.Start(ctx); err != nil {
		slog.Error("failed to start recording", "error", err)
		return nil
	}
	t.println(local.T(language, local.KeyRecording))

	input, err := t.Reader.Prompt(t.prompt())
	if err != nil || strings.TrimSpace(input) == commandCancel {
		if cancelErr := t.recorder.Cancel(); cancelErr != nil {
			slog.Warn("failed to cancel recording", "error", cancelErr)
		}
		t.println(local.T(language, local.KeyRecordCancelled))
		return ignoreAbort(err)
	}
	elapsed := t.recorder.Elapsed()
	if t.recorder.Recording() {
		t.println(mutedStyle.Render(fmt.Sprintf("%d:%02d", elapsed/60, elapsed%60)))
	}
	if err = t.recorder.Finish(); err != nil {
		slog.Error("failed to finish recording", "error", err, "elapsed", elapsed)
	}
	return nil
}

// say reads a message of the active chat aloud: the n-th one when n is
// given, the latest assistant reply otherwise.
func (t *Terminal) say(ctx context.Context, args string) {
	language := t.Workspace.Session.Language()
	chat, ok := t.Workspace.Session.ActiveChat()
	if !ok || len(chat.Messages) == 0 {
		t.println(local.T(language, local.KeyNoChats))
		return
	}

	var message model.Message
	if args == "" {
		for i := len(chat.Messages) - 1; i >= 0; i-- {
			if chat.Messages[i].Role == model.MessageRoleAssistant {
				message = chat.Messages[i]
				break
			}
		}
	} else if n, err := strconv.Atoi(args); err == nil && n >= 1 && n <= len(chat.Messages) {
		message = chat.Messages[n-1]
	}
	if message.Content == "" {
		t.println(local.T(language, local.KeyUnknownCommand))
		return
	}

	t.println(mutedStyle.Render("♪ " + local.T(language, local.KeyListen)))
	_ = t.Workspace.Voice.Speak(ctx, message)
}

func (t *Terminal) chatByIndex(args string) (model.Chat, bool) {
	chats := t.Workspace.Session.Chats()
	n, err := strconv.Atoi(args)
	if err != nil || n < 1 || n > len(chats) {
		return model.Chat{}, false
	}
	return chats[n-1], true
}

func (t *Terminal) printChats() {
	session := t.Workspace.Session
	language := session.Language()
	chats := session.Chats()
	if len(chats) == 0 {
		t.println(local.T(language, local.KeyNoChats))
		return
	}
	activeChatID := session.ActiveChatID()
	t.println(accentStyle(session.Settings()).Render(local.T(language, local.KeyHistory)))
	for i, chat := range chats {
		marker := " "
		if chat.ID == activeChatID {
			marker = "•"
		}
		color := model.DefaultAccentColor
		if preset, ok := model.PresetByID(chat.PresetID); ok {
			color = preset.Color
		}
		dot := accentStyle(model.AppSettings{AccentColor: color}).Render("●")
		t.println(fmt.Sprintf("%s %2d %s %s %s", marker, i+1, dot, chat.Title, mutedStyle.Render(strconv.Itoa(len(chat.Messages)))))
	}
}

func (t *Terminal) printActiveChat() {
	session := t.Workspace.Session
	chat, ok := session.ActiveChat()
	if !ok {
		return
	}
	user := session.User()
	settings := session.Settings()
	for _, message := range chat.Messages {
		t.print(t.render.Message(message, user.Nickname, settings))
	}
}

func (t *Terminal) printPresets() {
	session := t.Workspace.Session
	language := session.Language()
	active := session.ActivePreset()
	for _, preset := range model.Presets {
		marker := " "
		if preset.ID == active.ID {
			marker = "•"
		}
		name := accentStyle(model.AppSettings{AccentColor: preset.Color}).Render(preset.Name.Text(language))
		t.println(fmt.Sprintf("%s %-10s %s", marker, preset.ID, name))
	}
}

func (t *Terminal) printProfile() {
	session := t.Workspace.Session
	language := session.Language()
	user := session.User()
	t.println(accentStyle(session.Settings()).Render(local.T(language, local.KeyProfileTitle)))
	t.println(user.Nickname)
	t.println(fmt.Sprintf("%s: %d", local.T(language, local.KeyRequests), user.Stats.TotalRequests))
	t.println(fmt.Sprintf("%s: %s", local.T(language, local.KeyFavMode), user.Stats.FavMode))
}

func (t *Terminal) print(s string) {
	_, _ = io.WriteString(t.Out, s)
}

func (t *Terminal) println(s string) {
	_, _ = io.WriteString(t.Out, s+"\n")
}
