// Package chat is the floating assistant widget: open/close state, message
// sending through the chat API, canned local replies and reply formatting.
package chat

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/wolfman30/cozyhotel-client/internal/hotelapi"
	"github.com/wolfman30/cozyhotel-client/pkg/logging"
)

// Mode selects where replies come from.
type Mode string

const (
	ModeServer Mode = "server"
	ModeLocal  Mode = "local"
)

// ParseMode maps a config value to a Mode; anything unknown is ModeServer.
func ParseMode(s string) Mode {
	if strings.EqualFold(strings.TrimSpace(s), string(ModeLocal)) {
		return ModeLocal
	}
	return ModeServer
}

const (
	NoticeLoginRequired  = "⚠️ يجب تسجيل الدخول أولاً للتحدث مع البوت"
	NoticeSessionExpired = "⚠️ يجب تسجيل الدخول للاستمرار"
	NoticeBadReply       = "⚠️ عذراً، حدث خطأ في معالجة طلبك"
	NoticeConnection     = "⚠️ عذراً، حدث خطأ في الاتصال بالخادم"
)

// QuickOptions are the canned prompts behind the widget's option buttons.
var QuickOptions = map[string]string{
	"1": "وريني كل الغرف",
	"2": "وريني الغرف المتاحة",
	"3": "آخر الحجوزات",
	"4": "إحصائيات نوع الغرفة",
}

// Sender delivers a message to the assistant.
type Sender interface {
	Send(ctx context.Context, message string) (*hotelapi.ChatReply, error)
}

// LoginChecker reports whether a credential is stored.
type LoginChecker interface {
	IsLoggedIn(ctx context.Context) bool
}

// Author tags a transcript entry.
type Author string

const (
	FromUser Author = "user"
	FromBot  Author = "bot"
)

type Message struct {
	From Author `json:"from"`
	Text string `json:"text"`
}

// Widget holds the chat state. It is safe for concurrent use.
type Widget struct {
	api    Sender
	creds  LoginChecker
	mode   Mode
	logger *logging.Logger

	mu         sync.Mutex
	open       bool
	transcript []Message
}

func NewWidget(api Sender, creds LoginChecker, mode Mode, logger *logging.Logger) *Widget {
	if logger == nil {
		logger = logging.Default()
	}
	if mode == "" {
		mode = ModeServer
	}
	return &Widget{api: api, creds: creds, mode: mode, logger: logger}
}

func (w *Widget) Open() {
	w.mu.Lock()
	w.open = true
	w.mu.Unlock()
}

func (w *Widget) Close() {
	w.mu.Lock()
	w.open = false
	w.mu.Unlock()
}

// Toggle flips the window and returns the new state.
func (w *Widget) Toggle() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.open = !w.open
	return w.open
}

func (w *Widget) IsOpen() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.open
}

// Transcript returns a copy of the conversation so far.
func (w *Widget) Transcript() []Message {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]Message(nil), w.transcript...)
}

// Send posts text and returns the bot's reply. Blank text is ignored and
// reports ok=false. Failures come back as a notice, never as an error.
func (w *Widget) Send(ctx context.Context, text string) (reply string, ok bool) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", false
	}

	if w.mode == ModeLocal {
		w.record(FromUser, text)
		reply = Fallback(text)
		w.record(FromBot, reply)
		return reply, true
	}

	if w.creds == nil || !w.creds.IsLoggedIn(ctx) {
		w.record(FromBot, NoticeLoginRequired)
		return NoticeLoginRequired, true
	}

	w.record(FromUser, text)
	resp, err := w.api.Send(ctx, text)
	switch {
	case err != nil:
		reply = errorNotice(err)
		w.logger.Warn("chat: send failed", "error", err)
	case resp != nil && resp.Reply != "":
		reply = resp.Reply
	case resp != nil && resp.Message != "":
		reply = resp.Message
	default:
		reply = NoticeBadReply
	}
	w.record(FromBot, reply)
	return reply, true
}

// SendOption sends the canned prompt of a quick option button.
func (w *Widget) SendOption(ctx context.Context, option string) (string, bool) {
	prompt, found := QuickOptions[strings.TrimSpace(option)]
	if !found {
		return "", false
	}
	return w.Send(ctx, prompt)
}

func (w *Widget) record(from Author, text string) {
	w.mu.Lock()
	w.transcript = append(w.transcript, Message{From: from, Text: text})
	w.mu.Unlock()
}

func errorNotice(err error) string {
	if errors.Is(err, hotelapi.ErrAuthenticationRequired) {
		return NoticeSessionExpired
	}
	if msg := hotelapi.ErrorMessage(err); msg != "" {
		return "⚠️ " + msg
	}
	return NoticeConnection
}
