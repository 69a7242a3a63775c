package notify

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"os"
	"strings"
	"sync"
	"time"

	tgbot "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Notifier is the reporting sink and the out-of-band code channel. The
// flows never talk to Telegram directly.
type Notifier interface {
	Send(msg string)
	Sendf(format string, args ...any)
	// AwaitCode prompts for a numeric code of codeLen digits and blocks
	// until one arrives, the timeout fires or ctx is cancelled.
	AwaitCode(ctx context.Context, label string, codeLen int, timeout time.Duration) (string, error)
}

// Telegram — passive notifier plus SMS-code relay over long polling.
type Telegram struct {
	bot    *tgbot.BotAPI
	chatID int64

	mu       sync.Mutex
	pendings map[string]*pending
}

type pending struct {
	ch      chan string
	codeLen int
}

func NewTelegram(token string, chatID int64) (*Telegram, error) {
	b, err := tgbot.NewBotAPI(token)
	if err != nil {
		return nil, err
	}
	return &Telegram{
		bot:      b,
		chatID:   chatID,
		pendings: make(map[string]*pending),
	}, nil
}

func (t *Telegram) Send(msg string) {
	if t == nil || t.bot == nil || t.chatID == 0 {
		return
	}
	_, _ = t.bot.Send(tgbot.NewMessage(t.chatID, msg))
}

func (t *Telegram) Sendf(format string, args ...any) { t.Send(fmt.Sprintf(format, args...)) }

// AwaitCode asks the chat for the code and waits for the next message
// that is exactly codeLen digits. Any other message is ignored so normal
// chatter cannot complete a login.
func (t *Telegram) AwaitCode(ctx context.Context, label string, codeLen int, timeout time.Duration) (string, error) {
	if t == nil || t.bot == nil || t.chatID == 0 {
		return "", fmt.Errorf("telegram notifier is not configured")
	}

	p := &pending{
		ch:      make(chan string, 1),
		codeLen: codeLen,
	}
	t.mu.Lock()
	t.pendings[label] = p
	t.mu.Unlock()

	defer func() {
		t.mu.Lock()
		delete(t.pendings, label)
		t.mu.Unlock()
	}()

	t.Sendf("🔐 %s: reply with the %d-digit code sent by SMS", label, codeLen)

	tmr := time.NewTimer(timeout)
	defer tmr.Stop()

	select {
	case code := <-p.ch:
		return code, nil
	case <-tmr.C:
		t.Sendf("⏳ %s: timed out waiting for the code", label)
		return "", fmt.Errorf("timed out after %s waiting for code", timeout)
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

// handleMessage fulfils the oldest pending request when the text looks
// like a code.
func (t *Telegram) handleMessage(text string) {
	code := strings.TrimSpace(text)

	t.mu.Lock()
	defer t.mu.Unlock()
	for label, p := range t.pendings {
		if len(code) != p.codeLen || !digitsOnly(code) {
			continue
		}
		p.ch <- code
		close(p.ch)
		delete(t.pendings, label)
		return
	}
}

func digitsOnly(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return len(s) > 0
}

// Start: long polling on the configured chat only.
func (t *Telegram) Start(ctx context.Context) {
	if t == nil || t.bot == nil {
		return
	}

	u := tgbot.NewUpdate(0)
	u.Timeout = 30
	u.AllowedUpdates = []string{"message"}

	updates := t.bot.GetUpdatesChan(u)
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case upd := <-updates:
				if upd.Message != nil && upd.Message.Chat != nil &&
					upd.Message.Chat.ID == t.chatID {
					t.handleMessage(upd.Message.Text)
				}
			}
		}
	}()
}

func (t *Telegram) Stop() {
	if t == nil || t.bot == nil {
		return
	}
	t.bot.StopReceivingUpdates()
}

// Stdout is the fallback when no bot token is configured: reports go to
// the process log, codes are read from stdin.
type Stdout struct{}

func (Stdout) Send(msg string) { log.Println(msg) }

func (Stdout) Sendf(format string, args ...any) { log.Printf(format, args...) }

func (Stdout) AwaitCode(ctx context.Context, label string, codeLen int, timeout time.Duration) (string, error) {
	log.Printf("%s: enter the %d-digit code: ", label, codeLen)

	lines := make(chan string, 1)
	go func() {
		sc := bufio.NewScanner(os.Stdin)
		if sc.Scan() {
			lines <- strings.TrimSpace(sc.Text())
		}
	}()

	tmr := time.NewTimer(timeout)
	defer tmr.Stop()

	select {
	case code := <-lines:
		if len(code) != codeLen || !digitsOnly(code) {
			return "", fmt.Errorf("%q is not a %d-digit code", code, codeLen)
		}
		return code, nil
	case <-tmr.C:
		return "", fmt.Errorf("timed out after %s waiting for code", timeout)
	case <-ctx.Done():
		return "", ctx.Err()
	}
}
