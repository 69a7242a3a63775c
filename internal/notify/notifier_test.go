package notify

import (
	"context"
	"testing"
	"time"
)

func TestHandleMessageFulfilsPending(t *testing.T) {
	tg := &Telegram{pendings: map[string]*pending{}}
	p := &pending{ch: make(chan string, 1), codeLen: 6}
	tg.pendings["Fidelity 1"] = p

	tg.handleMessage("hello there")
	tg.handleMessage("12345")   // too short
	tg.handleMessage("1234567") // too long
	tg.handleMessage("12345a")  // not digits
	select {
	case code := <-p.ch:
		t.Fatalf("non-code message delivered %q", code)
	default:
	}

	tg.handleMessage(" 654321 ")
	select {
	case code := <-p.ch:
		if code != "654321" {
			t.Errorf("code = %q", code)
		}
	default:
		t.Fatal("code was not delivered")
	}
	if len(tg.pendings) != 0 {
		t.Error("pending entry was not cleared")
	}
}

func TestDigitsOnly(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"123456", true},
		{"12a456", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := digitsOnly(tt.in); got != tt.want {
			t.Errorf("digitsOnly(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestTelegramAwaitCodeContextCancel(t *testing.T) {
	tg := &Telegram{pendings: map[string]*pending{}}
	// unconfigured chat refuses instead of blocking forever
	if _, err := tg.AwaitCode(context.Background(), "x", 6, time.Second); err == nil {
		t.Error("want error for unconfigured notifier")
	}
}
