// Package notifier delivers text messages to the configured Telegram chat.
package notifier

import (
	"context"
	"fmt"
	"net/http"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"golang.org/x/time/rate"
)

const sendTimeout = 30 * time.Second

type telegramAPI interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// Telegram sends plain-text messages to a single chat.
type Telegram struct {
	api     telegramAPI
	chatID  int64
	limiter *rate.Limiter
}

// New creates a Telegram notifier authenticated with token. It makes no
// network call; a bad token or an unreachable API surfaces on Send.
func New(token string, chatID int64) *Telegram {
	return newTelegram(newBotAPI(token, tgbotapi.APIEndpoint), chatID, rate.NewLimiter(rate.Every(time.Second), 1))
}

// newBotAPI builds the client the way tgbotapi.NewBotAPI does, minus the getMe check.
func newBotAPI(token, endpoint string) *tgbotapi.BotAPI {
	api := &tgbotapi.BotAPI{
		Token:  token,
		Client: &http.Client{Timeout: sendTimeout},
		Buffer: 100,
	}
	api.SetAPIEndpoint(endpoint)
	return api
}

func newTelegram(api telegramAPI, chatID int64, limiter *rate.Limiter) *Telegram {
	return &Telegram{api: api, chatID: chatID, limiter: limiter}
}

// ChatID returns the recipient chat.
func (t *Telegram) ChatID() int64 {
	return t.chatID
}

// Send delivers text to the chat, waiting for the send limiter first.
func (t *Telegram) Send(ctx context.Context, text string) error {
	if err := t.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("wait send slot: %w", err)
	}

	msg := tgbotapi.NewMessage(t.chatID, text)
	msg.DisableWebPagePreview = true
	if _, err := t.api.Send(msg); err != nil {
		return fmt.Errorf("send message to chat %d: %w", t.chatID, err)
	}
	return nil
}
