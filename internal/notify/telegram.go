// Package notify sends run reports to a Telegram chat.
package notify

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sethvargo/go-retry"

	"reels_monitor/internal/model"
)

const sendRetries = 2

type telegramAPI interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// Reporter sends formatted reports to a single Telegram chat.
type Reporter struct {
	api         telegramAPI
	chatID      int64
	log         *slog.Logger
	backoffBase time.Duration
}

// New creates a Reporter with the given bot token and target chat.
func New(token string, chatID int64, log *slog.Logger) (*Reporter, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("create bot api: %w", err)
	}
	return NewWithAPI(api, chatID, log), nil
}

// NewWithAPI creates a Reporter around an existing API client (useful for testing).
func NewWithAPI(api telegramAPI, chatID int64, log *slog.Logger) *Reporter {
	return &Reporter{
		api:         api,
		chatID:      chatID,
		log:         log,
		backoffBase: time.Second,
	}
}

// SendReport formats and sends the newly discovered posts, splitting the
// report into multiple messages when it exceeds Telegram's length limit.
// A send failure is returned to the caller but does not affect persisted
// state; notification is decoupled from persistence.
func (r *Reporter) SendReport(ctx context.Context, posts []model.Post) error {
	text := FormatReport(posts, time.Now())
	chunks := splitMessage(text)
	for i, chunk := range chunks {
		if err := r.send(ctx, chunk); err != nil {
			return fmt.Errorf("send part %d/%d: %w", i+1, len(chunks), err)
		}
		r.log.Debug("report part sent", "part", i+1, "parts", len(chunks), "chars", len(chunk))
	}
	return nil
}

func (r *Reporter) send(ctx context.Context, text string) error {
	msg := tgbotapi.NewMessage(r.chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	msg.DisableWebPagePreview = true

	backoff := retry.WithMaxRetries(sendRetries, retry.NewExponential(r.backoffBase))
	return retry.Do(ctx, backoff, func(ctx context.Context) error {
		if _, err := r.api.Send(msg); err != nil {
			r.log.Warn("telegram send failed", "error", err)
			return retry.RetryableError(err)
		}
		return nil
	})
}
