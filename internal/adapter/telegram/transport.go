package telegram

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/nikkifashion/stockbot/internal/port"
)

// Transport implements port.ChatTransport over the Telegram Bot API. All
// outbound text is sent with Markdown parse mode, matching the replies the
// bot composes.
type Transport struct {
	bot *tgbotapi.BotAPI
}

func NewTransport(bot *tgbotapi.BotAPI) *Transport {
	return &Transport{bot: bot}
}

func (t *Transport) SendPhotoURL(ctx context.Context, chatID int64, url, caption string) error {
	photo := tgbotapi.NewPhoto(chatID, tgbotapi.FileURL(url))
	photo.Caption = caption
	photo.ParseMode = tgbotapi.ModeMarkdown
	return t.send(photo)
}

func (t *Transport) SendPhotoData(ctx context.Context, chatID int64, filename string, data []byte, caption string) error {
	photo := tgbotapi.NewPhoto(chatID, tgbotapi.FileBytes{Name: filename, Bytes: data})
	photo.Caption = caption
	photo.ParseMode = tgbotapi.ModeMarkdown
	return t.send(photo)
}

func (t *Transport) SendDocument(ctx context.Context, chatID int64, filename string, data []byte, caption string) error {
	doc := tgbotapi.NewDocument(chatID, tgbotapi.FileBytes{Name: filename, Bytes: data})
	doc.Caption = caption
	doc.ParseMode = tgbotapi.ModeMarkdown
	return t.send(doc)
}

func (t *Transport) SendMessage(ctx context.Context, chatID int64, text string) error {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdown
	return t.send(msg)
}

func (t *Transport) SendTyping(ctx context.Context, chatID int64) error {
	_, err := t.bot.Request(tgbotapi.NewChatAction(chatID, tgbotapi.ChatTyping))
	return err
}

// send maps a bad-request response onto port.ErrRejected so the delivery
// cascade can tell "this representation was refused" apart from a network
// failure.
func (t *Transport) send(c tgbotapi.Chattable) error {
	if _, err := t.bot.Send(c); err != nil {
		var apiErr *tgbotapi.Error
		if errors.As(err, &apiErr) && apiErr.Code == http.StatusBadRequest {
			return fmt.Errorf("%w: %s", port.ErrRejected, apiErr.Message)
		}
		return err
	}
	return nil
}
