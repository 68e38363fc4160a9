package port

import (
	"context"
	"errors"
)

// ErrRejected marks a send the chat transport refused for this particular
// representation (bad URL, wrong content type, oversized), as opposed to a
// network failure reaching the transport.
var ErrRejected = errors.New("transport rejected content")

// ChatTransport is the outbound side of the chat service.
type ChatTransport interface {
	SendPhotoURL(ctx context.Context, chatID int64, url, caption string) error
	SendPhotoData(ctx context.Context, chatID int64, filename string, data []byte, caption string) error
	SendDocument(ctx context.Context, chatID int64, filename string, data []byte, caption string) error
	SendMessage(ctx context.Context, chatID int64, text string) error
	SendTyping(ctx context.Context, chatID int64) error
}
