package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/disintegration/imaging"
	"go.uber.org/zap"

	"github.com/nikkifashion/stockbot/internal/port"
)

const (
	maxImageDimension = 1024
	jpegQuality       = 85
)

// MediaService delivers an image-bearing message through a fixed fallback
// ladder: direct URL photo, re-encoded photo upload, document upload,
// caption-only text. Each tier is attempted only after the previous one
// failed, and failures are logged, never propagated: from the caller's
// point of view delivery always terminates.
type MediaService struct {
	transport port.ChatTransport
	fetcher   port.MediaFetcher
	logger    *zap.Logger
}

func NewMediaService(transport port.ChatTransport, fetcher port.MediaFetcher, logger *zap.Logger) *MediaService {
	return &MediaService{transport: transport, fetcher: fetcher, logger: logger}
}

// Deliver runs the cascade. With an empty caption and every tier failing
// the operation completes with zero outbound messages.
func (m *MediaService) Deliver(ctx context.Context, chatID int64, url, caption string) {
	tiers := []struct {
		name string
		send func() error
	}{
		{"photo-url", func() error { return m.transport.SendPhotoURL(ctx, chatID, url, caption) }},
		{"reencode", func() error { return m.sendReencoded(ctx, chatID, url, caption) }},
		{"document", func() error { return m.sendDocument(ctx, chatID, url, caption) }},
	}

	for _, tier := range tiers {
		err := tier.send()
		if err == nil {
			return
		}
		if errors.Is(err, port.ErrRejected) {
			m.logger.Warn("transport rejected representation, falling back",
				zap.String("tier", tier.name), zap.String("url", url), zap.Error(err))
		} else {
			m.logger.Warn("delivery tier failed, falling back",
				zap.String("tier", tier.name), zap.String("url", url), zap.Error(err))
		}
	}

	if caption == "" {
		m.logger.Warn("media delivery exhausted with no caption", zap.String("url", url))
		return
	}
	if err := m.transport.SendMessage(ctx, chatID, caption); err != nil {
		m.logger.Error("caption-only fallback failed", zap.String("url", url), zap.Error(err))
	}
}

// sendReencoded downloads the bytes, normalizes the color model, caps both
// dimensions at 1024 pixels with Lanczos resampling, and uploads the
// result as a JPEG photo.
func (m *MediaService) sendReencoded(ctx context.Context, chatID int64, url, caption string) error {
	data, err := m.fetcher.Fetch(ctx, url)
	if err != nil {
		return fmt.Errorf("download image: %w", err)
	}

	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("decode image: %w", err)
	}

	img = imaging.Clone(img)
	bounds := img.Bounds()
	if bounds.Dx() > maxImageDimension || bounds.Dy() > maxImageDimension {
		img = imaging.Fit(img, maxImageDimension, maxImageDimension, imaging.Lanczos)
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(jpegQuality)); err != nil {
		return fmt.Errorf("encode jpeg: %w", err)
	}

	return m.transport.SendPhotoData(ctx, chatID, "image.jpg", buf.Bytes(), caption)
}

// sendDocument re-downloads the raw bytes and ships them as an untyped
// file, for content that is not a decodable image.
func (m *MediaService) sendDocument(ctx context.Context, chatID int64, url, caption string) error {
	data, err := m.fetcher.Fetch(ctx, url)
	if err != nil {
		return fmt.Errorf("download file: %w", err)
	}
	return m.transport.SendDocument(ctx, chatID, "file", data, caption)
}
