package telegram

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/nikkifashion/stockbot/internal/core/domain"
	"github.com/nikkifashion/stockbot/internal/core/service"
	"github.com/nikkifashion/stockbot/internal/port"
)

// Bot routes inbound Telegram updates to the stock and media services.
// Each update is handled on its own goroutine; within one update the
// remote calls run strictly sequentially.
type Bot struct {
	api         *tgbotapi.BotAPI
	transport   port.ChatTransport
	stock       *service.StockService
	media       *service.MediaService
	fetcher     port.MediaFetcher
	decoder     port.BarcodeDecoder // nil disables photo scanning
	storeDomain string
	pollTimeout time.Duration
	logger      *zap.Logger
}

func NewBot(
	api *tgbotapi.BotAPI,
	transport port.ChatTransport,
	stock *service.StockService,
	media *service.MediaService,
	fetcher port.MediaFetcher,
	decoder port.BarcodeDecoder,
	storeDomain string,
	pollTimeout time.Duration,
	logger *zap.Logger,
) *Bot {
	return &Bot{
		api:         api,
		transport:   transport,
		stock:       stock,
		media:       media,
		fetcher:     fetcher,
		decoder:     decoder,
		storeDomain: storeDomain,
		pollTimeout: pollTimeout,
		logger:      logger,
	}
}

// Run long-polls for updates until the context is cancelled.
func (b *Bot) Run(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = int(b.pollTimeout.Seconds())
	updates := b.api.GetUpdatesChan(u)

	b.logger.Info("bot started", zap.String("username", b.api.Self.UserName))
	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			return ctx.Err()
		case update := <-updates:
			go b.handleUpdate(ctx, update)
		}
	}
}

// handleUpdate dispatches one update. Panics are caught here so a broken
// handler never kills the process; the user gets a generic failure notice
// when the update carries a chat to answer into.
func (b *Bot) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	logger := b.logger.With(zap.String("op", uuid.NewString()))

	// The recovery is installed before any update field is dereferenced;
	// Telegram sends callback queries without a Message for stale chats.
	var chatID int64
	defer func() {
		if r := recover(); r != nil {
			logger.Error("handler panic", zap.Any("panic", r))
			if chatID == 0 {
				return
			}
			if err := b.transport.SendMessage(ctx, chatID, genericFailureText); err != nil {
				logger.Error("failure notice not delivered", zap.Error(err))
			}
		}
	}()

	if cq := update.CallbackQuery; cq != nil {
		if cq.Message != nil {
			chatID = cq.Message.Chat.ID
		}
		b.handleQuit(ctx, logger, cq)
		return
	}

	msg := update.Message
	if msg == nil {
		return
	}
	chatID = msg.Chat.ID

	switch {
	case msg.IsCommand():
		b.handleCommand(ctx, logger, msg)
	case len(msg.Photo) > 0:
		b.handlePhoto(ctx, logger, msg)
	case strings.TrimSpace(msg.Text) != "":
		b.handleSKU(ctx, logger, chatID, strings.TrimSpace(msg.Text))
	}
}

func (b *Bot) handleCommand(ctx context.Context, logger *zap.Logger, msg *tgbotapi.Message) {
	chatID := msg.Chat.ID
	args := strings.Fields(msg.CommandArguments())

	switch msg.Command() {
	case "start":
		b.handleStart(ctx, logger, chatID)
	case "help":
		b.reply(ctx, logger, chatID, commandsText)
	case "qrtest":
		if b.decoder != nil {
			b.reply(ctx, logger, chatID, scanEnabledText)
		} else {
			b.reply(ctx, logger, chatID, scanDisabledText)
		}
	case "privacy":
		b.reply(ctx, logger, chatID, privacyPolicy)
	case "setstock":
		b.handleSetStock(ctx, logger, chatID, args)
	case "return":
		b.handleReturn(ctx, logger, chatID, args)
	default:
		b.reply(ctx, logger, chatID, unknownCommandText)
	}
}

// handleStart sends the welcome message with the collection shortcut
// keyboard. The keyboard is Telegram UI, so it goes through the API
// client directly rather than the transport port.
func (b *Bot) handleStart(ctx context.Context, logger *zap.Logger, chatID int64) {
	kb := tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonURL("Cargos", b.storeDomain+"/collections/cargos"),
			tgbotapi.NewInlineKeyboardButtonURL("Jeans", b.storeDomain+"/collections/jeans"),
			tgbotapi.NewInlineKeyboardButtonURL("All", b.storeDomain+"/collections/all"),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("Quit", "quit"),
		),
	)

	m := tgbotapi.NewMessage(chatID, welcomeText)
	m.ReplyMarkup = kb
	if _, err := b.api.Send(m); err != nil {
		logger.Error("welcome not delivered", zap.Error(err))
	}
}

func (b *Bot) handleQuit(ctx context.Context, logger *zap.Logger, cq *tgbotapi.CallbackQuery) {
	if _, err := b.api.Request(tgbotapi.NewCallback(cq.ID, "")); err != nil {
		logger.Warn("callback ack failed", zap.Error(err))
	}

	// Stale callbacks arrive without the originating message; nothing to
	// edit or reply into then.
	if cq.Message == nil {
		return
	}

	empty := tgbotapi.InlineKeyboardMarkup{InlineKeyboard: [][]tgbotapi.InlineKeyboardButton{}}
	edit := tgbotapi.NewEditMessageReplyMarkup(cq.Message.Chat.ID, cq.Message.MessageID, empty)
	if _, err := b.api.Send(edit); err != nil {
		logger.Warn("keyboard removal failed", zap.Error(err))
	}

	b.reply(ctx, logger, cq.Message.Chat.ID, goodbyeText)
}

// handleSKU answers a plain-text message with a product card, delivered
// through the media cascade when the product has at least one image.
func (b *Bot) handleSKU(ctx context.Context, logger *zap.Logger, chatID int64, sku string) {
	b.typing(ctx, logger, chatID)

	product, err := b.stock.Product(ctx, sku)
	if errors.Is(err, service.ErrSKUNotFound) {
		b.reply(ctx, logger, chatID, fmt.Sprintf("❌ No product for SKU `%s`", sku))
		return
	}
	if err != nil {
		logger.Error("product lookup failed", zap.String("sku", sku), zap.Error(err))
		b.reply(ctx, logger, chatID, genericFailureText)
		return
	}

	caption := buildProductCaption(product)
	if len(product.Images) > 0 {
		b.media.Deliver(ctx, chatID, product.Images[0], caption)
		return
	}
	b.reply(ctx, logger, chatID, caption)
}

func (b *Bot) handleSetStock(ctx context.Context, logger *zap.Logger, chatID int64, args []string) {
	if len(args) != 2 {
		b.reply(ctx, logger, chatID, setStockUsageText)
		return
	}
	sku := args[0]
	qty, err := strconv.Atoi(args[1])
	if err != nil {
		b.reply(ctx, logger, chatID, qtyNotNumberText)
		return
	}

	b.typing(ctx, logger, chatID)

	update, err := b.stock.SetAbsoluteStock(ctx, sku, qty)
	if err != nil {
		b.replyStockError(ctx, logger, chatID, sku, err)
		return
	}
	b.reply(ctx, logger, chatID,
		fmt.Sprintf("✅ Stock for `%s` set %d → %d", update.SKU, update.Previous, update.Target))
}

func (b *Bot) handleReturn(ctx context.Context, logger *zap.Logger, chatID int64, args []string) {
	if len(args) != 2 {
		b.reply(ctx, logger, chatID, returnUsageText)
		return
	}
	sku := args[0]
	qty, err := strconv.Atoi(args[1])
	if err != nil {
		b.reply(ctx, logger, chatID, qtyNotNumberText)
		return
	}

	b.processReturn(ctx, logger, chatID, sku, qty)
}

func (b *Bot) processReturn(ctx context.Context, logger *zap.Logger, chatID int64, sku string, qty int) {
	b.typing(ctx, logger, chatID)

	result, err := b.stock.ApplyReturn(ctx, sku, qty)
	if err != nil {
		b.replyStockError(ctx, logger, chatID, sku, err)
		return
	}
	b.reply(ctx, logger, chatID,
		fmt.Sprintf("✅ Return: `%s` +%d → %d", result.SKU, result.Returned, result.NewQuantity))
}

// handlePhoto decodes a QR/barcode from the largest photo size and feeds
// the payload into the return flow. Without a decoder the capability is
// reported as disabled.
func (b *Bot) handlePhoto(ctx context.Context, logger *zap.Logger, msg *tgbotapi.Message) {
	chatID := msg.Chat.ID
	if b.decoder == nil {
		b.reply(ctx, logger, chatID, scanDisabledText)
		return
	}

	b.typing(ctx, logger, chatID)

	photo := msg.Photo[len(msg.Photo)-1]
	fileURL, err := b.api.GetFileDirectURL(photo.FileID)
	if err != nil {
		logger.Error("photo file lookup failed", zap.Error(err))
		b.reply(ctx, logger, chatID, genericFailureText)
		return
	}

	data, err := b.fetcher.Fetch(ctx, fileURL)
	if err != nil {
		logger.Error("photo download failed", zap.Error(err))
		b.reply(ctx, logger, chatID, genericFailureText)
		return
	}

	payload, err := b.decoder.Decode(data)
	if err != nil {
		logger.Info("no code in photo", zap.Error(err))
		b.reply(ctx, logger, chatID, noCodeText)
		return
	}

	scan, err := domain.ParseScanPayload(payload)
	if err != nil {
		b.reply(ctx, logger, chatID,
			fmt.Sprintf("Detected `%s`; send `/return %s <qty>`", payload, payload))
		return
	}

	if !scan.Explicit {
		b.reply(ctx, logger, chatID,
			fmt.Sprintf("🔄 Detected SKU `%s`, adding 1 to stock…", scan.SKU))
	}
	b.processReturn(ctx, logger, chatID, scan.SKU, scan.Quantity)
}

// replyStockError maps a reconciliation failure onto the user-facing
// message for its kind: unresolvable SKU, remote-reported error, or a
// generic notice for network-level failures.
func (b *Bot) replyStockError(ctx context.Context, logger *zap.Logger, chatID int64, sku string, err error) {
	var remote *domain.RemoteError
	switch {
	case errors.Is(err, service.ErrSKUNotFound):
		b.reply(ctx, logger, chatID, notFoundText)
	case errors.Is(err, service.ErrInvalidQuantity):
		b.reply(ctx, logger, chatID, qtyNotNumberText)
	case errors.As(err, &remote):
		b.reply(ctx, logger, chatID, "❌ "+remote.Error())
	default:
		logger.Error("stock operation failed", zap.String("sku", sku), zap.Error(err))
		b.reply(ctx, logger, chatID, genericFailureText)
	}
}

func (b *Bot) reply(ctx context.Context, logger *zap.Logger, chatID int64, text string) {
	if err := b.transport.SendMessage(ctx, chatID, text); err != nil {
		logger.Error("reply not delivered", zap.Error(err))
	}
}

func (b *Bot) typing(ctx context.Context, logger *zap.Logger, chatID int64) {
	if err := b.transport.SendTyping(ctx, chatID); err != nil {
		logger.Debug("typing action failed", zap.Error(err))
	}
}
