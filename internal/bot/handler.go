package bot

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	tgbot "github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/sirupsen/logrus"

	"curator/internal/domain"
	"curator/internal/storage"
)

// Ingestor runs the ingestion pipeline for one URL.
type Ingestor interface {
	Ingest(ctx context.Context, url, userID string) (domain.Resource, error)
}

// Handler holds dependencies for the Telegram bot handlers.
type Handler struct {
	bot    *tgbot.Bot
	ingest Ingestor
	repo   storage.Repository
	log    logrus.FieldLogger
}

// NewHandler creates a new bot handler instance.
func NewHandler(token string, ingest Ingestor, repo storage.Repository, logger logrus.FieldLogger) (*Handler, error) {
	h := &Handler{
		ingest: ingest,
		repo:   repo,
		log:    logger.WithField("component", "bot_handler"),
	}

	b, err := tgbot.New(token, tgbot.WithDefaultHandler(h.defaultHandler))
	if err != nil {
		h.log.WithError(err).Error("Failed to create Telegram bot instance")
		return nil, fmt.Errorf("failed to create bot: %w", err)
	}
	h.bot = b

	b.RegisterHandler(tgbot.HandlerTypeMessageText, "/start", tgbot.MatchTypeExact, h.startHandler)
	b.RegisterHandler(tgbot.HandlerTypeMessageText, "/library", tgbot.MatchTypeExact, h.libraryHandler)
	b.RegisterHandler(tgbot.HandlerTypeMessageText, "/delete", tgbot.MatchTypePrefix, h.deleteHandler)

	h.log.Info("Telegram bot handler initialized")
	return h, nil
}

// Start begins polling for updates from Telegram.
// This function blocks until the context is cancelled.
func (h *Handler) Start(ctx context.Context) {
	h.log.Info("Starting Telegram bot polling...")
	h.bot.Start(ctx)
	h.log.Info("Telegram bot polling stopped.")
}

// telegramUserID maps a Telegram account onto an opaque owner reference.
func telegramUserID(id int64) string {
	return "tg:" + strconv.FormatInt(id, 10)
}

func (h *Handler) reply(ctx context.Context, b *tgbot.Bot, update *models.Update, text string) {
	_, err := b.SendMessage(ctx, &tgbot.SendMessageParams{
		ChatID: update.Message.Chat.ID,
		Text:   text,
	})
	if err != nil {
		h.log.WithError(err).Error("Failed to send message")
	}
}

func (h *Handler) startHandler(ctx context.Context, b *tgbot.Bot, update *models.Update) {
	h.log.WithField("user_id", update.Message.From.ID).Info("Received /start command")
	h.reply(ctx, b, update, "Welcome! Send me a link to a video, article or documentation page and I'll file it in your library. Use /library to see it.")
}

// defaultHandler ingests the first URL found in a message.
func (h *Handler) defaultHandler(ctx context.Context, b *tgbot.Bot, update *models.Update) {
	if update.Message == nil || update.Message.From == nil {
		return
	}
	userID := telegramUserID(update.Message.From.ID)
	link, ok := FirstURL(update.Message.Text)
	if !ok {
		h.reply(ctx, b, update, "Send me a link (http:// or https://) to save it.")
		return
	}

	log := h.log.WithFields(logrus.Fields{"user_id": userID, "url": link})
	res, err := h.ingest.Ingest(ctx, link, userID)
	if err != nil {
		log.WithError(err).Warn("Ingestion failed")
		h.reply(ctx, b, update, "❌ Error: "+err.Error())
		return
	}
	h.reply(ctx, b, update, "✅ Saved!\n"+FormatResource(res))
}

func (h *Handler) libraryHandler(ctx context.Context, b *tgbot.Bot, update *models.Update) {
	userID := telegramUserID(update.Message.From.ID)
	resources, err := h.repo.List(ctx, userID)
	if err != nil {
		h.log.WithError(err).WithField("user_id", userID).Error("Failed to load library")
		h.reply(ctx, b, update, "Could not load your library, try again later.")
		return
	}
	h.reply(ctx, b, update, FormatLibrary(domain.GroupByTopic(resources)))
}

// deleteHandler removes a resource owned by the sender.
func (h *Handler) deleteHandler(ctx context.Context, b *tgbot.Bot, update *models.Update) {
	userID := telegramUserID(update.Message.From.ID)
	id := strings.TrimSpace(strings.TrimPrefix(update.Message.Text, "/delete"))
	if id == "" {
		h.reply(ctx, b, update, "Usage: /delete <id>")
		return
	}

	owned, err := h.repo.List(ctx, userID)
	if err != nil {
		h.log.WithError(err).Error("Failed to load library")
		h.reply(ctx, b, update, "Could not delete, try again later.")
		return
	}
	for _, r := range owned {
		if r.ID != id {
			continue
		}
		if err := h.repo.Delete(ctx, id); err != nil {
			h.log.WithError(err).WithField("id", id).Error("Failed to delete resource")
			h.reply(ctx, b, update, "Could not delete, try again later.")
			return
		}
		h.reply(ctx, b, update, "🗑 Deleted "+r.Title)
		return
	}
	h.reply(ctx, b, update, "Nothing to delete with that id.")
}
