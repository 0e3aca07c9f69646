package handlers

import (
	"context"
	"errors"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/smith3v/dove-bot/pkg/deck"
	"github.com/smith3v/dove-bot/pkg/logger"
	"github.com/smith3v/dove-bot/pkg/ui"
)

func (h *Handler) HandleQuote(ctx context.Context, b *bot.Bot, update *models.Update) {
	if !validMessage(update) {
		logger.Error("invalid update in HandleQuote")
		return
	}
	if err := h.sendCard(ctx, b, update.Message.Chat.ID, update.Message.From.ID); err != nil {
		logger.Error("failed to send quote card", "user_id", update.Message.From.ID, "error", err)
		sendText(ctx, b, update.Message.Chat.ID, "Failed to load your quote. Please try again later.")
	}
}

// sendCard posts the current card as a new message.
func (h *Handler) sendCard(ctx context.Context, b *bot.Bot, chatID, userID int64) error {
	view, err := h.deck.Open(ctx, userID)
	if err != nil {
		return err
	}
	text, keyboard, err := ui.RenderCard(view)
	if err != nil {
		return err
	}
	_, err = b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:      chatID,
		Text:        text,
		ReplyMarkup: keyboard,
	})
	return err
}

func (h *Handler) HandleDeckCallback(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update == nil || update.CallbackQuery == nil {
		logger.Error("invalid update in HandleDeckCallback")
		return
	}
	msg, ok := callbackMessage(update)
	if !ok {
		answerCallback(ctx, b, update, "Message missing")
		return
	}
	action, err := ui.ParseDeckCallback(update.CallbackQuery.Data)
	if err != nil {
		answerCallback(ctx, b, update, "Unknown action")
		return
	}
	userID := update.CallbackQuery.From.ID

	var view deck.View
	switch action.Op {
	case ui.DeckOpOpen:
		if err := h.sendCard(ctx, b, msg.Chat.ID, userID); err != nil {
			logger.Error("failed to open quote card", "user_id", userID, "error", err)
			answerCallback(ctx, b, update, "Failed")
			return
		}
		answerCallback(ctx, b, update, "")
		return
	case ui.DeckOpShare:
		text, err := h.deck.Share(ctx, userID, action.Token)
		if err != nil {
			h.answerDeckError(ctx, b, update, userID, err)
			return
		}
		sendText(ctx, b, msg.Chat.ID, text)
		answerCallback(ctx, b, update, "")
		return
	case ui.DeckOpNext:
		view, err = h.deck.Advance(ctx, userID, action.Token)
	case ui.DeckOpLike:
		view, err = h.deck.ToggleFavorite(ctx, userID, action.Token)
	case ui.DeckOpFavorites:
		view, err = h.deck.SetFilter(ctx, userID, action.Token, deck.FilterFavorites)
	case ui.DeckOpAll:
		view, err = h.deck.SetFilter(ctx, userID, action.Token, deck.FilterAll)
	default:
		answerCallback(ctx, b, update, "Unknown action")
		return
	}
	if err != nil {
		h.answerDeckError(ctx, b, update, userID, err)
		return
	}

	text, keyboard, err := ui.RenderCard(view)
	if err != nil {
		logger.Error("failed to render quote card", "user_id", userID, "error", err)
		answerCallback(ctx, b, update, "Failed")
		return
	}
	if err := editMessage(ctx, b, msg.Chat.ID, msg.ID, text, keyboard); err != nil {
		logger.Error("failed to edit quote card", "user_id", userID, "error", err)
	}
	if view.Celebrate {
		sendText(ctx, b, msg.Chat.ID, ui.RenderCelebration())
	}
	if view.FilterReset {
		answerCallback(ctx, b, update, "No favorites left, showing all quotes")
		return
	}
	answerCallback(ctx, b, update, "")
}

func (h *Handler) answerDeckError(ctx context.Context, b *bot.Bot, update *models.Update, userID int64, err error) {
	switch {
	case errors.Is(err, deck.ErrStaleGesture):
		answerCallback(ctx, b, update, "This card is no longer active")
	case errors.Is(err, deck.ErrEmptyFilteredSet):
		answerCallback(ctx, b, update, "Like a quote first to see your favorites")
	default:
		logger.Error("failed to apply card action", "user_id", userID, "error", err)
		answerCallback(ctx, b, update, "Failed")
	}
}
