package handlers

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/smith3v/dove-bot/pkg/logger"
	"github.com/smith3v/dove-bot/pkg/quotes"
)

func ExportFilename(now time.Time) string {
	return "dove-favorites-" + now.Format("2006-01-02") + ".csv"
}

// HandleExport sends the user's favorites as a CSV document.
func (h *Handler) HandleExport(ctx context.Context, b *bot.Bot, update *models.Update) {
	if !validMessage(update) {
		logger.Error("invalid update in HandleExport")
		return
	}
	chatID := update.Message.Chat.ID
	userID := update.Message.From.ID
	if update.Message.Chat.Type != models.ChatTypePrivate {
		sendText(ctx, b, chatID, "The /export command works only in private chat.")
		return
	}

	favorites, err := h.deck.Favorites(ctx, userID)
	if err != nil {
		logger.Error("failed to load favorites for export", "user_id", userID, "error", err)
		sendText(ctx, b, chatID, "Failed to export your favorites. Please try again later.")
		return
	}
	if len(favorites) == 0 {
		sendText(ctx, b, chatID, "You have no favorite quotes to export yet.")
		return
	}

	var buf bytes.Buffer
	if err := quotes.WriteCSV(&buf, favorites); err != nil {
		logger.Error("failed to build export CSV", "user_id", userID, "error", err)
		sendText(ctx, b, chatID, "Failed to export your favorites. Please try again later.")
		return
	}

	_, err = b.SendDocument(ctx, &bot.SendDocumentParams{
		ChatID: chatID,
		Document: &models.InputFileUpload{
			Filename: ExportFilename(h.now()),
			Data:     bytes.NewReader(buf.Bytes()),
		},
		Caption: fmt.Sprintf("Your favorite quotes (%d).", len(favorites)),
	})
	if err != nil {
		logger.Error("failed to send export document", "user_id", userID, "error", err)
		sendText(ctx, b, chatID, "Failed to export your favorites. Please try again later.")
	}
}
