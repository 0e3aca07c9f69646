package ui

import (
	"fmt"
	"strings"

	"github.com/go-telegram/bot/models"
	"github.com/smith3v/dove-bot/pkg/deck"
)

const (
	CelebrationTitle   = "You have liked 5 quotes today."
	CelebrationMessage = "You are now closer to God, and He will help you find peace."
)

// RenderCard renders the deck card: the daily pill, the quote and the
// card buttons bound to the view's token.
func RenderCard(view deck.View) (string, *models.InlineKeyboardMarkup, error) {
	var b strings.Builder
	if !view.GoalReached {
		b.WriteString(RenderPill(view.TodayLikes))
		b.WriteString("\n\n")
	}
	fmt.Fprintf(&b, "“%s”\n\n— %s", view.Quote.Text, view.Quote.Reference)
	if view.Filter == deck.FilterFavorites {
		fmt.Fprintf(&b, "\n\nShowing favorites only (%d)", view.Favorites)
	}

	likeData, err := BuildDeckCallback(DeckOpLike, view.Token)
	if err != nil {
		return "", nil, err
	}
	shareData, err := BuildDeckCallback(DeckOpShare, view.Token)
	if err != nil {
		return "", nil, err
	}
	nextData, err := BuildDeckCallback(DeckOpNext, view.Token)
	if err != nil {
		return "", nil, err
	}
	filterOp, filterLabel := DeckOpFavorites, "Favorites only"
	if view.Filter == deck.FilterFavorites {
		filterOp, filterLabel = DeckOpAll, "All quotes"
	}
	filterData, err := BuildDeckCallback(filterOp, view.Token)
	if err != nil {
		return "", nil, err
	}

	likeLabel := "♡ Like"
	if view.Favorited {
		likeLabel = "♥ Liked"
	}
	keyboard := &models.InlineKeyboardMarkup{
		InlineKeyboard: [][]models.InlineKeyboardButton{
			{
				{Text: likeLabel, CallbackData: likeData},
				{Text: "Share", CallbackData: shareData},
			},
			{
				{Text: "Next ➜", CallbackData: nextData},
			},
			{
				{Text: filterLabel, CallbackData: filterData},
			},
		},
	}
	return b.String(), keyboard, nil
}

// RenderPill shows today's likes against the goal with a progress bar.
func RenderPill(todayLikes int) string {
	count := deck.DisplayCount(todayLikes)
	bar := strings.Repeat("▰", count) + strings.Repeat("▱", deck.Goal-count)
	return fmt.Sprintf("♡ %d/%d  %s", count, deck.Goal, bar)
}

func RenderCelebration() string {
	return "🕊️\n" + CelebrationTitle + "\n" + CelebrationMessage
}

func RenderReminderNotificationKeyboard() *models.InlineKeyboardMarkup {
	return &models.InlineKeyboardMarkup{
		InlineKeyboard: [][]models.InlineKeyboardButton{
			{
				{Text: "Open today's quote", CallbackData: BuildDeckOpenCallback()},
			},
		},
	}
}
