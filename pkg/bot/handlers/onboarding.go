package handlers

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/smith3v/dove-bot/pkg/bot/onboarding"
	"github.com/smith3v/dove-bot/pkg/logger"
	"github.com/smith3v/dove-bot/pkg/ui"
)

func (h *Handler) HandleOnboardingCallback(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update == nil || update.CallbackQuery == nil {
		logger.Error("invalid update in HandleOnboardingCallback")
		return
	}
	msg, ok := callbackMessage(update)
	if !ok {
		answerCallback(ctx, b, update, "Message missing")
		return
	}
	action, err := onboarding.ParseCallbackData(update.CallbackQuery.Data)
	if err != nil {
		answerCallback(ctx, b, update, "Unknown action")
		return
	}
	userID := update.CallbackQuery.From.ID

	if action.Kind == onboarding.ActionStart {
		h.finishOnboarding(ctx, b, update, msg, userID)
		return
	}

	reminder := ui.DefaultReminderDraft()
	var state *onboarding.State
	switch action.Kind {
	case onboarding.ActionSkip:
		state, err = h.onboarding.SkipToFreeTrial(ctx, userID)
	case onboarding.ActionContinueIntro:
		state, err = h.onboarding.ContinueIntro(ctx, userID)
	case onboarding.ActionFaithPractice:
		state, err = h.onboarding.ChooseFaithPractice(ctx, userID, action.Index)
	case onboarding.ActionToggleTopic:
		state, err = h.onboarding.ToggleTopic(ctx, userID, action.Index)
	case onboarding.ActionConfirmTopics:
		state, err = h.onboarding.ConfirmTopics(ctx, userID)
	case onboarding.ActionSkipGoals:
		state, err = h.onboarding.SkipGoals(ctx, userID)
	case onboarding.ActionReminder:
		reminder = action.Reminder.Draft
		state, err = h.applyOnboardingReminder(ctx, userID, action.Reminder)
	default:
		answerCallback(ctx, b, update, "Unknown action")
		return
	}
	if err != nil {
		switch {
		case errors.Is(err, onboarding.ErrUnexpectedStep):
			answerCallback(ctx, b, update, "Send /start")
		case errors.Is(err, onboarding.ErrEmptyAnswer):
			answerCallback(ctx, b, update, "Choose at least one day")
		default:
			logger.Error("failed to apply onboarding action", "user_id", userID, "kind", action.Kind, "error", err)
			answerCallback(ctx, b, update, "Failed")
		}
		return
	}

	text, keyboard, err := onboarding.RenderStep(state, reminder)
	if err != nil {
		logger.Error("failed to render onboarding step", "user_id", userID, "step", state.Step, "error", err)
		answerCallback(ctx, b, update, "Failed")
		return
	}
	if err := editMessage(ctx, b, msg.Chat.ID, msg.ID, text, keyboard); err != nil {
		logger.Error("failed to edit onboarding message", "user_id", userID, "error", err)
	}
	answerCallback(ctx, b, update, "")
}

func (h *Handler) applyOnboardingReminder(ctx context.Context, userID int64, action ui.ReminderAction) (*onboarding.State, error) {
	switch action.Op {
	case ui.ReminderOpView:
		state, err := h.onboarding.GetState(ctx, userID)
		if err != nil {
			return nil, err
		}
		if state == nil || state.Step != onboarding.StepReminder {
			return nil, onboarding.ErrUnexpectedStep
		}
		return state, nil
	case ui.ReminderOpSave:
		state, err := h.onboarding.SaveReminder(ctx, userID, action.Draft)
		if err != nil {
			return nil, err
		}
		if err := h.scheduler.Schedule(ctx, userID, action.Draft.Time(), action.Draft.DaySlice()); err != nil {
			return nil, err
		}
		return state, nil
	case ui.ReminderOpSkip:
		return h.onboarding.SkipToFreeTrial(ctx, userID)
	default:
		return nil, onboarding.ErrUnexpectedStep
	}
}

func (h *Handler) finishOnboarding(ctx context.Context, b *bot.Bot, update *models.Update, msg *models.Message, userID int64) {
	if err := h.onboarding.Finish(ctx, userID); err != nil {
		if errors.Is(err, onboarding.ErrUnexpectedStep) {
			answerCallback(ctx, b, update, "Send /start")
			return
		}
		logger.Error("failed to finish onboarding", "user_id", userID, "error", err)
		answerCallback(ctx, b, update, "Failed")
		return
	}
	if err := editMessage(ctx, b, msg.Chat.ID, msg.ID, "Welcome to Dove 🕊️", emptyKeyboard()); err != nil {
		logger.Error("failed to edit onboarding completion", "user_id", userID, "error", err)
	}
	if err := h.sendCard(ctx, b, msg.Chat.ID, userID); err != nil {
		logger.Error("failed to send first quote card", "user_id", userID, "error", err)
	}
	answerCallback(ctx, b, update, "")
}

// tryHandleOnboardingText captures free-text answers for the name and
// goals steps.
func (h *Handler) tryHandleOnboardingText(ctx context.Context, b *bot.Bot, update *models.Update) bool {
	userID := update.Message.From.ID
	chatID := update.Message.Chat.ID

	state, err := h.onboarding.GetState(ctx, userID)
	if err != nil {
		logger.Error("failed to load onboarding state for text", "user_id", userID, "error", err)
		return false
	}
	if state == nil || (state.Step != onboarding.StepName && state.Step != onboarding.StepGoals) {
		return false
	}

	var next *onboarding.State
	if state.Step == onboarding.StepName {
		next, err = h.onboarding.SubmitName(ctx, userID, update.Message.Text)
	} else {
		next, err = h.onboarding.SubmitGoals(ctx, userID, update.Message.Text)
	}
	switch {
	case errors.Is(err, onboarding.ErrEmptyAnswer):
		sendText(ctx, b, chatID, "Please send a short text answer, or tap Skip.")
		return true
	case errors.Is(err, onboarding.ErrAnswerTooLong):
		sendText(ctx, b, chatID, fmt.Sprintf("That answer is too long. Please keep it under %d characters.", onboarding.MaxTextAnswerLen))
		return true
	case err != nil:
		logger.Error("failed to save onboarding answer", "user_id", userID, "step", state.Step, "error", err)
		sendText(ctx, b, chatID, "Failed to save your answer. Please try again later.")
		return true
	}

	if err := h.sendStep(ctx, b, chatID, userID, next); err != nil {
		logger.Error("failed to send onboarding step", "user_id", userID, "step", next.Step, "error", err)
	}
	return true
}
