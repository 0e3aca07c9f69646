package onboarding

import (
	"fmt"
	"strings"

	"github.com/go-telegram/bot/models"
	"github.com/smith3v/dove-bot/pkg/ui"
)

const WelcomeText = "Dove\nFind peace through stronger connection with God."

// RenderStep renders the prompt of the state's step. reminder is the draft
// shown on the reminder step.
func RenderStep(state *State, reminder ui.ReminderDraft) (string, *models.InlineKeyboardMarkup, error) {
	switch state.Step {
	case StepName:
		text, keyboard := RenderNamePrompt()
		return text, keyboard, nil
	case StepFaithIntro:
		text, keyboard := RenderFaithIntro()
		return text, keyboard, nil
	case StepFaithPractice:
		text, keyboard := RenderFaithPracticePrompt()
		return text, keyboard, nil
	case StepTopics:
		text, keyboard := RenderTopicsPrompt(state.Draft.Topics)
		return text, keyboard, nil
	case StepGoals:
		text, keyboard := RenderGoalsPrompt()
		return text, keyboard, nil
	case StepReminder:
		return RenderReminderPrompt(reminder)
	case StepFreeTrial:
		text, keyboard := RenderFreeTrial()
		return text, keyboard, nil
	default:
		return "", nil, ErrUnexpectedStep
	}
}

func RenderNamePrompt() (string, *models.InlineKeyboardMarkup) {
	text := WelcomeText + "\n\nWhat would you like to be called?\nSend your name as a message."
	return text, singleButton("Skip", BuildSkipCallback())
}

func RenderFaithIntro() (string, *models.InlineKeyboardMarkup) {
	return "Let's talk about your faith and your personal goals", singleButton("Continue", BuildContinueIntroCallback())
}

func RenderFaithPracticePrompt() (string, *models.InlineKeyboardMarkup) {
	rows := make([][]models.InlineKeyboardButton, 0, len(FaithPracticeOptions)+1)
	for i, option := range FaithPracticeOptions {
		rows = append(rows, []models.InlineKeyboardButton{{Text: option, CallbackData: BuildFaithPracticeCallback(i)}})
	}
	rows = append(rows, []models.InlineKeyboardButton{{Text: "Skip", CallbackData: BuildSkipCallback()}})
	return "How would you describe your current faith practice?", &models.InlineKeyboardMarkup{InlineKeyboard: rows}
}

func RenderTopicsPrompt(selected []string) (string, *models.InlineKeyboardMarkup) {
	chosen := make(map[string]bool, len(selected))
	for _, topic := range selected {
		chosen[topic] = true
	}

	rows := make([][]models.InlineKeyboardButton, 0, len(TopicOptions)/2+2)
	currentRow := make([]models.InlineKeyboardButton, 0, 2)
	for i, topic := range TopicOptions {
		label := "+  " + topic
		if chosen[topic] {
			label = "✓ " + topic
		}
		currentRow = append(currentRow, models.InlineKeyboardButton{Text: label, CallbackData: BuildToggleTopicCallback(i)})
		if len(currentRow) == 2 {
			rows = append(rows, currentRow)
			currentRow = make([]models.InlineKeyboardButton, 0, 2)
		}
	}
	if len(currentRow) > 0 {
		rows = append(rows, currentRow)
	}
	rows = append(rows, []models.InlineKeyboardButton{
		{Text: "Continue", CallbackData: BuildConfirmTopicsCallback()},
		{Text: "Skip", CallbackData: BuildSkipCallback()},
	})
	return "Which topics are you interested in?", &models.InlineKeyboardMarkup{InlineKeyboard: rows}
}

func RenderGoalsPrompt() (string, *models.InlineKeyboardMarkup) {
	text := "What are your goals right now?\nSend them as a message, for example \"I want to...\""
	return text, singleButton("Skip", BuildSkipGoalsCallback())
}

func RenderReminderPrompt(draft ui.ReminderDraft) (string, *models.InlineKeyboardMarkup, error) {
	text := fmt.Sprintf(
		"Set an alarm and create a daily habit\nTime: %s\nDays: %s",
		draft.Time(),
		ui.FormatDays(draft.Days[:]),
	)
	rows, err := ui.ReminderEditorRows(ReminderCallbackPrefix, draft)
	if err != nil {
		return "", nil, err
	}
	save, err := ui.BuildReminderCallback(ReminderCallbackPrefix, ui.ReminderOpSave, draft)
	if err != nil {
		return "", nil, err
	}
	skip, err := ui.BuildReminderCallback(ReminderCallbackPrefix, ui.ReminderOpSkip, draft)
	if err != nil {
		return "", nil, err
	}
	rows = append(rows, []models.InlineKeyboardButton{
		{Text: "Set reminder", CallbackData: save},
		{Text: "Skip", CallbackData: skip},
	})
	return text, &models.InlineKeyboardMarkup{InlineKeyboard: rows}, nil
}

func RenderFreeTrial() (string, *models.InlineKeyboardMarkup) {
	var b strings.Builder
	b.WriteString("Claim your free trial\nYou won't be charged anything today\n")
	for _, item := range FreeTrialTimeline {
		fmt.Fprintf(&b, "\n• %s\n  %s", item.Title, item.Description)
	}
	return b.String(), singleButton("Start your free trial now", BuildStartCallback())
}

func singleButton(text, data string) *models.InlineKeyboardMarkup {
	return &models.InlineKeyboardMarkup{
		InlineKeyboard: [][]models.InlineKeyboardButton{
			{{Text: text, CallbackData: data}},
		},
	}
}
