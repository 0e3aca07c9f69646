package onboarding

import (
	"errors"
	"strconv"
	"strings"

	"github.com/smith3v/dove-bot/pkg/ui"
)

const (
	CallbackPrefix         = "o:"
	ReminderCallbackPrefix = CallbackPrefix + "rem:"
	MaxCallbackDataLen     = 64
)

type CallbackActionKind string

const (
	ActionSkip          CallbackActionKind = "skip"
	ActionContinueIntro CallbackActionKind = "intro"
	ActionFaithPractice CallbackActionKind = "faith"
	ActionToggleTopic   CallbackActionKind = "topic"
	ActionConfirmTopics CallbackActionKind = "topics"
	ActionSkipGoals     CallbackActionKind = "goals_skip"
	ActionReminder      CallbackActionKind = "rem"
	ActionStart         CallbackActionKind = "start"
)

type CallbackAction struct {
	Kind     CallbackActionKind
	Index    int
	Reminder ui.ReminderAction
}

var errInvalidCallback = errors.New("invalid onboarding callback")

func BuildSkipCallback() string {
	return CallbackPrefix + string(ActionSkip)
}

func BuildContinueIntroCallback() string {
	return CallbackPrefix + string(ActionContinueIntro)
}

func BuildFaithPracticeCallback(index int) string {
	return CallbackPrefix + string(ActionFaithPractice) + ":" + strconv.Itoa(index)
}

func BuildToggleTopicCallback(index int) string {
	return CallbackPrefix + string(ActionToggleTopic) + ":" + strconv.Itoa(index)
}

func BuildConfirmTopicsCallback() string {
	return CallbackPrefix + string(ActionConfirmTopics)
}

func BuildSkipGoalsCallback() string {
	return CallbackPrefix + string(ActionSkipGoals)
}

func BuildStartCallback() string {
	return CallbackPrefix + string(ActionStart)
}

func ParseCallbackData(data string) (CallbackAction, error) {
	if data == "" || len(data) > MaxCallbackDataLen || !strings.HasPrefix(data, CallbackPrefix) {
		return CallbackAction{}, errInvalidCallback
	}
	if strings.HasPrefix(data, ReminderCallbackPrefix) {
		action, err := ui.ParseReminderCallback(ReminderCallbackPrefix, data)
		if err != nil {
			return CallbackAction{}, errInvalidCallback
		}
		return CallbackAction{Kind: ActionReminder, Reminder: action}, nil
	}

	payload := strings.TrimPrefix(data, CallbackPrefix)
	parts := strings.Split(payload, ":")
	kind := CallbackActionKind(parts[0])

	switch {
	case len(parts) == 1 && (kind == ActionSkip || kind == ActionContinueIntro || kind == ActionConfirmTopics || kind == ActionSkipGoals || kind == ActionStart):
		return CallbackAction{Kind: kind}, nil
	case len(parts) == 2 && kind == ActionFaithPractice:
		index, ok := parseIndex(parts[1], len(FaithPracticeOptions))
		if !ok {
			return CallbackAction{}, errInvalidCallback
		}
		return CallbackAction{Kind: kind, Index: index}, nil
	case len(parts) == 2 && kind == ActionToggleTopic:
		index, ok := parseIndex(parts[1], len(TopicOptions))
		if !ok {
			return CallbackAction{}, errInvalidCallback
		}
		return CallbackAction{Kind: kind, Index: index}, nil
	default:
		return CallbackAction{}, errInvalidCallback
	}
}

func parseIndex(value string, limit int) (int, bool) {
	if value == "" || strings.TrimLeft(value, "0123456789") != "" {
		return 0, false
	}
	index, err := strconv.Atoi(value)
	if err != nil || index < 0 || index >= limit {
		return 0, false
	}
	return index, true
}
