package onboarding

import (
	"testing"

	"github.com/smith3v/dove-bot/pkg/ui"
)

func TestParseCallbackDataRoundTrip(t *testing.T) {
	tests := []struct {
		data string
		want CallbackAction
	}{
		{data: BuildSkipCallback(), want: CallbackAction{Kind: ActionSkip}},
		{data: BuildContinueIntroCallback(), want: CallbackAction{Kind: ActionContinueIntro}},
		{data: BuildFaithPracticeCallback(2), want: CallbackAction{Kind: ActionFaithPractice, Index: 2}},
		{data: BuildToggleTopicCallback(7), want: CallbackAction{Kind: ActionToggleTopic, Index: 7}},
		{data: BuildConfirmTopicsCallback(), want: CallbackAction{Kind: ActionConfirmTopics}},
		{data: BuildSkipGoalsCallback(), want: CallbackAction{Kind: ActionSkipGoals}},
		{data: BuildStartCallback(), want: CallbackAction{Kind: ActionStart}},
	}
	for _, tt := range tests {
		got, err := ParseCallbackData(tt.data)
		if err != nil {
			t.Fatalf("ParseCallbackData(%q) returned error: %v", tt.data, err)
		}
		if got.Kind != tt.want.Kind || got.Index != tt.want.Index {
			t.Fatalf("ParseCallbackData(%q) = %+v, want %+v", tt.data, got, tt.want)
		}
	}
}

func TestParseCallbackDataReminder(t *testing.T) {
	draft := ui.DefaultReminderDraft().ToggleDay(0)
	data, err := ui.BuildReminderCallback(ReminderCallbackPrefix, ui.ReminderOpSave, draft)
	if err != nil {
		t.Fatalf("BuildReminderCallback returned error: %v", err)
	}
	got, err := ParseCallbackData(data)
	if err != nil {
		t.Fatalf("ParseCallbackData returned error: %v", err)
	}
	if got.Kind != ActionReminder || got.Reminder.Op != ui.ReminderOpSave || got.Reminder.Draft != draft {
		t.Fatalf("unexpected reminder action: %+v", got)
	}
}

func TestParseCallbackDataRejectsInvalid(t *testing.T) {
	for _, data := range []string{
		"",
		"d:next:tok",
		"o:",
		"o:unknown",
		"o:skip:1",
		"o:faith",
		"o:faith:-1",
		"o:faith:5",
		"o:topic:8",
		"o:topic:x",
		"o:rem:save:2500:62",
	} {
		if _, err := ParseCallbackData(data); err == nil {
			t.Fatalf("expected error for %q", data)
		}
	}
}
