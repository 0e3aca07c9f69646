package ui

import (
	"fmt"
	"strings"

	"github.com/go-telegram/bot/models"
)

var (
	DayLabels      = [7]string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}
	dayShortLabels = [7]string{"S", "M", "T", "W", "T", "F", "S"}
)

// RenderReminderSheet renders the reminder screen reachable from the deck.
func RenderReminderSheet(draft ReminderDraft, timezoneOffset int, active bool) (string, *models.InlineKeyboardMarkup, error) {
	status := "off"
	if active {
		status = "on"
	}
	text := fmt.Sprintf(
		"Reminder\nTime: %s\nDays: %s\nTimezone: UTC%+d\nCurrently: %s",
		draft.Time(),
		FormatDays(draft.Days[:]),
		timezoneOffset,
		status,
	)

	rows, err := ReminderEditorRows(ReminderCallbackPrefix, draft)
	if err != nil {
		return "", nil, err
	}
	tzDown, err := BuildReminderCallback(ReminderCallbackPrefix, ReminderOpTZDown, draft)
	if err != nil {
		return "", nil, err
	}
	tzUp, err := BuildReminderCallback(ReminderCallbackPrefix, ReminderOpTZUp, draft)
	if err != nil {
		return "", nil, err
	}
	save, err := BuildReminderCallback(ReminderCallbackPrefix, ReminderOpSave, draft)
	if err != nil {
		return "", nil, err
	}
	off, err := BuildReminderCallback(ReminderCallbackPrefix, ReminderOpOff, draft)
	if err != nil {
		return "", nil, err
	}
	closeData, err := BuildReminderCallback(ReminderCallbackPrefix, ReminderOpClose, draft)
	if err != nil {
		return "", nil, err
	}

	rows = append(rows,
		[]models.InlineKeyboardButton{
			{Text: "UTC-1", CallbackData: tzDown},
			{Text: "UTC+1", CallbackData: tzUp},
		},
		[]models.InlineKeyboardButton{
			{Text: "Save", CallbackData: save},
			{Text: "Turn off", CallbackData: off},
			{Text: "Close", CallbackData: closeData},
		},
	)
	return text, &models.InlineKeyboardMarkup{InlineKeyboard: rows}, nil
}

// ReminderEditorRows returns the time and day rows of a reminder editor.
// Each button carries the draft it produces.
func ReminderEditorRows(prefix string, draft ReminderDraft) ([][]models.InlineKeyboardButton, error) {
	steps := []struct {
		label string
		delta int
	}{
		{label: "-1h", delta: -60},
		{label: "-15m", delta: -15},
		{label: "+15m", delta: 15},
		{label: "+1h", delta: 60},
	}
	timeRow := make([]models.InlineKeyboardButton, 0, len(steps))
	for _, step := range steps {
		data, err := BuildReminderCallback(prefix, ReminderOpView, draft.ShiftMinutes(step.delta))
		if err != nil {
			return nil, err
		}
		timeRow = append(timeRow, models.InlineKeyboardButton{Text: step.label, CallbackData: data})
	}

	dayRow := make([]models.InlineKeyboardButton, 0, len(draft.Days))
	for i := range draft.Days {
		data, err := BuildReminderCallback(prefix, ReminderOpView, draft.ToggleDay(i))
		if err != nil {
			return nil, err
		}
		label := dayShortLabels[i]
		if draft.Days[i] {
			label = "•" + label
		}
		dayRow = append(dayRow, models.InlineKeyboardButton{Text: label, CallbackData: data})
	}
	return [][]models.InlineKeyboardButton{timeRow, dayRow}, nil
}

// FormatDays lists the selected days, e.g. "Mon, Tue".
func FormatDays(days []bool) string {
	parts := make([]string, 0, len(days))
	for i, selected := range days {
		if selected && i < len(DayLabels) {
			parts = append(parts, DayLabels[i])
		}
	}
	if len(parts) == 0 {
		return "none"
	}
	return strings.Join(parts, ", ")
}

// FormatReminder renders a stored reminder, e.g. "09:00 on Mon, Tue".
func FormatReminder(value string, days []bool) string {
	return value + " on " + FormatDays(days)
}
