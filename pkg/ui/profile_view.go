package ui

import (
	"fmt"
	"strings"

	"github.com/smith3v/dove-bot/pkg/prefs"
)

func RenderProfile(record prefs.Record, favorites int) string {
	lines := []string{"Profile"}
	if record.Name != "" {
		lines = append(lines, "• Name: "+record.Name)
	}
	if record.FaithPractice != "" {
		lines = append(lines, "• "+record.FaithPractice)
	}
	if len(record.Topics) > 0 {
		lines = append(lines, "• "+strings.Join(record.Topics, ", "))
	}
	if record.Goals != "" {
		lines = append(lines, "• "+record.Goals)
	}
	if record.Reminder != nil {
		lines = append(lines, "• "+FormatReminder(record.Reminder.Time, record.Reminder.Days))
	}
	if len(lines) == 1 {
		lines = append(lines, "No profile information yet. Send /start to set it up.")
	}
	lines = append(lines, fmt.Sprintf("\nFavorites: %d", favorites))
	return strings.Join(lines, "\n")
}
