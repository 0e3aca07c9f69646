package reminders

import (
	"context"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/smith3v/dove-bot/pkg/db"
	"github.com/smith3v/dove-bot/pkg/logger"
	"github.com/smith3v/dove-bot/pkg/ui"
	"gorm.io/gorm"
)

// MaxLateness bounds how late a missed slot is still delivered, e.g. after
// downtime. Older slots are marked sent silently.
const MaxLateness = 2 * time.Hour

const (
	NotificationTitle = "Time to pray 🕊️"
	NotificationBody  = "Take a moment for your daily prayer."
)

type Sender interface {
	SendMessage(ctx context.Context, params *bot.SendMessageParams) (*models.Message, error)
}

func StartPeriodicMessages(ctx context.Context, gdb *gorm.DB, sender Sender, defaultOffset int) {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			ProcessReminders(ctx, gdb, sender, defaultOffset, now.UTC())
		}
	}
}

func ProcessReminders(ctx context.Context, gdb *gorm.DB, sender Sender, defaultOffset int, now time.Time) {
	var triggers []db.ReminderTrigger
	if err := gdb.WithContext(ctx).Find(&triggers).Error; err != nil {
		logger.Error("failed to fetch reminder triggers", "error", err)
		return
	}
	if len(triggers) == 0 {
		return
	}

	offsets, err := loadOffsets(ctx, gdb)
	if err != nil {
		logger.Error("failed to fetch timezone offsets", "error", err)
		return
	}

	for _, trigger := range triggers {
		offset, ok := offsets[trigger.UserID]
		if !ok {
			offset = defaultOffset
		}
		handleTrigger(ctx, gdb, sender, trigger, offset, now)
	}
}

func handleTrigger(ctx context.Context, gdb *gorm.DB, sender Sender, trigger db.ReminderTrigger, offset int, now time.Time) {
	slot, ok := dueSlot(now, trigger, offset)
	if !ok {
		return
	}

	if now.Sub(slot) <= MaxLateness {
		if err := sendReminder(ctx, sender, trigger.UserID); err != nil {
			logger.Error("failed to send reminder", "user_id", trigger.UserID, "error", err)
			return
		}
		logger.Debug("sent reminder", "user_id", trigger.UserID, "weekday", trigger.Weekday)
	} else {
		logger.Info("skipping stale reminder slot", "user_id", trigger.UserID, "slot", slot)
	}

	if err := gdb.WithContext(ctx).Model(&db.ReminderTrigger{}).
		Where("id = ?", trigger.ID).
		Update("last_sent_at", now).Error; err != nil {
		logger.Error("failed to update reminder state", "user_id", trigger.UserID, "error", err)
	}
}

func sendReminder(ctx context.Context, sender Sender, userID int64) error {
	_, err := sender.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:      userID,
		Text:        NotificationTitle + "\n" + NotificationBody,
		ReplyMarkup: ui.RenderReminderNotificationKeyboard(),
	})
	return err
}

// dueSlot returns the most recent weekly occurrence of trigger at or before
// now, in UTC, when it has not been sent since.
func dueSlot(now time.Time, trigger db.ReminderTrigger, offsetHours int) (time.Time, bool) {
	offset := time.Duration(offsetHours) * time.Hour
	localNow := now.Add(offset)
	year, month, day := localNow.Date()

	daysBack := (int(localNow.Weekday()) - trigger.Weekday + 7) % 7
	localSlot := time.Date(year, month, day-daysBack, trigger.Hour, trigger.Minute, 0, 0, time.UTC)
	if localSlot.After(localNow) {
		localSlot = localSlot.AddDate(0, 0, -7)
	}
	slotUTC := localSlot.Add(-offset)

	if trigger.LastSentAt != nil && !trigger.LastSentAt.Before(slotUTC) {
		return time.Time{}, false
	}
	return slotUTC, true
}

func loadOffsets(ctx context.Context, gdb *gorm.DB) (map[int64]int, error) {
	var settings []db.UserSettings
	if err := gdb.WithContext(ctx).Find(&settings).Error; err != nil {
		return nil, err
	}
	offsets := make(map[int64]int, len(settings))
	for _, s := range settings {
		offsets[s.UserID] = s.TimezoneOffsetHours
	}
	return offsets, nil
}
