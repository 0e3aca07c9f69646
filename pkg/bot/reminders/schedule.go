package reminders

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/smith3v/dove-bot/pkg/db"
	"gorm.io/gorm"
)

const DaysPerWeek = 7

var (
	ErrInvalidTime = errors.New("reminder time must be HH:mm")
	ErrNoDays      = errors.New("reminder needs at least one day")
)

// Trigger is one weekly occurrence in the user's local time.
type Trigger struct {
	Weekday time.Weekday
	Hour    int
	Minute  int
}

func ParseTime(value string) (int, int, error) {
	hourPart, minutePart, ok := strings.Cut(strings.TrimSpace(value), ":")
	if !ok || len(hourPart) != 2 || len(minutePart) != 2 {
		return 0, 0, fmt.Errorf("%w: %q", ErrInvalidTime, value)
	}
	hour, err := strconv.Atoi(hourPart)
	if err != nil || hour < 0 || hour > 23 {
		return 0, 0, fmt.Errorf("%w: %q", ErrInvalidTime, value)
	}
	minute, err := strconv.Atoi(minutePart)
	if err != nil || minute < 0 || minute > 59 {
		return 0, 0, fmt.Errorf("%w: %q", ErrInvalidTime, value)
	}
	return hour, minute, nil
}

func FormatTime(hour, minute int) string {
	return fmt.Sprintf("%02d:%02d", hour, minute)
}

// Plan expands a reminder choice into one trigger per selected weekday.
// days is indexed Sunday=0..Saturday=6.
func Plan(value string, days []bool) ([]Trigger, error) {
	hour, minute, err := ParseTime(value)
	if err != nil {
		return nil, err
	}
	if len(days) != DaysPerWeek {
		return nil, fmt.Errorf("reminder days must have %d entries, got %d", DaysPerWeek, len(days))
	}
	triggers := make([]Trigger, 0, DaysPerWeek)
	for i, selected := range days {
		if selected {
			triggers = append(triggers, Trigger{Weekday: time.Weekday(i), Hour: hour, Minute: minute})
		}
	}
	if len(triggers) == 0 {
		return nil, ErrNoDays
	}
	return triggers, nil
}

// Scheduler keeps the reminder_triggers table in line with user choices.
type Scheduler struct {
	db  *gorm.DB
	now func() time.Time
}

func NewScheduler(gdb *gorm.DB, now func() time.Time) *Scheduler {
	if now == nil {
		now = time.Now
	}
	return &Scheduler{db: gdb, now: now}
}

// Schedule replaces all of the user's triggers. New triggers count as sent
// at creation so a slot earlier today does not fire immediately.
func (s *Scheduler) Schedule(ctx context.Context, userID int64, value string, days []bool) error {
	triggers, err := Plan(value, days)
	if err != nil {
		return err
	}
	createdAt := s.now().UTC()
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", userID).Delete(&db.ReminderTrigger{}).Error; err != nil {
			return err
		}
		rows := make([]db.ReminderTrigger, 0, len(triggers))
		for _, trigger := range triggers {
			rows = append(rows, db.ReminderTrigger{
				UserID:     userID,
				Weekday:    int(trigger.Weekday),
				Hour:       trigger.Hour,
				Minute:     trigger.Minute,
				LastSentAt: &createdAt,
			})
		}
		return tx.Create(&rows).Error
	})
}

func (s *Scheduler) Cancel(ctx context.Context, userID int64) error {
	return s.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&db.ReminderTrigger{}).Error
}

func (s *Scheduler) Triggers(ctx context.Context, userID int64) ([]db.ReminderTrigger, error) {
	var rows []db.ReminderTrigger
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("weekday").
		Find(&rows).Error
	return rows, err
}
