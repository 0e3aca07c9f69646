package ui

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

const (
	DeckCallbackPrefix     = "d:"
	ReminderCallbackPrefix = "r:"
	MaxCallbackDataLen     = 64
)

type DeckOp string

const (
	DeckOpNext      DeckOp = "next"
	DeckOpLike      DeckOp = "like"
	DeckOpShare     DeckOp = "share"
	DeckOpFavorites DeckOp = "fav"
	DeckOpAll       DeckOp = "all"
	DeckOpOpen      DeckOp = "open"
)

// DeckAction is a tap on a card. Token ties it to the card it was shown on.
type DeckAction struct {
	Op    DeckOp
	Token string
}

type ReminderOp string

const (
	ReminderOpView   ReminderOp = "v"
	ReminderOpSave   ReminderOp = "save"
	ReminderOpOff    ReminderOp = "off"
	ReminderOpSkip   ReminderOp = "skip"
	ReminderOpClose  ReminderOp = "close"
	ReminderOpTZUp   ReminderOp = "tz+"
	ReminderOpTZDown ReminderOp = "tz-"
)

// ReminderAction carries the whole editor state, so the editor needs no
// server side draft.
type ReminderAction struct {
	Op    ReminderOp
	Draft ReminderDraft
}

var (
	errInvalidPrefix       = errors.New("invalid callback prefix")
	errInvalidAction       = errors.New("invalid callback action")
	errInvalidValue        = errors.New("invalid callback value")
	errCallbackDataTooLong = errors.New("callback data too long")
)

func BuildDeckCallback(op DeckOp, token string) (string, error) {
	if op == DeckOpOpen {
		return validateCallbackData(DeckCallbackPrefix + string(op))
	}
	if !isDeckTokenOp(op) {
		return "", errInvalidAction
	}
	if token == "" || strings.Contains(token, ":") {
		return "", errInvalidValue
	}
	return validateCallbackData(DeckCallbackPrefix + string(op) + ":" + token)
}

func BuildDeckOpenCallback() string {
	return DeckCallbackPrefix + string(DeckOpOpen)
}

func ParseDeckCallback(data string) (DeckAction, error) {
	payload, err := trimPrefix(data, DeckCallbackPrefix)
	if err != nil {
		return DeckAction{}, err
	}
	opPart, token, hasToken := strings.Cut(payload, ":")
	op := DeckOp(opPart)
	switch {
	case op == DeckOpOpen && !hasToken:
		return DeckAction{Op: op}, nil
	case isDeckTokenOp(op) && hasToken && token != "" && !strings.Contains(token, ":"):
		return DeckAction{Op: op, Token: token}, nil
	default:
		return DeckAction{}, errInvalidAction
	}
}

func isDeckTokenOp(op DeckOp) bool {
	switch op {
	case DeckOpNext, DeckOpLike, DeckOpShare, DeckOpFavorites, DeckOpAll:
		return true
	default:
		return false
	}
}

// BuildReminderCallback encodes op and draft under prefix, which is
// ReminderCallbackPrefix for the reminder screen.
func BuildReminderCallback(prefix string, op ReminderOp, draft ReminderDraft) (string, error) {
	if !isReminderOp(op) {
		return "", errInvalidAction
	}
	if err := draft.Validate(); err != nil {
		return "", err
	}
	return validateCallbackData(prefix + string(op) + ":" + draft.Encode())
}

func ParseReminderCallback(prefix, data string) (ReminderAction, error) {
	payload, err := trimPrefix(data, prefix)
	if err != nil {
		return ReminderAction{}, err
	}
	parts := strings.Split(payload, ":")
	if len(parts) != 3 {
		return ReminderAction{}, errInvalidAction
	}
	op := ReminderOp(parts[0])
	if !isReminderOp(op) {
		return ReminderAction{}, errInvalidAction
	}
	draft, err := DecodeReminderDraft(parts[1] + ":" + parts[2])
	if err != nil {
		return ReminderAction{}, err
	}
	return ReminderAction{Op: op, Draft: draft}, nil
}

func isReminderOp(op ReminderOp) bool {
	switch op {
	case ReminderOpView, ReminderOpSave, ReminderOpOff, ReminderOpSkip, ReminderOpClose, ReminderOpTZUp, ReminderOpTZDown:
		return true
	default:
		return false
	}
}

// ReminderDraft is a reminder choice being edited. Days is indexed
// Sunday=0..Saturday=6.
type ReminderDraft struct {
	Hour   int
	Minute int
	Days   [7]bool
}

// DefaultReminderDraft is 09:00 on weekdays.
func DefaultReminderDraft() ReminderDraft {
	return ReminderDraft{Hour: 9, Days: [7]bool{false, true, true, true, true, true, false}}
}

func (d ReminderDraft) Validate() error {
	if d.Hour < 0 || d.Hour > 23 || d.Minute < 0 || d.Minute > 59 {
		return errInvalidValue
	}
	return nil
}

func (d ReminderDraft) Time() string {
	return fmt.Sprintf("%02d:%02d", d.Hour, d.Minute)
}

func (d ReminderDraft) DaySlice() []bool {
	days := make([]bool, len(d.Days))
	copy(days, d.Days[:])
	return days
}

func (d ReminderDraft) AnyDay() bool {
	for _, selected := range d.Days {
		if selected {
			return true
		}
	}
	return false
}

// ShiftMinutes moves the time by delta minutes, wrapping around midnight.
func (d ReminderDraft) ShiftMinutes(delta int) ReminderDraft {
	total := ((d.Hour*60+d.Minute+delta)%(24*60) + 24*60) % (24 * 60)
	d.Hour = total / 60
	d.Minute = total % 60
	return d
}

func (d ReminderDraft) ToggleDay(day int) ReminderDraft {
	if day >= 0 && day < len(d.Days) {
		d.Days[day] = !d.Days[day]
	}
	return d
}

// Encode renders the draft as HHMM:mask, bit i of mask being day i.
func (d ReminderDraft) Encode() string {
	mask := 0
	for i, selected := range d.Days {
		if selected {
			mask |= 1 << i
		}
	}
	return fmt.Sprintf("%02d%02d:%d", d.Hour, d.Minute, mask)
}

func DecodeReminderDraft(value string) (ReminderDraft, error) {
	timePart, maskPart, ok := strings.Cut(value, ":")
	if !ok || len(timePart) != 4 || !isASCIIUnsignedInt(timePart) || !isASCIIUnsignedInt(maskPart) {
		return ReminderDraft{}, errInvalidValue
	}
	hour, _ := strconv.Atoi(timePart[:2])
	minute, _ := strconv.Atoi(timePart[2:])
	mask, err := strconv.Atoi(maskPart)
	if err != nil || mask > 127 {
		return ReminderDraft{}, errInvalidValue
	}
	draft := ReminderDraft{Hour: hour, Minute: minute}
	for i := range draft.Days {
		draft.Days[i] = mask&(1<<i) != 0
	}
	if err := draft.Validate(); err != nil {
		return ReminderDraft{}, err
	}
	return draft, nil
}

// DraftFromReminder converts a stored reminder, falling back to the default
// for missing or malformed values.
func DraftFromReminder(value string, days []bool) ReminderDraft {
	draft := DefaultReminderDraft()
	hourPart, minutePart, ok := strings.Cut(value, ":")
	if !ok || len(hourPart) != 2 || len(minutePart) != 2 || !isASCIIUnsignedInt(hourPart) || !isASCIIUnsignedInt(minutePart) {
		return draft
	}
	hour, _ := strconv.Atoi(hourPart)
	minute, _ := strconv.Atoi(minutePart)
	candidate := ReminderDraft{Hour: hour, Minute: minute}
	if candidate.Validate() != nil || len(days) != len(draft.Days) {
		return draft
	}
	copy(candidate.Days[:], days)
	return candidate
}

func trimPrefix(data, prefix string) (string, error) {
	if data == "" {
		return "", errInvalidAction
	}
	if len(data) > MaxCallbackDataLen {
		return "", errCallbackDataTooLong
	}
	if !strings.HasPrefix(data, prefix) {
		return "", errInvalidPrefix
	}
	return strings.TrimPrefix(data, prefix), nil
}

func validateCallbackData(data string) (string, error) {
	if data == "" {
		return "", errInvalidAction
	}
	if len(data) > MaxCallbackDataLen {
		return "", errCallbackDataTooLong
	}
	return data, nil
}

func isASCIIUnsignedInt(value string) bool {
	if value == "" {
		return false
	}
	for i := 0; i < len(value); i++ {
		if value[i] < '0' || value[i] > '9' {
			return false
		}
	}
	return true
}
