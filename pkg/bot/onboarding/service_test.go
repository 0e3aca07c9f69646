package onboarding

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/smith3v/dove-bot/pkg/db"
	"github.com/smith3v/dove-bot/pkg/internal/testutil"
	"github.com/smith3v/dove-bot/pkg/prefs"
	"github.com/smith3v/dove-bot/pkg/ui"
	"gorm.io/datatypes"
)

func newTestService(t *testing.T) (*Service, *prefs.GormStore) {
	t.Helper()
	gdb := testutil.SetupTestDB(t)
	store := prefs.NewGormStore(gdb)
	return NewService(gdb, store), store
}

func readRecord(t *testing.T, store prefs.Reader, userID int64) prefs.Record {
	t.Helper()
	record, err := store.Read(context.Background(), userID)
	if err != nil {
		t.Fatalf("failed to read record: %v", err)
	}
	return record
}

func TestServiceFullFlowWritesAnswers(t *testing.T) {
	ctx := context.Background()
	service, store := newTestService(t)
	const userID = 10

	if _, err := service.Begin(ctx, userID); err != nil {
		t.Fatalf("Begin returned error: %v", err)
	}
	if _, err := service.SubmitName(ctx, userID, "  Ruth  "); err != nil {
		t.Fatalf("SubmitName returned error: %v", err)
	}
	if _, err := service.ContinueIntro(ctx, userID); err != nil {
		t.Fatalf("ContinueIntro returned error: %v", err)
	}
	if _, err := service.ChooseFaithPractice(ctx, userID, 1); err != nil {
		t.Fatalf("ChooseFaithPractice returned error: %v", err)
	}
	for _, index := range []int{0, 2, 0, 4} {
		if _, err := service.ToggleTopic(ctx, userID, index); err != nil {
			t.Fatalf("ToggleTopic(%d) returned error: %v", index, err)
		}
	}
	state, err := service.GetState(ctx, userID)
	if err != nil {
		t.Fatalf("GetState returned error: %v", err)
	}
	if want := []string{"Healing", "Faith"}; !reflect.DeepEqual(state.Draft.Topics, want) {
		t.Fatalf("draft topics = %v, want %v", state.Draft.Topics, want)
	}
	if _, err := service.ConfirmTopics(ctx, userID); err != nil {
		t.Fatalf("ConfirmTopics returned error: %v", err)
	}
	if _, err := service.SubmitGoals(ctx, userID, "I want to pray daily"); err != nil {
		t.Fatalf("SubmitGoals returned error: %v", err)
	}
	state, err = service.SaveReminder(ctx, userID, ui.DefaultReminderDraft())
	if err != nil {
		t.Fatalf("SaveReminder returned error: %v", err)
	}
	if state.Step != StepFreeTrial {
		t.Fatalf("expected free trial step, got %q", state.Step)
	}

	record := readRecord(t, store, userID)
	if record.Name != "Ruth" || record.FaithPractice != "Exploring" || record.Goals != "I want to pray daily" {
		t.Fatalf("unexpected record: %+v", record)
	}
	if !reflect.DeepEqual(record.Topics, []string{"Healing", "Faith"}) {
		t.Fatalf("unexpected topics: %v", record.Topics)
	}
	if record.Reminder == nil || record.Reminder.Time != "09:00" || !reflect.DeepEqual(record.Reminder.Days, ui.DefaultReminderDraft().DaySlice()) {
		t.Fatalf("unexpected reminder: %+v", record.Reminder)
	}

	if err := service.Finish(ctx, userID); err != nil {
		t.Fatalf("Finish returned error: %v", err)
	}
	if state, err := service.GetState(ctx, userID); err != nil || state != nil {
		t.Fatalf("expected state to be cleared, got %+v err %v", state, err)
	}
}

func TestServiceSkipToFreeTrial(t *testing.T) {
	ctx := context.Background()
	service, store := newTestService(t)

	if _, err := service.Begin(ctx, 1); err != nil {
		t.Fatalf("Begin returned error: %v", err)
	}
	state, err := service.SkipToFreeTrial(ctx, 1)
	if err != nil {
		t.Fatalf("SkipToFreeTrial returned error: %v", err)
	}
	if state.Step != StepFreeTrial {
		t.Fatalf("expected free trial step, got %q", state.Step)
	}
	if _, err := service.SkipToFreeTrial(ctx, 1); !errors.Is(err, ErrUnexpectedStep) {
		t.Fatalf("expected ErrUnexpectedStep on repeated skip, got %v", err)
	}
	if record := readRecord(t, store, 1); record.HasProfile() {
		t.Fatalf("expected no answers after skipping, got %+v", record)
	}
}

func TestServiceRejectsOutOfOrderActions(t *testing.T) {
	ctx := context.Background()
	service, _ := newTestService(t)

	if _, err := service.SubmitName(ctx, 2, "Ana"); !errors.Is(err, ErrUnexpectedStep) {
		t.Fatalf("expected ErrUnexpectedStep without state, got %v", err)
	}
	if _, err := service.Begin(ctx, 2); err != nil {
		t.Fatalf("Begin returned error: %v", err)
	}
	if _, err := service.ChooseFaithPractice(ctx, 2, 0); !errors.Is(err, ErrUnexpectedStep) {
		t.Fatalf("expected ErrUnexpectedStep on name step, got %v", err)
	}
	if err := service.Finish(ctx, 2); !errors.Is(err, ErrUnexpectedStep) {
		t.Fatalf("expected ErrUnexpectedStep finishing early, got %v", err)
	}
	if _, err := service.SubmitName(ctx, 2, "   "); !errors.Is(err, ErrEmptyAnswer) {
		t.Fatalf("expected ErrEmptyAnswer, got %v", err)
	}
}

func TestServiceReminderNeedsADay(t *testing.T) {
	ctx := context.Background()
	service, _ := newTestService(t)
	gdb := service.db

	if err := gdb.Create(&db.OnboardingState{UserID: 3, Step: StepReminder, Draft: datatypes.JSON("{}")}).Error; err != nil {
		t.Fatalf("failed to seed state: %v", err)
	}
	if _, err := service.SaveReminder(ctx, 3, ui.ReminderDraft{Hour: 7}); !errors.Is(err, ErrEmptyAnswer) {
		t.Fatalf("expected ErrEmptyAnswer for no days, got %v", err)
	}
	state, err := service.GetState(ctx, 3)
	if err != nil || state == nil || state.Step != StepReminder {
		t.Fatalf("expected reminder step to remain, got %+v err %v", state, err)
	}
}

func TestServiceBeginRestartsWizard(t *testing.T) {
	ctx := context.Background()
	service, _ := newTestService(t)

	if _, err := service.Begin(ctx, 4); err != nil {
		t.Fatalf("Begin returned error: %v", err)
	}
	if _, err := service.SkipToFreeTrial(ctx, 4); err != nil {
		t.Fatalf("SkipToFreeTrial returned error: %v", err)
	}
	if _, err := service.Begin(ctx, 4); err != nil {
		t.Fatalf("Begin returned error: %v", err)
	}

	var count int64
	if err := service.db.Model(&db.OnboardingState{}).Where("user_id = ?", 4).Count(&count).Error; err != nil {
		t.Fatalf("failed to count states: %v", err)
	}
	state, _ := service.GetState(ctx, 4)
	if count != 1 || state.Step != StepName {
		t.Fatalf("expected one state on the name step, got count=%d state=%+v", count, state)
	}
}
