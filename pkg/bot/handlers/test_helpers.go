package handlers

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"strings"
	"sync"
	"testing"
	"time"

	telegram "github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/smith3v/dove-bot/pkg/bot/onboarding"
	"github.com/smith3v/dove-bot/pkg/bot/reminders"
	"github.com/smith3v/dove-bot/pkg/deck"
	"github.com/smith3v/dove-bot/pkg/internal/testutil"
	"github.com/smith3v/dove-bot/pkg/logger"
	"github.com/smith3v/dove-bot/pkg/prefs"
	"github.com/smith3v/dove-bot/pkg/quotes"
	"gorm.io/gorm"
)

type recordedRequest struct {
	path        string
	method      string
	contentType string
	body        []byte
}

type mockClient struct {
	requests []recordedRequest
	response string
}

func newMockClient() *mockClient {
	return &mockClient{
		response: `{"ok":true,"result":{}}`,
	}
}

func (m *mockClient) Do(req *http.Request) (*http.Response, error) {
	body, err := io.ReadAll(req.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read request body: %w", err)
	}
	if err := req.Body.Close(); err != nil {
		return nil, fmt.Errorf("failed to close request body: %w", err)
	}
	m.requests = append(m.requests, recordedRequest{
		path:        req.URL.Path,
		method:      req.Method,
		contentType: req.Header.Get("Content-Type"),
		body:        body,
	})

	resp := &http.Response{
		StatusCode: http.StatusOK,
		Body:       io.NopCloser(strings.NewReader(m.response)),
		Header:     make(http.Header),
	}
	return resp, nil
}

// texts returns the "text" field of every call to the API method, in order.
func (m *mockClient) texts(t *testing.T, apiMethod string) []string {
	t.Helper()
	var out []string
	for _, req := range m.requests {
		if !strings.HasSuffix(req.path, "/"+apiMethod) {
			continue
		}
		if value, _, ok := multipartField(t, req, "text"); ok {
			out = append(out, value)
		}
	}
	return out
}

func (m *mockClient) lastText(t *testing.T, apiMethod string) string {
	t.Helper()
	texts := m.texts(t, apiMethod)
	if len(texts) == 0 {
		t.Fatalf("expected at least one %s request", apiMethod)
	}
	return texts[len(texts)-1]
}

func (m *mockClient) lastField(t *testing.T, apiMethod, fieldName string) (string, string) {
	t.Helper()
	for i := len(m.requests) - 1; i >= 0; i-- {
		req := m.requests[i]
		if !strings.HasSuffix(req.path, "/"+apiMethod) {
			continue
		}
		value, fileName, ok := multipartField(t, req, fieldName)
		if !ok {
			t.Fatalf("field %q not found in %s request", fieldName, apiMethod)
		}
		return value, fileName
	}
	t.Fatalf("expected at least one %s request", apiMethod)
	return "", ""
}

func (m *mockClient) reset() {
	m.requests = nil
}

func multipartField(t *testing.T, req recordedRequest, fieldName string) (string, string, bool) {
	t.Helper()
	mediaType, params, err := mime.ParseMediaType(req.contentType)
	if err != nil {
		t.Fatalf("failed to parse media type: %v", err)
	}
	if !strings.HasPrefix(mediaType, "multipart/") {
		t.Fatalf("unexpected media type: %s", mediaType)
	}

	reader := multipart.NewReader(bytes.NewReader(req.body), params["boundary"])
	for {
		part, err := reader.NextPart()
		if err == io.EOF {
			return "", "", false
		}
		if err != nil {
			t.Fatalf("failed to read multipart part: %v", err)
		}
		if part.FormName() == fieldName {
			data, err := io.ReadAll(part)
			if err != nil {
				t.Fatalf("failed to read multipart field: %v", err)
			}
			return string(data), part.FileName(), true
		}
	}
}

func newTestTelegramBot(t *testing.T, client *mockClient) *telegram.Bot {
	t.Helper()
	b, err := telegram.New("test-token",
		telegram.WithSkipGetMe(),
		telegram.WithHTTPClient(time.Second, client),
	)
	if err != nil {
		t.Fatalf("failed to create test bot: %v", err)
	}
	return b
}

type handlerFixture struct {
	handler *Handler
	db      *gorm.DB
	store   *prefs.GormStore
	writer  *prefs.Writer
	client  *mockClient
	bot     *telegram.Bot
	tokens  int
	mu      sync.Mutex
}

var testNow = time.Date(2026, 10, 14, 10, 0, 0, 0, time.UTC)

func newHandlerFixture(t *testing.T) *handlerFixture {
	t.Helper()
	logger.SetLogLevel(logger.ERROR)

	gdb := testutil.SetupTestDB(t)
	store := prefs.NewGormStore(gdb)
	writer := prefs.NewWriter(store, 16)
	t.Cleanup(writer.Close)
	settings := reminders.NewSettings(gdb, 0)
	now := func() time.Time { return testNow }

	f := &handlerFixture{db: gdb, store: store, writer: writer, client: newMockClient()}
	manager := deck.NewManager(deck.Options{
		Catalog: quotes.Builtin(),
		Reader:  store,
		Writer:  writer,
		Offsets: settings,
		Now:     now,
		NewToken: func() string {
			f.mu.Lock()
			defer f.mu.Unlock()
			f.tokens++
			return fmt.Sprintf("tok-%d", f.tokens)
		},
	})
	f.handler = New(Options{
		Deck:       manager,
		Prefs:      store,
		Writer:     writer,
		Settings:   settings,
		Scheduler:  reminders.NewScheduler(gdb, now),
		Onboarding: onboarding.NewService(gdb, writer),
		Now:        now,
	})
	f.bot = newTestTelegramBot(t, f.client)
	return f
}

func (f *handlerFixture) record(t *testing.T, userID int64) prefs.Record {
	t.Helper()
	record, err := f.handler.readRecord(context.Background(), userID)
	if err != nil {
		t.Fatalf("failed to read record: %v", err)
	}
	return record
}

func newTestUpdate(text string, userID int64) *models.Update {
	return &models.Update{
		Message: &models.Message{
			From: &models.User{
				ID: userID,
			},
			Chat: models.Chat{
				ID:   userID,
				Type: models.ChatTypePrivate,
			},
			Text: text,
		},
	}
}

func newTestCallbackUpdate(data string, userID, chatID int64, messageID int) *models.Update {
	return &models.Update{
		CallbackQuery: &models.CallbackQuery{
			ID:   "callback-1",
			From: models.User{ID: userID},
			Data: data,
			Message: models.MaybeInaccessibleMessage{
				Type: models.MaybeInaccessibleMessageTypeMessage,
				Message: &models.Message{
					ID: messageID,
					Chat: models.Chat{
						ID:   chatID,
						Type: models.ChatTypePrivate,
					},
				},
			},
		},
	}
}
