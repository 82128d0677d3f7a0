package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/ayyubpromptcoder/sellerbot/internal/bot"
	"github.com/ayyubpromptcoder/sellerbot/internal/catalog"
	"github.com/ayyubpromptcoder/sellerbot/internal/ledger"
	"github.com/ayyubpromptcoder/sellerbot/internal/sheet"
)

type nullMessenger struct{}

func (nullMessenger) SendText(int64, string) error                 { return nil }
func (nullMessenger) SendMenu(int64, string, bot.Menu) error       { return nil }
func (nullMessenger) SendKeyboard(int64, string, [][]string) error { return nil }
func (nullMessenger) RemoveKeyboard(int64, string) error           { return nil }
func (nullMessenger) AnswerCallback(string) error                  { return nil }

func newTestRouter(t *testing.T, secret string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	logger := zaptest.NewLogger(t)
	store := sheet.NewMemoryStore()
	d := bot.NewDispatcher(nil,
		catalog.NewService(store, logger),
		ledger.NewService(store, logger),
		nullMessenger{}, logger)

	router := gin.New()
	InitRoutes(context.Background(), router, d, secret, logger)
	return router
}

func postUpdate(router *gin.Engine, secret string, update tgbotapi.Update) *httptest.ResponseRecorder {
	body, _ := json.Marshal(update)
	req := httptest.NewRequest(http.MethodPost, WebhookPath, bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	if secret != "" {
		req.Header.Set("X-Telegram-Bot-Api-Secret-Token", secret)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestWebhookRejectsBadSecret(t *testing.T) {
	router := newTestRouter(t, "topsecret")

	w := postUpdate(router, "", tgbotapi.Update{})
	assert.Equal(t, http.StatusForbidden, w.Code, "missing secret header")

	w = postUpdate(router, "wrong", tgbotapi.Update{})
	assert.Equal(t, http.StatusForbidden, w.Code, "wrong secret header")
}

func TestWebhookAcceptsUpdate(t *testing.T) {
	router := newTestRouter(t, "topsecret")

	update := tgbotapi.Update{
		UpdateID: 1,
		Message: &tgbotapi.Message{
			MessageID: 10,
			From:      &tgbotapi.User{ID: 100},
			Chat:      &tgbotapi.Chat{ID: 100},
			Text:      "/start",
			Entities:  []tgbotapi.MessageEntity{{Type: "bot_command", Offset: 0, Length: 6}},
		},
	}
	w := postUpdate(router, "topsecret", update)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestWebhookRejectsBadPayload(t *testing.T) {
	router := newTestRouter(t, "topsecret")

	req := httptest.NewRequest(http.MethodPost, WebhookPath, bytes.NewBufferString("{not json"))
	req.Header.Set("X-Telegram-Bot-Api-Secret-Token", "topsecret")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

// slowStore delays reads past the HTTP exchange so a test can observe
// which context the spawned dispatch runs under.
type slowStore struct {
	*sheet.MemoryStore
	release chan struct{}
	ctxErr  chan error
}

func (s *slowStore) Rows(ctx context.Context, table sheet.Table) [][]string {
	<-s.release
	s.ctxErr <- ctx.Err()
	return s.MemoryStore.Rows(ctx, table)
}

func TestWebhookDispatchOutlivesRequest(t *testing.T) {
	gin.SetMode(gin.TestMode)
	logger := zaptest.NewLogger(t)
	store := &slowStore{
		MemoryStore: sheet.NewMemoryStore(),
		release:     make(chan struct{}),
		ctxErr:      make(chan error, 1),
	}
	d := bot.NewDispatcher([]int64{1},
		catalog.NewService(store, logger),
		ledger.NewService(store, logger),
		nullMessenger{}, logger)

	router := gin.New()
	InitRoutes(context.Background(), router, d, "topsecret", logger)
	srv := httptest.NewServer(router)
	defer srv.Close()

	update := tgbotapi.Update{
		UpdateID: 1,
		CallbackQuery: &tgbotapi.CallbackQuery{
			ID:      "cb1",
			From:    &tgbotapi.User{ID: 1},
			Data:    "list_products",
			Message: &tgbotapi.Message{Chat: &tgbotapi.Chat{ID: 1}},
		},
	}
	body, _ := json.Marshal(update)
	req, err := http.NewRequest(http.MethodPost, srv.URL+WebhookPath, bytes.NewReader(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Telegram-Bot-Api-Secret-Token", "topsecret")

	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	// The 200 is already on the wire; only now let the store read proceed.
	close(store.release)
	select {
	case err := <-store.ctxErr:
		assert.NoError(t, err, "dispatch context must not be tied to the request")
	case <-time.After(2 * time.Second):
		t.Fatal("dispatch never reached the store")
	}
}

func TestPingRoute(t *testing.T) {
	router := newTestRouter(t, "topsecret")

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "pong")
}

func TestEventFromUpdate(t *testing.T) {
	ev, ok := EventFromUpdate(tgbotapi.Update{Message: &tgbotapi.Message{
		From: &tgbotapi.User{ID: 5},
		Chat: &tgbotapi.Chat{ID: 7},
		Text: "hello",
	}})
	require.True(t, ok)
	assert.Equal(t, int64(7), ev.ChatID)
	assert.Equal(t, int64(5), ev.UserID)
	assert.Equal(t, "hello", ev.Text)
	assert.Empty(t, ev.Command)

	ev, ok = EventFromUpdate(tgbotapi.Update{Message: &tgbotapi.Message{
		From:     &tgbotapi.User{ID: 5},
		Chat:     &tgbotapi.Chat{ID: 7},
		Text:     "/mahsulot",
		Entities: []tgbotapi.MessageEntity{{Type: "bot_command", Offset: 0, Length: 9}},
	}})
	require.True(t, ok)
	assert.Equal(t, "mahsulot", ev.Command)
	assert.Empty(t, ev.Text, "command messages carry no free text")

	ev, ok = EventFromUpdate(tgbotapi.Update{CallbackQuery: &tgbotapi.CallbackQuery{
		ID:      "cb1",
		From:    &tgbotapi.User{ID: 5},
		Data:    "list_products",
		Message: &tgbotapi.Message{Chat: &tgbotapi.Chat{ID: 7}},
	}})
	require.True(t, ok)
	assert.Equal(t, "list_products", ev.Callback)
	assert.Equal(t, "cb1", ev.CallbackID)
	assert.Equal(t, int64(7), ev.ChatID)

	_, ok = EventFromUpdate(tgbotapi.Update{})
	assert.False(t, ok, "empty update is dropped")
}
