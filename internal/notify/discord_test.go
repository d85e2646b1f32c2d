package notify

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"panelkeeper/internal/providers"
	"panelkeeper/internal/structures"
	"sync/atomic"
	"testing"
	"time"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type notifyTestLogger struct{}

func (l *notifyTestLogger) Errorf(_ providers.TypeEnum, _ string, _ ...interface{}) {}
func (l *notifyTestLogger) Warnf(_ providers.TypeEnum, _ string, _ ...interface{})  {}
func (l *notifyTestLogger) Debugf(_ providers.TypeEnum, _ string, _ ...interface{}) {}
func (l *notifyTestLogger) Infof(_ providers.TypeEnum, _ string, _ ...interface{})  {}
func (l *notifyTestLogger) Fatalf(_ providers.TypeEnum, _ string, _ ...interface{}) {}
func (l *notifyTestLogger) Close()                                                  {}

func newTestWebhook(url string) *DiscordWebhook {
	d := NewDiscordWebhook(structures.NotifierConfig{
		WebhookURL: url,
		Username:   "Panelkeeper",
		Timeout:    time.Second,
	}, providers.NewNoopMetrics())
	d.retryDelay = []time.Duration{0, 0, 0}
	return d
}

func TestDiscordWebhook_Send(t *testing.T) {
	var got Message
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "true", r.URL.Query().Get("wait"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		body, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(body, &got))
		_, _ = w.Write([]byte(`{"id": "998877", "channel_id": "1"}`))
	}))
	defer srv.Close()

	id, err := newTestWebhook(srv.URL).Send(context.Background(), &Message{
		Embeds: []Embed{{Title: "Panels", Color: ColorInfo}},
	})
	require.NoError(t, err)

	assert.Equal(t, "998877", id)
	assert.Equal(t, "Panelkeeper", got.Username)
	require.Len(t, got.Embeds, 1)
	assert.Equal(t, "Panels", got.Embeds[0].Title)
}

func TestDiscordWebhook_SendKeepsExplicitUsername(t *testing.T) {
	var got Message
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&got)
		_, _ = w.Write([]byte(`{"id": "1"}`))
	}))
	defer srv.Close()

	_, err := newTestWebhook(srv.URL).Send(context.Background(), &Message{Content: "hi", Username: "Hafen"})
	require.NoError(t, err)
	assert.Equal(t, "Hafen", got.Username)
}

func TestDiscordWebhook_Edit(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPatch, r.Method)
		assert.Equal(t, "/hook/messages/42", r.URL.Path)
		_, _ = w.Write([]byte(`{"id": "42"}`))
	}))
	defer srv.Close()

	err := newTestWebhook(srv.URL+"/hook/").Edit(context.Background(), "42", &Message{Content: "x"})
	assert.NoError(t, err)
}

func TestDiscordWebhook_EditMissingMessage(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.Error(w, `{"message": "Unknown Message", "code": 10008}`, http.StatusNotFound)
	}))
	defer srv.Close()

	err := newTestWebhook(srv.URL).Edit(context.Background(), "42", &Message{Content: "x"})
	assert.ErrorIs(t, err, ErrMessageNotFound)
	assert.Equal(t, int32(1), calls.Load())
}

func TestDiscordWebhook_RetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		_, _ = w.Write([]byte(`{"id": "7"}`))
	}))
	defer srv.Close()

	id, err := newTestWebhook(srv.URL).Send(context.Background(), &Message{Content: "x"})
	require.NoError(t, err)
	assert.Equal(t, "7", id)
	assert.Equal(t, int32(3), calls.Load())
}

func TestDiscordWebhook_GivesUp(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := newTestWebhook(srv.URL).Send(context.Background(), &Message{Content: "x"})
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrMessageNotFound)
}

func TestDiscordWebhook_ClientErrorNotRetried(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer srv.Close()

	_, err := newTestWebhook(srv.URL).Send(context.Background(), &Message{Content: "x"})
	assert.Error(t, err)
	assert.Equal(t, int32(1), calls.Load())
}

func TestNewNotifierProvider(t *testing.T) {
	conf := &structures.Config{}
	n := NewNotifierProvider(conf, &notifyTestLogger{}, providers.NewNoopMetrics())
	assert.IsType(t, &noopNotifier{}, n)

	id, err := n.Send(context.Background(), &Message{Content: "x"})
	assert.NoError(t, err)
	assert.Empty(t, id)

	conf.Notifier = structures.NotifierConfig{WebhookURL: "http://localhost/hook", Timeout: time.Second}
	assert.IsType(t, &DiscordWebhook{}, NewNotifierProvider(conf, &notifyTestLogger{}, providers.NewNoopMetrics()))
}
