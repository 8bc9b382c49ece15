package messaging

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/farmingfruit/fruit-tree-fresh-with-subagents/internal/logger"
	"github.com/farmingfruit/fruit-tree-fresh-with-subagents/internal/model"
	"github.com/farmingfruit/fruit-tree-fresh-with-subagents/internal/testutil"
)

func TestWebhook_SendEmail(t *testing.T) {
	var (
		gotPath string
		gotAuth string
		got     envelope
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	w := NewWebhook(srv.URL+"/", "secret", time.Second)
	err := w.SendEmail(context.Background(), model.EmailMessage{To: "mary@example.org", Subject: "Hi", Text: "t", HTML: "<p>t</p>"})
	require.NoError(t, err)

	assert.Equal(t, "/email", gotPath)
	assert.Equal(t, "Bearer secret", gotAuth)
	assert.Equal(t, "email", got.Channel)
	require.NotNil(t, got.Email)
	assert.Equal(t, "mary@example.org", got.Email.To)
	assert.Nil(t, got.SMS)
}

func TestWebhook_SendSMS(t *testing.T) {
	var got envelope
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/sms", r.URL.Path)
		assert.Empty(t, r.Header.Get("Authorization"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
	}))
	defer srv.Close()

	w := NewWebhook(srv.URL, "", time.Second)
	err := w.SendSMS(context.Background(), model.SMSMessage{To: "+15551234567", Body: "code"})
	require.NoError(t, err)
	require.NotNil(t, got.SMS)
	assert.Equal(t, "+15551234567", got.SMS.To)
}

func TestWebhook_Errors(t *testing.T) {
	t.Run("non 2xx status", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			http.Error(w, "provider down", http.StatusBadGateway)
		}))
		defer srv.Close()

		err := NewWebhook(srv.URL, "", time.Second).SendSMS(context.Background(), model.SMSMessage{To: "+1", Body: "x"})
		assert.ErrorContains(t, err, "status 502")
		assert.ErrorContains(t, err, "provider down")
	})

	t.Run("unreachable", func(t *testing.T) {
		srv := httptest.NewServer(http.NotFoundHandler())
		url := srv.URL
		srv.Close()

		err := NewWebhook(url, "", time.Second).SendEmail(context.Background(), model.EmailMessage{To: "a@b.c"})
		assert.ErrorContains(t, err, "failed to send email")
	})

	t.Run("cancelled context", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {}))
		defer srv.Close()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		err := NewWebhook(srv.URL, "", time.Second).SendEmail(ctx, model.EmailMessage{To: "a@b.c"})
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestRecorder(t *testing.T) {
	r := NewRecorder()
	ctx := context.Background()

	_, ok := r.LastEmail()
	assert.False(t, ok)

	var wg sync.WaitGroup
	for range 10 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, r.SendEmail(ctx, model.EmailMessage{To: "a@b.c"}))
			assert.NoError(t, r.SendSMS(ctx, model.SMSMessage{To: "+1"}))
		}()
	}
	wg.Wait()

	assert.Len(t, r.Emails(), 10)
	assert.Len(t, r.SMS(), 10)

	last, ok := r.LastSMS()
	assert.True(t, ok)
	assert.Equal(t, "+1", last.To)

	r.Err = errors.New("down")
	assert.Error(t, r.SendEmail(ctx, model.EmailMessage{}))
	assert.Len(t, r.Emails(), 10)
}

func TestLog(t *testing.T) {
	l := NewLog(testutil.MakeNoopLogger())
	assert.NoError(t, l.SendEmail(context.Background(), model.EmailMessage{To: "mary@example.org"}))
	assert.NoError(t, l.SendSMS(context.Background(), model.SMSMessage{To: "+15551234567"}))
}

func TestNewLog_WarnsAboutPlaintextCredentials(t *testing.T) {
	var buf bytes.Buffer
	l := NewLog(&logger.Logger{Logger: slog.New(slog.NewTextHandler(&buf, nil))})
	require.NotNil(t, l)

	assert.Contains(t, buf.String(), "level=WARN")
	assert.Contains(t, buf.String(), "plaintext")
}
