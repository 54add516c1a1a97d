package sentry

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/telos-kitchen/account-service/internal/config"
)

func TestNewReporter_RejectsBareDSN(t *testing.T) {
	_, err := NewReporter(&config.Config{SentryDSN: "not-a-dsn"})
	assert.Error(t, err)
}

func TestNewReporter_RejectsMissingProject(t *testing.T) {
	_, err := NewReporter(&config.Config{SentryDSN: "https://key@sentry.example.com"})
	assert.Error(t, err)
}

func TestCaptureException_DeliversEvent(t *testing.T) {
	var mu sync.Mutex
	var got map[string]interface{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/42/store/", r.URL.Path)
		assert.Contains(t, r.Header.Get("X-Sentry-Auth"), "sentry_key=pubkey")
		mu.Lock()
		defer mu.Unlock()
		_ = json.NewDecoder(r.Body).Decode(&got)
	}))
	defer srv.Close()

	rep, err := NewReporter(&config.Config{SentryDSN: "http://pubkey@" + srv.Listener.Addr().String() + "/42"})
	require.NoError(t, err)

	rep.CaptureException(errors.New("chain fell over"), map[string]string{"Request Body": `{"smsNumber":"x"}`})
	rep.Flush(2 * time.Second)

	mu.Lock()
	defer mu.Unlock()
	require.NotNil(t, got)
	assert.Equal(t, "error", got["level"])
	exc := got["exception"].(map[string]interface{})["values"].([]interface{})[0].(map[string]interface{})
	assert.Equal(t, "chain fell over", exc["value"])
}

func TestFlush_BoundedWhenNothingPending(t *testing.T) {
	start := time.Now()
	Noop{}.Flush(2 * time.Second)
	assert.Less(t, time.Since(start), time.Second)
}
