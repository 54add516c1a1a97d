package sentry

import (
	"bytes"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/telos-kitchen/account-service/internal/config"
)

// Reporter receives unexpected workflow faults for diagnostics.
// Capture is best-effort and asynchronous; Flush bounds how long a
// handler waits for in-flight reports before answering the caller.
type Reporter interface {
	CaptureException(err error, extras map[string]string)
	Flush(timeout time.Duration)
}

// Noop discards all reports. Used when no DSN is configured.
type Noop struct{}

func (Noop) CaptureException(error, map[string]string) {}
func (Noop) Flush(time.Duration)                       {}

type reporter struct {
	storeURL string
	authKey  string
	http     *http.Client
	wg       sync.WaitGroup
}

// NewReporter builds a reporter from a Sentry-style DSN
// (scheme://publicKey@host/projectID). Returns an error when the DSN
// cannot be parsed; callers fall back to Noop.
func NewReporter(cfg *config.Config) (Reporter, error) {
	u, err := url.Parse(cfg.SentryDSN)
	if err != nil {
		return nil, fmt.Errorf("parse sentry dsn: %w", err)
	}
	if u.User == nil || u.Host == "" {
		return nil, fmt.Errorf("sentry dsn %q missing key or host", cfg.SentryDSN)
	}
	project := strings.Trim(u.Path, "/")
	if project == "" {
		return nil, fmt.Errorf("sentry dsn %q missing project id", cfg.SentryDSN)
	}
	return &reporter{
		storeURL: fmt.Sprintf("%s://%s/api/%s/store/", u.Scheme, u.Host, project),
		authKey:  u.User.Username(),
		http:     &http.Client{Timeout: 5 * time.Second},
	}, nil
}

func (r *reporter) CaptureException(err error, extras map[string]string) {
	event := map[string]interface{}{
		"event_id":  eventID(),
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"platform":  "go",
		"level":     "error",
		"logger":    "account-service",
		"exception": map[string]interface{}{
			"values": []map[string]string{
				{"type": fmt.Sprintf("%T", err), "value": err.Error()},
			},
		},
		"extra": extras,
	}

	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		r.send(event)
	}()
}

// Flush waits up to timeout for in-flight reports. It never blocks the
// response longer than that.
func (r *reporter) Flush(timeout time.Duration) {
	done := make(chan struct{})
	go func() {
		r.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(timeout):
	}
}

func (r *reporter) send(event map[string]interface{}) {
	body, err := json.Marshal(event)
	if err != nil {
		return
	}
	req, err := http.NewRequest(http.MethodPost, r.storeURL, bytes.NewReader(body))
	if err != nil {
		return
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Sentry-Auth",
		fmt.Sprintf("Sentry sentry_version=7, sentry_client=account-service/1.0, sentry_key=%s", r.authKey))

	resp, err := r.http.Do(req)
	if err != nil {
		return
	}
	_ = resp.Body.Close()
}

func eventID() string {
	b := make([]byte, 16)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}
