package handler

import (
	"net/http"
	"strconv"

	"github.com/telos-kitchen/account-service/internal/application/account"
	"github.com/telos-kitchen/account-service/internal/infrastructure/sentry"
	"github.com/telos-kitchen/account-service/internal/transport/http/middleware"
)

// KeygenHandler handles the stateless key-pair generation endpoint.
type KeygenHandler struct {
	svc      account.Service
	reporter sentry.Reporter
}

func NewKeygenHandler(svc account.Service, reporter sentry.Reporter) *KeygenHandler {
	return &KeygenHandler{svc: svc, reporter: reporter}
}

func (h *KeygenHandler) Generate(w http.ResponseWriter, r *http.Request) {
	numKeys := 2
	if q := r.URL.Query().Get("numKeys"); q != "" {
		n, err := strconv.Atoi(q)
		if err != nil {
			writeError(w, http.StatusBadRequest, "numKeys must be an integer")
			return
		}
		numKeys = n
	}

	keys, err := h.svc.Keygen(r.Context(), numKeys)
	if err != nil {
		status := statusOf(err)
		if status == http.StatusInternalServerError {
			h.reporter.CaptureException(err, map[string]string{
				"Request ID": middleware.RequestIDFromContext(r.Context()),
			})
			h.reporter.Flush(faultFlushTimeout)
		}
		writeError(w, status, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, KeysEnvelope{Message: "See attached keys", Keys: keys})
}
