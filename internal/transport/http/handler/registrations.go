package handler

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/telos-kitchen/account-service/internal/application/account"
	"github.com/telos-kitchen/account-service/internal/domain"
	"github.com/telos-kitchen/account-service/internal/infrastructure/sentry"
	"github.com/telos-kitchen/account-service/internal/pkg/validate"
	"github.com/telos-kitchen/account-service/internal/transport/http/middleware"
)

// faultFlushTimeout bounds how long a handler waits for the fault
// reporter before answering the caller.
const faultFlushTimeout = 2500 * time.Millisecond

// RegistrationHandler handles the account-creation, availability-check
// and record-deletion endpoints.
type RegistrationHandler struct {
	svc      account.Service
	reporter sentry.Reporter
}

func NewRegistrationHandler(svc account.Service, reporter sentry.Reporter) *RegistrationHandler {
	return &RegistrationHandler{svc: svc, reporter: reporter}
}

func (h *RegistrationHandler) Create(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, http.StatusBadRequest, "could not read request body")
		return
	}
	var req domain.CreateAccountRequest
	if err := json.Unmarshal(body, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	resp, err := h.svc.Create(r.Context(), account.CreateParams{
		SMSNumber:            req.SMSNumber,
		SMSOTP:               req.SMSOTP,
		TelosAccount:         req.TelosAccount,
		ActiveKey:            req.ActiveKey,
		OwnerKey:             req.OwnerKey,
		PrivateKey:           req.PrivateKey,
		GenerateKeys:         req.GenerateKeys == "Y",
		SendPrivateKeyViaSMS: req.SendPrivateKeyViaSMS == "Y",
	})
	if err != nil {
		h.respondError(w, r, err, body)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *RegistrationHandler) Check(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("telosAccount")
	if err := h.svc.CheckAccount(r.Context(), name); err != nil {
		h.respondError(w, r, err, nil)
		return
	}
	writeJSON(w, http.StatusOK, MessageEnvelope{
		Message: fmt.Sprintf("Requested Telos account name %s is valid and available.", name),
	})
}

func (h *RegistrationHandler) Delete(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, http.StatusBadRequest, "could not read request body")
		return
	}
	var req domain.DeleteRecordRequest
	if err := json.Unmarshal(body, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.svc.DeleteRecord(r.Context(), req.SMSNumber); err != nil {
		h.respondError(w, r, err, body)
		return
	}
	writeJSON(w, http.StatusOK, MessageEnvelope{
		Message: fmt.Sprintf("Record matching %s has been removed.", req.SMSNumber),
	})
}

// respondError maps the error to a status code; collaborator faults are
// reported to telemetry before the response goes out.
func (h *RegistrationHandler) respondError(w http.ResponseWriter, r *http.Request, err error, body []byte) {
	status := statusOf(err)
	if status == http.StatusInternalServerError {
		h.reporter.CaptureException(err, map[string]string{
			"Request Body": string(body),
			"Request ID":   middleware.RequestIDFromContext(r.Context()),
		})
		h.reporter.Flush(faultFlushTimeout)
	}
	writeError(w, status, err.Error())
}
