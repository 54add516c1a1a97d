package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/telos-kitchen/account-service/internal/domain"
)

func TestKeygen_DefaultsToTwoPairs(t *testing.T) {
	svc := &mockAccountSvc{}
	svc.On("Keygen", mock.Anything, 2).Return([]domain.KeyPair{
		{PublicKey: "EOS5one", PrivateKey: "5Kone"},
		{PublicKey: "EOS5two", PrivateKey: "5Ktwo"},
	}, nil)
	h := NewKeygenHandler(svc, &mockReporter{})

	r := httptest.NewRequest(http.MethodGet, "/v1/keygen", nil)
	rr := httptest.NewRecorder()
	h.Generate(rr, r)

	assert.Equal(t, http.StatusOK, rr.Code)
	var resp KeysEnvelope
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
	assert.Equal(t, "See attached keys", resp.Message)
	assert.Len(t, resp.Keys, 2)
	svc.AssertExpectations(t)
}

func TestKeygen_ExplicitCount(t *testing.T) {
	svc := &mockAccountSvc{}
	svc.On("Keygen", mock.Anything, 5).Return(make([]domain.KeyPair, 5), nil)
	h := NewKeygenHandler(svc, &mockReporter{})

	r := httptest.NewRequest(http.MethodGet, "/v1/keygen?numKeys=5", nil)
	rr := httptest.NewRecorder()
	h.Generate(rr, r)

	assert.Equal(t, http.StatusOK, rr.Code)
	svc.AssertExpectations(t)
}

func TestKeygen_NonNumericCount(t *testing.T) {
	svc := &mockAccountSvc{}
	h := NewKeygenHandler(svc, &mockReporter{})

	r := httptest.NewRequest(http.MethodGet, "/v1/keygen?numKeys=lots", nil)
	rr := httptest.NewRecorder()
	h.Generate(rr, r)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	svc.AssertNotCalled(t, "Keygen", mock.Anything, mock.Anything)
}

func TestKeygen_CountOutOfRange(t *testing.T) {
	svc := &mockAccountSvc{}
	svc.On("Keygen", mock.Anything, 500).
		Return(nil, fmt.Errorf("numKeys must be between 1 and 100: %w", domain.ErrBadRequest))
	h := NewKeygenHandler(svc, &mockReporter{})

	r := httptest.NewRequest(http.MethodGet, "/v1/keygen?numKeys=500", nil)
	rr := httptest.NewRecorder()
	h.Generate(rr, r)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	svc.AssertExpectations(t)
}
