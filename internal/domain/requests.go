package domain

import "encoding/json"

// CreateAccountRequest is the wire payload for the create endpoint.
// GenerateKeys and SendPrivateKeyViaSMS are "Y"/"N" string flags on the
// wire; the handler parses them into booleans before calling the service.
type CreateAccountRequest struct {
	SMSNumber            string `json:"smsNumber"`
	SMSOTP               string `json:"smsOtp"`
	TelosAccount         string `json:"telosAccount"`
	ActiveKey            string `json:"activeKey"`
	OwnerKey             string `json:"ownerKey"`
	GenerateKeys         string `json:"generateKeys" validate:"omitempty,oneof=Y N"`
	SendPrivateKeyViaSMS string `json:"sendPrivateKeyViaSms" validate:"omitempty,oneof=Y N"`
	PrivateKey           string `json:"privateKey"`
}

// DeleteRecordRequest is the wire payload for the record deletion endpoint.
type DeleteRecordRequest struct {
	SMSNumber string `json:"smsNumber"`
}

// CreateAccountResponse is returned on a successful account creation.
type CreateAccountResponse struct {
	Message string          `json:"message"`
	Result  json.RawMessage `json:"result"`
	KeyPair *KeyPair        `json:"keyPair,omitempty"`
}
