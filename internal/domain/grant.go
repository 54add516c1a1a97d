package domain

// GrantRecord is the persisted state for one SMS-number identity.
// PK: sms_hash. The record is seeded by the register step (hash + OTP);
// the create workflow fills in the remaining fields and sets
// AccountCreatedAt exactly once. A record with AccountCreatedAt > 0 has
// already received its free account and must never receive another.
type GrantRecord struct {
	SMSHash          string `json:"smsHash" dynamodbav:"sms_hash"`
	SMSOTP           string `json:"smsOtp" dynamodbav:"sms_otp"`
	TelosAccount     string `json:"telosAccount,omitempty" dynamodbav:"telos_account"`
	OwnerKey         string `json:"ownerKey,omitempty" dynamodbav:"owner_key"`
	ActiveKey        string `json:"activeKey,omitempty" dynamodbav:"active_key"`
	AccountCreatedAt int64  `json:"accountCreatedAt" dynamodbav:"account_created_at"` // epoch millis, 0 = not yet granted
	Result           string `json:"result,omitempty" dynamodbav:"result"`             // serialized chain response
	PKSID            string `json:"pkSid,omitempty" dynamodbav:"pk_sid"`              // SNS message id of the private-key SMS
}

// Granted reports whether this identity has already received its free account.
func (r *GrantRecord) Granted() bool {
	return r.AccountCreatedAt > 0
}

// KeyPair is a generated Telos key pair. The private key is never
// persisted; it only travels in the response and, optionally, one SMS.
type KeyPair struct {
	PublicKey  string `json:"publicKey"`
	PrivateKey string `json:"privateKey"`
}
