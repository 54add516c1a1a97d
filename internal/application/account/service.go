package account

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/telos-kitchen/account-service/internal/domain"
	"github.com/telos-kitchen/account-service/internal/pkg/phone"
	"github.com/telos-kitchen/account-service/internal/pkg/smshash"
)

// GrantStore is the persistence surface the workflows require.
// GetBySMSHash returns a zero-valued record (AccountCreatedAt == 0)
// when no row exists; Delete is a no-op for absent rows.
type GrantStore interface {
	GetBySMSHash(ctx context.Context, smsHash string) (*domain.GrantRecord, error)
	Save(ctx context.Context, rec *domain.GrantRecord) error
	Delete(ctx context.Context, smsHash string) error
}

// Ledger is the chain surface the workflows require.
type Ledger interface {
	ValidAccountFormat(name string) bool
	AccountExists(ctx context.Context, name string) (bool, error)
	CreateAccount(ctx context.Context, name, ownerKey, activeKey string) (json.RawMessage, error)
	GenerateKeyPair() (domain.KeyPair, error)
	GenerateKeyPairs(n int) ([]domain.KeyPair, error)
}

// SMSSender delivers one text message and returns the delivery id.
type SMSSender interface {
	SendSMS(ctx context.Context, to, message string) (string, error)
}

// CreateParams is the create workflow input after the handler has
// parsed the wire-level "Y" flags into booleans.
type CreateParams struct {
	SMSNumber            string
	SMSOTP               string
	TelosAccount         string
	ActiveKey            string
	OwnerKey             string
	PrivateKey           string
	GenerateKeys         bool
	SendPrivateKeyViaSMS bool
}

// MaxKeygenCount bounds the keygen endpoint; it is public and
// unauthenticated, so the count cannot be open-ended.
const MaxKeygenCount = 100

type Service interface {
	Create(ctx context.Context, p CreateParams) (*domain.CreateAccountResponse, error)
	CheckAccount(ctx context.Context, telosAccount string) error
	DeleteRecord(ctx context.Context, smsNumber string) error
	Keygen(ctx context.Context, numKeys int) ([]domain.KeyPair, error)
}

type service struct {
	grants        GrantStore
	ledger        Ledger
	sms           SMSSender
	deleteAllowed func() bool
}

// NewService wires the three workflows. deleteAllowed is evaluated on
// every deletion request so the environment gate can flip at runtime.
func NewService(grants GrantStore, ledger Ledger, sms SMSSender, deleteAllowed func() bool) Service {
	return &service{grants: grants, ledger: ledger, sms: sms, deleteAllowed: deleteAllowed}
}

// Create runs the full account-creation workflow: OTP gate, one-grant
// idempotency gate, account-name and key resolution, chain submission,
// optional private-key SMS, and a single terminal record write.
//
// The idempotency gate is check-then-act: it is not transactional with
// the chain call or the final Save, so two concurrent requests for the
// same number can both pass it. Known gap, carried from the service's
// observed behavior; a conditional PutItem on account_created_at would
// close it.
//
// When GenerateKeys is set, the generated public key overwrites any
// ActiveKey/OwnerKey supplied in the same request. Observed precedence,
// kept as-is.
func (s *service) Create(ctx context.Context, p CreateParams) (*domain.CreateAccountResponse, error) {
	if p.SMSNumber == "" || p.SMSOTP == "" {
		return nil, fmt.Errorf("smsNumber and smsOtp are required: %w", domain.ErrBadRequest)
	}
	if p.SendPrivateKeyViaSMS && !p.GenerateKeys && p.PrivateKey == "" {
		return nil, fmt.Errorf("sendPrivateKeyViaSms parameter can only be used if generateKeys is set to Y or the client passes the privateKey directly: %w", domain.ErrBadRequest)
	}

	smsNumber, err := phone.Normalize(p.SMSNumber)
	if err != nil {
		return nil, err
	}
	hash := smshash.Hash(smsNumber)

	rec, err := s.grants.GetBySMSHash(ctx, hash)
	if err != nil {
		return nil, err
	}
	if rec.Granted() {
		return nil, fmt.Errorf("this SMS number %s has already received a free Telos account via this service. Use SQRL or another wallet to create another account: %w", smsNumber, domain.ErrForbidden)
	}
	if p.SMSOTP != rec.SMSOTP {
		return nil, fmt.Errorf("the OTP provided does not match: %s. Permission denied: %w", p.SMSOTP, domain.ErrForbidden)
	}

	if p.TelosAccount != "" {
		if !s.ledger.ValidAccountFormat(p.TelosAccount) {
			return nil, fmt.Errorf("requested Telos account name (%s) is not a valid format. It must match ^([a-z]|[1-5]|[.]){1,12}$: %w", p.TelosAccount, domain.ErrBadRequest)
		}
		exists, err := s.ledger.AccountExists(ctx, p.TelosAccount)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, fmt.Errorf("requested Telos account name (%s) already exists: %w", p.TelosAccount, domain.ErrBadRequest)
		}
		rec.TelosAccount = p.TelosAccount
	}

	if p.ActiveKey != "" {
		rec.ActiveKey = p.ActiveKey
	}
	if p.OwnerKey != "" {
		rec.OwnerKey = p.OwnerKey
	}

	resp := &domain.CreateAccountResponse{}
	if p.GenerateKeys {
		kp, err := s.ledger.GenerateKeyPair()
		if err != nil {
			return nil, err
		}
		rec.ActiveKey = kp.PublicKey
		rec.OwnerKey = kp.PublicKey
		resp.KeyPair = &kp
	}

	if rec.TelosAccount == "" {
		return nil, fmt.Errorf("telosAccount is not available. This must be transmitted to either the register or create service. See API docs for more info: %w", domain.ErrBadRequest)
	}
	if rec.ActiveKey == "" || rec.OwnerKey == "" {
		return nil, fmt.Errorf("activeKey or ownerKey is not available. These must be transmitted to either the register or create service or transmit option generateKeys=Y. See API docs for more info: %w", domain.ErrBadRequest)
	}

	result, err := s.ledger.CreateAccount(ctx, rec.TelosAccount, rec.OwnerKey, rec.ActiveKey)
	if err != nil {
		return nil, err
	}

	message := fmt.Sprintf("Telos account %s was created.", rec.TelosAccount)
	if resp.KeyPair != nil {
		message += " Key pair was generated by the service and NOT saved. See attached for keyPair used for owner and active."
	}

	if p.SendPrivateKeyViaSMS {
		if s.sms == nil {
			return nil, errors.New("SMS delivery is not configured")
		}
		privateKey := p.PrivateKey
		if privateKey == "" {
			privateKey = resp.KeyPair.PrivateKey
		}
		sid, err := s.sms.SendSMS(ctx, smsNumber, "Important: Keep in a safe place: "+privateKey)
		if err != nil {
			return nil, err
		}
		rec.PKSID = sid
		message += fmt.Sprintf(" Private key was also sent via SMS. SID: %s.", sid)
	}

	rec.AccountCreatedAt = time.Now().UnixMilli()
	rec.Result = string(result)
	slog.Info("persisting grant record", "sms_hash", rec.SMSHash, "telos_account", rec.TelosAccount)
	if err := s.grants.Save(ctx, rec); err != nil {
		// The chain-level account exists at this point but the record is
		// not terminal; a retry will fail at the existence check.
		return nil, err
	}

	resp.Message = message
	resp.Result = result
	return resp, nil
}

// CheckAccount validates a candidate name and probes the chain for it.
// Read-only; nil means the name is valid and available.
func (s *service) CheckAccount(ctx context.Context, telosAccount string) error {
	if telosAccount == "" {
		return fmt.Errorf("telosAccount query string parameter is required: %w", domain.ErrBadRequest)
	}
	if !s.ledger.ValidAccountFormat(telosAccount) {
		return fmt.Errorf("requested Telos account name %s is not a valid format. It must match ^([a-z]|[1-5]|[.]){1,12}$: %w", telosAccount, domain.ErrBadRequest)
	}
	exists, err := s.ledger.AccountExists(ctx, telosAccount)
	if err != nil {
		return err
	}
	if exists {
		return fmt.Errorf("requested Telos account name %s already exists: %w", telosAccount, domain.ErrBadRequest)
	}
	return nil
}

// DeleteRecord removes the grant record for an SMS number. Gated by an
// environment flag checked per request; test environments only.
func (s *service) DeleteRecord(ctx context.Context, smsNumber string) error {
	if !s.deleteAllowed() {
		return fmt.Errorf("deleting records is not allowed in this environment: %w", domain.ErrForbidden)
	}
	if smsNumber == "" {
		return fmt.Errorf("smsNumber is required: %w", domain.ErrBadRequest)
	}
	normalized, err := phone.Normalize(smsNumber)
	if err != nil {
		return err
	}
	return s.grants.Delete(ctx, smshash.Hash(normalized))
}

// Keygen generates numKeys independent key pairs.
func (s *service) Keygen(ctx context.Context, numKeys int) ([]domain.KeyPair, error) {
	if numKeys < 1 || numKeys > MaxKeygenCount {
		return nil, fmt.Errorf("numKeys must be between 1 and %d: %w", MaxKeygenCount, domain.ErrBadRequest)
	}
	return s.ledger.GenerateKeyPairs(numKeys)
}
