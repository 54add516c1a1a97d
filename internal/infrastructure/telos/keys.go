package telos

import (
	"crypto/sha256"
	"fmt"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/mr-tron/base58"
	"github.com/telos-kitchen/account-service/internal/domain"
	"golang.org/x/crypto/ripemd160"
)

// GenerateKeyPair generates a fresh secp256k1 key pair in Telos wire
// format: a WIF-encoded private key and an EOS-prefixed public key.
// Keys are generated locally and never leave the process except through
// the response (and, optionally, one SMS).
func (c *Client) GenerateKeyPair() (domain.KeyPair, error) {
	priv, err := secp256k1.GeneratePrivateKey()
	if err != nil {
		return domain.KeyPair{}, fmt.Errorf("generate secp256k1 key: %w", err)
	}
	return domain.KeyPair{
		PublicKey:  encodePublicKey(priv.PubKey().SerializeCompressed()),
		PrivateKey: encodePrivateKey(priv.Serialize()),
	}, nil
}

// GenerateKeyPairs generates n independent key pairs.
func (c *Client) GenerateKeyPairs(n int) ([]domain.KeyPair, error) {
	pairs := make([]domain.KeyPair, 0, n)
	for i := 0; i < n; i++ {
		kp, err := c.GenerateKeyPair()
		if err != nil {
			return nil, err
		}
		pairs = append(pairs, kp)
	}
	return pairs, nil
}

// encodePublicKey renders a 33-byte compressed public key in the legacy
// EOS format: "EOS" + base58(key || ripemd160(key)[:4]).
func encodePublicKey(compressed []byte) string {
	h := ripemd160.New()
	h.Write(compressed)
	checksum := h.Sum(nil)[:4]

	payload := make([]byte, 0, len(compressed)+4)
	payload = append(payload, compressed...)
	payload = append(payload, checksum...)
	return "EOS" + base58.Encode(payload)
}

// encodePrivateKey renders a 32-byte private key as WIF:
// base58(0x80 || key || sha256(sha256(0x80 || key))[:4]).
func encodePrivateKey(raw []byte) string {
	payload := make([]byte, 0, len(raw)+5)
	payload = append(payload, 0x80)
	payload = append(payload, raw...)

	first := sha256.Sum256(payload)
	second := sha256.Sum256(first[:])
	payload = append(payload, second[:4]...)
	return base58.Encode(payload)
}
