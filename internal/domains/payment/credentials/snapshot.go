package credentials

import (
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"golang.org/x/crypto/chacha20poly1305"

	"resursbank-gateway/internal/domains/payment/model"
)

// Sealer encrypts credential snapshots stored on orders.
// A Sealer without a key is disabled: Seal and Open return model.ErrSnapshotUnavailable.
type Sealer struct {
	aead cipher.AEAD
}

// NewSealer accepts a hex-encoded 32-byte key. An empty key yields a disabled Sealer.
func NewSealer(hexKey string) (*Sealer, error) {
	if hexKey == "" {
		return &Sealer{}, nil
	}

	key, err := hex.DecodeString(hexKey)
	if err != nil {
		return nil, fmt.Errorf("decode snapshot key: %w", err)
	}
	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return nil, fmt.Errorf("init snapshot cipher: %w", err)
	}
	return &Sealer{aead: aead}, nil
}

func (s *Sealer) Enabled() bool {
	return s != nil && s.aead != nil
}

// Seal returns base64(nonce || ciphertext) of the JSON-encoded credential set.
func (s *Sealer) Seal(creds model.CredentialSet) (string, error) {
	if !s.Enabled() {
		return "", model.ErrSnapshotUnavailable
	}

	plain, err := json.Marshal(creds)
	if err != nil {
		return "", fmt.Errorf("encode snapshot: %w", err)
	}

	nonce := make([]byte, s.aead.NonceSize(), s.aead.NonceSize()+len(plain)+s.aead.Overhead())
	if _, err := rand.Read(nonce); err != nil {
		return "", fmt.Errorf("snapshot nonce: %w", err)
	}

	sealed := s.aead.Seal(nonce, nonce, plain, nil)
	return base64.StdEncoding.EncodeToString(sealed), nil
}

func (s *Sealer) Open(blob string) (model.CredentialSet, error) {
	var creds model.CredentialSet
	if !s.Enabled() {
		return creds, model.ErrSnapshotUnavailable
	}

	raw, err := base64.StdEncoding.DecodeString(blob)
	if err != nil {
		return creds, fmt.Errorf("%w: %v", model.ErrSnapshotUnavailable, err)
	}
	if len(raw) < s.aead.NonceSize() {
		return creds, fmt.Errorf("%w: snapshot too short", model.ErrSnapshotUnavailable)
	}

	nonce, ciphertext := raw[:s.aead.NonceSize()], raw[s.aead.NonceSize():]
	plain, err := s.aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return creds, fmt.Errorf("%w: %v", model.ErrSnapshotUnavailable, err)
	}
	if err := json.Unmarshal(plain, &creds); err != nil {
		return creds, fmt.Errorf("%w: %v", model.ErrSnapshotUnavailable, err)
	}
	return creds, nil
}
