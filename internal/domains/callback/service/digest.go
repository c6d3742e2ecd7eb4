package service

import (
	"context"
	"crypto/sha1"
	"crypto/subtle"
	"encoding/hex"
	"strings"
	"time"

	"github.com/google/uuid"

	"resursbank-gateway/internal/domains/callback/model"
	optionModel "resursbank-gateway/internal/domains/option/model"
	optionRepo "resursbank-gateway/internal/domains/option/repository"
	"resursbank-gateway/pkg/logger"
)

// SaltMaxAge is how long a callback salt stays valid.
const SaltMaxAge = 24 * time.Hour

// =====================================================
// DIGEST VALIDATOR
// =====================================================

type DigestValidator interface {
	// CurrentSalt returns the stored salt, regenerating it when empty or older than SaltMaxAge.
	CurrentSalt(ctx context.Context) (string, error)

	// Validate recomputes the digest for req against the current salt.
	Validate(ctx context.Context, req model.Request) (bool, error)
}

// DigestConfig holds the collaborators that tests replace.
type DigestConfig struct {
	Now      func() time.Time
	NewSalt  func() string
	OnRotate func(ctx context.Context, salt string)
}

type digestValidator struct {
	options  optionRepo.Repository
	now      func() time.Time
	newSalt  func() string
	onRotate func(ctx context.Context, salt string)
}

func NewDigestValidator(options optionRepo.Repository, cfg DigestConfig) DigestValidator {
	v := &digestValidator{
		options:  options,
		now:      cfg.Now,
		newSalt:  cfg.NewSalt,
		onRotate: cfg.OnRotate,
	}
	if v.now == nil {
		v.now = time.Now
	}
	if v.newSalt == nil {
		v.newSalt = func() string { return strings.ReplaceAll(uuid.NewString(), "-", "") }
	}
	return v
}

// CurrentSalt is not synchronised: two processes rotating at once both write,
// and the last write wins.
func (v *digestValidator) CurrentSalt(ctx context.Context) (string, error) {
	now := v.now()

	opt, err := v.options.Get(ctx, optionModel.KeyCallbackSalt)
	if err != nil {
		return "", model.NewCallbackError(model.ErrCodeSaltUnavailable, "read callback salt", err)
	}
	if opt != nil && opt.Value != "" && now.Sub(opt.UpdatedAt) <= SaltMaxAge {
		return opt.Value, nil
	}

	salt := v.newSalt()
	if err := v.options.Set(ctx, optionModel.KeyCallbackSalt, salt, now); err != nil {
		return "", model.NewCallbackError(model.ErrCodeSaltUnavailable, "store callback salt", err)
	}

	fields := map[string]interface{}{"rotated_at": now}
	if opt != nil {
		fields["previous_age"] = now.Sub(opt.UpdatedAt).String()
	}
	logger.Info("callback salt rotated", fields)

	if v.onRotate != nil {
		v.onRotate(ctx, salt)
	}
	return salt, nil
}

func (v *digestValidator) Validate(ctx context.Context, req model.Request) (bool, error) {
	if req.Digest == "" {
		return false, nil
	}

	salt, err := v.CurrentSalt(ctx)
	if err != nil {
		return false, err
	}

	expected := Digest(salt, req.DigestValues()...)
	supplied := strings.ToUpper(req.Digest)
	return subtle.ConstantTimeCompare([]byte(expected), []byte(supplied)) == 1, nil
}

// Digest is the upper-case hex SHA-1 of the parts followed by the salt.
func Digest(salt string, parts ...string) string {
	h := sha1.New()
	for _, p := range parts {
		h.Write([]byte(p))
	}
	h.Write([]byte(salt))
	return strings.ToUpper(hex.EncodeToString(h.Sum(nil)))
}
