package models

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"time"

	"golang.org/x/crypto/bcrypt"

	id "unionhub/pkg/domain"
	dErrors "unionhub/pkg/domain-errors"
)

const (
	// MaxOTPAttempts bounds the checks recorded against one code.
	MaxOTPAttempts = 3
	// DefaultOTPCost is the bcrypt cost for stored codes.
	DefaultOTPCost = bcrypt.DefaultCost
)

var codeSpace = big.NewInt(1_000_000)

// GenerateCode returns a uniformly random six-digit code.
func GenerateCode() (string, error) {
	n, err := rand.Int(rand.Reader, codeSpace)
	if err != nil {
		return "", fmt.Errorf("generate otp: %w", err)
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}

// OTP is a one-time code authorizing a member to cast a ballot.
// Only the bcrypt hash of the code is kept.
type OTP struct {
	ID         id.OTPID
	ElectionID id.ElectionID
	MemberID   id.MemberID
	CodeHash   []byte
	ExpiresAt  time.Time
	Attempts   int
	Verified   bool
	VerifiedAt time.Time
	CreatedAt  time.Time
}

func NewOTP(otpID id.OTPID, electionID id.ElectionID, memberID id.MemberID, code string, ttl time.Duration, cost int, now time.Time) (*OTP, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(code), cost)
	if err != nil {
		return nil, fmt.Errorf("hash otp: %w", err)
	}
	return &OTP{
		ID:         otpID,
		ElectionID: electionID,
		MemberID:   memberID,
		CodeHash:   hash,
		ExpiresAt:  now.Add(ttl),
		CreatedAt:  now,
	}, nil
}

// Attempt records one verification attempt. Once maxAttempts checks are
// recorded every further attempt fails without being counted, even with the
// right code. Expiry is checked before the code.
func (o *OTP) Attempt(code string, now time.Time, maxAttempts int) error {
	if o.Attempts >= maxAttempts {
		return dErrors.New(dErrors.CodeTooManyAttempts, "too many attempts, request a new code")
	}
	o.Attempts++
	if !now.Before(o.ExpiresAt) {
		return dErrors.New(dErrors.CodeExpired, "code has expired, request a new code")
	}
	if bcrypt.CompareHashAndPassword(o.CodeHash, []byte(code)) != nil {
		return dErrors.New(dErrors.CodeInvalidOTP, "code does not match")
	}
	o.Verified = true
	o.VerifiedAt = now
	return nil
}

// AuthorizesCastAt reports whether the verification is recent enough to cast.
func (o *OTP) AuthorizesCastAt(now time.Time, window time.Duration) bool {
	return o.Verified && !now.After(o.VerifiedAt.Add(window))
}
