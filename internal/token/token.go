package token

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

var (
	// ErrMalformed marks a token that does not parse
	ErrMalformed = errors.New("malformed form token")
	// ErrExpired marks a token past its expiry
	ErrExpired = errors.New("form token expired")
	// ErrBadSignature marks a token whose signature does not verify
	ErrBadSignature = errors.New("form token signature mismatch")
)

// Issuer creates and verifies expiring anti-forgery tokens for form
// submissions. A token is an HMAC-SHA256 signature over its own expiry
// time, so verification needs no server-side state.
type Issuer struct {
	secret []byte
	ttl    time.Duration
}

// NewIssuer creates a token issuer
func NewIssuer(secret string, ttl time.Duration) *Issuer {
	return &Issuer{secret: []byte(secret), ttl: ttl}
}

// Issue returns a fresh token valid for the issuer's TTL from now
func (i *Issuer) Issue(now time.Time) string {
	expiry := strconv.FormatInt(now.Add(i.ttl).Unix(), 10)
	return expiry + "." + base64.RawURLEncoding.EncodeToString(i.sign(expiry))
}

// Verify checks that tok was issued by this issuer and has not expired
func (i *Issuer) Verify(tok string, now time.Time) error {
	expiry, sig, ok := strings.Cut(tok, ".")
	if !ok {
		return ErrMalformed
	}
	expiryUnix, err := strconv.ParseInt(expiry, 10, 64)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	mac, err := base64.RawURLEncoding.DecodeString(sig)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if !hmac.Equal(mac, i.sign(expiry)) {
		return ErrBadSignature
	}
	if now.After(time.Unix(expiryUnix, 0)) {
		return ErrExpired
	}
	return nil
}

func (i *Issuer) sign(payload string) []byte {
	mac := hmac.New(sha256.New, i.secret)
	mac.Write([]byte(payload))
	return mac.Sum(nil)
}
