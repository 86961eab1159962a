package rag

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Identity is what the access token says about its holder. It is read
// without verifying the signature and is only ever displayed.
type Identity struct {
	Subject   string
	Role      string
	ExpiresAt time.Time
}

// Claims decodes the payload of a JWT access token.
func Claims(token string) (Identity, error) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return Identity{}, fmt.Errorf("decode access token: %w", err)
	}
	subject, err := claims.GetSubject()
	if err != nil {
		return Identity{}, err
	}
	identity := Identity{Subject: subject}
	if role, ok := claims["role"].(string); ok {
		identity.Role = role
	}
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		identity.ExpiresAt = exp.Time
	}
	return identity, nil
}

// Expiry renders the exp claim for the status bar, empty when absent.
func (i Identity) Expiry() string {
	if i.ExpiresAt.IsZero() {
		return ""
	}
	return "expires " + i.ExpiresAt.Local().Format("Jan 2 15:04")
}

// Label renders the identity for the status bar.
func (i Identity) Label() string {
	switch {
	case i.Subject == "":
		return ""
	case i.Role == "":
		return i.Subject
	default:
		return fmt.Sprintf("%s (%s)", i.Subject, i.Role)
	}
}
