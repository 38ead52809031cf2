package portal

import (
	"crypto/rand"
	"encoding/hex"
	"time"

	"github.com/fieldops/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// sessionTokenBytes is the entropy of a portal session token
const sessionTokenBytes = 32

// Session is an authenticated client-portal session. Tokens are opaque
// random values, not JWTs, so they can be revoked server-side.
type Session struct {
	Token     string    `json:"token"`
	TenantID  uuid.UUID `json:"tenant_id"`
	ContactID uuid.UUID `json:"contact_id"`
	ClientID  uuid.UUID `json:"client_id"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// NewSession creates a session for a portal contact with the given TTL
func NewSession(tenantID, contactID, clientID uuid.UUID, ttl time.Duration) (*Session, error) {
	if ttl <= 0 {
		return nil, shared.NewDomainError("INVALID_TTL", "Session lifetime must be positive")
	}

	token, err := generateToken()
	if err != nil {
		return nil, err
	}

	now := time.Now()
	return &Session{
		Token:     token,
		TenantID:  tenantID,
		ContactID: contactID,
		ClientID:  clientID,
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
	}, nil
}

// IsExpired returns true once the session has passed its expiry
func (s *Session) IsExpired(now time.Time) bool {
	return now.After(s.ExpiresAt)
}

// TTL returns the remaining lifetime of the session
func (s *Session) TTL(now time.Time) time.Duration {
	if s.IsExpired(now) {
		return 0
	}
	return s.ExpiresAt.Sub(now)
}

func generateToken() (string, error) {
	buf := make([]byte, sessionTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", shared.NewDomainError("TOKEN_GENERATION_FAILED", "Failed to generate session token")
	}
	return hex.EncodeToString(buf), nil
}
