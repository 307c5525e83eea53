// Package session binds a browser to its draft with a signed cookie.
//
// The cookie holds an HS256 JWT whose only private claim is the draft ID;
// the draft itself stays server side.
package session

import (
	"errors"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	dErrors "investogun/pkg/domain-errors"
)

// CookieName is the cookie carrying the draft token.
const CookieName = "kyc_draft"

const issuer = "ogun-invest-kyc"

// Claims represents the JWT claims of a draft token.
type Claims struct {
	DraftID string `json:"draft_id"`
	jwt.RegisteredClaims
}

// Manager issues and validates draft tokens and the cookie that carries them.
type Manager struct {
	signingKey []byte
	ttl        time.Duration
	secure     bool
}

// NewManager creates a manager signing with key. Tokens and cookies live for
// ttl, which should match the draft store's TTL.
func NewManager(signingKey string, ttl time.Duration, secure bool) *Manager {
	return &Manager{
		signingKey: []byte(signingKey),
		ttl:        ttl,
		secure:     secure,
	}
}

func (m *Manager) Issue(draftID uuid.UUID) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		DraftID: draftID.String(),
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    issuer,
			ID:        uuid.NewString(),
		},
	})
	return token.SignedString(m.signingKey)
}

// Validate returns the draft ID carried by token.
func (m *Manager) Validate(token string) (uuid.UUID, error) {
	claims, err := m.parse(token)
	if err != nil {
		return uuid.Nil, err
	}
	id, err := uuid.Parse(claims.DraftID)
	if err != nil {
		return uuid.Nil, dErrors.New(dErrors.CodeUnauthorized, "invalid session")
	}
	return id, nil
}

func (m *Manager) parse(token string) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(token, &Claims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenUnverifiable
		}
		return m.signingKey, nil
	}, jwt.WithIssuer(issuer))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, dErrors.New(dErrors.CodeUnauthorized, "session has expired")
		}
		return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid session")
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid session")
	}
	return claims, nil
}

// FromRequest reads and validates the session cookie.
func (m *Manager) FromRequest(r *http.Request) (uuid.UUID, error) {
	id, _, err := m.Resolve(r)
	return id, err
}

// Resolve reads and validates the session cookie. renew reports that less
// than half of the token's lifetime is left, so the caller should reissue the
// cookie to keep it in step with the draft store's sliding TTL.
func (m *Manager) Resolve(r *http.Request) (draftID uuid.UUID, renew bool, err error) {
	c, err := r.Cookie(CookieName)
	if err != nil {
		return uuid.Nil, false, dErrors.New(dErrors.CodeUnauthorized, "no session")
	}
	claims, err := m.parse(c.Value)
	if err != nil {
		return uuid.Nil, false, err
	}
	id, err := uuid.Parse(claims.DraftID)
	if err != nil {
		return uuid.Nil, false, dErrors.New(dErrors.CodeUnauthorized, "invalid session")
	}
	if claims.ExpiresAt != nil {
		renew = time.Until(claims.ExpiresAt.Time) < m.ttl/2
	}
	return id, renew, nil
}

// SetCookie issues a token for draftID and writes it as an HttpOnly cookie.
func (m *Manager) SetCookie(w http.ResponseWriter, draftID uuid.UUID) error {
	token, err := m.Issue(draftID)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to sign session")
	}
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(m.ttl.Seconds()),
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

// ClearCookie expires the session cookie.
func (m *Manager) ClearCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})
}
