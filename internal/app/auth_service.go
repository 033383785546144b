package app

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"fishwrapper-service/internal/domain"
)

// Session cookie modes. Opaque tokens are the default; the JWT mode keeps
// no server-side session state.
const (
	SessionModeToken = "token"
	SessionModeJWT   = "jwt"
)

// EditorStore persists editor accounts.
type EditorStore interface {
	GetEditor(ctx context.Context, username string) (domain.Editor, error)
	PutEditor(ctx context.Context, editor domain.Editor) error
}

// SessionStore persists opaque session tokens with a TTL.
type SessionStore interface {
	PutSession(ctx context.Context, token, username string, ttl time.Duration) error
	GetSession(ctx context.Context, token string) (string, error)
	DeleteSession(ctx context.Context, token string) error
}

// AuthService handles editor login and session cookie validation.
type AuthService struct {
	editors  EditorStore
	sessions SessionStore
	mode     string
	secret   []byte
	ttl      time.Duration
	newToken func() string
	now      func() time.Time
}

type editorClaims struct {
	Username string `json:"username"`
	jwt.RegisteredClaims
}

func NewAuthService(editors EditorStore, sessions SessionStore, mode string, secret []byte, ttl time.Duration) *AuthService {
	if mode == "" {
		mode = SessionModeToken
	}
	return &AuthService{
		editors:  editors,
		sessions: sessions,
		mode:     mode,
		secret:   secret,
		ttl:      ttl,
		newToken: uuid.NewString,
		now:      time.Now,
	}
}

// Login verifies the password against the stored bcrypt hash and issues a
// session cookie value. An unknown username reports the same error as a
// wrong password.
func (s *AuthService) Login(ctx context.Context, username, password string) (string, error) {
	editor, err := s.editors.GetEditor(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrEditorNotFound) {
			return "", domain.ErrInvalidCredentials
		}
		return "", err
	}
	if err := bcrypt.CompareHashAndPassword(editor.PassHash, []byte(password)); err != nil {
		return "", domain.ErrInvalidCredentials
	}

	if s.mode == SessionModeJWT {
		return s.signToken(editor.Username)
	}
	token := s.newToken()
	if err := s.sessions.PutSession(ctx, token, editor.Username, s.ttl); err != nil {
		return "", err
	}
	return token, nil
}

// Authenticate resolves a session cookie value to an editor username. A
// missing, expired, or forged value is not an error; callers redirect to
// the login page when ok is false.
func (s *AuthService) Authenticate(ctx context.Context, cookieValue string) (string, bool) {
	if cookieValue == "" {
		return "", false
	}
	if s.mode == SessionModeJWT {
		return s.parseToken(cookieValue)
	}
	username, err := s.sessions.GetSession(ctx, cookieValue)
	if err != nil {
		return "", false
	}
	return username, true
}

// Logout discards the session behind the cookie value. JWT sessions have
// no server-side state, so there the cookie reset alone logs out.
func (s *AuthService) Logout(ctx context.Context, cookieValue string) error {
	if s.mode == SessionModeJWT || cookieValue == "" {
		return nil
	}
	err := s.sessions.DeleteSession(ctx, cookieValue)
	if errors.Is(err, domain.ErrSessionNotFound) {
		return nil
	}
	return err
}

// SeedEditor creates or replaces an editor account with a bcrypt hash of
// the given password.
func (s *AuthService) SeedEditor(ctx context.Context, username, password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	return s.editors.PutEditor(ctx, domain.Editor{Username: username, PassHash: hash})
}

func (s *AuthService) signToken(username string) (string, error) {
	now := s.now()
	claims := editorClaims{
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

func (s *AuthService) parseToken(raw string) (string, bool) {
	token, err := jwt.ParseWithClaims(raw, &editorClaims{}, func(*jwt.Token) (interface{}, error) {
		return s.secret, nil
	})
	if err != nil {
		return "", false
	}
	claims, ok := token.Claims.(*editorClaims)
	if !ok || !token.Valid {
		return "", false
	}
	return claims.Username, true
}
