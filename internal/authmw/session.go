package authmw

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"kyri56xcaesar/abac-front/internal/gateway"
)

var (
	// ErrNoSession is returned when no token is stored.
	ErrNoSession = errors.New("no session")
	// ErrMalformedToken is returned when the stored token cannot be decoded.
	ErrMalformedToken = errors.New("malformed session token")
)

// Claims are read without verifying the signature. They identify the acting user for
// display and request shaping only; the backend stays the authority.
type Claims struct {
	jwt.RegisteredClaims

	UserID   json64 `json:"userId"`
	Username string `json:"username"`
}

type LoginResult struct {
	Token   string `json:"token"`
	Message string `json:"message"`
}

// Session is the process-wide token holder, passed explicitly to whoever needs it.
type Session struct {
	store TokenStore
	api   gateway.Doer
}

func NewSession(store TokenStore, api gateway.Doer) *Session {
	return &Session{store: store, api: api}
}

// Login posts the credentials and persists the issued token.
func (s *Session) Login(ctx context.Context, username, password string) (LoginResult, error) {
	var res LoginResult
	body := map[string]string{"username": username, "password": password}
	if err := s.api.Do(ctx, http.MethodPost, "/login", body, &res); err != nil {
		return LoginResult{}, fmt.Errorf("failed to login: %w", err)
	}
	if strings.TrimSpace(res.Token) == "" {
		return LoginResult{}, fmt.Errorf("failed to login: %w", ErrMalformedToken)
	}

	s.store.Save(res.Token)

	return res, nil
}

func (s *Session) Logout() {
	s.store.Delete()
}

func (s *Session) Active() bool {
	_, ok := s.store.Load()
	return ok
}

func (s *Session) claims() (*Claims, error) {
	token, ok := s.store.Load()
	if !ok {
		return nil, ErrNoSession
	}

	return DecodeClaims(token)
}

func (s *Session) CurrentUserID() (int64, error) {
	c, err := s.claims()
	if err != nil {
		return 0, err
	}
	if c.UserID == 0 {
		return 0, fmt.Errorf("%w: missing userId claim", ErrMalformedToken)
	}

	return int64(c.UserID), nil
}

func (s *Session) CurrentUsername() (string, error) {
	c, err := s.claims()
	if err != nil {
		return "", err
	}

	return c.Username, nil
}

// DecodeClaims parses the payload of token without checking its signature.
func DecodeClaims(token string) (*Claims, error) {
	claims := &Claims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedToken, err)
	}

	return claims, nil
}

// json64 accepts a user id encoded as a JSON number or a numeric string.
type json64 int64

func (v *json64) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "" || s == "null" {
		*v = 0
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f != math.Trunc(f) {
		return fmt.Errorf("invalid user id %q", s)
	}
	*v = json64(f)

	return nil
}
