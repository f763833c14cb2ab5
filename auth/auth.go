// Package auth resolve quem está chamando a API admin.
//
// Emissão de token e login ficam fora deste serviço: aqui só se valida
// um JWT HS256 vindo do header Authorization ou do cookie de sessão.
package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrNoCredentials = errors.New("auth: no credentials")
	ErrInvalidToken  = errors.New("auth: invalid token")
)

type Caller struct {
	Subject string
	Role    string
}

// Authorizer é o colaborador usado pelos handlers. Qualquer erro => AUTH_REQUIRED.
type Authorizer interface {
	Resolve(r *http.Request) (Caller, error)
}

type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

type JWTConfig struct {
	Secret string
	Issuer string
	// CookieName é o cookie de sessão consultado quando não há Authorization.
	CookieName string
	// Leeway tolera diferença de relógio em exp/nbf.
	Leeway time.Duration
}

type JWT struct {
	secret []byte
	cookie string
	parser *jwt.Parser
}

func NewJWT(cfg JWTConfig) (*JWT, error) {
	if cfg.Secret == "" {
		return nil, errors.New("auth: jwt secret is required")
	}
	if cfg.CookieName == "" {
		cfg.CookieName = "session"
	}

	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithLeeway(cfg.Leeway),
	}
	if cfg.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(cfg.Issuer))
	}

	return &JWT{
		secret: []byte(cfg.Secret),
		cookie: cfg.CookieName,
		parser: jwt.NewParser(opts...),
	}, nil
}

func (j *JWT) Resolve(r *http.Request) (Caller, error) {
	raw := bearer(r)
	if raw == "" {
		if c, err := r.Cookie(j.cookie); err == nil {
			raw = c.Value
		}
	}
	if raw == "" {
		return Caller{}, ErrNoCredentials
	}

	claims := &Claims{}
	tok, err := j.parser.ParseWithClaims(raw, claims, func(*jwt.Token) (any, error) {
		return j.secret, nil
	})
	if err != nil {
		return Caller{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !tok.Valid || claims.Subject == "" {
		return Caller{}, ErrInvalidToken
	}
	return Caller{Subject: claims.Subject, Role: claims.Role}, nil
}

func bearer(r *http.Request) string {
	h := strings.TrimSpace(r.Header.Get("Authorization"))
	scheme, tok, ok := strings.Cut(h, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(tok)
}

type callerKey struct{}

func WithCaller(ctx context.Context, c Caller) context.Context {
	return context.WithValue(ctx, callerKey{}, c)
}

func CallerFrom(ctx context.Context) (Caller, bool) {
	c, ok := ctx.Value(callerKey{}).(Caller)
	return c, ok
}
