package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	authdomain "github.com/smallbiznis/homestead/internal/auth/domain"
	"github.com/smallbiznis/homestead/internal/clock"
	"github.com/smallbiznis/homestead/internal/config"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type Params struct {
	fx.In

	Cfg   config.Config
	Log   *zap.Logger
	Clock clock.Clock
}

type claims struct {
	jwt.RegisteredClaims
	Email       string         `json:"email"`
	AppMetadata map[string]any `json:"app_metadata"`
}

type verifier struct {
	secret      []byte
	issuer      string
	defaultRole string
	log         *zap.Logger
	clock       clock.Clock
}

func New(p Params) authdomain.Verifier {
	return &verifier{
		secret:      []byte(p.Cfg.Auth.JWTSecret),
		issuer:      p.Cfg.Auth.JWTIssuer,
		defaultRole: p.Cfg.Auth.DefaultRole,
		log:         p.Log.Named("auth.verifier"),
		clock:       p.Clock,
	}
}

func (v *verifier) Verify(_ context.Context, token string) (authdomain.Identity, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return authdomain.Identity{}, authdomain.ErrMissingToken
	}
	if len(v.secret) == 0 {
		return authdomain.Identity{}, authdomain.ErrVerifierDisabled
	}

	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(v.clock.Now),
	}
	if v.issuer != "" {
		opts = append(opts, jwt.WithIssuer(v.issuer))
	}

	var c claims
	_, err := jwt.ParseWithClaims(token, &c, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return v.secret, nil
	}, opts...)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return authdomain.Identity{}, authdomain.ErrTokenExpired
		}
		v.log.Debug("token rejected", zap.Error(err))
		return authdomain.Identity{}, authdomain.ErrInvalidToken
	}

	subject := strings.TrimSpace(c.Subject)
	if subject == "" {
		return authdomain.Identity{}, authdomain.ErrInvalidToken
	}

	return authdomain.Identity{
		Subject: subject,
		Email:   strings.ToLower(strings.TrimSpace(c.Email)),
		Role:    v.roleFrom(c.AppMetadata),
	}, nil
}

func (v *verifier) roleFrom(meta map[string]any) string {
	if raw, ok := meta["role"].(string); ok {
		if role := strings.ToLower(strings.TrimSpace(raw)); role != "" {
			return role
		}
	}
	return v.defaultRole
}
