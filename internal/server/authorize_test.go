package server

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/golang-jwt/jwt/v5"
	authservice "github.com/smallbiznis/homestead/internal/auth/service"
	"github.com/smallbiznis/homestead/internal/authorization"
	"github.com/smallbiznis/homestead/internal/clock"
	"github.com/smallbiznis/homestead/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func TestAdminRoutes_TokenWithoutRoleIsForbidden(t *testing.T) {
	const secret = "homestead-signing-secret"
	t.Chdir(t.TempDir())
	t.Setenv("AUTH_JWT_SECRET", secret)
	cfg := config.Load()

	db, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())), &gorm.Config{})
	require.NoError(t, err)
	enforcer, err := authorization.NewEnforcer(db)
	require.NoError(t, err)

	now := time.Date(2025, 9, 1, 8, 0, 0, 0, time.UTC)
	s := newTestServer(t, func(s *Server) {
		s.verifier = authservice.New(authservice.Params{Cfg: cfg, Log: zap.NewNop(), Clock: clock.NewFakeClock(now)})
		s.authzSvc = authorization.NewService(authorization.Params{DB: db, Log: zap.NewNop(), Enforcer: enforcer})
	})

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":   "user-9",
		"email": "someone@example.com",
		"exp":   now.Add(time.Hour).Unix(),
	}).SignedString([]byte(secret))
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/admin/leads", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := serve(s, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}
