package server

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	authdomain "github.com/smallbiznis/homestead/internal/auth/domain"
	"github.com/smallbiznis/homestead/internal/authorization"
	"github.com/smallbiznis/homestead/internal/clock"
	"github.com/smallbiznis/homestead/internal/config"
	configurationdomain "github.com/smallbiznis/homestead/internal/configuration/domain"
	documentdomain "github.com/smallbiznis/homestead/internal/document/domain"
	leaddomain "github.com/smallbiznis/homestead/internal/lead/domain"
	mediaservice "github.com/smallbiznis/homestead/internal/media/service"
	plandomain "github.com/smallbiznis/homestead/internal/plan/domain"
	"github.com/smallbiznis/homestead/internal/providers/storage"
	"github.com/smallbiznis/homestead/internal/ratelimit"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeVerifier struct {
	identities map[string]authdomain.Identity
}

func (f *fakeVerifier) Verify(ctx context.Context, token string) (authdomain.Identity, error) {
	identity, ok := f.identities[token]
	if !ok {
		return authdomain.Identity{}, authdomain.ErrInvalidToken
	}
	return identity, nil
}

type fakeAuthorizer struct {
	allowed map[string]bool
}

func (f *fakeAuthorizer) Authorize(ctx context.Context, subject, role, object, action string) error {
	if f.allowed[role] {
		return nil
	}
	return authorization.ErrForbidden
}

type fakeSubmissionGuard struct {
	decision ratelimit.Decision
	err      error
	calls    int
}

func (f *fakeSubmissionGuard) Acquire(ctx context.Context, endpoint, clientIP string) (ratelimit.Decision, error) {
	f.calls++
	return f.decision, f.err
}

type mockDocumentService struct {
	mock.Mock
}

func (m *mockDocumentService) PlanBrochure(ctx context.Context, ref string) (documentdomain.Document, error) {
	args := m.Called(ctx, ref)
	return args.Get(0).(documentdomain.Document), args.Error(1)
}

func (m *mockDocumentService) PropertyBrochure(ctx context.Context, ref string) (documentdomain.Document, error) {
	args := m.Called(ctx, ref)
	return args.Get(0).(documentdomain.Document), args.Error(1)
}

func (m *mockDocumentService) PropertyFlyer(ctx context.Context, ids []snowflake.ID) (documentdomain.Document, error) {
	args := m.Called(ctx, ids)
	return args.Get(0).(documentdomain.Document), args.Error(1)
}

func (m *mockDocumentService) SelectionBookSummary(ctx context.Context, id snowflake.ID) (documentdomain.Document, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(documentdomain.Document), args.Error(1)
}

// Unused methods panic through the nil embedded interface.
type fakePlanService struct {
	plandomain.Service
	plans []plandomain.Plan
}

func (f *fakePlanService) List(ctx context.Context, publishedOnly bool) ([]plandomain.Plan, error) {
	out := make([]plandomain.Plan, 0, len(f.plans))
	for _, p := range f.plans {
		if publishedOnly && !p.IsPublished {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

func (f *fakePlanService) Delete(ctx context.Context, id snowflake.ID) error {
	for _, p := range f.plans {
		if p.ID == id {
			return nil
		}
	}
	return plandomain.ErrNotFound
}

type fakeConfigurationService struct {
	configurationdomain.Service
	submitted []configurationdomain.CreateConfigurationRequest
	stored    []configurationdomain.Configuration
	err       error
}

func (f *fakeConfigurationService) List(ctx context.Context) ([]configurationdomain.Configuration, error) {
	return f.stored, f.err
}

func (f *fakeConfigurationService) Get(ctx context.Context, id snowflake.ID) (configurationdomain.Configuration, error) {
	for _, item := range f.stored {
		if item.ID == id {
			return item, nil
		}
	}
	return configurationdomain.Configuration{}, configurationdomain.ErrNotFound
}

func (f *fakeConfigurationService) Submit(ctx context.Context, req configurationdomain.CreateConfigurationRequest) (configurationdomain.Configuration, error) {
	if f.err != nil {
		return configurationdomain.Configuration{}, f.err
	}
	f.submitted = append(f.submitted, req)
	return configurationdomain.Configuration{ID: snowflake.ID(900), Status: configurationdomain.StatusSubmitted}, nil
}

type fakeLeadService struct {
	leaddomain.Service
	last leaddomain.SubmitLeadRequest
}

func (f *fakeLeadService) Submit(ctx context.Context, req leaddomain.SubmitLeadRequest) (leaddomain.Lead, error) {
	f.last = req
	if strings.TrimSpace(req.Name) == "" {
		return leaddomain.Lead{}, leaddomain.ErrInvalidName
	}
	return leaddomain.Lead{ID: snowflake.ID(700), Status: leaddomain.StatusNew}, nil
}

func newTestServer(t *testing.T, setup func(s *Server)) *Server {
	t.Helper()
	gin.SetMode(gin.TestMode)

	engine := gin.New()
	engine.Use(ErrorHandlingMiddleware())

	s := &Server{
		engine: engine,
		cfg: config.Config{
			Auth:    config.AuthConfig{CookieName: "hs_session"},
			Storage: config.StorageConfig{MaxImageBytes: 5 << 20, MaxDocumentBytes: 10 << 20},
		},
		log: zap.NewNop(),
		verifier: &fakeVerifier{identities: map[string]authdomain.Identity{
			"admin-token":  {Subject: "user-1", Email: "owner@example.com", Role: "admin"},
			"viewer-token": {Subject: "user-2", Role: "viewer"},
		}},
		authzSvc:         &fakeAuthorizer{allowed: map[string]bool{"admin": true}},
		planSvc:          &fakePlanService{},
		configurationSvc: &fakeConfigurationService{},
		leadSvc:          &fakeLeadService{},
		documentSvc:      &mockDocumentService{},
	}
	if setup != nil {
		setup(s)
	}
	s.RegisterPublicRoutes()
	s.RegisterAdminRoutes()
	return s
}

func serve(s *Server, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	s.engine.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) errorPayload {
	t.Helper()
	var body errorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body.Error
}

func TestDownloadPropertyFlyer(t *testing.T) {
	t.Run("too many ids is a validation error", func(t *testing.T) {
		docs := &mockDocumentService{}
		docs.On("PropertyFlyer", mock.Anything, mock.Anything).
			Return(documentdomain.Document{}, documentdomain.ErrTooManyProperties)
		s := newTestServer(t, func(s *Server) { s.documentSvc = docs })

		req := httptest.NewRequest(http.MethodGet, "/api/property-flyer?ids=1,2,3,4,5,6,7", nil)
		rec := serve(s, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		payload := decodeError(t, rec)
		require.Len(t, payload.Errors, 1)
		assert.Equal(t, "ids", payload.Errors[0].Field)
		assert.Equal(t, "too_many_properties", payload.Errors[0].Code)
	})

	t.Run("malformed ids never reach the renderer", func(t *testing.T) {
		docs := &mockDocumentService{}
		s := newTestServer(t, func(s *Server) { s.documentSvc = docs })

		rec := serve(s, httptest.NewRequest(http.MethodGet, "/api/property-flyer?ids=1,abc", nil))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		docs.AssertNotCalled(t, "PropertyFlyer", mock.Anything, mock.Anything)
	})

	t.Run("no matching homes is not found", func(t *testing.T) {
		docs := &mockDocumentService{}
		docs.On("PropertyFlyer", mock.Anything, []snowflake.ID{11, 12}).
			Return(documentdomain.Document{}, documentdomain.ErrNotFound)
		s := newTestServer(t, func(s *Server) { s.documentSvc = docs })

		rec := serve(s, httptest.NewRequest(http.MethodGet, "/api/property-flyer?ids=11,12", nil))

		assert.Equal(t, http.StatusNotFound, rec.Code)
		docs.AssertExpectations(t)
	})

	t.Run("attachment headers", func(t *testing.T) {
		docs := &mockDocumentService{}
		docs.On("PropertyFlyer", mock.Anything, []snowflake.ID{11}).
			Return(documentdomain.Document{Filename: "available-homes.pdf", Data: []byte("%PDF-1.7")}, nil)
		s := newTestServer(t, func(s *Server) { s.documentSvc = docs })

		rec := serve(s, httptest.NewRequest(http.MethodGet, "/api/property-flyer?ids=11", nil))

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
		assert.Equal(t, `attachment; filename="available-homes.pdf"`, rec.Header().Get("Content-Disposition"))
		assert.Equal(t, "%PDF-1.7", rec.Body.String())
	})
}

func multipartUpload(t *testing.T, kind, filename, contentType string, data []byte) *http.Request {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	require.NoError(t, w.WriteField("type", kind))

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", `form-data; name="file"; filename="`+filename+`"`)
	h.Set("Content-Type", contentType)
	part, err := w.CreatePart(h)
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/admin/uploads", &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	req.Header.Set("Authorization", "Bearer admin-token")
	return req
}

func TestUpload_SizeCeilingDependsOnType(t *testing.T) {
	store := storage.NewMemoryProvider("https://cdn.example.com")
	s := newTestServer(t, func(s *Server) {
		s.mediaSvc = mediaservice.New(mediaservice.Params{
			Cfg:     s.cfg,
			Log:     zap.NewNop(),
			Clock:   clock.NewFakeClock(time.Date(2025, 3, 9, 12, 0, 0, 0, time.UTC)),
			Storage: store,
		})
	})

	data := make([]byte, 6<<20)
	copy(data, "%PDF-1.7\n")

	rec := serve(s, multipartUpload(t, "image", "spec-sheet.pdf", "application/pdf", data))
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)

	rec = serve(s, multipartUpload(t, "document", "spec-sheet.pdf", "application/pdf", data))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Data struct {
			URL  string `json:"url"`
			Path string `json:"path"`
			Size int64  `json:"size"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Regexp(t, `^documents/2025/03/.+-spec-sheet\.pdf$`, resp.Data.Path)
	assert.Equal(t, "https://cdn.example.com/"+resp.Data.Path, resp.Data.URL)
	assert.Equal(t, int64(len(data)), resp.Data.Size)
}

func TestUpload_MissingFileAndBadType(t *testing.T) {
	s := newTestServer(t, nil)

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	require.NoError(t, w.WriteField("type", "image"))
	require.NoError(t, w.Close())
	req := httptest.NewRequest(http.MethodPost, "/admin/uploads", &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	req.Header.Set("Authorization", "Bearer admin-token")

	rec := serve(s, req)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "file", decodeError(t, rec).Errors[0].Field)

	rec = serve(s, multipartUpload(t, "video", "clip.mp4", "video/mp4", []byte("data")))
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "invalid_upload_type", decodeError(t, rec).Errors[0].Code)
}

func TestAdminRoutes_AuthAndAuthorization(t *testing.T) {
	s := newTestServer(t, func(s *Server) {
		s.planSvc = &fakePlanService{plans: []plandomain.Plan{
			{ID: 1, Name: "The Aspen", Slug: "the-aspen", IsPublished: true},
			{ID: 2, Name: "The Birch", Slug: "the-birch"},
		}}
	})

	tests := []struct {
		name   string
		setup  func(req *http.Request)
		status int
	}{
		{name: "missing token", setup: func(req *http.Request) {}, status: http.StatusUnauthorized},
		{name: "unknown token", setup: func(req *http.Request) { req.Header.Set("Authorization", "Bearer nope") }, status: http.StatusUnauthorized},
		{name: "malformed header", setup: func(req *http.Request) { req.Header.Set("Authorization", "Token admin-token") }, status: http.StatusUnauthorized},
		{name: "forbidden role", setup: func(req *http.Request) { req.Header.Set("Authorization", "Bearer viewer-token") }, status: http.StatusForbidden},
		{name: "bearer token", setup: func(req *http.Request) { req.Header.Set("Authorization", "Bearer admin-token") }, status: http.StatusOK},
		{name: "session cookie", setup: func(req *http.Request) {
			req.AddCookie(&http.Cookie{Name: "hs_session", Value: "admin-token"})
		}, status: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/admin/plans", nil)
			tt.setup(req)
			rec := serve(s, req)
			assert.Equal(t, tt.status, rec.Code)
		})
	}

	req := httptest.NewRequest(http.MethodGet, "/admin/plans", nil)
	req.Header.Set("Authorization", "Bearer admin-token")
	rec := serve(s, req)
	var resp struct {
		Data []plandomain.Plan `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Len(t, resp.Data, 2)

	rec = serve(s, httptest.NewRequest(http.MethodGet, "/api/plans", nil))
	resp.Data = nil
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Data, 1)
	assert.Equal(t, "the-aspen", resp.Data[0].Slug)
}

func TestDeletePlan(t *testing.T) {
	s := newTestServer(t, func(s *Server) {
		s.planSvc = &fakePlanService{plans: []plandomain.Plan{{ID: 1, Name: "The Aspen"}}}
	})

	for _, tc := range []struct {
		path   string
		status int
	}{
		{path: "/admin/plans/1", status: http.StatusNoContent},
		{path: "/admin/plans/99", status: http.StatusNotFound},
		{path: "/admin/plans/not-an-id", status: http.StatusNotFound},
	} {
		req := httptest.NewRequest(http.MethodDelete, tc.path, nil)
		req.Header.Set("Authorization", "Bearer admin-token")
		assert.Equal(t, tc.status, serve(s, req).Code, tc.path)
	}
}

func TestSubmitConfiguration(t *testing.T) {
	t.Run("malformed option ids", func(t *testing.T) {
		configs := &fakeConfigurationService{}
		s := newTestServer(t, func(s *Server) { s.configurationSvc = configs })

		body := `{"plan_id":"1","customer_name":"Sam","customer_email":"sam@example.com","option_ids":[12,"x"]}`
		req := httptest.NewRequest(http.MethodPost, "/api/configurations", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		rec := serve(s, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Empty(t, configs.submitted)
	})

	t.Run("empty selection", func(t *testing.T) {
		s := newTestServer(t, func(s *Server) {
			s.configurationSvc = &fakeConfigurationService{err: configurationdomain.ErrNoSelections}
		})

		body := `{"plan_id":"1","customer_name":"Sam","customer_email":"sam@example.com","option_ids":[]}`
		req := httptest.NewRequest(http.MethodPost, "/api/configurations", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		rec := serve(s, req)

		require.Equal(t, http.StatusBadRequest, rec.Code)
		payload := decodeError(t, rec)
		require.Len(t, payload.Errors, 1)
		assert.Equal(t, "option_ids", payload.Errors[0].Field)
	})

	t.Run("client status is ignored", func(t *testing.T) {
		configs := &fakeConfigurationService{}
		s := newTestServer(t, func(s *Server) { s.configurationSvc = configs })

		body := `{"plan_id":"1","customer_name":"Sam","customer_email":"sam@example.com","option_ids":["12","13"],"status":"approved"}`
		req := httptest.NewRequest(http.MethodPost, "/api/configurations", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		rec := serve(s, req)

		require.Equal(t, http.StatusOK, rec.Code)
		require.Len(t, configs.submitted, 1)
		assert.Empty(t, configs.submitted[0].Status)
		assert.Equal(t, []snowflake.ID{12, 13}, configs.submitted[0].OptionIDs)
		assert.JSONEq(t, `{"data":{"id":"900","status":"submitted"}}`, rec.Body.String())
	})
}

func TestAdminConfigurations_IncludePlanSummary(t *testing.T) {
	configs := &fakeConfigurationService{stored: []configurationdomain.Configuration{{
		ID:            snowflake.ID(901),
		PlanID:        snowflake.ID(1),
		CustomerName:  "Sam",
		CustomerEmail: "sam@example.com",
		Status:        configurationdomain.StatusSubmitted,
		Plan:          &plandomain.Plan{ID: 1, Name: "The Aspen", Slug: "the-aspen"},
	}}}
	s := newTestServer(t, func(s *Server) { s.configurationSvc = configs })

	req := httptest.NewRequest(http.MethodGet, "/admin/configurations", nil)
	req.Header.Set("Authorization", "Bearer admin-token")
	rec := serve(s, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var list struct {
		Data []struct {
			ID   string `json:"id"`
			Plan struct {
				Name string `json:"name"`
				Slug string `json:"slug"`
			} `json:"plan"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	require.Len(t, list.Data, 1)
	assert.Equal(t, "901", list.Data[0].ID)
	assert.Equal(t, "The Aspen", list.Data[0].Plan.Name)

	req = httptest.NewRequest(http.MethodGet, "/admin/configurations/901", nil)
	req.Header.Set("Authorization", "Bearer admin-token")
	rec = serve(s, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var one struct {
		Data struct {
			Plan struct {
				Slug string `json:"slug"`
			} `json:"plan"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &one))
	assert.Equal(t, "the-aspen", one.Data.Plan.Slug)
}

func TestSubmissionRateLimit(t *testing.T) {
	t.Run("rate limited", func(t *testing.T) {
		guard := &fakeSubmissionGuard{
			decision: ratelimit.Decision{Allowed: false, RetryAfter: 1500 * time.Millisecond},
			err:      ratelimit.ErrRateLimited,
		}
		leads := &fakeLeadService{}
		s := newTestServer(t, func(s *Server) {
			s.limiter = guard
			s.leadSvc = leads
		})

		req := httptest.NewRequest(http.MethodPost, "/api/contact", strings.NewReader(`{"name":"Sam","email":"sam@example.com"}`))
		req.Header.Set("Content-Type", "application/json")
		rec := serve(s, req)

		assert.Equal(t, http.StatusTooManyRequests, rec.Code)
		assert.Equal(t, "2", rec.Header().Get("Retry-After"))
		assert.Equal(t, 1, guard.calls)
		assert.Empty(t, leads.last.Email)
	})

	t.Run("duplicate submission", func(t *testing.T) {
		s := newTestServer(t, func(s *Server) {
			s.limiter = &fakeSubmissionGuard{
				decision: ratelimit.Decision{Allowed: false},
				err:      ratelimit.ErrDuplicateSubmission,
			}
		})

		req := httptest.NewRequest(http.MethodPost, "/api/configurations", strings.NewReader(`{}`))
		req.Header.Set("Content-Type", "application/json")
		rec := serve(s, req)

		assert.Equal(t, http.StatusTooManyRequests, rec.Code)
		assert.Equal(t, "1", rec.Header().Get("Retry-After"))
	})

	t.Run("limiter failure lets the request through", func(t *testing.T) {
		leads := &fakeLeadService{}
		s := newTestServer(t, func(s *Server) {
			s.limiter = &fakeSubmissionGuard{err: assert.AnError}
			s.leadSvc = leads
		})

		req := httptest.NewRequest(http.MethodPost, "/api/contact", strings.NewReader(`{"name":"Sam","email":"sam@example.com"}`))
		req.Header.Set("Content-Type", "application/json")
		req.RemoteAddr = "203.0.113.7:5123"
		rec := serve(s, req)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "203.0.113.7", leads.last.ClientIP)
		assert.JSONEq(t, `{"data":{"id":"700","status":"new"}}`, rec.Body.String())
	})
}

func TestSubmitContact_ValidationError(t *testing.T) {
	s := newTestServer(t, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/contact", strings.NewReader(`{"email":"sam@example.com"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := serve(s, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	payload := decodeError(t, rec)
	assert.Equal(t, "validation_error", payload.Type)
	require.Len(t, payload.Errors, 1)
	assert.Equal(t, "name", payload.Errors[0].Field)
	assert.Equal(t, "invalid_name", payload.Errors[0].Code)
}
