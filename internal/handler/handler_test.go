package handler_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"smart-contact-form/config"
	handlerPkg "smart-contact-form/internal/handler"
	metricsPkg "smart-contact-form/internal/metrics"
	"smart-contact-form/internal/router"
	"smart-contact-form/internal/service"
	"smart-contact-form/internal/store"
	"smart-contact-form/internal/token"
)

// promauto registers in the default registry, so the test metrics are
// created once for the package
var testMetrics = metricsPkg.NewMetrics()

func newTestRouter(t *testing.T, requireToken bool) (*gin.Engine, *token.Issuer) {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	submissionStore := store.New(db)
	require.NoError(t, submissionStore.EnsureSchema())

	svc := service.New(submissionStore, testMetrics)
	issuer := token.NewIssuer("test-secret", time.Hour)

	cfg := &config.Config{
		Security: config.SecurityConfig{
			TokenSecret:  "test-secret",
			TokenTTL:     time.Hour,
			RequireToken: requireToken,
		},
		Admin: config.AdminConfig{ListLimit: 100},
	}

	h := handlerPkg.NewHandlers(db, svc, nil, issuer, testMetrics, cfg)
	return router.SetupRouter(h), issuer
}

func postForm(r *gin.Engine, tok string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/submissions", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if tok != "" {
		req.Header.Set("X-Form-Token", tok)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func validForm() url.Values {
	return url.Values{
		"name":    {"Jane Doe"},
		"email":   {"jane@example.com"},
		"message": {"Hello, I would like more information."},
	}
}

func TestSubmitFormAccepted(t *testing.T) {
	r, issuer := newTestRouter(t, true)
	tok := issuer.Issue(time.Now())

	w := postForm(r, tok, validForm())
	assert.Equal(t, http.StatusOK, w.Code)

	var resp handlerPkg.FormResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, service.ConfirmationMessage, resp.Data)

	// The record is listable with the exact field values
	listReq := httptest.NewRequest(http.MethodGet, "/api/v1/submissions?limit=1", nil)
	listW := httptest.NewRecorder()
	r.ServeHTTP(listW, listReq)
	assert.Equal(t, http.StatusOK, listW.Code)

	var listed []handlerPkg.SubmissionResponse
	require.NoError(t, json.Unmarshal(listW.Body.Bytes(), &listed))
	require.Len(t, listed, 1)
	assert.Equal(t, "Jane Doe", listed[0].Name)
	assert.Equal(t, "jane@example.com", listed[0].Email)
	assert.Equal(t, "Hello, I would like more information.", listed[0].Message)
}

func TestSubmitFormRejectedReturnsAllFieldErrors(t *testing.T) {
	r, issuer := newTestRouter(t, true)
	tok := issuer.Issue(time.Now())

	form := url.Values{
		"name":    {""},
		"email":   {"not-an-email"},
		"message": {"short"},
	}
	w := postForm(r, tok, form)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	var resp struct {
		Success bool              `json:"success"`
		Data    map[string]string `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.Success)
	assert.Len(t, resp.Data, 3)
	assert.Contains(t, resp.Data, "name")
	assert.Contains(t, resp.Data, "email")
	assert.Contains(t, resp.Data, "message")
}

func TestSubmitFormWithoutTokenIsForbidden(t *testing.T) {
	r, _ := newTestRouter(t, true)

	w := postForm(r, "", validForm())
	assert.Equal(t, http.StatusForbidden, w.Code)

	var resp handlerPkg.FormResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.Success)
	assert.Equal(t, "Security check failed.", resp.Data)
}

func TestSubmitFormWithForgedTokenIsForbidden(t *testing.T) {
	r, _ := newTestRouter(t, true)

	forged := token.NewIssuer("wrong-secret", time.Hour).Issue(time.Now())
	w := postForm(r, forged, validForm())
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestSubmitFormTokenOptionalWhenDisabled(t *testing.T) {
	r, _ := newTestRouter(t, false)

	w := postForm(r, "", validForm())
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestSubmitFormAcceptsTokenFormField(t *testing.T) {
	r, issuer := newTestRouter(t, true)

	form := validForm()
	form.Set("token", issuer.Issue(time.Now()))
	w := postForm(r, "", form)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestGetFormToken(t *testing.T) {
	r, issuer := newTestRouter(t, true)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/form-token", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	var resp handlerPkg.FormTokenResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NoError(t, issuer.Verify(resp.Token, time.Now()))
}

func TestListSubmissionsRejectsBadLimit(t *testing.T) {
	r, _ := newTestRouter(t, true)

	for _, query := range []string{"limit=abc", "limit=0", "limit=-5"} {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/submissions?"+query, nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusBadRequest, w.Code, "query %q", query)
	}
}

func TestListSubmissionsOrdering(t *testing.T) {
	r, issuer := newTestRouter(t, true)
	tok := issuer.Issue(time.Now())

	for _, name := range []string{"AA", "BB", "CC"} {
		form := validForm()
		form.Set("name", name)
		w := postForm(r, tok, form)
		require.Equal(t, http.StatusOK, w.Code)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/submissions?limit=3", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var listed []handlerPkg.SubmissionResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &listed))
	require.Len(t, listed, 3)
	assert.Equal(t, "CC", listed[0].Name)
	assert.Equal(t, "BB", listed[1].Name)
	assert.Equal(t, "AA", listed[2].Name)
}

func TestFormPageCarriesToken(t *testing.T) {
	r, _ := newTestRouter(t, true)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `name="form-token"`)
	assert.Contains(t, w.Body.String(), `id="smart-contact-form"`)
}

func TestAdminPageEscapesStoredText(t *testing.T) {
	r, issuer := newTestRouter(t, true)
	tok := issuer.Issue(time.Now())

	form := validForm()
	form.Set("name", "<b>Jane</b>")
	w := postForm(r, tok, form)
	require.Equal(t, http.StatusOK, w.Code)

	req := httptest.NewRequest(http.MethodGet, "/admin/submissions", nil)
	pageW := httptest.NewRecorder()
	r.ServeHTTP(pageW, req)
	assert.Equal(t, http.StatusOK, pageW.Code)

	body := pageW.Body.String()
	assert.Contains(t, body, "&lt;b&gt;Jane&lt;/b&gt;")
	assert.NotContains(t, body, "<b>Jane</b>")
}

func TestHealthCheckReportsDeadDatabase(t *testing.T) {
	db, err := gorm.Open(sqlite.Open("file:healthdead?mode=memory&cache=shared"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	submissionStore := store.New(db)
	require.NoError(t, submissionStore.EnsureSchema())

	cfg := &config.Config{
		Security: config.SecurityConfig{TokenSecret: "test-secret", TokenTTL: time.Hour},
		Admin:    config.AdminConfig{ListLimit: 100},
	}
	h := handlerPkg.NewHandlers(db, service.New(submissionStore, testMetrics), nil,
		token.NewIssuer("test-secret", time.Hour), testMetrics, cfg)
	r := router.SetupRouter(h)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	var resp handlerPkg.HealthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "error", resp.Status)
	assert.Equal(t, "error", resp.Database)
}

func TestHealthCheck(t *testing.T) {
	r, _ := newTestRouter(t, true)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	var resp handlerPkg.HealthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, "stopped", resp.Metrics["stats_refresher"])
}
