package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/portaria/internal/domain/models"
	"github.com/mamadbah2/portaria/internal/repository/memory"
	"github.com/mamadbah2/portaria/internal/service/auth"
	"github.com/mamadbah2/portaria/internal/service/checkin"
	"github.com/mamadbah2/portaria/internal/service/checkout"
	"github.com/mamadbah2/portaria/internal/service/session"
)

var brt = time.FixedZone("BRT", -3*60*60)

type testApp struct {
	engine *gin.Engine
	store  *memory.Store
	cookie *http.Cookie
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := memory.New(brt)
	store.SetCredentials("portaria", auth.HashPassword("s3nha"))

	checkinSvc := checkin.NewService(store, checkin.Options{Location: brt, PaymentKey: "39410752000166", PhoneRegion: "BR"}, nil)
	entry := NewEntryHandler(checkinSvc, nil)
	exit := NewExitHandler(auth.NewService(store, nil), checkout.NewService(store, brt, nil), nil)

	r := gin.New()
	app := r.Group("/", SessionMiddleware(session.NewMemoryStore(time.Hour), time.Hour, nil))
	app.GET("/entry", entry.Draft)
	app.PUT("/entry/draft", entry.UpdateDraft)
	app.POST("/entry", entry.Submit)

	exitGroup := app.Group("/exit")
	exitGroup.POST("/login", exit.Login)
	exitGroup.POST("/logout", exit.Logout)
	staff := exitGroup.Group("", RequireLogin())
	staff.GET("", exit.Overview)
	staff.POST("/checkout", exit.Checkout)
	staff.GET("/export", exit.Export)

	return &testApp{engine: r, store: store}
}

func (a *testApp) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if a.cookie != nil {
		req.AddCookie(a.cookie)
	}

	rec := httptest.NewRecorder()
	a.engine.ServeHTTP(rec, req)

	for _, c := range rec.Result().Cookies() {
		if c.Name == SessionCookie {
			a.cookie = c
		}
	}
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func (a *testApp) login(t *testing.T) {
	t.Helper()
	rec := a.do(t, http.MethodPost, "/exit/login", gin.H{"username": "portaria", "password": "s3nha"})
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestEntryDraftLifecycle(t *testing.T) {
	app := newTestApp(t)

	rec := app.do(t, http.MethodGet, "/entry", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "cash", decode(t, rec)["payment_method"])

	rec = app.do(t, http.MethodPut, "/entry/draft", gin.H{
		"name":            "joão silva",
		"document_number": "12345678901",
		"vehicle_plate":   "ABC1D23",
		"companion_count": 2,
		"child_count":     1,
		"payment_method":  "Pix",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = app.do(t, http.MethodGet, "/entry", nil)
	assert.Equal(t, "joão silva", decode(t, rec)["name"], "draft survives between requests")

	rec = app.do(t, http.MethodPost, "/entry", nil)
	require.Equal(t, http.StatusCreated, rec.Code)

	body := decode(t, rec)
	assert.Equal(t, "Entry registered for JOAO SILVA.", body["message"])
	receipt := body["receipt"].(map[string]any)
	assert.Equal(t, "45", receipt["fee"])
	assert.Equal(t, "Pix", receipt["payment_method"])
	assert.Equal(t, "123.456.789-01", receipt["document_number"])
	assert.Equal(t, 1, app.store.WriteCount())

	rec = app.do(t, http.MethodGet, "/entry", nil)
	assert.Equal(t, "", decode(t, rec)["name"], "draft reset after submit")
}

func TestEntrySubmitReportsMissingFields(t *testing.T) {
	app := newTestApp(t)

	rec := app.do(t, http.MethodPost, "/entry", gin.H{"name": "Ana"})
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	body := decode(t, rec)
	assert.ElementsMatch(t, []any{"document_number", "vehicle_plate"}, body["missing"])
	assert.Equal(t, 0, app.store.WriteCount())

	rec = app.do(t, http.MethodGet, "/entry", nil)
	assert.Equal(t, "Ana", decode(t, rec)["name"], "draft kept for correction")
}

func TestEntrySubmitStoreFailure(t *testing.T) {
	app := newTestApp(t)
	app.store.SetFailWrites(true)

	rec := app.do(t, http.MethodPost, "/entry", gin.H{
		"name":            "Ana",
		"document_number": "999",
		"vehicle_plate":   "XYZ",
	})
	assert.Equal(t, http.StatusBadGateway, rec.Code)
}

func TestExitRequiresLogin(t *testing.T) {
	app := newTestApp(t)

	assert.Equal(t, http.StatusUnauthorized, app.do(t, http.MethodGet, "/exit", nil).Code)
	assert.Equal(t, http.StatusUnauthorized, app.do(t, http.MethodPost, "/exit/checkout", gin.H{"document_number": "1"}).Code)

	rec := app.do(t, http.MethodPost, "/exit/login", gin.H{"username": "portaria", "password": "wrong"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, models.ErrAuth.Error(), decode(t, rec)["error"])

	app.login(t)
	assert.Equal(t, http.StatusOK, app.do(t, http.MethodGet, "/exit", nil).Code)

	require.Equal(t, http.StatusOK, app.do(t, http.MethodPost, "/exit/logout", nil).Code)
	assert.Equal(t, http.StatusUnauthorized, app.do(t, http.MethodGet, "/exit", nil).Code)
}

func TestCheckoutFlow(t *testing.T) {
	app := newTestApp(t)
	now := time.Now().In(brt).Truncate(time.Second)
	app.store.Seed(
		models.VisitorRecord{ID: "r1", Name: "ANA", DocumentNumber: "123", VehiclePlate: "AAA", EntryTimestamp: now},
		models.VisitorRecord{ID: "r2", Name: "BIA", DocumentNumber: "456", VehiclePlate: "BBB", EntryTimestamp: now},
	)
	app.login(t)

	rec := app.do(t, http.MethodGet, "/exit", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []any{"123", "456"}, decode(t, rec)["candidates"])

	rec = app.do(t, http.MethodPost, "/exit/checkout", gin.H{"document_number": "123"})
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, "Checkout registered for document 123.", body["message"])
	overview := body["overview"].(map[string]any)
	assert.Equal(t, []any{"456"}, overview["candidates"])

	rec = app.do(t, http.MethodPost, "/exit/checkout", gin.H{"document_number": "123"})
	require.Equal(t, http.StatusNotFound, rec.Code)
	body = decode(t, rec)
	assert.Contains(t, body["error"], "could not register checkout")
	assert.Contains(t, body, "overview", "overview refreshed on failure")

	rec = app.do(t, http.MethodPost, "/exit/checkout", gin.H{"document_number": "  "})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestExportDownloadsWorkbook(t *testing.T) {
	app := newTestApp(t)
	app.store.Seed(models.VisitorRecord{ID: "r1", Name: "ANA", DocumentNumber: "123", VehiclePlate: "AAA", EntryTimestamp: time.Now().In(brt)})
	app.login(t)

	rec := app.do(t, http.MethodGet, "/exit/export", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, xlsxContentType, rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "registros-")
	assert.NotZero(t, rec.Body.Len())
}

func TestErrorResponseMapping(t *testing.T) {
	cases := []struct {
		err  error
		code int
	}{
		{&models.ValidationError{Missing: []string{"name"}}, http.StatusUnprocessableEntity},
		{models.ErrAuth, http.StatusUnauthorized},
		{models.ErrNotLoggedIn, http.StatusUnauthorized},
		{models.ErrNotFound, http.StatusNotFound},
		{models.ErrStoreRead, http.StatusBadGateway},
		{assert.AnError, http.StatusInternalServerError},
	}
	for _, tc := range cases {
		code, _ := errorResponse(tc.err)
		assert.Equal(t, tc.code, code, tc.err.Error())
	}
}
