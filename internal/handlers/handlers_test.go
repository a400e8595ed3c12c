package handlers_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/text/language"

	"github.com/oskar87/swe2/internal/auth"
	"github.com/oskar87/swe2/internal/db"
	"github.com/oskar87/swe2/internal/handlers"
	"github.com/oskar87/swe2/internal/repository"
	"github.com/oskar87/swe2/internal/service"
	"github.com/oskar87/swe2/internal/validation"
)

const sessionSecret = "test-secret-key"

var defaultLocale = language.English

type testApp struct {
	router       *gin.Engine
	store        *repository.Store
	kunden       *service.KundeService
	artikel      *service.ArtikelService
	bestellungen *service.BestellungService
}

func setupApp(t *testing.T, guarded bool) *testApp {
	t.Helper()
	gin.SetMode(gin.TestMode)

	// Initialize an in-memory SQLite database
	testDB, err := db.OpenSQLite("file:" + uuid.NewString() + "?mode=memory&cache=shared")
	require.NoError(t, err)
	sqlDB, err := testDB.DB()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	v, err := validation.New()
	require.NoError(t, err)

	logger := zap.NewNop()
	store := repository.NewStore(testDB)
	app := &testApp{
		store:   store,
		kunden:  service.NewKundeService(store, v, logger),
		artikel: service.NewArtikelService(store, v, logger),
	}
	app.bestellungen = service.NewBestellungService(store, v, nil, nil, logger)
	t.Cleanup(app.bestellungen.Wait)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(sessions.Sessions(auth.SessionName, cookie.NewStore([]byte(sessionSecret))))

	routes := handlers.Routes{
		Kunden:       handlers.NewKundeHandler(app.kunden, app.bestellungen, "/api", logger),
		Artikel:      handlers.NewArtikelHandler(app.artikel, "/api", logger),
		Bestellungen: handlers.NewBestellungHandler(app.bestellungen, "/api", logger),
		Health:       handlers.Health(store),
	}
	if guarded {
		routes.Guard = auth.RequireAuth(app.kunden)
	}
	routes.Register(r, "/api")

	app.router = r
	return app
}

type request struct {
	method      string
	path        string
	body        io.Reader
	contentType string
	accept      string
	language    string
	cookie      string
}

func (a *testApp) do(req request) *httptest.ResponseRecorder {
	r := httptest.NewRequest(req.method, req.path, req.body)
	if req.contentType != "" {
		r.Header.Set("Content-Type", req.contentType)
	}
	if req.accept != "" {
		r.Header.Set("Accept", req.accept)
	}
	if req.language != "" {
		r.Header.Set("Accept-Language", req.language)
	}
	if req.cookie != "" {
		r.Header.Set("Cookie", req.cookie)
	}
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, r)
	return w
}

func (a *testApp) get(path, accept string) *httptest.ResponseRecorder {
	return a.do(request{method: http.MethodGet, path: path, accept: accept})
}

func (a *testApp) sendJSON(method, path string, body any) *httptest.ResponseRecorder {
	data, _ := json.Marshal(body)
	return a.do(request{method: method, path: path, body: bytes.NewReader(data), contentType: "application/json"})
}

type errorResponse struct {
	Error      string `json:"error"`
	Code       string `json:"code"`
	Violations []struct {
		Field   string `json:"field"`
		Tag     string `json:"tag"`
		Message string `json:"message"`
	} `json:"violations"`
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) errorResponse {
	t.Helper()
	var body errorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body), w.Body.String())
	return body
}

// sessionCookie forges a signed session cookie for kundeID.
func sessionCookie(kundeID uint) string {
	tempW := httptest.NewRecorder()
	tempC, _ := gin.CreateTestContext(tempW)
	tempC.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	sessions.Sessions(auth.SessionName, cookie.NewStore([]byte(sessionSecret)))(tempC)

	session := sessions.Default(tempC)
	session.Set(auth.SessionKundeID, kundeID)
	_ = session.Save()
	return tempW.Header().Get("Set-Cookie")
}
