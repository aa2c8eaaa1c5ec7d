package controllers

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"regexp"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/090809/apartments-web/internal/propertyapi"
	apiModels "github.com/090809/apartments-web/internal/propertyapi/models"
	"github.com/090809/apartments-web/pkg/auth"
	"github.com/090809/apartments-web/pkg/authorizedhttp"
	"github.com/090809/apartments-web/pkg/tokenmanagement"
)

const listingBody = `{"status":true,"data":[
	{"id":7,"property_name":"Sea View","property_code":"SV-1","check_in":"2024-07-01","check_out":"2024-07-08",
	 "bedrooms":1,"adults":2,"children":3,"parking":4,"pets":5,"price":12.5,
	 "website":"seaview.example.com","website_image":"https://img.example.com/sv.jpg"},
	{"id":3,"property_name":"Hill Top","property_code":"HT-2","check_in":"2024-08-01","check_out":"2024-08-03",
	 "bedrooms":2,"adults":4,"children":0,"parking":1,"pets":0,"price":99,
	 "website":"hilltop.example.com","website_image":"https://img.example.com/ht.jpg"},
	{"id":3,"property_name":"Hill Top","property_code":"HT-2","check_in":"2024-09-01","check_out":"2024-09-03",
	 "bedrooms":2,"adults":4,"children":0,"parking":1,"pets":0,"price":0.125,
	 "website":"hilltop.example.com","website_image":"https://img.example.com/ht.jpg"}
]}`

type fixture struct {
	upstream *httptest.Server
	calls    atomic.Int32
	status   int
	body     string
	store    *auth.MemoryTokenStore
	handler  http.Handler
}

func newFixture(t *testing.T, status int, body string) *fixture {
	f := &fixture{status: status, body: body, store: auth.NewMemoryTokenStore()}
	f.upstream = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.calls.Add(1)
		w.WriteHeader(f.status)
		_, _ = io.WriteString(w, f.body)
	}))
	t.Cleanup(f.upstream.Close)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	authorized := authorizedhttp.NewClient(tokenmanagement.NewStoredTokenProvider(f.store))
	authorized.DefaultClient = f.upstream.Client()
	api := propertyapi.NewClient(f.upstream.Client(), authorized)
	api.LoginURL = f.upstream.URL + "/api/v1/user/login"
	api.ListingURL = f.upstream.URL + "/api/v1/property/list"
	api.Logger = logger

	h := NewHandlers(os.DirFS("../.."), f.store, api)
	h.Logger = logger
	f.handler = NewRouter(h, os.DirFS("../.."))
	return f
}

func (f *fixture) do(req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)
	return rec
}

func (f *fixture) submitLogin(email, password string) *httptest.ResponseRecorder {
	form := url.Values{"email": {email}, "password": {password}}
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return f.do(req)
}

func (f *fixture) storedToken() string {
	token, err := f.store.LoadToken()
	if err != nil {
		return ""
	}
	return token
}

func TestLoginPageRendersForm(t *testing.T) {
	f := newFixture(t, http.StatusOK, "")

	rec := f.do(httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `type="email"`)
	assert.Contains(t, body, `type="password"`)
	assert.Equal(t, 2, strings.Count(body, "required"))
	assert.NotContains(t, body, "login-error")
	assert.Zero(t, f.calls.Load())
}

func TestLoginSuccessStoresTokenAndNavigates(t *testing.T) {
	f := newFixture(t, http.StatusOK, `{"data":{"accessToken":"T"}}`)

	rec := f.submitLogin("user@example.com", "secret")

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/apartments", rec.Header().Get("Location"))
	assert.Equal(t, "T", f.storedToken())
	assert.EqualValues(t, 1, f.calls.Load())
}

func TestLoginFailures(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		message string
	}{
		{name: "bad status", status: http.StatusUnauthorized, body: `{"message":"invalid"}`, message: msgLoginFailed},
		{name: "server error", status: http.StatusInternalServerError, message: msgLoginFailed},
		{name: "missing token", status: http.StatusOK, body: `{"data":{"user":"x"}}`, message: msgTokenNotFound},
		{name: "not json", status: http.StatusOK, body: `<html>`, message: msgInvalidData},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, tt.status, tt.body)

			rec := f.submitLogin("user@example.com", "secret")

			assert.Equal(t, http.StatusOK, rec.Code)
			assert.Empty(t, rec.Header().Get("Location"))
			assert.Contains(t, rec.Body.String(), tt.message)
			assert.Contains(t, rec.Body.String(), `value="user@example.com"`)
			assert.Empty(t, f.storedToken())
			assert.EqualValues(t, 1, f.calls.Load())
		})
	}
}

func TestLoginUnreachableServer(t *testing.T) {
	f := newFixture(t, http.StatusOK, "")
	f.upstream.Close()

	rec := f.submitLogin("user@example.com", "secret")

	assert.Contains(t, rec.Body.String(), msgServerUnreachable)
	assert.Empty(t, f.storedToken())
}

func TestLoginRequiresBothFields(t *testing.T) {
	f := newFixture(t, http.StatusOK, `{"data":{"accessToken":"T"}}`)

	rec := f.submitLogin("user@example.com", "")

	assert.Contains(t, rec.Body.String(), msgCredentialsRequired)
	assert.Zero(t, f.calls.Load())
	assert.Empty(t, f.storedToken())
}

func TestLoginPageAfterExpiredSession(t *testing.T) {
	f := newFixture(t, http.StatusOK, "")

	rec := f.do(httptest.NewRequest(http.MethodGet, "/?session=expired", nil))

	assert.Contains(t, rec.Body.String(), msgUnauthorized)
}

func TestApartmentsWithoutToken(t *testing.T) {
	f := newFixture(t, http.StatusOK, listingBody)

	rec := f.do(httptest.NewRequest(http.MethodGet, "/apartments", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Header().Get("Location"))
	assert.Contains(t, rec.Body.String(), msgNoToken)
	assert.NotContains(t, rec.Body.String(), "No apartments available")
	assert.Zero(t, f.calls.Load())
}

func TestApartmentsUnauthorizedClearsTokenAndNavigates(t *testing.T) {
	f := newFixture(t, http.StatusUnauthorized, `{"message":"expired"}`)
	require.NoError(t, f.store.SaveToken("T"))

	rec := f.do(httptest.NewRequest(http.MethodGet, "/apartments", nil))

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/?session=expired", rec.Header().Get("Location"))
	assert.Empty(t, f.storedToken())
	assert.EqualValues(t, 1, f.calls.Load())
}

func TestApartmentsOtherFailuresKeepToken(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		message string
	}{
		{name: "server error", status: http.StatusInternalServerError, message: msgFetchFailed},
		{name: "forbidden", status: http.StatusForbidden, message: msgFetchFailed},
		{name: "status false", status: http.StatusOK, body: `{"status":false,"data":[]}`, message: msgInvalidData},
		{name: "data not array", status: http.StatusOK, body: `{"status":true,"data":"nope"}`, message: msgInvalidData},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, tt.status, tt.body)
			require.NoError(t, f.store.SaveToken("T"))

			rec := f.do(httptest.NewRequest(http.MethodGet, "/apartments", nil))

			assert.Equal(t, http.StatusOK, rec.Code)
			assert.Empty(t, rec.Header().Get("Location"))
			assert.Contains(t, rec.Body.String(), tt.message)
			assert.Equal(t, "T", f.storedToken())
		})
	}
}

var countValue = regexp.MustCompile(`<p class="text-lg">(\d+)</p>`)

func TestApartmentsRendersCards(t *testing.T) {
	f := newFixture(t, http.StatusOK, listingBody)
	require.NoError(t, f.store.SaveToken("T"))

	rec := f.do(httptest.NewRequest(http.MethodGet, "/apartments", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Equal(t, 3, strings.Count(body, `class="apartment-card`))
	assert.NotContains(t, body, "listing-error")
	assert.NotContains(t, body, "No apartments available")

	assert.Contains(t, body, "Sea View")
	assert.Contains(t, body, "$12.50")
	assert.Contains(t, body, "$99.00")
	assert.Contains(t, body, "$0.13")
	assert.Contains(t, body, `href="http://seaview.example.com"`)
	assert.Contains(t, body, `src="https://img.example.com/sv.jpg"`)
	assert.Contains(t, body, `src="/static/icons/pets.svg"`)
	assert.Less(t, strings.Index(body, "Sea View"), strings.Index(body, "Hill Top"), "server order is kept")

	var counts []string
	for _, m := range countValue.FindAllStringSubmatch(body, -1) {
		counts = append(counts, m[1])
	}
	require.Len(t, counts, 15)
	assert.Equal(t, []string{"1", "2", "3", "4", "5"}, counts[:5])
	assert.Equal(t, []string{"2", "4", "0", "1", "0"}, counts[5:10])
}

func TestApartmentsEmptyListing(t *testing.T) {
	f := newFixture(t, http.StatusOK, `{"status":true,"data":[]}`)
	require.NoError(t, f.store.SaveToken("T"))

	rec := f.do(httptest.NewRequest(http.MethodGet, "/apartments", nil))

	assert.Contains(t, rec.Body.String(), "No apartments available")
	assert.NotContains(t, rec.Body.String(), "listing-error")
	assert.NotContains(t, rec.Body.String(), "apartment-card")
}

func TestApartmentsRenderIsIdempotent(t *testing.T) {
	f := newFixture(t, http.StatusOK, listingBody)
	require.NoError(t, f.store.SaveToken("T"))

	first := f.do(httptest.NewRequest(http.MethodGet, "/apartments", nil)).Body.String()
	second := f.do(httptest.NewRequest(http.MethodGet, "/apartments", nil)).Body.String()

	assert.Equal(t, first, second)
	assert.Equal(t, 3, strings.Count(second, `class="apartment-card`))
	assert.EqualValues(t, 2, f.calls.Load())
}

type stubAPI struct {
	apartments []apiModels.Apartment
	err        error
}

func (s stubAPI) Login(context.Context, string, string) (string, error) { return "", s.err }
func (s stubAPI) ListApartments(context.Context) ([]apiModels.Apartment, error) {
	return s.apartments, s.err
}

func TestApartmentsIgnoresResultAfterClientLeft(t *testing.T) {
	store := auth.NewMemoryTokenStore()
	require.NoError(t, store.SaveToken("T"))
	api := stubAPI{err: &propertyapi.Error{Op: "list apartments", Kind: propertyapi.KindUnauthorized, StatusCode: 401}}

	h := NewHandlers(os.DirFS("../.."), store, api)
	h.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	req := httptest.NewRequest(http.MethodGet, "/apartments", nil).WithContext(ctx)
	rec := httptest.NewRecorder()
	h.ApartmentsHandler(rec, req)

	assert.Empty(t, rec.Body.String())
	assert.Empty(t, rec.Header().Get("Location"))
	token, err := store.LoadToken()
	require.NoError(t, err)
	assert.Equal(t, "T", token)
}

func TestNavigationHonoursForwardedPrefix(t *testing.T) {
	f := newFixture(t, http.StatusOK, `{"data":{"accessToken":"T"}}`)

	form := url.Values{"email": {"user@example.com"}, "password": {"secret"}}
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("X-Forwarded-Prefix", "/portal/")
	rec := f.do(req)

	assert.Equal(t, "/portal/apartments", rec.Header().Get("Location"))

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Forwarded-Prefix", "//evil.example.com")
	assert.Contains(t, f.do(req).Body.String(), `action="/"`)
}

func TestRouterServesStaticAndHealth(t *testing.T) {
	f := newFixture(t, http.StatusOK, "")

	rec := f.do(httptest.NewRequest(http.MethodGet, "/static/icons/bedrooms.svg", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "<svg")

	rec = f.do(httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, "ok", rec.Body.String())
	assert.NotEmpty(t, rec.Header().Get("X-Request-Id"))

	rec = f.do(httptest.NewRequest(http.MethodGet, "/nowhere", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = f.do(httptest.NewRequest(http.MethodDelete, "/apartments", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
