package testhelpers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/shadiptomojumder/skb-backend/internal/utils"
)

// NewJSONRequest builds a request whose body is body encoded as JSON. A
// string body is sent verbatim.
func NewJSONRequest(t *testing.T, method, target string, body any) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	switch b := body.(type) {
	case nil:
	case string:
		buf.WriteString(b)
	default:
		require.NoError(t, json.NewEncoder(&buf).Encode(b))
	}

	req := httptest.NewRequest(method, target, &buf)
	if buf.Len() > 0 {
		req.Header.Set("Content-Type", "application/json")
	}
	req.RemoteAddr = "192.0.2.10:40000"
	return req
}

// WithAccessCookie attaches token as the access token cookie.
func WithAccessCookie(req *http.Request, token string) *http.Request {
	req.AddCookie(&http.Cookie{Name: utils.AccessTokenCookieName, Value: token, Path: "/"})
	return req
}

// WithBearer attaches token as an Authorization bearer header.
func WithBearer(req *http.Request, token string) *http.Request {
	req.Header.Set("Authorization", "Bearer "+token)
	return req
}

// Serve runs req through h and returns the recorder.
func Serve(h http.Handler, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

// DecodeError decodes a uniform error body.
func DecodeError(t *testing.T, rec *httptest.ResponseRecorder) utils.ErrorResponse {
	t.Helper()
	var body utils.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body), rec.Body.String())
	return body
}

// SuccessBody is the success envelope with Data and Meta left raw.
type SuccessBody struct {
	Success    bool            `json:"success"`
	StatusCode int             `json:"statusCode"`
	Message    string          `json:"message"`
	Meta       json.RawMessage `json:"meta"`
	Data       json.RawMessage `json:"data"`
}

// DecodeSuccess decodes the success envelope and, when data is non-nil,
// its data field into data.
func DecodeSuccess(t *testing.T, rec *httptest.ResponseRecorder, data any) SuccessBody {
	t.Helper()
	var body SuccessBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body), rec.Body.String())
	if data != nil {
		require.NoError(t, json.Unmarshal(body.Data, data), string(body.Data))
	}
	return body
}

// CookieValue returns the value of the named Set-Cookie on rec, if any.
func CookieValue(rec *httptest.ResponseRecorder, name string) (string, bool) {
	for _, c := range rec.Result().Cookies() {
		if c.Name == name {
			return c.Value, true
		}
	}
	return "", false
}
