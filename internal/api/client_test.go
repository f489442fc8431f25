// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recorded captures what the test server saw.
type recorded struct {
	method, path, query string
	auth, contentType   string
	body                map[string]any
}

// newServer answers every request with status and body (JSON unless
// contentType says otherwise) and records the request.
func newServer(t *testing.T, status int, contentType, body string) (*httptest.Server, *recorded) {
	t.Helper()
	rec := &recorded{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec.method = r.Method
		rec.path = r.URL.EscapedPath()
		rec.query = r.URL.RawQuery
		rec.auth = r.Header.Get("Authorization")
		rec.contentType = r.Header.Get("Content-Type")
		if data, _ := io.ReadAll(r.Body); len(data) > 0 {
			_ = json.Unmarshal(data, &rec.body)
		}
		if contentType != "" {
			w.Header().Set("Content-Type", contentType)
		}
		w.WriteHeader(status)
		io.WriteString(w, body)
	}))
	t.Cleanup(srv.Close)
	return srv, rec
}

const jsonCT = "application/json"

// =============================================================================
// HEADERS
// =============================================================================

func TestClient_AttachesBearerWhenTokenPresent(t *testing.T) {
	srv, rec := newServer(t, http.StatusOK, jsonCT, `{"name":"Somchai","email":"s@mail.kmutt.ac.th","role":"student"}`)

	p, err := New(srv.URL, StaticToken("abc")).Profile(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "Bearer abc", rec.auth)
	assert.Equal(t, "application/json", rec.contentType)
	assert.Equal(t, "Somchai", p.Name)
	assert.Equal(t, "student", p.Role)
}

func TestClient_NoAuthorizationWithoutToken(t *testing.T) {
	srv, rec := newServer(t, http.StatusOK, jsonCT, `[]`)

	_, err := New(srv.URL, StaticToken("")).FAQs(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, rec.auth)

	_, err = New(srv.URL, nil).FAQs(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, rec.auth)
}

// =============================================================================
// ERRORS
// =============================================================================

func TestClient_LoginUnauthorizedKeepsDetail(t *testing.T) {
	srv, rec := newServer(t, http.StatusUnauthorized, jsonCT, `{"detail":"Invalid email or password"}`)

	_, err := New(srv.URL, nil).Login(context.Background(), "a@mail.kmutt.ac.th", "wrong")
	require.Error(t, err)

	assert.Equal(t, "/auth/login", rec.path)
	assert.Equal(t, "a@mail.kmutt.ac.th", rec.body["email"])

	assert.True(t, errors.Is(err, ErrUnauthorized))
	assert.Equal(t, "Invalid email or password", Detail(err, "Login failed"))

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusUnauthorized, apiErr.Status)
	assert.Equal(t, "Invalid email or password", apiErr.Body["detail"])
}

func TestClient_NonJSONErrorUsesStatusText(t *testing.T) {
	srv, _ := newServer(t, http.StatusBadGateway, "text/html", "<html>bad gateway</html>")

	_, err := New(srv.URL, nil).Forms(context.Background())
	require.Error(t, err)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, "Bad Gateway", apiErr.Body["detail"])
	assert.Equal(t, "Bad Gateway", Detail(err, "fallback"))
	assert.True(t, errors.Is(err, ErrServer))
}

func TestClient_JSONErrorWithoutDetailUsesFallback(t *testing.T) {
	srv, _ := newServer(t, http.StatusInternalServerError, jsonCT, `{"error":"boom"}`)

	_, err := New(srv.URL, nil).Login(context.Background(), "a", "b")
	require.Error(t, err)
	assert.Equal(t, "Login failed", Detail(err, "Login failed"))
	assert.Contains(t, err.Error(), "Internal Server Error")
}

func TestClient_ValidationDetailList(t *testing.T) {
	srv, _ := newServer(t, http.StatusUnprocessableEntity, jsonCT,
		`{"detail":[{"loc":["body","email"],"msg":"field required","type":"value_error.missing"}]}`)

	_, err := New(srv.URL, nil).Register(context.Background(), RegisterRequest{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrBadRequest))
	assert.Equal(t, "field required", Detail(err, ""))
}

func TestClient_NetworkErrorIsNotAPIError(t *testing.T) {
	srv, _ := newServer(t, http.StatusOK, jsonCT, `{}`)
	url := srv.URL
	srv.Close()

	_, err := New(url, nil).Profile(context.Background())
	require.Error(t, err)
	assert.Equal(t, "Failed to load profile", Detail(err, "Failed to load profile"))
}

// =============================================================================
// ENDPOINTS
// =============================================================================

func TestClient_LoginNumericUserID(t *testing.T) {
	srv, _ := newServer(t, http.StatusOK, jsonCT, `{"access_token":"jwt","token_type":"bearer","user_id":17}`)

	res, err := New(srv.URL, nil).Login(context.Background(), "a", "b")
	require.NoError(t, err)
	assert.Equal(t, "jwt", res.AccessToken)
	assert.Equal(t, ID("17"), res.UserID)
	assert.Equal(t, 17, res.UserID.Int())
}

func TestClient_RegisterVerificationReply(t *testing.T) {
	srv, rec := newServer(t, http.StatusOK, jsonCT, `{"message":"Verification email sent to a@mail.kmutt.ac.th"}`)

	res, err := New(srv.URL, nil).Register(context.Background(), RegisterRequest{
		Name: "A", Email: "a@mail.kmutt.ac.th", Password: "pw", ConfirmPassword: "pw",
	})
	require.NoError(t, err)
	assert.False(t, res.SignedIn())
	assert.Contains(t, res.Message, "Verification email sent")
	assert.Equal(t, "pw", rec.body["confirm_password"])
}

func TestClient_UpdateProfile(t *testing.T) {
	srv, rec := newServer(t, http.StatusOK, jsonCT,
		`{"message":"Profile updated","user":{"name":"New","email":"e","role":"student"}}`)

	res, err := New(srv.URL, StaticToken("t")).UpdateProfile(context.Background(), "New")
	require.NoError(t, err)
	assert.Equal(t, http.MethodPut, rec.method)
	assert.Equal(t, "New", rec.body["name"])
	assert.Equal(t, "New", res.User.Name)
}

func TestClient_FAQsActiveQuery(t *testing.T) {
	srv, rec := newServer(t, http.StatusOK, jsonCT,
		`[{"id":1,"question":"Q?","answer":"<p>A</p>","category":"general","display_order":2,"is_active":true}]`)

	faqs, err := New(srv.URL, nil).FAQs(context.Background(), Bool(true))
	require.NoError(t, err)
	assert.Equal(t, "/faq/", rec.path)
	assert.Equal(t, "active=true", rec.query)
	require.Len(t, faqs, 1)
	assert.Equal(t, ID("1"), faqs[0].ID)
	assert.Equal(t, 2, faqs[0].DisplayOrder)
}

func TestClient_SendMessage(t *testing.T) {
	srv, rec := newServer(t, http.StatusOK, jsonCT,
		`{"chat_id":5,"message":"Hello","answer":"Hi there","thread_id":"th-9"}`)

	res, err := New(srv.URL, StaticToken("t")).SendMessage(context.Background(), "Hello", "temp-1")
	require.NoError(t, err)
	assert.Equal(t, "/chat/send", rec.path)
	assert.Equal(t, "Hello", rec.body["message"])
	assert.Equal(t, "temp-1", rec.body["thread_id"])
	assert.Equal(t, "Hi there", res.Answer)
	assert.Equal(t, ID("th-9"), res.ThreadID)
	assert.Equal(t, ID("5"), res.ChatID)
}

func TestClient_HistoryBothShapes(t *testing.T) {
	srv, _ := newServer(t, http.StatusOK, jsonCT, `[
		{"id":"t1","title":"Fees","created_at":"2025-01-02T03:04:05Z",
		 "messages":[{"id":3,"role":"user","text":"How much?"},{"id":4,"role":"bot","text":"1000"}]},
		{"id":8,"message":"Deadline?","created_at":"2025-01-01T10:00:00",
		 "answers":[{"answer":"Friday","llm_provider":"open_webui"}]}
	]`)

	hist, err := New(srv.URL, StaticToken("t")).History(context.Background())
	require.NoError(t, err)
	require.Len(t, hist, 2)

	assert.Equal(t, "Fees", hist[0].Title)
	require.Len(t, hist[0].Messages, 2)
	assert.Equal(t, ID("4"), hist[0].Messages[1].ID)

	assert.Equal(t, ID("8"), hist[1].ID)
	assert.Equal(t, "Deadline?", hist[1].Message)
	require.Len(t, hist[1].Answers, 1)
	assert.Equal(t, "Friday", hist[1].Answers[0].Answer)
}

func TestClient_DeleteThreadEscapesID(t *testing.T) {
	srv, rec := newServer(t, http.StatusOK, jsonCT, `{"message":"deleted"}`)

	_, err := New(srv.URL, StaticToken("t")).DeleteThread(context.Background(), "a/b")
	require.NoError(t, err)
	assert.Equal(t, http.MethodDelete, rec.method)
	assert.Equal(t, "/chat/history/a%2Fb", rec.path)
}

func TestClient_DeleteHistoryAndLogout(t *testing.T) {
	srv, rec := newServer(t, http.StatusOK, jsonCT, `{"message":"Logged out successfully"}`)
	c := New(srv.URL+"/", StaticToken("t"))

	_, err := c.DeleteHistory(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "/chat/history", rec.path)

	res, err := c.Logout(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "/auth/logout", rec.path)
	assert.Equal(t, "Logged out successfully", res.Message)
}

func TestClient_NonJSONSuccessLeavesOutputEmpty(t *testing.T) {
	srv, _ := newServer(t, http.StatusOK, "text/plain", "ok")

	forms, err := New(srv.URL, nil).Forms(context.Background())
	require.NoError(t, err)
	assert.Empty(t, forms)
}

// =============================================================================
// THROTTLE & TIMEOUT
// =============================================================================

func TestClient_RateLimitHonoursContext(t *testing.T) {
	srv, _ := newServer(t, http.StatusOK, jsonCT, `[]`)
	c := New(srv.URL, nil).WithRateLimit(0.001, 1)

	_, err := c.Forms(context.Background())
	require.NoError(t, err)

	// The bucket is empty now; the next call would wait far past the deadline.
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err = c.Forms(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rate limiter")
}

func TestClient_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-time.After(time.Second):
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()

	_, err := New(srv.URL, nil).WithTimeout(50*time.Millisecond).Forms(context.Background())
	require.Error(t, err)
}

// =============================================================================
// HELPERS
// =============================================================================

func TestIsJSON(t *testing.T) {
	assert.True(t, isJSON("application/json"))
	assert.True(t, isJSON("application/json; charset=utf-8"))
	assert.True(t, isJSON("application/problem+json"))
	assert.False(t, isJSON("text/html"))
	assert.False(t, isJSON(""))
}

func TestID_Unmarshal(t *testing.T) {
	var v struct {
		A ID `json:"a"`
		B ID `json:"b"`
		C ID `json:"c"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"a":12,"b":"x-1","c":null}`), &v))
	assert.Equal(t, ID("12"), v.A)
	assert.Equal(t, ID("x-1"), v.B)
	assert.Equal(t, ID(""), v.C)
	assert.Equal(t, 0, v.B.Int())
}

func TestParseTime(t *testing.T) {
	assert.False(t, ParseTime("2025-01-02T03:04:05Z").IsZero())
	assert.False(t, ParseTime("2025-01-02T03:04:05.123456").IsZero())
	assert.False(t, ParseTime("2025-01-02 03:04:05").IsZero())
	assert.True(t, ParseTime("yesterday").IsZero())
	assert.True(t, ParseTime("").IsZero())
}
