package test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"
	"time"

	"github.com/house-help/backend/internal/autosync"
	"github.com/house-help/backend/internal/config"
	"github.com/house-help/backend/internal/identity"
	"github.com/house-help/backend/internal/router"
	"github.com/house-help/backend/internal/share"
	"github.com/house-help/backend/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Secret signs the session tokens used in tests.
const Secret = "test-secret"

// OwnerEmail is the identity requests are made as unless a test overrides
// the Authorization header.
const OwnerEmail = "owner@example.com"

// Config returns the backend configuration used in tests.
func Config() *config.Config {
	return &config.Config{
		Auth: config.AuthConfig{
			Secret:          Secret,
			HouseholdEmails: []string{OwnerEmail, "partner@example.com"},
			HouseholdKey:    "household",
		},
		Share: config.ShareConfig{
			BaseURL: "http://example.com",
		},
	}
}

// Token returns a session token for the given identity.
func Token(t *testing.T, email string) string {
	token, err := identity.GenerateToken(Secret, email, time.Hour)
	if err != nil {
		assert.FailNow(t, "Token generation failed", err.Error())
	}

	return token
}

// Request is a helper method to simplify making a HTTP request for tests.
//
// Requests carry a valid session token for OwnerEmail. Pass an explicit
// Authorization header to override it, or an empty one to make an
// unauthenticated request.
func Request(t *testing.T, method, reqURL string, body any, headers ...map[string]string) httptest.ResponseRecorder {
	var byteBuffer *bytes.Buffer

	// If the body is a string, convert it to bytes
	if reflect.TypeOf(body).Kind() == reflect.String {
		byteBuffer = bytes.NewBufferString(body.(string))
	} else if reflect.TypeOf(body).Kind() == reflect.Struct || reflect.TypeOf(body).Kind() == reflect.Map || reflect.TypeOf(body).Kind() == reflect.Slice {
		byteStr, err := json.Marshal(body)
		if err != nil {
			assert.Fail(t, "Request body could not be marshalled from struct input", err)
		}
		byteBuffer = bytes.NewBuffer(byteStr)
	} else {
		// Assume we got sent a *bytes.Buffer for e.g. a file
		byteBuffer = body.(*bytes.Buffer)
	}

	ledgerStore := store.New()
	reconciler := autosync.New(ledgerStore, nil, 0)
	shareLinks := share.NewRegistry("http://example.com", 0)

	r, err := router.Router(Config(), ledgerStore, reconciler, shareLinks)
	if err != nil {
		assert.FailNow(t, "Router could not be initialized")
	}

	recorder := httptest.NewRecorder()
	req, _ := http.NewRequest(method, reqURL, byteBuffer)
	req.Header.Set("Authorization", "Bearer "+Token(t, OwnerEmail))

	for _, headerMap := range headers {
		for header, value := range headerMap {
			req.Header.Set(header, value)
		}
	}

	r.ServeHTTP(recorder, req)

	return *recorder
}

// DecodeResponse decodes an HTTP response into a target struct.
func DecodeResponse(t *testing.T, r *httptest.ResponseRecorder, target any) {
	err := json.Unmarshal(r.Body.Bytes(), &target)
	if err != nil {
		assert.FailNow(t, "Parsing error", "Unable to parse response from server %q into %v, '%v', Request ID: %s", r.Body, reflect.TypeOf(target), err, r.Result().Header.Get("x-request-id"))
	}
}

// AssertHTTPStatus verifies that the HTTP response status is correct
func AssertHTTPStatus(t *testing.T, r *httptest.ResponseRecorder, expectedStatus ...int) {
	require.Contains(t, expectedStatus, r.Code, "HTTP status is wrong. Request ID: '%s' Response body: %s", r.Result().Header.Get("x-request-id"), r.Body.String())
}

// DecodeError decodes the error field of an HTTP response.
func DecodeError(t *testing.T, s []byte) string {
	var r struct {
		Error string `json:"error"`
	}

	if err := json.Unmarshal(s, &r); err != nil {
		assert.Fail(t, "Not valid JSON!", "%s", s)
	}

	return r.Error
}
