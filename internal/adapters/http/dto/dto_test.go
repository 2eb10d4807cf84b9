package dto

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quotably/quotesync/internal/domain"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// testContext returns a gin context with a JSON body for binding tests.
func testContext(t *testing.T, body string) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	req := httptest.NewRequest(http.MethodPost, "/", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req

	return c, w
}

// Error envelope tests

func TestNewErrorResponse(t *testing.T) {
	resp := NewErrorResponse(ErrorCodeNotFound, "quote not found")

	assert.Equal(t, ErrorCodeNotFound, resp.Error.Code)
	assert.Equal(t, "quote not found", resp.Error.Message)
	assert.Empty(t, resp.Error.Details)
	assert.Empty(t, resp.TraceID)
}

func TestErrorResponse_WithSuggestion(t *testing.T) {
	resp := NewErrorResponse(ErrorCodeUnavailable, "store unreachable").
		WithSuggestion("check your connection")

	assert.Equal(t, "check your connection", resp.Error.Suggestion)
}

func TestErrorResponse_JSONShape(t *testing.T) {
	resp := NewErrorResponseWithDetails(ErrorCodeValidation, "request validation failed",
		map[string]string{"email": "must be a valid email address"}).
		WithTraceID("trace-1")

	data, err := json.Marshal(resp)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))

	errObj, ok := decoded["error"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "VALIDATION_ERROR", errObj["code"])
	assert.Equal(t, "trace-1", decoded["traceId"])
}

func TestHTTPStatusFromCode(t *testing.T) {
	tests := []struct {
		code   string
		status int
	}{
		{ErrorCodeNotFound, http.StatusNotFound},
		{ErrorCodeConflict, http.StatusConflict},
		{ErrorCodeValidation, http.StatusBadRequest},
		{ErrorCodeBadRequest, http.StatusBadRequest},
		{ErrorCodeUnauthorized, http.StatusUnauthorized},
		{ErrorCodeUnavailable, http.StatusServiceUnavailable},
		{ErrorCodeParse, http.StatusBadGateway},
		{ErrorCodeUpload, http.StatusBadGateway},
		{ErrorCodeTimeout, http.StatusGatewayTimeout},
		{ErrorCodeInternal, http.StatusInternalServerError},
		{"SOMETHING_ELSE", http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			assert.Equal(t, tt.status, HTTPStatusFromCode(tt.code))
		})
	}
}

// Domain error mapping tests

func TestMapDomainError_Nil(t *testing.T) {
	status, resp := MapDomainError(nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Nil(t, resp)
}

func TestMapDomainError(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{
			name:   "not found",
			err:    domain.NewNotFoundError("quote", "q-1"),
			status: http.StatusNotFound,
			code:   ErrorCodeNotFound,
		},
		{
			name:   "conflict",
			err:    domain.NewConflictError("quote", "q-1", "already favorited"),
			status: http.StatusConflict,
			code:   ErrorCodeConflict,
		},
		{
			name:   "unauthenticated",
			err:    domain.NewAuthError("login", domain.ErrUnauthenticated),
			status: http.StatusUnauthorized,
			code:   ErrorCodeUnauthorized,
		},
		{
			name:   "unavailable",
			err:    domain.NewUnavailableError("quote-store", errors.New("dial tcp: refused")),
			status: http.StatusServiceUnavailable,
			code:   ErrorCodeUnavailable,
		},
		{
			name:   "parse",
			err:    domain.NewParseError("quote document", errors.New("unexpected EOF")),
			status: http.StatusBadGateway,
			code:   ErrorCodeParse,
		},
		{
			name:   "upload",
			err:    domain.NewUploadError("image-host", errors.New("host rejected image")),
			status: http.StatusBadGateway,
			code:   ErrorCodeUpload,
		},
		{
			name:   "store",
			err:    domain.NewStoreError("save", "quote", errors.New("disk full")),
			status: http.StatusInternalServerError,
			code:   ErrorCodeStore,
		},
		{
			name:   "unknown",
			err:    errors.New("something odd"),
			status: http.StatusInternalServerError,
			code:   ErrorCodeInternal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, resp := MapDomainError(tt.err)
			assert.Equal(t, tt.status, status)
			require.NotNil(t, resp)
			assert.Equal(t, tt.code, resp.Error.Code)
		})
	}
}

// Credential problems are the caller's to fix, so they map to 400
// rather than 401 even though the provider reports them on sign-up.
func TestMapDomainError_CredentialReasonsAreValidation(t *testing.T) {
	reasons := []error{
		domain.ErrInvalidEmail,
		domain.ErrWeakPassword,
		domain.ErrEmailInUse,
	}

	for _, reason := range reasons {
		t.Run(reason.Error(), func(t *testing.T) {
			status, resp := MapDomainError(domain.NewAuthError("register", reason))
			assert.Equal(t, http.StatusBadRequest, status)
			assert.Equal(t, ErrorCodeValidation, resp.Error.Code)
		})
	}
}

func TestMapDomainError_ValidationFieldDetails(t *testing.T) {
	err := domain.NewValidationError("author", "must not be empty")

	status, resp := MapDomainError(err)

	assert.Equal(t, http.StatusBadRequest, status)
	require.NotNil(t, resp.Error.Details)
	assert.Equal(t, "must not be empty", resp.Error.Details["author"])
}

func TestMapDomainError_UnknownHidesInternals(t *testing.T) {
	_, resp := MapDomainError(errors.New("pq: connection reset by peer"))

	assert.Equal(t, "an internal error occurred", resp.Error.Message)
	assert.NotContains(t, resp.Error.Message, "pq:")
}

func TestMapDomainError_Suggestions(t *testing.T) {
	_, unavailable := MapDomainError(domain.NewUnavailableError("quote-store", errors.New("refused")))
	assert.Equal(t, "check your connection and try again", unavailable.Error.Suggestion)

	_, unauthenticated := MapDomainError(domain.NewAuthError("favorite", domain.ErrUnauthenticated))
	assert.Equal(t, "sign in and try again", unauthenticated.Error.Suggestion)
}

func TestHandleError_WritesEnvelope(t *testing.T) {
	c, w := testContext(t, "")

	HandleError(c, domain.NewNotFoundError("quote", "q-404"))

	assert.Equal(t, http.StatusNotFound, w.Code)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, ErrorCodeNotFound, resp.Error.Code)
	assert.Contains(t, resp.Error.Message, "q-404")
}

// Binding and validation tests

type createQuoteBody struct {
	Author  string `json:"author"  validate:"required,notempty"`
	Content string `json:"content" validate:"required,notempty"`
}

func TestBindAndValidate_Success(t *testing.T) {
	c, _ := testContext(t, `{"author":"Seneca","content":"Luck is what happens when preparation meets opportunity."}`)

	var body createQuoteBody
	err := BindAndValidate(c, &body)

	require.NoError(t, err)
	assert.Equal(t, "Seneca", body.Author)
}

func TestBindAndValidate_MalformedJSON(t *testing.T) {
	c, _ := testContext(t, `{"author":`)

	var body createQuoteBody
	err := BindAndValidate(c, &body)

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrBinding)
	assert.False(t, IsValidationError(err))
}

func TestBindAndValidate_ValidationFailure(t *testing.T) {
	c, _ := testContext(t, `{"author":"   ","content":""}`)

	var body createQuoteBody
	err := BindAndValidate(c, &body)

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrValidation)
	assert.True(t, IsValidationError(err))

	fields := ValidationErrors(err)
	assert.Equal(t, "must not be empty", fields["author"])
	assert.Equal(t, "this field is required", fields["content"])
}

func TestValidate_RegisterRequest(t *testing.T) {
	tests := []struct {
		name    string
		req     RegisterRequest
		wantErr string
	}{
		{
			name: "valid",
			req:  RegisterRequest{Email: "reader@quotably.io", Password: "long-enough-pass"},
		},
		{
			name:    "bad email",
			req:     RegisterRequest{Email: "not-an-email", Password: "long-enough-pass"},
			wantErr: "email",
		},
		{
			name:    "short password",
			req:     RegisterRequest{Email: "reader@quotably.io", Password: "short"},
			wantErr: "password",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(&tt.req)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}

			require.Error(t, err)
			assert.Contains(t, ValidationErrors(err), tt.wantErr)
		})
	}
}

func TestValidate_SourceURLMustBeURL(t *testing.T) {
	req := CreateQuoteRequest{
		Author:    "Seneca",
		Content:   "Begin at once to live.",
		SourceURL: "not a url",
	}

	err := Validate(&req)

	require.Error(t, err)
	assert.Equal(t, "must be a valid URL", ValidationErrors(err)["sourceUrl"])
}

func TestHandleBindingError_ValidationDetails(t *testing.T) {
	c, w := testContext(t, "")

	var body createQuoteBody
	bindErr := Validate(&body)
	require.Error(t, bindErr)

	HandleBindingError(c, bindErr)

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, ErrorCodeValidation, resp.Error.Code)
	assert.Contains(t, resp.Error.Details, "author")
}

func TestHandleBindingError_MalformedBody(t *testing.T) {
	c, w := testContext(t, "")

	HandleBindingError(c, errors.New("unexpected EOF"))

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, ErrorCodeBadRequest, resp.Error.Code)
}

// Translation tests

func TestFromDomainQuote(t *testing.T) {
	q := domain.Quote{
		ID:        "q-1",
		Author:    "Seneca",
		Content:   "Begin at once to live.",
		Category:  "stoicism",
		Tags:      []string{"life"},
		Favorite:  true,
		SourceURL: "https://quotably.io/q-1",
		ImageURLs: []string{"https://images.quotably.io/seneca.png"},
	}

	resp := FromDomainQuote(q)

	assert.Equal(t, q.ID, resp.ID)
	assert.Equal(t, q.Author, resp.Author)
	assert.Equal(t, q.Category, resp.Category)
	assert.True(t, resp.Favorite)
	assert.Equal(t, q.ImageURLs, resp.ImageURLs)
}

func TestFromDomainQuotes_EmptyListNotNull(t *testing.T) {
	resp := FromDomainQuotes(nil)

	assert.NotNil(t, resp.Quotes)
	assert.Empty(t, resp.Quotes)
	assert.Zero(t, resp.Count)

	data, err := json.Marshal(resp)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"quotes":[]`)
}

func TestCreateQuoteRequest_ToDomainQuote(t *testing.T) {
	req := CreateQuoteRequest{
		Author:   "Seneca",
		Content:  "Begin at once to live.",
		Category: "stoicism",
		Tags:     []string{"life"},
	}

	q := req.ToDomainQuote()

	assert.Empty(t, q.ID)
	assert.Equal(t, "Seneca", q.Author)
	assert.False(t, q.Favorite)
}

func TestUpdateQuoteRequest_ToDomainQuote_UsesPathID(t *testing.T) {
	req := UpdateQuoteRequest{
		Author:   "Seneca",
		Content:  "Begin at once to live.",
		Favorite: true,
	}

	q := req.ToDomainQuote("q-9")

	assert.Equal(t, "q-9", q.ID)
	assert.True(t, q.Favorite)
}

func TestFromDomainSession(t *testing.T) {
	s := &domain.Session{
		UID:          "u-1",
		Email:        "reader@quotably.io",
		IDToken:      "token",
		RefreshToken: "refresh",
	}

	resp := FromDomainSession(s)

	assert.Equal(t, "u-1", resp.UID)
	assert.Equal(t, "reader@quotably.io", resp.Email)
	assert.False(t, resp.Anonymous)
}
