package httpx

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJSONSuccess(t *testing.T) {
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/books", nil)
	r = r.WithContext(ContextWithRequestID(r.Context(), "req-1"))

	JSONSuccess(w, r, map[string]string{"key": "value"}, map[string]interface{}{"total": 10})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	var body map[string]any
	require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
	assert.Equal(t, true, body["success"])
	meta := body["meta"].(map[string]any)
	assert.Equal(t, "req-1", meta["request_id"])
	assert.Equal(t, float64(10), meta["total"])
}

func TestJSONSuccess_NoMeta(t *testing.T) {
	w := httptest.NewRecorder()
	JSONSuccess(w, httptest.NewRequest(http.MethodGet, "/books", nil), []int{1}, nil)

	var body map[string]any
	require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
	assert.NotContains(t, body, "meta")
}

func TestJSONSuccessCreated(t *testing.T) {
	w := httptest.NewRecorder()
	JSONSuccessCreated(w, httptest.NewRequest(http.MethodPost, "/books", nil), map[string]bool{"created": true})
	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestJSONError(t *testing.T) {
	w := httptest.NewRecorder()
	details := []ErrorDetail{{Field: "title", Message: "Title is required"}}

	JSONError(w, httptest.NewRequest(http.MethodPost, "/books", nil), http.StatusBadRequest, "VALIDATION_ERROR", "Invalid input", details)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	var resp ErrorResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.False(t, resp.Success)
	assert.Equal(t, "VALIDATION_ERROR", resp.Error.Code)
	assert.Equal(t, details, resp.Error.Details)
}

func TestJSONSuccessNoContent(t *testing.T) {
	w := httptest.NewRecorder()
	JSONSuccessNoContent(w)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Zero(t, w.Body.Len())
}
