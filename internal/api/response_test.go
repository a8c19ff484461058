package api

import (
	"encoding/json"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteJSON(t *testing.T) {
	w := httptest.NewRecorder()

	data := map[string]string{"message": "hello"}
	writeJSON(w, 200, data)

	assert.Equal(t, 200, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	var result map[string]string
	err := json.Unmarshal(w.Body.Bytes(), &result)
	require.NoError(t, err)
	assert.Equal(t, "hello", result["message"])
}

func TestWriteRawJSON(t *testing.T) {
	// Key order and number formatting must survive untouched, so the body
	// is compared byte-for-byte rather than decoded.
	raw := json.RawMessage(`{"z":1,"a":2.50,"nested":{"y":null,"b":[]}}`)

	w := httptest.NewRecorder()
	writeRawJSON(w, 200, raw)

	assert.Equal(t, 200, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, strconv.Itoa(len(raw)), w.Header().Get("Content-Length"))
	assert.Equal(t, []byte(raw), w.Body.Bytes())
}

func TestWriteError(t *testing.T) {
	w := httptest.NewRecorder()

	writeError(w, 404, "scene not found")

	assert.Equal(t, 404, w.Code)

	var result map[string]string
	err := json.Unmarshal(w.Body.Bytes(), &result)
	require.NoError(t, err)
	assert.Equal(t, "scene not found", result["error"])
}
