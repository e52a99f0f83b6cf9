package utils

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSessionContext(t *testing.T) {
	t.Run("WithSessionID and GetSessionIDFromContext", func(t *testing.T) {
		ctx := WithSessionID(context.Background(), "sess-123")

		id, ok := GetSessionIDFromContext(ctx)
		assert.True(t, ok)
		assert.Equal(t, "sess-123", id)
	})

	t.Run("GetSessionIDFromContext with empty context", func(t *testing.T) {
		_, ok := GetSessionIDFromContext(context.Background())
		assert.False(t, ok)
	})

	t.Run("Empty id is not a session", func(t *testing.T) {
		_, ok := GetSessionIDFromContext(WithSessionID(context.Background(), ""))
		assert.False(t, ok)
	})
}

func TestFirstNonEmpty(t *testing.T) {
	assert.Equal(t, "b", FirstNonEmpty("", "  ", "b", "c"))
	assert.Equal(t, "", FirstNonEmpty("", " "))
	assert.Equal(t, "", FirstNonEmpty())
}

func TestWriteJSONError(t *testing.T) {
	w := httptest.NewRecorder()
	WriteJSONError(w, "boom", http.StatusBadRequest)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	var body map[string]string
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "boom", body["error"])
}

func TestGenerateTransactionID(t *testing.T) {
	t.Run("Format", func(t *testing.T) {
		id := GenerateTransactionID()

		assert.True(t, strings.HasPrefix(id, "FP-"), "Should start with FP-")
		suffix := strings.TrimPrefix(id, "FP-")
		assert.Len(t, suffix, 9)
		for _, r := range suffix {
			assert.True(t, strings.ContainsRune(base36, r), "unexpected char %q", r)
		}
	})

	t.Run("Uniqueness", func(t *testing.T) {
		assert.NotEqual(t, GenerateTransactionID(), GenerateTransactionID())
	})
}
