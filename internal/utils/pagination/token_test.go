package pagination

import (
	"encoding/base64"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestEncodeDecodeToken(t *testing.T) {
	createdAt := time.Date(2026, 5, 15, 14, 30, 45, 123456789, time.UTC)

	token := EncodeToken(createdAt, "1234")
	assert.NotEmpty(t, token, "Token should not be empty")

	decodedCreatedAt, key, err := DecodeToken(token)
	assert.NoError(t, err)
	assert.Equal(t, createdAt, decodedCreatedAt)
	assert.Equal(t, "1234", key)

	// Keys may themselves contain separators (uuid-like or composite keys)
	token = EncodeToken(createdAt, "a|b")
	_, key, err = DecodeToken(token)
	assert.NoError(t, err)
	assert.Equal(t, "a|b", key)

	now := time.Now().UTC()
	_, _, err = DecodeToken(EncodeToken(now, "x"))
	assert.NoError(t, err)
}

func TestDecodeTokenError(t *testing.T) {
	_, _, err := DecodeToken("this is not base64!")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "base64 decode")

	noSeparator := base64.StdEncoding.EncodeToString([]byte("2026-05-15T00:00:00Z"))
	_, _, err = DecodeToken(noSeparator)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "split")

	badDate := base64.StdEncoding.EncodeToString([]byte("notadate|17"))
	_, _, err = DecodeToken(badDate)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "created_at parse")
}
