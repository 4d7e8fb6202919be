package storage

import (
	"context"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/SscSPs/remesas_backend/internal/apperrors"
	"github.com/SscSPs/remesas_backend/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStorage(t *testing.T) *LocalProofStorage {
	t.Helper()
	s, err := NewLocalProofStorage(t.TempDir(), "http://localhost:8080/", "test-secret", 15*time.Minute)
	require.NoError(t, err)
	return s
}

func tokenFrom(t *testing.T, raw string) string {
	t.Helper()
	u, err := url.Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, ViewRoute, u.Path)
	return u.Query().Get("token")
}

func TestStoreResolveOpen(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	p, err := s.Store(ctx, strings.NewReader("voucher-bytes"), "Comprobante.PNG", domain.ProofVoucher)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(p, "vouchers/"))
	assert.True(t, strings.HasSuffix(p, ".png"))

	link, err := s.ResolveForDisplay(ctx, p)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(link, "http://localhost:8080/proofs/view?token="))

	f, err := s.Open(ctx, tokenFrom(t, link))
	require.NoError(t, err)
	defer f.Close()
	content, err := io.ReadAll(f)
	require.NoError(t, err)
	assert.Equal(t, "voucher-bytes", string(content))
}

func TestOpenRejectsExpiredToken(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()
	p, err := s.Store(ctx, strings.NewReader("x"), "a.pdf", domain.ProofRejection)
	require.NoError(t, err)

	issued := time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)
	s.clock = func() time.Time { return issued }
	link, err := s.ResolveForDisplay(ctx, p)
	require.NoError(t, err)

	s.clock = func() time.Time { return issued.Add(16 * time.Minute) }
	_, err = s.Open(ctx, tokenFrom(t, link))
	assert.ErrorIs(t, err, apperrors.ErrForbidden)
}

func TestOpenRejectsForeignSignature(t *testing.T) {
	s := newTestStorage(t)
	other := newTestStorage(t)
	other.secret = []byte("another-secret")
	ctx := context.Background()

	p, err := s.Store(ctx, strings.NewReader("x"), "a.pdf", domain.ProofPayment)
	require.NoError(t, err)
	link, err := other.ResolveForDisplay(ctx, p)
	require.NoError(t, err)

	_, err = s.Open(ctx, tokenFrom(t, link))
	assert.ErrorIs(t, err, apperrors.ErrForbidden)
}

func TestDelete(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()
	p, err := s.Store(ctx, strings.NewReader("x"), "a.jpg", domain.ProofVendorPayment)
	require.NoError(t, err)

	require.NoError(t, s.Delete(ctx, p))
	_, statErr := os.Stat(filepath.Join(s.root, filepath.FromSlash(p)))
	assert.True(t, os.IsNotExist(statErr))

	// Deleting twice is harmless.
	assert.NoError(t, s.Delete(ctx, p))
}

func TestRejectsInvalidInput(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	_, err := s.Store(ctx, strings.NewReader("x"), "a.jpg", domain.ProofCategory("other"))
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	for _, p := range []string{"", "../etc/passwd", "vouchers/../../x", "/abs/path"} {
		assert.ErrorIs(t, s.Delete(ctx, p), apperrors.ErrValidation, p)
		_, err := s.ResolveForDisplay(ctx, p)
		assert.ErrorIs(t, err, apperrors.ErrValidation, p)
	}
}
