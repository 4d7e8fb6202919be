package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/SscSPs/remesas_backend/internal/apperrors"
	"github.com/SscSPs/remesas_backend/internal/core/domain"
	portssvc "github.com/SscSPs/remesas_backend/internal/core/ports/services"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// ViewRoute is the public route that serves signed proof URLs.
const ViewRoute = "/proofs/view"

const proofURLAudience = "proof-view"

// LocalProofStorage keeps proof files on the local filesystem under root and
// hands out short-lived signed URLs to display them.
type LocalProofStorage struct {
	root    string
	baseURL string
	secret  []byte
	ttl     time.Duration
	clock   func() time.Time
}

// NewLocalProofStorage creates the storage, making sure root exists.
func NewLocalProofStorage(root, baseURL, secret string, ttl time.Duration) (*LocalProofStorage, error) {
	if err := os.MkdirAll(root, 0o750); err != nil {
		return nil, fmt.Errorf("failed to create proof storage dir %s: %w", root, err)
	}
	return &LocalProofStorage{
		root:    root,
		baseURL: strings.TrimRight(baseURL, "/"),
		secret:  []byte(secret),
		ttl:     ttl,
		clock:   time.Now,
	}, nil
}

var _ portssvc.ProofStorage = (*LocalProofStorage)(nil)

// Store writes file under <category>/<uuid><ext> and returns that relative path.
func (s *LocalProofStorage) Store(ctx context.Context, file io.Reader, filename string, category domain.ProofCategory) (string, error) {
	if !category.IsValid() {
		return "", fmt.Errorf("%w: unknown proof category %q", apperrors.ErrValidation, category)
	}
	ext := strings.ToLower(filepath.Ext(filename))
	rel := path.Join(string(category), uuid.NewString()+ext)

	full, err := s.resolve(rel)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(full), 0o750); err != nil {
		return "", fmt.Errorf("failed to create proof dir: %w", err)
	}

	out, err := os.OpenFile(full, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o640)
	if err != nil {
		return "", fmt.Errorf("failed to create proof file: %w", err)
	}
	if _, err := io.Copy(out, file); err != nil {
		_ = out.Close()
		_ = os.Remove(full)
		return "", fmt.Errorf("failed to write proof file: %w", err)
	}
	if err := out.Close(); err != nil {
		return "", fmt.Errorf("failed to close proof file: %w", err)
	}
	return rel, nil
}

// Delete removes a stored file. A file that is already gone is not an error.
func (s *LocalProofStorage) Delete(ctx context.Context, p string) error {
	full, err := s.resolve(p)
	if err != nil {
		return err
	}
	if err := os.Remove(full); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to delete proof %s: %w", p, err)
	}
	return nil
}

// ResolveForDisplay signs p into a URL valid for the configured TTL.
func (s *LocalProofStorage) ResolveForDisplay(ctx context.Context, p string) (string, error) {
	if _, err := s.resolve(p); err != nil {
		return "", err
	}
	now := s.clock()
	claims := jwt.RegisteredClaims{
		Subject:   p,
		Audience:  jwt.ClaimStrings{proofURLAudience},
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign proof URL: %w", err)
	}
	return s.baseURL + ViewRoute + "?token=" + url.QueryEscape(signed), nil
}

// Open verifies a signed display token and opens the file it points at.
func (s *LocalProofStorage) Open(ctx context.Context, token string) (*os.File, error) {
	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithAudience(proofURLAudience),
		jwt.WithTimeFunc(s.clock),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid proof token: %v", apperrors.ErrForbidden, err)
	}

	full, err := s.resolve(claims.Subject)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(full)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to open proof: %w", err)
	}
	return f, nil
}

// resolve maps a stored relative path to a filesystem path inside root.
func (s *LocalProofStorage) resolve(p string) (string, error) {
	clean := path.Clean("/" + p)
	if p == "" || clean == "/" || clean != "/"+p {
		return "", fmt.Errorf("%w: invalid proof path %q", apperrors.ErrValidation, p)
	}
	return filepath.Join(s.root, filepath.FromSlash(clean[1:])), nil
}
