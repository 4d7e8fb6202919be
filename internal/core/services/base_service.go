package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/remesas_backend/internal/apperrors"
	"github.com/SscSPs/remesas_backend/internal/core/domain"
	portsrepo "github.com/SscSPs/remesas_backend/internal/core/ports/repositories"
	"github.com/SscSPs/remesas_backend/internal/middleware"
	"github.com/jackc/pgx/v5"
)

// BaseService provides common functionality for all services
type BaseService struct {
	// Clock returns the current time; nil means time.Now.
	Clock func() time.Time
}

// Now returns the current time according to the service clock.
func (s *BaseService) Now() time.Time {
	if s.Clock != nil {
		return s.Clock()
	}
	return time.Now()
}

// GetLogger gets the logger from context or returns a default one
func (s *BaseService) GetLogger(ctx context.Context) *slog.Logger {
	logger := middleware.GetLoggerFromCtx(ctx)
	if logger == nil {
		return slog.Default()
	}
	return logger
}

// LogError logs an error with consistent formatting
func (s *BaseService) LogError(ctx context.Context, err error, msg string, keyvals ...any) {
	logger := s.GetLogger(ctx)
	args := make([]any, 0, len(keyvals)+1)
	args = append(args, slog.String("error", err.Error()))
	args = append(args, keyvals...)
	logger.Error(msg, args...)
}

// LogWarn logs a warning with consistent formatting
func (s *BaseService) LogWarn(ctx context.Context, msg string, keyvals ...any) {
	s.GetLogger(ctx).Warn(msg, keyvals...)
}

// LogInfo logs an info message with consistent formatting
func (s *BaseService) LogInfo(ctx context.Context, msg string, keyvals ...any) {
	logger := s.GetLogger(ctx)
	logger.Info(msg, keyvals...)
}

// LogDebug logs a debug message with consistent formatting
func (s *BaseService) LogDebug(ctx context.Context, msg string, keyvals ...any) {
	logger := s.GetLogger(ctx)
	logger.Debug(msg, keyvals...)
}

// RequireRole returns ErrForbidden unless the actor has one of roles.
func (s *BaseService) RequireRole(ctx context.Context, actor domain.Actor, action string, roles ...domain.Role) error {
	for _, r := range roles {
		if actor.Role == r {
			return nil
		}
	}
	err := fmt.Errorf("%w: role %s cannot %s", apperrors.ErrForbidden, actor.Role, action)
	s.LogDebug(ctx, "Actor not allowed",
		slog.String("user_id", actor.ID),
		slog.String("role", string(actor.Role)),
		slog.String("action", action))
	return err
}

// cleanupProof deletes a proof that is no longer referenced. Failures never
// block the caller; they are logged and dropped.
func (s *BaseService) cleanupProof(ctx context.Context, store interface {
	Delete(ctx context.Context, path string) error
}, path *string) {
	if store == nil || path == nil || *path == "" {
		return
	}
	if err := store.Delete(ctx, *path); err != nil {
		s.LogWarn(ctx, "Failed to delete replaced proof", slog.String("path", *path), slog.String("error", err.Error()))
	}
}

// runInTx runs fn inside one database transaction. The rollback after a
// successful commit is a no-op.
func runInTx(ctx context.Context, tm portsrepo.TransactionManager, fn func(tx pgx.Tx) error) error {
	tx, err := tm.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tm.Rollback(ctx, tx) }()

	if err := fn(tx); err != nil {
		return err
	}
	return tm.Commit(ctx, tx)
}
