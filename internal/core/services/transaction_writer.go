package services

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/SscSPs/remesas_backend/internal/apperrors"
	"github.com/SscSPs/remesas_backend/internal/core/domain"
	portsrepo "github.com/SscSPs/remesas_backend/internal/core/ports/repositories"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// transactionWriter holds the unit-of-work shared by every service that mutates transactions.
type transactionWriter struct {
	BaseService
	txnRepo    portsrepo.TransactionRepositoryWithTx
	editWindow time.Duration
}

func newTransactionWriter(repo portsrepo.TransactionRepositoryWithTx) transactionWriter {
	return transactionWriter{txnRepo: repo, editWindow: domain.DefaultEditWindow}
}

// mutateFunc applies one guarded change to a locked transaction. A non-empty
// note appends a history row carrying the resulting status.
type mutateFunc func(t *domain.Transaction, now time.Time, tx pgx.Tx) (note string, err error)

// mutate re-fetches the transaction under a row lock, re-validates guards through fn
// and writes the result together with its audit rows in one database transaction.
// With materialize set, a lapsed edit window is auto-advanced before fn runs. Without it,
// a lapsed window that makes fn reject the change is auto-advanced after the rollback.
func (s *transactionWriter) mutate(ctx context.Context, actor domain.Actor, transactionID int64, action string, materialize bool, fn mutateFunc) (*domain.Transaction, error) {
	var result, lapsed *domain.Transaction
	err := runInTx(ctx, s.txnRepo, func(tx pgx.Tx) error {
		t, err := s.txnRepo.FindTransactionByIDForUpdate(ctx, tx, transactionID)
		if err != nil {
			return err
		}
		if err := checkVisible(actor, t); err != nil {
			return err
		}

		now := s.Now()
		if materialize && domain.Materialize(t, now, s.editWindow) {
			auto := s.newHistory(t.ID, t.Status, noteAutoAdvanced, domain.SystemActorID, now)
			if err := s.txnRepo.AppendHistoryInTx(ctx, tx, auto); err != nil {
				return err
			}
		} else if t.Status == domain.StatusPending && !t.EditWindowOpen(now, s.editWindow) {
			pending := *t
			lapsed = &pending
		}

		note, err := fn(t, now, tx)
		if err != nil {
			return err
		}

		t.UpdatedAt = now
		if err := s.txnRepo.UpdateTransactionInTx(ctx, tx, *t); err != nil {
			return err
		}
		if note != "" {
			if err := s.txnRepo.AppendHistoryInTx(ctx, tx, s.newHistory(t.ID, t.Status, note, actor.ID, now)); err != nil {
				return err
			}
		}
		result = t
		return nil
	})
	if err != nil {
		if isGuardError(err) {
			s.LogDebug(ctx, "Transaction guard rejected "+action,
				slog.Int64("transaction_id", transactionID),
				slog.String("reason", err.Error()))
		} else {
			s.LogError(ctx, err, "Failed to "+action+" transaction", slog.Int64("transaction_id", transactionID))
		}
		if lapsed != nil && errors.Is(err, apperrors.ErrInvalidTransition) {
			// The guard error still wins; the advance failure is logged by materializeOnRead.
			_, _ = s.materializeOnRead(ctx, lapsed)
		}
		return nil, err
	}

	s.LogInfo(ctx, "Transaction "+action+" applied",
		slog.Int64("transaction_id", result.ID),
		slog.String("status", string(result.Status)))
	return result, nil
}

// materializeOnRead persists a lapsed auto-advance. The conditional update makes
// concurrent readers record the automatic transition exactly once.
func (s *transactionWriter) materializeOnRead(ctx context.Context, txn *domain.Transaction) (*domain.Transaction, error) {
	now := s.Now()
	if !domain.Materialize(txn, now, s.editWindow) {
		return txn, nil
	}

	history := s.newHistory(txn.ID, domain.StatusPendingVenezuela, noteAutoAdvanced, domain.SystemActorID, now)
	advanced, err := s.txnRepo.AdvanceIfPending(ctx, txn.ID, now, now.Add(-s.editWindow), history)
	if err != nil {
		s.LogError(ctx, err, "Failed to auto-advance transaction", slog.Int64("transaction_id", txn.ID))
		return nil, err
	}
	if advanced {
		s.LogInfo(ctx, "Transaction auto-advanced", slog.Int64("transaction_id", txn.ID))
		return txn, nil
	}

	// Someone else changed the row first; return what is stored.
	return s.txnRepo.FindTransactionByID(ctx, txn.ID)
}

func (s *transactionWriter) newHistory(transactionID int64, status domain.TransactionStatus, note, changedBy string, now time.Time) domain.TransactionHistory {
	return domain.TransactionHistory{
		HistoryID:     uuid.NewString(),
		TransactionID: transactionID,
		Status:        status,
		Note:          note,
		ChangedBy:     changedBy,
		CreatedAt:     now,
	}
}
