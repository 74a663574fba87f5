// pkg/cleaner/audit.go
package cleaner

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"github.com/glowsight/sentiment-ingress/pkg/model"
)

// AuditStore persists cleaning operations to an embedded sqlite database so
// repairs made on ingest remain inspectable after the run.
type AuditStore struct {
	db     *sql.DB
	runID  string
	logger *zap.Logger
}

// OpenAuditStore opens (creating if necessary) the audit database and
// ensures the tracking table exists. Each store instance tags its records
// with a fresh run identifier.
func OpenAuditStore(path string, logger *zap.Logger) (*AuditStore, error) {
	if path == "" {
		return nil, errors.New("audit database path cannot be empty")
	}
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open audit database: %w", err)
	}

	store := &AuditStore{
		db:     db,
		runID:  uuid.New().String(),
		logger: logger,
	}

	if err := store.setupAuditTable(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to setup audit table: %w", err)
	}

	return store, nil
}

// setupAuditTable ensures the cleaned_on_ingress tracking table exists.
func (s *AuditStore) setupAuditTable() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	createTableSQL := `
		CREATE TABLE IF NOT EXISTS cleaned_on_ingress (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id TEXT NOT NULL,
			table_name TEXT NOT NULL,
			column_name TEXT NOT NULL,
			original_value TEXT,
			new_value TEXT NOT NULL,
			row_identifier TEXT NOT NULL,
			cleaning_operation TEXT NOT NULL,
			cleaning_reason TEXT NOT NULL,
			cleaned_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)
	`
	_, err := s.db.ExecContext(ctx, createTableSQL)
	if err != nil {
		return fmt.Errorf("failed to create tracking table: %w", err)
	}

	s.logger.Info("Ensured cleaned_on_ingress table exists",
		zap.String("runID", s.runID))
	return nil
}

// RunID returns the identifier tagged onto this store's records.
func (s *AuditStore) RunID() string {
	return s.runID
}

// Record batch inserts cleaning operations into the tracking table.
func (s *AuditStore) Record(ctx context.Context, operations []model.CleaningOperation) error {
	if len(operations) == 0 {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				s.logger.Error("Failed to rollback transaction",
					zap.Error(rbErr),
					zap.Error(err))
			}
		}
	}()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO cleaned_on_ingress
		(run_id, table_name, column_name, original_value, new_value,
		 row_identifier, cleaning_operation, cleaning_reason)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	for _, op := range operations {
		_, err = stmt.ExecContext(ctx,
			s.runID,
			op.TableName,
			op.ColumnName,
			op.OriginalValue,
			op.NewValue,
			op.RowIdentifier,
			op.Operation,
			op.Reason,
		)
		if err != nil {
			return fmt.Errorf("failed to insert cleaning operation: %w", err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	s.logger.Info("Recorded cleaning operations", zap.Int("count", len(operations)))
	return nil
}

// Close releases the underlying database handle.
func (s *AuditStore) Close() error {
	return s.db.Close()
}
