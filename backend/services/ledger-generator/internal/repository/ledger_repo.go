package repository

import (
	"context"
	"database/sql"
	"fmt"
)

// ledger_entry."programId" is BIGINT or UUID depending on how the ledger schema was
// created; comparing as text lets one query serve both.
const programFilter = `"programId"::text = $1`

// LedgerRepository reads and prunes seeded ledger rows directly in postgres.
type LedgerRepository struct {
	db *sql.DB
}

// NewLedgerRepository returns repository.
func NewLedgerRepository(db *sql.DB) *LedgerRepository {
	return &LedgerRepository{db: db}
}

// CountByProgram returns the number of ledger entries stored for a program key.
func (r *LedgerRepository) CountByProgram(ctx context.Context, programKey string) (int64, error) {
	query := `SELECT COUNT(*) FROM ledger_entry WHERE ` + programFilter
	var n int64
	if err := r.db.QueryRowContext(ctx, query, programKey).Scan(&n); err != nil {
		return 0, fmt.Errorf("repository: count program %s: %w", programKey, err)
	}
	return n, nil
}

// DeleteByProgram removes every ledger entry of a program key and returns the number removed.
func (r *LedgerRepository) DeleteByProgram(ctx context.Context, programKey string) (int64, error) {
	query := `DELETE FROM ledger_entry WHERE ` + programFilter
	res, err := r.db.ExecContext(ctx, query, programKey)
	if err != nil {
		return 0, fmt.Errorf("repository: delete program %s: %w", programKey, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("repository: delete program %s: %w", programKey, err)
	}
	return n, nil
}
