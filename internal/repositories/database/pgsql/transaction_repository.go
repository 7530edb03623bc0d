package pgsql

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fintrackhq/fintrack_app/internal/apperrors"
	"github.com/fintrackhq/fintrack_app/internal/core/domain"
	"github.com/fintrackhq/fintrack_app/internal/core/ports"
)

type PgxTransactionRepository struct {
	pool *pgxpool.Pool
}

// newPgxTransactionRepository creates a new repository for transaction data.
func newPgxTransactionRepository(pool *pgxpool.Pool) ports.TransactionRepository {
	return &PgxTransactionRepository{pool: pool}
}

var _ ports.TransactionRepository = (*PgxTransactionRepository)(nil)

const transactionColumns = `transaction_id, user_id, account_id, category_id, type, amount, description, date, created_at, updated_at`

func scanTransaction(row pgx.Row) (*domain.Transaction, error) {
	var t domain.Transaction
	err := row.Scan(&t.TransactionID, &t.UserID, &t.AccountID, &t.CategoryID, &t.Type, &t.Amount, &t.Description, &t.Date, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *PgxTransactionRepository) SaveTransaction(ctx context.Context, txn domain.Transaction) error {
	query := `
		INSERT INTO transactions (transaction_id, user_id, account_id, category_id, type, amount, description, date, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);
	`
	_, err := r.pool.Exec(ctx, query,
		txn.TransactionID,
		txn.UserID,
		txn.AccountID,
		txn.CategoryID,
		txn.Type,
		txn.Amount,
		txn.Description,
		txn.Date,
		txn.CreatedAt,
		txn.UpdatedAt,
	)
	if err != nil {
		return mapWriteError(err, "transaction")
	}
	return nil
}

func (r *PgxTransactionRepository) FindTransactionByID(ctx context.Context, userID, transactionID string) (*domain.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE transaction_id = $1 AND user_id = $2;`
	txn, err := scanTransaction(r.pool.QueryRow(ctx, query, transactionID, userID))
	if err != nil {
		return nil, mapFindError(err, "transaction "+transactionID)
	}
	return txn, nil
}

func (r *PgxTransactionRepository) ListTransactions(ctx context.Context, userID string, filter domain.TransactionFilter) ([]domain.TransactionDetail, error) {
	query := `
		SELECT t.transaction_id, t.user_id, t.account_id, t.category_id, t.type, t.amount, t.description, t.date, t.created_at, t.updated_at,
		       a.name, c.name, c.color
		FROM transactions t
		JOIN accounts a ON a.account_id = t.account_id
		JOIN categories c ON c.category_id = t.category_id
		WHERE t.user_id = $1`
	args := []any{userID}

	addCondition := func(condition string, value any) {
		args = append(args, value)
		query += " AND " + condition + "$" + strconv.Itoa(len(args))
	}
	if filter.AccountID != "" {
		addCondition("t.account_id = ", filter.AccountID)
	}
	if filter.CategoryID != "" {
		addCondition("t.category_id = ", filter.CategoryID)
	}
	if filter.Type != "" {
		addCondition("t.type = ", filter.Type)
	}
	if filter.Date != nil {
		addCondition("t.date = ", *filter.Date)
	}
	if filter.DateFrom != nil {
		addCondition("t.date >= ", *filter.DateFrom)
	}
	if filter.DateTo != nil {
		addCondition("t.date <= ", *filter.DateTo)
	}
	query += ` ORDER BY t.date DESC, t.created_at DESC;`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing transactions: %w", err)
	}
	defer rows.Close()

	var details []domain.TransactionDetail
	for rows.Next() {
		var d domain.TransactionDetail
		err := rows.Scan(
			&d.TransactionID, &d.UserID, &d.AccountID, &d.CategoryID, &d.Type,
			&d.Amount, &d.Description, &d.Date, &d.CreatedAt, &d.UpdatedAt,
			&d.AccountName, &d.CategoryName, &d.CategoryColor,
		)
		if err != nil {
			return nil, fmt.Errorf("scanning transaction: %w", err)
		}
		details = append(details, d)
	}
	return details, rows.Err()
}

func (r *PgxTransactionRepository) UpdateTransaction(ctx context.Context, txn domain.Transaction) error {
	query := `
		UPDATE transactions
		SET category_id = $3, type = $4, amount = $5, description = $6, date = $7, updated_at = $8
		WHERE transaction_id = $1 AND user_id = $2;
	`
	tag, err := r.pool.Exec(ctx, query,
		txn.TransactionID,
		txn.UserID,
		txn.CategoryID,
		txn.Type,
		txn.Amount,
		txn.Description,
		txn.Date,
		txn.UpdatedAt,
	)
	if err != nil {
		return mapWriteError(err, "transaction")
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: transaction %s", apperrors.ErrNotFound, txn.TransactionID)
	}
	return nil
}

func (r *PgxTransactionRepository) DeleteTransaction(ctx context.Context, userID, transactionID string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM transactions WHERE transaction_id = $1 AND user_id = $2;`, transactionID, userID)
	if err != nil {
		return mapWriteError(err, "transaction")
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: transaction %s", apperrors.ErrNotFound, transactionID)
	}
	return nil
}

func (r *PgxTransactionRepository) CountByCategory(ctx context.Context, userID, categoryID string) (int64, error) {
	var count int64
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM transactions WHERE user_id = $1 AND category_id = $2;`,
		userID, categoryID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("counting transactions: %w", err)
	}
	return count, nil
}

func (r *PgxTransactionRepository) CountsByCategory(ctx context.Context, userID string) (map[string]int64, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT category_id, COUNT(*) FROM transactions WHERE user_id = $1 GROUP BY category_id;`, userID)
	if err != nil {
		return nil, fmt.Errorf("counting transactions: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int64)
	for rows.Next() {
		var categoryID string
		var count int64
		if err := rows.Scan(&categoryID, &count); err != nil {
			return nil, fmt.Errorf("scanning transaction count: %w", err)
		}
		counts[categoryID] = count
	}
	return counts, rows.Err()
}

func (r *PgxTransactionRepository) ListExpensesInRange(ctx context.Context, userID string, categoryIDs []string, from, to time.Time) ([]domain.Transaction, error) {
	query := `SELECT ` + transactionColumns + `
		FROM transactions
		WHERE user_id = $1 AND type = $2 AND category_id = ANY($3) AND date >= $4 AND date <= $5;`
	rows, err := r.pool.Query(ctx, query, userID, domain.FlowExpense, categoryIDs, from, to)
	if err != nil {
		return nil, fmt.Errorf("listing expenses: %w", err)
	}
	defer rows.Close()

	var expenses []domain.Transaction
	for rows.Next() {
		txn, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning expense: %w", err)
		}
		expenses = append(expenses, *txn)
	}
	return expenses, rows.Err()
}
