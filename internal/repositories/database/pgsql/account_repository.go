package pgsql

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fintrackhq/fintrack_app/internal/apperrors"
	"github.com/fintrackhq/fintrack_app/internal/core/domain"
	"github.com/fintrackhq/fintrack_app/internal/core/ports"
)

type PgxAccountRepository struct {
	pool *pgxpool.Pool
}

// newPgxAccountRepository creates a new repository for account data.
func newPgxAccountRepository(pool *pgxpool.Pool) ports.AccountRepository {
	return &PgxAccountRepository{pool: pool}
}

var _ ports.AccountRepository = (*PgxAccountRepository)(nil)

const accountColumns = `account_id, user_id, name, type, bank_name, balance, created_at, updated_at`

func scanAccount(row pgx.Row) (*domain.Account, error) {
	var a domain.Account
	err := row.Scan(&a.AccountID, &a.UserID, &a.Name, &a.Type, &a.BankName, &a.Balance, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *PgxAccountRepository) SaveAccount(ctx context.Context, account domain.Account) error {
	query := `
		INSERT INTO accounts (account_id, user_id, name, type, bank_name, balance, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8);
	`
	_, err := r.pool.Exec(ctx, query,
		account.AccountID,
		account.UserID,
		account.Name,
		account.Type,
		account.BankName,
		account.Balance,
		account.CreatedAt,
		account.UpdatedAt,
	)
	if err != nil {
		return mapWriteError(err, "account")
	}
	return nil
}

func (r *PgxAccountRepository) FindAccountByID(ctx context.Context, userID, accountID string) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE account_id = $1 AND user_id = $2;`
	account, err := scanAccount(r.pool.QueryRow(ctx, query, accountID, userID))
	if err != nil {
		return nil, mapFindError(err, "account "+accountID)
	}
	return account, nil
}

func (r *PgxAccountRepository) ListAccounts(ctx context.Context, userID string) ([]domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE user_id = $1 ORDER BY created_at;`
	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("listing accounts: %w", err)
	}
	defer rows.Close()

	var accounts []domain.Account
	for rows.Next() {
		account, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning account: %w", err)
		}
		accounts = append(accounts, *account)
	}
	return accounts, rows.Err()
}

func (r *PgxAccountRepository) UpdateAccount(ctx context.Context, account domain.Account) error {
	query := `
		UPDATE accounts
		SET name = $3, type = $4, bank_name = $5, updated_at = $6
		WHERE account_id = $1 AND user_id = $2;
	`
	tag, err := r.pool.Exec(ctx, query,
		account.AccountID,
		account.UserID,
		account.Name,
		account.Type,
		account.BankName,
		account.UpdatedAt,
	)
	if err != nil {
		return mapWriteError(err, "account")
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: account %s", apperrors.ErrNotFound, account.AccountID)
	}
	return nil
}

func (r *PgxAccountRepository) DeleteAccount(ctx context.Context, userID, accountID string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM accounts WHERE account_id = $1 AND user_id = $2;`, accountID, userID)
	if err != nil {
		return mapWriteError(err, "account")
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: account %s", apperrors.ErrNotFound, accountID)
	}
	return nil
}

// UpdateBalance writes a balance conditionally. With a non-nil expected value
// the write is keyed on the stored balance still matching, which is the only
// concurrency control on the balance field; a zero-row result is then
// disambiguated between a lost race and a missing account. A nil expected
// value performs the unconditional write used by saga compensation.
func (r *PgxAccountRepository) UpdateBalance(ctx context.Context, userID, accountID string, expected *int64, newBalance int64) error {
	var tag pgconn.CommandTag
	var err error
	if expected != nil {
		tag, err = r.pool.Exec(ctx,
			`UPDATE accounts SET balance = $4, updated_at = now() WHERE account_id = $1 AND user_id = $2 AND balance = $3;`,
			accountID, userID, *expected, newBalance)
	} else {
		tag, err = r.pool.Exec(ctx,
			`UPDATE accounts SET balance = $3, updated_at = now() WHERE account_id = $1 AND user_id = $2;`,
			accountID, userID, newBalance)
	}
	if err != nil {
		return fmt.Errorf("updating balance: %w", err)
	}
	if tag.RowsAffected() > 0 {
		return nil
	}

	if expected == nil {
		return fmt.Errorf("%w: account %s", apperrors.ErrNotFound, accountID)
	}

	// Zero rows with a condition: either the account vanished or the balance
	// moved underneath us.
	var exists bool
	err = r.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM accounts WHERE account_id = $1 AND user_id = $2);`,
		accountID, userID).Scan(&exists)
	if err != nil {
		return fmt.Errorf("checking account existence: %w", err)
	}
	if !exists {
		return fmt.Errorf("%w: account %s", apperrors.ErrNotFound, accountID)
	}
	return fmt.Errorf("%w: account %s balance changed since read", apperrors.ErrConcurrentModification, accountID)
}
