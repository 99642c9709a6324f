package postgres

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/financehub/financehub-backend/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// TransactionRepository implements domain.TransactionRepository using
// PostgreSQL. Inserts go through the ledger store so the balance effect and
// the row commit together; this is the read side plus receipt bookkeeping.
type TransactionRepository struct {
	pool *pgxpool.Pool
}

// NewTransactionRepository creates a new TransactionRepository
func NewTransactionRepository(pool *pgxpool.Pool) *TransactionRepository {
	return &TransactionRepository{pool: pool}
}

const transactionColumns = `id, user_id, category_id, title, description, amount, transaction_type, date, receipt_key, created_at`

// GetByID retrieves a transaction by ID within a user's scope
func (r *TransactionRepository) GetByID(ctx context.Context, userID uuid.UUID, id int32) (*domain.Transaction, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+transactionColumns+`
		FROM transactions
		WHERE user_id = $1 AND id = $2`,
		userID, id)
	return scanTransaction(row)
}

// GetByUser retrieves a filtered, paginated page of transactions, newest
// date first.
func (r *TransactionRepository) GetByUser(ctx context.Context, userID uuid.UUID, filters *domain.TransactionFilters) (*domain.PaginatedTransactions, error) {
	where := []string{"user_id = $1"}
	args := []any{userID}

	if filters != nil {
		if filters.Type != nil {
			args = append(args, string(*filters.Type))
			where = append(where, fmt.Sprintf("transaction_type = $%d", len(args)))
		}
		if filters.CategoryID != nil {
			args = append(args, *filters.CategoryID)
			where = append(where, fmt.Sprintf("category_id = $%d", len(args)))
		}
		if filters.StartDate != nil {
			args = append(args, *filters.StartDate)
			where = append(where, fmt.Sprintf("date >= $%d", len(args)))
		}
		if filters.EndDate != nil {
			args = append(args, *filters.EndDate)
			where = append(where, fmt.Sprintf("date <= $%d", len(args)))
		}
	}
	whereClause := strings.Join(where, " AND ")

	var totalItems int64
	if err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM transactions WHERE `+whereClause, args...).Scan(&totalItems); err != nil {
		return nil, err
	}

	page := int32(1)
	pageSize := int32(domain.DefaultPageSize)
	if filters != nil {
		if filters.Page > 0 {
			page = filters.Page
		}
		if filters.PageSize > 0 {
			pageSize = filters.PageSize
		}
	}
	if pageSize > domain.MaxPageSize {
		pageSize = domain.MaxPageSize
	}

	args = append(args, pageSize, (page-1)*pageSize)
	query := fmt.Sprintf(`
		SELECT %s
		FROM transactions
		WHERE %s
		ORDER BY date DESC, id DESC
		LIMIT $%d OFFSET $%d`,
		transactionColumns, whereClause, len(args)-1, len(args))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	transactions := []*domain.Transaction{}
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		transactions = append(transactions, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &domain.PaginatedTransactions{
		Data:       transactions,
		Page:       page,
		PageSize:   pageSize,
		TotalItems: totalItems,
		TotalPages: int32(math.Ceil(float64(totalItems) / float64(pageSize))),
	}, nil
}

// SetReceiptKey attaches or clears a receipt object key
func (r *TransactionRepository) SetReceiptKey(ctx context.Context, userID uuid.UUID, id int32, key *string) (*domain.Transaction, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE transactions
		SET receipt_key = $3
		WHERE user_id = $1 AND id = $2
		RETURNING `+transactionColumns,
		userID, id, key)
	return scanTransaction(row)
}
