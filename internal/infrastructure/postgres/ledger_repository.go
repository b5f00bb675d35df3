package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/almacen-ledger/internal/domain/entity"
	"github.com/jhoicas/almacen-ledger/internal/domain/repository"
)

var _ repository.LedgerRepository = (*LedgerRepo)(nil)

// LedgerRepo persistencia del libro de inventario sobre PostgreSQL.
// Solo INSERT y SELECT: la tabla no admite UPDATE ni DELETE desde la aplicación.
type LedgerRepo struct {
	q Querier
}

// NewLedgerRepository construye el adaptador. Pasar pool o tx (Querier).
func NewLedgerRepository(q Querier) *LedgerRepo {
	return &LedgerRepo{q: q}
}

const ledgerColumns = `id, group_id, company_id, product_id, kind, source_category, dest_category, quantity, reason, created_at, created_by`

// Append persiste un asiento. Genera el ID si viene vacío.
func (r *LedgerRepo) Append(ctx context.Context, entry *entity.LedgerEntry) error {
	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	query := `
		INSERT INTO ledger_entries (` + ledgerColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	reason := (*string)(nil)
	if entry.Reason != "" {
		reason = &entry.Reason
	}
	createdBy := (*string)(nil)
	if entry.CreatedBy != "" {
		createdBy = &entry.CreatedBy
	}
	_, err := r.q.Exec(ctx, query,
		entry.ID, entry.GroupID, entry.CompanyID, entry.ProductID, entry.Kind,
		entry.SourceCategory, entry.DestCategory, entry.Quantity, reason,
		entry.CreatedAt, createdBy,
	)
	if err != nil {
		return fmt.Errorf("append ledger entry: %w", err)
	}
	return nil
}

// ListByProduct lista asientos de un producto en un rango de fechas, ascendente.
func (r *LedgerRepo) ListByProduct(ctx context.Context, productID string, from, to *time.Time, limit, offset int) ([]*entity.LedgerEntry, error) {
	query := `SELECT ` + ledgerColumns + ` FROM ledger_entries WHERE product_id = $1`
	args := []any{productID}
	query, args = appendDateRange(query, args, from, to)
	query += fmt.Sprintf(" ORDER BY created_at ASC, id ASC LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
	args = append(args, limit, offset)
	return r.list(ctx, query, args...)
}

// ListByCategory lista asientos cuya categoría origen o destino coincide,
// acotados a la empresa, ascendente.
func (r *LedgerRepo) ListByCategory(ctx context.Context, companyID, categoryCode string, from, to *time.Time, limit, offset int) ([]*entity.LedgerEntry, error) {
	query := `SELECT ` + ledgerColumns + `
		FROM ledger_entries
		WHERE company_id = $1 AND (source_category = $2 OR dest_category = $2)`
	args := []any{companyID, categoryCode}
	query, args = appendDateRange(query, args, from, to)
	query += fmt.Sprintf(" ORDER BY created_at ASC, id ASC LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
	args = append(args, limit, offset)
	return r.list(ctx, query, args...)
}

func appendDateRange(query string, args []any, from, to *time.Time) (string, []any) {
	if from != nil {
		query += fmt.Sprintf(" AND created_at >= $%d", len(args)+1)
		args = append(args, *from)
	}
	if to != nil {
		query += fmt.Sprintf(" AND created_at <= $%d", len(args)+1)
		args = append(args, *to)
	}
	return query, args
}

func (r *LedgerRepo) list(ctx context.Context, query string, args ...any) ([]*entity.LedgerEntry, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list ledger entries: %w", err)
	}
	defer rows.Close()
	var list []*entity.LedgerEntry
	for rows.Next() {
		var e entity.LedgerEntry
		var reason, createdBy *string
		if err := rows.Scan(&e.ID, &e.GroupID, &e.CompanyID, &e.ProductID, &e.Kind,
			&e.SourceCategory, &e.DestCategory, &e.Quantity, &reason, &e.CreatedAt, &createdBy); err != nil {
			return nil, fmt.Errorf("scan ledger entry: %w", err)
		}
		if reason != nil {
			e.Reason = *reason
		}
		if createdBy != nil {
			e.CreatedBy = *createdBy
		}
		list = append(list, &e)
	}
	return list, rows.Err()
}
