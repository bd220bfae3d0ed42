package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"github.com/okrahel/venue_flow/internal/core/domain"
	"github.com/okrahel/venue_flow/internal/core/ports"
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// DocumentRepository stores every workflow entity in a single documents
// table, one row per document, payload as JSONB. It is the only code that
// speaks SQL; everything above it sees the ports.EntityRepository contract.
type DocumentRepository struct {
	db *sql.DB
}

func NewDocumentRepository(db *sql.DB) *DocumentRepository {
	return &DocumentRepository{db: db}
}

func (r *DocumentRepository) Create(ctx context.Context, tenantID string, kind domain.Kind, status domain.Status, payload map[string]any) (string, error) {
	id := uuid.NewString()
	raw, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("marshal payload: %w", err)
	}

	now := time.Now().UTC()
	query, args, err := psql.Insert("documents").
		Columns("id", "tenant_id", "kind", "status", "payload", "created_at", "updated_at").
		Values(id, tenantID, string(kind), string(status), raw, now, now).
		ToSql()
	if err != nil {
		return "", fmt.Errorf("build insert: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return "", fmt.Errorf("insert document: %w", err)
	}
	return id, nil
}

// Update merges the given fields into the document. A "status" key moves to
// the status column; everything else merges into the JSONB payload. The
// whole document is never replaced.
func (r *DocumentRepository) Update(ctx context.Context, tenantID string, kind domain.Kind, id string, fields map[string]any) error {
	payloadFields := make(map[string]any, len(fields))
	var status *string
	for k, v := range fields {
		if k == "status" {
			s := fmt.Sprintf("%v", v)
			status = &s
			continue
		}
		payloadFields[k] = v
	}

	builder := psql.Update("documents").
		Set("updated_at", time.Now().UTC()).
		Where(sq.Eq{"tenant_id": tenantID, "kind": string(kind), "id": id})

	if status != nil {
		builder = builder.Set("status", *status)
	}
	if len(payloadFields) > 0 {
		raw, err := json.Marshal(payloadFields)
		if err != nil {
			return fmt.Errorf("marshal fields: %w", err)
		}
		builder = builder.Set("payload", sq.Expr("payload || ?::jsonb", raw))
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}
	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update document: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ports.ErrNotFound
	}
	return nil
}

func (r *DocumentRepository) Remove(ctx context.Context, tenantID string, kind domain.Kind, id string) error {
	query, args, err := psql.Delete("documents").
		Where(sq.Eq{"tenant_id": tenantID, "kind": string(kind), "id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete: %w", err)
	}
	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("delete document: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ports.ErrNotFound
	}
	return nil
}

func (r *DocumentRepository) Get(ctx context.Context, tenantID string, kind domain.Kind, id string) (*domain.Entity, error) {
	query, args, err := psql.Select("id", "tenant_id", "kind", "status", "payload", "created_at", "updated_at").
		From("documents").
		Where(sq.Eq{"tenant_id": tenantID, "kind": string(kind), "id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select: %w", err)
	}

	e, err := scanEntity(r.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ports.ErrNotFound
		}
		return nil, fmt.Errorf("select document: %w", err)
	}
	return e, nil
}

func (r *DocumentRepository) List(ctx context.Context, filter ports.Filter) ([]domain.Entity, error) {
	builder := psql.Select("id", "tenant_id", "kind", "status", "payload", "created_at", "updated_at").
		From("documents").
		Where(sq.Eq{"tenant_id": filter.TenantID, "kind": string(filter.Kind)}).
		OrderBy("created_at asc", "id asc")
	if filter.Status != nil {
		builder = builder.Where(sq.Eq{"status": string(*filter.Status)})
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select: %w", err)
	}
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("select documents: %w", err)
	}
	defer rows.Close()

	var out []domain.Entity
	for rows.Next() {
		e, err := scanEntity(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *e)
	}
	return out, rows.Err()
}

func (r *DocumentRepository) Tenants(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `select distinct tenant_id from documents order by tenant_id`)
	if err != nil {
		return nil, fmt.Errorf("select tenants: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEntity(row rowScanner) (*domain.Entity, error) {
	var (
		e    domain.Entity
		kind string
		stat string
		raw  []byte
	)
	if err := row.Scan(&e.ID, &e.TenantID, &kind, &stat, &raw, &e.CreatedAt, &e.UpdatedAt); err != nil {
		return nil, err
	}
	e.Kind = domain.Kind(kind)
	e.Status = domain.Status(stat)
	if err := json.Unmarshal(raw, &e.Payload); err != nil {
		return nil, fmt.Errorf("unmarshal payload: %w", err)
	}
	return &e, nil
}
