package repositories

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/turtacn/ConsultTrack-Intelligence/internal/domain/client"
	"github.com/turtacn/ConsultTrack-Intelligence/internal/infrastructure/database/postgres"
	"github.com/turtacn/ConsultTrack-Intelligence/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/ConsultTrack-Intelligence/pkg/errors"
)

const clientColumns = `id, name, company, email, phone, industry, status, notes, created_at`

type clientRow struct {
	ID        string    `db:"id"`
	Name      string    `db:"name"`
	Company   string    `db:"company"`
	Email     string    `db:"email"`
	Phone     string    `db:"phone"`
	Industry  string    `db:"industry"`
	Status    string    `db:"status"`
	Notes     string    `db:"notes"`
	CreatedAt time.Time `db:"created_at"`
}

func (r clientRow) toDomain() client.Client {
	return client.Client{
		ID:        r.ID,
		Name:      r.Name,
		Company:   r.Company,
		Email:     r.Email,
		Phone:     r.Phone,
		Industry:  r.Industry,
		Status:    client.Status(r.Status),
		Notes:     r.Notes,
		CreatedAt: r.CreatedAt,
	}
}

// ClientRepo is the PostgreSQL client.Repository.
type ClientRepo struct {
	db  postgres.DB
	log logging.Logger
}

// NewClientRepo returns a client repository over db.
func NewClientRepo(db postgres.DB, log logging.Logger) *ClientRepo {
	return &ClientRepo{db: db, log: log}
}

var _ client.Repository = (*ClientRepo)(nil)

// List returns clients in creation order.
func (r *ClientRepo) List(ctx context.Context) ([]client.Client, error) {
	rows, err := r.db.Query(ctx, `SELECT `+clientColumns+` FROM clients ORDER BY seq`)
	if err != nil {
		return nil, dbError(err, "failed to list clients")
	}
	recs, err := pgx.CollectRows(rows, pgx.RowToStructByName[clientRow])
	if err != nil {
		return nil, dbError(err, "failed to scan clients")
	}
	out := make([]client.Client, 0, len(recs))
	for _, rec := range recs {
		out = append(out, rec.toDomain())
	}
	return out, nil
}

func (r *ClientRepo) Get(ctx context.Context, id string) (*client.Client, error) {
	rows, err := r.db.Query(ctx, `SELECT `+clientColumns+` FROM clients WHERE id = $1`, id)
	if err != nil {
		return nil, dbError(err, "failed to get client")
	}
	rec, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[clientRow])
	if err != nil {
		if isNoRows(err) {
			return nil, errors.New(errors.ErrCodeClientNotFound, "client not found").WithDetail(id)
		}
		return nil, dbError(err, "failed to scan client")
	}
	c := rec.toDomain()
	return &c, nil
}

// Save upserts the client.  A replaced row keeps its position.
func (r *ClientRepo) Save(ctx context.Context, c *client.Client) error {
	if c == nil || c.ID == "" {
		return errors.New(errors.ErrCodeClientInvalid, "client id is required")
	}
	createdAt := c.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}
	_, err := r.db.Exec(ctx, `
		INSERT INTO clients (id, name, company, email, phone, industry, status, notes, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			company = EXCLUDED.company,
			email = EXCLUDED.email,
			phone = EXCLUDED.phone,
			industry = EXCLUDED.industry,
			status = EXCLUDED.status,
			notes = EXCLUDED.notes`,
		c.ID, c.Name, c.Company, c.Email, c.Phone, c.Industry, string(c.Status), c.Notes, createdAt,
	)
	if err != nil {
		return dbError(err, "failed to save client")
	}
	return nil
}

// Delete removes the client and its deadlines in one transaction.
func (r *ClientRepo) Delete(ctx context.Context, id string) error {
	return postgres.WithTransaction(ctx, r.db, func(tx pgx.Tx, txCtx context.Context) error {
		tag, err := tx.Exec(txCtx, `DELETE FROM clients WHERE id = $1`, id)
		if err != nil {
			return dbError(err, "failed to delete client")
		}
		if tag.RowsAffected() == 0 {
			return errors.New(errors.ErrCodeClientNotFound, "client not found").WithDetail(id)
		}
		tag, err = tx.Exec(txCtx, `DELETE FROM deadlines WHERE client_id = $1`, id)
		if err != nil {
			return dbError(err, "failed to cascade client deadlines")
		}
		r.log.Debug("client deleted",
			logging.String("client_id", id),
			logging.Int64("deadlines_removed", tag.RowsAffected()),
		)
		return nil
	})
}

//Personal.AI order the ending
