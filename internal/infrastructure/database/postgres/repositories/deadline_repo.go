package repositories

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/turtacn/ConsultTrack-Intelligence/internal/domain/deadline"
	"github.com/turtacn/ConsultTrack-Intelligence/internal/infrastructure/database/postgres"
	"github.com/turtacn/ConsultTrack-Intelligence/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/ConsultTrack-Intelligence/pkg/errors"
	"github.com/turtacn/ConsultTrack-Intelligence/pkg/types/common"
)

const deadlineColumns = `id, title, description, client_id, due_date, priority, status, created_at`

type deadlineRow struct {
	ID          string    `db:"id"`
	Title       string    `db:"title"`
	Description string    `db:"description"`
	ClientID    string    `db:"client_id"`
	DueDate     time.Time `db:"due_date"`
	Priority    string    `db:"priority"`
	Status      string    `db:"status"`
	CreatedAt   time.Time `db:"created_at"`
}

func (r deadlineRow) toDomain() deadline.Deadline {
	return deadline.Deadline{
		ID:          r.ID,
		Title:       r.Title,
		Description: r.Description,
		ClientID:    r.ClientID,
		DueDate:     common.DateOf(r.DueDate),
		Priority:    deadline.Priority(r.Priority),
		Status:      deadline.Status(r.Status),
		CreatedAt:   r.CreatedAt,
	}
}

// DeadlineRepo is the PostgreSQL deadline.Repository.
type DeadlineRepo struct {
	db  postgres.DB
	log logging.Logger
}

// NewDeadlineRepo returns a deadline repository over db.
func NewDeadlineRepo(db postgres.DB, log logging.Logger) *DeadlineRepo {
	return &DeadlineRepo{db: db, log: log}
}

var _ deadline.Repository = (*DeadlineRepo)(nil)

// List returns deadlines in creation order.
func (r *DeadlineRepo) List(ctx context.Context) ([]deadline.Deadline, error) {
	rows, err := r.db.Query(ctx, `SELECT `+deadlineColumns+` FROM deadlines ORDER BY seq`)
	if err != nil {
		return nil, dbError(err, "failed to list deadlines")
	}
	recs, err := pgx.CollectRows(rows, pgx.RowToStructByName[deadlineRow])
	if err != nil {
		return nil, dbError(err, "failed to scan deadlines")
	}
	out := make([]deadline.Deadline, 0, len(recs))
	for _, rec := range recs {
		out = append(out, rec.toDomain())
	}
	return out, nil
}

func (r *DeadlineRepo) Get(ctx context.Context, id string) (*deadline.Deadline, error) {
	rows, err := r.db.Query(ctx, `SELECT `+deadlineColumns+` FROM deadlines WHERE id = $1`, id)
	if err != nil {
		return nil, dbError(err, "failed to get deadline")
	}
	rec, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[deadlineRow])
	if err != nil {
		if isNoRows(err) {
			return nil, errors.New(errors.ErrCodeDeadlineNotFound, "deadline not found").WithDetail(id)
		}
		return nil, dbError(err, "failed to scan deadline")
	}
	d := rec.toDomain()
	return &d, nil
}

// Save upserts the deadline.  A replaced row keeps its position.
func (r *DeadlineRepo) Save(ctx context.Context, d *deadline.Deadline) error {
	if d == nil || d.ID == "" {
		return errors.New(errors.ErrCodeDeadlineInvalid, "deadline id is required")
	}
	if d.DueDate.IsZero() {
		return errors.New(errors.ErrCodeDeadlineInvalidDate, "due date is required").WithDetail(d.ID)
	}
	createdAt := d.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}
	_, err := r.db.Exec(ctx, `
		INSERT INTO deadlines (id, title, description, client_id, due_date, priority, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (id) DO UPDATE SET
			title = EXCLUDED.title,
			description = EXCLUDED.description,
			client_id = EXCLUDED.client_id,
			due_date = EXCLUDED.due_date,
			priority = EXCLUDED.priority,
			status = EXCLUDED.status`,
		d.ID, d.Title, d.Description, d.ClientID, d.DueDate.Time(time.UTC),
		string(d.Priority), string(d.Status), createdAt,
	)
	if err != nil {
		return dbError(err, "failed to save deadline")
	}
	return nil
}

func (r *DeadlineRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM deadlines WHERE id = $1`, id)
	if err != nil {
		return dbError(err, "failed to delete deadline")
	}
	if tag.RowsAffected() == 0 {
		return errors.New(errors.ErrCodeDeadlineNotFound, "deadline not found").WithDetail(id)
	}
	return nil
}

// UpdateStatus sets status on the listed deadlines and reports how many rows
// matched.  Unknown IDs are skipped.
func (r *DeadlineRepo) UpdateStatus(ctx context.Context, ids []string, status deadline.Status) (int, error) {
	if !status.IsValid() {
		return 0, errors.New(errors.ErrCodeDeadlineInvalidStatus, "invalid deadline status").WithDetail(string(status))
	}
	if len(ids) == 0 {
		return 0, nil
	}
	tag, err := r.db.Exec(ctx, `UPDATE deadlines SET status = $1 WHERE id = ANY($2)`, string(status), ids)
	if err != nil {
		return 0, dbError(err, "failed to update deadline status")
	}
	return int(tag.RowsAffected()), nil
}

//Personal.AI order the ending
