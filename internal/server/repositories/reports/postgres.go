package reports

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/lostfound/internal/common"
	"github.com/dmitrijs2005/lostfound/internal/dbx"
	"github.com/dmitrijs2005/lostfound/internal/server/models"
)

// PostgresRepository implements report storage over a dbx.DBTX (*sql.DB or
// *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const reportColumns = `id, report_type, item_name, COALESCE(location, ''),
		COALESCE(report_date, created_at), COALESCE(item_status, ''), category_id,
		COALESCE(description, ''), COALESCE(contact_info, ''), COALESCE(contact_email, ''),
		created_at, updated_at`

func scanReport(row *sql.Row) (*models.Report, error) {
	rep := &models.Report{}
	err := row.Scan(&rep.ID, &rep.ReportType, &rep.ItemName, &rep.Location,
		&rep.ReportDate, &rep.ItemStatus, &rep.CategoryID,
		&rep.Description, &rep.ContactInfo, &rep.ContactEmail,
		&rep.CreatedAt, &rep.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return rep, nil
}

// Create inserts a report and returns it with the assigned id.
func (r *PostgresRepository) Create(ctx context.Context, report *models.Report) (*models.Report, error) {
	query := `
		INSERT INTO reports (report_type, item_name, location, report_date, item_status,
			category_id, description, contact_info, contact_email)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id
	`
	err := r.db.QueryRowContext(ctx, query,
		report.ReportType, report.ItemName, report.Location, report.ReportDate, report.ItemStatus,
		report.CategoryID, report.Description, report.ContactInfo, report.ContactEmail).
		Scan(&report.ID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return report, nil
}

// GetByID returns a report by id, or common.ErrorNotFound.
func (r *PostgresRepository) GetByID(ctx context.Context, id int64) (*models.Report, error) {
	query := `SELECT ` + reportColumns + ` FROM reports WHERE id = $1`
	return scanReport(r.db.QueryRowContext(ctx, query, id))
}

// GetForUpdate returns a report by id while holding a row lock for the
// duration of the surrounding transaction, serializing concurrent claim
// creation against the same report.
func (r *PostgresRepository) GetForUpdate(ctx context.Context, id int64) (*models.Report, error) {
	query := `SELECT ` + reportColumns + ` FROM reports WHERE id = $1 FOR UPDATE`
	return scanReport(r.db.QueryRowContext(ctx, query, id))
}

// List returns reports matching the filter, newest first.
func (r *PostgresRepository) List(ctx context.Context, f Filter) ([]*models.Report, error) {
	query := `SELECT ` + reportColumns + ` FROM reports`

	var conds []string
	var args []any
	if f.ReportType != "" {
		args = append(args, f.ReportType)
		conds = append(conds, "report_type = $"+strconv.Itoa(len(args)))
	}
	if f.ItemStatus != "" {
		args = append(args, f.ItemStatus)
		conds = append(conds, "item_status = $"+strconv.Itoa(len(args)))
	}
	if f.CategoryID != 0 {
		args = append(args, f.CategoryID)
		conds = append(conds, "category_id = $"+strconv.Itoa(len(args)))
	}
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY created_at DESC"
	if f.Limit > 0 {
		args = append(args, f.Limit)
		query += " LIMIT $" + strconv.Itoa(len(args))
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.Report
	for rows.Next() {
		rep := &models.Report{}
		if err := rows.Scan(&rep.ID, &rep.ReportType, &rep.ItemName, &rep.Location,
			&rep.ReportDate, &rep.ItemStatus, &rep.CategoryID,
			&rep.Description, &rep.ContactInfo, &rep.ContactEmail,
			&rep.CreatedAt, &rep.UpdatedAt); err != nil {
			return nil, err
		}
		result = append(result, rep)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// UpdateStatus sets the item status of a report.
func (r *PostgresRepository) UpdateStatus(ctx context.Context, id int64, status string) error {
	query := `UPDATE reports SET item_status = $1, updated_at = now() WHERE id = $2`
	res, err := r.db.ExecContext(ctx, query, status, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}

// Delete removes a report. Only explicit administrative deletion calls this.
func (r *PostgresRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM reports WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}

// AddImages attaches hosted image URLs to a report.
func (r *PostgresRepository) AddImages(ctx context.Context, reportID int64, urls []string) error {
	for _, url := range urls {
		if _, err := r.db.ExecContext(ctx,
			`INSERT INTO report_images (report_id, url) VALUES ($1, $2)`, reportID, url); err != nil {
			return fmt.Errorf("db error: %w", err)
		}
	}
	return nil
}

// ListImages returns the images of a report in insertion order.
func (r *PostgresRepository) ListImages(ctx context.Context, reportID int64) ([]models.ReportImage, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, report_id, url, created_at FROM report_images WHERE report_id = $1 ORDER BY id`, reportID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []models.ReportImage
	for rows.Next() {
		var img models.ReportImage
		if err := rows.Scan(&img.ID, &img.ReportID, &img.URL, &img.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, img)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
