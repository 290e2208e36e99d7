package claims

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/lostfound/internal/common"
	"github.com/dmitrijs2005/lostfound/internal/server/models"
)

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return NewPostgresRepository(db), mock, db
}

func TestCreate_DefaultsToPending(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^\s*INSERT\s+INTO\s+claims\b.*RETURNING\s+id,\s*created_at\s*$`

	mock.ExpectQuery(q).
		WithArgs(int64(5), "Anna", "blue backpack", models.ClaimStatusPending, nil, 70).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(int64(12), time.Now()))

	claim, err := repo.Create(context.Background(), &models.Claim{
		ReportID: 5, ClaimantName: "Anna", ItemDescription: "blue backpack", TrustScore: 70,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if claim.ID != 12 {
		t.Errorf("id = %d, want 12", claim.ID)
	}
	if claim.ClaimStatus != models.ClaimStatusPending {
		t.Errorf("status = %q, want %q", claim.ClaimStatus, models.ClaimStatusPending)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestGetByID_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`(?s)SELECT .* FROM claims WHERE id = \$1`).
		WithArgs(int64(99)).WillReturnError(sql.ErrNoRows)

	if _, err := repo.GetByID(context.Background(), 99); !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("err = %v, want ErrorNotFound", err)
	}
}

func TestUpdateStatus_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`UPDATE claims SET claim_status = \$1 WHERE id = \$2`).
		WithArgs(models.ClaimStatusAccepted, int64(12)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.UpdateStatus(context.Background(), 12, models.ClaimStatusAccepted); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestUpdateStatus_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`UPDATE claims SET claim_status = \$1 WHERE id = \$2`).
		WithArgs(models.ClaimStatusRejected, int64(99)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	if err := repo.UpdateStatus(context.Background(), 99, models.ClaimStatusRejected); !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("err = %v, want ErrorNotFound", err)
	}
}

func TestHasCommitted_True(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)SELECT\s+EXISTS\s*\(\s*SELECT\s+1\s+FROM\s+claims\s+WHERE\s+report_id\s*=\s*\$1\s+AND\s+claim_status\s*=\s*ANY\(\$2\)`

	mock.ExpectQuery(q).
		WithArgs(int64(5), "{challenge_verified,accepted,released}").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	committed, err := repo.HasCommitted(context.Background(), 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !committed {
		t.Errorf("committed = false, want true")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestListAll_ZeroLimitMeansNoLimit(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	rows := sqlmock.NewRows([]string{
		"id", "report_id", "claimant_name", "item_description",
		"claim_status", "claimant_user_id", "trust_score", "created_at",
	}).AddRow(int64(1), int64(5), "Anna", "", models.ClaimStatusPending, nil, 40, time.Now())

	// LIMIT NULLIF($1, 0): the default limit of 0 must not translate to
	// LIMIT 0, which would return nothing
	mock.ExpectQuery(`(?s)SELECT .* FROM claims ORDER BY created_at DESC LIMIT NULLIF\(\$1, 0\)`).
		WithArgs(0).WillReturnRows(rows)

	result, err := repo.ListAll(context.Background(), "", 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result) != 1 {
		t.Fatalf("len = %d, want 1", len(result))
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestListByReport_OrdersNewestFirst(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	rows := sqlmock.NewRows([]string{
		"id", "report_id", "claimant_name", "item_description",
		"claim_status", "claimant_user_id", "trust_score", "created_at",
	}).
		AddRow(int64(2), int64(5), "Ben", "", models.ClaimStatusPending, nil, 40, time.Now()).
		AddRow(int64(1), int64(5), "Anna", "blue backpack", models.ClaimStatusRejected, nil, 70, time.Now().Add(-time.Hour))

	mock.ExpectQuery(`(?s)SELECT .* FROM claims WHERE report_id = \$1 ORDER BY created_at DESC`).
		WithArgs(int64(5)).WillReturnRows(rows)

	result, err := repo.ListByReport(context.Background(), 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result) != 2 {
		t.Fatalf("len = %d, want 2", len(result))
	}
	if result[0].ID != 2 || result[1].ID != 1 {
		t.Errorf("order = [%d %d], want [2 1]", result[0].ID, result[1].ID)
	}
}
