package requester

import (
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newMockRepo(t *testing.T) (*Repository, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	gormDB, err := gorm.Open(
		postgres.New(postgres.Config{
			Conn:                 db,
			PreferSimpleProtocol: true,
		}),
		&gorm.Config{
			Logger: logger.Default.LogMode(logger.Silent),
		},
	)
	if err != nil {
		t.Fatalf("failed to open gorm: %v", err)
	}
	return NewRepository(gormDB), mock
}

func requesterRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"requester_id", "name", "email_address", "ip_address", "token"})
}

func TestGetByEmailNotFound(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(`SELECT .* FROM "requester"`).
		WillReturnRows(requesterRows())

	if _, err := repo.GetByEmail("missing@uemf.org"); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetByEmail() error = %v, want ErrNotFound", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestSaveIdenticalSnapshotIsNoOp(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(`SELECT .* FROM "requester"`).
		WillReturnRows(requesterRows().
			AddRow(3, "A. Researcher", "a@uemf.org", "10.0.0.1", ""))

	rec := &Record{Name: "A. Researcher", Email: "a@uemf.org", IPAddress: "10.0.0.1"}
	if err := repo.Save(rec); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if rec.RequesterID != 3 {
		t.Errorf("RequesterID = %d, want adopted id 3", rec.RequesterID)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestSaveUpdatesOnlyChangedColumns(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(`SELECT .* FROM "requester"`).
		WillReturnRows(requesterRows().
			AddRow(3, "A. Researcher", "a@uemf.org", "10.0.0.1", ""))
	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "requester" SET "ip_address"`).
		WithArgs("10.0.0.2", int64(3)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	rec := &Record{Name: "A. Researcher", Email: "a@uemf.org", IPAddress: "10.0.0.2"}
	if err := repo.Save(rec); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestSaveInsertsNewRequester(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(`SELECT .* FROM "requester"`).
		WillReturnRows(requesterRows())
	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "requester"`).
		WithArgs("B. New", "b@uemf.org", "10.0.0.3").
		WillReturnRows(sqlmock.NewRows([]string{"requester_id"}).AddRow(4))
	mock.ExpectCommit()

	rec := &Record{Name: "B. New", Email: "b@uemf.org", IPAddress: "10.0.0.3"}
	if err := repo.Save(rec); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if rec.RequesterID != 4 {
		t.Errorf("RequesterID = %d, want 4", rec.RequesterID)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestSaveToken(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "requester" SET "token"`).
		WithArgs("new-token", int64(3)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	if err := repo.SaveToken(3, "new-token"); err != nil {
		t.Fatalf("SaveToken() error = %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestSaveTokenUnknownRequester(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "requester" SET "token"`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	if err := repo.SaveToken(99, "new-token"); !errors.Is(err, ErrNotFound) {
		t.Errorf("SaveToken() error = %v, want ErrNotFound", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}
