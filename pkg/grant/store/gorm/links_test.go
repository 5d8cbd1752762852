package gorm

import (
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/uemf/forms-api/pkg/grant/store"
)

func TestAddPersonnel(t *testing.T) {
	db, mock := newMockDB(t)
	links := NewLinksStore(db)

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO "gr_personnel"`).
		WithArgs(int64(55), int64(42), "consultant").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	if err := links.AddPersonnel(55, 42, store.LinkTypeConsultant); err != nil {
		t.Fatalf("AddPersonnel() error = %v", err)
	}
	expectationsMet(t, mock)
}

func TestAddPersonnelZeroRowsIsWriteError(t *testing.T) {
	db, mock := newMockDB(t)
	links := NewLinksStore(db)

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO "gr_personnel"`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	err := links.AddPersonnel(55, 42, store.LinkTypePersonnel)
	var wErr *store.WriteError
	if !errors.As(err, &wErr) {
		t.Fatalf("AddPersonnel() error = %v, want WriteError", err)
	}
	expectationsMet(t, mock)
}

func TestAddSubawardOmitsNilContacts(t *testing.T) {
	db, mock := newMockDB(t)
	links := NewLinksStore(db)

	piID := int64(9)
	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "gr_subawards"`).
		WithArgs(int64(55), "Partner University", piID).
		WillReturnRows(sqlmock.NewRows([]string{"subaward_id"}).AddRow(1))
	mock.ExpectCommit()

	err := links.AddSubaward(&store.SubawardRow{
		RequestID:       55,
		InstitutionName: "Partner University",
		PrimaryInvID:    &piID,
	})
	if err != nil {
		t.Fatalf("AddSubaward() error = %v", err)
	}
	expectationsMet(t, mock)
}

func TestListSubawards(t *testing.T) {
	db, mock := newMockDB(t)
	links := NewLinksStore(db)

	piID := int64(9)
	rows := sqlmock.NewRows([]string{"subaward_id", "request_id", "institution_name", "primaryinv_id", "gradmin_id"}).
		AddRow(1, 55, "Partner University", piID, nil)
	mock.ExpectQuery(`SELECT .* FROM "gr_subawards"`).
		WillReturnRows(rows)

	subs, err := links.ListSubawards(55)
	if err != nil {
		t.Fatalf("ListSubawards() error = %v", err)
	}
	if len(subs) != 1 {
		t.Fatalf("got %d subawards", len(subs))
	}
	if subs[0].PrimaryInvID == nil || *subs[0].PrimaryInvID != piID {
		t.Errorf("PrimaryInvID = %v", subs[0].PrimaryInvID)
	}
	if subs[0].GrAdminID != nil {
		t.Error("NULL gradmin_id must come back nil")
	}
	expectationsMet(t, mock)
}
