package gorm

import (
	"gorm.io/gorm"

	"github.com/uemf/forms-api/pkg/grant/store"
	"github.com/uemf/forms-api/pkg/model"
)

// Ensure LinksStore implements store.LinksStore
var _ store.LinksStore = (*LinksStore)(nil)

// LinksStore implements store.LinksStore using GORM.
type LinksStore struct {
	db *gorm.DB
}

// NewLinksStore creates a new LinksStore.
func NewLinksStore(db *gorm.DB) *LinksStore {
	return &LinksStore{db: db}
}

// AddPersonnel inserts one bridge row linking a person to a request.
func (s *LinksStore) AddPersonnel(requestID, personID int64, linkType store.LinkType) error {
	row := model.GrPersonnel{
		RequestID: requestID,
		PersonID:  personID,
		Type:      linkType.String(),
	}
	tx := s.db.Create(&row)
	if tx.Error != nil {
		return &store.WriteError{Op: "insert personnel link", Err: tx.Error}
	}
	if tx.RowsAffected != 1 {
		return &store.WriteError{Op: "insert personnel link"}
	}
	return nil
}

// AddSubaward inserts one subaward row. Nil person references stay out of
// the column list so the foreign keys are left unset, not zeroed.
func (s *LinksStore) AddSubaward(sub *store.SubawardRow) error {
	fields := store.NewFieldSet()
	fields.Add("request_id", sub.RequestID)
	fields.Add("institution_name", sub.InstitutionName)
	if sub.PrimaryInvID != nil {
		fields.Add("primaryinv_id", *sub.PrimaryInvID)
	}
	if sub.GrAdminID != nil {
		fields.Add("gradmin_id", *sub.GrAdminID)
	}

	row := model.GrSubaward{
		RequestID:       sub.RequestID,
		InstitutionName: sub.InstitutionName,
		PrimaryInvID:    sub.PrimaryInvID,
		GrAdminID:       sub.GrAdminID,
	}
	tx := s.db.Select(fields.Columns()).Create(&row)
	if tx.Error != nil {
		return &store.WriteError{Op: "insert subaward", Err: tx.Error}
	}
	if tx.RowsAffected != 1 {
		return &store.WriteError{Op: "insert subaward"}
	}
	return nil
}

// ListSubawards lists a request's subaward rows.
func (s *LinksStore) ListSubawards(requestID int64) ([]store.SubawardRow, error) {
	var rows []model.GrSubaward
	tx := s.db.Where(map[string]interface{}{"request_id": requestID}).Find(&rows)
	if tx.Error != nil {
		return nil, tx.Error
	}

	subs := make([]store.SubawardRow, 0, len(rows))
	for _, row := range rows {
		subs = append(subs, store.SubawardRow{
			RequestID:       row.RequestID,
			InstitutionName: row.InstitutionName,
			PrimaryInvID:    row.PrimaryInvID,
			GrAdminID:       row.GrAdminID,
		})
	}
	return subs, nil
}
