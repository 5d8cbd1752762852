package gorm

import (
	"gorm.io/gorm"

	"github.com/uemf/forms-api/pkg/grant/store"
	"github.com/uemf/forms-api/pkg/model"
	"github.com/uemf/forms-api/pkg/requester"
)

// grantRequestTypeID tags request rows as grant requests in the shared
// request table.
const grantRequestTypeID = "1"

// Ensure RequestsStore implements store.RequestsStore
var _ store.RequestsStore = (*RequestsStore)(nil)

// RequestsStore implements store.RequestsStore using GORM.
type RequestsStore struct {
	db         *gorm.DB
	requesters *requester.Repository
}

// NewRequestsStore creates a new RequestsStore.
func NewRequestsStore(db *gorm.DB, requesters *requester.Repository) *RequestsStore {
	return &RequestsStore{db: db, requesters: requesters}
}

// CreateRequest upserts the requester, inserts the request row and
// inserts the sparse details columns, all in one transaction.
func (s *RequestsStore) CreateRequest(requesterName, requesterEmail string, details *store.FieldSet) (int64, error) {
	var requestID int64

	err := s.db.Transaction(func(tx *gorm.DB) error {
		repo := s.requesters.WithDB(tx)
		if err := repo.Import(requesterName, requesterEmail); err != nil {
			return &store.WriteError{Op: "upsert requester", Err: err}
		}
		rec, err := repo.GetByEmail(requesterEmail)
		if err != nil {
			return &store.WriteError{Op: "load requester", Err: err}
		}

		req := model.Request{
			TypeID:    grantRequestTypeID,
			Method:    "SAVE",
			Requester: rec.RequesterID,
		}
		res := tx.Select("type_id", "method", "requester").Create(&req)
		if res.Error != nil {
			return &store.WriteError{Op: "insert request", Err: res.Error}
		}
		if res.RowsAffected == 0 {
			return &store.WriteError{Op: "insert request"}
		}
		requestID = req.RequestID

		details.Add("request_id", requestID)
		res = tx.Model(&model.GrDetails{}).Create(details.Map())
		if res.Error != nil {
			return &store.WriteError{Op: "insert details", Err: res.Error}
		}
		if res.RowsAffected != 1 {
			return &store.WriteError{Op: "insert details"}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return requestID, nil
}

// GetDetails loads the details row for a request. Zero rows and more than
// one row both signal ErrDetailsNotFound; a duplicated details row means
// corrupted storage and is never silently picked from.
func (s *RequestsStore) GetDetails(requestID int64) (*store.Details, error) {
	var rows []model.GrDetails
	tx := s.db.Where(map[string]interface{}{"request_id": requestID}).Limit(2).Find(&rows)
	if tx.Error != nil {
		return nil, tx.Error
	}
	if len(rows) != 1 {
		return nil, store.ErrDetailsNotFound
	}

	row := rows[0]
	return &store.Details{
		RequestID:          row.RequestID,
		SponsorName:        row.SponsorName,
		FundingOpportunity: row.FundingOpportunity,
		Website:            row.Website,
		FundingMechanism:   row.FundingMechanism,
		DueDate:            row.DueDate,
		ProposalTitle:      row.ProposalTitle,
		ShortTitle:         row.ShortTitle,
		StartDate:          row.StartDate,
		EndDate:            row.EndDate,
		SubjHumans:         row.SubjHumans,
		HumanClinical:      row.HumanClinical,
		HumanP3Clinical:    row.HumanP3Clinical,
		SubjVertebrates:    row.SubjVertebrates,
		SubjAgents:         row.SubjAgents,
		SubjStemcells:      row.SubjStemcells,
		Comments:           row.Comments,
	}, nil
}
