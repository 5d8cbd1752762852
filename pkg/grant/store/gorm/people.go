package gorm

import (
	"errors"

	"gorm.io/gorm"

	"github.com/uemf/forms-api/pkg/grant/store"
	"github.com/uemf/forms-api/pkg/model"
)

// piProjectRole is the project_role value that marks a request's
// principal investigator row.
const piProjectRole = "Principal Investigator"

// Ensure PeopleStore implements store.PeopleStore
var _ store.PeopleStore = (*PeopleStore)(nil)

// PeopleStore implements store.PeopleStore using GORM.
type PeopleStore struct {
	db *gorm.DB
}

// NewPeopleStore creates a new PeopleStore.
func NewPeopleStore(db *gorm.DB) *PeopleStore {
	return &PeopleStore{db: db}
}

// Match resolves the person's identity using the first applicable matcher
// strategy. Exactly one row adopts its id into p; more than one row is an
// explicit MatchMany and the person keeps no id.
func (s *PeopleStore) Match(p *store.Person) (store.MatchOutcome, error) {
	if p.RequestID <= 0 {
		return store.MatchNone, store.ErrMissingRequestID
	}

	matcher := store.MatcherFor(p)
	var rows []model.GrPerson
	tx := s.db.Where(matcher.Predicate(p)).Limit(2).Find(&rows)
	if tx.Error != nil {
		return store.MatchNone, tx.Error
	}

	switch len(rows) {
	case 0:
		return store.MatchNone, nil
	case 1:
		p.PersonID = rows[0].PersonID
		return store.MatchOne, nil
	default:
		return store.MatchMany, nil
	}
}

// AddGet matches the person and updates the resolved row, or inserts a
// new one when no single row matched. An ambiguous match inserts rather
// than guessing which existing row to touch.
func (s *PeopleStore) AddGet(p *store.Person) error {
	outcome, err := s.Match(p)
	if err != nil {
		return err
	}
	if outcome == store.MatchOne {
		return s.Update(p)
	}
	return s.insert(p)
}

// Update sparsely updates the row identified by p.PersonID.
func (s *PeopleStore) Update(p *store.Person) error {
	fields, err := p.Fields(false)
	if err != nil {
		return err
	}

	tx := s.db.Model(&model.GrPerson{}).
		Where("person_id = ?", p.PersonID).
		Updates(fields.Map())
	if tx.Error != nil {
		return &store.WriteError{Op: "update person", Err: tx.Error}
	}
	return nil
}

func (s *PeopleStore) insert(p *store.Person) error {
	fields, err := p.Fields(false)
	if err != nil {
		return err
	}

	row := model.GrPerson{
		RequestID:    p.RequestID,
		Name:         p.Name,
		EmailAddress: p.Email,
		EraID:        p.EraID,
		ProjectRole:  p.ProjectRole,
		Effort:       p.Effort,
		AnnualFee:    p.AnnualFee,
	}
	if p.Availability != nil {
		row.Availability = *p.Availability
	}

	tx := s.db.Select(fields.Columns()).Create(&row)
	if tx.Error != nil {
		return &store.WriteError{Op: "insert person", Err: tx.Error}
	}
	if tx.RowsAffected != 1 {
		return &store.WriteError{Op: "insert person"}
	}
	p.PersonID = row.PersonID
	return nil
}

// GetByID loads a person row by id.
func (s *PeopleStore) GetByID(personID int64) (*store.Person, error) {
	var row model.GrPerson
	tx := s.db.Where(map[string]interface{}{"person_id": personID}).First(&row)
	if tx.Error != nil {
		if errors.Is(tx.Error, gorm.ErrRecordNotFound) {
			return nil, store.ErrPersonNotFound
		}
		return nil, tx.Error
	}
	return fromModel(&row), nil
}

// FindPI locates the request's principal investigator by project role.
func (s *PeopleStore) FindPI(requestID int64) (*store.Person, error) {
	var row model.GrPerson
	tx := s.db.Where(map[string]interface{}{
		"request_id":   requestID,
		"project_role": piProjectRole,
	}).First(&row)
	if tx.Error != nil {
		if errors.Is(tx.Error, gorm.ErrRecordNotFound) {
			return nil, store.ErrPersonNotFound
		}
		return nil, tx.Error
	}
	return fromModel(&row), nil
}

// ListByType lists the people bridged to a request under a link type.
func (s *PeopleStore) ListByType(requestID int64, linkType store.LinkType) ([]store.Person, error) {
	var rows []model.GrPerson
	tx := s.db.Model(&model.GrPerson{}).
		Joins("INNER JOIN gr_personnel ON gr_personnel.person_id = gr_people.person_id").
		Where("gr_personnel.request_id = ? AND gr_personnel.type = ?", requestID, linkType.String()).
		Find(&rows)
	if tx.Error != nil {
		return nil, tx.Error
	}

	people := make([]store.Person, 0, len(rows))
	for i := range rows {
		people = append(people, *fromModel(&rows[i]))
	}
	return people, nil
}

func fromModel(row *model.GrPerson) *store.Person {
	availability := row.Availability
	return &store.Person{
		PersonID:     row.PersonID,
		RequestID:    row.RequestID,
		Name:         row.Name,
		Email:        row.EmailAddress,
		EraID:        row.EraID,
		Availability: &availability,
		ProjectRole:  row.ProjectRole,
		Effort:       row.Effort,
		AnnualFee:    row.AnnualFee,
	}
}
