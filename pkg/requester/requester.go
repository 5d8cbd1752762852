// Package requester maintains the directory of known form submitters.
// Requesters are keyed by email address and exist independently of any
// single request; the auth layer also keeps each submitter's current
// token here.
package requester

import (
	"errors"

	"gorm.io/gorm"

	"github.com/uemf/forms-api/pkg/model"
)

// ErrNotFound is returned when no requester matches the lookup.
var ErrNotFound = errors.New("requester not found")

// Record is one requester directory entry.
type Record struct {
	RequesterID int64
	Name        string
	Email       string
	IPAddress   string
	Token       string
}

// Repository provides keyed-by-email upsert access to the requester table.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a repository bound to the given handle.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithDB returns a repository bound to another handle, typically a
// transaction, so upserts can join a larger atomic step.
func (r *Repository) WithDB(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// GetByEmail loads a requester by email address.
func (r *Repository) GetByEmail(email string) (*Record, error) {
	var row model.Requester
	tx := r.db.Where(map[string]interface{}{"email_address": email}).First(&row)
	if tx.Error != nil {
		if errors.Is(tx.Error, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, tx.Error
	}
	return fromModel(&row), nil
}

// GetByToken loads the requester whose stored token matches exactly.
func (r *Repository) GetByToken(token string) (*Record, error) {
	var row model.Requester
	tx := r.db.Where(map[string]interface{}{"token": token}).First(&row)
	if tx.Error != nil {
		if errors.Is(tx.Error, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, tx.Error
	}
	return fromModel(&row), nil
}

// Save upserts the record by email. An existing row is updated with only
// the columns that differ from what is stored; identical snapshots are a
// no-op. A new row gets rec's name, email and ip address, and rec adopts
// the assigned id.
func (r *Repository) Save(rec *Record) error {
	stored, err := r.GetByEmail(rec.Email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return r.insert(rec)
		}
		return err
	}

	rec.RequesterID = stored.RequesterID
	diff := diffColumns(rec, stored)
	if len(diff) == 0 {
		return nil
	}

	tx := r.db.Model(&model.Requester{}).
		Where("requester_id = ?", stored.RequesterID).
		Updates(diff)
	return tx.Error
}

// Import records a submitter identity seen on an incoming form. Only the
// name and email are known at that point.
func (r *Repository) Import(name, email string) error {
	return r.Save(&Record{Name: name, Email: email})
}

// SaveToken stores the requester's newly issued token.
func (r *Repository) SaveToken(requesterID int64, token string) error {
	tx := r.db.Model(&model.Requester{}).
		Where("requester_id = ?", requesterID).
		Update("token", token)
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected != 1 {
		return ErrNotFound
	}
	return nil
}

func (r *Repository) insert(rec *Record) error {
	row := model.Requester{
		Name:         rec.Name,
		EmailAddress: rec.Email,
		IPAddress:    rec.IPAddress,
	}
	tx := r.db.Select("name", "email_address", "ip_address").Create(&row)
	if tx.Error != nil {
		return tx.Error
	}
	rec.RequesterID = row.RequesterID
	return nil
}

// diffColumns returns the columns whose incoming values are set and
// differ from the stored snapshot. The id is immutable and the token is
// only ever written through SaveToken.
func diffColumns(rec, stored *Record) map[string]interface{} {
	diff := make(map[string]interface{})
	if rec.Name != "" && rec.Name != stored.Name {
		diff["name"] = rec.Name
	}
	if rec.Email != "" && rec.Email != stored.Email {
		diff["email_address"] = rec.Email
	}
	if rec.IPAddress != "" && rec.IPAddress != stored.IPAddress {
		diff["ip_address"] = rec.IPAddress
	}
	return diff
}

func fromModel(row *model.Requester) *Record {
	return &Record{
		RequesterID: row.RequesterID,
		Name:        row.Name,
		Email:       row.EmailAddress,
		IPAddress:   row.IPAddress,
		Token:       row.Token,
	}
}
