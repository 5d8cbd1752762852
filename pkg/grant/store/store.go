// Package store provides storage abstractions for the grant request
// aggregate.
//
// This package defines interfaces for database operations, allowing the
// aggregate service to be decoupled from the specific database
// implementation. This enables easier testing with mocks and potential
// support for different storage backends.
//
// # Available Stores
//
//   - RequestsStore: the mandatory request + details core of a save
//   - PeopleStore: match-or-create person operations
//   - LinksStore: personnel links and subaward rows
//
// # Usage
//
//	people := gorm.NewPeopleStore(db)
//	person := &store.Person{RequestID: 42, Name: "A. Researcher"}
//	if err := people.AddGet(person); err != nil {
//	    // person.PersonID is only valid when err is nil
//	}
package store

import "errors"

// ErrDetailsNotFound is returned when a request has no details row, or
// when storage corruption yields more than one.
var ErrDetailsNotFound = errors.New("grant request details not found")

// ErrPersonNotFound is returned when a person lookup by id finds nothing.
var ErrPersonNotFound = errors.New("person not found")

// ErrMissingRequestID is returned when a person operation is attempted
// without an owning request. That is a programming error, not bad input.
var ErrMissingRequestID = errors.New("person has no request id")

// ErrIncompletePerson is returned when a person row is built without its
// mandatory request id and name.
var ErrIncompletePerson = errors.New("person requires a request id and a name")

// WriteError reports a write whose affected-row count was not the single
// row expected, or whose underlying statement failed.
type WriteError struct {
	Op  string
	Err error
}

func (e *WriteError) Error() string {
	if e.Err != nil {
		return e.Op + ": " + e.Err.Error()
	}
	return e.Op + ": affected row count was not 1"
}

func (e *WriteError) Unwrap() error { return e.Err }

// Person is a person row scoped to one request. String fields left empty
// are treated as unset by the sparse field policy; Availability is unset
// while nil.
type Person struct {
	PersonID     int64
	RequestID    int64
	Name         string
	Email        string
	EraID        string
	Availability *int16
	ProjectRole  string
	Effort       string
	AnnualFee    string
}

// maxEraIDLen is the era_id column width in the legacy schema.
const maxEraIDLen = 20

// SetEraID assigns the external/federal identifier after validating the
// legacy length limit. Overlong values are rejected rather than truncated.
func (p *Person) SetEraID(id string) error {
	if len(id) > maxEraIDLen {
		return errors.New("era id exceeds 20 characters")
	}
	p.EraID = id
	return nil
}

// availabilityDefault is the placeholder used for availability when a
// full-shape row is requested.
var availabilityDefault = int16(1)

// Fields builds the sparse column set for this person. RequestID and Name
// are mandatory; everything else participates only when set. With
// includeEmpty, every optional column is emitted with its placeholder
// (empty string, except availability which defaults to 1) so the row
// matches the full canonical shape.
func (p *Person) Fields(includeEmpty bool) (*FieldSet, error) {
	if p.RequestID <= 0 || p.Name == "" {
		return nil, ErrIncompletePerson
	}

	fields := NewFieldSet()
	fields.Add("request_id", p.RequestID)
	fields.Add("name", p.Name)
	fields.AddString("email_address", p.Email)
	fields.AddString("era_id", p.EraID)
	if p.Availability != nil {
		fields.Add("availability", *p.Availability)
	}
	fields.AddString("project_role", p.ProjectRole)
	fields.AddString("effort", p.Effort)
	fields.AddString("annual_fee", p.AnnualFee)

	if includeEmpty {
		fields.FillMissing("email_address", "")
		fields.FillMissing("era_id", "")
		fields.FillMissing("availability", availabilityDefault)
		fields.FillMissing("project_role", "")
		fields.FillMissing("effort", "")
		fields.FillMissing("annual_fee", "")
	}

	return fields, nil
}

// Details mirrors the gr_details row. Dates are Y-m-d text and the flags
// are the stored 0/1 smallints.
type Details struct {
	RequestID          int64
	SponsorName        string
	FundingOpportunity string
	Website            string
	FundingMechanism   string
	DueDate            string
	ProposalTitle      string
	ShortTitle         string
	StartDate          string
	EndDate            string
	SubjHumans         int16
	HumanClinical      int16
	HumanP3Clinical    int16
	SubjVertebrates    int16
	SubjAgents         int16
	SubjStemcells      int16
	Comments           string
}

// SubawardRow is one subaward institution. The person references are nil
// when the corresponding contact was not resolved.
type SubawardRow struct {
	RequestID       int64
	InstitutionName string
	PrimaryInvID    *int64
	GrAdminID       *int64
}

// RequestsStore covers the mandatory core of a save plus detail fetches.
type RequestsStore interface {
	// CreateRequest runs the first phase of a save in one transaction:
	// upsert the requester identified by name/email, insert the request
	// row referencing it, and insert the sparse details columns. Returns
	// the new request id. Any failure rolls the whole phase back.
	CreateRequest(requesterName, requesterEmail string, details *FieldSet) (int64, error)

	// GetDetails loads the details row for a request. Zero rows, or more
	// than one, yields ErrDetailsNotFound.
	GetDetails(requestID int64) (*Details, error)
}

// PeopleStore abstracts match-or-create person operations.
type PeopleStore interface {
	// Match resolves the person's storage identity using the first
	// applicable matcher strategy. MatchOne adopts the matched row's id
	// into p; MatchMany is ambiguous and callers treat it as not found.
	Match(p *Person) (MatchOutcome, error)

	// AddGet matches the person and either sparsely updates the resolved
	// row or inserts a new one, reading back the assigned id.
	AddGet(p *Person) error

	// Update sparsely updates the row identified by p.PersonID.
	Update(p *Person) error

	// GetByID loads a person row by id.
	GetByID(personID int64) (*Person, error)

	// FindPI locates the request's principal investigator row by project
	// role. Returns ErrPersonNotFound when the request has none.
	FindPI(requestID int64) (*Person, error)

	// ListByType lists the people bridged to a request under a link type.
	ListByType(requestID int64, linkType LinkType) ([]Person, error)
}

// LinksStore abstracts the relationship bridge tables.
type LinksStore interface {
	// AddPersonnel inserts one (request, person, type) bridge row.
	// Anything other than exactly one affected row is a WriteError.
	AddPersonnel(requestID, personID int64, linkType LinkType) error

	// AddSubaward inserts one subaward row, omitting whichever person
	// references are nil.
	AddSubaward(row *SubawardRow) error

	// ListSubawards lists a request's subaward rows.
	ListSubawards(requestID int64) ([]SubawardRow, error)
}
