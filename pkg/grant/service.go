// Package grant implements the grant request aggregate: the composed
// model crossing the API boundary, the save/fetch lifecycle that
// decomposes it across the normalized tables, and the date normalization
// rules inherited from the legacy forms system.
package grant

import (
	"errors"

	"github.com/sirupsen/logrus"

	"github.com/uemf/forms-api/pkg/grant/store"
)

// SaveResult is what callers see from a save. Failures in the best-effort
// phase never flip Success; they are operator-visible through logs only.
type SaveResult struct {
	Success   bool  `json:"success"`
	RequestID int64 `json:"request_id"`
}

// Service orchestrates the full save/fetch lifecycle of a grant request.
type Service struct {
	requests store.RequestsStore
	people   store.PeopleStore
	links    store.LinksStore
	log      *logrus.Logger
}

// NewService creates a grant request service over the given stores.
func NewService(requests store.RequestsStore, people store.PeopleStore, links store.LinksStore, log *logrus.Logger) *Service {
	return &Service{requests: requests, people: people, links: links, log: log}
}

// Save persists a submitted model. The requester upsert, request insert
// and details insert run atomically; everything after that is best-effort
// and per-entry failures are logged without aborting the remaining
// entries or the save as a whole.
func (s *Service) Save(m *Model) (*SaveResult, error) {
	s.log.Debug("==START MODEL SAVE==")

	// Mandatory fields are checked before anything is written.
	if m.Proposal == nil || m.Proposal.Title == "" {
		s.log.Error("Proposal title is missing")
		return &SaveResult{}, &ValidationError{Field: "proposal.title"}
	}
	if m.Proposal.ShortTitle == "" {
		s.log.Error("Short title is missing")
		return &SaveResult{}, &ValidationError{Field: "proposal.shortTitle"}
	}
	pi := m.PrincipalInvestigator
	if pi == nil || pi.Email == "" {
		s.log.Error("Principal investigator is missing")
		return &SaveResult{}, &ValidationError{Field: "principalInvestigator"}
	}

	fields := s.detailFields(m)

	requestID, err := s.requests.CreateRequest(pi.Name, pi.Email, fields)
	if err != nil {
		s.log.WithError(err).Error("Failed to insert request")
		return &SaveResult{Success: false, RequestID: -1}, &CriticalError{Op: "save request", Err: err}
	}
	s.log.WithField("request_id", requestID).Info("Inserted request")

	result := &SaveResult{Success: true, RequestID: requestID}

	s.savePersonnel(requestID, m.Personnel)
	s.refreshPI(requestID, pi)
	s.saveConsultants(requestID, m.Consultants)
	s.saveSubawards(requestID, m.Subawards)

	s.log.Debug("==END MODEL SAVE==")
	return result, nil
}

// detailFields builds the sparse gr_details column set from the populated
// sections of the model. The store fills in the request id.
func (s *Service) detailFields(m *Model) *store.FieldSet {
	fields := store.NewFieldSet()

	if fo := m.FundOpportunity; fo != nil {
		fields.AddString("sponsor_name", fo.Sponsor)
		fields.AddString("funding_opportunity", fo.Details)
		fields.AddString("website", fo.Website)
		fields.AddString("funding_mechanism", fo.FundMech)
		if fo.DueDate != "" {
			fields.Add("due_date", s.storageDate("Due date", fo.DueDate))
		}
	}

	fields.Add("proposal_title", m.Proposal.Title)
	fields.Add("short_title", m.Proposal.ShortTitle)
	if m.Proposal.StartDate != "" {
		fields.Add("start_date", s.storageDate("Start date", m.Proposal.StartDate))
	}
	if m.Proposal.EndDate != "" {
		fields.Add("end_date", s.storageDate("End date", m.Proposal.EndDate))
	}

	if sp := m.Special; sp != nil {
		fields.AddFlag("subj_humans", sp.Humans.Bool())
		fields.AddFlag("human_clinical", sp.Clinical.Bool())
		fields.AddFlag("human_p3_clinical", sp.Phase3.Bool())
		fields.AddFlag("subj_vertebrates", sp.Vertebrate.Bool())
		fields.AddFlag("subj_agents", sp.Agents.Bool())
		fields.AddFlag("subj_stemcells", sp.Stemcells.Bool())
	}

	fields.AddString("comments", m.Comments)
	return fields
}

func (s *Service) storageDate(what, display string) string {
	stored := ToStorageDate(display)
	if stored == FallbackStorageDate {
		s.log.WithField("value", display).Warning(what + " could not be parsed, falling back to 12/31/1969")
	}
	return stored
}

func (s *Service) savePersonnel(requestID int64, entries []PersonnelEntry) {
	s.log.Debug("Processing personnel section")
	for _, entry := range entries {
		if entry.Name == "" {
			continue
		}

		person := &store.Person{
			RequestID:   requestID,
			Name:        entry.Name,
			ProjectRole: entry.Role,
			Effort:      entry.Effort,
		}
		if err := s.people.AddGet(person); err != nil {
			s.log.WithError(err).WithField("name", entry.Name).Error("Failed to add person")
			continue
		}
		s.log.WithField("person_id", person.PersonID).Info("Successfully added person")

		if err := s.links.AddPersonnel(requestID, person.PersonID, store.LinkTypePersonnel); err != nil {
			s.log.WithError(err).WithField("name", entry.Name).Error("Failed to add to personnel")
		}
	}
}

// refreshPI locates the request's PI row, which only exists when the
// personnel list carried one, and refreshes its federal id and email from
// the submitted section. A missing PI is reported but never fatal.
func (s *Service) refreshPI(requestID int64, pi *Investigator) {
	s.log.Debug("Updating principal investigator")

	row, err := s.people.FindPI(requestID)
	if err != nil {
		if errors.Is(err, store.ErrPersonNotFound) {
			s.log.Error("Could not find principal investigator")
		} else {
			s.log.WithError(err).Error("Failed to look up principal investigator")
		}
		return
	}

	if pi.FedID != "" {
		if err := row.SetEraID(pi.FedID); err != nil {
			s.log.WithError(err).Warning("Ignoring invalid federal id")
		}
	}
	row.Email = pi.Email
	if err := s.people.Update(row); err != nil {
		s.log.WithError(err).Error("Failed to update principal investigator")
	}
}

func (s *Service) saveConsultants(requestID int64, consultants []Consultant) {
	s.log.Debug("Processing consultant section")

	count := 0
	for _, consultant := range consultants {
		if consultant.Name == "" {
			continue
		}

		person := &store.Person{
			RequestID: requestID,
			Name:      consultant.Name,
			Email:     consultant.Email,
			AnnualFee: consultant.Fee,
		}
		if err := s.people.AddGet(person); err != nil {
			s.log.WithError(err).WithField("name", consultant.Name).Error("Failed to add person")
		} else if err := s.links.AddPersonnel(requestID, person.PersonID, store.LinkTypeConsultant); err != nil {
			s.log.WithError(err).WithField("name", consultant.Name).Error("Failed to add to consultants")
		}
		count++
	}
	if count == 0 {
		s.log.Warning("You did not specify any consultants")
	}
}

func (s *Service) saveSubawards(requestID int64, subawards []Subaward) {
	s.log.Debug("Processing subaward section")

	count := 0
	for _, sub := range subawards {
		if sub.Name == "" {
			s.log.Info("Subaward has no name, skipped")
			continue
		}

		row := &store.SubawardRow{
			RequestID:       requestID,
			InstitutionName: sub.Name,
		}
		row.PrimaryInvID = s.resolveContact(requestID, sub.Name, "principal investigator", sub.PrincipalInvestigator)
		row.GrAdminID = s.resolveContact(requestID, sub.Name, "grants administrator", sub.GrantAdmin)

		if err := s.links.AddSubaward(row); err != nil {
			s.log.WithError(err).WithField("subaward", sub.Name).Error("Failed to insert subaward")
		}
		count++
	}
	if count == 0 {
		s.log.Warning("You did not specify any subawards")
	}
}

// resolveContact match-or-creates an optional subaward contact. Absence
// of one contact never blocks the other.
func (s *Service) resolveContact(requestID int64, subaward, what string, contact *Contact) *int64 {
	if contact == nil || contact.Name == "" {
		s.log.WithField("subaward", subaward).Info("Subaward had no " + what + " specified")
		return nil
	}

	person := &store.Person{
		RequestID: requestID,
		Name:      contact.Name,
		Email:     contact.Email,
	}
	if err := s.people.AddGet(person); err != nil {
		s.log.WithError(err).WithField("name", contact.Name).Error("Failed to add person")
		return nil
	}
	return &person.PersonID
}

// Fetch reconstitutes the full model for a request. A request with no
// details row, or a corrupted duplicate, comes back as
// store.ErrDetailsNotFound.
func (s *Service) Fetch(id int64) (*Model, error) {
	s.log.WithField("id", id).Debug("==START MODEL FETCH==")

	details, err := s.requests.GetDetails(id)
	if err != nil {
		if errors.Is(err, store.ErrDetailsNotFound) {
			s.log.WithField("id", id).Error("Could not find an entry in the details table")
		}
		return nil, err
	}

	m := &Model{
		FundOpportunity: &FundOpportunity{
			Sponsor:  details.SponsorName,
			Details:  details.FundingOpportunity,
			Website:  details.Website,
			FundMech: details.FundingMechanism,
			DueDate:  FromStorageDate(details.DueDate),
		},
		Proposal: &Proposal{
			Title:      details.ProposalTitle,
			ShortTitle: details.ShortTitle,
			StartDate:  FromStorageDate(details.StartDate),
			EndDate:    FromStorageDate(details.EndDate),
		},
		Special: &Special{
			Humans:     Flag(details.SubjHumans != 0),
			Clinical:   Flag(details.HumanClinical != 0),
			Phase3:     Flag(details.HumanP3Clinical != 0),
			Vertebrate: Flag(details.SubjVertebrates != 0),
			Agents:     Flag(details.SubjAgents != 0),
			Stemcells:  Flag(details.SubjStemcells != 0),
		},
		Comments:    details.Comments,
		Personnel:   []PersonnelEntry{},
		Consultants: []Consultant{},
		Subawards:   []Subaward{},
	}

	if pi, err := s.people.FindPI(id); err == nil {
		inv := &Investigator{Name: pi.Name, Email: pi.Email, FedID: pi.EraID}
		if pi.Availability != nil {
			inv.Vacation = Flag(*pi.Availability != 0)
		}
		m.PrincipalInvestigator = inv
	} else if !errors.Is(err, store.ErrPersonNotFound) {
		return nil, err
	}

	personnel, err := s.people.ListByType(id, store.LinkTypePersonnel)
	if err != nil {
		return nil, err
	}
	for _, p := range personnel {
		m.Personnel = append(m.Personnel, PersonnelEntry{
			Name:   p.Name,
			Role:   p.ProjectRole,
			Effort: p.Effort,
		})
	}

	consultants, err := s.people.ListByType(id, store.LinkTypeConsultant)
	if err != nil {
		return nil, err
	}
	for _, p := range consultants {
		m.Consultants = append(m.Consultants, Consultant{
			Name:  p.Name,
			Email: p.Email,
			Fee:   p.AnnualFee,
		})
	}

	subawards, err := s.links.ListSubawards(id)
	if err != nil {
		return nil, err
	}
	for _, row := range subawards {
		sub := Subaward{Name: row.InstitutionName}
		sub.PrincipalInvestigator = s.fetchContact(row.PrimaryInvID)
		sub.GrantAdmin = s.fetchContact(row.GrAdminID)
		m.Subawards = append(m.Subawards, sub)
	}

	s.log.Debug("==END MODEL FETCH==")
	return m, nil
}

func (s *Service) fetchContact(personID *int64) *Contact {
	if personID == nil {
		return nil
	}
	p, err := s.people.GetByID(*personID)
	if err != nil {
		s.log.WithError(err).WithField("person_id", *personID).Error("Failed to load subaward contact")
		return nil
	}
	return &Contact{Name: p.Name, Email: p.Email}
}
