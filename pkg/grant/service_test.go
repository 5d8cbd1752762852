package grant

import (
	"errors"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"

	"github.com/uemf/forms-api/pkg/grant/store"
)

type fakeRequests struct {
	createID   int64
	createErr  error
	details    *store.Details
	detailsErr error

	createCalls int
	gotName     string
	gotEmail    string
	gotFields   *store.FieldSet
}

func (f *fakeRequests) CreateRequest(name, email string, fields *store.FieldSet) (int64, error) {
	f.createCalls++
	f.gotName = name
	f.gotEmail = email
	f.gotFields = fields
	return f.createID, f.createErr
}

func (f *fakeRequests) GetDetails(int64) (*store.Details, error) {
	return f.details, f.detailsErr
}

type personnelLink struct {
	requestID int64
	personID  int64
	linkType  store.LinkType
}

type fakePeople struct {
	nextID    int64
	addGetErr error
	added     []store.Person
	updated   []store.Person
	pi        *store.Person
	piErr     error
	byID      map[int64]*store.Person
	byType    map[store.LinkType][]store.Person
}

func (f *fakePeople) Match(*store.Person) (store.MatchOutcome, error) {
	return store.MatchNone, nil
}

func (f *fakePeople) AddGet(p *store.Person) error {
	if f.addGetErr != nil {
		return f.addGetErr
	}
	f.nextID++
	p.PersonID = f.nextID
	f.added = append(f.added, *p)
	return nil
}

func (f *fakePeople) Update(p *store.Person) error {
	f.updated = append(f.updated, *p)
	return nil
}

func (f *fakePeople) GetByID(id int64) (*store.Person, error) {
	if p, ok := f.byID[id]; ok {
		return p, nil
	}
	return nil, store.ErrPersonNotFound
}

func (f *fakePeople) FindPI(int64) (*store.Person, error) {
	if f.piErr != nil {
		return nil, f.piErr
	}
	if f.pi == nil {
		return nil, store.ErrPersonNotFound
	}
	return f.pi, nil
}

func (f *fakePeople) ListByType(_ int64, lt store.LinkType) ([]store.Person, error) {
	return f.byType[lt], nil
}

type fakeLinks struct {
	personnel []personnelLink
	subawards []store.SubawardRow
	listed    []store.SubawardRow
}

func (f *fakeLinks) AddPersonnel(requestID, personID int64, lt store.LinkType) error {
	f.personnel = append(f.personnel, personnelLink{requestID, personID, lt})
	return nil
}

func (f *fakeLinks) AddSubaward(row *store.SubawardRow) error {
	f.subawards = append(f.subawards, *row)
	return nil
}

func (f *fakeLinks) ListSubawards(int64) ([]store.SubawardRow, error) {
	return f.listed, nil
}

func newTestService(requests *fakeRequests, people *fakePeople, links *fakeLinks) (*Service, *test.Hook) {
	log, hook := test.NewNullLogger()
	log.SetLevel(logrus.DebugLevel)
	return NewService(requests, people, links, log), hook
}

func validModel() *Model {
	return &Model{
		Proposal:              &Proposal{Title: "Study of X", ShortTitle: "X"},
		PrincipalInvestigator: &Investigator{Name: "A. Researcher", Email: "a@uemf.org"},
	}
}

func hasMessage(hook *test.Hook, level logrus.Level, message string) bool {
	for _, entry := range hook.AllEntries() {
		if entry.Level == level && entry.Message == message {
			return true
		}
	}
	return false
}

func TestSaveRejectsMissingMandatoryFields(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Model)
		field  string
	}{
		{"no proposal", func(m *Model) { m.Proposal = nil }, "proposal.title"},
		{"no title", func(m *Model) { m.Proposal.Title = "" }, "proposal.title"},
		{"no short title", func(m *Model) { m.Proposal.ShortTitle = "" }, "proposal.shortTitle"},
		{"no investigator", func(m *Model) { m.PrincipalInvestigator = nil }, "principalInvestigator"},
		{"no investigator email", func(m *Model) { m.PrincipalInvestigator.Email = "" }, "principalInvestigator"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			requests := &fakeRequests{}
			svc, _ := newTestService(requests, &fakePeople{}, &fakeLinks{})

			m := validModel()
			tt.mutate(m)

			_, err := svc.Save(m)
			var vErr *ValidationError
			if !errors.As(err, &vErr) {
				t.Fatalf("Save() error = %v, want ValidationError", err)
			}
			if vErr.Field != tt.field {
				t.Errorf("Field = %q, want %q", vErr.Field, tt.field)
			}
			if requests.createCalls != 0 {
				t.Error("nothing must be written before validation passes")
			}
		})
	}
}

func TestSaveCriticalErrorOnRequestInsert(t *testing.T) {
	requests := &fakeRequests{createErr: errors.New("connection lost")}
	svc, _ := newTestService(requests, &fakePeople{}, &fakeLinks{})

	result, err := svc.Save(validModel())
	var cErr *CriticalError
	if !errors.As(err, &cErr) {
		t.Fatalf("Save() error = %v, want CriticalError", err)
	}
	if result.Success || result.RequestID != -1 {
		t.Errorf("result = %+v, want {false -1}", result)
	}
}

func TestSaveFullModel(t *testing.T) {
	requests := &fakeRequests{createID: 55}
	people := &fakePeople{
		pi: &store.Person{PersonID: 1, RequestID: 55, Name: "A. Researcher", ProjectRole: "Principal Investigator"},
	}
	links := &fakeLinks{}
	svc, hook := newTestService(requests, people, links)

	m := validModel()
	m.PrincipalInvestigator.FedID = "ERA777"
	m.Personnel = []PersonnelEntry{
		{Name: "A. Researcher", Role: "Principal Investigator", Effort: "20%"},
		{Name: ""}, // blank rows are skipped silently
		{Name: "B. Helper", Role: "Research Assistant"},
	}
	m.Consultants = []Consultant{{Name: "C. Expert", Email: "c@x.org", Fee: "1000"}}
	m.Subawards = []Subaward{{
		Name:                  "Partner University",
		PrincipalInvestigator: &Contact{Name: "D. Partner", Email: "d@partner.edu"},
	}}

	result, err := svc.Save(m)
	if err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if !result.Success || result.RequestID != 55 {
		t.Errorf("result = %+v, want {true 55}", result)
	}

	if requests.gotName != "A. Researcher" || requests.gotEmail != "a@uemf.org" {
		t.Errorf("requester identity = %q/%q", requests.gotName, requests.gotEmail)
	}

	// Two personnel entries, one consultant and one subaward contact.
	if len(people.added) != 4 {
		t.Fatalf("added %d people, want 4", len(people.added))
	}

	if len(links.personnel) != 3 {
		t.Fatalf("added %d personnel links, want 3", len(links.personnel))
	}
	if links.personnel[0].linkType != store.LinkTypePersonnel ||
		links.personnel[2].linkType != store.LinkTypeConsultant {
		t.Errorf("link types wrong: %+v", links.personnel)
	}

	if len(people.updated) != 1 {
		t.Fatalf("updated %d people, want the principal investigator", len(people.updated))
	}
	pi := people.updated[0]
	if pi.Email != "a@uemf.org" || pi.EraID != "ERA777" {
		t.Errorf("updated investigator = %+v", pi)
	}

	if len(links.subawards) != 1 {
		t.Fatalf("added %d subawards, want 1", len(links.subawards))
	}
	sub := links.subawards[0]
	if sub.InstitutionName != "Partner University" {
		t.Errorf("institution = %q", sub.InstitutionName)
	}
	if sub.PrimaryInvID == nil {
		t.Error("subaward investigator should have been resolved")
	}
	if sub.GrAdminID != nil {
		t.Error("absent grants administrator must stay nil")
	}

	if hasMessage(hook, logrus.WarnLevel, "You did not specify any consultants") {
		t.Error("consultant warning logged despite a consultant being present")
	}
	if !hasMessage(hook, logrus.DebugLevel, "==START MODEL SAVE==") ||
		!hasMessage(hook, logrus.DebugLevel, "==END MODEL SAVE==") {
		t.Error("operation markers missing from log")
	}
}

func TestSaveWarnsOnEmptySections(t *testing.T) {
	requests := &fakeRequests{createID: 55}
	svc, hook := newTestService(requests, &fakePeople{}, &fakeLinks{})

	result, err := svc.Save(validModel())
	if err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if !result.Success {
		t.Error("empty sections must not fail the save")
	}

	if !hasMessage(hook, logrus.WarnLevel, "You did not specify any consultants") {
		t.Error("missing consultants warning")
	}
	if !hasMessage(hook, logrus.WarnLevel, "You did not specify any subawards") {
		t.Error("missing subawards warning")
	}
	if !hasMessage(hook, logrus.ErrorLevel, "Could not find principal investigator") {
		t.Error("missing investigator lookup error")
	}
}

func TestSaveFallsBackOnBadDates(t *testing.T) {
	requests := &fakeRequests{createID: 55}
	svc, hook := newTestService(requests, &fakePeople{}, &fakeLinks{})

	m := validModel()
	m.Proposal.StartDate = "sometime soon"
	m.FundOpportunity = &FundOpportunity{DueDate: "4/7/2025"}

	if _, err := svc.Save(m); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	fields := requests.gotFields
	if got := fields.Value("start_date"); got != FallbackStorageDate {
		t.Errorf("start_date = %v, want fallback", got)
	}
	if got := fields.Value("due_date"); got != "2025-04-07" {
		t.Errorf("due_date = %v", got)
	}
	if !hasMessage(hook, logrus.WarnLevel, "Start date could not be parsed, falling back to 12/31/1969") {
		t.Error("missing date fallback warning")
	}
}

func TestSaveIgnoresOverlongFederalID(t *testing.T) {
	requests := &fakeRequests{createID: 55}
	people := &fakePeople{
		pi: &store.Person{PersonID: 1, RequestID: 55, Name: "A. Researcher", ProjectRole: "Principal Investigator"},
	}
	svc, _ := newTestService(requests, people, &fakeLinks{})

	m := validModel()
	m.PrincipalInvestigator.FedID = "this-identifier-is-way-too-long-for-the-column"

	if _, err := svc.Save(m); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if len(people.updated) != 1 {
		t.Fatal("investigator row should still be updated")
	}
	if people.updated[0].EraID != "" {
		t.Errorf("EraID = %q, want untouched", people.updated[0].EraID)
	}
}

func TestSaveFlagColumnsOnlyWhenSet(t *testing.T) {
	requests := &fakeRequests{createID: 55}
	svc, _ := newTestService(requests, &fakePeople{}, &fakeLinks{})

	m := validModel()
	m.Special = &Special{Humans: true, Stemcells: true}

	if _, err := svc.Save(m); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	fields := requests.gotFields
	if !fields.Has("subj_humans") || !fields.Has("subj_stemcells") {
		t.Error("set flags missing from column set")
	}
	for _, col := range []string{"human_clinical", "human_p3_clinical", "subj_vertebrates", "subj_agents"} {
		if fields.Has(col) {
			t.Errorf("unset flag %s must not be written", col)
		}
	}
}

func TestFetchNotFound(t *testing.T) {
	requests := &fakeRequests{detailsErr: store.ErrDetailsNotFound}
	svc, _ := newTestService(requests, &fakePeople{}, &fakeLinks{})

	if _, err := svc.Fetch(99); !errors.Is(err, store.ErrDetailsNotFound) {
		t.Errorf("Fetch() error = %v, want ErrDetailsNotFound", err)
	}
}

func TestFetchReconstitutesModel(t *testing.T) {
	availability := int16(1)
	contactID := int64(9)
	requests := &fakeRequests{
		details: &store.Details{
			RequestID:     55,
			SponsorName:   "NIH",
			ProposalTitle: "Study of X",
			ShortTitle:    "X",
			DueDate:       "2025-04-07",
			StartDate:     "",
			SubjHumans:    1,
			Comments:      "none",
		},
	}
	people := &fakePeople{
		pi: &store.Person{
			PersonID:     1,
			Name:         "A. Researcher",
			Email:        "a@uemf.org",
			EraID:        "ERA777",
			Availability: &availability,
			ProjectRole:  "Principal Investigator",
		},
		byID: map[int64]*store.Person{
			contactID: {PersonID: contactID, Name: "D. Partner", Email: "d@partner.edu"},
		},
		byType: map[store.LinkType][]store.Person{
			store.LinkTypePersonnel:  {{Name: "B. Helper", ProjectRole: "Research Assistant", Effort: "10%"}},
			store.LinkTypeConsultant: {},
		},
	}
	links := &fakeLinks{
		listed: []store.SubawardRow{
			{RequestID: 55, InstitutionName: "Partner University", PrimaryInvID: &contactID},
		},
	}
	svc, _ := newTestService(requests, people, links)

	m, err := svc.Fetch(55)
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}

	if m.FundOpportunity.Sponsor != "NIH" || m.FundOpportunity.DueDate != "4/7/2025" {
		t.Errorf("fund opportunity = %+v", m.FundOpportunity)
	}
	if m.Proposal.StartDate != UnspecifiedDate {
		t.Errorf("StartDate = %q, want %q", m.Proposal.StartDate, UnspecifiedDate)
	}
	if !m.Special.Humans.Bool() || m.Special.Clinical.Bool() {
		t.Errorf("special flags = %+v", m.Special)
	}
	if m.PrincipalInvestigator == nil || m.PrincipalInvestigator.FedID != "ERA777" {
		t.Errorf("investigator = %+v", m.PrincipalInvestigator)
	}
	if !m.PrincipalInvestigator.Vacation.Bool() {
		t.Error("vacation flag should reflect availability")
	}
	if len(m.Personnel) != 1 || m.Personnel[0].Name != "B. Helper" {
		t.Errorf("personnel = %+v", m.Personnel)
	}
	if m.Consultants == nil || len(m.Consultants) != 0 {
		t.Errorf("consultants = %+v, want empty list", m.Consultants)
	}
	if len(m.Subawards) != 1 {
		t.Fatalf("subawards = %+v", m.Subawards)
	}
	sub := m.Subawards[0]
	if sub.PrincipalInvestigator == nil || sub.PrincipalInvestigator.Name != "D. Partner" {
		t.Errorf("subaward contact = %+v", sub.PrincipalInvestigator)
	}
	if sub.GrantAdmin != nil {
		t.Error("absent grant admin must come back nil")
	}
}
