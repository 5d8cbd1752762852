package grant

import (
	"bytes"
	"encoding/json"
	"strings"
)

// Model is the composed grant-request aggregate as it crosses the API
// boundary. Sections with no backing data are omitted on fetch, except the
// list sections which come back as empty lists so callers can tell
// "no entries" apart from "section missing".
type Model struct {
	FundOpportunity       *FundOpportunity `json:"fundOpportunity,omitempty"`
	Proposal              *Proposal        `json:"proposal,omitempty"`
	Special               *Special         `json:"special,omitempty"`
	Comments              string           `json:"comments,omitempty"`
	PrincipalInvestigator *Investigator    `json:"principalInvestigator,omitempty"`
	Personnel             []PersonnelEntry `json:"personnel"`
	Consultants           []Consultant     `json:"consultants"`
	Subawards             []Subaward       `json:"subawards"`
}

// FundOpportunity describes the funding opportunity being applied to.
type FundOpportunity struct {
	Sponsor  string `json:"sponsor,omitempty"`
	Details  string `json:"details,omitempty"`
	Website  string `json:"website,omitempty"`
	FundMech string `json:"fundMech,omitempty"`
	DueDate  string `json:"dueDate,omitempty"`
}

// Proposal holds the proposal fields. Title and ShortTitle are the only
// mandatory fields in the whole model.
type Proposal struct {
	Title      string `json:"title"`
	ShortTitle string `json:"shortTitle"`
	StartDate  string `json:"startDate,omitempty"`
	EndDate    string `json:"endDate,omitempty"`
}

// Special carries the six special-consideration flags. Clients send these
// in whatever truthy representation their form library produces, so each
// flag accepts booleans, numbers and the usual string spellings.
type Special struct {
	Humans     Flag `json:"humans"`
	Clinical   Flag `json:"clinical"`
	Phase3     Flag `json:"phase3"`
	Vertebrate Flag `json:"vertebrate"`
	Agents     Flag `json:"agents"`
	Stemcells  Flag `json:"stemcells"`
}

// Investigator is the principal investigator section.
type Investigator struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	FedID    string `json:"fedId,omitempty"`
	Vacation Flag   `json:"vacation,omitempty"`
}

// PersonnelEntry is one row of the personnel list.
type PersonnelEntry struct {
	Name   string `json:"name"`
	Role   string `json:"role,omitempty"`
	Effort string `json:"effort,omitempty"`
}

// Consultant is one row of the consultants list.
type Consultant struct {
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
	Fee   string `json:"fee,omitempty"`
}

// Subaward is one subaward institution. The PI and grant administrator
// contacts are each independently optional.
type Subaward struct {
	Name                  string   `json:"name"`
	PrincipalInvestigator *Contact `json:"principalInvestigator,omitempty"`
	GrantAdmin            *Contact `json:"grantAdmin,omitempty"`
}

// Contact is a name/email pair attached to a subaward.
type Contact struct {
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
}

// Flag is a permissive boolean. Forms submit these as true/false, 0/1,
// "1", "yes", "on" and so on; anything not recognizably true parses as
// false. It marshals back out as a plain JSON boolean.
type Flag bool

func (f Flag) Bool() bool { return bool(f) }

func (f Flag) MarshalJSON() ([]byte, error) {
	return json.Marshal(bool(f))
}

func (f *Flag) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" {
		*f = false
		return nil
	}

	var raw interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	switch v := raw.(type) {
	case bool:
		*f = Flag(v)
	case float64:
		*f = v != 0
	case string:
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "1", "true", "on", "yes":
			*f = true
		default:
			*f = false
		}
	default:
		*f = false
	}
	return nil
}
