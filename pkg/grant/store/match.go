package store

//go:generate go run github.com/dmarkham/enumer -type MatchOutcome -trimprefix Match -transform lower -output matchoutcome.gen.go

// MatchOutcome is the explicit result of a person match. Ambiguous
// matches (MatchMany) are a first-class outcome; they are treated as
// not-found by callers and never auto-resolved to one of the rows.
type MatchOutcome int

const (
	MatchNone MatchOutcome = iota
	MatchOne
	MatchMany
)

// Matcher is one strategy for locating an existing person row. Matchers
// are evaluated in priority order; the first applicable one wins.
type Matcher interface {
	Name() string

	// Applies reports whether this matcher can be used for the person.
	Applies(p *Person) bool

	// Predicate returns the column conditions to AND together. The
	// request id is always included.
	Predicate(p *Person) map[string]interface{}
}

// matchers in priority order: a known person id always wins over
// attribute matching.
var matchers = []Matcher{
	byIDMatcher{},
	byAttributesMatcher{},
}

// MatcherFor returns the first matcher applicable to the person. The
// attribute matcher applies to everything, so there is always one.
func MatcherFor(p *Person) Matcher {
	for _, m := range matchers {
		if m.Applies(p) {
			return m
		}
	}
	return byAttributesMatcher{}
}

// byIDMatcher matches by (request id, person id) when the person already
// carries an id assigned from a prior persist.
type byIDMatcher struct{}

func (byIDMatcher) Name() string { return "by-id" }

func (byIDMatcher) Applies(p *Person) bool { return p.PersonID > 0 }

func (byIDMatcher) Predicate(p *Person) map[string]interface{} {
	return map[string]interface{}{
		"request_id": p.RequestID,
		"person_id":  p.PersonID,
	}
}

// byAttributesMatcher ANDs together whichever of email, name and project
// role are set. With none of them set the predicate degrades to request
// id only, which is expected to return zero or many rows.
type byAttributesMatcher struct{}

func (byAttributesMatcher) Name() string { return "by-attributes" }

func (byAttributesMatcher) Applies(*Person) bool { return true }

func (byAttributesMatcher) Predicate(p *Person) map[string]interface{} {
	pred := map[string]interface{}{"request_id": p.RequestID}
	if p.Email != "" {
		pred["email_address"] = p.Email
	}
	if p.Name != "" {
		pred["name"] = p.Name
	}
	if p.ProjectRole != "" {
		pred["project_role"] = p.ProjectRole
	}
	return pred
}
