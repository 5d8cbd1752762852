package render

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sirupsen/logrus/hooks/test"

	"github.com/uemf/forms-api/pkg/grant"
)

func sampleModel() *grant.Model {
	return &grant.Model{
		Proposal: &grant.Proposal{
			Title:      "Study of X",
			ShortTitle: "X",
			StartDate:  "4/7/2025",
			EndDate:    "4/7/2026",
		},
		Special: &grant.Special{Humans: true},
		PrincipalInvestigator: &grant.Investigator{
			Name:  "A. Researcher",
			Email: "a@uemf.org",
		},
		Personnel: []grant.PersonnelEntry{
			{Name: "B. Helper", Role: "Research Assistant", Effort: "10%"},
		},
		Consultants: []grant.Consultant{},
		Subawards: []grant.Subaward{
			{
				Name:                  "Partner University",
				PrincipalInvestigator: &grant.Contact{Name: "D. Partner", Email: "d@partner.edu"},
			},
		},
		Comments: "none",
	}
}

func TestRenderRequest(t *testing.T) {
	log, _ := test.NewNullLogger()
	r, err := New("", log)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer r.Close()

	var buf bytes.Buffer
	if err := r.RenderRequest(&buf, 55, sampleModel()); err != nil {
		t.Fatalf("RenderRequest() error = %v", err)
	}

	out := buf.String()
	for _, want := range []string{
		"Grants Request #55",
		"Study of X",
		"A. Researcher",
		"<th>Human Subjects</th><td>Yes</td>",
		"<th>Clinical Trial</th><td>No</td>",
		"B. Helper",
		"D. Partner (d@partner.edu)",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q", want)
		}
	}
	if strings.Contains(out, "<h2>Consultants</h2>") {
		t.Error("empty consultants section should not be rendered")
	}
}

func TestRenderEscapesUserContent(t *testing.T) {
	log, _ := test.NewNullLogger()
	r, err := New("", log)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer r.Close()

	m := sampleModel()
	m.Proposal.Title = `<script>alert("x")</script>`

	var buf bytes.Buffer
	if err := r.RenderRequest(&buf, 55, m); err != nil {
		t.Fatalf("RenderRequest() error = %v", err)
	}
	if strings.Contains(buf.String(), "<script>") {
		t.Error("user content must be HTML-escaped")
	}
}

func TestOverrideDirectoryShadowsEmbedded(t *testing.T) {
	dir := t.TempDir()
	override := `<!DOCTYPE html><html><body>OVERRIDDEN {{.RequestID}}</body></html>`
	if err := os.WriteFile(filepath.Join(dir, "request.html"), []byte(override), 0o644); err != nil {
		t.Fatalf("failed to write override: %v", err)
	}

	log, _ := test.NewNullLogger()
	r, err := New(dir, log)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer r.Close()

	var buf bytes.Buffer
	if err := r.RenderRequest(&buf, 55, sampleModel()); err != nil {
		t.Fatalf("RenderRequest() error = %v", err)
	}
	if !strings.Contains(buf.String(), "OVERRIDDEN 55") {
		t.Errorf("override template not used: %s", buf.String())
	}
}
