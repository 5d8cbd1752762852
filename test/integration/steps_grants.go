package integration

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/cucumber/godog"
)

// StepsContext carries state between steps of a scenario.
type StepsContext struct {
	tc *TestContext

	token      string
	lastStatus int
	lastBody   []byte
	lastJSON   map[string]interface{}
	requestID  int64
}

func NewStepsContext(tc *TestContext) *StepsContext {
	return &StepsContext{tc: tc}
}

// RegisterSteps wires all step definitions into the scenario context.
func (s *StepsContext) RegisterSteps(sc *godog.ScenarioContext) {
	sc.Step(`^the forms server is running$`, s.theServerIsRunning)
	sc.Step(`^I have registered as "([^"]*)" with email "([^"]*)"$`, s.iHaveRegistered)
	sc.Step(`^I submit the following grant request:$`, s.iSubmitGrantRequest)
	sc.Step(`^I submit the following grant request without a token:$`, s.iSubmitGrantRequestWithoutToken)
	sc.Step(`^the response status should be (\d+)$`, s.responseStatusShouldBe)
	sc.Step(`^the response should indicate success$`, s.responseShouldIndicateSuccess)
	sc.Step(`^the response should indicate failure$`, s.responseShouldIndicateFailure)
	sc.Step(`^the response should include a request id$`, s.responseShouldIncludeRequestID)
	sc.Step(`^I fetch the submitted request$`, s.iFetchSubmittedRequest)
	sc.Step(`^the rendered document should contain "([^"]*)"$`, s.renderedDocumentShouldContain)
	sc.Step(`^I read the last operation warnings$`, s.iReadWarnings)
	sc.Step(`^the warnings should include "([^"]*)"$`, s.warningsShouldInclude)
}

func (s *StepsContext) do(method, path, body string, withToken bool) error {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}

	req, err := http.NewRequest(method, s.tc.ServerURL+path, reader)
	if err != nil {
		return err
	}
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if withToken && s.token != "" {
		req.Header.Set("Authorization", "Bearer "+s.token)
	}

	resp, err := s.tc.HTTPClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	s.lastStatus = resp.StatusCode
	s.lastBody, err = io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	s.lastJSON = nil
	if strings.HasPrefix(resp.Header.Get("Content-Type"), "application/json") {
		decoded := map[string]interface{}{}
		if err := json.Unmarshal(s.lastBody, &decoded); err == nil {
			s.lastJSON = decoded
		}
	}
	return nil
}

func (s *StepsContext) theServerIsRunning() error {
	if err := s.do("GET", "/", "", false); err != nil {
		return err
	}
	if s.lastStatus != http.StatusOK {
		return fmt.Errorf("status endpoint returned %d", s.lastStatus)
	}
	return nil
}

func (s *StepsContext) iHaveRegistered(name, email string) error {
	body := fmt.Sprintf(`{"name": %q, "email": %q}`, name, email)
	if err := s.do("POST", "/register", body, false); err != nil {
		return err
	}
	if s.lastStatus != http.StatusOK {
		return fmt.Errorf("register returned %d: %s", s.lastStatus, s.lastBody)
	}

	token, _ := s.lastJSON["jwt"].(string)
	if token == "" {
		return fmt.Errorf("register response carries no jwt: %s", s.lastBody)
	}
	s.token = token
	return nil
}

func (s *StepsContext) iSubmitGrantRequest(body *godog.DocString) error {
	return s.do("POST", "/gr/submit", body.Content, true)
}

func (s *StepsContext) iSubmitGrantRequestWithoutToken(body *godog.DocString) error {
	return s.do("POST", "/gr/submit", body.Content, false)
}

func (s *StepsContext) responseStatusShouldBe(want int) error {
	if s.lastStatus != want {
		return fmt.Errorf("status = %d, want %d (body: %s)", s.lastStatus, want, s.lastBody)
	}
	return nil
}

func (s *StepsContext) responseShouldIndicateSuccess() error {
	if success, _ := s.lastJSON["success"].(bool); !success {
		return fmt.Errorf("response does not indicate success: %s", s.lastBody)
	}
	return nil
}

func (s *StepsContext) responseShouldIndicateFailure() error {
	if success, ok := s.lastJSON["success"].(bool); !ok || success {
		return fmt.Errorf("response does not indicate failure: %s", s.lastBody)
	}
	return nil
}

func (s *StepsContext) responseShouldIncludeRequestID() error {
	id, ok := s.lastJSON["request_id"].(float64)
	if !ok || id <= 0 {
		return fmt.Errorf("response carries no request id: %s", s.lastBody)
	}
	s.requestID = int64(id)
	return nil
}

func (s *StepsContext) iFetchSubmittedRequest() error {
	return s.do("GET", fmt.Sprintf("/gr/get/%d", s.requestID), "", true)
}

func (s *StepsContext) renderedDocumentShouldContain(text string) error {
	if !strings.Contains(string(s.lastBody), text) {
		return fmt.Errorf("document does not contain %q: %s", text, s.lastBody)
	}
	return nil
}

func (s *StepsContext) iReadWarnings() error {
	return s.do("GET", "/logs/warnings", "", true)
}

func (s *StepsContext) warningsShouldInclude(text string) error {
	warnings, _ := s.lastJSON["warnings"].([]interface{})
	for _, w := range warnings {
		line, _ := w.(map[string]interface{})
		if msg, _ := line["msg"].(string); strings.Contains(msg, text) {
			return nil
		}
	}
	return fmt.Errorf("warnings %v do not include %q", warnings, text)
}
