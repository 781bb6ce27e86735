package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/cucumber/godog"

	"github.com/doodlesbykumbi/aiact-compliance/pkg/model"
	"github.com/doodlesbykumbi/aiact-compliance/pkg/seed"
)

// StepsContext holds state shared between step definitions
type StepsContext struct {
	tc           *TestContext
	response     *http.Response
	responseBody []byte
	authToken    string
	lastID       uint
	userIDs      map[string]uint
}

// NewStepsContext creates a new steps context
func NewStepsContext(tc *TestContext) *StepsContext {
	return &StepsContext{
		tc:      tc,
		userIDs: make(map[string]uint),
	}
}

// RegisterSteps registers all step definitions
func (s *StepsContext) RegisterSteps(sc *godog.ScenarioContext) {
	// Background steps
	sc.Step(`^the compliance server is running$`, s.theComplianceServerIsRunning)
	sc.Step(`^the following users exist:$`, s.theFollowingUsersExist)
	sc.Step(`^I am signed in as "([^"]*)"$`, s.iAmSignedInAs)

	// Authentication steps
	sc.Step(`^I log in as "([^"]*)" with password "([^"]*)"$`, s.iLogInAs)
	sc.Step(`^I should receive a valid session token for "([^"]*)"$`, s.iShouldReceiveAValidSessionToken)
	sc.Step(`^I use an expired session token for "([^"]*)"$`, s.iUseAnExpiredSessionToken)
	sc.Step(`^I use a session token signed with another secret for "([^"]*)"$`, s.iUseATokenSignedWithAnotherSecret)
	sc.Step(`^I am not signed in$`, s.iAmNotSignedIn)

	// Request steps
	sc.Step(`^I send a "([^"]*)" request to "([^"]*)"$`, s.iSendARequestTo)
	sc.Step(`^I send a "([^"]*)" request to "([^"]*)" with body:$`, s.iSendARequestWithBody)

	// Response steps
	sc.Step(`^the response status should be (\d+)$`, s.theResponseStatusShouldBe)
	sc.Step(`^the response JSON at "([^"]*)" should be "([^"]*)"$`, s.theResponseJSONAtShouldBe)
	sc.Step(`^the response JSON at "([^"]*)" should have (\d+) items?$`, s.theResponseJSONAtShouldHaveItems)
	sc.Step(`^the response should not contain "([^"]*)"$`, s.theResponseShouldNotContain)

	// Database steps
	sc.Step(`^an activity "([^"]*)" on "([^"]*)" should be recorded$`, s.anActivityShouldBeRecorded)
	sc.Step(`^the stored "([^"]*)" key should decrypt to "([^"]*)"$`, s.theStoredKeyShouldDecryptTo)
}

// Background steps

func (s *StepsContext) theComplianceServerIsRunning() error {
	// The server is already running via TestContext; each scenario starts empty
	return s.tc.Reset()
}

func (s *StepsContext) theFollowingUsersExist(table *godog.Table) error {
	if len(table.Rows) < 2 {
		return fmt.Errorf("user table needs a header and at least one row")
	}
	header := table.Rows[0].Cells
	var seeds []seed.UserSeed
	for _, row := range table.Rows[1:] {
		u := seed.UserSeed{Password: seed.DefaultPassword}
		for i, cell := range row.Cells {
			switch header[i].Value {
			case "email":
				u.Email = cell.Value
			case "name":
				u.Name = cell.Value
			case "password":
				u.Password = cell.Value
			case "department":
				u.Department = cell.Value
			case "role":
				role, err := model.RoleString(cell.Value)
				if err != nil {
					return err
				}
				u.Role = role
			default:
				return fmt.Errorf("unknown user column %q", header[i].Value)
			}
		}
		seeds = append(seeds, u)
	}

	if _, err := seed.Users(context.Background(), s.tc.DB, seeds); err != nil {
		return err
	}

	for _, u := range seeds {
		var user model.User
		if err := s.tc.DB.Where("email = ?", model.NormalizeEmail(u.Email)).Take(&user).Error; err != nil {
			return err
		}
		s.userIDs[user.Email] = user.ID
	}
	return nil
}

func (s *StepsContext) iAmNotSignedIn() error {
	s.authToken = ""
	return nil
}

// Request steps

func (s *StepsContext) iSendARequestTo(method, path string) error {
	return s.do(method, path, nil)
}

func (s *StepsContext) iSendARequestWithBody(method, path string, body *godog.DocString) error {
	return s.do(method, path, []byte(s.expand(body.Content)))
}

// expand substitutes {last_id} and {user:<email>} placeholders.
func (s *StepsContext) expand(text string) string {
	text = strings.ReplaceAll(text, "{last_id}", strconv.FormatUint(uint64(s.lastID), 10))
	for email, id := range s.userIDs {
		text = strings.ReplaceAll(text, "{user:"+email+"}", strconv.FormatUint(uint64(id), 10))
	}
	return text
}

func (s *StepsContext) do(method, path string, body []byte) error {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequest(method, s.tc.ServerURL+s.expand(path), reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if s.authToken != "" {
		req.Header.Set("Authorization", "Bearer "+s.authToken)
	}

	s.response, err = s.tc.HTTPClient.Do(req)
	if err != nil {
		return err
	}
	s.responseBody, err = io.ReadAll(s.response.Body)
	_ = s.response.Body.Close()
	if err != nil {
		return err
	}

	if s.response.StatusCode == http.StatusCreated {
		s.captureID()
	}
	return nil
}

// captureID remembers the id of a created resource, either top level or
// under "item" for approvals.
func (s *StepsContext) captureID() {
	for _, path := range []string{"id", "item.id"} {
		if v, err := s.lookup(path); err == nil {
			if f, ok := v.(float64); ok {
				s.lastID = uint(f)
				return
			}
		}
	}
}

// Response steps

func (s *StepsContext) theResponseStatusShouldBe(expectedStatus int) error {
	if s.response == nil {
		return fmt.Errorf("no request was sent")
	}
	if s.response.StatusCode != expectedStatus {
		return fmt.Errorf("expected status %d, got %d: %s", expectedStatus, s.response.StatusCode, string(s.responseBody))
	}
	return nil
}

func (s *StepsContext) theResponseJSONAtShouldBe(path, expected string) error {
	v, err := s.lookup(path)
	if err != nil {
		return err
	}
	var actual string
	switch t := v.(type) {
	case string:
		actual = t
	case nil:
		actual = "null"
	case float64:
		actual = strconv.FormatFloat(t, 'f', -1, 64)
	default:
		b, _ := json.Marshal(t)
		actual = string(b)
	}
	if actual != s.expand(expected) {
		return fmt.Errorf("expected %s to be %q, got %q", path, expected, actual)
	}
	return nil
}

func (s *StepsContext) theResponseJSONAtShouldHaveItems(path string, n int) error {
	v, err := s.lookup(path)
	if err != nil {
		return err
	}
	list, ok := v.([]interface{})
	if !ok {
		return fmt.Errorf("%s is not a list: %v", path, v)
	}
	if len(list) != n {
		return fmt.Errorf("expected %d items at %s, got %d", n, path, len(list))
	}
	return nil
}

func (s *StepsContext) theResponseShouldNotContain(text string) error {
	if strings.Contains(string(s.responseBody), text) {
		return fmt.Errorf("response unexpectedly contains %q: %s", text, string(s.responseBody))
	}
	return nil
}

// lookup walks a dotted path such as "item.status" or "results.0.title".
// The path "." addresses the whole document.
func (s *StepsContext) lookup(path string) (interface{}, error) {
	var doc interface{}
	if err := json.Unmarshal(s.responseBody, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}
	if path == "." {
		return doc, nil
	}

	cur := doc
	for _, part := range strings.Split(path, ".") {
		switch node := cur.(type) {
		case map[string]interface{}:
			v, ok := node[part]
			if !ok {
				return nil, fmt.Errorf("%s: key %q not found in %s", path, part, string(s.responseBody))
			}
			cur = v
		case []interface{}:
			i, err := strconv.Atoi(part)
			if err != nil || i < 0 || i >= len(node) {
				return nil, fmt.Errorf("%s: bad index %q", path, part)
			}
			cur = node[i]
		default:
			return nil, fmt.Errorf("%s: cannot descend into %v", path, cur)
		}
	}
	return cur, nil
}

// Database steps

func (s *StepsContext) anActivityShouldBeRecorded(action, entityType string) error {
	var count int64
	if err := s.tc.DB.Model(&model.Activity{}).
		Where("action = ? AND entity_type = ?", action, entityType).
		Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return fmt.Errorf("no %q activity recorded for %s", action, entityType)
	}
	return nil
}

func (s *StepsContext) theStoredKeyShouldDecryptTo(provider, expected string) error {
	p, err := model.ParseProvider(provider)
	if err != nil {
		return err
	}
	var key model.APIKey
	if err := s.tc.DB.Where("provider = ?", p).Order("id DESC").Take(&key).Error; err != nil {
		return err
	}
	if key.Key != expected {
		return fmt.Errorf("stored %s key does not match", provider)
	}

	var raw []byte
	if err := s.tc.DB.Raw(`SELECT key_ciphertext FROM api_keys WHERE id = ?`, key.ID).Row().Scan(&raw); err != nil {
		return err
	}
	if bytes.Contains(raw, []byte(expected)) {
		return fmt.Errorf("api key stored in plaintext")
	}
	return nil
}
