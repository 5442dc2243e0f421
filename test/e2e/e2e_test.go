//go:build e2e
// +build e2e

package e2e

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"os"
	"testing"
	"time"

	"github.com/joho/godotenv"
)

const defaultBaseURL = "http://localhost:8080/api/v1"

var baseURL string

func TestMain(m *testing.M) {
	// Load .env if present (ignore error)
	_ = godotenv.Load("../../.env")

	baseURL = os.Getenv("BASE_URL")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	os.Exit(m.Run())
}

// envelope mirrors the API response envelope.
type envelope struct {
	Data  json.RawMessage `json:"data"`
	Error *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func doRequest(t *testing.T, method, path string, body interface{}) (int, envelope) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequest(method, baseURL+path, reader)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	client := &http.Client{Timeout: 10 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		t.Fatalf("decode envelope: %v (body %s)", err, raw)
	}
	return resp.StatusCode, env
}

func decodeData(t *testing.T, env envelope, dst interface{}) {
	t.Helper()
	if err := json.Unmarshal(env.Data, dst); err != nil {
		t.Fatalf("decode data: %v (data %s)", err, env.Data)
	}
}

type stateView struct {
	TestSetID        string `json:"test_set_id"`
	TestName         string `json:"test_name"`
	QuestionCount    int    `json:"question_count"`
	CurrentIndex     int    `json:"current_index"`
	SelectedOption   string `json:"selected_option"`
	RemainingSeconds int    `json:"remaining_seconds"`
	Question         struct {
		ID      int               `json:"id"`
		Options map[string]string `json:"options"`
	} `json:"question"`
	Palette []struct {
		Answered bool `json:"answered"`
		Marked   bool `json:"marked"`
		Current  bool `json:"current"`
	} `json:"palette"`
}

func Test01_Subjects(t *testing.T) {
	status, env := doRequest(t, http.MethodGet, "/bank/subjects", nil)
	if status != http.StatusOK {
		t.Fatalf("status = %d, error = %+v", status, env.Error)
	}

	var subjects []struct {
		Name          string `json:"name"`
		QuestionCount int    `json:"question_count"`
		Sizes         []int  `json:"sizes"`
	}
	decodeData(t, env, &subjects)
	if len(subjects) == 0 {
		t.Fatal("no subjects in bank")
	}
	for _, s := range subjects {
		if s.Name == "" || s.QuestionCount == 0 {
			t.Errorf("bad subject entry %+v", s)
		}
	}
}

func Test02_MockCatalog(t *testing.T) {
	status, env := doRequest(t, http.MethodGet, "/tests/mocks", nil)
	if status != http.StatusOK {
		t.Fatalf("status = %d, error = %+v", status, env.Error)
	}
}

func Test03_RandomSessionFlow(t *testing.T) {
	status, env := doRequest(t, http.MethodPost, "/tests/random", map[string]int{"size": 10})
	if status != http.StatusCreated {
		t.Fatalf("start status = %d, error = %+v", status, env.Error)
	}
	var view stateView
	decodeData(t, env, &view)
	if view.QuestionCount != 10 || view.CurrentIndex != 0 {
		t.Fatalf("start view = %+v", view)
	}
	if view.RemainingSeconds == 0 {
		t.Error("countdown not running at start")
	}

	// Answer the first question with one of its real option keys.
	var option string
	for k := range view.Question.Options {
		option = k
		break
	}
	status, env = doRequest(t, http.MethodPost, "/session/answer",
		map[string]interface{}{"index": 0, "option": option})
	if status != http.StatusOK {
		t.Fatalf("answer status = %d, error = %+v", status, env.Error)
	}
	decodeData(t, env, &view)
	if !view.Palette[0].Answered {
		t.Error("palette entry 0 not answered")
	}

	// Unknown option key is rejected.
	status, env = doRequest(t, http.MethodPost, "/session/answer",
		map[string]interface{}{"index": 0, "option": "ZZ"})
	if status != http.StatusBadRequest || env.Error == nil || env.Error.Code != "INVALID_OPTION" {
		t.Errorf("bad option: status %d, error %+v", status, env.Error)
	}

	status, env = doRequest(t, http.MethodPost, "/session/mark", map[string]int{"index": 2})
	if status != http.StatusOK {
		t.Fatalf("mark status = %d, error = %+v", status, env.Error)
	}

	status, env = doRequest(t, http.MethodPost, "/session/navigate", map[string]int{"index": 4})
	if status != http.StatusOK {
		t.Fatalf("navigate status = %d, error = %+v", status, env.Error)
	}
	decodeData(t, env, &view)
	if view.CurrentIndex != 4 {
		t.Errorf("CurrentIndex = %d, want 4", view.CurrentIndex)
	}

	// Resume restores the persisted state.
	status, env = doRequest(t, http.MethodPost, "/session/resume", nil)
	if status != http.StatusOK {
		t.Fatalf("resume status = %d, error = %+v", status, env.Error)
	}
	decodeData(t, env, &view)
	if view.CurrentIndex != 4 || !view.Palette[0].Answered || !view.Palette[2].Marked {
		t.Errorf("resume lost state: %+v", view)
	}

	status, env = doRequest(t, http.MethodPost, "/session/submit", nil)
	if status != http.StatusOK {
		t.Fatalf("submit status = %d, error = %+v", status, env.Error)
	}
	var summary struct {
		Score     float64 `json:"score"`
		MaxScore  int     `json:"max_score"`
		Correct   int     `json:"correct"`
		Incorrect int     `json:"incorrect"`
	}
	decodeData(t, env, &summary)
	if summary.MaxScore != 20 {
		t.Errorf("MaxScore = %d, want 20", summary.MaxScore)
	}
	if summary.Correct+summary.Incorrect != 1 {
		t.Errorf("attempted = %d, want 1", summary.Correct+summary.Incorrect)
	}

	// The session is gone once submitted.
	status, env = doRequest(t, http.MethodGet, "/session", nil)
	if status != http.StatusNotFound || env.Error == nil || env.Error.Code != "NO_ACTIVE_SESSION" {
		t.Errorf("post-submit session: status %d, error %+v", status, env.Error)
	}
	status, env = doRequest(t, http.MethodPost, "/session/submit", nil)
	if status != http.StatusNotFound {
		t.Errorf("double submit status = %d, want 404", status)
	}
}

func Test04_ResultsAndReview(t *testing.T) {
	status, env := doRequest(t, http.MethodGet, "/results/latest", nil)
	if status != http.StatusOK {
		t.Fatalf("results status = %d, error = %+v", status, env.Error)
	}
	var result struct {
		TestName string `json:"testName"`
		Accuracy string `json:"accuracy"`
	}
	decodeData(t, env, &result)
	if result.TestName == "" || result.Accuracy == "" {
		t.Errorf("result = %+v", result)
	}

	status, env = doRequest(t, http.MethodGet, "/review/latest", nil)
	if status != http.StatusOK {
		t.Fatalf("review status = %d, error = %+v", status, env.Error)
	}
	var record struct {
		TestName string `json:"testName"`
		Entries  []struct {
			IsCorrect     bool `json:"isCorrect"`
			IsUnattempted bool `json:"isUnattempted"`
		} `json:"entries"`
	}
	decodeData(t, env, &record)
	if len(record.Entries) == 0 {
		t.Error("review has no entries")
	}
}

func Test05_ValidationErrors(t *testing.T) {
	status, env := doRequest(t, http.MethodPost, "/tests/random", map[string]int{"size": 0})
	if status != http.StatusBadRequest || env.Error == nil {
		t.Errorf("size=0: status %d, error %+v", status, env.Error)
	}

	status, env = doRequest(t, http.MethodPost, "/tests/mocks/does-not-exist/start", nil)
	if status != http.StatusNotFound || env.Error == nil || env.Error.Code != "UNKNOWN_TEST_SET" {
		t.Errorf("unknown mock: status %d, error %+v", status, env.Error)
	}

	status, env = doRequest(t, http.MethodPost, "/tests/subject",
		map[string]interface{}{"subject": "No Such Subject", "size": 10})
	if status != http.StatusUnprocessableEntity || env.Error == nil || env.Error.Code != "NO_QUESTIONS" {
		t.Errorf("unknown subject: status %d, error %+v", status, env.Error)
	}
}
