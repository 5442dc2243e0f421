package questionbank

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/sscprep/mocktest-backend/internal/model"
)

// Load errors. Both are fatal to startup; the caller surfaces a single
// failure and does not retry.
var (
	ErrBankUnreachable = errors.New("question bank unreachable")
	ErrMalformedBank   = errors.New("question bank malformed")
)

// Load reads the question bank from a local file path or an http(s) URL.
// The source must be a JSON array of question records; records missing
// required fields fail the whole load.
func Load(ctx context.Context, source string) ([]model.Question, error) {
	raw, err := fetch(ctx, source)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBankUnreachable, err)
	}
	return Parse(raw)
}

// Parse decodes and validates a raw JSON question bank.
func Parse(raw []byte) ([]model.Question, error) {
	var questions []model.Question
	if err := json.Unmarshal(raw, &questions); err != nil {
		return nil, fmt.Errorf("%w: not a question array: %v", ErrMalformedBank, err)
	}

	for i, q := range questions {
		if err := validate(q); err != nil {
			return nil, fmt.Errorf("%w: record %d: %v", ErrMalformedBank, i, err)
		}
	}
	return questions, nil
}

func validate(q model.Question) error {
	switch {
	case q.ID == 0:
		return errors.New("missing id")
	case q.QuestionText == "":
		return errors.New("missing question text")
	case len(q.Options) == 0:
		return errors.New("missing options")
	case q.CorrectAnswer == "":
		return errors.New("missing correct answer")
	case !q.HasOption(q.CorrectAnswer):
		return fmt.Errorf("correct answer %q is not an option key", q.CorrectAnswer)
	}
	return nil
}

func fetch(ctx context.Context, source string) ([]byte, error) {
	if strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://") {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, source, nil)
		if err != nil {
			return nil, err
		}
		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
		}
		return io.ReadAll(resp.Body)
	}
	return os.ReadFile(source)
}
