package checker

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"

	"github.com/abhisek/qcheck/internal/extract"
	"github.com/abhisek/qcheck/internal/similarity"
)

const questionsSchema = `{
  "type": "array",
  "items": {
    "oneOf": [
      {"type": "string"},
      {
        "type": "object",
        "properties": {
          "question": {"type": "string", "minLength": 1},
          "answer":   {"type": "string"},
          "unit":     {"type": "string"},
          "marks":    {"type": ["string", "integer"]}
        },
        "required": ["question"]
      }
    ]
  }
}`

const corpusSchema = `{
  "type": "array",
  "items": {
    "type": "object",
    "properties": {
      "text":   {"type": "string"},
      "source": {"type": "string"}
    },
    "required": ["text"]
  }
}`

// InvalidInputError reports a JSON input that failed to parse or validate.
type InvalidInputError struct {
	Kind string
	Err  error
}

func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("invalid %s input: %v", e.Kind, e.Err)
}

func (e *InvalidInputError) Unwrap() error { return e.Err }

// schemaCache caches compiled JSON schemas by name.
var schemaCache sync.Map // map[string]*jsonschema.Schema

func compiledSchema(name, def string) (*jsonschema.Schema, error) {
	if cached, ok := schemaCache.Load(name); ok {
		return cached.(*jsonschema.Schema), nil
	}

	var doc any
	if err := json.Unmarshal([]byte(def), &doc); err != nil {
		return nil, fmt.Errorf("parse schema definition: %w", err)
	}
	c := jsonschema.NewCompiler()
	url := fmt.Sprintf("schema://%s.json", name)
	if err := c.AddResource(url, doc); err != nil {
		return nil, fmt.Errorf("add resource: %w", err)
	}
	compiled, err := c.Compile(url)
	if err != nil {
		return nil, fmt.Errorf("compile: %w", err)
	}

	schemaCache.Store(name, compiled)
	return compiled, nil
}

// decodeValidated reads r, validates it against the named schema and
// decodes it into v.
func decodeValidated(r io.Reader, name, def string, v any) error {
	raw, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("read %s: %w", name, err)
	}

	var parsed any
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return &InvalidInputError{Kind: name, Err: fmt.Errorf("invalid JSON: %w", err)}
	}
	schema, err := compiledSchema(name, def)
	if err != nil {
		return fmt.Errorf("schema %q: %w", name, err)
	}
	if err := schema.Validate(parsed); err != nil {
		return &InvalidInputError{Kind: name, Err: fmt.Errorf("schema validation failed: %w", err)}
	}

	if err := json.Unmarshal(raw, v); err != nil {
		return &InvalidInputError{Kind: name, Err: err}
	}
	return nil
}

type questionInput struct {
	Question string          `json:"question"`
	Answer   string          `json:"answer"`
	Unit     string          `json:"unit"`
	Marks    json.RawMessage `json:"marks"`
}

// LoadQuestions reads externally supplied questions: a JSON array whose
// items are question strings or objects with question, answer, unit and
// marks. Blank questions are skipped.
func LoadQuestions(r io.Reader) ([]extract.Record, error) {
	var items []json.RawMessage
	if err := decodeValidated(r, "questions", questionsSchema, &items); err != nil {
		return nil, err
	}

	out := make([]extract.Record, 0, len(items))
	for _, raw := range items {
		var in questionInput
		if strings.HasPrefix(strings.TrimSpace(string(raw)), `"`) {
			if err := json.Unmarshal(raw, &in.Question); err != nil {
				return nil, &InvalidInputError{Kind: "questions", Err: err}
			}
		} else if err := json.Unmarshal(raw, &in); err != nil {
			return nil, &InvalidInputError{Kind: "questions", Err: err}
		}

		q := strings.TrimSpace(in.Question)
		if q == "" {
			continue
		}
		out = append(out, extract.Record{
			Question:   q,
			Answer:     in.Answer,
			Unit:       in.Unit,
			MarksRaw:   marksText(in.Marks),
			Confidence: extract.Score(q),
		})
	}
	return out, nil
}

// marksText renders a marks value given as a JSON string or integer.
func marksText(raw json.RawMessage) string {
	if len(raw) == 0 || string(raw) == "null" {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var n int64
	if err := json.Unmarshal(raw, &n); err == nil {
		return strconv.FormatInt(n, 10)
	}
	return ""
}

// LoadCorpus reads an external corpus: a JSON array of objects with text and
// an optional source. Entries with blank text are skipped.
func LoadCorpus(r io.Reader) ([]similarity.Entry, error) {
	var entries []similarity.Entry
	if err := decodeValidated(r, "corpus", corpusSchema, &entries); err != nil {
		return nil, err
	}
	out := make([]similarity.Entry, 0, len(entries))
	for _, e := range entries {
		if strings.TrimSpace(e.Text) == "" {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}
