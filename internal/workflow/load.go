package workflow

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
	"github.com/tailscale/hujson"
)

// Set holds the workflows per entity kind.
type Set struct {
	workflows map[string]*Workflow
}

// Entity kinds with a workflow.
const (
	KindTask   = "task"
	KindTicket = "ticket"
)

var errKindNotConfigured = errors.New("no workflow configured for kind")

// ForKind returns the workflow for an entity kind.
func (s *Set) ForKind(kind string) (*Workflow, error) {
	w, ok := s.workflows[kind]
	if !ok {
		return nil, fmt.Errorf("%w: %s", errKindNotConfigured, kind)
	}

	return w, nil
}

// Kinds returns the configured kinds in stable order (task, ticket, then
// any extras sorted by name).
func (s *Set) Kinds() []string {
	out := make([]string, 0, len(s.workflows))

	for _, k := range []string{KindTask, KindTicket} {
		if _, ok := s.workflows[k]; ok {
			out = append(out, k)
		}
	}

	for k := range s.workflows {
		if k != KindTask && k != KindTicket {
			out = append(out, k)
		}
	}

	return out
}

// Defaults returns the built-in workflows used when no workflow file is
// configured.
func Defaults() *Set {
	task, err := New(KindTask,
		[]string{"backlog", "todo", "in_progress", "review", "done"},
		map[string][]string{
			"backlog":     {"todo"},
			"todo":        {"in_progress"},
			"in_progress": {"review", "todo"},
			"review":      {"done", "in_progress"},
		},
		"backlog")
	if err != nil {
		panic(err) // built-in tables are compile-time constants
	}

	ticket, err := New(KindTicket,
		[]string{"open", "triaged", "in_progress", "resolved", "closed"},
		map[string][]string{
			"open":        {"triaged", "closed"},
			"triaged":     {"in_progress", "closed"},
			"in_progress": {"resolved"},
			"resolved":    {"closed", "in_progress"},
		},
		"open")
	if err != nil {
		panic(err)
	}

	return &Set{workflows: map[string]*Workflow{
		KindTask:   task,
		KindTicket: ticket,
	}}
}

// fileSchema gates workflow files before decoding. Semantic rules
// (transitions reference known statuses, initial is a member) are checked by
// New after decoding; the schema only pins the shape.
const fileSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "minProperties": 1,
  "additionalProperties": {
    "type": "object",
    "required": ["statuses", "transitions", "initial"],
    "additionalProperties": false,
    "properties": {
      "statuses": {
        "type": "array",
        "minItems": 1,
        "items": {"type": "string", "minLength": 1}
      },
      "transitions": {
        "type": "object",
        "additionalProperties": {
          "type": "array",
          "items": {"type": "string", "minLength": 1}
        }
      },
      "initial": {"type": "string", "minLength": 1}
    }
  }
}`

const schemaName = "workflows.schema.json"

// fileWorkflow is the on-disk shape of a single workflow definition.
type fileWorkflow struct {
	Statuses    []string            `json:"statuses"`
	Transitions map[string][]string `json:"transitions"`
	Initial     string              `json:"initial"`
}

// Load reads a workflow definition file (JSONC) mapping entity kind to
// statuses, transitions and initial status. The file is validated against
// the embedded JSON Schema before decoding.
func Load(path string) (*Set, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path comes from config
	if err != nil {
		return nil, fmt.Errorf("reading workflow file: %w", err)
	}

	return Parse(data, path)
}

// Parse decodes workflow definitions from JSONC data. name is used in error
// messages only.
func Parse(data []byte, name string) (*Set, error) {
	standardized, err := hujson.Standardize(data)
	if err != nil {
		return nil, fmt.Errorf("workflow file %s: invalid JSONC: %w", name, err)
	}

	if err := validateSchema(standardized, name); err != nil {
		return nil, err
	}

	var raw map[string]fileWorkflow

	if err := json.Unmarshal(standardized, &raw); err != nil {
		return nil, fmt.Errorf("workflow file %s: invalid JSON: %w", name, err)
	}

	workflows := make(map[string]*Workflow, len(raw))

	for kind, def := range raw {
		w, err := New(kind, def.Statuses, def.Transitions, def.Initial)
		if err != nil {
			return nil, fmt.Errorf("workflow file %s: %w", name, err)
		}

		workflows[kind] = w
	}

	return &Set{workflows: workflows}, nil
}

func validateSchema(standardized []byte, name string) error {
	compiler := jsonschema.NewCompiler()

	addErr := compiler.AddResource(schemaName, strings.NewReader(fileSchema))
	if addErr != nil {
		return fmt.Errorf("loading workflow schema: %w", addErr)
	}

	schema, err := compiler.Compile(schemaName)
	if err != nil {
		return fmt.Errorf("compiling workflow schema: %w", err)
	}

	var doc any

	if err := json.Unmarshal(standardized, &doc); err != nil {
		return fmt.Errorf("workflow file %s: invalid JSON: %w", name, err)
	}

	if err := schema.Validate(doc); err != nil {
		return fmt.Errorf("workflow file %s: %w", name, err)
	}

	return nil
}
