// Package recipe compiles declarative YAML rule files into transforms.
//
// A recipe is a list of rules. Each rule selects nodes of one kind, narrowed
// by optional filters, and applies one action to every match. Rules run in
// order, each one seeing the tree left by the previous.
package recipe

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/xeipuuv/gojsonschema"
	"gopkg.in/yaml.v3"
)

// Actions a rule can take.
const (
	ActionReport          = "report"
	ActionRemove          = "remove"
	ActionReplaceArgument = "replace-argument"
	ActionReplaceSource   = "replace-source"
	ActionRename          = "rename"
)

var (
	// ErrInvalidRecipe is returned for documents that fail schema validation
	// or cannot be compiled.
	ErrInvalidRecipe = errors.New("invalid recipe")

	errEmptyDocument = errors.New("empty document")
)

//go:embed recipe.schema.json
var schemaJSON []byte

// Schema returns the JSON Schema recipe documents are validated against.
func Schema() []byte {
	return schemaJSON
}

// Recipe is a named list of rules.
type Recipe struct {
	Name        string `json:"name"                  yaml:"name"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
	Rules       []Rule `json:"rules"                 yaml:"rules"`
}

// Rule selects nodes and applies an action to each.
type Rule struct {
	// Kind is the node kind to select, e.g. CallExpression.
	Kind string `json:"kind" yaml:"kind"`

	// Filters. Unset filters match everything.
	Callee   string  `json:"callee,omitempty"   yaml:"callee,omitempty"`
	Args     *int    `json:"args,omitempty"     yaml:"args,omitempty"`
	Argument *string `json:"argument,omitempty" yaml:"argument,omitempty"`
	Index    int     `json:"index,omitempty"    yaml:"index,omitempty"`
	Source   *string `json:"source,omitempty"   yaml:"source,omitempty"`
	Name     string  `json:"name,omitempty"     yaml:"name,omitempty"`
	Inside   string  `json:"inside,omitempty"   yaml:"inside,omitempty"`

	Action  string `json:"action"            yaml:"action"`
	Value   string `json:"value,omitempty"   yaml:"value,omitempty"`
	Message string `json:"message,omitempty" yaml:"message,omitempty"`
}

// Load reads and validates the recipe file at path.
func Load(path string) (*Recipe, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read recipe: %w", err)
	}

	rcp, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return rcp, nil
}

// Parse validates a YAML recipe document against the schema and decodes it.
func Parse(data []byte) (*Recipe, error) {
	var doc any

	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidRecipe, err)
	}

	if doc == nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidRecipe, errEmptyDocument)
	}

	if err := validate(doc); err != nil {
		return nil, err
	}

	var rcp Recipe

	if err := yaml.Unmarshal(data, &rcp); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidRecipe, err)
	}

	return &rcp, nil
}

func validate(doc any) error {
	result, err := gojsonschema.Validate(
		gojsonschema.NewBytesLoader(schemaJSON),
		gojsonschema.NewGoLoader(doc),
	)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidRecipe, err)
	}

	if result.Valid() {
		return nil
	}

	problems := make([]string, 0, len(result.Errors()))
	for _, verr := range result.Errors() {
		problems = append(problems, verr.Field()+": "+verr.Description())
	}

	return fmt.Errorf("%w: %s", ErrInvalidRecipe, strings.Join(problems, "; "))
}
