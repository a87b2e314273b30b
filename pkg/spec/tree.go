package spec

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/paperfig/paperfig/pkg/errors"
)

// Tree is the root mapping of figure ids to spec entries.
// Entry order defines execution order and survives load/save round-trips.
type Tree struct {
	root *Object
}

// NewTree creates an empty tree.
func NewTree() *Tree {
	return &Tree{root: NewObject()}
}

// Load reads and parses the spec file at path.
//
// It fails with SPEC_NOT_FOUND if the path does not exist, PARSE_ERROR if the
// content is not valid JSON, and VALIDATION_ERROR if the root is not an
// object. Schema validation beyond the root shape is separate; see
// [Tree.Validate].
func Load(path string) (*Tree, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New(errors.ErrCodeSpecNotFound, "", "spec file does not exist: %s", path)
		}
		return nil, errors.Wrap(errors.ErrCodeIO, "", err, "open spec file %s", path)
	}
	defer f.Close()

	t, err := Parse(f)
	if err != nil {
		if e := errors.GetCode(err); e != "" {
			return nil, err
		}
		return nil, errors.Wrap(errors.ErrCodeParse, "", err, "parse spec file %s", path)
	}
	return t, nil
}

// Parse decodes a spec tree from r. The root must be a JSON object mapping
// id to figure spec.
func Parse(r io.Reader) (*Tree, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeIO, "", err, "read spec")
	}
	if !json.Valid(data) {
		return nil, errors.New(errors.ErrCodeParse, "", "spec is not valid JSON")
	}

	root := NewObject()
	if err := json.Unmarshal(data, root); err != nil {
		// Valid JSON that fails object decoding has a non-object root.
		return nil, errors.New(errors.ErrCodeValidation, "", "root of spec must be an object mapping id to figure spec")
	}
	return &Tree{root: root}, nil
}

// Save serializes the tree back to path as indented JSON, preserving entry
// order and all fields, including ones unrecognized by the schema.
func (t *Tree) Save(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(errors.ErrCodeIO, "", err, "create spec file %s", path)
	}
	defer f.Close()

	if err := t.root.WriteIndented(f); err != nil {
		return errors.Wrap(errors.ErrCodeIO, "", err, "write spec file %s", path)
	}
	return nil
}

// IDs returns the top-level figure ids in spec order.
func (t *Tree) IDs() []string {
	return t.root.Keys()
}

// Len returns the number of top-level entries.
func (t *Tree) Len() int {
	return t.root.Len()
}

// Figure returns the entry with the given id.
func (t *Tree) Figure(id string) (*Figure, bool) {
	obj, ok := t.root.Object(id)
	if !ok {
		return nil, false
	}
	return NewFigure(id, obj), true
}

// Figures returns all top-level entries in spec order.
// Entries whose value is not an object are skipped; Validate reports them.
func (t *Tree) Figures() []*Figure {
	figs := make([]*Figure, 0, t.root.Len())
	for _, id := range t.root.Keys() {
		if fig, ok := t.Figure(id); ok {
			figs = append(figs, fig)
		}
	}
	return figs
}

// Set inserts or replaces the entry with the given id.
func (t *Tree) Set(id string, fields *Object) {
	t.root.Set(id, fields)
}

// Root exposes the underlying ordered object, mainly for round-trip tests.
func (t *Tree) Root() *Object {
	return t.root
}

// Validate type-checks the tree against the spec schema.
//
// Every entry must be an object with a string "type". Multi entries
// additionally need a "figures" object whose values are objects with their
// own string "type", and must carry "row" and "column" keys (presence only;
// the integer check happens at use time via [Figure.Grid]). A nested multi
// inside "figures" is rejected: deeper nesting is unsupported.
func (t *Tree) Validate() error {
	for _, id := range t.root.Keys() {
		obj, ok := t.root.Object(id)
		if !ok {
			return errors.New(errors.ErrCodeValidation, id, "spec must be an object")
		}
		if err := validateFigure(id, obj); err != nil {
			return err
		}
	}
	return nil
}

func validateFigure(id string, obj *Object) error {
	typ, ok := obj.String(FieldType)
	if !ok {
		return errors.New(errors.ErrCodeValidation, id, "must have a string %q field", FieldType)
	}
	if typ != TypeMulti {
		return nil
	}

	figs, ok := obj.Object(FieldFigures)
	if !ok {
		return errors.New(errors.ErrCodeValidation, id, "%q requires a %q object", TypeMulti, FieldFigures)
	}
	for _, sub := range figs.Keys() {
		subObj, ok := figs.Object(sub)
		if !ok {
			return errors.New(errors.ErrCodeValidation, id, "sub-figure %q must be an object", sub)
		}
		subType, ok := subObj.String(FieldType)
		if !ok {
			return errors.New(errors.ErrCodeValidation, id, "sub-figure %q must have a string %q field", sub, FieldType)
		}
		if subType == TypeMulti {
			return errors.New(errors.ErrCodeValidation, id, "sub-figure %q: nested %q figures are not supported", sub, TypeMulti)
		}
	}
	for _, key := range []string{FieldRow, FieldColumn} {
		if !obj.Has(key) {
			return errors.New(errors.ErrCodeValidation, id, "%q requires %q", TypeMulti, key)
		}
	}
	return nil
}

// MarshalJSON encodes the tree in spec order.
func (t *Tree) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.root)
}

// UnmarshalJSON decodes the tree, preserving entry order.
func (t *Tree) UnmarshalJSON(data []byte) error {
	root := NewObject()
	if err := json.Unmarshal(data, root); err != nil {
		return fmt.Errorf("decode spec tree: %w", err)
	}
	t.root = root
	return nil
}
