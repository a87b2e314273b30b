package spec

import (
	"encoding/json"

	"github.com/paperfig/paperfig/pkg/errors"
)

// TypeMulti is the reserved type discriminator for composite figures whose
// children are rendered independently and tiled into one page.
const TypeMulti = "multi"

// Reserved field names of the spec schema. Everything else in an entry is an
// open bag of renderer-specific fields passed through opaquely.
const (
	FieldType    = "type"
	FieldFigures = "figures"
	FieldRow     = "row"
	FieldColumn  = "column"
)

// Figure is a typed view over one spec entry: an id plus its ordered fields.
type Figure struct {
	id     string
	fields *Object
}

// NewFigure wraps an entry object as a figure view.
func NewFigure(id string, fields *Object) *Figure {
	return &Figure{id: id, fields: fields}
}

// ID returns the figure id at its nesting level.
func (f *Figure) ID() string { return f.id }

// Fields returns the ordered field bag, including schema-unknown fields.
func (f *Figure) Fields() *Object { return f.fields }

// Type returns the string type discriminator, if present.
func (f *Figure) Type() (string, bool) {
	return f.fields.String(FieldType)
}

// IsMulti reports whether this entry is a composite figure.
func (f *Figure) IsMulti() bool {
	t, ok := f.Type()
	return ok && t == TypeMulti
}

// Grid returns the row/column grid dimensions of a multi figure.
// The integer type check happens here, at use time; Validate only checks
// that the keys are present.
func (f *Figure) Grid() (row, column int, err error) {
	row, err = f.intField(FieldRow)
	if err != nil {
		return 0, 0, err
	}
	column, err = f.intField(FieldColumn)
	if err != nil {
		return 0, 0, err
	}
	return row, column, nil
}

// Subfigures returns the ordered children of a multi figure.
func (f *Figure) Subfigures() ([]*Figure, error) {
	figs, ok := f.fields.Object(FieldFigures)
	if !ok {
		return nil, errors.New(errors.ErrCodeValidation, f.id, "%q requires a %q object", TypeMulti, FieldFigures)
	}
	subs := make([]*Figure, 0, figs.Len())
	for _, id := range figs.Keys() {
		obj, ok := figs.Object(id)
		if !ok {
			return nil, errors.New(errors.ErrCodeValidation, f.id, "sub-figure %q must be an object", id)
		}
		subs = append(subs, NewFigure(id, obj))
	}
	return subs, nil
}

// intField reads an integer-valued field, accepting json.Number from decoded
// specs and native ints from programmatically built ones.
func (f *Figure) intField(key string) (int, error) {
	v, ok := f.fields.Get(key)
	if !ok {
		return 0, errors.New(errors.ErrCodeValidation, f.id, "%q requires %q", TypeMulti, key)
	}
	switch n := v.(type) {
	case int:
		return n, nil
	case int64:
		return int(n), nil
	case json.Number:
		i, err := n.Int64()
		if err != nil {
			return 0, errors.New(errors.ErrCodeValidation, f.id, "%q must be an integer, got %s", key, n)
		}
		return int(i), nil
	default:
		return 0, errors.New(errors.ErrCodeValidation, f.id, "%q must be an integer", key)
	}
}
