package renderer

import (
	"plugin"
	"strings"

	"github.com/paperfig/paperfig/pkg/errors"
	"github.com/paperfig/paperfig/pkg/spec"
)

// AddressSeparator is the reserved separator in dynamically addressed type
// names of the form "path/to/plugin.so:Symbol".
const AddressSeparator = ":"

// IsAddress reports whether typeName is a dynamic renderer address.
func IsAddress(typeName string) bool {
	return strings.Contains(typeName, AddressSeparator)
}

// LoadAddress resolves a dynamic renderer address by opening the plugin file
// and fetching the named symbol. The symbol may be a Renderer value, a
// pointer to one, or a function with the renderer signature.
func LoadAddress(typeName string) (Renderer, error) {
	path, symbol, _ := strings.Cut(typeName, AddressSeparator)

	p, err := plugin.Open(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeResolution, "", err, "load renderer plugin %q", path)
	}
	sym, err := p.Lookup(symbol)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeResolution, "", err, "renderer %q has no symbol %q", path, symbol)
	}

	switch v := sym.(type) {
	case Renderer:
		return v, nil
	case *Renderer:
		return *v, nil
	case func(string, *spec.Object, int) (any, error):
		return Renderer(v), nil
	default:
		return nil, errors.New(errors.ErrCodeResolution, "", "symbol %q in %q is not a renderer", symbol, path)
	}
}
