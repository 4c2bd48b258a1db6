package routing

import (
	"github.com/kyleking/supplier-api/internal/errors"
	"github.com/kyleking/supplier-api/internal/query"
)

// Status is the result category of a resolution
type Status int

const (
	// Malformed paths are empty or not absolute
	Malformed Status = iota
	// NotAPI paths are outside the /api namespace
	NotAPI
	// APIRoot is /api itself
	APIRoot
	// InvalidURI paths are inside /api but match no endpoint
	InvalidURI
	// Matched paths resolved to an endpoint
	Matched
)

func (s Status) String() string {
	switch s {
	case Malformed:
		return "malformed"
	case NotAPI:
		return "not_api"
	case APIRoot:
		return "api_root"
	case InvalidURI:
		return "invalid_uri"
	case Matched:
		return "matched"
	default:
		return "unknown"
	}
}

// Outcome is what Resolve found. Kind and Captured are set only when Status
// is Matched.
type Outcome struct {
	Status   Status
	Kind     query.Kind
	Captured []string
}

// Route resolves path, checks the request method and binds the matched kind.
// The outcome is returned alongside so callers can render non-API and root
// paths; the descriptor is nil unless Status is Matched and err is nil.
func (t *Tree) Route(method, path string, body []byte) (query.Descriptor, Outcome, error) {
	out := t.Resolve(path)

	switch out.Status {
	case Malformed, InvalidURI:
		return nil, out, errors.NewInvalidURIError(path)
	case NotAPI, APIRoot:
		return nil, out, nil
	}

	// The method is checked first so a body is never demanded of a read
	if err := query.CheckMethod(out.Kind, method); err != nil {
		return nil, out, err
	}

	d, err := query.Bind(out.Kind, out.Captured, body)
	if err != nil {
		return nil, out, err
	}

	return d, out, nil
}
