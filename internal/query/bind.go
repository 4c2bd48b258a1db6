package query

import (
	"bytes"
	"net/url"
	"strconv"

	"github.com/tidwall/gjson"

	"github.com/kyleking/supplier-api/internal/errors"
)

// Bind instantiates kind from the values captured by route resolution, in
// capture order. Mutating kinds take the request body instead of captures.
// Every failure is an invalid_uri error.
func Bind(kind Kind, captured []string, body []byte) (Descriptor, error) {
	if !kind.Valid() {
		return nil, errors.Newf(errors.ErrTypeNotImplemented, "no descriptor for kind %d", int(kind))
	}

	switch kind.Params() {
	case ParamsNone:
		if len(captured) != 0 {
			return nil, errors.Newf(errors.ErrTypeInvalidURI, "%s takes no path values, got %d", kind, len(captured))
		}

		return bindNone(kind)
	case ParamsID:
		if len(captured) != 1 {
			return nil, errors.Newf(errors.ErrTypeInvalidURI, "%s takes one id, got %d path values", kind, len(captured))
		}

		id, err := ParseID(captured[0])
		if err != nil {
			return nil, err
		}

		return WithID(kind, id)
	case ParamsName:
		if len(captured) != 1 {
			return nil, errors.Newf(errors.ErrTypeInvalidURI, "%s takes one name, got %d path values", kind, len(captured))
		}

		name, err := DecodeSegment(captured[0])
		if err != nil {
			return nil, err
		}

		return SupplierIDByName{Name: name}, nil
	case ParamsBody:
		if len(captured) != 0 {
			return nil, errors.Newf(errors.ErrTypeInvalidURI, "%s takes no path values, got %d", kind, len(captured))
		}

		payload, err := ParseBody(body)
		if err != nil {
			return nil, err
		}

		return bindBody(kind, payload)
	}

	return nil, errors.Newf(errors.ErrTypeNotImplemented, "no binding for %s", kind)
}

// ParseID parses an unsigned decimal id
func ParseID(raw string) (uint64, error) {
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, errors.Wrapf(err, errors.ErrTypeInvalidURI, "id is not an unsigned integer: %q", raw)
	}

	return id, nil
}

// DecodeSegment percent-decodes one path segment. '+' is kept literally and a
// malformed escape is rejected.
func DecodeSegment(raw string) (string, error) {
	decoded, err := url.PathUnescape(raw)
	if err != nil {
		return "", errors.Wrapf(err, errors.ErrTypeInvalidURI, "malformed escape in path segment %q", raw)
	}

	return decoded, nil
}

// ParseBody validates and parses a JSON request body
func ParseBody(body []byte) (gjson.Result, error) {
	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		return gjson.Result{}, errors.New(errors.ErrTypeInvalidURI, "request body is required")
	}

	if !gjson.ValidBytes(body) {
		return gjson.Result{}, errors.New(errors.ErrTypeInvalidURI, "request body is not valid JSON")
	}

	return gjson.ParseBytes(body), nil
}

func bindNone(kind Kind) (Descriptor, error) {
	switch kind {
	case KindListSuppliers:
		return ListSuppliers{}, nil
	case KindListSupplierEmails:
		return ListSupplierEmails{}, nil
	case KindListSupplierNumbers:
		return ListSupplierNumbers{}, nil
	case KindListCategories:
		return ListCategories{}, nil
	case KindListRepEmails:
		return ListRepEmails{}, nil
	case KindListRepNumbers:
		return ListRepNumbers{}, nil
	}

	return nil, errors.Newf(errors.ErrTypeNotImplemented, "no binding for %s", kind)
}

// WithID builds an id-carrying descriptor of the given kind
func WithID(kind Kind, id uint64) (Descriptor, error) {
	switch kind {
	case KindSupplierByID:
		return SupplierByID{ID: id}, nil
	case KindSupplierNameByID:
		return SupplierNameByID{ID: id}, nil
	case KindSupplierEmailByID:
		return SupplierEmailByID{ID: id}, nil
	case KindSupplierNumbersByID:
		return SupplierNumbersByID{ID: id}, nil
	case KindSupplierAddressByID:
		return SupplierAddressByID{ID: id}, nil
	case KindSupplierCategoriesByID:
		return SupplierCategoriesByID{ID: id}, nil
	case KindSupplierRepByID:
		return SupplierRepByID{ID: id}, nil
	case KindRepByID:
		return RepByID{ID: id}, nil
	case KindRepEmailByID:
		return RepEmailByID{ID: id}, nil
	case KindRepNumbersByID:
		return RepNumbersByID{ID: id}, nil
	case KindContactEmails:
		return ContactEmails{ContactID: id}, nil
	case KindContactNumbers:
		return ContactNumbers{ContactID: id}, nil
	}

	return nil, errors.Newf(errors.ErrTypeNotImplemented, "%s does not take an id", kind)
}

func bindBody(kind Kind, body gjson.Result) (Descriptor, error) {
	switch kind {
	case KindCreateSupplier:
		return CreateSupplier{Body: body}, nil
	case KindCreateRep:
		return CreateRep{Body: body}, nil
	case KindCreateAddress:
		return CreateAddress{Body: body}, nil
	case KindCreateContactEmail:
		return CreateContactEmail{Body: body}, nil
	case KindCreateContactPhone:
		return CreateContactPhone{Body: body}, nil
	}

	return nil, errors.Newf(errors.ErrTypeNotImplemented, "%s does not take a body", kind)
}

// CheckMethod rejects a request method kind does not accept
func CheckMethod(kind Kind, method string) error {
	if want := kind.Method(); method != want {
		return errors.Newf(errors.ErrTypeInvalidURI, "%s requires %s, got %s", kind, want, method)
	}

	return nil
}
