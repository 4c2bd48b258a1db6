package assembler

import (
	"context"
	"net/http"
	"strings"

	"github.com/kyleking/supplier-api/internal/errors"
	"github.com/kyleking/supplier-api/internal/logging"
	"github.com/kyleking/supplier-api/internal/query"
	"github.com/kyleking/supplier-api/internal/schema"
	"github.com/kyleking/supplier-api/internal/table"
)

// Envelope is the JSON document every API response is rendered as. A read
// that finds nothing has Success false and no Payload.
type Envelope struct {
	Code    int    `json:"code"`
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Payload any    `json:"payload,omitempty"`
}

// Empty is the envelope for a read without rows
func Empty() *Envelope {
	return &Envelope{Code: http.StatusOK}
}

// Failure renders err with the status it maps to
func Failure(err error) *Envelope {
	return &Envelope{Code: errors.HTTPStatus(err), Message: errors.Message(err)}
}

// Projection returns the shape a read kind is rendered in
func Projection(kind query.Kind) table.Projection {
	switch kind {
	case query.KindSupplierEmailByID, query.KindSupplierNumbersByID,
		query.KindRepEmailByID, query.KindRepNumbersByID,
		query.KindContactEmails, query.KindContactNumbers:
		return table.AsColumn(schema.ValueColumn)
	case query.KindSupplierNameByID, query.KindSupplierIDByName, query.KindSupplierAddressByID:
		return table.AsObject()
	}

	return table.AsTable()
}

// Fetch resolves a read descriptor into its envelope. Detail descriptors are
// composed from several queries; the rest are a single projected query.
func Fetch(ctx context.Context, q Querier, d query.Descriptor) (*Envelope, error) {
	if d.Kind().Mutating() {
		return nil, errors.Newf(errors.ErrTypeNotImplemented, "%s is not a read", d.Kind())
	}

	var env *Envelope

	err := logging.FromContext(ctx).TrackOperation(d.Kind().String(), func() error {
		var err error

		switch d := d.(type) {
		case query.SupplierByID:
			env, err = supplierDocument(ctx, q, d.ID)
		case query.SupplierRepByID:
			env, err = repDocument(ctx, q, d, schema.RepContactIDColumn)
		case query.RepByID:
			env, err = repDocument(ctx, q, d, schema.RepDetailContactIDColumn)
		default:
			env, err = single(ctx, q, d)
		}

		return err
	})
	if err != nil {
		return nil, err
	}

	return env, nil
}

func single(ctx context.Context, q Querier, d query.Descriptor) (*Envelope, error) {
	result, err := Run(ctx, q, d)
	if err != nil {
		return nil, err
	}

	if result.Empty() {
		return Empty(), nil
	}

	return &Envelope{Code: http.StatusOK, Success: true, Payload: result.Project(Projection(d.Kind()))}, nil
}

// document is a payload under construction. Keys are only set when there is
// data for them.
type document map[string]any

// set stores value at a dotted path, creating intermediate objects
func (doc document) set(path string, value any) {
	keys := strings.Split(path, ".")
	node := map[string]any(doc)

	for _, key := range keys[:len(keys)-1] {
		child, ok := node[key].(map[string]any)
		if !ok {
			child = make(map[string]any)
			node[key] = child
		}

		node = child
	}

	node[keys[len(keys)-1]] = value
}

// splice projects t into path unless t is empty
func (doc document) splice(path string, t *table.Table, p table.Projection) {
	if t.Empty() {
		return
	}

	doc.set(path, t.Project(p))
}

// foreignKey reads an id from the first row of t
func foreignKey(t *table.Table, column int) (uint64, bool) {
	id, ok := t.Cell(0, column).Int()
	if !ok || id < 0 {
		return 0, false
	}

	return uint64(id), true
}

// without returns obj minus the named fields
func without(obj map[string]any, fields ...string) map[string]any {
	for _, f := range fields {
		delete(obj, f)
	}

	return obj
}

// contact splices the emails and numbers of a contact under prefix
func (doc document) contact(ctx context.Context, q Querier, prefix string, contactID uint64) error {
	emails, err := Run(ctx, q, query.ContactEmails{ContactID: contactID})
	if err != nil {
		return err
	}

	numbers, err := Run(ctx, q, query.ContactNumbers{ContactID: contactID})
	if err != nil {
		return err
	}

	doc.splice(prefix+schema.FieldEmail, emails, Projection(query.KindContactEmails))
	doc.splice(prefix+schema.FieldNumbers, numbers, Projection(query.KindContactNumbers))

	return nil
}

func supplierDocument(ctx context.Context, q Querier, id uint64) (*Envelope, error) {
	primary, err := Run(ctx, q, query.SupplierByID{ID: id})
	if err != nil {
		return nil, err
	}

	if primary.Empty() {
		return Empty(), nil
	}

	row := primary.Object()
	doc := document{
		schema.FieldID:     row[schema.FieldID],
		schema.FieldName:   row[schema.FieldName],
		schema.FieldActive: row[schema.FieldActive],
	}

	if contactID, ok := foreignKey(primary, schema.SupplierContactIDColumn); ok {
		if err := doc.contact(ctx, q, schema.FieldContact+".", contactID); err != nil {
			return nil, err
		}
	}

	if addressID, ok := foreignKey(primary, schema.SupplierAddressIDColumn); ok {
		address, err := fetch(ctx, q, "address-by-id", schema.Address(), addressByIDSQL, idArg(addressID))
		if err != nil {
			return nil, err
		}

		if !address.Empty() {
			doc.set(schema.FieldAddress, without(address.Object(), schema.FieldID))
		}
	}

	categories, err := Run(ctx, q, query.SupplierCategoriesByID{ID: id})
	if err != nil {
		return nil, err
	}

	doc.splice(schema.FieldCategories, categories, table.AsTable())

	if repID, ok := foreignKey(primary, schema.SupplierRepIDColumn); ok {
		rep, err := fetch(ctx, q, "rep-by-rep-id", schema.Rep(), repByRepIDSQL, idArg(repID))
		if err != nil {
			return nil, err
		}

		if !rep.Empty() {
			doc.set(schema.FieldRep, without(rep.Object(), schema.FieldID, schema.FieldContactID))

			if contactID, ok := foreignKey(rep, schema.RepContactIDColumn); ok {
				if err := doc.contact(ctx, q, schema.FieldRep+"."+schema.FieldContact+".", contactID); err != nil {
					return nil, err
				}
			}
		}
	}

	return &Envelope{Code: http.StatusOK, Success: true, Payload: map[string]any(doc)}, nil
}

// repDocument renders a representative with its contact details. contactColumn
// is the ordinal of the contact id in the descriptor's schema.
func repDocument(ctx context.Context, q Querier, d query.Descriptor, contactColumn int) (*Envelope, error) {
	rep, err := Run(ctx, q, d)
	if err != nil {
		return nil, err
	}

	if rep.Empty() {
		return Empty(), nil
	}

	doc := document(without(rep.Object(), schema.FieldID, schema.FieldContactID))

	if contactID, ok := foreignKey(rep, contactColumn); ok {
		if err := doc.contact(ctx, q, schema.FieldContact+".", contactID); err != nil {
			return nil, err
		}
	}

	return &Envelope{Code: http.StatusOK, Success: true, Payload: map[string]any(doc)}, nil
}
