package assembler

import (
	"context"
	"database/sql"
	"fmt"
	"math"
	"net/http"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/kyleking/supplier-api/internal/errors"
	"github.com/kyleking/supplier-api/internal/logging"
	"github.com/kyleking/supplier-api/internal/query"
	"github.com/kyleking/supplier-api/internal/schema"
	"github.com/kyleking/supplier-api/internal/table"
)

// InsertedMessage is the message of every successful write
const InsertedMessage = "Insertion success"

// Beginner starts transactions. *sql.DB satisfies it.
type Beginner interface {
	BeginTx(ctx context.Context, opts *sql.TxOptions) (*sql.Tx, error)
}

// Insert performs a create descriptor in one transaction and reports the id
// of the row it created.
func Insert(ctx context.Context, db Beginner, d query.Descriptor) (*Envelope, error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrTypeConnection, "failed to begin transaction")
	}

	defer func() { _ = tx.Rollback() }()

	w := &writer{ctx: ctx, tx: tx}

	var id int64

	switch d := d.(type) {
	case query.CreateSupplier:
		id, err = w.supplier(d.Body)
	case query.CreateRep:
		id, err = w.rep(d.Body)
	case query.CreateAddress:
		id, err = w.address(d.Body)
	case query.CreateContactEmail:
		id, err = w.contactValue(d.Body, query.KindCreateContactEmail, emailLink)
	case query.CreateContactPhone:
		id, err = w.contactValue(d.Body, query.KindCreateContactPhone, numberLink)
	default:
		return nil, errors.Newf(errors.ErrTypeNotImplemented, "%s is not a write", d.Kind())
	}

	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, errors.Wrap(err, errors.ErrTypeSubmission, "failed to commit insert")
	}

	logging.FromContext(ctx).WithFields(map[string]any{
		"operation": d.Kind().String(),
		"id":        id,
	}).Info("Inserted row")

	return &Envelope{
		Code:    http.StatusCreated,
		Success: true,
		Message: InsertedMessage,
		Payload: map[string]any{schema.FieldID: id},
	}, nil
}

// link describes a contact detail table and the join table tying it to a
// contact.
type link struct {
	field     string
	table     string
	column    string
	joinTable string
	joinKey   string
}

var (
	emailLink  = link{schema.FieldEmail, "emails", "email", "contact_email", "fk_email_addresses"}
	numberLink = link{schema.FieldNumber, "phone_numbers", "number", "contact_phone", "fk_phone_number"}
)

type writer struct {
	ctx context.Context
	tx  *sql.Tx
}

// insert renders and executes an INSERT. Table and column names never come
// from the request.
func (w *writer) insert(tableName string, columns []string, values []any) (int64, error) {
	text := "INSERT INTO " + tableName + " DEFAULT VALUES"
	if len(columns) > 0 {
		placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(columns)), ", ")
		text = fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)", tableName, strings.Join(columns, ", "), placeholders)
	}

	res, err := w.tx.ExecContext(w.ctx, text, values...)
	if err != nil {
		return 0, errors.Wrapf(err, errors.ErrTypeSubmission, "failed to insert into %s", tableName)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, errors.Wrapf(err, errors.ErrTypeSubmission, "failed to read id inserted into %s", tableName)
	}

	return id, nil
}

// setForeignKey points a foreign-key column of a parent row at a child
func (w *writer) setForeignKey(tableName, column string, parentID, childID int64) error {
	text := fmt.Sprintf("UPDATE %s SET %s = ? WHERE id = ?", tableName, column)
	if _, err := w.tx.ExecContext(w.ctx, text, childID, parentID); err != nil {
		return errors.Wrapf(err, errors.ErrTypeSubmission, "failed to update %s.%s", tableName, column)
	}

	return nil
}

// fields extracts the columns of layout from body. Missing nullable fields
// are left out of the insert.
func fields(body gjson.Result, layout table.Schema) ([]string, []any, error) {
	if !body.IsObject() {
		return nil, nil, errors.New(errors.ErrTypeSubmission, "body must be a JSON object")
	}

	columns := make([]string, 0, len(layout))
	values := make([]any, 0, len(layout))

	for _, col := range layout {
		r := body.Get(col.Field)
		if !present(r) {
			if col.NotNull {
				return nil, nil, errors.Newf(errors.ErrTypeSubmission, "missing required field %q", col.Field)
			}

			continue
		}

		v, ok := jsonValue(r, col.Kind)
		if !ok {
			return nil, nil, errors.Newf(errors.ErrTypeSubmission, "field %q must be %s", col.Field, col.Kind)
		}

		columns = append(columns, col.Column)
		values = append(values, v.Interface())
	}

	return columns, values, nil
}

// present reports whether an optional section was given; null counts as absent
func present(r gjson.Result) bool {
	return r.Exists() && r.Type != gjson.Null
}

// jsonValue coerces a JSON value to kind without any string parsing
func jsonValue(r gjson.Result, kind table.Kind) (table.Value, bool) {
	switch kind {
	case table.KindString:
		if r.Type == gjson.String {
			return table.String(r.Str), true
		}
	case table.KindInteger:
		if r.Type == gjson.Number && r.Num == math.Trunc(r.Num) &&
			r.Num >= math.MinInt64 && r.Num < -math.MinInt64 {
			return table.Integer(r.Int()), true
		}
	case table.KindFloat:
		if r.Type == gjson.Number {
			return table.Float(r.Num), true
		}
	case table.KindBoolean:
		if r.Type == gjson.True || r.Type == gjson.False {
			return table.Boolean(r.Bool()), true
		}
	}

	return table.Null(), false
}

// stringList accepts one string or an array of strings
func stringList(r gjson.Result, field string) ([]string, error) {
	if r.Type == gjson.String {
		return []string{r.Str}, nil
	}

	if !r.IsArray() {
		return nil, errors.Newf(errors.ErrTypeSubmission, "field %q must be a string or an array of strings", field)
	}

	var out []string

	for _, item := range r.Array() {
		if item.Type != gjson.String {
			return nil, errors.Newf(errors.ErrTypeSubmission, "field %q must contain only strings", field)
		}

		out = append(out, item.Str)
	}

	return out, nil
}

func (w *writer) address(body gjson.Result) (int64, error) {
	columns, values, err := fields(body, schema.Insert(query.KindCreateAddress))
	if err != nil {
		return 0, err
	}

	return w.insert("address", columns, values)
}

// rep creates a representative with a fresh contact, plus any nested contact
// details.
func (w *writer) rep(body gjson.Result) (int64, error) {
	columns, values, err := fields(body, schema.Insert(query.KindCreateRep))
	if err != nil {
		return 0, err
	}

	contactID, err := w.insert("contact", nil, nil)
	if err != nil {
		return 0, err
	}

	repID, err := w.insert("supply_rep", append(columns, "fk_contact"), append(values, contactID))
	if err != nil {
		return 0, err
	}

	if c := body.Get(schema.FieldContact); present(c) {
		if err := w.contactDetails(contactID, c); err != nil {
			return 0, err
		}
	}

	return repID, nil
}

// addValue stores one email or number and links it to a contact
func (w *writer) addValue(contactID int64, l link, value string) (int64, error) {
	valueID, err := w.insert(l.table, []string{l.column}, []any{value})
	if err != nil {
		return 0, err
	}

	if _, err := w.insert(l.joinTable, []string{l.joinKey, "fk_contact"}, []any{valueID, contactID}); err != nil {
		return 0, err
	}

	return valueID, nil
}

// contactDetails stores the email and numbers of a nested contact section
func (w *writer) contactDetails(contactID int64, c gjson.Result) error {
	if !c.IsObject() {
		return errors.Newf(errors.ErrTypeSubmission, "field %q must be an object", schema.FieldContact)
	}

	sections := []struct {
		key string
		l   link
	}{
		{schema.FieldEmail, emailLink},
		{schema.FieldNumbers, numberLink},
	}

	for _, section := range sections {
		r := c.Get(section.key)
		if !present(r) {
			continue
		}

		values, err := stringList(r, section.key)
		if err != nil {
			return err
		}

		for _, v := range values {
			if _, err := w.addValue(contactID, section.l, v); err != nil {
				return err
			}
		}
	}

	return nil
}

// contactValue handles the standalone email and number creates
func (w *writer) contactValue(body gjson.Result, kind query.Kind, l link) (int64, error) {
	layout := schema.Insert(kind)

	_, values, err := fields(body, layout)
	if err != nil {
		return 0, err
	}

	contactID, _ := values[layout.Index(schema.FieldContactID)].(int64)
	value, _ := values[layout.Index(l.field)].(string)

	return w.addValue(contactID, l, value)
}

func (w *writer) supplier(body gjson.Result) (int64, error) {
	columns, values, err := fields(body, schema.Insert(query.KindCreateSupplier))
	if err != nil {
		return 0, err
	}

	contactID, err := w.insert("contact", nil, nil)
	if err != nil {
		return 0, err
	}

	supplierID, err := w.insert("supplier", append(columns, "fk_contact"), append(values, contactID))
	if err != nil {
		return 0, err
	}

	if a := body.Get(schema.FieldAddress); present(a) {
		addressID, err := w.address(a)
		if err != nil {
			return 0, err
		}

		if err := w.setForeignKey("supplier", "fk_address", supplierID, addressID); err != nil {
			return 0, err
		}
	}

	if c := body.Get(schema.FieldContact); present(c) {
		if err := w.contactDetails(contactID, c); err != nil {
			return 0, err
		}
	}

	if r := body.Get(schema.FieldRep); present(r) {
		repID, err := w.rep(r)
		if err != nil {
			return 0, err
		}

		if err := w.setForeignKey("supplier", "fk_supply_rep", supplierID, repID); err != nil {
			return 0, err
		}
	}

	if cats := body.Get(schema.FieldCategories); present(cats) {
		if err := w.categories(supplierID, cats); err != nil {
			return 0, err
		}
	}

	return supplierID, nil
}

// categories links a supplier to existing supply categories by id
func (w *writer) categories(supplierID int64, cats gjson.Result) error {
	if !cats.IsArray() {
		return errors.Newf(errors.ErrTypeSubmission, "field %q must be an array of category ids", schema.FieldCategories)
	}

	for _, c := range cats.Array() {
		v, ok := jsonValue(c, table.KindInteger)
		if !ok {
			return errors.Newf(errors.ErrTypeSubmission, "field %q must contain only integer ids", schema.FieldCategories)
		}

		categoryID, _ := v.Int()
		if _, err := w.insert("supplier_supplies", []string{"fk_supplier", "fk_supply_category"},
			[]any{supplierID, categoryID}); err != nil {
			return err
		}
	}

	return nil
}
