package assembler

import (
	"math"

	"github.com/kyleking/supplier-api/internal/errors"
	"github.com/kyleking/supplier-api/internal/query"
)

const supplierColumns = "id, name, active, fk_address, fk_contact, fk_supply_rep"

const (
	listSuppliersSQL = "SELECT " + supplierColumns + " FROM supplier ORDER BY id"
	supplierByIDSQL  = "SELECT " + supplierColumns + " FROM supplier WHERE id = ?"

	listSupplierEmailsSQL  = "SELECT supplier_id, email FROM view_suppliers_email ORDER BY supplier_id, email"
	listSupplierNumbersSQL = "SELECT supplier_id, number FROM view_suppliers_numbers ORDER BY supplier_id, number"
	supplierEmailByIDSQL   = "SELECT supplier_id, email FROM view_suppliers_email WHERE supplier_id = ? ORDER BY email"
	supplierNumbersByIDSQL = "SELECT supplier_id, number FROM view_suppliers_numbers WHERE supplier_id = ? ORDER BY number"

	listRepEmailsSQL  = "SELECT supply_rep_id, email FROM view_supply_rep_email ORDER BY supply_rep_id, email"
	listRepNumbersSQL = "SELECT supply_rep_id, number FROM view_supply_rep_numbers ORDER BY supply_rep_id, number"
	repEmailByIDSQL   = "SELECT supply_rep_id, email FROM view_supply_rep_email WHERE supply_rep_id = ? ORDER BY email"
	repNumbersByIDSQL = "SELECT supply_rep_id, number FROM view_supply_rep_numbers WHERE supply_rep_id = ? ORDER BY number"

	contactEmailsSQL  = "SELECT contact_id, email FROM view_contact_email WHERE contact_id = ? ORDER BY email"
	contactNumbersSQL = "SELECT contact_id, number FROM view_contact_numbers WHERE contact_id = ? ORDER BY number"

	listCategoriesSQL         = "SELECT id, type FROM supply_categories ORDER BY id"
	supplierCategoriesByIDSQL = `SELECT c.id, c.type
		FROM supply_categories AS c
		JOIN supplier_supplies AS ss ON ss.fk_supply_category = c.id
		WHERE ss.fk_supplier = ?
		ORDER BY c.id`

	supplierNameByIDSQL = "SELECT name FROM supplier WHERE id = ?"
	supplierIDByNameSQL = "SELECT id FROM supplier WHERE name = ?"

	addressColumns         = "a.id, a.line1, a.line2, a.town, a.council, a.postcode"
	addressByIDSQL         = "SELECT " + addressColumns + " FROM address AS a WHERE a.id = ?"
	supplierAddressByIDSQL = "SELECT " + addressColumns + ` FROM address AS a
		JOIN supplier AS s ON s.fk_address = a.id
		WHERE s.id = ?`

	repColumns    = "r.id, t.title, r.first_name, r.last_name, r.fk_contact"
	repByRepIDSQL = "SELECT " + repColumns + ` FROM supply_rep AS r
		LEFT JOIN person_title AS t ON t.id = r.fk_person_title
		WHERE r.id = ?`

	supplierRepByIDSQL = "SELECT " + repColumns + ` FROM supply_rep AS r
		JOIN supplier AS s ON s.fk_supply_rep = r.id
		LEFT JOIN person_title AS t ON t.id = r.fk_person_title
		WHERE s.id = ?`

	repDetailByIDSQL = `SELECT t.title, r.first_name, r.last_name, r.fk_contact
		FROM supply_rep AS r
		LEFT JOIN person_title AS t ON t.id = r.fk_person_title
		WHERE r.id = ?`
)

// idArg converts an id for binding. SQLite rowids are signed, so an id above
// math.MaxInt64 can never match and is bound as -1.
func idArg(id uint64) int64 {
	if id > math.MaxInt64 {
		return -1
	}

	return int64(id)
}

// statement renders the SQL text and bound arguments for a read descriptor
func statement(d query.Descriptor) (string, []any, error) {
	switch d := d.(type) {
	case query.ListSuppliers:
		return listSuppliersSQL, nil, nil
	case query.ListSupplierEmails:
		return listSupplierEmailsSQL, nil, nil
	case query.ListSupplierNumbers:
		return listSupplierNumbersSQL, nil, nil
	case query.ListCategories:
		return listCategoriesSQL, nil, nil
	case query.ListRepEmails:
		return listRepEmailsSQL, nil, nil
	case query.ListRepNumbers:
		return listRepNumbersSQL, nil, nil
	case query.SupplierByID:
		return supplierByIDSQL, []any{idArg(d.ID)}, nil
	case query.SupplierNameByID:
		return supplierNameByIDSQL, []any{idArg(d.ID)}, nil
	case query.SupplierIDByName:
		return supplierIDByNameSQL, []any{d.Name}, nil
	case query.SupplierEmailByID:
		return supplierEmailByIDSQL, []any{idArg(d.ID)}, nil
	case query.SupplierNumbersByID:
		return supplierNumbersByIDSQL, []any{idArg(d.ID)}, nil
	case query.SupplierAddressByID:
		return supplierAddressByIDSQL, []any{idArg(d.ID)}, nil
	case query.SupplierCategoriesByID:
		return supplierCategoriesByIDSQL, []any{idArg(d.ID)}, nil
	case query.SupplierRepByID:
		return supplierRepByIDSQL, []any{idArg(d.ID)}, nil
	case query.RepByID:
		return repDetailByIDSQL, []any{idArg(d.ID)}, nil
	case query.RepEmailByID:
		return repEmailByIDSQL, []any{idArg(d.ID)}, nil
	case query.RepNumbersByID:
		return repNumbersByIDSQL, []any{idArg(d.ID)}, nil
	case query.ContactEmails:
		return contactEmailsSQL, []any{idArg(d.ContactID)}, nil
	case query.ContactNumbers:
		return contactNumbersSQL, []any{idArg(d.ContactID)}, nil
	}

	return "", nil, errors.Newf(errors.ErrTypeNotImplemented, "no query for %s", d.Kind())
}
