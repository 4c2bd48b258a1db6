// Package schema maps each descriptor kind to the column layout its rows
// are decoded with, and each create kind to the fields its body must carry.
package schema

import (
	"github.com/kyleking/supplier-api/internal/query"
	"github.com/kyleking/supplier-api/internal/table"
)

// JSON keys
const (
	FieldID         = "id"
	FieldName       = "name"
	FieldActive     = "active"
	FieldAddressID  = "addressId"
	FieldContactID  = "contactId"
	FieldRepID      = "repId"
	FieldEmail      = "email"
	FieldNumber     = "number"
	FieldLine1      = "line1"
	FieldLine2      = "line2"
	FieldTown       = "town"
	FieldCouncil    = "council"
	FieldPostcode   = "postcode"
	FieldTitle      = "title"
	FieldTitleID    = "titleId"
	FieldFirstName  = "firstName"
	FieldLastName   = "lastName"
	FieldCategory   = "category"
	FieldAddress    = "address"
	FieldContact    = "contact"
	FieldNumbers    = "numbers"
	FieldRep        = "rep"
	FieldCategories = "categories"
)

// Ordinals read by composite fetches
const (
	SupplierAddressIDColumn  = 3
	SupplierContactIDColumn  = 4
	SupplierRepIDColumn      = 5
	RepContactIDColumn       = 4
	RepDetailContactIDColumn = 3

	// ValueColumn is the email or number column of a contact listing
	ValueColumn = 1
)

func col(ordinal int, field string, kind table.Kind, notNull bool) table.ColumnSpec {
	return table.ColumnSpec{Ordinal: ordinal, Field: field, Kind: kind, NotNull: notNull}
}

func insertCol(ordinal int, field, column string, kind table.Kind, required bool) table.ColumnSpec {
	return table.ColumnSpec{Ordinal: ordinal, Field: field, Column: column, Kind: kind, NotNull: required}
}

// Supplier is one row of the supplier table
func Supplier() table.Schema {
	return table.Schema{
		col(0, FieldID, table.KindInteger, true),
		col(1, FieldName, table.KindString, true),
		col(2, FieldActive, table.KindBoolean, true),
		col(3, FieldAddressID, table.KindInteger, false),
		col(4, FieldContactID, table.KindInteger, true),
		col(5, FieldRepID, table.KindInteger, false),
	}
}

// Email is an owner id with one email address
func Email() table.Schema {
	return table.Schema{
		col(0, FieldID, table.KindInteger, true),
		col(1, FieldEmail, table.KindString, true),
	}
}

// Numbers is an owner id with one phone number
func Numbers() table.Schema {
	return table.Schema{
		col(0, FieldID, table.KindInteger, true),
		col(1, FieldNumber, table.KindString, true),
	}
}

func ID() table.Schema {
	return table.Schema{col(0, FieldID, table.KindInteger, true)}
}

func Name() table.Schema {
	return table.Schema{col(0, FieldName, table.KindString, true)}
}

func Address() table.Schema {
	return table.Schema{
		col(0, FieldID, table.KindInteger, true),
		col(1, FieldLine1, table.KindString, true),
		col(2, FieldLine2, table.KindString, false),
		col(3, FieldTown, table.KindString, true),
		col(4, FieldCouncil, table.KindString, false),
		col(5, FieldPostcode, table.KindString, true),
	}
}

// Rep is a representative as reached from its supplier
func Rep() table.Schema {
	return table.Schema{
		col(0, FieldID, table.KindInteger, true),
		col(1, FieldTitle, table.KindString, false),
		col(2, FieldFirstName, table.KindString, true),
		col(3, FieldLastName, table.KindString, true),
		col(4, FieldContactID, table.KindInteger, true),
	}
}

// RepDetail is a representative fetched by its own id
func RepDetail() table.Schema {
	return table.Schema{
		col(0, FieldTitle, table.KindString, false),
		col(1, FieldFirstName, table.KindString, true),
		col(2, FieldLastName, table.KindString, true),
		col(3, FieldContactID, table.KindInteger, true),
	}
}

func Categories() table.Schema {
	return table.Schema{
		col(0, FieldID, table.KindInteger, true),
		col(1, FieldCategory, table.KindString, true),
	}
}

// Read returns the row layout for kind. Kinds without a read query yield an
// empty schema.
func Read(kind query.Kind) table.Schema {
	switch kind {
	case query.KindListSuppliers, query.KindSupplierByID:
		return Supplier()
	case query.KindListSupplierEmails, query.KindSupplierEmailByID,
		query.KindListRepEmails, query.KindRepEmailByID, query.KindContactEmails:
		return Email()
	case query.KindListSupplierNumbers, query.KindSupplierNumbersByID,
		query.KindListRepNumbers, query.KindRepNumbersByID, query.KindContactNumbers:
		return Numbers()
	case query.KindListCategories, query.KindSupplierCategoriesByID:
		return Categories()
	case query.KindSupplierNameByID:
		return Name()
	case query.KindSupplierIDByName:
		return ID()
	case query.KindSupplierAddressByID:
		return Address()
	case query.KindSupplierRepByID:
		return Rep()
	case query.KindRepByID:
		return RepDetail()
	}

	return table.Schema{}
}

// Insert returns the body fields accepted by a create kind. Generated keys
// are not part of it. NotNull marks a required field.
func Insert(kind query.Kind) table.Schema {
	switch kind {
	case query.KindCreateSupplier:
		return table.Schema{
			insertCol(0, FieldName, "name", table.KindString, true),
			insertCol(1, FieldActive, "active", table.KindBoolean, true),
		}
	case query.KindCreateAddress:
		return table.Schema{
			insertCol(0, FieldLine1, "line1", table.KindString, true),
			insertCol(1, FieldLine2, "line2", table.KindString, false),
			insertCol(2, FieldTown, "town", table.KindString, true),
			insertCol(3, FieldCouncil, "council", table.KindString, false),
			insertCol(4, FieldPostcode, "postcode", table.KindString, true),
		}
	case query.KindCreateRep:
		return table.Schema{
			insertCol(0, FieldTitleID, "fk_person_title", table.KindInteger, false),
			insertCol(1, FieldFirstName, "first_name", table.KindString, true),
			insertCol(2, FieldLastName, "last_name", table.KindString, true),
		}
	case query.KindCreateContactEmail:
		return table.Schema{
			insertCol(0, FieldContactID, "fk_contact", table.KindInteger, true),
			insertCol(1, FieldEmail, "email", table.KindString, true),
		}
	case query.KindCreateContactPhone:
		return table.Schema{
			insertCol(0, FieldContactID, "fk_contact", table.KindInteger, true),
			insertCol(1, FieldNumber, "number", table.KindString, true),
		}
	}

	return table.Schema{}
}
