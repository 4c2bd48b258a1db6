package routing

import (
	"net/http"

	"github.com/kyleking/supplier-api/internal/query"
)

// Endpoint is one row of the static route table
type Endpoint struct {
	Method      string
	Pattern     string
	Kind        query.Kind
	Description string
}

// Sibling literal and wildcard branches are never backtracked: once a literal
// segment matches, the wildcard sibling is not tried for the rest of the
// path. Patterns added here must keep literal subtrees and wildcard subtrees
// disjoint.
var endpoints = []Endpoint{
	{http.MethodGet, "/api/suppliers", query.KindListSuppliers, "List every supplier"},
	{http.MethodGet, "/api/suppliers/email", query.KindListSupplierEmails, "List supplier email addresses"},
	{http.MethodGet, "/api/suppliers/numbers", query.KindListSupplierNumbers, "List supplier phone numbers"},
	{http.MethodGet, "/api/suppliers/categories", query.KindListCategories, "List supply categories"},
	{http.MethodGet, "/api/supplier/{}", query.KindSupplierByID, "Supplier with contact, address, categories and rep"},
	{http.MethodGet, "/api/supplier/{}/name", query.KindSupplierNameByID, "Supplier name"},
	{http.MethodGet, "/api/supplier/id/{}", query.KindSupplierIDByName, "Supplier id for a percent-encoded name"},
	{http.MethodGet, "/api/supplier/{}/email", query.KindSupplierEmailByID, "Supplier email addresses"},
	{http.MethodGet, "/api/supplier/{}/numbers", query.KindSupplierNumbersByID, "Supplier phone numbers"},
	{http.MethodGet, "/api/supplier/{}/address", query.KindSupplierAddressByID, "Supplier address"},
	{http.MethodGet, "/api/supplier/{}/categories", query.KindSupplierCategoriesByID, "Categories a supplier supplies"},
	{http.MethodGet, "/api/supplier/{}/rep", query.KindSupplierRepByID, "Supplier representative with contact details"},
	{http.MethodGet, "/api/supplier/rep/email", query.KindListRepEmails, "List representative email addresses"},
	{http.MethodGet, "/api/supplier/rep/numbers", query.KindListRepNumbers, "List representative phone numbers"},
	{http.MethodGet, "/api/supplier/rep/{}", query.KindRepByID, "Representative with contact details"},
	{http.MethodGet, "/api/supplier/rep/{}/email", query.KindRepEmailByID, "Representative email addresses"},
	{http.MethodGet, "/api/supplier/rep/{}/numbers", query.KindRepNumbersByID, "Representative phone numbers"},
	{http.MethodPost, "/api/supplier", query.KindCreateSupplier, "Create a supplier, optionally with address, contact, rep and categories"},
	{http.MethodPost, "/api/supplier/rep", query.KindCreateRep, "Create a representative"},
	{http.MethodPost, "/api/address", query.KindCreateAddress, "Create an address"},
	{http.MethodPost, "/api/contact/email", query.KindCreateContactEmail, "Attach an email address to a contact"},
	{http.MethodPost, "/api/contact/numbers", query.KindCreateContactPhone, "Attach a phone number to a contact"},
}

// Endpoints returns a copy of the route table
func Endpoints() []Endpoint {
	return append([]Endpoint(nil), endpoints...)
}
