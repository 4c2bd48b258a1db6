package testutil

import "encoding/json"

// SupplierOption is a functional option for configuring a create-supplier body
type SupplierOption func(map[string]any)

// WithName sets the supplier name
func WithName(name string) SupplierOption {
	return func(b map[string]any) {
		b["name"] = name
	}
}

// WithActive sets the active flag
func WithActive(active bool) SupplierOption {
	return func(b map[string]any) {
		b["active"] = active
	}
}

// WithEmails sets contact.email, as a string for one value and an array otherwise
func WithEmails(emails ...string) SupplierOption {
	return func(b map[string]any) {
		contactOf(b)["email"] = oneOrMany(emails)
	}
}

// WithNumbers sets contact.numbers, as a string for one value and an array otherwise
func WithNumbers(numbers ...string) SupplierOption {
	return func(b map[string]any) {
		contactOf(b)["numbers"] = oneOrMany(numbers)
	}
}

// WithAddress sets the nested address
func WithAddress(line1, town, postcode string) SupplierOption {
	return func(b map[string]any) {
		b["address"] = map[string]any{"line1": line1, "town": town, "postcode": postcode}
	}
}

// WithRep sets the nested representative. A zero titleID leaves the title unset.
func WithRep(titleID int, firstName, lastName string) SupplierOption {
	return func(b map[string]any) {
		rep := map[string]any{"firstName": firstName, "lastName": lastName}
		if titleID != 0 {
			rep["titleId"] = titleID
		}

		b["rep"] = rep
	}
}

// WithCategories sets the category ids
func WithCategories(ids ...int) SupplierOption {
	return func(b map[string]any) {
		b["categories"] = ids
	}
}

// Without removes a top-level field, for missing-field cases
func Without(field string) SupplierOption {
	return func(b map[string]any) {
		delete(b, field)
	}
}

// NewSupplierBody builds a create-supplier request body with sensible defaults
// and applies any provided options.
func NewSupplierBody(opts ...SupplierOption) string {
	body := map[string]any{
		"name":   TestSupplierName,
		"active": true,
	}

	for _, opt := range opts {
		opt(body)
	}

	out, err := json.Marshal(body)
	if err != nil {
		panic(err)
	}

	return string(out)
}

func contactOf(b map[string]any) map[string]any {
	c, ok := b["contact"].(map[string]any)
	if !ok {
		c = map[string]any{}
		b["contact"] = c
	}

	return c
}

func oneOrMany(values []string) any {
	if len(values) == 1 {
		return values[0]
	}

	return values
}
