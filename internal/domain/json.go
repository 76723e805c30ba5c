package domain

import (
	"encoding/json"
	"sort"
)

// Two historical on-disk shapes exist for custom fields: a map keyed by
// field name on each address, and top-level fromCustomFields/toCustomFields
// arrays on the invoice. Both are accepted on load and folded into the
// canonical ordered per-address lists. Marshalling always emits the
// canonical shape.

type addressAlias Address

type addressWire struct {
	addressAlias
	CustomFields json.RawMessage `json:"customFields,omitempty"`
}

// UnmarshalJSON accepts customFields as either the canonical ordered list
// or the legacy name-to-value map. Map entries are ordered by key, the only
// stable order a map can offer.
func (a *Address) UnmarshalJSON(data []byte) error {
	var wire addressWire
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}
	*a = Address(wire.addressAlias)
	a.CustomFields = nil

	if len(wire.CustomFields) == 0 {
		return nil
	}

	var list []CustomField
	if err := json.Unmarshal(wire.CustomFields, &list); err == nil {
		a.CustomFields = list
		return nil
	}

	var legacy map[string]string
	if err := json.Unmarshal(wire.CustomFields, &legacy); err != nil {
		return err
	}
	keys := make([]string, 0, len(legacy))
	for k := range legacy {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		a.CustomFields = append(a.CustomFields, CustomField{Key: k, Value: legacy[k]})
	}
	return nil
}

type invoiceAlias Invoice

type invoiceWire struct {
	invoiceAlias

	// Legacy top-level custom field arrays, folded into From/To on load.
	FromCustomFields []legacyField `json:"fromCustomFields,omitempty"`
	ToCustomFields   []legacyField `json:"toCustomFields,omitempty"`

	// Legacy aliases for the date fields.
	Date    string `json:"date,omitempty"`
	DueDate string `json:"dueDate,omitempty"`
}

// legacyField tolerates both {key,value} and the older {type,value} shape.
type legacyField struct {
	Key   string `json:"key"`
	Type  string `json:"type"`
	Value string `json:"value"`
}

func (f legacyField) canonical() CustomField {
	key := f.Key
	if key == "" {
		key = f.Type
	}
	return CustomField{Key: key, Value: f.Value}
}

// UnmarshalJSON migrates legacy invoice records to the canonical schema.
func (inv *Invoice) UnmarshalJSON(data []byte) error {
	var wire invoiceWire
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}
	*inv = Invoice(wire.invoiceAlias)

	for _, f := range wire.FromCustomFields {
		inv.From.CustomFields = append(inv.From.CustomFields, f.canonical())
	}
	for _, f := range wire.ToCustomFields {
		inv.To.CustomFields = append(inv.To.CustomFields, f.canonical())
	}

	if inv.DateIssued == "" {
		inv.DateIssued = wire.Date
	}
	if inv.DateDue == "" {
		inv.DateDue = wire.DueDate
	}
	if inv.Items == nil {
		inv.Items = []LineItem{}
	}
	return nil
}
