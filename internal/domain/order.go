package domain

import (
	"net/url"
	"sort"
)

// Order-form field names.
const (
	FieldHoneypot     = "website"
	FieldCustomerType = "customer_type"
	FieldName         = "name"
	FieldBusiness     = "business"
	FieldLocation     = "location"
	FieldPhone        = "phone"
	FieldEmail        = "email"
	FieldItems        = "items"
	FieldDelivery     = "delivery"
	FieldPreferredDay = "preferred_day"
	FieldMessage      = "message"
)

// IsSpam reports whether the hidden honeypot field was filled in.
// Real visitors never see it, so any value at all, whitespace included,
// marks a bot.
func IsSpam(fields url.Values) bool {
	return fields.Get(FieldHoneypot) != ""
}

// Payload is the JSON body sent to an order webhook. A value is a string, or
// a []string when the field was submitted more than once (checkbox groups).
type Payload map[string]any

// BuildPayload collapses submitted fields into a Payload. Fields named in
// exclude are skipped. Repeated values keep their submission order.
func BuildPayload(fields url.Values, exclude ...string) Payload {
	skip := make(map[string]bool, len(exclude))
	for _, name := range exclude {
		skip[name] = true
	}

	p := make(Payload, len(fields))
	for key, values := range fields {
		if skip[key] || len(values) == 0 {
			continue
		}
		if len(values) == 1 {
			p[key] = values[0]
			continue
		}
		list := make([]string, len(values))
		copy(list, values)
		p[key] = list
	}
	return p
}

// values returns the values for key as a slice regardless of arity.
func (p Payload) values(key string) []string {
	switch v := p[key].(type) {
	case string:
		return []string{v}
	case []string:
		return v
	default:
		return nil
	}
}

// Without returns a copy of fields minus the named keys.
func Without(fields url.Values, names ...string) url.Values {
	out := make(url.Values, len(fields))
	for key, values := range fields {
		out[key] = append([]string(nil), values...)
	}
	for _, name := range names {
		delete(out, name)
	}
	return out
}

// SortedKeys returns the field names in lexical order.
func SortedKeys(fields url.Values) []string {
	keys := make([]string, 0, len(fields))
	for key := range fields {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
