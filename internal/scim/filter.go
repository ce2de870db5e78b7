package scim

import (
	"github.com/elimity-com/scim/filter"
)

// Predicate reports whether a user belongs in a list response. A nil
// Predicate matches every user.
type Predicate func(*User) bool

// FilterPredicate narrows a list by the filter the protocol server already
// parsed and validated against the core User schema.
func FilterPredicate(v *filter.Validator) Predicate {
	if v == nil {
		return nil
	}
	return func(u *User) bool {
		return v.PassesFilter(u.attributes()) == nil
	}
}
