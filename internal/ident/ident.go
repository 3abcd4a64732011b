// Package ident generates the prefixed identifiers used for documents and rows.
//
// Identifiers are TypeIDs ("prefix_suffix"), UUIDv7 based and K-sortable, so
// ids generated in a tight loop stay distinct and sort by creation order.
package ident

import (
	"fmt"

	"go.jetify.com/typeid/v2"
)

// Kind identifies what an identifier names
type Kind string

const (
	KindDocument Kind = "inv" // Invoice document
	KindItem     Kind = "li"  // Standard line item
	KindHourly   Kind = "hr"  // Hourly service line
)

// New returns a fresh identifier for the given kind.
// It panics if kind is not a valid TypeID prefix, which is a programming error.
func New(kind Kind) string {
	tid, err := typeid.Generate(string(kind))
	if err != nil {
		panic(fmt.Sprintf("ident: invalid kind %q: %v", kind, err))
	}
	return tid.String()
}

// KindOf parses an identifier and returns its kind
func KindOf(s string) (Kind, error) {
	if s == "" {
		return "", fmt.Errorf("ident: parse %q: empty string", s)
	}
	tid, err := typeid.Parse(s)
	if err != nil {
		return "", fmt.Errorf("ident: parse %q: %w", s, err)
	}
	return Kind(tid.Prefix()), nil
}

// Is reports whether s is a well-formed identifier of the given kind
func Is(s string, kind Kind) bool {
	k, err := KindOf(s)
	return err == nil && k == kind
}
