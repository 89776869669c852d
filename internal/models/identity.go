package models

// IdentityKind discriminates the two identity result shapes.
type IdentityKind string

const (
	// IdentityName is a resolved display name for the number.
	IdentityName IdentityKind = "name"
	// IdentitySearch is a raw search-engine result set for the number.
	IdentitySearch IdentityKind = "search"
)

// SearchItem is one search-engine hit for a phone number.
type SearchItem struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	Snippet string `json:"snippet"`
}

// Identity is the result of one lookup strategy. Kind selects which
// fields are meaningful: Name for IdentityName, Count/Items for
// IdentitySearch. Source always names the strategy that produced it.
type Identity struct {
	Kind   IdentityKind `json:"kind"`
	Name   string       `json:"name,omitempty"`
	Count  string       `json:"count,omitempty"`
	Items  []SearchItem `json:"items,omitempty"`
	Source string       `json:"source"`
}
