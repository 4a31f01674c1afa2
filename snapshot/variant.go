package snapshot

import "strings"

// Variant is the tree kind tag reported by the tree service.
type Variant string

const (
	VariantBinary   Variant = "binary"
	VariantRedBlack Variant = "red_black"
	VariantSplay    Variant = "splay"
)

// Variants are the tags the reference service can host.
var Variants = []Variant{VariantBinary, VariantRedBlack, VariantSplay}

// ParseVariant normalizes a type tag. Snapshot fetches may report the tag
// with a "_tree" suffix ("red_black_tree"); list entries do not. Unknown tags
// are returned as-is and are never decorated.
func ParseVariant(s string) Variant {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.TrimSuffix(s, "_tree")
	return Variant(s)
}

func (v Variant) IsRedBlack() bool {
	return v == VariantRedBlack
}

func (v Variant) String() string {
	return string(v)
}
