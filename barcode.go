package main

import "strings"

// BarcodeKind classifies what entity a scanned code refers to.
type BarcodeKind int

const (
	KindUnknown BarcodeKind = iota
	KindUnit
	KindOrder
	KindMaterial
	KindSet
	KindLegacyUnit
	KindLegacyOrder
)

func (k BarcodeKind) String() string {
	switch k {
	case KindUnit:
		return "unit"
	case KindOrder:
		return "order"
	case KindMaterial:
		return "material"
	case KindSet:
		return "set"
	case KindLegacyUnit:
		return "legacy_unit"
	case KindLegacyOrder:
		return "legacy_order"
	}
	return "unknown"
}

// BarcodeRef is a classified scan: the kind plus the value after the
// prefix (or the whole code for legacy prefix-less barcodes).
type BarcodeRef struct {
	Kind  BarcodeKind
	Value string
}

// Prefixes printed on current labels, plus the long forms from the first
// label generation that are still in circulation.
var barcodePrefixes = map[string]BarcodeKind{
	"D":   KindUnit,
	"ORD": KindOrder,
	"T":   KindMaterial,
	"S":   KindSet,
	"IZD": KindUnit,
	"ITM": KindMaterial,
	"SET": KindSet,
}

// classifyBarcode turns a raw scanned string into a BarcodeRef. It never
// fails: anything unrecognizable comes back as KindUnknown. Prefix-less
// all-digit codes are legacy labels: 9 digits is a unit, any other length
// an order.
func classifyBarcode(raw string) BarcodeRef {
	code := strings.ToUpper(strings.TrimSpace(raw))

	if i := strings.Index(code, "-"); i >= 0 {
		if kind, ok := barcodePrefixes[code[:i]]; ok {
			return BarcodeRef{Kind: kind, Value: code[i+1:]}
		}
		// Unknown prefix: fall through and judge the whole string.
	}

	if isDigits(code) {
		if len(code) == 9 {
			return BarcodeRef{Kind: KindLegacyUnit, Value: code}
		}
		return BarcodeRef{Kind: KindLegacyOrder, Value: code}
	}

	return BarcodeRef{Kind: KindUnknown, Value: code}
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
