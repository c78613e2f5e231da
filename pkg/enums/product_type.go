package enums

import "fmt"

// ProductType distinguishes how a product is priced and stocked.
type ProductType string

const (
	// ProductTypeSimple is a directly sellable product with its own stock.
	ProductTypeSimple ProductType = "simple"
	// ProductTypeMaster sells through generated variants, never itself.
	ProductTypeMaster ProductType = "master"
	// ProductTypeBundle aggregates component products with quantities.
	ProductTypeBundle ProductType = "bundle"
)

var validProductTypes = []ProductType{
	ProductTypeSimple,
	ProductTypeMaster,
	ProductTypeBundle,
}

// String implements fmt.Stringer.
func (p ProductType) String() string {
	return string(p)
}

// IsValid reports whether the value is a known ProductType.
func (p ProductType) IsValid() bool {
	for _, candidate := range validProductTypes {
		if candidate == p {
			return true
		}
	}
	return false
}

// ParseProductType converts raw input into a ProductType.
func ParseProductType(value string) (ProductType, error) {
	for _, candidate := range validProductTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid product type %q", value)
}
