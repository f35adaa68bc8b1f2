// Package extract recovers typed order and product fields from noisy OCR
// text. Every field is looked up through an ordered list of alternative
// patterns; the first match wins. Extraction is total: a field that no
// pattern matches is simply absent, never an error, and absence is
// distinguishable from an empty value.
package extract

// Field names recovered at the order (header) level.
const (
	FieldOrderNumber   = "order_number"
	FieldOrderDate     = "order_date"
	FieldDeliveryDate  = "delivery_date"
	FieldPaymentTerms  = "payment_terms"
	FieldCurrency      = "currency"
	FieldTotalAmount   = "total_amount"
	FieldTotalQuantity = "total_quantity"
	FieldCounterparty  = "counterparty"
	FieldDocumentType  = "document_type"
)

// Field names recovered per product section.
const (
	FieldProductCode = "product_code"
	FieldStyle       = "style"
	FieldColor       = "color"
	FieldBrand       = "brand"
	FieldSeason      = "season"
	FieldWholesale   = "wholesale_price"
	FieldRetail      = "retail_price"
	FieldCategory    = "category"
	FieldOrigin      = "origin"
)

// Fields is a presence-aware field map. A missing key means "unknown", which
// downstream consumers must never conflate with an empty string.
type Fields map[string]string

// Get returns the field value and whether it was extracted.
func (f Fields) Get(name string) (string, bool) {
	v, ok := f[name]
	return v, ok
}

// GetOr returns the field value, or def when the field is absent.
func (f Fields) GetOr(name, def string) string {
	if v, ok := f[name]; ok {
		return v
	}
	return def
}

// Has reports whether the field was extracted.
func (f Fields) Has(name string) bool {
	_, ok := f[name]
	return ok
}

// Clone returns a shallow copy.
func (f Fields) Clone() Fields {
	out := make(Fields, len(f))
	for k, v := range f {
		out[k] = v
	}
	return out
}
