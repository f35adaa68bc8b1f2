package extract

import "strings"

// ProductSection is the text span describing one product line plus the
// fields recovered from it.
type ProductSection struct {
	Text   string
	Fields Fields
}

// productRules is the ordered-fallback rule table for per-product fields.
var productRules = RuleSet{
	rule(FieldStyle,
		`(?i)\bstyle\s*(?:no\.?|#)?\s*[:.]?\s*([A-Z0-9][A-Z0-9-]{1,15})`,
		`(?i)\bmodel\s*[:.]?\s*([A-Z0-9][A-Z0-9-]{1,15})`,
	),
	rule(FieldBrand,
		`(?i)\bbrand\s*[:.]?\s*([A-Z][\w .&'-]{1,30})`,
		`(?i)\blabel\s*[:.]?\s*([A-Z][\w .&'-]{1,30})`,
	),
	rule(FieldSeason,
		`(?i)\bseason\s*[:.]?\s*([A-Z0-9/ ]{2,12})`,
		`\b((?:SS|FW|AW|PE|AI)\s?\d{2})\b`,
	),
	rule(FieldWholesale,
		`(?i)\bwholesale(?:\s+price)?\s*[:.]?\s*(?:[A-Z]{3}\s*)?([0-9][0-9.,]*[0-9]|[0-9])`,
		`(?i)\bw/?sale\s*[:.]?\s*(?:[A-Z]{3}\s*)?([0-9][0-9.,]*[0-9]|[0-9])`,
		`(?i)\bunit\s+price\s*[:.]?\s*(?:[A-Z]{3}\s*)?([0-9][0-9.,]*[0-9]|[0-9])`,
	),
	rule(FieldRetail,
		`(?i)\bretail(?:\s+price)?\s*[:.]?\s*(?:[A-Z]{3}\s*)?([0-9][0-9.,]*[0-9]|[0-9])`,
		`(?i)\b(?:SRP|RRP)\s*[:.]?\s*(?:[A-Z]{3}\s*)?([0-9][0-9.,]*[0-9]|[0-9])`,
	),
	rule(FieldCategory,
		`(?i)\bcategory\s*[:.]?\s*([A-Z][\w /-]{1,25})`,
		`(?i)\b(sneakers?|boots?|sandals?|loafers?|pumps?|mules?)\b`,
	),
	rule(FieldOrigin,
		`(?i)\b(?:origin|made\s+in)\s*[:.]?\s*([A-Z][A-Za-z ]{1,25})`,
	),
}

// ExtractProductInfo recovers product attributes from one section span. The
// section's lead line supplies product code and color; the rule table covers
// the labeled fields. Always returns a section, possibly with few fields.
func ExtractProductInfo(section string) ProductSection {
	fields := productRules.Extract(section)

	lead := section
	if i := strings.IndexByte(section, '\n'); i >= 0 {
		lead = section[:i]
	}
	if m := leadCodeColor.FindStringSubmatch(lead); m != nil {
		fields[FieldProductCode] = m[1]
		fields[FieldColor] = strings.TrimSpace(m[2])
	} else if m := leadCode.FindStringSubmatch(lead); m != nil {
		fields[FieldProductCode] = m[1]
	} else if m := codeShape.FindString(section); m != "" {
		fields[FieldProductCode] = m
	}

	// The style identifier defaults to the product code when unlabeled.
	if !fields.Has(FieldStyle) {
		if code, ok := fields.Get(FieldProductCode); ok {
			fields[FieldStyle] = code
		}
	}

	return ProductSection{Text: section, Fields: fields}
}
