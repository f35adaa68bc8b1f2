package extract

// OrderInfo holds the recognized header-level fields of a document. All
// fields are optional; an empty OrderInfo is a valid, expected state.
type OrderInfo struct {
	Fields Fields
}

// orderRules is the ordered-fallback rule table for header fields. Stricter
// label-anchored patterns come first; bare-shape fallbacks last.
var orderRules = RuleSet{
	rule(FieldOrderNumber,
		`(?i)\bP\.?\s?O\.?\s*[:#.]?\s*(\d[A-Z0-9/-]{2,})`,
		`(?i)\bpurchase\s+order\s+(?:number|no\.?|#)[ \t]*[:#.]?[ \t]*([A-Z0-9][A-Z0-9/-]{2,})`,
		`(?i)\bpurchase\s+order[ \t]*[:#.][ \t]*([A-Z0-9][A-Z0-9/-]{2,})`,
		`(?i)\binvoice\s+(?:number|no\.?|#)[ \t]*[:#.]?[ \t]*([A-Z0-9][A-Z0-9/-]{2,})`,
		`(?i)\binvoice[ \t]*[:#.][ \t]*([A-Z0-9][A-Z0-9/-]{2,})`,
		`(?i)\border\s*(?:number|no\.?|#)[ \t]*[:#.]?[ \t]*([A-Z0-9][A-Z0-9/-]{2,})`,
		`(?i)\breference[ \t]*[:#.]?[ \t]*([A-Z0-9][A-Z0-9/-]{2,})`,
	),
	rule(FieldOrderDate,
		`(?i)\b(?:order|invoice|issue)\s+date\s*[:.]?\s*(\d{1,2}[/.-]\d{1,2}[/.-]\d{2,4})`,
		`(?i)\bdate\s*[:.]?\s*(\d{1,2}[/.-]\d{1,2}[/.-]\d{2,4})`,
	),
	rule(FieldDeliveryDate,
		`(?i)\b(?:delivery|ship(?:ping)?|cancel)\s+date\s*[:.]?\s*(\d{1,2}[/.-]\d{1,2}[/.-]\d{2,4})`,
		`(?i)\bdeliver\s+by\s*[:.]?\s*(\d{1,2}[/.-]\d{1,2}[/.-]\d{2,4})`,
	),
	rule(FieldPaymentTerms,
		`(?i)\b(?:payment\s+terms?|terms?\s+of\s+payment)\s*[:.]?\s*([^\n]{2,60})`,
		`(?i)\b(\d{1,3}\s+days?(?:\s+net)?)\b`,
	),
	rule(FieldCurrency,
		`\b(EUR|USD|GBP|BRL|JPY|CNY)\b`,
		`(?i)currency\s*[:.]?\s*([A-Z]{3})\b`,
	),
	rule(FieldTotalAmount,
		`(?i)\b(?:grand\s+)?total\s*(?:amount|value)?\s*[:.]?\s*(?:[A-Z]{3}\s*)?([0-9][0-9.,]*[0-9]|[0-9])`,
		`(?i)\bamount\s+due\s*[:.]?\s*(?:[A-Z]{3}\s*)?([0-9][0-9.,]*[0-9]|[0-9])`,
	),
	rule(FieldTotalQuantity,
		`(?i)\btotal\s+(?:qty|quantity|pairs|units)\s*[:.]?\s*(\d{1,6})\b`,
		`(?i)\b(?:qty|quantity)\s+total\s*[:.]?\s*(\d{1,6})\b`,
	),
	rule(FieldCounterparty,
		`(?i)\b(?:supplier|vendor|manufacturer)\s*[:.]?\s*([A-Z][\w .&'-]{2,50})`,
		`(?i)\b(?:customer|client|bill\s+to|sold\s+to)\s*[:.]?\s*([A-Z][\w .&'-]{2,50})`,
	),
	rule(FieldDocumentType,
		`(?i)\b(order\s+confirmation)\b`,
		`(?i)\b(pro\s?forma\s+invoice|invoice)\b`,
		`(?i)\b(purchase\s+order)\b`,
		`(?i)\b(packing\s+list)\b`,
	),
}

// ExtractOrderInfo recovers header fields from full-document text. The call
// is total: it always returns an OrderInfo, with absent fields simply
// missing from the map.
func ExtractOrderInfo(text string) OrderInfo {
	return OrderInfo{Fields: orderRules.Extract(text)}
}
