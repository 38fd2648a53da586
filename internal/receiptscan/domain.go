// Package receiptscan extracts structured receipt data from photos using a
// hosted vision model. The model adapter is deliberately thin: one call, one
// JSON document back, lenient decoding.
package receiptscan

// ParsedLineItem is one purchasable item read off a receipt.
type ParsedLineItem struct {
	Description string  `json:"description"`
	Amount      float64 `json:"amount"`
	Category    string  `json:"category,omitempty"`
}

// ParsedTaxLine is one tax charge read off a receipt.
type ParsedTaxLine struct {
	Description string  `json:"description"`
	Amount      float64 `json:"amount"`
}

// Result is the full extraction for one receipt image. Fields the model
// could not read stay at their zero value.
type Result struct {
	Vendor    string           `json:"vendor,omitempty"`
	Date      string           `json:"date,omitempty"`
	Currency  string           `json:"currency,omitempty"`
	LineItems []ParsedLineItem `json:"line_items"`
	TaxLines  []ParsedTaxLine  `json:"tax_lines"`
	Subtotal  *float64         `json:"subtotal,omitempty"`
	Total     *float64         `json:"total,omitempty"`
	Tip       *float64         `json:"tip,omitempty"`
}
