package receiptscan

import "testing"

func TestDecodeModelOutputPlainJSON(t *testing.T) {
	reply := `{"vendor":"Taqueria El Paso","date":"2026-08-01","currency":"MXN","line_items":[{"description":"Tacos al pastor","amount":85.0,"category":"food"},{"description":"Horchata","amount":30.0,"category":"drink"}],"tax_lines":[{"description":"IVA","amount":18.4}],"subtotal":115.0,"total":133.4,"tip":null}`
	result := decodeModelOutput(reply)
	if result.Vendor != "Taqueria El Paso" {
		t.Fatalf("unexpected vendor %q", result.Vendor)
	}
	if len(result.LineItems) != 2 {
		t.Fatalf("expected 2 line items got %d", len(result.LineItems))
	}
	if result.LineItems[1].Category != "drink" {
		t.Fatalf("unexpected category %q", result.LineItems[1].Category)
	}
	if result.Total == nil || *result.Total != 133.4 {
		t.Fatalf("unexpected total %v", result.Total)
	}
	if result.Tip != nil {
		t.Fatalf("expected nil tip got %v", *result.Tip)
	}
}

func TestDecodeModelOutputTinyReplyWithProse(t *testing.T) {
	reply := "Here is the extracted data:\n```json\n{\"vendor\":\"Corner Cafe\",\"line_items\":[{\"description\":\"Coffee\",\"amount\":4.5}]}\n```\nLet me know if you need anything else."
	result := decodeModelOutput(reply)
	if result.Vendor != "Corner Cafe" {
		t.Fatalf("unexpected vendor %q", result.Vendor)
	}
	if len(result.LineItems) != 1 || result.LineItems[0].Amount != 4.5 {
		t.Fatalf("unexpected line items %+v", result.LineItems)
	}
}

func TestDecodeModelOutputNoJSON(t *testing.T) {
	result := decodeModelOutput("I could not read this image.")
	if result.Vendor != "" || result.Total != nil {
		t.Fatalf("expected empty result got %+v", result)
	}
	if result.LineItems == nil || result.TaxLines == nil {
		t.Fatalf("expected empty slices, not nil")
	}
}

func TestDecodeModelOutputMalformedJSON(t *testing.T) {
	result := decodeModelOutput(`{"vendor": "Broken`)
	if result.Vendor != "" {
		t.Fatalf("expected empty result got %+v", result)
	}
}
