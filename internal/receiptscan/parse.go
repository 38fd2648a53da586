package receiptscan

import (
	"encoding/json"
	"strings"
)

// decodeModelOutput pulls the JSON document out of a model reply and decodes
// it. Models occasionally wrap the document in prose or code fences; the
// slice between the first '{' and the last '}' is taken as the document.
// Undecodable replies degrade to an empty Result.
func decodeModelOutput(reply string) Result {
	start := strings.Index(reply, "{")
	end := strings.LastIndex(reply, "}")
	if start == -1 || end <= start {
		return emptyResult()
	}

	var result Result
	if err := json.Unmarshal([]byte(reply[start:end+1]), &result); err != nil {
		return emptyResult()
	}
	if result.LineItems == nil {
		result.LineItems = []ParsedLineItem{}
	}
	if result.TaxLines == nil {
		result.TaxLines = []ParsedTaxLine{}
	}
	return result
}

func emptyResult() Result {
	return Result{LineItems: []ParsedLineItem{}, TaxLines: []ParsedTaxLine{}}
}
