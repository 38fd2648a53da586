package main

import (
	"regexp"
	"strings"
	"testing"
)

var createTableRe = regexp.MustCompile(`CREATE TABLE IF NOT EXISTS (\w+)`)

func schemaByTable(t *testing.T) map[string]string {
	t.Helper()
	tables := make(map[string]string, len(schemaStatements))
	for _, stmt := range schemaStatements {
		m := createTableRe.FindStringSubmatch(stmt)
		if m == nil {
			t.Fatalf("statement is not a CREATE TABLE: %s", stmt)
		}
		tables[m[1]] = stmt
	}
	return tables
}

// The snapshot repository orders every table it reads by created_at, so
// each of those tables has to declare the column.
func TestSchemaDeclaresCreatedAtForOrderedTables(t *testing.T) {
	tables := schemaByTable(t)
	ordered := []string{
		"participants",
		"receipts",
		"receipt_payments",
		"line_items",
		"item_assignments",
		"direct_payments",
	}
	for _, name := range ordered {
		stmt, ok := tables[name]
		if !ok {
			t.Fatalf("schema missing table %s", name)
		}
		if !strings.Contains(stmt, "created_at") {
			t.Fatalf("table %s has no created_at column", name)
		}
	}
}

func TestSchemaCoversSoftDeleteAndRateColumns(t *testing.T) {
	tables := schemaByTable(t)
	if !strings.Contains(tables["receipt_payments"], "deleted_at") {
		t.Fatal("receipt_payments has no deleted_at column")
	}
	rates, ok := tables["exchange_rate_cache"]
	if !ok {
		t.Fatal("schema missing table exchange_rate_cache")
	}
	for _, col := range []string{"from_currency", "to_currency", "rate_date", "rate", "source"} {
		if !strings.Contains(rates, col) {
			t.Fatalf("exchange_rate_cache has no %s column", col)
		}
	}
}
