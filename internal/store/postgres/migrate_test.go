package postgres

import (
	"io/fs"
	"strings"
	"testing"
)

func TestMigrationFilesHaveUpAndDown(t *testing.T) {
	files, err := fs.ReadDir(migrationsFS, migrationsDir)
	if err != nil {
		t.Fatalf("failed to read migrations: %v", err)
	}
	if len(files) == 0 {
		t.Fatal("no migration files embedded")
	}

	for _, file := range files {
		content, err := fs.ReadFile(migrationsFS, migrationsDir+"/"+file.Name())
		if err != nil {
			t.Errorf("failed to read %s: %v", file.Name(), err)
			continue
		}
		body := string(content)
		for _, directive := range []string{"-- +goose Up", "-- +goose Down", "-- +goose StatementBegin", "-- +goose StatementEnd"} {
			if !strings.Contains(body, directive) {
				t.Errorf("migration %s missing %q", file.Name(), directive)
			}
		}
	}
}

func TestMigrationsCreateAndDropTables(t *testing.T) {
	expected := map[string]string{
		"products":             "00001_create_products_table.sql",
		"customers":            "00002_create_customers_table.sql",
		"users":                "00003_create_users_table.sql",
		"sales":                "00004_create_sales_table.sql",
		"sale_items":           "00005_create_sale_items_table.sql",
		"stock_batches":        "00006_create_stock_batches_table.sql",
		"stock_movements":      "00007_create_stock_movements_table.sql",
		"loyalty_transactions": "00008_create_loyalty_transactions_table.sql",
		"price_history":        "00009_create_price_history_table.sql",
		"print_queue":          "00010_create_print_queue_table.sql",
		"stock_alerts":         "00011_create_stock_alerts_table.sql",
	}

	for table, file := range expected {
		content, err := fs.ReadFile(migrationsFS, migrationsDir+"/"+file)
		if err != nil {
			t.Errorf("failed to read %s: %v", file, err)
			continue
		}
		body := string(content)
		if !strings.Contains(body, "CREATE TABLE IF NOT EXISTS "+table+" (") {
			t.Errorf("%s does not create %s", file, table)
		}
		if !strings.Contains(body, "DROP TABLE IF EXISTS "+table+";") {
			t.Errorf("%s does not drop %s", file, table)
		}
	}
}

func TestSalesStatusConstraint(t *testing.T) {
	content, err := fs.ReadFile(migrationsFS, migrationsDir+"/00004_create_sales_table.sql")
	if err != nil {
		t.Fatalf("read sales migration: %v", err)
	}
	for _, status := range []string{"pending", "completed", "cancelled", "refunded"} {
		if !strings.Contains(string(content), "'"+status+"'") {
			t.Errorf("sales status constraint missing %s", status)
		}
	}
}

func TestStockMovementsAreImmutable(t *testing.T) {
	content, err := fs.ReadFile(migrationsFS, migrationsDir+"/00007_create_stock_movements_table.sql")
	if err != nil {
		t.Fatalf("read movements migration: %v", err)
	}
	if !strings.Contains(string(content), "BEFORE UPDATE OR DELETE ON stock_movements") {
		t.Fatal("stock_movements is missing its immutability trigger")
	}
}
