package database

import "testing"

func TestMigrateURL(t *testing.T) {
	tests := map[string]string{
		"postgres://admin:123@db:5432/rinha":              "pgx5://admin:123@db:5432/rinha",
		"postgresql://admin:123@db/rinha?sslmode=disable": "pgx5://admin:123@db/rinha?sslmode=disable",
		"pgx5://admin:123@db:5432/rinha":                  "pgx5://admin:123@db:5432/rinha",
	}
	for in, want := range tests {
		if got := migrateURL(in); got != want {
			t.Errorf("migrateURL(%q) = %q, wants %q", in, got, want)
		}
	}
}
