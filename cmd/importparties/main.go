// importparties generates an SQL seed script for the parties table from a
// semicolon-separated CSV export. Legacy accounting exports are usually
// ISO-8859-1 encoded; the file is transparently decoded to UTF-8.
//
// Usage: go run ./cmd/importparties <file.csv> <owner-user-id>
//
// Expected columns:
//
//	role;kind;name;street;postal_code;city;country;email;phone;org_number;bank_account
//
// Writes: scripts/seed_parties.sql
package main

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

const columns = 11

func main() {
	if len(os.Args) < 3 {
		fmt.Fprintln(os.Stderr, "usage: importparties <file.csv> <owner-user-id>")
		os.Exit(1)
	}
	csvPath, ownerID := os.Args[1], os.Args[2]

	f, err := os.Open(csvPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "open CSV: %v\n", err)
		os.Exit(1)
	}
	defer f.Close()

	r := csv.NewReader(transform.NewReader(f, charmap.ISO8859_1.NewDecoder()))
	r.Comma = ';'
	r.FieldsPerRecord = columns

	records, err := r.ReadAll()
	if err != nil {
		fmt.Fprintf(os.Stderr, "read CSV: %v\n", err)
		os.Exit(1)
	}
	if len(records) > 0 && strings.EqualFold(records[0][0], "role") {
		records = records[1:] // header row
	}

	moduleRoot := findModuleRoot()
	outPath := filepath.Join(moduleRoot, "scripts", "seed_parties.sql")
	out, err := os.Create(outPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "create file: %v\n", err)
		os.Exit(1)
	}
	defer out.Close()

	out.WriteString("-- Parties imported from " + filepath.Base(csvPath) + "\n\n")

	count := 0
	for i, rec := range records {
		role, kind, name := strings.TrimSpace(rec[0]), strings.TrimSpace(rec[1]), strings.TrimSpace(rec[2])
		if name == "" {
			continue
		}
		if role != "sender" && role != "receiver" {
			fmt.Fprintf(os.Stderr, "line %d: unknown role %q, skipping\n", i+1, role)
			continue
		}
		if kind != "organization" && kind != "individual" {
			fmt.Fprintf(os.Stderr, "line %d: unknown kind %q, skipping\n", i+1, kind)
			continue
		}
		fmt.Fprintf(out, "INSERT INTO parties (id, owner_id, kind, role, name, street, postal_code, city, country, email, phone, org_number, bank_account, created_at, updated_at)\n")
		fmt.Fprintf(out, "VALUES (gen_random_uuid(), '%s', '%s', '%s', '%s', '%s', '%s', '%s', '%s', %s, %s, %s, %s, now(), now());\n",
			escapeSQL(ownerID), kind, role, escapeSQL(name),
			escapeSQL(strings.TrimSpace(rec[3])), escapeSQL(strings.TrimSpace(rec[4])),
			escapeSQL(strings.TrimSpace(rec[5])), escapeSQL(strings.TrimSpace(rec[6])),
			sqlString(rec[7]), sqlString(rec[8]), sqlString(rec[9]), sqlString(rec[10]),
		)
		count++
	}

	fmt.Printf("Generated %s: %d parties\n", outPath, count)
}

// sqlString quotes a trimmed value, mapping "" to NULL.
func sqlString(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "NULL"
	}
	return "'" + escapeSQL(s) + "'"
}

func escapeSQL(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}

func findModuleRoot() string {
	dir, _ := os.Getwd()
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "."
		}
		dir = parent
	}
}
