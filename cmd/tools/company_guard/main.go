package main

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// companyGuard scans repository sources and ensures every inline query that
// touches a company-scoped table filters on company_id.
// Exit code 0 = ok, 1 = violation, 2 = other error.
func main() {
	root := "internal"
	deny, err := scan(root)
	if err != nil {
		fmt.Fprintf(os.Stderr, "company_guard error: %v\n", err)
		os.Exit(2)
	}
	if len(deny) > 0 {
		for _, v := range deny {
			fmt.Fprintf(os.Stderr, "VIOLATION: %s\n", v)
		}
		os.Exit(1)
	}
	fmt.Println("company_guard: OK")
}

var scopedTables = []string{"products", "users", "orders", "stocks", "agencies", "warehouses"}

var (
	reRawString = regexp.MustCompile("`[^`]*`")
	reStmt      = regexp.MustCompile(`(?is)^\s*(select|update|delete)\b`)
	reCompany   = regexp.MustCompile(`(?i)company_id`)
)

func scan(dir string) ([]string, error) {
	var violations []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || filepath.Ext(path) != ".go" || strings.HasSuffix(path, "_test.go") {
			return nil
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		for _, raw := range reRawString.FindAllString(string(data), -1) {
			q := strings.Trim(raw, "`")
			if !reStmt.MatchString(q) {
				continue
			}
			if !touchesScopedTable(q) {
				continue
			}
			if !reCompany.MatchString(q) {
				violations = append(violations, fmt.Sprintf("%s: %s", path, firstLine(q)))
			}
		}
		return nil
	})
	return violations, err
}

func touchesScopedTable(q string) bool {
	lower := strings.ToLower(q)
	for _, table := range scopedTables {
		if strings.Contains(lower, "from "+table) ||
			strings.Contains(lower, "update "+table) {
			return true
		}
	}
	return false
}

func firstLine(q string) string {
	line := strings.TrimSpace(strings.SplitN(q, "\n", 2)[0])
	if len(line) > 80 {
		line = line[:80] + "..."
	}
	return line
}
