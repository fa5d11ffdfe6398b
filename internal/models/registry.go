package models

import (
	"fmt"
	"sort"
	"strings"
)

// MigrationsModule names the migration bookkeeping table, which has no Go model
const MigrationsModule = "migrations"

// Module is a named collection of models provisioned together
type Module struct {
	Name   string
	Models []interface{}
}

// Registry returns every model module the route tree depends on
func Registry() []Module {
	return []Module{
		{Name: "user", Models: []interface{}{&User{}}},
		{Name: "brand", Models: []interface{}{&Brand{}}},
		{Name: "product", Models: []interface{}{&Product{}}},
		{Name: "order", Models: []interface{}{&Order{}, &OrderItem{}}},
		{Name: "cart", Models: []interface{}{&Cart{}, &CartItem{}}},
		{Name: "review", Models: []interface{}{&Review{}}},
		{Name: "coupon", Models: []interface{}{&Coupon{}}},
		{Name: MigrationsModule},
	}
}

// ModuleNames returns the registry's module names, sorted
func ModuleNames() []string {
	modules := Registry()
	names := make([]string, len(modules))
	for i, m := range modules {
		names[i] = m.Name
	}
	sort.Strings(names)
	return names
}

// CheckModules compares configured module names with the registry. Unknown,
// duplicated and missing modules are all reported in one error.
func CheckModules(configured []string) error {
	known := make(map[string]bool)
	for _, name := range ModuleNames() {
		known[name] = false
	}

	var unknown, duplicate []string
	for _, name := range configured {
		seen, ok := known[name]
		switch {
		case !ok:
			unknown = append(unknown, name)
		case seen:
			duplicate = append(duplicate, name)
		default:
			known[name] = true
		}
	}

	var missing []string
	for name, seen := range known {
		if !seen {
			missing = append(missing, name)
		}
	}
	sort.Strings(missing)

	var problems []string
	if len(unknown) > 0 {
		problems = append(problems, "unknown: "+strings.Join(unknown, ", "))
	}
	if len(duplicate) > 0 {
		problems = append(problems, "duplicated: "+strings.Join(duplicate, ", "))
	}
	if len(missing) > 0 {
		problems = append(problems, "missing: "+strings.Join(missing, ", "))
	}
	if len(problems) > 0 {
		return fmt.Errorf("model modules do not match registry (%s)", strings.Join(problems, "; "))
	}
	return nil
}
