package configutil

import (
	"reflect"
	"sort"
	"strings"
)

// Schema describes the keys a vendor settings block may carry.
type Schema struct {
	Required []string
	Optional []string
	// AnyOf lists key groups where at least one member must be set.
	AnyOf        [][]string
	AllowUnknown bool
}

// SettingsError reports every problem found in a settings block at once.
type SettingsError struct {
	Missing []string
	Unknown []string
	// Unmet holds AnyOf groups with no member set.
	Unmet [][]string
}

func (e *SettingsError) Error() string {
	var parts []string
	if len(e.Missing) > 0 {
		parts = append(parts, "missing: "+strings.Join(e.Missing, ", "))
	}
	if len(e.Unknown) > 0 {
		parts = append(parts, "unknown: "+strings.Join(e.Unknown, ", "))
	}
	for _, group := range e.Unmet {
		parts = append(parts, "need "+strings.Join(group, " or "))
	}
	return strings.Join(parts, "; ")
}

// ValidateSettings checks input against schema. Key matching ignores case,
// underscores and hyphens, so "API-Key" satisfies "api_key".
func ValidateSettings(input map[string]any, schema Schema) error {
	set := make(map[string]bool, len(input))
	present := make(map[string]string, len(input))
	for k, v := range input {
		nk := normalizeKey(k)
		present[nk] = k
		set[nk] = !isEmptyValue(v)
	}

	known := make(map[string]bool)
	for _, k := range schema.Optional {
		known[normalizeKey(k)] = true
	}
	var errs SettingsError
	for _, k := range schema.Required {
		nk := normalizeKey(k)
		known[nk] = true
		if !set[nk] {
			errs.Missing = append(errs.Missing, k)
		}
	}
	for _, group := range schema.AnyOf {
		ok := false
		for _, k := range group {
			nk := normalizeKey(k)
			known[nk] = true
			ok = ok || set[nk]
		}
		if !ok {
			errs.Unmet = append(errs.Unmet, group)
		}
	}
	if !schema.AllowUnknown {
		for nk, raw := range present {
			if !known[nk] {
				errs.Unknown = append(errs.Unknown, raw)
			}
		}
	}

	if len(errs.Missing) == 0 && len(errs.Unknown) == 0 && len(errs.Unmet) == 0 {
		return nil
	}
	sort.Strings(errs.Missing)
	sort.Strings(errs.Unknown)
	return &errs
}

// isEmptyValue treats nil, blank strings and empty maps or slices as unset.
func isEmptyValue(v any) bool {
	if v == nil {
		return true
	}
	if s, ok := v.(string); ok {
		return strings.TrimSpace(s) == ""
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Map, reflect.Slice, reflect.Array:
		return rv.Len() == 0
	}
	return false
}
