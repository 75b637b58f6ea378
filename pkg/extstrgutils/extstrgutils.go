package extstrgutils

import "strings"

// SplitMultiValueParam splits a string into multiple values using space, comma or semicolon as separator
func SplitMultiValueParam(value string) []string {
	return strings.FieldsFunc(value, func(r rune) bool {
		return r == ' ' || r == ',' || r == ';'
	})
}

// MultiValueSet is SplitMultiValueParam as a lookup set, nil for an empty value
func MultiValueSet(value string) map[string]struct{} {
	vs := SplitMultiValueParam(value)
	if len(vs) == 0 {
		return nil
	}
	set := make(map[string]struct{}, len(vs))
	for _, v := range vs {
		set[v] = struct{}{}
	}
	return set
}
