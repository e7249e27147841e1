// Package profile inspects declared profile URIs for Kerndatensatz module
// membership.
package profile

import "strings"

// HasModule reports whether any of the declared profile URIs contains the
// given module token (e.g. "modul-person"). The match is a plain substring
// check over the raw URI.
func HasModule(profiles []string, module string) bool {
	for _, p := range profiles {
		if strings.Contains(p, module) {
			return true
		}
	}
	return false
}
