// Package reference extracts target ids from record reference strings.
package reference

import "strings"

// TargetID returns the id segment of a reference string, taken as
// everything after the last slash. References without a slash (URNs,
// fragments, bare ids) carry no extractable id and return ok=false; the
// caller is expected to skip them.
func TargetID(ref string) (string, bool) {
	idx := strings.LastIndex(ref, "/")
	if idx == -1 {
		return "", false
	}
	return ref[idx+1:], true
}
