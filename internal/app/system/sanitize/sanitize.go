// Package sanitize strips HTML from user-supplied text fields before they
// are persisted. The API stores plain strings, so the strict bluemonday
// policy (remove every tag) is the right default.
package sanitize

import (
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	policy     *bluemonday.Policy
	policyOnce sync.Once
)

func getPolicy() *bluemonday.Policy {
	policyOnce.Do(func() {
		policy = bluemonday.StrictPolicy()
	})
	return policy
}

// Text removes any HTML from s and trims surrounding whitespace.
func Text(s string) string {
	if s == "" {
		return ""
	}
	return strings.TrimSpace(getPolicy().Sanitize(s))
}

// Slice sanitizes each element in place and drops entries that become
// empty. Used for list fields like room amenities.
func Slice(in []string) []string {
	out := in[:0]
	for _, s := range in {
		if clean := Text(s); clean != "" {
			out = append(out, clean)
		}
	}
	return out
}
