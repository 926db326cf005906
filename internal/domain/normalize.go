package domain

import "strings"

// NormalizeProfileURL reduces a profile URL to a canonical comparison key:
// scheme and www. prefix stripped, trailing slashes dropped, case folded.
// Candidate matching during enrichment requires exact equality of these
// keys, so the function must be an equivalence relation over URL spellings.
func NormalizeProfileURL(raw string) string {
	s := strings.TrimSpace(strings.ToLower(raw))
	s = strings.TrimPrefix(s, "https://")
	s = strings.TrimPrefix(s, "http://")
	s = strings.TrimPrefix(s, "www.")
	s = strings.TrimRight(s, "/")
	return s
}
