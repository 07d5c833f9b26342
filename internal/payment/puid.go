package payment

import (
	"crypto/sha1"
	"encoding/hex"
	"regexp"
	"strings"
)

// HashContent derives a payment's PUID from its transfer content: "puid"
// plus the first 8 hex characters of the content's SHA-1. Content-derived
// ids survive accounting renumbering, which sequence-derived names did not.
func HashContent(content string) string {
	sum := sha1.Sum([]byte(content))

	return "puid" + hex.EncodeToString(sum[:])[:8]
}

// puidToken matches the identifiers a payment can embed in a bank narration:
// content-hash PUIDs and legacy journal-sequence names. Banks uppercase
// transfer memos, so matching ignores case.
var puidToken = regexp.MustCompile(`(?i)puid[0-9a-f]{8}|BNK\d+\S+\d+|CSH\d+\S+\d+`)

// Extract pulls every candidate identifier out of a statement line's payment
// reference. Banks concatenate multiple memos with ".." or "|", so the
// reference is split before matching. Tokens come back lower-cased; callers
// must lower-case their side of the comparison too.
func Extract(reference string) []string {
	var tokens []string

	seen := map[string]struct{}{}

	for _, part := range splitReference(reference) {
		for _, m := range puidToken.FindAllString(part, -1) {
			m = strings.ToLower(m)
			if _, ok := seen[m]; ok {
				continue
			}

			seen[m] = struct{}{}
			tokens = append(tokens, m)
		}
	}

	return tokens
}

func splitReference(reference string) []string {
	parts := []string{}

	for _, chunk := range strings.Split(reference, "..") {
		parts = append(parts, strings.Split(chunk, "|")...)
	}

	return parts
}
