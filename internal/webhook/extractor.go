package webhook

import (
	"regexp"
	"strings"
)

// orderCodePattern matches merchant order codes: a short alphabetic prefix
// followed by digits, e.g. ABC123. Banks wrap transfer content with their own
// prefixes, reference numbers and whitespace, so the pattern is applied to
// the whole string rather than anchored.
var orderCodePattern = regexp.MustCompile(`[A-Z]{2,6}[0-9]{3,10}`)

// ExtractOrderCode recovers the merchant order code from free-text transfer
// content. Content and description are preferred; the gateway `code` field is
// tried last because some gateways overload it with their own bank reference,
// which can coincidentally match the pattern (known false-positive source,
// kept for compatibility with existing gateways).
func ExtractOrderCode(content, description, code string) string {
	for _, candidate := range []string{content, description, code} {
		if match := matchOrderCode(candidate); match != "" {
			return match
		}
	}
	return ""
}

func matchOrderCode(text string) string {
	if text == "" {
		return ""
	}
	return orderCodePattern.FindString(strings.ToUpper(text))
}
