// Package validation holds the pure input checks applied before any storage
// call: URL well-formedness, scheme normalization and short-code format.
package validation

import (
	"net/url"
	"regexp"
	"strings"
)

// CodePattern is the accepted short-code format.
const CodePattern = `^[A-Za-z0-9]{6,8}$`

const defaultScheme = "https://"

var (
	codeRe   = regexp.MustCompile(CodePattern)
	schemeRe = regexp.MustCompile(`(?i)^https?://`)
)

// Codes that would be shadowed by fixed routes.
var reservedCodes = map[string]struct{}{
	"healthz": {},
	"metrics": {},
}

// HasHTTPScheme reports whether raw starts with http:// or https://, ignoring case.
func HasHTTPScheme(raw string) bool {
	return schemeRe.MatchString(raw)
}

// NormalizeURL returns raw unchanged when it already carries an http(s)
// scheme, otherwise it prefixes https://.
func NormalizeURL(raw string) string {
	if HasHTTPScheme(raw) {
		return raw
	}
	return defaultScheme + raw
}

// IsValidURL reports whether raw, after scheme coercion, parses as an
// absolute URL with a host.
func IsValidURL(raw string) bool {
	u, err := url.Parse(NormalizeURL(raw))
	if err != nil {
		return false
	}
	return u.Scheme != "" && u.Host != ""
}

// IsValidCode reports whether code is 6 to 8 ASCII letters or digits.
func IsValidCode(code string) bool {
	return codeRe.MatchString(code)
}

// IsReservedCode reports whether code collides with a fixed route.
func IsReservedCode(code string) bool {
	_, ok := reservedCodes[strings.ToLower(code)]
	return ok
}
