package profile

import (
	"net/url"
	"strings"
)

// NormalizeURL strips query and fragment from a profile URL and trims the
// trailing slash, so the same profile always yields the same key regardless
// of how the link was copied. Unparseable input is returned as-is.
func NormalizeURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return raw
	}
	u.RawQuery = ""
	u.Fragment = ""
	return strings.TrimSuffix(u.String(), "/")
}
