package action

import (
	"net/url"
	"strings"
)

// ParseQuery splits a raw query string into Inputs.  Pairs are separated
// by '&' and split on the first '='; a segment without '=' is dropped and
// a repeated key keeps its last value.  Keys and values are
// percent-decoded when the escape is valid and kept verbatim otherwise.
func ParseQuery(raw string) Inputs {
	in := Inputs{}
	for _, seg := range strings.Split(raw, "&") {
		k, v, ok := strings.Cut(seg, "=")
		if !ok {
			continue
		}
		in[unescape(k)] = unescape(v)
	}
	return in
}

func unescape(s string) string {
	if u, err := url.QueryUnescape(s); err == nil {
		return u
	}
	return s
}
