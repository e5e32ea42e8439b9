package social

import (
	"net/url"
	"strings"

	"golang.org/x/net/idna"
)

var targetPlatforms = map[string]string{
	"facebook.com":  "facebook",
	"instagram.com": "instagram",
}

// platformOf returns the target platform that hosts raw, if any.
func platformOf(raw string) (string, bool) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || u.Host == "" {
		return "", false
	}
	host := strings.ToLower(strings.Trim(u.Hostname(), "."))
	if ascii, err := idna.Lookup.ToASCII(host); err == nil {
		host = ascii
	}
	for domain, platform := range targetPlatforms {
		if host == domain || strings.HasSuffix(host, "."+domain) {
			return platform, true
		}
	}
	return "", false
}
