// Package device summarizes the client that submitted a ballot.
package device

import (
	"strings"

	"github.com/mssola/useragent"
)

const maxSummaryLength = 128

// ParseUserAgent returns a display summary such as "Chrome on Mac OS X".
func ParseUserAgent(userAgent string) string {
	userAgent = strings.TrimSpace(userAgent)
	if userAgent == "" {
		return "Unknown Device"
	}
	ua := useragent.New(userAgent)

	browser, _ := ua.Browser()
	if browser == "" {
		browser = "Unknown Browser"
	}
	os := ua.OS()
	if os == "" {
		os = ua.Platform()
	}
	if os == "" {
		os = "Unknown OS"
	}
	summary := strings.TrimSpace(browser + " on " + os)
	if ua.Bot() {
		summary += " (bot)"
	}
	if len(summary) > maxSummaryLength {
		summary = summary[:maxSummaryLength]
	}
	return summary
}
