package api

import (
	"net/url"
	"strings"
)

// Site is the tracked website a dashboard belongs to.
type Site struct {
	Domain string
}

// APIPath is the stats API path for a site-scoped report.
func APIPath(site Site, path string) string {
	return "/api/stats/" + url.PathEscape(site.Domain) + path
}

// SitePath is the dashboard path for a site-scoped view.
func SitePath(site Site, path string) string {
	return "/" + url.PathEscape(site.Domain) + path
}

// ExternalLinkForPage is the public URL of a page on the tracked site. Any
// path component in domain is dropped; only the host is kept.
func ExternalLinkForPage(domain, page string) string {
	host := domain
	if u, err := url.Parse("https://" + domain); err == nil && u.Host != "" {
		host = u.Host
	}
	if !strings.HasPrefix(page, "/") {
		page = "/" + page
	}
	return "https://" + host + page
}
