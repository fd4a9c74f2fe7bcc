package research

import (
	"net/url"
	"path"
	"regexp"
	"strings"
)

// Engine turns a query into the URL of a plain-HTML results page
type Engine interface {
	Name() string
	SearchURL(query string) string
}

// DuckDuckGo uses the JavaScript-free html.duckduckgo.com endpoint
type DuckDuckGo struct {
	BaseURL string // Overridden in tests
}

func (DuckDuckGo) Name() string { return "duckduckgo" }

func (d DuckDuckGo) SearchURL(query string) string {
	base := d.BaseURL
	if base == "" {
		base = "https://html.duckduckgo.com/html/"
	}
	params := url.Values{}
	params.Set("q", query)
	params.Set("kl", "id-id")
	return base + "?" + params.Encode()
}

// Bing is the secondary engine
type Bing struct {
	BaseURL string
}

func (Bing) Name() string { return "bing" }

func (b Bing) SearchURL(query string) string {
	base := b.BaseURL
	if base == "" {
		base = "https://www.bing.com/search"
	}
	params := url.Values{}
	params.Set("q", query)
	params.Set("setlang", "id")
	return base + "?" + params.Encode()
}

// EnginesByName builds engines in the configured order, skipping unknown names
func EnginesByName(names []string) []Engine {
	var engines []Engine
	for _, name := range names {
		switch strings.ToLower(strings.TrimSpace(name)) {
		case "duckduckgo", "ddg":
			engines = append(engines, DuckDuckGo{})
		case "bing":
			engines = append(engines, Bing{})
		}
	}
	return engines
}

var hrefPattern = regexp.MustCompile(`href="([^"]+)"`)

// blockedHosts never yield article text
var blockedHosts = []string{
	"facebook.com", "instagram.com", "twitter.com", "x.com", "tiktok.com",
	"youtube.com", "youtu.be", "pinterest.com", "linkedin.com", "reddit.com",
	"vimeo.com", "flickr.com", "soundcloud.com", "spotify.com",
	"duckduckgo.com", "bing.com", "microsoft.com", "msn.com", "google.com",
	"shutterstock.com", "gettyimages.com", "istockphoto.com",
}

// blockedExtensions are file types that are not articles
var blockedExtensions = map[string]bool{
	".pdf": true, ".jpg": true, ".jpeg": true, ".png": true, ".gif": true,
	".webp": true, ".svg": true, ".mp4": true, ".mp3": true, ".zip": true,
	".doc": true, ".docx": true, ".xls": true, ".xlsx": true, ".ppt": true,
}

// ExtractResultURLs pulls outbound result links out of a search-results
// page. DuckDuckGo redirect links are unwrapped; blocked hosts and
// non-article files are dropped; order of first appearance is kept.
func ExtractResultURLs(page string) []string {
	var urls []string
	seen := make(map[string]bool)

	for _, m := range hrefPattern.FindAllStringSubmatch(page, -1) {
		link := unwrapRedirect(strings.ReplaceAll(m[1], "&amp;", "&"))
		if link == "" || !isArticleURL(link) {
			continue
		}
		key := strings.TrimSuffix(link, "/")
		if seen[key] {
			continue
		}
		seen[key] = true
		urls = append(urls, link)
	}

	return urls
}

// unwrapRedirect decodes DuckDuckGo's /l/?uddg=<target> links
func unwrapRedirect(link string) string {
	if !strings.Contains(link, "uddg=") {
		return link
	}
	if strings.HasPrefix(link, "//") {
		link = "https:" + link
	}
	parsed, err := url.Parse(link)
	if err != nil {
		return ""
	}
	return parsed.Query().Get("uddg")
}

// isArticleURL reports whether link is an absolute http(s) URL on an
// allowed host that does not point at a binary file
func isArticleURL(link string) bool {
	parsed, err := url.Parse(link)
	if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") || parsed.Host == "" {
		return false
	}

	host := strings.ToLower(parsed.Hostname())
	for _, blocked := range blockedHosts {
		if host == blocked || strings.HasSuffix(host, "."+blocked) {
			return false
		}
	}

	return !blockedExtensions[strings.ToLower(path.Ext(parsed.Path))]
}
