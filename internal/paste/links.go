package paste

import (
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// ExtractAlertLinks returns the keys of pastes linked from an alert message's
// HTML body, in document order without duplicates. Only links whose host is
// host count.
func ExtractAlertLinks(r io.Reader, host string) ([]string, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parse alert html: %w", err)
	}

	host = strings.ToLower(strings.TrimSpace(host))
	seen := make(map[string]struct{})
	var keys []string
	doc.Find("a[href], img[href]").Each(func(_ int, sel *goquery.Selection) {
		href, _ := sel.Attr("href")
		key, ok := KeyFromURL(href, host)
		if !ok {
			return
		}
		if _, dup := seen[key]; dup {
			return
		}
		seen[key] = struct{}{}
		keys = append(keys, key)
	})
	return keys, nil
}

// KeyFromURL extracts the paste key from a paste page or raw URL on host.
func KeyFromURL(raw, host string) (string, bool) {
	parsed, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || !strings.EqualFold(parsed.Hostname(), host) {
		return "", false
	}
	key := strings.Trim(parsed.Path, "/")
	key = strings.TrimPrefix(key, "raw/")
	if validateKey(key) != nil {
		return "", false
	}
	return key, true
}
