package apply

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/jimezsa/jobber/internal/browser"
)

var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}`)

// MatchEmail reports the address at the start of text, if text starts with
// something shaped like an email.
func MatchEmail(text string) (string, bool) {
	match := emailPattern.FindString(strings.TrimSpace(text))
	if match == "" {
		return "", false
	}
	return match, true
}

// Matcher finds contact emails among a page's anchors.
type Matcher struct {
	// Mailto also accepts addresses from mailto: targets. Off by default;
	// the anchor's visible text is what gets matched.
	Mailto bool
}

// Emails returns the distinct addresses found, in document order.
func (m Matcher) Emails(anchors []*browser.Element) []string {
	var emails []string
	seen := map[string]struct{}{}
	add := func(email string) {
		key := strings.ToLower(email)
		if _, ok := seen[key]; ok {
			return
		}
		seen[key] = struct{}{}
		emails = append(emails, email)
	}

	for _, anchor := range anchors {
		if email, ok := MatchEmail(anchor.Text()); ok {
			add(email)
			continue
		}
		if !m.Mailto {
			continue
		}
		if href, ok := anchor.Attr("href"); ok {
			if email, ok := mailtoAddress(href); ok {
				add(email)
			}
		}
	}
	return emails
}

func mailtoAddress(href string) (string, bool) {
	if !strings.HasPrefix(strings.ToLower(href), "mailto:") {
		return "", false
	}
	address := href[len("mailto:"):]
	if i := strings.IndexByte(address, '?'); i >= 0 {
		address = address[:i]
	}
	if unescaped, err := url.PathUnescape(address); err == nil {
		address = unescaped
	}
	return MatchEmail(address)
}
