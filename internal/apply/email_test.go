package apply

import (
	"reflect"
	"strings"
	"testing"

	"github.com/jimezsa/jobber/internal/browser"
)

func TestMatchEmail(t *testing.T) {
	cases := []struct {
		text string
		want string
		ok   bool
	}{
		{"jobs@acme.com", "jobs@acme.com", true},
		{"  hr.team+go@acme.co.uk  ", "hr.team+go@acme.co.uk", true},
		{"jobs@acme.com (preferred)", "jobs@acme.com", true},
		{"Contact jobs@acme.com", "", false},
		{"Apply now", "", false},
		{"jobs@acme", "", false},
	}
	for _, tc := range cases {
		got, ok := MatchEmail(tc.text)
		if got != tc.want || ok != tc.ok {
			t.Fatalf("MatchEmail(%q) = %q, %v; want %q, %v", tc.text, got, ok, tc.want, tc.ok)
		}
	}
}

func anchors(t *testing.T, html string) []*browser.Element {
	t.Helper()
	page, err := browser.NewPage("https://acme.com/careers", strings.NewReader(html))
	if err != nil {
		t.Fatalf("failed to parse document: %v", err)
	}
	return page.FindAll("a")
}

func TestMatcherUsesAnchorText(t *testing.T) {
	html := `<a href="mailto:hidden@acme.com">Email us</a>
<a href="/team">team@acme.com</a>
<a href="/team2">TEAM@acme.com</a>
<a href="/x">other@acme.org</a>`

	got := Matcher{}.Emails(anchors(t, html))
	want := []string{"team@acme.com", "other@acme.org"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Emails() = %v, want %v", got, want)
	}
}

func TestMatcherMailto(t *testing.T) {
	html := `<a href="mailto:hidden%40acme.com?subject=Hi">Email us</a>
<a href="mailto:team@acme.com">team@acme.com</a>`

	got := Matcher{Mailto: true}.Emails(anchors(t, html))
	want := []string{"hidden@acme.com", "team@acme.com"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Emails() = %v, want %v", got, want)
	}
}
