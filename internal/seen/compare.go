package seen

import (
	"net/url"
	"strings"

	"github.com/jimezsa/jobber/internal/models"
)

const keySeparator = "::"

// Normalize lowercases value and collapses whitespace.
func Normalize(value string) string {
	fields := strings.Fields(strings.ToLower(strings.TrimSpace(value)))
	return strings.Join(fields, " ")
}

// CanonicalURL lowercases the host and drops the fragment. Indeed
// links keep only their jk parameter, which identifies the posting.
func CanonicalURL(raw string) string {
	raw = strings.TrimSpace(raw)
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return raw
	}
	u.Host = strings.ToLower(u.Host)
	u.Fragment = ""
	if jk := u.Query().Get("jk"); jk != "" {
		u.RawQuery = url.Values{"jk": {jk}}.Encode()
	}
	return u.String()
}

// Key identifies a job by its canonical URL. Jobs without a URL fall back
// to the normalized title+company+location.
func Key(job models.Job) (string, bool) {
	if link := CanonicalURL(job.URL); link != "" {
		return "url" + keySeparator + link, true
	}
	title := Normalize(job.Title)
	company := Normalize(models.Deref(job.Company, ""))
	location := Normalize(models.Deref(job.Location, ""))
	if title != "" && company != "" {
		return title + keySeparator + company + keySeparator + location, true
	}
	return "", false
}

// Index is a set of keys of jobs already known.
type Index map[string]struct{}

func NewIndex(known []models.Job) Index {
	index := make(Index, len(known))
	for _, job := range known {
		index.Add(job)
	}
	return index
}

// Add records job and reports whether it was new.
func (i Index) Add(job models.Job) bool {
	key, ok := Key(job)
	if !ok {
		return true
	}
	if _, exists := i[key]; exists {
		return false
	}
	i[key] = struct{}{}
	return true
}

func (i Index) Contains(job models.Job) bool {
	key, ok := Key(job)
	if !ok {
		return false
	}
	_, exists := i[key]
	return exists
}
