package scraper

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/jimezsa/jobber/internal/models"
)

// ListingSelectors locate the parts of a search results page.
type ListingSelectors struct {
	Container string
	List      string
	Item      string
	Heading   string
	Link      string
	Title     string
	// Spans is a page-wide list alternating company and location.
	Spans string
}

// DetailSelectors locate the parts of a job detail page.
type DetailSelectors struct {
	Salary      string
	Benefits    string
	Benefit     string
	Description string
	Buttons     string
}

var IndeedListing = ListingSelectors{
	Container: "#mosaic-jobResults",
	List:      "ul",
	Item:      "li",
	Heading:   "h2",
	Link:      "a.jcs-JobTitle",
	Title:     "span",
	Spans:     ".company_location",
}

var IndeedDetail = DetailSelectors{
	Salary:      "#salaryInfoAndJobType span",
	Benefits:    "#benefits",
	Benefit:     "li",
	Description: "#jobDescriptionText",
	Buttons:     "button",
}

// BuildIndeedURL returns the search results URL for params.
func BuildIndeedURL(params models.SearchParams) string {
	base := baseIndeedURL(params.Country)
	values := url.Values{}
	values.Set("q", params.Query)
	values.Set("l", params.Location)
	if params.Offset > 0 {
		values.Set("start", fmt.Sprintf("%d", params.Offset))
	}
	return fmt.Sprintf("%s/jobs?%s", base, values.Encode())
}

func baseIndeedURL(country string) string {
	country = strings.TrimSpace(strings.ToLower(country))
	if country == "" || country == "usa" || country == "us" {
		return "https://www.indeed.com"
	}
	return fmt.Sprintf("https://%s.indeed.com", country)
}
