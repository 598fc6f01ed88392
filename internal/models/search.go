package models

// SearchParams captures the normalized search inputs used to build a results URL.
type SearchParams struct {
	Query    string
	Location string
	Country  string
	Offset   int
}
