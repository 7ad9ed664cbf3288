package model

// Story is one ranked listing entry.
//
// URL is empty when the source row had no link target.
type Story struct {
	Title  string
	URL    string
	Points int
}

// HasURL reports whether the story carries a link target.
func (s Story) HasURL() bool {
	return s.URL != ""
}
