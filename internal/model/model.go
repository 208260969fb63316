package model

// FrontMatter holds the key/value pairs of a document's metadata block.
// All values are kept as strings.
type FrontMatter map[string]string

// Get returns the value stored under key, or "" when absent.
func (fm FrontMatter) Get(key string) string {
	if fm == nil {
		return ""
	}
	return fm[key]
}

// Document is a single markdown source read from the journal directory.
type Document struct {
	Slug        string
	FileName    string
	SourcePath  string
	Raw         string
	FrontMatter FrontMatter
	Body        string
	Hash        string
}

// Post is the result of converting a Document.
type Post struct {
	Slug      string
	Title     string
	Date      string
	Excerpt   string
	Published bool
	HTML      []byte
}

// Entry returns the index record for the post.
func (p *Post) Entry() IndexEntry {
	return IndexEntry{
		Title:   p.Title,
		Date:    p.Date,
		Slug:    p.Slug,
		Excerpt: p.Excerpt,
	}
}

// IndexEntry is one record of the site index. Field order matches the JSON
// consumed by the view layer.
type IndexEntry struct {
	Title   string `json:"title"`
	Date    string `json:"date"`
	Slug    string `json:"slug"`
	Excerpt string `json:"excerpt"`
}
