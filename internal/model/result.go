package model

// BuildResult summarises a single publish run.
type BuildResult struct {
	BuildID     string
	Converted   int
	Skipped     int
	Unpublished int
	Pruned      int
	IndexPath   string
	Entries     []IndexEntry
}

// Total is the number of documents that made it into the index.
func (r BuildResult) Total() int {
	return r.Converted + r.Skipped
}
