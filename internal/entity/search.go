package entity

// DocumentChunk is a fragment of an ingested document as returned by search
type DocumentChunk struct {
	ChunkText    string `json:"chunk"`
	RelativePath string `json:"relative_path"`
	Category     string `json:"category"`
}

// SearchColumns is the fixed projection requested from the search service
var SearchColumns = []string{"chunk", "relative_path", "category"}

// SearchQuery is a single retrieval request built per turn
type SearchQuery struct {
	Text     string
	Category string // empty or CategoryAll means no filter
	Limit    int
}

// HasFilter reports whether the query restricts results to one category
func (q SearchQuery) HasFilter() bool {
	return q.Category != "" && q.Category != CategoryAll
}

// SearchResult is the ranked outcome of a retrieval, best match first
type SearchResult struct {
	Chunks []DocumentChunk `json:"results"`
}

// SearchFilter is the equality constraint sent to the search service
type SearchFilter struct {
	Eq map[string]string `json:"@eq"`
}

// SearchRequest is the wire request of the search service
type SearchRequest struct {
	Query   string        `json:"query"`
	Columns []string      `json:"columns"`
	Filter  *SearchFilter `json:"filter,omitempty"`
	Limit   int           `json:"limit"`
}

// NewSearchRequest converts a SearchQuery to its wire form
func NewSearchRequest(q SearchQuery) *SearchRequest {
	req := &SearchRequest{
		Query:   q.Text,
		Columns: SearchColumns,
		Limit:   q.Limit,
	}
	if q.HasFilter() {
		req.Filter = &SearchFilter{Eq: map[string]string{"category": q.Category}}
	}
	return req
}

// Citation is a source document reference with an optional link
type Citation struct {
	RelativePath string `json:"relative_path"`
	URL          string `json:"url,omitempty"`
}
