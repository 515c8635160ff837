package knowledge

// DataSource summarises a knowledge base data source.
type DataSource struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Status string `json:"status"`
}

// KnowledgeBase summarises a knowledge base and its data sources.
type KnowledgeBase struct {
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	Description string       `json:"description"`
	DataSources []DataSource `json:"data_sources"`
}

// QueryRequest selects a knowledge base and the passages to retrieve.
type QueryRequest struct {
	Query           string `json:"query"`
	KnowledgeBaseID string `json:"knowledge_base_id"`
	NumberOfResults int    `json:"number_of_results"`
}

// QueryResult is the outcome of a retrieval.
type QueryResult struct {
	Query           string   `json:"query"`
	KnowledgeBaseID string   `json:"knowledge_base_id"`
	Results         []Result `json:"results"`
	Count           int      `json:"count"`
}

// Result is one retrieved passage.
type Result struct {
	Content  string                 `json:"content"`
	Score    float64                `json:"score"`
	Location *Location              `json:"location,omitempty"`
	Metadata map[string]interface{} `json:"metadata,omitempty"`
}

// Location identifies where a passage came from.
type Location struct {
	Type       string      `json:"type,omitempty"`
	S3Location *S3Location `json:"s3Location,omitempty"`
	// URL is the document URL, or the document id for custom sources.
	URL string `json:"url,omitempty"`
	// SQL is the query that produced a structured data passage.
	SQL string `json:"sql,omitempty"`
}

type S3Location struct {
	URI string `json:"uri"`
}

// URI returns the S3 URI or the document URL, whichever is known.
func (l *Location) URI() string {
	if l == nil {
		return ""
	}
	if l.S3Location != nil && l.S3Location.URI != "" {
		return l.S3Location.URI
	}
	return l.URL
}
