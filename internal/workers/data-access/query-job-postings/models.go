// internal/workers/data-access/query-job-postings/models.go
package queryjobpostings

type Input struct {
	IndexName  string                 `json:"indexName,omitempty"`
	QueryType  string                 `json:"queryType"`
	VisaCodes  []string               `json:"visaCodes,omitempty"`
	Region     string                 `json:"region,omitempty"`
	Filters    map[string]interface{} `json:"filters,omitempty"`
	Pagination Pagination             `json:"pagination"`
}

type Pagination struct {
	From int `json:"from"`
	Size int `json:"size"`
}

type Output struct {
	Data      []map[string]interface{} `json:"data"`
	TotalHits int64                    `json:"totalHits"`
	MaxScore  float64                  `json:"maxScore"`
	Took      int64                    `json:"took"` // milliseconds
}
