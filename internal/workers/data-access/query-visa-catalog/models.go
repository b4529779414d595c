// internal/workers/data-access/query-visa-catalog/models.go
package queryvisacatalog

type Input struct {
	QueryType string                 `json:"queryType"`
	VisaCode  string                 `json:"visaCode,omitempty"`
	Filters   map[string]interface{} `json:"filters,omitempty"`
}

type Output struct {
	Data               interface{} `json:"data"`
	RowCount           int         `json:"rowCount"`
	QueryExecutionTime int64       `json:"queryExecutionTime"` // milliseconds
}
