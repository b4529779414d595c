// internal/workers/data-access/query-job-postings/queries/builders.go
package queries

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
)

var (
	ErrUnknownQueryType = errors.New("unknown query type")
	ErrMissingIndex     = errors.New("index name is required")
)

// JobPostingQuery defines one search against the job postings index.
type JobPostingQuery struct {
	Index      string
	QueryType  string
	Filters    map[string]interface{}
	VisaCodes  []string
	Region     string
	Pagination struct {
		From int
		Size int
	}
}

// BuildQuery builds the search request for a query type.
func BuildQuery(esClient *elasticsearch.Client, q JobPostingQuery) (*esapi.SearchRequest, error) {
	if q.Index == "" {
		return nil, ErrMissingIndex
	}

	var queryBody map[string]interface{}

	switch q.QueryType {
	case "visa_match":
		queryBody = buildVisaMatchQuery(q)
	case "recent_postings":
		queryBody = buildRecentPostingsQuery(q)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownQueryType, q.QueryType)
	}

	body, _ := json.Marshal(queryBody)

	req := esapi.SearchRequest{
		Index:  []string{q.Index},
		Body:   strings.NewReader(string(body)),
		From:   &q.Pagination.From,
		Size:   &q.Pagination.Size,
		Pretty: true,
	}

	return &req, nil
}

// buildVisaMatchQuery finds postings whose sponsored visa types overlap the
// applicant's recommended pathway codes, optionally narrowed by keywords,
// region and industry.
func buildVisaMatchQuery(q JobPostingQuery) map[string]interface{} {
	mustClauses := []interface{}{}
	filterClauses := []interface{}{}

	if len(q.VisaCodes) > 0 {
		filterClauses = append(filterClauses, map[string]interface{}{
			"terms": map[string]interface{}{"sponsoredVisaTypes": q.VisaCodes},
		})
	}

	if keywords, ok := q.Filters["keywords"].(string); ok && keywords != "" {
		mustClauses = append(mustClauses, map[string]interface{}{
			"multi_match": map[string]interface{}{
				"query":  keywords,
				"fields": []string{"title^3", "description^2", "companyName"},
				"type":   "best_fields",
			},
		})
	}

	if industry, ok := q.Filters["industry"].(string); ok && industry != "" {
		filterClauses = append(filterClauses, map[string]interface{}{
			"term": map[string]interface{}{"industry": industry},
		})
	}

	region := q.Region
	if r, ok := q.Filters["region"].(string); ok && r != "" {
		region = r
	}
	if region != "" {
		filterClauses = append(filterClauses, map[string]interface{}{
			"term": map[string]interface{}{"region": region},
		})
	}

	if koreanLevel, ok := q.Filters["maxKoreanLevel"].(float64); ok && koreanLevel > 0 {
		filterClauses = append(filterClauses, map[string]interface{}{
			"range": map[string]interface{}{
				"requiredKoreanLevel": map[string]interface{}{"lte": int(koreanLevel)},
			},
		})
	}

	boolQuery := map[string]interface{}{}
	if len(mustClauses) > 0 {
		boolQuery["must"] = mustClauses
	}
	if len(filterClauses) > 0 {
		boolQuery["filter"] = filterClauses
	}
	if len(boolQuery) == 0 {
		return map[string]interface{}{
			"query": map[string]interface{}{"match_all": map[string]interface{}{}},
		}
	}

	return map[string]interface{}{
		"query": map[string]interface{}{"bool": boolQuery},
	}
}

// buildRecentPostingsQuery lists the newest active postings, optionally
// narrowed to sponsored visa types.
func buildRecentPostingsQuery(q JobPostingQuery) map[string]interface{} {
	filterClauses := []interface{}{
		map[string]interface{}{
			"term": map[string]interface{}{"active": true},
		},
	}

	if len(q.VisaCodes) > 0 {
		filterClauses = append(filterClauses, map[string]interface{}{
			"terms": map[string]interface{}{"sponsoredVisaTypes": q.VisaCodes},
		})
	}

	return map[string]interface{}{
		"query": map[string]interface{}{
			"bool": map[string]interface{}{"filter": filterClauses},
		},
		"sort": []interface{}{
			map[string]interface{}{"postedAt": map[string]interface{}{"order": "desc"}},
		},
	}
}
