// internal/workers/data-access/query-job-postings/queries/builders_test.go
package queries

import (
	"encoding/json"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeBody(t *testing.T, body io.Reader) map[string]interface{} {
	t.Helper()
	var decoded map[string]interface{}
	require.NoError(t, json.NewDecoder(body).Decode(&decoded))
	return decoded
}

func TestBuildQuery_MissingIndex(t *testing.T) {
	_, err := BuildQuery(nil, JobPostingQuery{QueryType: "visa_match"})
	assert.ErrorIs(t, err, ErrMissingIndex)
}

func TestBuildQuery_UnknownQueryType(t *testing.T) {
	_, err := BuildQuery(nil, JobPostingQuery{Index: "job-postings", QueryType: "nope"})
	assert.ErrorIs(t, err, ErrUnknownQueryType)
}

func TestBuildQuery_VisaMatch(t *testing.T) {
	q := JobPostingQuery{
		Index:     "job-postings",
		QueryType: "visa_match",
		VisaCodes: []string{"E-7", "E-9"},
		Region:    "경기",
		Filters: map[string]interface{}{
			"keywords":       "용접",
			"industry":       "manufacturing",
			"maxKoreanLevel": float64(3),
		},
	}
	q.Pagination.From = 0
	q.Pagination.Size = 10

	req, err := BuildQuery(nil, q)
	require.NoError(t, err)

	assert.Equal(t, []string{"job-postings"}, req.Index)
	body := decodeBody(t, req.Body)

	boolQuery := body["query"].(map[string]interface{})["bool"].(map[string]interface{})
	filters := boolQuery["filter"].([]interface{})
	must := boolQuery["must"].([]interface{})

	assert.Len(t, must, 1)
	multiMatch := must[0].(map[string]interface{})["multi_match"].(map[string]interface{})
	assert.Equal(t, "용접", multiMatch["query"])

	var sawVisaTerms, sawRegion, sawIndustry, sawKoreanLevel bool
	for _, f := range filters {
		clause := f.(map[string]interface{})
		if terms, ok := clause["terms"].(map[string]interface{}); ok {
			if _, ok := terms["sponsoredVisaTypes"]; ok {
				sawVisaTerms = true
			}
		}
		if term, ok := clause["term"].(map[string]interface{}); ok {
			if term["region"] == "경기" {
				sawRegion = true
			}
			if term["industry"] == "manufacturing" {
				sawIndustry = true
			}
		}
		if rng, ok := clause["range"].(map[string]interface{}); ok {
			if _, ok := rng["requiredKoreanLevel"]; ok {
				sawKoreanLevel = true
			}
		}
	}
	assert.True(t, sawVisaTerms)
	assert.True(t, sawRegion)
	assert.True(t, sawIndustry)
	assert.True(t, sawKoreanLevel)
}

func TestBuildQuery_VisaMatch_FilterRegionWins(t *testing.T) {
	q := JobPostingQuery{
		Index:     "job-postings",
		QueryType: "visa_match",
		Region:    "경기",
		Filters:   map[string]interface{}{"region": "서울"},
	}
	q.Pagination.Size = 10

	req, err := BuildQuery(nil, q)
	require.NoError(t, err)

	body := decodeBody(t, req.Body)
	raw, _ := json.Marshal(body)
	assert.Contains(t, string(raw), "서울")
	assert.NotContains(t, string(raw), "경기")
}

func TestBuildQuery_VisaMatch_NoFiltersIsMatchAll(t *testing.T) {
	q := JobPostingQuery{
		Index:     "job-postings",
		QueryType: "visa_match",
		Filters:   map[string]interface{}{},
	}
	q.Pagination.Size = 10

	req, err := BuildQuery(nil, q)
	require.NoError(t, err)

	body := decodeBody(t, req.Body)
	_, ok := body["query"].(map[string]interface{})["match_all"]
	assert.True(t, ok)
}

func TestBuildQuery_RecentPostings(t *testing.T) {
	q := JobPostingQuery{
		Index:     "job-postings",
		QueryType: "recent_postings",
		VisaCodes: []string{"E-8"},
		Filters:   map[string]interface{}{},
	}
	q.Pagination.Size = 5

	req, err := BuildQuery(nil, q)
	require.NoError(t, err)

	body := decodeBody(t, req.Body)
	sort := body["sort"].([]interface{})
	require.Len(t, sort, 1)
	postedAt := sort[0].(map[string]interface{})["postedAt"].(map[string]interface{})
	assert.Equal(t, "desc", postedAt["order"])

	filters := body["query"].(map[string]interface{})["bool"].(map[string]interface{})["filter"].([]interface{})
	assert.Len(t, filters, 2)
}
