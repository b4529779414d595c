// internal/workers/data-access/query-visa-catalog/queries/registry.go
package queries

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

const (
	QueryTypeCatalogVersions = "catalog_versions"
	QueryTypeActiveCatalog   = "active_catalog"
	QueryTypeCatalogEntry    = "catalog_entry"
	QueryTypeChainNode       = "chain_node"
)

var (
	ErrMissingParam     = errors.New("missing required parameter")
	ErrUnknownQueryType = errors.New("unknown query type")
)

// QueryFunc returns: data, rowCount, executionTime (ms), error
type QueryFunc func(ctx context.Context, db *sql.DB, params map[string]interface{}) (interface{}, int, int64, error)

var Registry = map[string]QueryFunc{
	QueryTypeCatalogVersions: CatalogVersions,
	QueryTypeActiveCatalog:   ActiveCatalog,
	QueryTypeCatalogEntry:    CatalogEntry,
	QueryTypeChainNode:       ChainNode,
}

func Execute(ctx context.Context, db *sql.DB, queryType string, params map[string]interface{}) (interface{}, int, int64, error) {
	fn, exists := Registry[queryType]
	if !exists {
		return nil, 0, 0, fmt.Errorf("%w: %s", ErrUnknownQueryType, queryType)
	}
	return fn(ctx, db, params)
}
