// internal/workers/data-access/query-visa-catalog/queries/catalog.go
package queries

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"
)

// CatalogVersions lists the stored catalog revisions, newest first.
func CatalogVersions(ctx context.Context, db *sql.DB, params map[string]interface{}) (interface{}, int, int64, error) {
	start := time.Now()

	rows, err := db.QueryContext(ctx, `
		SELECT version, published, created_at
		FROM visa_catalog
		ORDER BY created_at DESC`)
	if err != nil {
		return nil, 0, 0, err
	}
	defer rows.Close()

	var results []map[string]interface{}
	for rows.Next() {
		var version, createdAt string
		var published bool
		if err := rows.Scan(&version, &published, &createdAt); err != nil {
			return nil, 0, 0, err
		}
		results = append(results, map[string]interface{}{
			"version":   version,
			"published": published,
			"createdAt": createdAt,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, 0, 0, err
	}

	execTime := time.Since(start).Milliseconds()
	return results, len(results), execTime, nil
}

// ActiveCatalog returns the newest published catalog document.
func ActiveCatalog(ctx context.Context, db *sql.DB, params map[string]interface{}) (interface{}, int, int64, error) {
	start := time.Now()

	var version string
	var document []byte
	err := db.QueryRowContext(ctx, `
		SELECT version, document
		FROM visa_catalog
		WHERE published = true
		ORDER BY created_at DESC
		LIMIT 1`).Scan(&version, &document)
	if err != nil {
		return nil, 0, 0, err
	}

	var decoded map[string]interface{}
	if err := json.Unmarshal(document, &decoded); err != nil {
		return nil, 0, 0, err
	}

	result := map[string]interface{}{
		"version":  version,
		"document": decoded,
	}

	execTime := time.Since(start).Milliseconds()
	return result, 1, execTime, nil
}

// CatalogEntry extracts a single pathway root from the active catalog
// document by visa code.
func CatalogEntry(ctx context.Context, db *sql.DB, params map[string]interface{}) (interface{}, int, int64, error) {
	code, ok := params["visaCode"].(string)
	if !ok || code == "" {
		return nil, 0, 0, ErrMissingParam
	}

	start := time.Now()

	var entry []byte
	err := db.QueryRowContext(ctx, `
		SELECT e.value
		FROM visa_catalog c,
		     jsonb_array_elements(c.document->'entries') e
		WHERE c.published = true
		  AND e.value->>'code' = $1
		ORDER BY c.created_at DESC
		LIMIT 1`, code).Scan(&entry)
	if err != nil {
		return nil, 0, 0, err
	}

	var decoded map[string]interface{}
	if err := json.Unmarshal(entry, &decoded); err != nil {
		return nil, 0, 0, err
	}

	execTime := time.Since(start).Milliseconds()
	return decoded, 1, execTime, nil
}

// ChainNode extracts one chain node from the active catalog document.
func ChainNode(ctx context.Context, db *sql.DB, params map[string]interface{}) (interface{}, int, int64, error) {
	code, ok := params["visaCode"].(string)
	if !ok || code == "" {
		return nil, 0, 0, ErrMissingParam
	}

	start := time.Now()

	var node []byte
	err := db.QueryRowContext(ctx, `
		SELECT c.document->'nodes'->$1
		FROM visa_catalog c
		WHERE c.published = true
		  AND c.document->'nodes' ? $1
		ORDER BY c.created_at DESC
		LIMIT 1`, code).Scan(&node)
	if err != nil {
		return nil, 0, 0, err
	}

	var decoded map[string]interface{}
	if err := json.Unmarshal(node, &decoded); err != nil {
		return nil, 0, 0, err
	}

	execTime := time.Since(start).Milliseconds()
	return decoded, 1, execTime, nil
}
