// Package types holds the query vocabulary shared by the repository: filter
// specs and operators, sort specs, projections, optional values, page
// requests, paginated results and ordered records.
package types
