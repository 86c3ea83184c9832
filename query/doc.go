// Package query compiles filter specs into Bun WHERE clauses and assembles
// projection, filter, sort and limit/offset into a select plan.
package query
