// Package repository provides a generic, branch-aware repository built on Bun:
// create, find, update and delete by id, declarative fetch and pagination
// through the query package, and branch id stamping on create.
package repository
