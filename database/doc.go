// Package database provides the Bun connection manager for MySQL, PostgreSQL
// and SQLite together with viper-based configuration, query log hooks, table
// bootstrap, YAML/SQL fixtures, SQL error classification and the leveled
// logger shared with the repository package.
package database
