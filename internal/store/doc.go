// Package store persists dataset tables into SQLite (modernc.org/sqlite) or
// MySQL (go-sql-driver/mysql).
//
// Every write is a full replacement: the relation is dropped, recreated with
// column types inferred from the values, and refilled inside one
// transaction. Relations are replaced independently of each other.
package store
