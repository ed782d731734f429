// Package store persists CineFile state in a local SQLite database.
//
// The database is a small key/value table: settings, user lists, and the
// catalog snapshot are each stored under a fixed key as text or JSON. A
// schema_version row guards against opening a database written by an
// incompatible build. Lock provides the single-writer guarantee for the data
// directory across processes.
package store
