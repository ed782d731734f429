// Command cinefile imports curated movie lists into a local catalog and
// tracks what the user has watched.
//
// The command is a thin presentation layer over internal/api: every
// subcommand opens the catalog, performs one operation, renders the result as
// a table or progress output, and persists the catalog on exit. Commands that
// mutate the catalog hold an exclusive lock on the data directory.
package main
