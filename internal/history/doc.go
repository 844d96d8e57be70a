// Package history persists a journal of extraction runs in SQLite. Each run
// records the package, the resolved staging and destination roots, and one
// row per placed record, so GUID lookups keep working after the in-memory
// catalog is gone.
package history
