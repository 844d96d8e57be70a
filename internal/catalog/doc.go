// Package catalog orchestrates package extraction: it resolves the staging
// and destination roots, expands the archive, builds one asset record per
// staged GUID directory, places each record into the destination tree, and
// keeps the resulting records addressable by GUID.
package catalog
