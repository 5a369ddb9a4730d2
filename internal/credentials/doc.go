// Package credentials persists per-identity enrollment records in SQLite.
//
// Each record bundles the enrolled voice template with the sealed secret
// phrase and its key. Writes are whole-record upserts; a reset or re-signup
// fully replaces prior enrollment data, and records are never partially
// updated. Schema changes bump the version in schema.go.
package credentials
