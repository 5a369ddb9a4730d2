// Package vault seals secret phrases with per-enrollment AES-256-GCM keys
// and verifies spoken transcripts against them with fuzzy similarity.
//
// Every operation fails closed: bad keys, damaged ciphertexts, and failed
// transcriptions all read as "not authenticated", never as success.
package vault
