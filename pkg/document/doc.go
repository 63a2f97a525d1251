// Package document implements the generic structured document tree that
// diagram files are parsed into before decoding. The tree keeps the raw
// record/array/scalar shape of the file, including record key order, so
// that schema migration can inspect and rewrite shapes that no longer
// exist in the current domain model.
package document
