// Package media implements the media AEAD scheme: independent file
// encryption keyed by a fresh 64-byte key per file, so large blobs never
// need to flow through the Double Ratchet (spec.md §4.6). The media key
// itself is carried encrypted inside a ratcheted message payload; this
// package never transmits it in the clear.
package media
