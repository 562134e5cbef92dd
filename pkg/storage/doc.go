// Package storage defines the record store interfaces consumed by the
// transport handlers and the auth service, the sentinel errors shared by
// all implementations, and the owner-scoping context helpers.
//
// Every business record carries an owning-account reference. The owner
// is injected into the request context by the auth middleware and read
// back by store implementations; it is never taken from client payloads.
package storage
