// Package transport implements the HTTP surface of the CogniCase
// backend: the REST routes, their middleware chain, and the JSON wire
// formats.
//
// Two error envelopes are in use. The auth endpoints answer failures
// with {"error": "..."}; every resource endpoint answers with
// {"message": "..."}. Clients depend on the distinction.
package transport
