// Package auth implements the credential issuance service and the
// tenant-scoping middleware.
//
// The issuance service generates one-time passcodes per email address,
// validates them, and mints a signed session token on success. The
// middleware verifies the token on every protected request, resolves
// the embedded subject to an account, and binds the request context to
// that owning identity. Downstream handlers treat the context identity
// as the only permitted source of the owner filter.
package auth
