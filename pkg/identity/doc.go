// Package identity carries the authenticated user through a request.
//
// The JWT middleware verifies the bearer token, builds an Identity from its
// claims and the request (remote IP, request id) and stores it in the
// request context:
//
//	ctx = identity.Set(ctx, id)
//
// Handlers read it back with identity.Get and gate writes with
// CanWrite and administration with IsAdmin.
package identity
