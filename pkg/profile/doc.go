// Package profile implements self-service changes to the authenticated caller's account:
// profile updates (name, email, optional password) and password rotation guarded by the
// current password.
package profile
