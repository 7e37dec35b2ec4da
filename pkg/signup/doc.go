// Package signup implements public self-registration.
//
// Every registered account starts with exactly the "user" role; elevated roles
// are only granted through the admin endpoints.
//
//	service := signup.NewSignupService(accounts)
//	handle := signup.NewHandle(service)
//	handle.RegisterRoutes(r)
package signup
