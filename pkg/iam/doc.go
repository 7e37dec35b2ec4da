// Package iam provides admin-only user management: create, list, update and delete
// accounts with explicit role sets.
//
// # Authorization
//
// Every IamService method takes the authenticated caller and fails with a FORBIDDEN
// error unless the caller holds the "admin" role. The HTTP layer additionally mounts
// the routes behind client.RequireAdmin.
//
// # Usage
//
//	service := iam.NewIamService(accounts)
//	r.Route("/admin", func(r chi.Router) {
//		r.Use(client.AuthMiddleware(loginService), client.RequireAdmin)
//		iam.NewHandle(service).RegisterRoutes(r)
//	})
package iam
