// Package login provides password hashing and the bearer-token authentication flow.
//
// # Overview
//
// The login package provides:
//   - PasswordHasher with bcrypt (default) and argon2id implementations
//   - LoginService.Login, which validates credentials and issues a token
//   - LoginService.Authenticate, which resolves a bearer token to a Caller
//   - LoginService.Logout, which revokes only the caller's current token
//
// # Basic Usage
//
//	hasher, _ := login.NewPasswordHasher(login.HasherBcrypt)
//	accounts := account.NewAccountService(repo, hasher)
//	tokens := tokengenerator.NewJwtTokenGenerator(secret, "simple-account", "public", 24*time.Hour)
//	service := login.NewLoginService(accounts, tokens, revocation.NewInMemoryStore())
//
//	result, err := service.Login(ctx, login.LoginParams{Email: email, Password: password})
//	caller, err := service.Authenticate(ctx, result.Token)
//	err = service.Logout(ctx, caller)
//
// Unknown emails and wrong passwords both fail with an UNAUTHORIZED error so the
// response does not reveal which accounts exist.
package login
