package router

import (
	"github.com/tendant/simple-account/pkg/account"
	"github.com/tendant/simple-account/pkg/iam"
	"github.com/tendant/simple-account/pkg/login"
	"github.com/tendant/simple-account/pkg/login/loginapi"
	"github.com/tendant/simple-account/pkg/profile"
	"github.com/tendant/simple-account/pkg/ratelimit"
	"github.com/tendant/simple-account/pkg/revocation"
	"github.com/tendant/simple-account/pkg/signup"
	"github.com/tendant/simple-account/pkg/tokengenerator"
)

// Dependencies are the storage and crypto pieces the services are built on
type Dependencies struct {
	Repository     account.AccountRepository
	Hasher         login.PasswordHasher
	TokenGenerator tokengenerator.TokenGenerator
	Revocations    revocation.Store

	AccountOptions []account.Option
}

// Services groups the application services built from Dependencies
type Services struct {
	Accounts *account.AccountService
	Login    *login.LoginService
	Signup   *signup.SignupService
	Profile  *profile.ProfileService
	Iam      *iam.IamService
}

// NewServices wires every service on top of one credential store
func NewServices(deps Dependencies) Services {
	accounts := account.NewAccountService(deps.Repository, deps.Hasher, deps.AccountOptions...)
	return Services{
		Accounts: accounts,
		Login:    login.NewLoginService(accounts, deps.TokenGenerator, deps.Revocations),
		Signup:   signup.NewSignupService(accounts),
		Profile:  profile.NewProfileService(accounts),
		Iam:      iam.NewIamService(accounts),
	}
}

// NewConfig builds the route configuration for services
func NewConfig(services Services, loginThrottle *ratelimit.Middleware) Config {
	return Config{
		LoginHandle:   loginapi.NewHandle(services.Login),
		SignupHandle:  signup.NewHandle(services.Signup),
		ProfileHandle: profile.NewHandle(services.Profile),
		UserHandle:    iam.NewHandle(services.Iam),
		Authenticator: services.Login,
		LoginThrottle: loginThrottle,
	}
}
