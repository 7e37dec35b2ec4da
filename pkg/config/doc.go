// Package config reads the accountd configuration from the environment.
//
// # Loading
//
// LoadEnvFile loads an optional .env file with godotenv, then Load reads every section
// with cleanenv and validates it:
//
//	config.LoadEnvFile()
//	cfg, err := config.Load()
//	if err != nil {
//		slog.Error("Invalid configuration", "err", err)
//		os.Exit(1)
//	}
//
// # Sections
//
//   - PersistenceConfig: PERSISTENCE_TYPE (inmem, file, postgres, sqlite), FILE_DATA_PATH, SQLITE_PATH
//   - DatabaseConfig: ACCOUNT_PG_HOST, ACCOUNT_PG_PORT, ACCOUNT_PG_DATABASE, ACCOUNT_PG_USER, ACCOUNT_PG_PASSWORD, ACCOUNT_PG_SCHEMA
//   - JWTConfig: JWT_SECRET, JWT_ISSUER, JWT_AUDIENCE, ACCESS_TOKEN_EXPIRY
//     (JWT_SECRET must be set for file, postgres and sqlite persistence)
//   - RevocationConfig: REVOCATION_BACKEND (inmem, redis), REDIS_ADDR, REDIS_PASSWORD, REDIS_DB
//   - PasswordConfig: PASSWORD_HASHER (bcrypt, argon2)
//   - RateLimitConfig: LOGIN_RATE_LIMIT_ENABLED, LOGIN_RATE_LIMIT_CAPACITY, LOGIN_RATE_LIMIT_PER_MINUTE, LOGIN_RATE_LIMIT_BUCKET_TTL, LOGIN_RATE_LIMIT_TRUST_PROXY
//   - AdminConfig: ADMIN_NAME, ADMIN_EMAIL, ADMIN_PASSWORD
//
// # Validation
//
// Validation only checks the settings of the selected backends. All problems are
// reported together as ValidationErrors:
//
//	func (c *ServiceConfig) Validate() error {
//		return config.Validate(
//			func() config.ValidationErrors {
//				return config.CollectErrors(
//					config.RequireNonEmpty("host", c.Host),
//					config.RequireValidPort("port", c.Port),
//				)
//			},
//		)
//	}
package config
