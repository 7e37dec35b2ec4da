package config

import (
	"fmt"
	"time"

	"github.com/jinzhu/copier"
	"github.com/tendant/simple-account/pkg/ratelimit"
)

// RateLimitConfig contains the login throttle settings
type RateLimitConfig struct {
	Enabled   bool          `env:"LOGIN_RATE_LIMIT_ENABLED" env-default:"true"`
	Capacity  int           `env:"LOGIN_RATE_LIMIT_CAPACITY" env-default:"5"`
	PerMinute float64       `env:"LOGIN_RATE_LIMIT_PER_MINUTE" env-default:"5"`
	BucketTTL time.Duration `env:"LOGIN_RATE_LIMIT_BUCKET_TTL" env-default:"10m"`

	TrustProxyHeaders bool `env:"LOGIN_RATE_LIMIT_TRUST_PROXY" env-default:"false"`
}

// ThrottleConfig converts the settings into a ratelimit.Config
func (c RateLimitConfig) ThrottleConfig() (ratelimit.Config, error) {
	var out ratelimit.Config
	if err := copier.Copy(&out, &c); err != nil {
		return ratelimit.Config{}, fmt.Errorf("failed to copy rate limit config: %w", err)
	}
	return out, nil
}
