//go:generate app-config -input ./app.json -output ./config_structs.go -pkg config --struct BaseConfig -extension overrides.yml
//go:generate config-getters -input ./config_structs.go -output config_getters.go
package config

import (
	"errors"
	"fmt"
	"time"
)

// Validate fails closed: the service refuses to boot without a signing key.
func (a BaseConfig) Validate() error {
	if a.Auth.SigningKey == "" {
		return errors.New("auth.signing_key is required")
	}

	if a.Auth.TokenExpiration <= 0 {
		return errors.New("auth.token_expiration must be a positive number of minutes")
	}

	if a.Persistence.DSN == "" {
		return errors.New("persistence.dsn is required")
	}

	return nil
}

func (s Server) Address() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

func (p Persistence) GetServer() string {
	return p.DSN
}

func (p Persistence) GetPingTimeout() time.Duration {
	dur, err := time.ParseDuration(p.PingTimeoutExpression)
	if err != nil {
		panic(
			fmt.Sprintf("unable to parse time: expr %s", p.PingTimeoutExpression),
		)
	}
	return dur
}
