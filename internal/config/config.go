package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"

	"github.com/avstrong/resort/internal/pricing"
)

const envPrefix = "RESORT"

var ErrInvalid = errors.New("invalid config")

type App struct {
	// HTTP
	HTTPHost          string        `envconfig:"HTTP_HOST" default:"localhost"`
	HTTPPort          string        `envconfig:"HTTP_PORT" default:"8092"`
	ReadHeaderTimeout time.Duration `envconfig:"READ_HEADER_TIMEOUT" default:"20s"`
	ShutdownTimeout   time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"4s"`
	LivenessEndpoint  string        `envconfig:"LIVENESS_ENDPOINT" default:"/liveness"`
	// Logging
	LogLevel  string `envconfig:"LOG_LEVEL" default:"info"`
	LogFormat string `envconfig:"LOG_FORMAT" default:"text"`
	// Pricing
	Currency         string `envconfig:"CURRENCY" default:"USD"`
	TaxRateBP        int64  `envconfig:"TAX_RATE_BP" default:"1000"`
	ServiceChargeBP  int64  `envconfig:"SERVICE_CHARGE_BP" default:"500"`
	ExtrasChargeMode string `envconfig:"EXTRAS_CHARGE_MODE" default:"per_stay"`
	// Settlement
	LoyaltyPointsPerUnit int64 `envconfig:"LOYALTY_POINTS_PER_UNIT" default:"1"`
	PaymentDeclineAbove  int64 `envconfig:"PAYMENT_DECLINE_ABOVE" default:"0"`
	SeedDemoData         bool  `envconfig:"SEED_DEMO_DATA" default:"true"`
}

func Load() (App, error) {
	var c App

	if err := envconfig.Process(envPrefix, &c); err != nil {
		return App{}, fmt.Errorf("process env: %w", err)
	}

	if err := c.Validate(); err != nil {
		return App{}, err
	}

	return c, nil
}

func (c App) Validate() error {
	switch {
	case c.HTTPPort == "":
		return fmt.Errorf("http port is empty: %w", ErrInvalid)
	case c.TaxRateBP < 0 || c.ServiceChargeBP < 0:
		return fmt.Errorf("tax and service charge must not be negative: %w", ErrInvalid)
	case !pricing.ExtrasChargeMode(c.ExtrasChargeMode).Valid():
		return fmt.Errorf("extras charge mode %q: %w", c.ExtrasChargeMode, ErrInvalid)
	case c.LoyaltyPointsPerUnit < 0:
		return fmt.Errorf("loyalty points per unit must not be negative: %w", ErrInvalid)
	case len(c.Currency) != 3: //nolint:gomnd
		return fmt.Errorf("currency %q is not an ISO 4217 code: %w", c.Currency, ErrInvalid)
	}

	return nil
}

func (c App) Pricing() pricing.Config {
	return pricing.Config{
		TaxRateBP:       c.TaxRateBP,
		ServiceChargeBP: c.ServiceChargeBP,
		ExtrasMode:      pricing.ExtrasChargeMode(c.ExtrasChargeMode),
	}
}
