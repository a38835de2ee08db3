package core

import (
	"fmt"
	"strings"
)

const defaultPlaceholderPhone = "+123"

type ActivityConfig struct {
	Disabled bool `koanf:"disabled" mapstructure:"disabled"`
}

type Config struct {
	ServiceName string `koanf:"service_name" mapstructure:"service_name"`
	// PlaceholderPhone is submitted when the phone stage receives no number.
	PlaceholderPhone string         `koanf:"placeholder_phone" mapstructure:"placeholder_phone"`
	Activity         ActivityConfig `koanf:"activity" mapstructure:"activity"`
}

func DefaultConfig() Config {
	return Config{
		ServiceName:      "bridgeauth",
		PlaceholderPhone: defaultPlaceholderPhone,
	}
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.ServiceName) == "" {
		return fmt.Errorf("core: service_name is required")
	}
	if !strings.HasPrefix(strings.TrimSpace(c.PlaceholderPhone), "+") {
		return fmt.Errorf("core: placeholder_phone must be in international format")
	}
	return nil
}
