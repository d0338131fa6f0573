package renderreport

import (
	"fmt"
	"time"
)

type Config struct {
	Enabled       bool          `mapstructure:"enabled"`
	MaxJobsActive int           `mapstructure:"max_jobs_active"`
	Timeout       time.Duration `mapstructure:"timeout"`
	BrandName     string        `mapstructure:"brand_name"`
	ContactEmail  string        `mapstructure:"contact_email"`
	WebsiteURL    string        `mapstructure:"website_url"`
}

func DefaultConfig() *Config {
	return &Config{
		Enabled:       true,
		MaxJobsActive: 5,
		Timeout:       30 * time.Second,
		BrandName:     "BeamX Solutions",
		ContactEmail:  "info@beamxsolutions.com",
		WebsiteURL:    "https://beamxsolutions.com",
	}
}

func (c *Config) Validate() error {
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive")
	}
	if c.BrandName == "" {
		return fmt.Errorf("brand_name is required")
	}
	return nil
}
