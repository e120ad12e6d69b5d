package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/kelseyhightower/envconfig"
	pkgerrors "github.com/pkg/errors"

	"tiffinOrderManagement/models"
)

// Config holds all application configuration, populated from the
// environment (optionally via a .env file loaded in main).
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Admin    AdminConfig
	UPI      UPIConfig
	Razorpay RazorpayConfig
	Pricing  PricingConfig
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Address string `envconfig:"HTTP_ADDRESS" default:":4000"`
	// PublicBaseURL is the externally reachable base used to build the
	// payment provider callback URL.
	PublicBaseURL string `envconfig:"PUBLIC_BASE_URL" default:"http://localhost:4000"`
}

// DatabaseConfig contains database-related settings.
type DatabaseConfig struct {
	Path string `envconfig:"DB_PATH" default:"tiffin.db"` // SQLite database file path
}

// AdminConfig contains admin authentication settings.
type AdminConfig struct {
	PIN       string        `envconfig:"ADMIN_PIN"`
	JWTSecret string        `envconfig:"JWT_SECRET"`
	TokenTTL  time.Duration `envconfig:"ADMIN_TOKEN_TTL" default:"12h"`
}

// UPIConfig contains the payee identity for UPI deep links.
type UPIConfig struct {
	VPA          string `envconfig:"UPI_ID"`
	BusinessName string `envconfig:"BUSINESS_NAME" default:"Sharma Tiffin"`
}

// RazorpayConfig contains payment provider credentials. WebhookSecret
// is distinct from KeySecret and is never defaulted from it: event
// webhooks fail closed when it is unset.
type RazorpayConfig struct {
	KeyID         string `envconfig:"RAZORPAY_KEY_ID"`
	KeySecret     string `envconfig:"RAZORPAY_KEY_SECRET"`
	WebhookSecret string `envconfig:"RAZORPAY_WEBHOOK_SECRET"`
}

// PricingConfig points at an optional JSON file carrying the pricing
// table and delivery slabs; built-in defaults apply when unset.
type PricingConfig struct {
	Path string `envconfig:"PRICING_CONFIG"`
}

// Load loads configuration from environment variables and validates
// settings required in production.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, pkgerrors.Wrap(err, "process environment")
	}
	if cfg.Admin.PIN == "" {
		return nil, fmt.Errorf("ADMIN_PIN environment variable is not set; required for production")
	}
	if cfg.Admin.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET environment variable is not set; required for production")
	}
	if cfg.UPI.VPA == "" {
		return nil, fmt.Errorf("UPI_ID environment variable is not set; required for production")
	}
	return &cfg, nil
}

// LoadWithDefaults is like Load but fills safe development defaults for
// the required settings. WARNING: Only use in development!
func LoadWithDefaults() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, pkgerrors.Wrap(err, "process environment")
	}
	if cfg.Admin.PIN == "" {
		cfg.Admin.PIN = "1234"
	}
	if cfg.Admin.JWTSecret == "" {
		cfg.Admin.JWTSecret = "dev-secret-change-me"
	}
	if cfg.UPI.VPA == "" {
		cfg.UPI.VPA = "sharmatiffin@upi"
	}
	return &cfg, nil
}

// String returns a string representation of the config (sensitive
// values are masked).
func (c *Config) String() string {
	return fmt.Sprintf("Config{HTTP: %s, DB: %s, UPI: %s, Razorpay: %s, Admin: *** (masked) ***}",
		c.Server.Address, c.Database.Path, c.UPI.VPA, maskKey(c.Razorpay.KeyID))
}

func maskKey(k string) string {
	if k == "" {
		return "(unset)"
	}
	if len(k) <= 4 {
		return "****"
	}
	return k[:4] + "****"
}

// pricingFile mirrors the JSON layout of the shared pricing config.
type pricingFile struct {
	Pricing  models.PricingTable `json:"pricing"`
	Delivery struct {
		Slabs models.DeliverySlabs `json:"slabs"`
	} `json:"delivery"`
}

// LoadPricing reads the pricing table and delivery slabs, from the
// configured JSON file when present, otherwise built-in defaults.
// Validation happens in pricing.NewEngine, not here.
func (c *Config) LoadPricing() (models.PricingTable, models.DeliverySlabs, error) {
	if c.Pricing.Path == "" {
		return defaultPricingTable(), defaultDeliverySlabs(), nil
	}
	data, err := os.ReadFile(c.Pricing.Path)
	if err != nil {
		return models.PricingTable{}, nil, pkgerrors.Wrap(err, "read pricing config")
	}
	var f pricingFile
	if err := json.Unmarshal(data, &f); err != nil {
		return models.PricingTable{}, nil, pkgerrors.Wrap(err, "parse pricing config")
	}
	return f.Pricing, f.Delivery.Slabs, nil
}

func defaultPricingTable() models.PricingTable {
	return models.PricingTable{
		DailyMeal:     90,
		Breakfast:     50,
		MonthlyVeg:    2500,
		MonthlyNonVeg: 3200,
	}
}

func defaultDeliverySlabs() models.DeliverySlabs {
	return models.DeliverySlabs{
		{MaxKm: 3, Fee: 20},
		{MaxKm: 7, Fee: 40},
	}
}
