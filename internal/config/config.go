package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds every knob the process reads at startup. Values are passed
// explicitly into constructors; nothing reads the environment after Load.
type Config struct {
	TelegramToken  string
	ShopifyStore   string // e.g. your-shop-name.myshopify.com
	ShopifyToken   string // must include read/write_inventory and read_locations
	APIVersion     string
	StoreDomain    string
	HTTPTimeout    time.Duration
	PollTimeout    time.Duration
	BarcodeEnabled bool
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func atoienv(key string, def int) int {
	v := getenv(key, "")
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func durenvs(key string, defSec int) time.Duration {
	return time.Duration(atoienv(key, defSec)) * time.Second
}

func boolenv(key string, def bool) bool {
	v := getenv(key, "")
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

// Load reads a .env file when present, then collects configuration from
// the environment with defaults.
func Load() Config {
	_ = godotenv.Load()

	return Config{
		TelegramToken:  getenv("TELEGRAM_BOT_TOKEN", ""),
		ShopifyStore:   getenv("SHOPIFY_STORE", ""),
		ShopifyToken:   getenv("SHOPIFY_ADMIN_TOKEN", ""),
		APIVersion:     getenv("SHOPIFY_API_VERSION", "2025-07"),
		StoreDomain:    getenv("STORE_DOMAIN", "https://nikkifashion.com"),
		HTTPTimeout:    durenvs("HTTP_TIMEOUT_SEC", 10),
		PollTimeout:    durenvs("POLL_TIMEOUT_SEC", 30),
		BarcodeEnabled: boolenv("BARCODE_SCANNING", true),
	}
}

// Validate reports the first missing required credential.
func (c Config) Validate() error {
	if c.TelegramToken == "" {
		return errors.New("TELEGRAM_BOT_TOKEN is required")
	}
	if c.ShopifyStore == "" {
		return errors.New("SHOPIFY_STORE is required")
	}
	if c.ShopifyToken == "" {
		return errors.New("SHOPIFY_ADMIN_TOKEN is required")
	}
	return nil
}

// GraphQLURL is the admin API endpoint for the configured store.
func (c Config) GraphQLURL() string {
	return fmt.Sprintf("https://%s/admin/api/%s/graphql.json", c.ShopifyStore, c.APIVersion)
}
