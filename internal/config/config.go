package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
)

// Config is the environment-driven configuration. The WooCommerce
// credential trio is required; a storefront without its commerce
// backend cannot do anything useful, so missing values are an error at
// startup rather than at the first checkout.
type Config struct {
	App struct {
		Port        string
		FrontendURL string
	}
	WooCommerce struct {
		APIURL         string
		ConsumerKey    string
		ConsumerSecret string
		WordPressURL   string
	}
	JNE struct {
		Endpoint string
		Username string
		APIKey   string
	}
	Komerce struct {
		BaseURL string
		APIKey  string
	}
	Shipping struct {
		OriginCode string
		CarrierID  string
	}
	HTTPClientTimeout time.Duration
}

func Load(path string) (*Config, error) {
	if path != "" {
		if err := godotenv.Load(path); err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to load .env: %w", err)
		}
	}

	cfg := &Config{}

	cfg.App.Port = getenv("APP_PORT", "8080")
	cfg.App.FrontendURL = getenv("FRONTEND_URL", "http://localhost:3000")

	cfg.WooCommerce.APIURL = os.Getenv("WOOCOMMERCE_API_URL")
	cfg.WooCommerce.ConsumerKey = os.Getenv("WOOCOMMERCE_CONSUMER_KEY")
	cfg.WooCommerce.ConsumerSecret = os.Getenv("WOOCOMMERCE_CONSUMER_SECRET")
	if cfg.WooCommerce.APIURL == "" || cfg.WooCommerce.ConsumerKey == "" || cfg.WooCommerce.ConsumerSecret == "" {
		return nil, fmt.Errorf("WooCommerce API credentials are not configured")
	}
	cfg.WooCommerce.WordPressURL = getenv("WORDPRESS_URL", "https://jamesboogie.com")

	cfg.JNE.Endpoint = getenv("JNE_API_ENDPOINT", "https://apiv2.jne.co.id:10205/tracing/api/pricedev")
	cfg.JNE.Username = os.Getenv("JNE_USERNAME")
	cfg.JNE.APIKey = os.Getenv("JNE_API_KEY")

	cfg.Komerce.BaseURL = os.Getenv("RAJAONGKIR_BASE_URL")
	cfg.Komerce.APIKey = os.Getenv("RAJAONGKIR_API_KEY")

	cfg.Shipping.OriginCode = getenv("SHIPPING_ORIGIN_CODE", "BDO10000")
	cfg.Shipping.CarrierID = getenv("SHIPPING_CARRIER_ID", "jne")

	timeout := getenv("HTTP_CLIENT_TIMEOUT", "10s")
	parsed, err := time.ParseDuration(timeout)
	if err != nil {
		return nil, fmt.Errorf("invalid HTTP_CLIENT_TIMEOUT %q: %w", timeout, err)
	}
	cfg.HTTPClientTimeout = parsed

	return cfg, nil
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
