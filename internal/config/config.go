package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const envPrefix = "GAMESHOP_"

type Config struct {
	App struct {
		Name     string `koanf:"name"`
		Env      string `koanf:"env"`
		HTTPAddr string `koanf:"http_addr"`
		BaseURL  string `koanf:"base_url"`
		LogLevel string `koanf:"log_level"`
		LogFile  string `koanf:"log_file"`
	} `koanf:"app"`

	HTTP struct {
		ReadTimeout     time.Duration `koanf:"read_timeout"`
		WriteTimeout    time.Duration `koanf:"write_timeout"`
		IdleTimeout     time.Duration `koanf:"idle_timeout"`
		ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
	} `koanf:"http"`

	Catalog struct {
		// Source is a file path or an http(s) URL serving the product JSON array.
		Source  string        `koanf:"source"`
		Timeout time.Duration `koanf:"timeout"`
	} `koanf:"catalog"`

	Cart struct {
		Store     string        `koanf:"store"` // memory | redis | mysql
		KeyPrefix string        `koanf:"key_prefix"`
		TTL       time.Duration `koanf:"ttl"`
	} `koanf:"cart"`

	Redis struct {
		Addr     string `koanf:"addr"`
		Password string `koanf:"password"`
		DB       int    `koanf:"db"`
	} `koanf:"redis"`

	Payment struct {
		// APIKeyEnv names the environment variable holding the provider secret.
		// The secret itself is read on every call, never stored here.
		APIKeyEnv    string        `koanf:"api_key_env"`
		APIBaseURL   string        `koanf:"api_base_url"`
		Timeout      time.Duration `koanf:"timeout"`
		Description  string        `koanf:"description"`
		Locale       string        `koanf:"locale"`
		RedirectPath string        `koanf:"redirect_path"`
		CancelPath   string        `koanf:"cancel_path"`
		WebhookPath  string        `koanf:"webhook_path"`
	} `koanf:"payment"`

	Breaker struct {
		MaxRequests         uint32        `koanf:"max_requests"`
		Interval            time.Duration `koanf:"interval"`
		Timeout             time.Duration `koanf:"timeout"`
		ConsecutiveFailures uint32        `koanf:"consecutive_failures"`
	} `koanf:"breaker"`

	Orders struct {
		Driver         string        `koanf:"driver"` // memory | mysql | postgres | mongo
		DSN            string        `koanf:"dsn"`
		MongoDatabase  string        `koanf:"mongo_database"`
		Migrate        bool          `koanf:"migrate"`
		PersistTimeout time.Duration `koanf:"persist_timeout"`
	} `koanf:"orders"`

	Notify struct {
		Provider      string `koanf:"provider"` // none | smtp | postmark | sendgrid
		From          string `koanf:"from"`
		FromName      string `koanf:"from_name"`
		SMTPAddr      string `koanf:"smtp_addr"`
		SMTPUsername  string `koanf:"smtp_username"`
		SMTPPassword  string `koanf:"smtp_password"`
		PostmarkToken string `koanf:"postmark_token"`
		SendGridKey   string `koanf:"sendgrid_key"`
	} `koanf:"notify"`

	Security struct {
		CartTokenSecret string        `koanf:"cart_token_secret"`
		CartTokenTTL    time.Duration `koanf:"cart_token_ttl"`
	} `koanf:"security"`
}

func defaults() map[string]any {
	return map[string]any{
		"app.name":      "gameshop",
		"app.env":       "dev",
		"app.http_addr": ":8888",
		"app.base_url":  "http://localhost:8888",
		"app.log_level": "info",

		"http.read_timeout":     "10s",
		"http.write_timeout":    "15s",
		"http.idle_timeout":     "60s",
		"http.shutdown_timeout": "10s",

		"catalog.source":  "inventory_local.json",
		"catalog.timeout": "5s",

		"cart.store":      "memory",
		"cart.key_prefix": "gse_cart",
		"cart.ttl":        "720h",

		"redis.addr": "localhost:6379",

		"payment.api_key_env":   "MOLLIE_API_KEY",
		"payment.api_base_url":  "https://api.mollie.com/v2",
		"payment.timeout":       "10s",
		"payment.description":   "GameShop Enter bestelling",
		"payment.locale":        "nl_NL",
		"payment.redirect_path": "/thankyou.html",
		"payment.cancel_path":   "/cancel.html",
		"payment.webhook_path":  "/api/webhook",

		"breaker.max_requests":         1,
		"breaker.interval":             "60s",
		"breaker.timeout":              "30s",
		"breaker.consecutive_failures": 5,

		"orders.driver":          "memory",
		"orders.mongo_database":  "gameshop",
		"orders.migrate":         true,
		"orders.persist_timeout": "5s",

		"notify.provider":  "none",
		"notify.from":      "shop@example.com",
		"notify.from_name": "GameShop Enter",

		"security.cart_token_ttl": "720h",
	}
}

// Load layers defaults, an optional YAML file and GAMESHOP_ environment
// variables (nested keys use "__", e.g. GAMESHOP_ORDERS__DSN).
func Load(path string) (Config, error) {
	k := koanf.New(".")
	if err := k.Load(confmap.Provider(defaults(), "."), nil); err != nil {
		return Config{}, fmt.Errorf("load defaults: %w", err)
	}

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
				return Config{}, fmt.Errorf("load %s: %w", path, err)
			}
		} else if !os.IsNotExist(err) {
			return Config{}, fmt.Errorf("stat %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(envPrefix, ".", func(s string) string {
		s = strings.TrimPrefix(s, envPrefix)
		s = strings.ReplaceAll(s, "__", ".")
		return strings.ToLower(s)
	}), nil); err != nil {
		return Config{}, fmt.Errorf("env overlay: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if c.App.HTTPAddr == "" {
		return fmt.Errorf("app.http_addr required")
	}
	if c.App.BaseURL == "" {
		return fmt.Errorf("app.base_url required")
	}
	if c.Catalog.Source == "" {
		return fmt.Errorf("catalog.source required")
	}
	if c.Payment.APIKeyEnv == "" {
		return fmt.Errorf("payment.api_key_env required")
	}
	if c.Security.CartTokenSecret == "" {
		return fmt.Errorf("security.cart_token_secret required")
	}
	switch c.Cart.Store {
	case "memory":
	case "redis":
		if c.Redis.Addr == "" {
			return fmt.Errorf("redis.addr required for cart.store=redis")
		}
	case "mysql":
		if c.Orders.Driver != "mysql" {
			return fmt.Errorf("cart.store=mysql requires orders.driver=mysql")
		}
	default:
		return fmt.Errorf("unknown cart.store %q", c.Cart.Store)
	}
	switch c.Orders.Driver {
	case "memory":
	case "mysql", "postgres", "mongo":
		if c.Orders.DSN == "" {
			return fmt.Errorf("orders.dsn required for orders.driver=%s", c.Orders.Driver)
		}
	default:
		return fmt.Errorf("unknown orders.driver %q", c.Orders.Driver)
	}
	switch c.Notify.Provider {
	case "none":
	case "smtp":
		if c.Notify.SMTPAddr == "" {
			return fmt.Errorf("notify.smtp_addr required for notify.provider=smtp")
		}
	case "postmark":
		if c.Notify.PostmarkToken == "" {
			return fmt.Errorf("notify.postmark_token required for notify.provider=postmark")
		}
	case "sendgrid":
		if c.Notify.SendGridKey == "" {
			return fmt.Errorf("notify.sendgrid_key required for notify.provider=sendgrid")
		}
	default:
		return fmt.Errorf("unknown notify.provider %q", c.Notify.Provider)
	}
	return nil
}
