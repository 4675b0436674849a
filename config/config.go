package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"reflect"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	configFileEnvName = "STOREFRONT_CONFIG_FILE"
	envPrefix         = "STOREFRONT"
)

const (
	SourceFile     = "file"
	SourcePostgres = "postgres"
)

type catalog struct {
	Source      string `mapstructure:"source"`
	ContentFile string `mapstructure:"content_file"`
	SQLDB       string `mapstructure:"sql_db"`
}

type cart struct {
	SessionTTL     time.Duration `mapstructure:"session_ttl"`
	SweepInterval  time.Duration `mapstructure:"sweep_interval"`
	MaxAddQuantity int           `mapstructure:"max_add_quantity"`
}

type pricing struct {
	Currency              string          `mapstructure:"currency"`
	FreeShippingThreshold decimal.Decimal `mapstructure:"free_shipping_threshold"`
	ShippingFee           decimal.Decimal `mapstructure:"shipping_fee"`
}

type tlsFiles struct {
	CAFile   string `mapstructure:"ca_file"`
	CertFile string `mapstructure:"cert_file"`
	KeyFile  string `mapstructure:"key_file"`
}

// Enabled reports whether any TLS file is set.
func (t tlsFiles) Enabled() bool {
	return t.CAFile != "" || t.CertFile != "" || t.KeyFile != ""
}

type topics struct {
	CartEvents string `mapstructure:"cart_events"`
}

type consumers struct {
	PopularityGroup string `mapstructure:"popularity_group"`
}

type broker struct {
	Enabled            bool      `mapstructure:"enabled"`
	SeedBrokers        []string  `mapstructure:"seed_brokers"`
	SchemaRegistryURLs []string  `mapstructure:"schema_registry_urls"`
	TLS                tlsFiles  `mapstructure:"tls"`
	Topics             topics    `mapstructure:"topics"`
	Consumers          consumers `mapstructure:"consumers"`
}

type Config struct {
	LogLevel       slog.Level `mapstructure:"log_level"`
	HTTPServerAddr string     `mapstructure:"http_server_addr"`
	Catalog        catalog    `mapstructure:"catalog"`
	Cart           cart       `mapstructure:"cart"`
	Pricing        pricing    `mapstructure:"pricing"`
	Broker         broker     `mapstructure:"broker"`
}

// Load reads the file named by --config or STOREFRONT_CONFIG_FILE and exits
// the process on any error.
func Load() Config {
	cfg, err := LoadFile(getConfigFilepath())
	if err != nil {
		die(err)
	}
	return cfg
}

// LoadFile reads and validates the config file. STOREFRONT_* environment
// variables override file values, e.g. STOREFRONT_CATALOG_SQL_DB.
func LoadFile(path string) (Config, error) {
	const op = "config.LoadFile"

	v := viper.New()
	setDefaults(v)
	v.SetConfigFile(path)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return Config{}, fmt.Errorf("%s: %w", op, err)
	}

	var cfg Config
	err := v.UnmarshalExact(&cfg, viper.DecodeHook(
		mapstructure.ComposeDecodeHookFunc(
			decimalHookFunc(),
			mapstructure.TextUnmarshallerHookFunc(),
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
	))
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", op, err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("%s: %w", op, err)
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log_level", "info")
	v.SetDefault("http_server_addr", ":8080")
	v.SetDefault("catalog.source", SourceFile)
	v.SetDefault("catalog.content_file", "")
	v.SetDefault("catalog.sql_db", "")
	v.SetDefault("cart.session_ttl", "30m")
	v.SetDefault("cart.sweep_interval", "1m")
	v.SetDefault("cart.max_add_quantity", 99)
	v.SetDefault("pricing.currency", "USD")
	v.SetDefault("pricing.free_shipping_threshold", "50")
	v.SetDefault("pricing.shipping_fee", "5.99")
	v.SetDefault("broker.enabled", false)
	v.SetDefault("broker.seed_brokers", []string{})
	v.SetDefault("broker.schema_registry_urls", []string{})
	v.SetDefault("broker.tls.ca_file", "")
	v.SetDefault("broker.tls.cert_file", "")
	v.SetDefault("broker.tls.key_file", "")
	v.SetDefault("broker.topics.cart_events", "cart-events")
	v.SetDefault("broker.consumers.popularity_group", "product-popularity")
}

// decimalHookFunc accepts both quoted and bare YAML numbers for decimals.
func decimalHookFunc() mapstructure.DecodeHookFuncType {
	decimalType := reflect.TypeOf(decimal.Decimal{})
	return func(f reflect.Type, t reflect.Type, data any) (any, error) {
		if t != decimalType {
			return data, nil
		}
		switch v := data.(type) {
		case string:
			return decimal.NewFromString(v)
		case int:
			return decimal.NewFromInt(int64(v)), nil
		case int64:
			return decimal.NewFromInt(v), nil
		case float64:
			return decimal.NewFromFloat(v), nil
		}
		return data, nil
	}
}

// Validate reports every problem at once.
func (c Config) Validate() error {
	var errs []error

	switch c.Catalog.Source {
	case SourceFile:
		if c.Catalog.ContentFile == "" {
			errs = append(errs, errors.New("catalog.content_file: required for file source"))
		}
	case SourcePostgres:
		if c.Catalog.SQLDB == "" {
			errs = append(errs, errors.New("catalog.sql_db: required for postgres source"))
		}
	default:
		errs = append(errs, fmt.Errorf("catalog.source: unknown source %q", c.Catalog.Source))
	}

	if c.Cart.MaxAddQuantity < 1 {
		errs = append(errs, errors.New("cart.max_add_quantity: must be positive"))
	}

	if c.Pricing.FreeShippingThreshold.IsNegative() {
		errs = append(errs, errors.New("pricing.free_shipping_threshold: must not be negative"))
	}

	if c.Pricing.ShippingFee.IsNegative() {
		errs = append(errs, errors.New("pricing.shipping_fee: must not be negative"))
	}

	if c.Broker.Enabled {
		errs = append(errs, c.Broker.validate()...)
	}

	return errors.Join(errs...)
}

func (b broker) validate() (errs []error) {
	if len(b.SeedBrokers) == 0 {
		errs = append(errs, errors.New("broker.seed_brokers: required"))
	}
	if len(b.SchemaRegistryURLs) == 0 {
		errs = append(errs, errors.New("broker.schema_registry_urls: required"))
	}
	if b.Topics.CartEvents == "" {
		errs = append(errs, errors.New("broker.topics.cart_events: required"))
	}
	if b.Consumers.PopularityGroup == "" {
		errs = append(errs, errors.New("broker.consumers.popularity_group: required"))
	}
	if b.TLS.Enabled() &&
		(b.TLS.CAFile == "" || b.TLS.CertFile == "" || b.TLS.KeyFile == "") {
		errs = append(errs, errors.New("broker.tls: ca_file, cert_file and key_file go together"))
	}
	return errs
}

func getConfigFilepath() string {
	cmdLine := pflag.NewFlagSet(os.Args[0], pflag.ExitOnError)
	arg := cmdLine.String("config", "/config.yaml", "config file")
	_ = cmdLine.Parse(os.Args[1:])
	env, ok := os.LookupEnv(configFileEnvName)
	if ok {
		return env
	}
	return *arg
}

func die(err error) {
	fmt.Printf("failed to load config file: %v\n", err)
	os.Exit(2)
}

func (c Config) Print() {
	template := `
	General:
	LogLevel=%q
	HTTPServerAddr=%q

	Catalog:
	Source=%q
	ContentFile=%q
	SQLDB=%q

	Cart:
	SessionTTL=%s
	SweepInterval=%s
	MaxAddQuantity=%d

	Pricing:
	Currency=%q
	FreeShippingThreshold=%s
	ShippingFee=%s

	BrokerConfig:
	Enabled=%t
	SeedBrokers=%q
	SchemaRegistryURLs=%q
	TLS=%t
	Topics:
		CartEvents=%q
	Consumers:
		PopularityGroup=%q

`
	fmt.Println("Loaded config:")
	fmt.Printf(
		strings.TrimLeft(template, "\n"),
		c.LogLevel,
		c.HTTPServerAddr,
		c.Catalog.Source,
		c.Catalog.ContentFile,
		redactDSN(c.Catalog.SQLDB),
		c.Cart.SessionTTL,
		c.Cart.SweepInterval,
		c.Cart.MaxAddQuantity,
		c.Pricing.Currency,
		c.Pricing.FreeShippingThreshold,
		c.Pricing.ShippingFee,
		c.Broker.Enabled,
		c.Broker.SeedBrokers,
		c.Broker.SchemaRegistryURLs,
		c.Broker.TLS.Enabled(),
		c.Broker.Topics.CartEvents,
		c.Broker.Consumers.PopularityGroup,
	)
}

// redactDSN renders the connection settings of a URL or keyword DSN
// without the password.
func redactDSN(dsn string) string {
	if dsn == "" {
		return ""
	}

	connConfig, err := pgx.ParseConfig(dsn)
	if err != nil {
		return "<invalid dsn>"
	}

	redacted := fmt.Sprintf(
		"host=%s port=%d user=%s dbname=%s",
		connConfig.Host, connConfig.Port, connConfig.User, connConfig.Database,
	)
	if connConfig.Password != "" {
		redacted += " password=***"
	}
	return redacted
}
