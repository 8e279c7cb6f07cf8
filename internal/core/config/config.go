package config

import (
	"errors"
	"fmt"
	"reflect"
	"time"

	"github.com/spf13/viper"
)

// AppConfig holds the configuration for the application.
// Tags used:
// - mapstructure: used by viper to unmarshal
// - default: default value to set if missing
// - required: if "true", error if missing
type AppConfig struct {
	// Environment specifies the runtime environment (e.g., development, production).
	Environment string `mapstructure:"APP_ENV" default:"development"`
	// LogLevel defines the logging verbosity (e.g., debug, info, error).
	LogLevel string `mapstructure:"LOG_LEVEL" default:"info"`
	// ServerPort is the port where the server will listen.
	ServerPort int `mapstructure:"SERVER_PORT" default:"8080"`

	// HTTP holds retry and timeout settings shared by all outbound clients.
	HTTP HTTPConfig `mapstructure:",squash"`

	// Reamaze holds the support-desk API configuration.
	Reamaze ReamazeConfig `mapstructure:",squash"`

	// Shopify holds the storefront Admin API configuration.
	Shopify ShopifyConfig `mapstructure:",squash"`

	// Redis holds the optional response-cache configuration.
	Redis RedisConfig `mapstructure:",squash"`

	// Convocore holds the conversation-export API configuration.
	Convocore ConvocoreConfig `mapstructure:",squash"`
}

// HTTPConfig holds the outbound request policy.
type HTTPConfig struct {
	// Retries is the total attempt budget per request.
	Retries int `mapstructure:"RATE_LIMIT_RETRIES" default:"3"`
	// RateLimitDelaySeconds is the fixed cooldown after an HTTP 429.
	RateLimitDelaySeconds int `mapstructure:"RATE_LIMIT_DELAY" default:"60"`
	// TimeoutSeconds bounds each individual outbound call.
	TimeoutSeconds int `mapstructure:"REQUEST_TIMEOUT" default:"30"`
}

// RateLimitDelay returns the 429 cooldown as a duration.
func (h HTTPConfig) RateLimitDelay() time.Duration {
	return time.Duration(h.RateLimitDelaySeconds) * time.Second
}

// Timeout returns the per-request timeout as a duration.
func (h HTTPConfig) Timeout() time.Duration {
	return time.Duration(h.TimeoutSeconds) * time.Second
}

// ReamazeConfig holds the credentials for the Reamaze support desk.
type ReamazeConfig struct {
	// Subdomain is the brand subdomain (e.g., "acme" for acme.reamaze.io).
	Subdomain string `mapstructure:"REAMAZE_SUBDOMAIN" required:"true"`
	// APIToken is the API token paired with Email for Basic Auth.
	APIToken string `mapstructure:"REAMAZE_API_TOKEN" required:"true"`
	// Email is the account email used for Basic Auth.
	Email string `mapstructure:"REAMAZE_EMAIL" required:"true"`
	// BaseURL overrides the derived API base URL (used in tests).
	BaseURL string `mapstructure:"REAMAZE_BASE_URL"`
	// Channel is the channel slug new conversations are filed under.
	Channel string `mapstructure:"REAMAZE_CHANNEL" default:"support"`
}

// APIBaseURL returns the API root for the configured subdomain.
func (r ReamazeConfig) APIBaseURL() string {
	if r.BaseURL != "" {
		return r.BaseURL
	}
	return fmt.Sprintf("https://%s.reamaze.io/api/v1", r.Subdomain)
}

// ShopifyConfig holds the Shopify Admin API configuration. The whole block is
// optional, but StoreDomain and AdminToken are required together.
type ShopifyConfig struct {
	// StoreDomain is the myshopify domain, e.g. "acme.myshopify.com".
	StoreDomain string `mapstructure:"SHOPIFY_STORE_DOMAIN"`
	// AdminToken is the Admin API access token (starts with shpat_).
	AdminToken string `mapstructure:"SHOPIFY_ADMIN_TOKEN"`
	// APIVersion selects the Admin API version.
	APIVersion string `mapstructure:"SHOPIFY_API_VERSION" default:"2024-10"`
	// GraphQLURL overrides the derived GraphQL endpoint (used in tests).
	GraphQLURL string `mapstructure:"SHOPIFY_GRAPHQL_URL"`
}

// Enabled reports whether any Shopify configuration is present.
func (s ShopifyConfig) Enabled() bool {
	return s.StoreDomain != "" || s.AdminToken != "" || s.GraphQLURL != ""
}

// AdminGraphQLURL returns the Admin GraphQL endpoint.
func (s ShopifyConfig) AdminGraphQLURL() string {
	if s.GraphQLURL != "" {
		return s.GraphQLURL
	}
	return fmt.Sprintf("https://%s/admin/api/%s/graphql.json", s.StoreDomain, s.APIVersion)
}

// Validate checks that domain and token are configured together.
func (s ShopifyConfig) Validate() error {
	if s.GraphQLURL != "" {
		return nil
	}
	if s.StoreDomain != "" && s.AdminToken == "" {
		return errors.New("shopify configuration incomplete: missing SHOPIFY_ADMIN_TOKEN")
	}
	if s.AdminToken != "" && s.StoreDomain == "" {
		return errors.New("shopify configuration incomplete: missing SHOPIFY_STORE_DOMAIN")
	}
	return nil
}

// RedisConfig holds the optional Redis cache settings.
type RedisConfig struct {
	// URL is the Redis connection URL; empty disables caching.
	URL string `mapstructure:"REDIS_URL"`
	// KBCacheTTLSeconds is the TTL for cached knowledge-base searches.
	KBCacheTTLSeconds int `mapstructure:"KB_CACHE_TTL" default:"300"`
}

// KBCacheTTL returns the knowledge-base cache TTL as a duration.
func (r RedisConfig) KBCacheTTL() time.Duration {
	return time.Duration(r.KBCacheTTLSeconds) * time.Second
}

// ConvocoreConfig holds the conversation-export API settings. Only the
// transcripts CLI uses these; the API server does not require them.
type ConvocoreConfig struct {
	// BaseURL is the API root.
	BaseURL string `mapstructure:"CONVOCORE_BASE_URL" default:"https://na-gcp-api.vg-stuff.com/v3"`
	// AgentID is the conversational agent whose transcripts are fetched.
	AgentID string `mapstructure:"CONVOCORE_AGENT_ID"`
	// APIKey is the bearer token for the export API.
	APIKey string `mapstructure:"CONVOCORE_API_KEY"`
}

// Load loads configuration from .env files and environment variables.
func Load(path string) (*AppConfig, error) {
	v := viper.New()

	v.AutomaticEnv()

	v.AddConfigPath(path)
	v.SetConfigName(".env")
	v.SetConfigType("env")

	if err := v.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFoundError) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config AppConfig

	if err := processTags(v, &config); err != nil {
		return nil, err
	}

	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode into struct: %w", err)
	}

	if err := validateRequired(&config); err != nil {
		return nil, err
	}

	if err := config.Shopify.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

// processTags iterates over the struct fields and sets default values in Viper.
func processTags(v *viper.Viper, config interface{}) error {
	val := reflect.ValueOf(config)
	if val.Kind() == reflect.Ptr {
		val = val.Elem()
	}

	t := val.Type()

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)

		if field.Type.Kind() == reflect.Struct {
			if err := processTags(v, val.Field(i).Addr().Interface()); err != nil {
				return err
			}
			continue
		}

		key := field.Tag.Get("mapstructure")
		defaultValue := field.Tag.Get("default")

		if key != "" {
			v.BindEnv(key)
		}

		if key != "" && defaultValue != "" {
			v.SetDefault(key, defaultValue)
		}
	}
	return nil
}

// validateRequired checks if fields marked as required have non-zero values.
func validateRequired(config interface{}) error {
	val := reflect.ValueOf(config)
	if val.Kind() == reflect.Ptr {
		val = val.Elem()
	}

	t := val.Type()

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)

		if field.Type.Kind() == reflect.Struct {
			if err := validateRequired(val.Field(i).Addr().Interface()); err != nil {
				return err
			}
			continue
		}

		required := field.Tag.Get("required")
		if required == "true" {
			value := val.Field(i)
			if isZero(value) {
				key := field.Tag.Get("mapstructure")
				return fmt.Errorf("missing required configuration: %s", key)
			}
		}
	}
	return nil
}

// isZero checks if a reflect.Value is the zero value for its type.
func isZero(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.String:
		return v.String() == ""
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return v.Int() == 0
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return v.Uint() == 0
	case reflect.Float32, reflect.Float64:
		return v.Float() == 0
	case reflect.Bool:
		return !v.Bool()
	case reflect.Slice, reflect.Map:
		return v.Len() == 0
	default:
		return v.IsZero()
	}
}
