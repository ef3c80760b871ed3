package config

import (
	"reflect"
	"strings"

	"curriculum-loader/core/database"
	"curriculum-loader/core/logger"
	"curriculum-loader/core/storage"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// LoaderConfig holds configuration for the bundle load job itself.
type LoaderConfig struct {
	// TxTimeoutSeconds bounds a single bundle transaction. On expiry the
	// transaction is rolled back and the error is reported as transient.
	TxTimeoutSeconds int `mapstructure:"tx_timeout_seconds" default:"120"`
	// Isolation is the transaction isolation level (default, read-committed,
	// repeatable-read, serializable).
	Isolation string `mapstructure:"isolation" default:"read-committed"`
	// MaxRetries is the number of retry attempts for transient failures.
	MaxRetries int `mapstructure:"max_retries" default:"3"`
	// VerifySchema enables the schema inspector check before loading.
	VerifySchema bool `mapstructure:"verify_schema" default:"true"`
}

// Config holds all configuration for the application.
// It is divided into partial configurations for better modularity.
type Config struct {
	// Database holds configuration for the database connection.
	Database database.Config `mapstructure:"database"`
	// Log holds configuration for the logger.
	Log logger.Config `mapstructure:"log"`
	// Storage holds configuration for the object storage bundle source.
	Storage storage.Config `mapstructure:"storage"`
	// Loader holds configuration for the load job.
	Loader LoaderConfig `mapstructure:"loader"`
}

// LoadConfig loads configuration from environment variables and .env file.
func LoadConfig(path string) (*Config, error) {
	envPath := path + "/.env"
	if path == "." {
		envPath = ".env"
	}

	// Ignore error if the file doesn't exist (e.g. production)
	_ = godotenv.Overload(envPath)

	v := viper.New()

	// Recursively parse struct tags to set default values
	bindValues(v, Config{}, "")

	// Map environment variables to nested keys (e.g. DATABASE_HOST -> database.host)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

// bindValues uses reflection to iterate over the struct and set default values
// in Viper based on the 'default' and 'mapstructure' tags.
func bindValues(v *viper.Viper, iface any, prefix string) {
	t := reflect.TypeOf(iface)

	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		tag := field.Tag.Get("mapstructure")

		if tag == "" {
			continue
		}

		key := tag
		if prefix != "" {
			key = prefix + "." + tag
		}

		// If it's a nested struct, recurse
		if field.Type.Kind() == reflect.Struct {
			bindValues(v, reflect.New(field.Type).Elem().Interface(), key)
			continue
		}

		defaultValue := field.Tag.Get("default")
		// Always set default (even if empty) to register the key for AutomaticEnv
		v.SetDefault(key, defaultValue)
	}
}
