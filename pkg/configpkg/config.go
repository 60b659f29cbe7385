// Package configpkg provides parsing functionality for environment variables.
package configpkg

import (
	"github.com/spf13/viper"
)

// Storage drivers.
const (
	StoragePostgres = "postgres"
	StorageMemory   = "memory"
)

// Credential sources.
const (
	CredentialsFile     = "file"
	CredentialsPostgres = "postgres"
)

// Config stores all configuration of the application.
//
// The values are read by viper fron a config file or environement variables.
type Config struct {
	DBDriver          string `mapstructure:"DB_DRIVER"`
	DBSource          string `mapstructure:"DB_SOURCE"`
	ServerAddress     string `mapstructure:"SERVER_ADDRESS"`
	Environement      string `mapstructure:"GO_ENV"`
	StorageDriver     string `mapstructure:"STORAGE_DRIVER"`
	CredentialsSource string `mapstructure:"CREDENTIALS_SOURCE"`
	CredentialsFile   string `mapstructure:"CREDENTIALS_FILE"`
	PolicyFile        string `mapstructure:"POLICY_FILE"`
	MigrateOnStart    bool   `mapstructure:"MIGRATE_ON_START"`
	BcryptCost        int    `mapstructure:"BCRYPT_COST"`
}

// Load read configuration from file or environment variables.
func Load(path string) (Config, error) {
	var c Config

	v := viper.New()
	v.AddConfigPath(path)
	v.SetConfigName("app")
	v.SetConfigType("env")

	v.SetDefault("SERVER_ADDRESS", "0.0.0.0:8080")
	v.SetDefault("STORAGE_DRIVER", StoragePostgres)
	v.SetDefault("CREDENTIALS_SOURCE", CredentialsFile)

	v.AutomaticEnv()

	err := v.ReadInConfig()
	if err != nil {
		return c, err
	}

	err = v.Unmarshal(&c)
	if err != nil {
		return c, err
	}

	return c, nil
}
