package cli

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"notestore/internal/config"
)

// EnvPrefix namespaces the CLI's environment variables (NOTESTORE_DB_PATH, ...)
const EnvPrefix = "NOTESTORE"

// newViper layers config.yaml under NOTESTORE_* env vars under flags.
// cfgFile overrides the config file location.
func newViper(cfgFile string) (*viper.Viper, error) {
	v := viper.New()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		if dir, err := os.UserConfigDir(); err == nil {
			v.AddConfigPath(filepath.Join(dir, "notestore"))
		}
		v.SetConfigType("yaml")
		v.SetConfigName("config")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	// Defaults come from the same env-driven loader the server uses
	base := config.Load()
	v.SetDefault("environment", base.Environment)
	v.SetDefault("driver", base.StoreDriver)
	v.SetDefault("db-path", base.DBPath)
	v.SetDefault("database-url", base.DatabaseURL)
	v.SetDefault("table-prefix", base.TablePrefix)
	v.SetDefault("lock-timeout", base.LockTimeout)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) || cfgFile != "" {
			return nil, err
		}
	}

	return v, nil
}

// bindStoreFlags exposes the store settings as persistent flags
func bindStoreFlags(cmd *cobra.Command) {
	flags := cmd.PersistentFlags()
	flags.String("driver", "", "store driver: sqlite or postgres")
	flags.String("db-path", "", "sqlite database file")
	flags.String("database-url", "", "postgres connection string")
	flags.String("table-prefix", "", "postgres table prefix")
	flags.Duration("lock-timeout", 0, "max wait for the store lock")
}

// storeConfig resolves the effective store configuration
func storeConfig(v *viper.Viper, cmd *cobra.Command) (*config.Config, error) {
	for _, name := range []string{"driver", "db-path", "database-url", "table-prefix", "lock-timeout"} {
		if err := v.BindPFlag(name, cmd.Flags().Lookup(name)); err != nil {
			return nil, err
		}
	}

	cfg := &config.Config{
		Environment: v.GetString("environment"),
		StoreDriver: v.GetString("driver"),
		DBPath:      v.GetString("db-path"),
		DatabaseURL: v.GetString("database-url"),
		TablePrefix: v.GetString("table-prefix"),
		LockTimeout: v.GetDuration("lock-timeout"),
	}
	if cfg.LockTimeout <= 0 {
		cfg.LockTimeout = config.DefaultLockTimeout
	}

	return cfg, nil
}
