package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile  string
	apiURL   string
	redisURL string
	dbPath   string
	logLevel string
	pageSize int
	refresh  time.Duration
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "triage-console",
	Short: "Terminal triage console for security alerts, incidents and events",
	Long: `Triage Console is a terminal-first client for a security analyst backend.
It keeps local snapshots of alerts, incidents and events fresh by polling,
lets analysts filter, sort and page through them, and pushes status changes
back through the API.

Features:
- Polling resource caches with Redis-backed snapshot seeding
- Client-side filter, sort, search and pagination pipeline
- Alert triage, incident escalation and assignment from the keyboard
- CSV export and printable incident reports
- SQLite-backed audit trail of every mutation`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.triage-console.yaml)")
	rootCmd.PersistentFlags().StringVar(&apiURL, "api", "http://localhost:8000/api/v1", "Backend API base URL")
	rootCmd.PersistentFlags().StringVar(&redisURL, "redis", "redis://localhost:6379", "Redis connection URL for snapshot seeding")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "./data/triage-console.db", "SQLite audit database path")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().IntVar(&pageSize, "page-size", 25, "Rows per page in list views")
	rootCmd.PersistentFlags().DurationVar(&refresh, "refresh", 5*time.Second, "Cache freshness window")

	// Bind flags to viper
	viper.BindPFlag("api.url", rootCmd.PersistentFlags().Lookup("api"))
	viper.BindPFlag("redis.url", rootCmd.PersistentFlags().Lookup("redis"))
	viper.BindPFlag("database.path", rootCmd.PersistentFlags().Lookup("db"))
	viper.BindPFlag("log.level", rootCmd.PersistentFlags().Lookup("log-level"))
	viper.BindPFlag("view.page_size", rootCmd.PersistentFlags().Lookup("page-size"))
	viper.BindPFlag("cache.refresh", rootCmd.PersistentFlags().Lookup("refresh"))
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory.
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		// Search config in home directory with name ".triage-console" (without extension).
		viper.AddConfigPath(home)
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".triage-console")
	}

	viper.AutomaticEnv() // read in environment variables that match

	// If a config file is found, read it in and watch it for edits so tuning
	// values (refresh window, page size, TTLs) pick up without a restart.
	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
		viper.OnConfigChange(func(e fsnotify.Event) {
			fmt.Fprintln(os.Stderr, "Config file changed:", e.Name)
		})
		viper.WatchConfig()
	}

	// Set defaults
	viper.SetDefault("api.url", "http://localhost:8000/api/v1")
	viper.SetDefault("redis.url", "redis://localhost:6379")
	viper.SetDefault("database.path", "./data/triage-console.db")
	viper.SetDefault("log.level", "info")
	viper.SetDefault("view.page_size", 25)
	viper.SetDefault("cache.refresh", 5*time.Second)
	viper.SetDefault("cache.retry_delay", 500*time.Millisecond)
	viper.SetDefault("notify.ttl", 4*time.Second)
	viper.SetDefault("notify.error_ttl", 0*time.Second)
	viper.SetDefault("export.limit", 1000)
}

// GetConfig returns the current configuration values
func GetConfig() Config {
	return Config{
		API: APIConfig{
			URL: viper.GetString("api.url"),
		},
		Redis: RedisConfig{
			URL: viper.GetString("redis.url"),
		},
		Database: DatabaseConfig{
			Path: viper.GetString("database.path"),
		},
		Log: LogConfig{
			Level: viper.GetString("log.level"),
		},
		View: ViewConfig{
			PageSize: viper.GetInt("view.page_size"),
		},
		Cache: CacheConfig{
			Refresh:    viper.GetDuration("cache.refresh"),
			RetryDelay: viper.GetDuration("cache.retry_delay"),
		},
		Notify: NotifyConfig{
			TTL:      viper.GetDuration("notify.ttl"),
			ErrorTTL: viper.GetDuration("notify.error_ttl"),
		},
	}
}

// Config represents the application configuration
type Config struct {
	API      APIConfig      `mapstructure:"api"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Database DatabaseConfig `mapstructure:"database"`
	Log      LogConfig      `mapstructure:"log"`
	View     ViewConfig     `mapstructure:"view"`
	Cache    CacheConfig    `mapstructure:"cache"`
	Notify   NotifyConfig   `mapstructure:"notify"`
}

type APIConfig struct {
	URL string `mapstructure:"url"`
}

type RedisConfig struct {
	URL string `mapstructure:"url"`
}

type DatabaseConfig struct {
	Path string `mapstructure:"path"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

type ViewConfig struct {
	PageSize int `mapstructure:"page_size"`
}

type CacheConfig struct {
	Refresh    time.Duration `mapstructure:"refresh"`
	RetryDelay time.Duration `mapstructure:"retry_delay"`
}

type NotifyConfig struct {
	TTL      time.Duration `mapstructure:"ttl"`
	ErrorTTL time.Duration `mapstructure:"error_ttl"`
}
