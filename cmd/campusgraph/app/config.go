package app

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds the application configuration loaded from config files,
// environment variables, and .env files.
type Config struct {
	// Graph store endpoints
	QueryEndpoint  string
	UpdateEndpoint string

	// IRI prefix for minted identifiers
	Namespace string

	// Run behavior
	DryRun          bool
	AdditionsFile   string
	RetractionsFile string
	ReportFile      string

	// Path to a file of natural keys to leave untouched, one per line
	ExclusionsFile string

	// Logging configuration
	LogLevel  string
	LogFormat string
}

// LoadConfig loads configuration from all sources in order of
// precedence: command-line flags (handled by cobra), environment
// variables, .env files, a config file, then defaults.
func LoadConfig() (*Config, error) {
	loadEnvFiles()

	viper.AutomaticEnv()
	viper.SetEnvPrefix("campusgraph")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))

	configFile := viper.GetString("config")
	if configFile != "" {
		viper.SetConfigFile(configFile)
	} else {
		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(home)
			viper.AddConfigPath(".")
			viper.SetConfigType("yaml")
			viper.SetConfigName(".campusgraph")
		}
	}
	_ = viper.ReadInConfig()

	config := &Config{
		QueryEndpoint:   viper.GetString("query_endpoint"),
		UpdateEndpoint:  viper.GetString("update_endpoint"),
		Namespace:       viper.GetString("namespace"),
		DryRun:          viper.GetBool("dry_run"),
		AdditionsFile:   viper.GetString("additions_file"),
		RetractionsFile: viper.GetString("retractions_file"),
		ReportFile:      viper.GetString("report_file"),
		ExclusionsFile:  viper.GetString("exclusions_file"),
		LogLevel:        getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:       getEnvOrDefault("LOG_FORMAT", "auto"),
	}
	return config, nil
}

// loadEnvFiles loads .env files from the working directory. Missing
// files are fine; malformed ones are skipped.
func loadEnvFiles() {
	for _, file := range []string{".env.local", ".env"} {
		if _, err := os.Stat(file); err == nil {
			_ = godotenv.Load(file)
		}
	}
}

func getEnvOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
