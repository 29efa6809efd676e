package main

import (
	"flag"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/mindloom/theraflow/internal/api"
	"github.com/mindloom/theraflow/internal/genai"
	"github.com/mindloom/theraflow/internal/store"
)

// Default configuration constants
const (
	// DefaultStateDir is the default directory for theraflow state data
	DefaultStateDir = "/var/lib/theraflow"
	// DefaultDBFileName is the default SQLite database filename
	DefaultDBFileName = "theraflow.db"
	// DefaultAPIAddr is the default listen address for the HTTP API
	DefaultAPIAddr = ":8080"
)

// Config holds environment configuration
type Config struct {
	DBDriver  string
	DBDSN     string
	StateDir  string
	OpenAIKey string
	APIAddr   string
}

func main() {
	initializeLogger()

	config := loadEnvironmentConfig()

	dbDriver := flag.String("db-driver", config.DBDriver, "database driver: sqlite3 or postgres")
	dbDSN := flag.String("db-dsn", config.DBDSN, "database DSN (file path for sqlite3, URL for postgres)")
	stateDir := flag.String("state-dir", config.StateDir, "directory for local state")
	apiAddr := flag.String("api-addr", config.APIAddr, "HTTP API listen address")
	openaiKey := flag.String("openai-key", config.OpenAIKey, "OpenAI API key")
	flag.Parse()

	st, err := openStore(*dbDriver, *dbDSN, *stateDir)
	if err != nil {
		slog.Error("Failed to open session store", "error", err)
		os.Exit(1)
	}
	defer st.Close()

	var gen genai.ClientInterface
	if *openaiKey != "" {
		client, err := genai.NewClient(genai.WithAPIKey(*openaiKey))
		if err != nil {
			slog.Error("Failed to initialize GenAI client", "error", err)
			os.Exit(1)
		}
		gen = client
	} else {
		slog.Warn("No OpenAI API key configured; turns will return directives without generated replies")
	}

	slog.Info("Bootstrapping theraflow", "db_driver", *dbDriver, "api_addr", *apiAddr, "genai", gen != nil)
	server := api.NewServer(st, gen)
	if err := server.Run(*apiAddr); err != nil {
		slog.Error("theraflow failed to run", "error", err)
		os.Exit(1)
	}
}

// initializeLogger sets up structured logging
func initializeLogger() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	slog.SetDefault(logger)
}

// loadEnvironmentConfig loads configuration from environment variables and .env file
func loadEnvironmentConfig() Config {
	if err := godotenv.Load(); err != nil {
		slog.Debug("failed to load .env file", "error", err)
	} else {
		slog.Debug("successfully loaded .env file")
	}

	config := Config{
		DBDriver:  os.Getenv("THERAFLOW_DB_DRIVER"),
		DBDSN:     os.Getenv("DATABASE_URL"),
		StateDir:  os.Getenv("THERAFLOW_STATE_DIR"),
		OpenAIKey: os.Getenv("OPENAI_API_KEY"),
		APIAddr:   os.Getenv("API_ADDR"),
	}

	if config.StateDir == "" {
		config.StateDir = DefaultStateDir
		slog.Debug("No THERAFLOW_STATE_DIR set, using default", "default_state_dir", config.StateDir)
	}
	if config.APIAddr == "" {
		config.APIAddr = DefaultAPIAddr
	}
	if config.DBDriver == "" {
		if config.DBDSN != "" {
			config.DBDriver = "postgres"
		} else {
			config.DBDriver = "sqlite3"
		}
	}
	return config
}

// openStore selects the store backend from the configured driver and DSN.
func openStore(driver, dsn, stateDir string) (store.Store, error) {
	switch driver {
	case "postgres":
		return store.NewPostgresStore(store.WithDSN(dsn))
	case "sqlite3":
		if dsn == "" {
			dsn = filepath.Join(stateDir, DefaultDBFileName)
			slog.Debug("No DSN set, using default SQLite path", "dsn", dsn)
		}
		return store.NewSQLiteStore(store.WithDSN(dsn))
	default:
		slog.Warn("Unknown database driver, falling back to in-memory store", "driver", driver)
		return store.NewInMemoryStore(), nil
	}
}
