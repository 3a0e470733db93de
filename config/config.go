package config

import (
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const ENV_FILE = ".env"
const CONFIG_FILE = "config.yaml"

type AppConfig struct {
	Logging     LoggingConfig `yaml:"logging"`
	GeminiModel string        `yaml:"gemini_model"`
	Server      ServerConfig  `yaml:"server"`
	Mongo       MongoConfig   `yaml:"mongo"`
	Store       StoreConfig   `yaml:"store"`
	Retry       RetryConfig   `yaml:"retry"`
	Eval        EvalConfig    `yaml:"eval"`
}

type LoggingConfig struct {
	Level string `yaml:"level"`
}

type ServerConfig struct {
	Port int `yaml:"port"`
}

type MongoConfig struct {
	URI    string `yaml:"uri"`
	DBName string `yaml:"db_name"`
}

// StoreConfig points the submission store at its primary collection and the
// local CSV files used when the remote store is absent or unreachable.
type StoreConfig struct {
	Collection string `yaml:"collection"`
	LocalFile  string `yaml:"local_file"`
	BackupFile string `yaml:"backup_file"`
}

// RetryConfig drives the gateway's bounded retry loop.
// Delays are milliseconds; Multiplier scales the delay after each failed attempt.
type RetryConfig struct {
	MaxAttempts int     `yaml:"max_attempts"`
	BaseDelayMs int     `yaml:"base_delay_ms"`
	Multiplier  float64 `yaml:"multiplier"`
	MaxDelayMs  int     `yaml:"max_delay_ms"`
}

// EvalConfig configures the offline prompt evaluation harness.
type EvalConfig struct {
	DatasetPath       string `yaml:"dataset_path"`
	SampleSize        int    `yaml:"sample_size"`
	Seed              int64  `yaml:"seed"`
	RequestsPerMinute int    `yaml:"requests_per_minute"`
	OutputDir         string `yaml:"output_dir"`
}

var config *AppConfig

func InitApp() {
	// load environment variables
	godotenv.Load(filepath.Join(GetBasePath(), ENV_FILE))

	// load configuration file
	data, err := os.ReadFile(filepath.Join(GetBasePath(), CONFIG_FILE))
	if err != nil {
		panic(err)
	}

	var c AppConfig
	err = yaml.Unmarshal(data, &c)
	if err != nil {
		panic(err)
	}
	config = &c
}

func GetConfig() AppConfig {
	if config == nil {
		InitApp()
	}

	return *config
}

func GetBasePath() string {
	cwd, err := os.Getwd()
	if err != nil {
		return ""
	}

	dir := cwd
	for {
		cfgPath := filepath.Join(dir, CONFIG_FILE)
		if info, err := os.Stat(cfgPath); err == nil && !info.IsDir() {
			return dir
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return ""
}
