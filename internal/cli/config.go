package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/mesh-intelligence/taskboard/internal/identity"
	"github.com/mesh-intelligence/taskboard/internal/logging"
	"github.com/mesh-intelligence/taskboard/internal/redisstore"
	"github.com/mesh-intelligence/taskboard/pkg/types"
)

const (
	configFileName = "config"
	configFileType = "yaml"
	configFileExt  = "config.yaml"
	envPrefix      = "TASKBOARD"
)

// Config keys.
const (
	cfgKeyBackend      = "backend"
	cfgKeyDataDir      = "data_dir"
	cfgKeySyncStrategy = "sync_strategy"
	cfgKeyRedisAddr    = "redis.addr"
	cfgKeyRedisDB      = "redis.db"
	cfgKeyRedisPrefix  = "redis.prefix"
	cfgKeyAuthDelay    = "auth.delay"
	cfgKeyBcryptCost   = "auth.bcrypt_cost"
	cfgKeyLogLevel     = "log.level"
	cfgKeyLogFormat    = "log.format"
	cfgKeyLogFile      = "log.file"
	cfgKeyHTTPAddr     = "http.addr"
)

const defaultHTTPAddr = "127.0.0.1:8080"

// fileConfig is the layout of the config.yaml written by init and on first
// run.
type fileConfig struct {
	Backend      string      `yaml:"backend"`
	DataDir      string      `yaml:"data_dir,omitempty"`
	SyncStrategy string      `yaml:"sync_strategy"`
	Redis        redisConfig `yaml:"redis"`
	Auth         authConfig  `yaml:"auth"`
	Log          logConfig   `yaml:"log"`
	HTTP         httpConfig  `yaml:"http"`
}

type redisConfig struct {
	Addr   string `yaml:"addr"`
	DB     int    `yaml:"db"`
	Prefix string `yaml:"prefix"`
}

type authConfig struct {
	Delay      string `yaml:"delay"`
	BcryptCost int    `yaml:"bcrypt_cost"`
}

type logConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	File   string `yaml:"file,omitempty"`
}

type httpConfig struct {
	Addr string `yaml:"addr"`
}

func defaultFileConfig(dataDir string) fileConfig {
	return fileConfig{
		Backend:      types.BackendSQLite,
		DataDir:      dataDir,
		SyncStrategy: types.SyncImmediate,
		Redis: redisConfig{
			Addr:   redisstore.DefaultAddr,
			Prefix: redisstore.DefaultPrefix,
		},
		Auth: authConfig{
			Delay:      identity.DefaultDelay.String(),
			BcryptCost: 10,
		},
		Log:  logConfig{Level: "warn", Format: "console"},
		HTTP: httpConfig{Addr: defaultHTTPAddr},
	}
}

// settings is the resolved configuration of one invocation.
type settings struct {
	Store      types.Config
	AuthDelay  time.Duration
	BcryptCost int
	Log        logging.Config
	HTTPAddr   string
}

// loadConfig reads config.yaml from configDir, creating the directory and a
// default file on first run. Environment variables prefixed TASKBOARD_
// override file values.
func loadConfig(configDir string) (*viper.Viper, error) {
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return nil, fmt.Errorf("ensure config dir: %w", err)
	}
	if err := writeConfigIfMissing(filepath.Join(configDir, configFileExt), defaultFileConfig("")); err != nil {
		return nil, fmt.Errorf("ensure default config: %w", err)
	}

	v := viper.New()
	setDefaults(v)
	v.SetConfigName(configFileName)
	v.SetConfigType(configFileType)
	v.AddConfigPath(configDir)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return v, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}
	return v, nil
}

func setDefaults(v *viper.Viper) {
	d := defaultFileConfig("")
	v.SetDefault(cfgKeyBackend, d.Backend)
	v.SetDefault(cfgKeySyncStrategy, d.SyncStrategy)
	v.SetDefault(cfgKeyRedisAddr, d.Redis.Addr)
	v.SetDefault(cfgKeyRedisDB, d.Redis.DB)
	v.SetDefault(cfgKeyRedisPrefix, d.Redis.Prefix)
	v.SetDefault(cfgKeyAuthDelay, d.Auth.Delay)
	v.SetDefault(cfgKeyBcryptCost, d.Auth.BcryptCost)
	v.SetDefault(cfgKeyLogLevel, d.Log.Level)
	v.SetDefault(cfgKeyLogFormat, d.Log.Format)
	v.SetDefault(cfgKeyHTTPAddr, d.HTTP.Addr)
}

// resolveSettings combines the loaded config with the global flags.
func resolveSettings(v *viper.Viper, f rootFlags, dataDir string) settings {
	backend := v.GetString(cfgKeyBackend)
	if f.backend != "" {
		backend = f.backend
	}

	delay := v.GetDuration(cfgKeyAuthDelay)
	if delay == 0 {
		delay = -1
	}

	return settings{
		Store: types.Config{
			Backend:      backend,
			DataDir:      dataDir,
			SyncStrategy: v.GetString(cfgKeySyncStrategy),
			RedisAddr:    v.GetString(cfgKeyRedisAddr),
			RedisDB:      v.GetInt(cfgKeyRedisDB),
			RedisPrefix:  v.GetString(cfgKeyRedisPrefix),
		},
		AuthDelay:  delay,
		BcryptCost: v.GetInt(cfgKeyBcryptCost),
		Log: logging.Config{
			Level:  v.GetString(cfgKeyLogLevel),
			Format: v.GetString(cfgKeyLogFormat),
			File:   v.GetString(cfgKeyLogFile),
		},
		HTTPAddr: v.GetString(cfgKeyHTTPAddr),
	}
}

// writeConfigIfMissing writes cfg to path unless the file already exists.
func writeConfigIfMissing(path string, cfg fileConfig) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("stat config file: %w", err)
	}

	data, err := yaml.Marshal(&cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// recordDataDir stores dataDir in the config file at path unless the file
// already names one.
func recordDataDir(path, dataDir string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	cfg := defaultFileConfig("")
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return fmt.Errorf("parse config: %w", err)
	}
	if cfg.DataDir != "" {
		return nil
	}
	cfg.DataDir = dataDir
	out, err := yaml.Marshal(&cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	return os.WriteFile(path, out, 0o644)
}
