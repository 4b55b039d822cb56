package main

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config carries server settings. Values resolve in order: defaults,
// YAML file, .env / environment variables, command-line flags.
type Config struct {
	Server struct {
		Host string `yaml:"host"`
		Port int    `yaml:"port"`
	} `yaml:"server"`
	Database struct {
		Path string `yaml:"path"`
	} `yaml:"database"`
}

func defaultConfig() Config {
	var cfg Config
	cfg.Server.Host = "0.0.0.0"
	cfg.Server.Port = 8015
	cfg.Database.Path = "prodscan.db"
	return cfg
}

// loadConfig reads the optional YAML config file and applies environment
// overrides. A missing file is not an error; scan stations typically run
// with nothing but defaults.
func loadConfig(path string) Config {
	cfg := defaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err == nil {
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				log.Printf("config: parse error in %s: %v", path, err)
			}
		} else if !os.IsNotExist(err) {
			log.Printf("config: read error: %v", err)
		}
	}

	// .env is optional; ignore a missing file
	_ = godotenv.Load()

	if v := os.Getenv("PRODSCAN_HOST"); v != "" {
		cfg.Server.Host = v
	}
	if v := os.Getenv("PRODSCAN_PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil && p > 0 {
			cfg.Server.Port = p
		} else {
			log.Printf("config: invalid PRODSCAN_PORT %q", v)
		}
	}
	if v := os.Getenv("PRODSCAN_DB"); v != "" {
		cfg.Database.Path = v
	}

	return cfg
}
