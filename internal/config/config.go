package config

import (
	"os"

	"gopkg.in/yaml.v2"
)

type Config struct {
	Server struct {
		Port int `yaml:"port"`
	} `yaml:"server"`
	Static struct {
		Root          string `yaml:"root"`
		DownloadsDir  string `yaml:"downloads_dir"`
		JobResultsDir string `yaml:"job_results_dir"`
		PublicBase    string `yaml:"public_base"`
	} `yaml:"static"`

	RetentionSeconds int `yaml:"retention_seconds"`
}

func LoadConfig(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	var cfg Config
	dec := yaml.NewDecoder(f)
	if err := dec.Decode(&cfg); err != nil {
		return nil, err
	}

	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Static.Root == "" {
		cfg.Static.Root = "static"
	}
	if cfg.Static.DownloadsDir == "" {
		cfg.Static.DownloadsDir = "downloads"
	}
	if cfg.Static.JobResultsDir == "" {
		cfg.Static.JobResultsDir = "temp"
	}
	if cfg.Static.PublicBase == "" {
		cfg.Static.PublicBase = "/static"
	}
	if cfg.RetentionSeconds == 0 {
		cfg.RetentionSeconds = 60
	}

	return &cfg, nil
}
