package config

import (
	"os"
	"time"

	"github.com/go-yaml/yaml"
)

type Config struct {
	Server     Server     `yaml:"server"`
	Enrichment Enrichment `yaml:"enrichment"`
	Assets     Assets     `yaml:"assets"`
	CRM        CRM        `yaml:"crm"`
}

type Server struct {
	ListenAddr    string `yaml:"listenAddr"`
	RedisAddr     string `yaml:"redisAddr"`
	RedisDB       int    `yaml:"redisDB"`
	MemcachedAddr string `yaml:"memcachedAddr"`
	PostgresDsn   string `yaml:"postgresDsn"`
	EnableTrace   bool   `yaml:"enableTrace"`
	TraceEndpoint string `yaml:"traceEndpoint"`
}

type Enrichment struct {
	APIBase             string `yaml:"apiBase"`
	Token               string `yaml:"token"`
	JobID               string `yaml:"jobId"`
	PollIntervalSeconds int    `yaml:"pollIntervalSeconds"`
	DeadlineSeconds     int    `yaml:"deadlineSeconds"`

	// ---
	PollInterval time.Duration
	Deadline     time.Duration
}

type Assets struct {
	BlobEndpoint        string `yaml:"blobEndpoint"`
	ProbeTimeoutSeconds int    `yaml:"probeTimeoutSeconds"`

	// ---
	ProbeTimeout time.Duration
}

type CRM struct {
	WebhookURL string `yaml:"webhookUrl"`
}

func Load(path string) (Config, error) {

	file, err := os.Open(path)
	if err != nil {
		return Config{}, err
	}
	defer file.Close()

	var config Config
	err = yaml.NewDecoder(file).Decode(&config)
	if err != nil {
		return Config{}, err
	}

	if config.Server.ListenAddr == "" {
		config.Server.ListenAddr = ":8000"
	}
	if config.Enrichment.PollIntervalSeconds == 0 {
		config.Enrichment.PollIntervalSeconds = 3
	}
	if config.Enrichment.DeadlineSeconds == 0 {
		config.Enrichment.DeadlineSeconds = 60
	}
	if config.Assets.ProbeTimeoutSeconds == 0 {
		config.Assets.ProbeTimeoutSeconds = 5
	}

	config.Enrichment.PollInterval = time.Duration(config.Enrichment.PollIntervalSeconds) * time.Second
	config.Enrichment.Deadline = time.Duration(config.Enrichment.DeadlineSeconds) * time.Second
	config.Assets.ProbeTimeout = time.Duration(config.Assets.ProbeTimeoutSeconds) * time.Second

	return config, nil
}
