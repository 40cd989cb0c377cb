package config

import (
	"fmt"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// AppConfig 应用配置，支持 YAML 文件与环境变量
type AppConfig struct {
	ListenAddr    string        `yaml:"listen_addr" env:"CAMPUS_LISTEN_ADDR" env-default:":8080"`
	GinMode       string        `yaml:"gin_mode" env:"GIN_MODE" env-default:"debug"`
	DatabaseURL   string        `yaml:"database_url" env:"DATABASE_URL" env-default:"host=localhost user=postgres password=postgres dbname=campus port=5432 sslmode=disable"`
	SessionSecret string        `yaml:"session_secret" env:"SESSION_SECRET" env-default:"secret_key_change_me"`
	SessionName   string        `yaml:"session_name" env:"SESSION_NAME" env-default:"campus_session"`
	SessionMaxAge time.Duration `yaml:"session_max_age" env:"SESSION_MAX_AGE" env-default:"12h"`
	TemplatesDir  string        `yaml:"templates_dir" env:"CAMPUS_TEMPLATES_DIR" env-default:"./web/templates"`
	StaticDir     string        `yaml:"static_dir" env:"CAMPUS_STATIC_DIR" env-default:"./web/static"`
	Storage       StorageConfig `yaml:"storage"`
	Seed          SeedConfig    `yaml:"seed"`
}

type StorageConfig struct {
	Backend        string `yaml:"backend" env:"CAMPUS_STORAGE_BACKEND" env-default:"local"`
	MediaDir       string `yaml:"media_dir" env:"CAMPUS_MEDIA_DIR" env-default:"./media"`
	MediaURL       string `yaml:"media_url" env:"CAMPUS_MEDIA_URL" env-default:"/media"`
	UploadMaxBytes int64  `yaml:"upload_max_bytes" env:"CAMPUS_UPLOAD_MAX_BYTES" env-default:"5242880"`
	MinioEndpoint  string `yaml:"minio_endpoint" env:"MINIO_ENDPOINT" env-default:"localhost:9000"`
	MinioAccessKey string `yaml:"minio_access_key" env:"MINIO_ACCESS_KEY"`
	MinioSecretKey string `yaml:"minio_secret_key" env:"MINIO_SECRET_KEY"`
	MinioBucket    string `yaml:"minio_bucket" env:"MINIO_BUCKET" env-default:"campus-incidents"`
	MinioUseSSL    bool   `yaml:"minio_use_ssl" env:"MINIO_USE_SSL" env-default:"false"`
}

// SeedConfig 启动时创建的管理员账号，Username 为空则跳过
type SeedConfig struct {
	AdminUsername string `yaml:"admin_username" env:"SEED_ADMIN_USERNAME"`
	AdminEmail    string `yaml:"admin_email" env:"SEED_ADMIN_EMAIL"`
	AdminPassword string `yaml:"admin_password" env:"SEED_ADMIN_PASSWORD"`
}

const (
	StorageLocal = "local"
	StorageMinio = "minio"
)

// Load reads CAMPUS_CONFIG (YAML) when set, environment variables otherwise.
func Load() (*AppConfig, error) {
	var cfg AppConfig
	if path := os.Getenv("CAMPUS_CONFIG"); path != "" {
		if err := cleanenv.ReadConfig(path, &cfg); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	} else if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("read env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *AppConfig) Validate() error {
	switch c.Storage.Backend {
	case StorageLocal, StorageMinio:
	default:
		return fmt.Errorf("unknown storage backend %q", c.Storage.Backend)
	}
	if c.IsRelease() && (c.SessionSecret == "" || c.SessionSecret == "secret_key_change_me") {
		return fmt.Errorf("SESSION_SECRET must be set in release mode")
	}
	if c.Storage.UploadMaxBytes <= 0 {
		return fmt.Errorf("upload_max_bytes must be positive")
	}
	return nil
}

func (c *AppConfig) IsRelease() bool {
	return c != nil && c.GinMode == "release"
}
