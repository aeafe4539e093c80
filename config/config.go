package config

import (
	"LiquorStore/models"
	"context"
	"errors"
	"fmt"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"gopkg.in/yaml.v3"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"os"
	"strconv"
	"strings"
	"time"
)

const DefaultPath = "config/config.yaml"

type ServerConfig struct {
	Addr    string `yaml:"addr"`
	Mode    string `yaml:"mode"`
	LogMode string `yaml:"log_mode"`
}

type DatabaseConfig struct {
	Driver   string `yaml:"driver"`
	DSN      string `yaml:"dsn"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	Host     string `yaml:"host"`
	Port     string `yaml:"port"`
	Database string `yaml:"database"`
	LogLevel string `yaml:"log_level"`
}

type RedisConfig struct {
	Addr     string        `yaml:"addr"`
	Password string        `yaml:"password"`
	Database int           `yaml:"database"`
	CacheTTL time.Duration `yaml:"cache_ttl"`
}

type AuthConfig struct {
	JWTSecret string        `yaml:"jwt_secret"`
	TokenTTL  time.Duration `yaml:"token_ttl"`
}

// StorefrontConfig holds the public-facing settings: the site origin, the
// public API key clients must present and the visitor session cookie.
type StorefrontConfig struct {
	BaseURL       string        `yaml:"base_url"`
	PublicAPIKey  string        `yaml:"public_api_key"`
	SessionCookie string        `yaml:"session_cookie"`
	SessionMaxAge time.Duration `yaml:"session_max_age"`
	SecureCookie  bool          `yaml:"secure_cookie"`
}

type CartConfig struct {
	MaxQuantity     int  `yaml:"max_quantity"`
	MergeDuplicates bool `yaml:"merge_duplicates"`
}

type KafkaConfig struct {
	Brokers []string `yaml:"brokers"`
	Buffer  int      `yaml:"buffer"`
}

type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Database   DatabaseConfig   `yaml:"database"`
	Redis      RedisConfig      `yaml:"redis"`
	Auth       AuthConfig       `yaml:"auth"`
	Storefront StorefrontConfig `yaml:"storefront"`
	Cart       CartConfig       `yaml:"cart"`
	Kafka      KafkaConfig      `yaml:"kafka"`
}

func Default() Config {
	return Config{
		Server: ServerConfig{
			Addr:    ":3000",
			Mode:    "release",
			LogMode: "production",
		},
		Database: DatabaseConfig{
			Driver:   "mysql",
			Host:     "127.0.0.1",
			Port:     "3306",
			Database: "liquorstore",
			LogLevel: "warn",
		},
		Redis: RedisConfig{
			Addr:     "127.0.0.1:6379",
			CacheTTL: 5 * time.Minute,
		},
		Auth: AuthConfig{
			TokenTTL: 24 * time.Hour,
		},
		Storefront: StorefrontConfig{
			SessionCookie: "session_id",
			SessionMaxAge: 365 * 24 * time.Hour,
		},
		Cart: CartConfig{
			MaxQuantity: 10,
		},
		Kafka: KafkaConfig{
			Buffer: 1024,
		},
	}
}

// LoadConfig reads a YAML file on top of the defaults and applies env overrides.
func LoadConfig(filename string) (Config, error) {
	config := Default()
	file, err := os.Open(filename)
	if err != nil {
		return config, err
	}
	defer file.Close()

	decoder := yaml.NewDecoder(file)
	if err := decoder.Decode(&config); err != nil {
		return config, err
	}

	applyEnv(&config)
	return config, config.validate()
}

// Load is LoadConfig preceded by .env loading. A missing config file is not
// an error: defaults plus environment are used instead.
func Load(filename string) (Config, error) {
	_ = godotenv.Load()

	config, err := LoadConfig(filename)
	if errors.Is(err, os.ErrNotExist) {
		config = Default()
		applyEnv(&config)
		return config, config.validate()
	}
	return config, err
}

func applyEnv(c *Config) {
	if v := os.Getenv("HTTP_ADDR"); v != "" {
		c.Server.Addr = v
	}
	if v := os.Getenv("DATABASE_DRIVER"); v != "" {
		c.Database.Driver = v
	}
	if v := os.Getenv("DATABASE_URL"); v != "" {
		c.Database.DSN = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		c.Redis.Addr = v
	}
	if v := os.Getenv("JWT_SECRET"); v != "" {
		c.Auth.JWTSecret = v
	}
	if v := os.Getenv("STORE_BASE_URL"); v != "" {
		c.Storefront.BaseURL = v
	}
	if v := os.Getenv("STORE_PUBLIC_API_KEY"); v != "" {
		c.Storefront.PublicAPIKey = v
	}
	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		c.Kafka.Brokers = splitCSV(v)
	}
	if v := os.Getenv("CART_MERGE_DUPLICATES"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.Cart.MergeDuplicates = b
		}
	}
}

func (c Config) validate() error {
	if c.Cart.MaxQuantity < 1 {
		return fmt.Errorf("cart.max_quantity must be positive, got %d", c.Cart.MaxQuantity)
	}
	if c.Auth.TokenTTL <= 0 {
		return errors.New("auth.token_ttl must be positive")
	}
	if c.Auth.JWTSecret == "" {
		return errors.New("auth.jwt_secret is required")
	}
	switch c.Database.Driver {
	case "mysql", "postgres":
	default:
		return fmt.Errorf("unsupported database driver %q", c.Database.Driver)
	}
	return nil
}

func splitCSV(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	return out
}

// ConnectionString builds the driver DSN unless one was configured verbatim.
func (d DatabaseConfig) ConnectionString() string {
	if d.DSN != "" {
		return d.DSN
	}
	if d.Driver == "postgres" {
		return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
			d.Host, d.Username, d.Password, d.Database, d.Port)
	}
	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		d.Username,
		d.Password,
		d.Host,
		d.Port,
		d.Database,
	)
}

func (d DatabaseConfig) Dialector() (gorm.Dialector, error) {
	switch d.Driver {
	case "mysql":
		return mysql.Open(d.ConnectionString()), nil
	case "postgres":
		return postgres.Open(d.ConnectionString()), nil
	}
	return nil, fmt.Errorf("unsupported database driver %q", d.Driver)
}

func logLevel(s string) logger.LogLevel {
	switch s {
	case "silent":
		return logger.Silent
	case "error":
		return logger.Error
	case "info":
		return logger.Info
	}
	return logger.Warn
}

func SetupDatabase(d DatabaseConfig) (*gorm.DB, error) {
	dialector, err := d.Dialector()
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logLevel(d.LogLevel)),
	})
	if err != nil {
		return nil, err
	}

	if err := Migrate(db); err != nil {
		return nil, err
	}
	return db, nil
}

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Product{},
		&models.ProductVariant{},
		&models.Category{},
		&models.CartItem{},
		&models.AdminUser{},
		&models.LoginToken{},
	)
}

// SetupRedisConnection returns nil when no address is configured; the
// catalog then runs without a cache.
func SetupRedisConnection(r RedisConfig) (*redis.Client, error) {
	if r.Addr == "" {
		return nil, nil
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr:     r.Addr,
		Password: r.Password,
		DB:       r.Database,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := redisClient.Ping(ctx).Err(); err != nil {
		_ = redisClient.Close()
		return nil, err
	}
	return redisClient, nil
}
