package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const defaultPath = "./configs/config.local.yaml"

type HTTP struct {
	Host            string
	Port            int
	ReadTimeoutSec  int
	WriteTimeoutSec int
	IdleTimeoutSec  int
}
type AdminHTTP struct {
	Host string
	Port int
}

type App struct {
	Name  string
	Env   string
	HTTP  HTTP
	Admin AdminHTTP
}

type LogFile struct {
	Enable     bool
	Filename   string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
}

type Log struct {
	Level string
	JSON  bool
	File  LogFile
}

type JWT struct {
	Secret            string
	Issuer            string
	AccessTokenTTLMin int
}

type Session struct {
	CookieName string
	Domain     string
	Secure     bool
	SameSite   string // lax / strict / none
}

type Auth struct {
	ActivateOnRegister bool
	SelfRegisterRoles  []string
	LoginRPS           float64
	LoginBurst         int
}

// AdminSeed is created at admin server start when Email is set and absent from storage.
type AdminSeed struct {
	Username string
	UserID   string
	Email    string
	MobileNo string
	Password string
}

// CORS lists browser origins allowed to send the session cookie. Empty allows any origin without credentials.
type CORS struct {
	AllowOrigins []string
}

type Limits struct {
	RPS            float64
	Burst          int
	MaxInFlight    int64
	MaxBodyBytes   int64
	RequestTimeout int // seconds
}

type Redis struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	TTLSec   int    `mapstructure:"ttlsec"`
}

type DB struct {
	Driver             string // postgres / mysql / sqlite / mongodb
	DSN                string
	Database           string // mongodb only
	Username           string
	Password           string
	MaxOpenConns       int
	MaxIdleConns       int
	ConnMaxLifetimeMin int
	ConnectTimeoutSec  int
	AutoMigrate        bool
	LogLevel           string
}

type Config struct {
	App     App
	Log     Log
	JWT     JWT
	Session Session
	Auth    Auth
	Seed    AdminSeed
	CORS    CORS
	Limits  Limits
	DB      DB
	Redis   Redis `mapstructure:"redis"`
}

var (
	ErrMissingDSN    = errors.New("config: db.dsn is not set")
	ErrMissingSecret = errors.New("config: jwt.secret must be at least 16 bytes")
)

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "panchayat-portal")
	v.SetDefault("app.env", "local")
	v.SetDefault("app.http.host", "0.0.0.0")
	v.SetDefault("app.http.port", 8080)
	v.SetDefault("app.http.readtimeoutsec", 5)
	v.SetDefault("app.http.writetimeoutsec", 10)
	v.SetDefault("app.http.idletimeoutsec", 60)
	v.SetDefault("app.admin.host", "127.0.0.1")
	v.SetDefault("app.admin.port", 8081)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.json", false)
	v.SetDefault("log.file.enable", false)
	v.SetDefault("log.file.filename", "logs/portal.log")
	v.SetDefault("log.file.maxsizemb", 100)
	v.SetDefault("log.file.maxbackups", 7)
	v.SetDefault("log.file.maxagedays", 30)
	v.SetDefault("log.file.compress", true)

	v.SetDefault("jwt.secret", "")
	v.SetDefault("jwt.issuer", "panchayat-portal")
	v.SetDefault("jwt.accesstokenttlmin", 60*24)

	v.SetDefault("session.cookiename", "portal_session")
	v.SetDefault("session.domain", "")
	v.SetDefault("session.secure", false)
	v.SetDefault("session.samesite", "lax")

	v.SetDefault("auth.activateonregister", true)
	v.SetDefault("auth.selfregisterroles", []string{"citizen"})
	v.SetDefault("auth.loginrps", 1.0)
	v.SetDefault("auth.loginburst", 5)

	v.SetDefault("seed.username", "")
	v.SetDefault("seed.userid", "")
	v.SetDefault("seed.email", "")
	v.SetDefault("seed.mobileno", "")
	v.SetDefault("seed.password", "")

	v.SetDefault("cors.alloworigins", []string{})

	v.SetDefault("limits.rps", 200)
	v.SetDefault("limits.burst", 400)
	v.SetDefault("limits.maxinflight", 300)
	v.SetDefault("limits.maxbodybytes", 1<<20)
	v.SetDefault("limits.requesttimeout", 10)

	v.SetDefault("db.driver", "postgres")
	v.SetDefault("db.dsn", "")
	v.SetDefault("db.database", "portal")
	v.SetDefault("db.username", "")
	v.SetDefault("db.password", "")
	v.SetDefault("db.maxopenconns", 20)
	v.SetDefault("db.maxidleconns", 5)
	v.SetDefault("db.connmaxlifetimemin", 60)
	v.SetDefault("db.connecttimeoutsec", 10)
	v.SetDefault("db.automigrate", true)
	v.SetDefault("db.loglevel", "warn")

	v.SetDefault("redis.addr", "")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.ttlsec", 30)
}

// Load reads YAML at path (CONFIG_PATH, then the local default) and applies APP_* env overrides.
// A missing file is tolerated only when no path was requested explicitly.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)
	explicit := path != ""
	if path == "" {
		path = os.Getenv("CONFIG_PATH")
		explicit = path != ""
		if path == "" {
			path = defaultPath
		}
	}
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetEnvPrefix("APP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if explicit || !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}
	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return &c, nil
}

func MustLoad(path string) *Config {
	c, err := Load(path)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	if err := c.Validate(); err != nil {
		log.Fatalf("invalid config: %v", err)
	}
	return c
}

func (c *Config) Validate() error {
	if strings.TrimSpace(c.DB.DSN) == "" {
		return ErrMissingDSN
	}
	if len(c.JWT.Secret) < 16 {
		return ErrMissingSecret
	}
	return nil
}

func (c *Config) SessionTTL() time.Duration {
	return time.Duration(c.JWT.AccessTokenTTLMin) * time.Minute
}

func (c *Config) RequestTimeout() time.Duration {
	return time.Duration(c.Limits.RequestTimeout) * time.Second
}

func (c *Config) CacheTTL() time.Duration {
	return time.Duration(c.Redis.TTLSec) * time.Second
}
