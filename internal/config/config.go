package config

import (
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

type Server struct {
	Addr            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
	AllowedOrigins  []string
}

type Mongo struct {
	URI      string
	Database string
	Timeout  time.Duration
}

type Redis struct {
	Addr     string
	Password string
	DB       int
	TTL      time.Duration
}

type JWT struct {
	Secret string
	TTL    time.Duration
}

type Storage struct {
	Driver     string // local | s3 | r2
	LocalDir   string
	PublicBase string
}

type AWS struct {
	// Endpoint is the S3 compatible endpoint used by the r2 driver.
	Endpoint  string
	Region    string
	Bucket    string
	AccessKey string
	SecretKey string
}

type Mail struct {
	SendgridKey string
	From        string
	AdminTo     string
}

type Bootstrap struct {
	AdminEmail    string
	AdminPassword string
}

type Config struct {
	Env          string
	Debug        bool
	RollbarToken string

	Server    Server
	Mongo     Mongo
	Redis     Redis
	JWT       JWT
	Storage   Storage
	AWS       AWS
	Mail      Mail
	Bootstrap Bootstrap
}

func defaults(v *viper.Viper) {
	v.SetTypeByDefaultValue(true)
	v.SetDefault("debug", false)
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.readTimeout", 15*time.Second)
	v.SetDefault("server.writeTimeout", 30*time.Second)
	v.SetDefault("server.shutdownTimeout", 10*time.Second)
	v.SetDefault("cors.allowedOrigins", []string{"http://localhost:3000", "http://localhost:5173"})
	v.SetDefault("mongo.uri", "mongodb://localhost:27017")
	v.SetDefault("mongo.database", "learnhub")
	v.SetDefault("mongo.timeout", 10*time.Second)
	v.SetDefault("redis.addr", "")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.ttl", 10*time.Minute)
	v.SetDefault("jwt.secret", "")
	v.SetDefault("jwt.ttl", 24*time.Hour)
	v.SetDefault("storage.driver", "local")
	v.SetDefault("storage.localDir", "uploads")
	v.SetDefault("storage.publicBase", "/uploads")
	v.SetDefault("aws.endpoint", "")
	v.SetDefault("aws.region", "ap-south-1")
	v.SetDefault("aws.bucket", "")
	v.SetDefault("aws.accessKey", "")
	v.SetDefault("aws.secretKey", "")
	v.SetDefault("sendgrid.apiKey", "")
	v.SetDefault("mail.from", "noreply@localhost")
	v.SetDefault("mail.adminTo", "")
	v.SetDefault("rollbar.token", "")
	v.SetDefault("bootstrap.adminEmail", "")
	v.SetDefault("bootstrap.adminPassword", "")
}

// Load reads .env (and .env.<env> when ENV is set) if present, then the
// process environment. Keys map to variables by upper-casing and replacing
// dots with underscores, e.g. mongo.uri is MONGO_URI.
func Load() (*Config, error) {
	env := strings.ToLower(os.Getenv("ENV"))
	if env == "" {
		env = "dev"
	}
	for _, path := range []string{".env." + env, ".env"} {
		if _, err := os.Stat(path); err == nil {
			if err := godotenv.Load(path); err != nil {
				return nil, errors.Wrapf(err, "config.godotenv(%s)", path)
			}
		} else if !os.IsNotExist(err) {
			return nil, errors.Wrapf(err, "config.os.Stat(%s)", path)
		}
	}

	v := viper.New()
	defaults(v)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	c := FromViper(v)
	c.Env = env
	if c.JWT.Secret == "" {
		if env != "dev" && env != "test" {
			return nil, errors.New("config: JWT_SECRET must be set")
		}
		c.JWT.Secret = "dev-secret-change-me"
	}
	switch c.Storage.Driver {
	case "local":
	case "s3", "r2":
		if c.AWS.Bucket == "" {
			return nil, errors.Errorf("config: AWS_BUCKET must be set for the %s storage driver", c.Storage.Driver)
		}
		if c.Storage.Driver == "r2" && c.AWS.Endpoint == "" {
			return nil, errors.New("config: AWS_ENDPOINT must be set for the r2 storage driver")
		}
	default:
		return nil, errors.Errorf("config: unknown storage driver %q", c.Storage.Driver)
	}
	return c, nil
}

// FromViper maps a populated viper instance onto Config.
func FromViper(v *viper.Viper) *Config {
	return &Config{
		Env:          v.GetString("env"),
		Debug:        v.GetBool("debug"),
		RollbarToken: v.GetString("rollbar.token"),
		Server: Server{
			Addr:            v.GetString("server.addr"),
			ReadTimeout:     v.GetDuration("server.readTimeout"),
			WriteTimeout:    v.GetDuration("server.writeTimeout"),
			ShutdownTimeout: v.GetDuration("server.shutdownTimeout"),
			AllowedOrigins:  v.GetStringSlice("cors.allowedOrigins"),
		},
		Mongo: Mongo{
			URI:      v.GetString("mongo.uri"),
			Database: v.GetString("mongo.database"),
			Timeout:  v.GetDuration("mongo.timeout"),
		},
		Redis: Redis{
			Addr:     v.GetString("redis.addr"),
			Password: v.GetString("redis.password"),
			DB:       v.GetInt("redis.db"),
			TTL:      v.GetDuration("redis.ttl"),
		},
		JWT: JWT{
			Secret: v.GetString("jwt.secret"),
			TTL:    v.GetDuration("jwt.ttl"),
		},
		Storage: Storage{
			Driver:     v.GetString("storage.driver"),
			LocalDir:   v.GetString("storage.localDir"),
			PublicBase: strings.TrimRight(v.GetString("storage.publicBase"), "/"),
		},
		AWS: AWS{
			Endpoint:  v.GetString("aws.endpoint"),
			Region:    v.GetString("aws.region"),
			Bucket:    v.GetString("aws.bucket"),
			AccessKey: v.GetString("aws.accessKey"),
			SecretKey: v.GetString("aws.secretKey"),
		},
		Mail: Mail{
			SendgridKey: v.GetString("sendgrid.apiKey"),
			From:        v.GetString("mail.from"),
			AdminTo:     v.GetString("mail.adminTo"),
		},
		Bootstrap: Bootstrap{
			AdminEmail:    v.GetString("bootstrap.adminEmail"),
			AdminPassword: v.GetString("bootstrap.adminPassword"),
		},
	}
}
