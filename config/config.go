// server/config/config.go
package config

import (
	"github.com/spf13/viper"
)

// --- Các struct con, phản ánh cấu trúc của YAML ---

type ServerConfig struct {
	Port        string   `mapstructure:"port"`
	Env         string   `mapstructure:"env"` // development | production
	CORSOrigins []string `mapstructure:"corsOrigins"`
}

type MongoConfig struct {
	URI    string `mapstructure:"uri"` // rỗng = dùng store trong bộ nhớ
	DBName string `mapstructure:"dbName"`
}

type JWTConfig struct {
	Secret     string `mapstructure:"secret"`
	Expiration string `mapstructure:"expiration"`
}

type AuthConfig struct {
	Enabled       bool   `mapstructure:"enabled"`
	AdminEmail    string `mapstructure:"adminEmail"`
	AdminPassword string `mapstructure:"adminPassword"`
}

type S3Config struct {
	Bucket           string `mapstructure:"bucket"`
	Region           string `mapstructure:"region"`
	AccessKeyID      string `mapstructure:"accessKeyID"`
	SecretAccessKey  string `mapstructure:"secretAccessKey"`
	CloudFrontDomain string `mapstructure:"cloudFrontDomain"`
	Endpoint         string `mapstructure:"endpoint"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type SequenceConfig struct {
	Strategy string `mapstructure:"strategy"` // count | mongo | redis
}

type UploadConfig struct {
	MaxFileSize int64 `mapstructure:"maxFileSize"`
}

type MetricsConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

// --- Struct Config chính, bao gồm tất cả các struct con ---

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Mongo    MongoConfig    `mapstructure:"mongo"`
	JWT      JWTConfig      `mapstructure:"jwt"`
	Auth     AuthConfig     `mapstructure:"auth"`
	S3       S3Config       `mapstructure:"s3"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Sequence SequenceConfig `mapstructure:"sequence"`
	Upload   UploadConfig   `mapstructure:"upload"`
	Metrics  MetricsConfig  `mapstructure:"metrics"`
}

// IsProduction reports whether internal error details must be hidden from clients.
func (c Config) IsProduction() bool {
	return c.Server.Env == "production"
}

// LoadConfig đọc cấu hình từ file và ghi đè bằng các biến môi trường.
func LoadConfig(path string) (config Config, err error) {
	v := viper.New()
	v.AddConfigPath(path)
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	v.SetDefault("server.port", "5000")
	v.SetDefault("server.env", "development")
	v.SetDefault("server.corsOrigins", []string{"*"})
	v.SetDefault("mongo.dbName", "workforce_ops")
	v.SetDefault("jwt.expiration", "24h")
	v.SetDefault("auth.enabled", true)
	v.SetDefault("auth.adminEmail", "admin@example.com")
	v.SetDefault("auth.adminPassword", "adminpassword")
	v.SetDefault("sequence.strategy", "count")
	v.SetDefault("upload.maxFileSize", 10<<20)
	v.SetDefault("metrics.enabled", true)

	// Key "mongo.uri" trong YAML được ánh xạ tới biến môi trường "MONGO_URI", v.v.
	v.BindEnv("mongo.uri", "MONGO_URI")
	v.BindEnv("mongo.dbName", "MONGO_DBNAME")
	v.BindEnv("server.port", "SERVER_PORT")
	v.BindEnv("server.env", "SERVER_ENV")
	v.BindEnv("server.corsOrigins", "CORS_ORIGINS")
	v.BindEnv("jwt.secret", "JWT_SECRET")
	v.BindEnv("jwt.expiration", "JWT_EXPIRATION")
	v.BindEnv("auth.enabled", "AUTH_ENABLED")
	v.BindEnv("auth.adminEmail", "ADMIN_EMAIL")
	v.BindEnv("auth.adminPassword", "ADMIN_PASSWORD")
	v.BindEnv("s3.bucket", "S3_BUCKET")
	v.BindEnv("s3.region", "S3_REGION")
	v.BindEnv("s3.accessKeyID", "S3_ACCESS_KEY_ID")
	v.BindEnv("s3.secretAccessKey", "S3_SECRET_ACCESS_KEY")
	v.BindEnv("s3.cloudFrontDomain", "S3_CLOUDFRONT_DOMAIN")
	v.BindEnv("s3.endpoint", "S3_ENDPOINT")
	v.BindEnv("redis.addr", "REDIS_ADDR")
	v.BindEnv("redis.password", "REDIS_PASSWORD")
	v.BindEnv("sequence.strategy", "SEQUENCE_STRATEGY")
	v.BindEnv("upload.maxFileSize", "UPLOAD_MAX_FILE_SIZE")
	v.BindEnv("metrics.enabled", "METRICS_ENABLED")

	// Nếu file không tồn tại, Viper sẽ chỉ sử dụng default và biến môi trường.
	err = v.ReadInConfig()
	if err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return
		}
		err = nil
	}

	err = v.Unmarshal(&config)
	return
}
