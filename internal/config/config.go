package config

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	SMTP     SMTPConfig
	Storage  StorageConfig
	Company  CompanyConfig
	CORS     CORSConfig
}

type ServerConfig struct {
	Port string
	Env  string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Database string
	Schema   string
}

// SMTPConfig configures the outbound mail relay. An empty Host disables
// the confirmation-email step entirely (orders then report "skipped").
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// StorageConfig configures the S3-compatible bucket holding product images.
type StorageConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
	PublicURL string
}

// CompanyConfig is the letterhead printed on generated order documents.
type CompanyConfig struct {
	Name    string
	Tagline string
	GSTIN   string
	Address string
	Phone   string
	Mobile  string
	Email   string
	LogoURL string
}

type CORSConfig struct {
	AllowedOrigin string
}

func Load() *Config {
	// Populate the process environment from a local .env file when one
	// exists; viper then reads everything through AutomaticEnv.
	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file loaded: %v", err)
	}

	viper.AutomaticEnv()

	// Set defaults
	viper.SetDefault("SERVER_PORT", "8080")
	viper.SetDefault("SERVER_ENV", "development")
	viper.SetDefault("DB_HOST", "localhost")
	viper.SetDefault("DB_PORT", "5432")
	viper.SetDefault("DB_SCHEMA", "public")
	viper.SetDefault("SMTP_PORT", 587)
	viper.SetDefault("STORAGE_USE_SSL", true)
	viper.SetDefault("STORAGE_BUCKET", "product-images")
	viper.SetDefault("COMPANY_NAME", "NORTHSTAR TRADING")
	viper.SetDefault("COMPANY_TAGLINE", "A COMPLETE SOLUTION PROVIDER")
	viper.SetDefault("COMPANY_GSTIN", "00AAAAA0000A0Z0")
	viper.SetDefault("COMPANY_ADDRESS", "12 Harbour Road, Trade Park, Springfield - 600 001.")
	viper.SetDefault("COMPANY_PHONE", "000 - 0000 0000")
	viper.SetDefault("COMPANY_MOBILE", "00000 00000")
	viper.SetDefault("COMPANY_EMAIL", "sales@northstar-trading.example")
	viper.SetDefault("COMPANY_LOGO_URL", "https://dummyimage.com/400x120/ffffff/000000&text=Northstar+Trading")
	viper.SetDefault("CORS_ALLOWED_ORIGIN", "http://localhost:5173")

	return &Config{
		Server: ServerConfig{
			Port: viper.GetString("SERVER_PORT"),
			Env:  viper.GetString("SERVER_ENV"),
		},
		Database: DatabaseConfig{
			Host:     viper.GetString("DB_HOST"),
			Port:     viper.GetString("DB_PORT"),
			User:     viper.GetString("DB_USER"),
			Password: viper.GetString("DB_PASSWORD"),
			Database: viper.GetString("DB_DATABASE"),
			Schema:   viper.GetString("DB_SCHEMA"),
		},
		SMTP: SMTPConfig{
			Host:     viper.GetString("SMTP_HOST"),
			Port:     viper.GetInt("SMTP_PORT"),
			Username: viper.GetString("SMTP_USER"),
			Password: viper.GetString("SMTP_PASSWORD"),
			From:     viper.GetString("SMTP_FROM"),
		},
		Storage: StorageConfig{
			Endpoint:  viper.GetString("STORAGE_ENDPOINT"),
			AccessKey: viper.GetString("STORAGE_ACCESS_KEY"),
			SecretKey: viper.GetString("STORAGE_SECRET_KEY"),
			Bucket:    viper.GetString("STORAGE_BUCKET"),
			UseSSL:    viper.GetBool("STORAGE_USE_SSL"),
			PublicURL: viper.GetString("STORAGE_PUBLIC_URL"),
		},
		Company: CompanyConfig{
			Name:    viper.GetString("COMPANY_NAME"),
			Tagline: viper.GetString("COMPANY_TAGLINE"),
			GSTIN:   viper.GetString("COMPANY_GSTIN"),
			Address: viper.GetString("COMPANY_ADDRESS"),
			Phone:   viper.GetString("COMPANY_PHONE"),
			Mobile:  viper.GetString("COMPANY_MOBILE"),
			Email:   viper.GetString("COMPANY_EMAIL"),
			LogoURL: viper.GetString("COMPANY_LOGO_URL"),
		},
		CORS: CORSConfig{
			AllowedOrigin: viper.GetString("CORS_ALLOWED_ORIGIN"),
		},
	}
}
