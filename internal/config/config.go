package config

import (
	"fmt"
	"log"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds every runtime setting. It is built once in main and passed
// explicitly to each component; nothing in this package is read after Load.
type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Database   DatabaseConfig   `mapstructure:"database"`
	Uploads    UploadsConfig    `mapstructure:"uploads"`
	Cards      CardsConfig      `mapstructure:"cards"`
	Branding   BrandingConfig   `mapstructure:"branding"`
	Membership MembershipConfig `mapstructure:"membership"`
	Verify     VerifyConfig     `mapstructure:"verify"`
	CORS       CORSConfig       `mapstructure:"cors"`
	JWT        JWTConfig        `mapstructure:"jwt"`
}

type ServerConfig struct {
	Port int `mapstructure:"port"`
}

type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
	SSLMode  string `mapstructure:"sslmode"`
}

// ConnectionString returns a postgres:// URI for pgxpool.
func (d DatabaseConfig) ConnectionString() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode)
}

// UploadsConfig selects where member photos and cached card PDFs live.
// Backend is "local" or "s3" (S3-compatible, including Cloudflare R2).
// Dir is the local storage root; blobs land under <dir>/uploads and
// <dir>/idcards.
type UploadsConfig struct {
	Backend   string `mapstructure:"backend"`
	Dir       string `mapstructure:"dir"`
	Endpoint  string `mapstructure:"endpoint"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
	Bucket    string `mapstructure:"bucket"`
	Region    string `mapstructure:"region"`
}

// CardsConfig fixes the physical card canvas. Dimensions are millimetres;
// the defaults are A7 landscape.
type CardsConfig struct {
	WidthMM   float64 `mapstructure:"width_mm"`
	HeightMM  float64 `mapstructure:"height_mm"`
	QREnabled bool    `mapstructure:"qr_enabled"`
}

type BrandingConfig struct {
	OrgName       string `mapstructure:"org_name"`
	RulesHeading  string `mapstructure:"rules_heading"`
	NoticeLine1   string `mapstructure:"notice_line1"`
	NoticeLine2   string `mapstructure:"notice_line2"`
	SignCaption   string `mapstructure:"sign_caption"`
	SealCaption   string `mapstructure:"seal_caption"`
	DarkColorHex  string `mapstructure:"dark_color"`
	LightColorHex string `mapstructure:"light_color"`
	FontPath      string `mapstructure:"font_path"`
	FontFamily    string `mapstructure:"font_family"`
	LogoPath      string `mapstructure:"logo_path"`
}

type MembershipConfig struct {
	Prefix     string `mapstructure:"prefix"`
	Hardened   bool   `mapstructure:"hardened"`
	MaxRetries int    `mapstructure:"max_retries"`
}

type VerifyConfig struct {
	BaseURL string `mapstructure:"base_url"`
}

type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

type JWTConfig struct {
	Secret      string `mapstructure:"secret"`
	ExpiryHours int    `mapstructure:"expiry_hours"`
}

// Load reads config.yaml plus PBM_* environment overrides. A .env file is
// loaded first if present so container deployments can inject secrets.
func Load() *Config {
	if err := godotenv.Load(); err == nil {
		log.Println("Loaded environment from .env")
	}

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	v.SetEnvPrefix("PBM")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			log.Fatalf("Failed to read config file: %v", err)
		}
		log.Println("No config.yaml found, using defaults and environment")
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		log.Fatalf("Failed to parse configuration: %v", err)
	}

	return &cfg
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)

	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "pbm_user")
	v.SetDefault("database.password", "")
	v.SetDefault("database.name", "pbm_db")
	v.SetDefault("database.sslmode", "disable")

	v.SetDefault("uploads.backend", "local")
	v.SetDefault("uploads.dir", ".")
	v.SetDefault("uploads.region", "auto")

	// A7 landscape
	v.SetDefault("cards.width_mm", 105.0)
	v.SetDefault("cards.height_mm", 74.0)
	v.SetDefault("cards.qr_enabled", true)

	v.SetDefault("branding.org_name", "பசுமை பாரத மக்கள் கட்சி")
	v.SetDefault("branding.rules_heading", "உறுப்பினர் விதிமுறைகள்")
	v.SetDefault("branding.notice_line1", "This card is for official identification only")
	v.SetDefault("branding.notice_line2", "If found, please return to party office")
	v.SetDefault("branding.sign_caption", "Authorized Signature")
	v.SetDefault("branding.seal_caption", "OFFICIAL")
	v.SetDefault("branding.dark_color", "#0F7A3E")
	v.SetDefault("branding.light_color", "#5FB48C")
	v.SetDefault("branding.font_family", "NotoSansTamil")
	v.SetDefault("branding.font_path", "assets/fonts/NotoSansTamil-Regular.ttf")

	v.SetDefault("membership.prefix", "PBM")
	v.SetDefault("membership.hardened", false)
	v.SetDefault("membership.max_retries", 3)

	v.SetDefault("verify.base_url", "http://localhost:8080")

	v.SetDefault("cors.allowed_origins", []string{
		"http://localhost:3000",
		"https://pol-ui.onrender.com",
	})

	v.SetDefault("jwt.secret", "")
	v.SetDefault("jwt.expiry_hours", 12)
}
