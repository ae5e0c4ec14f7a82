package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port        string
	BaseURL     string
	FrontendURL string
	Production  bool

	MongoURI      string
	MongoDatabase string

	RedisHost     string
	RedisPassword string

	SessionSecret string
	JWTSecret     string
	TokenTTL      time.Duration

	PaymentProvider     string // "paystack" ou "stripe"
	Currency            string
	PaystackSecretKey   string
	PaystackBaseURL     string
	StripeSecretKey     string
	StripeWebhookSecret string

	ShippingFee           float64
	FreeShippingThreshold float64

	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	MailFrom     string

	MinioEndpoint  string
	MinioAccessKey string
	MinioSecretKey string
	MinioBucket    string
	MinioUseSSL    bool

	ElasticURL      string
	ElasticUser     string
	ElasticPassword string
	ElasticIndex    string

	KafkaBrokers []string
	KafkaTopic   string

	ScyllaHosts    []string
	ScyllaKeyspace string
	ScyllaUsername string
	ScyllaPassword string

	GoogleClientID     string
	GoogleClientSecret string

	CORSOrigins []string
}

// Load charge le .env puis construit la configuration depuis l'environnement
func Load() *Config {
	err := godotenv.Load(".env")
	if err != nil {
		log.Println("⚠️  Aucun fichier .env trouvé — on continue avec les variables d'environnement du système")
	} else {
		log.Println("✅ Fichier .env chargé avec succès")
	}
	return FromEnv()
}

// FromEnv lit la configuration sans toucher au .env
func FromEnv() *Config {
	return &Config{
		Port:        getEnv("PORT", "8080"),
		BaseURL:     getEnv("BASE_URL", "http://localhost:8080"),
		FrontendURL: getEnv("FRONTEND_URL", "http://localhost:3000"),
		Production:  strings.ToLower(os.Getenv("APP_ENV")) == "production",

		MongoURI:      os.Getenv("MONGO_URI"),
		MongoDatabase: getEnv("MONGO_DATABASE", "storefront"),

		RedisHost:     getEnv("REDIS_HOST", "localhost:6379"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),

		SessionSecret: os.Getenv("SESSION_SECRET"),
		JWTSecret:     os.Getenv("JWT_SECRET"),
		TokenTTL:      getDuration("TOKEN_TTL", 24*time.Hour),

		PaymentProvider:     strings.ToLower(getEnv("PAYMENT_PROVIDER", "paystack")),
		Currency:            strings.ToUpper(getEnv("CURRENCY", "NGN")),
		PaystackSecretKey:   os.Getenv("PAYSTACK_SECRET_KEY"),
		PaystackBaseURL:     getEnv("PAYSTACK_BASE_URL", "https://api.paystack.co"),
		StripeSecretKey:     os.Getenv("STRIPE_SECRET_KEY"),
		StripeWebhookSecret: os.Getenv("STRIPE_WEBHOOK_SECRET"),

		ShippingFee:           getFloat("SHIPPING_FEE", 5),
		FreeShippingThreshold: getFloat("FREE_SHIPPING_THRESHOLD", 50),

		SMTPHost:     os.Getenv("SMTP_HOST"),
		SMTPPort:     getInt("SMTP_PORT", 587),
		SMTPUsername: os.Getenv("SMTP_USERNAME"),
		SMTPPassword: os.Getenv("SMTP_PASSWORD"),
		MailFrom:     getEnv("MAIL_FROM", "noreply@storefront.local"),

		MinioEndpoint:  os.Getenv("MINIO_ENDPOINT"),
		MinioAccessKey: os.Getenv("MINIO_ACCESS_KEY"),
		MinioSecretKey: os.Getenv("MINIO_SECRET_KEY"),
		MinioBucket:    getEnv("MINIO_BUCKET", "product-images"),
		MinioUseSSL:    os.Getenv("MINIO_USE_SSL") == "true",

		ElasticURL:      os.Getenv("ELASTIC_URL"),
		ElasticUser:     os.Getenv("ELASTIC_USER"),
		ElasticPassword: os.Getenv("ELASTIC_PASSWORD"),
		ElasticIndex:    getEnv("ELASTIC_INDEX", "products"),

		KafkaBrokers: splitList(os.Getenv("KAFKA_BROKERS")),
		KafkaTopic:   getEnv("KAFKA_ORDERS_TOPIC", "orders"),

		ScyllaHosts:    splitList(os.Getenv("SCYLLA_HOSTS")),
		ScyllaKeyspace: getEnv("SCYLLA_AUDIT_KEYSPACE", "storefront_audit"),
		ScyllaUsername: os.Getenv("SCYLLA_USERNAME"),
		ScyllaPassword: os.Getenv("SCYLLA_PASSWORD"),

		GoogleClientID:     os.Getenv("GOOGLE_CLIENT_ID"),
		GoogleClientSecret: os.Getenv("GOOGLE_CLIENT_SECRET"),

		CORSOrigins: splitList(getEnv("CORS_ORIGINS", "http://localhost:3000")),
	}
}

// MustValidate arrête le serveur si une variable obligatoire manque
func (c *Config) MustValidate() {
	required := map[string]string{
		"MONGO_URI":      c.MongoURI,
		"SESSION_SECRET": c.SessionSecret,
		"JWT_SECRET":     c.JWTSecret,
	}
	for name, value := range required {
		if value == "" {
			log.Fatalf("❌ %s manquant dans l'environnement", name)
		}
	}

	switch c.PaymentProvider {
	case "paystack":
		if c.PaystackSecretKey == "" {
			log.Fatal("❌ PAYSTACK_SECRET_KEY manquant")
		}
	case "stripe":
		if c.StripeSecretKey == "" || c.StripeWebhookSecret == "" {
			log.Fatal("❌ STRIPE_SECRET_KEY / STRIPE_WEBHOOK_SECRET manquants")
		}
	default:
		log.Fatalf("❌ PAYMENT_PROVIDER inconnu: %s", c.PaymentProvider)
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) int {
	v, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return v
}

func getFloat(key string, fallback float64) float64 {
	v, err := strconv.ParseFloat(os.Getenv(key), 64)
	if err != nil {
		return fallback
	}
	return v
}

func getDuration(key string, fallback time.Duration) time.Duration {
	v, err := time.ParseDuration(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return v
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
