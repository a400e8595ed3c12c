package config

import (
	"strings"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Port          string `envconfig:"PORT" default:"8080"`
	LogLevel      string `envconfig:"LOG_LEVEL" default:"info"`
	SessionSecret string `envconfig:"SESSION_SECRET" default:"change-me"`
	APIPrefix     string `envconfig:"API_PREFIX" default:"/api"`

	Kafka KafkaConfig `envconfig:"KAFKA"`
	OIDC  OIDCConfig  `envconfig:"OIDC"`

	// Loaded separately so they keep their flat variable names.
	Database DatabaseConfig      `ignored:"true"`
	SMS      AfricaTalkingConfig `ignored:"true"`
	Email    EmailConfig         `ignored:"true"`
}

type DatabaseConfig struct {
	Driver     string `envconfig:"DB_DRIVER" default:"postgres"`
	Host       string `envconfig:"POSTGRES_HOST" default:"localhost"`
	User       string `envconfig:"POSTGRES_USER" default:"test"`
	Password   string `envconfig:"POSTGRES_PASSWORD" default:"test"`
	Name       string `envconfig:"POSTGRES_DB" default:"test"`
	Port       string `envconfig:"POSTGRES_PORT" default:"5432"`
	TimeZone   string `envconfig:"POSTGRES_TIMEZONE" default:"Europe/Berlin"`
	SQLitePath string `envconfig:"SQLITE_PATH" default:"shop.db"`
}

type KafkaConfig struct {
	Brokers string `envconfig:"BROKERS" default:""`
	Topic   string `envconfig:"TOPIC" default:"bestellung-events"`
}

// BrokerList splits the comma separated broker setting, dropping blanks.
func (k KafkaConfig) BrokerList() []string {
	var brokers []string
	for _, b := range strings.Split(k.Brokers, ",") {
		if b = strings.TrimSpace(b); b != "" {
			brokers = append(brokers, b)
		}
	}
	return brokers
}

type OIDCConfig struct {
	Issuer       string `envconfig:"ISSUER"`
	ClientID     string `envconfig:"CLIENT_ID"`
	ClientSecret string `envconfig:"CLIENT_SECRET"`
	RedirectURL  string `envconfig:"REDIRECT_URL"`
}

// Enabled reports whether login and the session guard should be wired.
func (o OIDCConfig) Enabled() bool {
	return o.Issuer != "" && o.ClientID != ""
}

type AfricaTalkingConfig struct {
	Username string `envconfig:"AT_USERNAME"`
	APIKey   string `envconfig:"AT_API_KEY"`
	SMSURL   string `envconfig:"AT_SMS_URL" default:"https://api.sandbox.africastalking.com/version1/messaging"` // Sandbox URL
	SenderID string `envconfig:"AT_SENDER_ID" default:"AFRICASTKNG"`                                           // Default sandbox sender ID
}

func (a AfricaTalkingConfig) Enabled() bool {
	return a.Username != "" && a.APIKey != ""
}

type EmailConfig struct {
	AWSAccessKeyID     string `envconfig:"AWS_ACCESS_KEY_ID"`
	AWSSecretAccessKey string `envconfig:"AWS_SECRET_ACCESS_KEY"`
	AWSRegion          string `envconfig:"AWS_REGION" default:"eu-central-1"`
	SenderEmail        string `envconfig:"AWS_SENDER_ADDRESS"`
}

func (e EmailConfig) Enabled() bool {
	return e.SenderEmail != ""
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	if err := envconfig.Process("", &cfg.Database); err != nil {
		return nil, err
	}

	var err error
	if cfg.SMS, err = LoadAfricaTalkingConfig(); err != nil {
		return nil, err
	}
	if cfg.Email, err = LoadEmailConfig(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func LoadAfricaTalkingConfig() (AfricaTalkingConfig, error) {
	var cfg AfricaTalkingConfig
	err := envconfig.Process("", &cfg)
	return cfg, err
}

func LoadEmailConfig() (EmailConfig, error) {
	var cfg EmailConfig
	err := envconfig.Process("", &cfg)
	return cfg, err
}
