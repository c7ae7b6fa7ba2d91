package config

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
)

// Notifier backends.
const (
	BackendLog      = "log"
	BackendTwilio   = "twilio"
	BackendSendGrid = "sendgrid"
	BackendKafka    = "kafka"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	DatasetPath  string
	DatasetTable string

	CaptchaTTL time.Duration

	NotifierBackend string
	NotifierRate    float64
	NotifierBurst   int
	NotifierTimeout time.Duration

	// Twilio SMS credentials.
	TwilioSID   string
	TwilioToken string
	TwilioFrom  string
	TwilioTo    string

	// SendGrid email settings.
	SendGridAPIKey string
	SendGridFrom   string
	SendGridTo     string

	KafkaBrokers    []string
	KafkaAlertTopic string
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := sharedcfg.ParseShutdownTimeout()
	if err != nil {
		return nil, err
	}
	captchaTTL, err := parseDuration("CAPTCHA_TTL", "5m")
	if err != nil {
		return nil, err
	}
	notifierTimeout, err := parseDuration("NOTIFIER_TIMEOUT", "10s")
	if err != nil {
		return nil, err
	}

	rate, err := strconv.ParseFloat(sharedcfg.EnvOrDefault("NOTIFIER_RATE", "1"), 64)
	if err != nil || rate <= 0 {
		return nil, errors.New("invalid NOTIFIER_RATE")
	}
	burst, err := strconv.Atoi(sharedcfg.EnvOrDefault("NOTIFIER_BURST", "2"))
	if err != nil || burst <= 0 {
		return nil, errors.New("invalid NOTIFIER_BURST")
	}

	twilioSID := os.Getenv("TWILIO_SID")
	defaultBackend := BackendLog
	if twilioSID != "" {
		defaultBackend = BackendTwilio
	}

	datasetPath, datasetTable := DatasetSource()

	cfg := &Config{
		HTTPAddr:        sharedcfg.EnvOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:       sharedcfg.EnvOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,

		DatasetPath:  datasetPath,
		DatasetTable: datasetTable,

		CaptchaTTL: captchaTTL,

		NotifierBackend: strings.ToLower(sharedcfg.EnvOrDefault("NOTIFIER_BACKEND", defaultBackend)),
		NotifierRate:    rate,
		NotifierBurst:   burst,
		NotifierTimeout: notifierTimeout,

		TwilioSID:   twilioSID,
		TwilioToken: os.Getenv("TWILIO_TOKEN"),
		TwilioFrom:  os.Getenv("TWILIO_FROM"),
		TwilioTo:    os.Getenv("TWILIO_TO"),

		SendGridAPIKey: os.Getenv("SENDGRID_API_KEY"),
		SendGridFrom:   os.Getenv("SENDGRID_FROM"),
		SendGridTo:     os.Getenv("SENDGRID_TO"),

		KafkaBrokers:    sharedcfg.ParseBrokers(sharedcfg.EnvOrDefault("KAFKA_BROKERS", "localhost:9092")),
		KafkaAlertTopic: sharedcfg.EnvOrDefault("KAFKA_ALERT_TOPIC", "driver-alerts"),
	}

	if cfg.DatasetPath == "" {
		return nil, errors.New("DATASET_PATH is required")
	}
	if err := cfg.validateNotifier(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// DatasetSource returns only the dataset settings, for commands that read the
// dataset without running the service.
func DatasetSource() (path, table string) {
	return sharedcfg.EnvOrDefault("DATASET_PATH", "accident.csv"), sharedcfg.EnvOrDefault("DATASET_TABLE", "accidents")
}

func (c *Config) validateNotifier() error {
	switch c.NotifierBackend {
	case BackendLog:
		return nil
	case BackendTwilio:
		return requireAll(map[string]string{
			"TWILIO_SID":   c.TwilioSID,
			"TWILIO_TOKEN": c.TwilioToken,
			"TWILIO_FROM":  c.TwilioFrom,
			"TWILIO_TO":    c.TwilioTo,
		})
	case BackendSendGrid:
		return requireAll(map[string]string{
			"SENDGRID_API_KEY": c.SendGridAPIKey,
			"SENDGRID_FROM":    c.SendGridFrom,
			"SENDGRID_TO":      c.SendGridTo,
		})
	case BackendKafka:
		if len(c.KafkaBrokers) == 0 {
			return errors.New("KAFKA_BROKERS is required")
		}
		if c.KafkaAlertTopic == "" {
			return errors.New("KAFKA_ALERT_TOPIC is required")
		}
		return nil
	default:
		return fmt.Errorf("unknown NOTIFIER_BACKEND %q", c.NotifierBackend)
	}
}

// requireAll reports the first unset variable in sorted order.
func requireAll(vars map[string]string) error {
	var missing []string
	for name, v := range vars {
		if v == "" {
			missing = append(missing, name)
		}
	}
	if len(missing) == 0 {
		return nil
	}
	sort.Strings(missing)
	return fmt.Errorf("%s is required", strings.Join(missing, ", "))
}


func parseDuration(key, fallback string) (time.Duration, error) {
	d, err := time.ParseDuration(sharedcfg.EnvOrDefault(key, fallback))
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return d, nil
}
