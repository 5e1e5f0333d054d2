package config

import (
	"log"
	"os"
	"strconv"

	"gopkg.in/yaml.v2"
)

type Config struct {
	Server struct {
		Host string `yaml:"host"`
		Port int    `yaml:"port"`
		Env  string `yaml:"env"`
	} `yaml:"server"`

	Database struct {
		DSN string `yaml:"url"`
	} `yaml:"database"`

	Email struct {
		Provider     string `yaml:"provider"` // smtp, gomail
		SMTPHost     string `yaml:"smtp_host"`
		SMTPPort     int    `yaml:"smtp_port"`
		SMTPUsername string `yaml:"smtp_user"`
		SMTPPassword string `yaml:"smtp_password"`
		FromEmail    string `yaml:"from_email"`
		FromName     string `yaml:"from_name"`
		UseTLS       bool   `yaml:"use_tls"`
		TemplatesDir string `yaml:"templates_dir"`
	} `yaml:"email"`

	Classification struct {
		Endpoint       string `yaml:"endpoint"`
		Model          string `yaml:"model"`
		APIKey         string `yaml:"api_key"`
		TimeoutSeconds int    `yaml:"timeout_seconds"`
	} `yaml:"classification"`

	Matching struct {
		SkillsWeight     float64 `yaml:"skills_weight"`
		ExperienceWeight float64 `yaml:"experience_weight"`
		EducationWeight  float64 `yaml:"education_weight"`
		StrongThreshold  int     `yaml:"strong_threshold"`
		GoodThreshold    int     `yaml:"good_threshold"`
		PartialThreshold int     `yaml:"partial_threshold"`
		SkillDisplayCap  int     `yaml:"skill_display_cap"`
	} `yaml:"matching"`

	Notifications struct {
		MaxRetries int `yaml:"max_retries"`
	} `yaml:"notifications"`

	Reminders struct {
		StaleAfterHours int `yaml:"stale_after_hours"`
		SweepInterval   int `yaml:"sweep_interval_minutes"`
	} `yaml:"reminders"`
}

var AppConfig *Config

func LoadConfig() {
	var cfg Config

	dbURL := os.Getenv("DATABASE_URL")
	serverEnv := os.Getenv("SERVER_ENV")
	portStr := os.Getenv("SERVER_PORT")

	if dbURL == "" {
		log.Println("Loading configuration from config.yaml")

		configPath := os.Getenv("CONFIG_PATH")
		if configPath == "" {
			configPath = "config/config.yaml"
		}

		f, err := os.Open(configPath)
		if err != nil {
			log.Fatalf("Failed to open config file at %s: %v", configPath, err)
		}
		defer f.Close()

		decoder := yaml.NewDecoder(f)
		if err := decoder.Decode(&cfg); err != nil {
			log.Fatalf("Failed to parse config file at %s: %v", configPath, err)
		}

		applyDefaults(&cfg)
		AppConfig = &cfg
		return
	}

	log.Println("Loading configuration from environment variables (test mode)")

	cfg.Database.DSN = dbURL
	cfg.Server.Env = serverEnv
	cfg.Server.Port, _ = strconv.Atoi(portStr)

	cfg.Email.Provider = "smtp"
	cfg.Email.SMTPHost = "smtp.test.com"
	cfg.Email.SMTPPort = 587
	cfg.Email.FromEmail = "noreply@talentflow.test"
	cfg.Email.TemplatesDir = "templates"

	cfg.Classification.Endpoint = os.Getenv("CLASSIFICATION_ENDPOINT")
	cfg.Classification.Model = os.Getenv("CLASSIFICATION_MODEL")
	cfg.Classification.APIKey = os.Getenv("CLASSIFICATION_API_KEY")

	applyDefaults(&cfg)
	AppConfig = &cfg
}

// applyDefaults fills the knobs a minimal config file leaves out.
func applyDefaults(cfg *Config) {
	if cfg.Classification.TimeoutSeconds <= 0 {
		cfg.Classification.TimeoutSeconds = 60
	}

	if cfg.Matching.SkillsWeight == 0 && cfg.Matching.ExperienceWeight == 0 && cfg.Matching.EducationWeight == 0 {
		cfg.Matching.SkillsWeight = 0.5
		cfg.Matching.ExperienceWeight = 0.3
		cfg.Matching.EducationWeight = 0.2
	}
	if cfg.Matching.StrongThreshold == 0 {
		cfg.Matching.StrongThreshold = 85
	}
	if cfg.Matching.GoodThreshold == 0 {
		cfg.Matching.GoodThreshold = 70
	}
	if cfg.Matching.PartialThreshold == 0 {
		cfg.Matching.PartialThreshold = 50
	}
	if cfg.Matching.SkillDisplayCap == 0 {
		cfg.Matching.SkillDisplayCap = 5
	}

	if cfg.Notifications.MaxRetries == 0 {
		cfg.Notifications.MaxRetries = 3
	}

	if cfg.Reminders.StaleAfterHours == 0 {
		cfg.Reminders.StaleAfterHours = 72
	}
	if cfg.Reminders.SweepInterval == 0 {
		cfg.Reminders.SweepInterval = 60
	}
}

func GetConfig() *Config {
	if AppConfig == nil {
		LoadConfig()
	}
	return AppConfig
}
