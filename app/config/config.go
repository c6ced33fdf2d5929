package config

import (
	"errors"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/samber/oops"
	"gopkg.in/yaml.v3"
)

const defaultConfigPath = "config.yaml"

type Config struct {
	// Enable debug logging
	Debug     bool      `yaml:"debug" example:"false"`
	Log       Log       `yaml:"log"`
	Server    Server    `yaml:"server"`
	Session   Session   `yaml:"session"`
	LLM       LLM       `yaml:"llm"`
	Scheduler Scheduler `yaml:"scheduler"`
	Ledger    Ledger    `yaml:"ledger"`
	Admin     Admin     `yaml:"admin"`
	Business  Business  `yaml:"business"`
}

type Server struct {
	// HTTP port to listen on
	Port int `yaml:"port" example:"5000" validate:"required,min=1,max=65535"`
}

type Session struct {
	// Secret used to derive the cookie encryption key
	Secret string `yaml:"secret" example:"change-me-please"`
	// Session lifetime, idle sessions are forgotten after it
	Expiration time.Duration `yaml:"expiration" example:"24h" validate:"required"`
}

type LLM struct {
	// Backend: openai or langchain
	Provider string `yaml:"provider" example:"openai" validate:"required,oneof=openai langchain"`
	// OpenAI compatible base url
	BaseURL string `yaml:"base_url" example:"https://api.openai.com/v1" validate:"required"`
	// OpenAI token
	Token string `yaml:"token" example:"sk-proj-abc123456789DEF789ghi012JKL345mno678PQR901stu234VWX" validate:"required"`
	// Model name
	Model string `yaml:"model" example:"gpt-4o" validate:"required"`
	// HTTP client timeout for a single completion
	Timeout time.Duration `yaml:"timeout" example:"30s" validate:"required"`
	// Max completion tokens
	MaxTokens int `yaml:"max_tokens" example:"800" validate:"min=1"`
	// Sampling temperature
	Temperature float32 `yaml:"temperature" example:"0.7" validate:"min=0,max=2"`
}

type Scheduler struct {
	// Reminder check interval
	Interval time.Duration `yaml:"interval" example:"60s" validate:"required"`
}

type Ledger struct {
	// Amount recorded when payment arrives without a pending sale (ZAR)
	DefaultAmount int `yaml:"default_amount" example:"5399" validate:"min=0"`
}

type Admin struct {
	// Phrase that makes the bot answer with the sales report
	TriggerPhrase string `yaml:"trigger_phrase" example:"admin report" validate:"required"`
	// Bearer token for the admin MCP endpoint, endpoint disabled when empty
	Token string `yaml:"token" example:"s3cr3t-admin-token"`
}

type Business struct {
	// Shop name
	Name string `yaml:"name" example:"ANB Tech Supplies" validate:"required"`
	// Street address
	Address string `yaml:"address" example:"609 Roger St, Lusikisiki, Eastern Cape, South Africa, 4828" validate:"required"`
	// Store phone number
	Phone string `yaml:"phone" example:"+27 82 888 2353" validate:"required"`
	// WhatsApp number for orders and proof of payment
	WhatsApp string `yaml:"whatsapp" example:"+27 68 830 8314" validate:"required"`
	// WhatsApp number for picture requests
	PicturesWhatsApp string `yaml:"pictures_whatsapp" example:"078 870 9557" validate:"required"`
	// Public picture gallery
	GalleryURL string `yaml:"gallery_url" example:"https://abtechsupplies.github.io/Pictures/" validate:"required,url"`
	// Discount applied to catalog prices, percent
	DiscountPercent int  `yaml:"discount_percent" example:"40" validate:"min=0,max=100"`
	Bank            Bank `yaml:"bank"`
}

type Bank struct {
	AccountHolder string `yaml:"account_holder" example:"Jayden Allen" validate:"required"`
	BankName      string `yaml:"bank_name" example:"TymeBank (Business)" validate:"required"`
	BranchCode    string `yaml:"branch_code" example:"678910" validate:"required"`
	AccountNumber string `yaml:"account_number" example:"51059661139" validate:"required"`
}

type Log struct {
	// Telegram logging config
	Telegram TelegramLog `yaml:"telegram"`
}

type TelegramLog struct {
	// Chat bot token, obtain it via BotFather
	Token string `yaml:"token" example:"1234567890:ABCdefGHIjklMNopQRstUVwxyZ-123456789"`
	// Chat ID to send messages to
	ChatID string `yaml:"chat_id" example:"1001234567890"`
}

func Load() (*Config, error) {
	return LoadFile(defaultConfigPath)
}

// LoadFile starts from the built-in defaults, overlays an optional YAML
// file, applies .env and environment overrides and validates the result.
// Keys present in the file win over defaults, zero values included.
func LoadFile(path string) (*Config, error) {
	result := defaultConfig()

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, oops.Errorf("failed to load .env file: %w", err)
	}

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return nil, oops.Errorf("failed to read config file: %w", err)
	default:
		if err = yaml.Unmarshal(data, &result); err != nil {
			return nil, oops.Errorf("failed to parse YAML config: %w", err)
		}
	}

	if err = applyEnv(&result); err != nil {
		return nil, err
	}

	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := validate.Struct(result); err != nil {
		return nil, oops.Errorf("failed to validate config: %w", err)
	}

	return &result, nil
}

func applyEnv(cfg *Config) error {
	if v := os.Getenv("OPENAI_API_KEY"); v != "" {
		cfg.LLM.Token = v
	}
	if v := os.Getenv("LLM_BASE_URL"); v != "" {
		cfg.LLM.BaseURL = v
	}
	if v := os.Getenv("LLM_MODEL"); v != "" {
		cfg.LLM.Model = v
	}
	if v := os.Getenv("SESSION_SECRET"); v != "" {
		cfg.Session.Secret = v
	}
	if v := os.Getenv("ADMIN_TOKEN"); v != "" {
		cfg.Admin.Token = v
	}
	if v := os.Getenv("PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return oops.Errorf("invalid PORT %q: %w", v, err)
		}
		cfg.Server.Port = port
	}
	if v := os.Getenv("DEBUG"); v != "" {
		debug, err := strconv.ParseBool(v)
		if err != nil {
			return oops.Errorf("invalid DEBUG %q: %w", v, err)
		}
		cfg.Debug = debug
	}

	return nil
}

func defaultConfig() Config {
	return Config{
		Server: Server{
			Port: 5000,
		},
		Session: Session{
			Expiration: 24 * time.Hour,
		},
		LLM: LLM{
			Provider:    "openai",
			BaseURL:     "https://api.openai.com/v1",
			Model:       "gpt-4o",
			Timeout:     30 * time.Second,
			MaxTokens:   800,
			Temperature: 0.7,
		},
		Scheduler: Scheduler{
			Interval: time.Minute,
		},
		Ledger: Ledger{
			DefaultAmount: 5399,
		},
		Admin: Admin{
			TriggerPhrase: "admin report",
		},
		Business: Business{
			Name:             "ANB Tech Supplies",
			Address:          "609 Roger St, Lusikisiki, Eastern Cape, South Africa, 4828",
			Phone:            "+27 82 888 2353",
			WhatsApp:         "+27 68 830 8314",
			PicturesWhatsApp: "078 870 9557",
			GalleryURL:       "https://abtechsupplies.github.io/Pictures/",
			DiscountPercent:  40,
			Bank: Bank{
				AccountHolder: "Jayden Allen",
				BankName:      "TymeBank (Business)",
				BranchCode:    "678910",
				AccountNumber: "51059661139",
			},
		},
	}
}
