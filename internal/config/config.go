package config

import (
	"log"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Storage  StorageConfig  `mapstructure:"storage"`
	Bank     BankConfig     `mapstructure:"bank"`
	Logger   LoggerConfig   `mapstructure:"logger"`
	Metrics  MetricsConfig  `mapstructure:"metrics"`
	RabbitMQ RabbitMQConfig `mapstructure:"rabbitmq"`
	Batch    BatchConfig    `mapstructure:"batch"`
}

type ServerConfig struct {
	Port         int             `mapstructure:"port"`
	ReadTimeout  time.Duration   `mapstructure:"readTimeout"`
	WriteTimeout time.Duration   `mapstructure:"writeTimeout"`
	IdleTimeout  time.Duration   `mapstructure:"idleTimeout"`
	RateLimit    RateLimitConfig `mapstructure:"rateLimit"`
	Auth         AuthConfig      `mapstructure:"auth"`
}

type RateLimitConfig struct {
	Enabled bool    `mapstructure:"enabled"`
	RPS     float64 `mapstructure:"rps"`
	Burst   int     `mapstructure:"burst"`
}

type AuthConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	JWTSecret string `mapstructure:"jwtSecret"`
}

type StorageConfig struct {
	DataDir          string `mapstructure:"dataDir"`
	AccountsFile     string `mapstructure:"accountsFile"`
	CustomersFile    string `mapstructure:"customersFile"`
	TransactionsFile string `mapstructure:"transactionsFile"`
	UsersFile        string `mapstructure:"usersFile"`
}

func (s StorageConfig) AccountsPath() string     { return filepath.Join(s.DataDir, s.AccountsFile) }
func (s StorageConfig) CustomersPath() string    { return filepath.Join(s.DataDir, s.CustomersFile) }
func (s StorageConfig) TransactionsPath() string { return filepath.Join(s.DataDir, s.TransactionsFile) }
func (s StorageConfig) UsersPath() string        { return filepath.Join(s.DataDir, s.UsersFile) }

type BankConfig struct {
	TimeZone               string  `mapstructure:"timeZone"`
	CheckingInterestRate   float64 `mapstructure:"checkingInterestRate"`
	SavingsInterestRate    float64 `mapstructure:"savingsInterestRate"`
	LoanInterestRate       float64 `mapstructure:"loanInterestRate"`
	CheckingOverdraftLimit float64 `mapstructure:"checkingOverdraftLimit"`
	SavingsWithdrawalLimit int     `mapstructure:"savingsWithdrawalLimit"`
	DefaultLoanTermMonths  int     `mapstructure:"defaultLoanTermMonths"`
}

type LoggerConfig struct {
	Level    string `mapstructure:"level"`
	Encoding string `mapstructure:"encoding"`
}

type MetricsConfig struct {
	Path string `mapstructure:"path"`
}

type RabbitMQConfig struct {
	Enabled      bool   `mapstructure:"enabled"`
	Host         string `mapstructure:"host"`
	Port         int    `mapstructure:"port"`
	Username     string `mapstructure:"username"`
	Password     string `mapstructure:"password"`
	ExchangeName string `mapstructure:"exchangeName"`
}

type BatchConfig struct {
	MonthEndSchedule string        `mapstructure:"monthEndSchedule"`
	MonthEndTimeout  time.Duration `mapstructure:"monthEndTimeout"`
}

func LoadConfig(path string) (*Config, error) {
	viper.AddConfigPath(path)
	viper.SetConfigName("config")
	viper.SetConfigType("yml")

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.readTimeout", 15*time.Second)
	viper.SetDefault("server.writeTimeout", 15*time.Second)
	viper.SetDefault("server.idleTimeout", 60*time.Second)
	viper.SetDefault("server.rateLimit.enabled", true)
	viper.SetDefault("server.rateLimit.rps", 10)
	viper.SetDefault("server.rateLimit.burst", 20)
	viper.SetDefault("server.auth.enabled", true)
	viper.SetDefault("server.auth.jwtSecret", "")
	viper.SetDefault("storage.dataDir", "data")
	viper.SetDefault("storage.accountsFile", "accounts.json")
	viper.SetDefault("storage.customersFile", "customers.json")
	viper.SetDefault("storage.transactionsFile", "transactions.json")
	viper.SetDefault("storage.usersFile", "users.json")
	viper.SetDefault("bank.timeZone", "Africa/Cairo")
	viper.SetDefault("bank.checkingInterestRate", 0.01)
	viper.SetDefault("bank.savingsInterestRate", 0.03)
	viper.SetDefault("bank.loanInterestRate", 0.07)
	viper.SetDefault("bank.checkingOverdraftLimit", 500.0)
	viper.SetDefault("bank.savingsWithdrawalLimit", 3)
	viper.SetDefault("bank.defaultLoanTermMonths", 12)
	viper.SetDefault("logger.level", "info")
	viper.SetDefault("logger.encoding", "json")
	viper.SetDefault("metrics.path", "/metrics")
	viper.SetDefault("rabbitmq.enabled", false)
	viper.SetDefault("rabbitmq.host", "localhost")
	viper.SetDefault("rabbitmq.port", 5672)
	viper.SetDefault("rabbitmq.username", "guest")
	viper.SetDefault("rabbitmq.password", "guest")
	viper.SetDefault("rabbitmq.exchangeName", "pybank")
	viper.SetDefault("batch.monthEndSchedule", "0 0 1 * *")
	viper.SetDefault("batch.monthEndTimeout", 10*time.Minute)

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			log.Println("Config file not found, using defaults and environment variables.")
		} else {
			return nil, err
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}
