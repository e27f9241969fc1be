package configs

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const defaultJWTSecret = "change-me"

type Config struct {
	AppEnv     string
	ServerPort string

	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string

	RedisEnabled  bool
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	JWTSecret string

	Judge0URL            string
	Judge0Host           string
	Judge0APIKey         string
	JudgePollInterval    time.Duration
	JudgeMaxPollAttempts int

	MaxSubmissions  int
	SlotADifficulty string
	SlotBDifficulty string
	TeamLockTTL     time.Duration
	CacheTTL        time.Duration

	CompletionRewardLink string
	CORSAllowOrigins     []string
}

// LoadConfig reads the optional .env file and the process environment.
func LoadConfig() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on environment variables")
	}

	judgeHost := getEnv("JUDGE0_HOST", "judge0-ce.p.rapidapi.com")

	return &Config{
		AppEnv:     getEnv("APP_ENV", "development"),
		ServerPort: getEnv("SERVER_PORT", "8080"),

		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "3306"),
		DBUser:     os.Getenv("DB_USER"),
		DBPassword: os.Getenv("DB_PASSWORD"),
		DBName:     os.Getenv("DB_NAME"),

		RedisEnabled:  getEnv("REDIS_ENABLED", "true") != "false",
		RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		RedisDB:       getEnvAsInt("REDIS_DB", 0),

		JWTSecret: getEnv("JWT_SECRET", defaultJWTSecret),

		Judge0URL:            getEnv("JUDGE0_API_URL", "https://"+judgeHost),
		Judge0Host:           judgeHost,
		Judge0APIKey:         os.Getenv("JUDGE0_API_KEY"),
		JudgePollInterval:    getEnvAsDuration("JUDGE_POLL_INTERVAL", 2*time.Second),
		JudgeMaxPollAttempts: getEnvAsInt("JUDGE_MAX_POLL_ATTEMPTS", 15),

		MaxSubmissions:  getEnvAsInt("MAX_SUBMISSIONS", 10),
		SlotADifficulty: getEnv("SLOT_A_DIFFICULTY", "easy"),
		SlotBDifficulty: getEnv("SLOT_B_DIFFICULTY", "medium"),
		TeamLockTTL:     getEnvAsDuration("TEAM_LOCK_TTL", 60*time.Second),
		CacheTTL:        getEnvAsDuration("CACHE_TTL", time.Hour),

		CompletionRewardLink: os.Getenv("COMPLETION_REWARD_LINK"),
		CORSAllowOrigins:     splitList(getEnv("CORS_ALLOW_ORIGINS", "*")),
	}
}

// Validate reports every missing setting the server cannot start without.
func (c *Config) Validate() error {
	var errs []error
	if c.DBUser == "" {
		errs = append(errs, errors.New("DB_USER is required"))
	}
	if c.DBName == "" {
		errs = append(errs, errors.New("DB_NAME is required"))
	}
	if c.IsProduction() && (c.JWTSecret == "" || c.JWTSecret == defaultJWTSecret) {
		errs = append(errs, errors.New("JWT_SECRET is required in production"))
	}
	if c.Judge0URL == "" {
		errs = append(errs, errors.New("JUDGE0_API_URL is required"))
	}
	if c.Judge0APIKey == "" && strings.Contains(c.Judge0URL, "rapidapi.com") {
		errs = append(errs, errors.New("JUDGE0_API_KEY is required for the hosted judge"))
	}
	if c.JudgeMaxPollAttempts <= 0 {
		errs = append(errs, fmt.Errorf("JUDGE_MAX_POLL_ATTEMPTS must be positive, got %d", c.JudgeMaxPollAttempts))
	}
	if c.MaxSubmissions <= 0 {
		errs = append(errs, fmt.Errorf("MAX_SUBMISSIONS must be positive, got %d", c.MaxSubmissions))
	}
	if c.TeamLockTTL <= c.JudgePollInterval*time.Duration(c.JudgeMaxPollAttempts) {
		errs = append(errs, errors.New("TEAM_LOCK_TTL must exceed the judge polling window"))
	}
	return errors.Join(errs...)
}

func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	if value, err := strconv.Atoi(os.Getenv(key)); err == nil {
		return value
	}
	return fallback
}

// getEnvAsDuration accepts Go duration strings ("2s") or plain seconds ("2").
func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	if d, err := time.ParseDuration(raw); err == nil {
		return d
	}
	if secs, err := strconv.Atoi(raw); err == nil {
		return time.Duration(secs) * time.Second
	}
	return fallback
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
