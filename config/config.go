package config

import (
	"encoding/json"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// AppConfig holds environment driven configuration values.
// Sensitive data should never have defaults inside code and must be provided
// via the config file or the environment.
type AppConfig struct {
	AppPort            string
	JWTSecret          string
	RateLimitPerMinute int
	AllowedOrigins     []string
	AdminUsernames     []string

	// Database
	DatabaseURI string
	DBHost      string
	DBPort      string
	DBUser      string
	DBPassword  string
	DBName      string

	// Redis for caching / token blacklist / abuse counters
	RedisHost     string
	RedisPort     int
	RedisDB       int
	RedisPassword string

	// OAuth sign-in
	GitHubClientID     string
	GitHubClientSecret string
	GoogleClientID     string
	GoogleClientSecret string
	OAuthRedirectBase  string

	// Logging
	LogLevel      string
	LogPath       string
	GinMode       string
	GinPath       string
	LogMaxSizeMB  int
	LogMaxBackups int
	LogMaxAgeDays int
	LogCompress   bool

	// Registration security
	RegisterCaptchaEnabled        bool
	RegisterMaxPerIPPerDay        int
	RegisterAttemptCooldownSec    int
	RegisterFailedMaxPerIPPerHour int
	RegisterTempBanMinutes        int

	// Media uploads
	UploadDir            string
	UploadMaxSizeMB      int
	UploadOrphanTTLMin   int
	UploadReaperEnabled  bool
	UploadReaperInterval int // minutes
}

var cfg AppConfig
var loaded bool

// Load loads the application configuration. It should be called once during
// boot. Precedence: config/config.json -> defaults -> environment overrides.
func Load() AppConfig {
	if loaded {
		return cfg
	}

	_ = loadJSONConfig(filepath.Join("config", "config.json"), &cfg)
	applyDefaults(&cfg)
	applyEnvOverrides(&cfg)

	if cfg.JWTSecret == "" {
		log.Fatal("JWT_SECRET must be set in environment variables")
	}

	loaded = true
	return cfg
}

// Get returns the cached configuration, loading it if necessary.
func Get() AppConfig {
	if !loaded {
		return Load()
	}
	return cfg
}

// fileConfig mirrors the layout of the optional config/config.json file.
// Booleans are pointers so an absent key can be told apart from false.
type fileConfig struct {
	App struct {
		AppPort            string   `json:"AppPort"`
		JWTSecret          string   `json:"JWTSecret"`
		RateLimitPerMinute int      `json:"RateLimitPerMinute"`
		AllowedOrigins     []string `json:"AllowedOrigins"`
		AdminUsernames     []string `json:"AdminUsernames"`
		OAuthRedirectBase  string   `json:"OAuthRedirectBase"`
	} `json:"app"`
	Database struct {
		DatabaseURI string `json:"DatabaseURI"`
		DBHost      string `json:"DBHost"`
		DBPort      string `json:"DBPort"`
		DBUser      string `json:"DBUser"`
		DBPassword  string `json:"DBPassword"`
		DBName      string `json:"DBName"`
	} `json:"database"`
	Redis struct {
		RedisHost     string `json:"RedisHost"`
		RedisPort     int    `json:"RedisPort"`
		RedisDB       int    `json:"RedisDB"`
		RedisPassword string `json:"RedisPassword"`
	} `json:"redis"`
	OAuth struct {
		GitHubClientID     string `json:"GitHubClientID"`
		GitHubClientSecret string `json:"GitHubClientSecret"`
		GoogleClientID     string `json:"GoogleClientID"`
		GoogleClientSecret string `json:"GoogleClientSecret"`
	} `json:"oauth"`
	Log struct {
		Level      string `json:"Level"`
		Path       string `json:"Path"`
		GinMode    string `json:"GinMode"`
		GinPath    string `json:"GinPath"`
		MaxSizeMB  int    `json:"MaxSizeMB"`
		MaxBackups int    `json:"MaxBackups"`
		MaxAgeDays int    `json:"MaxAgeDays"`
		Compress   *bool  `json:"Compress"`
	} `json:"log"`
	Register struct {
		CaptchaEnabled        *bool `json:"CaptchaEnabled"`
		MaxPerIPPerDay        int   `json:"MaxPerIPPerDay"`
		AttemptCooldownSec    int   `json:"AttemptCooldownSec"`
		FailedMaxPerIPPerHour int   `json:"FailedMaxPerIPPerHour"`
		TempBanMinutes        int   `json:"TempBanMinutes"`
	} `json:"register"`
	Uploads struct {
		Dir                   string `json:"Dir"`
		MaxSizeMB             int    `json:"MaxSizeMB"`
		OrphanTTLMinutes      int    `json:"OrphanTTLMinutes"`
		ReaperEnabled         *bool  `json:"ReaperEnabled"`
		ReaperIntervalMinutes int    `json:"ReaperIntervalMinutes"`
	} `json:"uploads"`
}

// loadJSONConfig reads the optional JSON config file into out. A missing
// file is ignored; malformed content returns an error. Absent or zero file
// values leave the target field untouched.
func loadJSONConfig(path string, out *AppConfig) error {
	f, err := os.Open(path)
	if err != nil {
		return nil
	}
	defer f.Close()

	var fc fileConfig
	if err := json.NewDecoder(f).Decode(&fc); err != nil {
		return err
	}

	setString(&out.AppPort, fc.App.AppPort)
	setString(&out.JWTSecret, fc.App.JWTSecret)
	setInt(&out.RateLimitPerMinute, fc.App.RateLimitPerMinute)
	setStrings(&out.AllowedOrigins, fc.App.AllowedOrigins)
	setStrings(&out.AdminUsernames, fc.App.AdminUsernames)
	setString(&out.OAuthRedirectBase, fc.App.OAuthRedirectBase)

	setString(&out.DatabaseURI, fc.Database.DatabaseURI)
	setString(&out.DBHost, fc.Database.DBHost)
	setString(&out.DBPort, fc.Database.DBPort)
	setString(&out.DBUser, fc.Database.DBUser)
	setString(&out.DBPassword, fc.Database.DBPassword)
	setString(&out.DBName, fc.Database.DBName)

	setString(&out.RedisHost, fc.Redis.RedisHost)
	setInt(&out.RedisPort, fc.Redis.RedisPort)
	setInt(&out.RedisDB, fc.Redis.RedisDB)
	setString(&out.RedisPassword, fc.Redis.RedisPassword)

	setString(&out.GitHubClientID, fc.OAuth.GitHubClientID)
	setString(&out.GitHubClientSecret, fc.OAuth.GitHubClientSecret)
	setString(&out.GoogleClientID, fc.OAuth.GoogleClientID)
	setString(&out.GoogleClientSecret, fc.OAuth.GoogleClientSecret)

	setString(&out.LogLevel, fc.Log.Level)
	setString(&out.LogPath, fc.Log.Path)
	setString(&out.GinMode, fc.Log.GinMode)
	setString(&out.GinPath, fc.Log.GinPath)
	setInt(&out.LogMaxSizeMB, fc.Log.MaxSizeMB)
	setInt(&out.LogMaxBackups, fc.Log.MaxBackups)
	setInt(&out.LogMaxAgeDays, fc.Log.MaxAgeDays)
	setBool(&out.LogCompress, fc.Log.Compress)

	setBool(&out.RegisterCaptchaEnabled, fc.Register.CaptchaEnabled)
	setInt(&out.RegisterMaxPerIPPerDay, fc.Register.MaxPerIPPerDay)
	setInt(&out.RegisterAttemptCooldownSec, fc.Register.AttemptCooldownSec)
	setInt(&out.RegisterFailedMaxPerIPPerHour, fc.Register.FailedMaxPerIPPerHour)
	setInt(&out.RegisterTempBanMinutes, fc.Register.TempBanMinutes)

	setString(&out.UploadDir, fc.Uploads.Dir)
	setInt(&out.UploadMaxSizeMB, fc.Uploads.MaxSizeMB)
	setInt(&out.UploadOrphanTTLMin, fc.Uploads.OrphanTTLMinutes)
	setBool(&out.UploadReaperEnabled, fc.Uploads.ReaperEnabled)
	setInt(&out.UploadReaperInterval, fc.Uploads.ReaperIntervalMinutes)

	return nil
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func setInt(dst *int, v int) {
	if v != 0 {
		*dst = v
	}
}

func setStrings(dst *[]string, v []string) {
	if len(v) > 0 {
		*dst = v
	}
}

func setBool(dst *bool, v *bool) {
	if v != nil {
		*dst = *v
	}
}

func applyDefaults(out *AppConfig) {
	if out.AppPort == "" {
		out.AppPort = "8080"
	}
	if out.RateLimitPerMinute == 0 {
		out.RateLimitPerMinute = 60
	}
	if len(out.AllowedOrigins) == 0 {
		out.AllowedOrigins = []string{"*"}
	}
	if out.DBHost == "" {
		out.DBHost = "127.0.0.1"
	}
	if out.DBPort == "" {
		out.DBPort = "3306"
	}
	if out.DBUser == "" {
		out.DBUser = "root"
	}
	if out.DBName == "" {
		out.DBName = "social"
	}
	if out.RedisHost == "" {
		out.RedisHost = "127.0.0.1"
	}
	if out.RedisPort == 0 {
		out.RedisPort = 6379
	}
	if out.OAuthRedirectBase == "" {
		out.OAuthRedirectBase = "http://localhost:" + out.AppPort
	}
	if out.LogLevel == "" {
		out.LogLevel = "info"
	}
	if out.LogPath == "" {
		out.LogPath = "logs/app.log"
	}
	if out.GinMode == "" {
		out.GinMode = "release"
	}
	if out.GinPath == "" {
		out.GinPath = "logs/gin.log"
	}
	if out.LogMaxSizeMB == 0 {
		out.LogMaxSizeMB = 100
	}
	if out.LogMaxBackups == 0 {
		out.LogMaxBackups = 3
	}
	if out.LogMaxAgeDays == 0 {
		out.LogMaxAgeDays = 7
	}
	if out.RegisterMaxPerIPPerDay == 0 {
		out.RegisterMaxPerIPPerDay = 10
	}
	if out.RegisterAttemptCooldownSec == 0 {
		out.RegisterAttemptCooldownSec = 5
	}
	if out.RegisterFailedMaxPerIPPerHour == 0 {
		out.RegisterFailedMaxPerIPPerHour = 20
	}
	if out.RegisterTempBanMinutes == 0 {
		out.RegisterTempBanMinutes = 60
	}
	if out.UploadDir == "" {
		out.UploadDir = filepath.Join("static", "uploads")
	}
	if out.UploadMaxSizeMB == 0 {
		out.UploadMaxSizeMB = 10
	}
	if out.UploadOrphanTTLMin == 0 {
		out.UploadOrphanTTLMin = 60
	}
	if out.UploadReaperInterval == 0 {
		out.UploadReaperInterval = 5
	}
}

func applyEnvOverrides(out *AppConfig) {
	out.AppPort = getEnv("APP_PORT", out.AppPort)
	out.JWTSecret = getEnv("JWT_SECRET", out.JWTSecret)
	if v := os.Getenv("RATE_LIMIT_PER_MINUTE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			out.RateLimitPerMinute = n
		}
	}
	if v := os.Getenv("ALLOWED_ORIGINS"); v != "" {
		out.AllowedOrigins = splitAndTrim(v)
	}
	if v := os.Getenv("ADMIN_USERNAMES"); v != "" {
		out.AdminUsernames = splitAndTrim(v)
	}

	out.DatabaseURI = getEnv("DATABASE_URI", out.DatabaseURI)
	out.DBHost = getEnv("DB_HOST", out.DBHost)
	out.DBPort = getEnv("DB_PORT", out.DBPort)
	out.DBUser = getEnv("DB_USER", out.DBUser)
	out.DBPassword = getEnv("DB_PASSWORD", out.DBPassword)
	out.DBName = getEnv("DB_NAME", out.DBName)

	out.RedisHost = getEnv("REDIS_HOST", out.RedisHost)
	if v := os.Getenv("REDIS_PORT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			out.RedisPort = n
		}
	}
	if v := os.Getenv("REDIS_DB"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			out.RedisDB = n
		}
	}
	out.RedisPassword = getEnv("REDIS_PASSWORD", out.RedisPassword)

	out.GitHubClientID = getEnv("GITHUB_CLIENT_ID", out.GitHubClientID)
	out.GitHubClientSecret = getEnv("GITHUB_CLIENT_SECRET", out.GitHubClientSecret)
	out.GoogleClientID = getEnv("GOOGLE_CLIENT_ID", out.GoogleClientID)
	out.GoogleClientSecret = getEnv("GOOGLE_CLIENT_SECRET", out.GoogleClientSecret)
	out.OAuthRedirectBase = getEnv("OAUTH_REDIRECT_BASE", out.OAuthRedirectBase)

	out.LogLevel = getEnv("LOG_LEVEL", out.LogLevel)
	out.LogPath = getEnv("LOG_PATH", out.LogPath)
	out.GinMode = getEnv("GIN_MODE", out.GinMode)
	out.GinPath = getEnv("GIN_LOG_PATH", out.GinPath)

	if v := os.Getenv("REGISTER_CAPTCHA_ENABLED"); v != "" {
		out.RegisterCaptchaEnabled = strings.EqualFold(v, "true") || v == "1"
	}
	if v := os.Getenv("UPLOAD_DIR"); v != "" {
		out.UploadDir = v
	}
	if v := os.Getenv("UPLOAD_MAX_SIZE_MB"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			out.UploadMaxSizeMB = n
		}
	}
	if v := os.Getenv("UPLOAD_REAPER_ENABLED"); v != "" {
		out.UploadReaperEnabled = strings.EqualFold(v, "true") || v == "1"
	}
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func splitAndTrim(s string) []string {
	parts := strings.Split(s, ",")
	res := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			res = append(res, t)
		}
	}
	return res
}
