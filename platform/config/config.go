package config

import (
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config はクライアントコア全体の設定を表現します。
type Config struct {
	Supabase   SupabaseConfig   `yaml:"supabase"`
	Attendance AttendanceConfig `yaml:"attendance"`
	Session    SessionConfig    `yaml:"session"`
	Database   DatabaseConfig   `yaml:"database"`
}

// SupabaseConfig はリモートストアと認証サービスの接続設定です。
// AnonKey は公開 API キーであり、ローテーションを要する秘密情報ではありません。
type SupabaseConfig struct {
	URL     string `yaml:"url"`
	AnonKey string `yaml:"anon_key"`
}

// AttendanceConfig は勤怠ポリシーに関する設定です。
// タイムゾーンは組織共通の固定値で、端末のタイムゾーンは使いません。
type AttendanceConfig struct {
	Timezone     string `yaml:"timezone"`
	WeeklyOffDay string `yaml:"weekly_off_day"`

	Location  *time.Location `yaml:"-"`
	WeeklyOff time.Weekday   `yaml:"-"`
}

// SessionConfig はセッション永続化に関する設定です。
type SessionConfig struct {
	StorePath string `yaml:"store_path"`
}

// DatabaseConfig は PostgreSQL 直結アダプタとマイグレーション用の接続設定です。
// 未指定の場合、直結経路は使用しません。
type DatabaseConfig struct {
	Host               string        `yaml:"host"`
	Port               int           `yaml:"port"`
	User               string        `yaml:"user"`
	Password           string        `yaml:"password"`
	Name               string        `yaml:"name"`
	SSLMode            string        `yaml:"ssl_mode"`
	MaxOpenConns       int           `yaml:"max_open_conns"`
	MaxIdleConns       int           `yaml:"max_idle_conns"`
	ConnMaxLifetime    time.Duration `yaml:"-"`
	ConnMaxIdleTime    time.Duration `yaml:"-"`
	ConnMaxLifetimeRaw string        `yaml:"conn_max_lifetime"`
	ConnMaxIdleTimeRaw string        `yaml:"conn_max_idle_time"`
}

const (
	defaultTimezone     = "Asia/Kolkata"
	defaultWeeklyOffDay = "Sunday"
)

// Load は指定されたパスから設定ファイルを読み込みます。
// SUPABASE_URL / SUPABASE_ANON_KEY 環境変数はファイルの値を上書きします。
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read file %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return nil, fmt.Errorf("config: parse yaml: %w", err)
	}

	cfg.applyEnvOverrides()

	if err := cfg.validateAndNormalize(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("SUPABASE_URL"); v != "" {
		c.Supabase.URL = v
	}
	if v := os.Getenv("SUPABASE_ANON_KEY"); v != "" {
		c.Supabase.AnonKey = v
	}
}

func (c *Config) validateAndNormalize() error {
	if c.Supabase.URL == "" {
		return fmt.Errorf("config: supabase.url must be set")
	}
	if c.Supabase.AnonKey == "" {
		return fmt.Errorf("config: supabase.anon_key must be set")
	}

	if err := c.Attendance.validateAndNormalize(); err != nil {
		return err
	}

	if c.Database.Enabled() {
		if err := c.Database.validateAndNormalize(); err != nil {
			return err
		}
	}

	return nil
}

func (a *AttendanceConfig) validateAndNormalize() error {
	if a.Timezone == "" {
		a.Timezone = defaultTimezone
	}
	loc, err := time.LoadLocation(a.Timezone)
	if err != nil {
		return fmt.Errorf("config: attendance.timezone: %w", err)
	}
	a.Location = loc

	if a.WeeklyOffDay == "" {
		a.WeeklyOffDay = defaultWeeklyOffDay
	}
	weekday, err := parseWeekday(a.WeeklyOffDay)
	if err != nil {
		return fmt.Errorf("config: attendance.weekly_off_day: %w", err)
	}
	a.WeeklyOff = weekday

	return nil
}

// Enabled は直結アダプタ用の設定が与えられているかを返します。
func (d DatabaseConfig) Enabled() bool {
	return d.Host != ""
}

func (d *DatabaseConfig) validateAndNormalize() error {
	if d.Port == 0 {
		return fmt.Errorf("config: database.port must be set")
	}
	if d.User == "" {
		return fmt.Errorf("config: database.user must be set")
	}
	if d.Password == "" {
		return fmt.Errorf("config: database.password must be set")
	}
	if d.Name == "" {
		return fmt.Errorf("config: database.name must be set")
	}
	if d.SSLMode == "" {
		d.SSLMode = "disable"
	}

	lifetime, err := parseDurationAllowEmpty(d.ConnMaxLifetimeRaw)
	if err != nil {
		return fmt.Errorf("config: database.conn_max_lifetime: %w", err)
	}
	d.ConnMaxLifetime = lifetime

	idleTime, err := parseDurationAllowEmpty(d.ConnMaxIdleTimeRaw)
	if err != nil {
		return fmt.Errorf("config: database.conn_max_idle_time: %w", err)
	}
	d.ConnMaxIdleTime = idleTime

	return nil
}

func parseWeekday(raw string) (time.Weekday, error) {
	for d := time.Sunday; d <= time.Saturday; d++ {
		if strings.EqualFold(raw, d.String()) {
			return d, nil
		}
	}
	return 0, fmt.Errorf("unknown weekday %q", raw)
}

func parseDurationAllowEmpty(raw string) (time.Duration, error) {
	if raw == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, err
	}
	return d, nil
}

// DSN は pgx 用の接続文字列を返します。資格情報は URL エスケープします。
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		url.QueryEscape(d.User), url.QueryEscape(d.Password), d.Host, d.Port, d.Name, d.SSLMode)
}
