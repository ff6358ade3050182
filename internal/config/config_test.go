package config

import (
	"strings"
	"testing"
	"time"

	"github.com/JonMunkholm/StandardsTable/internal/core"
	"github.com/JonMunkholm/StandardsTable/internal/theme"
)

// env returns a LookupFunc backed by a map.
func env(vars map[string]string) LookupFunc {
	return func(key string) (string, bool) {
		v, ok := vars[key]
		return v, ok
	}
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := LoadFrom(env(nil))
	if err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}

	if cfg.Server.Host != "0.0.0.0" {
		t.Errorf("Server.Host = %q, want %q", cfg.Server.Host, "0.0.0.0")
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("Server.Port = %d, want %d", cfg.Server.Port, 8080)
	}
	if cfg.Dataset.Source() != "embedded" {
		t.Errorf("Dataset.Source() = %q, want embedded", cfg.Dataset.Source())
	}
	if cfg.Dataset.Table != "standards" {
		t.Errorf("Dataset.Table = %q, want standards", cfg.Dataset.Table)
	}
	if cfg.View.IdleTTL != 2*time.Hour {
		t.Errorf("View.IdleTTL = %v, want 2h", cfg.View.IdleTTL)
	}
	if cfg.View.MaxViews != 10000 {
		t.Errorf("View.MaxViews = %d, want 10000", cfg.View.MaxViews)
	}
	if cfg.Export.CSVMode != "quoted" {
		t.Errorf("Export.CSVMode = %q, want quoted", cfg.Export.CSVMode)
	}
	if cfg.Search.Matcher != "substring" {
		t.Errorf("Search.Matcher = %q, want substring", cfg.Search.Matcher)
	}
	if cfg.Theme.DefaultMode != "dark" {
		t.Errorf("Theme.DefaultMode = %q, want dark", cfg.Theme.DefaultMode)
	}
	if cfg.Rate.RequestsPerMinute != 300 {
		t.Errorf("Rate.RequestsPerMinute = %d, want %d", cfg.Rate.RequestsPerMinute, 300)
	}
	if cfg.Security.RequireAPIKey {
		t.Error("Security.RequireAPIKey should default to false")
	}
}

func TestLoad_OverrideDefaults(t *testing.T) {
	cfg, err := LoadFrom(env(map[string]string{
		"SERVER_PORT":        "9090",
		"EXPORT_CSV_MODE":    "literal",
		"SEARCH_MATCHER":     "words",
		"THEME_DEFAULT_MODE": "light",
		"LOG_LEVEL":          "debug",
	}))
	if err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}

	if cfg.Server.Port != 9090 {
		t.Errorf("Server.Port = %d, want %d", cfg.Server.Port, 9090)
	}
	if cfg.Export.CSVMode != "literal" {
		t.Errorf("Export.CSVMode = %q, want literal", cfg.Export.CSVMode)
	}
	if cfg.Search.Matcher != "words" {
		t.Errorf("Search.Matcher = %q, want words", cfg.Search.Matcher)
	}
	if cfg.Theme.DefaultMode != "light" {
		t.Errorf("Theme.DefaultMode = %q, want light", cfg.Theme.DefaultMode)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %q, want %q", cfg.Logging.Level, "debug")
	}
}

func TestLoad_ProcessEnvironment(t *testing.T) {
	t.Setenv("SERVER_PORT", "7070")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Server.Port != 7070 {
		t.Errorf("Server.Port = %d, want 7070", cfg.Server.Port)
	}
}

func TestMustLoad_PanicsOnInvalidConfig(t *testing.T) {
	t.Setenv("SERVER_PORT", "70000")

	defer func() {
		r := recover()
		if r == nil {
			t.Fatal("MustLoad() did not panic")
		}
		if msg, _ := r.(string); !strings.Contains(msg, "SERVER_PORT") {
			t.Errorf("panic = %v, want mention of SERVER_PORT", r)
		}
	}()
	MustLoad()
}

func TestLoad_AltEnvVar(t *testing.T) {
	cfg, err := LoadFrom(env(map[string]string{"DB_URL": "postgres://localhost/alttest"}))
	if err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}

	if cfg.Dataset.DatabaseURL != "postgres://localhost/alttest" {
		t.Errorf("Dataset.DatabaseURL = %q, want %q", cfg.Dataset.DatabaseURL, "postgres://localhost/alttest")
	}
	if cfg.Dataset.Source() != "postgres" {
		t.Errorf("Dataset.Source() = %q, want postgres", cfg.Dataset.Source())
	}
}

func TestDatasetConfig_PathWinsOverDatabase(t *testing.T) {
	c := DatasetConfig{Path: "data.yaml", DatabaseURL: "postgres://localhost/x"}
	if c.Source() != "file" {
		t.Errorf("Source() = %q, want file", c.Source())
	}
}

func TestLoad_Duration(t *testing.T) {
	cfg, err := LoadFrom(env(map[string]string{
		"SERVER_READ_TIMEOUT": "45s",
		"VIEW_IDLE_TTL":       "1h30m",
	}))
	if err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}

	if cfg.Server.ReadTimeout != 45*time.Second {
		t.Errorf("Server.ReadTimeout = %v, want %v", cfg.Server.ReadTimeout, 45*time.Second)
	}
	if cfg.View.IdleTTL != 90*time.Minute {
		t.Errorf("View.IdleTTL = %v, want %v", cfg.View.IdleTTL, 90*time.Minute)
	}
}

func TestLoad_CommaSeparatedSlice(t *testing.T) {
	cfg, err := LoadFrom(env(map[string]string{
		"TRUSTED_PROXIES": "10.0.0.0/8, 172.16.0.0/12 , ,192.168.0.0/16",
	}))
	if err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}

	expected := []string{"10.0.0.0/8", "172.16.0.0/12", "192.168.0.0/16"}
	if len(cfg.Security.TrustedProxies) != len(expected) {
		t.Fatalf("TrustedProxies = %v, want %v", cfg.Security.TrustedProxies, expected)
	}
	for i, v := range expected {
		if cfg.Security.TrustedProxies[i] != v {
			t.Errorf("TrustedProxies[%d] = %q, want %q", i, cfg.Security.TrustedProxies[i], v)
		}
	}
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := []struct {
		name string
		vars map[string]string
		want string
	}{
		{"bad integer", map[string]string{"SERVER_PORT": "eighty"}, "SERVER_PORT"},
		{"bad duration", map[string]string{"VIEW_IDLE_TTL": "soon"}, "VIEW_IDLE_TTL"},
		{"bad bool", map[string]string{"REQUIRE_API_KEY": "maybe"}, "REQUIRE_API_KEY"},
		{"unknown export mode", map[string]string{"EXPORT_CSV_MODE": "tsv"}, "EXPORT_CSV_MODE"},
		{"unknown matcher", map[string]string{"SEARCH_MATCHER": "fuzzy"}, "SEARCH_MATCHER"},
		{"unknown theme", map[string]string{"THEME_DEFAULT_MODE": "sepia"}, "THEME_DEFAULT_MODE"},
		{"unsupported dataset file", map[string]string{"DATASET_PATH": "records.xlsx"}, "DATASET_PATH"},
		{"api key required without keys", map[string]string{"REQUIRE_API_KEY": "true"}, "API_KEYS"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadFrom(env(tt.vars))
			if err == nil {
				t.Fatal("LoadFrom() expected error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error = %v, want mention of %s", err, tt.want)
			}
		})
	}
}

func validConfig() *Config {
	return &Config{
		Server:  ServerConfig{Port: 8080, ShutdownTimeout: time.Second, RequestTimeout: time.Second},
		Dataset: DatasetConfig{Table: "standards"},
		View:    ViewConfig{IdleTTL: time.Hour, SweepInterval: time.Minute, MaxViews: 10},
		Export:  ExportConfig{CSVMode: "quoted"},
		Search:  SearchConfig{Matcher: "substring"},
		Theme:   ThemeConfig{DefaultMode: "dark"},
		Rate:    RateLimitConfig{Enabled: true, RequestsPerMinute: 100, ExportLimit: 10},
		Logging: LoggingConfig{Level: "info", Format: "text"},
	}
}

func TestValidate_InvalidPort(t *testing.T) {
	cfg := validConfig()
	cfg.Server.Port = 99999

	err := cfg.Validate()
	if err == nil {
		t.Fatal("Validate() expected error for invalid port")
	}
	if !strings.Contains(err.Error(), "SERVER_PORT") {
		t.Errorf("error = %v, want mention of SERVER_PORT", err)
	}
}

func TestValidate_PoolOnlyCheckedForPostgres(t *testing.T) {
	cfg := validConfig()
	cfg.Dataset.MaxConns = 0

	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() error = %v, pool settings should be ignored without DATABASE_URL", err)
	}

	cfg.Dataset.DatabaseURL = "postgres://localhost/test"
	cfg.Dataset.LoadTimeout = time.Second
	if err := cfg.Validate(); err == nil || !strings.Contains(err.Error(), "DB_MAX_CONNS") {
		t.Errorf("Validate() error = %v, want DB_MAX_CONNS failure", err)
	}
}

func TestValidate_ReportsAllFailures(t *testing.T) {
	cfg := validConfig()
	cfg.View.MaxViews = 0
	cfg.Logging.Format = "xml"

	err := cfg.Validate()
	if err == nil {
		t.Fatal("Validate() expected error")
	}
	for _, want := range []string{"VIEW_MAX", "LOG_FORMAT"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error = %v, missing %s", err, want)
		}
	}
}

func TestConfig_StringMasksSecrets(t *testing.T) {
	cfg := validConfig()
	cfg.Dataset.DatabaseURL = "postgres://user:secret@db/standards"
	cfg.Security.APIKeys = []string{"key-123"}

	s := cfg.String()
	if strings.Contains(s, "secret") || strings.Contains(s, "key-123") {
		t.Errorf("String() leaked a secret: %s", s)
	}
	if !strings.Contains(s, "[MASKED]") {
		t.Errorf("String() = %s, want masked database URL", s)
	}
}

func TestServerConfig_Addr(t *testing.T) {
	tests := []struct {
		host string
		port int
		want string
	}{
		{"0.0.0.0", 8080, "0.0.0.0:8080"},
		{"", 9000, ":9000"},
		{"::1", 8080, "[::1]:8080"},
	}
	for _, tt := range tests {
		c := ServerConfig{Host: tt.host, Port: tt.port}
		if got := c.Addr(); got != tt.want {
			t.Errorf("Addr() = %q, want %q", got, tt.want)
		}
	}
}

func TestDatasetConfig_Loader(t *testing.T) {
	cfg, err := LoadFrom(env(map[string]string{
		"DB_URL":               "postgres://u:p@db/standards",
		"DATASET_TABLE":        "catalog.standards",
		"DATASET_LOAD_TIMEOUT": "5s",
		"DB_MAX_CONNS":         "2",
	}))
	if err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}

	src := cfg.Dataset.Loader()
	if src.Kind() != "postgres" {
		t.Errorf("Kind() = %q, want postgres", src.Kind())
	}
	if src.Postgres.URL != "postgres://u:p@db/standards" || src.Postgres.MaxConns != 2 {
		t.Errorf("Postgres = %+v", src.Postgres)
	}
	if src.Table != "catalog.standards" || src.LoadTimeout != 5*time.Second {
		t.Errorf("Table = %q, LoadTimeout = %v", src.Table, src.LoadTimeout)
	}
}

func TestConfig_Service(t *testing.T) {
	cfg, err := LoadFrom(env(map[string]string{
		"EXPORT_CSV_MODE":    "literal",
		"SEARCH_MATCHER":     "words",
		"THEME_DEFAULT_MODE": "Light",
		"VIEW_MAX":           "50",
	}))
	if err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}

	sc := cfg.Service()
	if sc.ExportMode != core.ExportLiteral {
		t.Errorf("ExportMode = %q, want literal", sc.ExportMode)
	}
	if sc.Matcher != "words" {
		t.Errorf("Matcher = %q, want words", sc.Matcher)
	}
	if sc.DefaultTheme != theme.Light {
		t.Errorf("DefaultTheme = %q, want light", sc.DefaultTheme)
	}
	if sc.Views.MaxViews != 50 || sc.Views.IdleTTL != 2*time.Hour {
		t.Errorf("Views = %+v", sc.Views)
	}
}
