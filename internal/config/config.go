package config

import (
	"net"
	"os"
	"strconv"
	"strings"
)

// Converter backend selection
const (
	BackendAuto    = "auto"
	BackendPandoc  = "pandoc"
	BackendBuiltin = "builtin"
)

type Config struct {
	Host        string
	Port        string
	Environment string
	CORSOrigins string
	// Converter configuration
	PandocPath       string
	ConverterBackend string // auto, pandoc or builtin
	PDFEngine        string
	PDFMargin        string
	FormatsFile      string // Optional YAML overriding the embedded format table
	SanitizeHTML     bool   // Builtin backend only
	// Filesystem
	TempDirPrefix string
	LogDir        string // Empty = stdout only
	LogMaxFiles   int
}

func Load() *Config {
	return &Config{
		Host:             getEnv("HOST", "0.0.0.0"),
		Port:             getEnv("PORT", "5001"),
		Environment:      getEnv("ENVIRONMENT", "dev"),
		CORSOrigins:      getEnv("CORS_ORIGINS", "*"),
		PandocPath:       getEnv("PANDOC_PATH", "pandoc"),
		ConverterBackend: strings.ToLower(getEnv("CONVERTER_BACKEND", BackendAuto)),
		PDFEngine:        getEnv("PDF_ENGINE", "xelatex"),
		PDFMargin:        getEnv("PDF_MARGIN", "1in"),
		FormatsFile:      getEnv("FORMATS_FILE", ""),
		SanitizeHTML:     getEnv("SANITIZE_HTML", "true") == "true",
		TempDirPrefix:    getEnv("TEMP_DIR_PREFIX", "pandoc_host_"),
		LogDir:           getEnv("LOG_DIR", ""),
		LogMaxFiles:      getEnvInt("LOG_MAX_FILES", 10),
	}
}

// Addr returns the listen address for the HTTP server
func (c *Config) Addr() string {
	return net.JoinHostPort(c.Host, c.Port)
}

// CORSOriginList splits CORSOrigins on commas, dropping empty entries
func (c *Config) CORSOriginList() []string {
	var origins []string
	for _, o := range strings.Split(c.CORSOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil || n <= 0 {
		return defaultValue
	}
	return n
}
