package config

import (
	"fmt"
	"os"
	"strconv"

	"pilesheet/internal/logger"
)

// Ordering policies for multi-page merge. Time sort is more semantically
// correct when recognition is reliable; document order is robust to digit
// misreads in the time column. See merge.Policy.
const (
	OrderByDocument = "document"
	OrderByTime     = "time"
)

// Supported OCR engines.
const (
	EngineVision     = "vision"
	EngineDocumentAI = "documentai"
	EngineTesseract  = "tesseract"
)

type Config struct {
	// Extraction geometry (pixels at the engine's working resolution)
	RowYThreshold float64 // max |y - row reference y| for row membership
	HeaderMaxY    float64 // header band: detections above this y feed header regexes
	TableMinY     float64 // table band: detections below this y feed row clustering

	// Numeric acceptance ranges
	PressureMax float64 // kg/cm², jack operating range
	GaugeMax    float64 // mm, dial gauge range

	// Multi-page merge
	Ordering string // "document" or "time"

	// OCR engine selection
	Engine            string
	TesseractLanguage string

	// Google Document AI (engine "documentai" only)
	GoogleCloudProject    string
	GoogleCloudLocation   string
	DocumentAIProcessorID string

	// Sheet template calibration file (optional; built-in default when empty)
	TemplatePath string

	// Logging Configuration
	LogLevel      string
	LogFormat     string
	LogTimeFormat string
	LogOutput     string
}

func Load() (*Config, error) {
	config := &Config{
		RowYThreshold:         getEnvFloat("PILESHEET_ROW_Y_THRESHOLD", 25),
		HeaderMaxY:            getEnvFloat("PILESHEET_HEADER_MAX_Y", 300),
		TableMinY:             getEnvFloat("PILESHEET_TABLE_MIN_Y", 200),
		PressureMax:           getEnvFloat("PILESHEET_PRESSURE_MAX", 300),
		GaugeMax:              getEnvFloat("PILESHEET_GAUGE_MAX", 50),
		Ordering:              getEnv("PILESHEET_ORDERING", OrderByDocument),
		Engine:                getEnv("PILESHEET_ENGINE", EngineVision),
		TesseractLanguage:     getEnv("PILESHEET_TESSERACT_LANG", "eng"),
		GoogleCloudProject:    getEnv("GOOGLE_CLOUD_PROJECT", ""),
		GoogleCloudLocation:   getEnv("GOOGLE_CLOUD_LOCATION", "us"),
		DocumentAIProcessorID: getEnv("DOCUMENT_AI_PROCESSOR_ID", ""),
		TemplatePath:          getEnv("PILESHEET_TEMPLATE", ""),
		LogLevel:              getEnv("LOG_LEVEL", "info"),
		LogFormat:             getEnv("LOG_FORMAT", "console"),
		LogTimeFormat:         getEnv("LOG_TIME_FORMAT", "2006-01-02T15:04:05Z07:00"),
		LogOutput:             getEnv("LOG_OUTPUT", "stdout"),
	}

	if err := config.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return config, nil
}

func (c *Config) validate() error {
	if c.RowYThreshold <= 0 {
		return fmt.Errorf("PILESHEET_ROW_Y_THRESHOLD must be positive")
	}
	if c.Ordering != OrderByDocument && c.Ordering != OrderByTime {
		return fmt.Errorf("PILESHEET_ORDERING must be %q or %q", OrderByDocument, OrderByTime)
	}
	switch c.Engine {
	case EngineVision, EngineTesseract:
	case EngineDocumentAI:
		if c.GoogleCloudProject == "" {
			return fmt.Errorf("GOOGLE_CLOUD_PROJECT is required for the documentai engine")
		}
		if c.DocumentAIProcessorID == "" {
			return fmt.Errorf("DOCUMENT_AI_PROCESSOR_ID is required for the documentai engine")
		}
	default:
		return fmt.Errorf("PILESHEET_ENGINE must be one of %q, %q, %q",
			EngineVision, EngineDocumentAI, EngineTesseract)
	}
	return nil
}

// GetLoggerConfig returns a logger configuration from the main config
func (c *Config) GetLoggerConfig() logger.LogConfig {
	return logger.LogConfig{
		Level:      c.LogLevel,
		Format:     c.LogFormat,
		TimeFormat: c.LogTimeFormat,
		Output:     c.LogOutput,
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}
