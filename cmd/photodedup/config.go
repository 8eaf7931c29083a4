package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"

	photodedup "github.com/anatolykoptev/go-photodedup"
)

type config struct {
	Dir         string
	Threshold   float64
	Workers     int
	MaxPhotos   int
	ContentHash bool
	ExactOnly   bool
	LogLevel    slog.Level
}

func getEnvOrDefault(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	valStr := os.Getenv(key)
	if valStr == "" {
		return defaultValue
	}
	val, err := strconv.Atoi(valStr)
	if err != nil || val <= 0 {
		slog.Warn("invalid integer in environment, using default", "key", key, "value", valStr, "default", defaultValue)
		return defaultValue
	}
	return val
}

func getEnvFloatOrDefault(key string, defaultValue float64) float64 {
	valStr := os.Getenv(key)
	if valStr == "" {
		return defaultValue
	}
	val, err := strconv.ParseFloat(valStr, 64)
	if err != nil {
		slog.Warn("invalid number in environment, using default", "key", key, "value", valStr, "default", defaultValue)
		return defaultValue
	}
	return val
}

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	valStr := os.Getenv(key)
	if valStr == "" {
		return defaultValue
	}
	val, err := strconv.ParseBool(valStr)
	if err != nil {
		slog.Warn("invalid boolean in environment, using default", "key", key, "value", valStr, "default", defaultValue)
		return defaultValue
	}
	return val
}

// loadConfig reads PHOTODEDUP_* variables, then lets flags override them.
func loadConfig(args []string, stderr io.Writer) (config, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(getEnvOrDefault("PHOTODEDUP_LOG_LEVEL", "info"))); err != nil {
		level = slog.LevelInfo
	}

	cfg := config{
		Dir:         getEnvOrDefault("PHOTODEDUP_DIR", ""),
		Threshold:   getEnvFloatOrDefault("PHOTODEDUP_THRESHOLD", photodedup.DefaultThreshold),
		Workers:     getEnvIntOrDefault("PHOTODEDUP_WORKERS", 0),
		MaxPhotos:   getEnvIntOrDefault("PHOTODEDUP_MAX_PHOTOS", photodedup.DefaultMaxPhotos),
		ContentHash: getEnvBoolOrDefault("PHOTODEDUP_CONTENT_HASH", false),
		ExactOnly:   getEnvBoolOrDefault("PHOTODEDUP_EXACT_ONLY", false),
		LogLevel:    level,
	}

	fs := flag.NewFlagSet("photodedup", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&cfg.Dir, "dir", cfg.Dir, "directory of photos to analyze (required)")
	fs.Float64Var(&cfg.Threshold, "threshold", cfg.Threshold, "perceptual similarity threshold in (0,1]")
	fs.IntVar(&cfg.Workers, "workers", cfg.Workers, "fingerprint workers (0 = number of CPUs)")
	fs.IntVar(&cfg.MaxPhotos, "max", cfg.MaxPhotos, "maximum number of photos to load")
	fs.BoolVar(&cfg.ContentHash, "content-hash", cfg.ContentHash, "also group byte-identical files")
	fs.BoolVar(&cfg.ExactOnly, "exact-only", cfg.ExactOnly, "skip perceptual analysis")
	fs.TextVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level (debug, info, warn, error)")
	if err := fs.Parse(args); err != nil {
		return config{}, err
	}

	if cfg.Dir == "" {
		if fs.NArg() == 0 {
			return config{}, errors.New("-dir is required")
		}
		cfg.Dir = fs.Arg(0)
	}
	if cfg.Threshold <= 0 || cfg.Threshold > 1 {
		return config{}, fmt.Errorf("threshold %v outside (0,1]", cfg.Threshold)
	}
	return cfg, nil
}
