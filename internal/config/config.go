package config

import (
	"log"
	"os"
	"strconv"
)

type Config struct {
	Port     string
	DBDSN    string
	MediaDir string
	LogFile  string

	// Shipping policy knobs; defaults match the storefront promise of
	// free shipping above 600.
	FreeShippingAbove float64
	ShippingFlat      float64
}

func Load() Config {
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	dsn := os.Getenv("DB_DSN")
	if dsn == "" {
		dsn = "tattva.db"
	} // sqlite file in project root
	media := os.Getenv("MEDIA_DIR")
	if media == "" {
		media = "./web/media"
	}
	logFile := os.Getenv("LOG_FILE")
	if logFile == "" {
		logFile = "./tattva.log"
	}

	cfg := Config{
		Port:              port,
		DBDSN:             dsn,
		MediaDir:          media,
		LogFile:           logFile,
		FreeShippingAbove: envFloat("FREE_SHIPPING_ABOVE", 600),
		ShippingFlat:      envFloat("SHIPPING_FLAT", 50),
	}
	log.Printf("[config] PORT=%s DB_DSN=%s MEDIA_DIR=%s LOG_FILE=%s FREE_SHIPPING_ABOVE=%.0f SHIPPING_FLAT=%.0f",
		cfg.Port, cfg.DBDSN, cfg.MediaDir, cfg.LogFile, cfg.FreeShippingAbove, cfg.ShippingFlat)
	return cfg
}

func envFloat(key string, def float64) float64 {
	s := os.Getenv(key)
	if s == "" {
		return def
	}
	n, err := strconv.ParseFloat(s, 64)
	if err != nil || n < 0 {
		log.Printf("[config] ignoring bad %s=%q", key, s)
		return def
	}
	return n
}
