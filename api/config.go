package api

import (
	"sync"
	"time"

	"github.com/alex-pricope/campaign-voting/logging"
	"github.com/spf13/viper"
)

type Config struct {
	StorageConfig
	ServerConfig
	PaymentConfig
	CheckoutConfig
}

type StorageConfig struct {
	Backend             string
	DatabaseURL         string
	TableNameCandidates string
	TableNameCoupons    string
}

type ServerConfig struct {
	Port     int
	LogLevel string
}

type PaymentConfig struct {
	Endpoint string
	Timeout  time.Duration
}

type CheckoutConfig struct {
	SessionTTL time.Duration
}

var settingsOnce sync.Once

func ReadConfig() *Config {
	var conf = &Config{
		StorageConfig: StorageConfig{
			Backend:             getStringOrDefault("storage.backend", "memory"),
			DatabaseURL:         viper.GetString("storage.databaseURL"),
			TableNameCandidates: viper.GetString("storage.TableNameCandidates"),
			TableNameCoupons:    viper.GetString("storage.TableNameCoupons"),
		},
		ServerConfig: ServerConfig{
			Port:     getIntOrDefault("server.port", 8080),
			LogLevel: getStringOrDefault("server.logLevel", "debug"),
		},
		PaymentConfig: PaymentConfig{
			Endpoint: viper.GetString("payment.endpoint"),
			Timeout:  getDurationOrDefault("payment.timeout", 10*time.Second),
		},
		CheckoutConfig: CheckoutConfig{
			SessionTTL: getDurationOrDefault("checkout.sessionTTL", 30*time.Minute),
		},
	}

	settingsOnce.Do(func() {
		logging.Log.Print("Reading settings!")
	})

	return conf
}

func getIntOrDefault(name string, def int) int {
	if viper.IsSet(name) {
		v := viper.GetInt(name)
		logging.Log.Printf("found '%s' in viper", name)
		return v
	}
	logging.Log.Printf("could not find '%s' in viper! Returning default", name)
	return def
}

func getStringOrDefault(name string, def string) string {
	if viper.IsSet(name) {
		v := viper.GetString(name)
		logging.Log.Printf("found '%s' in viper", name)
		return v
	}
	logging.Log.Printf("could not find '%s' in viper! Returning default", name)
	return def
}

func getDurationOrDefault(name string, def time.Duration) time.Duration {
	if viper.IsSet(name) {
		v := viper.GetDuration(name)
		logging.Log.Printf("found '%s' in viper", name)
		return v
	}
	logging.Log.Printf("could not find '%s' in viper! Returning default", name)
	return def
}
