// @title Campaign Voting API
// @version 1.0
// @description Coupon vote allocation and checkout for voting campaigns

// @securityDefinitions.apikey AdminToken
// @in header
// @name x-admin-token
package main

import (
	"os"
	"strings"

	"github.com/alex-pricope/campaign-voting/api"
	"github.com/alex-pricope/campaign-voting/logging"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

func main() {
	logging.BoostrapLogger()

	// .env is optional, real environment wins
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		logging.Log.Warnf("Failed to load .env file: %v", err)
	}

	// Load env
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		logging.Log.Errorf("Failed to read config file: %v", err)
		panic("Failed to read config file: " + err.Error())
	}

	// Read config
	config := api.ReadConfig()
	logging.SetLevel(config.LogLevel)

	// Start the service (inside the lambda)
	service := api.NewServer(config)
	service.Start()
}
