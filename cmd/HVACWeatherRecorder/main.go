package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

// @title HVAC Weather Recorder API
// @version 1.0
// @description Records current NWS observations for US zip codes
// @host localhost:8080
// @BasePath /api
func main() {
	if err := godotenv.Load(".env"); err != nil {
		fmt.Fprintf(os.Stderr, "no .env file loaded: %v\n", err)
	}

	if err := Execute(); err != nil {
		var exit *exitError
		if errors.As(err, &exit) {
			os.Exit(exit.code)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
