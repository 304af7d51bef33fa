package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// LoadENV loads environment variables from .env unless GO_ENV says otherwise
func LoadENV() error {
	goEnv := os.Getenv("GO_ENV")

	if goEnv == "" || goEnv == "development" {
		err := godotenv.Load()
		if err != nil {
			return err
		}
	}

	return nil
}

type EnviornmentVariable struct {
	GO_ENV string
	PORT   int
	// Dataset sources
	UNIVERSITIES_CSV string
	PROGRAMS_CSV     string
	// Redis Configuration
	REDIS_URL string
	// Inference (AI advisor) Configuration
	INFERENCE_API_KEY  string
	INFERENCE_BASE_URL string
	INFERENCE_MODEL    string
	// HTTP
	ALLOWED_ORIGINS string
}

func Get() (*EnviornmentVariable, error) {

	port, err := strconv.Atoi(os.Getenv("PORT"))
	if err != nil {
		port = 8080
	}

	// Dataset defaults match the repository layout shipped with the app
	unisCSV := os.Getenv("UNIVERSITIES_CSV")
	if unisCSV == "" {
		unisCSV = "data/universities.csv"
	}

	programsCSV := os.Getenv("PROGRAMS_CSV")
	if programsCSV == "" {
		programsCSV = "data/programs.csv"
	}

	envVariables := &EnviornmentVariable{
		GO_ENV:           os.Getenv("GO_ENV"),
		PORT:             port,
		UNIVERSITIES_CSV: unisCSV,
		PROGRAMS_CSV:     programsCSV,
		// Redis
		REDIS_URL: os.Getenv("REDIS_URL"),
		// Inference
		INFERENCE_API_KEY:  os.Getenv("INFERENCE_API_KEY"),
		INFERENCE_BASE_URL: os.Getenv("INFERENCE_BASE_URL"),
		INFERENCE_MODEL:    os.Getenv("INFERENCE_MODEL"),
		// HTTP
		ALLOWED_ORIGINS: os.Getenv("ALLOWED_ORIGINS"),
	}

	return envVariables, nil
}
