package app

import (
	"errors"
	"fmt"
	"os"

	"github.com/bosala-platform/bosala-api/api"
	"github.com/bosala-platform/bosala-api/config"
	"github.com/bosala-platform/bosala-api/dataset"
	"github.com/bosala-platform/bosala-api/router"
	"github.com/bosala-platform/bosala-api/services/cron"
)

func SetupAndRunServer() error {

	// Load ENV
	if err := config.LoadENV(); err != nil {
		return err
	}

	getEnv, err := config.Get()
	if err != nil {
		return err
	}

	// Initialize the dataset store and warm-load the tables. The
	// universities table is required; the programs table only degrades
	// program views when absent.
	store := dataset.NewStore(getEnv.UNIVERSITIES_CSV, getEnv.PROGRAMS_CSV)

	uniErr, programErr := store.Refresh()
	if uniErr != nil {
		print("Universities table could not be loaded\n")
		print("Expected a CSV at: ", getEnv.UNIVERSITIES_CSV, "\n")
		return uniErr
	}
	if programErr != nil && !errors.Is(programErr, dataset.ErrSourceNotFound) {
		print("Warning: programs table unusable: ", programErr.Error(), "\n")
	}

	// Periodic dataset freshness jobs (enabled by default)
	var cronManager *cron.CronManager
	if os.Getenv("CRON_ENABLED") != "false" {
		cronManager = cron.NewCronManager(store)
		if err := cronManager.Start(); err != nil {
			print("Warning: Failed to start cron jobs\n")
			print("Error: ", err.Error(), "\n")
			// Don't fail the app, just log the warning
		}
	}

	defer func() {
		if cronManager != nil {
			cronManager.Stop()
		}
	}()

	// Init API
	var server *api.APIServer = api.NewAPIServer(fmt.Sprintf(":%d", getEnv.PORT))
	app := server.GetEngine()

	// Setup Routes (middleware is attached inside)
	router.SetupRoutes(app, getEnv, store)

	// Get the PORT & Start the Server
	return server.Run()
}
