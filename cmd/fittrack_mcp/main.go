// Package main runs the fittrack MCP server over stdio for one user.
// The backend mounts the same tools at /mcp over HTTP, scoped by the auth token.
package main

import (
	"context"
	"flag"

	"github.com/2beens/fittrack/internal/auth"
	"github.com/2beens/fittrack/internal/config"
	"github.com/2beens/fittrack/internal/db"
	"github.com/2beens/fittrack/internal/history"
	fitmcp "github.com/2beens/fittrack/internal/mcp"
	"github.com/2beens/fittrack/internal/progress"
	"github.com/2beens/fittrack/internal/workouts"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	log "github.com/sirupsen/logrus"
)

func main() {
	env := flag.String("env", "development", "environment [prod | production | dev | development]")
	configPath := flag.String("config", "./config.toml", "path to TOML config file")
	userEmail := flag.String("user-email", "", "email of the user whose data the tools read")
	flag.Parse()

	// stdout carries the protocol, logrus writes to stderr
	log.SetLevel(log.WarnLevel)

	if *userEmail == "" {
		log.Fatal("-user-email is required")
	}

	cfg, err := config.Load(*env, *configPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	secrets, err := config.LoadSecrets()
	if err != nil {
		log.Fatalf("load secrets: %v", err)
	}

	ctx := context.Background()
	dbPool, err := db.NewDBPool(ctx, db.NewDBPoolParams{
		DBHost:     cfg.PostgresHost,
		DBPort:     cfg.PostgresPort,
		DBName:     cfg.PostgresDBName,
		DBUser:     cfg.PostgresUser,
		DBPassword: secrets.DBPassword,
		SSLMode:    cfg.PostgresSSL,
	})
	if err != nil {
		log.Fatalf("db pool: %v", err)
	}
	defer dbPool.Close()

	user, err := auth.NewUsersRepo(dbPool).GetByEmail(ctx, auth.NormalizeEmail(*userEmail))
	if err != nil {
		log.Fatalf("find user [%s]: %v", *userEmail, err)
	}

	reportCache := progress.NewCache(progress.DefaultCacheSize, progress.DefaultCacheTTL)
	workoutsRepo := workouts.NewRepo(dbPool)
	historyRepo := history.NewRepo(dbPool)
	service := fitmcp.NewContextService(
		fitmcp.NewPoolSchemaRepo(dbPool),
		workouts.NewService(workoutsRepo, reportCache),
		history.NewReader(historyRepo, reportCache),
		progress.NewReporter(historyRepo, workoutsRepo, reportCache),
	)

	server := fitmcp.NewServer(service, user.ID)
	if err := server.Run(ctx, &mcp.StdioTransport{}); err != nil {
		log.Fatal(err)
	}
}
