package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/joho/godotenv"
	"github.com/reaandrew/a11ygrade/config"
	"github.com/reaandrew/a11ygrade/server"
	log "github.com/sirupsen/logrus"
)

// SsmParameterEnv names an SSM parameter holding a YAML config document.
const SsmParameterEnv = "A11Y_CONFIG_SSM_PARAMETER"

var Version string

func setupLogging(cfg config.Config) {
	log.SetFormatter(&log.TextFormatter{
		FullTimestamp: true,
	})

	level, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = log.InfoLevel
	}
	log.SetLevel(level)

	if cfg.LogFile == "" {
		log.SetOutput(os.Stderr)
		return
	}
	logFile, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Failed to open log file:", err)
		log.SetOutput(os.Stderr)
		return
	}
	log.SetOutput(logFile)
}

// loadConfiguration layers defaults, the config file, an optional SSM
// document and the environment, in that order.
func loadConfiguration(ctx context.Context, path string) (config.Config, error) {
	cfg, err := config.LoadConfig(path)
	if err != nil {
		return cfg, err
	}

	if name := os.Getenv(SsmParameterEnv); name != "" {
		store, err := config.NewParameterStore(ctx)
		if err != nil {
			return cfg, err
		}
		if err := config.LoadFromSSM(ctx, store, name, &cfg); err != nil {
			return cfg, err
		}
	}

	cfg.ApplyEnv()
	return cfg, nil
}

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		fmt.Fprintln(os.Stderr, "Failed to load .env:", err)
	}

	if _, exists := os.LookupEnv("AWS_LAMBDA_FUNCTION_NAME"); exists {
		cfg, err := loadConfiguration(context.Background(), "")
		if err != nil {
			fmt.Fprintln(os.Stderr, "Failed to load configuration:", err)
			os.Exit(1)
		}
		cfg.LogFile = ""
		setupLogging(cfg)

		log.Info("Starting in Lambda mode")
		handler := LambdaHandler{Auditor: server.NewAuditor(cfg.Server.MaxRequestBytes)}
		lambda.Start(handler.Handle)
		return
	}

	cli := NewCli(os.Stdout)
	if err := cli.Execute(); err != nil {
		if errors.Is(err, ErrIssuesFound) {
			os.Exit(1)
		}
		fmt.Fprintln(os.Stderr, "Error:", err)
		log.Fatalf("Error executing command: %v", err)
	}
}
