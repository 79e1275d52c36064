package main

import (
	"context"
	stderrors "errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/nanograph-ai/nanograph/client"
	"github.com/nanograph-ai/nanograph/completions"
	"github.com/nanograph-ai/nanograph/config"
	"github.com/nanograph-ai/nanograph/errors"
	"github.com/nanograph-ai/nanograph/logging"
)

var (
	configFile = flag.String("config", "nanograph.yaml", "Path to configuration file")
	validate   = flag.Bool("validate", false, "Validate configuration and exit")
	version    = flag.Bool("version", false, "Print version and exit")
)

const Version = "v0.1.0"

func main() {
	flag.Parse()

	if *version {
		fmt.Printf("nanograph %s\n", Version)
		os.Exit(0)
	}

	cfg, err := loadConfig(*configFile)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if *validate {
		fmt.Println("Configuration is valid")
		os.Exit(0)
	}

	prompt := strings.Join(flag.Args(), " ")
	if prompt == "" {
		log.Fatal("Usage: nanograph [flags] <prompt>")
	}

	logPath, err := config.Bootstrap(cfg.Cache)
	if err != nil {
		log.Printf("Cache bootstrap failed, continuing without log file: %v", err)
		logPath = ""
	}

	logger, err := logging.New(cfg.Logging, logPath)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck
	errors.SetLogger(logger)

	res, err := client.Get(cfg.Client, logger, prometheus.NewRegistry())
	if err != nil {
		log.Fatalf("Failed to initialize LLM client: %v", err)
	}

	proc, err := completions.NewProcessor(cfg, res, logger)
	if err != nil {
		log.Fatalf("Failed to create processor: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	resp, err := proc.Process(ctx, &completions.Request{Input: prompt})
	if err != nil {
		log.Fatalf("Completion failed: %v", err)
	}

	fmt.Println(resp.Content)
}

// loadConfig falls back to defaults when the default config file is
// absent; an explicitly provided path must exist.
func loadConfig(path string) (*config.Config, error) {
	cfg, err := config.LoadFile(path)
	if err != nil && path == "nanograph.yaml" && os.IsNotExist(underlying(err)) {
		return config.DefaultConfig(), nil
	}
	return cfg, err
}

func underlying(err error) error {
	var nerr *errors.NanographError
	if stderrors.As(err, &nerr) && nerr.Unwrap() != nil {
		return nerr.Unwrap()
	}
	return err
}
