// Package main is the webrag CLI entry point.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/busla/webrag/internal/cli"
	"github.com/busla/webrag/internal/config"
	"github.com/busla/webrag/internal/embedding"
	"github.com/busla/webrag/internal/extract"
	"github.com/busla/webrag/internal/mcp"
	"github.com/busla/webrag/internal/models"
	"github.com/busla/webrag/internal/ranking"
	"github.com/busla/webrag/internal/retrieval"
	"github.com/busla/webrag/internal/session"
	"github.com/busla/webrag/internal/websearch"
	"github.com/busla/webrag/pkg/utils"
	"go.uber.org/zap"
)

var version = "dev"

const defaultConfigPath = "/usr/local/etc/webrag/config.yaml"

// loadConfig loads config from path. When path is the default, it first looks
// for config.yaml in the current directory (for development); if that exists
// it is used, so that "webrag server" from the project dir uses the project's
// config. Returns the config and the path that was actually loaded.
func loadConfig(path string) (*config.Config, string, error) {
	if path == defaultConfigPath {
		if cwd, cwdErr := os.Getwd(); cwdErr == nil {
			fallback := filepath.Join(cwd, "config.yaml")
			if _, statErr := os.Stat(fallback); statErr == nil {
				cfg, loadErr := config.Load(fallback)
				if loadErr != nil {
					return nil, "", loadErr
				}
				return cfg, fallback, nil
			}
		}
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, "", err
	}
	return cfg, path, nil
}

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}
	command := os.Args[1]
	switch command {
	case "server":
		runServer()
	case "search":
		runSearch()
	case "version", "--version", "-v":
		fmt.Printf("webrag version %s\n", version)
	case "help", "--help", "-h":
		printUsage()
	default:
		fmt.Printf("Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func runServer() {
	fs := flag.NewFlagSet("server", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	debug := fs.Bool("debug", false, "enable debug logging")
	_ = fs.Parse(os.Args[2:])

	cfg, resolvedConfigPath, err := loadConfig(*configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}
	debugMode := cfg.Debug || *debug
	logger, err := utils.NewLogger(debugMode)
	if err != nil {
		fmt.Printf("Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("config loaded",
		zap.String("config_path", resolvedConfigPath),
		zap.Bool("debug", debugMode),
	)

	pipeline := buildPipeline(cfg, logger)

	sessions := session.Open(
		cfg.Session.DatabasePath,
		time.Duration(cfg.Session.TTLHours)*time.Hour,
		logger,
	)
	defer sessions.Close()

	srv := mcp.NewServer(
		mcp.DefaultRegistry(pipeline),
		sessions,
		cfg.Server.Host,
		cfg.Server.Port,
		version,
		logger,
	)

	watchCtx, watchCancel := context.WithCancel(context.Background())
	defer watchCancel()
	cfgWatcher := config.NewWatcher(resolvedConfigPath, func(next *config.Config) {
		// Credentials and retrieval knobs can change without a restart.
		// Server address changes still require one.
		logger.Info("applying reloaded config")
		pipeline.SetSearchClient(newSearchClient(next))
	}, logger)
	if err := cfgWatcher.Start(watchCtx); err != nil {
		logger.Warn("config watcher failed to start", zap.Error(err))
	}

	go func() {
		if err := srv.Start(); err != nil {
			logger.Fatal("Server failed", zap.Error(err))
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	logger.Info("Shutting down...")
	watchCancel()
	cfgWatcher.Stop()
	embedding.Reset()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Stop(ctx)
}

func runSearch() {
	fs := flag.NewFlagSet("search", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	numResults := fs.Int("num-results", 3, "number of search results to scrape (1-10)")
	dynamic := fs.Bool("dynamic", false, "render pages in a headless browser")
	rank := fs.Bool("rank", true, "rank scraped content and summarize it")
	chunkSize := fs.Int("chunk-size", 0, "chunk window size in characters (default from config)")
	outputFormat := fs.String("output", "text", "output format: text (human-readable) or json (parseable)")
	_ = fs.Parse(os.Args[2:])

	if fs.NArg() < 1 {
		fmt.Println("Usage: webrag search [flags] <query>")
		os.Exit(1)
	}
	queryStr := strings.TrimSpace(strings.Join(fs.Args(), " "))
	if queryStr == "" {
		fmt.Println("Usage: webrag search [flags] <query>")
		os.Exit(1)
	}

	format := cli.OutputText
	switch *outputFormat {
	case "json":
		format = cli.OutputJSON
	case "text":
		format = cli.OutputText
	default:
		fmt.Printf("Unknown output format %q; use text or json\n", *outputFormat)
		os.Exit(1)
	}

	cfg, _, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	logger, err := utils.NewLogger(cfg.Debug)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	pipeline := buildPipeline(cfg, logger)
	size := *chunkSize
	if size == 0 {
		size = cfg.Retrieval.ChunkSize
	}
	req := &models.SearchRequest{
		Query:                queryStr,
		NumResults:           *numResults,
		UseDynamicExtraction: *dynamic,
		UseRanking:           *rank,
		ChunkSize:            size,
	}

	doc, err := pipeline.Run(context.Background(), req)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Search failed: %v\n", err)
		os.Exit(1)
	}
	if err := cli.WriteSearchDocument(os.Stdout, doc, format); err != nil {
		fmt.Fprintf(os.Stderr, "Output failed: %v\n", err)
		os.Exit(1)
	}
}

func newSearchClient(cfg *config.Config) websearch.Client {
	opts := []websearch.GoogleOption{}
	if cfg.Search.Endpoint != "" {
		opts = append(opts, websearch.WithEndpoint(cfg.Search.Endpoint))
	}
	return websearch.NewGoogleClient(cfg.Search.APIKey, cfg.Search.SearchEngineID, opts...)
}

func buildPipeline(cfg *config.Config, logger *zap.Logger) *retrieval.Pipeline {
	extractOpts := []extract.Option{
		extract.WithMaxContentLength(cfg.Retrieval.MaxContentLength),
	}
	if renderer, err := extract.NewChromeRenderer(); err != nil {
		logger.Warn("headless browser unavailable, dynamic extraction degrades to static",
			zap.Error(err))
	} else {
		extractOpts = append(extractOpts, extract.WithRenderer(renderer))
	}
	adapter := extract.NewAdapter(logger, extractOpts...)

	ranker := ranking.NewRanker(ranking.DefaultProvider(embedding.ModelConfig{
		ModelPath:  cfg.Embedding.ModelPath,
		Dimensions: cfg.Embedding.Dimensions,
		MaxTokens:  cfg.Embedding.MaxTokens,
		CacheSize:  cfg.Embedding.CacheSize,
	}), logger)

	return retrieval.NewPipeline(
		newSearchClient(cfg),
		adapter,
		ranker,
		logger,
		retrieval.WithSummaryMaxLength(cfg.Retrieval.SummaryMaxLength),
		retrieval.WithTopK(cfg.Retrieval.TopK),
	)
}

func printUsage() {
	fmt.Println(`webrag - Web search and retrieval MCP server

Usage:
  webrag server [flags]           Start the MCP server
  webrag search [flags] <query>   Search the web and scrape results
  webrag version                  Show version
  webrag help                     Show this help

Server Flags:
  --config string    Config file path (default: /usr/local/etc/webrag/config.yaml)
  --debug            Enable debug logging

Search Flags:
  --config string       Config file path
  --num-results int     Number of search results to scrape, 1-10 (default: 3)
  --dynamic             Render pages in a headless browser
  --rank                Rank scraped content and summarize it (default: true)
  --chunk-size int      Chunk window size in characters (default from config)
  --output string       Output format: text or json (default: text)

Credentials are read from GOOGLE_API_KEY and GOOGLE_SEARCH_ENGINE_ID.

Examples:
  webrag server
  webrag search "golang context cancellation"
  webrag search --dynamic --num-results 5 react hooks tutorial
  webrag search --output json "query"   # structured JSON for other apps`)
}
