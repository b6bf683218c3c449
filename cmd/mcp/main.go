package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/emmett/voxset/internal/config"
	"github.com/emmett/voxset/internal/server/mcp"
)

var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
	GitBranch = "unknown"
)

var (
	configFile  = flag.String("config", "", "Path to configuration file (default: ~/.config/voxset/config.json)")
	basePath    = flag.String("base-path", "", "Dataset root (overrides config)")
	showVersion = flag.Bool("version", false, "Show version information")
)

func main() {
	flag.Parse()

	if *showVersion {
		fmt.Printf("voxset MCP v%s\n", Version)
		fmt.Printf("  Commit:  %s\n", GitCommit)
		fmt.Printf("  Branch:  %s\n", GitBranch)
		fmt.Printf("  Built:   %s\n", BuildTime)
		os.Exit(0)
	}

	cfg, err := config.LoadWithFallback(*configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Failed to load config: %v\n", err)
		cfg = config.DefaultConfig()
	}

	root := *basePath
	if root == "" {
		root = cfg.BasePath
	}
	if root == "" {
		fmt.Fprintln(os.Stderr, "Error: no dataset base path configured; set one with voxset --set-base-path")
		os.Exit(1)
	}

	server, err := mcp.NewServer(mcp.Config{
		ServerName:    "voxset",
		ServerVersion: Version,
		BasePath:      root,
		OpenAIModel:   cfg.OpenAIModel,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if err := server.Start(); err != nil {
		fmt.Fprintf(os.Stderr, "MCP server error: %v\n", err)
		os.Exit(1)
	}
}
