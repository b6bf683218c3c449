// Package mcp exposes the dataset over the Model Context Protocol so
// external tools can inspect samples and request narration text.
package mcp

import (
	"context"
	"fmt"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/emmett/voxset/internal/config"
	"github.com/emmett/voxset/internal/dataset"
	"github.com/emmett/voxset/internal/narrate"
)

type Config struct {
	ServerName    string
	ServerVersion string
	BasePath      string
	OpenAIModel   string
}

type Server struct {
	config    Config
	mcpServer *sdk.Server
	store     *dataset.Store
	generator *narrate.Generator
}

func NewServer(cfg Config) (*Server, error) {
	s := &Server{
		config: cfg,
	}

	store, err := dataset.NewStore(cfg.BasePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open dataset: %w", err)
	}
	s.store = store

	// Narration is optional: without a stored credential the server
	// still serves the dataset tools.
	if key, err := config.APIKey(); err == nil && key != "" {
		s.generator = narrate.NewGenerator(key, cfg.OpenAIModel)
	}

	s.mcpServer = sdk.NewServer(&sdk.Implementation{
		Name:    cfg.ServerName,
		Version: cfg.ServerVersion,
	}, nil)

	s.registerTools()

	return s, nil
}

func (s *Server) Start() error {
	return s.mcpServer.Run(context.Background(), &sdk.StdioTransport{})
}

func (s *Server) registerTools() {
	sdk.AddTool(s.mcpServer, &sdk.Tool{
		Name:        "dataset_stats",
		Description: "Report the total sample count and recorded minutes of the dataset",
	}, s.handleDatasetStats)

	sdk.AddTool(s.mcpServer, &sdk.Tool{
		Name:        "list_samples",
		Description: "List every sample with its text, duration and artifact flags",
	}, s.handleListSamples)

	sdk.AddTool(s.mcpServer, &sdk.Tool{
		Name:        "get_sample",
		Description: "Get one sample's text, metadata and artifact state by number",
	}, s.handleGetSample)

	sdk.AddTool(s.mcpServer, &sdk.Tool{
		Name:        "delete_sample",
		Description: "Delete a sample and renumber the rest to keep numbers contiguous",
	}, s.handleDeleteSample)

	sdk.AddTool(s.mcpServer, &sdk.Tool{
		Name:        "generate_text",
		Description: "Generate narration text for a target duration, pace and style",
	}, s.handleGenerateText)
}
