package mcp

import (
	"context"
	"errors"
	"fmt"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/emmett/voxset/internal/dataset"
	"github.com/emmett/voxset/internal/narrate"
)

type DatasetStatsArgs struct{}

type ListSamplesArgs struct{}

type SampleNumberArgs struct {
	Number int `json:"number" jsonschema:"required,description=Sample number (1-based)"`
}

type GenerateTextArgs struct {
	DurationMinutes float64  `json:"duration_minutes" jsonschema:"required,description=Target reading duration in minutes"`
	WPM             int      `json:"wpm,omitempty" jsonschema:"description=Words per minute (default: 150)"`
	Style           string   `json:"style,omitempty" jsonschema:"description=One of: General Purpose, Colloquial, Voice Note, Technical, Prose"`
	Vocabulary      []string `json:"vocabulary,omitempty" jsonschema:"description=Words to weave into the text"`
}

func (s *Server) handleDatasetStats(ctx context.Context, req *sdk.CallToolRequest, args DatasetStatsArgs) (*sdk.CallToolResult, any, error) {
	total := s.store.TotalSamples()
	minutes := s.store.EstimateTotalDuration()

	return &sdk.CallToolResult{
		Content: []sdk.Content{
			&sdk.TextContent{Text: fmt.Sprintf("%d sample(s), %.1f minute(s) recorded at %s", total, minutes, s.store.BasePath())},
		},
	}, nil, nil
}

func (s *Server) handleListSamples(ctx context.Context, req *sdk.CallToolRequest, args ListSamplesArgs) (*sdk.CallToolResult, any, error) {
	samples, err := s.store.AllSamples()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list samples: %w", err)
	}

	content := []sdk.Content{
		&sdk.TextContent{Text: fmt.Sprintf("Samples (%d):", len(samples))},
	}
	for _, sample := range samples {
		content = append(content, &sdk.TextContent{
			Text: fmt.Sprintf("- %03d: %.1fs, %d chars", sample.Number, sample.DurationSeconds, sample.TextLength),
		})
	}

	return &sdk.CallToolResult{Content: content}, nil, nil
}

func (s *Server) handleGetSample(ctx context.Context, req *sdk.CallToolRequest, args SampleNumberArgs) (*sdk.CallToolResult, any, error) {
	info, err := s.store.SampleInfo(args.Number)
	if err != nil {
		if errors.Is(err, dataset.ErrSampleNotFound) {
			return nil, nil, fmt.Errorf("sample %d does not exist", args.Number)
		}
		return nil, nil, err
	}

	content := []sdk.Content{
		&sdk.TextContent{Text: fmt.Sprintf("Sample %03d (audio: %v, text: %v, metadata: %v)",
			info.Number, info.HasAudio, info.HasText, info.HasMetadata)},
	}
	if info.HasText {
		content = append(content, &sdk.TextContent{Text: info.Text})
	}
	if info.Metadata != nil {
		content = append(content, &sdk.TextContent{Text: fmt.Sprintf("Recorded at %s", info.Metadata.Timestamp)})
	}

	return &sdk.CallToolResult{Content: content}, nil, nil
}

func (s *Server) handleDeleteSample(ctx context.Context, req *sdk.CallToolRequest, args SampleNumberArgs) (*sdk.CallToolResult, any, error) {
	if err := s.store.Delete(args.Number); err != nil {
		if errors.Is(err, dataset.ErrSampleNotFound) {
			return nil, nil, fmt.Errorf("sample %d does not exist", args.Number)
		}
		return nil, nil, fmt.Errorf("failed to delete sample: %w", err)
	}

	return &sdk.CallToolResult{
		Content: []sdk.Content{
			&sdk.TextContent{Text: fmt.Sprintf("Deleted sample %d; %d sample(s) remain", args.Number, s.store.TotalSamples())},
		},
	}, nil, nil
}

func (s *Server) handleGenerateText(ctx context.Context, req *sdk.CallToolRequest, args GenerateTextArgs) (*sdk.CallToolResult, any, error) {
	if s.generator == nil {
		return nil, nil, fmt.Errorf("no API key configured; store one with voxset --set-api-key")
	}

	wpm := args.WPM
	if wpm == 0 {
		wpm = 150
	}
	style := narrate.StyleGeneralPurpose
	if args.Style != "" {
		parsed, err := narrate.ParseStyle(args.Style)
		if err != nil {
			return nil, nil, err
		}
		style = parsed
	}

	text, err := s.generator.Generate(ctx, narrate.Request{
		DurationMinutes: args.DurationMinutes,
		WPM:             wpm,
		Style:           style,
		Vocabulary:      args.Vocabulary,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("generation failed: %w", err)
	}

	return &sdk.CallToolResult{
		Content: []sdk.Content{
			&sdk.TextContent{Text: text},
		},
	}, nil, nil
}
