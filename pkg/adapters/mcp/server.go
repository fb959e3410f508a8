package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/aretw0/lifecycle"
	"github.com/aretw0/upskill"
	"github.com/aretw0/upskill/pkg/catalog"
	"github.com/aretw0/upskill/pkg/domain"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// CatalogURI is the resource exposing the assessment catalog.
const CatalogURI = "upskill://catalog"

// Engine is the part of the assessment engine the MCP tools need.
type Engine interface {
	Catalog() *catalog.Catalog
	Recommend(answers domain.AnswerSet) (domain.Track, map[domain.Track]int)
	Quote(track domain.Track, mode domain.DeliveryMode, teamSize int) (domain.QuoteBreakdown, error)
}

var _ Engine = (*upskill.Engine)(nil)

// RecommendResponse is the structured result of recommend_track.
type RecommendResponse struct {
	Track       domain.Track         `json:"track" jsonschema_description:"The recommended track"`
	Title       string               `json:"title" jsonschema_description:"Human readable track title"`
	Description string               `json:"description"`
	Tallies     map[domain.Track]int `json:"tallies" jsonschema_description:"Accumulated score per track"`
}

// QuoteResponse is the structured result of compute_quote.
type QuoteResponse struct {
	Quote     domain.QuoteBreakdown `json:"quote"`
	LineItems []domain.LineItem     `json:"line_items" jsonschema_description:"Itemized lines in pricing order, amounts in cents"`
	Formatted string                `json:"formatted" jsonschema_description:"Final total with currency symbol"`
}

// Server exposes the assessment catalog, track scoring and the quote calculator as MCP tools.
type Server struct {
	engine    Engine
	mcpServer *server.MCPServer
	logger    *slog.Logger
}

// NewServer creates a new MCP Server instance.
func NewServer(engine Engine, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	s := &Server{
		engine:    engine,
		mcpServer: server.NewMCPServer("upskill-mcp", strings.TrimSpace(upskill.Version)),
		logger:    logger,
	}
	s.registerTools()
	s.registerResources()
	return s
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE serves MCP over SSE on port until ctx is done.
func (s *Server) ServeSSE(ctx context.Context, port int) error {
	addr := fmt.Sprintf(":%d", port)
	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(fmt.Sprintf("http://localhost:%d", port)))

	mux := http.NewServeMux()
	mux.Handle("/sse", sseServer.SSEHandler())
	mux.Handle("/message", sseServer.MessageHandler())
	httpServer := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 10 * time.Second}

	serverErrors := make(chan error, 1)
	lifecycle.Go(ctx, func(ctx context.Context) error {
		s.logger.Info("MCP server listening (SSE)", "address", addr)
		serverErrors <- httpServer.ListenAndServe()
		return nil
	})

	select {
	case err := <-serverErrors:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

func trackNames() []string {
	out := make([]string, len(domain.TrackPriority))
	for i, t := range domain.TrackPriority {
		out[i] = string(t)
	}
	return out
}

func deliveryNames() []string {
	out := make([]string, len(domain.DeliveryModes))
	for i, m := range domain.DeliveryModes {
		out[i] = string(m)
	}
	return out
}

func (s *Server) registerTools() {
	s.mcpServer.AddTool(mcp.NewTool("list_questions",
		mcp.WithDescription("List every assessment question with its options and visibility condition."),
	), s.handleListQuestions)

	s.mcpServer.AddTool(mcp.NewTool("recommend_track",
		mcp.WithDescription("Score a set of answers and return the recommended training track."),
		mcp.WithString("answers", mcp.Required(),
			mcp.Description(`JSON object mapping question id to selected option ids, e.g. {"1":["developers"],"4":["build"]}`)),
		mcp.WithOutputSchema[RecommendResponse](),
	), mcp.NewStructuredToolHandler(s.handleRecommend))

	s.mcpServer.AddTool(mcp.NewTool("compute_quote",
		mcp.WithDescription("Price a training track for a team size and delivery mode."),
		mcp.WithString("track", mcp.Required(), mcp.Enum(trackNames()...)),
		mcp.WithString("delivery", mcp.Required(), mcp.Enum(deliveryNames()...)),
		mcp.WithNumber("team_size", mcp.Required(), mcp.Description("Number of participants")),
		mcp.WithOutputSchema[QuoteResponse](),
	), mcp.NewStructuredToolHandler(s.handleQuote))
}

func (s *Server) handleListQuestions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	data, err := json.Marshal(s.engine.Catalog().Questions)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("encode questions: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

// parseAnswers decodes {"<question id>": ["option", ...]} into an AnswerSet.
func parseAnswers(raw string) (domain.AnswerSet, error) {
	var byID map[string][]string
	if err := json.Unmarshal([]byte(raw), &byID); err != nil {
		return domain.AnswerSet{}, fmt.Errorf("answers must be a JSON object of option id arrays: %w", err)
	}
	answers := domain.NewAnswerSet()
	for key, options := range byID {
		id, err := strconv.Atoi(strings.TrimSpace(key))
		if err != nil {
			return domain.AnswerSet{}, fmt.Errorf("%w: %q", domain.ErrUnknownQuestion, key)
		}
		answers = answers.WithSelection(id, options)
	}
	return answers, nil
}

func (s *Server) handleRecommend(ctx context.Context, request mcp.CallToolRequest, args map[string]any) (RecommendResponse, error) {
	raw, _ := args["answers"].(string)
	answers, err := parseAnswers(raw)
	if err != nil {
		return RecommendResponse{}, err
	}

	track, tallies := s.engine.Recommend(answers)
	info, err := s.engine.Catalog().Track(track)
	if err != nil {
		return RecommendResponse{}, err
	}
	s.logger.Debug("MCP recommend_track", "track", track)
	return RecommendResponse{
		Track:       track,
		Title:       info.Title,
		Description: info.Description,
		Tallies:     tallies,
	}, nil
}

func (s *Server) handleQuote(ctx context.Context, request mcp.CallToolRequest, args map[string]any) (QuoteResponse, error) {
	track, _ := args["track"].(string)
	delivery, _ := args["delivery"].(string)
	size, ok := args["team_size"].(float64)
	if !ok {
		return QuoteResponse{}, fmt.Errorf("%w: team_size is required", domain.ErrInvalidTeamSize)
	}
	if maxSize := s.engine.Catalog().MaxTeamSize; size > float64(maxSize) {
		return QuoteResponse{}, fmt.Errorf("%w: team_size must be at most %d", domain.ErrInvalidTeamSize, maxSize)
	}
	if size != float64(int(size)) {
		return QuoteResponse{}, fmt.Errorf("%w: team_size must be a whole number", domain.ErrInvalidTeamSize)
	}

	q, err := s.engine.Quote(domain.Track(track), domain.DeliveryMode(delivery), int(size))
	if err != nil {
		return QuoteResponse{}, err
	}
	return QuoteResponse{
		Quote:     q,
		LineItems: q.LineItems(),
		Formatted: s.engine.Catalog().Currency + q.FinalTotal.String(),
	}, nil
}

func (s *Server) registerResources() {
	s.mcpServer.AddResource(mcp.NewResource(CatalogURI, "Assessment catalog",
		mcp.WithMIMEType("application/json"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		cat := s.engine.Catalog()
		data, err := json.Marshal(map[string]any{
			"currency":      cat.Currency,
			"min_team_size": cat.MinTeamSize,
			"max_team_size": cat.MaxTeamSize,
			"questions":     cat.Questions,
			"tracks":        cat.OrderedTracks(),
		})
		if err != nil {
			return nil, fmt.Errorf("failed to encode catalog: %w", err)
		}
		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      CatalogURI,
				MIMEType: "application/json",
				Text:     string(data),
			},
		}, nil
	})
}
