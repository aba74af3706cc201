package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"

	"github.com/eshaffer321/wealth-go/internal/logging"
	"github.com/eshaffer321/wealth-go/pkg/wealth"
)

func main() {
	_ = godotenv.Load()

	// stdout carries the MCP protocol, so logs go to stderr
	logger, err := logging.New(logging.Config{
		Level:  os.Getenv("WEALTH_LOGGING_LEVEL"),
		Format: "json",
	}, "")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = logger.Sync()
	}()

	token := os.Getenv("WEALTH_API_TOKEN")
	sessionFile := os.Getenv("WEALTH_API_SESSION_FILE")
	if token == "" && sessionFile == "" {
		logger.Fatal("WEALTH_API_TOKEN or WEALTH_API_SESSION_FILE environment variable is required")
	}

	wlog := logging.NewAdapter(logger)
	client, err := wealth.NewClient(&wealth.ClientOptions{
		BaseURL:     os.Getenv("WEALTH_API_BASE_URL"),
		Token:       token,
		SessionFile: sessionFile,
		Logger:      wlog,
		SentryDSN:   os.Getenv("WEALTH_SENTRY_DSN"),
		RetryConfig: &wealth.RetryConfig{MaxRetries: 3},
	})
	if err != nil {
		logger.Fatal("failed to initialize wealth client", zap.Error(err))
	}
	defer client.Close()

	impl := &mcp.Implementation{
		Name:    "wealth",
		Version: "1.0.0",
	}

	server := mcp.NewServer(impl, nil)

	registerTools(server, client, wlog)

	// Run server over stdio transport
	if err := server.Run(context.Background(), &mcp.StdioTransport{}); err != nil {
		logger.Fatal("server error", zap.Error(err))
	}
}

func registerTools(server *mcp.Server, client *wealth.Client, logger wealth.Logger) {
	tools := newWealthTools(client.Categories, logger)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_budget_stats",
		Description: "Get budget statistics for a month, quarter, year or custom date range: total budgeted, actual, remaining, percentage used, biggest category and daily average, optionally compared with the previous period of the same length.",
	}, tools.GetBudgetStats)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_budget_segments",
		Description: "Get the colored percentage-of-total segments for income or expense categories in a date range, largest first.",
	}, tools.GetBudgetSegments)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_category_summary",
		Description: "Get the raw income and expense category summary for a date range, including subcategories and budgets.",
	}, tools.GetCategorySummary)
}
