package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Handler holds shared dependencies (db pool, upstream base URLs) for all
// route handlers. The base URLs are overridable so tests can point the AI and
// food-lookup clients at a local mock server.
type Handler struct {
	db            *pgxpool.Pool
	openAIBaseURL string
	foodBaseURL   string
}

/* ─── Database helpers ────────────────────────────────────────────────── */

// querier is the common surface of *pgxpool.Pool and pgx.Tx that the generic
// scan helpers need. Aggregate mutations run against a transaction; plain
// reads run against the pool.
type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// queryOne runs a query and scans the first row into T using RowToStructByName.
// Logs query and scan errors for debugging (e.g. struct/column mismatches).
func queryOne[T any](q querier, ctx context.Context, sql string, args pgx.NamedArgs) (T, error) {
	rows, err := q.Query(ctx, sql, args)
	if err != nil {
		log.Printf("[queryOne] Query error: %v", err)
		var zero T
		return zero, err
	}
	result, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[T])
	if err != nil && err != pgx.ErrNoRows {
		log.Printf("[queryOne] Scan error: %v", err)
	}
	return result, err
}

// queryMany runs a query and scans all rows into []T using RowToStructByName.
func queryMany[T any](q querier, ctx context.Context, sql string, args pgx.NamedArgs) ([]T, error) {
	rows, err := q.Query(ctx, sql, args)
	if err != nil {
		log.Printf("[queryMany] Query error: %v", err)
		return nil, err
	}
	results, err := pgx.CollectRows(rows, pgx.RowToStructByName[T])
	if err != nil {
		log.Printf("[queryMany] Scan error: %v", err)
	}
	return results, err
}

// apiError returns a consistent JSON error response: {"error": "message"}.
func apiError(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"error": message})
}

/* ─── Server setup ────────────────────────────────────────────────────── */

// getDBPool creates a connection pool. We use a pool (not a single conn)
// because serverless Postgres providers close idle connections after a few
// minutes.
func getDBPool() *pgxpool.Pool {
	config, err := pgxpool.ParseConfig(os.Getenv("DB_URL"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Unable to parse DB URL: %v\n", err)
		os.Exit(1)
	}
	// Use simple query protocol to avoid "cached plan must not change result type"
	// errors from server-side prepared statement caches after schema changes.
	config.ConnConfig.DefaultQueryExecMode = pgx.QueryExecModeSimpleProtocol
	pool, err := pgxpool.NewWithConfig(context.Background(), config)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Unable to connect to database: %v\n", err)
		os.Exit(1)
	}
	fmt.Println("DB pool ready!")
	return pool
}

// registerRoutes registers all API routes on the router.
func (h *Handler) registerRoutes(router *gin.Engine) {
	// Public routes
	router.POST("/api/login", h.login)

	// Authenticated routes
	api := router.Group("/api", h.authMiddleware())

	api.GET("/profile", h.getProfile)
	api.PATCH("/profile", h.patchProfile)
	api.GET("/profile/weight-history", h.getWeightHistory)

	api.GET("/logs", h.getLogRange)
	api.GET("/logs/:date", h.getDailyLog)
	api.POST("/logs/:date/meals", h.addMealToLog)
	api.PUT("/logs/:date/meals/:id", h.updateMealInLog)
	api.DELETE("/logs/:date/meals/:id", h.removeMealFromLog)
	api.PUT("/logs/:date/water", h.setWaterForLog)

	api.GET("/pantry", h.listPantry)
	api.POST("/pantry", h.addPantryItem)
	api.PUT("/pantry/:id", h.updatePantryItem)
	api.PUT("/pantry/:id/selected", h.setPantryItemSelected)
	api.DELETE("/pantry/:id", h.deletePantryItem)

	api.POST("/recipes/generate", h.generateRecipes)
	api.GET("/recipes", h.listRecipes)
	api.POST("/recipes", h.saveRecipe)
	api.DELETE("/recipes/:id", h.deleteRecipe)
	api.POST("/recipes/:id/log", h.logRecipeServing)

	api.GET("/foods/search", h.searchFoodsHandler)
	api.GET("/foods/barcode/:code", h.barcodeLookupHandler)
}
