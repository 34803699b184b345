package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

/* ─── Request / Response types ───────────────────────────────────────── */

// generateRecipesRequest is the request body for POST /api/recipes/generate.
// Strict mode restricts the model to selected pantry items only; otherwise it
// may assume common staples.
type generateRecipesRequest struct {
	Count  int  `json:"count"`
	Strict bool `json:"strict"`
}

// generatedRecipe is the shape of one recipe in the model's JSON output.
type generatedRecipe struct {
	Title        string       `json:"title"`
	Description  string       `json:"description"`
	PrepTime     string       `json:"prep_time"`
	CookTime     string       `json:"cook_time"`
	Calories     int          `json:"calories"`
	Macros       recipeMacros `json:"macros"`
	Ingredients  []string     `json:"ingredients"`
	Instructions []string     `json:"instructions"`
	Tags         []string     `json:"tags"`
}

/* ─── OpenAI prompt construction ─────────────────────────────────────── */

const recipeSystemPromptTemplate = `You are a recipe generator for a meal-planning app. Generate exactly %d recipes as a JSON object: {"recipes": [...]}. Each recipe has:
- "title" (string)
- "description" (string, one sentence)
- "prep_time" (string, e.g. "10 min")
- "cook_time" (string, e.g. "25 min")
- "calories" (integer, per serving)
- "macros" (object with "protein", "carbs", "fats" as strings like "32g")
- "ingredients" (array of strings, each a full line like "2 eggs, beaten")
- "instructions" (array of strings, numbered steps without the numbers)
- "tags" (array of short strings)

Return only valid JSON, no explanation.`

// buildRecipePrompt assembles the system prompt from the user's constraints
// and the selected pantry items. Pure, so the prompt content is testable
// without a live model.
func buildRecipePrompt(p userProfile, pantry []pantryItem, count int, strict bool) string {
	var b strings.Builder
	fmt.Fprintf(&b, recipeSystemPromptTemplate, count)

	names := []string{}
	for _, item := range pantry {
		if item.IsSelected {
			names = append(names, item.Name)
		}
	}
	if len(names) > 0 {
		b.WriteString("\n\nAvailable ingredients: " + strings.Join(names, ", ") + ".")
		if strict {
			b.WriteString(" Use ONLY these ingredients (plus water, salt, and pepper).")
		} else {
			b.WriteString(" Prefer these ingredients; common staples may be assumed.")
		}
	}
	if len(p.Allergies) > 0 {
		b.WriteString("\nThe user is allergic to: " + strings.Join(p.Allergies, ", ") + ". Never include these.")
	}
	if len(p.Dislikes) > 0 {
		b.WriteString("\nThe user dislikes: " + strings.Join(p.Dislikes, ", ") + ". Avoid these.")
	}
	t := computeTargets(p)
	fmt.Fprintf(&b, "\nDaily targets: %d kcal, %dg protein, %dg carbs, %dg fat. Aim for roughly a third of these per recipe.", t.Calories, t.Protein, t.Carbs, t.Fats)
	if p.Goal != "" {
		fmt.Fprintf(&b, "\nThe user's goal is %s.", strings.ReplaceAll(p.Goal, "_", " "))
	}
	return b.String()
}

// parseRecipeBatch decodes the model's JSON output into recipes, assigning a
// fresh id to each. Recipes with no title or no ingredients are dropped
// rather than failing the whole batch.
func parseRecipeBatch(content string) ([]recipe, error) {
	var parsed struct {
		Recipes []generatedRecipe `json:"recipes"`
	}
	if err := json.Unmarshal([]byte(content), &parsed); err != nil {
		return nil, fmt.Errorf("unmarshal recipe batch: %w", err)
	}

	out := []recipe{}
	for _, g := range parsed.Recipes {
		if strings.TrimSpace(g.Title) == "" || len(g.Ingredients) == 0 {
			continue
		}
		out = append(out, recipe{
			ID:           uuid.New().String(),
			Title:        g.Title,
			Description:  g.Description,
			PrepTime:     g.PrepTime,
			CookTime:     g.CookTime,
			Calories:     g.Calories,
			Macros:       g.Macros,
			Ingredients:  g.Ingredients,
			Instructions: g.Instructions,
			Tags:         g.Tags,
		})
	}
	if len(out) == 0 {
		return nil, errors.New("no usable recipes in model output")
	}
	return out, nil
}

// parseGrams extracts the numeric gram value from a string-encoded macro like
// "32g" or "32 g". Unparseable input yields 0 rather than an error — a recipe
// with garbled macros still logs, just without macro credit.
func parseGrams(s string) float64 {
	s = strings.TrimSpace(strings.ToLower(s))
	s = strings.TrimSuffix(s, "g")
	s = strings.TrimSpace(s)
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return f
}

/* ─── OpenAI HTTP client ─────────────────────────────────────────────── */

// openAIMessage is a single message in the OpenAI chat completions request.
type openAIMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// openAIRequest is the request body for the OpenAI chat completions API.
type openAIRequest struct {
	Model          string          `json:"model"`
	Messages       []openAIMessage `json:"messages"`
	Temperature    float64         `json:"temperature"`
	ResponseFormat map[string]any  `json:"response_format"`
}

// callOpenAI sends a chat completions request and returns the raw content
// string from the first choice. Uses raw net/http to avoid pulling in the
// OpenAI SDK.
func callOpenAI(ctx context.Context, messages []openAIMessage, temperature float64, baseURL string) (string, error) {
	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		return "", fmt.Errorf("OPENAI_API_KEY not set")
	}

	reqBody := openAIRequest{
		Model:       "gpt-4o-mini",
		Messages:    messages,
		Temperature: temperature,
		ResponseFormat: map[string]any{
			"type": "json_object",
		},
	}

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, "POST", baseURL+"/v1/chat/completions", bytes.NewReader(bodyBytes))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+apiKey)

	client := &http.Client{Timeout: 30 * time.Second}
	resp, err := client.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()

	respBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("openai returned status %d: %s", resp.StatusCode, string(respBytes))
	}

	var result struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(respBytes, &result); err != nil {
		return "", fmt.Errorf("unmarshal response: %w", err)
	}
	if len(result.Choices) == 0 {
		return "", fmt.Errorf("no choices in response")
	}

	return result.Choices[0].Message.Content, nil
}

/* ─── Handlers ───────────────────────────────────────────────────────── */

// generateRecipes builds a prompt from the profile and selected pantry items,
// calls the model, and returns the annotated batch. The batch is ephemeral —
// nothing is persisted until the user explicitly saves a recipe.
// POST /api/recipes/generate.
func (h *Handler) generateRecipes(c *gin.Context) {
	userID := c.GetInt("user_id")

	var req generateRecipesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apiError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Count <= 0 {
		req.Count = 3
	}
	if req.Count > 10 {
		req.Count = 10
	}

	p, err := queryOne[userProfile](h.db, c,
		"SELECT * FROM profiles WHERE user_id = @userID",
		pgx.NamedArgs{"userID": userID})
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		apiError(c, http.StatusInternalServerError, "failed to fetch profile")
		return
	}

	pantry, err := queryMany[pantryItem](h.db, c,
		"SELECT * FROM pantry_items WHERE user_id = @userID",
		pgx.NamedArgs{"userID": userID})
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to fetch pantry")
		return
	}

	messages := []openAIMessage{
		{Role: "system", Content: buildRecipePrompt(p, pantry, req.Count, req.Strict)},
		{Role: "user", Content: "Generate the recipes."},
	}

	content, err := callOpenAI(c.Request.Context(), messages, 0.7, h.openAIBaseURL)
	if err != nil {
		log.Printf("[generateRecipes] OpenAI error: %v", err)
		apiError(c, http.StatusInternalServerError, "recipe generation failed")
		return
	}

	recipes, err := parseRecipeBatch(content)
	if err != nil {
		log.Printf("[generateRecipes] parse error: %v", err)
		apiError(c, http.StatusInternalServerError, "recipe generation failed")
		return
	}

	c.JSON(http.StatusOK, gin.H{"recipes": annotateRecipes(recipes, pantry)})
}

// listRecipes returns the user's cookbook, re-annotated against the live
// pantry on every read — match data is never stored, so it can't go stale.
// GET /api/recipes.
func (h *Handler) listRecipes(c *gin.Context) {
	userID := c.GetInt("user_id")

	recipes, err := queryMany[recipe](h.db, c,
		"SELECT * FROM recipes WHERE user_id = @userID ORDER BY created_at DESC",
		pgx.NamedArgs{"userID": userID})
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to fetch recipes")
		return
	}
	if recipes == nil {
		recipes = []recipe{}
	}

	pantry, err := queryMany[pantryItem](h.db, c,
		"SELECT * FROM pantry_items WHERE user_id = @userID",
		pgx.NamedArgs{"userID": userID})
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to fetch pantry")
		return
	}

	c.JSON(http.StatusOK, annotateRecipes(recipes, pantry))
}

// saveRecipe persists a recipe to the user's cookbook. Generated recipes keep
// the id they were handed out during generation if the client echoes it back.
// POST /api/recipes.
func (h *Handler) saveRecipe(c *gin.Context) {
	userID := c.GetInt("user_id")

	var body recipe
	if err := c.ShouldBindJSON(&body); err != nil {
		apiError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(body.Title) == "" {
		apiError(c, http.StatusBadRequest, "title is required")
		return
	}
	if body.ID == "" {
		body.ID = uuid.New().String()
	}

	macrosJSON, _ := json.Marshal(body.Macros)
	saved, err := queryOne[recipe](h.db, c,
		`INSERT INTO recipes (id, user_id, title, description, prep_time, cook_time, calories, macros, ingredients, instructions, tags)
		 VALUES (@id, @userID, @title, @description, @prepTime, @cookTime, @calories, @macros, @ingredients, @instructions, @tags)
		 ON CONFLICT (id) DO NOTHING
		 RETURNING *`,
		pgx.NamedArgs{
			"id": body.ID, "userID": userID, "title": body.Title,
			"description": body.Description, "prepTime": body.PrepTime,
			"cookTime": body.CookTime, "calories": body.Calories,
			"macros": string(macrosJSON), "ingredients": body.Ingredients,
			"instructions": body.Instructions, "tags": body.Tags,
		})
	if errors.Is(err, pgx.ErrNoRows) {
		apiError(c, http.StatusConflict, "recipe already saved")
		return
	}
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to save recipe")
		return
	}

	c.JSON(http.StatusCreated, saved)
}

// deleteRecipe removes a recipe from the cookbook. Returns 204 on success.
// DELETE /api/recipes/:id.
func (h *Handler) deleteRecipe(c *gin.Context) {
	userID := c.GetInt("user_id")
	id := c.Param("id")

	result, err := h.db.Exec(c,
		"DELETE FROM recipes WHERE id = @id AND user_id = @userID",
		pgx.NamedArgs{"id": id, "userID": userID})
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to delete recipe")
		return
	}
	if result.RowsAffected() == 0 {
		apiError(c, http.StatusNotFound, "recipe not found")
		return
	}

	c.Status(http.StatusNoContent)
}

// logRecipeServing logs one serving of a saved recipe as a meal entry on the
// given date's journal, carrying the recipe id as a back-reference.
// POST /api/recipes/:id/log. Body: { "date"?: "YYYY-MM-DD", "type"?: "dinner" }.
// Date defaults to today, type to "dinner".
func (h *Handler) logRecipeServing(c *gin.Context) {
	userID := c.GetInt("user_id")
	id := c.Param("id")

	var body struct {
		Date string `json:"date"`
		Type string `json:"type"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		apiError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if body.Date == "" {
		body.Date = localDate(time.Now())
	}
	if _, err := time.Parse(isoDate, body.Date); err != nil {
		apiError(c, http.StatusBadRequest, "invalid date, expected YYYY-MM-DD")
		return
	}
	if body.Type == "" {
		body.Type = "dinner"
	}
	if !validMealTypes[body.Type] {
		apiError(c, http.StatusBadRequest, "type must be one of: breakfast, lunch, dinner, snack")
		return
	}

	r, err := queryOne[recipe](h.db, c,
		"SELECT * FROM recipes WHERE id = @id AND user_id = @userID",
		pgx.NamedArgs{"id": id, "userID": userID})
	if errors.Is(err, pgx.ErrNoRows) {
		apiError(c, http.StatusNotFound, "recipe not found")
		return
	}
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to fetch recipe")
		return
	}

	entry := mealEntry{
		ID:       uuid.New().String(),
		Type:     body.Type,
		Name:     r.Title,
		Calories: float64(r.Calories),
		Quantity: "1 serving",
		Macros: macroSet{
			Protein: parseGrams(r.Macros.Protein),
			Carbs:   parseGrams(r.Macros.Carbs),
			Fats:    parseGrams(r.Macros.Fats),
		},
		RecipeID: r.ID,
	}

	lg, err := h.mutateDailyLog(c, userID, body.Date, func(lg dailyLog) (dailyLog, error) {
		return addMeal(lg, entry)
	})
	h.respondLogMutation(c, lg, err)
}
