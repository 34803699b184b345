package main

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
)

// validGenders and validGoals mirror the enums the onboarding wizard offers.
// Rejected here with 400 rather than letting bad strings poison every later
// target calculation.
var validGenders = map[string]bool{"male": true, "female": true, "other": true}

var validGoals = map[string]bool{
	"weight_loss": true,
	"muscle_gain": true,
	"maintain":    true,
	"balanced":    true,
}

// patchProfileRequest is the request body for PATCH /api/profile. All fields
// are pointers — only non-nil fields get written.
type patchProfileRequest struct {
	Name             *string           `json:"name"`
	HeightCM         *float64          `json:"height_cm"`
	WeightKG         *float64          `json:"weight_kg"`
	Age              *int              `json:"age"`
	Gender           *string           `json:"gender"`
	Goal             *string           `json:"goal"`
	ActivityLevel    *string           `json:"activity_level"`
	WeeklyGoalKG     *float64          `json:"weekly_goal_kg"`
	TargetWeightKG   *float64          `json:"target_weight_kg"`
	Allergies        *[]string         `json:"allergies"`
	Dislikes         *[]string         `json:"dislikes"`
	CustomMacros     *macroSet         `json:"custom_macros"`
	MealDistribution *mealDistribution `json:"meal_distribution"`
}

// getProfile returns the profile with computed streak and nutrition targets.
// GET /api/profile.
func (h *Handler) getProfile(c *gin.Context) {
	userID := c.GetInt("user_id")

	p, err := queryOne[userProfile](h.db, c,
		"SELECT * FROM profiles WHERE user_id = @userID",
		pgx.NamedArgs{"userID": userID})
	if errors.Is(err, pgx.ErrNoRows) {
		apiError(c, http.StatusNotFound, "profile not found")
		return
	}
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to fetch profile")
		return
	}

	populateComputedFields(&p)
	c.JSON(http.StatusOK, p)
}

// patchProfile updates only the provided profile fields. Pointer fields in
// the request body distinguish "not provided" from zero.
//
// A weight change also routes through the weight history ledger: the history
// gains (or same-day overwrites) a sample dated today, in the same
// transaction as the weight column update so the two can't diverge.
// PATCH /api/profile.
func (h *Handler) patchProfile(c *gin.Context) {
	userID := c.GetInt("user_id")

	var body patchProfileRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		apiError(c, http.StatusBadRequest, "invalid request body")
		return
	}

	if body.Gender != nil && !validGenders[*body.Gender] {
		apiError(c, http.StatusBadRequest, "gender must be one of: male, female, other")
		return
	}
	if body.Goal != nil && !validGoals[*body.Goal] {
		apiError(c, http.StatusBadRequest, "goal must be one of: weight_loss, muscle_gain, maintain, balanced")
		return
	}
	if body.ActivityLevel != nil {
		if _, ok := activityMultipliers[*body.ActivityLevel]; !ok {
			apiError(c, http.StatusBadRequest, "activity_level must be one of: sedentary, light, moderate, active, very_active")
			return
		}
	}
	if body.HeightCM != nil && *body.HeightCM <= 0 {
		apiError(c, http.StatusBadRequest, "height_cm must be positive")
		return
	}
	if body.WeightKG != nil && *body.WeightKG <= 0 {
		apiError(c, http.StatusBadRequest, "weight_kg must be positive")
		return
	}
	if body.Age != nil && *body.Age <= 0 {
		apiError(c, http.StatusBadRequest, "age must be positive")
		return
	}

	// Meal distribution percentages should sum to 100. Warn, don't enforce —
	// the wizard lets users save partial splits.
	warnings := []string{}
	if body.MealDistribution != nil {
		d := body.MealDistribution
		if sum := d.Breakfast + d.Lunch + d.Dinner + d.Snack; sum != 100 {
			warnings = append(warnings, "meal_distribution percentages do not sum to 100")
		}
	}

	tx, err := h.db.Begin(c)
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to update profile")
		return
	}
	defer tx.Rollback(c)

	current, err := queryOne[userProfile](tx, c,
		"SELECT * FROM profiles WHERE user_id = @userID FOR UPDATE",
		pgx.NamedArgs{"userID": userID})
	if errors.Is(err, pgx.ErrNoRows) {
		apiError(c, http.StatusNotFound, "profile not found")
		return
	}
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to update profile")
		return
	}

	// Build SET clause dynamically — only update fields the client actually sent.
	setClauses := []string{}
	args := pgx.NamedArgs{"userID": userID}

	if body.Name != nil {
		setClauses = append(setClauses, "name = @name")
		args["name"] = *body.Name
	}
	if body.HeightCM != nil {
		setClauses = append(setClauses, "height_cm = @heightCM")
		args["heightCM"] = *body.HeightCM
	}
	if body.Age != nil {
		setClauses = append(setClauses, "age = @age")
		args["age"] = *body.Age
	}
	if body.Gender != nil {
		setClauses = append(setClauses, "gender = @gender")
		args["gender"] = *body.Gender
	}
	if body.Goal != nil {
		setClauses = append(setClauses, "goal = @goal")
		args["goal"] = *body.Goal
	}
	if body.ActivityLevel != nil {
		setClauses = append(setClauses, "activity_level = @activityLevel")
		args["activityLevel"] = *body.ActivityLevel
	}
	if body.WeeklyGoalKG != nil {
		setClauses = append(setClauses, "weekly_goal_kg = @weeklyGoalKG")
		args["weeklyGoalKG"] = *body.WeeklyGoalKG
	}
	if body.TargetWeightKG != nil {
		setClauses = append(setClauses, "target_weight_kg = @targetWeightKG")
		args["targetWeightKG"] = *body.TargetWeightKG
	}
	if body.Allergies != nil {
		setClauses = append(setClauses, "allergies = @allergies")
		args["allergies"] = *body.Allergies
	}
	if body.Dislikes != nil {
		setClauses = append(setClauses, "dislikes = @dislikes")
		args["dislikes"] = *body.Dislikes
	}
	if body.CustomMacros != nil {
		raw, _ := json.Marshal(body.CustomMacros)
		setClauses = append(setClauses, "custom_macros = @customMacros")
		args["customMacros"] = string(raw)
	}
	if body.MealDistribution != nil {
		raw, _ := json.Marshal(body.MealDistribution)
		setClauses = append(setClauses, "meal_distribution = @mealDistribution")
		args["mealDistribution"] = string(raw)
	}
	if body.WeightKG != nil {
		setClauses = append(setClauses, "weight_kg = @weightKG")
		args["weightKG"] = *body.WeightKG

		history := recordWeight(current.WeightHistory, localDate(time.Now()), *body.WeightKG)
		raw, err := json.Marshal(history)
		if err != nil {
			apiError(c, http.StatusInternalServerError, "failed to update profile")
			return
		}
		setClauses = append(setClauses, "weight_history = @weightHistory")
		args["weightHistory"] = string(raw)
	}

	if len(setClauses) == 0 {
		apiError(c, http.StatusBadRequest, "no fields to update")
		return
	}

	query := "UPDATE profiles SET " +
		strings.Join(setClauses, ", ") +
		" WHERE user_id = @userID RETURNING *"

	p, err := queryOne[userProfile](tx, c, query, args)
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to update profile")
		return
	}
	if err := tx.Commit(c); err != nil {
		apiError(c, http.StatusInternalServerError, "failed to update profile")
		return
	}

	populateComputedFields(&p)
	c.JSON(http.StatusOK, gin.H{"profile": p, "warnings": warnings})
}

// getWeightHistory returns the weight history ledger on its own, for the
// progress chart.
// GET /api/profile/weight-history.
func (h *Handler) getWeightHistory(c *gin.Context) {
	userID := c.GetInt("user_id")

	p, err := queryOne[userProfile](h.db, c,
		"SELECT * FROM profiles WHERE user_id = @userID",
		pgx.NamedArgs{"userID": userID})
	if errors.Is(err, pgx.ErrNoRows) {
		apiError(c, http.StatusNotFound, "profile not found")
		return
	}
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to fetch weight history")
		return
	}

	history := p.WeightHistory
	if history == nil {
		history = []weightSample{}
	}
	c.JSON(http.StatusOK, history)
}
