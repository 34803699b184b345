package main

import (
	"time"
)

// isoDate is the date layout used for every log key, streak comparison, and
// weight history entry. One convention everywhere: the user's local calendar
// day. Deriving "today" in UTC in one place and local time in another is how
// streaks silently break around midnight.
const isoDate = "2006-01-02"

// localDate formats t as a local-calendar-day key. The single point where a
// time.Time becomes a date string.
func localDate(t time.Time) string {
	return t.Format(isoDate)
}

/* ─── Domain structs ─────────────────────────────────────────────────── */

// user maps to the users table. AuthToken and Password are hidden from JSON responses.
type user struct {
	ID        int        `json:"id" db:"id"`
	Username  string     `json:"username" db:"username"`
	Email     string     `json:"email" db:"email"`
	AuthToken string     `json:"-" db:"auth_token"`
	Password  string     `json:"-" db:"password"`
	CreatedAt *time.Time `json:"created_at" db:"created_at"`
}

// macroSet is a protein/carbs/fats triple in grams. Used for custom macro
// overrides on the profile and for per-meal macro snapshots.
type macroSet struct {
	Protein float64 `json:"protein"`
	Carbs   float64 `json:"carbs"`
	Fats    float64 `json:"fats"`
}

// mealDistribution is the per-meal-type percentage split of the calorie
// target. The UI warns when the values don't sum to 100 but the server never
// rejects it.
type mealDistribution struct {
	Breakfast float64 `json:"breakfast"`
	Lunch     float64 `json:"lunch"`
	Dinner    float64 `json:"dinner"`
	Snack     float64 `json:"snack"`
}

// weightSample is one body-weight measurement in the profile's weight history.
// At most one sample per calendar date; the latest write for a date wins.
type weightSample struct {
	Date   string  `json:"date"`
	Weight float64 `json:"weight"`
}

// streakState is the consecutive-day logging streak stored on the profile.
// LastLogDate is empty until the user's first log.
type streakState struct {
	Current     int    `json:"current"`
	LastLogDate string `json:"lastLogDate"`
}

// userProfile maps to the profiles table. JSONB columns (custom_macros,
// meal_distribution, weight_history) scan through pgx's JSON codec. Nutrition
// targets are computed server-side on read, never stored.
type userProfile struct {
	UserID           int               `json:"user_id" db:"user_id"`
	Name             string            `json:"name" db:"name"`
	HeightCM         float64           `json:"height_cm" db:"height_cm"`
	WeightKG         float64           `json:"weight_kg" db:"weight_kg"`
	Age              int               `json:"age" db:"age"`
	Gender           string            `json:"gender" db:"gender"`
	Goal             string            `json:"goal" db:"goal"`
	ActivityLevel    string            `json:"activity_level" db:"activity_level"`
	WeeklyGoalKG     float64           `json:"weekly_goal_kg" db:"weekly_goal_kg"`
	TargetWeightKG   float64           `json:"target_weight_kg" db:"target_weight_kg"`
	Allergies        []string          `json:"allergies" db:"allergies"`
	Dislikes         []string          `json:"dislikes" db:"dislikes"`
	CustomMacros     *macroSet         `json:"custom_macros" db:"custom_macros"`
	MealDistribution *mealDistribution `json:"meal_distribution" db:"meal_distribution"`
	WeightHistory    []weightSample    `json:"weight_history" db:"weight_history"`
	StreakCurrent    int               `json:"-" db:"streak_current"`
	StreakLastLog    *string           `json:"-" db:"streak_last_log_date"`
	CreatedAt        *time.Time        `json:"created_at" db:"created_at"`

	// Computed fields — populated server-side from the profile; not stored.
	// db:"-" tells RowToStructByName to skip these during scanning.
	Streak  *streakState      `json:"streak,omitempty" db:"-"`
	Targets *nutritionTargets `json:"targets,omitempty" db:"-"`
}

// streak assembles the streakState view from the profile's flat columns.
func (p *userProfile) streak() streakState {
	s := streakState{Current: p.StreakCurrent}
	if p.StreakLastLog != nil {
		s.LastLogDate = *p.StreakLastLog
	}
	return s
}

/* ─── Daily log ──────────────────────────────────────────────────────── */

// mealEntry is one logged food item inside a daily log. Entries are unique by
// ID within a log and mutated in place (portion edits keep the ID). RecipeID
// is a weak back-reference to a saved recipe, lookup-only.
type mealEntry struct {
	ID       string   `json:"id"`
	Type     string   `json:"type"`
	Name     string   `json:"name"`
	Calories float64  `json:"calories"`
	Quantity string   `json:"quantity,omitempty"`
	Macros   macroSet `json:"macros"`
	RecipeID string   `json:"recipe_id,omitempty"`
}

// dailyLog maps to the daily_logs table, one row per (user, date). Meals live
// in a JSONB column; Consumed and the macro totals are always recomputed from
// the meal list before a write, never patched independently.
type dailyLog struct {
	UserID   int         `json:"-" db:"user_id"`
	Date     string      `json:"date" db:"date"`
	Meals    []mealEntry `json:"meals" db:"meals"`
	Consumed float64     `json:"consumed" db:"consumed"`
	Burned   float64     `json:"burned" db:"burned"`
	Water    int         `json:"water" db:"water"`
	ProteinG float64     `json:"protein_g" db:"protein_g"`
	CarbsG   float64     `json:"carbs_g" db:"carbs_g"`
	FatsG    float64     `json:"fats_g" db:"fats_g"`
}

// dayOverview is one day's entry in the GET /api/logs range response, used by
// the journal calendar. Days with no stored log have HasActivity=false and
// zero totals.
type dayOverview struct {
	Date          string  `json:"date"`
	Consumed      float64 `json:"consumed"`
	Water         int     `json:"water"`
	CalorieTarget int     `json:"calorie_target"`
	HasActivity   bool    `json:"has_activity"`
}

/* ─── Pantry ─────────────────────────────────────────────────────────── */

// nutritionFacts is the nutrition snapshot carried on a pantry item, per its
// declared quantity. Populated from food lookup or left zero for manual adds.
type nutritionFacts struct {
	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein"`
	Carbs    float64 `json:"carbs"`
	Fats     float64 `json:"fats"`
}

// pantryItem maps to the pantry_items table. Names are unique
// case-insensitively within a user's pantry; adding a duplicate merges into
// the existing row instead of creating a second entry.
type pantryItem struct {
	ID          string         `json:"id" db:"id"`
	UserID      int            `json:"-" db:"user_id"`
	Name        string         `json:"name" db:"name"`
	Quantity    string         `json:"quantity" db:"quantity"`
	IsSelected  bool           `json:"is_selected" db:"is_selected"`
	IsScanned   bool           `json:"is_scanned" db:"is_scanned"`
	Brand       string         `json:"brand" db:"brand"`
	Image       string         `json:"image" db:"image"`
	Nutrition   nutritionFacts `json:"nutrition" db:"nutrition"`
	ServingSize float64        `json:"serving_size" db:"serving_size"`
	Unit        string         `json:"unit" db:"unit"`
	CreatedAt   *time.Time     `json:"created_at" db:"created_at"`
}

/* ─── Recipes ────────────────────────────────────────────────────────── */

// recipeMacros keeps the string-encoded gram values ("32g") exactly as the
// generation model emits them. parseGrams recovers numbers when a recipe
// serving is logged as a meal.
type recipeMacros struct {
	Protein string `json:"protein"`
	Carbs   string `json:"carbs"`
	Fats    string `json:"fats"`
}

// recipe is an AI-generated or cookbook-saved recipe. MissingIngredients and
// MatchPercentage are derived against the live pantry on every read and never
// stored.
type recipe struct {
	ID           string       `json:"id" db:"id"`
	UserID       int          `json:"-" db:"user_id"`
	Title        string       `json:"title" db:"title"`
	Description  string       `json:"description" db:"description"`
	PrepTime     string       `json:"prep_time" db:"prep_time"`
	CookTime     string       `json:"cook_time" db:"cook_time"`
	Calories     int          `json:"calories" db:"calories"`
	Macros       recipeMacros `json:"macros" db:"macros"`
	Ingredients  []string     `json:"ingredients" db:"ingredients"`
	Instructions []string     `json:"instructions" db:"instructions"`
	Tags         []string     `json:"tags" db:"tags"`
	CreatedAt    *time.Time   `json:"created_at" db:"created_at"`

	// Derived on read against the live pantry; not stored.
	MissingIngredients []string `json:"missing_ingredients" db:"-"`
	MatchPercentage    int      `json:"match_percentage" db:"-"`
}
