package main

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// dailyLogView is the response shape for daily log reads and mutations: the
// log itself plus the profile-derived targets the journal screen renders
// against.
type dailyLogView struct {
	dailyLog
	Targets nutritionTargets `json:"targets"`
}

// mealEntryRequest is the request body for adding or updating a meal entry.
type mealEntryRequest struct {
	Type     string   `json:"type"`
	Name     string   `json:"name"`
	Calories float64  `json:"calories"`
	Quantity string   `json:"quantity"`
	Macros   macroSet `json:"macros"`
	RecipeID string   `json:"recipe_id"`
}

/* ─── Read path ──────────────────────────────────────────────────────── */

// getDailyLog returns the log for a date, or a zero-valued transient record
// when no activity was ever written for that date. The transient is never
// persisted.
// GET /api/logs/:date.
func (h *Handler) getDailyLog(c *gin.Context) {
	userID := c.GetInt("user_id")
	date := c.Param("date")
	if _, err := time.Parse(isoDate, date); err != nil {
		apiError(c, http.StatusBadRequest, "invalid date, expected YYYY-MM-DD")
		return
	}

	lg, err := queryOne[dailyLog](h.db, c,
		"SELECT * FROM daily_logs WHERE user_id = @userID AND date = @date",
		pgx.NamedArgs{"userID": userID, "date": date})
	if errors.Is(err, pgx.ErrNoRows) {
		lg = emptyLog(userID, date)
	} else if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to fetch daily log")
		return
	}

	c.JSON(http.StatusOK, dailyLogView{dailyLog: lg, Targets: h.targetsFor(c, userID)})
}

// getLogRange returns one dayOverview per calendar day in [start, end],
// filling zeros for days with no stored log. Used by the journal calendar to
// shade active days.
// GET /api/logs?start=YYYY-MM-DD&end=YYYY-MM-DD. Both params required.
func (h *Handler) getLogRange(c *gin.Context) {
	userID := c.GetInt("user_id")
	start := c.Query("start")
	end := c.Query("end")

	if start == "" || end == "" {
		apiError(c, http.StatusBadRequest, "start and end query params are required")
		return
	}
	startT, err := time.Parse(isoDate, start)
	if err != nil {
		apiError(c, http.StatusBadRequest, "invalid start, expected YYYY-MM-DD")
		return
	}
	endT, err := time.Parse(isoDate, end)
	if err != nil {
		apiError(c, http.StatusBadRequest, "invalid end, expected YYYY-MM-DD")
		return
	}
	if start > end {
		apiError(c, http.StatusBadRequest, "start must not be after end")
		return
	}
	if endT.Sub(startT) > 366*24*time.Hour {
		apiError(c, http.StatusBadRequest, "range must not exceed one year")
		return
	}

	logs, err := queryMany[dailyLog](h.db, c,
		`SELECT * FROM daily_logs
		 WHERE user_id = @userID AND date >= @start AND date <= @end
		 ORDER BY date ASC`,
		pgx.NamedArgs{"userID": userID, "start": start, "end": end})
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to fetch logs")
		return
	}

	// Index stored logs by date for O(1) merge into the gap-filled range.
	byDate := make(map[string]dailyLog, len(logs))
	for _, lg := range logs {
		byDate[lg.Date] = lg
	}

	target := h.targetsFor(c, userID).Calories
	days := []dayOverview{}
	for d := startT; !d.After(endT); d = d.AddDate(0, 0, 1) {
		dateStr := d.Format(isoDate)
		day := dayOverview{Date: dateStr, CalorieTarget: target}
		if lg, ok := byDate[dateStr]; ok {
			day.Consumed = lg.Consumed
			day.Water = lg.Water
			day.HasActivity = true
		}
		days = append(days, day)
	}

	c.JSON(http.StatusOK, days)
}

// targetsFor computes the nutrition targets for a user, falling back to the
// default set when the profile is missing or incomplete.
func (h *Handler) targetsFor(c *gin.Context, userID int) nutritionTargets {
	p, err := queryOne[userProfile](h.db, c,
		"SELECT * FROM profiles WHERE user_id = @userID",
		pgx.NamedArgs{"userID": userID})
	if err != nil {
		return defaultTargets
	}
	return computeTargets(p)
}

/* ─── Mutation path ──────────────────────────────────────────────────── */

// mutateDailyLog runs one aggregate mutation as a transactional
// read-modify-write: lock the day's row (if any), apply the pure mutation,
// write the whole aggregate back. Two devices editing the same day serialize
// on the row lock instead of clobbering each other's meal lists.
//
// The first write of a day — the row transitions from absent to present —
// advances the streak in the same transaction, so a crash between the two
// writes can't leave them disagreeing. A mutation that leaves a previously
// absent day still blank (deleting an id that was never logged, setting water
// to zero) writes nothing: the transient stays transient and no streak day is
// minted without actual activity.
func (h *Handler) mutateDailyLog(c *gin.Context, userID int, date string, mutate func(dailyLog) (dailyLog, error)) (dailyLog, error) {
	tx, err := h.db.Begin(c)
	if err != nil {
		return dailyLog{}, err
	}
	defer tx.Rollback(c)

	lg, err := queryOne[dailyLog](tx, c,
		"SELECT * FROM daily_logs WHERE user_id = @userID AND date = @date FOR UPDATE",
		pgx.NamedArgs{"userID": userID, "date": date})
	existed := true
	if errors.Is(err, pgx.ErrNoRows) {
		lg = emptyLog(userID, date)
		existed = false
	} else if err != nil {
		return dailyLog{}, err
	}

	next, err := mutate(lg)
	if err != nil {
		return dailyLog{}, err
	}

	if !existed && isBlank(next) {
		return next, nil
	}

	mealsJSON, err := json.Marshal(next.Meals)
	if err != nil {
		return dailyLog{}, err
	}
	_, err = tx.Exec(c,
		`INSERT INTO daily_logs (user_id, date, meals, consumed, burned, water, protein_g, carbs_g, fats_g)
		 VALUES (@userID, @date, @meals, @consumed, @burned, @water, @proteinG, @carbsG, @fatsG)
		 ON CONFLICT (user_id, date) DO UPDATE SET
			meals = EXCLUDED.meals,
			consumed = EXCLUDED.consumed,
			burned = EXCLUDED.burned,
			water = EXCLUDED.water,
			protein_g = EXCLUDED.protein_g,
			carbs_g = EXCLUDED.carbs_g,
			fats_g = EXCLUDED.fats_g`,
		pgx.NamedArgs{
			"userID": userID, "date": date, "meals": string(mealsJSON),
			"consumed": next.Consumed, "burned": next.Burned, "water": next.Water,
			"proteinG": next.ProteinG, "carbsG": next.CarbsG, "fatsG": next.FatsG,
		})
	if err != nil {
		return dailyLog{}, err
	}

	if !existed {
		if err := advanceStreakTx(tx, c, userID, date); err != nil {
			return dailyLog{}, err
		}
	}

	if err := tx.Commit(c); err != nil {
		return dailyLog{}, err
	}
	return next, nil
}

// advanceStreakTx applies the streak rules for a first-write-of-day event
// inside the caller's transaction. The profile row is locked so concurrent
// first-writes (two devices logging the first meal simultaneously) serialize
// and the idempotence guard in advanceStreak absorbs the duplicate.
func advanceStreakTx(tx pgx.Tx, c *gin.Context, userID int, eventDate string) error {
	var current int
	var lastLog *string
	err := tx.QueryRow(c,
		"SELECT streak_current, streak_last_log_date FROM profiles WHERE user_id = $1 FOR UPDATE",
		userID).Scan(&current, &lastLog)
	if errors.Is(err, pgx.ErrNoRows) {
		// No profile yet (mid-onboarding). Logging still works; the streak
		// starts counting once the profile exists.
		return nil
	}
	if err != nil {
		return err
	}

	s := streakState{Current: current}
	if lastLog != nil {
		s.LastLogDate = *lastLog
	}
	next := advanceStreak(s, eventDate, localDate(time.Now()))
	if next == s {
		return nil
	}

	_, err = tx.Exec(c,
		"UPDATE profiles SET streak_current = $1, streak_last_log_date = $2 WHERE user_id = $3",
		next.Current, next.LastLogDate, userID)
	return err
}

// respondLogMutation maps aggregator errors onto HTTP statuses and returns
// the updated log view on success.
func (h *Handler) respondLogMutation(c *gin.Context, lg dailyLog, err error) {
	switch {
	case errors.Is(err, errInvalidMeal):
		apiError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, errMealNotFound):
		apiError(c, http.StatusNotFound, "meal not found")
	case err != nil:
		apiError(c, http.StatusInternalServerError, "failed to update daily log")
	default:
		c.JSON(http.StatusOK, dailyLogView{dailyLog: lg, Targets: h.targetsFor(c, c.GetInt("user_id"))})
	}
}

// addMealToLog appends a meal entry to the day's log.
// POST /api/logs/:date/meals.
func (h *Handler) addMealToLog(c *gin.Context) {
	userID := c.GetInt("user_id")
	date := c.Param("date")
	if _, err := time.Parse(isoDate, date); err != nil {
		apiError(c, http.StatusBadRequest, "invalid date, expected YYYY-MM-DD")
		return
	}

	var body mealEntryRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		apiError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if body.Name == "" {
		apiError(c, http.StatusBadRequest, "name is required")
		return
	}
	if !validMealTypes[body.Type] {
		apiError(c, http.StatusBadRequest, "type must be one of: breakfast, lunch, dinner, snack")
		return
	}

	entry := mealEntry{
		ID:       uuid.New().String(),
		Type:     body.Type,
		Name:     body.Name,
		Calories: body.Calories,
		Quantity: body.Quantity,
		Macros:   body.Macros,
		RecipeID: body.RecipeID,
	}

	lg, err := h.mutateDailyLog(c, userID, date, func(lg dailyLog) (dailyLog, error) {
		return addMeal(lg, entry)
	})
	h.respondLogMutation(c, lg, err)
}

// updateMealInLog replaces a meal entry in place, preserving its id.
// PUT /api/logs/:date/meals/:id. 404 if the id is not in the log.
func (h *Handler) updateMealInLog(c *gin.Context) {
	userID := c.GetInt("user_id")
	date := c.Param("date")
	id := c.Param("id")
	if _, err := time.Parse(isoDate, date); err != nil {
		apiError(c, http.StatusBadRequest, "invalid date, expected YYYY-MM-DD")
		return
	}

	var body mealEntryRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		apiError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if body.Name == "" {
		apiError(c, http.StatusBadRequest, "name is required")
		return
	}
	if !validMealTypes[body.Type] {
		apiError(c, http.StatusBadRequest, "type must be one of: breakfast, lunch, dinner, snack")
		return
	}

	entry := mealEntry{
		ID:       id,
		Type:     body.Type,
		Name:     body.Name,
		Calories: body.Calories,
		Quantity: body.Quantity,
		Macros:   body.Macros,
		RecipeID: body.RecipeID,
	}

	lg, err := h.mutateDailyLog(c, userID, date, func(lg dailyLog) (dailyLog, error) {
		return updateMeal(lg, entry)
	})
	h.respondLogMutation(c, lg, err)
}

// removeMealFromLog deletes a meal entry by id. Idempotent: deleting an id
// that isn't in the log still succeeds.
// DELETE /api/logs/:date/meals/:id.
func (h *Handler) removeMealFromLog(c *gin.Context) {
	userID := c.GetInt("user_id")
	date := c.Param("date")
	id := c.Param("id")
	if _, err := time.Parse(isoDate, date); err != nil {
		apiError(c, http.StatusBadRequest, "invalid date, expected YYYY-MM-DD")
		return
	}

	lg, err := h.mutateDailyLog(c, userID, date, func(lg dailyLog) (dailyLog, error) {
		return removeMeal(lg, id), nil
	})
	h.respondLogMutation(c, lg, err)
}

// setWaterForLog sets the day's water intake in ml, clamped to >= 0.
// PUT /api/logs/:date/water. Body: { "water": 1500 }.
func (h *Handler) setWaterForLog(c *gin.Context) {
	userID := c.GetInt("user_id")
	date := c.Param("date")
	if _, err := time.Parse(isoDate, date); err != nil {
		apiError(c, http.StatusBadRequest, "invalid date, expected YYYY-MM-DD")
		return
	}

	var body struct {
		Water int `json:"water"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		apiError(c, http.StatusBadRequest, "invalid request body")
		return
	}

	lg, err := h.mutateDailyLog(c, userID, date, func(lg dailyLog) (dailyLog, error) {
		return setWater(lg, body.Water), nil
	})
	h.respondLogMutation(c, lg, err)
}
