package main

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// pantryItemRequest is the request body for adding or updating a pantry item.
type pantryItemRequest struct {
	Name        string         `json:"name"`
	Quantity    string         `json:"quantity"`
	IsSelected  *bool          `json:"is_selected"`
	IsScanned   bool           `json:"is_scanned"`
	Brand       string         `json:"brand"`
	Image       string         `json:"image"`
	Nutrition   nutritionFacts `json:"nutrition"`
	ServingSize float64        `json:"serving_size"`
	Unit        string         `json:"unit"`
}

// mergePantryItem folds an incoming duplicate-named item into the existing
// one. The existing id and name are kept; quantity, selection, and nutrition
// take the incoming values where the incoming item actually carries them, so
// a bare re-add ("eggs" again, no details) doesn't wipe a scanned item's
// nutrition snapshot.
func mergePantryItem(existing pantryItem, incoming pantryItem) pantryItem {
	if incoming.Quantity != "" {
		existing.Quantity = incoming.Quantity
	}
	existing.IsSelected = incoming.IsSelected
	if incoming.IsScanned {
		existing.IsScanned = true
	}
	if incoming.Brand != "" {
		existing.Brand = incoming.Brand
	}
	if incoming.Image != "" {
		existing.Image = incoming.Image
	}
	if incoming.Nutrition != (nutritionFacts{}) {
		existing.Nutrition = incoming.Nutrition
	}
	if incoming.ServingSize > 0 {
		existing.ServingSize = incoming.ServingSize
	}
	if incoming.Unit != "" {
		existing.Unit = incoming.Unit
	}
	return existing
}

// listPantry returns all pantry items for the user, newest first.
// GET /api/pantry.
func (h *Handler) listPantry(c *gin.Context) {
	userID := c.GetInt("user_id")

	items, err := queryMany[pantryItem](h.db, c,
		"SELECT * FROM pantry_items WHERE user_id = @userID ORDER BY created_at DESC",
		pgx.NamedArgs{"userID": userID})
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to fetch pantry")
		return
	}
	if items == nil {
		items = []pantryItem{}
	}
	c.JSON(http.StatusOK, items)
}

// addPantryItem creates a pantry item, or merges into an existing one when a
// case-insensitive duplicate name already exists. Names are unique per pantry;
// re-adding "Eggs" over "eggs" updates the existing row instead of creating a
// second entry.
// POST /api/pantry. Returns 201 on create, 200 on merge.
func (h *Handler) addPantryItem(c *gin.Context) {
	userID := c.GetInt("user_id")

	var body pantryItemRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		apiError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	body.Name = strings.TrimSpace(body.Name)
	if body.Name == "" {
		apiError(c, http.StatusBadRequest, "name is required")
		return
	}
	if body.Unit != "" && body.Unit != "g" && body.Unit != "portion" {
		apiError(c, http.StatusBadRequest, "unit must be one of: g, portion")
		return
	}

	selected := true
	if body.IsSelected != nil {
		selected = *body.IsSelected
	}
	incoming := pantryItem{
		UserID:      userID,
		Name:        body.Name,
		Quantity:    body.Quantity,
		IsSelected:  selected,
		IsScanned:   body.IsScanned,
		Brand:       body.Brand,
		Image:       body.Image,
		Nutrition:   body.Nutrition,
		ServingSize: body.ServingSize,
		Unit:        body.Unit,
	}

	tx, err := h.db.Begin(c)
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to add pantry item")
		return
	}
	defer tx.Rollback(c)

	existing, err := queryOne[pantryItem](tx, c,
		"SELECT * FROM pantry_items WHERE user_id = @userID AND lower(name) = lower(@name) FOR UPDATE",
		pgx.NamedArgs{"userID": userID, "name": body.Name})
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		apiError(c, http.StatusInternalServerError, "failed to add pantry item")
		return
	}

	if err == nil {
		merged := mergePantryItem(existing, incoming)
		saved, err := h.writePantryItem(tx, c, merged)
		if err != nil {
			apiError(c, http.StatusInternalServerError, "failed to merge pantry item")
			return
		}
		if err := tx.Commit(c); err != nil {
			apiError(c, http.StatusInternalServerError, "failed to merge pantry item")
			return
		}
		c.JSON(http.StatusOK, saved)
		return
	}

	incoming.ID = uuid.New().String()
	nutritionJSON, _ := json.Marshal(incoming.Nutrition)
	item, err := queryOne[pantryItem](tx, c,
		`INSERT INTO pantry_items (id, user_id, name, quantity, is_selected, is_scanned, brand, image, nutrition, serving_size, unit)
		 VALUES (@id, @userID, @name, @quantity, @isSelected, @isScanned, @brand, @image, @nutrition, @servingSize, @unit)
		 RETURNING *`,
		pgx.NamedArgs{
			"id": incoming.ID, "userID": userID, "name": incoming.Name,
			"quantity": incoming.Quantity, "isSelected": incoming.IsSelected,
			"isScanned": incoming.IsScanned, "brand": incoming.Brand,
			"image": incoming.Image, "nutrition": string(nutritionJSON),
			"servingSize": incoming.ServingSize, "unit": incoming.Unit,
		})
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to add pantry item")
		return
	}
	if err := tx.Commit(c); err != nil {
		apiError(c, http.StatusInternalServerError, "failed to add pantry item")
		return
	}

	c.JSON(http.StatusCreated, item)
}

// writePantryItem persists all mutable fields of an existing pantry item.
func (h *Handler) writePantryItem(q querier, c *gin.Context, item pantryItem) (pantryItem, error) {
	nutritionJSON, err := json.Marshal(item.Nutrition)
	if err != nil {
		return pantryItem{}, err
	}
	return queryOne[pantryItem](q, c,
		`UPDATE pantry_items SET
			quantity = @quantity,
			is_selected = @isSelected,
			is_scanned = @isScanned,
			brand = @brand,
			image = @image,
			nutrition = @nutrition,
			serving_size = @servingSize,
			unit = @unit
		 WHERE id = @id AND user_id = @userID
		 RETURNING *`,
		pgx.NamedArgs{
			"id": item.ID, "userID": item.UserID,
			"quantity": item.Quantity, "isSelected": item.IsSelected,
			"isScanned": item.IsScanned, "brand": item.Brand,
			"image": item.Image, "nutrition": string(nutritionJSON),
			"servingSize": item.ServingSize, "unit": item.Unit,
		})
}

// updatePantryItem edits an existing pantry item in place.
// PUT /api/pantry/:id.
func (h *Handler) updatePantryItem(c *gin.Context) {
	userID := c.GetInt("user_id")
	id := c.Param("id")

	var body pantryItemRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		apiError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if body.Unit != "" && body.Unit != "g" && body.Unit != "portion" {
		apiError(c, http.StatusBadRequest, "unit must be one of: g, portion")
		return
	}

	existing, err := queryOne[pantryItem](h.db, c,
		"SELECT * FROM pantry_items WHERE id = @id AND user_id = @userID",
		pgx.NamedArgs{"id": id, "userID": userID})
	if errors.Is(err, pgx.ErrNoRows) {
		apiError(c, http.StatusNotFound, "pantry item not found")
		return
	}
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to update pantry item")
		return
	}

	if name := strings.TrimSpace(body.Name); name != "" {
		existing.Name = name
	}
	existing.Quantity = body.Quantity
	if body.IsSelected != nil {
		existing.IsSelected = *body.IsSelected
	}
	existing.IsScanned = body.IsScanned
	existing.Brand = body.Brand
	existing.Image = body.Image
	existing.Nutrition = body.Nutrition
	existing.ServingSize = body.ServingSize
	existing.Unit = body.Unit

	// Renames must not collide with another item's name (case-insensitive).
	nutritionJSON, _ := json.Marshal(existing.Nutrition)
	item, err := queryOne[pantryItem](h.db, c,
		`UPDATE pantry_items SET
			name = @name, quantity = @quantity, is_selected = @isSelected,
			is_scanned = @isScanned, brand = @brand, image = @image,
			nutrition = @nutrition, serving_size = @servingSize, unit = @unit
		 WHERE id = @id AND user_id = @userID
			AND NOT EXISTS (
				SELECT 1 FROM pantry_items
				WHERE user_id = @userID AND lower(name) = lower(@name) AND id != @id)
		 RETURNING *`,
		pgx.NamedArgs{
			"id": id, "userID": userID, "name": existing.Name,
			"quantity": existing.Quantity, "isSelected": existing.IsSelected,
			"isScanned": existing.IsScanned, "brand": existing.Brand,
			"image": existing.Image, "nutrition": string(nutritionJSON),
			"servingSize": existing.ServingSize, "unit": existing.Unit,
		})
	if errors.Is(err, pgx.ErrNoRows) {
		apiError(c, http.StatusConflict, "another pantry item already has that name")
		return
	}
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to update pantry item")
		return
	}

	c.JSON(http.StatusOK, item)
}

// setPantryItemSelected toggles whether the item is included in the next
// recipe generation.
// PUT /api/pantry/:id/selected. Body: { "is_selected": false }.
func (h *Handler) setPantryItemSelected(c *gin.Context) {
	userID := c.GetInt("user_id")
	id := c.Param("id")

	var body struct {
		IsSelected bool `json:"is_selected"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		apiError(c, http.StatusBadRequest, "invalid request body")
		return
	}

	item, err := queryOne[pantryItem](h.db, c,
		`UPDATE pantry_items SET is_selected = @isSelected
		 WHERE id = @id AND user_id = @userID RETURNING *`,
		pgx.NamedArgs{"id": id, "userID": userID, "isSelected": body.IsSelected})
	if errors.Is(err, pgx.ErrNoRows) {
		apiError(c, http.StatusNotFound, "pantry item not found")
		return
	}
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to update pantry item")
		return
	}

	c.JSON(http.StatusOK, item)
}

// deletePantryItem removes a pantry item. Returns 204 on success.
// DELETE /api/pantry/:id.
func (h *Handler) deletePantryItem(c *gin.Context) {
	userID := c.GetInt("user_id")
	id := c.Param("id")

	result, err := h.db.Exec(c,
		"DELETE FROM pantry_items WHERE id = @id AND user_id = @userID",
		pgx.NamedArgs{"id": id, "userID": userID})
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to delete pantry item")
		return
	}
	if result.RowsAffected() == 0 {
		apiError(c, http.StatusNotFound, "pantry item not found")
		return
	}

	c.Status(http.StatusNoContent)
}
