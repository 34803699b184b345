package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

// foodProduct is the nutrition-facts snapshot returned by food lookup:
// calories and macros per 100g plus the declared serving size. This is the
// shape the pantry and journal screens consume; any per-quantity scaling
// happens client-side.
type foodProduct struct {
	Barcode     string  `json:"barcode,omitempty"`
	Name        string  `json:"name"`
	Brand       string  `json:"brand,omitempty"`
	Image       string  `json:"image,omitempty"`
	Calories    float64 `json:"calories"`
	Protein     float64 `json:"protein"`
	Carbs       float64 `json:"carbs"`
	Fats        float64 `json:"fats"`
	ServingSize float64 `json:"serving_size"`
	Unit        string  `json:"unit"`
}

// localCatalog is a small static product set consulted before the remote
// lookup, so a handful of everyday items resolve instantly and offline.
// Values are per 100g.
var localCatalog = map[string]foodProduct{
	"egg":            {Name: "Egg", Calories: 155, Protein: 13, Carbs: 1.1, Fats: 11, ServingSize: 50, Unit: "g"},
	"whole milk":     {Name: "Whole Milk", Calories: 61, Protein: 3.2, Carbs: 4.8, Fats: 3.3, ServingSize: 250, Unit: "g"},
	"white rice":     {Name: "White Rice", Calories: 130, Protein: 2.7, Carbs: 28, Fats: 0.3, ServingSize: 150, Unit: "g"},
	"chicken breast": {Name: "Chicken Breast", Calories: 165, Protein: 31, Carbs: 0, Fats: 3.6, ServingSize: 120, Unit: "g"},
	"banana":         {Name: "Banana", Calories: 89, Protein: 1.1, Carbs: 23, Fats: 0.3, ServingSize: 118, Unit: "g"},
	"oats":           {Name: "Oats", Calories: 389, Protein: 16.9, Carbs: 66, Fats: 6.9, ServingSize: 40, Unit: "g"},
	"olive oil":      {Name: "Olive Oil", Calories: 884, Protein: 0, Carbs: 0, Fats: 100, ServingSize: 14, Unit: "g"},
	"bread":          {Name: "Bread", Calories: 265, Protein: 9, Carbs: 49, Fats: 3.2, ServingSize: 30, Unit: "g"},
}

/* ─── Open Food Facts client ─────────────────────────────────────────── */

// offProduct is the subset of the Open Food Facts product document we read.
// Nutriments is a loose map because the API mixes numbers and strings.
type offProduct struct {
	Code        string         `json:"code"`
	ProductName string         `json:"product_name"`
	Brands      string         `json:"brands"`
	ImageURL    string         `json:"image_url"`
	ServingQty  float64        `json:"serving_quantity"`
	Nutriments  map[string]any `json:"nutriments"`
}

// nutrientPer100g reads a per-100g nutriment value, tolerating the API's
// habit of encoding numbers as strings.
func nutrientPer100g(n map[string]any, base string) float64 {
	v, ok := n[base+"_100g"]
	if !ok {
		v = n[base+"_serving"]
	}
	switch t := v.(type) {
	case float64:
		return t
	case string:
		var f float64
		fmt.Sscanf(strings.TrimSpace(t), "%f", &f)
		return f
	default:
		return 0
	}
}

// mapOFFProduct converts an Open Food Facts product into our snapshot shape.
func mapOFFProduct(p offProduct) foodProduct {
	serving := p.ServingQty
	if serving <= 0 {
		serving = 100
	}
	return foodProduct{
		Barcode:     p.Code,
		Name:        strings.TrimSpace(p.ProductName),
		Brand:       strings.TrimSpace(p.Brands),
		Image:       p.ImageURL,
		Calories:    nutrientPer100g(p.Nutriments, "energy-kcal"),
		Protein:     nutrientPer100g(p.Nutriments, "proteins"),
		Carbs:       nutrientPer100g(p.Nutriments, "carbohydrates"),
		Fats:        nutrientPer100g(p.Nutriments, "fat"),
		ServingSize: serving,
		Unit:        "g",
	}
}

// lookupBarcode fetches one product by barcode from Open Food Facts.
// found=false (with nil error) means the barcode is simply unknown.
func lookupBarcode(ctx context.Context, baseURL, code string) (foodProduct, bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		fmt.Sprintf("%s/api/v2/product/%s.json", baseURL, url.PathEscape(code)), nil)
	if err != nil {
		return foodProduct{}, false, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", "savr/1.0")

	client := &http.Client{Timeout: 12 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return foodProduct{}, false, fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return foodProduct{}, false, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode == http.StatusNotFound {
		return foodProduct{}, false, nil
	}
	if resp.StatusCode != http.StatusOK {
		return foodProduct{}, false, fmt.Errorf("openfoodfacts returned status %d", resp.StatusCode)
	}

	var parsed struct {
		Status  int        `json:"status"`
		Product offProduct `json:"product"`
	}
	if err := json.Unmarshal(body, &parsed); err != nil {
		return foodProduct{}, false, fmt.Errorf("unmarshal response: %w", err)
	}
	if parsed.Status != 1 || strings.TrimSpace(parsed.Product.ProductName) == "" {
		return foodProduct{}, false, nil
	}
	return mapOFFProduct(parsed.Product), true, nil
}

// searchFoods queries Open Food Facts by name, returning up to limit products
// that carry a usable name.
func searchFoods(ctx context.Context, baseURL, query string, limit int) ([]foodProduct, error) {
	if limit <= 0 {
		limit = 10
	}
	u := fmt.Sprintf("%s/cgi/search.pl?search_terms=%s&search_simple=1&action=process&json=1&page_size=%d",
		baseURL, url.QueryEscape(strings.TrimSpace(query)), limit)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", "savr/1.0")

	client := &http.Client{Timeout: 12 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("openfoodfacts returned status %d", resp.StatusCode)
	}

	var parsed struct {
		Products []offProduct `json:"products"`
	}
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("unmarshal response: %w", err)
	}

	out := []foodProduct{}
	for _, p := range parsed.Products {
		if strings.TrimSpace(p.ProductName) == "" {
			continue
		}
		out = append(out, mapOFFProduct(p))
	}
	return out, nil
}

/* ─── Handlers ───────────────────────────────────────────────────────── */

// searchFoodsHandler searches the local catalog first, then Open Food Facts.
// GET /api/foods/search?q=oats.
func (h *Handler) searchFoodsHandler(c *gin.Context) {
	query := strings.TrimSpace(c.Query("q"))
	if query == "" {
		apiError(c, http.StatusBadRequest, "q query param is required")
		return
	}

	results := []foodProduct{}
	needle := strings.ToLower(query)
	for key, p := range localCatalog {
		if strings.Contains(key, needle) {
			results = append(results, p)
		}
	}

	remote, err := searchFoods(c.Request.Context(), h.foodBaseURL, query, 10)
	if err != nil {
		// The local catalog alone is a degraded but usable answer.
		if len(results) == 0 {
			apiError(c, http.StatusBadGateway, "food search failed")
			return
		}
	} else {
		results = append(results, remote...)
	}

	c.JSON(http.StatusOK, results)
}

// barcodeLookupHandler resolves a scanned barcode to product nutrition facts.
// GET /api/foods/barcode/:code.
func (h *Handler) barcodeLookupHandler(c *gin.Context) {
	code := c.Param("code")

	if p, ok := localCatalog[code]; ok {
		c.JSON(http.StatusOK, p)
		return
	}

	p, found, err := lookupBarcode(c.Request.Context(), h.foodBaseURL, code)
	if err != nil {
		apiError(c, http.StatusBadGateway, "barcode lookup failed")
		return
	}
	if !found {
		apiError(c, http.StatusNotFound, "product not found")
		return
	}
	c.JSON(http.StatusOK, p)
}
