package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

/* ─── Nutriment mapping tests ────────────────────────────────────────── */

// TestNutrientPer100g tolerates the mixed number/string encoding of the Open
// Food Facts nutriments map.
func TestNutrientPer100g(t *testing.T) {
	n := map[string]any{
		"energy-kcal_100g":   float64(389),
		"proteins_100g":      "16.9",
		"fat_serving":        float64(2.8),
		"carbohydrates_100g": nil,
	}

	cases := []struct {
		base string
		want float64
	}{
		{"energy-kcal", 389},
		{"proteins", 16.9}, // string-encoded
		{"fat", 2.8},       // falls back to _serving
		{"carbohydrates", 0},
		{"fiber", 0}, // absent entirely
	}
	for _, tc := range cases {
		if got := nutrientPer100g(n, tc.base); got != tc.want {
			t.Errorf("nutrientPer100g(%q) = %v, want %v", tc.base, got, tc.want)
		}
	}
}

// TestMapOFFProduct_DefaultServing: products without a declared serving
// quantity fall back to 100g.
func TestMapOFFProduct_DefaultServing(t *testing.T) {
	got := mapOFFProduct(offProduct{
		Code:        "123",
		ProductName: "  Rolled Oats ",
		Brands:      "Acme",
		Nutriments:  map[string]any{"energy-kcal_100g": float64(389)},
	})
	if got.ServingSize != 100 {
		t.Errorf("serving size = %v, want 100 fallback", got.ServingSize)
	}
	if got.Name != "Rolled Oats" || got.Calories != 389 || got.Unit != "g" {
		t.Errorf("mapped product wrong: %+v", got)
	}
}

/* ─── Barcode lookup tests ───────────────────────────────────────────── */

const offProductResponse = `{
	"status": 1,
	"product": {
		"code": "737628064502",
		"product_name": "Rice Noodles",
		"brands": "Thai Kitchen",
		"serving_quantity": 55,
		"nutriments": {
			"energy-kcal_100g": 385,
			"proteins_100g": 7.7,
			"carbohydrates_100g": 78.8,
			"fat_100g": 3.8
		}
	}
}`

// TestLookupBarcode_Found fetches and maps a known product from a mock
// Open Food Facts server.
func TestLookupBarcode_Found(t *testing.T) {
	mock := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v2/product/737628064502.json" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(offProductResponse))
	}))
	defer mock.Close()

	p, found, err := lookupBarcode(context.Background(), mock.URL, "737628064502")
	if err != nil {
		t.Fatalf("lookupBarcode: %v", err)
	}
	if !found {
		t.Fatal("found = false, want true")
	}
	if p.Name != "Rice Noodles" || p.Calories != 385 || p.ServingSize != 55 {
		t.Errorf("product = %+v", p)
	}
}

// TestLookupBarcode_UnknownCode: status 0 means not found, not an error.
func TestLookupBarcode_UnknownCode(t *testing.T) {
	mock := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status": 0}`))
	}))
	defer mock.Close()

	_, found, err := lookupBarcode(context.Background(), mock.URL, "000")
	if err != nil {
		t.Fatalf("lookupBarcode: %v", err)
	}
	if found {
		t.Error("found = true for unknown barcode")
	}
}

// TestLookupBarcode_UpstreamError: a 5xx from the API is an error, so the
// handler can answer 502 instead of a false 404.
func TestLookupBarcode_UpstreamError(t *testing.T) {
	mock := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer mock.Close()

	if _, _, err := lookupBarcode(context.Background(), mock.URL, "123"); err == nil {
		t.Error("expected error for upstream 500")
	}
}

/* ─── Search tests ───────────────────────────────────────────────────── */

// TestSearchFoods_SkipsNamelessProducts: entries without a product name are
// filtered out of search results.
func TestSearchFoods_SkipsNamelessProducts(t *testing.T) {
	mock := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("search_terms"); got != "oats" {
			t.Errorf("search_terms = %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"products": [
			{"product_name": "Rolled Oats", "nutriments": {"energy-kcal_100g": 389}},
			{"product_name": "  ", "nutriments": {}}
		]}`))
	}))
	defer mock.Close()

	got, err := searchFoods(context.Background(), mock.URL, "oats", 10)
	if err != nil {
		t.Fatalf("searchFoods: %v", err)
	}
	if len(got) != 1 || got[0].Name != "Rolled Oats" {
		t.Errorf("results = %+v, want just Rolled Oats", got)
	}
}

/* ─── Local catalog tests ────────────────────────────────────────────── */

// TestLocalCatalog_Shape: every static entry has a name, calories, and a
// positive serving size — the fields the pantry screen relies on.
func TestLocalCatalog_Shape(t *testing.T) {
	if len(localCatalog) == 0 {
		t.Fatal("local catalog is empty")
	}
	for key, p := range localCatalog {
		if p.Name == "" || p.Calories <= 0 || p.ServingSize <= 0 || p.Unit != "g" {
			t.Errorf("catalog entry %q malformed: %+v", key, p)
		}
	}
}
