package main

import "testing"

// scannedEggs is a pantry item enriched by a barcode scan; the merge tests
// check which of its details survive a later plain re-add.
func scannedEggs() pantryItem {
	return pantryItem{
		ID:          "item-1",
		UserID:      1,
		Name:        "eggs",
		Quantity:    "12",
		IsSelected:  true,
		IsScanned:   true,
		Brand:       "Happy Hens",
		Image:       "https://img.example/eggs.jpg",
		Nutrition:   nutritionFacts{Calories: 155, Protein: 13, Carbs: 1.1, Fats: 11},
		ServingSize: 50,
		Unit:        "g",
	}
}

// TestMergePantryItem_BareReAdd: re-adding "eggs" with no details must not
// wipe the scanned nutrition snapshot. Only selection is taken verbatim.
func TestMergePantryItem_BareReAdd(t *testing.T) {
	existing := scannedEggs()
	incoming := pantryItem{Name: "Eggs", IsSelected: true}

	got := mergePantryItem(existing, incoming)

	if got.ID != "item-1" || got.Name != "eggs" {
		t.Errorf("id/name not preserved: %+v", got)
	}
	if got.Nutrition != existing.Nutrition || got.ServingSize != 50 || got.Unit != "g" {
		t.Errorf("nutrition snapshot wiped by bare re-add: %+v", got)
	}
	if got.Brand != "Happy Hens" || got.Image == "" || got.Quantity != "12" {
		t.Errorf("scan details wiped by bare re-add: %+v", got)
	}
	if !got.IsScanned {
		t.Error("is_scanned lost on merge")
	}
}

// TestMergePantryItem_TakesNewDetails: fields the incoming item actually
// carries overwrite the existing values.
func TestMergePantryItem_TakesNewDetails(t *testing.T) {
	existing := scannedEggs()
	incoming := pantryItem{
		Name:        "Eggs",
		Quantity:    "6",
		Brand:       "Farm Fresh",
		Nutrition:   nutritionFacts{Calories: 150, Protein: 12.5, Carbs: 1, Fats: 10.5},
		ServingSize: 55,
	}

	got := mergePantryItem(existing, incoming)

	if got.Quantity != "6" || got.Brand != "Farm Fresh" {
		t.Errorf("incoming details not applied: %+v", got)
	}
	if got.Nutrition.Calories != 150 || got.ServingSize != 55 {
		t.Errorf("incoming nutrition not applied: %+v", got)
	}
}

// TestMergePantryItem_SelectionTaken: the incoming selection always wins —
// re-adding a deselected item with is_selected true reactivates it.
func TestMergePantryItem_SelectionTaken(t *testing.T) {
	existing := scannedEggs()
	existing.IsSelected = false

	got := mergePantryItem(existing, pantryItem{Name: "eggs", IsSelected: true})
	if !got.IsSelected {
		t.Error("selection not taken from incoming item")
	}

	got = mergePantryItem(got, pantryItem{Name: "eggs", IsSelected: false})
	if got.IsSelected {
		t.Error("deselection not taken from incoming item")
	}
}

// TestMergePantryItem_ScannedIsSticky: a manual re-add never clears the
// scanned flag, but a scan over a manual item sets it.
func TestMergePantryItem_ScannedIsSticky(t *testing.T) {
	manual := pantryItem{ID: "item-2", Name: "milk", IsSelected: true}

	scanned := mergePantryItem(manual, pantryItem{Name: "milk", IsScanned: true, IsSelected: true})
	if !scanned.IsScanned {
		t.Error("scan did not set is_scanned")
	}

	after := mergePantryItem(scanned, pantryItem{Name: "milk", IsSelected: true})
	if !after.IsScanned {
		t.Error("manual re-add cleared is_scanned")
	}
}
