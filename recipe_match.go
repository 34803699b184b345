package main

import (
	"math"
	"strings"
)

// annotateRecipe fills MissingIngredients and MatchPercentage on a recipe by
// comparing its ingredient lines against the pantry. Pure and total: an empty
// ingredient list yields 0%, never a division by zero.
//
// The matching is a deliberately loose substring heuristic: an ingredient line
// ("2 eggs, beaten") counts as present when the lowercased, trimmed line
// contains any lowercased, trimmed pantry item name. False positives like a
// pantry "pea" matching "peanut butter" are accepted app behavior, not a bug —
// the feed is a suggestion surface, not an inventory check.
func annotateRecipe(r recipe, pantry []pantryItem) recipe {
	names := make([]string, 0, len(pantry))
	for _, item := range pantry {
		n := strings.ToLower(strings.TrimSpace(item.Name))
		if n != "" {
			names = append(names, n)
		}
	}

	missing := []string{}
	present := 0
	for _, line := range r.Ingredients {
		needle := strings.ToLower(strings.TrimSpace(line))
		found := false
		for _, n := range names {
			if strings.Contains(needle, n) {
				found = true
				break
			}
		}
		if found {
			present++
		} else {
			missing = append(missing, line)
		}
	}

	r.MissingIngredients = missing
	if len(r.Ingredients) == 0 {
		r.MatchPercentage = 0
	} else {
		r.MatchPercentage = int(math.Round(100 * float64(present) / float64(len(r.Ingredients))))
	}
	return r
}

// annotateRecipes annotates a batch against the same pantry.
func annotateRecipes(recipes []recipe, pantry []pantryItem) []recipe {
	out := make([]recipe, len(recipes))
	for i, r := range recipes {
		out[i] = annotateRecipe(r, pantry)
	}
	return out
}
