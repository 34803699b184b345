package main

import (
	"math"
	"testing"
)

// makeProfile constructs a fully-populated userProfile for target tests.
// Individual tests zero out fields to exercise the incomplete-profile
// fallback.
func makeProfile(gender, goal string, weightKG, heightCM float64, age int) userProfile {
	return userProfile{
		Name:          "Test User",
		Gender:        gender,
		Goal:          goal,
		WeightKG:      weightKG,
		HeightCM:      heightCM,
		Age:           age,
		ActivityLevel: "light",
	}
}

/* ─── Incomplete-profile fallback tests ──────────────────────────────── */

// TestComputeTargets_IncompleteProfile verifies the documented default target
// set is returned whenever weight, height, or age is missing or non-positive.
func TestComputeTargets_IncompleteProfile(t *testing.T) {
	cases := []struct {
		name  string
		mutFn func(p *userProfile)
	}{
		{"zero weight", func(p *userProfile) { p.WeightKG = 0 }},
		{"zero height", func(p *userProfile) { p.HeightCM = 0 }},
		{"zero age", func(p *userProfile) { p.Age = 0 }},
		{"negative weight", func(p *userProfile) { p.WeightKG = -70 }},
		{"negative age", func(p *userProfile) { p.Age = -1 }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := makeProfile("male", "maintain", 75, 175, 30)
			tc.mutFn(&p)
			got := computeTargets(p)
			if got != defaultTargets {
				t.Errorf("computeTargets = %+v, want default set %+v", got, defaultTargets)
			}
		})
	}
}

/* ─── Known-value tests ──────────────────────────────────────────────── */

// TestComputeTargets_MaleWeightLoss walks the full formula for a known
// profile: BMR = 10*75 + 6.25*175 - 5*30 + 5 = 1698.75, TDEE = 1698.75*1.375
// = 2335.78, minus the 500 kcal weight-loss deficit = 1835.78.
func TestComputeTargets_MaleWeightLoss(t *testing.T) {
	p := makeProfile("male", "weight_loss", 75, 175, 30)
	got := computeTargets(p)

	want := nutritionTargets{Calories: 1836, Protein: 138, Carbs: 184, Fats: 61, Water: 2625}
	if got != want {
		t.Errorf("computeTargets = %+v, want %+v", got, want)
	}
}

// TestComputeTargets_FemaleOffset verifies the -161 Mifflin-St Jeor constant:
// the female target sits 166*1.375 = 228.25 kcal below the male target for
// otherwise identical profiles, which lands on 229 after each side rounds
// (2342.66 -> 2343 vs 2114.41 -> 2114).
func TestComputeTargets_FemaleOffset(t *testing.T) {
	male := computeTargets(makeProfile("male", "maintain", 75, 175, 30))
	female := computeTargets(makeProfile("female", "maintain", 75, 175, 30))

	diff := male.Calories - female.Calories
	if diff != 229 {
		t.Errorf("male - female calorie gap = %d, want 229", diff)
	}
}

// TestComputeTargets_OtherGenderUsesFemaleOffset pins the shipped behavior:
// "other" takes the female constant.
func TestComputeTargets_OtherGenderUsesFemaleOffset(t *testing.T) {
	female := computeTargets(makeProfile("female", "maintain", 75, 175, 30))
	other := computeTargets(makeProfile("other", "maintain", 75, 175, 30))
	if female != other {
		t.Errorf("other-gender targets %+v differ from female targets %+v", other, female)
	}
}

// TestComputeTargets_GoalAdjustments verifies the -500/+300/0 calorie
// adjustments relative to the maintain target.
func TestComputeTargets_GoalAdjustments(t *testing.T) {
	base := computeTargets(makeProfile("male", "maintain", 75, 175, 30)).Calories

	cases := []struct {
		goal string
		want int
	}{
		{"weight_loss", base - 500},
		{"muscle_gain", base + 300},
		{"balanced", base},
		{"maintain", base},
	}
	for _, tc := range cases {
		t.Run(tc.goal, func(t *testing.T) {
			got := computeTargets(makeProfile("male", tc.goal, 75, 175, 30)).Calories
			if got != tc.want {
				t.Errorf("calories for goal %s = %d, want %d", tc.goal, got, tc.want)
			}
		})
	}
}

/* ─── Property tests ─────────────────────────────────────────────────── */

// TestComputeTargets_MacroCalorieConsistency checks that the macro split adds
// back up to the calorie target across a spread of profiles. The calories and
// each macro round independently, so the worst case is about half a gram of
// fat (4.5 kcal) plus half a gram each of protein and carbs (2+2) plus the
// calorie rounding itself — ±9 kcal.
func TestComputeTargets_MacroCalorieConsistency(t *testing.T) {
	profiles := []userProfile{
		makeProfile("male", "maintain", 75, 175, 30),
		makeProfile("female", "weight_loss", 58, 162, 24),
		makeProfile("other", "muscle_gain", 92, 188, 41),
		makeProfile("male", "balanced", 120, 170, 55),
		makeProfile("female", "maintain", 45, 150, 19),
	}

	for _, p := range profiles {
		got := computeTargets(p)
		fromMacros := got.Protein*4 + got.Carbs*4 + got.Fats*9
		if math.Abs(float64(fromMacros-got.Calories)) > 9 {
			t.Errorf("profile %s/%s: macros give %d kcal, target is %d (tolerance ±9)",
				p.Gender, p.Goal, fromMacros, got.Calories)
		}
	}
}

// TestComputeTargets_CustomMacrosOverride verifies that customMacros replaces
// the 30/40/30 split entirely while the calorie and water targets stay
// formula-derived.
func TestComputeTargets_CustomMacrosOverride(t *testing.T) {
	p := makeProfile("male", "maintain", 75, 175, 30)
	base := computeTargets(p)

	p.CustomMacros = &macroSet{Protein: 180, Carbs: 120, Fats: 70}
	got := computeTargets(p)

	if got.Protein != 180 || got.Carbs != 120 || got.Fats != 70 {
		t.Errorf("custom macros not applied: got %+v", got)
	}
	if got.Calories != base.Calories {
		t.Errorf("calories changed under custom macros: %d, want %d", got.Calories, base.Calories)
	}
	if got.Water != base.Water {
		t.Errorf("water changed under custom macros: %d, want %d", got.Water, base.Water)
	}
}

// TestComputeTargets_WaterScalesWithWeight verifies water = weight * 35 ml.
func TestComputeTargets_WaterScalesWithWeight(t *testing.T) {
	cases := []struct {
		weight float64
		want   int
	}{
		{75, 2625},
		{60, 2100},
		{82.4, 2884},
	}
	for _, tc := range cases {
		got := computeTargets(makeProfile("male", "maintain", tc.weight, 175, 30)).Water
		if got != tc.want {
			t.Errorf("water for %.1f kg = %d, want %d", tc.weight, got, tc.want)
		}
	}
}
