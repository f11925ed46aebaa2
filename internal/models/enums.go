// ABOUTME: String-typed enums shared across the data model.
// ABOUTME: Sources, session/meal types, intensities, digest and goal kinds.
package models

// Source identifies where a record came from.
type Source string

const (
	SourceManual      Source = "manual"
	SourceAgent       Source = "agent"
	SourceAppleHealth Source = "apple_health"
	SourceOura        Source = "oura"
	SourceFit         Source = "fit"
)

// AllSources returns all valid sources.
var AllSources = []Source{SourceManual, SourceAgent, SourceAppleHealth, SourceOura, SourceFit}

// IsValidSource checks if a source value is valid.
func IsValidSource(s string) bool {
	for _, v := range AllSources {
		if string(v) == s {
			return true
		}
	}
	return false
}

// Automated reports whether the source is a provider import rather than
// a human entry. Automated rows never overwrite manual ones.
func (s Source) Automated() bool {
	return s == SourceAppleHealth || s == SourceOura || s == SourceFit
}

// SessionType categorizes a workout.
type SessionType string

const (
	SessionStrength    SessionType = "strength"
	SessionCardio      SessionType = "cardio"
	SessionFlexibility SessionType = "flexibility"
)

// AllSessionTypes returns all valid session types.
var AllSessionTypes = []SessionType{SessionStrength, SessionCardio, SessionFlexibility}

// IsValidSessionType checks if a session type value is valid.
func IsValidSessionType(s string) bool {
	for _, v := range AllSessionTypes {
		if string(v) == s {
			return true
		}
	}
	return false
}

// MealType categorizes a food entry.
type MealType string

const (
	MealBreakfast MealType = "breakfast"
	MealLunch     MealType = "lunch"
	MealDinner    MealType = "dinner"
	MealSnack     MealType = "snack"
	MealDrink     MealType = "drink"
	MealGeneric   MealType = "meal"
)

// AllMealTypes returns all valid meal types.
var AllMealTypes = []MealType{MealBreakfast, MealLunch, MealDinner, MealSnack, MealDrink, MealGeneric}

// IsValidMealType checks if a meal type value is valid.
func IsValidMealType(s string) bool {
	for _, v := range AllMealTypes {
		if string(v) == s {
			return true
		}
	}
	return false
}

// AlcoholType categorizes an alcoholic drink.
type AlcoholType string

const (
	AlcoholBeer     AlcoholType = "beer"
	AlcoholWine     AlcoholType = "wine"
	AlcoholSpirits  AlcoholType = "spirits"
	AlcoholCocktail AlcoholType = "cocktail"
)

// AllAlcoholTypes returns all valid alcohol types.
var AllAlcoholTypes = []AlcoholType{AlcoholBeer, AlcoholWine, AlcoholSpirits, AlcoholCocktail}

// IsValidAlcoholType checks if an alcohol type value is valid.
func IsValidAlcoholType(s string) bool {
	for _, v := range AllAlcoholTypes {
		if string(v) == s {
			return true
		}
	}
	return false
}

// Intensity is the recommended effort level in a training suggestion.
type Intensity string

const (
	IntensityRest     Intensity = "rest"
	IntensityEasy     Intensity = "easy"
	IntensityModerate Intensity = "moderate"
	IntensityFull     Intensity = "full"
)

// DigestType distinguishes daily from weekly coaching digests.
type DigestType string

const (
	DigestDaily  DigestType = "daily"
	DigestWeekly DigestType = "weekly"
)

// IsValidDigestType checks if a digest type value is valid.
func IsValidDigestType(s string) bool {
	return s == string(DigestDaily) || s == string(DigestWeekly)
}

// GoalType distinguishes goals with a numeric target from directional ones.
type GoalType string

const (
	GoalTarget      GoalType = "target"
	GoalDirectional GoalType = "directional"
)

// IsValidGoalType checks if a goal type value is valid.
func IsValidGoalType(s string) bool {
	return s == string(GoalTarget) || s == string(GoalDirectional)
}

// Direction is the desired trend for a directional goal.
type Direction string

const (
	DirectionUp   Direction = "up"
	DirectionDown Direction = "down"
)

// IsValidDirection checks if a direction value is valid.
func IsValidDirection(s string) bool {
	return s == string(DirectionUp) || s == string(DirectionDown)
}
