// ABOUTME: Opaque food estimator contract for photo/description logging.
// ABOUTME: Ships a deterministic keyword heuristic as the offline fallback.
package vision

import (
	"context"
	"errors"
	"strings"
)

// ErrEstimatorUnavailable is returned when the configured estimator
// cannot serve a request, e.g. the vision backend is unreachable.
var ErrEstimatorUnavailable = errors.New("food estimator unavailable")

// Analysis methods reported alongside an estimate.
const (
	MethodHeuristic = "heuristic"
	MethodVision    = "vision"
)

// Request describes the food to estimate.
type Request struct {
	Description string
	PhotoURL    string
	Servings    float64
}

// Estimate is a nutrition guess for one request, scaled by servings.
type Estimate struct {
	Name       string  `json:"name"`
	Calories   float64 `json:"calories"`
	ProteinG   float64 `json:"protein_g"`
	CarbsG     float64 `json:"carbs_g"`
	FatG       float64 `json:"fat_g"`
	FiberG     float64 `json:"fiber_g"`
	SodiumMg   float64 `json:"sodium_mg"`
	Method     string  `json:"analysis_method"`
	Confidence float64 `json:"analysis_confidence"`
}

// Estimator produces nutrition estimates from a description and an
// optional photo. Implementations return ErrEstimatorUnavailable when
// they cannot serve the request.
type Estimator interface {
	Estimate(ctx context.Context, req Request) (*Estimate, error)
}

// foodProfile is a per-serving macro profile matched by keyword.
type foodProfile struct {
	keyword  string
	calories float64
	protein  float64
	carbs    float64
	fat      float64
	fiber    float64
	sodium   float64
}

// Ordered so multi-word keywords match before their parts.
var foodProfiles = []foodProfile{
	{"protein shake", 220, 32, 12, 5, 1, 180},
	{"protein bar", 210, 20, 22, 8, 3, 150},
	{"greek yogurt", 150, 15, 9, 5, 0, 65},
	{"chicken", 280, 35, 0, 12, 0, 420},
	{"salmon", 350, 34, 0, 22, 0, 380},
	{"steak", 450, 40, 0, 30, 0, 400},
	{"eggs", 180, 13, 1, 12, 0, 180},
	{"salad", 150, 3, 12, 9, 4, 220},
	{"oatmeal", 300, 10, 54, 5, 8, 150},
	{"rice", 220, 4, 45, 1, 1, 10},
	{"pasta", 400, 14, 65, 9, 4, 350},
	{"sandwich", 420, 20, 42, 18, 3, 850},
	{"burger", 600, 30, 45, 32, 2, 950},
	{"pizza", 560, 24, 60, 24, 3, 1200},
	{"burrito", 650, 28, 70, 26, 8, 1100},
	{"soup", 220, 10, 24, 8, 3, 900},
	{"smoothie", 250, 6, 50, 3, 5, 60},
	{"beer", 150, 1, 13, 0, 0, 10},
	{"wine", 125, 0, 4, 0, 0, 5},
	{"coffee", 5, 0, 1, 0, 0, 5},
}

// Unrecognized foods get a generic mixed-meal guess.
var defaultProfile = foodProfile{"", 400, 18, 40, 16, 4, 600}

// HeuristicEstimator is the deterministic offline fallback: it keys
// macros off description keywords and never consults the photo.
type HeuristicEstimator struct{}

func (HeuristicEstimator) Estimate(_ context.Context, req Request) (*Estimate, error) {
	if strings.TrimSpace(req.Description) == "" {
		return nil, errors.New("description is required")
	}

	servings := req.Servings
	if servings <= 0 {
		servings = 1.0
	}

	desc := strings.ToLower(req.Description)
	est := &Estimate{Name: req.Description, Method: MethodHeuristic}

	matches := 0
	for _, p := range foodProfiles {
		if strings.Contains(desc, p.keyword) {
			est.Calories += p.calories
			est.ProteinG += p.protein
			est.CarbsG += p.carbs
			est.FatG += p.fat
			est.FiberG += p.fiber
			est.SodiumMg += p.sodium
			matches++
		}
	}
	if matches == 0 {
		est.Calories = defaultProfile.calories
		est.ProteinG = defaultProfile.protein
		est.CarbsG = defaultProfile.carbs
		est.FatG = defaultProfile.fat
		est.FiberG = defaultProfile.fiber
		est.SodiumMg = defaultProfile.sodium
		est.Confidence = 0.2
	} else {
		est.Confidence = 0.35 + 0.15*float64(matches)
		if est.Confidence > 0.8 {
			est.Confidence = 0.8
		}
	}

	est.Calories *= servings
	est.ProteinG *= servings
	est.CarbsG *= servings
	est.FatG *= servings
	est.FiberG *= servings
	est.SodiumMg *= servings

	return est, nil
}

// EstimateWithFallback tries primary and falls back to the heuristic
// when primary is nil or unavailable. Other errors pass through.
func EstimateWithFallback(ctx context.Context, primary Estimator, req Request) (*Estimate, error) {
	if primary != nil {
		est, err := primary.Estimate(ctx, req)
		if err == nil {
			return est, nil
		}
		if !errors.Is(err, ErrEstimatorUnavailable) {
			return nil, err
		}
	}
	return HeuristicEstimator{}.Estimate(ctx, req)
}
