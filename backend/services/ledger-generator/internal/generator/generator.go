package generator

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"lremanager/backend/services/ledger-generator/internal/models"
)

// Mode selects the scheduling window for baseline dates.
type Mode int

const (
	// ModeAnnual spreads baseline dates over one year.
	ModeAnnual Mode = iota + 1
	// ModePOP spreads baseline dates over an 18 month period of performance.
	ModePOP
)

const (
	annualMaxOffset  = 364
	popMaxOffset     = 547
	scheduleMaxSlip  = 30
	actualsChance    = 0.7
	minBaseline      = 10000.0
	maxBaseline      = 500000.0
	minPlannedFactor = 0.8
	maxPlannedFactor = 1.2
	minActualFactor  = 0.9
	maxActualFactor  = 1.1
)

// ErrUnknownMode is returned by ParseMode for unrecognised names.
var ErrUnknownMode = errors.New("generator: unknown program mode")

var epoch = models.NewDate(2024, time.January, 1)

// Epoch returns the first possible baseline date.
func Epoch() models.Date { return epoch }

// ParseMode maps "annual" or "pop" (any case) to a Mode.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "annual":
		return ModeAnnual, nil
	case "pop":
		return ModePOP, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownMode, s)
	}
}

func (m Mode) String() string {
	switch m {
	case ModeAnnual:
		return "annual"
	case ModePOP:
		return "pop"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// MaxBaselineOffset is the largest day offset from Epoch a baseline date can take.
func (m Mode) MaxBaselineOffset() int {
	if m == ModeAnnual {
		return annualMaxOffset
	}
	return popMaxOffset
}

// Generator builds random ledger transactions from an owned random source.
// It is not safe for concurrent use.
type Generator struct {
	rng        *rand.Rand
	categories []models.Category
	vendors    []string
}

// New returns a generator drawing from rng.
func New(rng *rand.Rand) *Generator {
	return &Generator{
		rng:        rng,
		categories: models.Categories(),
		vendors:    models.Vendors(),
	}
}

// NewSeeded returns a generator whose output is fully determined by seed.
func NewSeeded(seed uint64) *Generator {
	return New(rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)))
}

// Generate returns one random transaction for the given scheduling mode.
func (g *Generator) Generate(mode Mode) models.Transaction {
	category := g.categories[g.rng.IntN(len(g.categories))]
	subcategory := category.Subcategories[g.rng.IntN(len(category.Subcategories))]

	baselineDate := epoch.AddDays(g.intBetween(0, mode.MaxBaselineOffset()))
	plannedDate := baselineDate.AddDays(g.intBetween(0, scheduleMaxSlip))

	hasActuals := g.rng.Float64() < actualsChance
	var actualDate models.Date
	if hasActuals {
		actualDate = plannedDate.AddDays(g.intBetween(0, scheduleMaxSlip))
	}

	baselineAmount := models.RoundAmount(decimal.NewFromFloat(g.uniform(minBaseline, maxBaseline)))
	plannedAmount := models.RoundAmount(baselineAmount.Mul(decimal.NewFromFloat(g.uniform(minPlannedFactor, maxPlannedFactor))))

	var actual *models.Actuals
	if hasActuals {
		actualAmount := models.RoundAmount(plannedAmount.Mul(decimal.NewFromFloat(g.uniform(minActualFactor, maxActualFactor))))
		actual = &models.Actuals{Date: actualDate, Amount: actualAmount}
	}

	return models.Transaction{
		VendorName:         g.vendors[g.rng.IntN(len(g.vendors))],
		ExpenseDescription: fmt.Sprintf("%s - %s expenses", category.Name, subcategory),
		WBSCategory:        category.Name,
		WBSSubcategory:     subcategory,
		BaselineDate:       baselineDate,
		BaselineAmount:     baselineAmount,
		PlannedDate:        plannedDate,
		PlannedAmount:      plannedAmount,
		Actual:             actual,
		Notes:              fmt.Sprintf("Transaction for %s - %s", category.Name, subcategory),
	}
}

// intBetween returns a uniform integer in [lo, hi].
func (g *Generator) intBetween(lo, hi int) int {
	return lo + g.rng.IntN(hi-lo+1)
}

// uniform returns a uniform real in [lo, hi).
func (g *Generator) uniform(lo, hi float64) float64 {
	return lo + (hi-lo)*g.rng.Float64()
}
