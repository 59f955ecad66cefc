package catalog

import (
	"fmt"

	"github.com/foodent/foodscan/pkg/types"
)

// Catalog is a static, read-only mapping from category key to nutrition
// record. It is seeded once and never mutated afterwards, so it is safe to
// share across concurrent callers without locking.
type Catalog struct {
	records map[string]types.FoodCategoryRecord
}

// New builds the default catalog covering every classifier category key.
func New() *Catalog {
	return NewWithRecords(defaultRecords())
}

// NewWithRecords builds a catalog from custom records. The map is copied so
// later mutation by the caller cannot reach catalog storage.
func NewWithRecords(records map[string]types.FoodCategoryRecord) *Catalog {
	copied := make(map[string]types.FoodCategoryRecord, len(records))
	for key, rec := range records {
		copied[key] = rec.Clone()
	}
	return &Catalog{records: copied}
}

// Get looks up the record for a category key. The returned record is a copy;
// mutating it cannot contaminate other calls.
func (c *Catalog) Get(key string) (types.FoodCategoryRecord, error) {
	rec, ok := c.records[key]
	if !ok {
		return types.FoodCategoryRecord{}, fmt.Errorf("%w: %q", types.ErrUnknownCategory, key)
	}
	return rec.Clone(), nil
}

// Keys returns all category keys present in the catalog.
func (c *Catalog) Keys() []string {
	keys := make([]string, 0, len(c.records))
	for key := range c.records {
		keys = append(keys, key)
	}
	return keys
}

// Validate checks that the catalog covers every given key. Run it at startup
// against the classifier's producible keys so Get can never fail mid-request.
func (c *Catalog) Validate(keys []string) error {
	for _, key := range keys {
		if _, ok := c.records[key]; !ok {
			return fmt.Errorf("catalog incomplete: %w: %q", types.ErrUnknownCategory, key)
		}
	}
	return nil
}

func defaultRecords() map[string]types.FoodCategoryRecord {
	return map[string]types.FoodCategoryRecord{
		"red_dominant": {
			Name:        "Tomato-Based Dish",
			Calories:    185,
			Nutrients:   types.Nutrients{Protein: 6, Carbs: 28, Fat: 5, Fiber: 4},
			Allergens:   []string{},
			HealthScore: 78,
		},
		"green_dominant": {
			Name:        "Leafy Green Salad",
			Calories:    120,
			Nutrients:   types.Nutrients{Protein: 4, Carbs: 14, Fat: 6, Fiber: 5},
			Allergens:   []string{},
			HealthScore: 92,
		},
		"blue_dominant": {
			Name:        "Berry Bowl",
			Calories:    150,
			Nutrients:   types.Nutrients{Protein: 2, Carbs: 34, Fat: 1, Fiber: 7},
			Allergens:   []string{},
			HealthScore: 88,
		},
		"brown_dominant": {
			Name:        "Roasted or Baked Dish",
			Calories:    340,
			Nutrients:   types.Nutrients{Protein: 22, Carbs: 30, Fat: 14, Fiber: 3},
			Allergens:   []string{"gluten"},
			HealthScore: 62,
		},
		"yellow_dominant": {
			Name:        "Grain and Curry Plate",
			Calories:    290,
			Nutrients:   types.Nutrients{Protein: 9, Carbs: 48, Fat: 8, Fiber: 4},
			Allergens:   []string{"gluten"},
			HealthScore: 68,
		},
		"light_dominant": {
			Name:        "Rice or Dairy Dish",
			Calories:    220,
			Nutrients:   types.Nutrients{Protein: 7, Carbs: 42, Fat: 3, Fiber: 1},
			Allergens:   []string{"dairy"},
			HealthScore: 64,
		},
		"dark_dominant": {
			Name:        "Grilled or Chocolate Dish",
			Calories:    380,
			Nutrients:   types.Nutrients{Protein: 16, Carbs: 36, Fat: 19, Fiber: 4},
			Allergens:   []string{"dairy", "soy"},
			HealthScore: 48,
		},
		"neutral_dominant": {
			Name:        "Mixed Grain Bowl",
			Calories:    250,
			Nutrients:   types.Nutrients{Protein: 10, Carbs: 40, Fat: 6, Fiber: 6},
			Allergens:   []string{},
			HealthScore: 74,
		},
		"mixed": {
			Name:        "Mixed Plate",
			Calories:    350,
			Nutrients:   types.Nutrients{Protein: 15, Carbs: 45, Fat: 12, Fiber: 5},
			Allergens:   []string{"gluten", "dairy"},
			HealthScore: 60,
		},
	}
}
