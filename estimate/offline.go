package estimate

import "strings"

// Food is a row of the offline table.
type Food struct {
	Name     string `json:"name"`
	Calories int    `json:"calories"`
}

// commonFoods is searched in order; the first partial match wins, so the
// order of rows is part of the lookup behavior.
var commonFoods = []Food{
	// Fruits
	{"apple", 80},
	{"banana", 105},
	{"orange", 62},
	{"grape", 62},
	{"strawberry", 4},
	{"blueberry", 84},
	{"avocado", 234},
	{"grapes", 62},

	// Vegetables
	{"carrot", 25},
	{"broccoli", 55},
	{"spinach", 7},
	{"tomato", 22},
	{"cucumber", 16},
	{"lettuce", 5},
	{"onion", 40},
	{"potato", 130},

	// Grains & bread
	{"bread slice", 70},
	{"rice cup", 200},
	{"pasta cup", 220},
	{"oatmeal cup", 154},
	{"cereal cup", 110},
	{"quinoa cup", 222},

	// Proteins
	{"chicken breast", 165},
	{"egg", 70},
	{"salmon", 206},
	{"tuna", 179},
	{"beef", 250},
	{"pork", 242},
	{"tofu", 94},
	{"beans cup", 227},

	// Dairy
	{"milk cup", 150},
	{"cheese slice", 113},
	{"yogurt cup", 150},
	{"butter tbsp", 102},
	{"cream cheese", 50},

	// Nuts & seeds
	{"almonds", 164},
	{"walnuts", 185},
	{"peanut butter tbsp", 94},
	{"cashews", 157},

	// Beverages
	{"water", 0},
	{"coffee", 2},
	{"tea", 2},
	{"orange juice cup", 112},
	{"apple juice cup", 117},

	// Snacks
	{"chocolate bar", 250},
	{"cookies", 140},
	{"chips", 160},
	{"popcorn cup", 31},
	{"nuts", 164},
}

// Foods returns a copy of the offline table in lookup order.
func Foods() []Food {
	out := make([]Food, len(commonFoods))
	copy(out, commonFoods)
	return out
}

// LookupOffline finds a food in the offline table. An exact match on the
// trimmed, lowercased description wins; otherwise the first row whose name
// contains the description, or is contained by it, is returned.
func LookupOffline(description string) (Food, bool) {
	normalized := strings.ToLower(strings.TrimSpace(description))
	if normalized == "" {
		return Food{}, false
	}

	for _, f := range commonFoods {
		if f.Name == normalized {
			return f, true
		}
	}

	for _, f := range commonFoods {
		if strings.Contains(normalized, f.Name) || strings.Contains(f.Name, normalized) {
			return f, true
		}
	}

	return Food{}, false
}
