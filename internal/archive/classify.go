package archive

import (
	"strings"

	"github.com/ddalicious/cafepos/internal/menu"
)

// Keyword sets for categorizing imported legacy item names. Add-on keywords
// are checked before main-item keywords so that, for example, "Extra Egg"
// sold inside a drink order still lands in food. Unknown names default to
// food.
var (
	drinkAddOnKeywords = []string{
		"oatmilk", "oat milk", "almond milk", "soy milk", "coconut milk",
		"milk", "syrup", "vanilla syrup", "caramel syrup", "hazelnut syrup",
		"extra shot", "shot", "espresso shot", "decaf", "sugar", "sweetener",
		"stevia", "honey",
	}

	foodAddOnKeywords = []string{
		"telur", "egg", "eggs", "cheese", "bacon", "ham", "chicken", "beef",
		"mushroom", "tomato", "lettuce", "onion", "avocado", "mayo", "sauce",
		"butter", "cream cheese", "extra cheese", "protein",
	}

	drinkKeywords = []string{
		"iced", "latte", "coffee", "americano", "macchiato", "mocha",
		"chocolate", "strawberry", "caramel", "vanilla", "spanish",
	}

	foodKeywords = []string{
		"cookie", "cookies", "cake", "wrap", "cheese", "indomie", "maggi",
		"moist", "chip", "assorted", "big cookie", "loaded", "chicken",
	}
)

// Classify assigns an imported item name to drink or food by keyword
// matching, in fixed priority order: drink add-ons, food add-ons, drink
// mains, food mains.
func Classify(itemName string) menu.Category {
	name := strings.ToLower(strings.TrimSpace(itemName))

	if matchesAny(name, drinkAddOnKeywords) {
		return menu.CategoryDrink
	}
	if matchesAny(name, foodAddOnKeywords) {
		return menu.CategoryFood
	}
	if matchesAny(name, drinkKeywords) {
		return menu.CategoryDrink
	}
	if matchesAny(name, foodKeywords) {
		return menu.CategoryFood
	}

	return menu.CategoryFood
}

func matchesAny(name string, keywords []string) bool {
	for _, keyword := range keywords {
		if strings.Contains(name, keyword) {
			return true
		}
	}
	return false
}
