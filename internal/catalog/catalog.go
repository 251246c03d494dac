// Package catalog is the read-only frequent-products catalog. Quick-add
// resolves a free-text product name to a catalog entry carrying a default
// category id; matching is case-insensitive, exact first, then substring
// with longer keywords taking precedence.
package catalog

import (
	"strings"

	"github.com/kaimono-app/kaimono/internal/model"
)

// FindByName resolves a product name against the catalog. The second
// return is false when nothing matches; the caller then adds the item
// uncategorized.
func FindByName(name string) (model.Product, bool) {
	n := strings.ToLower(strings.TrimSpace(name))
	if n == "" {
		return model.Product{}, false
	}

	if p, ok := products[n]; ok {
		return p, true
	}

	for _, entry := range keywordMatches {
		if strings.Contains(n, entry.keyword) {
			return model.Product{ID: slug(n), Name: strings.TrimSpace(name), Category: entry.category}, true
		}
	}

	return model.Product{}, false
}

// DefaultCategory returns the default category id for a product name, or
// the empty string when the catalog has no opinion.
func DefaultCategory(name string) string {
	p, ok := FindByName(name)
	if !ok {
		return ""
	}
	return p.Category
}

func slug(name string) string {
	return strings.ReplaceAll(name, " ", "-")
}

func product(name, category, unit string) model.Product {
	return model.Product{ID: slug(name), Name: name, Category: category, Unit: unit}
}

// products are exact-name entries, keyed by lowercased name.
var products = map[string]model.Product{
	// Vegetables
	"tomato":   product("tomato", "vegetables", "pc"),
	"tomatoes": product("tomatoes", "vegetables", "pc"),
	"potato":   product("potato", "vegetables", "pc"),
	"potatoes": product("potatoes", "vegetables", "pc"),
	"onion":    product("onion", "vegetables", "pc"),
	"onions":   product("onions", "vegetables", "pc"),
	"carrot":   product("carrot", "vegetables", "pc"),
	"carrots":  product("carrots", "vegetables", "pc"),
	"cabbage":  product("cabbage", "vegetables", "pc"),
	"lettuce":  product("lettuce", "vegetables", "pc"),
	"spinach":  product("spinach", "vegetables", "bag"),
	"cucumber": product("cucumber", "vegetables", "pc"),
	"garlic":   product("garlic", "vegetables", "pc"),
	"ginger":   product("ginger", "vegetables", "pc"),

	// Fruits
	"apple":        product("apple", "fruits", "pc"),
	"apples":       product("apples", "fruits", "pc"),
	"banana":       product("banana", "fruits", "pc"),
	"bananas":      product("bananas", "fruits", "pc"),
	"orange":       product("orange", "fruits", "pc"),
	"lemon":        product("lemon", "fruits", "pc"),
	"grapes":       product("grapes", "fruits", "bunch"),
	"strawberries": product("strawberries", "fruits", "pack"),
	"watermelon":   product("watermelon", "fruits", "pc"),

	// Meat
	"chicken": product("chicken", "meat", "g"),
	"beef":    product("beef", "meat", "g"),
	"pork":    product("pork", "meat", "g"),
	"bacon":   product("bacon", "meat", "pack"),
	"sausage": product("sausage", "meat", "pack"),

	// Fish
	"salmon": product("salmon", "fish", "g"),
	"tuna":   product("tuna", "fish", "g"),
	"shrimp": product("shrimp", "fish", "g"),

	// Dairy & eggs
	"milk":   product("milk", "dairy", "l"),
	"eggs":   product("eggs", "dairy", "pack"),
	"butter": product("butter", "dairy", "pc"),
	"cheese": product("cheese", "dairy", "g"),
	"yogurt": product("yogurt", "dairy", "pc"),

	// Bakery
	"bread":     product("bread", "bakery", "loaf"),
	"bagels":    product("bagels", "bakery", "pack"),
	"tortillas": product("tortillas", "bakery", "pack"),

	// Pantry
	"rice":      product("rice", "pantry", "kg"),
	"pasta":     product("pasta", "pantry", "pack"),
	"flour":     product("flour", "pantry", "kg"),
	"sugar":     product("sugar", "pantry", "kg"),
	"salt":      product("salt", "pantry", "pc"),
	"olive oil": product("olive oil", "pantry", "bottle"),
	"soy sauce": product("soy sauce", "pantry", "bottle"),
	"miso":      product("miso", "pantry", "pc"),
	"tofu":      product("tofu", "pantry", "pc"),
	"cereal":    product("cereal", "pantry", "box"),

	// Frozen
	"ice cream": product("ice cream", "frozen", "pc"),

	// Beverages
	"water":  product("water", "beverages", "bottle"),
	"coffee": product("coffee", "beverages", "bag"),
	"tea":    product("tea", "beverages", "box"),
	"juice":  product("juice", "beverages", "bottle"),
	"beer":   product("beer", "beverages", "can"),

	// Snacks
	"chips":     product("chips", "snacks", "bag"),
	"cookies":   product("cookies", "snacks", "pack"),
	"chocolate": product("chocolate", "snacks", "bar"),

	// Household
	"paper towels": product("paper towels", "household", "pack"),
	"toilet paper": product("toilet paper", "household", "pack"),
	"dish soap":    product("dish soap", "household", "bottle"),
	"trash bags":   product("trash bags", "household", "pack"),
	"shampoo":      product("shampoo", "household", "bottle"),
	"toothpaste":   product("toothpaste", "household", "pc"),
}

type keywordEntry struct {
	keyword  string
	category string
}

// keywordMatches resolve names with no exact entry. Ordered with longer,
// more specific keywords first so "frozen spinach" beats "spinach".
var keywordMatches = []keywordEntry{
	{"frozen", "frozen"},
	{"ice cream", "frozen"},

	{"chicken breast", "meat"},
	{"ground beef", "meat"},
	{"chicken", "meat"},
	{"beef", "meat"},
	{"pork", "meat"},
	{"ham", "meat"},

	{"salmon", "fish"},
	{"tuna", "fish"},
	{"fish", "fish"},
	{"shrimp", "fish"},
	{"sashimi", "fish"},

	{"cream cheese", "dairy"},
	{"sour cream", "dairy"},
	{"yogurt", "dairy"},
	{"cheese", "dairy"},
	{"milk", "dairy"},
	{"butter", "dairy"},
	{"egg", "dairy"},

	{"sweet potato", "vegetables"},
	{"bell pepper", "vegetables"},
	{"green onion", "vegetables"},
	{"lettuce", "vegetables"},
	{"spinach", "vegetables"},
	{"tomato", "vegetables"},
	{"potato", "vegetables"},
	{"onion", "vegetables"},
	{"carrot", "vegetables"},
	{"mushroom", "vegetables"},
	{"pepper", "vegetables"},

	{"berry", "fruits"},
	{"berries", "fruits"},
	{"apple", "fruits"},
	{"banana", "fruits"},
	{"orange", "fruits"},
	{"melon", "fruits"},
	{"fruit", "fruits"},

	{"sourdough", "bakery"},
	{"bread", "bakery"},
	{"bagel", "bakery"},
	{"bun", "bakery"},
	{"roll", "bakery"},
	{"croissant", "bakery"},

	{"peanut butter", "pantry"},
	{"olive oil", "pantry"},
	{"soy sauce", "pantry"},
	{"pasta", "pantry"},
	{"noodle", "pantry"},
	{"rice", "pantry"},
	{"sauce", "pantry"},
	{"canned", "pantry"},
	{"spice", "pantry"},
	{"cereal", "pantry"},

	{"sparkling water", "beverages"},
	{"coffee", "beverages"},
	{"juice", "beverages"},
	{"tea", "beverages"},
	{"soda", "beverages"},
	{"water", "beverages"},
	{"beer", "beverages"},
	{"wine", "beverages"},

	{"granola bar", "snacks"},
	{"chip", "snacks"},
	{"cracker", "snacks"},
	{"cookie", "snacks"},
	{"candy", "snacks"},
	{"chocolate", "snacks"},
	{"snack", "snacks"},

	{"paper towel", "household"},
	{"toilet paper", "household"},
	{"detergent", "household"},
	{"soap", "household"},
	{"cleaner", "household"},
	{"sponge", "household"},
	{"battery", "household"},
	{"shampoo", "household"},
	{"toothpaste", "household"},
}
