package discover

import "strings"

// Canonical deal categories shown in the UI. Everything scraped maps
// onto one of these or CategoryOther.
const (
	CategoryFoodDrink     = "Food & Drink"
	CategoryFitness       = "Fitness"
	CategoryWellness      = "Wellness"
	CategoryFamily        = "Family"
	CategoryEntertainment = "Entertainment"
	CategoryRetail        = "Retail"
	CategoryBeauty        = "Beauty"
	CategoryServices      = "Services"
	CategoryOther         = "Other"
)

// CanonicalDealCategories returns the closed category set in display order.
func CanonicalDealCategories() []string {
	return []string{
		CategoryFoodDrink,
		CategoryFitness,
		CategoryWellness,
		CategoryFamily,
		CategoryEntertainment,
		CategoryRetail,
		CategoryBeauty,
		CategoryServices,
		CategoryOther,
	}
}

// rawDealCategories maps the category strings the scrapers actually emit
// onto the canonical set. Keys are lower-cased.
var rawDealCategories = map[string]string{
	"restaurant":    CategoryFoodDrink,
	"restaurants":   CategoryFoodDrink,
	"food":          CategoryFoodDrink,
	"food & drink":  CategoryFoodDrink,
	"cafe":          CategoryFoodDrink,
	"coffee":        CategoryFoodDrink,
	"bar":           CategoryFoodDrink,
	"pub":           CategoryFoodDrink,
	"brewery":       CategoryFoodDrink,
	"bakery":        CategoryFoodDrink,
	"pizza":         CategoryFoodDrink,
	"gym":           CategoryFitness,
	"fitness":       CategoryFitness,
	"yoga":          CategoryFitness,
	"pilates":       CategoryFitness,
	"crossfit":      CategoryFitness,
	"martial arts":  CategoryFitness,
	"climbing":      CategoryFitness,
	"spa":           CategoryWellness,
	"massage":       CategoryWellness,
	"wellness":      CategoryWellness,
	"chiropractor":  CategoryWellness,
	"acupuncture":   CategoryWellness,
	"physiotherapy": CategoryWellness,
	"kids":          CategoryFamily,
	"family":        CategoryFamily,
	"daycare":       CategoryFamily,
	"playcentre":    CategoryFamily,
	"entertainment": CategoryEntertainment,
	"movies":        CategoryEntertainment,
	"cinema":        CategoryEntertainment,
	"bowling":       CategoryEntertainment,
	"arcade":        CategoryEntertainment,
	"theatre":       CategoryEntertainment,
	"music":         CategoryEntertainment,
	"shopping":      CategoryRetail,
	"retail":        CategoryRetail,
	"boutique":      CategoryRetail,
	"clothing":      CategoryRetail,
	"books":         CategoryRetail,
	"salon":         CategoryBeauty,
	"barber":        CategoryBeauty,
	"hair":          CategoryBeauty,
	"nails":         CategoryBeauty,
	"beauty":        CategoryBeauty,
	"automotive":    CategoryServices,
	"cleaning":      CategoryServices,
	"photography":   CategoryServices,
	"repair":        CategoryServices,
	"services":      CategoryServices,
}

// NormalizeDealCategory maps a raw scraped category onto the canonical
// set. Unknown or empty input maps to CategoryOther; the function is
// total and never fails.
func NormalizeDealCategory(raw string) string {
	key := strings.ToLower(strings.TrimSpace(raw))
	if c, ok := rawDealCategories[key]; ok {
		return c
	}
	return CategoryOther
}
