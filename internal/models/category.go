package models

// AllCategories is the listing filter that matches every category
const AllCategories = "All"

// Categories is the fixed set of shop categories, in display order
var Categories = []string{
	"Vintage Furniture",
	"Crystal & Glass",
	"Decorative Accents",
	"Lighting & Mirrors",
	"Tableware",
	"Wall Art",
	"Antique Books",
	"Garden & Outdoor",
	"Others",
}

// IsValidCategory reports whether name is one of Categories
func IsValidCategory(name string) bool {
	for _, c := range Categories {
		if c == name {
			return true
		}
	}
	return false
}
