package catalog

import (
	"time"

	"antique-catalog/internal/models"
	"antique-catalog/utils"

	"github.com/shopspring/decimal"
)

type seedProduct struct {
	title       string
	description string
	price       int64
	category    string
	image       string
}

var initialProducts = []seedProduct{
	{
		title:       "Antique Display Cabinet",
		description: "Elegant glass-front display cabinet, perfect for showcasing your treasured collections.",
		price:       85000,
		category:    "Vintage Furniture",
		image:       "/photos/products/2023-02-05(1).jpg",
	},
	{
		title:       "Victorian Era Mirror",
		description: "Beautifully preserved Victorian-era mirror with ornate golden frame.",
		price:       45000,
		category:    "Lighting & Mirrors",
		image:       "/photos/products/mirror-1.jpg",
	},
	{
		title:       "Crystal Wine Glasses Set",
		description: "Set of 6 vintage crystal wine glasses with intricate etching.",
		price:       12500,
		category:    "Crystal & Glass",
		image:       "/photos/products/glasses-1.jpg",
	},
	{
		title:       "Brass Wall Sconces",
		description: "Pair of antique brass wall sconces with patina finish.",
		price:       18000,
		category:    "Lighting & Mirrors",
		image:       "/photos/products/sconces-1.jpg",
	},
}

// seedProducts builds the shop's starting inventory
func seedProducts(now time.Time) []models.Product {
	out := make([]models.Product, 0, len(initialProducts))
	for _, p := range initialProducts {
		out = append(out, models.Product{
			ID:          utils.GenerateID(),
			Title:       p.title,
			Description: p.description,
			Price:       decimal.NewFromInt(p.price),
			Category:    p.category,
			Images:      []string{p.image},
			CreatedAt:   now,
			UpdatedAt:   now,
		})
	}
	return out
}
