package entities

// Product is the catalog view the order builder depends on. The catalog
// itself (creation, images, reviews) is owned elsewhere; orders only read
// price/stock/ownership and adjust stock through the Catalog collaborator.
type Product struct {
	ProductID string   `json:"product_id"`
	Name      string   `json:"name"`
	Price     float64  `json:"price"`
	Stock     int      `json:"stock"`
	CompanyID string   `json:"company_id"`
	Images    []string `json:"images"`
}

// FirstImage returns the image snapshot used on order lines.
func (p *Product) FirstImage() string {
	if len(p.Images) == 0 {
		return ""
	}
	return p.Images[0]
}
