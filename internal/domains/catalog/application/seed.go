package application

import (
	"github.com/shopspring/decimal"

	"github.com/Apurer/storefront-cart/internal/domains/catalog/domain"
)

const imageBase = "https://rocketseat-cdn.s3-sa-east-1.amazonaws.com/modulo-redux/"

// DefaultSeed is the sneaker catalog served when no database is configured.
func DefaultSeed() []domain.Entry {
	return []domain.Entry{
		entry(1, "Tênis de Caminhada Leve Confortável", "179.90", "tenis1.jpg", 3),
		entry(2, "Tênis VR Caminhada Confortável Detalhes Couro Masculino", "139.90", "tenis2.jpg", 5),
		entry(3, "Tênis Adidas Duramo Lite 2.0", "219.90", "tenis3.jpg", 2),
		entry(4, "Tênis VR Caminhada Confortável Detalhes Couro Masculino", "139.90", "tenis2.jpg", 1),
		entry(5, "Tênis VR Caminhada Confortável Detalhes Couro Masculino", "139.90", "tenis2.jpg", 5),
		entry(6, "Tênis Adidas Duramo Lite 2.0", "219.90", "tenis3.jpg", 10),
	}
}

func entry(id int64, title, price, image string, stock int) domain.Entry {
	return domain.Entry{
		Product: domain.Product{
			ID:    id,
			Title: title,
			Price: decimal.RequireFromString(price),
			Image: imageBase + image,
		},
		Stock: stock,
	}
}
