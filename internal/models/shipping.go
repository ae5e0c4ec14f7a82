package models

type ShippingQuote struct {
	Fee           float64 `json:"fee"`
	FreeThreshold float64 `json:"freeThreshold"`
	CartTotal     float64 `json:"cartTotal"`
	IsFree        bool    `json:"isFree"`
	Remaining     float64 `json:"remaining"` // montant restant avant livraison gratuite
}
