package services

import "errors"

var (
	ErrProductNotFound    = errors.New("produit introuvable")
	ErrInsufficientStock  = errors.New("stock insuffisant")
	ErrInvalidQuantity    = errors.New("quantité invalide")
	ErrItemNotInCart      = errors.New("article absent du panier")
	ErrEmptyCart          = errors.New("panier vide")
	ErrCouponInvalid      = errors.New("coupon invalide")
	ErrInvalidCredentials = errors.New("email ou mot de passe incorrect")
	ErrEmailTaken         = errors.New("email déjà utilisé")
	ErrOrderNotFound      = errors.New("commande introuvable")
	ErrForbidden          = errors.New("accès refusé")
	ErrInvalidTransition  = errors.New("changement de statut non autorisé")
	ErrInvalidStatus      = errors.New("statut inconnu")
	ErrCheckoutNotFound   = errors.New("paiement inconnu")
	ErrAmountMismatch     = errors.New("montant payé différent du montant attendu")
	ErrInvalidInput       = errors.New("données invalides")
	ErrNotConfigured      = errors.New("service non configuré")
	ErrCouponNotFound     = errors.New("coupon introuvable")
)
