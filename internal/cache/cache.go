package cache

import "time"

const (
	ProductCacheTTL  = 10 * time.Minute
	WishlistCacheTTL = 10 * time.Minute
	GuestCartTTL     = 30 * 24 * time.Hour
)

func ProductKey(slug string) string { return "product:" + slug }
func WishlistKey(userID string) string { return "wishlist:" + userID }
func GuestCartKey(guestID string) string { return "guest_cart:" + guestID }
func CartChannel(owner string) string { return "cart_events:" + owner }
func LoginAttemptsKey(email string) string { return "login_attempts:" + email }
func LoginCooldownKey(email string) string { return "login_cooldown:" + email }
func APIRateKey(client string) string { return "rate_limit:" + client }
