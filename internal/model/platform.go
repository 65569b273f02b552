package model

// Platform types accepted for external platforms.
var AllowedPlatformTypes = []string{
	"Trading Platform",
	"Pricing Platform",
	"Secondary Trading Platform",
}

// Platform represents an external trading or pricing platform.
// APIToken is stored fernet-encrypted at rest and is never returned
// in API responses in clear text.
type Platform struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Type     string `json:"type"`
	APIToken string `json:"-"`
}
