package model

// Security represents a tradable security from the database
type Security struct {
	ID          string `json:"id"`
	Ticker      string `json:"ticker"`
	Name        string `json:"name"`
	CompanyName string `json:"companyName"`
	Currency    string `json:"currency"`
	IsPrivate   bool   `json:"isPrivate"`
}
