package domain

import "time"

// RiskLevel classifies a single risk reported by the screening service.
type RiskLevel string

// Risk is one finding from the risk-scoring service.
type Risk struct {
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Level       RiskLevel `json:"level"`
	Score       int       `json:"score"`
}

// ScreenedToken is a token that passed risk screening, as stored by the
// screener service.
type ScreenedToken struct {
	Mint       string
	Symbol     string
	Name       string
	Score      int
	Risks      []Risk
	ScreenedAt time.Time
}
