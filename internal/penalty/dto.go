package penalty

type CreateRuleDTO struct {
	Name   string `json:"name"`
	Area   string `json:"area"`
	Amount int    `json:"amount"`
	// Global rules are visible to every user; only admins may create them.
	Global bool `json:"global"`
}
