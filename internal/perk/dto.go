package perk

// View is the user-facing perk listing entry: the perk plus derived state.
type View struct {
	Perk          Perk   `json:"perk"`
	Unlocked      bool   `json:"unlocked"`
	Effective     bool   `json:"effective"`
	DaysRemaining int    `json:"days_remaining"`
	Unlimited     bool   `json:"unlimited"`
	Requirement   string `json:"requirement,omitempty"`
}

// MultiplierResponse answers the effective-multiplier query for one area.
type MultiplierResponse struct {
	Area       string  `json:"area"`
	Multiplier float64 `json:"multiplier"`
}
