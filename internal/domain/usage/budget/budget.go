package budget

// Budget is a snapshot of one provider's completion token budget.
type Budget struct {
	tokensLimit     int64
	tokensRemaining int64
	isExhausted     bool
	resetsAt        int64 // unix millis, converted to RFC 3339 at transport layer
}

// New creates a Budget snapshot. A zero limit means unlimited; remaining is then -1.
func New(limit, remaining int64, resetsAt int64) Budget {
	return Budget{
		tokensLimit:     limit,
		tokensRemaining: remaining,
		isExhausted:     limit > 0 && remaining <= 0,
		resetsAt:        resetsAt,
	}
}

// TokensLimit returns the token cap.
func (b Budget) TokensLimit() int64 { return b.tokensLimit }

// TokensRemaining returns tokens left, or -1 if unlimited.
func (b Budget) TokensRemaining() int64 { return b.tokensRemaining }

// IsUnlimited reports whether no cap is configured.
func (b Budget) IsUnlimited() bool { return b.tokensLimit == 0 }

// IsExhausted reports whether the budget is spent.
func (b Budget) IsExhausted() bool { return b.isExhausted }

// ResetsAt returns the reset timestamp (unix millis).
func (b Budget) ResetsAt() int64 { return b.resetsAt }
