package domain

import "time"

// User is an investor account. ReferrerID is an optional self-reference to the
// user who referred them; referral bonuses are paid one hop only, to the
// direct referrer. Multi-hop referral chains are out of scope and no code
// walks the graph further than a single lookup.
type User struct {
	CreatedAt     time.Time
	UpdatedAt     time.Time
	ReferrerID    *string
	WalletNetwork *string
	WalletAddress *string
	ID            string
	Email         string
	Name          string
	ReferralCode  string
	KYCVerified   bool
}

// HasReferrer reports whether a referral bonus applies to this user's payouts.
func (u *User) HasReferrer() bool {
	return u.ReferrerID != nil && *u.ReferrerID != ""
}
