package domain

// Setting is one mutable key/value system parameter. Changes apply
// prospectively only; historic ledger entries are never recomputed.
type Setting struct {
	Key   string
	Value string
}

// SettingReferralPercentage is the percentage of each daily profit paid to the
// investor's direct referrer, stored as a string-encoded decimal.
const SettingReferralPercentage = "referral_percentage"

// DefaultReferralPercentage applies when the setting is unset.
const DefaultReferralPercentage = "2.0"
