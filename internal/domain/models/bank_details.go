package models

import "time"

// BankDetails holds the payout account a contractor shares with clients
// on payment requests. There is at most one record per user.
//
// Fields:
//   - AccountName: account holder name (1-100 characters).
//   - AccountNumber: exactly 8 digits.
//   - SortCode: exactly 6 digits, stored without separators.
type BankDetails struct {
	ID            string    `json:"id"`
	UserID        string    `json:"user_id"`
	AccountName   string    `json:"account_name"`
	AccountNumber string    `json:"account_number"`
	SortCode      string    `json:"sort_code"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// FormattedSortCode renders the sort code as XX-XX-XX.
func (b BankDetails) FormattedSortCode() string {
	if len(b.SortCode) != 6 {
		return b.SortCode
	}
	return b.SortCode[0:2] + "-" + b.SortCode[2:4] + "-" + b.SortCode[4:6]
}
