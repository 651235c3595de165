package dto

import "github.com/guttosm/packflow/internal/domain/models"

// BankDetailsRequest is the body of POST /api/v1/bank-details.
type BankDetailsRequest struct {
	AccountName   string `json:"account_name" example:"Jane Doe"`
	AccountNumber string `json:"account_number" example:"12345678"`
	SortCode      string `json:"sort_code" example:"12-34-56"`
}

// BankDetailsResponse is the public view of stored bank details.
type BankDetailsResponse struct {
	AccountName   string `json:"account_name"`
	AccountNumber string `json:"account_number"`
	SortCode      string `json:"sort_code"`
}

// NewBankDetailsResponse renders details with the sort code in XX-XX-XX form.
func NewBankDetailsResponse(b models.BankDetails) BankDetailsResponse {
	return BankDetailsResponse{
		AccountName:   b.AccountName,
		AccountNumber: b.AccountNumber,
		SortCode:      b.FormattedSortCode(),
	}
}
