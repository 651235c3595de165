package service

import (
	"context"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/guttosm/packflow/internal/domain/dto"
	"github.com/guttosm/packflow/internal/domain/models"
	"github.com/guttosm/packflow/internal/storage"
)

const maxAccountNameLength = 100

var (
	accountNumberPattern = regexp.MustCompile(`^\d{8}$`)
	sortCodePattern      = regexp.MustCompile(`^\d{6}$`)
	sortCodeSeparators   = strings.NewReplacer("-", "", " ", "", "\t", "")
)

// BankDetailsService validates and stores a user's payout account.
type BankDetailsService interface {
	Get(ctx context.Context, userID string) (*models.BankDetails, error)
	Save(ctx context.Context, userID string, req dto.BankDetailsRequest) (*models.BankDetails, error)
}

type bankDetailsService struct {
	repo storage.BankDetailsRepository
}

func NewBankDetailsService(repo storage.BankDetailsRepository) BankDetailsService {
	return &bankDetailsService{repo: repo}
}

func (s *bankDetailsService) Get(ctx context.Context, userID string) (*models.BankDetails, error) {
	return s.repo.Get(ctx, userID)
}

func (s *bankDetailsService) Save(ctx context.Context, userID string, req dto.BankDetailsRequest) (*models.BankDetails, error) {
	b, err := NormalizeBankDetails(req)
	if err != nil {
		return nil, err
	}
	b.UserID = userID
	if err := s.repo.Upsert(ctx, &b); err != nil {
		return nil, err
	}
	return &b, nil
}

// NormalizeBankDetails trims the account name and strips separators from the
// account number and sort code, rejecting values of the wrong shape.
func NormalizeBankDetails(req dto.BankDetailsRequest) (models.BankDetails, error) {
	if req.AccountName == "" || req.AccountNumber == "" || req.SortCode == "" {
		return models.BankDetails{}, invalid("bank_details", "Account name, account number, and sort code are required")
	}
	name := strings.TrimSpace(req.AccountName)
	if name == "" || utf8.RuneCountInString(name) > maxAccountNameLength {
		return models.BankDetails{}, invalid("account_name", "Account name must be between 1 and 100 characters")
	}
	number := strings.Join(strings.Fields(req.AccountNumber), "")
	if !accountNumberPattern.MatchString(number) {
		return models.BankDetails{}, invalid("account_number", "Account number must be exactly 8 digits")
	}
	sort := sortCodeSeparators.Replace(req.SortCode)
	if !sortCodePattern.MatchString(sort) {
		return models.BankDetails{}, invalid("sort_code", "Sort code must be exactly 6 digits (format: XX-XX-XX or XXXXXX)")
	}
	return models.BankDetails{AccountName: name, AccountNumber: number, SortCode: sort}, nil
}
