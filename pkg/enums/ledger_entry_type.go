package enums

import "fmt"

// LedgerEntryType maps to the ledger_entry_type_enum enum in Postgres.
type LedgerEntryType string

const (
	LedgerEntryTypeCourierPayout  LedgerEntryType = "courier_payout"
	LedgerEntryTypeMerchantPayout LedgerEntryType = "merchant_payout"
	LedgerEntryTypeServiceFee     LedgerEntryType = "service_fee"
	LedgerEntryTypeWithdrawal     LedgerEntryType = "withdrawal"
	LedgerEntryTypePenaltyRefund  LedgerEntryType = "penalty_refund"
	LedgerEntryTypeAdjustment     LedgerEntryType = "adjustment"
)

var validLedgerEntryTypes = []LedgerEntryType{
	LedgerEntryTypeCourierPayout,
	LedgerEntryTypeMerchantPayout,
	LedgerEntryTypeServiceFee,
	LedgerEntryTypeWithdrawal,
	LedgerEntryTypePenaltyRefund,
	LedgerEntryTypeAdjustment,
}

// IsValid reports whether the value matches the canonical ledger entry enum.
func (t LedgerEntryType) IsValid() bool {
	for _, candidate := range validLedgerEntryTypes {
		if candidate == t {
			return true
		}
	}
	return false
}

// ParseLedgerEntryType converts raw input into LedgerEntryType.
func ParseLedgerEntryType(value string) (LedgerEntryType, error) {
	for _, candidate := range validLedgerEntryTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid ledger entry type %q", value)
}
