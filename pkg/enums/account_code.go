package enums

import "fmt"

// AccountCode identifies the chart-of-accounts bucket a ledger entry posts
// against.
type AccountCode string

const (
	AccountCodeCourierPayable   AccountCode = "2101"
	AccountCodeMerchantPayable  AccountCode = "2102"
	AccountCodeWithdrawalEscrow AccountCode = "2201"
	AccountCodePenaltyClearing  AccountCode = "2301"
	AccountCodePlatformRevenue  AccountCode = "4001"
)

var validAccountCodes = []AccountCode{
	AccountCodeCourierPayable,
	AccountCodeMerchantPayable,
	AccountCodeWithdrawalEscrow,
	AccountCodePenaltyClearing,
	AccountCodePlatformRevenue,
}

// IsValid reports whether the value is a known AccountCode.
func (a AccountCode) IsValid() bool {
	for _, candidate := range validAccountCodes {
		if candidate == a {
			return true
		}
	}
	return false
}

// ParseAccountCode converts raw input into an AccountCode.
func ParseAccountCode(value string) (AccountCode, error) {
	for _, candidate := range validAccountCodes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid account code %q", value)
}
