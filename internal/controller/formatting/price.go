package formatting

import "github.com/shopspring/decimal"

// FormatMoney форматирует сумму в рублях, копейки только если они есть
func FormatMoney(amount decimal.Decimal) string {
	if amount.Equal(amount.Truncate(0)) {
		return amount.StringFixed(0) + " ₽"
	}
	return amount.StringFixed(2) + " ₽"
}
