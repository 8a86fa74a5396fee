package salesclient

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// Summary agrega os registros da página exibida
type Summary struct {
	TotalUnits       int
	TotalAmount      decimal.Decimal
	TotalDiscount    decimal.Decimal
	TransactionCount int
}

// Summarize soma unidades, valor final e desconto (total - final) dos registros
func Summarize(records []Record) Summary {
	summary := Summary{
		TotalAmount:   decimal.Zero,
		TotalDiscount: decimal.Zero,
	}

	for _, r := range records {
		summary.TotalUnits += r.Quantity
		summary.TotalAmount = summary.TotalAmount.Add(r.FinalAmount)
		summary.TotalDiscount = summary.TotalDiscount.Add(r.TotalAmount.Sub(r.FinalAmount))
	}
	summary.TransactionCount = len(records)

	return summary
}

// FormatINR formata em rúpias sem casas decimais, com o agrupamento indiano (1,23,456)
func FormatINR(amount decimal.Decimal) string {
	rounded := amount.Round(0)

	sign := ""
	if rounded.IsNegative() {
		sign = "-"
		rounded = rounded.Neg()
	}

	digits := rounded.String()
	if len(digits) <= 3 {
		return sign + "₹" + digits
	}

	head, tail := digits[:len(digits)-3], digits[len(digits)-3:]
	groups := make([]string, 0, len(head)/2+1)
	for len(head) > 2 {
		groups = append([]string{head[len(head)-2:]}, groups...)
		head = head[:len(head)-2]
	}
	groups = append([]string{head}, groups...)

	return sign + "₹" + strings.Join(groups, ",") + "," + tail
}

// Ellipsis marca a posição das reticências em PageNumbers
const Ellipsis = 0

const maxPagesToShow = 6

// PageNumbers devolve os botões de página a exibir. Com uma página ou menos não há botões.
func PageNumbers(current, total int) []int {
	if total <= 1 {
		return nil
	}

	pages := make([]int, 0, maxPagesToShow)

	switch {
	case total <= maxPagesToShow:
		for i := 1; i <= total; i++ {
			pages = append(pages, i)
		}
	case current <= 3:
		for i := 1; i <= maxPagesToShow; i++ {
			pages = append(pages, i)
		}
	case current >= total-2:
		for i := total - maxPagesToShow + 1; i <= total; i++ {
			pages = append(pages, i)
		}
	default:
		pages = append(pages, 1, Ellipsis)
		for i := current - 1; i <= current+2; i++ {
			pages = append(pages, i)
		}
	}

	return pages
}

var (
	countryPrefix = regexp.MustCompile(`^\+91\s*`)
	whitespace    = regexp.MustCompile(`\s+`)
)

// FormatPhone remove o prefixo +91 e os espaços do telefone
func FormatPhone(phone string) string {
	return whitespace.ReplaceAllString(countryPrefix.ReplaceAllString(phone, ""), "")
}
