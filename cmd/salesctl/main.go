package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/vfg2006/retail-sales-api/internal/config"
	"github.com/vfg2006/retail-sales-api/internal/domain"
	"github.com/vfg2006/retail-sales-api/internal/usecases/authenticating"
	"github.com/vfg2006/retail-sales-api/pkg/salesclient"
)

const usage = `uso: salesctl <comando> [opções]

comandos:
  list     lista uma página de vendas com os totais da página
  filters  mostra os valores disponíveis para cada filtro
  token    emite um token de operador para as rotas administrativas
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	var err error
	switch os.Args[1] {
	case "list":
		err = runList(os.Args[2:], os.Stdout)
	case "filters":
		err = runFilters(os.Args[2:], os.Stdout)
	case "token":
		err = runToken(os.Args[2:], os.Stdout)
	default:
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	if err != nil {
		fmt.Fprintln(os.Stderr, "erro:", err)
		os.Exit(1)
	}
}

// listFlag acumula flags repetíveis, também aceitando valores separados por vírgula
type listFlag []string

func (l *listFlag) String() string { return strings.Join(*l, ",") }

func (l *listFlag) Set(v string) error {
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			*l = append(*l, part)
		}
	}
	return nil
}

// optionalInt guarda nil enquanto a flag não for informada
type optionalInt struct{ value *int }

func (o *optionalInt) String() string {
	if o.value == nil {
		return ""
	}
	return strconv.Itoa(*o.value)
}

func (o *optionalInt) Set(v string) error {
	n, err := strconv.Atoi(v)
	if err != nil {
		return err
	}
	o.value = &n
	return nil
}

func runList(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("list", flag.ContinueOnError)
	server := fs.String("server", defaultServer(), "URL da API")
	search := fs.String("search", "", "busca por nome do cliente ou telefone")
	sortBy := fs.String("sort", "date", "date, quantity ou customerName")
	sortOrder := fs.String("order", "desc", "asc ou desc")
	page := fs.Int("page", 1, "página")
	pageSize := fs.Int("page-size", domain.DefaultPageSize, "itens por página")
	dateFrom := fs.String("from", "", "data inicial (YYYY-MM-DD)")
	dateTo := fs.String("to", "", "data final (YYYY-MM-DD)")

	var regions, genders, categories, tags, payments listFlag
	fs.Var(&regions, "region", "região (repetível)")
	fs.Var(&genders, "gender", "gênero (repetível)")
	fs.Var(&categories, "category", "categoria (repetível)")
	fs.Var(&tags, "tag", "tag (repetível)")
	fs.Var(&payments, "payment", "forma de pagamento (repetível)")

	var ageMin, ageMax optionalInt
	fs.Var(&ageMin, "age-min", "idade mínima")
	fs.Var(&ageMax, "age-max", "idade máxima")

	if err := fs.Parse(args); err != nil {
		return err
	}

	q := domain.SalesQuery{
		Search:         *search,
		Regions:        regions,
		Genders:        genders,
		Categories:     categories,
		PaymentMethods: payments,
		Tags:           tags,
		AgeMin:         ageMin.value,
		AgeMax:         ageMax.value,
		DateFrom:       domain.StringPtr(*dateFrom),
		DateTo:         domain.StringPtr(*dateTo),
		SortBy:         domain.SortKey(*sortBy),
		SortOrder:      domain.SortOrder(*sortOrder),
		Page:           *page,
		PageSize:       *pageSize,
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	result, err := salesclient.NewClient(*server).ListSales(ctx, q)
	if err != nil {
		return err
	}

	renderPage(out, result)
	return nil
}

func renderPage(out io.Writer, page *salesclient.Page) {
	summary := salesclient.Summarize(page.Data)
	srs := "SRs"
	if summary.TransactionCount == 1 {
		srs = "SR"
	}

	fmt.Fprintf(out, "Total units sold: %d\n", summary.TotalUnits)
	fmt.Fprintf(out, "Total Amount:     %s (%d %s)\n", salesclient.FormatINR(summary.TotalAmount), summary.TransactionCount, srs)
	fmt.Fprintf(out, "Total Discount:   %s (%d %s)\n\n", salesclient.FormatINR(summary.TotalDiscount), summary.TransactionCount, srs)

	if len(page.Data) == 0 {
		fmt.Fprintln(out, "Nenhuma venda encontrada.")
	} else {
		tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "Transaction ID\tDate\tCustomer Name\tPhone Number\tGender\tAge\tProduct Category\tQuantity\tFinal Amount\tCustomer Region")
		for _, r := range page.Data {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t%d\t%s\t%s\n",
				r.TransactionID,
				r.Date,
				r.CustomerName,
				salesclient.FormatPhone(r.PhoneNumber),
				orDash(r.Gender),
				intOrDash(r.Age),
				r.ProductCategory,
				r.Quantity,
				salesclient.FormatINR(r.FinalAmount),
				orDash(r.CustomerRegion),
			)
		}
		tw.Flush()
	}

	p := page.Pagination
	fmt.Fprintf(out, "\nPágina %d de %d (%d vendas)", p.CurrentPage, p.TotalPages, p.TotalItems)
	if numbers := salesclient.PageNumbers(p.CurrentPage, int(p.TotalPages)); numbers != nil {
		fmt.Fprintf(out, "  %s", formatPageNumbers(numbers, p.CurrentPage))
	}
	fmt.Fprintln(out)
}

func formatPageNumbers(numbers []int, current int) string {
	parts := make([]string, 0, len(numbers))
	for _, n := range numbers {
		switch n {
		case salesclient.Ellipsis:
			parts = append(parts, "...")
		case current:
			parts = append(parts, "["+strconv.Itoa(n)+"]")
		default:
			parts = append(parts, strconv.Itoa(n))
		}
	}
	return strings.Join(parts, " ")
}

func runFilters(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("filters", flag.ContinueOnError)
	server := fs.String("server", defaultServer(), "URL da API")
	if err := fs.Parse(args); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	options, err := salesclient.NewClient(*server).GetFilterOptions(ctx)
	if err != nil {
		return err
	}

	renderFilters(out, options)
	return nil
}

func renderFilters(out io.Writer, options *domain.FilterOptions) {
	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Regiões\t%s\n", strings.Join(options.Regions, ", "))
	fmt.Fprintf(tw, "Gêneros\t%s\n", strings.Join(options.Genders, ", "))
	fmt.Fprintf(tw, "Categorias\t%s\n", strings.Join(options.Categories, ", "))
	fmt.Fprintf(tw, "Pagamentos\t%s\n", strings.Join(options.PaymentMethods, ", "))
	fmt.Fprintf(tw, "Tags\t%s\n", strings.Join(options.Tags, ", "))
	tw.Flush()
}

// runToken lê SECRET_KEY da mesma configuração usada pela API
func runToken(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("token", flag.ContinueOnError)
	subject := fs.String("subject", "", "quem vai usar o token")
	ttl := fs.Duration("ttl", 24*time.Hour, "validade do token")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := config.NewConfig()
	if err != nil {
		return err
	}

	token, err := authenticating.NewService(cfg.SecretKey).IssueOperatorToken(*subject, *ttl)
	if err != nil {
		return err
	}

	fmt.Fprintln(out, token)
	return nil
}

func defaultServer() string {
	if v := os.Getenv("SALES_API_URL"); v != "" {
		return v
	}
	return "http://localhost:5000"
}

func orDash(s *string) string {
	if s == nil || *s == "" {
		return "-"
	}
	return *s
}

func intOrDash(n *int) string {
	if n == nil {
		return "-"
	}
	return strconv.Itoa(*n)
}
