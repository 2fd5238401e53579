// Command matchpayments reconciles a bank or payment-app CSV export against
// open invoices: "matchpayments statement.csv". Rows whose subject carries an
// invoice code settle that invoice; the rest are printed for manual review.
package main

import (
	"context"
	"fmt"
	"os"

	_ "github.com/joho/godotenv/autoload" // Autoload .env file.

	"github.com/courtside/academy-api/internal/config"
	"github.com/courtside/academy-api/internal/db"
	"github.com/courtside/academy-api/internal/logger"
	"github.com/courtside/academy-api/internal/notifier"
	"github.com/courtside/academy-api/internal/repository"
	"github.com/courtside/academy-api/internal/repository/dao"
	"github.com/courtside/academy-api/internal/service"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	if len(os.Args) < 2 {
		return fmt.Errorf("usage: %s <statement.csv>", os.Args[0])
	}

	conf, err := config.Load("./cmd/app/config.yml")
	if err != nil {
		return fmt.Errorf("failed to initialize config -> %w", err)
	}

	if err = logger.Init(conf.API.Environment); err != nil {
		return fmt.Errorf("failed to initialize logger -> %w", err)
	}

	postgresDB, err := db.OpenPostgres(conf.Postgres)
	if err != nil {
		return fmt.Errorf("failed to initialize database -> %w", err)
	}

	statement, err := os.Open(os.Args[1])
	if err != nil {
		return fmt.Errorf("os.Open -> %w", err)
	}
	defer statement.Close()

	svc := service.NewBillingService(
		repository.NewRegistrationRepository(dao.NewRegistrationDAO(postgresDB)),
		repository.NewClassRepository(dao.NewClassDAO(postgresDB)),
		repository.NewUserRepository(dao.NewUserDAO(postgresDB)),
		repository.NewPaymentRepository(dao.NewPaymentDAO(postgresDB)),
		notifier.NewEmailNotifier(conf.SMTP),
	)

	outcome, err := svc.MatchStatement(context.Background(), statement)
	if err != nil {
		return fmt.Errorf("svc.MatchStatement -> %w", err)
	}

	fmt.Printf("matched %d payment(s)\n", len(outcome.Matched))
	for _, payment := range outcome.Matched {
		fmt.Printf("  %s\tuser %d\tpaid $%.2f\n", payment.InvoiceCode, payment.UserID, payment.AmountPaid)
	}
	if len(outcome.Unmatched) > 0 {
		fmt.Printf("unmatched %d row(s):\n", len(outcome.Unmatched))
		for _, subject := range outcome.Unmatched {
			fmt.Printf("  %q\n", subject)
		}
	}

	return nil
}
