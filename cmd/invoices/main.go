// Command invoices runs one monthly invoice generation batch. It is meant
// for cron: "invoices 2024-07" bills every student and parent for July and
// exits non-zero when the batch cannot complete.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	_ "github.com/joho/godotenv/autoload" // Autoload .env file.
	"go.uber.org/zap"

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
	month := time.Now().UTC().Format("2006-01")
	if len(os.Args) > 1 {
		month = os.Args[1]
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

	svc := service.NewBillingService(
		repository.NewRegistrationRepository(dao.NewRegistrationDAO(postgresDB)),
		repository.NewClassRepository(dao.NewClassDAO(postgresDB)),
		repository.NewUserRepository(dao.NewUserDAO(postgresDB)),
		repository.NewPaymentRepository(dao.NewPaymentDAO(postgresDB)),
		notifier.NewEmailNotifier(conf.SMTP),
	)

	batch, err := svc.GenerateMonthlyInvoices(context.Background(), month)
	if err != nil {
		return fmt.Errorf("svc.GenerateMonthlyInvoices -> %w", err)
	}

	zap.L().Info("invoice batch complete",
		zap.String("month", batch.Month),
		zap.Int("generated", len(batch.Invoices)),
		zap.Int("skipped", batch.Skipped),
	)
	for _, invoice := range batch.Invoices {
		fmt.Printf("%s\tuser %d\t$%.2f\n", invoice.InvoiceCode, invoice.UserID, invoice.AmountDue)
	}

	return nil
}
