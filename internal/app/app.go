package app

import (
	"context"
	"fmt"
	"syscall"

	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/mabel/billfold/internal/config"
	"github.com/mabel/billfold/internal/crypto"
	"github.com/mabel/billfold/internal/db"
	"github.com/mabel/billfold/internal/domain"
	"github.com/mabel/billfold/internal/repository"
	"github.com/mabel/billfold/internal/store"
)

// App is the dependency injection container for all application components
type App struct {
	Config *config.Config
	Logger *zap.Logger
	DB     *db.DB
	Store  store.KVStore

	Invoices repository.InvoiceRepository
}

// New creates a new App instance, initializing all dependencies
// It handles:
// 1. Loading config
// 2. Getting encryption key from keyring
// 3. Opening the store
// 4. Running migrations
// 5. Creating the repository
func New(ctx context.Context) (*App, error) {
	cfg, err := config.LoadDefault()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	return NewWithConfig(ctx, cfg)
}

// NewWithConfig creates an App with a provided config (useful for testing)
func NewWithConfig(ctx context.Context, cfg *config.Config) (*App, error) {
	// Ensure all necessary directories exist
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("failed to create directories: %w", err)
	}

	// The TUI owns the terminal, so logs go to a file
	logger, err := newLogger(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	// Get keyring for secure password storage
	keyring := crypto.NewKeyring()

	// Try to get existing encryption key
	password, err := keyring.GetKey()
	if err != nil {
		// No key exists, prompt user to set one
		fmt.Println("Setting up store encryption for the first time...")
		password, err = promptForPassword()
		if err != nil {
			return nil, fmt.Errorf("failed to set password: %w", err)
		}

		if err := keyring.SetKey(password); err != nil {
			return nil, fmt.Errorf("failed to store encryption key: %w", err)
		}
	}

	// Open the encrypted store
	database, err := db.Open(cfg.Storage.Path, password)
	if err != nil {
		return nil, fmt.Errorf("failed to open store: %w", err)
	}

	// Run migrations to ensure schema is up to date
	if err := database.RunMigrations(); err != nil {
		database.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	kv := store.NewKV(database)

	return &App{
		Config:   cfg,
		Logger:   logger,
		DB:       database,
		Store:    kv,
		Invoices: repository.NewInvoiceRepo(kv, logger),
	}, nil
}

func newLogger(cfg *config.Config) (*zap.Logger, error) {
	zcfg := zap.NewProductionConfig()
	zcfg.OutputPaths = []string{cfg.Log.Path}
	zcfg.ErrorOutputPaths = []string{cfg.Log.Path}
	return zcfg.Build()
}

// Close cleanly shuts down the application
func (a *App) Close() error {
	if a.Logger != nil {
		_ = a.Logger.Sync()
	}
	if a.DB != nil {
		return a.DB.Close()
	}
	return nil
}

// NewInvoice creates an invoice seeded from the configured defaults.
func (a *App) NewInvoice() *domain.Invoice {
	return domain.New(domain.Defaults{
		NumberPrefix: a.Config.Invoice.NumberPrefix,
		DueDays:      a.Config.Invoice.DueDays,
		Currency:     a.Config.Invoice.Currency,
		TaxRate:      a.Config.Invoice.TaxRate,
		From: domain.Address{
			Name:    a.Config.Sender.Name,
			Street:  a.Config.Sender.Street,
			City:    a.Config.Sender.City,
			State:   a.Config.Sender.State,
			ZipCode: a.Config.Sender.ZipCode,
			Country: a.Config.Sender.Country,
			Email:   a.Config.Sender.Email,
			Phone:   a.Config.Sender.Phone,
		},
	})
}

// SaveConfig saves the current configuration to disk
func (a *App) SaveConfig() error {
	return a.Config.Save(config.DefaultConfigPath())
}

// promptForPassword prompts user for a new store password (first run)
// This should be called when keyring has no stored key
func promptForPassword() (string, error) {
	fmt.Println()
	fmt.Println("Your invoices will be encrypted with a password.")
	fmt.Println("This password will be stored securely in your system keyring.")
	fmt.Println()
	fmt.Print("Enter a password for store encryption: ")

	// Read password securely (no echo)
	password, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println()
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}

	if len(password) == 0 {
		return "", fmt.Errorf("password cannot be empty")
	}

	// Confirm password
	fmt.Print("Confirm password: ")
	confirm, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println()
	if err != nil {
		return "", fmt.Errorf("failed to read confirmation: %w", err)
	}

	if string(password) != string(confirm) {
		return "", fmt.Errorf("passwords do not match")
	}

	fmt.Println()
	fmt.Println("✓ Store encryption configured successfully")
	fmt.Println()

	return string(password), nil
}
