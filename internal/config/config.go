package config

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

type Config struct {
	// Storage settings
	Storage StorageConfig `yaml:"storage"`

	// Defaults applied to new invoices
	Invoice InvoiceConfig `yaml:"invoice"`

	// Sender identity pre-filled into the "from" address
	Sender SenderConfig `yaml:"sender"`

	// Logging settings
	Log LogConfig `yaml:"log"`
}

type StorageConfig struct {
	Path string `yaml:"path"` // Path to the encrypted store file
}

type InvoiceConfig struct {
	DueDays      int     `yaml:"due_days"`      // Days from issue to due date
	TaxRate      float64 `yaml:"tax_rate"`      // Tax rate as a percentage (8.25 = 8.25%)
	Currency     string  `yaml:"currency"`      // Currency symbol shown on invoices
	NumberPrefix string  `yaml:"number_prefix"` // Invoice number prefix (e.g., "INV")
	OutputDir    string  `yaml:"output_dir"`    // Directory for exported PDFs
}

type SenderConfig struct {
	Name    string `yaml:"name"`
	Street  string `yaml:"street"`
	City    string `yaml:"city"`
	State   string `yaml:"state"`
	ZipCode string `yaml:"zip_code"`
	Country string `yaml:"country"`
	Email   string `yaml:"email"`
	Phone   string `yaml:"phone"`
}

type LogConfig struct {
	Path string `yaml:"path"` // Log file path
}

// DefaultConfigPath returns ~/.config/billfold/config.yaml
func DefaultConfigPath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		// Fallback to current directory if home dir unavailable
		return filepath.Join(".", ".config", "billfold", "config.yaml")
	}
	return filepath.Join(homeDir, ".config", "billfold", "config.yaml")
}

// DefaultConfig returns sensible defaults
func DefaultConfig() *Config {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		homeDir = "."
	}
	base := filepath.Join(homeDir, ".config", "billfold")

	return &Config{
		Storage: StorageConfig{
			Path: filepath.Join(base, "billfold.db"),
		},
		Invoice: InvoiceConfig{
			DueDays:      30,
			TaxRate:      0.0,
			Currency:     "$",
			NumberPrefix: "INV",
			OutputDir:    filepath.Join(base, "invoices"),
		},
		Sender: SenderConfig{},
		Log: LogConfig{
			Path: filepath.Join(base, "billfold.log"),
		},
	}
}

// Load loads config from the given path, or returns defaults if file doesn't exist
func Load(path string) (*Config, error) {
	// If file doesn't exist, return defaults
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return DefaultConfig(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadDefault loads from the default config path
func LoadDefault() (*Config, error) {
	return Load(DefaultConfigPath())
}

// Save writes the config to the given path
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// EnsureDirectories creates all necessary directories (store, PDFs, logs)
func (c *Config) EnsureDirectories() error {
	dbDir := filepath.Dir(c.Storage.Path)
	if err := os.MkdirAll(dbDir, 0755); err != nil {
		return err
	}

	if err := os.MkdirAll(c.Invoice.OutputDir, 0755); err != nil {
		return err
	}

	logDir := filepath.Dir(c.Log.Path)
	return os.MkdirAll(logDir, 0755)
}
