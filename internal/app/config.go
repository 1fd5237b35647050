package app

import (
	"github.com/cristalhq/aconfig"
	"github.com/cristalhq/aconfig/aconfigyaml"
	"github.com/go-faster/errors"

	"github.com/xenking/retail-store/internal/cli"
)

// Config holds the complete application configuration, loadable from
// environment variables (STORE_ prefix), flags, or YAML config files.
type Config struct {
	CatalogFile string `default:"" env:"CATALOG_FILE" yaml:"catalog_file" flag:"catalog-file" usage:"Catalog JSON file, optionally gzipped (.gz). Empty uses the built-in catalog"`
	Output      string `default:"text" env:"OUTPUT" yaml:"output" flag:"output" usage:"Output format for listings and receipts: text or json"`
}

// LoadConfig loads configuration from environment variables, flags and YAML
// config files.
func LoadConfig() (*Config, error) {
	return loadConfig(aconfig.Config{
		EnvPrefix: "STORE",
		Files:     []string{"config.yaml", "/etc/store/config.yaml"},
		FileDecoders: map[string]aconfig.FileDecoder{
			".yaml": aconfigyaml.New(),
		},
	})
}

func loadConfig(ac aconfig.Config) (*Config, error) {
	var cfg Config
	loader := aconfig.LoaderFor(&cfg, ac)
	if err := loader.Load(); err != nil {
		return nil, errors.Wrap(err, "load config")
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if _, err := cli.ParseFormat(c.Output); err != nil {
		return errors.Wrap(err, "output")
	}
	return nil
}
