package app

import (
	"context"
	"io"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/app"
	"go.uber.org/zap"

	"github.com/xenking/retail-store/internal/catalog"
	"github.com/xenking/retail-store/internal/cli"
	"github.com/xenking/retail-store/internal/domain/store"
)

// Run loads the catalog, builds the store and runs the interactive menu
// over in and out until the session ends. It is the single wiring point for
// the application.
func Run(ctx context.Context, lg *zap.Logger, m *app.Telemetry, cfg *Config, in io.Reader, out io.Writer) error {
	format, err := cli.ParseFormat(cfg.Output)
	if err != nil {
		return errors.Wrap(err, "output")
	}

	doc, err := loadCatalog(cfg.CatalogFile)
	if err != nil {
		return errors.Wrap(err, "load catalog")
	}
	products, err := doc.Build()
	if err != nil {
		return errors.Wrap(err, "build catalog")
	}

	opts := []store.Option{store.WithLogger(lg.Named("store"))}
	if m != nil {
		opts = append(opts,
			store.WithMeterProvider(m.MeterProvider()),
			store.WithTracerProvider(m.TracerProvider()),
		)
	}
	s, err := store.New(products, opts...)
	if err != nil {
		return errors.Wrap(err, "create store")
	}

	lg.Info("Store ready",
		zap.Int("products", len(products)),
		zap.Int("total_quantity", s.TotalQuantity()),
		zap.String("catalog", catalogName(cfg.CatalogFile)),
	)

	return cli.NewMenu(s, in, out, format).Run(ctx)
}

func loadCatalog(path string) (*catalog.Document, error) {
	if path == "" {
		return catalog.Default()
	}
	return catalog.Load(path)
}

func catalogName(path string) string {
	if path == "" {
		return "built-in"
	}
	return path
}
