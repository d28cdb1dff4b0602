package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"

	"github.com/spf13/pflag"

	"github.com/wadjakorntonsri/shortlink/pkg/adapters/repository/sqlstore"
	"github.com/wadjakorntonsri/shortlink/pkg/config"
	"github.com/wadjakorntonsri/shortlink/pkg/core/domain"
	"github.com/wadjakorntonsri/shortlink/pkg/core/validation"
	"github.com/wadjakorntonsri/shortlink/pkg/logging"
	"github.com/wadjakorntonsri/shortlink/pkg/ports"
)

const usage = "usage: cli export [--out file] | import --file links.json"

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, usage)
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	logger, logCloser, err := logging.New(cfg.Log)
	if err != nil {
		log.Fatalf("Failed to set up logging: %v", err)
	}
	defer logCloser.Close()

	repo, err := sqlstore.NewRepository(cfg.DatabaseURL, sqlstore.Options{
		MaxOpenConns:    cfg.DB.MaxOpenConns,
		MaxIdleConns:    cfg.DB.MaxIdleConns,
		ConnMaxLifetime: cfg.DB.ConnMaxLifetime,
	})
	if err != nil {
		log.Fatalf("Failed to connect to db: %v", err)
	}
	defer repo.Close()

	if err := run(context.Background(), os.Args[1:], repo, os.Stdout, logger); err != nil {
		logger.Error("command failed", "command", os.Args[1], "error", err)
		repo.Close()
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, repo ports.LinkRepository, stdout io.Writer, logger *slog.Logger) error {
	switch args[0] {
	case "export":
		fs := pflag.NewFlagSet("export", pflag.ContinueOnError)
		out := fs.StringP("out", "o", "", "write to this file instead of stdout")
		if err := fs.Parse(args[1:]); err != nil {
			return err
		}

		w := stdout
		if *out != "" {
			f, err := os.Create(*out)
			if err != nil {
				return err
			}
			defer f.Close()
			w = f
		}
		n, err := doExport(ctx, repo, w)
		if err != nil {
			return err
		}
		logger.Info("export finished", "links", n)
		return nil

	case "import":
		fs := pflag.NewFlagSet("import", pflag.ContinueOnError)
		file := fs.StringP("file", "f", "", "JSON file to import")
		if err := fs.Parse(args[1:]); err != nil {
			return err
		}
		if *file == "" {
			return errors.New("import: --file is required")
		}

		f, err := os.Open(*file)
		if err != nil {
			return err
		}
		defer f.Close()

		res, err := doImport(ctx, repo, f, logger)
		if err != nil {
			return err
		}
		logger.Info("import finished", "imported", res.Imported, "skipped", res.Skipped, "invalid", res.Invalid)
		return nil
	}
	return fmt.Errorf("unknown command %q (%s)", args[0], usage)
}

func doExport(ctx context.Context, repo ports.LinkRepository, w io.Writer) (int, error) {
	links, err := repo.List(ctx)
	if err != nil {
		return 0, err
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(links); err != nil {
		return 0, fmt.Errorf("encode: %w", err)
	}
	return len(links), nil
}

type importResult struct {
	Imported int
	Skipped  int // code already stored
	Invalid  int
}

// doImport stores each record of a previous export. Records keep their code
// but start over with no clicks.
func doImport(ctx context.Context, repo ports.LinkRepository, r io.Reader, logger *slog.Logger) (importResult, error) {
	var res importResult

	var links []domain.Link
	if err := json.NewDecoder(r).Decode(&links); err != nil {
		return res, fmt.Errorf("decode: %w", err)
	}

	for _, l := range links {
		if !validation.IsValidCode(l.Code) || validation.IsReservedCode(l.Code) || !validation.IsValidURL(l.URL) {
			logger.Warn("skipping invalid record", "code", l.Code, "url", l.URL)
			res.Invalid++
			continue
		}

		link := &domain.Link{Code: l.Code, URL: validation.NormalizeURL(l.URL)}
		err := repo.Create(ctx, link)
		switch {
		case errors.Is(err, domain.ErrDuplicateCode):
			logger.Info("skipping existing code", "code", l.Code)
			res.Skipped++
		case err != nil:
			return res, fmt.Errorf("import %s: %w", l.Code, err)
		default:
			res.Imported++
		}
	}
	return res, nil
}
