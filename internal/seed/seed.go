// Package seed populates the catalog and user directory at startup. The
// engine keeps no durable state, so every process starts from either the
// built-in demo data or operator-provided catalog files.
package seed

import (
	"bufio"
	"context"
	"os"
	"strings"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
	pgzip "github.com/klauspost/pgzip"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/xenking/storefront-engine/internal/domain/product"
	"github.com/xenking/storefront-engine/internal/domain/user"
)

// entry is one product row before it is handed to the catalog.
type entry struct {
	name  string
	price decimal.Decimal
}

// defaultProducts is the demo storefront catalog, used when no seed files
// are configured.
var defaultProducts = []entry{
	{"Ergonomic Keyboard", decimal.NewFromInt(150)},
	{"Wireless Mouse", decimal.NewFromInt(50)},
	{"HD Monitor", decimal.NewFromInt(300)},
	{"USB-C Hub", decimal.NewFromInt(40)},
	{"Laptop Stand", decimal.NewFromInt(45)},
	{"Noise Cancelling Headphones", decimal.NewFromInt(200)},
}

// defaultUsers is the demo user set.
var defaultUsers = []string{"User A", "User B", "User C", "User D"}

// Catalog fills the product repository. When paths is non-empty, each path
// must point to a gzipped JSONL file of {"name": ..., "price": ...} records;
// files are parsed concurrently and their products added in path order. With
// no paths the built-in demo catalog is used. It returns the number of
// products added.
func Catalog(ctx context.Context, repo product.Repository, paths []string) (int, error) {
	batches := [][]entry{defaultProducts}

	if len(paths) > 0 {
		parsed := make([][]entry, len(paths))

		g, ctx := errgroup.WithContext(ctx)
		for i, path := range paths {
			g.Go(func() error {
				rows, err := parseFile(ctx, path)
				if err != nil {
					return errors.Wrapf(err, "parse %s", path)
				}
				parsed[i] = rows
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return 0, err
		}
		batches = parsed
	}

	added := 0
	for _, rows := range batches {
		for _, row := range rows {
			if _, err := repo.Add(ctx, row.name, row.price); err != nil {
				return added, errors.Wrapf(err, "add product %q", row.name)
			}
			added++
		}
	}
	return added, nil
}

// Users adds the demo users to the directory.
func Users(ctx context.Context, dir user.Directory) error {
	for _, name := range defaultUsers {
		if _, err := dir.Add(ctx, name); err != nil {
			return errors.Wrapf(err, "add user %q", name)
		}
	}
	return nil
}

// parseFile streams a gzipped JSONL catalog file. Blank lines are skipped;
// anything else must decode to a product record.
func parseFile(ctx context.Context, path string) ([]entry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "open")
	}
	defer func() { _ = f.Close() }()

	gz, err := pgzip.NewReader(f)
	if err != nil {
		return nil, errors.Wrap(err, "create gzip reader")
	}
	defer func() { _ = gz.Close() }()

	var rows []entry
	scanner := bufio.NewScanner(gz)
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		row, err := parseLine(line)
		if err != nil {
			return nil, errors.Wrapf(err, "line %d", len(rows)+1)
		}
		rows = append(rows, row)
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "scan")
	}

	return rows, nil
}

// parseLine decodes one {"name": ..., "price": ...} record.
func parseLine(line string) (entry, error) {
	var row entry

	d := jx.DecodeStr(line)
	if err := d.Obj(func(d *jx.Decoder, key string) error {
		switch key {
		case "name":
			v, err := d.Str()
			if err != nil {
				return errors.Wrap(err, "name")
			}
			row.name = v
			return nil
		case "price":
			n, err := d.Num()
			if err != nil {
				return errors.Wrap(err, "price")
			}
			p, err := decimal.NewFromString(strings.Trim(n.String(), `"`))
			if err != nil {
				return errors.Wrap(err, "price")
			}
			row.price = p
			return nil
		default:
			return d.Skip()
		}
	}); err != nil {
		return entry{}, err
	}

	if row.name == "" || !row.price.IsPositive() {
		return entry{}, errors.Errorf("invalid product record: %s", line)
	}
	return row, nil
}
