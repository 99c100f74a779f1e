package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/etnz/carteira"
	"github.com/etnz/carteira/date"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// money reads a TEXT decimal column in the portfolio currency.
func (s *Store) money(field, v string) (carteira.Money, error) {
	d, err := decimal.NewFromString(v)
	if err != nil {
		return carteira.Money{}, &carteira.RecordError{Field: field, Err: fmt.Errorf("not a number: %q", v)}
	}
	return carteira.M(d, s.currency), nil
}

func parseDate(v string) (date.Date, error) {
	d, err := date.Parse(v)
	if err != nil {
		return date.Date{}, &carteira.RecordError{Field: "date", Err: err}
	}
	return d, nil
}

// AddTrades appends trades to the trade ledger and returns their ids.
func (s *Store) AddTrades(ctx context.Context, trades ...carteira.Trade) ([]string, error) {
	ids := make([]string, 0, len(trades))
	now := time.Now().UTC().Format(time.RFC3339)
	err := s.inTx(ctx, func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx, `
			INSERT INTO trades (id, date, symbol, side, quantity, price, fees, note, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
		if err != nil {
			return fmt.Errorf("failed to prepare trade insert: %w", err)
		}
		defer stmt.Close()
		for _, t := range trades {
			if err := t.Validate(); err != nil {
				return fmt.Errorf("trade %s %s: %w", t.Date, t.Symbol, err)
			}
			id := uuid.NewString()
			_, err := stmt.ExecContext(ctx, id, t.Date.String(), t.Symbol, t.Side.String(),
				t.Quantity.String(), t.Price.Decimal().String(), t.Fees.Decimal().String(), t.Note, now)
			if err != nil {
				return fmt.Errorf("failed to create trade: %w", err)
			}
			ids = append(ids, id)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.log.Debug().Int("count", len(ids)).Msg("trades created")
	return ids, nil
}

// ReadTrades returns the trade ledger in chronological order, trades of the
// same day in insertion order.
func (s *Store) ReadTrades(ctx context.Context) ([]carteira.Trade, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT date, symbol, side, quantity, price, fees, note
		FROM trades
		ORDER BY date, rowid`)
	if err != nil {
		return nil, fmt.Errorf("failed to query trades: %w", err)
	}
	defer rows.Close()

	var trades []carteira.Trade
	for rows.Next() {
		t, err := s.scanTrade(rows)
		if err != nil {
			return nil, err
		}
		trades = append(trades, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating trades: %w", err)
	}
	return trades, nil
}

// Trade returns the trade with this id.
func (s *Store) Trade(ctx context.Context, id string) (carteira.Trade, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT date, symbol, side, quantity, price, fees, note
		FROM trades WHERE id = ?`, id)
	t, err := s.scanTrade(row)
	if errors.Is(err, sql.ErrNoRows) {
		return t, fmt.Errorf("trade %s: %w", id, ErrNotFound)
	}
	return t, err
}

// DeleteTrade removes a trade from the ledger.
func (s *Store) DeleteTrade(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM trades WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete trade: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("trade %s: %w", id, ErrNotFound)
	}
	return nil
}

func (s *Store) scanTrade(row rowScanner) (carteira.Trade, error) {
	var t carteira.Trade
	var day, side, qty, price, fees string
	if err := row.Scan(&day, &t.Symbol, &side, &qty, &price, &fees, &t.Note); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return t, err
		}
		return t, fmt.Errorf("failed to scan trade: %w", err)
	}
	var err error
	if t.Date, err = parseDate(day); err != nil {
		return t, err
	}
	if t.Side, err = carteira.ParseSide(side); err != nil {
		return t, &carteira.RecordError{Field: "side", Err: err}
	}
	q, err := decimal.NewFromString(qty)
	if err != nil {
		return t, &carteira.RecordError{Field: "quantity", Err: fmt.Errorf("not a number: %q", qty)}
	}
	t.Quantity = carteira.Q(q)
	if t.Price, err = s.money("price", price); err != nil {
		return t, err
	}
	if t.Fees, err = s.money("fees", fees); err != nil {
		return t, err
	}
	return t, nil
}

// AddPrices records price observations. An observation for an existing
// (date, symbol) replaces it.
func (s *Store) AddPrices(ctx context.Context, prices ...carteira.PriceObservation) error {
	err := s.inTx(ctx, func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx, `
			INSERT INTO prices (date, symbol, price) VALUES (?, ?, ?)
			ON CONFLICT(date, symbol) DO UPDATE SET price = excluded.price`)
		if err != nil {
			return fmt.Errorf("failed to prepare price insert: %w", err)
		}
		defer stmt.Close()
		for _, p := range prices {
			if err := p.Validate(); err != nil {
				return fmt.Errorf("price %s %s: %w", p.Date, p.Symbol, err)
			}
			if _, err := stmt.ExecContext(ctx, p.Date.String(), p.Symbol, p.Price.Decimal().String()); err != nil {
				return fmt.Errorf("failed to save price: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	s.log.Debug().Int("count", len(prices)).Msg("prices saved")
	return nil
}

// ReadPrices returns the price ledger sorted by date and symbol.
func (s *Store) ReadPrices(ctx context.Context) ([]carteira.PriceObservation, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT date, symbol, price FROM prices ORDER BY date, symbol`)
	if err != nil {
		return nil, fmt.Errorf("failed to query prices: %w", err)
	}
	defer rows.Close()

	var prices []carteira.PriceObservation
	for rows.Next() {
		var p carteira.PriceObservation
		var day, price string
		if err := rows.Scan(&day, &p.Symbol, &price); err != nil {
			return nil, fmt.Errorf("failed to scan price: %w", err)
		}
		if p.Date, err = parseDate(day); err != nil {
			return nil, err
		}
		if p.Price, err = s.money("price", price); err != nil {
			return nil, err
		}
		prices = append(prices, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating prices: %w", err)
	}
	return prices, nil
}

// AddDistributions appends distributions and returns their ids.
func (s *Store) AddDistributions(ctx context.Context, dists ...carteira.Distribution) ([]string, error) {
	ids := make([]string, 0, len(dists))
	err := s.inTx(ctx, func(tx *sql.Tx) error {
		for _, d := range dists {
			if err := d.Validate(); err != nil {
				return fmt.Errorf("distribution %s %s: %w", d.Date, d.Symbol, err)
			}
			id := uuid.NewString()
			_, err := tx.ExecContext(ctx, `
				INSERT INTO distributions (id, date, symbol, kind, amount) VALUES (?, ?, ?, ?, ?)`,
				id, d.Date.String(), d.Symbol, d.Kind, d.Amount.Decimal().String())
			if err != nil {
				return fmt.Errorf("failed to create distribution: %w", err)
			}
			ids = append(ids, id)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return ids, nil
}

// ReadDistributions returns the distributions in chronological order.
func (s *Store) ReadDistributions(ctx context.Context) ([]carteira.Distribution, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT date, symbol, kind, amount FROM distributions ORDER BY date, rowid`)
	if err != nil {
		return nil, fmt.Errorf("failed to query distributions: %w", err)
	}
	defer rows.Close()

	var dists []carteira.Distribution
	for rows.Next() {
		var d carteira.Distribution
		var day, amount string
		if err := rows.Scan(&day, &d.Symbol, &d.Kind, &amount); err != nil {
			return nil, fmt.Errorf("failed to scan distribution: %w", err)
		}
		if d.Date, err = parseDate(day); err != nil {
			return nil, err
		}
		if d.Amount, err = s.money("amount", amount); err != nil {
			return nil, err
		}
		dists = append(dists, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating distributions: %w", err)
	}
	return dists, nil
}

// PutAssets creates or replaces assets in the registry.
func (s *Store) PutAssets(ctx context.Context, assets ...carteira.Asset) error {
	return s.inTx(ctx, func(tx *sql.Tx) error {
		for _, a := range assets {
			if a.Symbol == "" {
				return &carteira.RecordError{Field: "symbol", Err: errors.New("missing symbol")}
			}
			class := a.Class
			if class == "" {
				class = carteira.Equity
			}
			_, err := tx.ExecContext(ctx, `
				INSERT INTO assets (symbol, name, class, sector, broker, target) VALUES (?, ?, ?, ?, ?, ?)
				ON CONFLICT(symbol) DO UPDATE SET
					name = excluded.name, class = excluded.class, sector = excluded.sector,
					broker = excluded.broker, target = excluded.target`,
				a.Symbol, a.Name, string(class), a.Sector, a.Broker, float64(a.Target))
			if err != nil {
				return fmt.Errorf("failed to save asset %s: %w", a.Symbol, err)
			}
		}
		return nil
	})
}

const assetColumns = `symbol, name, class, sector, broker, target`

func scanAsset(row rowScanner) (carteira.Asset, error) {
	var a carteira.Asset
	var class string
	var target float64
	if err := row.Scan(&a.Symbol, &a.Name, &class, &a.Sector, &a.Broker, &target); err != nil {
		return a, err
	}
	a.Class = carteira.ParseAssetClass(class)
	a.Target = carteira.Percent(target)
	return a, nil
}

// ReadAssets returns the asset registry sorted by symbol.
func (s *Store) ReadAssets(ctx context.Context) ([]carteira.Asset, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+assetColumns+` FROM assets ORDER BY symbol`)
	if err != nil {
		return nil, fmt.Errorf("failed to query assets: %w", err)
	}
	defer rows.Close()

	var assets []carteira.Asset
	for rows.Next() {
		a, err := scanAsset(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan asset: %w", err)
		}
		assets = append(assets, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating assets: %w", err)
	}
	return assets, nil
}

// Asset returns the registry entry of symbol.
func (s *Store) Asset(ctx context.Context, symbol string) (carteira.Asset, error) {
	a, err := scanAsset(s.db.QueryRowContext(ctx, `SELECT `+assetColumns+` FROM assets WHERE symbol = ?`, symbol))
	if errors.Is(err, sql.ErrNoRows) {
		return a, fmt.Errorf("asset %s: %w", symbol, ErrNotFound)
	}
	if err != nil {
		return a, fmt.Errorf("failed to get asset %s: %w", symbol, err)
	}
	return a, nil
}

// AssetClass implements carteira.AssetClassLookup. Lookup errors count as unknown.
func (s *Store) AssetClass(symbol string) (carteira.AssetClass, bool) {
	a, err := s.Asset(context.Background(), symbol)
	if err != nil {
		return "", false
	}
	return a.Class, true
}

// Import copies every record of src into the store and returns the number of
// trades imported.
func (s *Store) Import(ctx context.Context, src carteira.Source) (int, error) {
	l, err := carteira.Load(ctx, src)
	if err != nil {
		return 0, err
	}
	if err := s.PutAssets(ctx, l.Assets...); err != nil {
		return 0, err
	}
	ids, err := s.AddTrades(ctx, l.Trades...)
	if err != nil {
		return 0, err
	}
	if err := s.AddPrices(ctx, l.Prices...); err != nil {
		return len(ids), err
	}
	if _, err := s.AddDistributions(ctx, l.Distributions...); err != nil {
		return len(ids), err
	}
	s.log.Info().
		Int("trades", len(ids)).
		Int("prices", len(l.Prices)).
		Int("distributions", len(l.Distributions)).
		Int("assets", len(l.Assets)).
		Msg("ledger imported")
	return len(ids), nil
}

// check that a Store is a carteira.Source and an AssetClassLookup.
var (
	_ carteira.Source           = (*Store)(nil)
	_ carteira.AssetClassLookup = (*Store)(nil)
)
