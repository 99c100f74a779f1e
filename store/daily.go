package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/etnz/carteira"
)

// SaveDailySnapshots replaces the materialized daily snapshots. The table is
// a cache of the reconstruction: it is rewritten in a single transaction and
// the last writer wins.
func (s *Store) SaveDailySnapshots(ctx context.Context, snapshots []carteira.DailySnapshot) error {
	now := time.Now().UTC().Format(time.RFC3339)
	err := s.inTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM portfolio_daily`); err != nil {
			return fmt.Errorf("failed to clear daily snapshots: %w", err)
		}
		stmt, err := tx.PrepareContext(ctx, `
			INSERT INTO portfolio_daily (date, value, contributions, withdrawals, distributions, computed_at)
			VALUES (?, ?, ?, ?, ?, ?)`)
		if err != nil {
			return fmt.Errorf("failed to prepare snapshot insert: %w", err)
		}
		defer stmt.Close()
		for _, d := range snapshots {
			_, err := stmt.ExecContext(ctx, d.Date.String(),
				d.Value.Decimal().String(),
				d.Contributions.Decimal().String(),
				d.Withdrawals.Decimal().String(),
				d.Distributions.Decimal().String(),
				now)
			if err != nil {
				return fmt.Errorf("failed to save snapshot %s: %w", d.Date, err)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	s.log.Debug().Int("days", len(snapshots)).Msg("daily snapshots saved")
	return nil
}

// ReadDailySnapshots returns the materialized daily snapshots in chronological order.
func (s *Store) ReadDailySnapshots(ctx context.Context) ([]carteira.DailySnapshot, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT date, value, contributions, withdrawals, distributions
		FROM portfolio_daily ORDER BY date`)
	if err != nil {
		return nil, fmt.Errorf("failed to query daily snapshots: %w", err)
	}
	defer rows.Close()

	var snaps []carteira.DailySnapshot
	for rows.Next() {
		var day, value, contrib, withdraw, dist string
		if err := rows.Scan(&day, &value, &contrib, &withdraw, &dist); err != nil {
			return nil, fmt.Errorf("failed to scan daily snapshot: %w", err)
		}
		var d carteira.DailySnapshot
		if d.Date, err = parseDate(day); err != nil {
			return nil, err
		}
		for _, f := range []struct {
			dst   *carteira.Money
			name  string
			value string
		}{
			{&d.Value, "value", value},
			{&d.Contributions, "contributions", contrib},
			{&d.Withdrawals, "withdrawals", withdraw},
			{&d.Distributions, "distributions", dist},
		} {
			if *f.dst, err = s.money(f.name, f.value); err != nil {
				return nil, err
			}
		}
		snaps = append(snaps, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating daily snapshots: %w", err)
	}
	return snaps, nil
}

// AddBenchmark records observations of a benchmark index. The symbol of the
// observations is ignored, an existing (name, date) is replaced.
func (s *Store) AddBenchmark(ctx context.Context, name string, obs ...carteira.PriceObservation) error {
	return s.inTx(ctx, func(tx *sql.Tx) error {
		for _, o := range obs {
			_, err := tx.ExecContext(ctx, `
				INSERT INTO benchmarks (name, date, value) VALUES (?, ?, ?)
				ON CONFLICT(name, date) DO UPDATE SET value = excluded.value`,
				name, o.Date.String(), o.Price.Decimal().String())
			if err != nil {
				return fmt.Errorf("failed to save benchmark %s: %w", name, err)
			}
		}
		return nil
	})
}

// ReadBenchmark returns the observations of a benchmark in chronological order.
// The observations carry the benchmark name as symbol.
func (s *Store) ReadBenchmark(ctx context.Context, name string) ([]carteira.PriceObservation, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT date, value FROM benchmarks WHERE name = ? ORDER BY date`, name)
	if err != nil {
		return nil, fmt.Errorf("failed to query benchmark %s: %w", name, err)
	}
	defer rows.Close()

	var obs []carteira.PriceObservation
	for rows.Next() {
		var day, value string
		if err := rows.Scan(&day, &value); err != nil {
			return nil, fmt.Errorf("failed to scan benchmark: %w", err)
		}
		o := carteira.PriceObservation{Symbol: name}
		if o.Date, err = parseDate(day); err != nil {
			return nil, err
		}
		if o.Price, err = s.money("value", value); err != nil {
			return nil, err
		}
		obs = append(obs, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating benchmark: %w", err)
	}
	if len(obs) == 0 {
		return nil, fmt.Errorf("benchmark %s: %w", name, ErrNotFound)
	}
	return obs, nil
}
