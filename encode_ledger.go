package carteira

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/etnz/carteira/date"
	"github.com/shopspring/decimal"
)

func init() {
	decimal.MarshalJSONWithoutQuotes = true
}

// CommandType identifies the kind of record on a ledger line.
type CommandType string

const (
	CmdBuy          CommandType = "buy"
	CmdSell         CommandType = "sell"
	CmdTrade        CommandType = "trade" // side given by the "side" field
	CmdPrice        CommandType = "price"
	CmdDistribution CommandType = "distribution"
	CmdAsset        CommandType = "asset"
)

// record has all the fields a ledger line can hold. Numbers are kept raw to
// report which one is invalid.
type record struct {
	Command  CommandType     `json:"command"`
	Date     string          `json:"date"`
	Symbol   string          `json:"symbol"`
	Side     string          `json:"side"`
	Quantity json.RawMessage `json:"quantity"`
	Price    json.RawMessage `json:"price"`
	Fees     json.RawMessage `json:"fees"`
	Amount   json.RawMessage `json:"amount"`
	Currency string          `json:"currency"`
	Kind     string          `json:"kind"`
	Note     string          `json:"note"`
	Name     string          `json:"name"`
	Class    string          `json:"class"`
	Sector   string          `json:"sector"`
	Broker   string          `json:"broker"`
	Target   json.RawMessage `json:"target"`
}

// parseDecimal reads a number or a numeric string. Missing values are 0.
func parseDecimal(field string, raw json.RawMessage) (decimal.Decimal, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || string(raw) == "null" || string(raw) == `""` {
		return decimal.Zero, nil
	}
	var d decimal.Decimal
	if err := d.UnmarshalJSON(raw); err != nil {
		return decimal.Zero, invalid(field, "not a number: %s", raw)
	}
	return d, nil
}

// decoder turns records into ledger entries in the ledger currency.
type decoder struct {
	currency string
}

func (d decoder) money(r *record, field string, raw json.RawMessage) (Money, error) {
	v, err := parseDecimal(field, raw)
	if err != nil {
		return Money{}, err
	}
	return M(v, d.currency), nil
}

func (d decoder) day(r *record) (date.Date, error) {
	day, err := date.Parse(r.Date)
	if err != nil {
		return date.Date{}, &RecordError{Field: "date", Err: err}
	}
	return day, nil
}

func (d decoder) trade(r *record, side Side) (Trade, error) {
	day, err := d.day(r)
	if err != nil {
		return Trade{}, err
	}
	qty, err := parseDecimal("quantity", r.Quantity)
	if err != nil {
		return Trade{}, err
	}
	price, err := d.money(r, "price", r.Price)
	if err != nil {
		return Trade{}, err
	}
	fees, err := d.money(r, "fees", r.Fees)
	if err != nil {
		return Trade{}, err
	}
	t := Trade{
		Date:     day,
		Symbol:   strings.TrimSpace(r.Symbol),
		Side:     side,
		Quantity: Q(qty),
		Price:    price,
		Fees:     fees,
		Note:     r.Note,
	}
	return t, t.Validate()
}

func (d decoder) price(r *record) (PriceObservation, error) {
	day, err := d.day(r)
	if err != nil {
		return PriceObservation{}, err
	}
	price, err := d.money(r, "price", r.Price)
	if err != nil {
		return PriceObservation{}, err
	}
	p := PriceObservation{Date: day, Symbol: strings.TrimSpace(r.Symbol), Price: price}
	return p, p.Validate()
}

func (d decoder) distribution(r *record) (Distribution, error) {
	day, err := d.day(r)
	if err != nil {
		return Distribution{}, err
	}
	amount, err := d.money(r, "amount", r.Amount)
	if err != nil {
		return Distribution{}, err
	}
	dist := Distribution{Date: day, Symbol: strings.TrimSpace(r.Symbol), Kind: r.Kind, Amount: amount}
	return dist, dist.Validate()
}

func (d decoder) asset(r *record) (Asset, error) {
	target, err := parseDecimal("target", r.Target)
	if err != nil {
		return Asset{}, err
	}
	a := Asset{
		Symbol: strings.TrimSpace(r.Symbol),
		Name:   r.Name,
		Class:  ParseAssetClass(r.Class),
		Sector: r.Sector,
		Broker: r.Broker,
		Target: Percent(target.InexactFloat64()),
	}
	if a.Symbol == "" {
		return a, invalid("symbol", "missing symbol")
	}
	return a, nil
}

// DecodeLedger decodes a ledger from a stream of JSONL data, one record per
// line, and returns a sorted Ledger in the given currency.
//
// Amounts without currency are in the ledger currency. There is no currency
// conversion: a record in another currency is invalid.
func DecodeLedger(r io.Reader, currency string) (*Ledger, error) {
	ledger := NewLedger(currency)
	dec := decoder{currency: currency}
	scanner := bufio.NewScanner(r)

	for line := 1; scanner.Scan(); line++ {
		lineBytes := bytes.TrimSpace(scanner.Bytes())
		if len(lineBytes) == 0 {
			continue // Skip empty lines
		}

		var rec record
		if err := json.Unmarshal(lineBytes, &rec); err != nil {
			return nil, &RecordError{Line: line, Err: fmt.Errorf("could not decode %q: %w", string(lineBytes), err)}
		}
		if rec.Currency != "" && currency != "" && rec.Currency != currency {
			return nil, &RecordError{Line: line, Field: "currency", Err: fmt.Errorf("currency %s in a %s ledger", rec.Currency, currency)}
		}

		var err error
		switch rec.Command {
		case CmdBuy, CmdSell, CmdTrade:
			side := Buy
			switch {
			case rec.Command == CmdSell:
				side = Sell
			case rec.Command == CmdTrade:
				side, err = ParseSide(rec.Side)
				if err != nil {
					err = &RecordError{Field: "side", Err: err}
					break
				}
			}
			if err == nil {
				var t Trade
				if t, err = dec.trade(&rec, side); err == nil {
					ledger.Trades = append(ledger.Trades, t)
				}
			}
		case CmdPrice:
			var p PriceObservation
			if p, err = dec.price(&rec); err == nil {
				ledger.Prices = append(ledger.Prices, p)
			}
		case CmdDistribution:
			var d Distribution
			if d, err = dec.distribution(&rec); err == nil {
				ledger.Distributions = append(ledger.Distributions, d)
			}
		case CmdAsset:
			var a Asset
			if a, err = dec.asset(&rec); err == nil {
				ledger.AppendAssets(a)
			}
		default:
			err = &RecordError{Field: "command", Err: fmt.Errorf("unknown command %q", rec.Command)}
		}

		if err != nil {
			return nil, atLine(err, line)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading from input: %w", err)
	}

	// a single sort once everything is read.
	ledger.AppendTrades()
	ledger.AppendPrices()
	ledger.AppendDistributions()
	return ledger, nil
}

// atLine sets the line of a RecordError.
func atLine(err error, line int) error {
	if re, ok := err.(*RecordError); ok {
		re.Line = line
		return re
	}
	return &RecordError{Line: line, Err: err}
}

// EncodeLedger persists a ledger to an io.Writer in JSONL format: assets
// first, then trades, prices and distributions in chronological order.
func EncodeLedger(w io.Writer, l *Ledger) error {
	bw := bufio.NewWriter(w)
	write := func(o *jsonObjectWriter) error {
		b, err := o.MarshalJSON()
		if err != nil {
			return err
		}
		bw.Write(b)
		return bw.WriteByte('\n')
	}
	for _, a := range l.Assets {
		var o jsonObjectWriter
		o.Append("command", CmdAsset).Append("symbol", a.Symbol).
			Optional("name", a.Name).Optional("class", string(a.Class)).
			Optional("sector", a.Sector).Optional("broker", a.Broker).Optional("target", float64(a.Target))
		if err := write(&o); err != nil {
			return err
		}
	}
	for _, t := range l.Trades {
		var o jsonObjectWriter
		cmd := CmdBuy
		if t.Side == Sell {
			cmd = CmdSell
		}
		o.Append("command", cmd).Append("date", t.Date).Append("symbol", t.Symbol).
			Append("quantity", t.Quantity).Append("price", t.Price.value)
		if !t.Fees.IsZero() {
			o.Append("fees", t.Fees.value)
		}
		o.Optional("note", t.Note)
		if err := write(&o); err != nil {
			return err
		}
	}
	for _, p := range l.Prices {
		var o jsonObjectWriter
		o.Append("command", CmdPrice).Append("date", p.Date).Append("symbol", p.Symbol).Append("price", p.Price.value)
		if err := write(&o); err != nil {
			return err
		}
	}
	for _, d := range l.Distributions {
		var o jsonObjectWriter
		o.Append("command", CmdDistribution).Append("date", d.Date).Append("symbol", d.Symbol).
			Optional("kind", d.Kind).Append("amount", d.Amount.value)
		if err := write(&o); err != nil {
			return err
		}
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("failed to write ledger: %w", err)
	}
	return nil
}
