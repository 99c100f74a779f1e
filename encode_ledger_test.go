package carteira

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

const sampleLedger = `
{"command":"asset","symbol":"HGLG11","name":"CSHG Logística","class":"FII","sector":"logistics","target":30}
{"command":"buy","date":"2024-01-03","symbol":"PETR4","quantity":100,"price":"30.5","fees":4.9}
{"command":"trade","side":"C","date":"2024-1-2","symbol":"HGLG11","quantity":2,"price":160}
{"command":"sell","date":"2024-02-01","symbol":"PETR4","quantity":40,"price":36,"note":"partial"}
{"command":"price","date":"2024-02-01","symbol":"PETR4","price":36.2}
{"command":"distribution","date":"2024-01-15","symbol":"HGLG11","kind":"income","amount":2.2,"currency":"BRL"}
`

func TestDecodeLedger(t *testing.T) {
	l, err := DecodeLedger(strings.NewReader(sampleLedger), "BRL")
	if err != nil {
		t.Fatalf("DecodeLedger() error = %v", err)
	}
	if len(l.Trades) != 3 || len(l.Prices) != 1 || len(l.Distributions) != 1 || len(l.Assets) != 1 {
		t.Fatalf("DecodeLedger() = %d trades %d prices %d distributions %d assets, want 3 1 1 1",
			len(l.Trades), len(l.Prices), len(l.Distributions), len(l.Assets))
	}
	first := l.Trades[0]
	if first.Symbol != "HGLG11" || first.Side != Buy || first.Date != day("2024-01-02") {
		t.Errorf("Trades[0] = %+v, want the HGLG11 buy of 2024-01-02 (sorted)", first)
	}
	petr := l.Trades[1]
	if !petr.Price.Equal(BRL(30.5)) || !petr.Fees.Equal(BRL(4.9)) || petr.Price.Currency() != "BRL" {
		t.Errorf("Trades[1] price, fees = %v, %v, want R$30.50, R$4.90", petr.Price, petr.Fees)
	}
	if l.Trades[2].Side != Sell || l.Trades[2].Note != "partial" || !l.Trades[2].Fees.IsZero() {
		t.Errorf("Trades[2] = %+v, want a sell without fees", l.Trades[2])
	}
	if c := l.AssetClasses()["HGLG11"]; c != Fund {
		t.Errorf("AssetClasses()[HGLG11] = %v, want %v", c, Fund)
	}
	if a := l.Asset("HGLG11"); a == nil || a.Target != 30 {
		t.Errorf("Asset(HGLG11) = %v, want target 30", a)
	}
}

func TestDecodeLedgerErrors(t *testing.T) {
	tests := []struct {
		name  string
		line  string
		field string
	}{
		{"bad json", `{"command":`, ""},
		{"unknown command", `{"command":"split","date":"2024-01-01","symbol":"X"}`, "command"},
		{"bad date", `{"command":"buy","date":"01/02/2024","symbol":"X","quantity":1,"price":1}`, "date"},
		{"bad quantity", `{"command":"buy","date":"2024-01-02","symbol":"X","quantity":"ten","price":1}`, "quantity"},
		{"zero quantity", `{"command":"buy","date":"2024-01-02","symbol":"X","quantity":0,"price":1}`, "quantity"},
		{"negative price", `{"command":"price","date":"2024-01-02","symbol":"X","price":-1}`, "price"},
		{"unknown side", `{"command":"trade","side":"X","date":"2024-01-02","symbol":"X","quantity":1,"price":1}`, "side"},
		{"missing symbol", `{"command":"sell","date":"2024-01-02","quantity":1,"price":1}`, "symbol"},
		{"other currency", `{"command":"price","date":"2024-01-02","symbol":"X","price":1,"currency":"USD"}`, "currency"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeLedger(strings.NewReader("\n"+tt.line+"\n"), "BRL")
			if !errors.Is(err, ErrInvalidRecord) {
				t.Fatalf("DecodeLedger() error = %v, want ErrInvalidRecord", err)
			}
			var re *RecordError
			if !errors.As(err, &re) {
				t.Fatalf("DecodeLedger() error = %T, want *RecordError", err)
			}
			if re.Line != 2 || re.Field != tt.field {
				t.Errorf("RecordError = line %d field %q, want line 2 field %q", re.Line, re.Field, tt.field)
			}
		})
	}
}

func TestEncodeLedger(t *testing.T) {
	l, err := DecodeLedger(strings.NewReader(sampleLedger), "BRL")
	if err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	if err := EncodeLedger(&buf, l); err != nil {
		t.Fatalf("EncodeLedger() error = %v", err)
	}
	want := `{"command":"asset","symbol":"HGLG11","name":"CSHG Logística","class":"fund","sector":"logistics","target":30}
{"command":"buy","date":"2024-01-02","symbol":"HGLG11","quantity":2,"price":160}
{"command":"buy","date":"2024-01-03","symbol":"PETR4","quantity":100,"price":30.5,"fees":4.9}
{"command":"sell","date":"2024-02-01","symbol":"PETR4","quantity":40,"price":36,"note":"partial"}
{"command":"price","date":"2024-02-01","symbol":"PETR4","price":36.2}
{"command":"distribution","date":"2024-01-15","symbol":"HGLG11","kind":"income","amount":2.2}
`
	if got := buf.String(); got != want {
		t.Errorf("EncodeLedger() =\n%s\nwant\n%s", got, want)
	}

	// encoding is stable.
	again, err := DecodeLedger(strings.NewReader(want), "BRL")
	if err != nil {
		t.Fatal(err)
	}
	var buf2 bytes.Buffer
	EncodeLedger(&buf2, again)
	if buf2.String() != want {
		t.Errorf("EncodeLedger(DecodeLedger()) =\n%s\nwant\n%s", buf2.String(), want)
	}
}
