package carteira

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/PaesslerAG/jsonpath"
	"github.com/etnz/carteira/date"
)

/*
DecodeQuotes reads a quote dump as returned by the brapi.dev quote endpoint:

	{
	    "results": [
	        {
	            "symbol": "PETR4",
	            "currency": "BRL",
	            "regularMarketPrice": 38.52,
	            "regularMarketTime": "2024-05-10T20:07:00.000Z",
	            "historicalDataPrice": [
	                {"date": 1715212800, "close": 37.9},
	                ...
	            ]
	        }
	    ]
	}

and returns one price observation per quote, the historical closes included.
Quotes in another currency than the portfolio one are rejected.
*/
func DecodeQuotes(r io.Reader, currency string) ([]PriceObservation, error) {
	var jobj any
	if err := json.NewDecoder(r).Decode(&jobj); err != nil {
		return nil, fmt.Errorf("could not decode quotes: %w", err)
	}
	jresults, err := jsonpath.Get("$.results[*]", jobj)
	if err != nil {
		return nil, fmt.Errorf("no results in quotes: %w", err)
	}
	results, _ := jresults.([]any)

	var obs []PriceObservation
	for i, jres := range results {
		symbol, _ := first(jsonpath.Get("$.symbol", jres)).(string)
		if symbol == "" {
			return nil, &RecordError{Line: i + 1, Field: "symbol", Err: fmt.Errorf("missing symbol")}
		}
		if cur, _ := first(jsonpath.Get("$.currency", jres)).(string); cur != "" && currency != "" && cur != currency {
			return nil, &RecordError{Line: i + 1, Field: "currency", Err: fmt.Errorf("%s quote %s in a %s portfolio", symbol, cur, currency)}
		}

		if jhist, err := jsonpath.Get("$.historicalDataPrice[*]", jres); err == nil {
			hist, _ := jhist.([]any)
			for _, jh := range hist {
				day, ok := quoteDate(first(jsonpath.Get("$.date", jh)))
				price, okp := first(jsonpath.Get("$.close", jh)).(float64)
				if !ok || !okp {
					continue // brapi leaves holes in the series
				}
				obs = append(obs, PriceObservation{Date: day, Symbol: symbol, Price: M(price, currency)})
			}
		}

		price, ok := first(jsonpath.Get("$.regularMarketPrice", jres)).(float64)
		if !ok {
			return nil, &RecordError{Line: i + 1, Field: "regularMarketPrice", Err: fmt.Errorf("%s: not a number", symbol)}
		}
		day, ok := quoteDate(first(jsonpath.Get("$.regularMarketTime", jres)))
		if !ok {
			return nil, &RecordError{Line: i + 1, Field: "regularMarketTime", Err: fmt.Errorf("%s: invalid time", symbol)}
		}
		obs = append(obs, PriceObservation{Date: day, Symbol: symbol, Price: M(price, currency)})
	}
	return sortPrices(obs), nil
}

// first unwraps jsonpath results: jsonpath is never clear about whether it
// returns a list of 1 answer or a single answer, keep the first one if any.
func first(jval any, err error) any {
	if err != nil {
		return nil
	}
	if jlist, ok := jval.([]any); ok {
		if len(jlist) == 0 {
			return nil
		}
		return jlist[0]
	}
	return jval
}

// quoteDate reads a unix timestamp or an RFC 3339 time.
func quoteDate(v any) (date.Date, bool) {
	switch t := v.(type) {
	case float64:
		return date.Of(time.Unix(int64(t), 0).UTC()), true
	case string:
		if ts, err := time.Parse(time.RFC3339, t); err == nil {
			return date.Of(ts.UTC()), true
		}
		d, err := date.Parse(t)
		return d, err == nil
	}
	return date.Date{}, false
}
