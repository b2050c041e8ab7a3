package services

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"country-gdp-service/backend/metrics"

	"github.com/shopspring/decimal"
	"github.com/tidwall/gjson"
	"golang.org/x/sync/errgroup"
)

const maxPayloadBytes = 32 << 20

// Source labels used in metrics and health reports
const (
	SourceCountries = "countries"
	SourceExchange  = "exchange_rates"
)

// SourceData is the decoded output of both upstream calls
type SourceData struct {
	Countries []gjson.Result
	Rates     map[string]decimal.Decimal
}

// SourceFetcher retrieves the raw country directory and exchange rates
type SourceFetcher interface {
	Fetch(ctx context.Context) (*SourceData, error)
}

// RemoteFetcher calls the country directory and exchange rate APIs in parallel
type RemoteFetcher struct {
	countriesURL string
	exchangeURL  string
	client       *http.Client
	maxPayload   int64
}

func NewRemoteFetcher(countriesURL, exchangeURL string, timeout time.Duration) *RemoteFetcher {
	return &RemoteFetcher{
		countriesURL: countriesURL,
		exchangeURL:  exchangeURL,
		client: &http.Client{
			Timeout: timeout,
		},
		maxPayload: maxPayloadBytes,
	}
}

// Fetch issues both requests concurrently. The first failure cancels the
// other request and is returned as a *SourceUnavailableError.
func (f *RemoteFetcher) Fetch(ctx context.Context) (*SourceData, error) {
	var countriesBody, ratesBody []byte

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		body, err := f.get(gctx, SourceCountries, f.countriesURL)
		countriesBody = body
		return err
	})
	g.Go(func() error {
		body, err := f.get(gctx, SourceExchange, f.exchangeURL)
		ratesBody = body
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &SourceData{
		Countries: parseCountryList(countriesBody),
		Rates:     parseRates(ratesBody),
	}, nil
}

func (f *RemoteFetcher) get(ctx context.Context, source, url string) ([]byte, error) {
	start := time.Now()
	body, err := f.do(ctx, url)

	outcome := metrics.OutcomeSuccess
	if err != nil {
		outcome = metrics.OutcomeError
	}
	metrics.UpstreamFetchDuration.WithLabelValues(source, outcome).Observe(time.Since(start).Seconds())

	if err != nil {
		return nil, &SourceUnavailableError{Endpoint: url, Err: err}
	}
	return body, nil
}

func (f *RemoteFetcher) do(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	// One byte past the limit tells an oversized payload from one that fits exactly
	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxPayload+1))
	if err != nil {
		return nil, err
	}
	if int64(len(body)) > f.maxPayload {
		return nil, fmt.Errorf("payload exceeds %d bytes", f.maxPayload)
	}
	return body, nil
}

// parseCountryList returns the top-level array, or nothing if the payload is not one
func parseCountryList(body []byte) []gjson.Result {
	if !gjson.ValidBytes(body) {
		return []gjson.Result{}
	}
	root := gjson.ParseBytes(body)
	if !root.IsArray() {
		return []gjson.Result{}
	}
	return root.Array()
}

// parseRates reads the "rates" object; non-numeric entries are skipped
func parseRates(body []byte) map[string]decimal.Decimal {
	rates := make(map[string]decimal.Decimal)
	if !gjson.ValidBytes(body) {
		return rates
	}

	obj := gjson.GetBytes(body, "rates")
	if !obj.IsObject() {
		return rates
	}

	obj.ForEach(func(key, value gjson.Result) bool {
		if value.Type != gjson.Number {
			return true
		}
		rate, err := decimal.NewFromString(value.Raw)
		if err != nil {
			rate = decimal.NewFromFloat(value.Float())
		}
		rates[key.String()] = rate
		return true
	})
	return rates
}
