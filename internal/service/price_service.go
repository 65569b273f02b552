package service

import (
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/invportal/portfolio-backend/internal/apperrors"
	"github.com/invportal/portfolio-backend/internal/model"
	"github.com/invportal/portfolio-backend/internal/repository"
	"github.com/invportal/portfolio-backend/internal/yahoo"
)

// refreshConcurrency bounds the number of simultaneous quote fetches.
const refreshConcurrency = 4

// PriceService handles security price ingestion: CSV imports and quote
// refreshes from the pricing platform. Both paths go through the natural-key
// upsert, so re-importing the same file or re-fetching the same day updates
// rows in place instead of duplicating them.
type PriceService struct {
	priceRepo    *repository.SecurityPriceRepository
	securityRepo *repository.SecurityRepository
	finance      *yahoo.FinanceClient
}

// NewPriceService creates a new PriceService
func NewPriceService(
	priceRepo *repository.SecurityPriceRepository,
	securityRepo *repository.SecurityRepository,
	finance *yahoo.FinanceClient,
) *PriceService {
	return &PriceService{
		priceRepo:    priceRepo,
		securityRepo: securityRepo,
		finance:      finance,
	}
}

// GetPricesByTicker returns quotes for one ticker within [from, to].
func (s *PriceService) GetPricesByTicker(ticker string, from, to time.Time) ([]model.SecurityPrice, error) {
	sec, err := s.securityRepo.GetByTicker(ticker)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrSecurityNotFound, ticker)
	}
	return s.priceRepo.ListByRange(sec.ID, from, to)
}

// SavePrices upserts a batch of quotes keyed by their natural key.
func (s *PriceService) SavePrices(prices []model.SecurityPrice) error {
	for i := range prices {
		if prices[i].ID == "" {
			prices[i].ID = uuid.NewString()
		}
		if prices[i].Currency == "" {
			prices[i].Currency = "USD"
		}
		if err := s.priceRepo.Upsert(prices[i]); err != nil {
			return err
		}
	}
	return nil
}

// ImportCSV reads a price CSV and upserts one quote per (ticker, date).
//
// Headers are matched case-insensitively with spaces collapsed to
// underscores; date/price_date, ticker/symbol and close/price are accepted.
// Unknown tickers and rows with unparseable dates or prices are skipped and
// counted, not fatal. Rows sharing a natural key within the file collapse to
// the last occurrence.
func (s *PriceService) ImportCSV(r io.Reader, platformID string) (model.PriceImportSummary, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return model.PriceImportSummary{}, fmt.Errorf("%w: %v", apperrors.ErrInvalidCSVHeaders, err)
	}

	col := make(map[string]int)
	for i, h := range header {
		col[normalizeHeader(h)] = i
	}

	dateIdx, ok := findColumn(col, "date", "price_date")
	if !ok {
		return model.PriceImportSummary{}, fmt.Errorf("%w: missing date column", apperrors.ErrInvalidCSVHeaders)
	}
	tickerIdx, ok := findColumn(col, "ticker", "symbol")
	if !ok {
		return model.PriceImportSummary{}, fmt.Errorf("%w: missing ticker column", apperrors.ErrInvalidCSVHeaders)
	}
	priceIdx, ok := findColumn(col, "close", "price")
	if !ok {
		return model.PriceImportSummary{}, fmt.Errorf("%w: missing close/price column", apperrors.ErrInvalidCSVHeaders)
	}

	tickerMap, err := s.loadTickerMap()
	if err != nil {
		return model.PriceImportSummary{}, err
	}

	summary := model.PriceImportSummary{}
	unknownTickers := make(map[string]bool)
	type naturalKey struct {
		SecurityID string
		Date       string
	}
	pending := make(map[naturalKey]model.SecurityPrice)

	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return model.PriceImportSummary{}, fmt.Errorf("failed to read CSV row: %w", err)
		}
		summary.TotalRows++

		ticker := strings.ToUpper(strings.TrimSpace(field(record, tickerIdx)))
		sec, ok := tickerMap[ticker]
		if !ok {
			if ticker != "" && !unknownTickers[ticker] {
				unknownTickers[ticker] = true
				summary.SkippedTickers = append(summary.SkippedTickers, ticker)
			}
			summary.SkippedRows++
			continue
		}

		date, ok := parseFlexibleDate(field(record, dateIdx))
		if !ok {
			summary.SkippedRows++
			continue
		}

		price, ok := parseFlexibleFloat(field(record, priceIdx))
		if !ok {
			summary.SkippedRows++
			continue
		}

		quote := model.SecurityPrice{
			ID:         uuid.NewString(),
			SecurityID: sec.ID,
			PlatformID: platformID,
			PriceDate:  date,
			Price:      price,
			Currency:   sec.Currency,
			Notes:      "CSV Loader",
		}
		if openIdx, ok := findColumn(col, "open", "open_px"); ok {
			if v, ok := parseFlexibleFloat(field(record, openIdx)); ok {
				quote.OpenPx = &v
			}
		}
		if closeIdx, ok := findColumn(col, "close", "close_px"); ok {
			if v, ok := parseFlexibleFloat(field(record, closeIdx)); ok {
				quote.ClosePx = &v
			}
		}
		if highIdx, ok := findColumn(col, "high", "high_px"); ok {
			if v, ok := parseFlexibleFloat(field(record, highIdx)); ok {
				quote.HighPx = &v
			}
		}
		if lowIdx, ok := findColumn(col, "low", "low_px"); ok {
			if v, ok := parseFlexibleFloat(field(record, lowIdx)); ok {
				quote.LowPx = &v
			}
		}
		if volIdx, ok := findColumn(col, "volume"); ok {
			if v, ok := parseFlexibleFloat(field(record, volIdx)); ok {
				quote.Volume = &v
			}
		}

		pending[naturalKey{SecurityID: sec.ID, Date: date.Format("2006-01-02")}] = quote
	}

	for _, quote := range pending {
		if err := s.priceRepo.Upsert(quote); err != nil {
			return model.PriceImportSummary{}, fmt.Errorf("%w: %v", apperrors.ErrFailedToImportPrices, err)
		}
		summary.Imported++
	}

	return summary, nil
}

// RefreshQuotes fetches the latest close for every public security and
// upserts it under the given pricing platform. Fetches run concurrently with
// a bounded errgroup; individual symbol failures are logged and counted, not
// fatal. Writes happen after the fan-in, serially.
func (s *PriceService) RefreshQuotes(platformID string) (model.PriceImportSummary, error) {
	securities, err := s.securityRepo.GetAllSecurities(true)
	if err != nil {
		return model.PriceImportSummary{}, fmt.Errorf("%w: %v", apperrors.ErrFailedToRefreshQuotes, err)
	}

	quotes := make([]*model.SecurityPrice, len(securities))

	var g errgroup.Group
	g.SetLimit(refreshConcurrency)

	for i, sec := range securities {
		i, sec := i, sec
		g.Go(func() error {
			resp, err := s.finance.QueryFiveDaySymbol(sec.Ticker)
			if err != nil {
				log.Printf("quote refresh: %s: %v", sec.Ticker, err)
				return nil
			}

			chart, err := s.finance.ParseChart(resp)
			if err != nil {
				log.Printf("quote refresh: %s: %v", sec.Ticker, err)
				return nil
			}

			latest, ok := chart.Latest()
			if !ok || latest.PriceClose <= 0 {
				log.Printf("quote refresh: %s: no usable close price", sec.Ticker)
				return nil
			}

			volume := float64(latest.Volume)
			quotes[i] = &model.SecurityPrice{
				ID:         uuid.NewString(),
				SecurityID: sec.ID,
				PlatformID: platformID,
				PriceDate:  latest.Date,
				Price:      latest.PriceClose,
				OpenPx:     &latest.PriceOpen,
				ClosePx:    &latest.PriceClose,
				HighPx:     &latest.PriceHigh,
				LowPx:      &latest.PriceLow,
				Volume:     &volume,
				Currency:   sec.Currency,
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return model.PriceImportSummary{}, fmt.Errorf("%w: %v", apperrors.ErrFailedToRefreshQuotes, err)
	}

	summary := model.PriceImportSummary{TotalRows: len(securities)}
	for i, quote := range quotes {
		if quote == nil {
			summary.SkippedRows++
			summary.SkippedTickers = append(summary.SkippedTickers, securities[i].Ticker)
			continue
		}
		if err := s.priceRepo.Upsert(*quote); err != nil {
			return model.PriceImportSummary{}, fmt.Errorf("%w: %v", apperrors.ErrFailedToRefreshQuotes, err)
		}
		summary.Imported++
	}

	return summary, nil
}

func (s *PriceService) loadTickerMap() (map[string]model.Security, error) {
	securities, err := s.securityRepo.GetAllSecurities(false)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrFailedToRetrieveSecurities, err)
	}

	out := make(map[string]model.Security, len(securities))
	for _, sec := range securities {
		ticker := strings.ToUpper(strings.TrimSpace(sec.Ticker))
		if ticker != "" {
			out[ticker] = sec
		}
	}
	return out, nil
}

func normalizeHeader(h string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(h)), " ", "_")
}

func findColumn(col map[string]int, names ...string) (int, bool) {
	for _, name := range names {
		if idx, ok := col[name]; ok {
			return idx, true
		}
	}
	return 0, false
}

func field(record []string, idx int) string {
	if idx < 0 || idx >= len(record) {
		return ""
	}
	return record[idx]
}

// parseFlexibleDate accepts the date layouts seen in broker exports.
// ISO datetimes fall back to their first ten characters.
func parseFlexibleDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}

	layouts := []string{
		"2006-01-02",
		"2006-01-02 15:04:05",
		"01/02/2006",
		"2006/01/02",
		"02-Jan-2006",
	}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC().Truncate(24 * time.Hour), true
		}
	}

	if len(s) >= 10 {
		if t, err := time.Parse("2006-01-02", s[:10]); err == nil {
			return t.UTC(), true
		}
	}

	return time.Time{}, false
}

// parseFlexibleFloat rejects the usual NaN markers and strips thousands
// separators before parsing.
func parseFlexibleFloat(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	switch strings.ToLower(s) {
	case "", "nan", "na", "null", "none":
		return 0, false
	}
	s = strings.ReplaceAll(s, ",", "")

	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
