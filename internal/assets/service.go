package assets

import (
	"sort"
	"strings"

	"github.com/samber/lo"

	"github.com/wrencode/crypto-gains-calculator/internal/model"
)

// Service provides in-memory lookup over the cryptocurrencies a ledger touches.
type Service struct {
	tickers []string
	byName  map[string]int // ticker -> number of acquiring transactions
}

// NewService creates a Service from the tickers received by txs. The fiat
// currency is never tracked.
func NewService(txs []model.Transaction, fiat string) *Service {
	fiat = strings.ToUpper(fiat)
	byName := make(map[string]int)
	for _, tx := range txs {
		ticker := strings.ToUpper(strings.TrimSpace(tx.CurrencyOut))
		if ticker == "" || ticker == fiat {
			continue
		}
		byName[ticker]++
	}
	return newService(byName)
}

func newService(byName map[string]int) *Service {
	tickers := lo.Keys(byName)
	sort.Strings(tickers)
	return &Service{tickers: tickers, byName: byName}
}

// Tracked returns every ticker in sorted order.
func (s *Service) Tracked() []string {
	return s.tickers
}

// Acquisitions returns how many transactions received the ticker.
func (s *Service) Acquisitions(ticker string) int {
	return s.byName[strings.ToUpper(ticker)]
}

// Without returns a copy of the Service with the given tickers removed.
func (s *Service) Without(tickers ...string) *Service {
	drop := lo.SliceToMap(tickers, func(t string) (string, struct{}) {
		return strings.ToUpper(t), struct{}{}
	})
	byName := lo.PickBy(s.byName, func(k string, _ int) bool {
		_, gone := drop[k]
		return !gone
	})
	return newService(byName)
}
