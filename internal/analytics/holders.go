package analytics

import (
	"context"
	"fmt"
	"log"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"solana-token-screener/internal/domain"
	"solana-token-screener/internal/helius"
)

// Holder discovery defaults.
const (
	DefaultTopHoldersLimit = 20
	DefaultPageSize        = 1000
	DefaultParseWorkers    = 10
)

// HolderScannerOptions configures a HolderScanner.
type HolderScannerOptions struct {
	// TopHoldersLimit caps the returned holder list.
	TopHoldersLimit int
	// PageSize bounds how many raw accounts are parsed per batch.
	PageSize int
	// ParseWorkers bounds the account-parsing fan-out.
	ParseWorkers int
	// CacheTTL enables best-effort holder caching per mint when
	// positive. The cache only dedups bursty repeat calls; holder sets
	// mutate on-chain continuously, so it is never a freshness
	// guarantee.
	CacheTTL time.Duration
}

// HolderScanner resolves token metadata and enumerates current holders
// above a zero-balance threshold, returning the top-N by balance.
type HolderScanner struct {
	rpc  helius.RPCClient
	opts HolderScannerOptions

	mu    sync.Mutex
	cache map[string]holderCacheEntry
}

type holderCacheEntry struct {
	holders   []domain.Holder
	fetchedAt time.Time
}

// NewHolderScanner creates a HolderScanner. Zero option fields take
// defaults.
func NewHolderScanner(rpc helius.RPCClient, opts HolderScannerOptions) *HolderScanner {
	if opts.TopHoldersLimit <= 0 {
		opts.TopHoldersLimit = DefaultTopHoldersLimit
	}
	if opts.PageSize <= 0 {
		opts.PageSize = DefaultPageSize
	}
	if opts.ParseWorkers <= 0 {
		opts.ParseWorkers = DefaultParseWorkers
	}
	return &HolderScanner{
		rpc:   rpc,
		opts:  opts,
		cache: make(map[string]holderCacheEntry),
	}
}

// Metadata resolves decimals and symbol for a mint. Resolution is
// best-effort: any failure is logged and defaults are returned.
func (s *HolderScanner) Metadata(ctx context.Context, mint string) domain.TokenMetadata {
	meta := domain.DefaultTokenMetadata()

	result, err := s.rpc.GetTokenMetadata(ctx, mint)
	if err != nil {
		log.Printf("holder scanner: token metadata for %s: %v", mint, err)
		return meta
	}

	if result.Decimals != nil {
		meta.Decimals = *result.Decimals
	}
	if result.Symbol != "" {
		meta.Symbol = result.Symbol
	}
	return meta
}

// Holders returns current holders of the mint, descending by balance,
// at most TopHoldersLimit entries. An upstream failure is returned to
// the caller: holder discovery is a required pipeline input.
func (s *HolderScanner) Holders(ctx context.Context, mint string) ([]domain.Holder, error) {
	if cached, ok := s.cachedHolders(mint); ok {
		return cached, nil
	}

	meta := s.Metadata(ctx, mint)

	accounts, err := s.rpc.GetTokenAccountsByMint(ctx, mint)
	if err != nil {
		return nil, fmt.Errorf("token accounts for %s: %w", mint, err)
	}

	var holders []domain.Holder
	for start := 0; start < len(accounts); start += s.opts.PageSize {
		end := start + s.opts.PageSize
		if end > len(accounts) {
			end = len(accounts)
		}
		batch, err := s.parseBatch(ctx, accounts[start:end], meta)
		if err != nil {
			return nil, err
		}
		holders = append(holders, batch...)
	}

	sortHolders(holders)
	if len(holders) > s.opts.TopHoldersLimit {
		holders = holders[:s.opts.TopHoldersLimit]
	}

	s.storeCache(mint, holders)
	return holders, nil
}

// parseBatch decodes a slice of raw accounts on a bounded worker pool.
// Each record is independently decodable; results are re-sorted by the
// caller, so parse order does not matter.
func (s *HolderScanner) parseBatch(ctx context.Context, accounts []helius.ProgramAccount, meta domain.TokenMetadata) ([]domain.Holder, error) {
	parsed := make([]*domain.Holder, len(accounts))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(s.opts.ParseWorkers)
	for i, account := range accounts {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			parsed[i] = parseHolder(account, meta)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	holders := make([]domain.Holder, 0, len(accounts))
	for _, h := range parsed {
		if h != nil {
			holders = append(holders, *h)
		}
	}
	return holders, nil
}

// parseHolder converts one parsed program account into a Holder.
// Accounts with a zero or absent owner/amount are discarded, as are
// owners that do not decode to a 32-byte key.
func parseHolder(account helius.ProgramAccount, meta domain.TokenMetadata) *domain.Holder {
	parsed := account.Account.Data.Parsed
	if parsed.Type != "account" {
		return nil
	}

	info := parsed.Info
	if info.Owner == "" || info.TokenAmount == nil || info.TokenAmount.UIAmount <= 0 {
		return nil
	}

	raw, err := decodeAddress(info.Owner)
	if err != nil {
		log.Printf("holder scanner: drop account %s: %v", account.Pubkey, err)
		return nil
	}

	return &domain.Holder{
		Owner:    info.Owner,
		Amount:   info.TokenAmount.UIAmount,
		Decimals: meta.Decimals,
		Symbol:   meta.Symbol,
		OnCurve:  isOnCurve(raw),
	}
}

// sortHolders orders descending by amount; owner ascending keeps equal
// balances deterministic.
func sortHolders(holders []domain.Holder) {
	sort.Slice(holders, func(i, j int) bool {
		if holders[i].Amount != holders[j].Amount {
			return holders[i].Amount > holders[j].Amount
		}
		return holders[i].Owner < holders[j].Owner
	})
}

func (s *HolderScanner) cachedHolders(mint string) ([]domain.Holder, bool) {
	if s.opts.CacheTTL <= 0 {
		return nil, false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.cache[mint]
	if !ok || time.Since(entry.fetchedAt) > s.opts.CacheTTL {
		return nil, false
	}
	out := make([]domain.Holder, len(entry.holders))
	copy(out, entry.holders)
	return out, true
}

func (s *HolderScanner) storeCache(mint string, holders []domain.Holder) {
	if s.opts.CacheTTL <= 0 {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	stored := make([]domain.Holder, len(holders))
	copy(stored, holders)
	s.cache[mint] = holderCacheEntry{holders: stored, fetchedAt: time.Now()}
}
