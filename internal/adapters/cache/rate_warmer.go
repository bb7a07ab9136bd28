package cache

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/google/uuid"
)

// WarmPair is one configured pair to keep fresh. Base "XAU" selects the gold provider.
type WarmPair struct {
	Base  string
	Quote string
}

func (p WarmPair) String() string { return p.Base + "/" + p.Quote }

func (p WarmPair) isGold() bool { return p.Base == goldBase }

// ParseWarmPairs parses entries like "USD/TRY" or "XAU/TRY".
func ParseWarmPairs(raw []string) ([]WarmPair, error) {
	pairs := make([]WarmPair, 0, len(raw))
	for _, entry := range raw {
		base, quote, ok := strings.Cut(strings.ToUpper(strings.TrimSpace(entry)), "/")
		if !ok || len(base) != 3 || len(quote) != 3 || base == quote {
			return nil, fmt.Errorf("invalid warm pair %q, expected BASE/QUOTE", entry)
		}
		pairs = append(pairs, WarmPair{Base: base, Quote: quote})
	}
	return pairs, nil
}

// Warmer periodically refreshes configured pairs so requests rarely wait on a provider.
type Warmer struct {
	fiat     *CachedFiatRates
	gold     *CachedGoldPrices
	pairs    []WarmPair
	interval time.Duration
	logger   *slog.Logger
	// -----
	mu    sync.Mutex
	sched gocron.Scheduler
}

func NewWarmer(fiat *CachedFiatRates, gold *CachedGoldPrices, pairs []WarmPair, interval time.Duration, logger *slog.Logger) *Warmer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Warmer{fiat: fiat, gold: gold, pairs: pairs, interval: interval, logger: logger}
}

// WarmOnce refreshes every pair and returns how many refreshed successfully.
func (w *Warmer) WarmOnce(ctx context.Context) int {
	runID := uuid.NewString()
	ok := 0
	for _, p := range w.pairs {
		var err error
		if p.isGold() {
			_, err = w.gold.Refresh(ctx, p.Quote)
		} else {
			_, err = w.fiat.Refresh(ctx, p.Base, p.Quote)
		}
		if err != nil {
			w.logger.WarnContext(ctx, "rate warm-up failed", "run_id", runID, "pair", p.String(), "error", err)
			continue
		}
		ok++
	}
	w.logger.DebugContext(ctx, "rate warm-up finished", "run_id", runID, "refreshed", ok, "total", len(w.pairs))
	return ok
}

// Start schedules WarmOnce every interval until ctx is cancelled.
func (w *Warmer) Start(ctx context.Context) error {
	if w.interval <= 0 || len(w.pairs) == 0 {
		return nil
	}
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return err
	}

	_, err = scheduler.NewJob(
		gocron.DurationJob(w.interval),
		gocron.NewTask(func(jobCtx context.Context) { w.WarmOnce(jobCtx) }),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
		gocron.WithStartAt(gocron.WithStartImmediately()),
	)
	if err != nil {
		_ = scheduler.Shutdown()
		return err
	}

	scheduler.Start()
	w.mu.Lock()
	w.sched = scheduler
	w.mu.Unlock()

	go func() {
		<-ctx.Done()
		if sdErr := w.Shutdown(); sdErr != nil {
			w.logger.Error("rate warmer shutdown error", "error", sdErr)
		}
	}()
	return nil
}

func (w *Warmer) Shutdown() error {
	w.mu.Lock()
	sched := w.sched
	w.sched = nil
	w.mu.Unlock()
	if sched == nil {
		return nil
	}
	return sched.Shutdown()
}

// Running reports whether the scheduler is active.
func (w *Warmer) Running() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.sched != nil
}
