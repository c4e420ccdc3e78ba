package rumor

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"github.com/techvote/techvote/internal/cache"
	"github.com/techvote/techvote/internal/database"
	"github.com/techvote/techvote/internal/llm"
	"github.com/techvote/techvote/internal/models"
)

// Options tune a Checker.
type Options struct {
	FallbackDelay     time.Duration
	CacheTTL          time.Duration
	Timeout           time.Duration
	RequestsPerMinute int
	Rules             []Rule
}

// Outcome is the result of one check and where it came from.
type Outcome struct {
	Result   models.RumorCheckResult `json:"result"`
	Source   models.CheckSource      `json:"source"`
	Duration time.Duration           `json:"duration"`
}

// Checker answers rumor checks from a remote assessor and falls back to the
// local rule table on any failure.
type Checker struct {
	remote   llm.Provider
	store    database.Store
	cache    *cache.MemoryCache
	limiter  *rate.Limiter
	fallback *FallbackResponder
	opts     Options
}

// NewChecker creates a checker. remote and store may be nil.
func NewChecker(remote llm.Provider, store database.Store, opts Options) *Checker {
	c := &Checker{
		remote:   remote,
		store:    store,
		fallback: NewFallbackResponder(opts.Rules, opts.FallbackDelay),
		opts:     opts,
	}
	if opts.CacheTTL > 0 {
		c.cache = cache.NewMemoryCache(opts.CacheTTL, 2*opts.CacheTTL)
	}
	if opts.RequestsPerMinute > 0 {
		c.limiter = rate.NewLimiter(rate.Every(time.Minute/time.Duration(opts.RequestsPerMinute)), 1)
	}
	return c
}

// Remote reports whether a remote assessor is configured.
func (c *Checker) Remote() bool {
	return c.remote != nil
}

// Check assesses req. It never fails: every remote error degrades to the
// fallback table.
func (c *Checker) Check(ctx context.Context, req models.RumorCheckRequest) Outcome {
	start := time.Now()
	req.Text = NormalizeText(req.Text)
	hash := RequestHash(req)

	// An empty request never reaches the remote assessor.
	if c.remote != nil && CanSubmit(req.Text, req.Media) {
		if result, source, ok := c.lookup(ctx, hash); ok {
			out := Outcome{Result: result, Source: source, Duration: time.Since(start)}
			log.Info().Str("hash", hash[:12]).Str("source", string(source)).Msg("Returning cached rumor check")
			return out
		}

		result, err := c.assess(ctx, req)
		if err == nil {
			out := Outcome{Result: *result, Source: models.SourceRemote, Duration: time.Since(start)}
			c.remember(hash, out.Result)
			c.record(ctx, hash, req, out)
			return out
		}
		log.Warn().Err(err).Str("provider", c.remote.Name()).Msg("Remote rumor check failed, using fallback")
	}

	result := c.fallback.Respond(ctx, req)
	out := Outcome{Result: result, Source: models.SourceFallback, Duration: time.Since(start)}
	c.record(ctx, hash, req, out)
	return out
}

// assess calls the remote assessor. The timeout covers the wait for a
// limiter token, so a throttled check falls back instead of queueing.
func (c *Checker) assess(ctx context.Context, req models.RumorCheckRequest) (*models.RumorCheckResult, error) {
	if c.opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.opts.Timeout)
		defer cancel()
	}
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limited: %w", err)
		}
	}

	result, err := c.remote.Assess(ctx, req)
	if err != nil {
		return nil, err
	}
	if err := result.Validate(); err != nil {
		return nil, err
	}
	return result, nil
}

// lookup finds an earlier remote verdict, first in memory and then in the store.
func (c *Checker) lookup(ctx context.Context, hash string) (models.RumorCheckResult, models.CheckSource, bool) {
	if c.cache != nil {
		if data, ok := c.cache.Get(hash); ok {
			if result, err := decodeResult(data); err == nil {
				return result, models.SourceCache, true
			}
		}
	}

	if c.store == nil {
		return models.RumorCheckResult{}, "", false
	}
	rec, err := c.store.GetCheckByHash(ctx, hash)
	if err != nil {
		log.Error().Err(err).Msg("Failed to look up rumor check history")
		return models.RumorCheckResult{}, "", false
	}
	if rec == nil {
		return models.RumorCheckResult{}, "", false
	}
	result, err := decodeResult([]byte(rec.ResultJSON))
	if err != nil {
		log.Error().Err(err).Str("id", rec.ID).Msg("Discarding unreadable stored rumor check")
		return models.RumorCheckResult{}, "", false
	}
	c.remember(hash, result)
	return result, models.SourceCache, true
}

func (c *Checker) remember(hash string, result models.RumorCheckResult) {
	if c.cache == nil {
		return
	}
	data, err := json.Marshal(result)
	if err != nil {
		return
	}
	c.cache.Set(hash, data, 0)
}

func (c *Checker) record(ctx context.Context, hash string, req models.RumorCheckRequest, out Outcome) {
	if c.store == nil {
		return
	}
	data, err := json.Marshal(out.Result)
	if err != nil {
		log.Error().Err(err).Msg("Failed to encode rumor check result")
		return
	}

	rec := &models.CheckRecord{
		ID:          uuid.New().String(),
		RequestHash: hash,
		Category:    req.Category,
		HasMedia:    req.HasMedia(),
		Status:      out.Result.Status,
		IsHarmful:   out.Result.IsHarmful,
		Source:      out.Source,
		DurationMs:  out.Duration.Milliseconds(),
		ResultJSON:  string(data),
		CreatedAt:   time.Now().UTC(),
	}
	if out.Source == models.SourceRemote {
		rec.Provider = c.remote.Name()
	}

	// Detached so a cancelled request still leaves a trace.
	if err := c.store.SaveCheck(context.WithoutCancel(ctx), rec); err != nil {
		log.Error().Err(err).Msg("Failed to save rumor check")
	}
}

func decodeResult(data []byte) (models.RumorCheckResult, error) {
	var result models.RumorCheckResult
	if err := json.Unmarshal(data, &result); err != nil {
		return result, err
	}
	if err := result.Validate(); err != nil {
		return result, err
	}
	return result, nil
}

// RequestHash identifies a request by its normalized content. The user's
// text never leaves the process in any other form.
func RequestHash(req models.RumorCheckRequest) string {
	h := sha256.New()
	h.Write([]byte(req.Category))
	h.Write([]byte{0})
	h.Write([]byte(req.Text))
	if req.Media != nil {
		h.Write([]byte{0})
		h.Write([]byte(req.Media.MIMEType))
		h.Write([]byte{0})
		h.Write([]byte(req.Media.Data))
	}
	return hex.EncodeToString(h.Sum(nil))
}
