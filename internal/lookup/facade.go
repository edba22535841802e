package lookup

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"slices"
	"sync/atomic"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"romlookup/internal/logging"
	"romlookup/internal/romdata"
	"romlookup/internal/services"
	"romlookup/internal/sysmap"
)

// Facade answers ROM queries from a fixed set of sources.
type Facade struct {
	sources        []Source
	priority       []romdata.SourceKind
	systems        *sysmap.Map
	logger         *slog.Logger
	maxConcurrency int

	mappingGroup singleflight.Group
	mapping      atomic.Pointer[romdata.ArtworkMapping]
}

// Option customizes a Facade.
type Option func(*Facade)

// WithPriority sets the field-level merge precedence, highest first. Known
// sources not listed rank after the listed ones in their default order.
func WithPriority(kinds ...romdata.SourceKind) Option {
	return func(f *Facade) {
		if len(kinds) > 0 {
			f.priority = slices.Clone(kinds)
		}
	}
}

// WithLogger sets the base logger.
func WithLogger(logger *slog.Logger) Option {
	return func(f *Facade) {
		if logger != nil {
			f.logger = logger
		}
	}
}

// WithSystemMap overrides the canonical system table used by the merger.
func WithSystemMap(m *sysmap.Map) Option {
	return func(f *Facade) {
		if m != nil {
			f.systems = m
		}
	}
}

// WithMaxConcurrency caps concurrent source calls per query. Zero or less
// means no cap.
func WithMaxConcurrency(n int) Option {
	return func(f *Facade) {
		f.maxConcurrency = n
	}
}

// New builds a facade over sources. Nil sources are ignored.
func New(sources []Source, opts ...Option) *Facade {
	f := &Facade{
		priority: slices.Clone(romdata.DefaultPriority),
		systems:  sysmap.Default(),
		logger:   logging.NewNop(),
	}
	for _, opt := range opts {
		opt(f)
	}
	for _, kind := range romdata.DefaultPriority {
		if !slices.Contains(f.priority, kind) {
			f.priority = append(f.priority, kind)
		}
	}
	f.logger = logging.NewComponentLogger(f.logger, "lookup")
	for _, src := range sources {
		if src != nil {
			f.sources = append(f.sources, src)
		}
	}
	slices.SortStableFunc(f.sources, func(a, b Source) int {
		return f.rank(a.Kind()) - f.rank(b.Kind())
	})
	return f
}

func (f *Facade) rank(kind romdata.SourceKind) int {
	if i := slices.Index(f.priority, kind); i >= 0 {
		return i
	}
	return len(f.priority)
}

// Sources returns the configured sources in priority order.
func (f *Facade) Sources() []Source {
	return slices.Clone(f.sources)
}

// Priority returns the merge precedence.
func (f *Facade) Priority() []romdata.SourceKind {
	return slices.Clone(f.priority)
}

// Close closes every source that holds resources.
func (f *Facade) Close() error {
	var errs []error
	for _, src := range f.sources {
		if closer, ok := src.(io.Closer); ok {
			if err := closer.Close(); err != nil {
				errs = append(errs, err)
			}
		}
	}
	return errors.Join(errs...)
}

// begin tags ctx with a request ID (unless the caller supplied one) and the
// facade operation.
func (f *Facade) begin(ctx context.Context, op string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	if _, ok := services.RequestIDFromContext(ctx); !ok {
		ctx = services.WithRequestID(ctx, uuid.NewString())
	}
	return services.WithOperation(ctx, op)
}

type call[T any] struct {
	kind romdata.SourceKind
	run  func(context.Context) (T, error)
}

type outcome[T any] struct {
	kind  romdata.SourceKind
	value T
	err   error
}

// fanOut runs every call concurrently and returns the outcomes in call
// order. A failing call never cancels its siblings; its error is logged and
// left on the outcome. The only error returned is the caller's cancellation.
func fanOut[T any](ctx context.Context, f *Facade, calls []call[T]) ([]outcome[T], error) {
	results := make([]outcome[T], len(calls))
	var g errgroup.Group
	if f.maxConcurrency > 0 {
		g.SetLimit(f.maxConcurrency)
	}
	for i, c := range calls {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				results[i] = outcome[T]{kind: c.kind, err: err}
				return nil
			}
			value, err := c.run(ctx)
			results[i] = outcome[T]{kind: c.kind, value: value, err: err}
			return nil
		})
	}
	_ = g.Wait()
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	for _, r := range results {
		if r.err != nil {
			f.logSourceFailure(ctx, r.kind, r.err)
		}
	}
	return results, nil
}

func (f *Facade) logSourceFailure(ctx context.Context, kind romdata.SourceKind, err error) {
	logger := logging.WithContext(ctx, f.logger)
	switch {
	case errors.Is(err, services.ErrInvalidIdentifier):
		logger.Debug("source does not carry system", logging.Source(string(kind)), logging.Error(err))
	case services.IsNoOpinion(err):
		logging.WarnWithContext(logger, "source unavailable", "source_unavailable",
			logging.Source(string(kind)),
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "run romlookup check to verify the reference database"),
		)
	default:
		logging.ErrorWithContext(logger, "source query failed", "source_error",
			logging.Source(string(kind)),
			logging.Error(err),
		)
	}
}
