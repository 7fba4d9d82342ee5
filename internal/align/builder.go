package align

import (
	"log/slog"
	"sync/atomic"
	"time"

	lru "github.com/hashicorp/golang-lru"

	"github.com/star/scopealign/internal/astro"
	"github.com/star/scopealign/internal/metrics"
	"github.com/star/scopealign/internal/vector"
)

// State is one of the engine's lifecycle states.
type State int

const (
	Unbuilt State = iota
	BuiltN0
	BuiltSmall // N in [1,3]: a single global TransformPair
	BuiltHull  // N>=4: a dual convex hull
)

func (s State) String() string {
	switch s {
	case Unbuilt:
		return "unbuilt"
	case BuiltN0:
		return "built(n=0)"
	case BuiltSmall:
		return "built(n in [1,3])"
	case BuiltHull:
		return "built(n>=4)"
	default:
		return "unknown"
	}
}

// model is the engine's built state. It is immutable once constructed and
// swapped into place atomically by Initialise: readers never observe a
// torn build, and no internal mutex is needed for queries to run safely
// alongside a concurrent rebuild.
type model struct {
	n          int
	hint       astro.Hint
	position   astro.Position
	actualVecs []vector.Vector // parallel to syncPoints, index i = sync point i
	apparent   []vector.Vector
	transform  *TransformPair // set when n is in [1,3]
	hull       *DualHull      // set when n>=4
}

func (m *model) state() State {
	switch {
	case m.n == 0:
		return BuiltN0
	case m.n <= 3:
		return BuiltSmall
	default:
		return BuiltHull
	}
}

// Engine is the pointing-model alignment engine: it learns a mapping
// between the celestial and telescope directional frames from a database
// of sync points and answers bidirectional queries against the most
// recently built model.
type Engine struct {
	hint   astro.Hint
	cur    atomic.Pointer[model]
	cache  *lru.Cache
	logger *slog.Logger

	// Now returns the current time; overridable in tests so query results
	// are deterministic. Defaults to time.Now.
	Now func() time.Time
}

// NewEngine returns an Engine ready to have SetApproximateMountAlignment
// and Initialise called on it. It starts in the Unbuilt state.
func NewEngine(logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	c, _ := lru.New(64)
	return &Engine{
		logger: logger,
		cache:  c,
		Now:    time.Now,
	}
}

// SetApproximateMountAlignment records the hint used to construct "actual"
// direction vectors on every subsequent Initialise and query. Must be
// called before Initialise; changing it requires a rebuild to take effect.
func (e *Engine) SetApproximateMountAlignment(hint astro.Hint) {
	e.hint = hint
}

// State reports the engine's current lifecycle state.
func (e *Engine) State() State {
	m := e.cur.Load()
	if m == nil {
		return Unbuilt
	}
	return m.state()
}

// IsReady reports whether the engine has a built model and can answer
// queries. Satisfies health.Checker.
func (e *Engine) IsReady() bool {
	return e.cur.Load() != nil
}

// Initialise rebuilds the engine's transforms from db. On success the new
// model is installed atomically and State reflects N = len(sync points).
// On failure the engine reverts to Unbuilt and the previous model (if any)
// is discarded; Initialise never leaves a partially-built model installed.
func (e *Engine) Initialise(db Database) error {
	start := time.Now()
	if db == nil {
		e.cur.Store(nil)
		metrics.ObserveBuild(NoDatabase.String(), time.Since(start), 0)
		return errf(NoDatabase, "no database bound")
	}
	pos, ok := db.GetReferencePosition()
	if !ok {
		e.cur.Store(nil)
		metrics.ObserveBuild(NoDatabase.String(), time.Since(start), 0)
		return errf(NoDatabase, "reference position not set")
	}

	entries := db.GetAlignmentDatabase()
	n := len(entries)

	actual := make([]vector.Vector, n)
	apparent := make([]vector.Vector, n)
	for i, entry := range entries {
		actual[i] = astro.DirectionVectorFromEntry(e.hint, entry.RAHours, entry.DecDeg, pos, entry.ObservationJD)
		apparent[i] = entry.ApparentVector
	}

	m := &model{
		n:          n,
		hint:       e.hint,
		position:   pos,
		actualVecs: actual,
		apparent:   apparent,
	}

	var err error
	switch {
	case n == 0:
		// No transforms installed; queries take the passthrough path.
	case n == 1:
		a1, p1 := actual[0], apparent[0]
		a2 := astro.DummyAxisVector(e.hint)
		p2 := a2
		a3 := a1.Cross(a2).Normalised()
		p3 := p1.Cross(p2).Normalised()
		m.transform, err = solvePair(a1, a2, a3, p1, p2, p3)
	case n == 2:
		a1, a2 := actual[0], actual[1]
		p1, p2 := apparent[0], apparent[1]
		a3 := a1.Cross(a2).Normalised()
		p3 := p1.Cross(p2).Normalised()
		m.transform, err = solvePair(a1, a2, a3, p1, p2, p3)
	case n == 3:
		m.transform, err = solvePair(actual[0], actual[1], actual[2], apparent[0], apparent[1], apparent[2])
	default:
		m.hull, err = buildDualHull(actual, apparent)
	}

	if err != nil {
		kind, _ := KindOf(err)
		e.logger.Warn("align: initialise failed", "n", n, "error", err)
		e.cur.Store(nil)
		metrics.ObserveBuild(kind.String(), time.Since(start), n)
		return err
	}

	e.cache.Purge()
	e.cur.Store(m)
	e.logger.Info("align: initialise succeeded", "n", n, "state", m.state().String())
	metrics.ObserveBuild("ok", time.Since(start), n)
	return nil
}

func solvePair(a1, a2, a3, p1, p2, p3 vector.Vector) (*TransformPair, error) {
	tp, err := CalculateTransformMatrices(a1, a2, a3, p1, p2, p3)
	if err != nil {
		return nil, err
	}
	return &tp, nil
}
