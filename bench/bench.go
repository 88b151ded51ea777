package bench

import (
	"context"
	"math/rand"
	"time"

	gbtree "github.com/google/btree"
	"github.com/pingcap/errors"
	"github.com/pingcap/log"
	"go.uber.org/zap"

	"btree/btree"
)

const (
	opInsert = "insert"
	opSearch = "search"
	opDelete = "delete"

	structureBTree  = "btree"
	structureGoogle = "google/btree"

	// ctx is checked once per this many operations.
	cancelCheckInterval = 1024
)

// Series is the running total of time spent after each operation of one phase.
type Series struct {
	Structure  string
	Op         string
	Cumulative []time.Duration
}

// Name labels the series in charts, e.g. "btree insert".
func (s *Series) Name() string {
	return s.Structure + " " + s.Op
}

// Total returns the time spent on the whole phase.
func (s *Series) Total() time.Duration {
	if len(s.Cumulative) == 0 {
		return 0
	}
	return s.Cumulative[len(s.Cumulative)-1]
}

// Result holds everything measured by one Run.
type Result struct {
	Seed       int64
	Degree     int
	Operations int
	Series     []*Series
	// Len and Height describe the B-tree after the delete phase.
	Len    int
	Height int
}

// structure is what a phase drives; both trees are adapted to it.
type structure interface {
	name() string
	insert(key int)
	search(key int) bool
	delete(key int) bool
}

type treeStructure struct{ t *btree.Tree[int] }

func (s treeStructure) name() string        { return structureBTree }
func (s treeStructure) insert(key int)      { s.t.Insert(key) }
func (s treeStructure) search(key int) bool { return s.t.Contains(key) }
func (s treeStructure) delete(key int) bool { return s.t.Delete(key) }

type googleStructure struct{ t *gbtree.BTreeG[int] }

func (s googleStructure) name() string        { return structureGoogle }
func (s googleStructure) insert(key int)      { s.t.ReplaceOrInsert(key) }
func (s googleStructure) search(key int) bool { return s.t.Has(key) }
func (s googleStructure) delete(key int) bool {
	_, ok := s.t.Delete(key)
	return ok
}

/*
Run mirrors the classic cumulative benchmark: after an untimed warm-up it inserts,
searches and deletes the same list of random keys, recording after every operation how
much time the phase has consumed so far. metrics may be nil.
*/
func Run(ctx context.Context, cfg *Config, metrics *Metrics) (*Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rnd := rand.New(rand.NewSource(seed))
	warmup := randomKeys(rnd, cfg.Warmup, cfg.KeyRange)
	keys := randomKeys(rnd, cfg.Operations, cfg.KeyRange)
	log.Info("bench started",
		zap.Int64("seed", seed),
		zap.Int("degree", cfg.Degree),
		zap.Int("operations", cfg.Operations),
		zap.Int("warmup", cfg.Warmup))

	tree, err := btree.New[int](cfg.Degree)
	if err != nil {
		return nil, err
	}
	res := &Result{Seed: seed, Degree: cfg.Degree, Operations: cfg.Operations}

	check := func(op string) error {
		metrics.setTreeShape(tree)
		if !cfg.Verify {
			return nil
		}
		if err := tree.Verify(); err != nil {
			log.Error("tree invariants violated", zap.String("after", op), zap.Error(err))
			return errors.Annotatef(err, "after %s phase", op)
		}
		return nil
	}
	series, err := runPhases(ctx, treeStructure{tree}, warmup, keys, metrics, check)
	if err != nil {
		return nil, err
	}
	res.Series = append(res.Series, series...)
	res.Len, res.Height = tree.Len(), tree.Height()

	if cfg.Baseline {
		series, err = runPhases(ctx, googleStructure{gbtree.NewOrderedG[int](cfg.Degree)}, warmup, keys, metrics, nil)
		if err != nil {
			return nil, err
		}
		res.Series = append(res.Series, series...)
	}
	return res, nil
}

func randomKeys(rnd *rand.Rand, n, keyRange int) []int {
	keys := make([]int, n)
	for i := range keys {
		keys[i] = rnd.Intn(keyRange) + 1
	}
	return keys
}

func runPhases(ctx context.Context, s structure, warmup, keys []int, metrics *Metrics, check func(op string) error) ([]*Series, error) {
	for _, key := range warmup {
		s.insert(key)
	}
	ops := []struct {
		name string
		fn   func(int)
	}{
		{opInsert, s.insert},
		{opSearch, func(key int) { s.search(key) }},
		{opDelete, func(key int) { s.delete(key) }},
	}
	series := make([]*Series, 0, len(ops))
	for _, op := range ops {
		ser, err := timePhase(ctx, s.name(), op.name, keys, op.fn, metrics)
		if err != nil {
			return nil, err
		}
		log.Info("phase finished",
			zap.String("structure", s.name()),
			zap.String("op", op.name),
			zap.Int("operations", len(keys)),
			zap.Duration("total", ser.Total()))
		if check != nil {
			if err := check(op.name); err != nil {
				return nil, err
			}
		}
		series = append(series, ser)
	}
	return series, nil
}

func timePhase(ctx context.Context, structure, op string, keys []int, fn func(int), metrics *Metrics) (*Series, error) {
	ser := &Series{Structure: structure, Op: op, Cumulative: make([]time.Duration, 0, len(keys))}
	var total time.Duration
	for i, key := range keys {
		if i%cancelCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return nil, errors.Annotatef(err, "%s %s interrupted after %d operations", structure, op, i)
			}
		}
		start := time.Now()
		fn(key)
		elapsed := time.Since(start)
		total += elapsed
		ser.Cumulative = append(ser.Cumulative, total)
		metrics.observe(structure, op, elapsed)
	}
	return ser, nil
}

// LogSummary logs the totals and throughput of every phase.
func (r *Result) LogSummary() {
	for _, s := range r.Series {
		fields := []zap.Field{
			zap.String("structure", s.Structure),
			zap.String("op", s.Op),
			zap.Duration("total", s.Total()),
		}
		if total := s.Total(); total > 0 {
			fields = append(fields, zap.Float64("ops-per-second", float64(len(s.Cumulative))/total.Seconds()))
		}
		log.Info("bench summary", fields...)
	}
	log.Info("final tree", zap.Int("degree", r.Degree), zap.Int("keys", r.Len), zap.Int("height", r.Height))
}
