package protocol

import (
	kperrors "github.com/otherjamesbrown/kprot-cli/pkg/errors"
	"github.com/otherjamesbrown/kprot-cli/pkg/logging"
	"github.com/otherjamesbrown/kprot-cli/pkg/numerals"
)

const (
	outcomeOK     = "ok"
	outcomeAbsent = "absent"
)

// Result is the cached outcome of resolving one field.
type Result struct {
	Value any
	Err   error
}

// resolver computes each field at most once per document and replays the
// stored outcome, success or failure, on every later access.
type resolver struct {
	cache   map[Field]Result
	metrics *Metrics
	logger  logging.Logger
}

func newResolver(metrics *Metrics, logger logging.Logger) *resolver {
	return &resolver{
		cache:   make(map[Field]Result, len(Fields)),
		metrics: metrics,
		logger:  logger,
	}
}

func (r *resolver) resolve(f Field, compute func() (any, error)) Result {
	if res, ok := r.cache[f]; ok {
		return res
	}

	v, err := compute()
	res := Result{Value: v, Err: kperrors.ForField(err, string(f))}
	r.cache[f] = res

	outcome := outcomeOK
	switch {
	case res.Err != nil:
		outcome = string(kperrors.CodeOf(res.Err))
		r.logger.Debug("Field resolution failed",
			logging.F("field", string(f)),
			logging.F("code", outcome),
			logging.Err(res.Err))
	case isAbsent(v):
		outcome = outcomeAbsent
		r.logger.Debug("Field absent", logging.F("field", string(f)))
	default:
		r.logger.Debug("Field resolved", logging.F("field", string(f)))
	}
	r.metrics.fieldResolved(f, outcome)
	return res
}

func (r *resolver) reset() {
	r.cache = nil
}

func isAbsent(v any) bool {
	n, ok := v.(numerals.Numeral)
	return ok && !n.Present
}
