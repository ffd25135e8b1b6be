// Package metrics exposes prometheus counters for board activity and
// remote write health.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder counts board moves and remote write outcomes. A nil Recorder is
// valid and records nothing.
type Recorder struct {
	movesTotal         *prometheus.CounterVec
	writeFailuresTotal *prometheus.CounterVec
	rollbacksTotal     prometheus.Counter
}

// NewRecorder registers the board metrics on the given registerer.
func NewRecorder(reg prometheus.Registerer) *Recorder {
	factory := promauto.With(reg)
	return &Recorder{
		movesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "join_board_moves_total",
				Help: "Board move events applied, by kind (reorder or transition)",
			},
			[]string{"kind"},
		),
		writeFailuresTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "join_remote_write_failures_total",
				Help: "Remote document writes that failed, by operation",
			},
			[]string{"op"},
		),
		rollbacksTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "join_board_move_rollbacks_total",
				Help: "Optimistic board moves rolled back after a failed remote write",
			},
		),
	}
}

func (r *Recorder) ObserveMove(kind string) {
	if r == nil {
		return
	}
	r.movesTotal.WithLabelValues(kind).Inc()
}

func (r *Recorder) ObserveWriteFailure(op string) {
	if r == nil {
		return
	}
	r.writeFailuresTotal.WithLabelValues(op).Inc()
}

func (r *Recorder) ObserveRollback() {
	if r == nil {
		return
	}
	r.rollbacksTotal.Inc()
}
