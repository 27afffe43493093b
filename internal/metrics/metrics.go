package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "tictactoe"

const (
	ActionMove    = "move"
	ActionJump    = "jump"
	ActionReverse = "reverse"
	ActionNew     = "new"
)

// Metrics - counters for game events. A nil *Metrics records nothing.
type Metrics struct {
	applied *prometheus.CounterVec
	ignored *prometheus.CounterVec
	results *prometheus.CounterVec
}

func New(registerer prometheus.Registerer) *Metrics {
	that := &Metrics{
		applied: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "actions_applied_total",
			Help:      "Game actions that changed the session state.",
		}, []string{"action"}),
		ignored: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "actions_ignored_total",
			Help:      "Game actions rejected by the rules and left without effect.",
		}, []string{"action"}),
		results: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "game_results_total",
			Help:      "Moves that finished a game, by result.",
		}, []string{"result"}),
	}

	registerer.MustRegister(that.applied, that.ignored, that.results)

	return that
}

func (that *Metrics) Action(action string, applied bool) {
	if that == nil {
		return
	}

	if applied {
		that.applied.WithLabelValues(action).Inc()
		return
	}

	that.ignored.WithLabelValues(action).Inc()
}

// Result - result is the winning mark or "draw".
func (that *Metrics) Result(result string) {
	if that == nil {
		return
	}

	that.results.WithLabelValues(result).Inc()
}
