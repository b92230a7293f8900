package metrics

import "github.com/prometheus/client_golang/prometheus"

const (
	StmtKindSuccess = "success"
	StmtKindWarning = "warning"
	StmtKindError   = "error"
)

var (
	ScriptStmtCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: ModuleRWDB,
			Subsystem: LabelScript,
			Name:      "stmt_total",
			Help:      "Counter of statements run from sql scripts.",
		}, []string{LblCluster, LblStmtKind})
)
