package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	ModuleRWDB = "rwdb"
)

// metrics labels.
const (
	LabelClient = "client"
	LabelScript = "script"

	opSucc   = "ok"
	opFailed = "err"
)

// Label constants.
const (
	LblCluster  = "cluster"
	LblRole     = "role"
	LblResult   = "result"
	LblStmtKind = "stmt_kind"
	LblCommit   = "commit"
	LblRollback = "rollback"
)

// RetLabel returns "ok" when err == nil and "err" when err != nil.
// This could be useful when you need to observe the operation result.
func RetLabel(err error) string {
	if err == nil {
		return opSucc
	}
	return opFailed
}

var registerOnce sync.Once

// RegisterMetrics registers all rwdb collectors to the default prometheus registry.
// It is safe to call more than once.
func RegisterMetrics() {
	registerOnce.Do(func() {
		prometheus.MustRegister(QueryCounter)
		prometheus.MustRegister(QueryDurationHistogram)
		prometheus.MustRegister(ReconnectCounter)
		prometheus.MustRegister(TransactionCounter)
		prometheus.MustRegister(ScriptStmtCounter)
	})
}
