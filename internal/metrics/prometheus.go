package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	ExtractDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "sheet_extract_duration_seconds",
		Help:    "单次提取耗时",
		Buckets: prometheus.DefBuckets,
	})

	RowsExtracted = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "sheet_rows_extracted_total",
		Help: "累计提取行数",
	})

	SyncErrors = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "hierarchy_sync_errors_total",
		Help: "层级同步失败次数",
	})

	NodesUpserted = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "hierarchy_nodes_upserted_total",
		Help: "累计 upsert 的层级节点数",
	})

	NodesSkipped = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "hierarchy_nodes_skipped_total",
		Help: "因父节点缺失等原因被跳过的节点数",
	})
)

// MustRegister 注册指标，在 main 中调用。
func MustRegister(reg prometheus.Registerer) {
	reg.MustRegister(ExtractDuration, RowsExtracted, SyncErrors, NodesUpserted, NodesSkipped)
}
