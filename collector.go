package pool

import (
	"github.com/prometheus/client_golang/prometheus"
)

// 接口实现检查
var _ prometheus.Collector = (*Collector[int])(nil)

// Collector 将池状态暴露为 Prometheus 指标
//
// 采集发生在抓取时：Gauge 来自 Stats 快照，Counter 来自
// Metrics 快照。一个 Collector 服务一个池，由调用方注册：
//
//	reg := prometheus.NewRegistry()
//	reg.MustRegister(pool.NewCollector(p, "myapp"))
type Collector[T comparable] struct {
	p *Pool[T]

	// Gauge 描述符
	capacity  *prometheus.Desc
	available *prometheus.Desc
	inUse     *prometheus.Desc
	waiting   *prometheus.Desc

	// Counter 描述符
	acquires        *prometheus.Desc
	releases        *prometheus.Desc
	created         *prometheus.Desc
	closed          *prometheus.Desc
	factoryErrors   *prometheus.Desc
	timeouts        *prometheus.Desc
	unknownReleases *prometheus.Desc
	acquireFailures *prometheus.Desc
	errors          *prometheus.Desc
	healthEvictions *prometheus.Desc
}

// NewCollector 创建指标采集器
//
// namespace 为指标名前缀，可为空。指标名固定以 pool 为子系统，
// 如 myapp_pool_capacity、myapp_pool_acquires_total。
func NewCollector[T comparable](p *Pool[T], namespace string) *Collector[T] {
	desc := func(name, help string) *prometheus.Desc {
		return prometheus.NewDesc(prometheus.BuildFQName(namespace, "pool", name), help, nil, nil)
	}
	return &Collector[T]{
		p: p,

		capacity:  desc("capacity", "池容量上限"),
		available: desc("available", "空闲资源数"),
		inUse:     desc("in_use", "在用资源数"),
		waiting:   desc("waiting", "排队等待数"),

		acquires:        desc("acquires_total", "成功获取累计次数"),
		releases:        desc("releases_total", "成功归还累计次数"),
		created:         desc("created_total", "创建资源累计数"),
		closed:          desc("closed_total", "关闭资源累计数"),
		factoryErrors:   desc("factory_errors_total", "工厂失败累计次数"),
		timeouts:        desc("timeouts_total", "获取超时累计次数"),
		unknownReleases: desc("unknown_releases_total", "未知归还累计次数"),
		acquireFailures: desc("acquire_failures_total", "获取失败累计次数"),
		errors:          desc("errors_total", "内部错误事件累计次数"),
		healthEvictions: desc("health_evictions_total", "健康检查剔除累计数"),
	}
}

// Describe 实现 prometheus.Collector
func (c *Collector[T]) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.capacity
	ch <- c.available
	ch <- c.inUse
	ch <- c.waiting
	ch <- c.acquires
	ch <- c.releases
	ch <- c.created
	ch <- c.closed
	ch <- c.factoryErrors
	ch <- c.timeouts
	ch <- c.unknownReleases
	ch <- c.acquireFailures
	ch <- c.errors
	ch <- c.healthEvictions
}

// Collect 实现 prometheus.Collector
func (c *Collector[T]) Collect(ch chan<- prometheus.Metric) {
	s := c.p.Stats()
	ch <- prometheus.MustNewConstMetric(c.capacity, prometheus.GaugeValue, float64(s.MaxSize))
	ch <- prometheus.MustNewConstMetric(c.available, prometheus.GaugeValue, float64(s.Available))
	ch <- prometheus.MustNewConstMetric(c.inUse, prometheus.GaugeValue, float64(s.InUse))
	ch <- prometheus.MustNewConstMetric(c.waiting, prometheus.GaugeValue, float64(s.Waiting))

	m := c.p.Metrics()
	ch <- prometheus.MustNewConstMetric(c.acquires, prometheus.CounterValue, float64(m.Acquires))
	ch <- prometheus.MustNewConstMetric(c.releases, prometheus.CounterValue, float64(m.Releases))
	ch <- prometheus.MustNewConstMetric(c.created, prometheus.CounterValue, float64(m.Created))
	ch <- prometheus.MustNewConstMetric(c.closed, prometheus.CounterValue, float64(m.Closed))
	ch <- prometheus.MustNewConstMetric(c.factoryErrors, prometheus.CounterValue, float64(m.FactoryErrors))
	ch <- prometheus.MustNewConstMetric(c.timeouts, prometheus.CounterValue, float64(m.Timeouts))
	ch <- prometheus.MustNewConstMetric(c.unknownReleases, prometheus.CounterValue, float64(m.UnknownReleases))
	ch <- prometheus.MustNewConstMetric(c.acquireFailures, prometheus.CounterValue, float64(m.AcquireFailures))
	ch <- prometheus.MustNewConstMetric(c.errors, prometheus.CounterValue, float64(m.Errors))
	ch <- prometheus.MustNewConstMetric(c.healthEvictions, prometheus.CounterValue, float64(m.HealthEvictions))
}
