package metric

import (
	"time"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/robfig/cron/v3"
	"github.com/txix-open/isp-kit/metrics"
)

const (
	EverySecond = "* * * * * *"
)

type Value struct {
	Labels []string
	Value  float64
}

func ValueOf(value int, labels ...string) Value {
	return Value{
		Value:  float64(value),
		Labels: labels,
	}
}

type Metric struct {
	Name        string
	Description string
	Labels      []string
	Collect     func() []Value
}

// Collector samples tracked metrics on a cron schedule and publishes them
// as prometheus gauges.
type Collector struct {
	sched  cron.Schedule
	module string
	closed chan struct{}
}

func NewCollector(cronSpec string, module string) *Collector {
	sched, err := cron.NewParser(
		cron.Second | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor,
	).Parse(cronSpec)
	if err != nil {
		panic(errors.WithMessagef(err, "parse %s", cronSpec))
	}

	return &Collector{
		sched:  sched,
		module: module,
		closed: make(chan struct{}),
	}
}

func (c *Collector) Track(m Metric) {
	gauge := metrics.GetOrRegister(
		metrics.DefaultRegistry,
		prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: m.Name,
			Help: m.Description,
		}, append(m.Labels, "module")),
	)
	go c.sample(gauge, m)
}

func (c *Collector) sample(gauge *prometheus.GaugeVec, m Metric) {
	for {
		for _, value := range m.Collect() {
			gauge.WithLabelValues(append(value.Labels, c.module)...).Set(value.Value)
		}

		now := time.Now()
		nextRun := c.sched.Next(now)
		select {
		case <-time.After(nextRun.Sub(now)):
		case <-c.closed:
			return
		}
	}
}

func (c *Collector) Close() error {
	close(c.closed)
	return nil
}
