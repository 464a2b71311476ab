package metrics

import prom "github.com/prometheus/client_golang/prometheus"

func (p *PrometheusRecorder) LastRun() prom.Gauge { return p.lastRun }

func (p *PrometheusRecorder) Uploads() *prom.CounterVec { return p.uploads }
