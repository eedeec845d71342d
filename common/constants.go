package common

import "time"

const DefaultRpcWaitTime = 30 * time.Second

const ServiceName = "qpair-provisioner"

const (
	Env_MetricsEndpoint = "OTEL_EXPORTER_OTLP_METRICS_ENDPOINT"
	Env_StateTable      = "QPAIR_STATE_TABLE"
)
