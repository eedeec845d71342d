package metrics

import (
	"context"
	"os"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.17.0"

	"github.com/qpair/go-qpair/common"
	"github.com/qpair/go-qpair/models"
)

var _ models.MetricService = &OtelMetricService{}

const collectionInterval = 30 * time.Second

// OtelMetricService exports counters and queue gauges over OTLP when a
// collector endpoint is configured, and to stdout otherwise.
type OtelMetricService struct {
	meterProvider *sdkmetric.MeterProvider
	meter         metric.Meter
	counters      map[models.MetricName]metric.Int64Counter
	counterLock   sync.Mutex
	logger        models.Logger
}

func NewMetricService(ctx context.Context, logger models.Logger) (models.MetricService, error) {
	var exporter sdkmetric.Exporter
	var err error
	if endpoint := os.Getenv(common.Env_MetricsEndpoint); len(endpoint) > 0 {
		exporter, err = otlpmetrichttp.New(ctx)
	} else {
		exporter, err = stdoutmetric.New()
	}
	if err != nil {
		return nil, err
	}
	meterProvider := sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceName(common.ServiceName),
		)),
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter, sdkmetric.WithInterval(collectionInterval))),
	)
	return &OtelMetricService{
		meterProvider: meterProvider,
		meter:         meterProvider.Meter(models.MetricsCallerName),
		counters:      make(map[models.MetricName]metric.Int64Counter),
		logger:        logger,
	}, nil
}

func (m *OtelMetricService) Count(ctx context.Context, name models.MetricName, val int) error {
	counter, err := m.counter(name)
	if err != nil {
		return err
	}
	counter.Add(ctx, int64(val))
	return nil
}

// QueueGauge registers observable gauges for a queue's approximate visible
// and in-flight message counts, labeled with the queue name.
func (m *OtelMetricService) QueueGauge(ctx context.Context, queueName string, monitor models.QueueMonitor) error {
	queueAttr := metric.WithAttributes(attribute.String("queue", queueName))
	if _, err := m.meter.Int64ObservableGauge(
		"queue_messages_visible",
		metric.WithInt64Callback(func(ctx context.Context, observer metric.Int64Observer) error {
			visible, _, err := monitor.GetUtilization(ctx)
			if err != nil {
				m.logger.Errorf("metrics: error observing %s: %v", queueName, err)
				return err
			}
			observer.Observe(int64(visible), queueAttr)
			return nil
		}),
	); err != nil {
		return err
	}
	if _, err := m.meter.Int64ObservableGauge(
		"queue_messages_in_flight",
		metric.WithInt64Callback(func(ctx context.Context, observer metric.Int64Observer) error {
			_, inFlight, err := monitor.GetUtilization(ctx)
			if err != nil {
				m.logger.Errorf("metrics: error observing %s: %v", queueName, err)
				return err
			}
			observer.Observe(int64(inFlight), queueAttr)
			return nil
		}),
	); err != nil {
		return err
	}
	return nil
}

func (m *OtelMetricService) Shutdown(ctx context.Context) {
	if err := m.meterProvider.Shutdown(ctx); err != nil {
		m.logger.Errorf("metrics: error shutting down meter provider: %v", err)
	}
}

func (m *OtelMetricService) counter(name models.MetricName) (metric.Int64Counter, error) {
	m.counterLock.Lock()
	defer m.counterLock.Unlock()
	if counter, found := m.counters[name]; found {
		return counter, nil
	}
	counter, err := m.meter.Int64Counter(string(name))
	if err != nil {
		return nil, err
	}
	m.counters[name] = counter
	return counter, nil
}
