package services

import (
	"context"

	"github.com/qpair/go-qpair/models"
)

// MonitorFactory builds a utilization monitor for a queue URL, so the status
// service stays decoupled from the provider client.
type MonitorFactory func(queueUrl string) models.QueueMonitor

type QueueStatus struct {
	Name     string `json:"name"`
	Url      string `json:"url"`
	Visible  int    `json:"visible"`
	InFlight int    `json:"inFlight"`
}

type StatusService struct {
	stateDb       models.StateRepository
	metricService models.MetricService
	newMonitor    MonitorFactory
	logger        models.Logger
}

func NewStatusService(
	stateDb models.StateRepository,
	metricService models.MetricService,
	newMonitor MonitorFactory,
	logger models.Logger,
) *StatusService {
	return &StatusService{stateDb, metricService, newMonitor, logger}
}

// Status reports approximate visible/in-flight message counts for each queue
// recorded in a stack's applied state, and registers a gauge per queue.
func (s StatusService) Status(ctx context.Context, stack string) ([]QueueStatus, error) {
	resources, err := s.stateDb.GetResources(ctx, stack)
	if err != nil {
		return nil, err
	}
	statuses := make([]QueueStatus, 0, len(resources))
	for _, resource := range resources {
		key := models.ResourceKey(resource.Key)
		if key != models.ResourceKey_Queue && key != models.ResourceKey_Dlq {
			continue
		}
		monitor := s.newMonitor(resource.Url)
		if err = s.metricService.QueueGauge(ctx, resource.Name, monitor); err != nil {
			s.logger.Errorf("status: error creating gauge for %s queue: %v", resource.Name, err)
		}
		visible, inFlight, err := monitor.GetUtilization(ctx)
		if err != nil {
			return nil, &models.ProviderError{Resource: key, Op: "status", Err: err}
		}
		statuses = append(statuses, QueueStatus{
			Name:     resource.Name,
			Url:      resource.Url,
			Visible:  visible,
			InFlight: inFlight,
		})
	}
	return statuses, nil
}
