package services

import (
	"context"

	"github.com/qpair/go-qpair/models"
)

type OutputsService struct {
	stateDb models.StateRepository
}

func NewOutputsService(stateDb models.StateRepository) *OutputsService {
	return &OutputsService{stateDb}
}

// Outputs projects the stored applied state for a stack into ModuleOutputs.
// It is a field-for-field passthrough: resources missing from state leave
// their output fields empty.
func (s OutputsService) Outputs(ctx context.Context, stack string) (*models.ModuleOutputs, error) {
	resources, err := s.stateDb.GetResources(ctx, stack)
	if err != nil {
		return nil, err
	}
	outputs := new(models.ModuleOutputs)
	for _, resource := range resources {
		switch models.ResourceKey(resource.Key) {
		case models.ResourceKey_Queue:
			outputs.QueueName = resource.Name
			outputs.QueueUrl = resource.Url
			outputs.QueueArn = resource.Arn
		case models.ResourceKey_Dlq:
			outputs.DlqName = resource.Name
			outputs.DlqUrl = resource.Url
			outputs.DlqArn = resource.Arn
		}
	}
	return outputs, nil
}
