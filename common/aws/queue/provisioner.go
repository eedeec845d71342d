package queue

import (
	"context"
	"encoding/json"
	"strconv"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/aws/aws-sdk-go-v2/service/sqs/types"

	"github.com/qpair/go-qpair/common"
	"github.com/qpair/go-qpair/models"
)

var _ models.QueueProvisioner = &Provisioner{}

// Provisioner issues SQS API calls for declared queue resources. It performs
// no ordering of its own: callers apply declarations in plan order.
type Provisioner struct {
	client *sqs.Client
}

func NewProvisioner(sqsClient *sqs.Client) *Provisioner {
	return &Provisioner{sqsClient}
}

// CreateQueue creates the declared queue and resolves its ARN. Attributes the
// declaration leaves unset are not sent, so provider defaults apply (the
// dead-letter declaration carries no visibility timeout).
func (p *Provisioner) CreateQueue(ctx context.Context, decl *models.QueueDeclaration) (*models.CreatedQueue, error) {
	attributes := map[string]string{
		string(types.QueueAttributeNameMessageRetentionPeriod): strconv.Itoa(decl.RetentionSeconds),
	}
	if decl.VisibilityTimeoutSeconds != nil {
		attributes[string(types.QueueAttributeNameVisibilityTimeout)] = strconv.Itoa(*decl.VisibilityTimeoutSeconds)
	}
	if decl.DelaySeconds != nil {
		attributes[string(types.QueueAttributeNameDelaySeconds)] = strconv.Itoa(*decl.DelaySeconds)
	}
	if decl.MaxMessageSizeBytes != nil {
		attributes[string(types.QueueAttributeNameMaximumMessageSize)] = strconv.Itoa(*decl.MaxMessageSizeBytes)
	}
	createQueueIn := sqs.CreateQueueInput{
		QueueName:  aws.String(decl.Name),
		Attributes: attributes,
	}
	if len(decl.Tags) > 0 {
		createQueueIn.Tags = decl.Tags
	}

	httpCtx, httpCancel := context.WithTimeout(ctx, common.DefaultRpcWaitTime)
	defer httpCancel()

	if createQueueOut, err := p.client.CreateQueue(httpCtx, &createQueueIn); err != nil {
		return nil, err
	} else if arn, err := getQueueArn(ctx, *createQueueOut.QueueUrl, p.client); err != nil {
		return nil, err
	} else {
		return &models.CreatedQueue{Name: decl.Name, Url: *createQueueOut.QueueUrl, Arn: arn}, nil
	}
}

// AttachRedrive sets the redrive policy on an existing queue. Both the queue
// and the dead-letter target must already exist.
func (p *Provisioner) AttachRedrive(ctx context.Context, queueUrl string, dlqArn string, maxReceiveCount int) error {
	marshaledRedrivePolicy, _ := json.Marshal(models.RedrivePolicy{
		DeadLetterTargetArn: dlqArn,
		MaxReceiveCount:     maxReceiveCount,
	})
	setQueueAttrIn := sqs.SetQueueAttributesInput{
		QueueUrl: aws.String(queueUrl),
		Attributes: map[string]string{
			string(types.QueueAttributeNameRedrivePolicy): string(marshaledRedrivePolicy),
		},
	}

	httpCtx, httpCancel := context.WithTimeout(ctx, common.DefaultRpcWaitTime)
	defer httpCancel()

	_, err := p.client.SetQueueAttributes(httpCtx, &setQueueAttrIn)
	return err
}

func (p *Provisioner) DeleteQueue(ctx context.Context, queueUrl string) error {
	httpCtx, httpCancel := context.WithTimeout(ctx, common.DefaultRpcWaitTime)
	defer httpCancel()

	_, err := p.client.DeleteQueue(httpCtx, &sqs.DeleteQueueInput{QueueUrl: aws.String(queueUrl)})
	return err
}

func GetQueueUtilization(ctx context.Context, queueUrl string, sqsClient *sqs.Client) (int, int, error) {
	if queueAttr, err := getQueueAttributes(ctx, queueUrl, sqsClient); err != nil {
		return 0, 0, err
	} else if numMsgsVisibleStr, found := queueAttr[string(types.QueueAttributeNameApproximateNumberOfMessages)]; found {
		if numMsgsVisible, err := strconv.Atoi(numMsgsVisibleStr); err != nil {
			return 0, 0, err
		} else if numMsgsInFlightStr, found := queueAttr[string(types.QueueAttributeNameApproximateNumberOfMessagesNotVisible)]; found {
			if numMsgsInFlight, err := strconv.Atoi(numMsgsInFlightStr); err != nil {
				return 0, 0, err
			} else {
				return numMsgsVisible, numMsgsInFlight, nil
			}
		}
	}
	return 0, 0, nil
}

func getQueueArn(ctx context.Context, queueUrl string, sqsClient *sqs.Client) (string, error) {
	if queueAttr, err := getQueueAttributes(ctx, queueUrl, sqsClient); err != nil {
		return "", err
	} else {
		return queueAttr[string(types.QueueAttributeNameQueueArn)], nil
	}
}

func getQueueAttributes(ctx context.Context, queueUrl string, sqsClient *sqs.Client) (map[string]string, error) {
	getQueueAttrIn := sqs.GetQueueAttributesInput{
		QueueUrl:       aws.String(queueUrl),
		AttributeNames: []types.QueueAttributeName{types.QueueAttributeNameAll},
	}

	httpCtx, httpCancel := context.WithTimeout(ctx, common.DefaultRpcWaitTime)
	defer httpCancel()

	if getQueueAttrOut, err := sqsClient.GetQueueAttributes(httpCtx, &getQueueAttrIn); err != nil {
		return nil, err
	} else {
		return getQueueAttrOut.Attributes, nil
	}
}
