package ddb

import (
	"context"
	"os"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/qpair/go-qpair"
	"github.com/qpair/go-qpair/common"
	"github.com/qpair/go-qpair/models"
)

var _ models.StateRepository = &StateDatabase{}

// StateDatabase persists applied-state records in a DynamoDB table keyed by
// stack name and resource key.
type StateDatabase struct {
	client     *dynamodb.Client
	stateTable string
	logger     models.Logger
}

func NewStateDb(ctx context.Context, logger models.Logger, client *dynamodb.Client) *StateDatabase {
	stateTable := os.Getenv(common.Env_StateTable)
	if len(stateTable) == 0 {
		stateTable = "qpair-" + os.Getenv(qpair.Env_Env) + "-state"
	}

	sdb := StateDatabase{
		client,
		stateTable,
		logger,
	}
	if err := sdb.createStateTable(ctx); err != nil {
		logger.Fatalf("state: table creation failed: %v", err)
	}
	return &sdb
}

func (sdb *StateDatabase) createStateTable(ctx context.Context) error {
	createStateTableInput := dynamodb.CreateTableInput{
		AttributeDefinitions: []types.AttributeDefinition{
			{
				AttributeName: aws.String("stack"),
				AttributeType: "S",
			},
			{
				AttributeName: aws.String("key"),
				AttributeType: "S",
			},
		},
		KeySchema: []types.KeySchemaElement{
			{
				AttributeName: aws.String("stack"),
				KeyType:       "HASH",
			},
			{
				AttributeName: aws.String("key"),
				KeyType:       "RANGE",
			},
		},
		TableName: aws.String(sdb.stateTable),
		ProvisionedThroughput: &types.ProvisionedThroughput{
			ReadCapacityUnits:  aws.Int64(1),
			WriteCapacityUnits: aws.Int64(1),
		},
	}
	return createTable(ctx, sdb.logger, sdb.client, &createStateTableInput)
}

// StoreResource writes a record, overwriting any record from a prior run for
// the same stack and resource key.
func (sdb *StateDatabase) StoreResource(ctx context.Context, resource *models.AppliedResource) error {
	attributeValues, err := attributevalue.MarshalMapWithOptions(resource)
	if err != nil {
		return err
	}
	putItemIn := dynamodb.PutItemInput{
		TableName: aws.String(sdb.stateTable),
		Item:      attributeValues,
	}

	httpCtx, httpCancel := context.WithTimeout(ctx, common.DefaultRpcWaitTime)
	defer httpCancel()

	if _, err = sdb.client.PutItem(httpCtx, &putItemIn); err != nil {
		sdb.logger.Errorf("state: error writing resource %s/%s: %v", resource.Stack, resource.Key, err)
		return err
	}
	return nil
}

func (sdb *StateDatabase) GetResources(ctx context.Context, stack string) ([]*models.AppliedResource, error) {
	queryIn := dynamodb.QueryInput{
		TableName:              aws.String(sdb.stateTable),
		KeyConditionExpression: aws.String("#stack = :stack"),
		ExpressionAttributeNames: map[string]string{
			"#stack": "stack",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":stack": &types.AttributeValueMemberS{Value: stack},
		},
	}

	httpCtx, httpCancel := context.WithTimeout(ctx, common.DefaultRpcWaitTime)
	defer httpCancel()

	queryOut, err := sdb.client.Query(httpCtx, &queryIn)
	if err != nil {
		return nil, err
	}
	resources := make([]*models.AppliedResource, 0, len(queryOut.Items))
	for _, item := range queryOut.Items {
		resource := new(models.AppliedResource)
		if err = attributevalue.UnmarshalMapWithOptions(item, resource); err != nil {
			return nil, err
		}
		resources = append(resources, resource)
	}
	return resources, nil
}

func (sdb *StateDatabase) DeleteResource(ctx context.Context, stack string, key models.ResourceKey) error {
	deleteItemIn := dynamodb.DeleteItemInput{
		Key: map[string]types.AttributeValue{
			"stack": &types.AttributeValueMemberS{Value: stack},
			"key":   &types.AttributeValueMemberS{Value: string(key)},
		},
		TableName: aws.String(sdb.stateTable),
	}

	httpCtx, httpCancel := context.WithTimeout(ctx, common.DefaultRpcWaitTime)
	defer httpCancel()

	if _, err := sdb.client.DeleteItem(httpCtx, &deleteItemIn); err != nil {
		sdb.logger.Errorf("state: error deleting resource %s/%s: %v", stack, key, err)
		return err
	}
	return nil
}
