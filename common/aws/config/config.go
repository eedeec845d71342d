package config

import (
	"context"
	"os"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"

	"github.com/qpair/go-qpair"
	"github.com/qpair/go-qpair/common"
	"github.com/qpair/go-qpair/models"
)

// AwsConfig loads the default AWS configuration for the configured region,
// honoring a custom endpoint override (e.g. LocalStack) when set.
func AwsConfig(ctx context.Context, logger models.Logger) (aws.Config, error) {
	awsEndpoint := os.Getenv(qpair.Env_AwsEndpoint)
	if len(awsEndpoint) > 0 {
		logger.Infof("config: using custom aws endpoint: %s", awsEndpoint)
		return AwsConfigWithOverride(ctx, awsEndpoint)
	}

	httpCtx, httpCancel := context.WithTimeout(ctx, common.DefaultRpcWaitTime)
	defer httpCancel()

	return config.LoadDefaultConfig(httpCtx, config.WithRegion(os.Getenv(qpair.Env_AwsRegion)))
}

func AwsConfigWithOverride(ctx context.Context, customEndpoint string) (aws.Config, error) {
	endpointResolver := aws.EndpointResolverWithOptionsFunc(func(service, region string, options ...interface{}) (aws.Endpoint, error) {
		return aws.Endpoint{
			PartitionID:   "aws",
			URL:           customEndpoint,
			SigningRegion: os.Getenv(qpair.Env_AwsRegion),
		}, nil
	})

	httpCtx, httpCancel := context.WithTimeout(ctx, common.DefaultRpcWaitTime)
	defer httpCancel()

	return config.LoadDefaultConfig(httpCtx, config.WithEndpointResolverWithOptions(endpointResolver))
}
