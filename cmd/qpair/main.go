package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/alexflint/go-arg"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/joho/godotenv"

	awsConfig "github.com/qpair/go-qpair/common/aws/config"
	"github.com/qpair/go-qpair/common/aws/ddb"
	"github.com/qpair/go-qpair/common/aws/queue"
	"github.com/qpair/go-qpair/common/config"
	"github.com/qpair/go-qpair/common/loggers"
	"github.com/qpair/go-qpair/common/metrics"
	"github.com/qpair/go-qpair/common/notifs"
	"github.com/qpair/go-qpair/models"
	"github.com/qpair/go-qpair/services"
)

type PlanCmd struct{}

type ApplyCmd struct{}

type DestroyCmd struct {
	Stack string `arg:"positional" help:"stack to destroy (defaults to the configured queue name)"`
}

type OutputsCmd struct {
	Stack string `arg:"positional" help:"stack to read outputs for (defaults to the configured queue name)"`
}

type StatusCmd struct {
	Stack string `arg:"positional" help:"stack to report on (defaults to the configured queue name)"`
}

type cmdArgs struct {
	Config  string      `arg:"-c,--config,env:QPAIR_CONFIG" default:"qpair.yaml" help:"path to the module config file"`
	Plan    *PlanCmd    `arg:"subcommand:plan" help:"evaluate the config and print the declarations"`
	Apply   *ApplyCmd   `arg:"subcommand:apply" help:"evaluate the config and create the declared resources"`
	Destroy *DestroyCmd `arg:"subcommand:destroy" help:"delete a stack's applied resources"`
	Outputs *OutputsCmd `arg:"subcommand:outputs" help:"print a stack's outputs"`
	Status  *StatusCmd  `arg:"subcommand:status" help:"report queue utilization for a stack"`
}

func main() {
	if _, err := os.Stat(".env"); err == nil {
		if err = godotenv.Load(); err != nil {
			fmt.Fprintf(os.Stderr, "error loading .env file: %v\n", err)
			os.Exit(1)
		}
	}

	args := cmdArgs{}
	parser := arg.MustParse(&args)

	logger := loggers.NewLogger()
	defer logger.Sync()

	ctx := context.Background()

	switch {
	case args.Plan != nil:
		runPlan(args.Config, logger)
	case args.Apply != nil:
		runApply(ctx, args.Config, logger)
	case args.Destroy != nil:
		runDestroy(ctx, stackName(args.Destroy.Stack, args.Config, logger), logger)
	case args.Outputs != nil:
		runOutputs(ctx, stackName(args.Outputs.Stack, args.Config, logger), logger)
	case args.Status != nil:
		runStatus(ctx, stackName(args.Status.Stack, args.Config, logger), logger)
	default:
		parser.WriteHelp(os.Stderr)
		os.Exit(2)
	}
}

func runPlan(configPath string, logger models.Logger) {
	plan := evaluate(configPath, logger)
	printJson(plan, logger)
}

func runApply(ctx context.Context, configPath string, logger models.Logger) {
	plan := evaluate(configPath, logger)

	sqsClient, ddbClient := awsClients(ctx, logger)
	metricService, err := metrics.NewMetricService(ctx, logger)
	if err != nil {
		logger.Fatalf("apply: error creating metric service: %v", err)
	}
	defer metricService.Shutdown(ctx)
	notifier, err := notifs.NewDiscordHandler(logger)
	if err != nil {
		logger.Fatalf("apply: error creating notifier: %v", err)
	}

	applyService := services.NewApplyService(
		queue.NewProvisioner(sqsClient),
		ddb.NewStateDb(ctx, logger, ddbClient),
		metricService,
		notifier,
		logger,
	)
	outputs, err := applyService.Apply(ctx, plan)
	if outputs != nil {
		printJson(outputs, logger)
	}
	if err != nil {
		logger.Fatalf("apply: %v", err)
	}
}

func runDestroy(ctx context.Context, stack string, logger models.Logger) {
	sqsClient, ddbClient := awsClients(ctx, logger)
	metricService, err := metrics.NewMetricService(ctx, logger)
	if err != nil {
		logger.Fatalf("destroy: error creating metric service: %v", err)
	}
	defer metricService.Shutdown(ctx)
	notifier, err := notifs.NewDiscordHandler(logger)
	if err != nil {
		logger.Fatalf("destroy: error creating notifier: %v", err)
	}

	destroyService := services.NewDestroyService(
		queue.NewProvisioner(sqsClient),
		ddb.NewStateDb(ctx, logger, ddbClient),
		metricService,
		notifier,
		logger,
	)
	if err = destroyService.Destroy(ctx, stack); err != nil {
		logger.Fatalf("destroy: %v", err)
	}
}

func runOutputs(ctx context.Context, stack string, logger models.Logger) {
	_, ddbClient := awsClients(ctx, logger)
	outputsService := services.NewOutputsService(ddb.NewStateDb(ctx, logger, ddbClient))
	outputs, err := outputsService.Outputs(ctx, stack)
	if err != nil {
		logger.Fatalf("outputs: %v", err)
	}
	printJson(outputs, logger)
}

func runStatus(ctx context.Context, stack string, logger models.Logger) {
	sqsClient, ddbClient := awsClients(ctx, logger)
	metricService, err := metrics.NewMetricService(ctx, logger)
	if err != nil {
		logger.Fatalf("status: error creating metric service: %v", err)
	}
	defer metricService.Shutdown(ctx)

	statusService := services.NewStatusService(
		ddb.NewStateDb(ctx, logger, ddbClient),
		metricService,
		func(queueUrl string) models.QueueMonitor { return queue.NewMonitor(queueUrl, sqsClient) },
		logger,
	)
	statuses, err := statusService.Status(ctx, stack)
	if err != nil {
		logger.Fatalf("status: %v", err)
	}
	printJson(statuses, logger)
}

func evaluate(configPath string, logger models.Logger) *models.Plan {
	cfg, err := config.Load(configPath)
	if err != nil {
		logger.Fatalf("%v", err)
	}
	plan, err := services.NewPlanService().Evaluate(*cfg)
	if err != nil {
		logger.Fatalf("evaluate: %v", err)
	}
	return plan
}

// stackName resolves the stack to operate on: an explicit argument wins,
// otherwise the configured queue name identifies the stack.
func stackName(argStack, configPath string, logger models.Logger) string {
	if len(argStack) > 0 {
		return argStack
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		logger.Fatalf("%v", err)
	}
	return cfg.QueueName
}

func awsClients(ctx context.Context, logger models.Logger) (*sqs.Client, *dynamodb.Client) {
	awsCfg, err := awsConfig.AwsConfig(ctx, logger)
	if err != nil {
		logger.Fatalf("error creating aws cfg: %v", err)
	}
	return sqs.NewFromConfig(awsCfg), dynamodb.NewFromConfig(awsCfg)
}

func printJson(v any, logger models.Logger) {
	encoded, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		logger.Fatalf("error encoding output: %v", err)
	}
	fmt.Println(string(encoded))
}
