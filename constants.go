package qpair

const (
	Env_AwsAccountId = "AWS_ACCOUNT_ID"
	Env_AwsEndpoint  = "AWS_ENDPOINT"
	Env_AwsRegion    = "AWS_REGION"
	Env_Env          = "ENV"
	Env_LogLevel     = "LOG_LEVEL"
)

const (
	EnvTag_Dev  = "dev"
	EnvTag_Qa   = "qa"
	EnvTag_Prod = "prod"
)
