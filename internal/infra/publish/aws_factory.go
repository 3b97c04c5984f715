// Where: cli/internal/infra/publish/aws_factory.go
// What: AWS client construction for publishing.
// Why: Encapsulate SDK configuration, including S3-compatible endpoints.
package publish

import (
	"context"
	"os"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/poruru/sbl-payload/cli/internal/infra/envutil"
)

const defaultAWSRegion = "us-east-1"

// ClientOptions configures the AWS clients.
type ClientOptions struct {
	Region   string
	Endpoint string
}

// NewAWSPublisher builds a Publisher backed by S3 and DynamoDB.
func NewAWSPublisher(ctx context.Context, opts ClientOptions, bucket, prefix, table string) (Publisher, error) {
	cfg, err := loadAWSConfig(ctx, opts.Region)
	if err != nil {
		return Publisher{}, err
	}
	endpoint := strings.TrimSpace(opts.Endpoint)

	s3Client := s3.NewFromConfig(cfg, func(options *s3.Options) {
		if endpoint != "" {
			options.BaseEndpoint = aws.String(endpoint)
			options.UsePathStyle = true
		}
	})
	dynamoClient := dynamodb.NewFromConfig(cfg, func(options *dynamodb.Options) {
		if endpoint != "" {
			options.BaseEndpoint = aws.String(endpoint)
		}
	})

	return Publisher{
		Store:  awsS3Store{client: s3Client},
		Ledger: awsDynamoLedger{client: dynamoClient},
		Bucket: bucket,
		Prefix: prefix,
		Table:  table,
	}, nil
}

func loadAWSConfig(ctx context.Context, region string) (aws.Config, error) {
	region = envutil.FirstNonEmpty(region, os.Getenv("AWS_REGION"), defaultAWSRegion)
	loaders := []func(*config.LoadOptions) error{config.WithRegion(region)}

	accessKey := envutil.GetHostEnv("AWS_ACCESS_KEY")
	secretKey := envutil.GetHostEnv("AWS_SECRET_KEY")
	if accessKey != "" && secretKey != "" {
		creds := credentials.NewStaticCredentialsProvider(accessKey, secretKey, "")
		loaders = append(loaders, config.WithCredentialsProvider(creds))
	}
	return config.LoadDefaultConfig(ctx, loaders...)
}
