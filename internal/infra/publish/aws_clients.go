// Where: cli/internal/infra/publish/aws_clients.go
// What: AWS SDK adapters for S3 uploads and DynamoDB build records.
// Why: Map publish types to SDK types.
package publish

import (
	"context"
	"errors"
	"io"
	"strconv"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

var (
	errS3ClientNil     = errors.New("s3 client is nil")
	errDynamoClientNil = errors.New("dynamodb client is nil")
)

type awsS3Store struct {
	client *s3.Client
}

func (s awsS3Store) PutObject(
	ctx context.Context,
	bucket, key string,
	body io.Reader,
	size int64,
	metadata map[string]string,
) error {
	if s.client == nil {
		return errS3ClientNil
	}
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(bucket),
		Key:           aws.String(key),
		Body:          body,
		ContentLength: aws.Int64(size),
		ContentType:   aws.String("application/octet-stream"),
		Metadata:      metadata,
	})
	return err
}

type awsDynamoLedger struct {
	client *dynamodb.Client
}

func (l awsDynamoLedger) PutRecord(ctx context.Context, table string, record Record) error {
	if l.client == nil {
		return errDynamoClientNil
	}
	_, err := l.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(table),
		Item:      recordItem(record),
	})
	return err
}

func recordItem(record Record) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"artifact":  &types.AttributeValueMemberS{Value: record.Key},
		"built_at":  &types.AttributeValueMemberS{Value: record.BuiltAt.Format(time.RFC3339)},
		"platform":  &types.AttributeValueMemberS{Value: record.Platform},
		"arch":      &types.AttributeValueMemberS{Value: record.Arch},
		"target":    &types.AttributeValueMemberS{Value: record.Target},
		"toolchain": &types.AttributeValueMemberS{Value: record.Toolchain},
		"sha256":    &types.AttributeValueMemberS{Value: record.SHA256},
		"size":      &types.AttributeValueMemberN{Value: strconv.FormatInt(record.Size, 10)},
	}
}
