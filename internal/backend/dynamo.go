package backend

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
)

// DynamoAPI is the subset of the DynamoDB client used by Dynamo.
// *dynamodb.Client satisfies it.
type DynamoAPI interface {
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
}

// dynamoKey is the table's primary key.
type dynamoKey struct {
	PK string `dynamodbav:"pk"`
}

// dynamoItem is one stored key/value pair.
type dynamoItem struct {
	PK    string `dynamodbav:"pk"`
	Value string `dynamodbav:"value"`
}

// Dynamo is a Backend storing each key as one item in a DynamoDB table whose
// partition key is the string attribute "pk".
type Dynamo struct {
	client DynamoAPI
	table  string
}

// NewDynamo wraps an existing client.
func NewDynamo(client DynamoAPI, table string) *Dynamo {
	return &Dynamo{client: client, table: table}
}

// OpenDynamo loads the default AWS configuration (environment, shared config,
// instance role) and returns a Dynamo backend for table. A non-empty region
// overrides the configured one.
func OpenDynamo(ctx context.Context, table, region string) (*Dynamo, error) {
	var opts []func(*awsconfig.LoadOptions) error
	if region != "" {
		opts = append(opts, awsconfig.WithRegion(region))
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("open dynamodb: load aws config: %w", err)
	}
	return NewDynamo(dynamodb.NewFromConfig(cfg), table), nil
}

// Get returns the value stored under key.
func (d *Dynamo) Get(ctx context.Context, key string) (string, bool, error) {
	pk, err := attributevalue.MarshalMap(dynamoKey{PK: key})
	if err != nil {
		return "", false, fmt.Errorf("dynamodb get %q: marshal key: %w", key, err)
	}

	result, err := d.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(d.table),
		Key:            pk,
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return "", false, fmt.Errorf("dynamodb get %q: %w", key, err)
	}
	if result.Item == nil {
		return "", false, nil
	}

	var item dynamoItem
	if err := attributevalue.UnmarshalMap(result.Item, &item); err != nil {
		return "", false, fmt.Errorf("dynamodb get %q: unmarshal: %w", key, err)
	}
	return item.Value, true, nil
}

// Set writes value under key, replacing any existing item.
func (d *Dynamo) Set(ctx context.Context, key, value string) error {
	av, err := attributevalue.MarshalMap(dynamoItem{PK: key, Value: value})
	if err != nil {
		return fmt.Errorf("dynamodb set %q: marshal: %w", key, err)
	}

	_, err = d.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(d.table),
		Item:      av,
	})
	if err != nil {
		return fmt.Errorf("dynamodb set %q: %w", key, err)
	}
	return nil
}

// Close is a no-op; the SDK client holds no resources that need releasing.
func (d *Dynamo) Close() error { return nil }
