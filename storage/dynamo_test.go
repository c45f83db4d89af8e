package storage

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/alex-pricope/campaign-voting/logging"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupDynamo talks to localstack (or any DynamoDB endpoint) named by
// DYNAMO_ENDPOINT, e.g. http://localhost:4566.
//
//nolint:staticcheck
func setupDynamo(t *testing.T, tables ...string) *dynamodb.Client {
	t.Helper()
	endpoint := os.Getenv("DYNAMO_ENDPOINT")
	if endpoint == "" {
		t.Skip("DYNAMO_ENDPOINT not set")
	}
	logging.Log = logrus.New()

	cfg, err := config.LoadDefaultConfig(context.TODO(),
		config.WithRegion("us-east-1"),
		config.WithEndpointResolverWithOptions(
			aws.EndpointResolverWithOptionsFunc(func(service, region string, options ...interface{}) (aws.Endpoint, error) {
				return aws.Endpoint{URL: endpoint, HostnameImmutable: true}, nil
			}),
		),
	)
	require.NoError(t, err, "failed to load AWS config")
	client := dynamodb.NewFromConfig(cfg)

	for _, table := range tables {
		_, err := client.CreateTable(context.TODO(), &dynamodb.CreateTableInput{
			TableName:            aws.String(table),
			BillingMode:          types.BillingModePayPerRequest,
			AttributeDefinitions: []types.AttributeDefinition{{AttributeName: aws.String("PK"), AttributeType: types.ScalarAttributeTypeS}},
			KeySchema:            []types.KeySchemaElement{{AttributeName: aws.String("PK"), KeyType: types.KeyTypeHash}},
		})
		var inUse *types.ResourceInUseException
		if err != nil && !errors.As(err, &inUse) {
			t.Fatalf("failed to create table %s: %v", table, err)
		}

		table := table
		t.Cleanup(func() {
			_, _ = client.DeleteTable(context.TODO(), &dynamodb.DeleteTableInput{TableName: aws.String(table)})
		})
	}
	return client
}

func TestDynamoCandidateStorage(t *testing.T) {
	client := setupDynamo(t, "TestCandidates")
	s := &DynamoCandidateStorage{Client: client, TableName: "TestCandidates"}
	ctx := context.TODO()
	base := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)

	require.NoError(t, s.Create(ctx, &Candidate{ID: "b", Name: "Second", CreatedAt: base.Add(time.Second)}))
	require.NoError(t, s.Create(ctx, &Candidate{ID: "a", Name: "First", CreatedAt: base}))
	assert.ErrorIs(t, s.Create(ctx, &Candidate{ID: "a", Name: "Dup"}), ErrItemWithIDAlreadyExists)

	all, err := s.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "a", all[0].ID)

	assert.ErrorIs(t, s.Update(ctx, &Candidate{ID: "zz", Name: "Ghost"}), ErrNotFound)
	require.NoError(t, s.Delete(ctx, "a"))
	_, err = s.Get(ctx, "a")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDynamoCouponStorage(t *testing.T) {
	client := setupDynamo(t, "TestCoupons")
	s := &DynamoCouponStorage{Client: client, TableName: "TestCoupons"}
	ctx := context.TODO()

	require.NoError(t, s.Create(ctx, &Coupon{ID: "gold", Name: "Gold", Votes: 10, EligibleCandidateCounts: 2, Pricing: 5}))
	got, err := s.Get(ctx, "gold")
	require.NoError(t, err)
	assert.Equal(t, 10, got.Votes)

	got.Votes = 12
	require.NoError(t, s.Update(ctx, got))
	got, err = s.Get(ctx, "gold")
	require.NoError(t, err)
	assert.Equal(t, 12, got.Votes)
}
