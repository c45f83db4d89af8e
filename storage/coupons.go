package storage

import (
	"context"
	"sort"

	"github.com/alex-pricope/campaign-voting/logging"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/pkg/errors"
)

type CouponStorage interface {
	Get(ctx context.Context, id string) (*Coupon, error)
	GetAll(ctx context.Context) ([]*Coupon, error)
	Create(ctx context.Context, coupon *Coupon) error
	Update(ctx context.Context, coupon *Coupon) error
	Delete(ctx context.Context, id string) error
}

type DynamoCouponStorage struct {
	Client    *dynamodb.Client
	TableName string
}

func (s *DynamoCouponStorage) Get(ctx context.Context, id string) (*Coupon, error) {
	key, err := attributevalue.MarshalMap(map[string]string{"PK": id})
	if err != nil {
		logging.Log.Errorf("COUPON: failed to marshal key for ID %s: %v", id, err)
		return nil, err
	}

	out, err := s.Client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: &s.TableName,
		Key:       key,
	})
	if err != nil {
		logging.Log.Errorf("COUPON: GetItem for ID %s failed: %v", id, err)
		return nil, err
	}
	if out.Item == nil {
		logging.Log.Warnf("COUPON: no coupon found with ID %s", id)
		return nil, ErrNotFound
	}

	var coupon Coupon
	if err := attributevalue.UnmarshalMap(out.Item, &coupon); err != nil {
		logging.Log.Errorf("COUPON: failed to unmarshal coupon: %v", err)
		return nil, err
	}
	return &coupon, nil
}

// GetAll returns coupons in creation order.
func (s *DynamoCouponStorage) GetAll(ctx context.Context) ([]*Coupon, error) {
	var coupons []*Coupon
	var lastEvaluatedKey map[string]types.AttributeValue

	for {
		out, err := s.Client.Scan(ctx, &dynamodb.ScanInput{
			TableName:         &s.TableName,
			ExclusiveStartKey: lastEvaluatedKey,
		})
		if err != nil {
			logging.Log.Errorf("COUPON: scan failed: %v", err)
			return nil, err
		}

		var page []*Coupon
		if err := attributevalue.UnmarshalListOfMaps(out.Items, &page); err != nil {
			logging.Log.Errorf("COUPON: failed to unmarshal coupon list: %v", err)
			return nil, err
		}
		coupons = append(coupons, page...)

		if out.LastEvaluatedKey == nil {
			break
		}
		lastEvaluatedKey = out.LastEvaluatedKey
	}

	sortCoupons(coupons)
	return coupons, nil
}

func (s *DynamoCouponStorage) Create(ctx context.Context, coupon *Coupon) error {
	item, err := attributevalue.MarshalMap(coupon)
	if err != nil {
		logging.Log.Errorf("COUPON: failed to marshal coupon: %v", err)
		return err
	}

	_, err = s.Client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           &s.TableName,
		Item:                item,
		ConditionExpression: aws.String("attribute_not_exists(PK)"),
	})
	if err != nil {
		var cce *types.ConditionalCheckFailedException
		if errors.As(err, &cce) {
			logging.Log.Warnf("COUPON: item with ID %s already exists", coupon.ID)
			return ErrItemWithIDAlreadyExists
		}
		logging.Log.Errorf("COUPON: failed to create coupon: %v", err)
		return err
	}
	return nil
}

func (s *DynamoCouponStorage) Update(ctx context.Context, coupon *Coupon) error {
	item, err := attributevalue.MarshalMap(coupon)
	if err != nil {
		logging.Log.Errorf("COUPON: failed to marshal updated coupon: %v", err)
		return err
	}

	_, err = s.Client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           &s.TableName,
		Item:                item,
		ConditionExpression: aws.String("attribute_exists(PK)"),
	})
	if err != nil {
		var cce *types.ConditionalCheckFailedException
		if errors.As(err, &cce) {
			return ErrNotFound
		}
		logging.Log.Errorf("COUPON: failed to update coupon: %v", err)
		return err
	}
	return nil
}

func (s *DynamoCouponStorage) Delete(ctx context.Context, id string) error {
	key, err := attributevalue.MarshalMap(map[string]string{"PK": id})
	if err != nil {
		logging.Log.Errorf("COUPON: failed to marshal delete key for ID %s: %v", id, err)
		return err
	}

	_, err = s.Client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: &s.TableName,
		Key:       key,
	})
	if err != nil {
		logging.Log.Errorf("COUPON: failed to delete coupon with ID %s: %v", id, err)
		return err
	}
	logging.Log.Infof("COUPON: deleted coupon with ID %s", id)
	return nil
}

func sortCoupons(coupons []*Coupon) {
	sort.SliceStable(coupons, func(i, j int) bool {
		if coupons[i].CreatedAt.Equal(coupons[j].CreatedAt) {
			return coupons[i].ID < coupons[j].ID
		}
		return coupons[i].CreatedAt.Before(coupons[j].CreatedAt)
	})
}
