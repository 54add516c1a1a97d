package dynamo

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/telos-kitchen/account-service/internal/domain"
)

// GrantRepo provides typed DynamoDB operations for the accounts table.
// PK: sms_hash.
type GrantRepo struct {
	client    *dynamodb.Client
	tableName string
}

func NewGrantRepo(client *dynamodb.Client, tableName string) *GrantRepo {
	return &GrantRepo{client: client, tableName: tableName}
}

// GetBySMSHash returns the grant record for the given identity hash.
// When no item exists it returns a zero-valued record carrying only the
// hash, never an error: the create workflow treats "no row" and "row
// with AccountCreatedAt == 0" identically.
func (r *GrantRepo) GetBySMSHash(ctx context.Context, smsHash string) (*domain.GrantRecord, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key:       strKey("sms_hash", smsHash),
	})
	if err != nil {
		return nil, err
	}
	if out.Item == nil {
		return &domain.GrantRecord{SMSHash: smsHash}, nil
	}
	var rec domain.GrantRecord
	if err := attributevalue.UnmarshalMap(out.Item, &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

// Save writes the whole record, overwriting any existing item.
func (r *GrantRepo) Save(ctx context.Context, rec *domain.GrantRecord) error {
	item, err := attributevalue.MarshalMap(rec)
	if err != nil {
		return fmt.Errorf("marshal grant record: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      item,
	})
	return err
}

// Delete removes the record for the given identity hash.
// Deleting a non-existent record is not an error.
func (r *GrantRepo) Delete(ctx context.Context, smsHash string) error {
	_, err := r.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(r.tableName),
		Key:       strKey("sms_hash", smsHash),
	})
	return err
}

// strKey builds a DynamoDB primary key map with a single string attribute.
func strKey(name, value string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		name: &types.AttributeValueMemberS{Value: value},
	}
}
