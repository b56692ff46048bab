// Package dynamodb implements the catalog store on Amazon DynamoDB.
package dynamodb

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"golang.org/x/time/rate"

	"github.com/hupe1980/geocatalog/model"
)

// DefaultTableName is the catalog table used when none is configured.
const DefaultTableName = "geo-catalog"

// Client is the interface for the DynamoDB operations used by the store.
type Client interface {
	Scan(ctx context.Context, params *dynamodb.ScanInput, optFns ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error)
}

// Store implements catalogstore.Store backed by a DynamoDB table.
type Store struct {
	client  Client
	table   string
	limiter *rate.Limiter
}

// Option configures a Store.
type Option func(*Store)

// WithScanRateLimit throttles scan page requests to pagesPerSec.
// Useful against provisioned tables where an unbounded scan would eat
// the read capacity of other consumers.
func WithScanRateLimit(pagesPerSec float64) Option {
	return func(s *Store) {
		s.limiter = rate.NewLimiter(rate.Limit(pagesPerSec), 1)
	}
}

// New creates a catalog store for the given table.
// An empty table name selects DefaultTableName.
func New(client Client, table string, optFns ...Option) *Store {
	if table == "" {
		table = DefaultTableName
	}

	s := &Store{
		client: client,
		table:  table,
	}

	for _, fn := range optFns {
		fn(s)
	}

	return s
}

// TableName returns the name of the backing table.
func (s *Store) TableName() string {
	return s.table
}

// ScanAll scans the whole catalog table, following LastEvaluatedKey
// continuation until the backend stops returning one. All pages are
// accumulated into a single slice in page order. Scan errors from the
// backend (table not found, throttling, ...) are returned unmodified.
func (s *Store) ScanAll(ctx context.Context) ([]model.CatalogRecord, error) {
	var (
		records  []model.CatalogRecord
		startKey map[string]types.AttributeValue
	)

	for {
		if s.limiter != nil {
			if err := s.limiter.Wait(ctx); err != nil {
				return nil, err
			}
		}

		out, err := s.client.Scan(ctx, &dynamodb.ScanInput{
			TableName:         aws.String(s.table),
			ExclusiveStartKey: startKey,
		})
		if err != nil {
			return nil, err
		}

		for _, item := range out.Items {
			var rec model.CatalogRecord
			if err := attributevalue.UnmarshalMap(item, &rec); err != nil {
				return nil, fmt.Errorf("unmarshal catalog item in table %s: %w", s.table, err)
			}
			records = append(records, rec)
		}

		if len(out.LastEvaluatedKey) == 0 {
			break
		}
		startKey = out.LastEvaluatedKey
	}

	return records, nil
}
