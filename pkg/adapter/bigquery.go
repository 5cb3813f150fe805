package adapter

import (
	"context"
	"errors"
	"net/http"

	"cloud.google.com/go/bigquery"
	"github.com/m-mizutani/goerr/v2"
	"google.golang.org/api/googleapi"
)

// BigQuery is an interface for BigQuery operations
type BigQuery interface {
	// TableExists reports whether the table is present
	TableExists(ctx context.Context, datasetID, table string) (bool, error)

	// CreateTable creates a table with the schema
	CreateTable(ctx context.Context, datasetID, table string, schema bigquery.Schema) error

	// PutRows streams rows into the table. rows must be a slice of structs or ValueSavers.
	PutRows(ctx context.Context, datasetID, table string, rows any) error
}

type bigqueryClient struct {
	client *bigquery.Client
}

// BigQueryOption is a functional option for BigQuery client
type BigQueryOption func(*bigqueryClient)

// NewBigQuery creates a new BigQuery client
func NewBigQuery(ctx context.Context, projectID string, opts ...BigQueryOption) (BigQuery, error) {
	client, err := bigquery.NewClient(ctx, projectID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create BigQuery client")
	}

	bq := &bigqueryClient{
		client: client,
	}

	for _, opt := range opts {
		opt(bq)
	}

	return bq, nil
}

func (bq *bigqueryClient) TableExists(ctx context.Context, datasetID, table string) (bool, error) {
	_, err := bq.client.Dataset(datasetID).Table(table).Metadata(ctx)
	if err != nil {
		var apiErr *googleapi.Error
		if errors.As(err, &apiErr) && apiErr.Code == http.StatusNotFound {
			return false, nil
		}
		return false, goerr.Wrap(err, "failed to get table metadata",
			goerr.V("dataset", datasetID),
			goerr.V("table", table))
	}
	return true, nil
}

func (bq *bigqueryClient) CreateTable(ctx context.Context, datasetID, table string, schema bigquery.Schema) error {
	meta := &bigquery.TableMetadata{Schema: schema}
	if err := bq.client.Dataset(datasetID).Table(table).Create(ctx, meta); err != nil {
		return goerr.Wrap(err, "failed to create table",
			goerr.V("dataset", datasetID),
			goerr.V("table", table))
	}
	return nil
}

func (bq *bigqueryClient) PutRows(ctx context.Context, datasetID, table string, rows any) error {
	inserter := bq.client.Dataset(datasetID).Table(table).Inserter()
	if err := inserter.Put(ctx, rows); err != nil {
		return goerr.Wrap(err, "failed to insert rows",
			goerr.V("dataset", datasetID),
			goerr.V("table", table))
	}
	return nil
}
