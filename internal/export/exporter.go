// Package export streams a ledger snapshot into BigQuery for offline
// analysis. It is a one-way, run-scoped copy: the warehouse is never read
// back into the ledger.
package export

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/bigquery"
	"github.com/google/uuid"
	"google.golang.org/api/iterator"

	"github.com/dvloznov/fingemini/internal/domain"
)

const (
	accountsTable     = "accounts"
	transactionsTable = "transactions"
)

// Exporter writes export runs into a BigQuery dataset.
type Exporter struct {
	client    *bigquery.Client
	projectID string
	datasetID string
}

// NewExporter creates an exporter for the given project and dataset.
func NewExporter(ctx context.Context, projectID, datasetID string) (*Exporter, error) {
	client, err := bigquery.NewClient(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("NewExporter: creating client: %w", err)
	}
	return &Exporter{client: client, projectID: projectID, datasetID: datasetID}, nil
}

// Close releases the underlying BigQuery client.
func (e *Exporter) Close() error {
	return e.client.Close()
}

// Run streams the snapshot's accounts and transactions as one export run and
// returns the run's export ID.
func (e *Exporter) Run(ctx context.Context, snapshot domain.Snapshot, userID string) (string, error) {
	exportID := uuid.NewString()
	now := time.Now()

	accounts := accountRows(snapshot, exportID, userID, now)
	if len(accounts) > 0 {
		inserter := e.client.Dataset(e.datasetID).Table(accountsTable).Inserter()
		if err := inserter.Put(ctx, accounts); err != nil {
			return "", fmt.Errorf("Run: inserting accounts: %w", err)
		}
	}

	transactions := transactionRows(snapshot, exportID, userID, now)
	if len(transactions) > 0 {
		inserter := e.client.Dataset(e.datasetID).Table(transactionsTable).Inserter()
		if err := inserter.Put(ctx, transactions); err != nil {
			return "", fmt.Errorf("Run: inserting transactions: %w", err)
		}
	}

	return exportID, nil
}

// CountTransactions returns the number of transaction rows stored for an
// export run. Streaming inserts land with a short delay, so a zero count
// immediately after Run is not necessarily an error.
func (e *Exporter) CountTransactions(ctx context.Context, exportID string) (int64, error) {
	q := e.client.Query(fmt.Sprintf(
		`SELECT COUNT(*) AS n FROM %s WHERE export_id = @export_id`,
		tableRef(e.projectID, e.datasetID, transactionsTable),
	))
	q.Parameters = []bigquery.QueryParameter{
		{Name: "export_id", Value: exportID},
	}

	it, err := q.Read(ctx)
	if err != nil {
		return 0, fmt.Errorf("CountTransactions: reading query: %w", err)
	}

	var row struct {
		N int64 `bigquery:"n"`
	}
	err = it.Next(&row)
	if err == iterator.Done {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("CountTransactions: iterating: %w", err)
	}
	return row.N, nil
}
