package export

import (
	"fmt"
	"time"

	"cloud.google.com/go/bigquery"
	"cloud.google.com/go/civil"

	"github.com/dvloznov/fingemini/internal/domain"
)

// AccountRow maps a ledger account into the finance.accounts export table.
type AccountRow struct {
	ExportID    string    `bigquery:"export_id"`
	UserID      string    `bigquery:"user_id"`
	AccountID   string    `bigquery:"account_id"`
	AccountName string    `bigquery:"account_name"`
	Balance     float64   `bigquery:"balance"`
	AccountType string    `bigquery:"account_type"`
	ExportedTS  time.Time `bigquery:"exported_ts"`
}

// TransactionRow maps a ledger transaction into the finance.transactions
// export table. TxDate is a calendar date, not a timestamp.
type TransactionRow struct {
	ExportID    string             `bigquery:"export_id"`
	UserID      string             `bigquery:"user_id"`
	TxID        string             `bigquery:"tx_id"`
	AccountID   string             `bigquery:"account_id"`
	CategoryID  string             `bigquery:"category_id"`
	Category    string             `bigquery:"category"`
	Amount      float64            `bigquery:"amount"`
	TxType      string             `bigquery:"tx_type"`
	TxDate      bigquery.NullDate  `bigquery:"tx_date"`
	Description string             `bigquery:"description"`
	Metadata    bigquery.NullJSON  `bigquery:"metadata"`
	ExportedTS  time.Time          `bigquery:"exported_ts"`
}

// accountRows converts the snapshot's accounts for one export run.
func accountRows(snapshot domain.Snapshot, exportID, userID string, now time.Time) []*AccountRow {
	rows := make([]*AccountRow, 0, len(snapshot.Accounts))
	for _, acc := range snapshot.Accounts {
		rows = append(rows, &AccountRow{
			ExportID:    exportID,
			UserID:      userID,
			AccountID:   acc.ID,
			AccountName: acc.Name,
			Balance:     acc.Balance,
			AccountType: string(acc.Type),
			ExportedTS:  now,
		})
	}
	return rows
}

// transactionRows converts the snapshot's transactions for one export run.
// Category names are resolved through the snapshot's category set; dangling
// references export with an empty name, matching the engine's tolerance for
// them. Unparseable dates export as NULL rather than failing the run.
func transactionRows(snapshot domain.Snapshot, exportID, userID string, now time.Time) []*TransactionRow {
	names := make(map[string]string, len(snapshot.Categories))
	for _, cat := range snapshot.Categories {
		names[cat.ID] = cat.Name
	}

	rows := make([]*TransactionRow, 0, len(snapshot.Transactions))
	for _, tx := range snapshot.Transactions {
		row := &TransactionRow{
			ExportID:    exportID,
			UserID:      userID,
			TxID:        tx.ID,
			AccountID:   tx.AccountID,
			CategoryID:  tx.CategoryID,
			Category:    names[tx.CategoryID],
			Amount:      tx.Amount,
			TxType:      string(tx.Type),
			Description: tx.Description,
			Metadata:    bigquery.NullJSON{Valid: false},
			ExportedTS:  now,
		}
		if d, err := civil.ParseDate(tx.Date); err == nil {
			row.TxDate = bigquery.NullDate{Date: d, Valid: true}
		}
		rows = append(rows, row)
	}
	return rows
}

// tableRef renders a fully qualified table name for queries.
func tableRef(projectID, datasetID, tableID string) string {
	return fmt.Sprintf("`%s.%s.%s`", projectID, datasetID, tableID)
}
