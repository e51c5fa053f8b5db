package guest

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finwiseapp/gin-finance-api/internal/models"
)

func sampleTransaction(desc string) models.GuestTransaction {
	return models.GuestTransaction{
		Description: desc,
		Amount:      decimal.NewFromFloat(12.50),
		Type:        models.TransactionExpense,
		Category:    "Food",
		Date:        time.Now(),
	}
}

func TestTransactionsRoundTrip(t *testing.T) {
	storage := NewStorage(NewMemoryKV())

	txns := []models.GuestTransaction{
		{LocalID: "a", Description: "coffee", Amount: decimal.NewFromInt(3), Type: models.TransactionExpense, Category: "Food"},
		{LocalID: "b", Description: "salary", Amount: decimal.NewFromInt(5000), Type: models.TransactionIncome, Category: "Salary"},
	}
	require.NoError(t, storage.SetTransactions(txns))

	got := storage.GetTransactions()
	require.Len(t, got, 2)
	assert.Equal(t, "coffee", got[0].Description)
	assert.True(t, got[1].Amount.Equal(decimal.NewFromInt(5000)))
}

func TestGetTransactionsCorruptDataReturnsEmpty(t *testing.T) {
	kv := NewMemoryKV()
	require.NoError(t, kv.Set("guest_transactions", "{not json"))

	storage := NewStorage(kv)
	assert.Empty(t, storage.GetTransactions())
}

func TestGetGoalsMissingDataReturnsEmpty(t *testing.T) {
	storage := NewStorage(NewMemoryKV())
	assert.Empty(t, storage.GetGoals())
}

func TestAddTransactionAssignsDistinctIDs(t *testing.T) {
	storage := NewStorage(NewMemoryKV())

	seen := make(map[string]bool)
	for i := 0; i < 10; i++ {
		txn, err := storage.AddTransaction(sampleTransaction("t"))
		require.NoError(t, err)
		require.NotEmpty(t, txn.LocalID)
		assert.False(t, seen[txn.LocalID], "identifier %q reused", txn.LocalID)
		seen[txn.LocalID] = true
	}
	assert.Len(t, storage.GetTransactions(), 10)
}

func TestUpdateTransactionUnknownIDIsNoop(t *testing.T) {
	storage := NewStorage(NewMemoryKV())
	added, err := storage.AddTransaction(sampleTransaction("lunch"))
	require.NoError(t, err)

	require.NoError(t, storage.UpdateTransaction("missing", sampleTransaction("changed")))

	got := storage.GetTransactions()
	require.Len(t, got, 1)
	assert.Equal(t, "lunch", got[0].Description)
	assert.Equal(t, added.LocalID, got[0].LocalID)
}

func TestUpdateTransactionReplacesRecord(t *testing.T) {
	storage := NewStorage(NewMemoryKV())
	added, err := storage.AddTransaction(sampleTransaction("lunch"))
	require.NoError(t, err)

	updated := sampleTransaction("dinner")
	require.NoError(t, storage.UpdateTransaction(added.LocalID, updated))

	got := storage.GetTransactions()
	require.Len(t, got, 1)
	assert.Equal(t, "dinner", got[0].Description)
	// Identifier survives the update
	assert.Equal(t, added.LocalID, got[0].LocalID)
}

func TestDeleteTransaction(t *testing.T) {
	storage := NewStorage(NewMemoryKV())
	a, _ := storage.AddTransaction(sampleTransaction("a"))
	b, _ := storage.AddTransaction(sampleTransaction("b"))

	require.NoError(t, storage.DeleteTransaction(a.LocalID))
	require.NoError(t, storage.DeleteTransaction("missing"))

	got := storage.GetTransactions()
	require.Len(t, got, 1)
	assert.Equal(t, b.LocalID, got[0].LocalID)
}

func TestGoalLifecycle(t *testing.T) {
	storage := NewStorage(NewMemoryKV())

	goal, err := storage.AddGoal(models.GuestGoal{
		Name:         "Emergency fund",
		Category:     "Emergency",
		TargetAmount: decimal.NewFromInt(10000),
	})
	require.NoError(t, err)
	require.NotEmpty(t, goal.LocalID)

	goal.Name = "Rainy day fund"
	require.NoError(t, storage.UpdateGoal(goal.LocalID, goal))

	got := storage.GetGoals()
	require.Len(t, got, 1)
	assert.Equal(t, "Rainy day fund", got[0].Name)

	require.NoError(t, storage.DeleteGoal(goal.LocalID))
	assert.Empty(t, storage.GetGoals())
}

func TestMigrationFlag(t *testing.T) {
	storage := NewStorage(NewMemoryKV())

	assert.False(t, storage.IsMigrated())
	require.NoError(t, storage.SetMigrated(true))
	assert.True(t, storage.IsMigrated())
}

func TestGetAllGuestDataAndClear(t *testing.T) {
	storage := NewStorage(NewMemoryKV())
	_, err := storage.AddTransaction(sampleTransaction("t"))
	require.NoError(t, err)
	_, err = storage.AddGoal(models.GuestGoal{Name: "g", Category: "Other"})
	require.NoError(t, err)
	require.NoError(t, storage.SetMigrated(true))

	data := storage.GetAllGuestData()
	assert.Len(t, data.Transactions, 1)
	assert.Len(t, data.Goals, 1)

	require.NoError(t, storage.ClearAllGuestData())
	assert.Empty(t, storage.GetTransactions())
	assert.Empty(t, storage.GetGoals())
	assert.False(t, storage.IsMigrated())
}

func TestFileStorePersistsAcrossInstances(t *testing.T) {
	path := filepath.Join(t.TempDir(), "guest.json")

	first := NewStorage(NewFileStore(path))
	added, err := first.AddTransaction(sampleTransaction("persisted"))
	require.NoError(t, err)

	second := NewStorage(NewFileStore(path))
	got := second.GetTransactions()
	require.Len(t, got, 1)
	assert.Equal(t, added.LocalID, got[0].LocalID)
}

func TestFileStoreCorruptFileStartsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "guest.json")
	require.NoError(t, os.WriteFile(path, []byte("{broken"), 0o600))

	storage := NewStorage(NewFileStore(path))
	assert.Empty(t, storage.GetTransactions())
}
