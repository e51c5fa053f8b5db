// Command client is a terminal companion for guest mode: it keeps
// transactions and goals in a local file store before sign-in, starts the
// Google login flow, and pushes accumulated data to an account once a
// session token exists.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/shopspring/decimal"

	"github.com/finwiseapp/gin-finance-api/internal/authflow"
	"github.com/finwiseapp/gin-finance-api/internal/config"
	"github.com/finwiseapp/gin-finance-api/internal/guest"
	"github.com/finwiseapp/gin-finance-api/internal/models"
)

func main() {
	apiBase := flag.String("api", config.GetEnvWithDefault("FINWISE_API", "http://localhost:8080/api/v1"), "API base URL")
	storePath := flag.String("store", config.GetEnvWithDefault("GUEST_STORE_PATH", "guest_store.json"), "Path to the guest data file")

	add := flag.String("add", "", "Add a guest expense as 'description:amount:category'")
	list := flag.Bool("list", false, "List guest transactions")
	login := flag.String("login", "", "Start the Google sign-in flow, carrying this guest id")
	migrate := flag.String("migrate", "", "Migrate guest data using this access token")
	clear := flag.Bool("clear", false, "Clear all guest data")
	flag.Parse()

	storage := guest.NewStorage(guest.NewFileStore(*storePath))

	switch {
	case *add != "":
		addTransaction(storage, *add)
	case *list:
		listTransactions(storage)
	case *login != "":
		startLogin(*apiBase, storage, *login)
	case *migrate != "":
		migrateData(*apiBase, storage, *migrate)
	case *clear:
		if err := storage.ClearAllGuestData(); err != nil {
			log.Fatal("Failed to clear guest data:", err)
		}
		fmt.Println("Guest data cleared")
	default:
		flag.Usage()
		os.Exit(2)
	}
}

func addTransaction(storage *guest.Storage, spec string) {
	parts := splitSpec(spec)
	if len(parts) != 3 {
		log.Fatal("Expected 'description:amount:category', got: ", spec)
	}
	amt, err := decimal.NewFromString(parts[1])
	if err != nil || !amt.IsPositive() {
		log.Fatal("Amount must be a positive number, got: ", parts[1])
	}

	txn, err := storage.AddTransaction(models.GuestTransaction{
		Description: parts[0],
		Amount:      amt,
		Type:        models.TransactionExpense,
		Category:    parts[2],
		Date:        time.Now(),
	})
	if err != nil {
		log.Fatal("Failed to store transaction:", err)
	}
	fmt.Printf("Added %s (%s) as %s\n", txn.Description, txn.Amount, txn.LocalID)
}

func splitSpec(spec string) []string {
	var parts []string
	start := 0
	for i := 0; i < len(spec); i++ {
		if spec[i] == ':' {
			parts = append(parts, spec[start:i])
			start = i + 1
		}
	}
	return append(parts, spec[start:])
}

func listTransactions(storage *guest.Storage) {
	txns := storage.GetTransactions()
	if len(txns) == 0 {
		fmt.Println("No guest transactions")
		return
	}
	for _, txn := range txns {
		fmt.Printf("%s  %-20s %10s  %s\n", txn.LocalID, txn.Description, txn.Amount, txn.Category)
	}
	if storage.IsMigrated() {
		fmt.Println("(already migrated to an account)")
	}
}

// noopSessions satisfies the flow's session hook; the CLI only needs the
// authorization URL printed, the browser finishes the login.
type noopSessions struct{}

func (noopSessions) CreateSession(user authflow.UserRecord, credential string) error { return nil }

func startLogin(apiBase string, storage *guest.Storage, guestID string) {
	if !storage.IsMigrated() && len(storage.GetTransactions()) > 0 {
		fmt.Println("Guest data found; it can be migrated after sign-in with -migrate")
	}

	flow := authflow.NewFlow(apiBase, authflow.NewMemoryStorage(), noopSessions{})

	result, err := flow.Initiate(context.Background(), guestID)
	if err != nil {
		log.Fatal("Could not start sign-in: ", err)
	}

	fmt.Println("Open this URL in a browser to sign in:")
	fmt.Println(result.AuthURL)
}

func migrateData(apiBase string, storage *guest.Storage, token string) {
	if storage.IsMigrated() {
		fmt.Println("Guest data was already migrated")
		return
	}

	data := storage.GetAllGuestData()
	if len(data.Transactions) == 0 && len(data.Goals) == 0 {
		fmt.Println("Nothing to migrate")
		return
	}

	body, err := json.Marshal(data)
	if err != nil {
		log.Fatal("Failed to encode guest data:", err)
	}

	req, err := http.NewRequest(http.MethodPost, apiBase+"/auth/migrate", bytes.NewReader(body))
	if err != nil {
		log.Fatal(err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := (&http.Client{Timeout: 30 * time.Second}).Do(req)
	if err != nil {
		log.Fatal("Migration request failed:", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		log.Fatalf("Migration rejected with status %d; guest data kept", resp.StatusCode)
	}

	var result models.MigrationResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		log.Fatal("Unexpected migration response:", err)
	}

	if err := storage.SetMigrated(true); err != nil {
		log.Fatal("Migrated but could not record the flag:", err)
	}
	if err := storage.ClearAllGuestData(); err != nil {
		log.Fatal("Migrated but could not clear local data:", err)
	}

	fmt.Printf("Migrated %d transactions and %d goals\n", result.TransactionsMigrated, result.GoalsMigrated)
}
