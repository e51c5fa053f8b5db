package guest

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/finwiseapp/gin-finance-api/internal/models"
)

// Guest-scoped storage keys, each holding a JSON document
const (
	transactionsKey = "guest_transactions"
	goalsKey        = "guest_goals"
	migratedKey     = "guest_data_migrated"
)

// KVStore is the durable key/value persistence guest data lives in. In the
// browser app this is localStorage; server-side embeddings use the
// file-backed implementation.
type KVStore interface {
	Get(key string) (string, bool)
	Set(key, value string) error
	Delete(key string) error
}

// Storage accumulates a guest's financial records before authentication
// and hands them over for a one-time migration into an account.
//
// Reads are tolerant: corrupt or missing underlying data yields an empty
// collection and a log line, never an error. Exactly-once migration is the
// caller's responsibility; Storage only exposes the flag.
type Storage struct {
	mu     sync.Mutex
	kv     KVStore
	lastID int64
	now    func() time.Time
}

// NewStorage wraps a KVStore with the guest-data access layer
func NewStorage(kv KVStore) *Storage {
	return &Storage{kv: kv, now: time.Now}
}

// GetTransactions returns the guest transaction collection. Corrupt data
// is treated as empty.
func (s *Storage) GetTransactions() []models.GuestTransaction {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.readTransactions()
}

// SetTransactions replaces the whole guest transaction collection
func (s *Storage) SetTransactions(txns []models.GuestTransaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writeJSON(transactionsKey, txns)
}

// AddTransaction appends a transaction, assigning a fresh local identifier
func (s *Storage) AddTransaction(txn models.GuestTransaction) (models.GuestTransaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	txn.LocalID = s.nextID("guest_txn")
	txns := append(s.readTransactions(), txn)
	if err := s.writeJSON(transactionsKey, txns); err != nil {
		return models.GuestTransaction{}, err
	}
	return txn, nil
}

// UpdateTransaction replaces the transaction with the given local id.
// Unknown identifiers leave the collection unchanged.
func (s *Storage) UpdateTransaction(localID string, txn models.GuestTransaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	txns := s.readTransactions()
	for i := range txns {
		if txns[i].LocalID == localID {
			txn.LocalID = localID
			txns[i] = txn
			return s.writeJSON(transactionsKey, txns)
		}
	}
	return nil
}

// DeleteTransaction removes the transaction with the given local id.
// Unknown identifiers leave the collection unchanged.
func (s *Storage) DeleteTransaction(localID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	txns := s.readTransactions()
	for i := range txns {
		if txns[i].LocalID == localID {
			txns = append(txns[:i], txns[i+1:]...)
			return s.writeJSON(transactionsKey, txns)
		}
	}
	return nil
}

// GetGoals returns the guest goal collection. Corrupt data is treated as empty.
func (s *Storage) GetGoals() []models.GuestGoal {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.readGoals()
}

// SetGoals replaces the whole guest goal collection
func (s *Storage) SetGoals(goals []models.GuestGoal) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writeJSON(goalsKey, goals)
}

// AddGoal appends a goal, assigning a fresh local identifier
func (s *Storage) AddGoal(goal models.GuestGoal) (models.GuestGoal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	goal.LocalID = s.nextID("guest_goal")
	goals := append(s.readGoals(), goal)
	if err := s.writeJSON(goalsKey, goals); err != nil {
		return models.GuestGoal{}, err
	}
	return goal, nil
}

// UpdateGoal replaces the goal with the given local id; no-op when absent
func (s *Storage) UpdateGoal(localID string, goal models.GuestGoal) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	goals := s.readGoals()
	for i := range goals {
		if goals[i].LocalID == localID {
			goal.LocalID = localID
			goals[i] = goal
			return s.writeJSON(goalsKey, goals)
		}
	}
	return nil
}

// DeleteGoal removes the goal with the given local id; no-op when absent
func (s *Storage) DeleteGoal(localID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	goals := s.readGoals()
	for i := range goals {
		if goals[i].LocalID == localID {
			goals = append(goals[:i], goals[i+1:]...)
			return s.writeJSON(goalsKey, goals)
		}
	}
	return nil
}

// IsMigrated reports whether guest data was already merged into an account
func (s *Storage) IsMigrated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, ok := s.kv.Get(migratedKey)
	if !ok {
		return false
	}
	var migrated bool
	if err := json.Unmarshal([]byte(raw), &migrated); err != nil {
		log.WithError(err).Warn("Corrupt guest migration flag, treating as not migrated")
		return false
	}
	return migrated
}

// SetMigrated records whether guest data has been merged
func (s *Storage) SetMigrated(migrated bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writeJSON(migratedKey, migrated)
}

// GetAllGuestData returns both collections for one-shot transfer
func (s *Storage) GetAllGuestData() models.GuestData {
	s.mu.Lock()
	defer s.mu.Unlock()
	return models.GuestData{
		Transactions: s.readTransactions(),
		Goals:        s.readGoals(),
	}
}

// ClearAllGuestData removes every guest-scoped key. Called after the
// server confirms the migration succeeded.
func (s *Storage) ClearAllGuestData() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, key := range []string{transactionsKey, goalsKey, migratedKey} {
		if err := s.kv.Delete(key); err != nil {
			return fmt.Errorf("failed to clear %s: %w", key, err)
		}
	}
	return nil
}

func (s *Storage) readTransactions() []models.GuestTransaction {
	raw, ok := s.kv.Get(transactionsKey)
	if !ok {
		return []models.GuestTransaction{}
	}
	var txns []models.GuestTransaction
	if err := json.Unmarshal([]byte(raw), &txns); err != nil {
		log.WithError(err).Warn("Corrupt guest transactions, returning empty collection")
		return []models.GuestTransaction{}
	}
	return txns
}

func (s *Storage) readGoals() []models.GuestGoal {
	raw, ok := s.kv.Get(goalsKey)
	if !ok {
		return []models.GuestGoal{}
	}
	var goals []models.GuestGoal
	if err := json.Unmarshal([]byte(raw), &goals); err != nil {
		log.WithError(err).Warn("Corrupt guest goals, returning empty collection")
		return []models.GuestGoal{}
	}
	return goals
}

func (s *Storage) writeJSON(key string, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return s.kv.Set(key, string(data))
}

// nextID derives a local identifier from the clock, bumped when two ids
// land in the same millisecond so identifiers stay unique per session.
func (s *Storage) nextID(prefix string) string {
	millis := s.now().UnixMilli()
	if millis <= s.lastID {
		millis = s.lastID + 1
	}
	s.lastID = millis
	return fmt.Sprintf("%s_%d", prefix, millis)
}
