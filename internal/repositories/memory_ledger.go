package repositories

import (
	"context"
	"sort"
	"sync"
	"time"

	"skillhub/internal/models"
)

// MemoryLedger is an in-memory LedgerRepository. It mirrors the error
// semantics of the database-backed implementation, including the guarded
// debit and the transactional rollback, and is safe for concurrent use.
// It backs the service tests and can drive local development without a
// database.
type MemoryLedger struct {
	mu     *sync.Mutex
	noLock bool
	s      *memoryState
}

type memoryState struct {
	users        map[uint]*models.User
	wallets      map[uint]*models.Wallet
	gifts        map[string]*models.GiftTransaction
	balances     map[uint]*models.RewardsBalance
	history      []models.RewardsHistoryEntry
	nextWalletID uint
	nextGiftID   uint
	nextEntryID  uint
}

func NewMemoryLedger() *MemoryLedger {
	return &MemoryLedger{
		mu: &sync.Mutex{},
		s: &memoryState{
			users:        make(map[uint]*models.User),
			wallets:      make(map[uint]*models.Wallet),
			gifts:        make(map[string]*models.GiftTransaction),
			balances:     make(map[uint]*models.RewardsBalance),
			nextWalletID: 1,
			nextGiftID:   1,
			nextEntryID:  1,
		},
	}
}

func (l *MemoryLedger) lock() {
	if !l.noLock {
		l.mu.Lock()
	}
}

func (l *MemoryLedger) unlock() {
	if !l.noLock {
		l.mu.Unlock()
	}
}

// AddUser registers a user so the gift and rewards flows can resolve it.
func (l *MemoryLedger) AddUser(user *models.User) {
	l.lock()
	defer l.unlock()
	u := *user
	l.s.users[u.ID] = &u
}

func (l *MemoryLedger) GetUserByID(id uint) (*models.User, error) {
	l.lock()
	defer l.unlock()
	user, ok := l.s.users[id]
	if !ok {
		return nil, ErrUserNotFound
	}
	u := *user
	return &u, nil
}

func (l *MemoryLedger) GetUserByEmail(email string) (*models.User, error) {
	l.lock()
	defer l.unlock()
	for _, user := range l.s.users {
		if user.Email == email {
			u := *user
			return &u, nil
		}
	}
	return nil, ErrUserNotFound
}

func (l *MemoryLedger) CreateWallet(wallet *models.Wallet) error {
	l.lock()
	defer l.unlock()
	for _, w := range l.s.wallets {
		if w.UserID == wallet.UserID {
			return ErrDuplicateWallet
		}
	}
	if wallet.ID == 0 {
		wallet.ID = l.s.nextWalletID
		l.s.nextWalletID++
	} else if wallet.ID >= l.s.nextWalletID {
		l.s.nextWalletID = wallet.ID + 1
	}
	if wallet.CreatedAt.IsZero() {
		wallet.CreatedAt = time.Now()
	}
	w := *wallet
	l.s.wallets[w.ID] = &w
	return nil
}

func (l *MemoryLedger) GetWalletByID(id uint) (*models.Wallet, error) {
	l.lock()
	defer l.unlock()
	wallet, ok := l.s.wallets[id]
	if !ok {
		return nil, ErrWalletNotFound
	}
	w := *wallet
	return &w, nil
}

func (l *MemoryLedger) GetWalletByUserID(userID uint) (*models.Wallet, error) {
	l.lock()
	defer l.unlock()
	for _, wallet := range l.s.wallets {
		if wallet.UserID == userID {
			w := *wallet
			return &w, nil
		}
	}
	return nil, ErrWalletNotFound
}

func (l *MemoryLedger) UpdateWallet(wallet *models.Wallet) error {
	l.lock()
	defer l.unlock()
	if _, ok := l.s.wallets[wallet.ID]; !ok {
		return ErrWalletNotFound
	}
	w := *wallet
	w.UpdatedAt = time.Now()
	l.s.wallets[w.ID] = &w
	return nil
}

func (l *MemoryLedger) CreditWallet(walletID uint, amount int64) error {
	l.lock()
	defer l.unlock()
	wallet, ok := l.s.wallets[walletID]
	if !ok {
		return ErrWalletNotFound
	}
	wallet.Balance += amount
	return nil
}

func (l *MemoryLedger) DebitWallet(walletID uint, amount int64) error {
	l.lock()
	defer l.unlock()
	wallet, ok := l.s.wallets[walletID]
	if !ok {
		return ErrWalletNotFound
	}
	if wallet.Balance < amount {
		return ErrInsufficientBalance
	}
	wallet.Balance -= amount
	return nil
}

func (l *MemoryLedger) CreateGift(gift *models.GiftTransaction) error {
	l.lock()
	defer l.unlock()
	if gift.ID == 0 {
		gift.ID = l.s.nextGiftID
		l.s.nextGiftID++
	}
	if gift.CreatedAt.IsZero() {
		gift.CreatedAt = time.Now()
	}
	g := *gift
	l.s.gifts[g.TransactionID] = &g
	return nil
}

func (l *MemoryLedger) GetGiftByTransactionID(transactionID string) (*models.GiftTransaction, error) {
	l.lock()
	defer l.unlock()
	gift, ok := l.s.gifts[transactionID]
	if !ok {
		return nil, ErrGiftNotFound
	}
	g := *gift
	return &g, nil
}

func (l *MemoryLedger) UpdateGift(gift *models.GiftTransaction) error {
	l.lock()
	defer l.unlock()
	if _, ok := l.s.gifts[gift.TransactionID]; !ok {
		return ErrGiftNotFound
	}
	g := *gift
	g.UpdatedAt = time.Now()
	l.s.gifts[g.TransactionID] = &g
	return nil
}

func (l *MemoryLedger) MarkGiftCancelled(transactionID string, cancelledBy uint) error {
	l.lock()
	defer l.unlock()
	gift, ok := l.s.gifts[transactionID]
	if !ok {
		return ErrGiftNotFound
	}
	if gift.Status != models.GiftStatusCompleted {
		return ErrGiftStatusConflict
	}
	now := time.Now()
	gift.Status = models.GiftStatusCancelled
	gift.CancelledAt = &now
	gift.CancelledBy = &cancelledBy
	gift.UpdatedAt = now
	return nil
}

func (l *MemoryLedger) ListGiftsBySender(ctx context.Context, userID uint, limit, offset int) ([]models.GiftTransaction, error) {
	return l.listGifts(func(g *models.GiftTransaction) bool {
		return g.SenderID == userID
	}, limit, offset)
}

func (l *MemoryLedger) ListGiftsByRecipient(ctx context.Context, userID uint, limit, offset int) ([]models.GiftTransaction, error) {
	return l.listGifts(func(g *models.GiftTransaction) bool {
		return g.RecipientID == userID
	}, limit, offset)
}

func (l *MemoryLedger) ListGiftsByUser(ctx context.Context, userID uint, limit, offset int) ([]models.GiftTransaction, error) {
	return l.listGifts(func(g *models.GiftTransaction) bool {
		return g.SenderID == userID || g.RecipientID == userID
	}, limit, offset)
}

func (l *MemoryLedger) listGifts(match func(*models.GiftTransaction) bool, limit, offset int) ([]models.GiftTransaction, error) {
	l.lock()
	defer l.unlock()
	var gifts []models.GiftTransaction
	for _, gift := range l.s.gifts {
		if match(gift) {
			gifts = append(gifts, *gift)
		}
	}
	sort.Slice(gifts, func(i, j int) bool {
		return gifts[i].CreatedAt.After(gifts[j].CreatedAt)
	})
	return paginate(gifts, limit, offset), nil
}

func (l *MemoryLedger) GetRewardsBalance(userID uint) (*models.RewardsBalance, error) {
	l.lock()
	defer l.unlock()
	balance, ok := l.s.balances[userID]
	if !ok {
		return nil, ErrBalanceNotFound
	}
	b := *balance
	return &b, nil
}

func (l *MemoryLedger) AddPoints(userID uint, points int64) (*models.RewardsBalance, error) {
	l.lock()
	defer l.unlock()
	balance, ok := l.s.balances[userID]
	if !ok {
		balance = &models.RewardsBalance{
			ID:        uint(len(l.s.balances) + 1),
			UserID:    userID,
			CreatedAt: time.Now(),
		}
		l.s.balances[userID] = balance
	}
	balance.Points += points
	balance.UpdatedAt = time.Now()
	b := *balance
	return &b, nil
}

func (l *MemoryLedger) SpendPoints(userID uint, points int64) (*models.RewardsBalance, error) {
	l.lock()
	defer l.unlock()
	balance, ok := l.s.balances[userID]
	if !ok {
		return nil, ErrBalanceNotFound
	}
	if balance.Points < points {
		return nil, ErrInsufficientPoints
	}
	balance.Points -= points
	balance.Redeemed += points
	balance.UpdatedAt = time.Now()
	b := *balance
	return &b, nil
}

func (l *MemoryLedger) CreateHistoryEntry(entry *models.RewardsHistoryEntry) error {
	l.lock()
	defer l.unlock()
	if entry.ID == 0 {
		entry.ID = l.s.nextEntryID
		l.s.nextEntryID++
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}
	l.s.history = append(l.s.history, *entry)
	return nil
}

func (l *MemoryLedger) ListHistory(ctx context.Context, userID uint, limit, offset int) ([]models.RewardsHistoryEntry, error) {
	l.lock()
	defer l.unlock()
	var entries []models.RewardsHistoryEntry
	for _, entry := range l.s.history {
		if entry.UserID == userID {
			entries = append(entries, entry)
		}
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].CreatedAt.After(entries[j].CreatedAt)
	})
	return paginate(entries, limit, offset), nil
}

func (l *MemoryLedger) ManualPointsEarnedSince(ctx context.Context, userID uint, since time.Time) (int64, error) {
	l.lock()
	defer l.unlock()
	var total int64
	for _, entry := range l.s.history {
		if entry.UserID == userID &&
			entry.Type == models.RewardsTypeEarned &&
			entry.Source == models.RewardsSourceManual &&
			!entry.CreatedAt.Before(since) {
			total += entry.Points
		}
	}
	return total, nil
}

// ExecuteInTransaction holds the ledger lock for the whole callback and
// restores a snapshot of the state if fn fails, so partial writes never
// become visible.
func (l *MemoryLedger) ExecuteInTransaction(fn func(LedgerRepository) error) error {
	l.lock()
	defer l.unlock()
	snapshot := l.s.clone()
	tx := &MemoryLedger{mu: l.mu, noLock: true, s: l.s}
	if err := fn(tx); err != nil {
		*l.s = *snapshot
		return err
	}
	return nil
}

func (s *memoryState) clone() *memoryState {
	c := &memoryState{
		users:        make(map[uint]*models.User, len(s.users)),
		wallets:      make(map[uint]*models.Wallet, len(s.wallets)),
		gifts:        make(map[string]*models.GiftTransaction, len(s.gifts)),
		balances:     make(map[uint]*models.RewardsBalance, len(s.balances)),
		history:      append([]models.RewardsHistoryEntry(nil), s.history...),
		nextWalletID: s.nextWalletID,
		nextGiftID:   s.nextGiftID,
		nextEntryID:  s.nextEntryID,
	}
	for id, u := range s.users {
		copied := *u
		c.users[id] = &copied
	}
	for id, w := range s.wallets {
		copied := *w
		c.wallets[id] = &copied
	}
	for id, g := range s.gifts {
		copied := *g
		c.gifts[id] = &copied
	}
	for id, b := range s.balances {
		copied := *b
		c.balances[id] = &copied
	}
	return c
}

func paginate[T any](items []T, limit, offset int) []T {
	if offset >= len(items) {
		return nil
	}
	items = items[offset:]
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}
