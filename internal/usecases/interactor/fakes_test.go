package interactor

import (
	"context"
	"sync"
	"time"

	"github.com/partycurrency/payment-service/internal/domain/models"
	"github.com/partycurrency/payment-service/internal/domain/repositories"
	apperrors "github.com/partycurrency/payment-service/internal/errors"
	"github.com/partycurrency/payment-service/internal/infrastructure/monnify"
	"github.com/shopspring/decimal"
)

// fakeStore holds transactions and events behind one mutex so the settle
// fake can mirror outcomes onto events the way the database CTE does.
type fakeStore struct {
	mu           sync.Mutex
	transactions map[string]*models.Transaction
	events       map[string]*models.Event
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		transactions: make(map[string]*models.Transaction),
		events:       make(map[string]*models.Event),
	}
}

type fakeTransactionRepo struct {
	store *fakeStore
}

func (r *fakeTransactionRepo) Insert(_ context.Context, transaction *models.Transaction) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if _, exists := r.store.transactions[transaction.PaymentReference]; exists {
		return apperrors.NewValidationError("payment reference already exists")
	}
	clone := *transaction
	r.store.transactions[transaction.PaymentReference] = &clone
	return nil
}

func (r *fakeTransactionRepo) GetByReference(_ context.Context, reference string) (*models.Transaction, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if tx, ok := r.store.transactions[reference]; ok {
		clone := *tx
		return &clone, nil
	}
	for _, tx := range r.store.transactions {
		if tx.TransactionReference != "" && tx.TransactionReference == reference {
			clone := *tx
			return &clone, nil
		}
	}
	return nil, apperrors.NewNotFoundError("transaction")
}

func (r *fakeTransactionRepo) AdvanceStatus(_ context.Context, paymentReference string, from, to models.Status, transactionReference string) (bool, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	tx, ok := r.store.transactions[paymentReference]
	if !ok || tx.Status != from {
		return false, nil
	}
	tx.Status = to
	if transactionReference != "" {
		tx.TransactionReference = transactionReference
	}
	return true, nil
}

func (r *fakeTransactionRepo) SettleWithEvent(_ context.Context, paymentReference string, to models.Status, transactionReference string) (repositories.SettleRow, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	tx, ok := r.store.transactions[paymentReference]
	if !ok || tx.Status.Terminal() {
		return repositories.SettleRow{Settled: false}, nil
	}
	tx.Status = to
	if transactionReference != "" {
		tx.TransactionReference = transactionReference
	}
	if event, ok := r.store.events[tx.EventID]; ok {
		event.PaymentStatus = to
		if to == models.StatusSuccessful {
			event.TransactionID = tx.PaymentReference
		}
	}
	return repositories.SettleRow{
		Settled:          true,
		PaymentReference: tx.PaymentReference,
		EventID:          tx.EventID,
		CustomerEmail:    tx.CustomerEmail,
		Amount:           tx.Amount,
	}, nil
}

func (r *fakeTransactionRepo) ListStalePending(_ context.Context, _ time.Duration, limit int) ([]models.Transaction, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	stale := make([]models.Transaction, 0)
	for _, tx := range r.store.transactions {
		if tx.Status == models.StatusPending && len(stale) < limit {
			stale = append(stale, *tx)
		}
	}
	return stale, nil
}

type fakeEventRepo struct {
	store *fakeStore
}

func (r *fakeEventRepo) Insert(_ context.Context, event *models.Event) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	clone := *event
	r.store.events[event.EventID] = &clone
	return nil
}

func (r *fakeEventRepo) GetByID(_ context.Context, id string) (*models.Event, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if event, ok := r.store.events[id]; ok {
		clone := *event
		return &clone, nil
	}
	return nil, apperrors.NewNotFoundError("event")
}

func (r *fakeEventRepo) ListByAuthor(_ context.Context, author string) ([]models.Event, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	events := make([]models.Event, 0)
	for _, event := range r.store.events {
		if event.EventAuthor == author {
			events = append(events, *event)
		}
	}
	return events, nil
}

func (r *fakeEventRepo) MarkReservedAccount(_ context.Context, id string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	event, ok := r.store.events[id]
	if !ok {
		return apperrors.NewNotFoundError("event")
	}
	event.HasReservedAccount = true
	return nil
}

type fakeUserRepo struct {
	mu         sync.Mutex
	users      map[string]*models.User
	spendCalls int
	totalSpent decimal.Decimal
	spendErr   error
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]*models.User)}
}

func (r *fakeUserRepo) Insert(_ context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.users[user.Email]; exists {
		return apperrors.NewValidationError("email already registered")
	}
	clone := *user
	r.users[user.Email] = &clone
	return nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if user, ok := r.users[email]; ok {
		clone := *user
		return &clone, nil
	}
	return nil, apperrors.NewNotFoundError("user")
}

func (r *fakeUserRepo) AddSpend(_ context.Context, _ string, amount decimal.Decimal) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.spendErr != nil {
		return r.spendErr
	}
	r.spendCalls++
	r.totalSpent = r.totalSpent.Add(amount)
	return nil
}

type fakeProvider struct {
	mu          sync.Mutex
	initResult  *monnify.InitTransactionResult
	initErr     error
	queryResult *monnify.QueryResult
	queryErr    error
	queryCalls  int
}

func (p *fakeProvider) InitTransaction(_ context.Context, tx *models.Transaction, _ string, _ []string) (*monnify.InitTransactionResult, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.initErr != nil {
		return nil, p.initErr
	}
	result := *p.initResult
	result.PaymentReference = tx.PaymentReference
	return &result, nil
}

func (p *fakeProvider) QueryTransactionStatus(_ context.Context, paymentReference string) (*monnify.QueryResult, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.queryCalls++
	if p.queryErr != nil {
		return nil, p.queryErr
	}
	result := *p.queryResult
	result.PaymentReference = paymentReference
	return &result, nil
}
