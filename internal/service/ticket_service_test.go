package service

import (
	"context"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/taller-manrubia/workshop-service/internal/billing"
	"github.com/taller-manrubia/workshop-service/internal/domain"
	"github.com/taller-manrubia/workshop-service/internal/events"
	"github.com/taller-manrubia/workshop-service/internal/notify"
	apperrors "github.com/taller-manrubia/workshop-service/pkg/util"
)

func setup(t *testing.T) (*TicketService, *mockTicketRepo, *mockCustomerRepo, *mockDispatcher, *DirectoryService) {
	t.Helper()
	ticketRepo := newMockTicketRepo()
	customerRepo := newMockCustomerRepo()
	dispatcher := &mockDispatcher{}
	directory := NewDirectoryService(customerRepo, nil, 0, zap.NewNop())
	composer := notify.NewComposer("Bicicletas Manrubia", "964 667 035", notify.LinkModeDirect)

	svc := NewTicketService(TicketDependencies{
		TicketRepo: ticketRepo,
		Directory:  directory,
		Composer:   composer,
		Dispatcher: dispatcher,
		Logger:     zap.NewNop(),
	})
	return svc, ticketRepo, customerRepo, dispatcher, directory
}

func taskWork(texts ...string) domain.WorkDescription {
	work := domain.WorkDescription{Mode: domain.WorkTaskList}
	for _, text := range texts {
		work.Tasks = domain.AddTask(work.Tasks, text)
	}
	return work
}

func TestCreateValidation(t *testing.T) {
	svc, ticketRepo, customerRepo, _, _ := setup(t)
	ctx := context.Background()

	cases := []TicketCreateInput{
		{Name: "", Phone: "600112233", Work: taskWork("frenos")},
		{Name: "Ana", Phone: "", Work: taskWork("frenos")},
		{Name: "Ana", Phone: "600112233", Work: domain.WorkDescription{Mode: domain.WorkTaskList}},
		{Name: "Ana", Phone: "600112233", Work: domain.WorkDescription{Mode: domain.WorkFreeText, Text: "  "}},
	}
	for i, input := range cases {
		_, err := svc.Create(ctx, input)
		require.Error(t, err, "case %d", i)
		assert.Equal(t, "VALIDATION_FAILED", apperrors.ToDomainError(err).Code, "case %d", i)
	}

	assert.Zero(t, ticketRepo.createCalls, "validation failures must not reach the store")
	assert.Zero(t, customerRepo.insertCalls)
}

func TestCreateInsertsTicketAndDirectoryEntry(t *testing.T) {
	svc, _, customerRepo, dispatcher, _ := setup(t)
	ctx := context.Background()

	ticket, err := svc.Create(ctx, TicketCreateInput{Name: "Ana", Phone: "600 11 22 33", Work: taskWork("Cambiar frenos")})
	require.NoError(t, err)
	assert.NotEmpty(t, ticket.ID)
	assert.Equal(t, domain.TicketStatusInProgress, ticket.Status)
	assert.Nil(t, ticket.FinishedAt)
	assert.Nil(t, ticket.Billing)

	require.Len(t, customerRepo.records, 1)
	assert.Equal(t, "Ana", customerRepo.records[0].Name)
	assert.Equal(t, "600112233", customerRepo.records[0].PhoneNormalized)

	require.Len(t, dispatcher.published, 1)
	assert.Equal(t, events.EventTicketCreated, dispatcher.published[0].Type)
}

func TestCreateDeduplicatesDirectoryByNormalizedPhone(t *testing.T) {
	svc, _, customerRepo, _, _ := setup(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, TicketCreateInput{Name: "Ana", Phone: "600 11 22 33", Work: taskWork("frenos")})
	require.NoError(t, err)
	_, err = svc.Create(ctx, TicketCreateInput{Name: "Ana García", Phone: "+34600112233", Work: taskWork("cadena")})
	require.NoError(t, err)

	require.Len(t, customerRepo.records, 1)
	// first association wins, later spellings never correct it
	assert.Equal(t, "Ana", customerRepo.records[0].Name)
}

func TestFinishFlat(t *testing.T) {
	svc, _, _, dispatcher, _ := setup(t)
	ctx := context.Background()

	ticket, err := svc.Create(ctx, TicketCreateInput{Name: "Ana", Phone: "600112233", Work: taskWork("frenos")})
	require.NoError(t, err)
	dispatcher.published = nil

	finished, message, err := svc.Finish(ctx, ticket.ID, billing.Input{Mode: billing.ModeFlat, Price: "25.5"})
	require.NoError(t, err)

	assert.Equal(t, domain.TicketStatusFinished, finished.Status)
	require.NotNil(t, finished.FinishedAt)
	require.NotNil(t, finished.Billing)
	assert.Equal(t, 25.5, finished.Billing.Total)
	assert.Nil(t, finished.Billing.Breakdown)

	require.NotNil(t, message)
	assert.Contains(t, message.Text, "25.5€")
	assert.Contains(t, message.Text, "964 667 035")
	assert.True(t, strings.HasPrefix(message.DeepLink, "https://wa.me/34600112233?text="))

	require.Len(t, dispatcher.published, 1)
	assert.Equal(t, events.EventTicketFinished, dispatcher.published[0].Type)
	payload, ok := dispatcher.published[0].Payload.(events.TicketFinishedPayload)
	require.True(t, ok)
	assert.Equal(t, message.DeepLink, payload.DeepLink)
}

func TestFinishItemized(t *testing.T) {
	svc, _, _, _, _ := setup(t)
	ctx := context.Background()

	ticket, err := svc.Create(ctx, TicketCreateInput{Name: "Ana", Phone: "600112233", Work: taskWork("frenos")})
	require.NoError(t, err)

	finished, message, err := svc.Finish(ctx, ticket.ID, billing.Input{Mode: billing.ModeItemized, Items: []billing.ItemInput{
		{Label: "Brakes", Amount: "10"},
		{Label: "", Amount: ""},
		{Label: "Tires", Amount: "15.5"},
	}})
	require.NoError(t, err)

	assert.Equal(t, 25.5, finished.Billing.Total)
	require.Len(t, finished.Billing.Breakdown, 2)
	assert.Contains(t, message.Text, "- Brakes: 10€")
	assert.Contains(t, message.Text, "*Total: 25.5€*")
}

func TestFinishAlreadyFinishedRejected(t *testing.T) {
	svc, _, _, _, _ := setup(t)
	ctx := context.Background()

	ticket, err := svc.Create(ctx, TicketCreateInput{Name: "Ana", Phone: "600112233", Work: taskWork("frenos")})
	require.NoError(t, err)

	_, _, err = svc.Finish(ctx, ticket.ID, billing.Input{Mode: billing.ModeFlat, Price: "20"})
	require.NoError(t, err)

	_, _, err = svc.Finish(ctx, ticket.ID, billing.Input{Mode: billing.ModeFlat, Price: "20"})
	require.Error(t, err)
	assert.Equal(t, "CONFLICT", apperrors.ToDomainError(err).Code)
}

func TestFinishWithoutValidBillingLeavesTicketInProgress(t *testing.T) {
	svc, ticketRepo, _, _, _ := setup(t)
	ctx := context.Background()

	ticket, err := svc.Create(ctx, TicketCreateInput{Name: "Ana", Phone: "600112233", Work: taskWork("frenos")})
	require.NoError(t, err)

	_, _, err = svc.Finish(ctx, ticket.ID, billing.Input{Mode: billing.ModeFlat, Price: ""})
	require.Error(t, err)
	assert.Equal(t, "VALIDATION_FAILED", apperrors.ToDomainError(err).Code)

	stored, err := ticketRepo.GetByID(ctx, ticket.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.TicketStatusInProgress, stored.Status)
	assert.Nil(t, stored.Billing)
}

func TestToggleStoredTask(t *testing.T) {
	svc, _, _, _, _ := setup(t)
	ctx := context.Background()

	ticket, err := svc.Create(ctx, TicketCreateInput{Name: "Ana", Phone: "600112233", Work: taskWork("frenos", "cadena")})
	require.NoError(t, err)

	updated, err := svc.ToggleTask(ctx, ticket.ID, 1)
	require.NoError(t, err)
	assert.False(t, updated.Work.Tasks[0].Done)
	assert.True(t, updated.Work.Tasks[1].Done)

	_, err = svc.ToggleTask(ctx, ticket.ID, 5)
	require.Error(t, err)
	assert.Equal(t, "VALIDATION_FAILED", apperrors.ToDomainError(err).Code)

	_, _, err = svc.Finish(ctx, ticket.ID, billing.Input{Mode: billing.ModeFlat, Price: "10"})
	require.NoError(t, err)

	_, err = svc.ToggleTask(ctx, ticket.ID, 0)
	require.Error(t, err)
	assert.Equal(t, "CONFLICT", apperrors.ToDomainError(err).Code)
}

func TestListFiltersBySearchAndStatus(t *testing.T) {
	svc, _, _, _, _ := setup(t)
	ctx := context.Background()

	ana, err := svc.Create(ctx, TicketCreateInput{Name: "Ana", Phone: "600112233", Work: taskWork("frenos")})
	require.NoError(t, err)
	_, err = svc.Create(ctx, TicketCreateInput{Name: "Pedro", Phone: "699887766", Work: taskWork("cadena")})
	require.NoError(t, err)

	tickets, err := svc.List(ctx, nil, "an")
	require.NoError(t, err)
	require.Len(t, tickets, 1)
	assert.Equal(t, "Ana", tickets[0].CustomerName)

	// phone substring matches too
	tickets, err = svc.List(ctx, nil, "6998")
	require.NoError(t, err)
	require.Len(t, tickets, 1)
	assert.Equal(t, "Pedro", tickets[0].CustomerName)

	// status filter is ANDed with the search
	_, _, err = svc.Finish(ctx, ana.ID, billing.Input{Mode: billing.ModeFlat, Price: "10"})
	require.NoError(t, err)

	inProgress := domain.TicketStatusInProgress
	tickets, err = svc.List(ctx, &inProgress, "an")
	require.NoError(t, err)
	assert.Empty(t, tickets)

	finished := domain.TicketStatusFinished
	tickets, err = svc.List(ctx, &finished, "an")
	require.NoError(t, err)
	require.Len(t, tickets, 1)
	assert.Equal(t, "Ana", tickets[0].CustomerName)
}

func TestDeleteRemovesTicketButKeepsDirectory(t *testing.T) {
	svc, _, customerRepo, dispatcher, _ := setup(t)
	ctx := context.Background()

	ticket, err := svc.Create(ctx, TicketCreateInput{Name: "Ana", Phone: "600112233", Work: taskWork("frenos")})
	require.NoError(t, err)
	dispatcher.published = nil

	require.NoError(t, svc.Delete(ctx, ticket.ID))

	tickets, err := svc.List(ctx, nil, "")
	require.NoError(t, err)
	assert.Empty(t, tickets)
	assert.Len(t, customerRepo.records, 1)

	require.Len(t, dispatcher.published, 1)
	assert.Equal(t, events.EventTicketDeleted, dispatcher.published[0].Type)

	err = svc.Delete(ctx, ticket.ID)
	require.Error(t, err)
	assert.Equal(t, "NOT_FOUND", apperrors.ToDomainError(err).Code)
}

func TestDirectoryLookupMatchesNormalizedVariants(t *testing.T) {
	svc, _, _, _, directory := setup(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, TicketCreateInput{Name: "Ana", Phone: "600 11 22 33", Work: taskWork("frenos")})
	require.NoError(t, err)

	record, err := directory.Lookup(ctx, "+34600112233")
	require.NoError(t, err)
	require.NotNil(t, record)
	assert.Equal(t, "Ana", record.Name)

	record, err = directory.Lookup(ctx, "611999888")
	require.NoError(t, err)
	assert.Nil(t, record)
}

// --- mocks ---

type mockTicketRepo struct {
	store       map[string]*domain.Ticket
	order       []string
	createCalls int
	seq         int
}

func newMockTicketRepo() *mockTicketRepo {
	return &mockTicketRepo{store: make(map[string]*domain.Ticket)}
}

func (m *mockTicketRepo) Create(_ context.Context, ticket *domain.Ticket) error {
	m.createCalls++
	m.seq++
	ticket.ID = "ticket-" + strconv.Itoa(m.seq)
	ticket.CreatedAt = time.Now()
	stored := *ticket
	m.store[ticket.ID] = &stored
	m.order = append(m.order, ticket.ID)
	return nil
}

func (m *mockTicketRepo) GetByID(_ context.Context, id string) (*domain.Ticket, error) {
	stored, ok := m.store[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	ticket := *stored
	return &ticket, nil
}

func (m *mockTicketRepo) List(_ context.Context, status *domain.TicketStatus) ([]domain.Ticket, error) {
	var result []domain.Ticket
	for i := len(m.order) - 1; i >= 0; i-- {
		stored, ok := m.store[m.order[i]]
		if !ok {
			continue
		}
		if status != nil && stored.Status != *status {
			continue
		}
		result = append(result, *stored)
	}
	return result, nil
}

func (m *mockTicketRepo) UpdateTasks(_ context.Context, id string, tasks []domain.TaskItem) error {
	stored, ok := m.store[id]
	if !ok || stored.Status != domain.TicketStatusInProgress {
		return pgx.ErrNoRows
	}
	stored.Work.Tasks = tasks
	return nil
}

func (m *mockTicketRepo) Finish(_ context.Context, id string, finishedAt time.Time, bill domain.Billing) error {
	stored, ok := m.store[id]
	if !ok || stored.Status != domain.TicketStatusInProgress {
		return pgx.ErrNoRows
	}
	stored.Status = domain.TicketStatusFinished
	stored.FinishedAt = &finishedAt
	stored.Billing = &bill
	return nil
}

func (m *mockTicketRepo) Delete(_ context.Context, id string) error {
	if _, ok := m.store[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(m.store, id)
	return nil
}

type mockCustomerRepo struct {
	records     []domain.CustomerRecord
	insertCalls int
}

func newMockCustomerRepo() *mockCustomerRepo {
	return &mockCustomerRepo{}
}

func (m *mockCustomerRepo) Insert(_ context.Context, record *domain.CustomerRecord) (bool, error) {
	m.insertCalls++
	for _, existing := range m.records {
		if existing.PhoneNormalized == record.PhoneNormalized {
			return false, nil
		}
	}
	record.ID = "customer-" + strconv.Itoa(len(m.records)+1)
	record.CreatedAt = time.Now()
	m.records = append(m.records, *record)
	return true, nil
}

func (m *mockCustomerRepo) GetByNormalizedPhone(_ context.Context, normalized string) (*domain.CustomerRecord, error) {
	for _, record := range m.records {
		if record.PhoneNormalized == normalized {
			found := record
			return &found, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (m *mockCustomerRepo) List(_ context.Context) ([]domain.CustomerRecord, error) {
	return append([]domain.CustomerRecord{}, m.records...), nil
}

type mockDispatcher struct {
	published []events.Event
}

func (m *mockDispatcher) Publish(_ context.Context, event events.Event) error {
	m.published = append(m.published, event)
	return nil
}

func (m *mockDispatcher) Subscribe(events.EventType, events.EventHandler) {}
