package http

import (
	"context"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"

	"salary-api/internal/domain"
	"salary-api/internal/email"
)

type mockUserRepo struct {
	mu           sync.Mutex
	usersByID    map[string]domain.User
	usersByEmail map[string]string
	accountTypes map[string]int64
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{
		usersByID:    make(map[string]domain.User),
		usersByEmail: make(map[string]string),
		accountTypes: map[string]int64{"candidat": 1, "recruteur": 2},
	}
}

func (m *mockUserRepo) Create(_ context.Context, user domain.User, _ int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.usersByID[user.ID] = user
	m.usersByEmail[user.Email] = user.ID
	return nil
}

func (m *mockUserRepo) GetByID(_ context.Context, id string) (domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	user, ok := m.usersByID[id]
	if !ok {
		return domain.User{}, pgx.ErrNoRows
	}
	return user, nil
}

func (m *mockUserRepo) GetByEmail(ctx context.Context, email string) (domain.User, error) {
	m.mu.Lock()
	id, ok := m.usersByEmail[email]
	m.mu.Unlock()
	if !ok {
		return domain.User{}, pgx.ErrNoRows
	}
	return m.GetByID(ctx, id)
}

func (m *mockUserRepo) update(id string, fn func(*domain.User)) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	user, ok := m.usersByID[id]
	if !ok {
		return pgx.ErrNoRows
	}
	fn(&user)
	m.usersByID[id] = user
	return nil
}

func (m *mockUserRepo) UpdateProfile(_ context.Context, id, firstName, lastName string) error {
	return m.update(id, func(u *domain.User) {
		u.FirstName = firstName
		u.LastName = lastName
	})
}

func (m *mockUserRepo) UpdatePassword(_ context.Context, id, passwordHash string) error {
	return m.update(id, func(u *domain.User) { u.PasswordHash = passwordHash })
}

func (m *mockUserRepo) UpdateRole(_ context.Context, id string, accountTypeID int64) error {
	return m.update(id, func(u *domain.User) {
		for label, typeID := range m.accountTypes {
			if typeID == accountTypeID {
				u.Role = label
			}
		}
	})
}

func (m *mockUserRepo) VerifyEmail(_ context.Context, id string, verifiedAt time.Time) error {
	return m.update(id, func(u *domain.User) { u.EmailVerifiedAt = &verifiedAt })
}

func (m *mockUserRepo) FindAccountTypeID(_ context.Context, label string) (int64, error) {
	id, ok := m.accountTypes[label]
	if !ok {
		return 0, pgx.ErrNoRows
	}
	return id, nil
}

type mockEmailSender struct {
	mu       sync.Mutex
	lastTo   string
	lastCode string
	err      error
}

func (m *mockEmailSender) SendCode(_ context.Context, toEmail, code string, _ email.Purpose, _ time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lastTo = toEmail
	m.lastCode = code
	return m.err
}

type mockLimiter struct {
	allow bool
}

func (m *mockLimiter) Allow(context.Context, string) bool {
	return m.allow
}

type mockCatalogRepo struct {
	lastFilter domain.OfferFilter
	offers     []domain.Offer
}

func (m *mockCatalogRepo) ListJobTitles(context.Context) ([]domain.JobTitle, error) {
	return []domain.JobTitle{{ID: 1, Label: "Data Engineer"}, {ID: 2, Label: "Développeur"}}, nil
}

func (m *mockCatalogRepo) ListRegions(context.Context) ([]domain.Region, error) {
	return []domain.Region{{ID: 1, Name: "Île-de-France"}}, nil
}

func (m *mockCatalogRepo) ListExperiences(context.Context) ([]domain.Experience, error) {
	return []domain.Experience{{ID: 1, Label: "Junior (0-2 ans)"}}, nil
}

func (m *mockCatalogRepo) ListSkills(context.Context) ([]domain.Skill, error) {
	return []domain.Skill{{ID: 1, Label: "python"}}, nil
}

func (m *mockCatalogRepo) SearchOffers(_ context.Context, filter domain.OfferFilter) ([]domain.Offer, int64, error) {
	m.lastFilter = filter
	return m.offers, int64(len(m.offers)), nil
}

func (m *mockCatalogRepo) GetOffer(_ context.Context, id int64) (domain.Offer, error) {
	for _, o := range m.offers {
		if o.ID == id {
			return o, nil
		}
	}
	return domain.Offer{}, pgx.ErrNoRows
}

type mockHistoryRepo struct {
	mu      sync.Mutex
	records []domain.PredictionRecord
}

func (m *mockHistoryRepo) Create(_ context.Context, record domain.PredictionRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records = append(m.records, record)
	return nil
}

func (m *mockHistoryRepo) ListByUser(_ context.Context, userID string) ([]domain.PredictionRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []domain.PredictionRecord{}
	for i := len(m.records) - 1; i >= 0; i-- {
		if m.records[i].UserID == userID {
			out = append(out, m.records[i])
		}
	}
	return out, nil
}
