package controllers

import (
	"sort"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/masteragentes/masteragentes/app/models"
	"github.com/masteragentes/masteragentes/app/repository"
)

// In-memory repository fakes. They implement the same contracts as the
// database-backed ones so controller behavior can be tested end to end
// through app.Test.

type fakeUserRepo struct {
	users  map[uint]*models.User
	nextID uint
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[uint]*models.User{}, nextID: 1}
}

func (r *fakeUserRepo) Create(user *models.User) error {
	user.ID = r.nextID
	r.nextID++
	user.CreatedAt = time.Now()
	copied := *user
	r.users[user.ID] = &copied
	return nil
}

func (r *fakeUserRepo) GetByID(id uint) (*models.User, error) {
	if u, ok := r.users[id]; ok {
		copied := *u
		return &copied, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeUserRepo) GetByEmail(email string) (*models.User, error) {
	for _, u := range r.users {
		if strings.EqualFold(u.Email, email) {
			copied := *u
			return &copied, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeUserRepo) Update(user *models.User) error {
	if _, ok := r.users[user.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	copied := *user
	r.users[user.ID] = &copied
	return nil
}

type fakeAgentRepo struct {
	agents []models.Agent
	nextID uint
	counts map[uint]int64
}

func newFakeAgentRepo() *fakeAgentRepo {
	return &fakeAgentRepo{nextID: 1, counts: map[uint]int64{}}
}

func (r *fakeAgentRepo) Create(agent *models.Agent) error {
	agent.ID = r.nextID
	r.nextID++
	if agent.CreatedAt.IsZero() {
		agent.CreatedAt = time.Now()
	}
	if agent.Status == "" {
		agent.Status = models.AgentStatusActive
	}
	r.agents = append(r.agents, *agent)
	return nil
}

func (r *fakeAgentRepo) GetByID(userID, id uint) (*models.Agent, error) {
	for i := range r.agents {
		if r.agents[i].ID == id && r.agents[i].UserID == userID {
			copied := r.agents[i]
			return &copied, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeAgentRepo) ListByUser(userID uint) ([]models.Agent, error) {
	var out []models.Agent
	for _, a := range r.agents {
		if a.UserID == userID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (r *fakeAgentRepo) ListByUserWithConversationCount(userID uint) ([]repository.AgentWithConversations, error) {
	agents, _ := r.ListByUser(userID)
	out := make([]repository.AgentWithConversations, len(agents))
	for i, a := range agents {
		out[i] = repository.AgentWithConversations{Agent: a, ConversationCount: r.counts[a.ID]}
	}
	return out, nil
}

func (r *fakeAgentRepo) ListByUserSince(userID uint, since time.Time) ([]models.Agent, error) {
	var out []models.Agent
	for _, a := range r.agents {
		if a.UserID == userID && !a.CreatedAt.Before(since) {
			out = append(out, a)
		}
	}
	return out, nil
}

func (r *fakeAgentRepo) ListRecentByUser(userID uint, limit int) ([]models.Agent, error) {
	agents, _ := r.ListByUser(userID)
	sort.SliceStable(agents, func(i, j int) bool { return agents[i].CreatedAt.After(agents[j].CreatedAt) })
	if len(agents) > limit {
		agents = agents[:limit]
	}
	return agents, nil
}

func (r *fakeAgentRepo) Update(agent *models.Agent) error {
	for i := range r.agents {
		if r.agents[i].ID == agent.ID {
			r.agents[i] = *agent
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (r *fakeAgentRepo) Delete(userID, id uint) error {
	for i := range r.agents {
		if r.agents[i].ID == id && r.agents[i].UserID == userID {
			r.agents = append(r.agents[:i], r.agents[i+1:]...)
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (r *fakeAgentRepo) CountByUser(userID uint) (int64, error) {
	agents, _ := r.ListByUser(userID)
	return int64(len(agents)), nil
}

func (r *fakeAgentRepo) CountByUserAndStatus(userID uint, status string) (int64, error) {
	var n int64
	for _, a := range r.agents {
		if a.UserID == userID && a.Status == status {
			n++
		}
	}
	return n, nil
}

type fakeContactRepo struct {
	contacts []models.Contact
	nextID   uint
}

func newFakeContactRepo() *fakeContactRepo {
	return &fakeContactRepo{nextID: 1}
}

func (r *fakeContactRepo) Create(contact *models.Contact) error {
	contact.ID = r.nextID
	r.nextID++
	if contact.CreatedAt.IsZero() {
		contact.CreatedAt = time.Now()
	}
	if contact.Origin == "" {
		contact.Origin = models.ContactOriginManual
	}
	if contact.Tags == nil {
		contact.Tags = models.StringList{}
	}
	r.contacts = append(r.contacts, *contact)
	return nil
}

func (r *fakeContactRepo) ListByUser(userID uint, limit int) ([]models.Contact, error) {
	var out []models.Contact
	for _, ct := range r.contacts {
		if ct.UserID == userID {
			out = append(out, ct)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *fakeContactRepo) FindByIdentity(userID uint, email, phone string) (*models.Contact, error) {
	if email == "" && phone == "" {
		return nil, gorm.ErrRecordNotFound
	}
	for i := range r.contacts {
		ct := &r.contacts[i]
		if ct.UserID != userID {
			continue
		}
		if (email != "" && ct.Email == email) || (phone != "" && ct.Phone == phone) {
			copied := *ct
			return &copied, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeContactRepo) UpsertByIdentity(userID uint, in repository.ContactInput) (*models.Contact, error) {
	if in.IsEmpty() {
		return nil, nil
	}
	existing, err := r.FindByIdentity(userID, in.Email, in.Phone)
	if err == nil {
		if in.Name != "" {
			existing.Name = in.Name
		}
		if in.Email != "" {
			existing.Email = in.Email
		}
		if in.Phone != "" {
			existing.Phone = in.Phone
		}
		if in.Tags != nil {
			existing.Tags = models.StringList(in.Tags)
		}
		for i := range r.contacts {
			if r.contacts[i].ID == existing.ID {
				r.contacts[i] = *existing
			}
		}
		return existing, nil
	}

	contact := &models.Contact{
		UserID: userID,
		Name:   in.Name,
		Email:  in.Email,
		Phone:  in.Phone,
		Origin: models.ContactOriginChatVolt,
		Tags:   models.StringList(in.Tags),
	}
	if contact.Name == "" {
		contact.Name = models.DefaultContactName
	}
	if err := r.Create(contact); err != nil {
		return nil, err
	}
	return contact, nil
}

func (r *fakeContactRepo) Delete(userID, id uint) error {
	for i := range r.contacts {
		if r.contacts[i].ID == id && r.contacts[i].UserID == userID {
			r.contacts = append(r.contacts[:i], r.contacts[i+1:]...)
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (r *fakeContactRepo) CountByUser(userID uint) (int64, error) {
	out, _ := r.ListByUser(userID, 0)
	return int64(len(out)), nil
}

type fakeConversationRepo struct {
	conversations []models.Conversation
	nextID        uint
}

func newFakeConversationRepo() *fakeConversationRepo {
	return &fakeConversationRepo{nextID: 1}
}

func (r *fakeConversationRepo) Create(conv *models.Conversation) error {
	conv.ID = r.nextID
	r.nextID++
	if conv.CreatedAt.IsZero() {
		conv.CreatedAt = time.Now()
	}
	if conv.Status == "" {
		conv.Status = models.ConversationStatusActive
	}
	if conv.ClientName == "" {
		conv.ClientName = models.DefaultClientName
	}
	if conv.Messages == nil {
		conv.Messages = models.MessageList{}
	}
	r.conversations = append(r.conversations, *conv)
	return nil
}

func (r *fakeConversationRepo) Save(conv *models.Conversation) error {
	for i := range r.conversations {
		if r.conversations[i].ID == conv.ID {
			r.conversations[i] = *conv
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (r *fakeConversationRepo) ListByUserWithAgent(userID uint, limit int) ([]models.Conversation, error) {
	var out []models.Conversation
	for _, cv := range r.conversations {
		if cv.UserID == userID {
			out = append(out, cv)
		}
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *fakeConversationRepo) ListByUserSince(userID uint, since time.Time) ([]models.Conversation, error) {
	var out []models.Conversation
	for _, cv := range r.conversations {
		if cv.UserID == userID && !cv.CreatedAt.Before(since) {
			out = append(out, cv)
		}
	}
	return out, nil
}

func (r *fakeConversationRepo) ListRecentByUser(userID uint, limit int) ([]models.Conversation, error) {
	out, _ := r.ListByUserWithAgent(userID, 0)
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *fakeConversationRepo) GetByExternalID(userID uint, externalID string) (*models.Conversation, error) {
	for i := range r.conversations {
		cv := &r.conversations[i]
		if cv.UserID == userID && cv.ExternalID != nil && *cv.ExternalID == externalID {
			copied := *cv
			return &copied, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeConversationRepo) FindOrCreateByExternalID(conv *models.Conversation) (*models.Conversation, bool, error) {
	existing, err := r.GetByExternalID(conv.UserID, *conv.ExternalID)
	if err == nil {
		return existing, false, nil
	}
	if err := r.Create(conv); err != nil {
		return nil, false, err
	}
	return conv, true, nil
}

func (r *fakeConversationRepo) UpdateForUser(userID, id uint, status string, messages models.MessageList) (*models.Conversation, error) {
	for i := range r.conversations {
		cv := &r.conversations[i]
		if cv.ID == id && cv.UserID == userID {
			if status != "" {
				cv.Status = status
			}
			if messages != nil {
				cv.Messages = messages
			}
			copied := *cv
			return &copied, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeConversationRepo) EndByExternalID(userID uint, externalID string) (int64, error) {
	var affected int64
	for i := range r.conversations {
		cv := &r.conversations[i]
		if cv.UserID == userID && cv.ExternalID != nil && *cv.ExternalID == externalID && cv.Status != models.ConversationStatusEnded {
			cv.Status = models.ConversationStatusEnded
			affected++
		}
	}
	return affected, nil
}

func (r *fakeConversationRepo) CountByUser(userID uint) (int64, error) {
	out, _ := r.ListByUserWithAgent(userID, 0)
	return int64(len(out)), nil
}

func (r *fakeConversationRepo) CountByUserAndStatus(userID uint, status string) (int64, error) {
	var n int64
	for _, cv := range r.conversations {
		if cv.UserID == userID && cv.Status == status {
			n++
		}
	}
	return n, nil
}

type fakeConfigRepo struct {
	configs []models.ChatVoltConfig
	nextID  uint
}

func newFakeConfigRepo() *fakeConfigRepo {
	return &fakeConfigRepo{nextID: 1}
}

func (r *fakeConfigRepo) GetByUser(userID uint) (*models.ChatVoltConfig, error) {
	for i := range r.configs {
		if r.configs[i].UserID == userID {
			copied := r.configs[i]
			return &copied, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeConfigRepo) Resolve(apiKey, orgID string) (*models.ChatVoltConfig, error) {
	for i := range r.configs {
		cfg := &r.configs[i]
		if cfg.APIKey == apiKey && cfg.OrgID == orgID && cfg.Active {
			copied := *cfg
			return &copied, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeConfigRepo) ResolveByOrg(orgID string) (*models.ChatVoltConfig, error) {
	for i := range r.configs {
		cfg := &r.configs[i]
		if cfg.OrgID == orgID && cfg.Active {
			copied := *cfg
			return &copied, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeConfigRepo) Upsert(userID uint, apiKey, orgID, webhookSecret string) (*models.ChatVoltConfig, error) {
	for i := range r.configs {
		cfg := &r.configs[i]
		if cfg.UserID == userID {
			cfg.APIKey = apiKey
			cfg.OrgID = orgID
			cfg.WebhookSecret = webhookSecret
			cfg.Active = true
			copied := *cfg
			return &copied, nil
		}
	}
	cfg := models.ChatVoltConfig{ID: r.nextID, UserID: userID, APIKey: apiKey, OrgID: orgID, WebhookSecret: webhookSecret, Active: true, CreatedAt: time.Now()}
	r.nextID++
	r.configs = append(r.configs, cfg)
	return &cfg, nil
}

func (r *fakeConfigRepo) SetActive(userID uint, active bool) (int64, error) {
	var affected int64
	for i := range r.configs {
		if r.configs[i].UserID == userID {
			r.configs[i].Active = active
			affected++
		}
	}
	return affected, nil
}

func (r *fakeConfigRepo) DeleteByUser(userID uint) (int64, error) {
	var kept []models.ChatVoltConfig
	var deleted int64
	for _, cfg := range r.configs {
		if cfg.UserID == userID {
			deleted++
			continue
		}
		kept = append(kept, cfg)
	}
	r.configs = kept
	return deleted, nil
}

func newFakeRepositories() *repository.Repositories {
	return &repository.Repositories{
		User:           newFakeUserRepo(),
		Agent:          newFakeAgentRepo(),
		Contact:        newFakeContactRepo(),
		Conversation:   newFakeConversationRepo(),
		ChatVoltConfig: newFakeConfigRepo(),
	}
}
