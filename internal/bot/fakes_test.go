package bot

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/lacasita/telegram-bot-go/internal/flow/bloodpressure"
	"github.com/lacasita/telegram-bot-go/internal/model"
	"github.com/lacasita/telegram-bot-go/internal/reply"
	"github.com/lacasita/telegram-bot-go/internal/service"
	"github.com/lacasita/telegram-bot-go/internal/session"
	"github.com/lacasita/telegram-bot-go/internal/timeutil"
	"github.com/lacasita/telegram-bot-go/internal/wizard"
)

const (
	testChat int64 = 500
	testUser int64 = 1001
)

type sentMessage struct {
	ChatID int64
	Msg    reply.Message
}

type fakeSender struct {
	mu       sync.Mutex
	messages []sentMessage
	answers  []string
	deleted  []int
}

func (f *fakeSender) SendMessage(_ context.Context, chatID int64, msg reply.Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.messages = append(f.messages, sentMessage{ChatID: chatID, Msg: msg})
	return nil
}

func (f *fakeSender) AnswerCallback(_ context.Context, _ string, text string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.answers = append(f.answers, text)
	return nil
}

func (f *fakeSender) DeleteMessage(_ context.Context, _ int64, messageID int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, messageID)
	return nil
}

// take returns the texts sent since the last call
func (f *fakeSender) take() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	var texts []string
	for _, m := range f.messages {
		texts = append(texts, m.Msg.Text)
	}
	f.messages = nil
	return texts
}

type fakeUsers struct {
	users map[int64]*model.User
	err   error
	panic bool
}

func (f *fakeUsers) Resolve(_ context.Context, telegramID int64) (*model.User, error) {
	if f.panic {
		panic("lookup exploded")
	}
	if f.err != nil {
		return nil, f.err
	}
	return f.users[telegramID], nil
}

type fakeRecords struct {
	created []map[string]any
	latest  []model.RecordSummary
	err     error
}

func (f *fakeRecords) Create(_ context.Context, _ *model.User, _ string, record map[string]any) (*model.Record, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.created = append(f.created, record)
	return &model.Record{ID: "rec-1"}, nil
}

func (f *fakeRecords) Latest(_ context.Context, _ *model.User, limit int) ([]model.RecordSummary, error) {
	return f.latest, f.err
}

type fakeHouseholds struct {
	summary *service.HouseholdSummary
	err     error
}

func (f *fakeHouseholds) Summary(_ context.Context, _ *model.User) (*service.HouseholdSummary, error) {
	return f.summary, f.err
}

type fakeInvites struct {
	invite *model.HouseholdInvite
	err    error
}

func (f *fakeInvites) Create(_ context.Context, _ *model.User) (*model.HouseholdInvite, error) {
	return f.invite, f.err
}

// flakyStore fails writes on demand
type flakyStore struct {
	session.Store
	failSet bool
}

func (s *flakyStore) Set(ctx context.Context, key string, sess *model.Session) error {
	if s.failSet {
		return errors.New("store unavailable")
	}
	return s.Store.Set(ctx, key, sess)
}

type testBot struct {
	*Bot
	store      *flakyStore
	memory     *session.MemoryStore
	sender     *fakeSender
	users      *fakeUsers
	records    *fakeRecords
	households *fakeHouseholds
	invites    *fakeInvites
}

func registeredUser() *model.User {
	return &model.User{
		ID:            "u-1",
		TelegramID:    "1001",
		FirstName:     "Ana",
		Role:          model.RoleAdmin,
		HouseholdID:   "h-1",
		HouseholdName: "Casa Sol",
	}
}

func newTestBot(t *testing.T) *testBot {
	t.Helper()

	memory := session.NewMemoryStore(24 * time.Hour)
	tb := &testBot{
		store:      &flakyStore{Store: memory},
		memory:     memory,
		sender:     &fakeSender{},
		users:      &fakeUsers{users: map[int64]*model.User{testUser: registeredUser()}},
		records:    &fakeRecords{},
		households: &fakeHouseholds{},
		invites:    &fakeInvites{},
	}

	scenes := wizard.NewRegistry(bloodpressure.New(tb.records, Menus{}))
	tb.Bot = New(tb.store, tb.sender, scenes, Services{
		Users:      tb.users,
		Records:    tb.records,
		Households: tb.households,
		Invites:    tb.invites,
	}, timeutil.NewFormatter(time.UTC))
	return tb
}

func (tb *testBot) text(t *testing.T, text string) []string {
	t.Helper()
	require.NoError(t, tb.HandleEvent(context.Background(), Event{
		ChatID: testChat, UserID: testUser, Username: "ana", FirstName: "Ana", Text: text,
	}))
	return tb.sender.take()
}

func (tb *testBot) press(t *testing.T, data string) []string {
	t.Helper()
	require.NoError(t, tb.HandleEvent(context.Background(), Event{
		ChatID: testChat, UserID: testUser, Callback: data, CallbackID: "cb-" + data, MessageID: 77,
	}))
	return tb.sender.take()
}

func (tb *testBot) session(t *testing.T) *model.Session {
	t.Helper()
	s, err := tb.memory.Get(context.Background(), session.Key(testChat, testUser))
	require.NoError(t, err)
	return s
}
