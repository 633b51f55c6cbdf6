package usecase_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	goslack "github.com/slack-go/slack"

	"github.com/junglesafari/safaridesk/pkg/domain/interfaces"
	"github.com/junglesafari/safaridesk/pkg/domain/model"
	"github.com/junglesafari/safaridesk/pkg/repository/memory"
	"github.com/junglesafari/safaridesk/pkg/service/slack"
)

var _ slack.Service = (*mockSlackService)(nil)

type postedMessage struct {
	ChannelID string
	Blocks    []goslack.Block
	Text      string
}

type updatedMessage struct {
	ChannelID string
	Timestamp string
	Blocks    []goslack.Block
	Text      string
}

type mockSlackService struct {
	mu              sync.Mutex
	postMessageFn   func(ctx context.Context, channelID string, blocks []goslack.Block, text string) (string, error)
	getUserNameFn   func(ctx context.Context, userID string) (string, error)
	postedMessages  []postedMessage
	updatedMessages []updatedMessage
}

func (m *mockSlackService) PostMessage(ctx context.Context, channelID string, blocks []goslack.Block, text string) (string, error) {
	m.mu.Lock()
	m.postedMessages = append(m.postedMessages, postedMessage{ChannelID: channelID, Blocks: blocks, Text: text})
	n := len(m.postedMessages)
	m.mu.Unlock()

	if m.postMessageFn != nil {
		return m.postMessageFn(ctx, channelID, blocks, text)
	}
	return fmt.Sprintf("1700000000.%06d", n), nil
}

func (m *mockSlackService) UpdateMessage(ctx context.Context, channelID string, timestamp string, blocks []goslack.Block, text string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.updatedMessages = append(m.updatedMessages, updatedMessage{ChannelID: channelID, Timestamp: timestamp, Blocks: blocks, Text: text})
	return nil
}

func (m *mockSlackService) GetUserName(ctx context.Context, userID string) (string, error) {
	if m.getUserNameFn != nil {
		return m.getUserNameFn(ctx, userID)
	}
	return "Name of " + userID, nil
}

func (m *mockSlackService) posted() []postedMessage {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]postedMessage(nil), m.postedMessages...)
}

func (m *mockSlackService) updated() []updatedMessage {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]updatedMessage(nil), m.updatedMessages...)
}

// flakyRepository wraps the memory backend and fails Create while fail is set.
type flakyRepository struct {
	*memory.Memory
	complaints *flakyComplaintRepository
}

func newFlakyRepository() *flakyRepository {
	mem := memory.New()
	return &flakyRepository{
		Memory:     mem,
		complaints: &flakyComplaintRepository{ComplaintRepository: mem.Complaint()},
	}
}

func (r *flakyRepository) Complaint() interfaces.ComplaintRepository {
	return r.complaints
}

type flakyComplaintRepository struct {
	interfaces.ComplaintRepository
	fail    atomic.Bool
	creates atomic.Int32
}

func (r *flakyComplaintRepository) Create(ctx context.Context, c *model.Complaint) (*model.Complaint, error) {
	r.creates.Add(1)
	if r.fail.Load() {
		return nil, errors.New("connection refused")
	}
	return r.ComplaintRepository.Create(ctx, c)
}
