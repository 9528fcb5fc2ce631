package tracker

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/turtacn/ConsultTrack-Intelligence/internal/intelligence/assistant"
	"github.com/turtacn/ConsultTrack-Intelligence/pkg/errors"
	"github.com/turtacn/ConsultTrack-Intelligence/pkg/types/common"
)

// Conversation is the chat state machine consumed by ChatService.
type Conversation interface {
	Submit(ctx context.Context, text string) (*assistant.Turn, error)
	Messages() []assistant.Message
	Reset() error
	State() assistant.State
}

// Transcript is the exported form of a conversation.
type Transcript struct {
	ID         string              `json:"id"`
	ExportedAt time.Time           `json:"exported_at"`
	Messages   []assistant.Message `json:"messages"`
}

// ExportResult locates an archived transcript.
type ExportResult struct {
	Key      string `json:"key"`
	Location string `json:"location"`
	Messages int    `json:"messages"`
}

// ChatService fronts the conversation for the outer surfaces.
type ChatService interface {
	Messages(ctx context.Context) []assistant.Message
	// Send submits text.  Empty text and a busy conversation are rejected
	// with CHAT_001 and CHAT_002 respectively.
	Send(ctx context.Context, text string) (*assistant.Turn, error)
	QuickQueries() []assistant.QuickQuery
	RunQuickQuery(ctx context.Context, id string) (*assistant.Turn, error)
	// Export archives the transcript as JSON.
	Export(ctx context.Context) (*ExportResult, error)
	Reset(ctx context.Context) error
}

type chatServiceImpl struct {
	conv      Conversation
	archive   TranscriptArchive
	publisher EventPublisher
	clock     common.Clock
	logger    Logger
}

// NewChatService constructs a ChatService.  archive may be nil, in which
// case Export fails with CHAT_004.
func NewChatService(conv Conversation, archive TranscriptArchive, publisher EventPublisher, clock common.Clock, logger Logger) ChatService {
	if publisher == nil {
		publisher = NoopPublisher()
	}
	if clock == nil {
		clock = common.SystemClock{}
	}
	if logger == nil {
		logger = noopLogger{}
	}
	return &chatServiceImpl{conv: conv, archive: archive, publisher: publisher, clock: clock, logger: logger}
}

func (s *chatServiceImpl) Messages(_ context.Context) []assistant.Message {
	return s.conv.Messages()
}

func (s *chatServiceImpl) Send(ctx context.Context, text string) (*assistant.Turn, error) {
	turn, err := s.conv.Submit(ctx, text)
	if err != nil {
		return nil, err
	}
	ev := newEvent(EventChatTurn, s.clock.Now(), "", turn.User.ID, turn.Assistant.ID)
	ev.Attributes = map[string]string{"outcome": string(turn.Assistant.Outcome)}
	emit(ctx, s.publisher, s.logger, ev)
	return turn, nil
}

func (s *chatServiceImpl) QuickQueries() []assistant.QuickQuery {
	return assistant.QuickQueries()
}

func (s *chatServiceImpl) RunQuickQuery(ctx context.Context, id string) (*assistant.Turn, error) {
	q, ok := assistant.LookupQuickQuery(id)
	if !ok {
		return nil, errors.New(errors.ErrCodeChatUnknownQuery, "unknown quick query").WithDetail(id)
	}
	return s.Send(ctx, q.Prompt)
}

func (s *chatServiceImpl) Export(ctx context.Context) (*ExportResult, error) {
	if s.archive == nil {
		return nil, errors.New(errors.ErrCodeChatArchiveFailed, "transcript archive is not configured")
	}
	now := s.clock.Now().UTC()
	t := Transcript{ID: common.NewID().String(), ExportedAt: now, Messages: s.conv.Messages()}
	data, err := json.MarshalIndent(t, "", "  ")
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeSerialization, "failed to encode transcript")
	}

	key := fmt.Sprintf("transcripts/%s/%s.json", now.Format("2006/01/02"), t.ID)
	location, err := s.archive.PutTranscript(ctx, key, data)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeChatArchiveFailed, "failed to archive transcript")
	}
	s.logger.Info("transcript exported", "key", key, "messages", len(t.Messages))
	emit(ctx, s.publisher, s.logger, newEvent(EventChatExported, now, "", t.ID))
	return &ExportResult{Key: key, Location: location, Messages: len(t.Messages)}, nil
}

func (s *chatServiceImpl) Reset(_ context.Context) error {
	return s.conv.Reset()
}

//Personal.AI order the ending
