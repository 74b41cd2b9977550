package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"darwinian-be/internal/dto"
	"darwinian-be/internal/entity"
	"darwinian-be/internal/pkg/logger"
	"darwinian-be/pkg/agent"
	"darwinian-be/pkg/events"
	"darwinian-be/pkg/llm"
	"darwinian-be/pkg/memory"
	"darwinian-be/pkg/store"
	"darwinian-be/pkg/workflow"

	"github.com/google/uuid"
)

const (
	chatModule = "ChatService"

	readyGreeting = "🧠 **Darwinian Ready.**\nI'll write code, and YOU decide if we should audit it."
	noOutput      = "⚠️ Error: No output."
)

var (
	ErrSessionNotFound = store.ErrSessionNotFound
	ErrNoAnswer        = errors.New("no answer to act on yet")
	ErrNoCodeToVerify  = errors.New("last answer contains no generated code")
)

type IChatService interface {
	CreateSession(ctx context.Context, req *dto.CreateSessionRequest) (*dto.SessionResponse, error)
	GetSession(ctx context.Context, sessionId uuid.UUID) (*dto.SessionResponse, error)
	UpdateSettings(ctx context.Context, sessionId uuid.UUID, req *dto.SettingsRequest) (*dto.SessionResponse, error)
	SendMessage(ctx context.Context, sessionId uuid.UUID, req *dto.SendMessageRequest) (*dto.TurnResponse, error)
	Approve(ctx context.Context, sessionId uuid.UUID) (*dto.ApproveResponse, error)
	Reject(ctx context.Context, sessionId uuid.UUID, req *dto.RejectRequest) (*dto.RejectResponse, error)
	Verify(ctx context.Context, sessionId uuid.UUID) (*dto.VerifyResponse, error)
	ListMemories(ctx context.Context) (*dto.ListMemoriesResponse, error)
}

// ChatOptions are the process-wide knobs of the chat service.
type ChatOptions struct {
	Defaults      agent.Settings
	AutoAudit     bool
	MemoryTopK    int
	MemoryBackend string
}

type chatService struct {
	provider  llm.LLMProvider
	memory    memory.Store
	sessions  store.SessionRepository
	publisher IPublisherService
	opts      ChatOptions
	logger    logger.ILogger

	// One turn or action at a time per session
	locks sync.Map
}

func NewChatService(
	provider llm.LLMProvider,
	memoryStore memory.Store,
	sessions store.SessionRepository,
	publisher IPublisherService,
	opts ChatOptions,
	log logger.ILogger,
) IChatService {
	if opts.MemoryTopK <= 0 {
		opts.MemoryTopK = 2
	}
	return &chatService{
		provider:  provider,
		memory:    memoryStore,
		sessions:  sessions,
		publisher: publisher,
		opts:      opts,
		logger:    log,
	}
}

// acquire loads a session while holding its lock. Unknown ids never get a
// lock entry and the entry of an expired session is evicted.
func (s *chatService) acquire(ctx context.Context, sessionId uuid.UUID) (*store.Session, func(), error) {
	if _, ok := s.locks.Load(sessionId); !ok {
		if _, err := s.sessions.Get(ctx, sessionId.String()); err != nil {
			return nil, nil, err
		}
	}

	v, _ := s.locks.LoadOrStore(sessionId, &sync.Mutex{})
	mu := v.(*sync.Mutex)
	mu.Lock()

	// Re-read under the lock so the previous holder's writes are seen
	session, err := s.sessions.Get(ctx, sessionId.String())
	if err != nil {
		if errors.Is(err, store.ErrSessionNotFound) {
			s.locks.CompareAndDelete(sessionId, mu)
		}
		mu.Unlock()
		return nil, nil, err
	}
	return session, mu.Unlock, nil
}

func (s *chatService) registry(session *store.Session) *agent.Registry {
	return agent.NewRegistry(s.provider, session.Settings, s.logger)
}

// publish never fails the caller: streaming is a side channel.
func (s *chatService) publish(ctx context.Context, eventType string, sessionId uuid.UUID, data map[string]interface{}) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, events.New(eventType, sessionId.String(), data)); err != nil {
		s.logger.Warn(chatModule, "Failed to publish event", map[string]interface{}{
			"type":  eventType,
			"error": err.Error(),
		})
	}
}

func settingsFromRequest(req *dto.SettingsRequest) agent.Settings {
	if req == nil {
		return agent.Settings{}
	}
	return agent.Settings{
		APIKey:            req.APIKey,
		OrchestratorModel: req.OrchestratorModel,
		IngestionModel:    req.IngestionModel,
		CoderModel:        req.CoderModel,
		AuditorModel:      req.AuditorModel,
		RepairModel:       req.RepairModel,
	}
}

func toSessionResponse(session *store.Session) *dto.SessionResponse {
	st := session.Settings
	return &dto.SessionResponse{
		Id: uuid.MustParse(session.ID),
		Settings: dto.SettingsResponse{
			HasAPIKey:         st.APIKey != "",
			OrchestratorModel: st.OrchestratorModel,
			IngestionModel:    st.IngestionModel,
			CoderModel:        st.CoderModel,
			AuditorModel:      st.AuditorModel,
			RepairModel:       st.RepairModel,
		},
		CreatedAt: session.CreatedAt,
	}
}

func (s *chatService) CreateSession(ctx context.Context, req *dto.CreateSessionRequest) (*dto.SessionResponse, error) {
	var override agent.Settings
	if req != nil {
		override = settingsFromRequest(&req.Settings)
	}

	now := time.Now()
	session := &store.Session{
		ID:        uuid.NewString(),
		Settings:  s.opts.Defaults.Merge(override),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.sessions.Save(ctx, session); err != nil {
		return nil, err
	}

	s.logger.Info(chatModule, "Session created", map[string]interface{}{
		"session_id": session.ID,
		"settings":   session.Settings.Redacted(),
	})

	res := toSessionResponse(session)
	res.Greeting = readyGreeting
	return res, nil
}

func (s *chatService) GetSession(ctx context.Context, sessionId uuid.UUID) (*dto.SessionResponse, error) {
	session, err := s.sessions.Get(ctx, sessionId.String())
	if err != nil {
		return nil, err
	}
	return toSessionResponse(session), nil
}

// UpdateSettings replaces the session's overrides. The agents are rebuilt
// from the new settings on the next turn.
func (s *chatService) UpdateSettings(ctx context.Context, sessionId uuid.UUID, req *dto.SettingsRequest) (*dto.SessionResponse, error) {
	session, unlock, err := s.acquire(ctx, sessionId)
	if err != nil {
		return nil, err
	}
	defer unlock()

	session.Settings = s.opts.Defaults.Merge(settingsFromRequest(req))
	session.UpdatedAt = time.Now()
	if err := s.sessions.Save(ctx, session); err != nil {
		return nil, err
	}

	s.logger.Info(chatModule, "Settings updated", map[string]interface{}{
		"session_id": session.ID,
		"settings":   session.Settings.Redacted(),
	})
	return toSessionResponse(session), nil
}

func (s *chatService) recall(ctx context.Context, input string) string {
	if strings.TrimSpace(input) == "" {
		return ""
	}
	lessons, err := memory.Recall(ctx, s.memory, input, s.opts.MemoryTopK)
	if err != nil {
		s.logger.Warn(chatModule, "Memory recall failed, continuing without lessons", map[string]interface{}{"error": err.Error()})
		return ""
	}
	return lessons
}

func (s *chatService) SendMessage(ctx context.Context, sessionId uuid.UUID, req *dto.SendMessageRequest) (*dto.TurnResponse, error) {
	session, unlock, err := s.acquire(ctx, sessionId)
	if err != nil {
		return nil, err
	}
	defer unlock()

	turnId := uuid.New()
	input := req.Message

	// 1. Memory recall
	lessons := s.recall(ctx, input)
	s.publish(ctx, events.TypeTurnStarted, sessionId, map[string]interface{}{
		"turn_id":         turnId.String(),
		"recalled_memory": lessons != "",
	})

	// 2. State init
	state := workflow.TurnState{
		Input:   memory.Augment(input, lessons),
		History: session.HistoryText(),
	}

	// 3. Run graph
	var steps []dto.StepResponse
	graph := workflow.NewGraph(s.registry(session), s.opts.AutoAudit, s.logger)
	final, err := graph.Run(ctx, state, func(step workflow.Step) {
		steps = append(steps, dto.StepResponse{
			Node:      string(step.Node),
			Agent:     string(step.Agent),
			Reasoning: step.Reasoning,
			Plan:      step.Plan,
		})
		s.publish(ctx, events.TypeTurnStep, sessionId, map[string]interface{}{
			"turn_id":   turnId.String(),
			"node":      string(step.Node),
			"agent":     string(step.Agent),
			"reasoning": step.Reasoning,
			"plan":      step.Plan,
			"output":    step.Output,
		})
	})
	if err != nil {
		return nil, err
	}

	output := final.FinalOutput
	if output == "" {
		output = noOutput
	}

	// 4. Store session data. Approve and verify act on the raw draft when
	// code was generated, otherwise on what the user saw.
	session.LastQuestion = input
	session.CodeGenerated = final.CodeGenerated()
	if session.CodeGenerated {
		session.LastOutput = final.Draft
	} else {
		session.LastOutput = final.FinalOutput
	}
	// A failed turn leaves nothing to approve, repair or verify
	if agent.IsFailure(session.LastOutput) {
		session.LastOutput = ""
	}
	session.Remember(input, string(final.CurrentAgent))
	session.UpdatedAt = time.Now()
	if err := s.sessions.Save(ctx, session); err != nil {
		return nil, err
	}

	// 5. Dynamic actions
	actions := []string{dto.ActionGood}
	if session.CodeGenerated {
		actions = append(actions, dto.ActionVerify)
	}
	actions = append(actions, dto.ActionBad)

	s.publish(ctx, events.TypeTurnCompleted, sessionId, map[string]interface{}{
		"turn_id":        turnId.String(),
		"agent":          string(final.CurrentAgent),
		"code_generated": session.CodeGenerated,
	})

	return &dto.TurnResponse{
		TurnId:         turnId,
		SessionId:      sessionId,
		Agent:          string(final.CurrentAgent),
		Reasoning:      final.Reasoning,
		Plan:           final.Plan,
		Output:         output,
		Draft:          final.Draft,
		Audit:          final.Audit,
		CodeGenerated:  session.CodeGenerated,
		RecalledMemory: lessons != "",
		Steps:          steps,
		Actions:        actions,
	}, nil
}

func (s *chatService) Approve(ctx context.Context, sessionId uuid.UUID) (*dto.ApproveResponse, error) {
	session, unlock, err := s.acquire(ctx, sessionId)
	if err != nil {
		return nil, err
	}
	defer unlock()
	if !session.HasAnswer() || agent.IsFailure(session.LastOutput) {
		return nil, ErrNoAnswer
	}

	count, err := s.memory.Save(ctx, session.LastQuestion, session.LastOutput,
		memory.WithSource(entity.MemorySourceApproved),
		memory.WithMetadata(map[string]interface{}{"session_id": session.ID}),
	)
	if err != nil {
		return nil, err
	}

	s.logger.Info(chatModule, "Answer reinforced", map[string]interface{}{"session_id": session.ID, "total": count})
	s.publish(ctx, events.TypeMemorySaved, sessionId, map[string]interface{}{"total_memories": count})
	return &dto.ApproveResponse{TotalMemories: count}, nil
}

func (s *chatService) Reject(ctx context.Context, sessionId uuid.UUID, req *dto.RejectRequest) (*dto.RejectResponse, error) {
	session, unlock, err := s.acquire(ctx, sessionId)
	if err != nil {
		return nil, err
	}
	defer unlock()
	if !session.HasAnswer() {
		return nil, ErrNoAnswer
	}

	fixed, ok := s.registry(session).Repairer.Repair(ctx, session.LastOutput, req.Feedback)
	if !ok {
		return &dto.RejectResponse{Fixed: fixed}, nil
	}

	count, err := s.memory.Save(ctx, session.LastQuestion, fixed,
		memory.WithSource(entity.MemorySourceRepaired),
		memory.WithMetadata(map[string]interface{}{
			"session_id": session.ID,
			"feedback":   req.Feedback,
		}),
	)
	if err != nil {
		return nil, err
	}

	session.LastOutput = fixed
	session.UpdatedAt = time.Now()
	if err := s.sessions.Save(ctx, session); err != nil {
		return nil, err
	}

	s.publish(ctx, events.TypeAnswerRepair, sessionId, map[string]interface{}{"total_memories": count})
	return &dto.RejectResponse{Fixed: fixed, Saved: true, TotalMemories: count}, nil
}

func (s *chatService) Verify(ctx context.Context, sessionId uuid.UUID) (*dto.VerifyResponse, error) {
	session, unlock, err := s.acquire(ctx, sessionId)
	if err != nil {
		return nil, err
	}
	defer unlock()
	if !session.CodeGenerated || session.LastOutput == "" {
		return nil, ErrNoCodeToVerify
	}

	report := s.registry(session).Auditor.Audit(ctx, agent.CodeReview{Draft: session.LastOutput})

	s.publish(ctx, events.TypeAuditReport, sessionId, map[string]interface{}{"report": report})
	return &dto.VerifyResponse{Report: report}, nil
}

func (s *chatService) ListMemories(ctx context.Context) (*dto.ListMemoriesResponse, error) {
	records, err := s.memory.All(ctx)
	if err != nil {
		return nil, err
	}

	res := &dto.ListMemoriesResponse{
		Backend: s.opts.MemoryBackend,
		Total:   len(records),
		Records: make([]dto.MemoryRecordResponse, len(records)),
	}
	for i, r := range records {
		res.Records[i] = dto.MemoryRecordResponse{Question: r.Question, Answer: r.Answer}
	}
	return res, nil
}
