package chat

import (
	"context"
	"encoding/json"
	"strings"
	"sync"

	"github.com/futig/docchat/internal/entity"
)

type fakeSearch struct {
	mu       sync.Mutex
	requests []*entity.SearchRequest
	response string
	err      error
}

func (f *fakeSearch) Search(ctx context.Context, req *entity.SearchRequest) (json.RawMessage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = append(f.requests, req)
	if f.err != nil {
		return nil, f.err
	}
	return json.RawMessage(f.response), nil
}

func (f *fakeSearch) lastQuery() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.requests) == 0 {
		return ""
	}
	return f.requests[len(f.requests)-1].Query
}

// fakeLLM tells reformulation prompts from answer prompts by their instruction
type fakeLLM struct {
	mu            sync.Mutex
	reformPrompts []string
	answerPrompts []string

	reformulated string
	reformErr    error
	answer       string
	answerErr    error
}

func (f *fakeLLM) Complete(ctx context.Context, model entity.ModelID, prompt string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if strings.HasPrefix(prompt, reformulationInstruction) {
		f.reformPrompts = append(f.reformPrompts, prompt)
		return f.reformulated, f.reformErr
	}
	f.answerPrompts = append(f.answerPrompts, prompt)
	return f.answer, f.answerErr
}

func (f *fakeLLM) reformCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.reformPrompts)
}

type memoryStore struct {
	mu       sync.Mutex
	sessions map[string]*Session
}

func newMemoryStore() *memoryStore {
	return &memoryStore{sessions: make(map[string]*Session)}
}

func (m *memoryStore) Add(session *Session) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[session.ID()] = session
}

func (m *memoryStore) Get(id string) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	if !ok {
		return nil, entity.ErrSessionNotFound
	}
	return s, nil
}

func (m *memoryStore) Delete(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.sessions[id]; !ok {
		return entity.ErrSessionNotFound
	}
	delete(m.sessions, id)
	return nil
}

func newTestOrchestrator(search SearchBackend, llm CompletionService) *Orchestrator {
	return NewOrchestrator(
		NewReformulator(llm, 0),
		NewRetriever(search, 0),
		NewAssembler(),
		NewGenerator(llm, 0),
		entity.DefaultModelCatalog(),
		Options{Window: 7, ResultLimit: 3, AnswerReserve: 512},
	)
}

const twoChunkResponse = `{"results":[` +
	`{"chunk":"invoice processing","relative_path":"a.pdf","category":"finance"},` +
	`{"chunk":"invoice approval","relative_path":"a.pdf","category":"finance"}]}`
