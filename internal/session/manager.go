package session

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/aether-ai/aether/internal/event"
	"github.com/aether-ai/aether/internal/provider"
	"github.com/aether-ai/aether/internal/tool"
	"github.com/aether-ai/aether/pkg/types"
)

const titleMaxLength = 40

var titleWhitespaceRE = regexp.MustCompile(`\s+`)

// Manager is the session registry: it owns exactly one actor per live
// session ID, creating the actor on first contact and tracking listing
// metadata alongside it.
type Manager struct {
	defaultModel string
	providers    *provider.Registry
	tools        *tool.Dispatcher

	mu     sync.RWMutex
	actors map[string]*Actor
	infos  map[string]*types.SessionInfo
}

// NewManager creates a session manager.
func NewManager(defaultModel string, providers *provider.Registry, tools *tool.Dispatcher) *Manager {
	return &Manager{
		defaultModel: defaultModel,
		providers:    providers,
		tools:        tools,
		actors:       make(map[string]*Actor),
		infos:        make(map[string]*types.SessionInfo),
	}
}

// Get returns the actor for a session ID, creating it with empty state on
// first contact. Every call refreshes the session's last-active time.
func (m *Manager) Get(id string) *Actor {
	m.mu.Lock()
	defer m.mu.Unlock()

	actor, ok := m.actors[id]
	if !ok {
		actor = NewActor(id, m.defaultModel, m.providers, m.tools)
		m.actors[id] = actor

		info := &types.SessionInfo{
			ID:         id,
			Title:      defaultTitle(""),
			CreatedAt:  time.Now().UnixMilli(),
			LastActive: time.Now().UnixMilli(),
		}
		m.infos[id] = info
		event.Publish(event.Event{Type: event.SessionCreated, Data: &event.SessionCreatedData{Info: info}})
		return actor
	}

	m.infos[id].LastActive = time.Now().UnixMilli()
	return actor
}

// CreateOptions carries the optional parts of an explicit session create.
type CreateOptions struct {
	// SessionID pins the new session's ID; empty means a fresh UUID.
	SessionID string

	// Title names the session; empty derives a title from FirstMessage or
	// the current time.
	Title string

	// FirstMessage, when Title is empty, seeds the derived title.
	FirstMessage string
}

// Create registers a session explicitly, as opposed to lazy creation on
// first chat contact.
func (m *Manager) Create(opts CreateOptions) *types.SessionInfo {
	id := opts.SessionID
	if id == "" {
		id = uuid.NewString()
	}

	title := opts.Title
	if title == "" {
		title = defaultTitle(opts.FirstMessage)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if info, ok := m.infos[id]; ok {
		info.Title = title
		info.LastActive = time.Now().UnixMilli()
		return info
	}

	m.actors[id] = NewActor(id, m.defaultModel, m.providers, m.tools)
	info := &types.SessionInfo{
		ID:         id,
		Title:      title,
		CreatedAt:  time.Now().UnixMilli(),
		LastActive: time.Now().UnixMilli(),
	}
	m.infos[id] = info

	event.Publish(event.Event{Type: event.SessionCreated, Data: &event.SessionCreatedData{Info: info}})
	return info
}

// List returns session metadata ordered by most recent activity.
func (m *Manager) List() []*types.SessionInfo {
	m.mu.RLock()
	defer m.mu.RUnlock()

	infos := make([]*types.SessionInfo, 0, len(m.infos))
	for _, info := range m.infos {
		c := *info
		infos = append(infos, &c)
	}
	sort.Slice(infos, func(i, j int) bool {
		return infos[i].LastActive > infos[j].LastActive
	})
	return infos
}

// Delete removes a session and its actor. Returns false when the session
// does not exist.
func (m *Manager) Delete(id string) bool {
	m.mu.Lock()
	info, ok := m.infos[id]
	if ok {
		delete(m.actors, id)
		delete(m.infos, id)
	}
	m.mu.Unlock()

	if ok {
		event.Publish(event.Event{Type: event.SessionDeleted, Data: &event.SessionDeletedData{Info: info}})
	}
	return ok
}

// Rename updates a session's title. Returns false when the session does
// not exist.
func (m *Manager) Rename(id, title string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	info, ok := m.infos[id]
	if !ok {
		return false
	}
	info.Title = title
	return true
}

// DeleteAll removes every session and returns how many were removed.
func (m *Manager) DeleteAll() int {
	m.mu.Lock()
	count := len(m.infos)
	m.actors = make(map[string]*Actor)
	m.infos = make(map[string]*types.SessionInfo)
	m.mu.Unlock()
	return count
}

// defaultTitle derives a listing title from the first user message, or the
// current time when there is none.
func defaultTitle(firstMessage string) string {
	now := time.Now().Format("01/02 15:04")

	firstMessage = strings.TrimSpace(firstMessage)
	if firstMessage == "" {
		return fmt.Sprintf("Chat %s", now)
	}

	clean := titleWhitespaceRE.ReplaceAllString(firstMessage, " ")
	runes := []rune(clean)
	if len(runes) > titleMaxLength {
		clean = string(runes[:titleMaxLength-3]) + "..."
	}
	return fmt.Sprintf("%s • %s", clean, now)
}
