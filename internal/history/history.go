// Package history persists conversations in SQLite. The database is opened
// lazily and created on first use; if opening it fails the store degrades
// to in-memory operation so the relay keeps working without durability.
package history

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"sync"
	"time"

	_ "github.com/glebarez/go-sqlite"
	"github.com/google/uuid"

	"github.com/kiyotox/starbridge/internal/logger"
)

// ErrNotFound is returned when a conversation id is unknown.
var ErrNotFound = errors.New("conversation not found")

// Store keeps conversations in memory and mirrors every write to SQLite
// when the database is available.
type Store struct {
	mu       sync.Mutex
	convs    map[string]*Conversation
	order    []string
	greeting string

	dbOnce  sync.Once
	db      *sql.DB
	initErr error
	dbPath  string
}

// NewStore creates a Store. Every conversation it creates is seeded with
// greeting as the first assistant message.
func NewStore(greeting string) *Store {
	return &Store{
		convs:    make(map[string]*Conversation),
		greeting: greeting,
		dbPath:   os.Getenv("HISTORY_DB_PATH"),
	}
}

func (s *Store) initDB() {
	path := s.dbPath
	if path == "" {
		path = "history.db"
	}
	db, err := sql.Open("sqlite", "file:"+path+"?_busy_timeout=10000&_fk=1")
	if err != nil {
		s.initErr = err
		logger.L.Warn("sqlite open failed; using in-memory history", "error", err)
		return
	}
	if _, err = db.Exec(`CREATE TABLE IF NOT EXISTS conversations (
        id TEXT PRIMARY KEY,
        title TEXT,
        last_modified DATETIME
    );
    CREATE TABLE IF NOT EXISTS messages (
        seq INTEGER PRIMARY KEY AUTOINCREMENT,
        id TEXT,
        conversation_id TEXT,
        role TEXT,
        content TEXT,
        created_at DATETIME
    );`); err != nil {
		s.initErr = err
		logger.L.Warn("sqlite table creation failed; using in-memory history", "error", err)
		return
	}
	s.db = db
	logger.L.Info("sqlite history DB initialized", "path", path)
}

func (s *Store) database() *sql.DB {
	s.dbOnce.Do(s.initDB)
	if s.initErr != nil {
		return nil
	}
	return s.db
}

// Create starts a new conversation seeded with the greeting message, so a
// conversation never exists without at least one message.
func (s *Store) Create(ctx context.Context) (Conversation, error) {
	conv := &Conversation{
		ID:           uuid.NewString(),
		Title:        defaultTitle,
		LastModified: time.Now().UTC(),
	}
	greeting := newMessage(conv.ID, RoleAssistant, s.greeting)
	conv.Messages = append(conv.Messages, greeting)

	s.mu.Lock()
	s.convs[conv.ID] = conv
	s.order = append(s.order, conv.ID)
	snapshot := *conv
	s.mu.Unlock()

	if db := s.database(); db != nil {
		if _, err := db.ExecContext(ctx,
			`INSERT INTO conversations (id, title, last_modified) VALUES (?,?,?);`,
			conv.ID, conv.Title, conv.LastModified); err != nil {
			logger.L.Error("failed to store conversation in sqlite", "error", err)
		}
		s.persistMessage(ctx, greeting)
	}
	return snapshot, nil
}

// Append adds one message to a conversation. The first user message also
// sets the conversation title. Messages are never edited or reordered.
func (s *Store) Append(ctx context.Context, conversationID string, role Role, text string) (Message, error) {
	msg := newMessage(conversationID, role, text)

	s.mu.Lock()
	conv, ok := s.convs[conversationID]
	if !ok {
		s.mu.Unlock()
		return Message{}, ErrNotFound
	}
	conv.Messages = append(conv.Messages, msg)
	conv.LastModified = msg.CreatedAt
	if role == RoleUser && conv.Title == defaultTitle {
		conv.Title = deriveTitle(text)
	}
	title := conv.Title
	s.mu.Unlock()

	if db := s.database(); db != nil {
		s.persistMessage(ctx, msg)
		if _, err := db.ExecContext(ctx,
			`UPDATE conversations SET title = ?, last_modified = ? WHERE id = ?;`,
			title, msg.CreatedAt, conversationID); err != nil {
			logger.L.Error("failed to update conversation in sqlite", "error", err)
		}
	}
	return msg, nil
}

func (s *Store) persistMessage(ctx context.Context, msg Message) {
	db := s.database()
	if db == nil {
		return
	}
	if _, err := db.ExecContext(ctx,
		`INSERT INTO messages (id, conversation_id, role, content, created_at) VALUES (?,?,?,?,?);`,
		msg.ID, msg.ConversationID, msg.Role, msg.Text, msg.CreatedAt); err != nil {
		logger.L.Error("failed to store message in sqlite", "error", err)
	}
}

// Get returns a copy of one conversation with its messages in creation
// order.
func (s *Store) Get(ctx context.Context, conversationID string) (Conversation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	conv, ok := s.convs[conversationID]
	if !ok {
		return Conversation{}, ErrNotFound
	}
	out := *conv
	out.Messages = append([]Message(nil), conv.Messages...)
	return out, nil
}

// List returns all conversations in creation order, without their
// messages.
func (s *Store) List(ctx context.Context) []Conversation {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Conversation, 0, len(s.order))
	for _, id := range s.order {
		conv := s.convs[id]
		out = append(out, Conversation{
			ID:           conv.ID,
			Title:        conv.Title,
			LastModified: conv.LastModified,
		})
	}
	return out
}

// Clear drops every conversation, in memory and on disk. Conversations are
// never deleted individually; this is the only destructive operation.
func (s *Store) Clear(ctx context.Context) error {
	s.mu.Lock()
	s.convs = make(map[string]*Conversation)
	s.order = nil
	s.mu.Unlock()

	if db := s.database(); db != nil {
		if _, err := db.ExecContext(ctx, `DELETE FROM messages; DELETE FROM conversations;`); err != nil {
			return err
		}
	}
	return nil
}

// Close releases the underlying database, if one was opened.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}
