package dbschema

import (
	"database/sql/driver"
	"encoding/json"

	"gorm.io/datatypes"

	"menloresearch/meteobot-server/internal/domain/conversation"
	"menloresearch/meteobot-server/internal/infrastructure/database"
)

func init() {
	database.RegisterSchemaForAutoMigrate(Conversation{})
	database.RegisterSchemaForAutoMigrate(Message{})
}

// Conversation represents the database schema for conversations
type Conversation struct {
	BaseModel
	PublicID string         `gorm:"type:varchar(50);uniqueIndex;not null"`
	Title    *string        `gorm:"type:varchar(255)"`
	Metadata datatypes.JSON `gorm:"type:jsonb"`

	Messages []Message `gorm:"foreignKey:ConversationID;constraint:OnDelete:CASCADE"`
}

// Message represents the database schema for conversation messages
type Message struct {
	BaseModel
	ConversationID uint         `gorm:"index:idx_message_conversation_created;not null"`
	Conversation   Conversation `gorm:"foreignKey:ConversationID"`
	PublicID       string       `gorm:"type:varchar(50);uniqueIndex;not null"`
	Content        string       `gorm:"type:text;not null"`
	SenderRole     string       `gorm:"type:varchar(20);not null"`
	Metadata       JSONMap      `gorm:"type:jsonb"`
}

// JSONMap is a custom type for map[string]string stored as JSON
type JSONMap map[string]string

func (j JSONMap) Value() (driver.Value, error) {
	if j == nil {
		return nil, nil
	}
	return json.Marshal(j)
}

func (j *JSONMap) Scan(value any) error {
	if value == nil {
		*j = nil
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		return nil
	}
	return json.Unmarshal(bytes, j)
}

// NewSchemaConversation creates a database schema from domain conversation
func NewSchemaConversation(c *conversation.Conversation) (*Conversation, error) {
	var metadata datatypes.JSON
	if len(c.Metadata) > 0 {
		data, err := json.Marshal(c.Metadata)
		if err != nil {
			return nil, err
		}
		metadata = datatypes.JSON(data)
	}

	return &Conversation{
		BaseModel: BaseModel{
			ID:        c.ID,
			CreatedAt: c.CreatedAt,
			UpdatedAt: c.UpdatedAt,
		},
		PublicID: c.PublicID,
		Title:    c.Title,
		Metadata: metadata,
	}, nil
}

// EtoD converts database schema to domain conversation (Entity to Domain)
func (c *Conversation) EtoD() (*conversation.Conversation, error) {
	var metadata map[string]string
	if len(c.Metadata) > 0 {
		if err := json.Unmarshal(c.Metadata, &metadata); err != nil {
			return nil, err
		}
	}

	conv := &conversation.Conversation{
		ID:        c.ID,
		PublicID:  c.PublicID,
		Title:     c.Title,
		Metadata:  metadata,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}

	for _, msg := range c.Messages {
		conv.Messages = append(conv.Messages, *msg.EtoD())
	}

	return conv, nil
}

// NewSchemaMessage creates a database schema from domain message
func NewSchemaMessage(m *conversation.Message) *Message {
	return &Message{
		BaseModel: BaseModel{
			ID:        m.ID,
			CreatedAt: m.CreatedAt,
		},
		ConversationID: m.ConversationID,
		PublicID:       m.PublicID,
		Content:        m.Content,
		SenderRole:     string(m.Role),
		Metadata:       JSONMap(m.Metadata),
	}
}

// EtoD converts database schema to domain message (Entity to Domain)
func (m *Message) EtoD() *conversation.Message {
	return &conversation.Message{
		ID:             m.ID,
		ConversationID: m.ConversationID,
		PublicID:       m.PublicID,
		Content:        m.Content,
		Role:           conversation.Role(m.SenderRole),
		Metadata:       map[string]string(m.Metadata),
		CreatedAt:      m.CreatedAt,
	}
}
