package store

import "time"

// UseCase is one registered use case: a natural-language description plus
// the agent team the architect proposed for it.
type UseCase struct {
	ID          int64             `gorm:"primaryKey;autoIncrement" json:"id"`
	Description string            `gorm:"size:255;not null" json:"description"`
	CreatedAt   time.Time         `json:"created_at"`
	Agents      []AgentDefinition `gorm:"foreignKey:UseCaseID;constraint:OnDelete:CASCADE" json:"agents"`
	Conversations []Conversation  `gorm:"foreignKey:UseCaseID;constraint:OnDelete:CASCADE" json:"conversations,omitempty"`
}

// AgentDefinition is one specialist of a use case's roster. Position
// preserves roster order; the architect's ordering is significant (the last
// agent is the consolidator).
type AgentDefinition struct {
	ID               int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	UseCaseID        int64  `gorm:"index;not null" json:"-"`
	Position         int    `gorm:"not null" json:"-"`
	Role             string `gorm:"size:100;not null" json:"role"`
	Responsibilities string `gorm:"type:text" json:"responsibilities"`
}

// Conversation is one run of the execution engine against a use case.
type Conversation struct {
	ID        int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	UseCaseID int64           `gorm:"index;not null" json:"-"`
	StartTime time.Time       `gorm:"autoCreateTime" json:"start_time"`
	Messages  []MessageRecord `gorm:"foreignKey:ConversationID;constraint:OnDelete:CASCADE" json:"messages,omitempty"`
}

// MessageRecord is one transcript entry. SenderRole mirrors the in-memory
// message sender: a specialist role name, "user", or "supervisor".
type MessageRecord struct {
	ID             int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	ConversationID int64     `gorm:"index;not null" json:"-"`
	SenderRole     string    `gorm:"size:100;not null" json:"sender_role"`
	Content        string    `gorm:"type:text;not null" json:"content"`
	Timestamp      time.Time `json:"timestamp"`
}

// TableName keeps the legacy table name for use cases.
func (UseCase) TableName() string { return "use_cases" }

// TableName keeps the legacy table name for agent definitions.
func (AgentDefinition) TableName() string { return "agent_definitions" }

// TableName keeps the legacy table name for conversations.
func (Conversation) TableName() string { return "conversations" }

// TableName keeps the legacy table name for messages.
func (MessageRecord) TableName() string { return "messages" }
