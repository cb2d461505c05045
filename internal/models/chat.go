package models

type ChatSession struct {
	BaseModel
	UserID   string  `gorm:"type:uuid;not null;index" json:"user_id"`
	Title    *string `gorm:"type:varchar(255)" json:"title,omitempty"`
	IsActive bool    `gorm:"default:true" json:"is_active"`

	// Сообщения удаляются вместе с сессией на уровне внешнего ключа
	Messages []ChatMessage `gorm:"foreignKey:SessionID;constraint:OnDelete:CASCADE" json:"-"`
}

type ChatMessage struct {
	BaseModel
	SessionID     string `gorm:"type:uuid;not null;index" json:"session_id"`
	Content       string `gorm:"type:text;not null" json:"content"`
	IsUserMessage bool   `gorm:"not null" json:"is_user_message"`

	// Метаданные ответа AI (только для сообщений от модели)
	AIModel        *string `gorm:"type:varchar(100)" json:"ai_model,omitempty"`
	ProcessingTime *int    `json:"processing_time,omitempty"` // миллисекунды
}
