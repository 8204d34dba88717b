package models

// ChatMessageModel logs every answered (or rejected) visitor question.
type ChatMessageModel struct {
	Base
	Query        string `json:"query"         gorm:"type:text;not null"`
	Answer       string `json:"answer"        gorm:"type:text"`
	Style        string `json:"style"         gorm:"index;default:'general'"` // audience style
	Lang         string `json:"lang"          gorm:"default:'default'"`
	Rejected     bool   `json:"rejected"      gorm:"index"`
	ProcessingMS int64  `json:"processing_ms"`
}

func (ChatMessageModel) TableName() string { return "chat_messages" }

// AnswerCacheModel caches validated answers so repeated questions skip generation.
type AnswerCacheModel struct {
	Base
	Hash   string `json:"hash"   gorm:"uniqueIndex;not null"` // hash(query + style + lang)
	Query  string `json:"query"  gorm:"type:text;not null"`
	Answer string `json:"answer" gorm:"type:text;not null"`
	Style  string `json:"style"  gorm:"index;default:'general'"`
	Lang   string `json:"lang"   gorm:"default:'default'"`
}

func (AnswerCacheModel) TableName() string { return "answer_caches" }
