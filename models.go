package main

import (
	"time"
)

// --- User ---

type User struct {
	ID          uint   `gorm:"primaryKey"`
	PublicID    string `gorm:"uniqueIndex;size:36;not null"` // UUID carried in the cookie
	DisplayName *string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// --- Quiz content ---

type Question struct {
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	CorrectAnswer int      `json:"correctAnswer"`
	Explanation   string   `json:"explanation,omitempty"`
}

type Quiz struct {
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Questions   []Question `json:"questions"`
}

type QuizMetadata struct {
	ID            string    `json:"id"`
	Filename      string    `json:"filename"`
	Title         string    `json:"title"`
	Description   string    `json:"description"`
	QuestionCount int       `json:"questionCount"`
	CreatedAt     time.Time `json:"createdAt"`
}

// --- Materials ---

type Material struct {
	ID        string    `json:"id"`
	Filename  string    `json:"filename"`
	Title     string    `json:"title"`
	Subject   string    `json:"subject"`
	Size      int64     `json:"size"`
	CreatedAt time.Time `json:"createdAt"`
	URL       string    `json:"url"`
}

type MaterialContent struct {
	ID        string    `json:"id"`
	Filename  string    `json:"filename"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Size      int64     `json:"size"`
	CreatedAt time.Time `json:"createdAt"`
}

type AudioMaterial struct {
	ID        string    `json:"id"`
	Filename  string    `json:"filename"`
	Title     string    `json:"title"`
	Subject   string    `json:"subject"`
	Format    string    `json:"format"`
	Size      int64     `json:"size"`
	CreatedAt time.Time `json:"createdAt"`
	URL       string    `json:"url"`
}

// --- Flashcards ---

type FlashcardCard struct {
	ID    int    `json:"id"`
	Front string `json:"front"`
	Back  string `json:"back"`
}

type FlashcardSet struct {
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Category    string          `json:"category"`
	Cards       []FlashcardCard `json:"cards"`
}

type FlashcardMetadata struct {
	ID          string    `json:"id"`
	Filename    string    `json:"filename"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Category    string    `json:"category"`
	CardCount   int       `json:"cardCount"`
	CreatedAt   time.Time `json:"createdAt"`
}

// --- Attempts (finished quiz sessions) ---

type QuizAttempt struct {
	ID             string          `gorm:"primaryKey;size:36" json:"id"`
	UserID         uint            `gorm:"index;not null" json:"-"`
	SessionID      string          `gorm:"size:36;not null" json:"sessionId"`
	Subject        string          `gorm:"size:128;not null" json:"subject"`
	QuizID         string          `gorm:"size:255;not null" json:"quizId"`
	QuizTitle      string          `gorm:"not null" json:"quizTitle"`
	Score          int             `gorm:"not null" json:"score"`
	Total          int             `gorm:"not null" json:"total"`
	ElapsedSeconds int             `gorm:"not null" json:"elapsedSeconds"`
	StartedAt      time.Time       `gorm:"not null" json:"startedAt"`
	FinishedAt     time.Time       `gorm:"not null" json:"finishedAt"`
	Answers        []AttemptAnswer `gorm:"foreignKey:AttemptID" json:"answers,omitempty"`
}

type AttemptAnswer struct {
	ID        uint   `gorm:"primaryKey" json:"-"`
	AttemptID string `gorm:"index;not null" json:"-"`
	Position  int    `gorm:"not null" json:"position"` // 0..N-1
	Selected  *int   `json:"selected"`                 // nil = unanswered
	Correct   int    `gorm:"not null" json:"correct"`
	IsCorrect bool   `gorm:"not null" json:"isCorrect"`
}
