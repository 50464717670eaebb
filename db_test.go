package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestAttemptAnswersAssociation(t *testing.T) {
	db := newTestDB(t)
	require.True(t, db.Migrator().HasColumn(&AttemptAnswer{}, "attempt_id"))

	a := &QuizAttempt{
		ID: "a1", UserID: 1, SessionID: "s1", Subject: "test", QuizID: "basics", QuizTitle: "Basics",
		Score: 1, Total: 2, StartedAt: time.Now(), FinishedAt: time.Now(),
		Answers: []AttemptAnswer{{Position: 0, Correct: 0}, {Position: 1, Correct: 1}},
	}
	require.NoError(t, saveAttempt(db, a))

	var got QuizAttempt
	require.NoError(t, db.Preload("Answers").First(&got, "id = ?", "a1").Error)
	require.Len(t, got.Answers, 2)
	for _, ans := range got.Answers {
		require.Equal(t, "a1", ans.AttemptID)
	}
}
