package main

import (
	"fmt"
	"math"
	"math/rand"
	"time"
)

const (
	gradeExcellentAt = 80 // percent
	gradeGoodAt      = 50
)

func scorePercent(score, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(float64(score) * 100.0 / float64(total)))
}

func grade(percent int) string {
	switch {
	case percent >= gradeExcellentAt:
		return "excellent"
	case percent >= gradeGoodAt:
		return "good"
	default:
		return "poor"
	}
}

// formatElapsed renders seconds as m:ss.
func formatElapsed(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%d:%02d", seconds/60, seconds%60)
}

// shuffleCards returns the cards in random study order without touching the
// input. A seed makes the order reproducible.
func shuffleCards(cards []FlashcardCard, seed *int64) []FlashcardCard {
	var r *rand.Rand
	if seed != nil {
		r = rand.New(rand.NewSource(*seed))
	} else {
		r = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	out := append([]FlashcardCard(nil), cards...)
	r.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
	return out
}

type ReviewRow struct {
	Position      int      `json:"position"`
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	Selected      *int     `json:"selected"`
	CorrectAnswer int      `json:"correctAnswer"`
	Explanation   string   `json:"explanation,omitempty"`
	WasCorrect    bool     `json:"wasCorrect"`
}

type SessionResults struct {
	QuizTitle      string      `json:"quizTitle"`
	Score          int         `json:"score"`
	Total          int         `json:"total"`
	Wrong          int         `json:"wrong"`
	ScorePercent   int         `json:"scorePercent"`
	Grade          string      `json:"grade"`
	ElapsedSeconds int         `json:"elapsedSeconds"`
	Elapsed        string      `json:"elapsed"`
	Items          []ReviewRow `json:"items"`
}

// computeResults summarises a session; only confirmed answers count.
func computeResults(s *Session) SessionResults {
	q := s.Quiz()
	total := len(q.Questions)
	res := SessionResults{
		QuizTitle:      q.Title,
		Score:          s.Score(),
		Total:          total,
		Wrong:          total - s.Score(),
		ElapsedSeconds: s.Elapsed(),
		Elapsed:        formatElapsed(s.Elapsed()),
		Items:          make([]ReviewRow, 0, total),
	}
	res.ScorePercent = scorePercent(res.Score, total)
	res.Grade = grade(res.ScorePercent)

	for i, qq := range q.Questions {
		row := ReviewRow{
			Position:      i,
			Question:      qq.Question,
			Options:       qq.Options,
			CorrectAnswer: qq.CorrectAnswer,
			Explanation:   qq.Explanation,
		}
		if s.IsConfirmed(i) {
			v, _ := s.Answer(i)
			row.Selected = &v
			row.WasCorrect = v == qq.CorrectAnswer
		}
		res.Items = append(res.Items, row)
	}
	return res
}
