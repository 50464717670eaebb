package main

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
)

// subjectOf returns ?subject=, falling back to the configured default.
func subjectOf(c *gin.Context, def string) string {
	if s := strings.TrimSpace(c.Query("subject")); s != "" {
		return s
	}
	return def
}

// abortWithContentError maps content errors to HTTP: not found is 404,
// anything else a 500 with a generic message.
func abortWithContentError(c *gin.Context, err error, what string) {
	if errors.Is(err, ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": what + " not found"})
		return
	}
	slog.Error("load content", "what", what, "path", c.Request.URL.Path, "err", err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load " + what})
}

/*** Subjects & manifest ***/

func ListSubjects(ci *ContentIndex) gin.HandlerFunc {
	return func(c *gin.Context) {
		subjects, err := ci.Subjects()
		if err != nil {
			slog.Error("list subjects", "err", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list subjects", "subjects": []string{}})
			return
		}
		c.JSON(http.StatusOK, gin.H{"subjects": subjects})
	}
}

func GetManifest(ci *ContentIndex) gin.HandlerFunc {
	return func(c *gin.Context) {
		m, err := BuildManifest(ci)
		if err != nil {
			slog.Error("build manifest", "err", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to build manifest"})
			return
		}
		c.JSON(http.StatusOK, m)
	}
}

/*** Quizzes ***/

func ListQuizzes(ci *ContentIndex, defSubject string) gin.HandlerFunc {
	return func(c *gin.Context) {
		quizzes, err := ci.ListQuizzes(subjectOf(c, defSubject))
		if err != nil {
			slog.Error("list quizzes", "err", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list quizzes", "quizzes": []QuizMetadata{}})
			return
		}
		quizzes = filterByTitle(quizzes, c.Query("q"), func(q QuizMetadata) string { return q.Title })
		c.JSON(http.StatusOK, gin.H{"quizzes": quizzes})
	}
}

func GetQuiz(ci *ContentIndex, defSubject string) gin.HandlerFunc {
	return func(c *gin.Context) {
		q, err := ci.LoadQuiz(subjectOf(c, defSubject), c.Param("id"))
		if err != nil {
			abortWithContentError(c, err, "quiz")
			return
		}
		c.JSON(http.StatusOK, q)
	}
}

/*** Materials ***/

func ListMaterials(ci *ContentIndex, defSubject string) gin.HandlerFunc {
	return func(c *gin.Context) {
		mats, err := ci.ListMaterials(subjectOf(c, defSubject))
		if err != nil {
			slog.Error("list materials", "err", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list materials", "materials": []Material{}})
			return
		}
		mats = filterByTitle(mats, c.Query("q"), func(m Material) string { return m.Title })
		c.JSON(http.StatusOK, gin.H{"materials": mats})
	}
}

func GetMaterial(ci *ContentIndex, defSubject string) gin.HandlerFunc {
	return func(c *gin.Context) {
		m, err := ci.LoadMaterial(subjectOf(c, defSubject), c.Param("id"))
		if err != nil {
			abortWithContentError(c, err, "material")
			return
		}
		c.JSON(http.StatusOK, m)
	}
}

/*** Audio ***/

func ListAudio(ci *ContentIndex, defSubject string) gin.HandlerFunc {
	return func(c *gin.Context) {
		audio, err := ci.ListAudio(subjectOf(c, defSubject))
		if err != nil {
			slog.Error("list audio materials", "err", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list audio materials", "audioMaterials": []AudioMaterial{}})
			return
		}
		audio = filterByTitle(audio, c.Query("q"), func(a AudioMaterial) string { return a.Title })
		c.JSON(http.StatusOK, gin.H{"audioMaterials": audio})
	}
}

func GetAudioInfo(ci *ContentIndex, defSubject string) gin.HandlerFunc {
	return func(c *gin.Context) {
		a, err := ci.AudioInfo(subjectOf(c, defSubject), c.Param("id"))
		if err != nil {
			abortWithContentError(c, err, "audio material")
			return
		}
		c.JSON(http.StatusOK, a)
	}
}

// StreamAudio serves the audio bytes. c.File answers Range requests so
// players can seek.
func StreamAudio(ci *ContentIndex, defSubject string) gin.HandlerFunc {
	return func(c *gin.Context) {
		path, err := ci.AudioPath(subjectOf(c, defSubject), c.Param("id"))
		if err != nil {
			abortWithContentError(c, err, "audio material")
			return
		}
		c.File(path)
	}
}

/*** Flashcards ***/

func ListFlashcards(ci *ContentIndex, defSubject string) gin.HandlerFunc {
	return func(c *gin.Context) {
		sets, err := ci.ListFlashcards(subjectOf(c, defSubject))
		if err != nil {
			slog.Error("list flashcards", "err", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list flashcards", "flashcards": []FlashcardMetadata{}})
			return
		}
		sets = filterByTitle(sets, c.Query("q"), func(f FlashcardMetadata) string { return f.Title })
		c.JSON(http.StatusOK, gin.H{"flashcards": sets})
	}
}

// GetFlashcardSet returns one set. ?shuffle=1 returns the cards in random
// order, reproducible with ?seed=.
func GetFlashcardSet(ci *ContentIndex, defSubject string) gin.HandlerFunc {
	return func(c *gin.Context) {
		set, err := ci.LoadFlashcardSet(subjectOf(c, defSubject), c.Param("id"))
		if err != nil {
			abortWithContentError(c, err, "flashcard set")
			return
		}
		if shuffle, _ := strconv.ParseBool(c.Query("shuffle")); shuffle {
			var seed *int64
			if s := c.Query("seed"); s != "" {
				n, err := strconv.ParseInt(s, 10, 64)
				if err != nil {
					c.JSON(http.StatusBadRequest, gin.H{"error": "seed must be an integer"})
					return
				}
				seed = &n
			}
			set.Cards = shuffleCards(set.Cards, seed)
		}
		c.JSON(http.StatusOK, set)
	}
}
