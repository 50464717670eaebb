package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"time"

	"github.com/samber/lo"
)

// ==== manifest structures ====

type ManifestQuiz struct {
	QuizMetadata
	Subject string `json:"subject"`
	URL     string `json:"url"`
}

type ManifestFlashcards struct {
	FlashcardMetadata
	Subject string `json:"subject"`
	URL     string `json:"url"`
}

// Manifest is a snapshot of every subject's content, suitable for serving
// as a static file.
type Manifest struct {
	AudioMaterials []AudioMaterial      `json:"audioMaterials"`
	Materials      []Material           `json:"materials"`
	Flashcards     []ManifestFlashcards `json:"flashcards"`
	Quizzes        []ManifestQuiz       `json:"quizzes"`
	Subjects       []string             `json:"subjects"`
	GeneratedAt    time.Time            `json:"generatedAt"`
}

// ==== builder ====

func BuildManifest(ci *ContentIndex) (*Manifest, error) {
	subjects, err := ci.Subjects()
	if err != nil {
		return nil, err
	}
	m := &Manifest{
		AudioMaterials: []AudioMaterial{},
		Materials:      []Material{},
		Flashcards:     []ManifestFlashcards{},
		Quizzes:        []ManifestQuiz{},
	}

	for _, subj := range subjects {
		audio, err := ci.ListAudio(subj)
		if err != nil {
			return nil, fmt.Errorf("audio of %s: %w", subj, err)
		}
		m.AudioMaterials = append(m.AudioMaterials, audio...)

		mats, err := ci.ListMaterials(subj)
		if err != nil {
			return nil, fmt.Errorf("materials of %s: %w", subj, err)
		}
		m.Materials = append(m.Materials, mats...)

		if err := m.addFlashcards(ci, subj); err != nil {
			return nil, err
		}
		if err := m.addQuizzes(ci, subj); err != nil {
			return nil, err
		}
	}

	// newest first
	sort.SliceStable(m.AudioMaterials, func(i, j int) bool {
		return m.AudioMaterials[i].CreatedAt.After(m.AudioMaterials[j].CreatedAt)
	})
	sort.SliceStable(m.Materials, func(i, j int) bool {
		return m.Materials[i].CreatedAt.After(m.Materials[j].CreatedAt)
	})
	sort.SliceStable(m.Flashcards, func(i, j int) bool {
		return m.Flashcards[i].CreatedAt.After(m.Flashcards[j].CreatedAt)
	})
	sort.SliceStable(m.Quizzes, func(i, j int) bool {
		return m.Quizzes[i].CreatedAt.After(m.Quizzes[j].CreatedAt)
	})

	// subjects that actually carry content
	var withContent []string
	withContent = append(withContent, lo.Map(m.AudioMaterials, func(a AudioMaterial, _ int) string { return a.Subject })...)
	withContent = append(withContent, lo.Map(m.Materials, func(a Material, _ int) string { return a.Subject })...)
	withContent = append(withContent, lo.Map(m.Flashcards, func(a ManifestFlashcards, _ int) string { return a.Subject })...)
	withContent = append(withContent, lo.Map(m.Quizzes, func(a ManifestQuiz, _ int) string { return a.Subject })...)
	m.Subjects = lo.Uniq(withContent)
	if m.Subjects == nil {
		m.Subjects = []string{}
	}

	m.GeneratedAt = time.Now().UTC()
	return m, nil
}

func (m *Manifest) addQuizzes(ci *ContentIndex, subj string) error {
	quizzes, err := ci.ListQuizzes(subj)
	if err != nil {
		return fmt.Errorf("quizzes of %s: %w", subj, err)
	}
	for _, q := range quizzes {
		m.Quizzes = append(m.Quizzes, ManifestQuiz{
			QuizMetadata: q,
			Subject:      subj,
			URL:          itemURL(quizzesDir, q.ID, subj),
		})
	}
	return nil
}

func (m *Manifest) addFlashcards(ci *ContentIndex, subj string) error {
	sets, err := ci.ListFlashcards(subj)
	if err != nil {
		return fmt.Errorf("flashcards of %s: %w", subj, err)
	}
	for _, f := range sets {
		m.Flashcards = append(m.Flashcards, ManifestFlashcards{
			FlashcardMetadata: f,
			Subject:           subj,
			URL:               itemURL(flashcardsDir, f.ID, subj),
		})
	}
	return nil
}

// WriteManifest builds the manifest and writes it to path as indented JSON.
func WriteManifest(ci *ContentIndex, path string) (*Manifest, error) {
	m, err := BuildManifest(ci)
	if err != nil {
		return nil, err
	}
	raw, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode manifest: %w", err)
	}
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		return nil, fmt.Errorf("write manifest: %w", err)
	}
	slog.Info("manifest generated",
		"path", path,
		"audioMaterials", len(m.AudioMaterials),
		"materials", len(m.Materials),
		"flashcards", len(m.Flashcards),
		"quizzes", len(m.Quizzes),
		"subjects", m.Subjects,
	)
	return m, nil
}
