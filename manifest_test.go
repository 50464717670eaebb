package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBuildManifest(t *testing.T) {
	ci := newTestContent(t)
	m, err := BuildManifest(ci)
	require.NoError(t, err)

	require.Len(t, m.Quizzes, 3)
	require.Len(t, m.Materials, 2)
	require.Len(t, m.AudioMaterials, 2)
	require.Len(t, m.Flashcards, 2)

	// newest first across subjects
	require.Equal(t, "untitled", m.Quizzes[0].ID)
	require.Equal(t, "new_notes", m.Materials[0].ID)
	require.Equal(t, "nouns", m.Flashcards[0].ID)

	for i, q := range m.Quizzes {
		require.False(t, q.CreatedAt.IsZero())
		if i > 0 {
			require.False(t, q.CreatedAt.After(m.Quizzes[i-1].CreatedAt), "quizzes are newest first")
		}
		require.NotEmpty(t, q.Subject)
		require.Contains(t, q.URL, "/api/v1/quiz/"+q.ID)
	}

	// Biologia has no content, so it is not listed
	require.ElementsMatch(t, []string{"test", "źródła"}, m.Subjects)
	require.False(t, m.GeneratedAt.IsZero())
}

func TestWriteManifest(t *testing.T) {
	ci := newTestContent(t)
	path := filepath.Join(t.TempDir(), "manifest.json")

	_, err := WriteManifest(ci, path)
	require.NoError(t, err)

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	var decoded map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(raw, &decoded))
	for _, key := range []string{"audioMaterials", "materials", "flashcards", "quizzes", "subjects", "generatedAt"} {
		require.Contains(t, decoded, key)
	}

	var quizzes []map[string]any
	require.NoError(t, json.Unmarshal(decoded["quizzes"], &quizzes))
	require.Len(t, quizzes, 3)
	require.Contains(t, quizzes[0], "questionCount")
	require.Contains(t, quizzes[0], "subject")
	require.Contains(t, quizzes[0], "createdAt")
}

func TestBuildManifestEmptyRoot(t *testing.T) {
	m, err := BuildManifest(NewContentIndex(t.TempDir()))
	require.NoError(t, err)
	require.Empty(t, m.Quizzes)
	require.NotNil(t, m.Subjects)
	require.Empty(t, m.Subjects)
}
