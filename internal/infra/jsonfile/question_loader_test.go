package jsonfile

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

const sampleDocument = `{
  "easy": [
    {"id": 1, "text": "What council was in 325 AD?", "options": ["Nicaea", "Constantinople", "Ephesus", "Chalcedon"], "answer": "Nicaea", "council": "Nicaea", "heresyPoints": 1, "timeLimit": 30}
  ],
  "medium": [
    {"id": 1, "text": "Who founded the Jesuits?", "options": ["Ignatius Loyola", "Francis Xavier"], "answer": "Ignatius Loyola", "council": "Trent", "heresyPoints": 0.5, "timeLimit": 25}
  ],
  "hard": []
}`

func TestLoadQuestionSetFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "questions.json")
	if err := os.WriteFile(path, []byte(sampleDocument), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	set, err := NewQuestionSetLoader(path).LoadQuestionSet(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(set.Easy) != 1 || set.Easy[0].Council != "Nicaea" {
		t.Fatalf("unexpected easy tier: %+v", set.Easy)
	}
	if set.Medium[0].HeresyPoints != 0.5 {
		t.Fatalf("fractional heresy weight lost: %+v", set.Medium[0])
	}
	if len(set.Hard) != 0 {
		t.Fatalf("expected empty hard tier")
	}
}

func TestMissingFileErrors(t *testing.T) {
	_, err := NewQuestionSetLoader("/does/not/exist.json").LoadQuestionSet(context.Background())
	if err == nil {
		t.Fatalf("expected error for missing file")
	}
}

func TestMalformedDocumentErrors(t *testing.T) {
	path := filepath.Join(t.TempDir(), "questions.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	if _, err := NewQuestionSetLoader(path).LoadQuestionSet(context.Background()); err == nil {
		t.Fatalf("expected parse error")
	}
}
