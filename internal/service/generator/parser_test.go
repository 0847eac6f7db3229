package generator

import (
	"reflect"
	"testing"
)

func TestParseQuestionsJSONObject(t *testing.T) {
	raw := `{"questions": ["What is a goroutine?", "Explain channels."]}`

	got, err := ParseQuestions(raw, 10)
	if err != nil {
		t.Fatalf("ParseQuestions err: %v", err)
	}

	want := []string{"What is a goroutine?", "Explain channels."}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v want %v", got, want)
	}
}

func TestParseQuestionsBracketSpan(t *testing.T) {
	raw := "Here are the questions you asked for:\n[\"Explain REST.\", \"What is SQL injection?\"]\nGood luck!"

	got, err := ParseQuestions(raw, 10)
	if err != nil {
		t.Fatalf("ParseQuestions err: %v", err)
	}

	want := []string{"Explain REST.", "What is SQL injection?"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v want %v", got, want)
	}
}

func TestParseQuestionsNumberedLines(t *testing.T) {
	raw := "1. Explain X\n2. Explain Y"

	got, err := ParseQuestions(raw, 10)
	if err != nil {
		t.Fatalf("ParseQuestions err: %v", err)
	}

	want := []string{"Explain X", "Explain Y"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v want %v", got, want)
	}
}

func TestParseQuestionsBullets(t *testing.T) {
	raw := "- What is Docker?\n\n* Explain CI/CD.\n• Describe your testing approach.\n"

	got, err := ParseQuestions(raw, 10)
	if err != nil {
		t.Fatalf("ParseQuestions err: %v", err)
	}

	want := []string{"What is Docker?", "Explain CI/CD.", "Describe your testing approach."}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v want %v", got, want)
	}
}

func TestParseQuestionsCodeFence(t *testing.T) {
	raw := "```json\n{\"questions\": [\"Explain indexes.\"]}\n```"

	got, err := ParseQuestions(raw, 10)
	if err != nil {
		t.Fatalf("ParseQuestions err: %v", err)
	}
	if len(got) != 1 || got[0] != "Explain indexes." {
		t.Fatalf("unexpected result: %v", got)
	}
}

func TestParseQuestionsTruncates(t *testing.T) {
	raw := `["a", "b", "c", "d"]`

	got, err := ParseQuestions(raw, 2)
	if err != nil {
		t.Fatalf("ParseQuestions err: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 questions, got %d", len(got))
	}
}

func TestParseQuestionsEmpty(t *testing.T) {
	if _, err := ParseQuestions("\n\n   \n", 5); err == nil {
		t.Fatal("expected error for blank response")
	}
}

func TestParseQuestionsProseFallsBackToLines(t *testing.T) {
	raw := "Tell me about yourself.\nWhy do you want this job?"

	got, err := ParseQuestions(raw, 10)
	if err != nil {
		t.Fatalf("ParseQuestions err: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 lines, got %v", got)
	}
}
