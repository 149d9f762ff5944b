package llm

import (
	"context"
	"testing"
)

func TestExtractivePicksKeywordSentences(t *testing.T) {
	answer, err := Extractive{}.Answer(context.Background(), AnswerRequest{
		Question: "How does Gazebo load sensors?",
		Passages: []Passage{
			{Text: "Isaac Sim renders scenes. Gazebo loads sensors from SDF plugins. Lidar is common."},
		},
	})
	if err != nil {
		t.Fatalf("answer: %v", err)
	}
	if answer != "Gazebo loads sensors from SDF plugins." {
		t.Fatalf("unexpected answer: %q", answer)
	}
}

func TestExtractiveFallbacks(t *testing.T) {
	answer, err := Extractive{}.Answer(context.Background(), AnswerRequest{Question: "quaternions?"})
	if err != nil {
		t.Fatalf("answer: %v", err)
	}
	if answer != NoContextAnswer {
		t.Fatalf("expected no-context answer, got %q", answer)
	}

	answer, err = Extractive{}.Answer(context.Background(), AnswerRequest{
		Question:     "Explain this",
		SelectedText: "Joints connect links. They have limits.",
	})
	if err != nil {
		t.Fatalf("answer: %v", err)
	}
	if answer != "Joints connect links." {
		t.Fatalf("expected first selected sentence, got %q", answer)
	}
}
