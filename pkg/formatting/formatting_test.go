package formatting_test

import (
	"errors"
	"testing"

	"github.com/JaimeStill/compass/pkg/formatting"
)

type question struct {
	QuestionText string   `json:"questionText"`
	AnswerType   string   `json:"answerType"`
	Options      []string `json:"options"`
}

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{
			name:    "bare json",
			content: `{"questionText":"Do you have an AI strategy?","answerType":"radio"}`,
			want:    "Do you have an AI strategy?",
		},
		{
			name:    "code fence",
			content: "```json\n{\"questionText\":\"How clean is your data?\",\"answerType\":\"scale\"}\n```",
			want:    "How clean is your data?",
		},
		{
			name:    "prose wrapped",
			content: "Here is the next question:\n{\"questionText\":\"Which tools do you use?\",\"answerType\":\"checkbox\"}\nGood luck!",
			want:    "Which tools do you use?",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := formatting.Parse[question](tt.content)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got.QuestionText != tt.want {
				t.Errorf("questionText: got %q, want %q", got.QuestionText, tt.want)
			}
		})
	}
}

func TestParseFailure(t *testing.T) {
	_, err := formatting.Parse[question]("not json at all")
	if !errors.Is(err, formatting.ErrParseFailed) {
		t.Fatalf("expected ErrParseFailed, got %v", err)
	}
}

func TestParseBytes(t *testing.T) {
	tests := []struct {
		in   string
		want int64
	}{
		{"512", 512},
		{"1KB", 1024},
		{"1 mb", 1024 * 1024},
		{"1.5KB", 1536},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := formatting.ParseBytes(tt.in)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %d, want %d", got, tt.want)
			}
		})
	}

	if _, err := formatting.ParseBytes("ten"); err == nil {
		t.Error("expected error for invalid size")
	}
}

func TestFormatBytes(t *testing.T) {
	if got := formatting.FormatBytes(1024*1024, 1); got != "1.0 MB" {
		t.Errorf("got %s, want 1.0 MB", got)
	}
	if got := formatting.FormatBytes(0, 2); got != "0 B" {
		t.Errorf("got %s, want 0 B", got)
	}
}
