package dto

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestCharacterRequestUnmarshalJSON(t *testing.T) {
	t.Run("freeform string", func(t *testing.T) {
		var req CharacterRequest
		if err := json.Unmarshal([]byte(`"a tired detective with a limp"`), &req); err != nil {
			t.Fatalf("Unmarshal error = %v", err)
		}
		if req.Freeform != "a tired detective with a limp" {
			t.Errorf("Freeform = %q", req.Freeform)
		}
		if req.Name != "" || req.Description != "" {
			t.Error("structured fields set for a freeform payload")
		}
	})

	t.Run("structured object", func(t *testing.T) {
		payload := `{"name":"Mara","description":"a cartographer","quirks":["hums"],"contradictions":"fears maps"}`
		var req CharacterRequest
		if err := json.Unmarshal([]byte(payload), &req); err != nil {
			t.Fatalf("Unmarshal error = %v", err)
		}
		if req.Name != "Mara" || req.Description != "a cartographer" {
			t.Errorf("structured fields = %+v", req)
		}
		if len(req.Quirks) != 1 || req.Quirks[0] != "hums" {
			t.Errorf("Quirks = %v", req.Quirks)
		}
		if req.Freeform != "" {
			t.Errorf("Freeform = %q for a structured payload", req.Freeform)
		}
	})

	t.Run("inside generate request", func(t *testing.T) {
		payload := `{"idea":"x","character":"just a string profile"}`
		var req GenerateStoryRequest
		if err := json.Unmarshal([]byte(payload), &req); err != nil {
			t.Fatalf("Unmarshal error = %v", err)
		}
		if req.Character == nil || req.Character.Freeform != "just a string profile" {
			t.Errorf("Character = %+v", req.Character)
		}
	})
}

func TestCharacterRequestToProfile(t *testing.T) {
	var nilReq *CharacterRequest
	if nilReq.ToProfile() != nil {
		t.Error("nil request should map to nil profile")
	}

	empty := &CharacterRequest{Name: "   "}
	if empty.ToProfile() != nil {
		t.Error("whitespace-only request should map to nil profile")
	}

	req := &CharacterRequest{Name: " Mara ", Freeform: " raw text "}
	p := req.ToProfile()
	if p == nil {
		t.Fatal("ToProfile() = nil")
	}
	if p.Name != "Mara" || p.Freeform != "raw text" {
		t.Errorf("profile fields not trimmed: %+v", p)
	}
}

func TestGenerateStoryRequestValidate(t *testing.T) {
	tests := []struct {
		name    string
		req     GenerateStoryRequest
		wantErr bool
	}{
		{name: "valid", req: GenerateStoryRequest{Idea: "a heist in reverse"}, wantErr: false},
		{name: "missing idea", req: GenerateStoryRequest{}, wantErr: true},
		{name: "whitespace idea", req: GenerateStoryRequest{Idea: "   "}, wantErr: true},
		{name: "idea too long", req: GenerateStoryRequest{Idea: strings.Repeat("a", maxIdeaLength+1)}, wantErr: true},
		{name: "theme too long", req: GenerateStoryRequest{Idea: "x", Theme: strings.Repeat("a", maxThemeLength+1)}, wantErr: true},
		{name: "negative max words", req: GenerateStoryRequest{Idea: "x", MaxWords: -1}, wantErr: true},
		{name: "zero max words allowed", req: GenerateStoryRequest{Idea: "x", MaxWords: 0}, wantErr: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestReviseStoryRequestValidate(t *testing.T) {
	tests := []struct {
		name    string
		req     ReviseStoryRequest
		wantErr bool
	}{
		{name: "valid", req: ReviseStoryRequest{Feedback: []string{"darker ending"}}, wantErr: false},
		{name: "empty feedback", req: ReviseStoryRequest{}, wantErr: true},
		{name: "blank item", req: ReviseStoryRequest{Feedback: []string{"ok", "  "}}, wantErr: true},
		{name: "too many items", req: ReviseStoryRequest{Feedback: make([]string, maxFeedbackItems+1)}, wantErr: true},
		{name: "item too long", req: ReviseStoryRequest{Feedback: []string{strings.Repeat("a", maxFeedbackLength+1)}}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
