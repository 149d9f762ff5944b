package devserver

import (
	"encoding/json"
	"fmt"
	"net/http"
	"regexp"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/csheth/docchat/internal/backend"
	"github.com/csheth/docchat/internal/llm"
	"github.com/csheth/docchat/internal/retrieval"
	"github.com/csheth/docchat/internal/sources"
)

// Retrieval modes reported in query responses.
const (
	ModeSelectedText = "selected_text"
	ModeFullBook     = "full_book"
	ModeGreeting     = "greeting"
)

const (
	msgMissingQuestion = "Missing question field."
	msgQuestionTooLong = "Question too long. Please keep it under 2000 characters."
	msgSelectedTooLong = "Selected text too long. Please select a shorter passage."
	msgInvalidBody     = "Invalid request body."
	msgStillIndexing   = "The textbook content is still being indexed. Please try again shortly."
	selectedPart       = "Selected Text"
	selectedSection    = "User Selection"
	greetingAnswer     = "Hello! I'm your teaching assistant for this documentation.\n\nAsk me about anything covered in the docs, or highlight a passage on the page and ask about it directly.\n\nWhat would you like to explore?"
)

var greetingPattern = regexp.MustCompile(`(?i)^\s*(hi|hello|hey|howdy|greetings|good\s+(morning|afternoon|evening|day)|what'?s\s+up|sup|yo|hiya|salaam|salam|assalam|namaste|bonjour|hola|ciao)[\s!.,?]*$`)

type queryPayload struct {
	Question     string `json:"question"`
	Query        string `json:"query"`
	SelectedText string `json:"selected_text"`
	SessionID    string `json:"session_id"`
}

func (s *Server) handleQuery(w http.ResponseWriter, r *http.Request) {
	var payload queryPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondDetail(w, http.StatusUnprocessableEntity, msgInvalidBody)
		return
	}

	question := payload.Question
	if question == "" {
		question = payload.Query
	}
	switch {
	case strings.TrimSpace(question) == "":
		respondDetail(w, http.StatusUnprocessableEntity, msgMissingQuestion)
		return
	case utf8.RuneCountInString(question) > maxQuestionChars:
		respondDetail(w, http.StatusUnprocessableEntity, msgQuestionTooLong)
		return
	case utf8.RuneCountInString(payload.SelectedText) > maxSelectedChars:
		respondDetail(w, http.StatusUnprocessableEntity, msgSelectedTooLong)
		return
	}

	start := s.now()
	sessionID := payload.SessionID
	if sessionID == "" {
		sessionID = s.newID()
	}

	resp, err := s.answer(r, question, payload.SelectedText, s.History(sessionID))
	if err != nil {
		s.logger.Error("query failed", zap.String("session_id", sessionID), zap.Error(err))
		respondDetail(w, http.StatusServiceUnavailable, fmt.Sprintf("Chat generation failed: %v", err))
		return
	}
	s.remember(sessionID, llm.Turn{Question: question, Answer: resp.Answer})

	resp.SessionID = sessionID
	resp.LatencyMs = float64(s.now().Sub(start).Microseconds()) / 1000
	s.logger.Info("query answered",
		zap.String("session_id", sessionID),
		zap.String("retrieval_mode", resp.RetrievalMode),
		zap.Int("sources", len(resp.Sources)),
		zap.Float64("latency_ms", resp.LatencyMs),
	)
	respondJSON(w, http.StatusOK, resp)
}

func (s *Server) answer(r *http.Request, question, selected string, history []llm.Turn) (backend.QueryResponse, error) {
	if selected == "" && greetingPattern.MatchString(question) {
		return backend.QueryResponse{Answer: greetingAnswer, RetrievalMode: ModeGreeting}, nil
	}

	req := llm.AnswerRequest{Question: question, SelectedText: selected, History: history}
	resp := backend.QueryResponse{RetrievalMode: ModeFullBook}

	var hits []retrieval.Hit
	if selected != "" {
		resp.RetrievalMode = ModeSelectedText
		resp.Sources = append(resp.Sources, backend.Source{
			Source:    sources.Sentinel,
			Part:      selectedPart,
			Section:   selectedSection,
			IsPrimary: true,
		})
		hits = s.index.Search(question+" "+clip(selected, 400), supplementLimit)
	} else {
		if s.index.Len() == 0 {
			resp.Answer = msgStillIndexing
			return resp, nil
		}
		// No matches still reaches the generator, which answers from an empty context.
		hits = s.index.Search(question, fullBookLimit)
	}

	for _, hit := range hits {
		resp.Sources = append(resp.Sources, backend.Source{
			Source:  hit.Chunk.ContentID,
			Part:    hit.Chunk.Part,
			Section: hit.Chunk.Section,
		})
		req.Passages = append(req.Passages, llm.Passage{
			Label: hit.Chunk.Part + " > " + hit.Chunk.Section,
			Text:  hit.Chunk.Text,
		})
	}

	answer, err := s.generator.Answer(r.Context(), req)
	if err != nil {
		return backend.QueryResponse{}, err
	}
	resp.Answer = answer
	return resp, nil
}

func clip(text string, limit int) string {
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	return string(runes[:limit])
}
