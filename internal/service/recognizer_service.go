package service

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sheetgrader/internal/config"
	"sheetgrader/internal/model"
	"strconv"
	"strings"
	"time"
)

// Recognizer reads the student id, variant code and marked answers off a sheet image
type Recognizer interface {
	Recognize(ctx context.Context, image []byte) (*model.ScanResult, error)
}

const scanSystemInstruction = `You are a professional multiple-choice grading assistant.
Your task is to analyse a photo of a bubble answer sheet.

Extract:
1. Student ID: the filled bubbles in the student ID columns.
2. Variant code: the filled bubbles in the test variant columns.
3. Answers: questions 1 to 20. For each question, the letter (A, B, C, D) that is filled in.

Rules:
- Return the result as JSON only.
- If no bubble is filled for a question, use the empty string "".
- The student ID and variant code are usually at the top of the sheet.`

const scanInstruction = `Grade this answer sheet and return JSON in the form: {"studentId": "...", "variantCode": "...", "answers": {"1": "A", "2": "B", ...}}`

// GeminiRecognizer reads sheets with a Gemini multimodal model
type GeminiRecognizer struct {
	config *config.AIConfig
	client *http.Client
}

// NewGeminiRecognizer creates a recognizer for the given AI config
func NewGeminiRecognizer(cfg *config.AIConfig) *GeminiRecognizer {
	return &GeminiRecognizer{
		config: cfg,
		client: &http.Client{
			Timeout: time.Duration(cfg.TimeoutMS) * time.Millisecond,
		},
	}
}

// Recognize sends one JPEG to Gemini and validates the structured reply.
// Every failure comes back as a *model.RecognitionError.
func (r *GeminiRecognizer) Recognize(ctx context.Context, image []byte) (*model.ScanResult, error) {
	if !r.config.IsEnabled() {
		return nil, &model.RecognitionError{Message: "Sheet recognition is not configured"}
	}

	text, err := r.callGemini(ctx, r.config.ScanModel, image)
	if err != nil {
		return nil, &model.RecognitionError{Message: "Could not reach the recognition service. Please try again", Err: err}
	}

	scan, err := decodeScan(text)
	if err != nil {
		return nil, &model.RecognitionError{Message: "Could not read the scan result. Please try again", Err: err}
	}
	return scan, nil
}

// callGemini makes a request to the Gemini API with an inline image
func (r *GeminiRecognizer) callGemini(ctx context.Context, modelName string, image []byte) (string, error) {
	answerProps := make(map[string]interface{}, model.QuestionCount)
	for q := 1; q <= model.QuestionCount; q++ {
		answerProps[strconv.Itoa(q)] = map[string]string{"type": "STRING"}
	}

	reqBody := map[string]interface{}{
		"systemInstruction": map[string]interface{}{
			"parts": []map[string]string{
				{"text": scanSystemInstruction},
			},
		},
		"contents": []map[string]interface{}{
			{
				"parts": []map[string]interface{}{
					{
						"inlineData": map[string]string{
							"mimeType": "image/jpeg",
							"data":     base64.StdEncoding.EncodeToString(image),
						},
					},
					{"text": scanInstruction},
				},
			},
		},
		"generationConfig": map[string]interface{}{
			"responseMimeType": "application/json",
			"responseSchema": map[string]interface{}{
				"type": "OBJECT",
				"properties": map[string]interface{}{
					"studentId":   map[string]string{"type": "STRING"},
					"variantCode": map[string]string{"type": "STRING"},
					"answers": map[string]interface{}{
						"type":       "OBJECT",
						"properties": answerProps,
					},
				},
				"required": []string{"studentId", "variantCode", "answers"},
			},
		},
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return "", err
	}

	url := fmt.Sprintf("%s?key=%s", r.config.ModelEndpoint(modelName), r.config.APIKey)
	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(jsonBody))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}

	// Parse Gemini response structure
	var geminiResp struct {
		Candidates []struct {
			Content struct {
				Parts []struct {
					Text string `json:"text"`
				} `json:"parts"`
			} `json:"content"`
		} `json:"candidates"`
		Error *struct {
			Message string `json:"message"`
		} `json:"error"`
	}

	if err := json.Unmarshal(body, &geminiResp); err != nil {
		return "", fmt.Errorf("gemini status %d: %w", resp.StatusCode, err)
	}
	if resp.StatusCode != http.StatusOK {
		if geminiResp.Error != nil {
			return "", fmt.Errorf("gemini status %d: %s", resp.StatusCode, geminiResp.Error.Message)
		}
		return "", fmt.Errorf("gemini status %d", resp.StatusCode)
	}

	if len(geminiResp.Candidates) > 0 && len(geminiResp.Candidates[0].Content.Parts) > 0 {
		return geminiResp.Candidates[0].Content.Parts[0].Text, nil
	}

	return "", fmt.Errorf("empty response from Gemini")
}

// decodeScan checks the reply shape field by field instead of trusting it
func decodeScan(text string) (*model.ScanResult, error) {
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")

	var raw map[string]json.RawMessage
	if err := json.Unmarshal([]byte(text), &raw); err != nil {
		return nil, fmt.Errorf("reply is not a JSON object: %w", err)
	}

	studentID, err := stringField(raw, "studentId")
	if err != nil {
		return nil, err
	}
	variant, err := stringField(raw, "variantCode")
	if err != nil {
		return nil, err
	}

	rawAnswers, ok := raw["answers"]
	if !ok {
		return nil, errors.New("missing field answers")
	}
	var answerMap map[string]json.RawMessage
	if err := json.Unmarshal(rawAnswers, &answerMap); err != nil || answerMap == nil {
		return nil, errors.New("field answers is not an object")
	}

	answers := make(map[int]model.Choice, model.QuestionCount)
	for k, v := range answerMap {
		q, err := strconv.Atoi(strings.TrimSpace(k))
		if err != nil {
			return nil, fmt.Errorf("answer key %q is not a question number", k)
		}
		if !model.ValidQuestion(q) {
			continue
		}
		var s string
		if isNull(v) || json.Unmarshal(v, &s) != nil {
			return nil, fmt.Errorf("answer %d is not a string", q)
		}
		c, err := model.ParseChoice(s)
		if err != nil {
			return nil, fmt.Errorf("answer %d: %w", q, err)
		}
		answers[q] = c
	}

	return &model.ScanResult{
		StudentID:   strings.TrimSpace(studentID),
		VariantCode: strings.TrimSpace(variant),
		Answers:     answers,
	}, nil
}

func stringField(raw map[string]json.RawMessage, name string) (string, error) {
	v, ok := raw[name]
	if !ok {
		return "", fmt.Errorf("missing field %s", name)
	}
	var s string
	if isNull(v) || json.Unmarshal(v, &s) != nil {
		return "", fmt.Errorf("field %s is not a string", name)
	}
	return s, nil
}

func isNull(v json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(v), []byte("null"))
}
