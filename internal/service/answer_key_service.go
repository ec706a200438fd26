package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sheetgrader/internal/model"
	"sync"
)

// AnswerKeyStore holds the instructor's answer key and mirrors every change
// to the state store as a whole snapshot.
type AnswerKeyStore struct {
	mu    sync.RWMutex
	store StateStore
	key   model.AnswerKey
}

// LoadAnswerKeyStore restores the key from store, or starts from the default key
func LoadAnswerKeyStore(ctx context.Context, store StateStore) (*AnswerKeyStore, error) {
	data, err := store.Load(ctx, AnswerKeyStateKey)
	if err != nil {
		return nil, fmt.Errorf("load answer key: %w", err)
	}

	key := model.DefaultAnswerKey()
	if data != nil {
		var saved model.AnswerKey
		if err := json.Unmarshal(data, &saved); err != nil {
			log.Printf("Stored answer key is unreadable, using defaults: %v", err)
		} else {
			key = saved.Sanitized()
		}
	}

	return &AnswerKeyStore{store: store, key: key}, nil
}

// Get returns a copy of the current key
func (s *AnswerKeyStore) Get() model.AnswerKey {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.key.Clone()
}

// Set overwrites one question's correct choice and persists the whole key.
// The store is left unchanged when the question is out of range or the write fails.
func (s *AnswerKeyStore) Set(ctx context.Context, question int, choice model.Choice) error {
	if !model.ValidQuestion(question) {
		return fmt.Errorf("%w: %d", model.ErrInvalidQuestion, question)
	}
	if choice == model.ChoiceNone || !choice.Valid() {
		return fmt.Errorf("%w: %q", model.ErrInvalidChoice, choice)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.key.Clone()
	next[question] = choice
	if err := s.persist(ctx, next); err != nil {
		return err
	}
	s.key = next
	return nil
}

// Replace swaps in a complete key, validating every entry first
func (s *AnswerKeyStore) Replace(ctx context.Context, key model.AnswerKey) error {
	for q, c := range key {
		if !model.ValidQuestion(q) {
			return fmt.Errorf("%w: %d", model.ErrInvalidQuestion, q)
		}
		if c == model.ChoiceNone || !c.Valid() {
			return fmt.Errorf("%w: %q", model.ErrInvalidChoice, c)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	next := key.Clone()
	if err := s.persist(ctx, next); err != nil {
		return err
	}
	s.key = next
	return nil
}

func (s *AnswerKeyStore) persist(ctx context.Context, key model.AnswerKey) error {
	data, err := json.Marshal(key)
	if err != nil {
		return err
	}
	if err := s.store.Save(ctx, AnswerKeyStateKey, data); err != nil {
		return fmt.Errorf("save answer key: %w", err)
	}
	return nil
}
