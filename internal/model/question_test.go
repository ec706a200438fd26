package model

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChoiceValid(t *testing.T) {
	for _, c := range []Choice{ChoiceA, ChoiceB, ChoiceC, ChoiceD, ChoiceNone} {
		assert.True(t, c.Valid(), "choice %q", c)
	}
	for _, c := range []Choice{"E", "a", "AB", " "} {
		assert.False(t, c.Valid(), "choice %q", c)
	}
}

func TestParseChoice(t *testing.T) {
	c, err := ParseChoice(" b ")
	require.NoError(t, err)
	assert.Equal(t, ChoiceB, c)

	c, err = ParseChoice("")
	require.NoError(t, err)
	assert.Equal(t, ChoiceNone, c)

	_, err = ParseChoice("X")
	assert.True(t, errors.Is(err, ErrInvalidChoice))
}

func TestDefaultAnswerKey(t *testing.T) {
	key := DefaultAnswerKey()
	assert.Len(t, key, QuestionCount)
	for q := 1; q <= QuestionCount; q++ {
		assert.Equal(t, ChoiceA, key[q])
	}
}

func TestAnswerKeyJSONShape(t *testing.T) {
	key := AnswerKey{1: ChoiceA, 2: ChoiceB, 20: ChoiceD}
	data, err := json.Marshal(key)
	require.NoError(t, err)
	assert.JSONEq(t, `{"1":"A","2":"B","20":"D"}`, string(data))

	var back AnswerKey
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, key, back)
}

func TestAnswerKeySanitized(t *testing.T) {
	key := AnswerKey{0: ChoiceA, 1: ChoiceB, 21: ChoiceC, 5: "Z", 6: ChoiceNone}
	assert.Equal(t, AnswerKey{1: ChoiceB}, key.Sanitized())
}

func TestAnswerKeyCloneIsIndependent(t *testing.T) {
	key := DefaultAnswerKey()
	c := key.Clone()
	c[1] = ChoiceD
	assert.Equal(t, ChoiceA, key[1])
}

func TestParseAnswerKeyString(t *testing.T) {
	key, err := ParseAnswerKeyString("abcd abcd ABCD ABCD ABCD")
	require.NoError(t, err)
	assert.Equal(t, ChoiceA, key[1])
	assert.Equal(t, ChoiceD, key[20])

	_, err = ParseAnswerKeyString("ABC")
	assert.Error(t, err)

	_, err = ParseAnswerKeyString("ABCDABCDABCDABCDABCE")
	assert.True(t, errors.Is(err, ErrInvalidChoice))
}

func TestRecognitionErrorIs(t *testing.T) {
	cause := errors.New("boom")
	err := error(&RecognitionError{Message: "Could not read", Err: cause})
	assert.True(t, errors.Is(err, ErrRecognitionFailed))
	assert.True(t, errors.Is(err, cause))
	assert.Equal(t, "Could not read: boom", err.Error())
}
