package progress

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestQuestionnaire(t *testing.T) {
	assert.Equal(t, 0.0, Questionnaire(0, 0), "no required answers means 0%")
	assert.Equal(t, 0.0, Questionnaire(5, 0))
	assert.Equal(t, 50.0, Questionnaire(10, 20))
	assert.Equal(t, 100.0, Questionnaire(20, 20))
	assert.Equal(t, 100.0, Questionnaire(25, 20), "over-answering clamps to 100")
}

func TestQuestionnaire_TwoDecimalPrecision(t *testing.T) {
	// 1/3 -> 33.333... -> 33.33
	assert.Equal(t, 33.33, Questionnaire(1, 3))
	// 2/3 -> 66.666... -> 66.67
	assert.Equal(t, 66.67, Questionnaire(2, 3))
	// 1/7 -> 14.2857... -> 14.29
	assert.Equal(t, 14.29, Questionnaire(1, 7))
}

func TestGeneration(t *testing.T) {
	assert.Equal(t, 0.0, Generation(0, 0))
	assert.Equal(t, 0.0, Generation(0, 15))
	assert.Equal(t, 100.0, Generation(15, 15))
	assert.Equal(t, 46.67, Generation(7, 15))
	assert.Equal(t, 100.0, Generation(20, 15), "clamped to 100")
}
