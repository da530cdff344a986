package loan

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCreditCheckStaysInRange(t *testing.T) {
	s := NewService(NewRandomScores(7))
	for i := 0; i < 500; i++ {
		score, msg := s.CreditCheck()
		assert.GreaterOrEqual(t, score, MinScore)
		assert.LessOrEqual(t, score, MaxScore)
		assert.True(t, strings.HasPrefix(msg, "The mock credit evaluation is complete."))
	}
}

func TestFixedScoreMessage(t *testing.T) {
	score, msg := NewService(FixedScore(777)).CreditCheck()
	assert.Equal(t, 777, score)
	assert.Contains(t, msg, "The score is 777.")

	score, _ = NewService(FixedScore(10)).CreditCheck()
	assert.Equal(t, MinScore, score)
}

func TestVerifyKYC(t *testing.T) {
	assert.Contains(t, NewService(nil).VerifyKYC(), "PAN and Aadhaar details are verified")
}
