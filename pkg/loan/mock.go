// Package loan provides the mock credit bureau and KYC checks the assistant
// persona calls out to during the loan flow.
package loan

import (
	"fmt"
	"math/rand/v2"
	"sync"
)

const (
	MinScore = 650
	MaxScore = 900

	kycMessage = "Mock KYC check complete. PAN and Aadhaar details are verified successfully. Please inform the user and proceed to the next step (sanction letter offer)."
)

// ScoreSource yields a credit score in [MinScore, MaxScore].
type ScoreSource interface {
	Score() int
}

// RandomScores draws uniformly, like a bureau that knows nothing about you.
type RandomScores struct {
	mu  sync.Mutex
	rng *rand.Rand
}

func NewRandomScores(seed uint64) *RandomScores {
	return &RandomScores{rng: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

func (r *RandomScores) Score() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return MinScore + r.rng.IntN(MaxScore-MinScore+1)
}

// FixedScore always returns the same score.
type FixedScore int

func (f FixedScore) Score() int { return int(f) }

type Service struct {
	scores ScoreSource
}

func NewService(scores ScoreSource) *Service {
	if scores == nil {
		scores = NewRandomScores(rand.Uint64())
	}
	return &Service{scores: scores}
}

// CreditCheck returns the score and the instruction text handed back to the
// assistant.
func (s *Service) CreditCheck() (int, string) {
	score := clamp(s.scores.Score())
	return score, fmt.Sprintf("The mock credit evaluation is complete. The score is %d. Please analyze this and inform the user of their eligibility and next steps.", score)
}

func (s *Service) VerifyKYC() string { return kycMessage }

func clamp(v int) int {
	if v < MinScore {
		return MinScore
	}
	if v > MaxScore {
		return MaxScore
	}
	return v
}
