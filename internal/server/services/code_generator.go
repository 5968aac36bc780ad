package services

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
)

const (
	MinBatchCount = 1
	MaxBatchCount = 1000

	// drawBudgetPerCode bounds the total number of candidate draws at
	// count * drawBudgetPerCode, turning a collision storm (length too
	// short for the requested count) into an explicit failure instead of
	// an unbounded loop.
	drawBudgetPerCode = 100
)

// codeChecker is the slice of the card store the generator needs.
type codeChecker interface {
	CodeExists(ctx context.Context, code string) (bool, error)
}

// CodeGenerator produces batches of unique card codes. It only checks
// uniqueness; persisting the batch is the caller's business.
type CodeGenerator struct {
	store codeChecker
}

func NewCodeGenerator(store codeChecker) *CodeGenerator {
	return &CodeGenerator{store: store}
}

// ClampBatchParams applies the operational bounds on generation inputs:
// count to [1, 1000] and length to [6, 16]. Out-of-range values are clamped
// rather than rejected; callers surface the effective values so nobody is
// surprised by a short batch.
func ClampBatchParams(count, length int) (int, int) {
	if count < MinBatchCount {
		count = MinBatchCount
	}
	if count > MaxBatchCount {
		count = MaxBatchCount
	}
	if length < MinCodeLength {
		length = MinCodeLength
	}
	if length > MaxCodeLength {
		length = MaxCodeLength
	}
	return count, length
}

// Generate returns count pairwise-distinct codes of the given length, each
// absent from the store at the moment it was checked. Inputs are clamped
// via ClampBatchParams. Fails with ErrExhaustedAttempts once count*100
// draws have been spent without filling the batch.
func (g *CodeGenerator) Generate(ctx context.Context, count, length int) ([]string, error) {
	count, length = ClampBatchParams(count, length)

	codes := make([]string, 0, count)
	seen := make(map[string]struct{}, count)
	maxAttempts := count * drawBudgetPerCode

	for attempts := 0; len(codes) < count && attempts < maxAttempts; attempts++ {
		code, err := randomCode(length)
		if err != nil {
			return nil, fmt.Errorf("failed to draw code: %w", err)
		}

		if _, dup := seen[code]; dup {
			continue
		}

		exists, err := g.store.CodeExists(ctx, code)
		if err != nil {
			return nil, fmt.Errorf("failed to check code: %w", err)
		}
		if exists {
			continue
		}

		seen[code] = struct{}{}
		codes = append(codes, code)
	}

	if len(codes) < count {
		return nil, fmt.Errorf("%w: got %d of %d after %d draws (try a longer code length or a smaller count)",
			ErrExhaustedAttempts, len(codes), count, maxAttempts)
	}

	return codes, nil
}

// randomCode draws length characters uniformly from CodeAlphabet.
func randomCode(length int) (string, error) {
	alphabetSize := big.NewInt(int64(len(CodeAlphabet)))
	b := make([]byte, length)
	for i := range b {
		n, err := rand.Int(rand.Reader, alphabetSize)
		if err != nil {
			return "", err
		}
		b[i] = CodeAlphabet[n.Int64()]
	}
	return string(b), nil
}
