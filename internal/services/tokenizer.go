package services

import (
	"github.com/pkoukk/tiktoken-go"

	"github.com/jpryor812/shopify-aloha/internal/models"
)

// Tokenizer counts tokens for the composer's history budget. When the
// cl100k_base encoding cannot be initialized (offline environments) it
// falls back to a bytes/4 estimate rather than failing the process.
type Tokenizer struct {
	encoding *tiktoken.Tiktoken
}

func NewTokenizer() *Tokenizer {
	tkm, err := tiktoken.GetEncoding("cl100k_base")
	if err != nil {
		return &Tokenizer{}
	}
	return &Tokenizer{encoding: tkm}
}

// CountTokens counts tokens in a single text.
func (t *Tokenizer) CountTokens(text string) int {
	if t.encoding == nil {
		return len(text)/4 + 1
	}
	return len(t.encoding.Encode(text, nil, nil))
}

// CountMessageTokens counts one message including per-message role overhead.
func (t *Tokenizer) CountMessageTokens(msg models.Message) int {
	// ~4 tokens of role/separator overhead per chat message
	return 4 + t.CountTokens(msg.Text)
}

// TrimToBudget drops the oldest messages until the remainder fits the
// token budget. The most recent messages always survive.
func (t *Tokenizer) TrimToBudget(history []models.Message, budget int) []models.Message {
	if budget <= 0 {
		return history
	}

	total := 0
	start := len(history)
	for i := len(history) - 1; i >= 0; i-- {
		cost := t.CountMessageTokens(history[i])
		if total+cost > budget {
			break
		}
		total += cost
		start = i
	}

	return history[start:]
}
