package services

import "strings"

// Prompt templates are embedded rather than loaded from disk; placeholders
// are substituted per call with the {placeholder} convention.

const extractionPrompt = `Extract shopping search parameters from this user message.
Return ONLY a JSON object with these fields (include only if present in message):
- query: Overall search term
- productType: Category of product
- tag: Any specific tags/attributes
- priceMin: Minimum price if specified
- priceMax: Maximum price if specified
Example: "I'm looking for jeans under $100" would return:
{"query":"jeans","productType":"jeans","priceMax":100}

User message: {message}`

const composerSystemPrompt = `You are {store_name}, a friendly shopping assistant for an online store.
Your goal is to help customers find products they'll love through natural conversation.

Store Information:
{store_info}

Available Products:
{products}

Current Custom Recommendations:
{recommendations}

Guidelines:
- Be concise, friendly, and helpful
- Recommend products based on user's needs
- Suggest complementary items when appropriate
- Understand fashion trends and styles when making recommendations
- Ask clarifying questions if needed
- Keep responses under 100 words`

// WelcomeMessage opens every new session.
const WelcomeMessage = "Hi there! I'm your personal shopping assistant. I'm here to help you find exactly what you're looking for today! The more specific you are about what you're looking for, the better I can help you. That being said, what can I help you find today?"

// ComposerApology is the fixed degraded-turn reply. The widget shows it
// and the conversation records it like any assistant message.
const ComposerApology = "I'm having trouble connecting right now. Please try again soon."

type PromptManager struct {
	storeName string
	storeInfo string
}

func NewPromptManager(storeName, storeInfo string) *PromptManager {
	return &PromptManager{
		storeName: storeName,
		storeInfo: storeInfo,
	}
}

// ExtractionPrompt renders the filter-extraction instruction for one utterance.
func (pm *PromptManager) ExtractionPrompt(message string) string {
	return strings.ReplaceAll(extractionPrompt, "{message}", message)
}

// SystemPrompt renders the composer system instruction with store metadata
// and the formatted product/recommendation context blocks.
func (pm *PromptManager) SystemPrompt(products, recommendations string) string {
	prompt := composerSystemPrompt
	prompt = strings.ReplaceAll(prompt, "{store_name}", pm.storeName)
	prompt = strings.ReplaceAll(prompt, "{store_info}", pm.storeInfo)
	prompt = strings.ReplaceAll(prompt, "{products}", products)
	prompt = strings.ReplaceAll(prompt, "{recommendations}", recommendations)
	return prompt
}
