package model

import (
	"github.com/cloudwego/eino/schema"
)

// Pricing defines USD cost per 1M text tokens for input/output.
type Pricing struct {
	InputPerM  float64
	OutputPerM float64
}

var defaultPricing = map[string]Pricing{
	"gemini-2.5-flash":      {InputPerM: 0.30, OutputPerM: 2.50},
	"gemini-2.5-flash-lite": {InputPerM: 0.10, OutputPerM: 0.40},
}

// ResolvePricing returns the pricing entry for a model, or zero pricing for
// unknown models so cost accounting degrades to a no-op.
func ResolvePricing(model string) Pricing {
	if p, ok := defaultPricing[model]; ok {
		return p
	}
	return Pricing{}
}

// Cost converts token usage into USD amounts.
func (p Pricing) Cost(usage *schema.TokenUsage) (inputCost, outputCost, total float64) {
	if usage == nil {
		return 0, 0, 0
	}
	inputCost = p.InputPerM * float64(usage.PromptTokens) / 1_000_000.0
	outputCost = p.OutputPerM * float64(usage.CompletionTokens) / 1_000_000.0
	total = inputCost + outputCost
	return
}
