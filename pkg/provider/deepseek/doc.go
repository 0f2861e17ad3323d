// Package deepseek wires DeepSeek's OpenAI-style chat API into the generic
// openaicompat adapter.
package deepseek
