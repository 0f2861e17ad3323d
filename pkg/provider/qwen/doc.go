// Package qwen provides the Qwen (Tongyi) chat completion adapter.
package qwen
