// Package builtin bundles the vendor adapters that ship with vendorchat.
package builtin

import (
	"github.com/rhuss/vendorchat/pkg/provider"
	"github.com/rhuss/vendorchat/pkg/provider/deepseek"
	"github.com/rhuss/vendorchat/pkg/provider/doubao"
	"github.com/rhuss/vendorchat/pkg/provider/qwen"
)

// Modules returns the registration records of all builtin vendors.
func Modules() []provider.Module {
	return []provider.Module{
		deepseek.Module,
		doubao.Module,
		qwen.Module,
	}
}

// NewRegistry returns a registry populated with every builtin vendor.
func NewRegistry() *provider.Registry {
	r := provider.NewRegistry()
	for _, m := range Modules() {
		if err := r.Register(m); err != nil {
			panic(err)
		}
	}
	return r
}
