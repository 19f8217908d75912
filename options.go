package chesscore

import (
	"fmt"

	"github.com/BurntSushi/toml"
)

// Options configures a new Engine.
type Options struct {
	HashBytes int // default 32 << 20
	Threads   int // default 1
}

const (
	defaultHashBytes = 32 << 20
	defaultThreads   = 1
)

func (o Options) withDefaults() Options {
	if o.HashBytes <= 0 {
		o.HashBytes = defaultHashBytes
	}
	if o.Threads <= 0 {
		o.Threads = defaultThreads
	}
	return o
}

// tomlOptions mirrors Options for file parsing, grounded in
// "frankkopp-FrankyGo"'s TOML-configured engine options.
type tomlOptions struct {
	HashMB  int `toml:"hash_mb"`
	Threads int `toml:"threads"`
}

// LoadOptions reads Options from a TOML file at path, using
// github.com/BurntSushi/toml.
func LoadOptions(path string) (Options, error) {
	var t tomlOptions
	if _, err := toml.DecodeFile(path, &t); err != nil {
		return Options{}, fmt.Errorf("chesscore: load options from %s: %w", path, err)
	}
	opts := Options{
		HashBytes: t.HashMB << 20,
		Threads:   t.Threads,
	}
	return opts.withDefaults(), nil
}
