package authz

import (
	"os"
	"strings"
	"sync"
	"time"

	"gopkg.in/yaml.v3"
)

// Mode is the global enforcement mode.
type Mode string

const (
	ModeDisabled Mode = "disabled"
	ModeShadow   Mode = "shadow"
	ModeEnforce  Mode = "enforce"
)

// ParseMode maps free text onto a Mode. Anything unrecognised enforces.
func ParseMode(s string) Mode {
	switch m := Mode(strings.ToLower(strings.TrimSpace(s))); m {
	case ModeDisabled, ModeShadow:
		return m
	default:
		return ModeEnforce
	}
}

// FlagProvider supplies the mode in effect for each decision.
type FlagProvider interface {
	Mode() Mode
}

// StaticFlagProvider pins the mode.
type StaticFlagProvider Mode

func (s StaticFlagProvider) Mode() Mode {
	return ParseMode(string(s))
}

type flagFile struct {
	Mode string `yaml:"mode"`
}

// FileFlagProvider follows the `mode:` key of a YAML file so operators can
// switch modes without a restart. The file is parsed again only when its
// modification time changes. Until a first good read the fallback applies;
// after that a missing or unreadable file keeps the last mode read.
type FileFlagProvider struct {
	path string

	mu      sync.Mutex
	mode    Mode
	modTime time.Time
}

func NewFileFlagProvider(path string, fallback Mode) FlagProvider {
	return &FileFlagProvider{
		path: path,
		mode: ParseMode(string(fallback)),
	}
}

func (p *FileFlagProvider) Mode() Mode {
	p.mu.Lock()
	defer p.mu.Unlock()

	info, err := os.Stat(p.path)
	if err != nil || info.ModTime().Equal(p.modTime) {
		return p.mode
	}
	data, err := os.ReadFile(p.path)
	if err != nil {
		return p.mode
	}
	var f flagFile
	if err := yaml.Unmarshal(data, &f); err != nil || strings.TrimSpace(f.Mode) == "" {
		return p.mode
	}
	p.mode = ParseMode(f.Mode)
	p.modTime = info.ModTime()
	return p.mode
}
