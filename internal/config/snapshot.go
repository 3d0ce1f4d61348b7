package config

import (
	"time"

	"github.com/brianly1003/autosort/internal/domain/rules"
)

// Snapshot is an immutable view of the configuration. Readers hold a
// snapshot for the duration of an operation; writers build a new one and
// publish it through Store.Persist.
type Snapshot struct {
	cfg     Config
	ruleSet *rules.RuleSet
}

// NewSnapshot captures a deep copy of cfg.
func NewSnapshot(cfg *Config) *Snapshot {
	c := cloneConfig(cfg)
	return &Snapshot{
		cfg:     c,
		ruleSet: rules.NewRuleSet(c.Rules, c.DefaultTargetFolder),
	}
}

// Config returns a deep copy of the underlying configuration.
func (s *Snapshot) Config() *Config {
	c := cloneConfig(&s.cfg)
	return &c
}

func (s *Snapshot) SourceFolder() string        { return s.cfg.SourceFolder }
func (s *Snapshot) DefaultTargetFolder() string { return s.cfg.DefaultTargetFolder }
func (s *Snapshot) IsMonitoring() bool          { return s.cfg.IsMonitoring }
func (s *Snapshot) AutoStart() bool             { return s.cfg.AutoStart }
func (s *Snapshot) ShowNotifications() bool     { return s.cfg.ShowNotifications }
func (s *Snapshot) File() string                { return s.cfg.file }

// RuleSet returns the compiled rule set. It is shared between callers and
// never mutated.
func (s *Snapshot) RuleSet() *rules.RuleSet { return s.ruleSet }

// SettleDelay returns how long a file must stay unchanged before it is
// classified.
func (s *Snapshot) SettleDelay() time.Duration {
	return time.Duration(s.cfg.Watcher.SettleMS) * time.Millisecond
}

// StopGrace returns how long Stop waits for in-flight work.
func (s *Snapshot) StopGrace() time.Duration {
	return time.Duration(s.cfg.Watcher.StopGraceMS) * time.Millisecond
}

// TransientExtensions returns a copy of the configured transient extensions.
func (s *Snapshot) TransientExtensions() []string {
	return append([]string(nil), s.cfg.Watcher.TransientExtensions...)
}

// WithMonitoring returns a copy with is_monitoring set.
func (s *Snapshot) WithMonitoring(on bool) *Snapshot {
	c := s.Config()
	c.IsMonitoring = on
	return NewSnapshot(c)
}

// WithSourceFolder returns a copy with source_folder set.
func (s *Snapshot) WithSourceFolder(folder string) *Snapshot {
	c := s.Config()
	c.SourceFolder = folder
	return NewSnapshot(c)
}

// WithRules returns a copy with the rule list replaced.
func (s *Snapshot) WithRules(rs []rules.Rule) *Snapshot {
	c := s.Config()
	c.Rules = cloneRules(rs)
	return NewSnapshot(c)
}

func cloneConfig(cfg *Config) Config {
	c := *cfg
	c.Rules = cloneRules(cfg.Rules)
	c.Watcher.TransientExtensions = append([]string(nil), cfg.Watcher.TransientExtensions...)
	return c
}

func cloneRules(in []rules.Rule) []rules.Rule {
	if in == nil {
		return nil
	}
	out := make([]rules.Rule, len(in))
	for i, r := range in {
		r.Extensions = append([]string(nil), r.Extensions...)
		out[i] = r
	}
	return out
}
