package main

import (
	"sync"

	"github.com/antmicro/sv-bugpoint/internal/config"
)

// stageSource holds the currently-active stage sequence, updated live by
// a config.FileWatcher between outer-loop sweeps (SPEC_FULL.md's
// supplemental live-reconfiguration note on internal/config/watcher.go):
// editing the stage-sequence entry in the config file takes effect the
// next time an Orchestrator is built for an input (OuterMinimizer builds
// one per input per outer-loop sweep), without restarting a
// long-running reduction. Only the
// stage sequence is picked up this way; other reloaded settings are not
// applied to a running reduction.
type stageSource struct {
	mu     sync.RWMutex
	stages []string
}

func newStageSource(initial []string) *stageSource {
	return &stageSource{stages: initial}
}

func (s *stageSource) Get() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, len(s.stages))
	copy(out, s.stages)
	return out
}

func (s *stageSource) set(stages []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stages = stages
}

// watchConfig registers a change hook on mgr that updates src whenever
// the config is reloaded (Load, LoadProfile, or a FileWatcher-triggered
// ReloadFromDisk), and starts a FileWatcher polling configPath if one
// was given. The caller is responsible for calling the returned stop
// function before exit.
func watchConfig(mgr *config.Manager, configPath string, src *stageSource) (stop func(), err error) {
	mgr.OnChange(func(cfg *config.Config) {
		if len(cfg.Reduce.Stages) > 0 {
			src.set(cfg.Reduce.Stages)
		}
	})
	if configPath == "" {
		return func() {}, nil
	}
	watcher := config.NewFileWatcher(mgr, nil)
	if err := watcher.Watch(configPath); err != nil {
		return func() {}, err
	}
	return watcher.Stop, nil
}
