package cron

import (
	"sync"

	"inventory.GO/core/registry"
)

// Job pairs a cron schedule expression with the function it runs.
type Job struct {
	Schedule string
	Run      func(...string)
}

var mu sync.Mutex

func registered() map[string]Job {
	if v, ok := registry.GlobalRegistry.GetGlobal(registry.KeyRegistryCron); ok && v != nil {
		return v.(map[string]Job)
	}
	return make(map[string]Job)
}

// Register adds a named cron job. Call from init() in custom packages;
// names must be unique. Panics once StartCron has locked the registry.
func Register(name string, schedule string, run func(...string)) {
	mu.Lock()
	defer mu.Unlock()
	if registry.GlobalRegistry.IsLocked(registry.KeyRegistryCron) {
		panic("cron/registry: locked (register only during init before StartCron)")
	}
	jobs := registered()
	if _, ok := jobs[name]; ok {
		panic("cron/registry: duplicate job " + name)
	}
	jobs[name] = Job{Schedule: schedule, Run: run}
	registry.GlobalRegistry.SetGlobal(registry.KeyRegistryCron, jobs)
}

// Unregister removes a job and reopens the registry (for tests).
func Unregister(name string) {
	mu.Lock()
	defer mu.Unlock()
	registry.GlobalRegistry.UnlockForTesting(registry.KeyRegistryCron)
	jobs := registered()
	delete(jobs, name)
	registry.GlobalRegistry.SetGlobal(registry.KeyRegistryCron, jobs)
}

// Jobs returns a copy of the registered jobs for merging with
// config.CronJobs, locking the registry on first call.
func Jobs() map[string]Job {
	out := make(map[string]Job, len(registered()))
	for name, job := range registered() {
		out[name] = job
	}
	if !registry.GlobalRegistry.IsLocked(registry.KeyRegistryCron) {
		registry.GlobalRegistry.Lock(registry.KeyRegistryCron)
	}
	return out
}
