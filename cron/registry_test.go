package cron

import "testing"

func TestRegistry_RegisterAndJobs(t *testing.T) {
	ran := false
	Register("test_scan", "@every 1m", func(args ...string) { ran = true })
	defer Unregister("test_scan")

	jobs := Jobs()
	job, ok := jobs["test_scan"]
	if !ok {
		t.Fatal("registered job not listed")
	}
	if job.Schedule != "@every 1m" {
		t.Errorf("schedule = %q, want @every 1m", job.Schedule)
	}
	job.Run()
	if !ran {
		t.Error("job func did not run")
	}
}

func TestRegistry_DuplicatePanics(t *testing.T) {
	Register("test_dup", "@every 1m", func(args ...string) {})
	defer Unregister("test_dup")
	defer func() {
		if recover() == nil {
			t.Error("expected panic on duplicate registration")
		}
	}()
	Register("test_dup", "@every 5m", func(args ...string) {})
}

func TestRegistry_LockedAfterJobs(t *testing.T) {
	Register("test_lock", "@every 1m", func(args ...string) {})
	Jobs() // locks the registry
	defer Unregister("test_lock")
	defer func() {
		if recover() == nil {
			t.Error("expected panic registering after lock")
		}
	}()
	Register("test_late", "@every 1m", func(args ...string) {})
}

func TestRegistry_Unregister(t *testing.T) {
	Register("test_gone", "@every 1m", func(args ...string) {})
	Unregister("test_gone")
	if _, ok := Jobs()["test_gone"]; ok {
		t.Error("job should be gone after Unregister")
	}
}
