package main

import (
	"testing"
)

func TestQueueAddListShowRemove(t *testing.T) {
	env := setupCLITestEnv(t)

	out, err := runCLI(t, []string{"queue", "add", "7", "8"}, env.configPath)
	if err != nil {
		t.Fatalf("queue add: %v", err)
	}
	requireContains(t, out, "Queued 2 new item(s)")

	// Adding again is a no-op.
	out, err = runCLI(t, []string{"queue", "add", "7"}, env.configPath)
	if err != nil {
		t.Fatalf("repeat queue add: %v", err)
	}
	requireContains(t, out, "Queued 0 new item(s), 1 already queued")

	out, err = runCLI(t, []string{"queue", "list"}, env.configPath)
	if err != nil {
		t.Fatalf("queue list: %v", err)
	}
	requireContains(t, out, "Pending")

	out, err = runCLI(t, []string{"queue", "show", "7"}, env.configPath)
	if err != nil {
		t.Fatalf("queue show: %v", err)
	}
	requireContains(t, out, "Status:   Pending")

	out, err = runCLI(t, []string{"queue", "remove", "8"}, env.configPath)
	if err != nil {
		t.Fatalf("queue remove: %v", err)
	}
	requireContains(t, out, "Removed item 8")

	if _, err = runCLI(t, []string{"queue", "show", "8"}, env.configPath); err == nil {
		t.Fatal("expected error for removed item")
	}
}

func TestQueueAddRejectsInvalidID(t *testing.T) {
	env := setupCLITestEnv(t)

	if _, err := runCLI(t, []string{"queue", "add", "abc"}, env.configPath); err == nil {
		t.Fatal("expected error for non-numeric id")
	}
	if _, err := runCLI(t, []string{"queue", "add", "-5"}, env.configPath); err == nil {
		t.Fatal("expected error for negative id")
	}
}

func TestQueueStatusAndClear(t *testing.T) {
	env := setupCLITestEnv(t)

	out, err := runCLI(t, []string{"queue", "status"}, env.configPath)
	if err != nil {
		t.Fatalf("queue status: %v", err)
	}
	requireContains(t, out, "Queue is empty")

	if _, err := runCLI(t, []string{"queue", "add", "1", "2", "3"}, env.configPath); err != nil {
		t.Fatalf("queue add: %v", err)
	}

	out, err = runCLI(t, []string{"queue", "status"}, env.configPath)
	if err != nil {
		t.Fatalf("queue status: %v", err)
	}
	requireContains(t, out, "Pending")

	out, err = runCLI(t, []string{"queue", "clear"}, env.configPath)
	if err != nil {
		t.Fatalf("queue clear: %v", err)
	}
	requireContains(t, out, "Removed 3")
}
