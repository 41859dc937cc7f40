package commands

import (
	"context"
	"flag"
	"io"
	"testing"

	"flowlist/internal/config"
	"flowlist/internal/service"
	"flowlist/internal/session"
)

// stubCmd is a minimal Command for registry tests.
type stubCmd struct {
	name    string
	aliases []string
}

func (c *stubCmd) Name() string      { return c.name }
func (c *stubCmd) Aliases() []string { return c.aliases }
func (c *stubCmd) Synopsis() string  { return "" }
func (c *stubCmd) Usage() string     { return c.name }
func (c *stubCmd) NeedsAuth() bool   { return false }

func (c *stubCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *stubCmd) Run(ctx context.Context, cfg *config.Config, sess *session.Session, svc service.Service, args []string, out, errOut io.Writer) int {
	return 0
}

func TestRegistryFindByNameAndAlias(t *testing.T) {
	r := NewRegistry()
	cmd := &stubCmd{name: "rm", aliases: []string{"delete"}}
	if err := r.Register(cmd); err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	for _, name := range []string{"rm", "delete"} {
		got, ok := r.Find(name)
		if !ok {
			t.Fatalf("Find(%q) should resolve", name)
		}
		if got != cmd {
			t.Errorf("Find(%q) resolved the wrong command", name)
		}
	}

	if _, ok := r.Find("nope"); ok {
		t.Error("unknown name should not resolve")
	}
}

func TestRegistryRejectsCollisions(t *testing.T) {
	r := NewRegistry()
	if err := r.Register(&stubCmd{name: "list", aliases: []string{"ls"}}); err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	if err := r.Register(&stubCmd{name: "list"}); err == nil {
		t.Error("duplicate name should be rejected")
	}
	if err := r.Register(&stubCmd{name: "lookup", aliases: []string{"ls"}}); err == nil {
		t.Error("duplicate alias should be rejected")
	}
	if err := r.Register(&stubCmd{name: "ls"}); err == nil {
		t.Error("name shadowing an alias should be rejected")
	}

	// A rejected registration must leave nothing behind.
	if _, ok := r.Find("lookup"); ok {
		t.Error("failed registration should not be findable")
	}
}

func TestRegistryAllListsEachCommandOnce(t *testing.T) {
	r := NewRegistry()
	for _, c := range []*stubCmd{
		{name: "rm", aliases: []string{"delete"}},
		{name: "add", aliases: []string{"create"}},
		{name: "list", aliases: []string{"ls"}},
	} {
		if err := r.Register(c); err != nil {
			t.Fatalf("Register failed: %v", err)
		}
	}

	all := r.All()
	if len(all) != 3 {
		t.Fatalf("expected 3 commands, got %d", len(all))
	}
	want := []string{"add", "list", "rm"}
	for i, cmd := range all {
		if cmd.Name() != want[i] {
			t.Errorf("All()[%d] = %q, want %q", i, cmd.Name(), want[i])
		}
	}
}
