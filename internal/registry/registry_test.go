package registry

import (
	"testing"

	"github.com/vovakirdan/gameshell/internal/audio"
	"github.com/vovakirdan/gameshell/internal/core"
	"github.com/vovakirdan/gameshell/internal/input"
)

type stubCore struct{ id string }

func (s stubCore) ID() string                                   { return s.id }
func (s stubCore) Title() string                                { return "Stub " + s.id }
func (s stubCore) Reset(core.RuntimeConfig, []byte)             {}
func (s stubCore) Tick(*input.Snapshot, []byte) core.Output     { return core.Output{} }
func (s stubCore) RenderAudio([]byte, []byte, audio.Descriptor) {}
func (s stubCore) Draw([]byte, *core.Screen)                    {}

func TestRegisterCreateList(t *testing.T) {
	Register("zz-stub", func() Core { return stubCore{id: "zz-stub"} })
	Register("aa-stub", func() Core { return stubCore{id: "aa-stub"} })

	if !Exists("zz-stub") {
		t.Error("Expected zz-stub to exist")
	}

	c, err := Create("aa-stub")
	if err != nil {
		t.Fatalf("Create() failed: %v", err)
	}
	if c.ID() != "aa-stub" {
		t.Errorf("ID() = %q, expected aa-stub", c.ID())
	}

	list := List()
	var ids []string
	for _, info := range list {
		ids = append(ids, info.ID)
	}
	if len(ids) < 2 || ids[0] != "aa-stub" {
		t.Errorf("List() should be sorted, got %v", ids)
	}
	for _, info := range list {
		if info.ID == "zz-stub" && info.Title != "Stub zz-stub" {
			t.Errorf("Title = %q", info.Title)
		}
	}
}

func TestCreateUnknown(t *testing.T) {
	if _, err := Create("missing"); err == nil {
		t.Error("Expected error for unknown core")
	}
}

func TestRegisterDuplicatePanics(t *testing.T) {
	Register("dup-stub", func() Core { return stubCore{id: "dup-stub"} })

	defer func() {
		if recover() == nil {
			t.Error("Expected panic on duplicate registration")
		}
	}()
	Register("dup-stub", func() Core { return stubCore{id: "dup-stub"} })
}
