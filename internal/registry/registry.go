// Package registry provides a global registry for game core factories.
// Cores register themselves in init() functions, allowing the shell to
// discover and instantiate them without hardcoded dependencies.
package registry

import (
	"fmt"
	"sort"
	"sync"

	"github.com/vovakirdan/gameshell/internal/audio"
	"github.com/vovakirdan/gameshell/internal/core"
	"github.com/vovakirdan/gameshell/internal/input"
)

// Core is the boundary between the shell and a game.
//
// All persistent game state lives in the memory arena passed to Tick.
// RenderAudio and Draw run on other goroutines and only receive a read-only
// view of the latest committed arena generation.
type Core interface {
	// ID returns a unique identifier (e.g., "pong").
	ID() string

	// Title returns a human-readable name for display.
	Title() string

	// Reset initializes the state in mem. Called once before the first tick.
	Reset(cfg core.RuntimeConfig, mem []byte)

	// Tick advances the simulation by one step.
	// The snapshot is only valid for the duration of the call.
	Tick(in *input.Snapshot, mem []byte) core.Output

	// RenderAudio writes one buffer of PCM described by desc into dst.
	RenderAudio(mem []byte, dst []byte, desc audio.Descriptor)

	// Draw renders the state in mem into the screen buffer.
	Draw(mem []byte, dst *core.Screen)
}

// CoreInfo contains metadata about a registered core.
type CoreInfo struct {
	ID    string
	Title string
}

// Factory creates a new instance of a core.
type Factory func() Core

var (
	factories = make(map[string]Factory)
	titles    = make(map[string]string)
	mu        sync.RWMutex
)

// Register adds a core factory to the registry.
// Panics if a core with the same ID is already registered.
func Register(id string, f Factory) {
	mu.Lock()
	defer mu.Unlock()

	if _, exists := factories[id]; exists {
		panic(fmt.Sprintf("registry: core %q already registered", id))
	}

	factories[id] = f
	titles[id] = f().Title()
}

// List returns information about all registered cores, sorted by ID.
func List() []CoreInfo {
	mu.RLock()
	defer mu.RUnlock()

	result := make([]CoreInfo, 0, len(factories))
	for id := range factories {
		result = append(result, CoreInfo{
			ID:    id,
			Title: titles[id],
		})
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].ID < result[j].ID
	})

	return result
}

// Create instantiates a core by its ID.
func Create(id string) (Core, error) {
	mu.RLock()
	defer mu.RUnlock()

	f, ok := factories[id]
	if !ok {
		return nil, fmt.Errorf("registry: unknown core %q", id)
	}

	return f(), nil
}

// Exists checks if a core with the given ID is registered.
func Exists(id string) bool {
	mu.RLock()
	defer mu.RUnlock()

	_, ok := factories[id]
	return ok
}
