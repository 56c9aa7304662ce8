package launcher

import (
	"github.com/letsdev/lets/internal/config"
	"github.com/letsdev/lets/internal/suggest"
)

// Registry maps launcher ids to implementations.
type Registry struct {
	launchers map[ID]Launcher
}

// NewRegistry builds the multiplexer and terminal-window launchers from s.
func NewRegistry(s config.Settings, env Env) *Registry {
	env = env.withDefaults()
	return &Registry{launchers: map[ID]Launcher{
		Multiplexer:    NewTmuxLauncher(s, env),
		TerminalWindow: NewTerminalLauncher(s, env),
	}}
}

// IDs returns every registered id in preference order.
func (r *Registry) IDs() []ID {
	ids := make([]ID, 0, len(r.launchers))
	for _, id := range Preference {
		if _, ok := r.launchers[id]; ok {
			ids = append(ids, id)
		}
	}
	return ids
}

// Resolve normalizes name and checks it is registered.
func (r *Registry) Resolve(name string) (ID, error) {
	id, ok := Normalize(name)
	if ok {
		if _, registered := r.launchers[id]; registered {
			return id, nil
		}
	}

	candidates := make([]string, 0, len(aliases))
	for alias := range aliases {
		candidates = append(candidates, alias)
	}
	return "", &UnknownLauncherError{
		ID:          name,
		Valid:       r.IDs(),
		Suggestions: suggest.FindSimilar(name, candidates, 2),
	}
}

// Get returns the launcher registered under name (aliases accepted).
func (r *Registry) Get(name string) (Launcher, error) {
	id, err := r.Resolve(name)
	if err != nil {
		return nil, err
	}
	return r.launchers[id], nil
}

// Available checks every launcher and returns those usable on this host,
// in preference order. Nothing is cached.
func (r *Registry) Available() []ID {
	var out []ID
	for _, id := range r.IDs() {
		if r.launchers[id].IsAvailable() {
			out = append(out, id)
		}
	}
	return out
}

// IsAvailable reports whether id is registered and usable.
func (r *Registry) IsAvailable(id ID) bool {
	l, ok := r.launchers[id]
	return ok && l.IsAvailable()
}

// SelectBest returns preferred when it is registered and available, else
// the first available launcher in preference order, else terminal-window.
func (r *Registry) SelectBest(preferred ID) ID {
	if r.IsAvailable(preferred) {
		return preferred
	}
	if avail := r.Available(); len(avail) > 0 {
		return avail[0]
	}
	return TerminalWindow
}
