package encoding

import (
	"sync"

	"github.com/BurntSushi/toml"
)

type charmapDef struct {
	Name     string       `toml:"name"`
	File     string       `toml:"file"`
	Format   string       `toml:"format"`
	Aliases  []string     `toml:"aliases"`
	Overlays []overlayFileDef `toml:"overlays"`
}

type overlayFileDef struct {
	File   string `toml:"file"`
	Range  string `toml:"range"`
	Format string `toml:"format"`
}

type definitionsFile struct {
	Charmaps []charmapDef `toml:"charmaps"`
}

var globalRegistry *Registry
var globalRegistryCreation sync.Once

// GlobalRegistry is an application-wide singleton holding the character
// maps packaged with the module. It is populated on first access; clients
// may register additional encodings afterwards.
func GlobalRegistry() *Registry {
	globalRegistryCreation.Do(func() {
		globalRegistry = NewRegistry()
		registerBuiltins(globalRegistry)
	})
	return globalRegistry
}

func registerBuiltins(r *Registry) {
	r.AddType([]string{"unicode", "ucs", "iso10646", "iso10646-1"},
		func() (Encoder, error) { return Unicode{}, nil })
	data, err := tablesFS.ReadFile("tables/charmaps.toml")
	if err != nil {
		tracer().Errorf("cannot read charmap definitions: %v", err)
		return
	}
	var defs definitionsFile
	if err := toml.Unmarshal(data, &defs); err != nil {
		tracer().Errorf("cannot parse charmap definitions: %v", err)
		return
	}
	for _, def := range defs.Charmaps {
		names := append([]string{def.Name}, def.Aliases...)
		r.Register(names, def.File, def.Format, nil)
		for _, ov := range def.Overlays {
			ranges := FullRange
			if ov.Range != "" {
				var err error
				if ranges, err = ParseRanges(ov.Range); err != nil {
					tracer().Errorf("bad overlay range for charmap %s: %v", def.Name, err)
					continue
				}
			}
			if err := r.Overlay(def.Name, ov.File, ranges, ov.Format, nil); err != nil {
				tracer().Errorf("cannot overlay charmap %s: %v", def.Name, err)
			}
		}
	}
}
