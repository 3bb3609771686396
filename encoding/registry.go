package encoding

import (
	"sort"
	"strings"
	"sync"

	"github.com/derekparker/trie"
	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/npillmayer/bitfont/core"
)

// replacement patterns for name normalisation, applied longest-first to
// avoid partial matches
var normalisationPatterns = map[string]string{
	"microsoftcp": "windows",
	"microsoft":   "windows",
	"msdoscp":     "oem",
	"oemcp":       "oem",
	"msdos":       "oem",
	"ibmcp":       "ibm",
	"apple":       "mac",
	"macos":       "mac",
	"doscp":       "oem",
	"mscp":        "windows",
	"dos":         "oem",
	"pc":          "oem",
	"ms":          "windows",
	// mac-roman is also known as x-mac-roman etc.
	"x": "",
}

// Registry registers and retrieves charmaps and other encoders by any of
// their aliases. It is expected to be populated at startup and treated
// read-mostly thereafter; late registrations are permitted but warn on
// redefinition.
type Registry struct {
	mu       sync.RWMutex
	index    map[string]int
	entries  []*regEntry
	rewrites *trie.Trie
	maxPat   int
}

type regEntry struct {
	name     string // normalised primary name
	enc      Encoder
	factory  func() (Encoder, error)
	cm       *Charmap
	overlays []overlayDef
	resolved Encoder // cached result of Get
}

type overlayDef struct {
	cm     *Charmap
	ranges RangeSet
}

// NewRegistry creates an empty encoding registry.
func NewRegistry() *Registry {
	r := &Registry{
		index:    make(map[string]int),
		rewrites: trie.New(),
	}
	for pat, repl := range normalisationPatterns {
		r.rewrites.Add(pat, repl)
		if len(pat) > r.maxPat {
			r.maxPat = len(pat)
		}
	}
	return r
}

// normalise reduces a name to its base form for matching: lowercase,
// with separators stripped and known prefixes rewritten.
func (r *Registry) normalise(name string) string {
	name = strings.ToLower(name)
	for _, sep := range []string{".", "_", "-", " "} {
		name = strings.ReplaceAll(name, sep, "")
	}
	limit := min(len(name), r.maxPat)
	for l := limit; l > 0; l-- {
		if node, ok := r.rewrites.Find(name[:l]); ok {
			return node.Meta().(string) + name[l:]
		}
	}
	return name
}

// Match tells whether two encoding names refer to the same encoding.
func (r *Registry) Match(name1, name2 string) bool {
	return r.normalise(name1) == r.normalise(name2)
}

func (r *Registry) insert(name string, e *regEntry) {
	normname := r.normalise(name)
	if _, ok := r.index[normname]; ok {
		tracer().Infof("redefining encoder '%s'~'%s'", name, normname)
	}
	r.index[normname] = len(r.entries)
	r.entries = append(r.entries, e)
}

// Register inserts a lazily loaded charmap under one or more names. The
// first name is the primary one; see LoadCharmap for the filename, format
// and option semantics.
func (r *Registry) Register(names []string, filename, format string, opts *LoadOptions) {
	if len(names) == 0 {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	e := &regEntry{
		name: NormaliseName(names[0]),
		cm:   LoadCharmap(filename, names[0], format, opts),
	}
	r.insert(names[0], e)
	for _, alias := range names[1:] {
		normname := r.normalise(alias)
		if _, ok := r.index[normname]; ok {
			tracer().Infof("redefining encoder '%s'~'%s'", alias, normname)
		}
		r.index[normname] = len(r.entries) - 1
	}
}

// AddCharmap inserts an already built charmap.
func (r *Registry) AddCharmap(cm *Charmap) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.insert(cm.Name(), &regEntry{name: cm.Name(), cm: cm})
}

// AddType inserts an encoder factory under one or more names; used for the
// Unicode and Indexer encoder variants.
func (r *Registry) AddType(names []string, factory func() (Encoder, error)) {
	if len(names) == 0 {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	e := &regEntry{name: NormaliseName(names[0]), factory: factory}
	r.insert(names[0], e)
	for _, alias := range names[1:] {
		r.index[r.normalise(alias)] = len(r.entries) - 1
	}
}

// Alias registers an additional name for a registered encoding. Aliases
// colliding with the primary name of another encoding are rejected;
// redefining an existing alias warns.
func (r *Registry) Alias(alias, name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	target, ok := r.index[r.normalise(name)]
	if !ok {
		return r.notFound(name)
	}
	normalias := r.normalise(alias)
	if i, ok := r.index[normalias]; ok {
		if r.normalise(r.entries[i].name) == normalias {
			return core.Error(core.EINVALID,
				"alias '%s' collides with registered charmap '%s'",
				alias, r.entries[i].name)
		}
		if i != target {
			tracer().Infof("redefining alias '%s'~'%s'", alias, normalias)
		}
	}
	r.index[normalias] = target
	return nil
}

// Overlay appends an overlay to a registered charmap: when the charmap is
// retrieved, the keys of the overlay file that lie within the given ranges
// shadow the base map. Overlays apply in the order they were added.
func (r *Registry) Overlay(name, filename string, ranges RangeSet, format string, opts *LoadOptions) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	i, ok := r.index[r.normalise(name)]
	if !ok {
		return r.notFound(name)
	}
	e := r.entries[i]
	if e.cm == nil {
		return core.Error(core.EUNSUPPORTED,
			"encoding '%s' is not a charmap, cannot overlay", name)
	}
	e.overlays = append(e.overlays, overlayDef{
		cm:     LoadCharmap(filename, "", format, opts),
		ranges: ranges,
	})
	e.resolved = nil
	return nil
}

// Get retrieves an encoder by any of its aliases. Lazily registered
// charmaps are loaded and their overlays folded in on first retrieval.
func (r *Registry) Get(name string) (Encoder, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	i, ok := r.index[r.normalise(name)]
	if !ok {
		return nil, r.notFound(name)
	}
	return r.resolve(r.entries[i])
}

func (r *Registry) resolve(e *regEntry) (Encoder, error) {
	if e.resolved != nil {
		return e.resolved, nil
	}
	if e.factory != nil {
		enc, err := e.factory()
		if err != nil {
			return nil, err
		}
		e.resolved = enc
		return enc, nil
	}
	cm := e.cm
	if err := cm.Load(); err != nil {
		return nil, err
	}
	for _, ov := range e.overlays {
		var err error
		if cm, err = cm.OverlayRange(ov.cm, ov.ranges); err != nil {
			return nil, err
		}
	}
	e.resolved = cm
	return cm, nil
}

// GetCharmap retrieves a registered charmap; encodings which are not
// charmaps yield a not-found error.
func (r *Registry) GetCharmap(name string) (*Charmap, error) {
	enc, err := r.Get(name)
	if err != nil {
		return nil, err
	}
	cm, ok := enc.(*Charmap)
	if !ok {
		return nil, core.Error(core.EMISSING,
			"encoding '%s' is not a charmap", name)
	}
	return cm, nil
}

// IsUnicode tells whether an encoding name is equivalent to unicode.
func (r *Registry) IsUnicode(name string) bool {
	enc, err := r.Get(name)
	if err != nil {
		return false
	}
	_, ok := enc.(Unicode)
	return ok
}

// Names lists the normalised names and aliases of all registered
// encodings, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.index))
	for name := range r.index {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Fit returns the registered charmap with minimal distance to the given
// one. An exact match short-circuits the scan.
func (r *Registry) Fit(cm *Charmap) (*Charmap, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	minDist := cm.Len()
	best := NewCharmap("", nil)
	for _, e := range r.entries {
		if e.cm == nil {
			continue
		}
		enc, err := r.resolve(e)
		if err != nil {
			tracer().Debugf("skipping charmap %s during fit: %v", e.name, err)
			continue
		}
		registered, ok := enc.(*Charmap)
		if !ok {
			continue
		}
		dist := cm.Distance(registered)
		if dist == 0 {
			return registered, nil
		}
		if dist < minDist {
			minDist = dist
			best = registered
		}
	}
	return best, nil
}

// notFound builds a not-found error, suggesting close registered names.
func (r *Registry) notFound(name string) error {
	normname := r.normalise(name)
	names := make([]string, 0, len(r.index))
	for n := range r.index {
		names = append(names, n)
	}
	ranks := fuzzy.RankFindFold(normname, names)
	sort.Sort(ranks)
	if len(ranks) > 0 {
		limit := min(3, len(ranks))
		suggestions := make([]string, 0, limit)
		for _, rank := range ranks[:limit] {
			suggestions = append(suggestions, rank.Target)
		}
		return core.Error(core.EMISSING,
			"no registered character map matches '%s' ['%s']; did you mean %s?",
			name, normname, strings.Join(suggestions, ", "))
	}
	return core.Error(core.EMISSING,
		"no registered character map matches '%s' ['%s']", name, normname)
}
