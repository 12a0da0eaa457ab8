package metricsplot

// InstrumentEntry describes one registered instrument.
type InstrumentEntry struct {
	Type   InstrumentType
	Key    Key
	Config InstrumentConfig
}

// Describe returns the metadata stored when the instrument of the given type was
// first registered under key. The flag is false when no such instrument exists.
func (r *Registry) Describe(typ InstrumentType, key Key) (InstrumentConfig, bool) {
	id := key.identity()

	r.mu.Lock()
	defer r.mu.Unlock()

	switch typ {
	case InstrumentTypeCounter:
		if inst, ok := r.counters[id]; ok {
			return inst.cfg, true
		}
	case InstrumentTypeGauge:
		if inst, ok := r.gauges[id]; ok {
			return inst.cfg, true
		}
	case InstrumentTypeHistogram:
		if inst, ok := r.histograms[id]; ok {
			return inst.cfg, true
		}
	}
	return InstrumentConfig{}, false
}

// ListMetadata returns a point-in-time list of every registered instrument,
// ordered by type then key.
func (r *Registry) ListMetadata() []InstrumentEntry {
	snap := r.snapshot()
	out := make([]InstrumentEntry, 0, len(snap.counters)+len(snap.gauges)+len(snap.histograms))
	out = appendEntries(out, InstrumentTypeCounter, snap.counters)
	out = appendEntries(out, InstrumentTypeGauge, snap.gauges)
	out = appendEntries(out, InstrumentTypeHistogram, snap.histograms)
	return out
}

func appendEntries[C any](out []InstrumentEntry, typ InstrumentType, insts []*instrument[C]) []InstrumentEntry {
	for _, inst := range insts {
		out = append(out, InstrumentEntry{Type: typ, Key: inst.key, Config: inst.cfg})
	}
	return out
}
