package metricsplot

import (
	"sort"
	"strconv"
	"strings"
)

// Label is a single key/value pair attached to a metric Key.
type Label struct {
	Key   string
	Value string
}

// Key identifies a metric by its name and an unordered set of labels.
// Two keys built from the same name and the same labels are equal regardless
// of the order the labels were passed in. Keys are immutable.
type Key struct {
	name   string
	labels []Label // sorted by Label.Key, unique keys
	id     string  // unambiguous encoding used for equality and map lookups
}

// NewKey builds a Key. When a label key is repeated, the last value wins.
func NewKey(name string, labels ...Label) Key {
	k := Key{name: name}
	if len(labels) > 0 {
		sorted := make([]Label, len(labels))
		copy(sorted, labels)
		sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Key < sorted[j].Key })

		k.labels = sorted[:0]
		for i, l := range sorted {
			if i+1 < len(sorted) && sorted[i+1].Key == l.Key {
				continue
			}
			k.labels = append(k.labels, l)
		}
	}
	k.id = k.encode()
	return k
}

// encode quotes the name and every label key and value, so distinct keys never
// share an encoding even when their display strings coincide.
func (k Key) encode() string {
	var b strings.Builder
	b.WriteString(strconv.Quote(k.name))
	for _, l := range k.labels {
		b.WriteByte(',')
		b.WriteString(strconv.Quote(l.Key))
		b.WriteByte('=')
		b.WriteString(strconv.Quote(l.Value))
	}
	return b.String()
}

func (k Key) identity() string {
	if k.id == "" {
		return k.encode()
	}
	return k.id
}

func (k Key) format() string {
	if len(k.labels) == 0 {
		return k.name
	}
	var b strings.Builder
	b.WriteString(k.name)
	b.WriteByte('{')
	for i, l := range k.labels {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(l.Key)
		b.WriteByte('=')
		b.WriteString(strconv.Quote(l.Value))
	}
	b.WriteByte('}')
	return b.String()
}

// Name returns the metric name.
func (k Key) Name() string { return k.name }

// Labels returns a copy of the labels sorted by key.
func (k Key) Labels() []Label {
	if len(k.labels) == 0 {
		return nil
	}
	out := make([]Label, len(k.labels))
	copy(out, k.labels)
	return out
}

// String returns the display name of the key: the bare name when there are no
// labels, otherwise name{k1="v1",k2="v2"} with labels sorted by key.
// Label keys are not escaped, so two distinct keys may display the same way.
func (k Key) String() string { return k.format() }

// Equal reports whether both keys have the same name and label set.
func (k Key) Equal(other Key) bool { return k.identity() == other.identity() }
