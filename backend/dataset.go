package backend

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownLabel is returned when a requested series is not in the dataset.
	ErrUnknownLabel = errors.New("unknown series label")
	// ErrUnknownMetric is returned when a series does not record a requested metric.
	ErrUnknownMetric = errors.New("unknown metric")
)

// Dataset is an immutable collection of series keyed by their ID. It remembers
// the order in which the series appeared in their source document. Several
// series may share a display label as long as their keys differ.
type Dataset struct {
	series map[string]*Series
	order  []string
}

// NewDataset builds a dataset from series in the given order. A later series
// replaces an earlier one with the same ID but keeps the earlier position.
func NewDataset(series ...*Series) *Dataset {
	d := &Dataset{series: make(map[string]*Series, len(series))}
	for _, s := range series {
		id := s.ID()
		if _, ok := d.series[id]; !ok {
			d.order = append(d.order, id)
		}
		d.series[id] = s
	}
	return d
}

// Len returns the number of series in the dataset.
func (d *Dataset) Len() int {
	if d == nil {
		return 0
	}
	return len(d.order)
}

// Labels returns the keys of the dataset in document order. These are the names
// Lookup, Select and plan label lists refer to.
func (d *Dataset) Labels() []string {
	if d == nil {
		return nil
	}
	return append([]string(nil), d.order...)
}

// Lookup returns the series stored under the given key.
func (d *Dataset) Lookup(label string) (*Series, error) {
	if d != nil {
		if s, ok := d.series[label]; ok {
			return s, nil
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownLabel, label)
}

// Select returns the series named by labels in that order, or every series in
// document order if labels is empty. The first missing label aborts the selection.
func (d *Dataset) Select(labels []string) ([]*Series, error) {
	if len(labels) == 0 {
		labels = d.Labels()
	}
	out := make([]*Series, 0, len(labels))
	for _, label := range labels {
		s, err := d.Lookup(label)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

// Merge returns a new dataset containing the series of d with the given series
// added. Series whose ID already exists replace the existing entry in place.
func (d *Dataset) Merge(series ...*Series) *Dataset {
	all := make([]*Series, 0, d.Len()+len(series))
	for _, label := range d.Labels() {
		all = append(all, d.series[label])
	}
	all = append(all, series...)
	return NewDataset(all...)
}
