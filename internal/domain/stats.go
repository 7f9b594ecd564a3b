package domain

import (
	"bytes"
	"cmp"
	"encoding/json"
	"fmt"
	"math"
	"slices"
	"strconv"
)

// Runner is one execution context of the run and the capability label it
// reported. Contexts sharing a label are merged into one browser.
type Runner struct {
	CID                   string `json:"-"`
	SanitizedCapabilities string `json:"sanitizedCapabilities"`
}

// Runners is the ordered list of execution contexts. Order matters: browsers
// appear in the report in the order of their first context.
//
// On the wire Runners is an object keyed by context id, as the test runner
// emits it; decoding orders the keys the way a JavaScript object enumerates
// them: integer-like ids ("0", "1", "10") first in ascending numeric order,
// then the remaining ids in document order.
type Runners []Runner

// Add appends a context unless its id is already known.
// It reports whether the context was added.
func (r *Runners) Add(cid, capabilities string) bool {
	for _, existing := range *r {
		if existing.CID == cid {
			return false
		}
	}
	*r = append(*r, Runner{CID: cid, SanitizedCapabilities: capabilities})
	return true
}

// Browsers groups context ids by capability label. The returned label slice
// is in order of first appearance.
func (r Runners) Browsers() ([]string, map[string][]string) {
	labels := make([]string, 0, len(r))
	byLabel := make(map[string][]string, len(r))
	for _, runner := range r {
		label := runner.SanitizedCapabilities
		if _, seen := byLabel[label]; !seen {
			labels = append(labels, label)
		}
		byLabel[label] = append(byLabel[label], runner.CID)
	}
	return labels, byLabel
}

// MarshalJSON writes the runners as an object keyed by context id, in order.
func (r Runners) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, runner := range r {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(runner.CID)
		if err != nil {
			return nil, err
		}
		value, err := json.Marshal(runner)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON reads an object keyed by context id in object enumeration
// order. Duplicate keys keep their first position and last value.
func (r *Runners) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*r = nil
		return nil
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("runners: expected object, got %v", tok)
	}

	out := Runners{}
	index := make(map[string]int)
	for dec.More() {
		tok, err = dec.Token()
		if err != nil {
			return err
		}
		cid, ok := tok.(string)
		if !ok {
			return fmt.Errorf("runners: expected key, got %v", tok)
		}
		var runner Runner
		if err = dec.Decode(&runner); err != nil {
			return fmt.Errorf("runners[%q]: %w", cid, err)
		}
		runner.CID = cid
		if i, seen := index[cid]; seen {
			out[i] = runner
			continue
		}
		index[cid] = len(out)
		out = append(out, runner)
	}
	if _, err = dec.Token(); err != nil {
		return err
	}

	slices.SortStableFunc(out, func(a, b Runner) int {
		ai, aok := arrayIndex(a.CID)
		bi, bok := arrayIndex(b.CID)
		switch {
		case aok && bok:
			return cmp.Compare(ai, bi)
		case aok:
			return -1
		case bok:
			return 1
		default:
			return 0
		}
	})

	*r = out
	return nil
}

// arrayIndex reports whether key is a canonical array index, which object
// enumeration lists before every other key.
func arrayIndex(key string) (uint64, bool) {
	n, err := strconv.ParseUint(key, 10, 32)
	if err != nil || n == math.MaxUint32 || strconv.FormatUint(n, 10) != key {
		return 0, false
	}
	return n, true
}

// RunStats are the run statistics read at completion. Start and End use
// constants.InputTimestampLayout.
type RunStats struct {
	Start   string  `json:"start"`
	End     string  `json:"end"`
	Runners Runners `json:"runners"`
}
