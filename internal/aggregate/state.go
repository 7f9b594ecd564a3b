// Package aggregate folds the runner's event stream into per-test,
// per-context step records and reduces them into the report model once the
// run completes.
//
// The package is not safe for concurrent use. Events are delivered one at a
// time by a single caller (see internal/eventstream), and finalization runs
// after the last event, on the same goroutine.
package aggregate

import "github.com/mrz1836/xrayreport/internal/domain"

// nodeKind tags the variant held by a node.
type nodeKind int

const (
	kindSuite nodeKind = iota + 1
	kindScenario
)

// suite is a feature-level grouping. Scenarios are referenced by UID in
// registration order.
type suite struct {
	externalID string
	tags       []domain.Tag
	scenarios  []string
}

// scenario is one test case. parentUID is a non-owning reference to the
// suite node it was appended to, empty when the parent was never resolved.
type scenario struct {
	externalID string
	parentUID  string
	tagKey     string
	steps      map[string][]domain.Step
}

// node is one entry of the identity map: exactly one of suite or scenario is
// set, matching kind.
type node struct {
	kind     nodeKind
	suite    *suite
	scenario *scenario
}

// State is the aggregation state: an append-only map from runner UID to
// suite or scenario, plus the registration order of suites. Entries are
// never removed or re-typed once created.
type State struct {
	nodes    map[string]node
	suites   []string
	features map[string]string // external id -> suite uid

	// executionKey is the legacy tag-derived test execution key of the most
	// recently registered tagged suite.
	executionKey string
}

// NewState returns an empty aggregation state.
func NewState() *State {
	return &State{
		nodes:    make(map[string]node),
		features: make(map[string]string),
	}
}

// has reports whether uid is already registered.
func (s *State) has(uid string) bool {
	_, ok := s.nodes[uid]
	return ok
}

// suite returns the suite registered under uid.
func (s *State) suite(uid string) (*suite, bool) {
	n, ok := s.nodes[uid]
	if !ok || n.kind != kindSuite {
		return nil, false
	}
	return n.suite, true
}

// scenario returns the scenario registered under uid.
func (s *State) scenario(uid string) (*scenario, bool) {
	n, ok := s.nodes[uid]
	if !ok || n.kind != kindScenario {
		return nil, false
	}
	return n.scenario, true
}

// addSuite registers a new suite.
func (s *State) addSuite(uid string, st *suite) {
	s.nodes[uid] = node{kind: kindSuite, suite: st}
	s.suites = append(s.suites, uid)
	s.features[st.externalID] = uid
}

// addScenario registers a new scenario and appends it to its parent when
// the parent is known.
func (s *State) addScenario(uid string, sc *scenario) {
	s.nodes[uid] = node{kind: kindScenario, scenario: sc}
	if parent, ok := s.suite(sc.parentUID); ok {
		parent.scenarios = append(parent.scenarios, uid)
	}
}

// featureRegistered reports whether a suite with the external id exists.
func (s *State) featureRegistered(externalID string) bool {
	_, ok := s.features[externalID]
	return ok
}

// SuiteCount returns the number of registered suites.
func (s *State) SuiteCount() int {
	return len(s.suites)
}

// ScenarioCount returns the number of scenarios reachable from a suite.
func (s *State) ScenarioCount() int {
	n := 0
	for _, uid := range s.suites {
		st, _ := s.suite(uid)
		n += len(st.scenarios)
	}
	return n
}

// StepCount returns the number of steps recorded on reachable scenarios.
func (s *State) StepCount() int {
	n := 0
	s.eachScenario(func(sc *scenario) {
		for _, steps := range sc.steps {
			n += len(steps)
		}
	})
	return n
}

// eachScenario visits every reachable scenario, suites in registration
// order and scenarios in append order.
func (s *State) eachScenario(fn func(sc *scenario)) {
	for _, uid := range s.suites {
		st, _ := s.suite(uid)
		for _, scUID := range st.scenarios {
			sc, _ := s.scenario(scUID)
			fn(sc)
		}
	}
}
