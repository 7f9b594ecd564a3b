package domain

import "github.com/mrz1836/xrayreport/internal/constants"

// Step is one recorded pass/fail unit of a scenario in one execution context.
// Steps are never modified after they are recorded.
type Step struct {
	Status  constants.Status `json:"status"`
	Comment string           `json:"comment"`
}

// TestResult is the outcome of one test for one browser. Examples holds one
// status per execution of the test, so data-driven scenarios list every row.
type TestResult struct {
	TestKey  string             `json:"testKey"`
	Start    string             `json:"start"`
	Finish   string             `json:"finish"`
	Status   constants.Status   `json:"status"`
	Steps    []Step             `json:"steps"`
	Examples []constants.Status `json:"examples"`
	Comment  string             `json:"comment"`
}

// Info is the execution metadata of a Result. The optional fields are left
// out of the document entirely when not configured.
type Info struct {
	Summary          string   `json:"summary"`
	StartDate        string   `json:"startDate"`
	FinishDate       string   `json:"finishDate"`
	TestPlanKey      string   `json:"testPlanKey"`
	TestEnvironments []string `json:"testEnvironments"`
	Revision         string   `json:"revision,omitempty"`
	Version          string   `json:"version,omitempty"`
	User             string   `json:"user,omitempty"`
	Project          string   `json:"project,omitempty"`
}

// Result is the import document of one browser.
type Result struct {
	TestExecutionKey string       `json:"testExecutionKey,omitempty"`
	Info             Info         `json:"info"`
	Tests            []TestResult `json:"tests"`
}

// Browser returns the browser label of the result.
func (r Result) Browser() string {
	if len(r.Info.TestEnvironments) == 0 {
		return ""
	}
	return r.Info.TestEnvironments[0]
}

// Counts returns the number of passed and failed tests.
func (r Result) Counts() (passed, failed int) {
	for _, t := range r.Tests {
		if t.Status == constants.StatusFail {
			failed++
			continue
		}
		passed++
	}
	return passed, failed
}
