// plan_compare requests the same study-plan scenarios from two deployments
// and reports response differences. Generation is deterministic per parameter
// set, so any body diff between a candidate and a reference deployment is a
// real behavioral change.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"time"
)

type scenario struct {
	Name         string   `json:"name"`
	Start        string   `json:"start"`
	Test         string   `json:"test"`
	Priorities   []string `json:"priorities"`
	Availability []string `json:"availability"`
	FLWeekday    string   `json:"fl_weekday"`
	Critical     bool     `json:"critical"`
}

type config struct {
	Scenarios []scenario `json:"scenarios"`
}

type comparison struct {
	Scenario          scenario
	CandidateStatus   int
	ReferenceStatus   int
	StatusMatch       bool
	BodyMatch         bool
	Error             error
	DurationCandidate time.Duration
	DurationReference time.Duration
}

// Volatile envelope fields excluded from body comparison.
var ignoredFields = []string{"generatedAt", "meta"}

func main() {
	var (
		candidateBase string
		referenceBase string
		scenariosPath string
		timeout       time.Duration
	)

	flag.StringVar(&candidateBase, "candidate", "http://localhost:8080", "Candidate API base URL")
	flag.StringVar(&referenceBase, "reference", "http://localhost:3000", "Reference API base URL")
	flag.StringVar(&scenariosPath, "scenarios", filepath.Join("scripts", "plan_compare", "scenarios.json"), "Path to JSON scenarios file")
	flag.DurationVar(&timeout, "timeout", 10*time.Second, "HTTP client timeout")
	flag.Parse()

	scenarios, err := loadScenarios(scenariosPath)
	if err != nil {
		log.Fatalf("failed to load scenarios: %v", err)
	}

	client := &http.Client{Timeout: timeout}
	var (
		comparisons  []comparison
		breaking     int
		optionalDiff int
	)

	for _, s := range scenarios {
		comp := compareScenario(client, candidateBase, referenceBase, s)
		if comp.Error != nil || !comp.StatusMatch || !comp.BodyMatch {
			if s.Critical {
				breaking++
			} else {
				optionalDiff++
			}
		}
		comparisons = append(comparisons, comp)
	}

	printReport(comparisons)

	fmt.Printf("Breaking diffs: %d, Optional diffs: %d\n", breaking, optionalDiff)
	if breaking > 0 {
		os.Exit(1)
	}
}

func loadScenarios(path string) ([]scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	if len(cfg.Scenarios) == 0 {
		return nil, fmt.Errorf("no scenarios defined in %s", path)
	}
	return cfg.Scenarios, nil
}

func compareScenario(client *http.Client, candidateBase, referenceBase string, s scenario) comparison {
	comp := comparison{Scenario: s}

	candidateBody, candidateStatus, candidateDur, err := fetchPlan(client, candidateBase, s)
	comp.DurationCandidate = candidateDur
	if err != nil {
		comp.Error = fmt.Errorf("candidate request failed: %w", err)
		return comp
	}

	referenceBody, referenceStatus, referenceDur, err := fetchPlan(client, referenceBase, s)
	comp.DurationReference = referenceDur
	if err != nil {
		comp.Error = fmt.Errorf("reference request failed: %w", err)
		return comp
	}

	comp.CandidateStatus = candidateStatus
	comp.ReferenceStatus = referenceStatus
	comp.StatusMatch = candidateStatus == referenceStatus
	comp.BodyMatch = bodiesEqual(candidateBody, referenceBody)
	return comp
}

func fetchPlan(client *http.Client, base string, s scenario) ([]byte, int, time.Duration, error) {
	query := url.Values{}
	query.Set("start", s.Start)
	query.Set("test", s.Test)
	query.Set("priorities", strings.Join(s.Priorities, ","))
	query.Set("availability", strings.Join(s.Availability, ","))
	if s.FLWeekday != "" {
		query.Set("fl_weekday", s.FLWeekday)
	}
	target := strings.TrimRight(base, "/") + "/full-plan?" + query.Encode()

	start := time.Now()
	resp, err := client.Get(target)
	if err != nil {
		return nil, 0, 0, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, 0, 0, fmt.Errorf("read body: %w", err)
	}
	return body, resp.StatusCode, time.Since(start), nil
}

func bodiesEqual(a, b []byte) bool {
	var aj, bj interface{}
	if err := json.Unmarshal(a, &aj); err != nil {
		return false
	}
	if err := json.Unmarshal(b, &bj); err != nil {
		return false
	}
	normalize(&aj)
	normalize(&bj)
	return reflect.DeepEqual(aj, bj)
}

func normalize(v *interface{}) {
	switch val := (*v).(type) {
	case map[string]interface{}:
		for _, field := range ignoredFields {
			delete(val, field)
		}
		for k, v2 := range val {
			normalize(&v2)
			val[k] = v2
		}
	case []interface{}:
		for i, v2 := range val {
			normalize(&v2)
			val[i] = v2
		}
	case float64:
		if val == float64(int64(val)) {
			*v = int64(val)
		}
	}
}

func printReport(results []comparison) {
	fmt.Println("Plan Compare Report")
	fmt.Println("===================")
	for _, res := range results {
		status := "OK"
		if res.Error != nil {
			status = "ERROR"
		} else if !res.StatusMatch || !res.BodyMatch {
			status = "DIFF"
		}
		fmt.Printf("[%s] %s (%s -> %s)\n", status, res.Scenario.Name, res.Scenario.Start, res.Scenario.Test)
		fmt.Printf("  Candidate: %d (%s)\n", res.CandidateStatus, res.DurationCandidate)
		fmt.Printf("  Reference: %d (%s)\n", res.ReferenceStatus, res.DurationReference)
		if res.Error != nil {
			fmt.Printf("  Error: %v\n", res.Error)
		} else {
			fmt.Printf("  Status match: %t | Body match: %t | Critical: %t\n", res.StatusMatch, res.BodyMatch, res.Scenario.Critical)
		}
	}
}
