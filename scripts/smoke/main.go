package main

import (
	"flag"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"
)

type target struct {
	Method   string
	Path     string
	Expect   int
	Critical bool
}

type result struct {
	Target   target
	Status   int
	Duration time.Duration
	Error    error
}

// Checks the local surface end to end against a running gateway. Endpoints
// that require a session are expected to answer 401 when the check runs
// signed out.
var targets = []target{
	{Method: http.MethodGet, Path: "/health", Expect: http.StatusOK, Critical: true},
	{Method: http.MethodGet, Path: "/ready", Expect: http.StatusOK, Critical: true},
	{Method: http.MethodGet, Path: "/metrics", Expect: http.StatusOK},
	{Method: http.MethodGet, Path: "/auth/session", Expect: http.StatusOK, Critical: true},
	{Method: http.MethodGet, Path: "/ledger", Expect: http.StatusOK, Critical: true},
	{Method: http.MethodGet, Path: "/payment/state", Expect: http.StatusOK},
	{Method: http.MethodPost, Path: "/generate", Expect: http.StatusUnauthorized, Critical: true},
	{Method: http.MethodGet, Path: "/history", Expect: http.StatusUnauthorized},
}

func main() {
	var (
		base    string
		timeout time.Duration
	)

	flag.StringVar(&base, "base", "http://localhost:5000", "Gateway base URL")
	flag.DurationVar(&timeout, "timeout", 5*time.Second, "HTTP client timeout")
	flag.Parse()

	client := &http.Client{Timeout: timeout}
	var breaking, optional int

	results := make([]result, 0, len(targets))
	for _, tgt := range targets {
		res := check(client, base, tgt)
		if res.Error != nil || res.Status != tgt.Expect {
			if tgt.Critical {
				breaking++
			} else {
				optional++
			}
		}
		results = append(results, res)
	}

	printReport(results)

	fmt.Printf("Critical failures: %d, Optional failures: %d\n", breaking, optional)
	if breaking > 0 {
		os.Exit(1)
	}
}

func check(client *http.Client, base string, tgt target) result {
	res := result{Target: tgt}

	path := tgt.Path
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	url := strings.TrimRight(base, "/") + path

	req, err := http.NewRequest(tgt.Method, url, nil)
	if err != nil {
		res.Error = err
		return res
	}

	start := time.Now()
	resp, err := client.Do(req)
	res.Duration = time.Since(start)
	if err != nil {
		res.Error = err
		return res
	}
	defer resp.Body.Close() //nolint:errcheck

	res.Status = resp.StatusCode
	return res
}

func printReport(results []result) {
	fmt.Println("Gateway Smoke Report")
	fmt.Println("====================")
	for _, res := range results {
		status := "OK"
		if res.Error != nil {
			status = "ERROR"
		} else if res.Status != res.Target.Expect {
			status = "FAIL"
		}
		fmt.Printf("[%s] %s %s\n", status, res.Target.Method, res.Target.Path)
		if res.Error != nil {
			fmt.Printf("  Error: %v\n", res.Error)
			continue
		}
		fmt.Printf("  Status: %d (want %d) in %s | Critical: %t\n", res.Status, res.Target.Expect, res.Duration, res.Target.Critical)
	}
}
