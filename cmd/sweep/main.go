// Command sweep drives a running simulator through its REST API. It creates
// (or resumes) a session, plans a tour over the scenario's landmarks and
// sends the car to each one in turn, stepping until it arrives or the search
// finds no route. It prints per-trip search statistics at the end.
package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"text/tabwriter"
	"time"

	"github.com/wricardo/mcp-training/pathfinder/game/engine"
	"github.com/wricardo/mcp-training/pathfinder/game/grid"
	"github.com/wricardo/mcp-training/pathfinder/game/playback"
	"github.com/wricardo/mcp-training/pathfinder/game/service"
)

type Client struct {
	baseURL   string
	sessionID string
	client    *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// do sends a JSON request and decodes a 2xx response into out
func (c *Client) do(method, path string, in, out interface{}) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	data, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%s %s failed: %s - %s", method, path, resp.Status, bytes.TrimSpace(data))
	}

	if out != nil {
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("parse %s response: %w", path, err)
		}
	}
	return nil
}

func (c *Client) sessionPath(suffix string) string {
	return "/api/sessions/" + c.sessionID + suffix
}

func (c *Client) CreateSession(configName string) (*service.SessionInfo, error) {
	var info service.SessionInfo
	req := map[string]string{}
	if configName != "" {
		req["config_id"] = configName
	}
	if err := c.do(http.MethodPost, "/api/sessions", req, &info); err != nil {
		return nil, err
	}
	c.sessionID = info.ID
	return &info, nil
}

func (c *Client) GetState() (*engine.Snapshot, error) {
	var snap engine.Snapshot
	if err := c.do(http.MethodGet, c.sessionPath("/state"), nil, &snap); err != nil {
		return nil, err
	}
	return &snap, nil
}

func (c *Client) SelectGoal(cell grid.Cell) (*service.GoalResult, error) {
	var result service.GoalResult
	if err := c.do(http.MethodPost, c.sessionPath("/goal"), cell, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) Step(ticks int) (*service.StepResult, error) {
	var result service.StepResult
	if err := c.do(http.MethodPost, c.sessionPath("/step"), map[string]int{"ticks": ticks}, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

type ResetResponse struct {
	Message string           `json:"message"`
	State   *engine.Snapshot `json:"state"`
}

func (c *Client) Reset() (*engine.Snapshot, error) {
	var resp ResetResponse
	if err := c.do(http.MethodPost, c.sessionPath("/reset"), nil, &resp); err != nil {
		return nil, err
	}
	return resp.State, nil
}

// Trip is one goal visit
type Trip struct {
	Goal     grid.Cell
	Outcome  string
	Ticks    int
	Expanded int
	Moves    int
}

// sweep visits every target the strategy plans, giving each trip at most
// maxTicks ticks.
func sweep(c *Client, strategy *SweepStrategy, maxTicks int, delay time.Duration, verbose bool) ([]Trip, error) {
	var trips []Trip

	for {
		target, ok := strategy.Next()
		if !ok {
			return trips, nil
		}

		result, err := c.SelectGoal(target)
		if err != nil {
			return trips, err
		}
		if !result.Accepted {
			log.Printf("Skipping %s: %s", target, result.Message)
			continue
		}

		trip := Trip{Goal: target, Outcome: "limit", Moves: -1}
		for trip.Ticks < maxTicks {
			step, err := c.Step(min(engine.MaxStepsPerCall, maxTicks-trip.Ticks))
			if err != nil {
				return trips, err
			}
			trip.Ticks += step.TicksExecuted
			trip.Expanded += step.Events["expanded"] + step.Events["path_found"]

			if verbose {
				log.Printf("%s: %d ticks, state=%s agent=%s", target, trip.Ticks, step.Snapshot.State, step.Snapshot.Agent.Cell)
			}

			if reason := step.StoppedReason; reason != "" || step.TicksExecuted == 0 {
				trip.Outcome = reason
				if len(step.Snapshot.Path) > 0 {
					trip.Moves = len(step.Snapshot.Path) - 1
				}
				break
			}

			if delay > 0 {
				time.Sleep(delay)
			}
		}

		log.Printf("Trip to %s: %s after %d ticks", target, trip.Outcome, trip.Ticks)
		trips = append(trips, trip)
	}
}

func printTrips(w io.Writer, trips []Trip) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "GOAL\tOUTCOME\tTICKS\tEXPANDED\tMOVES")
	for _, t := range trips {
		moves := "-"
		if t.Moves >= 0 {
			moves = fmt.Sprint(t.Moves)
		}
		fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%s\n", t.Goal, t.Outcome, t.Ticks, t.Expanded, moves)
	}
	return tw.Flush()
}

func main() {
	serverURL := flag.String("url", "http://localhost:8080", "Simulator server URL")
	configName := flag.String("config", "", "Scenario name (informed, uninformed, maze)")
	continueSession := flag.String("continue", "", "Drive an existing session by ID")
	maxTicks := flag.Int("max-ticks", 20000, "Maximum ticks per trip")
	maxTargets := flag.Int("targets", 0, "Stop after this many trips (0 = all planned)")
	verbose := flag.Bool("v", false, "Verbose output")
	delayMs := flag.Int("delay", 0, "Delay between step calls in milliseconds (0 = no delay)")
	flag.Parse()

	log.Printf("Connecting to simulator at %s", *serverURL)
	client := NewClient(*serverURL)

	if *continueSession != "" {
		client.sessionID = *continueSession
		log.Printf("Resuming session: %s", client.sessionID)
	} else {
		info, err := client.CreateSession(*configName)
		if err != nil {
			log.Fatalf("Failed to create session: %v", err)
		}
		log.Printf("Session created: %s (scenario %s)", info.ID, info.ConfigName)
	}

	snap, err := client.Reset()
	if err != nil {
		log.Fatalf("Failed to reset session: %v", err)
	}
	log.Printf("Scenario %s: %dx%d %s, algorithm %s, agent at %s",
		snap.Scenario, snap.Width, snap.Height, snap.World, snap.Algorithm, snap.Agent.Cell)

	strategy := NewSweepStrategy(snap)
	if *maxTargets > 0 {
		strategy.Limit(*maxTargets)
	}
	log.Printf("Planned %d targets", strategy.Len())

	trips, err := sweep(client, strategy, *maxTicks, time.Duration(*delayMs)*time.Millisecond, *verbose)
	if err := printTrips(os.Stdout, trips); err != nil {
		log.Printf("Failed to print trips: %v", err)
	}
	if err != nil {
		log.Fatalf("Sweep stopped: %v", err)
	}

	for _, t := range trips {
		if t.Outcome != playback.EventArrived.String() {
			log.Printf("Session: %s", client.sessionID)
			os.Exit(1)
		}
	}
	log.Printf("All %d trips arrived (session %s)", len(trips), client.sessionID)
}
