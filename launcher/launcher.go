package launcher

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/exec"
	"strings"

	"github.com/wricardo/mcp-training/pathfinder/game/search"
)

var aliases = map[string]search.Algorithm{
	"astar": search.Informed,
	"blind": search.Uninformed,
	"dfs":   search.Maze,
}

// Launcher starts demo processes
type Launcher struct {
	// Executable is the binary to run, normally the current one
	Executable string
	// Args go before the "run <scenario>" arguments
	Args []string
	Env  []string

	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// Process is a started demo
type Process struct {
	Algorithm search.Algorithm
	Scenario  string
	PID       int

	done chan struct{}
	err  error
}

// New returns a launcher for the running binary, attached to this terminal
func New() (*Launcher, error) {
	exe, err := os.Executable()
	if err != nil {
		return nil, fmt.Errorf("failed to locate executable: %w", err)
	}
	return &Launcher{
		Executable: exe,
		Stdin:      os.Stdin,
		Stdout:     os.Stdout,
		Stderr:     os.Stderr,
	}, nil
}

// Resolve maps a launcher id to an algorithm
func Resolve(id string) (search.Algorithm, error) {
	if alg, ok := aliases[strings.ToLower(strings.TrimSpace(id))]; ok {
		return alg, nil
	}
	return search.ParseAlgorithm(id)
}

// Launch starts the demo for id
func (l *Launcher) Launch(ctx context.Context, id string) (*Process, error) {
	alg, err := Resolve(id)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	scenario := string(alg)
	args := append(append([]string{}, l.Args...), "run", scenario)

	cmd := exec.Command(l.Executable, args...)
	cmd.Stdin = l.Stdin
	cmd.Stdout = l.Stdout
	cmd.Stderr = l.Stderr
	if len(l.Env) > 0 {
		cmd.Env = append(os.Environ(), l.Env...)
	}

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("failed to start %s demo: %w", alg, err)
	}

	p := &Process{
		Algorithm: alg,
		Scenario:  scenario,
		PID:       cmd.Process.Pid,
		done:      make(chan struct{}),
	}
	log.Printf("[LAUNCH] %s demo started (pid %d)", alg, p.PID)

	go func() {
		defer close(p.done)
		p.err = cmd.Wait()
		if p.err != nil {
			log.Printf("[LAUNCH] %s demo (pid %d) exited: %v", alg, p.PID, p.err)
		}
	}()

	return p, nil
}

// Wait blocks until the process exits or ctx is done
func (p *Process) Wait(ctx context.Context) error {
	select {
	case <-p.done:
		return p.err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Done is closed when the process exits
func (p *Process) Done() <-chan struct{} {
	return p.done
}
