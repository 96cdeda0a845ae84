package executor

import (
	"os"
	"os/exec"
	"time"
)

// Process is a started command whose output is being streamed.
type Process interface {
	Wait() error
	Signal(sig os.Signal) error
	Kill() error
}

// ProcessOptions contains options for starting a process.
type ProcessOptions struct {
	Dir string
	Env []string
}

// OSProcess implements Process for real OS processes.
type OSProcess struct {
	Cmd *exec.Cmd
}

func (p *OSProcess) Wait() error {
	return p.Cmd.Wait()
}

func (p *OSProcess) Kill() error {
	if p.Cmd.Process != nil {
		return p.Cmd.Process.Kill()
	}
	return nil
}

func (p *OSProcess) Signal(sig os.Signal) error {
	if p.Cmd.Process != nil {
		return p.Cmd.Process.Signal(sig)
	}
	return nil
}

// Terminate interrupts proc and kills it if it has not exited within grace.
// done must be closed (or receive) once proc.Wait has returned.
func Terminate(proc Process, done <-chan struct{}, grace time.Duration) {
	_ = proc.Signal(os.Interrupt)
	select {
	case <-done:
	case <-time.After(grace):
		_ = proc.Kill()
	}
}
