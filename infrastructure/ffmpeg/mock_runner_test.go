package ffmpeg

import "context"

// mockRunner records invocations and returns canned results
type mockRunner struct {
	calls     []runCall
	output    []byte
	runErr    error
	outputErr error
}

type runCall struct {
	name string
	args []string
}

func (m *mockRunner) Run(ctx context.Context, name string, args ...string) error {
	m.calls = append(m.calls, runCall{name: name, args: args})
	return m.runErr
}

func (m *mockRunner) Output(ctx context.Context, name string, args ...string) ([]byte, error) {
	m.calls = append(m.calls, runCall{name: name, args: args})
	if m.outputErr != nil {
		return nil, m.outputErr
	}
	return m.output, nil
}

// flagValue returns the argument following flag, if present
func flagValue(args []string, flag string) (string, bool) {
	for i := 0; i < len(args)-1; i++ {
		if args[i] == flag {
			return args[i+1], true
		}
	}
	return "", false
}

func hasArg(args []string, arg string) bool {
	for _, a := range args {
		if a == arg {
			return true
		}
	}
	return false
}

func indexOf(args []string, arg string) int {
	for i, a := range args {
		if a == arg {
			return i
		}
	}
	return -1
}
