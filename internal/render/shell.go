package render

import (
	"context"
	"io"
	"strings"

	"mvdan.cc/sh/v3/interp"
	"mvdan.cc/sh/v3/syntax"
)

// Runner runs an external command and reports its exit code. A nonzero exit
// is not an error; err is reserved for failures to run the command at all.
type Runner interface {
	Run(ctx context.Context, dir string, args []string, stdout, stderr io.Writer) (int, error)
}

// ShellRunner runs commands through an embedded POSIX shell interpreter.
type ShellRunner struct{}

// Run implements [Runner].
func (ShellRunner) Run(ctx context.Context, dir string, args []string, stdout, stderr io.Writer) (int, error) {
	words := make([]string, 0, len(args))

	for _, arg := range args {
		quoted, err := syntax.Quote(arg, syntax.LangBash)
		if err != nil {
			return -1, err
		}

		words = append(words, quoted)
	}

	file, err := syntax.NewParser().Parse(strings.NewReader(strings.Join(words, " ")), "")
	if err != nil {
		return -1, err
	}

	opts := []interp.RunnerOption{interp.StdIO(nil, stdout, stderr)}
	if len(dir) != 0 {
		opts = append(opts, interp.Dir(dir))
	}

	runner, err := interp.New(opts...)
	if err != nil {
		return -1, err
	}

	err = runner.Run(ctx, file)
	if err != nil {
		if status, ok := interp.IsExitStatus(err); ok {
			return int(status), nil
		}

		return -1, err
	}

	return 0, nil
}
