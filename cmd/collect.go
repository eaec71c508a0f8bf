/*
Copyright © 2025 Ambor <saltbo@foxmail.com>

Permission is hereby granted, free of charge, to any person obtaining a copy
of this software and associated documentation files (the "Software"), to deal
in the Software without restriction, including without limitation the rights
to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
copies of the Software, and to permit persons to whom the Software is
furnished to do so, subject to the following conditions:

The above copyright notice and this permission notice shall be included in
all copies or substantial portions of the Software.

THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
THE SOFTWARE.
*/
package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"connectrpc.com/connect"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	wordpickerv1 "github.com/eslsoft/wordpicker/api/wordpicker/v1"
	"github.com/eslsoft/wordpicker/internal/adapter/connectrpc"
	"github.com/eslsoft/wordpicker/internal/app"
	"github.com/eslsoft/wordpicker/internal/usecase"
	"github.com/eslsoft/wordpicker/pkg/textfilter"
)

const (
	collectStdinKey   = "collect.stdin"
	collectConfirmKey = "collect.confirm"
	collectServerKey  = "collect.server"
)

var collectCmd = &cobra.Command{
	Use:   "collect [text...]",
	Short: "Save English words or phrases to the collection",
	Example: `  wordpicker collect "serendipity" "on the fence"
  pbpaste | wordpicker collect --stdin
  wordpicker collect --confirm --server http://localhost:8080 "ad hoc"`,
	RunE: func(cmd *cobra.Command, args []string) error {
		useStdin := viper.GetBool(collectStdinKey)
		confirm := viper.GetBool(collectConfirmKey)
		serverURL := strings.TrimSpace(viper.GetString(collectServerKey))

		if useStdin && confirm {
			return errors.New("--confirm reads answers from stdin and cannot be combined with --stdin")
		}
		selections := args
		if useStdin {
			lines, err := readLines(cmd.InOrStdin())
			if err != nil {
				return fmt.Errorf("read stdin: %w", err)
			}
			selections = append(selections, lines...)
		}
		if len(selections) == 0 {
			return errors.New("nothing to collect: pass text arguments or --stdin")
		}

		var confirmer usecase.Confirmer
		if confirm {
			confirmer = newPromptConfirmer(cmd.InOrStdin(), cmd.OutOrStdout())
		}

		collect, cleanup, err := newCollector(serverURL, confirmer)
		if err != nil {
			return err
		}
		defer cleanup()

		for _, selection := range selections {
			result, err := collect(cmd.Context(), selection)
			if err != nil {
				return fmt.Errorf("collect %q: %w", selection, err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), describeCapture(result))
		}
		return nil
	},
}

type collectFunc func(ctx context.Context, selection string) (usecase.CaptureResult, error)

// newCollector captures locally, or through a running server when serverURL is set.
func newCollector(serverURL string, confirmer usecase.Confirmer) (collectFunc, func(), error) {
	if serverURL == "" {
		container, cleanup, err := app.Initialize()
		if err != nil {
			return nil, nil, fmt.Errorf("initialize: %w", err)
		}
		return func(ctx context.Context, selection string) (usecase.CaptureResult, error) {
			return container.Capture.Capture(ctx, selection, confirmer)
		}, cleanup, nil
	}

	client := wordpickerv1.NewWordServiceClient(http.DefaultClient, serverURL, connectrpc.ClientOptions()...)
	return func(ctx context.Context, selection string) (usecase.CaptureResult, error) {
		text, ok := textfilter.Classify(selection)
		if ok && confirmer != nil {
			accepted, err := confirmer.Confirm(ctx, text)
			if err != nil {
				return usecase.CaptureResult{Text: text}, err
			}
			if !accepted {
				return usecase.CaptureResult{Text: text, Outcome: usecase.CaptureOutcomeDeclined}, nil
			}
		}
		resp, err := client.CollectWord(ctx, connect.NewRequest(&wordpickerv1.CollectWordRequest{Text: selection}))
		if err != nil {
			return usecase.CaptureResult{Text: text}, err
		}
		return usecase.CaptureResult{Text: resp.Msg.Text, Outcome: outcomeFromResult(resp.Msg.Result)}, nil
	}, func() {}, nil
}

func outcomeFromResult(result string) usecase.CaptureOutcome {
	switch result {
	case "added":
		return usecase.CaptureOutcomeSaved
	case "already_exists":
		return usecase.CaptureOutcomeDuplicate
	case "empty":
		return usecase.CaptureOutcomeEmpty
	case "not_english":
		return usecase.CaptureOutcomeNotEnglish
	default:
		return 0
	}
}

func describeCapture(result usecase.CaptureResult) string {
	switch result.Outcome {
	case usecase.CaptureOutcomeSaved:
		return fmt.Sprintf("saved: %s", result.Text)
	case usecase.CaptureOutcomeDuplicate:
		return fmt.Sprintf("already saved: %s", result.Text)
	case usecase.CaptureOutcomeNotEnglish:
		return fmt.Sprintf("not English, ignored: %s", result.Text)
	case usecase.CaptureOutcomeDeclined:
		return fmt.Sprintf("skipped: %s", result.Text)
	case usecase.CaptureOutcomeEmpty:
		return "empty selection, ignored"
	default:
		return fmt.Sprintf("unknown result for %q", result.Text)
	}
}

type promptConfirmer struct {
	in  *bufio.Reader
	out io.Writer
}

func newPromptConfirmer(in io.Reader, out io.Writer) *promptConfirmer {
	return &promptConfirmer{in: bufio.NewReader(in), out: out}
}

// Confirm asks a y/N question. Anything but y or yes, including EOF, declines.
func (p *promptConfirmer) Confirm(_ context.Context, text string) (bool, error) {
	fmt.Fprintf(p.out, "Save %q? [y/N] ", text)
	answer, err := p.in.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return false, err
	}
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}

func readLines(r io.Reader) ([]string, error) {
	var lines []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		if line := scanner.Text(); strings.TrimSpace(line) != "" {
			lines = append(lines, line)
		}
	}
	return lines, scanner.Err()
}

func init() {
	rootCmd.AddCommand(collectCmd)

	collectCmd.Flags().Bool("stdin", false, "read one selection per line from standard input")
	collectCmd.Flags().Bool("confirm", false, "ask before saving each selection")
	collectCmd.Flags().String("server", "", "send selections to a running server instead of the local database")

	bindFlagToViper(collectStdinKey, collectCmd.Flags().Lookup("stdin"))
	bindFlagToViper(collectConfirmKey, collectCmd.Flags().Lookup("confirm"))
	bindFlagToViper(collectServerKey, collectCmd.Flags().Lookup("server"))
}
