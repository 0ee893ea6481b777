package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/soochol/viscribe/internal/einotool"
	"github.com/soochol/viscribe/internal/tools"
)

func newToolsCommand(o *rootOptions) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "tools",
		Short: "List the available tools",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			infos := o.registry().AllTools()
			if asJSON {
				return writeJSON(o.streams.Out, infos)
			}
			tw := tabwriter.NewWriter(o.streams.Out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "NAME\tDESCRIPTION")
			for _, info := range infos {
				desc, _, _ := strings.Cut(info.Description, ". ")
				fmt.Fprintf(tw, "%s\t%s\n", info.Name, strings.TrimSuffix(desc, "."))
			}
			return tw.Flush()
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print names, descriptions and input schemas as JSON")
	return cmd
}

func newInvokeCommand(o *rootOptions) *cobra.Command {
	var input, inputFile string
	var async bool
	cmd := &cobra.Command{
		Use:   "invoke <tool>",
		Short: "Run one tool and print its result as JSON",
		Example: `  viscribe invoke DescribeImage --input '{"image_url": "https://example.com/cat.jpg"}'
  viscribe invoke CompareImages --input '{"image1_path": "a.png", "image2_path": "b.png"}'
  viscribe invoke GetCredits`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := readInput(input, inputFile, o.streams.In)
			if err != nil {
				return err
			}
			reg := o.registry()

			if async {
				outcome := <-reg.ExecuteAsync(cmd.Context(), args[0], raw)
				if outcome.Err != nil {
					return outcome.Err
				}
				return writeJSON(o.streams.Out, outcome.Output)
			}

			// sync calls run through the Eino adapter: JSON in, JSON out
			t, ok := reg.Get(args[0])
			if !ok {
				return fmt.Errorf("%w: %q", tools.ErrUnknownTool, args[0])
			}
			result, err := einotool.New(t).InvokableRun(cmd.Context(), raw)
			if err != nil {
				return err
			}
			var buf bytes.Buffer
			if err := json.Indent(&buf, []byte(result), "", "  "); err != nil {
				return fmt.Errorf("format result: %w", err)
			}
			buf.WriteByte('\n')
			_, err = buf.WriteTo(o.streams.Out)
			return err
		},
	}
	cmd.Flags().StringVarP(&input, "input", "i", "", "tool input as a JSON object")
	cmd.Flags().StringVarP(&inputFile, "input-file", "f", "", `read the JSON input from a file ("-" for stdin)`)
	cmd.Flags().BoolVar(&async, "async", false, "use the asynchronous entry point")
	cmd.MarkFlagsMutuallyExclusive("input", "input-file")
	return cmd
}

func readInput(inline, file string, stdin io.Reader) (string, error) {
	switch {
	case file == "-":
		data, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return string(data), nil
	case file != "":
		data, err := os.ReadFile(file)
		if err != nil {
			return "", fmt.Errorf("read input file: %w", err)
		}
		return string(data), nil
	}
	return inline, nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
