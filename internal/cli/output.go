package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

// outputOptions holds the flags shared by commands that render layouts.
type outputOptions struct {
	Format string
	File   string
}

func (o *outputOptions) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&o.Format, "format", "text", "Output format: text, json or svg")
	cmd.Flags().StringVarP(&o.File, "output", "o", "", "Write to FILE instead of stdout")
}

// withOutput calls write with stdout, or with FILE when -o is set.
func (o *outputOptions) withOutput(cmd *cobra.Command, write func(w io.Writer) error) (err error) {
	if o.File == "" {
		return write(cmd.OutOrStdout())
	}
	f, err := os.Create(o.File)
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()
	if err := write(f); err != nil {
		return err
	}
	_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Wrote %s\n", o.File)
	return nil
}

// writeString writes s followed by a newline unless s already ends with one.
func writeString(w io.Writer, s string) error {
	if s != "" && s[len(s)-1] != '\n' {
		s += "\n"
	}
	_, err := io.WriteString(w, s)
	return err
}
