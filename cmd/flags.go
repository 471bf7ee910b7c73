package cmd

import (
	"errors"
	"io"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// documentPath prefers a positional argument over --file / DOCUMENT_PATH.
func documentPath(args []string) (string, error) {
	if len(args) > 0 && args[0] != "" {
		return args[0], nil
	}
	if p := viper.GetString("document.path"); p != "" {
		return p, nil
	}
	return "", errors.New("no document given: pass a file argument, --file or DOCUMENT_PATH")
}

// stringFlag returns the command flag when it was set, the viper key otherwise.
func stringFlag(cmd *cobra.Command, flag, key string) string {
	if f := cmd.Flags().Lookup(flag); f != nil && f.Changed {
		return f.Value.String()
	}
	return viper.GetString(key)
}

func intFlag(cmd *cobra.Command, flag, key string) int {
	if cmd.Flags().Changed(flag) {
		if v, err := cmd.Flags().GetInt(flag); err == nil {
			return v
		}
	}
	return viper.GetInt(key)
}

// progressWriter keeps stdout for progress lines and the answer; the bar
// redraws in place and goes to stderr.
func progressWriter(cmd *cobra.Command) io.Writer {
	if viper.GetString("progress.style") == progressBar {
		return cmd.ErrOrStderr()
	}
	return cmd.OutOrStdout()
}
