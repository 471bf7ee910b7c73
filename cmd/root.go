package cmd

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"localrag/src/log"
)

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "localrag",
	Short: "Ask questions about a PDF with local models",
	Long: `localrag loads a PDF, splits it into overlapping chunks, stores their
embeddings in a vector database and answers questions using only the
retrieved chunks as context. Embeddings and answers come from an Ollama server.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: initConfig,
}

// Execute adds all child commands to the root command and runs it.
// SIGINT and SIGTERM cancel the command context.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		log.Error(err, "Command failed")
		os.Exit(1)
	}
}

func init() {
	settingDefaultConfig()

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (yaml, json or toml)")
	flags.String("file", "", "PDF to ingest, a local path or s3://bucket/object")
	flags.String("collection", "", "vector store collection name")
	flags.String("store", "", "vector store backend: weaviate, qdrant or memory")
	flags.String("llm", "", "language model provider: ollama or openai")
	flags.String("log-format", "", "log format: console or json")
	flags.CountP("verbose", "v", "increase log verbosity (repeatable)")

	viper.BindPFlag("document.path", flags.Lookup("file"))
	viper.BindPFlag("store.collection", flags.Lookup("collection"))
	viper.BindPFlag("store.backend", flags.Lookup("store"))
	viper.BindPFlag("llm.provider", flags.Lookup("llm"))
	viper.BindPFlag("log.format", flags.Lookup("log-format"))
	viper.BindPFlag("log.verbosity", flags.Lookup("verbose"))
}

func initConfig(cmd *cobra.Command, args []string) error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to load .env: %w", err)
	}

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
		if err := viper.ReadInConfig(); err != nil {
			return fmt.Errorf("failed to read config file %s: %w", cfgFile, err)
		}
	}

	if err := log.Setup(viper.GetString("log.format"), viper.GetInt("log.verbosity")); err != nil {
		return err
	}
	if f := viper.ConfigFileUsed(); f != "" {
		log.Debug("Using config file", "path", f)
	}
	return nil
}
