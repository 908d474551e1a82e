package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"dashterm/internal/transcript"
)

// runAsk answers one question and exits.
func runAsk(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := cfg.Validate(); err != nil {
		return err
	}

	p, err := buildPipeline(ctx)
	if err != nil {
		return err
	}
	defer p.close()

	question := strings.Join(args, " ")
	p.query(ctx, question)
	return nil
}

// runTranscriptList prints recent archived exchanges.
func runTranscriptList(cmd *cobra.Command, args []string) error {
	store, err := transcript.Open(cfg.Transcript.DatabasePath)
	if err != nil {
		return err
	}
	defer store.Close()

	entries, err := store.Recent(transcriptLimit)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Println("No archived exchanges.")
		return nil
	}
	for _, e := range entries {
		fmt.Printf("[%s] %s\n", e.CreatedAt.Format("2006-01-02 15:04"), e.Question)
		if e.Explanation != "" {
			fmt.Printf("    %s\n", firstLine(e.Explanation))
		}
		for _, c := range e.Commands {
			fmt.Printf("    > %s\n", c)
		}
	}
	return nil
}

// runConfigShow prints the effective configuration with the API key masked.
func runConfigShow(cmd *cobra.Command, args []string) error {
	shown := *cfg
	if shown.LLM.APIKey != "" {
		shown.LLM.APIKey = "****"
	}
	data, err := yaml.Marshal(&shown)
	if err != nil {
		return err
	}
	fmt.Print(string(data))
	return nil
}

// runConfigInit writes the default configuration file if none exists.
func runConfigInit(cmd *cobra.Command, args []string) error {
	path := resolveConfigPath()
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config already exists at %s", path)
	}
	if err := cfg.Save(path); err != nil {
		return err
	}
	fmt.Printf("Wrote %s\n", path)
	return nil
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
