package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/petasbytes/agent-tools/analyze"
	"github.com/petasbytes/agent-tools/followup"
	"github.com/petasbytes/agent-tools/internal/fsops"
	"github.com/petasbytes/agent-tools/internal/logging"
	"github.com/petasbytes/agent-tools/internal/provider"
	"github.com/petasbytes/agent-tools/llm"
	"github.com/petasbytes/agent-tools/loop"
	"github.com/petasbytes/agent-tools/memory"
	"github.com/petasbytes/agent-tools/parse"
	"github.com/petasbytes/agent-tools/tools"
)

type runFlags struct {
	model     string
	maxTurns  int
	rolesPath string
	persist   string
	workspace string
	analyzer  string
	parser    string
	modelGen  bool
	debug     bool
}

func main() {
	flags := runFlags{}

	root := &cobra.Command{
		Use:   "agent",
		Short: "Multi-turn assistant loop with tool dispatch",
	}

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "Chat interactively; each input drives a full task loop",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(flags)
		},
	}
	runCmd.Flags().StringVar(&flags.model, "model", "", "model identifier (provider default when empty)")
	runCmd.Flags().IntVar(&flags.maxTurns, "max-turns", 8, "maximum turns per task")
	runCmd.Flags().StringVar(&flags.rolesPath, "roles", "", "YAML roles file (built-in default role when empty)")
	runCmd.Flags().StringVar(&flags.persist, "persist", "conversation.json", "history persistence path (empty disables)")
	runCmd.Flags().StringVar(&flags.workspace, "workspace", "", "sandbox root for file operations (CWD when empty)")
	runCmd.Flags().StringVar(&flags.analyzer, "analyzer", "rule", "task analyzer: rule, model, or heuristic")
	runCmd.Flags().StringVar(&flags.parser, "parser", "strict", "response parser: strict or lenient")
	runCmd.Flags().BoolVar(&flags.modelGen, "model-followups", false, "generate follow-ups with the model instead of the rule table")
	runCmd.Flags().BoolVar(&flags.debug, "debug", false, "enable debug logging")
	root.AddCommand(runCmd)

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(flags runFlags) error {
	if os.Getenv("ANTHROPIC_API_KEY") == "" {
		return fmt.Errorf("missing ANTHROPIC_API_KEY; export it before running")
	}

	log := logging.NewLogger(flags.debug)
	defer log.Sync() //nolint:errcheck

	transport := provider.NewAnthropicTransport(provider.Options{
		Model: anthropic.Model(flags.model),
	})

	roles := llm.DefaultRoles()
	if flags.rolesPath != "" {
		var err error
		if roles, err = llm.LoadRoles(flags.rolesPath); err != nil {
			return err
		}
	}
	service, err := llm.NewService(transport, roles)
	if err != nil {
		return err
	}

	sandbox, err := fsops.NewSandbox(flags.workspace)
	if err != nil {
		return err
	}
	registry := tools.NewRegistry()
	registry.Register(tools.NewHTTPTool(nil), tools.HTTPToolDefinition)
	registry.Register(tools.NewFileTool(sandbox), tools.FileToolDefinition)

	var parser parse.Parser
	switch flags.parser {
	case "strict":
		parser = parse.NewStrict(log)
	case "lenient":
		parser = parse.NewLenient(log)
	default:
		return fmt.Errorf("unknown parser %q", flags.parser)
	}

	var analyzer analyze.Analyzer
	switch flags.analyzer {
	case "rule":
		analyzer = analyze.NewRuleAnalyzer()
	case "heuristic":
		analyzer = analyze.NewHeuristicAnalyzer()
	case "model":
		if analyzer, err = analyze.NewModelAnalyzer(transport, log); err != nil {
			return err
		}
	default:
		return fmt.Errorf("unknown analyzer %q", flags.analyzer)
	}

	var generator followup.Generator = followup.NewRuleGenerator()
	if flags.modelGen {
		if generator, err = followup.NewModelGenerator(transport, log); err != nil {
			return err
		}
	}

	driver, err := loop.New(loop.Config{
		Service:     service,
		Registry:    registry,
		Parser:      parser,
		Analyzer:    analyzer,
		Generator:   generator,
		MaxTurns:    flags.maxTurns,
		PersistPath: flags.persist,
		Logger:      log,
		OnTurn: func(t memory.Turn) {
			fmt.Printf("\u001b[93mAssistant\u001b[0m: %s\n", t.Assistant)
		},
	})
	if err != nil {
		return err
	}

	// Graceful shutdown on Ctrl-C (SIGINT) / SIGTERM.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sigch := make(chan os.Signal, 1)
	signal.Notify(sigch, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigch)
	go func() {
		<-sigch
		fmt.Println("\nExiting...")
		cancel()
	}()

	scanner := bufio.NewScanner(os.Stdin)
	fmt.Println("Enter a task (Ctrl-C to quit)")

	inputCh := make(chan string)
	go func() {
		for scanner.Scan() {
			inputCh <- scanner.Text()
		}
		close(inputCh)
	}()

	for {
		fmt.Print("\u001b[94mYou\u001b[0m: ")
		var (
			task string
			ok   bool
		)
		select {
		case <-ctx.Done():
			return nil
		case task, ok = <-inputCh:
			if !ok {
				return scanner.Err()
			}
		}
		if strings.TrimSpace(task) == "" {
			continue
		}

		history, err := driver.Run(ctx, task)
		if err != nil {
			log.Warn("task loop ended with error", zap.Error(err))
		}
		fmt.Printf("Task finished after %d turn(s).\n", len(history))
	}
}
