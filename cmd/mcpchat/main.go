package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/quietfold/mcpchat/internal/mcpx"
	"github.com/quietfold/mcpchat/internal/provider"
	"github.com/quietfold/mcpchat/internal/runner"
	"github.com/quietfold/mcpchat/memory"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "Usage: mcpchat <path-to-tool-server>")
		os.Exit(1)
	}
	serverPath := os.Args[1]

	// Credential check happens before any connection attempt.
	client, err := provider.NewFromEnv()
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
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

	session, err := mcpx.Connect(ctx, serverPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
	defer session.Close()

	decls, err := session.ListToolDeclarations(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
	names := make([]string, 0, len(decls))
	for _, d := range decls {
		names = append(names, d.Name)
	}
	fmt.Printf("Connected to server with tools: %s\n", strings.Join(names, ", "))

	r := runner.New(client, session, decls)
	if v := os.Getenv("MCPCHAT_MAX_ROUNDS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			fmt.Fprintf(os.Stderr, "invalid MCPCHAT_MAX_ROUNDS %q: want a positive integer\n", v)
			os.Exit(1)
		}
		r.MaxRounds = n
	}

	conv := memory.New()
	fmt.Println("Type 'quit' to exit, 'clear' to clear history.")

	// stdin reader goroutine -> lines into channel
	scanner := bufio.NewScanner(os.Stdin)
	inputCh := make(chan string)
	go func() {
		for scanner.Scan() {
			inputCh <- scanner.Text()
		}
		close(inputCh)
	}()

outer:
	for {
		fmt.Print("[94mQuery[0m: ")
		var (
			line string
			ok   bool
		)
		select {
		case <-ctx.Done():
			break outer
		case line, ok = <-inputCh:
			if !ok {
				break outer
			}
		}

		query := strings.TrimSpace(line)
		switch strings.ToLower(query) {
		case "":
			continue
		case "quit":
			break outer
		case "clear":
			conv.Reset()
			fmt.Println("Conversation history cleared.")
			continue
		}

		answer, err := r.RunTurn(ctx, query, conv)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			continue
		}
		fmt.Printf("[93mAssistant[0m: %s\n", answer)
	}

	if err := scanner.Err(); err != nil {
		fmt.Fprintf(os.Stderr, "warning: stdin read error: %v\n", err)
	}
}
