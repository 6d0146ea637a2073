package runner

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	mcperr "github.com/quietfold/mcpchat/internal/errors"
	"github.com/quietfold/mcpchat/internal/llm"
	"github.com/quietfold/mcpchat/internal/normalize"
	"github.com/quietfold/mcpchat/internal/telemetry"
	"github.com/quietfold/mcpchat/internal/windowing"
	"github.com/quietfold/mcpchat/memory"
)

// ToolInvoker is the tool-execution capability: it maps a named tool plus
// arguments to a raw result in whatever shape the server emits.
type ToolInvoker interface {
	Invoke(ctx context.Context, name string, args map[string]any) (any, error)
}

// DefaultMaxRounds bounds inference calls per query. The ceiling converts an
// unbounded agentic loop into a total function; reaching it is a defined
// terminal state protecting against runaway tool-chaining.
const DefaultMaxRounds = 10

// LimitMessage is returned when a query exhausts its inference rounds
// without a text-only response.
const LimitMessage = "Reached the tool-call round limit without a final answer."

// NoResponseMessage is returned when the terminal inference round carried no
// text at all.
const NoResponseMessage = "No response generated."

// Runner orchestrates queries against one session's tool server.
type Runner struct {
	Client  llm.Client
	Invoker ToolInvoker
	Decls   []llm.ToolDecl

	// MaxRounds overrides DefaultMaxRounds when > 0.
	MaxRounds int
}

func New(client llm.Client, invoker ToolInvoker, decls []llm.ToolDecl) *Runner {
	return &Runner{Client: client, Invoker: invoker, Decls: decls}
}

// RunTurn processes one user query to completion. The conversation is
// mutated in place with monotonic append semantics: the user turn, every
// invocation/result exchange in request order, and the final model turn.
//
// Text segments from intermediate rounds are not discarded; they accumulate
// into the returned answer in response order.
//
// Inference failures propagate to the caller as a failed query; the session
// and its history remain intact. Tool failures never abort the query.
func (r *Runner) RunTurn(ctx context.Context, query string, conv *memory.Conversation) (string, error) {
	if strings.TrimSpace(query) == "" {
		return "", fmt.Errorf("runner: empty query")
	}

	budget, err := tokenBudget()
	if err != nil {
		return "", err
	}

	turnID, ok := telemetry.TurnIDFromContext(ctx)
	if !ok {
		turnID = fmt.Sprintf("turn-%d", time.Now().UnixNano())
		ctx = telemetry.WithTurnID(ctx, turnID)
	}
	telemetry.EmitQueryFeatures(ctx, query)

	conv.Append(llm.UserText(query))

	maxRounds := r.MaxRounds
	if maxRounds <= 0 {
		maxRounds = DefaultMaxRounds
	}

	var collected []string
	for round := 1; round <= maxRounds; round++ {
		window, err := r.prepareWindow(conv.Turns(), budget, turnID)
		if err != nil {
			return "", err
		}

		resp, err := r.Client.Infer(ctx, window, r.Decls)
		if err != nil {
			return "", err
		}

		texts := resp.Texts()
		calls := resp.Calls()
		collected = append(collected, texts...)
		telemetry.Emit("round", map[string]any{
			"turn_id":    turnID,
			"round":      round,
			"text_count": len(texts),
			"call_count": len(calls),
		})

		if len(calls) == 0 {
			answer := strings.Join(collected, "\n")
			if answer == "" {
				return NoResponseMessage, nil
			}
			conv.Append(llm.ModelText(answer))
			return answer, nil
		}

		// All requested tools in this round execute, in request order,
		// before the next inference call. Each exchange lands in history as
		// an atomic request/result pair.
		for _, call := range calls {
			result := r.executeCall(ctx, call)
			conv.AppendExchange(llm.ModelCall(call), llm.ToolResult(call, result))
		}
	}

	// Text gathered on the way to the ceiling is kept, same as on the
	// normal path; the sentinel closes the answer.
	answer := strings.Join(append(collected, LimitMessage), "\n")
	conv.Append(llm.ModelText(answer))
	return answer, nil
}

// executeCall invokes one tool and normalizes its raw result into the
// canonical shape. A failing execution is converted into an error-shaped
// result fed back to the model so it can adapt, never an abort.
func (r *Runner) executeCall(ctx context.Context, call *llm.ToolCall) map[string]any {
	turnID, _ := telemetry.TurnIDFromContext(ctx)
	start := time.Now()
	inSize := 0
	if b, err := json.Marshal(call.Args); err == nil {
		inSize = len(b)
	}

	emit := func(outSize int, errStr any) {
		telemetry.Emit("tool_exec", map[string]any{
			"turn_id":     turnID,
			"tool_name":   call.Name,
			"duration_ms": time.Since(start).Milliseconds(),
			"input_size":  inSize,
			"output_size": outSize,
			"error":       errStr,
		})
	}

	raw, err := r.Invoker.Invoke(ctx, call.Name, call.Args)
	if err != nil {
		emit(0, "tool error")
		return normalize.ErrorResult(toolErrorMessage(err))
	}

	result := normalize.Result(normalize.Normalize(raw))
	outSize := 0
	if b, merr := json.Marshal(result); merr == nil {
		outSize = len(b)
	}
	emit(outSize, nil)
	return result
}

// prepareWindow applies pair-safe windowing when a budget is configured;
// budget 0 sends the full history.
func (r *Runner) prepareWindow(turns []llm.Turn, budget int, turnID string) ([]llm.Turn, error) {
	if budget <= 0 {
		return turns, nil
	}
	window, stats := windowing.PrepareSendWindow(turns, budget, windowing.HeuristicCounter{})
	telemetry.Emit("window_prepared", map[string]any{
		"turn_id":            turnID,
		"budget":             stats.Budget,
		"total_estimated":    stats.Total,
		"included_groups":    stats.IncludedGroups,
		"skipped_groups":     stats.SkippedGroups,
		"over_budget_newest": stats.OverBudgetNewest,
	})
	if stats.OverBudgetNewest {
		return nil, fmt.Errorf("windowing: newest exchange exceeds MCPCHAT_TOKEN_BUDGET; raise the budget")
	}
	return window, nil
}

// tokenBudget reads the optional MCPCHAT_TOKEN_BUDGET; unset means no
// windowing, a malformed value is an error rather than a silent default.
func tokenBudget() (int, error) {
	v := os.Getenv("MCPCHAT_TOKEN_BUDGET")
	if v == "" {
		return 0, nil
	}
	budget, err := strconv.Atoi(v)
	if err != nil || budget <= 0 {
		return 0, fmt.Errorf("invalid MCPCHAT_TOKEN_BUDGET %q: want a positive integer", v)
	}
	return budget, nil
}

// toolErrorMessage keeps the underlying failure description when the invoker
// classified the error, so the model sees "disk unavailable" rather than the
// wrapper prose.
func toolErrorMessage(err error) string {
	var te *mcperr.ToolError
	if errors.As(err, &te) && te.Err != nil {
		return te.Err.Error()
	}
	return err.Error()
}
