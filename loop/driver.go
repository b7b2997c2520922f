package loop

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/tidwall/sjson"
	"go.uber.org/zap"

	"github.com/petasbytes/agent-tools/analyze"
	"github.com/petasbytes/agent-tools/followup"
	"github.com/petasbytes/agent-tools/internal/telemetry"
	"github.com/petasbytes/agent-tools/llm"
	"github.com/petasbytes/agent-tools/memory"
	"github.com/petasbytes/agent-tools/parse"
	"github.com/petasbytes/agent-tools/tools"
)

// ErrTurnLimit is returned when MaxTurns elapsed without reaching a
// COMPLETED classification or an empty follow-up.
var ErrTurnLimit = errors.New("loop: turn limit reached")

// Config wires the collaborators of a Driver. All components are required;
// MaxTurns must be positive — the core components are bound-free, so the
// driver is where the caller imposes the iteration limit.
type Config struct {
	Service   *llm.Service
	Registry  *tools.Registry
	Parser    parse.Parser
	Analyzer  analyze.Analyzer
	Generator followup.Generator
	MaxTurns  int

	// PersistPath, when non-empty, saves the history after every turn.
	PersistPath string
	Logger      *zap.Logger

	// OnTurn, when set, observes each completed turn as it is appended.
	OnTurn func(memory.Turn)
}

// Driver runs the extraction/dispatch/judgment loop: call the model, parse
// the reply, execute at most one tool call, classify, and either stop or
// send the generated follow-up. Turns are strictly sequential.
type Driver struct {
	cfg Config
	log *zap.Logger
}

// New validates cfg and returns a Driver.
func New(cfg Config) (*Driver, error) {
	switch {
	case cfg.Service == nil:
		return nil, fmt.Errorf("loop: Service is required")
	case cfg.Registry == nil:
		return nil, fmt.Errorf("loop: Registry is required")
	case cfg.Parser == nil:
		return nil, fmt.Errorf("loop: Parser is required")
	case cfg.Analyzer == nil:
		return nil, fmt.Errorf("loop: Analyzer is required")
	case cfg.Generator == nil:
		return nil, fmt.Errorf("loop: Generator is required")
	case cfg.MaxTurns <= 0:
		return nil, fmt.Errorf("loop: MaxTurns must be positive")
	}
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return &Driver{cfg: cfg, log: log}, nil
}

// Run drives the conversation starting from initial and returns the full
// history. It stops on COMPLETED, on an absent follow-up, on a transport
// failure (the error is returned alongside the history so far), or with
// ErrTurnLimit when MaxTurns is exhausted.
func (d *Driver) Run(ctx context.Context, initial string) ([]memory.Turn, error) {
	var history []memory.Turn
	prompt := initial

	for turn := 0; turn < d.cfg.MaxTurns; turn++ {
		turnID := uuid.NewString()
		tctx := telemetry.WithTurnID(ctx, turnID)
		telemetry.Emit("turn_started", map[string]any{
			"turn_id": turnID,
			"turn":    turn,
		})

		raw, err := d.cfg.Service.Chat(tctx, prompt)
		if err != nil {
			return history, fmt.Errorf("loop: transport: %w", err)
		}

		parsed := d.cfg.Parser.Parse(raw)
		d.log.Debug("parsed assistant reply",
			zap.String("turn_id", turnID),
			zap.Int("tool_calls", len(parsed.ToolCalls)))

		toolReport := ""
		if len(parsed.ToolCalls) > 0 {
			call := parsed.ToolCalls[0]
			res := d.cfg.Registry.Dispatch(tctx, call.ToolName, call.Parameters)
			telemetry.Emit("tool_exec", map[string]any{
				"turn_id":   turnID,
				"tool_name": call.ToolName,
				"success":   res.Success,
				"error":     res.Error,
			})
			if !res.Success {
				d.log.Warn("tool call failed",
					zap.String("tool", call.ToolName),
					zap.String("error", res.Error))
			}
			toolReport = foldToolResult(call.ToolName, res)
		}

		history = append(history, memory.Turn{User: prompt, Assistant: raw})
		if d.cfg.OnTurn != nil {
			d.cfg.OnTurn(history[len(history)-1])
		}
		d.persist(history)

		status := d.cfg.Analyzer.Analyze(tctx, history, raw)
		telemetry.Emit("turn_completed", map[string]any{
			"turn_id": turnID,
			"status":  string(status),
		})
		if status == analyze.StatusCompleted {
			return history, nil
		}

		next, ok := d.cfg.Generator.Generate(tctx, status, history, raw)
		if !ok {
			return history, nil
		}
		// Failed and successful tool results alike are reported into the
		// next turn's context so the assistant can react to them.
		if toolReport != "" {
			next = toolReport + "\n\n" + next
		}
		prompt = next
	}
	return history, ErrTurnLimit
}

func (d *Driver) persist(history []memory.Turn) {
	if d.cfg.PersistPath == "" {
		return
	}
	if err := memory.SaveConversation(d.cfg.PersistPath, history); err != nil {
		d.log.Warn("failed to persist conversation", zap.Error(err))
	}
}

// foldToolResult renders a dispatch result as a fenced json report for the
// next turn's context.
func foldToolResult(name string, res tools.Result) string {
	line, err := sjson.Set("", "tool", name)
	if err != nil {
		return fmt.Sprintf("Tool %s produced an unreportable result: %v", name, err)
	}
	line, _ = sjson.Set(line, "success", res.Success)
	if res.Success {
		line, _ = sjson.Set(line, "result", res.Result)
	} else {
		line, _ = sjson.Set(line, "error", res.Error)
		if res.Details != nil {
			line, _ = sjson.Set(line, "details", res.Details)
		}
	}
	return "Tool execution report:\n```json\n" + line + "\n```"
}
