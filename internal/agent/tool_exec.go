package agent

import (
	"context"
	"fmt"

	"github.com/sourcegraph/conc/pool"

	"github.com/bpolitiadis/fanvise-sub000/internal/llm"
	"github.com/bpolitiadis/fanvise-sub000/internal/tools"
)

// toolSpecs adapts the registry's tools to the shape a Provider needs.
func toolSpecs(registry *tools.Registry) []llm.ToolSpec {
	all := registry.All()
	out := make([]llm.ToolSpec, 0, len(all))
	for _, t := range all {
		out = append(out, llm.ToolSpec{
			Name:        t.Name,
			Description: t.Description,
			InputSchema: t.InputSchema,
		})
	}
	return out
}

type toolResult struct {
	index   int
	message llm.Message
}

// executeToolCalls runs every tool call from one LLM turn concurrently
// via a conc pool (one goroutine per call, no limit), preserving request order in the returned
// messages (SPEC_FULL.md's same-turn parallel tool execution). Each
// call is routed through the Context-Aware Tool Node first.
func executeToolCalls(ctx context.Context, registry *tools.Registry, calls []llm.ToolCall, teamID, leagueID *string) []llm.Message {
	p := pool.NewWithResults[toolResult]().WithContext(ctx)
	for i, call := range calls {
		i, call := i, call
		p.Go(func(ctx context.Context) (toolResult, error) {
			args := registry.InjectContext(call.Name, call.Arguments, teamID, leagueID)
			content, err := registry.Invoke(ctx, call.Name, args)
			if err != nil {
				content = fmt.Sprintf(`{"error": %q}`, err.Error())
			}
			return toolResult{
				index: i,
				message: llm.Message{
					Role:       llm.RoleTool,
					Content:    content,
					ToolCallID: call.ID,
				},
			}, nil
		})
	}
	results, _ := p.Wait()
	out := make([]llm.Message, len(calls))
	for _, r := range results {
		out[r.index] = r.message
	}
	return out
}
