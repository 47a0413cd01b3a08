// Package mcpserver provides an MCP (Model Context Protocol) server that
// exposes one owner's LifeMirror data to LLM clients over stdio.
package mcpserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/lifemirror/lifemirror/internal/apperr"
	"github.com/lifemirror/lifemirror/internal/dashboard"
	"github.com/lifemirror/lifemirror/internal/lifescore"
	"github.com/lifemirror/lifemirror/internal/models"
	"github.com/lifemirror/lifemirror/internal/service"
)

// Server wraps the MCP server with LifeMirror tools bound to a single owner.
type Server struct {
	mcp   *server.MCPServer
	svc   *service.Services
	agg   *dashboard.Aggregator
	owner string
}

// New creates an MCP server acting as owner.
func New(svc *service.Services, agg *dashboard.Aggregator, owner string) *Server {
	s := &Server{svc: svc, agg: agg, owner: owner}

	s.mcp = server.NewMCPServer(
		"LifeMirror",
		"1.0.0",
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("get_dashboard",
		mcp.WithDescription("Tasks, bills, vault items, fitness logs and mood logs in one snapshot. "+
			"When nothing is logged for today the first mood log is an unsaved placeholder."),
	), s.getDashboard)

	s.mcp.AddTool(mcp.NewTool("get_life_score",
		mcp.WithDescription("Life score (0-100) with its five sub-scores. "+
			"See the "+ScoreFormulaURI+" resource for the formula."),
	), s.getLifeScore)

	s.mcp.AddTool(mcp.NewTool("list_tasks",
		mcp.WithDescription("List tasks ordered by date."),
		mcp.WithString("date", mcp.Description("Only tasks on this date (YYYY-MM-DD)")),
		mcp.WithBoolean("pending_only", mcp.Description("Hide completed tasks")),
	), s.listTasks)

	s.mcp.AddTool(mcp.NewTool("add_task",
		mcp.WithDescription("Create a task, meeting or holiday."),
		mcp.WithString("text", mcp.Required(), mcp.Description("What needs doing")),
		mcp.WithString("date", mcp.Description("YYYY-MM-DD, defaults to today")),
		mcp.WithString("priority", mcp.Enum(models.PriorityLow, models.PriorityMedium, models.PriorityHigh, models.PriorityMeeting, models.PriorityHoliday)),
		mcp.WithString("type", mcp.Enum(models.TaskTypeTask, models.TaskTypeMeeting, models.TaskTypeHoliday)),
	), s.addTask)

	s.mcp.AddTool(mcp.NewTool("log_mood",
		mcp.WithDescription("Record the mood for a date. Updates the day's draft if one exists. "+
			"Set final to lock the day; a finalized day cannot be finalized again."),
		mcp.WithNumber("mood", mcp.Required(), mcp.Min(0), mcp.Max(models.MaxMood), mcp.Description("0 (awful) to 4 (great)")),
		mcp.WithNumber("stress", mcp.Min(0), mcp.Max(100), mcp.Description("0 to 100")),
		mcp.WithString("note", mcp.Description("Free-form note")),
		mcp.WithString("date", mcp.Description("YYYY-MM-DD, defaults to today")),
		mcp.WithBoolean("final", mcp.Description("Finalize the day's mood")),
	), s.logMood)

	s.mcp.AddTool(mcp.NewTool("check_habit",
		mcp.WithDescription("Toggle a habit check-in. Checking a checked date un-checks it."),
		mcp.WithString("habit", mcp.Required(), mcp.Description("Habit id or exact name")),
		mcp.WithString("date", mcp.Description("YYYY-MM-DD, defaults to today")),
	), s.checkHabit)

	s.mcp.AddTool(mcp.NewTool("add_savings_funds",
		mcp.WithDescription("Add money to a savings goal. Amount must be positive."),
		mcp.WithString("goal", mcp.Required(), mcp.Description("Savings goal id or exact name")),
		mcp.WithNumber("amount", mcp.Required(), mcp.Description("Amount to add")),
	), s.addSavingsFunds)

	s.mcp.AddResource(
		mcp.NewResource(ScoreFormulaURI, "Life Score Formula",
			mcp.WithResourceDescription("How the life score and its sub-scores are computed."),
			mcp.WithMIMEType("text/markdown"),
		),
		s.readScoreFormula,
	)

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}

// MCPServer returns the underlying server for testing.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

func (s *Server) getDashboard(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	snap, err := s.agg.Snapshot(ctx, s.owner)
	if err != nil {
		return toolError(err), nil
	}
	return jsonResult(snap)
}

func (s *Server) getLifeScore(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	snap, err := s.agg.Snapshot(ctx, s.owner)
	if err != nil {
		return toolError(err), nil
	}
	return jsonResult(struct {
		Date string `json:"date"`
		lifescore.Score
	}{Date: snap.Date, Score: lifescore.Compute(snap, snap.Date)})
}

func (s *Server) listTasks(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	date := req.GetString("date", "")
	pendingOnly := req.GetBool("pending_only", false)

	tasks, err := s.svc.Tasks.List(ctx, s.owner)
	if err != nil {
		return toolError(err), nil
	}
	out := make([]models.Task, 0, len(tasks))
	for _, t := range tasks {
		if date != "" && t.Date != date {
			continue
		}
		if pendingOnly && t.Completed {
			continue
		}
		out = append(out, t)
	}
	return jsonResult(out)
}

func (s *Server) addTask(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	text, err := req.RequireString("text")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	t, err := s.svc.Tasks.Create(ctx, s.owner, models.TaskInput{
		Text:     text,
		Date:     req.GetString("date", s.agg.Today()),
		Priority: req.GetString("priority", ""),
		Type:     req.GetString("type", ""),
	})
	if err != nil {
		return toolError(err), nil
	}
	return jsonResult(t)
}

func (s *Server) logMood(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	mood, err := req.RequireInt("mood")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	in := models.MoodLogInput{
		Date:    req.GetString("date", s.agg.Today()),
		Mood:    &mood,
		IsFinal: req.GetBool("final", false),
	}
	if _, ok := req.GetArguments()["note"]; ok {
		note := req.GetString("note", "")
		in.Note = &note
	}
	if _, ok := req.GetArguments()["stress"]; ok {
		stress := req.GetInt("stress", models.DefaultStress)
		in.Stress = &stress
	}

	m, created, err := s.svc.Moods.Upsert(ctx, s.owner, in)
	if err != nil {
		return toolError(err), nil
	}
	return jsonResult(struct {
		Created bool `json:"created"`
		models.MoodLog
	}{Created: created, MoodLog: m})
}

func (s *Server) checkHabit(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	ref, err := req.RequireString("habit")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	habits, err := s.svc.Habits.List(ctx, s.owner)
	if err != nil {
		return toolError(err), nil
	}
	id, err := resolve(habits, ref, "habit", func(h models.Habit) (string, string) { return h.ID, h.Name })
	if err != nil {
		return toolError(err), nil
	}
	h, err := s.svc.Habits.Check(ctx, s.owner, id, models.HabitCheck{Date: req.GetString("date", "")})
	if err != nil {
		return toolError(err), nil
	}
	return jsonResult(h)
}

func (s *Server) addSavingsFunds(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	ref, err := req.RequireString("goal")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	amount, err := req.RequireFloat("amount")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	goals, err := s.svc.Savings.List(ctx, s.owner)
	if err != nil {
		return toolError(err), nil
	}
	id, err := resolve(goals, ref, "savings goal", func(g models.SavingsGoal) (string, string) { return g.ID, g.Name })
	if err != nil {
		return toolError(err), nil
	}
	g, err := s.svc.Savings.AddFunds(ctx, s.owner, id, models.FundsInput{Amount: amount})
	if err != nil {
		return toolError(err), nil
	}
	return jsonResult(g)
}

func (s *Server) readScoreFormula(_ context.Context, _ mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      ScoreFormulaURI,
			MIMEType: "text/markdown",
			Text:     ScoreFormula,
		},
	}, nil
}

// resolve finds the record whose id or name equals ref. Names must be unique
// to be used as a reference.
func resolve[T any](items []T, ref, kind string, key func(T) (id, name string)) (string, error) {
	var byName []string
	for _, item := range items {
		id, name := key(item)
		if id == ref {
			return id, nil
		}
		if strings.EqualFold(name, ref) {
			byName = append(byName, id)
		}
	}
	switch len(byName) {
	case 0:
		return "", fmt.Errorf("%s %q: %w", kind, ref, apperr.ErrNotFound)
	case 1:
		return byName[0], nil
	default:
		return "", fmt.Errorf("%s name %q is ambiguous, use the id: %w", kind, ref, apperr.ErrConflict)
	}
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(string(out)), nil
}

// toolError renders err as a tool-level error result.
func toolError(err error) *mcp.CallToolResult {
	var verrs validation.Errors
	if errors.Is(err, apperr.ErrInvalid) && errors.As(err, &verrs) {
		fields := make([]string, 0, len(verrs))
		for field, ferr := range verrs {
			fields = append(fields, field+": "+ferr.Error())
		}
		sort.Strings(fields)
		return mcp.NewToolResultError("invalid input: " + strings.Join(fields, "; "))
	}
	return mcp.NewToolResultError(err.Error())
}
