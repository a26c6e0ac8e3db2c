package mcp

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/claude/fittrack/internal/exercise"
	"github.com/claude/fittrack/internal/workout"
)

// --- Tool definitions ---

var toolListExercises = mcp.NewTool("list_exercises",
	mcp.WithDescription("List catalog exercises. Filters apply in order: category (exact, any case), then name substring, then an optional stable sort."),
	mcp.WithString("category", mcp.Description("Only exercises in this category (e.g. Strength, Cardio, Core)")),
	mcp.WithString("search", mcp.Description("Case-insensitive substring of the exercise name")),
	mcp.WithString("sort", mcp.Description("Field to sort by. Defaults to name order."), mcp.Enum(exercise.Keys...)),
)

var toolGetExercise = mcp.NewTool("get_exercise",
	mcp.WithDescription("Look up one exercise by name (any case)."),
	mcp.WithString("name", mcp.Required(), mcp.Description("Exercise name")),
)

var toolAddExercise = mcp.NewTool("add_exercise",
	mcp.WithDescription("Add an exercise to the catalog. Fails if the name exists in any casing."),
	mcp.WithString("name", mcp.Required(), mcp.Description("Unique exercise name")),
	mcp.WithString("muscle_group", mcp.Description("Muscle group. Defaults to General.")),
	mcp.WithNumber("sets", mcp.Description("Number of sets. Defaults to 1.")),
	mcp.WithNumber("reps", mcp.Description("Repetitions per set. Defaults to 1.")),
	mcp.WithNumber("duration", mcp.Description("Duration in minutes, not negative. Defaults to 0."), mcp.Min(0)),
	mcp.WithNumber("difficulty", mcp.Description("Difficulty from 1 to 10. Defaults to 1."), mcp.Min(1), mcp.Max(10)),
	mcp.WithString("category", mcp.Description("Category. Defaults to General.")),
)

var toolEditExercise = mcp.NewTool("edit_exercise",
	mcp.WithDescription("Overwrite the given fields of an existing exercise. Omitted fields are left unchanged. Values are stored as given."),
	mcp.WithString("name", mcp.Required(), mcp.Description("Current exercise name")),
	mcp.WithString("new_name", mcp.Description("Rename the exercise")),
	mcp.WithString("muscle_group", mcp.Description("New muscle group")),
	mcp.WithNumber("sets", mcp.Description("New number of sets")),
	mcp.WithNumber("reps", mcp.Description("New repetitions per set")),
	mcp.WithNumber("duration", mcp.Description("New duration in minutes")),
	mcp.WithNumber("difficulty", mcp.Description("New difficulty")),
	mcp.WithString("category", mcp.Description("New category")),
)

var toolDeleteExercise = mcp.NewTool("delete_exercise",
	mcp.WithDescription("Remove an exercise from the catalog. Routine entries already queued are kept."),
	mcp.WithString("name", mcp.Required(), mcp.Description("Exercise name")),
)

var toolAddToRoutine = mcp.NewTool("add_to_routine",
	mcp.WithDescription("Append a catalog exercise to the end of today's routine. The same exercise may be queued more than once."),
	mcp.WithString("name", mcp.Required(), mcp.Description("Exercise name")),
)

var toolGetRoutine = mcp.NewTool("get_routine",
	mcp.WithDescription("List today's routine, next exercise first."),
)

var toolCompleteNext = mcp.NewTool("complete_next_exercise",
	mcp.WithDescription("Mark the next routine exercise complete and remove it from the routine."),
)

var toolClearRoutine = mcp.NewTool("clear_routine",
	mcp.WithDescription("Remove every exercise from today's routine. The catalog is untouched."),
)

// fieldArgs copies the record fields present in args. Unknown keys are dropped.
func fieldArgs(args map[string]any) exercise.Fields {
	f := exercise.Fields{}
	for _, k := range exercise.Keys {
		if v, ok := args[k]; ok {
			f[k] = v
		}
	}
	return f
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	result, err := mcp.NewToolResultJSON(v)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

// --- Tool handlers ---

func (h *handlers) listExercises(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	list, err := h.b.ListExercises(ctx, workout.ListOptions{
		SortKey:  req.GetString("sort", ""),
		Category: req.GetString("category", ""),
		Search:   req.GetString("search", ""),
	})
	if err != nil {
		return mcp.NewToolResultError("list failed: " + err.Error()), nil
	}
	return jsonResult(list)
}

func (h *handlers) getExercise(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := req.RequireString("name")
	if err != nil {
		return mcp.NewToolResultError("name parameter is required"), nil
	}
	rec, err := h.b.GetExercise(ctx, name)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(rec)
}

func (h *handlers) addExercise(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if _, err := req.RequireString("name"); err != nil {
		return mcp.NewToolResultError("name parameter is required"), nil
	}
	rec, err := h.b.AddExercise(ctx, fieldArgs(req.GetArguments()))
	if err != nil {
		h.log.Info("mcp add_exercise rejected", "error", err)
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(rec)
}

func (h *handlers) editExercise(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := req.RequireString("name")
	if err != nil {
		return mcp.NewToolResultError("name parameter is required"), nil
	}

	args := req.GetArguments()
	f := fieldArgs(args)
	delete(f, exercise.FieldName)
	if newName, ok := args["new_name"]; ok {
		f[exercise.FieldName] = newName
	}
	if len(f) == 0 {
		return mcp.NewToolResultError("nothing to change: pass at least one field"), nil
	}

	rec, err := h.b.EditExercise(ctx, name, f)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(rec)
}

func (h *handlers) deleteExercise(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := req.RequireString("name")
	if err != nil {
		return mcp.NewToolResultError("name parameter is required"), nil
	}
	rec, err := h.b.DeleteExercise(ctx, name)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(rec)
}

func (h *handlers) addToRoutine(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := req.RequireString("name")
	if err != nil {
		return mcp.NewToolResultError("name parameter is required"), nil
	}
	if _, err := h.b.AddToRoutine(ctx, name); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	routine, err := h.b.Routine(ctx)
	if err != nil {
		h.log.Error("mcp add_to_routine", "error", err)
		return mcp.NewToolResultError("routine query failed: " + err.Error()), nil
	}
	return jsonResult(routine)
}

func (h *handlers) getRoutine(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	routine, err := h.b.Routine(ctx)
	if err != nil {
		h.log.Error("mcp get_routine", "error", err)
		return mcp.NewToolResultError("routine query failed: " + err.Error()), nil
	}
	return jsonResult(routine)
}

func (h *handlers) completeNext(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	rec, err := h.b.CompleteNext(ctx)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(map[string]any{"completed": rec})
}

func (h *handlers) clearRoutine(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if err := h.b.ClearRoutine(ctx); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText("routine cleared"), nil
}
